package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/williamokano/oss_uploader/pkg/build"
	"github.com/williamokano/oss_uploader/pkg/config"
	"github.com/williamokano/oss_uploader/pkg/logger"
	"github.com/williamokano/oss_uploader/pkg/plugin"
	"github.com/williamokano/oss_uploader/pkg/storage"

	// Storage providers register themselves with the factory
	_ "github.com/williamokano/oss_uploader/pkg/storage/azblob"
	_ "github.com/williamokano/oss_uploader/pkg/storage/backblaze"
	_ "github.com/williamokano/oss_uploader/pkg/storage/gcs"
	_ "github.com/williamokano/oss_uploader/pkg/storage/local"
	_ "github.com/williamokano/oss_uploader/pkg/storage/s3"
	_ "github.com/williamokano/oss_uploader/pkg/storage/ssh"
)

var (
	appVersion = "dev"
	commitHash = "dev"
)

type flags struct {
	configFile string
	dir        string
	publicPath string
	logLevel   string
	logFormat  string
}

func (f *flags) newFlagSet(withUpload bool) *pflag.FlagSet {
	fs := pflag.NewFlagSet("oss_uploader", pflag.ExitOnError)
	fs.SortFlags = false

	fs.StringVarP(&f.configFile, "config", "c", "./oss_uploader.json", "Path to the JSON configuration file.")
	if withUpload {
		fs.StringVarP(&f.dir, "dir", "d", "./dist", "Build output directory to upload.")
		fs.StringVarP(&f.publicPath, "public-path", "p", "",
			"Public path the assets are served under, e.g. https://cdn.example.com/static/.\n"+
				"Remote keys are the asset paths joined under the path part of it.")
	}
	fs.StringVar(&f.logLevel, "log-level", "", "Log level: debug, info, warn, error. Overrides logLevel from the config.")
	fs.StringVar(&f.logFormat, "log-format", "", "Log format: json, console. Overrides logFormat from the config.")

	return fs
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "oss_uploader",
		Short:         "Upload build output to object storage",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newUploadCmd(), newValidateCmd(), newVersionCmd())
	return rootCmd
}

func newUploadCmd() *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload an output directory through the after-emit hook",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUpload(cmd.Context(), f)
		},
	}
	cmd.Flags().AddFlagSet(f.newFlagSet(true))
	return cmd
}

func newValidateCmd() *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a configuration file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger.Init(f.logLevel, f.logFormat)
			log := logger.Get()

			cfg, err := config.ParseConfig(f.configFile)
			if err != nil {
				log.Error().Err(err).Str("config_file", f.configFile).Msg("invalid configuration")
				return err
			}

			log.Info().
				Str("config_file", f.configFile).
				Str("provider", cfg.GetProvider()).
				Str("bucket", cfg.Bucket).
				Bool("silent", cfg.IsSilent).
				Msg("configuration is valid")
			return nil
		},
	}
	cmd.Flags().AddFlagSet(f.newFlagSet(false))
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "oss_uploader %s (commit %s)\n", appVersion, commitHash)
			fmt.Fprintf(cmd.OutOrStdout(), "providers: %v\n", storage.Providers())
		},
	}
}

func runUpload(ctx context.Context, f *flags) error {
	// Bootstrap logging so config errors are visible, then apply the config's choice
	logger.Init(f.logLevel, f.logFormat)
	log := logger.Get()

	cfg, err := config.ParseConfig(f.configFile)
	if err != nil {
		log.Error().Err(err).Str("config_file", f.configFile).Msg("failed to load configuration")
		return err
	}

	level, format := cfg.GetLogLevel(), cfg.GetLogFormat()
	if f.logLevel != "" {
		level = f.logLevel
	}
	if f.logFormat != "" {
		format = f.logFormat
	}
	logger.Init(level, format)
	log = logger.Get()

	dir, err := filepath.Abs(f.dir)
	if err != nil {
		return fmt.Errorf("failed to resolve output dir: %w", err)
	}

	log.Info().
		Str("config_file", f.configFile).
		Str("dir", dir).
		Str("public_path", f.publicPath).
		Str("provider", cfg.GetProvider()).
		Msg("starting oss_uploader")

	assets, err := build.ScanDir(dir)
	if err != nil {
		log.Error().Err(err).Str("dir", dir).Msg("failed to scan output dir")
		return err
	}

	p, err := plugin.New(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("failed to create plugin")
		return err
	}
	defer func() {
		if err := p.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close storage client")
		}
	}()

	compiler := build.NewCompiler(build.OutputOptions{Path: dir, PublicPath: f.publicPath}, *log).Use(p)
	if err := compiler.Emit(ctx, assets); err != nil {
		log.Error().Err(err).Msg("upload failed")
		return err
	}

	log.Info().Msg("oss_uploader completed successfully")
	return nil
}
