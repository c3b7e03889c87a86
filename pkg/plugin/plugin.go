// Package plugin uploads a build's emitted assets to object storage once the
// build tool has written them.
//
// On every after-emit event the plugin maps each asset name to its remote key
// under the compilation's public path, drops keys matching the exclude pattern,
// keeps only keys matching the include pattern (when set), and uploads the
// survivors concurrently. Any failure fails the hook and therefore the build.
package plugin

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/williamokano/oss_uploader/pkg/build"
	"github.com/williamokano/oss_uploader/pkg/config"
	"github.com/williamokano/oss_uploader/pkg/errdefs"
	"github.com/williamokano/oss_uploader/pkg/filter"
	"github.com/williamokano/oss_uploader/pkg/logger"
	"github.com/williamokano/oss_uploader/pkg/predicate"
	"github.com/williamokano/oss_uploader/pkg/resolver"
	"github.com/williamokano/oss_uploader/pkg/storage"
	"github.com/williamokano/oss_uploader/pkg/upload"
)

// Name is the tap name registered on the after-emit hook
const Name = errdefs.ComponentPlugin

// Plugin is an after-emit uploader. It is inert when configured silent.
type Plugin struct {
	config     *config.Config
	client     storage.Client
	ownsClient bool
	uploader   *upload.Uploader
	logger     zerolog.Logger
}

// Option configures a Plugin
type Option func(*options)

type options struct {
	client    storage.Client
	logger    zerolog.Logger
	hasLogger bool
}

// WithClient uses client instead of building one from the configuration
func WithClient(client storage.Client) Option {
	return func(o *options) { o.client = client }
}

// WithLogger sets the logger used by the plugin and its uploader
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
		o.hasLogger = true
	}
}

// New creates a plugin for cfg. Unless cfg is silent, the storage client is
// created here so configuration problems surface before the build runs.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Plugin, error) {
	if cfg == nil {
		return nil, errdefs.Config(errdefs.ComponentPlugin, "", "options was required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if !o.hasLogger {
		o.logger = logger.Component(errdefs.ComponentPlugin)
	}

	p := &Plugin{config: cfg, logger: o.logger}

	if cfg.IsSilent {
		p.logger.Debug().Msg("silent mode, uploads disabled")
		return p, nil
	}

	client := o.client
	if client == nil {
		var err error
		client, err = storage.NewFactory().Create(ctx, cfg.StorageConfig())
		if err != nil {
			return nil, errdefs.Config(errdefs.ComponentPlugin, "", "failed to create storage client: %v", err)
		}
		p.ownsClient = true
	}

	p.client = client
	p.uploader = upload.New(client, p.logger.With().Str("component", errdefs.ComponentStorage).Logger(),
		upload.WithConcurrency(cfg.Concurrency),
		upload.WithRetry(cfg.GetRetryConfig()),
	)

	p.logger.Debug().
		Str("provider", client.Name()).
		Str("bucket", cfg.Bucket).
		Int("concurrency", cfg.Concurrency).
		Int("retries", cfg.Retries).
		Msg("storage client ready")

	return p, nil
}

// NewFromMap creates a plugin from options given as a mapping
func NewFromMap(ctx context.Context, options any, opts ...Option) (*Plugin, error) {
	cfg, err := config.FromMap(options)
	if err != nil {
		return nil, err
	}
	return New(ctx, cfg, opts...)
}

// Apply taps the compiler's after-emit hook
func (p *Plugin) Apply(compiler *build.Compiler) {
	if p.config.IsSilent {
		return
	}
	compiler.Hooks.AfterEmit.TapAsync(Name, p.afterEmit)
}

// Close releases the storage client if the plugin created it
func (p *Plugin) Close() error {
	if p.client == nil || !p.ownsClient {
		return nil
	}
	return p.client.Close()
}

func (p *Plugin) afterEmit(ctx context.Context, compilation *build.Compilation) error {
	start := time.Now()

	remote, err := p.remoteKeys(compilation)
	if err != nil {
		return err
	}

	kept, err := filter.Apply(remote, p.config.Exclude, p.config.Include, p.logger)
	if err != nil {
		return err
	}

	contents := make(map[string][]byte, len(kept))
	for key, asset := range kept {
		content, err := predicate.Content(asset)
		if err != nil {
			return errdefs.Validation(errdefs.ComponentPlugin, key, "failed to read asset: %v", err)
		}
		contents[key] = content
	}

	results, err := p.uploader.UploadBatch(ctx, contents)
	if err != nil {
		return err
	}

	p.logger.Info().
		Int("assets", len(compilation.Assets)).
		Int("uploaded", len(results)).
		Dur("duration", time.Since(start)).
		Msg("assets uploaded")

	return nil
}

// remoteKeys maps every emitted asset to its remote key
func (p *Plugin) remoteKeys(compilation *build.Compilation) (map[string]any, error) {
	if compilation == nil || compilation.Assets == nil {
		return nil, errdefs.Validation(errdefs.ComponentPlugin, "", "assets must not be empty or undefined")
	}

	names := make([]string, 0, len(compilation.Assets))
	for name := range compilation.Assets {
		names = append(names, name)
	}
	sort.Strings(names)

	remote := make(map[string]any, len(names))
	origin := make(map[string]string, len(names))
	for _, name := range names {
		key, err := resolver.Resolve(name, compilation.Output.PublicPath)
		if err != nil {
			return nil, err
		}
		if prev, ok := origin[key]; ok {
			return nil, errdefs.Validation(errdefs.ComponentPlugin, key, "assets %s and %s resolve to the same key", prev, name)
		}
		origin[key] = name
		remote[key] = compilation.Assets[name]
	}

	return remote, nil
}
