package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/williamokano/oss_uploader/pkg/errdefs"
)

// ValidateFile validates a configuration file against the JSON schema
func ValidateFile(configFile string) error {
	abs, err := filepath.Abs(configFile)
	if err != nil {
		return fmt.Errorf("failed to resolve config file: %w", err)
	}

	schemaLoader := gojsonschema.NewStringLoader(Schema)
	documentLoader := gojsonschema.NewReferenceLoader("file://" + filepath.ToSlash(abs))

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("failed to validate schema: %w", err)
	}

	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return errdefs.Config(errdefs.ComponentPlugin, "", "configuration file is not valid: %s", strings.Join(problems, "; "))
	}

	return nil
}
