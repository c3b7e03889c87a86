// Package filter narrows the set of remote keys that get uploaded. Patterns
// are matched against the resolved remote key, not the local build name.
package filter

import (
	"github.com/rs/zerolog"

	"github.com/williamokano/oss_uploader/pkg/errdefs"
	"github.com/williamokano/oss_uploader/pkg/predicate"
)

// ApplyExclude drops every key matching pattern. A nil pattern passes assets
// through untouched.
func ApplyExclude[V any](assets map[string]V, pattern predicate.Matcher, logger zerolog.Logger) (map[string]V, error) {
	return apply(assets, pattern, false, logger)
}

// ApplyInclude keeps only keys matching pattern. A nil pattern passes assets
// through untouched.
func ApplyInclude[V any](assets map[string]V, pattern predicate.Matcher, logger zerolog.Logger) (map[string]V, error) {
	return apply(assets, pattern, true, logger)
}

// Apply runs exclude, then include.
func Apply[V any](assets map[string]V, exclude, include predicate.Matcher, logger zerolog.Logger) (map[string]V, error) {
	kept, err := ApplyExclude(assets, exclude, logger)
	if err != nil {
		return nil, err
	}
	return ApplyInclude(kept, include, logger)
}

func apply[V any](assets map[string]V, pattern predicate.Matcher, keepMatches bool, logger zerolog.Logger) (map[string]V, error) {
	if isNilMatcher(pattern) {
		return assets, nil
	}
	if assets == nil {
		return nil, errdefs.Validation(errdefs.ComponentPlugin, "", "assets must not be empty or undefined")
	}

	kept := make(map[string]V, len(assets))
	for key, value := range assets {
		if pattern.MatchString(key) != keepMatches {
			logger.Debug().Str("key", key).Bool("include", keepMatches).Msg("asset was ignored")
			continue
		}
		kept[key] = value
	}

	return kept, nil
}

func isNilMatcher(m predicate.Matcher) bool {
	if m == nil {
		return true
	}
	return !predicate.IsPattern(m)
}
