package filter

import (
	"regexp"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/williamokano/oss_uploader/pkg/errdefs"
)

func TestApplyExclude(t *testing.T) {
	assets := map[string]string{"a.js": "x", "a.js.map": "y"}

	got, err := ApplyExclude(assets, regexp.MustCompile(`\.map$`), zerolog.Nop())

	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a.js": "x"}, got)
	assert.Len(t, assets, 2, "input must not be modified")
}

func TestApplyInclude(t *testing.T) {
	assets := map[string]string{"dist/a.js": "x", "other/b.js": "y"}

	got, err := ApplyInclude(assets, regexp.MustCompile(`^dist/`), zerolog.Nop())

	require.NoError(t, err)
	assert.Equal(t, map[string]string{"dist/a.js": "x"}, got)
}

func TestNilPatternIsIdentity(t *testing.T) {
	assets := map[string][]byte{"a.js": []byte("x")}

	excluded, err := ApplyExclude(assets, nil, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, assets, excluded)

	included, err := ApplyInclude(assets, nil, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, assets, included)

	var typedNil *regexp.Regexp
	included, err = ApplyInclude(assets, typedNil, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, assets, included)
}

func TestNilAssetsRejected(t *testing.T) {
	_, err := ApplyExclude[string](nil, regexp.MustCompile(`x`), zerolog.Nop())
	assert.ErrorIs(t, err, errdefs.ErrValidation)

	_, err = ApplyInclude[string](nil, regexp.MustCompile(`x`), zerolog.Nop())
	assert.ErrorIs(t, err, errdefs.ErrValidation)
}

func TestEmptyAssetsPassThrough(t *testing.T) {
	got, err := ApplyExclude(map[string]string{}, regexp.MustCompile(`x`), zerolog.Nop())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestApply_ExcludeRunsBeforeInclude(t *testing.T) {
	assets := map[string]string{
		"dist/a.js":     "a",
		"dist/a.js.map": "a-map",
		"other/b.js":    "b",
	}
	exclude := regexp.MustCompile(`\.map$`)
	include := regexp.MustCompile(`^dist/`)

	got, err := Apply(assets, exclude, include, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"dist/a.js": "a"}, got)

	// an exclude rule always wins over an include rule matching the same key
	got, err = Apply(assets, regexp.MustCompile(`^dist/a\.js$`), include, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"dist/a.js.map": "a-map"}, got)
}
