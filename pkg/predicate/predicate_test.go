package predicate

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stringSource string

func (s stringSource) Source() string { return string(s) }

type errSource struct{}

func (errSource) Source() ([]byte, error) { return nil, assert.AnError }

func TestIsPlainMapping(t *testing.T) {
	assert.True(t, IsPlainMapping(map[string]any{}))
	assert.True(t, IsPlainMapping(map[string]string{"a": "b"}))
	assert.False(t, IsPlainMapping(nil))
	assert.False(t, IsPlainMapping(map[int]string{}))
	assert.False(t, IsPlainMapping([]string{"a"}))
	assert.False(t, IsPlainMapping("options"))
}

func TestIsPattern(t *testing.T) {
	var nilRe *regexp.Regexp

	assert.True(t, IsPattern(regexp.MustCompile(`\.map$`)))
	assert.False(t, IsPattern(nilRe))
	assert.False(t, IsPattern(`\.map$`))
	assert.False(t, IsPattern(42))
	assert.False(t, IsPattern(nil))
}

func TestIsNumber(t *testing.T) {
	assert.True(t, IsNumber(3))
	assert.True(t, IsNumber(float64(300000)))
	assert.False(t, IsNumber("3"))
	assert.False(t, IsNumber(nil))
}

func TestToMatcher(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		match   string
		noMatch string
		wantErr bool
	}{
		{name: "plain expression", in: `\.map$`, match: "a.js.map", noMatch: "a.js"},
		{name: "literal form", in: `/^dist\//`, match: "dist/a.js", noMatch: "other/dist/a.js"},
		{name: "literal with flags", in: `/\.MAP$/i`, match: "a.js.map", noMatch: "a.js"},
		{name: "compiled regexp", in: regexp.MustCompile(`^static/`), match: "static/a.js", noMatch: "a.js"},
		{name: "invalid expression", in: `(`, wantErr: true},
		{name: "wrong type", in: 12, wantErr: true},
		{name: "nil", in: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ToMatcher(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, m.MatchString(tt.match))
			assert.False(t, m.MatchString(tt.noMatch))
		})
	}
}

func TestContent(t *testing.T) {
	tests := []struct {
		name    string
		asset   any
		want    string
		wantErr bool
	}{
		{name: "bytes", asset: []byte("abc"), want: "abc"},
		{name: "string", asset: "abc", want: "abc"},
		{name: "string source", asset: stringSource("body{}"), want: "body{}"},
		{name: "reader", asset: strings.NewReader("stream"), want: "stream"},
		{name: "failing source", asset: errSource{}, wantErr: true},
		{name: "nil", asset: nil, wantErr: true},
		{name: "unsupported", asset: 3.14, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Content(tt.asset)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}
