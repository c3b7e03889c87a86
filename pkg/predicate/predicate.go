// Package predicate holds the runtime discriminators used where values arrive
// without a static shape: plugin options decoded into a mapping and the asset
// values a build hands over.
package predicate

import (
	"fmt"
	"io"
	"reflect"
	"regexp"
	"strings"
)

// Matcher is anything that can test a key, typically a *regexp.Regexp.
type Matcher interface {
	MatchString(s string) bool
}

// IsPlainMapping reports whether v is a map keyed by strings.
func IsPlainMapping(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String
}

// IsPattern reports whether v can be used as a Matcher as-is.
func IsPattern(v any) bool {
	if v == nil {
		return false
	}
	if m, ok := v.(*regexp.Regexp); ok {
		return m != nil
	}
	_, ok := v.(Matcher)
	return ok
}

// IsString reports whether v is a string.
func IsString(v any) bool {
	_, ok := v.(string)
	return ok
}

// IsNumber reports whether v is one of Go's numeric kinds.
func IsNumber(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// ToMatcher coerces v into a Matcher. Strings are compiled as regular
// expressions; the literal form "/expr/flags" is accepted with the i, m and s
// flags.
func ToMatcher(v any) (Matcher, error) {
	switch p := v.(type) {
	case string:
		return compileLiteral(p)
	case *regexp.Regexp:
		if p == nil {
			return nil, fmt.Errorf("nil regular expression")
		}
		return p, nil
	case Matcher:
		return p, nil
	}
	return nil, fmt.Errorf("%T is not a regular expression", v)
}

func compileLiteral(expr string) (*regexp.Regexp, error) {
	if len(expr) > 1 && strings.HasPrefix(expr, "/") {
		if end := strings.LastIndex(expr, "/"); end > 0 {
			flags := expr[end+1:]
			if strings.Trim(flags, "ims") == "" {
				body := expr[1:end]
				if flags != "" {
					body = "(?" + flags + ")" + body
				}
				return regexp.Compile(body)
			}
		}
	}
	return regexp.Compile(expr)
}

// Sourcer is the shape a build asset normally has.
type Sourcer interface {
	Source() ([]byte, error)
}

// Content extracts the raw bytes of an asset handed over by the build tool.
func Content(asset any) ([]byte, error) {
	switch a := asset.(type) {
	case nil:
		return nil, fmt.Errorf("asset is nil")
	case Sourcer:
		return a.Source()
	case interface{ Source() []byte }:
		return a.Source(), nil
	case interface{ Source() string }:
		return []byte(a.Source()), nil
	case []byte:
		return a, nil
	case string:
		return []byte(a), nil
	case io.Reader:
		return io.ReadAll(a)
	}
	return nil, fmt.Errorf("unsupported asset type %T", asset)
}
