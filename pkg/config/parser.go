package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"reflect"

	"github.com/williamokano/oss_uploader/pkg/errdefs"
	"github.com/williamokano/oss_uploader/pkg/predicate"
)

// ParseConfig reads, validates and decodes a configuration file
func ParseConfig(configFile string) (*Config, error) {
	if err := ValidateFile(configFile); err != nil {
		return nil, err
	}

	file, err := os.Open(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	var options map[string]any
	dec := json.NewDecoder(file)
	dec.UseNumber()
	if err := dec.Decode(&options); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return FromMap(options)
}

// FromMap builds a Config from plugin options handed over as a mapping, the
// way a build script passes them. Unknown keys are ignored.
func FromMap(options any) (*Config, error) {
	if options == nil {
		return nil, errdefs.Config(errdefs.ComponentPlugin, "", "options was required")
	}
	if !predicate.IsPlainMapping(options) {
		return nil, errdefs.Config(errdefs.ComponentPlugin, "", "options must be an object, got %T", options)
	}

	d := decoder{values: toStringMap(options)}
	cfg := &Config{}

	cfg.AccessKeyID = d.required("accessKeyId")
	cfg.AccessKeySecret = d.required("accessKeySecret")
	cfg.Bucket = d.required("bucket")
	cfg.Region = d.required("region")

	cfg.Endpoint = d.str("endpoint")
	cfg.Internal = d.flag("internal")
	cfg.CNAME = d.flag("cname")
	cfg.IsRequestPay = d.flag("isRequestPay")
	if _, ok := d.lookup("secure"); ok {
		secure := d.flag("secure")
		cfg.Secure = &secure
	}
	cfg.Timeout = d.number("timeout")
	cfg.Exclude = d.pattern("exclude")
	cfg.Include = d.pattern("include")
	cfg.IsSilent = d.flag("isSilent")

	cfg.Provider = d.str("provider")
	cfg.PathStyle = d.flag("pathStyle")
	cfg.Concurrency = d.number("concurrency")
	cfg.Retries = d.number("retries")
	cfg.LogLevel = d.str("logLevel")
	cfg.LogFormat = d.str("logFormat")

	if d.err != nil {
		return nil, d.err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func toStringMap(options any) map[string]any {
	if m, ok := options.(map[string]any); ok {
		return m
	}
	rv := reflect.ValueOf(options)
	m := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		m[iter.Key().String()] = iter.Value().Interface()
	}
	return m
}

// decoder reads typed options and keeps the first error it runs into
type decoder struct {
	values map[string]any
	err    error
}

func (d *decoder) fail(field, format string, args ...any) {
	if d.err == nil {
		d.err = errdefs.Config(errdefs.ComponentPlugin, field, format, args...)
	}
}

func (d *decoder) lookup(field string) (any, bool) {
	v, ok := d.values[field]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func (d *decoder) required(field string) string {
	v, ok := d.lookup(field)
	if !ok {
		d.fail(field, "was required")
		return ""
	}
	if !predicate.IsString(v) {
		d.fail(field, "must be a string, got %T", v)
		return ""
	}
	s := v.(string)
	if s == "" {
		d.fail(field, "was required")
	}
	return s
}

func (d *decoder) str(field string) string {
	v, ok := d.lookup(field)
	if !ok {
		return ""
	}
	if !predicate.IsString(v) {
		d.fail(field, "must be a string, got %T", v)
		return ""
	}
	return v.(string)
}

func (d *decoder) flag(field string) bool {
	v, ok := d.lookup(field)
	if !ok {
		return false
	}
	b, isBool := v.(bool)
	if !isBool {
		d.fail(field, "must be a boolean, got %T", v)
	}
	return b
}

func (d *decoder) number(field string) int {
	v, ok := d.lookup(field)
	if !ok {
		return 0
	}

	var f float64
	switch n := v.(type) {
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			d.fail(field, "must be a number, got %q", n.String())
			return 0
		}
		f = parsed
	default:
		if !predicate.IsNumber(v) {
			d.fail(field, "must be a number, got %T", v)
			return 0
		}
		f = reflect.ValueOf(v).Convert(reflect.TypeOf(float64(0))).Float()
	}

	if f != math.Trunc(f) || math.IsInf(f, 0) {
		d.fail(field, "must be a whole number, got %v", f)
		return 0
	}
	return int(f)
}

func (d *decoder) pattern(field string) predicate.Matcher {
	v, ok := d.lookup(field)
	if !ok {
		return nil
	}
	m, err := predicate.ToMatcher(v)
	if err != nil {
		d.fail(field, "must be a regular expression: %v", err)
		return nil
	}
	return m
}
