package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/sheetval/log"
)

// loadYAML is a [kong.ConfigurationLoader] for YAML config files such as
// the one written by the init command.
//
// Keys are flag names. Nested mappings are joined with hyphens, and
// underscores may stand in for hyphens, so these are equivalent:
//
//	log-level: debug
//	log_level: debug
//	log:
//	  level: debug
//
// Command-line flags override config file values. A file that is not valid
// YAML is ignored with a warning.
func loadYAML(r io.Reader) (kong.Resolver, error) {
	var doc map[string]any

	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if !errors.Is(err, io.EOF) {
			log.Warn("ignoring invalid configuration", slog.Any("error", err))
		}

		return config{}, nil
	}

	conf := config{}
	conf.flatten("", doc)

	return conf, nil
}

// config implements [kong.Resolver] over flattened flag values.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if v, ok := c[flag.Name]; ok {
		return v, nil
	}

	// Not found: kong uses the default.
	return nil, nil
}

// flatten stores the leaves of m under their hyphen-joined paths.
func (c config) flatten(prefix string, m map[string]any) {
	for key, val := range m {
		key = strings.ReplaceAll(key, "_", "-")
		if prefix != "" {
			key = prefix + "-" + key
		}

		if sub, ok := val.(map[string]any); ok {
			c.flatten(key, sub)

			continue
		}

		c[key] = flagValue(val)
	}
}

// flagValue converts a decoded YAML scalar or sequence to a form kong's
// mappers accept. Numbers become strings and sequences become
// comma-separated lists.
func flagValue(val any) any {
	switch v := val.(type) {
	case nil, bool, string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		elems := make([]string, len(v))
		for i, e := range v {
			elems[i] = fmt.Sprint(flagValue(e))
		}

		return strings.Join(elems, ",")
	default:
		return fmt.Sprint(v)
	}
}
