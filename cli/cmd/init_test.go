package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// initContext parses args against a CLI carrying the shared options and
// returns a context for running Init against confPath.
func initContext(t *testing.T, confPath string, args ...string) context.Context {
	t.Helper()

	var cli struct {
		Options `embed:""`

		Hidden    string `hidden:""`
		PprofMode string `name:"pprof-mode"`
	}

	parser, err := kong.New(&cli, kong.Vars{ConfigIdentifier: confPath})
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		t.Fatal(err)
	}

	return WithContext(context.Background(), ktx)
}

func TestInitRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		force   bool
		exists  bool
		wantErr bool
	}{
		{"create_new_config", false, false, false},
		{"overwrite_existing_with_force", true, true, false},
		{"fail_without_force", false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			confPath := filepath.Join(t.TempDir(), "config.yaml")

			if tt.exists {
				if err := os.WriteFile(confPath, []byte("existing: content\n"), 0o600); err != nil {
					t.Fatal(err)
				}
			}

			ctx := initContext(t, confPath, "--year=2023", "-o", "json", "--hidden=x", "--pprof-mode=cpu")

			err := (&Init{Force: tt.force}).Run(ctx)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Init.Run() error = %v, wantErr %v", err, tt.wantErr)
			}

			if tt.wantErr {
				if !errors.Is(err, ErrFileExists) {
					t.Errorf("Init.Run() error = %v, want %v", err, ErrFileExists)
				}

				return
			}

			content, err := os.ReadFile(confPath)
			if err != nil {
				t.Fatal(err)
			}

			var got map[string]any
			if err := yaml.Unmarshal(content, &got); err != nil {
				t.Fatalf("generated config is not YAML: %v\n%s", err, content)
			}

			want := map[string]string{
				"year":      "2023",
				"precision": "-1",
				"format":    "json",
				"cache":     "4096",
			}

			for k, v := range want {
				if s := fmt.Sprint(got[k]); s != v {
					t.Errorf("config[%q] = %s, want %s", k, s, v)
				}
			}

			for _, k := range []string{"help", "hidden", "pprof-mode", "expr"} {
				if _, ok := got[k]; ok {
					t.Errorf("config contains %q", k)
				}
			}
		})
	}
}

func TestConfigValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		val  any
		want any
	}{
		{"nil", nil, nil},
		{"bool", true, true},
		{"int", 5, 5},
		{"string", "text", "text"},
		{"empty_string", "", nil},
		{"strings", []string{"a"}, []string{"a"}},
		{"empty_strings", []string{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := configValue(tt.val)

			if ss, ok := tt.want.([]string); ok {
				if gs, ok := got.([]string); !ok || len(gs) != len(ss) || gs[0] != ss[0] {
					t.Errorf("configValue(%v) = %v, want %v", tt.val, got, tt.want)
				}

				return
			}

			if got != tt.want {
				t.Errorf("configValue(%v) = %v, want %v", tt.val, got, tt.want)
			}
		})
	}
}
