package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestUserDir(t *testing.T) {
	found := func(dir string) func() (string, error) {
		return func() (string, error) { return dir, nil }
	}
	missing := func() (string, error) { return "", errors.New("unset") }

	tests := []struct {
		name string
		base func() (string, error)
		home func() (string, error)
		want string
	}{
		{"base", found("/xdg/config"), found("/home/u"), filepath.Join("/xdg/config", "sheetval")},
		{"home", missing, found("/home/u"), filepath.Join("/home/u", ".config", "sheetval")},
		{"empty base", found(""), found("/home/u"), filepath.Join("/home/u", ".config", "sheetval")},
		{"temp", missing, missing, filepath.Join(os.TempDir(), "sheetval")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := userDir(tt.base, tt.home, ".config"); got != tt.want {
				t.Errorf("userDir() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConfigFile(t *testing.T) {
	got := configFile()

	if filepath.Base(got) != "config.yaml" {
		t.Errorf("configFile() = %q, want base config.yaml", got)
	}

	if filepath.Base(filepath.Dir(got)) != "sheetval" {
		t.Errorf("configFile() = %q, want it inside a sheetval directory", got)
	}
}
