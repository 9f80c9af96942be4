package cli

import (
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func TestLoadYAML(t *testing.T) {
	src := `
log-level: debug
log_pretty: false
log:
  format: json
year: 2023
precision: 3.5
source: [a.txt, b.txt]
expr: null
`

	res, err := loadYAML(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}

	conf, ok := res.(config)
	if !ok {
		t.Fatalf("loadYAML() = %T, want config", res)
	}

	want := map[string]any{
		"log-level":  "debug",
		"log-pretty": false,
		"log-format": "json",
		"year":       "2023",
		"precision":  "3.5",
		"source":     "a.txt,b.txt",
		"expr":       nil,
	}

	if len(conf) != len(want) {
		t.Errorf("loadYAML() has %d keys, want %d: %v", len(conf), len(want), conf)
	}

	for k, v := range want {
		got, ok := conf[k]
		if !ok {
			t.Errorf("missing key %q", k)

			continue
		}

		if got != v {
			t.Errorf("conf[%q] = %#v, want %#v", k, got, v)
		}
	}
}

func TestLoadYAML_Invalid(t *testing.T) {
	for name, src := range map[string]string{
		"empty":    "",
		"garbage":  "log-level: [unterminated",
		"sequence": "- a\n- b\n",
	} {
		t.Run(name, func(t *testing.T) {
			res, err := loadYAML(strings.NewReader(src))
			if err != nil {
				t.Fatalf("loadYAML() error = %v", err)
			}

			if conf := res.(config); len(conf) != 0 {
				t.Errorf("loadYAML() = %v, want empty", conf)
			}
		})
	}
}

func TestLoadYAML_Kong(t *testing.T) {
	var cli struct {
		Year   int      `default:"0"`
		Format string   `default:"text" enum:"text,json"`
		Source []string `short:"s"`
	}

	res, err := loadYAML(strings.NewReader("year: 1999\nformat: json\nsource: [x, y]\n"))
	if err != nil {
		t.Fatal(err)
	}

	parser, err := kong.New(&cli, kong.Resolvers(res))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := parser.Parse([]string{"--year=2001"}); err != nil {
		t.Fatal(err)
	}

	if cli.Year != 2001 {
		t.Errorf("Year = %d, want 2001 from the command line", cli.Year)
	}

	if cli.Format != "json" {
		t.Errorf("Format = %q, want json from the config", cli.Format)
	}

	if len(cli.Source) != 2 || cli.Source[0] != "x" || cli.Source[1] != "y" {
		t.Errorf("Source = %v, want [x y]", cli.Source)
	}
}
