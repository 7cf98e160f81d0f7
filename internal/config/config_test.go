package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	full := Config{
		Prompt:       "tape> ",
		Continuation: "  ",
		History:      "/tmp/hist",
		LogLevel:     "debug",
		TimeFormat:   "%T",
		MaxCells:     30000,
		Macros:       map[string]string{"zero": "[-]", "echo": ",[.,]"},
	}
	partial := Default()
	partial.MaxCells = 10

	cases := map[string]struct {
		name    string
		content string
		want    Config
	}{
		"TOML": {"c.toml", `
prompt = "tape> "
continuation = "  "
history = " /tmp/hist "
log_level = "debug"
time_format = "%T"
max_cells = 30000

[macros]
zero = "[-]"
echo = ",[.,]"
`, full},
		"YAML": {"c.yaml", `
prompt: "tape> "
continuation: "  "
history: /tmp/hist
log_level: debug
time_format: "%T"
max_cells: 30000
macros:
  zero: "[-]"
  echo: ",[.,]"
`, full},
		"YML":         {"c.YML", "max_cells: 10\n", partial},
		"PartialTOML": {"c.toml", "max_cells = 10\n", partial},
		"EmptyTOML":   {"c.toml", "", Default()},
		"EmptyPrompt": {"c.toml", "prompt = \"\"\n", func() Config { c := Default(); c.Prompt = ""; return c }()},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := Load(write(t, c.name, c.content))
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, c.want) {
				t.Errorf("wrong config:\nwant %+v\ngot  %+v", c.want, got)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	cases := map[string]struct {
		name    string
		content string
		want    string
	}{
		"Extension":    {"c.json", "{}", "unknown format"},
		"UnknownTOML":  {"c.toml", "colour = true\n", "unknown key \"colour\""},
		"UnknownYAML":  {"c.yaml", "colour: true\n", "colour"},
		"BadTOML":      {"c.toml", "prompt = \n", "load config"},
		"BadYAML":      {"c.yaml", "prompt: [\n", "load config"},
		"WrongType":    {"c.toml", "max_cells = \"many\"\n", "load config"},
		"NegativeSize": {"c.yaml", "max_cells: -1\n", "must not be negative"},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(write(t, c.name, c.content))
			if err == nil {
				t.Fatal("no error")
			}
			if !strings.Contains(err.Error(), c.want) {
				t.Errorf("error %q does not mention %q", err, c.want)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "none.toml")); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("want not-exist error, got %v", err)
	}
}
