package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

type initCLI struct {
	LogLevel string `default:"info"`
	Pretty   bool   `default:"true" negatable:""`
	Path     []string
	Empty    string

	Init Init `cmd:""`
}

func parseInit(t *testing.T, confPath string, args ...string) (*initCLI, *kong.Context) {
	t.Helper()

	var cli initCLI

	parser, err := kong.New(&cli,
		kong.Vars{ConfigIdentifier: confPath},
		kong.Exit(func(int) { t.Fatal("unexpected exit") }),
	)
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		t.Fatal(err)
	}

	return &cli, ktx
}

func TestInitWritesEffectiveFlags(t *testing.T) {
	confPath := filepath.Join(t.TempDir(), "config.yaml")

	cli, ktx := parseInit(t, confPath, "--no-pretty", "--path=a", "--path=b", "init")

	if err := cli.Init.Run(WithContext(t.Context(), ktx)); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(confPath)
	if err != nil {
		t.Fatal(err)
	}

	var got map[string]any
	if err := yaml.Unmarshal(data, &got); err != nil {
		t.Fatalf("invalid YAML:\n%s\n%v", data, err)
	}

	if got["log-level"] != "info" || got["pretty"] != false {
		t.Errorf("settings = %v", got)
	}

	if paths, ok := got["path"].([]any); !ok || len(paths) != 2 || paths[0] != "a" {
		t.Errorf("path = %#v", got["path"])
	}

	for _, absent := range []string{"help", "empty"} {
		if _, ok := got[absent]; ok {
			t.Errorf("%q should not be written", absent)
		}
	}
}

func TestInitExistingFile(t *testing.T) {
	confPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(confPath, []byte("keep: me\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cli, ktx := parseInit(t, confPath, "init")

	err := cli.Init.Run(WithContext(t.Context(), ktx))
	if !errors.Is(err, ErrWriteConfig) || !errors.Is(err, ErrFileExists) {
		t.Fatalf("err = %v, want file exists", err)
	}

	if data, _ := os.ReadFile(confPath); string(data) != "keep: me\n" {
		t.Errorf("file overwritten: %q", data)
	}

	cli, ktx = parseInit(t, confPath, "init", "--force")

	if err := cli.Init.Run(WithContext(t.Context(), ktx)); err != nil {
		t.Fatal(err)
	}

	if data, _ := os.ReadFile(confPath); string(data) == "keep: me\n" {
		t.Error("--force did not overwrite")
	}
}

func TestFlagValue(t *testing.T) {
	type level string

	tests := []struct {
		name string
		in   any
		want any
	}{
		{"nil", nil, nil},
		{"empty string", "", nil},
		{"string", "x", "x"},
		{"bool", false, false},
		{"int", 3, 3},
		{"empty slice", []string{}, nil},
		{"named string", level("debug"), "debug"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := flagValue(tt.in); got != tt.want {
				t.Errorf("flagValue(%#v) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}
