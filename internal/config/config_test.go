package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultsAreValid(t *testing.T) {
	if err := Validate(Defaults()); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := map[string]func(*Config){
		"logLevel":              func(c *Config) { c.LogLevel = "verbose" },
		"output.dir":            func(c *Config) { c.Output.Dir = "" },
		"archive.dbPath":        func(c *Config) { c.Archive.DBPath = "" },
		"export.timeoutSeconds": func(c *Config) { c.Export.TimeoutSeconds = 0 },
		"render.favicon":        func(c *Config) { c.Render.Favicon = "" },
	}
	for field, mutate := range cases {
		cfg := Defaults()
		mutate(cfg)
		err := Validate(cfg)
		if err == nil {
			t.Errorf("%s: expected validation error", field)
			continue
		}
		if !strings.Contains(err.Error(), field) {
			t.Errorf("%s: error %q does not name the field", field, err)
		}
	}
}

func TestExpandEnvVars(t *testing.T) {
	os.Setenv("TRANSCRIPT_TEST_SET", "hello")
	os.Unsetenv("TRANSCRIPT_TEST_UNSET")
	defer os.Unsetenv("TRANSCRIPT_TEST_SET")

	cases := []struct {
		in   string
		want string
	}{
		{"${TRANSCRIPT_TEST_SET}", "hello"},
		{"${TRANSCRIPT_TEST_SET:-fallback}", "hello"},
		{"${TRANSCRIPT_TEST_UNSET:-fallback}", "fallback"},
		{"${TRANSCRIPT_TEST_UNSET}", "${TRANSCRIPT_TEST_UNSET}"},
		{"prefix ${TRANSCRIPT_TEST_SET} suffix", "prefix hello suffix"},
		{"no variables here", "no variables here"},
	}
	for _, tc := range cases {
		if got := ExpandEnvVars(tc.in); got != tc.want {
			t.Errorf("ExpandEnvVars(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestLoadExpandsAndOverlaysDefaults(t *testing.T) {
	os.Setenv("TRANSCRIPT_TEST_TOKEN", "tok-123")
	defer os.Unsetenv("TRANSCRIPT_TEST_TOKEN")

	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `discord:
  token: ${TRANSCRIPT_TEST_TOKEN}
render:
  hydrate: true
logLevel: debug
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Discord.Token != "tok-123" {
		t.Errorf("token = %q, want expanded value", cfg.Discord.Token)
	}
	if !cfg.Render.Hydrate {
		t.Error("hydrate flag not read")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("logLevel = %q", cfg.LogLevel)
	}
	// Fields absent from the file keep their defaults.
	if cfg.Export.TimeoutSeconds != 60 {
		t.Errorf("export.timeoutSeconds = %d, want default 60", cfg.Export.TimeoutSeconds)
	}
	if cfg.Render.Favicon != "guild" {
		t.Errorf("render.favicon = %q, want default", cfg.Render.Favicon)
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("logLevel: shout\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := Defaults()
	cfg.Discord.Token = "tok-roundtrip"
	cfg.Render.FooterText = "Exported {number} message{s}."
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Discord.Token != "tok-roundtrip" {
		t.Errorf("token = %q", got.Discord.Token)
	}
	if got.Render.FooterText != cfg.Render.FooterText {
		t.Errorf("footerText = %q", got.Render.FooterText)
	}
}
