// Package config loads the generator's YAML configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for the transcript generator.
type Config struct {
	Discord  DiscordConfig  `yaml:"discord"`
	Output   OutputConfig   `yaml:"output"`
	Archive  ArchiveConfig  `yaml:"archive"`
	Render   RenderConfig   `yaml:"render"`
	Export   ExportConfig   `yaml:"export"`
	Telegram TelegramConfig `yaml:"telegram"`
	LogLevel string         `yaml:"logLevel"`
}

type DiscordConfig struct {
	Token string `yaml:"token"`
}

type OutputConfig struct {
	Dir string `yaml:"dir"`
}

type ArchiveConfig struct {
	DBPath string `yaml:"dbPath"`
}

// RenderConfig carries the render options the CLI passes through to the
// pipeline. URL templates accept the documented [token] placeholders.
type RenderConfig struct {
	Hydrate             bool   `yaml:"hydrate"`
	SaveImages          bool   `yaml:"saveImages"`
	PoweredBy           bool   `yaml:"poweredBy"`
	Favicon             string `yaml:"favicon"`
	FooterText          string `yaml:"footerText,omitempty"`
	ComponentVersion    string `yaml:"componentVersion,omitempty"`
	CustomGuildIconURL  string `yaml:"customGuildIconURL,omitempty"`
	CustomAttachmentURL string `yaml:"customAttachmentURL,omitempty"`
	CustomAvatarURL     string `yaml:"customAvatarURL,omitempty"`
	CustomRoleIconURL   string `yaml:"customRoleIconURL,omitempty"`
}

type ExportConfig struct {
	TimeoutSeconds int `yaml:"timeoutSeconds"`
}

type TelegramConfig struct {
	Token  string `yaml:"token,omitempty"`
	ChatID int64  `yaml:"chatId,omitempty"`
}

func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".transcript"
	}
	return filepath.Join(home, ".transcript")
}

func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// Defaults returns a configuration with every knob at its default.
func Defaults() *Config {
	return &Config{
		Discord: DiscordConfig{Token: "${DISCORD_TOKEN}"},
		Output:  OutputConfig{Dir: filepath.Join(DefaultConfigDir(), "transcripts")},
		Archive: ArchiveConfig{DBPath: filepath.Join(DefaultConfigDir(), "archive.db")},
		Render: RenderConfig{
			Favicon: "guild",
		},
		Export:   ExportConfig{TimeoutSeconds: 60},
		LogLevel: "info",
	}
}

func Load(path string) (*Config, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot resolve home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	// Substitute environment variables: ${VAR} and ${VAR:-default}
	data = []byte(ExpandEnvVars(string(data)))

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("cannot parse config file %s: %w", path, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns in config strings.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-(.*?))?\}`)

// ExpandEnvVars replaces ${VAR} with the environment variable value.
// Supports default values: ${VAR:-default} uses "default" when VAR is
// unset or empty.
func ExpandEnvVars(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		varName := groups[1]
		defaultVal := ""
		hasDefault := len(groups) >= 3 && groups[2] != ""
		if hasDefault {
			defaultVal = groups[2]
		}

		val, exists := os.LookupEnv(varName)
		if !exists || val == "" {
			if hasDefault {
				return defaultVal
			}
			return match
		}
		return val
	})
}

func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("cannot marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}

// Validate checks that the config has usable values.
func Validate(cfg *Config) error {
	var errs []string

	switch cfg.LogLevel {
	case "", "debug", "info", "warn", "error":
		// valid
	default:
		errs = append(errs, "logLevel must be one of: debug, info, warn, error")
	}

	if cfg.Output.Dir == "" {
		errs = append(errs, "output.dir must not be empty")
	}
	if cfg.Archive.DBPath == "" {
		errs = append(errs, "archive.dbPath must not be empty")
	}
	if cfg.Export.TimeoutSeconds < 1 {
		errs = append(errs, "export.timeoutSeconds must be >= 1")
	}
	if cfg.Render.Favicon == "" {
		errs = append(errs, "render.favicon must be \"guild\" or a URL")
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(errs, "; "))
	}
	return nil
}
