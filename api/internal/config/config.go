package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"speech-coach/api/internal/speech/prompt"
	"speech-coach/api/internal/speech/types"
)

// PlaceholderKey is the value shipped in example env files; it never counts as a credential.
const PlaceholderKey = "your_api_key_here"

// DefaultFiles are searched in order when no --config is given.
var DefaultFiles = []string{"speech-coach.yaml", "speech-coach.yml", "config.yaml"}

type Config struct {
	Port      string `yaml:"port"`
	StaticDir string `yaml:"static_dir"`

	// APIKeys is the credential set, tried first to last on every request.
	APIKeys        []string                 `yaml:"api_keys"`
	GeminiEndpoint string                   `yaml:"gemini_endpoint"`
	GeminiModel    string                   `yaml:"gemini_model"`
	DefaultProfile string                   `yaml:"default_profile"`
	Profiles       map[string]types.Profile `yaml:"profiles"`

	// AttemptTimeout bounds each credential attempt. There is no timeout across attempts.
	AttemptTimeout      time.Duration `yaml:"attempt_timeout"`
	RetryInvalidRequest bool          `yaml:"retry_invalid_request"`
	MaxBodyBytes        int64         `yaml:"max_body_bytes"`

	Log      LogConfig      `yaml:"log"`
	Telegram TelegramConfig `yaml:"telegram"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

type TelegramConfig struct {
	Token        string `yaml:"token"`
	WebhookURL   string `yaml:"webhook_url"`
	MaxFileBytes int64  `yaml:"max_file_bytes"`
	PollTimeout  int    `yaml:"poll_timeout"`
}

func Default() *Config {
	return &Config{
		Port:           "8000",
		DefaultProfile: prompt.ProfileVietnamese,
		AttemptTimeout: 120 * time.Second,
		MaxBodyBytes:   100 << 20,
		Log:            LogConfig{Level: "info"},
		Telegram: TelegramConfig{
			MaxFileBytes: 20 << 20,
			PollTimeout:  30,
		},
	}
}

func getEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

// Load reads the YAML file at path (or the first default file found), then applies
// environment overrides. A missing default file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	var data []byte
	var err error
	if path != "" {
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		for _, name := range DefaultFiles {
			if data, err = os.ReadFile(name); err == nil {
				path = name
				break
			}
			data = nil
		}
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.APIKeys = ParseKeys(strings.Join(cfg.APIKeys, ","))
	if err := cfg.resolveProfiles(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	// GEMINI_API_KEYS wins over GEMINI_API_KEY; both accept a delimited list.
	if v := getEnv("GEMINI_API_KEYS", getEnv("GEMINI_API_KEY", "")); v != "" {
		c.APIKeys = ParseKeys(v)
	}
	c.GeminiModel = getEnv("GEMINI_MODEL", c.GeminiModel)
	c.Port = getEnv("PORT", c.Port)
	c.Telegram.Token = getEnv("TELEGRAM_BOT_TOKEN", c.Telegram.Token)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
}

// ParseKeys splits a single value or a list delimited by commas, semicolons or whitespace.
// Order is kept, blanks, duplicates and the placeholder are dropped.
func ParseKeys(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		switch r {
		case ',', ';', ' ', '\t', '\n', '\r':
			return true
		}
		return false
	})
	seen := make(map[string]struct{}, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f == PlaceholderKey {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

// resolveProfiles merges configured profiles over the built-in ones.
// gemini_model replaces the model of built-in profiles and fills it in for configured ones.
func (c *Config) resolveProfiles() error {
	merged := prompt.Builtin()
	if c.GeminiModel != "" {
		for name, p := range merged {
			p.Model = c.GeminiModel
			merged[name] = p
		}
	}
	for name, p := range c.Profiles {
		if p.Name == "" {
			p.Name = name
		}
		if p.Name != name {
			return fmt.Errorf("profile %q: name mismatch %q", name, p.Name)
		}
		if p.Model == "" {
			p.Model = c.GeminiModel
		}
		prompt.Fill(&p)
		merged[name] = p
	}
	c.Profiles = merged
	return nil
}

func (c *Config) Validate() error {
	var errs []error
	if _, ok := c.Profiles[c.DefaultProfile]; !ok {
		errs = append(errs, fmt.Errorf("default_profile %q is not defined", c.DefaultProfile))
	}
	if c.AttemptTimeout < 0 {
		errs = append(errs, errors.New("attempt_timeout must be >= 0"))
	}
	if c.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("max_body_bytes must be > 0"))
	}
	return errors.Join(errs...)
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return "0.0.0.0:" + c.Port
}
