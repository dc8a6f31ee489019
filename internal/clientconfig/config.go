// Package clientconfig loads the navctl configuration file.
package clientconfig

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// Validator is implemented by configs that check themselves after loading.
type Validator interface {
	Validate() error
}

// Config is the owner client's configuration. The json tags name fields in
// validation errors.
type Config struct {
	Server         string        `yaml:"server" json:"server"`
	TokenDir       string        `yaml:"token_dir" json:"token_dir"`
	IconTimeout    time.Duration `yaml:"icon_timeout" json:"icon_timeout"`
	RequestTimeout time.Duration `yaml:"request_timeout" json:"request_timeout"`
	LogLevel       string        `yaml:"log_level" json:"log_level"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Server:         "http://localhost:8080",
		TokenDir:       filepath.Join(configDir(), "token"),
		IconTimeout:    6 * time.Second,
		RequestTimeout: 10 * time.Second,
		LogLevel:       "warn",
	}
}

// DefaultPath is ~/.config/navdesk/client.yaml.
func DefaultPath() string {
	return filepath.Join(configDir(), "client.yaml")
}

func configDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "navdesk")
}

// Validate validates the client configuration.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Server, validation.Required, validation.By(serverURL)),
		validation.Field(&c.TokenDir, validation.Required),
		validation.Field(&c.IconTimeout, validation.Required, validation.Min(100*time.Millisecond)),
		validation.Field(&c.RequestTimeout, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
	)
}

func serverURL(value interface{}) error {
	s, _ := value.(string)
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("must be an http(s) URL")
	}
	return nil
}

// Load reads a YAML file into target, expanding environment variables first.
// Values already in target act as defaults for keys the file omits.
func Load[T any](filename string, target *T) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", filename, err)
	}

	expanded := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expanded), target); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", filename, err)
	}

	if v, ok := any(target).(Validator); ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("config validation failed: %w", err)
		}
	}
	return nil
}

// LoadOrDefault loads filename over Default. A missing file is not an error.
func LoadOrDefault(filename string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return cfg, cfg.Validate()
	}
	if err := Load(filename, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
