package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/goliatone/go-orderstatus/pkg/orderstatus"
)

const envPrefix = "ORDERSTATUS"

// LoadOptions controls where Load looks for configuration.
type LoadOptions struct {
	// ConfigFile is an explicit YAML file. When empty, orderstatus.yaml is
	// searched for in SearchPaths.
	ConfigFile  string
	SearchPaths []string
	// EnvFiles are loaded into the process environment before viper reads
	// it. Missing files are skipped.
	EnvFiles []string
}

// Load reads defaults, an optional YAML file and ORDERSTATUS_* environment
// variables, in increasing precedence.
func Load(opts LoadOptions) (*Config, error) {
	if err := loadDotEnv(opts.EnvFiles); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName("orderstatus")
		paths := opts.SearchPaths
		if len(paths) == 0 {
			paths = []string{".", "/etc/orderstatus/"}
		}
		for _, path := range paths {
			v.AddConfigPath(path)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the commands cannot run with.
func (c *Config) Validate() error {
	if _, err := orderstatus.ParseSubmitPolicy(c.Form.SubmitPolicy); err != nil {
		return fmt.Errorf("config: form.submit_policy: %w", err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format must be json or console, got %q", c.Log.Format)
	}
	if c.HTTP.RateLimit < 0 {
		return fmt.Errorf("config: http.rate_limit must not be negative")
	}
	if c.Sheet.Timeout < 0 {
		return fmt.Errorf("config: sheet.timeout must not be negative")
	}
	return nil
}

// SubmitPolicy returns the parsed form.submit_policy.
func (c *Config) SubmitPolicy() orderstatus.SubmitPolicy {
	policy, err := orderstatus.ParseSubmitPolicy(c.Form.SubmitPolicy)
	if err != nil {
		return orderstatus.KeepHidden
	}
	return policy
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", "127.0.0.1:8080")
	v.SetDefault("http.base_path", "/")
	v.SetDefault("http.shutdown_timeout", "15s")
	v.SetDefault("http.session_ttl", "30m")
	v.SetDefault("http.max_upload_bytes", 32<<20)
	v.SetDefault("http.rate_limit", 20)
	v.SetDefault("http.rate_burst", 40)
	v.SetDefault("http.metrics", true)

	v.SetDefault("sheet.url", "")
	v.SetDefault("sheet.id", "")
	v.SetDefault("sheet.name", "DROPDOWN")
	v.SetDefault("sheet.xlsx_path", "")
	v.SetDefault("sheet.xlsx_sheet", "")
	v.SetDefault("sheet.timeout", "10s")
	v.SetDefault("sheet.header_rows", 1)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("form.submit_policy", string(orderstatus.KeepHidden))
	v.SetDefault("form.templates_dir", "")

	v.SetDefault("theme.name", "")
	v.SetDefault("theme.variant", "")
}

func loadDotEnv(files []string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var existing []string
	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("config: stat %s: %w", file, err)
		}
		existing = append(existing, file)
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("config: load env files: %w", err)
	}
	return nil
}
