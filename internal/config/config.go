package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. RENETIUM_OUTPUTDIR.
const EnvPrefix = "RENETIUM"

type Config struct {
	SiteTitle      string                 `mapstructure:"siteTitle"`
	OutputDir      string                 `mapstructure:"outputDir"`
	BaseURL        string                 `mapstructure:"baseURL"`
	Port           int                    `mapstructure:"port"`
	ContentDir     string                 `mapstructure:"contentDir"`
	ImagesDir      string                 `mapstructure:"imagesDir"`
	LogLevel       string                 `mapstructure:"logLevel"`
	AllowedOrigins []string               `mapstructure:"allowedOrigins"`
	Params         map[string]interface{} `mapstructure:"params"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("siteTitle", "Renetium")
	v.SetDefault("outputDir", "public")
	v.SetDefault("baseURL", "")
	v.SetDefault("port", 1313)
	v.SetDefault("contentDir", "")
	v.SetDefault("imagesDir", "")
	v.SetDefault("logLevel", "info")
	v.SetDefault("allowedOrigins", []string{"*"})
}

// Load reads cfgFile, or config.yaml from the working directory when cfgFile is
// empty, then applies RENETIUM_* environment overrides. A missing default
// config file is not an error. The returned bool reports whether a file was read.
func Load(cfgFile string) (Config, bool, error) {
	v := viper.New()
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	found := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || cfgFile != "" {
			return Config{}, false, fmt.Errorf("failed to read config file: %w", err)
		}
		found = false
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, false, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, false, err
	}
	return cfg, found, nil
}

// Validate checks values that would otherwise fail later in build or serve.
func (c Config) Validate() error {
	if strings.TrimSpace(c.OutputDir) == "" {
		return fmt.Errorf("outputDir is required")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", c.Port)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logLevel %q: must be one of debug, info, warn, error", c.LogLevel)
	}
	return nil
}
