package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	DefaultBatchSize = 450
	// MaxBatchSize stays under the backend's limit of 500 writes per batch.
	MaxBatchSize = DefaultBatchSize
)

type Config struct {
	Port      string          `mapstructure:"port"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Store     StoreConfig     `mapstructure:"store"`
	Generator GeneratorConfig `mapstructure:"generator"`
	Auth      AuthConfig      `mapstructure:"auth"`
	CORS      CORSConfig      `mapstructure:"cors"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	URL    string `mapstructure:"url"`
}

type StoreConfig struct {
	BatchSize int `mapstructure:"batch_size"`
}

type GeneratorConfig struct {
	Provider     string `mapstructure:"provider"`
	GeminiAPIKey string `mapstructure:"gemini_api_key"`
	GeminiModel  string `mapstructure:"gemini_model"`
	OpenAIAPIKey string `mapstructure:"openai_api_key"`
	OpenAIModel  string `mapstructure:"openai_model"`
}

type AuthConfig struct {
	Issuer    string `mapstructure:"issuer"`
	Audience  string `mapstructure:"audience"`
	JWTSecret string `mapstructure:"jwt_secret"`
	JWKS      bool   `mapstructure:"jwks"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads configuration from defaults, an optional YAML file and the
// environment, in increasing order of precedence. Environment variables use
// the FLASHGEN_ prefix; the older unprefixed names (PORT, DB_URL, ...) are
// still honoured.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("flashgen")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	v.SetEnvPrefix("FLASHGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := bindLegacyEnv(v); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.url", "")
	v.SetDefault("store.batch_size", DefaultBatchSize)
	v.SetDefault("generator.provider", "gemini")
	v.SetDefault("generator.gemini_api_key", "")
	v.SetDefault("generator.gemini_model", "gemini-2.0-flash")
	v.SetDefault("generator.openai_api_key", "")
	v.SetDefault("generator.openai_model", "gpt-4o-mini")
	v.SetDefault("auth.issuer", "")
	v.SetDefault("auth.audience", "")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.jwks", false)
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000"})
}

var legacyEnv = [][]string{
	{"port", "FLASHGEN_PORT", "PORT"},
	{"database.url", "FLASHGEN_DATABASE_URL", "DB_URL"},
	{"auth.jwt_secret", "FLASHGEN_AUTH_JWT_SECRET", "JWT_SECRET_KEY"},
	{"generator.gemini_api_key", "FLASHGEN_GENERATOR_GEMINI_API_KEY", "GEMINI_API_KEY"},
	{"generator.openai_api_key", "FLASHGEN_GENERATOR_OPENAI_API_KEY", "OPENAI_API_KEY"},
}

func bindLegacyEnv(v *viper.Viper) error {
	for _, names := range legacyEnv {
		if err := v.BindEnv(names...); err != nil {
			return fmt.Errorf("failed to bind %s to the environment: %w", names[0], err)
		}
	}
	return nil
}

// Validate checks the settings every command relies on. Database settings are
// checked by ValidateDatabase.
func (c *Config) Validate() error {
	if c.Store.BatchSize < 1 || c.Store.BatchSize > MaxBatchSize {
		return fmt.Errorf("store.batch_size must be between 1 and %d, got %d", MaxBatchSize, c.Store.BatchSize)
	}
	switch c.Generator.Provider {
	case "gemini", "openai":
	default:
		return fmt.Errorf("unsupported generator provider %q", c.Generator.Provider)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return "0.0.0.0:" + c.Port
}

// ValidateDatabase checks the settings needed to open the database.
func (c *Config) ValidateDatabase() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.URL == "" {
		return fmt.Errorf("database.url is required")
	}
	return nil
}
