package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FLASHGEN_DATABASE_DRIVER", "sqlite")
	t.Setenv("FLASHGEN_DATABASE_URL", "file::memory:")
	t.Setenv("FLASHGEN_GENERATOR_PROVIDER", "openai")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "file::memory:", cfg.Database.URL)
	assert.Equal(t, DefaultBatchSize, cfg.Store.BatchSize)
	assert.Equal(t, "openai", cfg.Generator.Provider)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_LegacyEnvironmentNames(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("DB_URL", "postgres://localhost/flashgen")
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("GEMINI_API_KEY", "gemini-key")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "0.0.0.0:9090", cfg.Addr())
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "postgres://localhost/flashgen", cfg.Database.URL)
	assert.Equal(t, "secret", cfg.Auth.JWTSecret)
	assert.Equal(t, "gemini-key", cfg.Generator.GeminiAPIKey)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "custom.yaml")
	content := `
database:
  driver: sqlite
  url: flashgen.db
store:
  batch_size: 100
auth:
  issuer: https://issuer.example.com/
  audience: flashgen
cors:
  allowed_origins:
    - https://app.example.com
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.Store.BatchSize)
	assert.Equal(t, "flashgen.db", cfg.Database.URL)
	assert.Equal(t, "https://issuer.example.com/", cfg.Auth.Issuer)
	assert.Equal(t, "flashgen", cfg.Auth.Audience)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Port:      "8080",
			Database:  DatabaseConfig{Driver: "sqlite", URL: "file::memory:"},
			Store:     StoreConfig{BatchSize: DefaultBatchSize},
			Generator: GeneratorConfig{Provider: "gemini"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "database not needed", mutate: func(c *Config) { c.Database = DatabaseConfig{} }},
		{name: "batch at backend limit", mutate: func(c *Config) { c.Store.BatchSize = 500 }, wantErr: "store.batch_size"},
		{name: "batch too large", mutate: func(c *Config) { c.Store.BatchSize = MaxBatchSize + 1 }, wantErr: "store.batch_size"},
		{name: "batch zero", mutate: func(c *Config) { c.Store.BatchSize = 0 }, wantErr: "store.batch_size"},
		{name: "unknown provider", mutate: func(c *Config) { c.Generator.Provider = "claude" }, wantErr: "unsupported generator provider"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateDatabase(t *testing.T) {
	tests := []struct {
		name    string
		db      DatabaseConfig
		wantErr string
	}{
		{name: "sqlite", db: DatabaseConfig{Driver: "sqlite", URL: "file::memory:"}},
		{name: "postgres", db: DatabaseConfig{Driver: "postgres", URL: "postgres://localhost/flashgen"}},
		{name: "unknown driver", db: DatabaseConfig{Driver: "mysql", URL: "x"}, wantErr: "unsupported database driver"},
		{name: "missing url", db: DatabaseConfig{Driver: "postgres"}, wantErr: "database.url is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Database: tt.db}
			err := cfg.ValidateDatabase()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_WithoutDatabase(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FLASHGEN_AUTH_JWT_SECRET", "secret")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, cfg.Database.URL)
	assert.Error(t, cfg.ValidateDatabase())
}

func TestOpenDatabase_SQLiteMigrates(t *testing.T) {
	db, err := OpenDatabase(DatabaseConfig{Driver: "sqlite", URL: "file::memory:"})
	require.NoError(t, err)
	defer CloseDatabase(db)

	require.NoError(t, Migrate(db))
	assert.True(t, db.Migrator().HasTable("flashcards"))
	assert.True(t, db.Migrator().HasTable("flashcard_sets"))
	assert.True(t, db.Migrator().HasTable("users"))
}

func TestOpenDatabase_UnknownDriver(t *testing.T) {
	_, err := OpenDatabase(DatabaseConfig{Driver: "oracle", URL: "x"})
	require.Error(t, err)
}
