package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV", "LABQUIZ_ENV", "DATABASE_URL",
		"LABQUIZ_BANK_SOURCE", "LABQUIZ_BANKS_DIR", "LABQUIZ_STRICT", "LABQUIZ_CONTAINER_ID",
	} {
		t.Setenv(key, "")
	}
}

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("bank-source", SourceFile, "")
	fs.String("banks-dir", "assets/banks", "")
	fs.String("container-id", "quizForm", "")
	fs.Bool("strict", false, "")
	fs.String("sqlite-path", "assets/banks.db", "")
	fs.String("addr", ":8080", "")
	fs.StringSlice("allowed-origins", nil, "")
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, SourceFile, cfg.BankSource)
	assert.Equal(t, "assets/banks", cfg.BanksDir)
	assert.Equal(t, "public", cfg.OutputDir)
	assert.Equal(t, "quizForm", cfg.ContainerID)
	assert.False(t, cfg.Strict)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadHeaderTimeout)
	assert.Equal(t, 4, cfg.DB.MaxConnections)
	assert.Equal(t, "assets/banks.db", cfg.SQLitePath)
	assert.Empty(t, cfg.Server.AllowedOrigins)
}

func TestLoadEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("LABQUIZ_BANKS_DIR", "/srv/banks")
	t.Setenv("LABQUIZ_STRICT", "true")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "/srv/banks", cfg.BanksDir)
	assert.True(t, cfg.Strict)
	assert.Equal(t, "production", cfg.Env)
}

func TestLoadFlagsOverrideEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("LABQUIZ_BANKS_DIR", "/srv/banks")

	cfg, err := Load(newFlags(t,
		"--banks-dir=testdata/banks",
		"--addr=:9000",
		"--allowed-origins=http://localhost:3000,http://127.0.0.1:4000",
		"--strict",
	))
	require.NoError(t, err)

	assert.Equal(t, "testdata/banks", cfg.BanksDir)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:4000"}, cfg.Server.AllowedOrigins)
	assert.True(t, cfg.Strict)
}

func TestLoadPostgres(t *testing.T) {
	t.Run("missing dsn", func(t *testing.T) {
		clearEnv(t)
		_, err := Load(newFlags(t, "--bank-source=postgres"))
		assert.ErrorIs(t, err, ErrMissingEnvironmentVariables)
	})

	t.Run("dsn from environment", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("DATABASE_URL", "postgres://quiz@localhost:5432/banks")

		cfg, err := Load(newFlags(t, "--bank-source=postgres"))
		require.NoError(t, err)

		dsn, err := cfg.DB.DSN()
		require.NoError(t, err)
		assert.Equal(t, "postgres://quiz@localhost:5432/banks", dsn)
	})
}

func TestLoadInvalid(t *testing.T) {
	t.Run("unknown source", func(t *testing.T) {
		clearEnv(t)
		_, err := Load(newFlags(t, "--bank-source=s3"))
		assert.ErrorContains(t, err, `unknown bank source: "s3"`)
	})

	t.Run("sqlite without path", func(t *testing.T) {
		clearEnv(t)
		_, err := Load(newFlags(t, "--bank-source=sqlite", "--sqlite-path="))
		assert.ErrorContains(t, err, "sqlite_path")
	})

	t.Run("empty container id", func(t *testing.T) {
		clearEnv(t)
		_, err := Load(newFlags(t, "--container-id= "))
		assert.Error(t, err)
	})
}

func TestDSNUnset(t *testing.T) {
	_, err := DB{}.DSN()
	assert.ErrorIs(t, err, ErrMissingEnvironmentVariables)
}
