package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var ErrMissingEnvironmentVariables = errors.New("missing required environment variables")

// Bank sources.
const (
	SourceFile     = "file"
	SourceSQLite   = "sqlite"
	SourcePostgres = "postgres"
)

// Config holds application configuration loaded from files, environment variables and flags.
type Config struct {
	Env         string `mapstructure:"env"`          // current application environment (local, dev, production etc)
	BankSource  string `mapstructure:"bank_source"`  // where chapters are loaded from: file, sqlite or postgres
	BanksDir    string `mapstructure:"banks_dir"`    // directory with chapter JSON files
	SQLitePath  string `mapstructure:"sqlite_path"`  // bank file for the sqlite source
	OutputDir   string `mapstructure:"output_dir"`   // directory for rendered pages
	ContainerID string `mapstructure:"container_id"` // id of the host page element quizzes are injected into
	Strict      bool   `mapstructure:"strict"`       // fail generation on any malformed bank item
	Server      Server `mapstructure:"server"`       // preview server section
	DB          DB     `mapstructure:"database"`     // database configuration section
}

// Server contains preview server parameters.
type Server struct {
	Addr              string        `mapstructure:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	AllowedOrigins    []string      `mapstructure:"allowed_origins"` // origins allowed to fetch quiz fragments
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// Load reads configuration from .env, config files, environment variables and the given flags.
// flags may be nil.
func Load(flags *pflag.FlagSet) (*Config, error) {
	// A missing .env is fine, values can come from the real environment.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	v.SetDefault("env", "local")
	v.SetDefault("bank_source", SourceFile)
	v.SetDefault("banks_dir", "assets/banks")
	v.SetDefault("sqlite_path", "assets/banks.db")
	v.SetDefault("output_dir", "public")
	v.SetDefault("container_id", "quizForm")
	v.SetDefault("strict", false)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_header_timeout", "5s")
	v.SetDefault("server.allowed_origins", []string{})
	v.SetDefault("database.max_connections", 4)
	v.SetDefault("database.max_conn_lifetime", "30s")

	v.SetEnvPrefix("labquiz")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("env", "APP_ENV", "LABQUIZ_ENV")

	if err := bindFlags(v, flags); err != nil {
		return nil, fmt.Errorf("error binding flags: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	switch cfg.BankSource {
	case SourceFile:
	case SourceSQLite:
		if strings.TrimSpace(cfg.SQLitePath) == "" {
			return nil, errors.New("sqlite_path must not be empty")
		}
	case SourcePostgres:
		cfg.DB.URL = v.GetString("database_url")
		if cfg.DB.URL == "" {
			return nil, ErrMissingEnvironmentVariables
		}
	default:
		return nil, fmt.Errorf("unknown bank source: %q", cfg.BankSource)
	}

	if strings.TrimSpace(cfg.ContainerID) == "" {
		return nil, errors.New("container_id must not be empty")
	}

	return &cfg, nil
}

// flagKeys maps flag names that do not follow the key naming to config keys.
var flagKeys = map[string]string{
	"addr":            "server.addr",
	"allowed-origins": "server.allowed_origins",
}

// bindFlags binds every defined flag so that "--banks-dir" overrides "banks_dir".
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	if flags == nil {
		return nil
	}

	var bindErr error
	flags.VisitAll(func(f *pflag.Flag) {
		if bindErr != nil {
			return
		}
		key, ok := flagKeys[f.Name]
		if !ok {
			key = strings.ReplaceAll(f.Name, "-", "_")
		}
		bindErr = v.BindPFlag(key, f)
	})
	return bindErr
}
