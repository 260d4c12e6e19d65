// Package config manages environment variables.
//
// It reads variables from the process environment (and an optional `.env`
// file), loads them into structured Go types, and validates that required
// values are present so the process fails fast before serving any request.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map a fixed set of env vars into a structured Go config.
//   - Validate required values (SUPABASE_URL, SUPABASE_KEY).
//   - Provide sane defaults for optional blocks (server, observability).
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists it is loaded into the
	// process env before any of the code below reads it.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Env vars are not prefixed: the hosting platform sets SUPABASE_URL,
	SUPABASE_KEY and PORT as-is, so envKeys maps each accepted name onto a
	dotted koanf key.

	  SUPABASE_URL -> supabase.url -> Config.Supabase.URL
	  PORT         -> server.port  -> Config.Server.Port

	Anything not listed is ignored.
*/
var envKeys = map[string]string{
	"APP_ENV":               "primary.env",
	"NODE_ENV":              "primary.node_env",
	"PORT":                  "server.port",
	"SERVER_READ_TIMEOUT":   "server.read_timeout",
	"SERVER_WRITE_TIMEOUT":  "server.write_timeout",
	"SERVER_IDLE_TIMEOUT":   "server.idle_timeout",
	"CORS_ALLOWED_ORIGINS":  "server.cors_allowed_origins",
	"SUPABASE_URL":          "supabase.url",
	"SUPABASE_KEY":          "supabase.key",
	"SUPABASE_DB_URL":       "supabase.db_url",
	"NAMES_STORE":           "supabase.store",
	"LOG_LEVEL":             "observability.logging.level",
	"LOG_FORMAT":            "observability.logging.format",
	"NEW_RELIC_LICENSE_KEY": "observability.new_relic.license_key",
}

// Store adapters understood by SupabaseConfig.Store.
const (
	StoreREST     = "rest"
	StorePostgres = "postgres"
)

// Config is the root configuration object for the application.
//
// The `koanf:"..."` tags specify where koanf maps values from.
// The `validate:"..."` tags are enforced by go-playground/validator.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Supabase      SupabaseConfig       `koanf:"supabase" validate:"required"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the local HTTP server runtime.
// It is unused by the serverless entry point, which never binds a socket.
type ServerConfig struct {
	Port               string        `koanf:"port" validate:"required"`
	ReadTimeout        time.Duration `koanf:"read_timeout"`
	WriteTimeout       time.Duration `koanf:"write_timeout"`
	IdleTimeout        time.Duration `koanf:"idle_timeout"`
	CORSAllowedOrigins []string      `koanf:"cors_allowed_origins" validate:"required,min=1"`
}

// SupabaseConfig identifies the hosted project that owns the names table.
//
// URL and Key are always required. DBURL is only required when Store is
// "postgres", i.e. when the pgx adapter talks to the project's database
// directly instead of going through the REST gateway.
type SupabaseConfig struct {
	URL   string `koanf:"url" validate:"required,url"`
	Key   string `koanf:"key" validate:"required"`
	DBURL string `koanf:"db_url" validate:"required_if=Store postgres"`
	Store string `koanf:"store" validate:"oneof=rest postgres"`
}

// defaultConfig returns the values used when the environment says nothing.
// koanf only overwrites fields it actually finds.
func defaultConfig() *Config {
	return &Config{
		Primary: Primary{Env: "development"},
		Server: ServerConfig{
			Port:               "3002",
			ReadTimeout:        10 * time.Second,
			WriteTimeout:       30 * time.Second,
			IdleTimeout:        60 * time.Second,
			CORSAllowedOrigins: []string{"*"},
		},
		Supabase: SupabaseConfig{Store: StoreREST},
	}
}

// splitList splits a comma-separated env value, dropping blank entries.
func splitList(value string) []string {
	items := make([]string, 0, strings.Count(value, ",")+1)
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// Load loads configuration from environment variables, unmarshals it into
// Config, validates it, applies observability defaults and returns it.
//
// Unlike a plain os.Getenv lookup, a missing SUPABASE_URL or SUPABASE_KEY is
// reported as an error so callers can log it and exit before serving.
func Load() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.ProviderWithValue("", ".", func(name, value string) (string, interface{}) {
		// Returning "" makes the provider skip the variable.
		key := envKeys[strings.ToUpper(name)]
		if key == "server.cors_allowed_origins" {
			return key, splitList(value)
		}
		return key, value
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := defaultConfig()
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	// APP_ENV wins; NODE_ENV is honoured for deployments that only set that.
	if !k.Exists("primary.env") && k.String("primary.node_env") != "" {
		mainConfig.Primary.Env = k.String("primary.node_env")
	}

	// Observability is optional; only the keys that were set override defaults.
	observability := DefaultObservabilityConfig()
	if err := k.Unmarshal("observability", observability); err != nil {
		return nil, fmt.Errorf("could not unmarshal observability config: %w", err)
	}
	mainConfig.Observability = observability

	validate := validator.New()
	if err := validate.Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	mainConfig.Observability.ServiceName = "names-api"
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}
