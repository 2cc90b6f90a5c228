package config

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/mold/v4/modifiers"
	"github.com/go-playground/validator/v10"
	"github.com/iancoleman/strcase"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	configFileENV     = "CONFIG_FILE"
	defaultConfigFile = "./bookbuddy.yaml"
)

type Config struct {
	LogLevel string `koanf:"log_level" mod:"trim,lcase" validate:"oneof=debug info warn error" default:"warn"`

	DatabaseFilePath          string        `koanf:"database_file_path" mod:"trim" validate:"required" default:"./database/app.db"`
	DatabaseDebug             bool          `koanf:"database_debug"`
	DatabaseConnectRetryCount int           `koanf:"database_connect_retry_count" validate:"min=0" default:"5"`
	DatabaseConnectRetryDelay time.Duration `koanf:"database_connect_retry_delay" default:"2s"`
	DatabaseBusyTimeout       time.Duration `koanf:"database_busy_timeout" default:"5s"`
	DatabaseMaxRetries        int           `koanf:"database_max_retries" validate:"min=0" default:"5"`

	CoverDirectory string `koanf:"cover_directory" mod:"trim" validate:"required" default:"./database/images"`

	CatalogBaseURL           string        `koanf:"catalog_base_url" mod:"trim" validate:"required,url" default:"https://openlibrary.org"`
	CatalogUserAgent         string        `koanf:"catalog_user_agent" mod:"trim" default:"bookbuddy (https://github.com/shishobooks/bookbuddy)"`
	CatalogRequestsPerSecond int           `koanf:"catalog_requests_per_second" validate:"min=0" default:"3"`
	CatalogMaxRetries        int           `koanf:"catalog_max_retries" validate:"min=0" default:"2"`
	CatalogTimeout           time.Duration `koanf:"catalog_timeout" default:"15s"`

	SearchResultLimit int `koanf:"search_result_limit" validate:"min=1" default:"20"`
	ListLimit         int `koanf:"list_limit" validate:"min=0" default:"10"`
	RemoveListLimit   int `koanf:"remove_list_limit" validate:"min=1" default:"50"`
}

// New builds the configuration from struct defaults, then the YAML file named
// by CONFIG_FILE (if it exists), then environment variables. Keys are the
// snake_case field names in the file and their upper-case form in the
// environment.
func New() (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, errors.WithStack(err)
	}

	k := koanf.New(".")

	configFile := os.Getenv(configFileENV)
	if configFile == "" {
		configFile = defaultConfigFile
	}
	if _, err := os.Stat(configFile); err == nil {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "failed to load config file %s", configFile)
		}
	}

	err := k.Load(env.Provider("", ".", strings.ToLower), nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config")
	}

	if err := modifiers.New().Struct(context.Background(), cfg); err != nil {
		return nil, errors.WithStack(err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		var errs validator.ValidationErrors
		if !errors.As(err, &errs) {
			return nil, errors.WithStack(err)
		}
		key := toSnakeCase(errs[0].StructField())
		if errs[0].Tag() == "required" {
			return nil, errors.Errorf("missing required config: set %s or %s in %s", strings.ToUpper(key), key, configFile)
		}
		return nil, errors.Errorf("invalid config %s: failed %s validation", key, errs[0].Tag())
	}

	return cfg, nil
}

// NewForTest returns a configuration backed by an in-memory database that
// never touches the environment.
func NewForTest() *Config {
	cfg := &Config{}
	_ = defaults.Set(cfg)
	cfg.DatabaseFilePath = ":memory:"
	cfg.LogLevel = "debug"
	cfg.DatabaseConnectRetryCount = 0
	cfg.DatabaseConnectRetryDelay = 0
	cfg.CatalogRequestsPerSecond = 0
	cfg.CatalogMaxRetries = 0
	cfg.CatalogTimeout = 5 * time.Second
	return cfg
}

func toSnakeCase(s string) string {
	return strcase.ToSnake(s)
}
