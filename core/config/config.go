package config

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"data-reconciler/core/database"
	"data-reconciler/core/logger"
	"data-reconciler/core/reconcile"
	"data-reconciler/core/server"
	"data-reconciler/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application, one section per component.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds the object storage used by object:// sources and exports.
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds the connection used by table:// sources.
	Database database.Config `mapstructure:"database"`
	// Compare holds the comparison defaults.
	Compare reconcile.Config `mapstructure:"compare"`
}

// LoadConfig reads dir/.env if present, then the environment, on top of the
// struct tag defaults. COMPARE_SUFFIX_A sets compare.suffix_a, and so on.
func LoadConfig(dir string) (*Config, error) {
	// A missing .env is normal in production.
	_ = godotenv.Overload(filepath.Join(dir, ".env"))

	v := viper.New()
	bindValues(v, reflect.TypeOf(Config{}), "")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects comparison defaults that could never produce a result.
func (c *Config) Validate() error {
	if c.Compare.SuffixA == c.Compare.SuffixB {
		return fmt.Errorf("compare suffixes must differ, both are %q", c.Compare.SuffixA)
	}
	if _, err := reconcile.ParseCardinality(c.Compare.Validate); err != nil {
		return fmt.Errorf("compare.validate: %w", err)
	}
	switch c.Database.Driver {
	case "mysql", "sqlite":
	default:
		return fmt.Errorf("database.driver must be mysql or sqlite, got %q", c.Database.Driver)
	}
	return nil
}

// bindValues registers every mapstructure key with its default tag so that
// AutomaticEnv can resolve nested keys.
func bindValues(v *viper.Viper, t reflect.Type, prefix string) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, field.Type, key)
			continue
		}

		// Empty defaults are still set so the key is known to AutomaticEnv.
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
