package config

import (
	"reflect"
	"strings"

	"modpack-manager/core/database"
	"modpack-manager/core/fetch"
	"modpack-manager/core/logger"
	"modpack-manager/core/server"
	"modpack-manager/core/storage"
	"modpack-manager/feature/catalog"
	"modpack-manager/feature/updater"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the version cache.
	Database database.Config `mapstructure:"database"`
	// Storage holds configuration for the release object storage.
	Storage storage.Config `mapstructure:"storage"`
	// Server holds configuration for the distribution HTTP server.
	Server server.Config `mapstructure:"server"`
	// Pack holds the working tree layout for the packaging workflow.
	Pack updater.Config `mapstructure:"pack"`
	// Catalog holds configuration for the upstream release catalog.
	Catalog catalog.Config `mapstructure:"catalog"`
	// Fetch holds configuration for content transfers.
	Fetch fetch.Config `mapstructure:"fetch"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	// Load .env file if it exists; ignore the error in production where
	// everything comes from real environment variables.
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. PACK_WORK_DIR -> pack.work_dir)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

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

		// Nested structs recurse with their key as the prefix.
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
