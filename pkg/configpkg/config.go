// Package configpkg provides parsing functionality for environment variables.
package configpkg

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// Storage backends.
const (
	StorageFile   = "file"
	StorageMemory = "memory"
	StorageSQL    = "sql"
	StorageBolt   = "bolt"
)

// Run modes.
const (
	ModeCLI  = "cli"
	ModeHTTP = "http"
)

// Config stores all configuration of the application.
//
// The values are read by viper from a config file or environment variables.
type Config struct {
	Environement   string        `mapstructure:"GO_ENV"`
	Mode           string        `mapstructure:"MODE"`
	ServerAddress  string        `mapstructure:"SERVER_ADDRESS"`
	StorageBackend string        `mapstructure:"STORAGE_BACKEND"`
	LedgerFile     string        `mapstructure:"LEDGER_FILE"`
	BoltPath       string        `mapstructure:"BOLT_PATH"`
	DBDriver       string        `mapstructure:"DB_DRIVER"`
	DBSource       string        `mapstructure:"DB_SOURCE"`
	RatesURL       string        `mapstructure:"RATES_URL"`
	RatesAccessKey string        `mapstructure:"RATES_ACCESS_KEY"`
	RatesStatic    string        `mapstructure:"RATES_STATIC"`
	RatesTimeout   time.Duration `mapstructure:"RATES_TIMEOUT"`
	StorageTimeout time.Duration `mapstructure:"STORAGE_TIMEOUT"`
	OpeningBalance string        `mapstructure:"OPENING_BALANCE"`
}

var defaults = map[string]any{
	"GO_ENV":           "production",
	"MODE":             ModeCLI,
	"SERVER_ADDRESS":   "127.0.0.1:8080",
	"STORAGE_BACKEND":  StorageFile,
	"LEDGER_FILE":      "transactions.txt",
	"BOLT_PATH":        "ledger.db",
	"DB_DRIVER":        "sqlite",
	"DB_SOURCE":        "ledger.sqlite",
	"RATES_URL":        "http://api.exchangeratesapi.io/v1/latest",
	"RATES_ACCESS_KEY": "",
	"RATES_STATIC":     "",
	"RATES_TIMEOUT":    10 * time.Second,
	"STORAGE_TIMEOUT":  5 * time.Second,
	"OPENING_BALANCE":  "5000",
}

// Load reads configuration from the app.env file in path and from environment variables.
// A missing file is not an error: defaults and the environment are used.
func Load(path string) (Config, error) {
	var c Config

	v := viper.New()

	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return c, err
		}
	}

	err = v.Unmarshal(&c)
	if err != nil {
		return c, err
	}

	return c, nil
}
