package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"ministore/internal/storage"
)

type Config struct {
	Port        string
	StorageType storage.BackendType
	SQLitePath  string
	MySQLDSN    string
	LogFile     string

	// SlowMovingDays is the trailing window for the slow-moving alert.
	SlowMovingDays int
}

// Load reads configuration from the environment, after loading a .env file
// if one is present. Storage selection follows the documented precedence:
// explicit STORAGE_TYPE, else MYSQL_DSN, else SQLITE_PATH, else memory.
func Load() Config {
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	sqlitePath := os.Getenv("SQLITE_PATH")
	if sqlitePath == "" && os.Getenv("STORAGE_TYPE") == string(storage.BackendSQLite) {
		sqlitePath = "ministore.db"
	}
	slowDays := 30
	if v := os.Getenv("SLOW_MOVING_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			slowDays = n
		}
	}

	return Config{
		Port:           port,
		StorageType:    storage.BackendType(os.Getenv("STORAGE_TYPE")),
		SQLitePath:     sqlitePath,
		MySQLDSN:       os.Getenv("MYSQL_DSN"),
		LogFile:        os.Getenv("LOG_FILE"),
		SlowMovingDays: slowDays,
	}
}

// StorageOptions maps the config onto the storage factory input.
func (c Config) StorageOptions() storage.Options {
	return storage.Options{
		Type:       c.StorageType,
		SQLitePath: c.SQLitePath,
		MySQLDSN:   c.MySQLDSN,
	}
}
