package config

import (
	"os"
)

// Config holds the core runtime configuration for the service.
// Values are primarily sourced from environment variables, with
// sensible defaults where appropriate. See .env.example.
type Config struct {
	ListenAddr string

	// DataFile is the path of the persisted JSON document used by the
	// default file-backed store.
	DataFile string

	// SQLitePath, when set, switches persistence to an embedded SQLite
	// database at that path.
	SQLitePath string

	// DatabaseURL, when set, switches persistence to PostgreSQL
	// (postgres:// URL). Takes precedence over SQLitePath.
	DatabaseURL string

	// MasterKey is the standing bypass credential. It never expires and
	// can be used by any number of distinct emails. It must stay valid
	// even if the persisted document is corrupted or reset.
	MasterKey string

	// AdminPassword guards the /api/admin routes when non-empty. An empty
	// value leaves them open.
	AdminPassword string

	// Backup enables the daily on-disk backup worker (file store only).
	Backup bool
}

// Load reads configuration from environment variables and applies defaults.
func Load() *Config {
	return &Config{
		ListenAddr:    getenv("APP_LISTEN_ADDR", ":8080"),
		DataFile:      getenv("APP_DATA_FILE", "data/locker.json"),
		SQLitePath:    getenv("APP_SQLITE_PATH", ""),
		DatabaseURL:   os.Getenv("APP_DATABASE_URL"),
		MasterKey:     getenv("APP_MASTER_KEY", "MASTER_KEY"),
		AdminPassword: getenv("APP_ADMIN_PASSWORD", ""),
		Backup:        os.Getenv("APP_BACKUP") == "true",
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
