package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	ListenAddr  string

	DataDir     string
	BackupDir   string
	ExportDir   string
	BarcodeDir  string
	SettingsDir string

	BarcodeEnabled bool

	AdminUsername string
	AdminPassword string

	SessionTTLMinutes int
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	dataDir := getenv("DATA_DIR", "data")

	cfg := Config{
		AppName:           getenv("APP_SERVICE", "kantin"),
		AppVersion:        getenv("APP_VERSION", "0.1.0"),
		Environment:       getenv("ENVIRONMENT", "development"),
		ListenAddr:        getenv("LISTEN_ADDR", ":8080"),
		DataDir:           dataDir,
		BackupDir:         getenv("BACKUP_DIR", filepath.Join(dataDir, "backup")),
		ExportDir:         getenv("EXPORT_DIR", filepath.Join(dataDir, "exports")),
		BarcodeDir:        getenv("BARCODE_DIR", "barcodes"),
		SettingsDir:       getenv("SETTINGS_DIR", "."),
		BarcodeEnabled:    getenvBool("BARCODE_ENABLED", true),
		AdminUsername:     getenv("ADMIN_USERNAME", "admin"),
		AdminPassword:     getenv("ADMIN_PASSWORD", "admin123"),
		SessionTTLMinutes: getenvInt("SESSION_TTL_MINUTES", 480),
	}

	return cfg
}

func (c Config) Debug() bool {
	return c.Environment != "production"
}

var Module = fx.Module("config",
	fx.Provide(Load),
	fx.Provide(NewSettingsHolder),
)

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
