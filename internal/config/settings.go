package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Settings are operator-tunable values read from settings.yml. Unlike Config
// they can change while the process runs.
type Settings struct {
	LowStockThreshold   int `mapstructure:"lowStockThreshold"`
	BackupRetentionDays int `mapstructure:"backupRetentionDays"`
}

func DefaultSettings() Settings {
	return Settings{
		LowStockThreshold:   10,
		BackupRetentionDays: 7,
	}
}

// SettingsHolder exposes the current Settings, hot-reloaded on file change.
type SettingsHolder struct {
	current atomic.Value // holds Settings
}

func NewSettingsHolder(cfg Config) (*SettingsHolder, error) {
	v := viper.New()

	v.SetConfigName("settings")
	v.SetConfigType("yml")
	v.AddConfigPath(cfg.SettingsDir)
	v.AddConfigPath(cfg.DataDir)

	v.SetEnvPrefix("KANTIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultSettings()
	v.SetDefault("canteen.lowStockThreshold", defaults.LowStockThreshold)
	v.SetDefault("canteen.backupRetentionDays", defaults.BackupRetentionDays)

	fileFound := true
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		fileFound = false
	}

	var settings Settings
	if err := v.UnmarshalKey("canteen", &settings); err != nil {
		return nil, err
	}
	if err := validateSettings(settings); err != nil {
		return nil, err
	}

	holder := &SettingsHolder{}
	holder.current.Store(settings)

	if fileFound {
		v.WatchConfig()
		v.OnConfigChange(func(e fsnotify.Event) {
			var updated Settings
			if err := v.UnmarshalKey("canteen", &updated); err != nil {
				log.Printf("[settings] reload failed: %v", err)
				return
			}
			if err := validateSettings(updated); err != nil {
				log.Printf("[settings] invalid settings ignored: %v", err)
				return
			}
			holder.current.Store(updated)
			log.Printf("[settings] reloaded from %s", e.Name)
		})
	}

	return holder, nil
}

func (h *SettingsHolder) Get() Settings {
	return h.current.Load().(Settings)
}

// NewStaticSettingsHolder returns a holder with fixed values, for tests.
func NewStaticSettingsHolder(settings Settings) *SettingsHolder {
	holder := &SettingsHolder{}
	holder.current.Store(settings)
	return holder
}

func validateSettings(s Settings) error {
	if s.LowStockThreshold <= 0 {
		return errors.New("canteen.lowStockThreshold must be positive")
	}
	if s.BackupRetentionDays <= 0 {
		return errors.New("canteen.backupRetentionDays must be positive")
	}
	return nil
}
