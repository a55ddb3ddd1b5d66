package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Root        string        `mapstructure:"root"`
	Extensions  []string      `mapstructure:"extensions"`
	Debounce    time.Duration `mapstructure:"debounce"`
	AutoSync    bool          `mapstructure:"auto_sync"`
	LogPath     string        `mapstructure:"log_path"`
	SyncCommand string        `mapstructure:"sync_command"`
	SyncArgs    []string      `mapstructure:"sync_args"`
	IgnoreList  []string      `mapstructure:"ignore_list"`
	BufferSize  int           `mapstructure:"buffer_size"`
	DaemonPort  int           `mapstructure:"daemon_port"`
	DBPath      string        `mapstructure:"db_path"`
}

var Default = Config{
	Root:       "content",
	Extensions: []string{".md"},
	Debounce:   2 * time.Second,
	AutoSync:   true,
	IgnoreList: []string{".git", ".DS_Store", "*.tmp", "*.swp", "*~"},
	BufferSize: 100,
	DaemonPort: 9301,
}

func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home dir: %w", err)
	}

	configDir := filepath.Join(home, ".mdsync")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config dir: %w", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)

	viper.SetDefault("root", Default.Root)
	viper.SetDefault("extensions", Default.Extensions)
	viper.SetDefault("debounce", Default.Debounce)
	viper.SetDefault("auto_sync", Default.AutoSync)
	viper.SetDefault("log_path", filepath.Join(configDir, "mdsync.log"))
	viper.SetDefault("sync_command", "")
	viper.SetDefault("sync_args", []string{})
	viper.SetDefault("ignore_list", Default.IgnoreList)
	viper.SetDefault("buffer_size", Default.BufferSize)
	viper.SetDefault("daemon_port", Default.DaemonPort)
	viper.SetDefault("db_path", filepath.Join(configDir, "mdsync.db"))

	viper.SetEnvPrefix("MDSYNC")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := errors.AsType[viper.ConfigFileNotFoundError](err); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
