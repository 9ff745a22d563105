package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

const appName = "tracker_tui"

type Config struct {
	DataDir       string
	DBPath        string
	LogPath       string
	DefaultView   string
	RecentEntries int
	// File is the config file that was read or created.
	File string
}

// DefaultFile is $XDG_CONFIG_HOME/tracker_tui/tracker_tui.yml, falling back
// to the platform config directory under the home directory.
func DefaultFile() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("error getting user home directory: %w", err)
		}
		if runtime.GOOS == "windows" {
			configHome = filepath.Join(homeDir, "AppData", "Roaming")
		} else {
			configHome = filepath.Join(homeDir, ".config")
		}
	}
	return filepath.Join(configHome, appName, appName+".yml"), nil
}

func defaultDataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "./data"
	}
	return filepath.Join(home, ".local", "share", appName)
}

// Setup registers defaults and environment overrides on v and reads path,
// writing a file with the defaults when it does not exist yet.
func Setup(v *viper.Viper, path string) error {
	v.SetConfigType("yaml")
	v.SetConfigFile(path)

	v.SetDefault("data_dir", defaultDataDir())
	v.SetDefault("db_file", "tracker.db")
	v.SetDefault("log_file", "tracker.log")
	v.SetDefault("default_view", "month")
	v.SetDefault("recent_entries", 5)

	v.SetEnvPrefix("TRACKER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || os.IsNotExist(err) || errors.Is(err, os.ErrNotExist) {
			if err := v.WriteConfigAs(path); err != nil {
				return fmt.Errorf("error creating config file: %w", err)
			}
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// Resolve turns the settings held by v into absolute paths and typed values.
func Resolve(v *viper.Viper) Config {
	dataDir := v.GetString("data_dir")
	c := Config{
		DataDir:       dataDir,
		DBPath:        inDir(dataDir, v.GetString("db_file")),
		LogPath:       inDir(dataDir, v.GetString("log_file")),
		DefaultView:   v.GetString("default_view"),
		RecentEntries: v.GetInt("recent_entries"),
		File:          v.ConfigFileUsed(),
	}
	if c.RecentEntries <= 0 {
		c.RecentEntries = 5
	}
	return c
}

// Load reads path (DefaultFile when empty) into a fresh viper instance.
func Load(path string) (Config, error) {
	if path == "" {
		var err error
		if path, err = DefaultFile(); err != nil {
			return Config{}, err
		}
	}
	v := viper.New()
	if err := Setup(v, path); err != nil {
		return Config{}, err
	}
	return Resolve(v), nil
}

func inDir(dir, file string) string {
	if file == "" || filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(dir, file)
}
