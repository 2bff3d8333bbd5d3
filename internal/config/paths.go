// Package config manages modkeeper configuration and filesystem paths.
//
// Configuration is the location of the two directories the engine
// reconciles. Values come from, lowest priority first: built-in defaults, a
// YAML config file, MODKEEPER_* environment variables, and explicit
// overrides (command-line flags). Nothing is kept in package state; every
// call to Load builds its own viper instance.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "modkeeper"

	// EnvPrefix prefixes every environment variable modkeeper reads.
	EnvPrefix = "MODKEEPER"

	// SteamAppID is the workshop app id of the default host application.
	SteamAppID = "255710"

	keyEnabledDir = "enabled_dir"
	keyCacheDir   = "cache_dir"
)

// Paths contains all the filesystem paths used by modkeeper.
type Paths struct {
	// EnabledDir is the activation directory scanned by the host application
	EnabledDir string

	// CacheDir is the directory holding modkeeper's copies of mod content
	CacheDir string

	// ConfigFile is the config file that was read, empty if none
	ConfigFile string
}

// LoadOptions carries explicit overrides, typically from flags.
type LoadOptions struct {
	// ConfigFile is an explicit config file; it must exist when set
	ConfigFile string

	// EnabledDir overrides every other source when non-empty
	EnabledDir string

	// CacheDir overrides every other source when non-empty
	CacheDir string
}

// DefaultPaths returns the built-in defaults:
// - EnabledDir: ~/.local/share/Steam/steamapps/workshop/content/255710
// - CacheDir:   $XDG_DATA_HOME/modkeeper/mods/cached (XDG_DATA_HOME defaults to ~/.local/share)
func DefaultPaths() (*Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		dataHome = filepath.Join(home, ".local", "share")
	}

	return &Paths{
		EnabledDir: filepath.Join(home, ".local", "share", "Steam", "steamapps", "workshop", "content", SteamAppID),
		CacheDir:   filepath.Join(dataHome, AppName, "mods", "cached"),
	}, nil
}

// DefaultConfigFile returns ~/.config/modkeeper/config.yaml, honoring XDG_CONFIG_HOME.
func DefaultConfigFile() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, AppName, "config.yaml"), nil
}

// Load resolves the paths from defaults, config file, environment and overrides.
func Load(opts LoadOptions) (*Paths, error) {
	defaults, err := DefaultPaths()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetDefault(keyEnabledDir, defaults.EnabledDir)
	v.SetDefault(keyCacheDir, defaults.CacheDir)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	configFile, err := readConfigFile(v, opts.ConfigFile)
	if err != nil {
		return nil, err
	}

	if opts.EnabledDir != "" {
		v.Set(keyEnabledDir, opts.EnabledDir)
	}
	if opts.CacheDir != "" {
		v.Set(keyCacheDir, opts.CacheDir)
	}

	enabledDir, err := normalize(v.GetString(keyEnabledDir))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", keyEnabledDir, err)
	}
	cacheDir, err := normalize(v.GetString(keyCacheDir))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", keyCacheDir, err)
	}

	paths := &Paths{
		EnabledDir: enabledDir,
		CacheDir:   cacheDir,
		ConfigFile: configFile,
	}
	if err := paths.Validate(); err != nil {
		return nil, err
	}
	return paths, nil
}

// readConfigFile loads an explicit config file, or the default one if it exists.
// Returns the path of the file that was read.
func readConfigFile(v *viper.Viper, explicit string) (string, error) {
	if explicit != "" {
		path, err := expandHome(explicit)
		if err != nil {
			return "", err
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return "", fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		return path, nil
	}

	defaultFile, err := DefaultConfigFile()
	if err != nil {
		return "", err
	}
	v.AddConfigPath(filepath.Dir(defaultFile))
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read config file: %w", err)
	}
	return v.ConfigFileUsed(), nil
}

// Validate checks that both directories are set, distinct, and not nested.
func (p *Paths) Validate() error {
	if p.EnabledDir == "" || p.CacheDir == "" {
		return fmt.Errorf("both the activation and cache directories must be set")
	}
	if p.EnabledDir == p.CacheDir {
		return fmt.Errorf("activation and cache directories must differ (both %s)", p.EnabledDir)
	}
	if within(p.EnabledDir, p.CacheDir) || within(p.CacheDir, p.EnabledDir) {
		return fmt.Errorf("activation directory %s and cache directory %s must not be nested", p.EnabledDir, p.CacheDir)
	}
	return nil
}

// EnsureCacheDir creates the cache directory if it doesn't exist.
// The activation directory belongs to the host application and is never created.
func (p *Paths) EnsureCacheDir() error {
	if err := os.MkdirAll(p.CacheDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", p.CacheDir, err)
	}
	return nil
}

// normalize expands ~ and makes a path absolute and clean.
func normalize(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("empty path")
	}
	expanded, err := expandHome(path)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	return abs, nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// within reports whether path is inside root.
func within(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
