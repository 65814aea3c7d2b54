package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	defaultLogLevel     = "info"
	defaultLogMaxSizeMB = 10
	defaultLogMaxFiles  = 5
	defaultStoreFile    = "registry.db"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Store   StoreConfig   `toml:"store"`
	Logging LoggingConfig `toml:"logging"`
}

type StoreConfig struct {
	Path string `toml:"path"`
}

type LoggingConfig struct {
	Level     string `toml:"level"`
	File      string `toml:"file"`
	MaxSizeMB int    `toml:"max_size_mb"`
	MaxFiles  int    `toml:"max_files"`
}

type LoadOptions struct {
	ConfigPath string
	Env        map[string]string
}

func DefaultConfig() Config {
	return Config{
		Store: StoreConfig{
			Path: "",
		},
		Logging: LoggingConfig{
			Level:     defaultLogLevel,
			File:      "",
			MaxSizeMB: defaultLogMaxSizeMB,
			MaxFiles:  defaultLogMaxFiles,
		},
	}
}

func Load(opts LoadOptions) (Config, error) {
	cfg := DefaultConfig()

	configPath, err := resolveConfigPath(opts)
	if err != nil {
		return Config{}, fmt.Errorf("resolve config path: %w", err)
	}
	if err := loadAndApplyFile(configPath, &cfg); err != nil {
		return Config{}, err
	}

	if err := applyEnvOverrides(&cfg, opts); err != nil {
		return Config{}, err
	}

	if cfg.Store.Path == "" {
		home, err := Home(opts.Env)
		if err != nil {
			return Config{}, err
		}
		cfg.Store.Path = filepath.Join(home, defaultStoreFile)
	}

	if err := validate(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

type rawConfig struct {
	Store   *rawStore   `toml:"store"`
	Logging *rawLogging `toml:"logging"`
}

type rawStore struct {
	Path *string `toml:"path"`
}

type rawLogging struct {
	Level     *string `toml:"level"`
	File      *string `toml:"file"`
	MaxSizeMB *int    `toml:"max_size_mb"`
	MaxFiles  *int    `toml:"max_files"`
}

func loadAndApplyFile(path string, cfg *Config) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config file %q: %w", path, err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: parse TOML file %q: %v", ErrInvalidConfig, path, err)
	}

	if raw.Store != nil {
		setString(raw.Store.Path, &cfg.Store.Path)
	}
	if raw.Logging != nil {
		setString(raw.Logging.Level, &cfg.Logging.Level)
		setString(raw.Logging.File, &cfg.Logging.File)
		setInt(raw.Logging.MaxSizeMB, &cfg.Logging.MaxSizeMB)
		setInt(raw.Logging.MaxFiles, &cfg.Logging.MaxFiles)
	}
	return nil
}

func applyEnvOverrides(cfg *Config, opts LoadOptions) error {
	if value, ok := lookupEnv(opts.Env, "ASSETVAULT_STORE_PATH"); ok {
		cfg.Store.Path = value
	}
	if value, ok := lookupEnv(opts.Env, "ASSETVAULT_LOG_LEVEL"); ok {
		cfg.Logging.Level = value
	}
	if value, ok := lookupEnv(opts.Env, "ASSETVAULT_LOG_FILE"); ok {
		cfg.Logging.File = value
	}
	if value, ok := lookupEnv(opts.Env, "ASSETVAULT_LOG_MAX_SIZE_MB"); ok {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: parse ASSETVAULT_LOG_MAX_SIZE_MB: %v", ErrInvalidConfig, err)
		}
		cfg.Logging.MaxSizeMB = parsed
	}
	if value, ok := lookupEnv(opts.Env, "ASSETVAULT_LOG_MAX_FILES"); ok {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: parse ASSETVAULT_LOG_MAX_FILES: %v", ErrInvalidConfig, err)
		}
		cfg.Logging.MaxFiles = parsed
	}
	return nil
}

func validate(cfg Config) error {
	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: logging.level must be one of debug, info, warn, error", ErrInvalidConfig)
	}
	if cfg.Logging.MaxSizeMB <= 0 {
		return fmt.Errorf("%w: logging.max_size_mb must be > 0", ErrInvalidConfig)
	}
	if cfg.Logging.MaxFiles <= 0 {
		return fmt.Errorf("%w: logging.max_files must be > 0", ErrInvalidConfig)
	}
	return nil
}

func setString(raw *string, target *string) {
	if raw == nil {
		return
	}
	*target = *raw
}

func setInt(raw *int, target *int) {
	if raw == nil {
		return
	}
	*target = *raw
}

func resolveConfigPath(opts LoadOptions) (string, error) {
	if opts.ConfigPath != "" {
		return opts.ConfigPath, nil
	}
	if value, ok := lookupEnv(opts.Env, "ASSETVAULT_CONFIG_PATH"); ok {
		return value, nil
	}
	return defaultConfigPath()
}

func lookupEnv(env map[string]string, key string) (string, bool) {
	if env != nil {
		if value, ok := env[key]; ok {
			return value, true
		}
	}
	return os.LookupEnv(key)
}

// Home resolves the data directory holding the store, session file, and logs.
func Home(env map[string]string) (string, error) {
	if value, ok := lookupEnv(env, "ASSETVAULT_HOME"); ok {
		return value, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve user home: %w", err)
	}

	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Application Support", "AssetVault"), nil
	}

	dataHome := filepath.Join(home, ".local", "share")
	if xdgDataHome, ok := lookupEnv(env, "XDG_DATA_HOME"); ok && xdgDataHome != "" {
		dataHome = xdgDataHome
	}
	return filepath.Join(dataHome, "assetvault"), nil
}

func defaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve user home: %w", err)
	}

	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Application Support", "AssetVault", "config.toml"), nil
	}

	configHome := filepath.Join(home, ".config")
	if xdgConfigHome, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok && xdgConfigHome != "" {
		configHome = xdgConfigHome
	}
	return filepath.Join(configHome, "assetvault", "config.toml"), nil
}
