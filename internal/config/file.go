package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix for environment overrides, e.g. REELORDER_WORKERS.
const EnvPrefix = "REELORDER"

// defaultEnvFile is loaded when present and no --env-file is given.
const defaultEnvFile = ".env"

// Load builds the effective Config from args (without the program name).
// Priority: flags > environment > config file > defaults. Flags are parsed
// twice: once to find --config and --env-file, then on top of the loaded
// values so explicit flags win.
func Load(args []string, version string, out io.Writer) (*Config, error) {
	pre := DefaultConfig()
	// Errors surface in the second pass, which writes to out.
	_ = ParseFlags(&pre, args, version, io.Discard)

	cfg := DefaultConfig()
	cfg.ConfigFile = pre.ConfigFile
	cfg.EnvFile = pre.EnvFile
	if err := LoadFile(&cfg); err != nil {
		return nil, err
	}
	if err := ParseFlags(&cfg, args, version, out); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFile overlays the config file and REELORDER_* environment variables
// onto cfg. Values already in cfg serve as defaults. A missing default
// config file is not an error; a missing explicit one is.
func LoadFile(cfg *Config) error {
	if err := loadEnvFile(cfg.EnvFile); err != nil {
		return err
	}

	v := viper.New()
	setDefaults(v, cfg)

	if cfg.ConfigFile != "" {
		v.SetConfigFile(cfg.ConfigFile)
	} else {
		v.SetConfigName("reelorder")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/reelorder")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfg.ConfigFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config file: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	if cfg.RootDir != "" {
		cfg.RootDir = NormalizeDirArg(cfg.RootDir)
	}
	return nil
}

// loadEnvFile loads path into the process environment without overriding
// variables that are already set. With no path, ./.env is used if present.
func loadEnvFile(path string) error {
	if path == "" {
		if _, err := os.Stat(defaultEnvFile); err != nil {
			return nil
		}
		path = defaultEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// setDefaults registers every file/env key with the current value from cfg.
// AutomaticEnv only applies to keys viper knows about.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("root", cfg.RootDir)
	v.SetDefault("placement", string(cfg.Placement))
	v.SetDefault("combined", cfg.CombinedPlaylists)
	v.SetDefault("storyline", cfg.StorylinePlaylists)
	v.SetDefault("script_name", cfg.ScriptName)
	v.SetDefault("storyline_title", cfg.StorylineTitle)
	v.SetDefault("append_unmatched", cfg.AppendUnmatched)
	v.SetDefault("purge", cfg.PurgeStale)
	v.SetDefault("dry_run", cfg.DryRun)
	v.SetDefault("workers", cfg.Workers)
	v.SetDefault("schedule", cfg.Schedule)
	v.SetDefault("verbose", cfg.Verbose)
	v.SetDefault("log_format", string(cfg.LogFormat))
	v.SetDefault("log_file", cfg.LogFile)
	v.SetDefault("color", string(cfg.ColorMode))
	v.SetDefault("metrics_file", cfg.MetricsFile)
}

// WriteYAML writes the file/env portion of cfg as YAML, suitable for use
// as a config file.
func WriteYAML(w io.Writer, cfg *Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return enc.Close()
}
