// Copyright (c) 2026 Stokwell Team
// Stokwell - stokvel savings ledger
// This source code is licensed under the MIT license found in the LICENSE file.

// Package config loads Stokwell settings from defaults, stokwell.yaml, the
// environment and command-line flags, in increasing order of precedence.
package config // import "github.com/stokwell/stokwell/internal/config"

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stokwell/stokwell/internal/security"
)

// EnvPrefix prefixes environment overrides, e.g. STOKWELL_STORE_PATH.
const EnvPrefix = "stokwell"

// Config is the application configuration.
type Config struct {
	Store    StoreConfig    `mapstructure:"store" yaml:"store"`
	Language string         `mapstructure:"language" yaml:"language"`
	Password PasswordConfig `mapstructure:"password" yaml:"password"`
}

// StoreConfig selects the record store backend.
type StoreConfig struct {
	// Type is one of "file", "sqlite" or "memory".
	Type string `mapstructure:"type" yaml:"type"`
	Path string `mapstructure:"path" yaml:"path"`
}

// PasswordConfig holds the password policy and the hashing scheme.
type PasswordConfig struct {
	security.PasswordPolicy `mapstructure:",squash" yaml:",inline"`
	Scheme                  string `mapstructure:"scheme" yaml:"scheme"`
	BcryptCost              int    `mapstructure:"bcrypt_cost" yaml:"bcrypt_cost"`
}

// Defaults returns the default value of every configuration key.
func Defaults() map[string]any {
	p := security.DefaultPolicy()
	return map[string]any{
		"store.type":              "file",
		"store.path":              "./stokvel_data.json",
		"language":                "en",
		"password.min_length":     p.MinLength,
		"password.require_digit":  p.RequireDigit,
		"password.require_letter": p.RequireLetter,
		"password.require_upper":  p.RequireUpper,
		"password.require_symbol": p.RequireSymbol,
		"password.scheme":         security.SchemeBcrypt,
		"password.bcrypt_cost":    0,
	}
}

// GetConfigPath returns the full path of the user or system configuration file.
func GetConfigPath(system bool) (string, error) {
	var configDir string

	if system {
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "Stokwell")
		default:
			configDir = "/etc/stokwell"
		}
	} else {
		dir, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(dir, "stokwell")
	}

	return filepath.Join(configDir, "stokwell.yaml"), nil
}

// LoadConfig builds a T from defaults, the first stokwell.yaml found (or the
// explicit file), STOKWELL_* environment variables and the flags of cmd.
//
// When no configuration file exists, or the one found is empty, the fully
// resolved config is returned together with a viper.ConfigFileNotFoundError so
// the caller can decide to write one.
func LoadConfig[T any](cmd *cobra.Command, defaults map[string]any, explicitPath *string) (T, error) {
	var c T
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("stokwell")
	v.SetConfigType("yaml")
	if explicitPath != nil {
		v.SetConfigFile(*explicitPath)
	}
	if userConfigPath, err := GetConfigPath(false); err == nil {
		v.AddConfigPath(filepath.Dir(userConfigPath))
	}
	if systemConfigPath, err := GetConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(systemConfigPath))
	}
	v.AddConfigPath(".")

	var notFound error
	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return c, err
		}
		notFound = err
	} else if isEmptyFile(v.ConfigFileUsed()) {
		notFound = viper.ConfigFileNotFoundError{}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cmd != nil {
		if err := v.BindPFlags(cmd.Flags()); err != nil {
			return c, err
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	return c, notFound
}

func isEmptyFile(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Size() == 0
}

// WriteConfigFile writes c as YAML to the user or system configuration path.
func WriteConfigFile[T any](c *T, system bool) error {
	path, err := GetConfigPath(system)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}

	return os.WriteFile(path, data, 0o600)
}

// Hasher returns the credential hasher configured by p.
func (p PasswordConfig) Hasher() (security.Hasher, error) {
	return security.NewHasher(p.Scheme, p.BcryptCost)
}
