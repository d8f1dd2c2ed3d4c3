// Copyright 2025 The Shelfd Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads and validates the server configuration: storage
// roots, users, permission defaults and the ACL store selection. The
// configuration is built once at startup and passed into every component
// that needs it; nothing reads it as ambient global state.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/openshelf/shelfd/pkg/acl"
)

// Config is the complete server configuration.
//
// Configuration sources (in order of precedence):
//  1. CLI flags (applied by main, highest priority)
//  2. Environment variables (SHELFD_*)
//  3. Configuration file (YAML)
//  4. Default values (lowest priority)
type Config struct {
	// Logging controls log output behavior
	Logging LoggingConfig `mapstructure:"logging"`

	// Server contains HTTP server settings
	Server ServerConfig `mapstructure:"server"`

	// Roots defines the storage roots exposed to clients
	Roots []RootConfig `mapstructure:"roots" validate:"dive"`

	// Users lists the accounts allowed to log in. An empty list means
	// authentication is disabled and every caller acts as a guest with
	// the global default permission.
	Users []UserConfig `mapstructure:"users" validate:"dive"`

	// PasswordsHashed reports whether configured passwords are already
	// md5 digests. When false they are hashed before comparison.
	PasswordsHashed bool `mapstructure:"passwords_hashed"`

	// Permissions holds the global default mode and the ACL store choice
	Permissions PermissionsConfig `mapstructure:"permissions"`

	// Listing controls display-side filtering of directory listings
	Listing ListingConfig `mapstructure:"listing"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Port is the HTTP listener port
	Port int `mapstructure:"port" validate:"required,gt=0,lte=65535"`

	// AccessToken guards all API entrypoints when set
	AccessToken string `mapstructure:"access_token"`
}

// RootConfig describes one storage root.
type RootConfig struct {
	// ID is the stable identifier encoded into item ids
	ID string `mapstructure:"id" validate:"required"`

	// Name is the public display name
	Name string `mapstructure:"name" validate:"required"`

	// Path is the storage directory on disk
	Path string `mapstructure:"path" validate:"required"`

	// DefaultPermission overrides the global default for this root
	// (optional; empty uses the global default)
	DefaultPermission string `mapstructure:"default_permission" validate:"omitempty,oneof=NONE RO RW ADMIN none ro rw admin"`
}

// UserConfig describes one account.
type UserConfig struct {
	ID       string `mapstructure:"id" validate:"required"`
	Name     string `mapstructure:"name" validate:"required"`
	Password string `mapstructure:"password" validate:"required"`

	// PermissionMode is this user's default access level; empty falls
	// back to the global default.
	PermissionMode string `mapstructure:"permission_mode" validate:"omitempty,oneof=NONE RO RW ADMIN none ro rw admin"`
}

// PermissionsConfig holds permission defaults and store selection.
type PermissionsConfig struct {
	// DefaultMode is the global default access level
	DefaultMode string `mapstructure:"default_mode" validate:"required,oneof=NONE RO RW ADMIN none ro rw admin"`

	// Store selects the ACL store backend
	Store StoreConfig `mapstructure:"store"`
}

// StoreConfig selects and configures the ACL store backend.
//
// The Type field determines which implementation is used. Only the
// corresponding type-specific section is read.
type StoreConfig struct {
	// Type is one of: memory, badger, mysql
	Type string `mapstructure:"type" validate:"required,oneof=memory badger mysql"`

	// Badger contains BadgerDB settings, used when Type = "badger"
	Badger BadgerStoreConfig `mapstructure:"badger"`

	// MySQL contains MySQL settings, used when Type = "mysql"
	MySQL MySQLStoreConfig `mapstructure:"mysql"`
}

type BadgerStoreConfig struct {
	// Path is the database directory
	Path string `mapstructure:"path"`
}

type MySQLStoreConfig struct {
	// DSN is the go-sql-driver connection string
	DSN string `mapstructure:"dsn"`
}

// ListingConfig controls display-side filtering of listings.
type ListingConfig struct {
	// IgnorePatterns are glob patterns (doublestar syntax) matched
	// case-insensitively against entry names; matching entries are
	// hidden from listings but stay reachable by id.
	IgnorePatterns []string `mapstructure:"ignore_patterns"`
}

// DefaultLevelFor returns the effective default level for a user id:
// the user's configured mode if present, else the global default. An
// empty user id (guest) always gets the global default.
func (c *Config) DefaultLevelFor(userID string) acl.Level {
	if userID != "" {
		for _, user := range c.Users {
			if user.ID == userID && user.PermissionMode != "" {
				level, err := acl.ParseLevel(user.PermissionMode)
				if err == nil {
					return level
				}
			}
		}
	}
	level, err := acl.ParseLevel(c.Permissions.DefaultMode)
	if err != nil {
		return acl.ReadOnly
	}
	return level
}

// FindUser returns the account with the given name.
func (c *Config) FindUser(name string) (UserConfig, bool) {
	for _, user := range c.Users {
		if user.Name == name {
			return user, true
		}
	}
	return UserConfig{}, false
}

// AuthenticationRequired reports whether callers must log in.
func (c *Config) AuthenticationRequired() bool {
	return len(c.Users) > 0
}

// Load reads, defaults and validates the configuration.
//
// Parameters:
//   - configPath: path to the config file (empty uses ./shelfd.yaml)
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setupViper(v, configPath)

	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// setupViper configures environment variables and config file settings.
func setupViper(v *viper.Viper, configPath string) {
	// Environment variables use the SHELFD_ prefix and underscores.
	// Example: SHELFD_LOGGING_LEVEL=DEBUG
	v.SetEnvPrefix("SHELFD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("shelfd")
		v.SetConfigType("yaml")
	}
}

func readConfigFile(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		// Missing config file is acceptable, defaults apply
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}
