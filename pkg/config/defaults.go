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

package config

import "strings"

const (
	// DefaultPort is the HTTP listener port when none is configured.
	DefaultPort = 8721
)

// DefaultIgnorePatterns hides the housekeeping files the server itself
// may leave behind, plus the legacy description sidecar name.
var DefaultIgnorePatterns = []string{"descript.ion", "*.uac"}

// ApplyOverrides applies CLI flag values over the loaded configuration.
// Zero values mean the flag was not given and the configured value
// stands.
func ApplyOverrides(cfg *Config, port int, logLevel, accessToken string) {
	if port > 0 {
		cfg.Server.Port = port
	}
	if logLevel != "" {
		cfg.Logging.Level = strings.ToUpper(logLevel)
	}
	if accessToken != "" {
		cfg.Server.AccessToken = accessToken
	}
}

// ApplyDefaults fills in any missing values. Runs before validation so
// a minimal config file is enough to start the server.
func ApplyDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "INFO"
	}
	cfg.Logging.Level = strings.ToUpper(cfg.Logging.Level)

	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}

	if cfg.Permissions.DefaultMode == "" {
		cfg.Permissions.DefaultMode = "RO"
	}

	if cfg.Permissions.Store.Type == "" {
		cfg.Permissions.Store.Type = "memory"
	}

	if cfg.Listing.IgnorePatterns == nil {
		cfg.Listing.IgnorePatterns = append([]string(nil), DefaultIgnorePatterns...)
	}
}
