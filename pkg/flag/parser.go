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

package flag

import (
	"flag"
	"os"
)

const (
	configPathEnv  = "SHELFD_CONFIG"
	accessTokenEnv = "SHELFD_ACCESS_TOKEN"
)

// InitFlags registers CLI flags and env overrides.
func InitFlags() {
	// Set default values
	ConfigPath = ""
	ServerPort = 0
	ServerLogLevel = ""
	ServerAccessToken = ""

	// First, set default values from environment variables
	if configFromEnv := os.Getenv(configPathEnv); configFromEnv != "" {
		ConfigPath = configFromEnv
	}
	if tokenFromEnv := os.Getenv(accessTokenEnv); tokenFromEnv != "" {
		ServerAccessToken = tokenFromEnv
	}

	// Then define flags with current values as defaults
	flag.StringVar(&ConfigPath, "config", ConfigPath, "Path to the server configuration file")
	flag.IntVar(&ServerPort, "port", ServerPort, "Server listening port (0 uses the configured value)")
	flag.StringVar(&ServerLogLevel, "log-level", ServerLogLevel, "Server log level (DEBUG, INFO, WARN, ERROR; empty uses the configured value)")
	flag.StringVar(&ServerAccessToken, "access-token", ServerAccessToken, "Server access token for API authentication")

	// Parse flags - these will override environment variables if provided
	flag.Parse()
}
