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

var (
	// ConfigPath points to the server configuration file.
	ConfigPath string

	// ServerPort controls the HTTP listener port. Zero defers to the
	// configuration file.
	ServerPort int

	// ServerLogLevel controls the server log verbosity. Empty defers to
	// the configuration file.
	ServerLogLevel string

	// ServerAccessToken guards API entrypoints when set.
	ServerAccessToken string
)
