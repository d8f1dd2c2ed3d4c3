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

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/bmatcuk/doublestar/v4"
)

// validate is the singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate checks the configuration using struct tags plus custom rules
// that cannot be expressed in tags.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}
	return validateCustomRules(cfg)
}

// validateCustomRules performs custom validation beyond struct tags.
func validateCustomRules(cfg *Config) error {
	if len(cfg.Roots) == 0 {
		return fmt.Errorf("roots: at least one storage root must be configured")
	}

	ids := make(map[string]bool)
	for i, root := range cfg.Roots {
		if ids[root.ID] {
			return fmt.Errorf("roots[%d]: duplicate root id %q", i, root.ID)
		}
		ids[root.ID] = true

		// "|" separates the root id from the path inside item ids, so
		// an id containing it could never decode back
		if strings.Contains(root.ID, "|") {
			return fmt.Errorf("roots[%d]: root id %q must not contain %q", i, root.ID, "|")
		}

		if !filepath.IsAbs(root.Path) {
			return fmt.Errorf("roots[%d]: path %q must be absolute", i, root.Path)
		}
		info, err := os.Stat(root.Path)
		if err != nil {
			return fmt.Errorf("roots[%d]: path %q is not accessible: %w", i, root.Path, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("roots[%d]: path %q is not a directory", i, root.Path)
		}
	}

	userIDs := make(map[string]bool)
	for i, user := range cfg.Users {
		if userIDs[user.ID] {
			return fmt.Errorf("users[%d]: duplicate user id %q", i, user.ID)
		}
		userIDs[user.ID] = true
	}

	for i, pattern := range cfg.Listing.IgnorePatterns {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("listing.ignore_patterns[%d]: invalid pattern %q", i, pattern)
		}
	}

	switch cfg.Permissions.Store.Type {
	case "badger":
		if cfg.Permissions.Store.Badger.Path == "" {
			return fmt.Errorf("permissions.store.badger: path is required")
		}
	case "mysql":
		if cfg.Permissions.Store.MySQL.DSN == "" {
			return fmt.Errorf("permissions.store.mysql: dsn is required")
		}
	}

	return nil
}

// formatValidationError turns validator errors into readable messages.
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if ok := asValidationErrors(err, &validationErrors); !ok {
		return err
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		messages = append(messages, fmt.Sprintf(
			"%s: failed %q validation", fieldError.Namespace(), fieldError.Tag(),
		))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(messages, "; "))
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	verrs, ok := err.(validator.ValidationErrors)
	if ok {
		*target = verrs
	}
	return ok
}
