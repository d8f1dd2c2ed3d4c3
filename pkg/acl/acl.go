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

// Package acl holds the typed permission model and the pluggable stores
// for per-item access overrides and item descriptions.
package acl

import "fmt"

// Level is an access level. Levels are totally ordered, so a higher
// value always grants at least everything a lower value does.
type Level int

const (
	None Level = iota
	ReadOnly
	ReadWrite
	Admin
)

// Wildcard matches any subject when used in an entry.
const Wildcard = "*"

func (l Level) String() string {
	switch l {
	case None:
		return "NONE"
	case ReadOnly:
		return "RO"
	case ReadWrite:
		return "RW"
	case Admin:
		return "ADMIN"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// ParseLevel converts the configuration spelling of a level.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "NONE", "none":
		return None, nil
	case "RO", "ro", "READONLY", "readonly":
		return ReadOnly, nil
	case "RW", "rw", "READWRITE", "readwrite":
		return ReadWrite, nil
	case "ADMIN", "admin", "A", "a":
		return Admin, nil
	default:
		return None, fmt.Errorf("unknown permission level %q", s)
	}
}

// Entry is one access override: a subject (user id, group id or the
// wildcard) mapped to a level for a single item.
type Entry struct {
	ItemID  string `json:"item_id"`
	Subject string `json:"subject"`
	Level   Level  `json:"level"`
}

// Store persists per-item access overrides. Implementations must allow
// concurrent readers while administrative writers mutate entries.
//
// Entries are keyed by the item's opaque id. An id encodes root and
// path, so entries follow a path, not an inode; Move carries them over
// when a rename changes the id.
type Store interface {
	// Get returns the override for (item, subject). The boolean reports
	// whether an override exists.
	Get(itemID, subject string) (Level, bool, error)

	// Set creates or replaces the override for (item, subject).
	Set(itemID, subject string, level Level) error

	// Remove deletes the override for (item, subject). Removing a
	// missing entry is not an error.
	Remove(itemID, subject string) error

	// List returns all overrides for an item.
	List(itemID string) ([]Entry, error)

	// Move re-keys all overrides from one item id to another.
	Move(oldItemID, newItemID string) error

	// RemoveItem deletes all overrides for an item.
	RemoveItem(itemID string) error

	Close() error
}

// DescriptionStore persists free-form item descriptions. Descriptions
// share the opaque id scheme with permissions but are not part of the
// permission model.
type DescriptionStore interface {
	GetDescription(itemID string) (string, bool, error)
	SetDescription(itemID, text string) error
	RemoveDescription(itemID string) error
	MoveDescription(oldItemID, newItemID string) error
}
