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

// Package fs is the gated filesystem core: the opaque item identity
// codec, the permission resolver, the filesystem gateway and the
// cross-root transfer policy. Nothing outside this package touches
// storage paths directly.
package fs

import (
	"os"
	"path"
	"strings"
	"time"

	"github.com/openshelf/shelfd/pkg/acl"
	"github.com/openshelf/shelfd/pkg/config"
)

// Root is one configured storage root. Roots are built once at startup
// and immutable during request handling.
type Root struct {
	ID   string
	Name string
	Path string

	// Default overrides the global default level for items under this
	// root; only meaningful when HasDefault is true.
	Default    acl.Level
	HasDefault bool
}

// Registry holds the configured roots and is the only way to decode an
// opaque id back into a location.
type Registry struct {
	byID    map[string]Root
	ordered []Root
}

// NewRegistry builds a registry from configuration. Root paths are
// cleaned so prefix checks during decoding are reliable.
func NewRegistry(roots []config.RootConfig) (*Registry, error) {
	registry := &Registry{byID: make(map[string]Root, len(roots))}
	for _, rc := range roots {
		root := Root{
			ID:   rc.ID,
			Name: rc.Name,
			Path: strings.TrimRight(path.Clean(rc.Path), "/"),
		}
		if rc.DefaultPermission != "" {
			level, err := acl.ParseLevel(rc.DefaultPermission)
			if err != nil {
				return nil, err
			}
			root.Default = level
			root.HasDefault = true
		}
		registry.byID[root.ID] = root
		registry.ordered = append(registry.ordered, root)
	}
	return registry, nil
}

// Get returns a root by id.
func (r *Registry) Get(id string) (Root, bool) {
	root, ok := r.byID[id]
	return root, ok
}

// All returns the roots in configuration order.
func (r *Registry) All() []Root {
	return r.ordered
}

// Item is a filesystem item reconstructed on demand from storage
// metadata plus a decoded identity. It is never persisted as such.
type Item struct {
	ID        string
	RootID    string
	Path      string // root-relative, slash-separated, "" for the root itself
	Name      string
	IsFile    bool
	Extension string
	Size      int64
	Modified  time.Time
	Created   time.Time
	Accessed  time.Time
}

// ParentPath returns the relative path of the item's parent directory.
func (i Item) ParentPath() string {
	if i.Path == "" {
		return ""
	}
	parent := path.Dir(i.Path)
	if parent == "." {
		return ""
	}
	return parent
}

// User is the caller identity the resolver works with, derived from the
// session at request time.
type User struct {
	ID string

	// Default is the per-user default level; valid when HasDefault.
	Default    acl.Level
	HasDefault bool

	// Global is the global default level.
	Global acl.Level
}

// Mode is the user's global permission mode: the per-user default when
// configured, else the global default. The resolver's admin
// short-circuit keys off this value.
func (u User) Mode() acl.Level {
	if u.HasDefault {
		return u.Default
	}
	return u.Global
}

// baseLevel is the default a resolution falls back to when no override
// applies: per-user default, else the root's default, else the global
// default.
func (u User) baseLevel(root Root) acl.Level {
	if u.HasDefault {
		return u.Default
	}
	if root.HasDefault {
		return root.Default
	}
	return u.Global
}

// newItem builds an Item from a decoded location and stat data.
func newItem(root Root, relPath string, info os.FileInfo) Item {
	name := info.Name()
	if relPath == "" {
		name = root.Name
	}

	item := Item{
		ID:       EncodeID(root.ID, relPath),
		RootID:   root.ID,
		Path:     relPath,
		Name:     name,
		IsFile:   !info.IsDir(),
		Modified: info.ModTime(),
	}
	if item.IsFile {
		item.Size = info.Size()
		if dot := strings.LastIndex(name, "."); dot > 0 {
			item.Extension = name[dot+1:]
		}
	}
	item.Created, item.Accessed = fileTimes(info)
	return item
}
