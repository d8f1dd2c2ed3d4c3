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

package fs

import (
	"github.com/openshelf/shelfd/pkg/acl"
)

// Resolver computes the effective access level for an (item, user)
// pair. It is consulted synchronously before every gated operation and
// never caches a decision across requests.
type Resolver struct {
	store acl.Store
}

func NewResolver(store acl.Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve returns the effective level.
//
// Order: a user whose global mode is ADMIN is admin everywhere, no
// lookup performed. Directories resolve from defaults only; they do not
// consult item overrides (files and directories are deliberately
// asymmetric here). Files consult the (item, user) override, then the
// (item, wildcard) override; a hit is authoritative. Otherwise the
// default applies: per-user, else per-root, else global.
func (r *Resolver) Resolve(item Item, user User, root Root) (acl.Level, error) {
	if user.Mode() == acl.Admin {
		return acl.Admin, nil
	}

	if !item.IsFile {
		return user.baseLevel(root), nil
	}

	level, found, err := r.store.Get(item.ID, user.ID)
	if err != nil {
		return acl.None, wrapError(KindIO, "permission lookup failed", err)
	}
	if found {
		return level, nil
	}

	level, found, err = r.store.Get(item.ID, acl.Wildcard)
	if err != nil {
		return acl.None, wrapError(KindIO, "permission lookup failed", err)
	}
	if found {
		return level, nil
	}

	return user.baseLevel(root), nil
}

// CanRead reports whether the user may read the item.
func (r *Resolver) CanRead(item Item, user User, root Root) (bool, error) {
	level, err := r.Resolve(item, user, root)
	if err != nil {
		return false, err
	}
	return level >= acl.ReadOnly, nil
}

// CanModify reports whether the user may mutate the item.
func (r *Resolver) CanModify(item Item, user User, root Root) (bool, error) {
	level, err := r.Resolve(item, user, root)
	if err != nil {
		return false, err
	}
	return level >= acl.ReadWrite, nil
}
