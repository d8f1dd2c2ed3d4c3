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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshelf/shelfd/pkg/acl"
)

func resolveFile(t *testing.T, env *testEnv, id string, user User) acl.Level {
	t.Helper()
	_, item, err := env.gateway.resolveItem(id)
	require.NoError(t, err)
	level, err := env.gateway.resolver.Resolve(item, user, env.roots[0])
	require.NoError(t, err)
	return level
}

func TestResolveAdminShortCircuit(t *testing.T) {
	env := newTestEnv(t, 1)
	id := env.writeFile(t, env.roots[0], "a.txt", "x")

	// an explicit NONE override loses to the admin mode; overrides are
	// never consulted for an admin
	require.NoError(t, env.store.Set(id, "alice", acl.None))

	level := resolveFile(t, env, id, userWith("alice", acl.Admin))
	assert.Equal(t, acl.Admin, level)
}

func TestResolveFileOverridePrecedence(t *testing.T) {
	env := newTestEnv(t, 1)
	id := env.writeFile(t, env.roots[0], "a.txt", "x")

	bob := userWith("bob", acl.ReadOnly)

	// no override: per-user default applies
	assert.Equal(t, acl.ReadOnly, resolveFile(t, env, id, bob))

	// wildcard override beats the default
	require.NoError(t, env.store.Set(id, acl.Wildcard, acl.ReadWrite))
	assert.Equal(t, acl.ReadWrite, resolveFile(t, env, id, bob))

	// user-specific override beats the wildcard
	require.NoError(t, env.store.Set(id, "bob", acl.None))
	assert.Equal(t, acl.None, resolveFile(t, env, id, bob))
}

func TestResolveDirectoryIgnoresOverrides(t *testing.T) {
	env := newTestEnv(t, 1)
	id := env.mkdir(t, env.roots[0], "docs")

	// directories resolve from defaults only, even with an override on
	// record for the same id
	require.NoError(t, env.store.Set(id, "carol", acl.Admin))

	level := resolveFile(t, env, id, userWith("carol", acl.ReadOnly))
	assert.Equal(t, acl.ReadOnly, level)
}

func TestResolveGuestFallsBackToGlobal(t *testing.T) {
	env := newTestEnv(t, 1)
	id := env.writeFile(t, env.roots[0], "a.txt", "x")

	assert.Equal(t, acl.ReadWrite, resolveFile(t, env, id, guestWith(acl.ReadWrite)))
	assert.Equal(t, acl.None, resolveFile(t, env, id, guestWith(acl.None)))
}

// Granting more never yields less: resolution under ADMIN is at least
// resolution under READWRITE for the same item.
func TestResolveMonotonicity(t *testing.T) {
	env := newTestEnv(t, 1)
	id := env.writeFile(t, env.roots[0], "a.txt", "x")
	require.NoError(t, env.store.Set(id, acl.Wildcard, acl.ReadOnly))

	asReadWrite := resolveFile(t, env, id, userWith("dave", acl.ReadWrite))
	asAdmin := resolveFile(t, env, id, userWith("dave", acl.Admin))
	assert.GreaterOrEqual(t, int(asAdmin), int(asReadWrite))
}

func TestCanReadCanModifyThresholds(t *testing.T) {
	env := newTestEnv(t, 1)
	id := env.writeFile(t, env.roots[0], "a.txt", "x")
	_, item, err := env.gateway.resolveItem(id)
	require.NoError(t, err)

	resolver := env.gateway.resolver
	root := env.roots[0]

	canRead, err := resolver.CanRead(item, userWith("u", acl.ReadOnly), root)
	require.NoError(t, err)
	assert.True(t, canRead)

	canModify, err := resolver.CanModify(item, userWith("u", acl.ReadOnly), root)
	require.NoError(t, err)
	assert.False(t, canModify)

	canRead, err = resolver.CanRead(item, userWith("u", acl.None), root)
	require.NoError(t, err)
	assert.False(t, canRead)

	canModify, err = resolver.CanModify(item, userWith("u", acl.ReadWrite), root)
	require.NoError(t, err)
	assert.True(t, canModify)
}
