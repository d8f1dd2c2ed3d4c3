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

package acl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelOrdering(t *testing.T) {
	assert.True(t, None < ReadOnly)
	assert.True(t, ReadOnly < ReadWrite)
	assert.True(t, ReadWrite < Admin)
}

func TestParseLevel(t *testing.T) {
	for spelling, want := range map[string]Level{
		"RO":        ReadOnly,
		"rw":        ReadWrite,
		"ADMIN":     Admin,
		"none":      None,
		"READWRITE": ReadWrite,
	} {
		got, err := ParseLevel(spelling)
		require.NoError(t, err, "spelling %q", spelling)
		assert.Equal(t, want, got, "spelling %q", spelling)
	}

	_, err := ParseLevel("rwx")
	assert.Error(t, err)
}

// storeUnderTest exercises the Store contract against any backend.
func storeUnderTest(t *testing.T, store interface {
	Store
	DescriptionStore
}) {
	t.Helper()

	_, found, err := store.Get("item-1", "alice")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set("item-1", "alice", ReadWrite))
	require.NoError(t, store.Set("item-1", Wildcard, ReadOnly))
	require.NoError(t, store.Set("item-2", "alice", None))

	level, found, err := store.Get("item-1", "alice")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, ReadWrite, level)

	entries, err := store.List("item-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// rename carries entries to the new id
	require.NoError(t, store.Move("item-1", "item-1-renamed"))
	_, found, err = store.Get("item-1", "alice")
	require.NoError(t, err)
	assert.False(t, found)
	level, found, err = store.Get("item-1-renamed", Wildcard)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, ReadOnly, level)

	require.NoError(t, store.Remove("item-1-renamed", Wildcard))
	_, found, err = store.Get("item-1-renamed", Wildcard)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.RemoveItem("item-1-renamed"))
	entries, err = store.List("item-1-renamed")
	require.NoError(t, err)
	assert.Empty(t, entries)

	// descriptions
	_, found, err = store.GetDescription("item-2")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.SetDescription("item-2", "quarterly reports"))
	text, found, err := store.GetDescription("item-2")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "quarterly reports", text)

	require.NoError(t, store.MoveDescription("item-2", "item-3"))
	text, found, err = store.GetDescription("item-3")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "quarterly reports", text)

	require.NoError(t, store.RemoveDescription("item-3"))
	_, found, err = store.GetDescription("item-3")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	storeUnderTest(t, store)
}

func TestBadgerStore(t *testing.T) {
	store, err := OpenBadgerStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	storeUnderTest(t, store)
}

func TestBadgerStorePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := OpenBadgerStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set("item-1", "bob", ReadOnly))
	require.NoError(t, store.Close())

	store, err = OpenBadgerStore(dir)
	require.NoError(t, err)
	defer store.Close()

	level, found, err := store.Get("item-1", "bob")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, ReadOnly, level)
}
