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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openshelf/shelfd/pkg/acl"
	"github.com/openshelf/shelfd/pkg/config"
)

type testEnv struct {
	gateway  *Gateway
	registry *Registry
	store    *acl.MemoryStore
	roots    []Root
}

// newTestEnv builds a gateway over n fresh temp-dir roots named
// "r0", "r1", ... with an in-memory ACL store and default ignore
// patterns.
func newTestEnv(t *testing.T, n int) *testEnv {
	t.Helper()

	configs := make([]config.RootConfig, 0, n)
	for i := 0; i < n; i++ {
		configs = append(configs, config.RootConfig{
			ID:   "r" + string(rune('0'+i)),
			Name: "Root " + string(rune('0'+i)),
			Path: t.TempDir(),
		})
	}

	registry, err := NewRegistry(configs)
	require.NoError(t, err)

	store := acl.NewMemoryStore()
	t.Cleanup(func() { store.Close() })

	gateway := NewGateway(registry, NewResolver(store), store, store, config.DefaultIgnorePatterns)

	env := &testEnv{gateway: gateway, registry: registry, store: store}
	for _, cfg := range configs {
		root, ok := registry.Get(cfg.ID)
		require.True(t, ok)
		env.roots = append(env.roots, root)
	}
	return env
}

func (e *testEnv) writeFile(t *testing.T, root Root, rel, content string) string {
	t.Helper()
	abs := filepath.Join(root.Path, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
	require.NoError(t, os.WriteFile(abs, []byte(content), 0o644))
	return EncodeID(root.ID, rel)
}

func (e *testEnv) mkdir(t *testing.T, root Root, rel string) string {
	t.Helper()
	abs := filepath.Join(root.Path, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(abs, 0o755))
	return EncodeID(root.ID, rel)
}

func (e *testEnv) rootID(root Root) string {
	return EncodeID(root.ID, "")
}

// userWith builds a caller whose per-user default is explicit.
func userWith(id string, level acl.Level) User {
	return User{ID: id, Default: level, HasDefault: true, Global: acl.ReadOnly}
}

// guestWith builds a caller who only has the global default.
func guestWith(global acl.Level) User {
	return User{ID: "", Global: global}
}
