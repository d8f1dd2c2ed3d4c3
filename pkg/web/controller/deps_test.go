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

package controller

import (
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/shelfd/pkg/acl"
	"github.com/openshelf/shelfd/pkg/config"
	"github.com/openshelf/shelfd/pkg/fs"
	"github.com/openshelf/shelfd/pkg/progress"
	"github.com/openshelf/shelfd/pkg/session"
)

// newTestDeps builds a full server state over one temp root with an
// in-memory ACL store. The guest default is RW so tests exercise the
// handlers rather than the resolver.
func newTestDeps(t *testing.T) (*Deps, fs.Root) {
	t.Helper()

	rootPath := t.TempDir()
	cfg := &config.Config{
		Roots: []config.RootConfig{
			{ID: "docs", Name: "Documents", Path: rootPath},
		},
		Permissions: config.PermissionsConfig{DefaultMode: "RW"},
		Listing:     config.ListingConfig{IgnorePatterns: config.DefaultIgnorePatterns},
	}

	store := acl.NewMemoryStore()
	registry, err := fs.NewRegistry(cfg.Roots)
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}
	gateway := fs.NewGateway(registry, fs.NewResolver(store), store, store, cfg.Listing.IgnorePatterns)

	deps := &Deps{
		Config:   cfg,
		Gateway:  gateway,
		Sessions: session.NewManager(cfg),
		Uploads:  progress.NewTracker(),
		ACLs:     store,
	}
	root, _ := registry.Get("docs")
	return deps, root
}

func writeTestFile(t *testing.T, root fs.Root, rel, content string) string {
	t.Helper()
	full := filepath.Join(root.Path, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", rel, err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
	return fs.EncodeID(root.ID, rel)
}

func withParam(ctx *gin.Context, key, value string) {
	ctx.Params = append(ctx.Params, gin.Param{Key: key, Value: value})
}

func asSession(ctx *gin.Context, s *session.Session) {
	ctx.Set(SessionContextKey, s)
}

// decodeResult unmarshals the success envelope's result field.
func decodeResult(t *testing.T, rec *httptest.ResponseRecorder, target any) {
	t.Helper()
	var envelope struct {
		Success bool            `json:"success"`
		Result  json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if !envelope.Success {
		t.Fatalf("expected success envelope, got %s", rec.Body.String())
	}
	if target != nil {
		if err := json.Unmarshal(envelope.Result, target); err != nil {
			t.Fatalf("decode result: %v", err)
		}
	}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) (int, string) {
	t.Helper()
	var envelope struct {
		Success bool   `json:"success"`
		Code    int    `json:"code"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if envelope.Success {
		t.Fatalf("expected error envelope, got %s", rec.Body.String())
	}
	return envelope.Code, envelope.Error
}
