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
	"net/http"
	"testing"

	"github.com/openshelf/shelfd/pkg/config"
	"github.com/openshelf/shelfd/pkg/web/model"
)

func withUsers(deps *Deps) {
	deps.Config.Users = []config.UserConfig{
		{ID: "u1", Name: "alice", Password: "secret", PermissionMode: "ADMIN"},
	}
}

func TestAuthControllerLogin(t *testing.T) {
	deps, _ := newTestDeps(t)
	withUsers(deps)

	body, _ := json.Marshal(model.LoginRequest{Username: "alice", Password: "secret"})
	ctx, rec := newTestContext(http.MethodPost, "/auth/login", body)

	NewAuthController(ctx, deps).Login()

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var info model.SessionInfo
	decodeResult(t, rec, &info)
	if !info.Authenticated || info.UserID != "u1" || info.Token == "" {
		t.Fatalf("unexpected session info: %#v", info)
	}
	if info.DefaultPermission != "ADMIN" {
		t.Fatalf("expected ADMIN mode, got %q", info.DefaultPermission)
	}
	if _, found := deps.Sessions.Get(info.Token); !found {
		t.Fatal("session not stored")
	}
}

func TestAuthControllerLoginBadPassword(t *testing.T) {
	deps, _ := newTestDeps(t)
	withUsers(deps)

	body, _ := json.Marshal(model.LoginRequest{Username: "alice", Password: "wrong"})
	ctx, rec := newTestContext(http.MethodPost, "/auth/login", body)

	NewAuthController(ctx, deps).Login()

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
	code, _ := decodeError(t, rec)
	if code != int(model.ErrorCodeUnauthorized) {
		t.Fatalf("expected code 100, got %d", code)
	}
}

func TestAuthControllerLoginMissingFields(t *testing.T) {
	deps, _ := newTestDeps(t)
	withUsers(deps)

	body, _ := json.Marshal(model.LoginRequest{Username: "alice"})
	ctx, rec := newTestContext(http.MethodPost, "/auth/login", body)

	NewAuthController(ctx, deps).Login()

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestAuthControllerGuestSession(t *testing.T) {
	deps, _ := newTestDeps(t)

	ctx, rec := newTestContext(http.MethodGet, "/auth/session", nil)
	NewAuthController(ctx, deps).GetSession()

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var info model.SessionInfo
	decodeResult(t, rec, &info)
	if info.Authenticated || info.Token != "" {
		t.Fatalf("expected guest session, got %#v", info)
	}
	if info.DefaultPermission != "RW" {
		t.Fatalf("expected RW guest mode, got %q", info.DefaultPermission)
	}
}

func TestAuthControllerLogout(t *testing.T) {
	deps, _ := newTestDeps(t)
	withUsers(deps)

	s, err := deps.Sessions.Login("alice", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	ctx, rec := newTestContext(http.MethodPost, "/auth/logout", nil)
	asSession(ctx, s)
	NewAuthController(ctx, deps).Logout()

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if _, found := deps.Sessions.Get(s.Token); found {
		t.Fatal("session should be removed")
	}
}
