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

// Package session tracks logged-in callers. Each successful login gets
// an opaque token the client sends back on subsequent requests. When no
// users are configured the manager hands out a shared guest identity
// instead.
package session

import (
	"crypto/md5"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/openshelf/shelfd/pkg/acl"
	"github.com/openshelf/shelfd/pkg/config"
	"github.com/openshelf/shelfd/pkg/fs"
)

// ErrInvalidCredentials is returned by Login when the name or password
// does not match a configured account.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Session is one authenticated caller.
type Session struct {
	Token         string
	UserID        string
	UserName      string
	Authenticated bool
	CreatedAt     time.Time

	// User is the permission subject resolved for this session.
	User fs.User
}

// Manager owns the live session table.
type Manager struct {
	cfg *config.Config

	mutex    sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a session manager for the given configuration.
func NewManager(cfg *config.Config) *Manager {
	return &Manager{
		cfg:      cfg,
		sessions: make(map[string]*Session),
	}
}

// AuthenticationRequired reports whether callers must log in before
// using the API.
func (m *Manager) AuthenticationRequired() bool {
	return m.cfg.AuthenticationRequired()
}

// Login validates credentials and creates a session.
func (m *Manager) Login(name, password string) (*Session, error) {
	account, found := m.cfg.FindUser(name)
	if !found {
		return nil, ErrInvalidCredentials
	}

	stored := account.Password
	if !m.cfg.PasswordsHashed {
		stored = hashPassword(stored)
	}
	given := hashPassword(password)
	if subtle.ConstantTimeCompare([]byte(stored), []byte(given)) != 1 {
		return nil, ErrInvalidCredentials
	}

	session := &Session{
		Token:         uuid.NewString(),
		UserID:        account.ID,
		UserName:      account.Name,
		Authenticated: true,
		CreatedAt:     time.Now(),
		User:          m.userFor(account),
	}

	m.mutex.Lock()
	m.sessions[session.Token] = session
	m.mutex.Unlock()

	return session, nil
}

// Get returns the session for a token.
func (m *Manager) Get(token string) (*Session, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	session, found := m.sessions[token]
	return session, found
}

// Logout removes the session for a token. Unknown tokens are ignored.
func (m *Manager) Logout(token string) {
	m.mutex.Lock()
	delete(m.sessions, token)
	m.mutex.Unlock()
}

// Guest returns the shared anonymous identity used when authentication
// is disabled. Guest sessions are not stored; every anonymous request
// resolves to the same subject.
func (m *Manager) Guest() *Session {
	return &Session{
		Authenticated: false,
		CreatedAt:     time.Now(),
		User:          fs.User{Global: m.globalDefault()},
	}
}

func (m *Manager) userFor(account config.UserConfig) fs.User {
	user := fs.User{
		ID:     account.ID,
		Global: m.globalDefault(),
	}
	if account.PermissionMode != "" {
		if level, err := acl.ParseLevel(account.PermissionMode); err == nil {
			user.Default = level
			user.HasDefault = true
		}
	}
	return user
}

func (m *Manager) globalDefault() acl.Level {
	return m.cfg.DefaultLevelFor("")
}

func hashPassword(password string) string {
	sum := md5.Sum([]byte(password))
	return hex.EncodeToString(sum[:])
}
