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
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/shelfd/pkg/log"
	"github.com/openshelf/shelfd/pkg/session"
	"github.com/openshelf/shelfd/pkg/web/model"
)

// AuthController handles login, logout and session introspection.
type AuthController struct {
	*basicController
}

func NewAuthController(ctx *gin.Context, deps *Deps) *AuthController {
	return &AuthController{basicController: newBasicController(ctx, deps)}
}

// Login validates credentials and issues a session token.
func (c *AuthController) Login() {
	var req model.LoginRequest
	if err := c.bindJSON(&req); err != nil {
		c.RespondError(http.StatusBadRequest, model.ErrorCodeInvalidUsage, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		c.RespondError(http.StatusBadRequest, model.ErrorCodeInvalidUsage, err.Error())
		return
	}

	s, err := c.deps.Sessions.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, session.ErrInvalidCredentials) {
			log.Warn("Login rejected for user %q", req.Username)
			c.RespondError(http.StatusUnauthorized, model.ErrorCodeUnauthorized, "invalid credentials")
			return
		}
		c.RespondError(http.StatusInternalServerError, model.ErrorCodeSavingFailed, err.Error())
		return
	}

	log.Info("User %q logged in", s.UserName)
	c.RespondSuccess(sessionInfo(s))
}

// Logout discards the caller's session.
func (c *AuthController) Logout() {
	s := c.currentSession()
	if s.Authenticated {
		c.deps.Sessions.Logout(s.Token)
		log.Info("User %q logged out", s.UserName)
	}
	c.RespondSuccess(nil)
}

// GetSession describes the caller's current identity.
func (c *AuthController) GetSession() {
	c.RespondSuccess(sessionInfo(c.currentSession()))
}

func sessionInfo(s *session.Session) model.SessionInfo {
	return model.SessionInfo{
		Token:             s.Token,
		UserID:            s.UserID,
		Username:          s.UserName,
		Authenticated:     s.Authenticated,
		DefaultPermission: s.User.Mode().String(),
	}
}
