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
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/shelfd/pkg/acl"
	"github.com/openshelf/shelfd/pkg/config"
	"github.com/openshelf/shelfd/pkg/fs"
	"github.com/openshelf/shelfd/pkg/progress"
	"github.com/openshelf/shelfd/pkg/session"
	"github.com/openshelf/shelfd/pkg/web/model"
)

// SessionContextKey is the gin context key under which the session
// middleware stores the caller's *session.Session.
const SessionContextKey = "shelfd-session"

// Deps bundles the shared server state handed to every controller.
type Deps struct {
	Config   *config.Config
	Gateway  *fs.Gateway
	Sessions *session.Manager
	Uploads  *progress.Tracker
	ACLs     acl.Store
}

type basicController struct {
	ctx  *gin.Context
	deps *Deps
}

func newBasicController(ctx *gin.Context, deps *Deps) *basicController {
	return &basicController{ctx: ctx, deps: deps}
}

func (c *basicController) RespondError(status int, code model.ErrorCode, message ...string) {
	resp := model.ErrorResponse{
		Success: false,
		Code:    code,
		Error:   "",
	}
	if len(message) > 0 {
		resp.Error = message[0]
	}
	if len(message) > 1 {
		resp.Details = message[1]
	}
	c.ctx.JSON(status, resp)
}

func (c *basicController) RespondSuccess(data any) {
	c.ctx.JSON(http.StatusOK, model.SuccessResponse{
		Success: true,
		Result:  data,
	})
}

func (c *basicController) bindJSON(target any) error {
	decoder := json.NewDecoder(c.ctx.Request.Body)
	return decoder.Decode(target)
}

// currentSession returns the caller's session as stored by the session
// middleware, falling back to a guest identity.
func (c *basicController) currentSession() *session.Session {
	if value, exists := c.ctx.Get(SessionContextKey); exists {
		if s, ok := value.(*session.Session); ok {
			return s
		}
	}
	return c.deps.Sessions.Guest()
}

func (c *basicController) currentUser() fs.User {
	return c.currentSession().User
}

// RespondGatewayError maps a classified filesystem failure onto the
// HTTP status and API error code pair clients key off.
func (c *basicController) RespondGatewayError(err error) {
	status, code := http.StatusInternalServerError, model.ErrorCodeSavingFailed

	if kind, ok := fs.KindOf(err); ok {
		switch kind {
		case fs.KindPermissionDenied:
			status, code = http.StatusForbidden, model.ErrorCodeUnauthorized
		case fs.KindUnsupported:
			status, code = http.StatusBadRequest, model.ErrorCodeUnsupported
		case fs.KindInvalidPath:
			status, code = http.StatusBadRequest, model.ErrorCodeInvalidPath
		case fs.KindNotFound:
			status, code = http.StatusNotFound, model.ErrorCodeNotFound
		case fs.KindAlreadyExists:
			status, code = http.StatusConflict, model.ErrorCodeAlreadyExists
		case fs.KindWrongType:
			status, code = http.StatusBadRequest, model.ErrorCodeNotAFile
		case fs.KindDeleteFailed:
			status, code = http.StatusInternalServerError, model.ErrorCodeDeleteFailed
		case fs.KindNoUploadData:
			status, code = http.StatusBadRequest, model.ErrorCodeNoUploadData
		case fs.KindUploadFailed:
			status, code = http.StatusInternalServerError, model.ErrorCodeUploadFailed
		}
	}

	var details string
	var gwErr *fs.Error
	if errors.As(err, &gwErr) {
		details = gwErr.Details
	}
	c.RespondError(status, code, err.Error(), details)
}
