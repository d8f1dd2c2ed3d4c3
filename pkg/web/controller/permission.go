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
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/shelfd/pkg/acl"
	"github.com/openshelf/shelfd/pkg/web/model"
)

// PermissionController manages stored access overrides. All operations
// require the caller to hold the ADMIN mode.
type PermissionController struct {
	*basicController
}

func NewPermissionController(ctx *gin.Context, deps *Deps) *PermissionController {
	return &PermissionController{basicController: newBasicController(ctx, deps)}
}

func (c *PermissionController) requireAdmin() bool {
	if c.currentUser().Mode() != acl.Admin {
		c.RespondError(http.StatusForbidden, model.ErrorCodeUnauthorized, "administrator access required")
		return false
	}
	return true
}

// target validates the addressed item and rejects folders, which take
// their access from defaults and never carry overrides.
func (c *PermissionController) target() (string, bool) {
	id := c.ctx.Param("id")
	details, err := c.deps.Gateway.GetDetails(c.currentUser(), id)
	if err != nil {
		c.RespondGatewayError(err)
		return "", false
	}
	if !details.Item.IsFile {
		c.RespondError(http.StatusBadRequest, model.ErrorCodeNotAFile, "permission overrides apply to files only")
		return "", false
	}
	return id, true
}

// ListPermissions returns the stored overrides for a file.
func (c *PermissionController) ListPermissions() {
	if !c.requireAdmin() {
		return
	}
	id, ok := c.target()
	if !ok {
		return
	}

	entries, err := c.deps.ACLs.List(id)
	if err != nil {
		c.RespondError(http.StatusInternalServerError, model.ErrorCodeSavingFailed, err.Error())
		return
	}

	payload := make([]model.PermissionEntry, 0, len(entries))
	for _, entry := range entries {
		payload = append(payload, model.PermissionEntry{
			Subject: entry.Subject,
			Level:   entry.Level.String(),
		})
	}
	c.RespondSuccess(payload)
}

// SetPermission stores one override. The subject is a user id or "*".
func (c *PermissionController) SetPermission() {
	if !c.requireAdmin() {
		return
	}

	var req model.PermissionRequest
	if err := c.bindJSON(&req); err != nil {
		c.RespondError(http.StatusBadRequest, model.ErrorCodeInvalidUsage, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		c.RespondError(http.StatusBadRequest, model.ErrorCodeInvalidUsage, err.Error())
		return
	}

	id, ok := c.target()
	if !ok {
		return
	}

	level, err := acl.ParseLevel(req.Level)
	if err != nil {
		c.RespondError(http.StatusBadRequest, model.ErrorCodeInvalidUsage, err.Error())
		return
	}

	if err := c.deps.ACLs.Set(id, req.Subject, level); err != nil {
		c.RespondError(http.StatusInternalServerError, model.ErrorCodeSavingFailed, err.Error())
		return
	}
	c.RespondSuccess(nil)
}

// RemovePermission deletes one stored override.
func (c *PermissionController) RemovePermission() {
	if !c.requireAdmin() {
		return
	}
	id, ok := c.target()
	if !ok {
		return
	}

	if err := c.deps.ACLs.Remove(id, c.ctx.Param("subject")); err != nil {
		c.RespondError(http.StatusInternalServerError, model.ErrorCodeSavingFailed, err.Error())
		return
	}
	c.RespondSuccess(nil)
}
