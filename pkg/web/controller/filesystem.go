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

	"github.com/openshelf/shelfd/pkg/fs"
	"github.com/openshelf/shelfd/pkg/web/model"
)

// FilesystemController handles browsing and item manipulation.
type FilesystemController struct {
	*basicController
}

func NewFilesystemController(ctx *gin.Context, deps *Deps) *FilesystemController {
	return &FilesystemController{basicController: newBasicController(ctx, deps)}
}

// GetRoots lists the configured storage roots with their folder ids.
func (c *FilesystemController) GetRoots() {
	roots := c.deps.Gateway.Roots().All()
	payload := make([]model.Item, 0, len(roots))
	for _, root := range roots {
		payload = append(payload, model.Item{
			ID:     fs.EncodeID(root.ID, ""),
			RootID: root.ID,
			Name:   root.Name,
		})
	}
	c.RespondSuccess(payload)
}

// ListChildren returns the visible content of a folder.
func (c *FilesystemController) ListChildren() {
	listing, err := c.deps.Gateway.ListChildren(c.currentUser(), c.ctx.Param("id"))
	if err != nil {
		c.RespondGatewayError(err)
		return
	}

	resp := model.ListingResponse{
		Directory: itemPayload(listing.Directory),
		Ancestors: make([]model.Item, 0, len(listing.Ancestors)),
		Folders:   []model.Item{},
		Files:     []model.Item{},
	}
	for _, ancestor := range listing.Ancestors {
		resp.Ancestors = append(resp.Ancestors, itemPayload(ancestor))
	}
	for _, item := range listing.Items {
		if item.IsFile {
			resp.Files = append(resp.Files, itemPayload(item))
		} else {
			resp.Folders = append(resp.Folders, itemPayload(item))
		}
	}
	c.RespondSuccess(resp)
}

// GetDetails returns the full metadata of one item.
func (c *FilesystemController) GetDetails() {
	details, err := c.deps.Gateway.GetDetails(c.currentUser(), c.ctx.Param("id"))
	if err != nil {
		c.RespondGatewayError(err)
		return
	}

	c.RespondSuccess(model.DetailsResponse{
		Item:        itemPayload(details.Item),
		Description: details.Description,
		Permission:  details.Access,
		Modified:    details.Item.Modified,
		Created:     details.Item.Created,
		Accessed:    details.Item.Accessed,
	})
}

// Rename changes an item's name in place.
func (c *FilesystemController) Rename() {
	var req model.RenameRequest
	if err := c.bindJSON(&req); err != nil {
		c.RespondError(http.StatusBadRequest, model.ErrorCodeInvalidUsage, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		c.RespondError(http.StatusBadRequest, model.ErrorCodeInvalidUsage, err.Error())
		return
	}

	item, err := c.deps.Gateway.Rename(c.currentUser(), c.ctx.Param("id"), req.Name)
	if err != nil {
		c.RespondGatewayError(err)
		return
	}
	c.RespondSuccess(itemPayload(item))
}

// Delete removes a file or folder.
func (c *FilesystemController) Delete() {
	if err := c.deps.Gateway.Delete(c.currentUser(), c.ctx.Param("id")); err != nil {
		c.RespondGatewayError(err)
		return
	}
	c.RespondSuccess(nil)
}

// CreateFolder creates a folder under the addressed directory.
func (c *FilesystemController) CreateFolder() {
	var req model.CreateFolderRequest
	if err := c.bindJSON(&req); err != nil {
		c.RespondError(http.StatusBadRequest, model.ErrorCodeInvalidUsage, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		c.RespondError(http.StatusBadRequest, model.ErrorCodeInvalidUsage, err.Error())
		return
	}

	item, err := c.deps.Gateway.CreateFolder(c.currentUser(), c.ctx.Param("id"), req.Name)
	if err != nil {
		c.RespondGatewayError(err)
		return
	}
	c.RespondSuccess(itemPayload(item))
}

// SetDescription stores a description for an item.
func (c *FilesystemController) SetDescription() {
	var req model.DescriptionRequest
	if err := c.bindJSON(&req); err != nil {
		c.RespondError(http.StatusBadRequest, model.ErrorCodeInvalidUsage, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		c.RespondError(http.StatusBadRequest, model.ErrorCodeInvalidUsage, err.Error())
		return
	}

	if err := c.deps.Gateway.SetDescription(c.currentUser(), c.ctx.Param("id"), req.Description); err != nil {
		c.RespondGatewayError(err)
		return
	}
	c.RespondSuccess(nil)
}

// RemoveDescription clears an item's description.
func (c *FilesystemController) RemoveDescription() {
	if err := c.deps.Gateway.RemoveDescription(c.currentUser(), c.ctx.Param("id")); err != nil {
		c.RespondGatewayError(err)
		return
	}
	c.RespondSuccess(nil)
}

func itemPayload(item fs.Item) model.Item {
	payload := model.Item{
		ID:        item.ID,
		RootID:    item.RootID,
		Name:      item.Name,
		Path:      item.Path,
		IsFile:    item.IsFile,
		Extension: item.Extension,
		Size:      item.Size,
	}
	if item.Path != "" {
		payload.ParentID = fs.EncodeID(item.RootID, item.ParentPath())
	}
	return payload
}
