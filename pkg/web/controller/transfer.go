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
	"github.com/openshelf/shelfd/pkg/log"
	"github.com/openshelf/shelfd/pkg/web/model"
)

// TransferController handles drag-and-drop style item transfers.
type TransferController struct {
	*basicController
}

func NewTransferController(ctx *gin.Context, deps *Deps) *TransferController {
	return &TransferController{basicController: newBasicController(ctx, deps)}
}

func (c *TransferController) bindTransfer() (model.TransferRequest, bool) {
	var req model.TransferRequest
	if err := c.bindJSON(&req); err != nil {
		c.RespondError(http.StatusBadRequest, model.ErrorCodeInvalidUsage, "invalid request body")
		return req, false
	}
	if err := req.Validate(); err != nil {
		c.RespondError(http.StatusBadRequest, model.ErrorCodeInvalidUsage, err.Error())
		return req, false
	}
	return req, true
}

// PlanTransfer previews a drop without touching storage: the per-item
// move or copy classification, and whether the batch would be accepted.
func (c *TransferController) PlanTransfer() {
	req, ok := c.bindTransfer()
	if !ok {
		return
	}
	user := c.currentUser()

	dest, err := c.deps.Gateway.GetDetails(user, req.Destination)
	if err != nil {
		c.RespondGatewayError(err)
		return
	}

	resp := model.TransferPlanResponse{
		Entries: make([]model.TransferPlanEntry, 0, len(req.Items)),
	}
	for _, id := range req.Items {
		src, err := c.deps.Gateway.GetDetails(user, id)
		if err != nil {
			c.RespondGatewayError(err)
			return
		}
		resp.Entries = append(resp.Entries, model.TransferPlanEntry{
			ID:     id,
			Action: fs.TypeOf(src.Item, dest.Item).String(),
		})
	}

	if err := c.deps.Gateway.CanTransfer(user, req.Items, req.Destination); err != nil {
		resp.Allowed = false
		resp.Reason = err.Error()
	} else {
		resp.Allowed = true
	}
	c.RespondSuccess(resp)
}

// ExecuteTransfer performs a drop: each item is moved within its root
// or copied across roots. One failing item rejects the whole batch.
func (c *TransferController) ExecuteTransfer() {
	req, ok := c.bindTransfer()
	if !ok {
		return
	}

	items, err := c.deps.Gateway.Transfer(c.currentUser(), req.Items, req.Destination)
	if err != nil {
		c.RespondGatewayError(err)
		return
	}

	log.Info("Transferred %d item(s) to %s", len(items), req.Destination)
	payload := make([]model.Item, 0, len(items))
	for _, item := range items {
		payload = append(payload, itemPayload(item))
	}
	c.RespondSuccess(payload)
}
