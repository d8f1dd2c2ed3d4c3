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
	"github.com/shirou/gopsutil/disk"

	"github.com/openshelf/shelfd/pkg/web/model"
)

// StatusController reports storage capacity per root.
type StatusController struct {
	*basicController
}

func NewStatusController(ctx *gin.Context, deps *Deps) *StatusController {
	return &StatusController{basicController: newBasicController(ctx, deps)}
}

// GetStatus returns disk usage of every configured root.
func (c *StatusController) GetStatus() {
	roots := c.deps.Gateway.Roots().All()
	payload := make([]model.RootStatus, 0, len(roots))

	for _, root := range roots {
		usage, err := disk.Usage(root.Path)
		if err != nil {
			c.RespondError(
				http.StatusInternalServerError,
				model.ErrorCodeSavingFailed,
				"error reading disk usage for root "+root.ID+": "+err.Error(),
			)
			return
		}
		payload = append(payload, model.RootStatus{
			ID:          root.ID,
			Name:        root.Name,
			Total:       usage.Total,
			Free:        usage.Free,
			Used:        usage.Used,
			UsedPercent: usage.UsedPercent,
		})
	}

	c.RespondSuccess(payload)
}
