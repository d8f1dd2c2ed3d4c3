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
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/openshelf/shelfd/pkg/log"
	"github.com/openshelf/shelfd/pkg/web/model"
)

// ProgressController exposes upload progress, by polling or over a
// websocket.
type ProgressController struct {
	*basicController
}

func NewProgressController(ctx *gin.Context, deps *Deps) *ProgressController {
	return &ProgressController{basicController: newBasicController(ctx, deps)}
}

// GetProgress returns one snapshot of a tracked upload.
func (c *ProgressController) GetProgress() {
	state, found := c.deps.Uploads.Get(c.ctx.Param("id"))
	if !found {
		c.RespondError(http.StatusNotFound, model.ErrorCodeNotFound, "unknown tracking id")
		return
	}
	c.RespondSuccess(state)
}

var progressUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// WatchProgress streams upload state over a websocket until the upload
// finishes or the client disconnects.
func (c *ProgressController) WatchProgress() {
	id := c.ctx.Param("id")
	if _, found := c.deps.Uploads.Get(id); !found {
		c.RespondError(http.StatusNotFound, model.ErrorCodeNotFound, "unknown tracking id")
		return
	}

	conn, err := progressUpgrader.Upgrade(c.ctx.Writer, c.ctx.Request, nil)
	if err != nil {
		log.Warn("WatchProgress upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Request.Context().Done():
			return
		case <-ticker.C:
			state, found := c.deps.Uploads.Get(id)
			if !found {
				return
			}
			if err := conn.WriteJSON(state); err != nil {
				log.Warn("WatchProgress write error: %v", err)
				return
			}
			if state.Done {
				return
			}
		}
	}
}
