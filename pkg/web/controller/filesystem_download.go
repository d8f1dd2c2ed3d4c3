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
	"strconv"
)

// DownloadFile streams a file's bytes as an attachment. Range requests
// are honored through http.ServeContent.
func (c *FilesystemController) DownloadFile() {
	file, item, err := c.deps.Gateway.Download(c.currentUser(), c.ctx.Param("id"))
	if err != nil {
		c.RespondGatewayError(err)
		return
	}
	defer file.Close()

	c.ctx.Header("Content-Type", "application/octet-stream")
	c.ctx.Header("Content-Disposition", "attachment; filename="+strconv.Quote(item.Name))
	c.ctx.Header("Content-Length", strconv.FormatInt(item.Size, 10))

	http.ServeContent(c.ctx.Writer, c.ctx.Request, item.Name, item.Modified, file)
}
