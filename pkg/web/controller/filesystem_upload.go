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

	"github.com/openshelf/shelfd/pkg/log"
	"github.com/openshelf/shelfd/pkg/web/model"
)

// UploadFile receives one or more multipart "file" parts and stores
// each under the addressed folder. Every part is tracked for progress
// polling; the tracking ids are returned alongside the created items.
func (c *FilesystemController) UploadFile() {
	form, err := c.ctx.MultipartForm()
	if err != nil || form == nil {
		c.RespondError(
			http.StatusBadRequest,
			model.ErrorCodeNoUploadData,
			"multipart form is empty",
		)
		return
	}

	fileParts := form.File["file"]
	if len(fileParts) == 0 {
		c.RespondError(
			http.StatusBadRequest,
			model.ErrorCodeNoUploadData,
			"no file parts in upload",
		)
		return
	}

	dirID := c.ctx.Param("id")
	user := c.currentUser()

	type uploadedFile struct {
		model.Item `json:",inline"`
		TrackingID string `json:"tracking_id"`
	}
	results := make([]uploadedFile, 0, len(fileParts))

	for _, part := range fileParts {
		content, err := part.Open()
		if err != nil {
			c.RespondError(
				http.StatusBadRequest,
				model.ErrorCodeUploadFailed,
				"error opening upload part: "+err.Error(),
			)
			return
		}

		trackingID := c.deps.Uploads.Start(part.Filename, part.Size)
		item, err := c.deps.Gateway.Upload(user, dirID, part.Filename, c.deps.Uploads.Reader(trackingID, content))
		content.Close()
		c.deps.Uploads.Finish(trackingID, err)

		if err != nil {
			log.Warn("Upload of %q failed: %v", part.Filename, err)
			c.RespondGatewayError(err)
			return
		}

		results = append(results, uploadedFile{
			Item:       itemPayload(item),
			TrackingID: trackingID,
		})
	}

	c.RespondSuccess(results)
}
