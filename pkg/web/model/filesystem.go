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

package model

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Item represents one file or folder as seen by clients. The ID is
// opaque; clients never construct or parse it.
type Item struct {
	ID        string `json:"id"`
	RootID    string `json:"root_id"`
	ParentID  string `json:"parent_id,omitempty"`
	Name      string `json:"name"`
	Path      string `json:"path"`
	IsFile    bool   `json:"is_file"`
	Extension string `json:"extension,omitempty"`
	Size      int64  `json:"size"`
}

// RootInfo describes one storage root.
type RootInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ListingResponse is the content of one folder.
type ListingResponse struct {
	Directory Item   `json:"directory"`
	Ancestors []Item `json:"ancestors"`
	Folders   []Item `json:"folders"`
	Files     []Item `json:"files"`
}

// DetailsResponse is the full metadata of one item.
type DetailsResponse struct {
	Item        `json:",inline"`
	Description string    `json:"description,omitempty"`
	Permission  string    `json:"permission"`
	Modified    time.Time `json:"modified"`
	Created     time.Time `json:"created"`
	Accessed    time.Time `json:"accessed"`
}

// RenameRequest renames an item in place.
type RenameRequest struct {
	Name string `json:"name" validate:"required"`
}

func (r *RenameRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// CreateFolderRequest creates a folder under a parent.
type CreateFolderRequest struct {
	Name string `json:"name" validate:"required"`
}

func (r *CreateFolderRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// DescriptionRequest sets an item description.
type DescriptionRequest struct {
	Description string `json:"description" validate:"required"`
}

func (r *DescriptionRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// TransferRequest drops a set of items onto a destination folder.
type TransferRequest struct {
	Items       []string `json:"items" validate:"required,min=1"`
	Destination string   `json:"destination" validate:"required"`
}

func (r *TransferRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// TransferPlanEntry reports how one dropped item would be handled.
type TransferPlanEntry struct {
	ID     string `json:"id"`
	Action string `json:"action"`
}

// TransferPlanResponse is the preview of a drop: the per-item actions
// and whether the batch as a whole would be accepted.
type TransferPlanResponse struct {
	Allowed bool                `json:"allowed"`
	Reason  string              `json:"reason,omitempty"`
	Entries []TransferPlanEntry `json:"entries,omitempty"`
}

// PermissionEntry is one stored access override.
type PermissionEntry struct {
	Subject string `json:"subject"`
	Level   string `json:"level"`
}

// PermissionRequest sets or clears an override on a file.
type PermissionRequest struct {
	Subject string `json:"subject" validate:"required"`
	Level   string `json:"level" validate:"required,oneof=NONE RO RW ADMIN none ro rw admin"`
}

func (r *PermissionRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// RootStatus reports disk usage of one storage root.
type RootStatus struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Total       uint64  `json:"total"`
	Free        uint64  `json:"free"`
	Used        uint64  `json:"used"`
	UsedPercent float64 `json:"used_percent"`
}
