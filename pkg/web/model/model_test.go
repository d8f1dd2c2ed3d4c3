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

import "testing"

func TestLoginRequestValidate(t *testing.T) {
	valid := LoginRequest{Username: "alice", Password: "secret"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}

	missing := LoginRequest{Username: "alice"}
	if err := missing.Validate(); err == nil {
		t.Fatal("expected validation error for missing password")
	}
}

func TestTransferRequestValidate(t *testing.T) {
	valid := TransferRequest{Items: []string{"a"}, Destination: "d"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}

	empty := TransferRequest{Items: []string{}, Destination: "d"}
	if err := empty.Validate(); err == nil {
		t.Fatal("expected validation error for empty batch")
	}

	noDest := TransferRequest{Items: []string{"a"}}
	if err := noDest.Validate(); err == nil {
		t.Fatal("expected validation error for missing destination")
	}
}

func TestPermissionRequestValidate(t *testing.T) {
	valid := PermissionRequest{Subject: "*", Level: "RO"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}

	badLevel := PermissionRequest{Subject: "u1", Level: "OWNER"}
	if err := badLevel.Validate(); err == nil {
		t.Fatal("expected validation error for unknown level")
	}
}
