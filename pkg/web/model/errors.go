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

// Package model defines the wire types of the HTTP API: request
// payloads with their validation rules and the response envelopes.
package model

// ApiAccessTokenHeader carries the optional server access token.
const ApiAccessTokenHeader = "X-Shelfd-Access-Token"

// SessionTokenHeader carries the session token issued at login.
const SessionTokenHeader = "X-Shelfd-Session"

// ErrorCode is a stable machine-readable failure code. Codes are part
// of the API contract and never change meaning between releases.
type ErrorCode int

const (
	ErrorCodeUnauthorized  ErrorCode = 100
	ErrorCodeUnsupported   ErrorCode = 101
	ErrorCodeInvalidPath   ErrorCode = 201
	ErrorCodeNotFound      ErrorCode = 202
	ErrorCodeAlreadyExists ErrorCode = 203
	ErrorCodeNotAFile      ErrorCode = 204
	ErrorCodeDeleteFailed  ErrorCode = 205
	ErrorCodeNoUploadData  ErrorCode = 206
	ErrorCodeUploadFailed  ErrorCode = 207
	ErrorCodeSavingFailed  ErrorCode = 208
	ErrorCodeInvalidUsage  ErrorCode = 400
)

// ErrorResponse is the envelope for every failed request.
type ErrorResponse struct {
	Success bool      `json:"success"`
	Code    ErrorCode `json:"code"`
	Error   string    `json:"error"`
	Details string    `json:"details,omitempty"`
}

// SuccessResponse wraps a successful result.
type SuccessResponse struct {
	Success bool `json:"success"`
	Result  any  `json:"result,omitempty"`
}
