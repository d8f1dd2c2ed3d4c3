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

package fs

import (
	"errors"
	"fmt"
)

// Kind classifies gateway failures. The set is fixed; callers map kinds
// to wire codes without inspecting the underlying cause.
type Kind int

const (
	// KindInvalidPath covers malformed ids, unknown roots and traversal
	// attempts. The three collapse deliberately so a response never
	// reveals which check failed.
	KindInvalidPath Kind = iota
	KindNotFound
	KindAlreadyExists
	KindWrongType
	KindPermissionDenied
	KindUnsupported
	KindNoUploadData
	KindUploadFailed
	KindDeleteFailed
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindInvalidPath:
		return "invalid path"
	case KindNotFound:
		return "not found"
	case KindAlreadyExists:
		return "already exists"
	case KindWrongType:
		return "wrong item type"
	case KindPermissionDenied:
		return "permission denied"
	case KindUnsupported:
		return "unsupported operation"
	case KindNoUploadData:
		return "no upload data"
	case KindUploadFailed:
		return "upload failed"
	case KindDeleteFailed:
		return "delete failed"
	default:
		return "storage failure"
	}
}

// Error is a classified gateway failure.
type Error struct {
	Kind    Kind
	Details string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Details != "" {
		msg += ": " + e.Details
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the classification from an error chain. The boolean
// is false for errors that did not come from this package.
func KindOf(err error) (Kind, bool) {
	var fsErr *Error
	if errors.As(err, &fsErr) {
		return fsErr.Kind, true
	}
	return 0, false
}

// IsKind reports whether err carries the given classification.
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

func newError(kind Kind, details string) *Error {
	return &Error{Kind: kind, Details: details}
}

func wrapError(kind Kind, details string, err error) *Error {
	return &Error{Kind: kind, Details: details, Err: err}
}

func errInvalidPath() *Error {
	return newError(KindInvalidPath, "")
}

func errPermissionDenied(name string) *Error {
	return newError(KindPermissionDenied, name)
}

func errWrongType(name string, wantFile bool) *Error {
	want := "directory"
	if wantFile {
		want = "file"
	}
	return newError(KindWrongType, fmt.Sprintf("%s is not a %s", name, want))
}
