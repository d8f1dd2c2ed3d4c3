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
	"encoding/base64"
	"path"
	"path/filepath"
	"strings"
)

// Opaque ids are URL-safe base64 of "<root id>|<relative path>". The
// relative path is slash-separated and empty for the root itself. Ids
// hide raw storage paths and block traversal; they are not signed, so
// they are no defense against a caller who knows the scheme.
const idSeparator = "|"

// EncodeID builds the opaque id for a root-relative path. The path is
// normalized first so equal locations always yield equal ids.
func EncodeID(rootID, relPath string) string {
	relPath = normalizeRel(relPath)
	return base64.RawURLEncoding.EncodeToString([]byte(rootID + idSeparator + relPath))
}

// Decoded is the location an opaque id refers to.
type Decoded struct {
	Root Root

	// RelPath is the root-relative path, slash-separated, "" for the
	// root directory itself.
	RelPath string

	// AbsPath is the on-disk path, verified to lie within the root.
	AbsPath string
}

// DecodeID reverses EncodeID and validates the result. Malformed ids,
// unknown roots and traversal attempts all fail with the same
// invalid-path error so responses cannot be used to probe which roots
// exist.
func (r *Registry) DecodeID(id string) (Decoded, error) {
	raw, err := base64.RawURLEncoding.DecodeString(id)
	if err != nil {
		return Decoded{}, errInvalidPath()
	}

	parts := strings.SplitN(string(raw), idSeparator, 2)
	if len(parts) != 2 {
		return Decoded{}, errInvalidPath()
	}

	root, ok := r.Get(parts[0])
	if !ok {
		return Decoded{}, errInvalidPath()
	}

	rel := parts[1]
	if strings.ContainsRune(rel, 0) || strings.HasPrefix(rel, "/") {
		return Decoded{}, errInvalidPath()
	}

	// A parent segment anywhere in the raw path fails, before any
	// normalization gets a chance to fold it away.
	for _, segment := range strings.Split(rel, "/") {
		if segment == ".." {
			return Decoded{}, errInvalidPath()
		}
	}

	rel = normalizeRel(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") || strings.Contains(rel, "/../") {
		return Decoded{}, errInvalidPath()
	}

	abs := root.Path
	if rel != "" {
		abs = filepath.Join(root.Path, filepath.FromSlash(rel))
	}

	// Defense in depth: re-verify the reconstructed path still lies
	// within the root whatever the encoding contained.
	if abs != root.Path && !strings.HasPrefix(abs, root.Path+string(filepath.Separator)) {
		return Decoded{}, errInvalidPath()
	}

	return Decoded{Root: root, RelPath: rel, AbsPath: abs}, nil
}

// normalizeRel cleans a slash-separated relative path, mapping the root
// itself to "".
func normalizeRel(rel string) string {
	rel = strings.Trim(path.Clean("/"+rel), "/")
	if rel == "." {
		return ""
	}
	return rel
}
