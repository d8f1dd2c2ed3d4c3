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
	"io"
	"os"
	"path/filepath"
	"strings"
)

// TransferType classifies one source against a destination: moving
// within a root, copying across roots.
type TransferType int

const (
	TransferMove TransferType = iota
	TransferCopy
)

func (t TransferType) String() string {
	if t == TransferCopy {
		return "copy"
	}
	return "move"
}

// TypeOf returns the classification for one source item. A batch is
// classified per source item, so a mixed-root selection can move some
// items and copy others in the same drop.
func TypeOf(source, destination Item) TransferType {
	if source.RootID != destination.RootID {
		return TransferCopy
	}
	return TransferMove
}

// CanTransfer decides whether the whole batch may be transferred into
// destination. Evaluation is all-or-nothing: the first source that
// fails rejects the batch, so a transfer never silently drops items.
//
// The destination must be a directory the caller can modify. Each
// source requires READONLY on its parent when classified as a copy and
// READWRITE when classified as a move. Structural rules from
// interactive drag and drop also apply: an item cannot be dropped onto
// its current parent, and a directory cannot be moved or copied into
// its own subtree.
//
// Clients may call this ahead of time to enable or disable drop
// targets; the result is advisory and the check runs again when the
// transfer executes.
func (g *Gateway) CanTransfer(user User, sourceIDs []string, destinationID string) error {
	destDecoded, dest, err := g.resolveItem(destinationID)
	if err != nil {
		return err
	}
	if dest.IsFile {
		return errWrongType(dest.Name, false)
	}
	if err := g.requireModify(dest, user, destDecoded.Root); err != nil {
		return err
	}

	for _, sourceID := range sourceIDs {
		srcDecoded, src, err := g.resolveItem(sourceID)
		if err != nil {
			return err
		}
		if err := g.checkTransferSource(user, srcDecoded, src, dest); err != nil {
			return err
		}
	}
	return nil
}

func (g *Gateway) checkTransferSource(user User, srcDecoded Decoded, src, dest Item) error {
	if src.Path == "" {
		return newError(KindUnsupported, "cannot transfer a root")
	}

	if src.RootID == dest.RootID {
		// dropping onto the current parent is a no-op, not a transfer
		if src.ParentPath() == dest.Path {
			return errInvalidPath()
		}
		// a directory cannot land inside itself
		if !src.IsFile && (dest.Path == src.Path || strings.HasPrefix(dest.Path+"/", src.Path+"/")) {
			return errInvalidPath()
		}
	}

	parent, err := g.parentOf(srcDecoded, src)
	if err != nil {
		return err
	}

	if TypeOf(src, dest) == TransferCopy {
		return g.requireRead(parent, user, srcDecoded.Root)
	}
	return g.requireModify(parent, user, srcDecoded.Root)
}

// parentOf rebuilds the parent directory item of a source.
func (g *Gateway) parentOf(decoded Decoded, item Item) (Item, error) {
	rel := item.ParentPath()
	abs := decoded.Root.Path
	if rel != "" {
		abs = filepath.Join(decoded.Root.Path, filepath.FromSlash(rel))
	}
	info, err := os.Stat(abs)
	if err != nil {
		return Item{}, wrapError(KindIO, rel, err)
	}
	return newItem(decoded.Root, rel, info), nil
}

// Transfer executes a batch copy/move. The eligibility check reruns
// here regardless of any earlier advisory call; only then does each
// source transfer in turn. A name collision or storage failure on one
// source surfaces as-is, with earlier sources already transferred (the
// pre-check is all-or-nothing, execution is not transactional).
func (g *Gateway) Transfer(user User, sourceIDs []string, destinationID string) ([]Item, error) {
	if err := g.CanTransfer(user, sourceIDs, destinationID); err != nil {
		return nil, err
	}

	destDecoded, dest, err := g.resolveItem(destinationID)
	if err != nil {
		return nil, err
	}

	results := make([]Item, 0, len(sourceIDs))
	for _, sourceID := range sourceIDs {
		srcDecoded, src, err := g.resolveItem(sourceID)
		if err != nil {
			return results, err
		}

		target := filepath.Join(destDecoded.AbsPath, src.Name)
		if _, err := os.Stat(target); err == nil {
			return results, newError(KindAlreadyExists, src.Name)
		}
		targetRel := joinRel(dest.Path, src.Name)

		if TypeOf(src, dest) == TransferMove {
			if err := os.Rename(srcDecoded.AbsPath, target); err != nil {
				return results, wrapError(KindIO, src.Name, err)
			}
			if src.IsFile {
				g.moveItemMetadata(src.ID, EncodeID(destDecoded.Root.ID, targetRel))
			}
		} else {
			if err := copyTree(srcDecoded.AbsPath, target); err != nil {
				return results, wrapError(KindIO, src.Name, err)
			}
		}

		info, err := os.Stat(target)
		if err != nil {
			return results, wrapError(KindIO, src.Name, err)
		}
		results = append(results, newItem(destDecoded.Root, targetRel, info))
	}
	return results, nil
}

// copyTree duplicates a file or directory tree. Copies inherit no
// permission overrides; the destination starts clean.
func copyTree(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		return copyFile(src, dst, info)
	}

	if err := os.Mkdir(dst, info.Mode().Perm()); err != nil {
		return err
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := copyTree(filepath.Join(src, entry.Name()), filepath.Join(dst, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string, info os.FileInfo) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}
