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
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/openshelf/shelfd/pkg/acl"
	"github.com/openshelf/shelfd/pkg/log"
)

// hiddenMarker prefixes entry names excluded from listings. Upload
// temporaries carry it so a partially written file never shows up.
const hiddenMarker = "."

// Gateway is the only component that touches real storage. Every
// operation decodes the supplied ids, asserts existence and kind,
// consults the resolver, then performs the storage call. Checks are
// advisory: the storage call itself is the final authority, and a
// lost check-then-act race surfaces as a normal classified error.
type Gateway struct {
	roots        *Registry
	resolver     *Resolver
	acls         acl.Store
	descriptions acl.DescriptionStore
	ignore       []string
}

func NewGateway(roots *Registry, resolver *Resolver, acls acl.Store, descriptions acl.DescriptionStore, ignorePatterns []string) *Gateway {
	return &Gateway{
		roots:        roots,
		resolver:     resolver,
		acls:         acls,
		descriptions: descriptions,
		ignore:       ignorePatterns,
	}
}

// Roots returns the root registry.
func (g *Gateway) Roots() *Registry {
	return g.roots
}

// Listing is the result of ListChildren: the directory itself, its
// ancestor chain for breadcrumb navigation, and the visible entries.
type Listing struct {
	Directory Item
	Ancestors []Item
	Items     []Item
}

// Details is the result of GetDetails.
type Details struct {
	Item        Item
	Description string

	// Access is the caller's effective permission on the item, "ro" or
	// "rw".
	Access string
}

// resolveItem decodes an id and rebuilds the item from storage
// metadata.
func (g *Gateway) resolveItem(id string) (Decoded, Item, error) {
	decoded, err := g.roots.DecodeID(id)
	if err != nil {
		return Decoded{}, Item{}, err
	}

	info, err := os.Stat(decoded.AbsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Decoded{}, Item{}, newError(KindNotFound, path.Base("/"+decoded.RelPath))
		}
		return Decoded{}, Item{}, wrapError(KindIO, decoded.RelPath, err)
	}

	return decoded, newItem(decoded.Root, decoded.RelPath, info), nil
}

func (g *Gateway) requireRead(item Item, user User, root Root) error {
	ok, err := g.resolver.CanRead(item, user, root)
	if err != nil {
		return err
	}
	if !ok {
		return errPermissionDenied(item.Name)
	}
	return nil
}

func (g *Gateway) requireModify(item Item, user User, root Root) error {
	ok, err := g.resolver.CanModify(item, user, root)
	if err != nil {
		return err
	}
	if !ok {
		log.Warn("insufficient permissions: user=%s item=%s", user.ID, item.Path)
		return errPermissionDenied(item.Name)
	}
	return nil
}

// ListChildren lists the visible entries of a directory. Hidden names
// and ignore-list matches are filtered for display only; their ids stay
// directly accessible.
func (g *Gateway) ListChildren(user User, dirID string) (Listing, error) {
	decoded, dir, err := g.resolveItem(dirID)
	if err != nil {
		return Listing{}, err
	}
	if dir.IsFile {
		return Listing{}, errWrongType(dir.Name, false)
	}
	if err := g.requireRead(dir, user, decoded.Root); err != nil {
		return Listing{}, err
	}

	entries, err := os.ReadDir(decoded.AbsPath)
	if err != nil {
		return Listing{}, wrapError(KindIO, dir.Name, err)
	}

	items := make([]Item, 0, len(entries))
	for _, entry := range entries {
		if g.filtered(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// entry vanished between ReadDir and stat
			continue
		}
		rel := joinRel(decoded.RelPath, entry.Name())
		items = append(items, newItem(decoded.Root, rel, info))
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].IsFile != items[j].IsFile {
			return !items[i].IsFile
		}
		return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
	})

	ancestors, err := g.ancestors(decoded)
	if err != nil {
		return Listing{}, err
	}

	return Listing{Directory: dir, Ancestors: ancestors, Items: items}, nil
}

// ancestors walks from the root down to the directory's parent,
// reusing the id scheme for each entry.
func (g *Gateway) ancestors(decoded Decoded) ([]Item, error) {
	if decoded.RelPath == "" {
		return nil, nil
	}

	var chain []Item
	segments := strings.Split(decoded.RelPath, "/")
	rel := ""
	for i := 0; i < len(segments); i++ {
		abs := decoded.Root.Path
		if rel != "" {
			abs = filepath.Join(decoded.Root.Path, filepath.FromSlash(rel))
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, wrapError(KindIO, rel, err)
		}
		chain = append(chain, newItem(decoded.Root, rel, info))
		rel = joinRel(rel, segments[i])
	}
	return chain, nil
}

// filtered reports whether a name is excluded from listings.
func (g *Gateway) filtered(name string) bool {
	if strings.HasPrefix(name, hiddenMarker) {
		return true
	}
	lower := strings.ToLower(name)
	for _, pattern := range g.ignore {
		match, err := doublestar.Match(strings.ToLower(pattern), lower)
		if err == nil && match {
			return true
		}
	}
	return false
}

// GetDetails returns full metadata for one item. It works on any item
// the caller can read, including entries hidden from listings.
func (g *Gateway) GetDetails(user User, id string) (Details, error) {
	decoded, item, err := g.resolveItem(id)
	if err != nil {
		return Details{}, err
	}
	if err := g.requireRead(item, user, decoded.Root); err != nil {
		return Details{}, err
	}

	details := Details{Item: item, Access: "ro"}
	canModify, err := g.resolver.CanModify(item, user, decoded.Root)
	if err != nil {
		return Details{}, err
	}
	if canModify {
		details.Access = "rw"
	}

	text, found, err := g.descriptions.GetDescription(item.ID)
	if err != nil {
		return Details{}, wrapError(KindIO, item.Name, err)
	}
	if found {
		details.Description = text
	}
	return details, nil
}

// Rename gives an item a new name within its directory. The item's id
// changes with its path; permission overrides and the description of a
// file follow it to the new id.
func (g *Gateway) Rename(user User, id, newName string) (Item, error) {
	decoded, item, err := g.resolveItem(id)
	if err != nil {
		return Item{}, err
	}
	if decoded.RelPath == "" {
		return Item{}, newError(KindUnsupported, "cannot rename a root")
	}
	if err := validateName(newName); err != nil {
		return Item{}, err
	}
	if err := g.requireModify(item, user, decoded.Root); err != nil {
		return Item{}, err
	}

	newRel := joinRel(item.ParentPath(), newName)
	newAbs := filepath.Join(filepath.Dir(decoded.AbsPath), newName)
	if _, err := os.Stat(newAbs); err == nil {
		return Item{}, newError(KindAlreadyExists, newName)
	}

	if err := os.Rename(decoded.AbsPath, newAbs); err != nil {
		return Item{}, wrapError(KindIO, item.Name, err)
	}

	newID := EncodeID(decoded.Root.ID, newRel)
	if item.IsFile {
		g.moveItemMetadata(item.ID, newID)
	}

	info, err := os.Stat(newAbs)
	if err != nil {
		return Item{}, wrapError(KindIO, newName, err)
	}
	return newItem(decoded.Root, newRel, info), nil
}

// Delete removes a file, or a directory and everything under it.
func (g *Gateway) Delete(user User, id string) error {
	decoded, item, err := g.resolveItem(id)
	if err != nil {
		return err
	}
	if decoded.RelPath == "" {
		return newError(KindUnsupported, "cannot delete a root")
	}
	if err := g.requireModify(item, user, decoded.Root); err != nil {
		return err
	}

	if item.IsFile {
		if err := os.Remove(decoded.AbsPath); err != nil {
			return wrapError(KindDeleteFailed, item.Name, err)
		}
	} else {
		if err := os.RemoveAll(decoded.AbsPath); err != nil {
			return wrapError(KindDeleteFailed, item.Name, err)
		}
	}

	g.removeItemMetadata(item.ID)
	return nil
}

// CreateFolder creates a new directory under dir.
func (g *Gateway) CreateFolder(user User, dirID, name string) (Item, error) {
	decoded, dir, err := g.resolveItem(dirID)
	if err != nil {
		return Item{}, err
	}
	if dir.IsFile {
		return Item{}, errWrongType(dir.Name, false)
	}
	if err := validateName(name); err != nil {
		return Item{}, err
	}
	if err := g.requireModify(dir, user, decoded.Root); err != nil {
		return Item{}, err
	}

	abs := filepath.Join(decoded.AbsPath, name)
	if _, err := os.Stat(abs); err == nil {
		return Item{}, newError(KindAlreadyExists, name)
	}
	if err := os.Mkdir(abs, 0o755); err != nil {
		if os.IsExist(err) {
			return Item{}, newError(KindAlreadyExists, name)
		}
		return Item{}, wrapError(KindIO, name, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return Item{}, wrapError(KindIO, name, err)
	}
	return newItem(decoded.Root, joinRel(decoded.RelPath, name), info), nil
}

// Upload streams content into a new file under dir. Bytes land in a
// hidden temporary first and are renamed into place only after the
// target name is confirmed free, so a listing never observes a
// partially written file.
func (g *Gateway) Upload(user User, dirID, filename string, content io.Reader) (Item, error) {
	if content == nil {
		return Item{}, newError(KindNoUploadData, "")
	}

	decoded, dir, err := g.resolveItem(dirID)
	if err != nil {
		return Item{}, err
	}
	if dir.IsFile {
		return Item{}, errWrongType(dir.Name, false)
	}
	if err := validateName(filename); err != nil {
		return Item{}, err
	}
	if err := g.requireModify(dir, user, decoded.Root); err != nil {
		return Item{}, err
	}

	target := filepath.Join(decoded.AbsPath, filename)
	if _, err := os.Stat(target); err == nil {
		return Item{}, newError(KindAlreadyExists, filename)
	}

	tmp, err := os.CreateTemp(decoded.AbsPath, hiddenMarker+"upload-*")
	if err != nil {
		return Item{}, wrapError(KindUploadFailed, filename, err)
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return Item{}, wrapError(KindUploadFailed, filename, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return Item{}, wrapError(KindUploadFailed, filename, err)
	}

	// the race between the earlier check and this one is accepted;
	// whoever renames second does not overwrite
	if _, err := os.Stat(target); err == nil {
		os.Remove(tmpPath)
		return Item{}, newError(KindAlreadyExists, filename)
	}
	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return Item{}, wrapError(KindIO, filename, err)
	}
	if err := os.Chmod(target, 0o644); err != nil {
		log.Warn("failed to chmod uploaded file %s: %v", filename, err)
	}

	info, err := os.Stat(target)
	if err != nil {
		return Item{}, wrapError(KindIO, filename, err)
	}
	return newItem(decoded.Root, joinRel(decoded.RelPath, filename), info), nil
}

// Download opens a file for streaming. The caller owns the handle.
func (g *Gateway) Download(user User, id string) (*os.File, Item, error) {
	decoded, item, err := g.resolveItem(id)
	if err != nil {
		return nil, Item{}, err
	}
	if !item.IsFile {
		return nil, Item{}, errWrongType(item.Name, true)
	}
	if err := g.requireRead(item, user, decoded.Root); err != nil {
		return nil, Item{}, err
	}

	file, err := os.Open(decoded.AbsPath)
	if err != nil {
		return nil, Item{}, wrapError(KindIO, item.Name, err)
	}
	return file, item, nil
}

// SetDescription attaches or replaces the free-form description of an
// item.
func (g *Gateway) SetDescription(user User, id, text string) error {
	decoded, item, err := g.resolveItem(id)
	if err != nil {
		return err
	}
	if err := g.requireModify(item, user, decoded.Root); err != nil {
		return err
	}
	if err := g.descriptions.SetDescription(item.ID, text); err != nil {
		return wrapError(KindIO, item.Name, err)
	}
	return nil
}

// RemoveDescription deletes the description of an item.
func (g *Gateway) RemoveDescription(user User, id string) error {
	decoded, item, err := g.resolveItem(id)
	if err != nil {
		return err
	}
	if err := g.requireModify(item, user, decoded.Root); err != nil {
		return err
	}
	if err := g.descriptions.RemoveDescription(item.ID); err != nil {
		return wrapError(KindIO, item.Name, err)
	}
	return nil
}

// moveItemMetadata re-keys permission overrides and the description
// when a file's id changes.
func (g *Gateway) moveItemMetadata(oldID, newID string) {
	if err := g.acls.Move(oldID, newID); err != nil {
		log.Error("failed to move permission entries: %v", err)
	}
	if err := g.descriptions.MoveDescription(oldID, newID); err != nil {
		log.Error("failed to move description: %v", err)
	}
}

// removeItemMetadata drops permission overrides and the description of
// a deleted item.
func (g *Gateway) removeItemMetadata(id string) {
	if err := g.acls.RemoveItem(id); err != nil {
		log.Error("failed to remove permission entries: %v", err)
	}
	if err := g.descriptions.RemoveDescription(id); err != nil {
		log.Error("failed to remove description: %v", err)
	}
}

// validateName rejects names that would escape the directory or
// collide with path syntax.
func validateName(name string) error {
	if name == "" || name == "." || name == ".." {
		return errInvalidPath()
	}
	if strings.ContainsAny(name, "/\x00") || strings.ContainsRune(name, filepath.Separator) {
		return errInvalidPath()
	}
	return nil
}

func joinRel(dir, name string) string {
	if dir == "" {
		return name
	}
	return dir + "/" + name
}
