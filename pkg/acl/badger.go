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

package acl

import (
	"errors"
	"fmt"
	"strings"

	badger "github.com/dgraph-io/badger/v4"
)

// Key layout:
//
//	perm:<itemID>:<subject> -> one byte, the level
//	desc:<itemID>           -> description text
//
// Item ids are URL-safe base64, so ':' never appears inside one and the
// key can be split unambiguously.
const (
	permPrefix = "perm:"
	descPrefix = "desc:"
)

// BadgerStore is a persistent Store and DescriptionStore backed by an
// embedded BadgerDB database. Suitable when overrides must survive a
// restart without requiring an external database.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadgerStore opens (or creates) the database at path.
func OpenBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open permission database at %s: %w", path, err)
	}
	return &BadgerStore{db: db}, nil
}

func permKey(itemID, subject string) []byte {
	return []byte(permPrefix + itemID + ":" + subject)
}

func (s *BadgerStore) Get(itemID, subject string) (Level, bool, error) {
	var level Level
	found := false

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(permKey(itemID, subject))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			if len(val) != 1 {
				return fmt.Errorf("corrupt permission entry for %s/%s", itemID, subject)
			}
			level = Level(val[0])
			found = true
			return nil
		})
	})
	if err != nil {
		return None, false, err
	}
	return level, found, nil
}

func (s *BadgerStore) Set(itemID, subject string, level Level) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(permKey(itemID, subject), []byte{byte(level)})
	})
}

func (s *BadgerStore) Remove(itemID, subject string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete(permKey(itemID, subject))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}

func (s *BadgerStore) List(itemID string) ([]Entry, error) {
	prefix := []byte(permPrefix + itemID + ":")
	var result []Entry

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			subject := strings.TrimPrefix(string(item.Key()), string(prefix))
			err := item.Value(func(val []byte) error {
				if len(val) != 1 {
					return fmt.Errorf("corrupt permission entry for %s/%s", itemID, subject)
				}
				result = append(result, Entry{ItemID: itemID, Subject: subject, Level: Level(val[0])})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *BadgerStore) Move(oldItemID, newItemID string) error {
	entries, err := s.List(oldItemID)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	return s.db.Update(func(txn *badger.Txn) error {
		for _, entry := range entries {
			if err := txn.Set(permKey(newItemID, entry.Subject), []byte{byte(entry.Level)}); err != nil {
				return err
			}
			if err := txn.Delete(permKey(oldItemID, entry.Subject)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *BadgerStore) RemoveItem(itemID string) error {
	entries, err := s.List(itemID)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		for _, entry := range entries {
			if err := txn.Delete(permKey(itemID, entry.Subject)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *BadgerStore) GetDescription(itemID string) (string, bool, error) {
	var text string
	found := false

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(descPrefix + itemID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			text = string(val)
			found = true
			return nil
		})
	})
	if err != nil {
		return "", false, err
	}
	return text, found, nil
}

func (s *BadgerStore) SetDescription(itemID, text string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(descPrefix+itemID), []byte(text))
	})
}

func (s *BadgerStore) RemoveDescription(itemID string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(descPrefix + itemID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}

func (s *BadgerStore) MoveDescription(oldItemID, newItemID string) error {
	text, ok, err := s.GetDescription(oldItemID)
	if err != nil || !ok {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(descPrefix+newItemID), []byte(text)); err != nil {
			return err
		}
		return txn.Delete([]byte(descPrefix + oldItemID))
	})
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}
