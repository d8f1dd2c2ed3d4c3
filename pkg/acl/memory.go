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
	"sort"
	"sync"
)

// MemoryStore is an in-process Store and DescriptionStore. Entries do
// not survive a restart; it is the default backend and the one tests
// use.
type MemoryStore struct {
	mu           sync.RWMutex
	entries      map[string]map[string]Level
	descriptions map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries:      make(map[string]map[string]Level),
		descriptions: make(map[string]string),
	}
}

func (s *MemoryStore) Get(itemID, subject string) (Level, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	level, ok := s.entries[itemID][subject]
	return level, ok, nil
}

func (s *MemoryStore) Set(itemID, subject string, level Level) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	subjects, ok := s.entries[itemID]
	if !ok {
		subjects = make(map[string]Level)
		s.entries[itemID] = subjects
	}
	subjects[subject] = level
	return nil
}

func (s *MemoryStore) Remove(itemID, subject string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if subjects, ok := s.entries[itemID]; ok {
		delete(subjects, subject)
		if len(subjects) == 0 {
			delete(s.entries, itemID)
		}
	}
	return nil
}

func (s *MemoryStore) List(itemID string) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	subjects := s.entries[itemID]
	result := make([]Entry, 0, len(subjects))
	for subject, level := range subjects {
		result = append(result, Entry{ItemID: itemID, Subject: subject, Level: level})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Subject < result[j].Subject })
	return result, nil
}

func (s *MemoryStore) Move(oldItemID, newItemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if subjects, ok := s.entries[oldItemID]; ok {
		s.entries[newItemID] = subjects
		delete(s.entries, oldItemID)
	}
	return nil
}

func (s *MemoryStore) RemoveItem(itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, itemID)
	return nil
}

func (s *MemoryStore) GetDescription(itemID string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	text, ok := s.descriptions[itemID]
	return text, ok, nil
}

func (s *MemoryStore) SetDescription(itemID, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.descriptions[itemID] = text
	return nil
}

func (s *MemoryStore) RemoveDescription(itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.descriptions, itemID)
	return nil
}

func (s *MemoryStore) MoveDescription(oldItemID, newItemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if text, ok := s.descriptions[oldItemID]; ok {
		s.descriptions[newItemID] = text
		delete(s.descriptions, oldItemID)
	}
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
