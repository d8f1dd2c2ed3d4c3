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

// Package progress tracks byte counts of in-flight uploads so clients
// can poll or watch transfer state.
package progress

import (
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
)

// State is a snapshot of one tracked upload.
type State struct {
	ID       string    `json:"id"`
	Filename string    `json:"filename"`
	Total    int64     `json:"total"`
	Written  int64     `json:"written"`
	Done     bool      `json:"done"`
	Error    string    `json:"error,omitempty"`
	Started  time.Time `json:"started"`
}

// retention keeps finished entries visible long enough for a final
// client poll before eviction.
const retention = time.Minute

// Tracker holds upload state keyed by tracking id.
type Tracker struct {
	mutex   sync.RWMutex
	entries map[string]*State
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{entries: make(map[string]*State)}
}

// Start registers a new upload and returns its tracking id. A total of
// -1 means the size is unknown.
func (t *Tracker) Start(filename string, total int64) string {
	id := uuid.NewString()
	t.mutex.Lock()
	t.entries[id] = &State{
		ID:       id,
		Filename: filename,
		Total:    total,
		Started:  time.Now(),
	}
	t.mutex.Unlock()
	return id
}

// Get returns the snapshot for a tracking id.
func (t *Tracker) Get(id string) (State, bool) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	entry, found := t.entries[id]
	if !found {
		return State{}, false
	}
	return *entry, true
}

// Finish marks an upload complete, recording the error if any. The
// entry stays readable for a short grace period and is then evicted.
func (t *Tracker) Finish(id string, err error) {
	t.mutex.Lock()
	if entry, found := t.entries[id]; found {
		entry.Done = true
		if err != nil {
			entry.Error = err.Error()
		}
	}
	t.mutex.Unlock()

	time.AfterFunc(retention, func() {
		t.mutex.Lock()
		delete(t.entries, id)
		t.mutex.Unlock()
	})
}

func (t *Tracker) add(id string, n int64) {
	t.mutex.Lock()
	if entry, found := t.entries[id]; found {
		entry.Written += n
	}
	t.mutex.Unlock()
}

// Reader wraps an upload stream and reports bytes read to the tracker.
func (t *Tracker) Reader(id string, r io.Reader) io.Reader {
	return &countingReader{tracker: t, id: id, inner: r}
}

type countingReader struct {
	tracker *Tracker
	id      string
	inner   io.Reader
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.inner.Read(p)
	if n > 0 {
		c.tracker.add(c.id, int64(n))
	}
	return n, err
}
