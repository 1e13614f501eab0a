/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package history implements the snapshot-based undo/redo store: an ordered
// list of committed board states plus a current-step pointer. Committing
// after an undo discards the unreachable redo branch. Memory growth is kept
// in check with byte and depth caps that prune the oldest entries.
package history

import (
	"sync"
	"time"
)

// Snapshot captures the board state at a commit point. Raster is the pixel
// buffer read-back; Vector is the serialized vector-entity lists (shapes,
// text, images stay vector and are not baked into Raster).
type Snapshot struct {
	Step   int
	Raster []byte
	Vector []byte
	TS     time.Time
}

func (s Snapshot) size() int { return len(s.Raster) + len(s.Vector) }

// Config controls memory and depth caps.
type Config struct {
	// MaxBytes is a soft cap; oldest entries are pruned when exceeded.
	MaxBytes int
	// MaxSteps limits the number of snapshots kept (0 means unlimited).
	MaxSteps int
}

// Store is the undo/redo snapshot store. It is safe for concurrent use; the
// UI thread and CLI paths both reach it.
type Store struct {
	cfg Config

	mu         sync.Mutex
	snaps      []Snapshot
	cur        int // index into snaps, -1 when empty
	nextStep   int
	totalBytes int
}

func NewStore(cfg Config) *Store {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 64 * 1024 * 1024 // 64 MiB
	}
	return &Store{cfg: cfg, cur: -1}
}

// Commit appends a snapshot of the given buffers and makes it the current
// step. Any snapshots beyond the current step (an undone future) are
// discarded first, so redo becomes unavailable.
func (st *Store) Commit(raster, vector []byte) Snapshot {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.cur < len(st.snaps)-1 {
		for _, s := range st.snaps[st.cur+1:] {
			st.totalBytes -= s.size()
		}
		st.snaps = st.snaps[:st.cur+1]
	}

	s := Snapshot{
		Step:   st.nextStep,
		Raster: append([]byte(nil), raster...),
		Vector: append([]byte(nil), vector...),
		TS:     time.Now(),
	}
	st.nextStep++
	st.snaps = append(st.snaps, s)
	st.cur = len(st.snaps) - 1
	st.totalBytes += s.size()
	st.enforceCapsLocked()
	return s
}

// Undo steps back one snapshot and returns it for restoring. Returns false
// at the beginning of history (no-op).
func (st *Store) Undo() (Snapshot, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.cur <= 0 {
		return Snapshot{}, false
	}
	st.cur--
	return st.snaps[st.cur], true
}

// Redo steps forward one snapshot if an undone future exists. Returns false
// at the end of history (no-op).
func (st *Store) Redo() (Snapshot, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.cur >= len(st.snaps)-1 {
		return Snapshot{}, false
	}
	st.cur++
	return st.snaps[st.cur], true
}

// CanUndo reports whether a step back exists.
func (st *Store) CanUndo() bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.cur > 0
}

// CanRedo reports whether an undone future exists.
func (st *Store) CanRedo() bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.cur < len(st.snaps)-1
}

// Current returns the snapshot at the current step.
func (st *Store) Current() (Snapshot, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.cur < 0 {
		return Snapshot{}, false
	}
	return st.snaps[st.cur], true
}

// Stats returns current sizes for diagnostics.
func (st *Store) Stats() (totalBytes, steps int) {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.totalBytes, len(st.snaps)
}

func (st *Store) enforceCapsLocked() {
	drop := 0
	if st.cfg.MaxSteps > 0 && len(st.snaps) > st.cfg.MaxSteps {
		drop = len(st.snaps) - st.cfg.MaxSteps
	}
	bytes := st.totalBytes
	for i := drop; bytes > st.cfg.MaxBytes && i < st.cur; i++ {
		bytes -= st.snaps[i].size()
		drop = i + 1
	}
	// never prune the current snapshot
	if drop > st.cur {
		drop = st.cur
	}
	if drop <= 0 {
		return
	}
	for _, s := range st.snaps[:drop] {
		st.totalBytes -= s.size()
	}
	st.snaps = append([]Snapshot{}, st.snaps[drop:]...)
	st.cur -= drop
}
