/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package selection is the single source of truth for the board's selection
// state. At most one entity is selected system-wide, regardless of kind.
package selection

import "sketchboard/internal/entity"

// Ref identifies the selected entity.
type Ref struct {
	Kind entity.Kind
	ID   string
}

// ChangeFunc is notified after every selection change with the new state.
type ChangeFunc func(ref Ref, selected bool)

// Model holds the globally exclusive selection.
type Model struct {
	current   Ref
	selected  bool
	listeners []ChangeFunc
}

func NewModel() *Model { return &Model{} }

// OnChange registers a listener for selection changes (UI enablement of
// copy/delete actions).
func (m *Model) OnChange(fn ChangeFunc) {
	if fn != nil {
		m.listeners = append(m.listeners, fn)
	}
}

// Select replaces any prior selection unconditionally.
func (m *Model) Select(kind entity.Kind, id string) {
	m.current = Ref{Kind: kind, ID: id}
	m.selected = true
	m.notify()
}

// Clear drops the selection. Invoked on tool switches away from a
// selection-capable tool and on insertions/deletions.
func (m *Model) Clear() {
	if !m.selected {
		return
	}
	m.current = Ref{}
	m.selected = false
	m.notify()
}

// HasSelection is a pure predicate.
func (m *Model) HasSelection() bool { return m.selected }

// Current returns the selected reference, valid only when the second result
// is true.
func (m *Model) Current() (Ref, bool) { return m.current, m.selected }

// Is reports whether the given entity is the current selection.
func (m *Model) Is(kind entity.Kind, id string) bool {
	return m.selected && m.current.Kind == kind && m.current.ID == id
}

func (m *Model) notify() {
	for _, fn := range m.listeners {
		fn(m.current, m.selected)
	}
}
