/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package board

import (
	"encoding/json"
	"errors"
	stdimage "image"

	"sketchboard/internal/document"
	"sketchboard/internal/entity"
	"sketchboard/internal/history"
)

// LoadPage replaces the surface contents with the page's entities and
// replays the strokes into the raster. The load is committed as a history
// step, so undo after a page switch restores the previous page state.
func (s *Surface) LoadPage(p document.Page) {
	if s.ctrl.Active() {
		return
	}
	s.background = p.Background
	s.strokes = s.strokes[:0]
	s.shapes = s.shapes[:0]
	s.texts = s.texts[:0]
	s.images = s.images[:0]
	s.pixSources = map[string]stdimage.Image{}
	for i := range p.Strokes {
		c := p.Strokes[i]
		s.strokes = append(s.strokes, &c)
	}
	for i := range p.Shapes {
		c := p.Shapes[i]
		s.shapes = append(s.shapes, &c)
	}
	for i := range p.Texts {
		c := p.Texts[i]
		s.texts = append(s.texts, &c)
	}
	for i := range p.Images {
		c := p.Images[i]
		s.images = append(s.images, &c)
		if c.Pix != nil {
			s.pixSources[c.ID] = c.Pix
		}
	}
	s.rebuildRaster()
	s.sel.Clear()
	s.commitState()
}

// SnapshotPage serializes the current surface into a document page for
// persistence and export. Entities are copied by value.
func (s *Surface) SnapshotPage(number int) document.Page {
	p := document.NewPage(number)
	p.W = float64(s.w)
	p.H = float64(s.h)
	p.Background = s.background
	for _, e := range s.strokes {
		p.Strokes = append(p.Strokes, *e)
	}
	for _, e := range s.shapes {
		p.Shapes = append(p.Shapes, *e)
	}
	for _, e := range s.texts {
		p.Texts = append(p.Texts, *e)
	}
	for _, e := range s.images {
		p.Images = append(p.Images, *e)
	}
	return p
}

// Background returns the page background color used by the redraw pipeline.
func (s *Surface) Background() entity.Color { return s.background }

// stateBlob is the durable form of one committed surface state: the raster
// pixels plus the serialized vector lists of a history step.
type stateBlob struct {
	Raster []byte          `json:"raster"`
	Vector json.RawMessage `json:"vector,omitempty"`
}

// StateBlob serializes the current committed state for durable snapshot
// storage, so unsaved work survives a crash or restart.
func (s *Surface) StateBlob() ([]byte, error) {
	snap, ok := s.hist.Current()
	if !ok {
		return nil, errors.New("board: no committed state")
	}
	return json.Marshal(stateBlob{Raster: snap.Raster, Vector: snap.Vector})
}

// RestoreStateBlob loads a blob produced by StateBlob on a surface of the
// same pixel size and commits the result as a new history step.
func (s *Surface) RestoreStateBlob(b []byte) error {
	if s.ctrl.Active() {
		return errors.New("board: gesture in progress")
	}
	var sb stateBlob
	if err := json.Unmarshal(b, &sb); err != nil {
		return err
	}
	if err := s.buf.Restore(sb.Raster); err != nil {
		return err
	}
	s.restore(history.Snapshot{Raster: sb.Raster, Vector: sb.Vector})
	s.commitState()
	return nil
}
