/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package entity

import (
	stdimage "image"

	"github.com/google/uuid"

	"sketchboard/internal/geom"
)

// Image is a placed raster image. Position is the top-left corner of the
// bounding box; rotation pivots on the box center. Resizing is box-anchored.
type Image struct {
	ID     string  `json:"id"`
	Pos    geom.Pt `json:"pos"`
	W      float64 `json:"w"`
	H      float64 `json:"h"`
	Angle  float64 `json:"rotation"`
	Source string  `json:"source,omitempty"` // origin path or URL, informational

	// Pix is the decoded pixel source. Not serialized; reloaded from Source
	// when a document is opened.
	Pix stdimage.Image `json:"-"`
}

// NewImage places src at pos with the given extent (clamped to MinImageSize).
func NewImage(src stdimage.Image, source string, pos geom.Pt, w, h float64) *Image {
	if w < MinImageSize {
		w = MinImageSize
	}
	if h < MinImageSize {
		h = MinImageSize
	}
	return &Image{ID: uuid.NewString(), Pos: pos, W: w, H: h, Source: source, Pix: src}
}

func (m *Image) EntityID() string   { return m.ID }
func (m *Image) EntityKind() Kind   { return KindImage }
func (m *Image) Anchor() AnchorMode { return AnchorBox }
func (m *Image) Rotation() float64  { return m.Angle }

func (m *Image) SetRotation(deg float64) { m.Angle = geom.Wrap360(deg) }

func (m *Image) Pivot() geom.Pt {
	return geom.Pt{X: m.Pos.X + m.W/2, Y: m.Pos.Y + m.H/2}
}

func (m *Image) Bounds() geom.Rect {
	return geom.Rect{X: m.Pos.X, Y: m.Pos.Y, W: m.W, H: m.H}
}

// SetBounds repositions and resizes, clamping the extent to MinImageSize.
func (m *Image) SetBounds(r geom.Rect) {
	if r.W < MinImageSize {
		r.W = MinImageSize
	}
	if r.H < MinImageSize {
		r.H = MinImageSize
	}
	m.Pos = r.Min()
	m.W = r.W
	m.H = r.H
}

// Clone returns a copy with a fresh identity; the pixel source is shared.
func (m *Image) Clone() *Image {
	c := *m
	c.ID = uuid.NewString()
	return &c
}

var _ Manipulable = (*Image)(nil)
