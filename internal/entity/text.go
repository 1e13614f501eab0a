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
	"github.com/google/uuid"

	"sketchboard/internal/geom"
)

// Text is a block of text (line breaks allowed) anchored at its top-left
// corner. Its rendered extent is the cached base size times a uniform scale
// factor; resize gestures adjust the factor, never the base size.
type Text struct {
	ID       string  `json:"id"`
	Content  string  `json:"content"`
	Pos      geom.Pt `json:"pos"`
	FontSize float64 `json:"fontSize"`
	Color    Color   `json:"color"`
	Angle    float64 `json:"rotation"`
	Scale    float64 `json:"scale"`
	BaseW    float64 `json:"baseW"`
	BaseH    float64 `json:"baseH"`
}

// NewText creates a text entity at pos with a measured base extent.
func NewText(content string, pos geom.Pt, fontSize float64, c Color, baseW, baseH float64) *Text {
	return &Text{
		ID:       uuid.NewString(),
		Content:  content,
		Pos:      pos,
		FontSize: fontSize,
		Color:    c,
		Scale:    1,
		BaseW:    baseW,
		BaseH:    baseH,
	}
}

func (t *Text) EntityID() string   { return t.ID }
func (t *Text) EntityKind() Kind   { return KindText }
func (t *Text) Anchor() AnchorMode { return AnchorTopLeft }
func (t *Text) Rotation() float64  { return t.Angle }

func (t *Text) SetRotation(deg float64) { t.Angle = geom.Wrap360(deg) }

func (t *Text) Width() float64  { return t.BaseW * t.scale() }
func (t *Text) Height() float64 { return t.BaseH * t.scale() }

func (t *Text) scale() float64 {
	if t.Scale == 0 {
		return 1
	}
	return t.Scale
}

// Pivot is the top-left position plus half the scaled extent.
func (t *Text) Pivot() geom.Pt {
	return geom.Pt{X: t.Pos.X + t.Width()/2, Y: t.Pos.Y + t.Height()/2}
}

func (t *Text) Bounds() geom.Rect {
	return geom.Rect{X: t.Pos.X, Y: t.Pos.Y, W: t.Width(), H: t.Height()}
}

// SetBounds moves the top-left anchor. Extent is controlled exclusively by
// the scale factor, so r's size is ignored.
func (t *Text) SetBounds(r geom.Rect) { t.Pos = r.Min() }

func (t *Text) ScaleFactor() float64 { return t.scale() }

// SetScaleFactor clamps into [MinTextScale, MaxTextScale].
func (t *Text) SetScaleFactor(v float64) {
	t.Scale = geom.Clamp(v, MinTextScale, MaxTextScale)
}

// Clone returns a copy with a fresh identity.
func (t *Text) Clone() *Text {
	c := *t
	c.ID = uuid.NewString()
	return &c
}

var (
	_ Manipulable     = (*Text)(nil)
	_ UniformScalable = (*Text)(nil)
)
