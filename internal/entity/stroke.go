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

// Stroke is a freehand polyline. It has no intrinsic rotation; its anchor is
// the implicit bounding box of its points.
type Stroke struct {
	ID     string    `json:"id"`
	Points []geom.Pt `json:"points"`
	Color  Color     `json:"color"`
	Width  float64   `json:"width"`
	Style  string    `json:"style,omitempty"` // pen, marker, highlighter
}

// NewStroke starts a stroke at p with the given pen settings.
func NewStroke(p geom.Pt, c Color, width float64, style string) *Stroke {
	return &Stroke{
		ID:     uuid.NewString(),
		Points: []geom.Pt{p},
		Color:  c,
		Width:  width,
		Style:  style,
	}
}

// Append adds a point to the polyline.
func (s *Stroke) Append(p geom.Pt) { s.Points = append(s.Points, p) }

func (s *Stroke) EntityID() string   { return s.ID }
func (s *Stroke) EntityKind() Kind   { return KindStroke }
func (s *Stroke) Anchor() AnchorMode { return AnchorBox }
func (s *Stroke) Rotation() float64  { return 0 }

// SetRotation is a no-op: strokes carry no intrinsic rotation.
func (s *Stroke) SetRotation(float64) {}

func (s *Stroke) Pivot() geom.Pt { return s.Bounds().Center() }

// Bounds returns the axis-aligned bounding box of all points.
func (s *Stroke) Bounds() geom.Rect {
	if len(s.Points) == 0 {
		return geom.Rect{}
	}
	minX, minY := s.Points[0].X, s.Points[0].Y
	maxX, maxY := minX, minY
	for _, p := range s.Points[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return geom.Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// SetBounds maps every point affinely from the current bounding box into r.
// Sizes below MinStrokeSize are clamped; a degenerate axis translates only.
func (s *Stroke) SetBounds(r geom.Rect) {
	old := s.Bounds()
	if r.W < MinStrokeSize {
		r.W = MinStrokeSize
	}
	if r.H < MinStrokeSize {
		r.H = MinStrokeSize
	}
	sx, sy := 1.0, 1.0
	if old.W > 0 {
		sx = r.W / old.W
	}
	if old.H > 0 {
		sy = r.H / old.H
	}
	for i, p := range s.Points {
		s.Points[i] = geom.Pt{
			X: r.X + (p.X-old.X)*sx,
			Y: r.Y + (p.Y-old.Y)*sy,
		}
	}
}

// Clone returns a deep copy with a fresh identity.
func (s *Stroke) Clone() *Stroke {
	c := *s
	c.ID = uuid.NewString()
	c.Points = append([]geom.Pt(nil), s.Points...)
	return &c
}

var _ Manipulable = (*Stroke)(nil)
