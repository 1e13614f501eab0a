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

// ShapeKind selects the geometric primitive a Shape renders as.
type ShapeKind string

const (
	ShapeRectangle ShapeKind = "rectangle"
	ShapeCircle    ShapeKind = "circle"
	ShapeEllipse   ShapeKind = "ellipse"
	ShapeTriangle  ShapeKind = "triangle"
	ShapeLine      ShapeKind = "line"
	ShapeArrow     ShapeKind = "arrow"
)

// Shape is a geometric primitive anchored at its center. Resizing is
// symmetric about the center; rotation pivots on the center.
type Shape struct {
	ID          string    `json:"id"`
	Kind        ShapeKind `json:"kind"`
	Center      geom.Pt   `json:"center"`
	W           float64   `json:"w"`
	H           float64   `json:"h"`
	Angle       float64   `json:"rotation"`
	StrokeColor Color     `json:"strokeColor"`
	FillColor   Color     `json:"fillColor"`
	StrokeWidth float64   `json:"strokeWidth"`
}

// NewShape creates a shape centered at c. Width and height are clamped into
// [MinShapeSize, MaxShapeSize].
func NewShape(kind ShapeKind, c geom.Pt, w, h float64) *Shape {
	s := &Shape{
		ID:          uuid.NewString(),
		Kind:        kind,
		Center:      c,
		StrokeColor: Black,
		FillColor:   Color{},
		StrokeWidth: 2,
	}
	s.W = geom.Clamp(w, MinShapeSize, MaxShapeSize)
	s.H = geom.Clamp(h, MinShapeSize, MaxShapeSize)
	return s
}

func (s *Shape) EntityID() string   { return s.ID }
func (s *Shape) EntityKind() Kind   { return KindShape }
func (s *Shape) Anchor() AnchorMode { return AnchorCenter }
func (s *Shape) Pivot() geom.Pt     { return s.Center }
func (s *Shape) Rotation() float64  { return s.Angle }

func (s *Shape) SetRotation(deg float64) { s.Angle = geom.Wrap360(deg) }

func (s *Shape) Bounds() geom.Rect {
	return geom.Rect{X: s.Center.X - s.W/2, Y: s.Center.Y - s.H/2, W: s.W, H: s.H}
}

// SetBounds re-centers the shape on r and clamps its extent.
func (s *Shape) SetBounds(r geom.Rect) {
	s.W = geom.Clamp(r.W, MinShapeSize, MaxShapeSize)
	s.H = geom.Clamp(r.H, MinShapeSize, MaxShapeSize)
	s.Center = r.Center()
}

// Clone returns a copy with a fresh identity.
func (s *Shape) Clone() *Shape {
	c := *s
	c.ID = uuid.NewString()
	return &c
}

var _ Manipulable = (*Shape)(nil)
