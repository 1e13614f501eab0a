/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package hittest implements per-kind containment tests against logical
// points. Collections are searched last-to-first so the most recently drawn
// entity wins ties (LIFO hit priority). Nothing here mutates an entity.
package hittest

import (
	"math"

	"sketchboard/internal/entity"
	"sketchboard/internal/geom"
)

const (
	// StrokeDist is the maximum distance from a stroke segment that still
	// counts as a hit, in logical units.
	StrokeDist = 10.0
	// BoxPad pads axis-aligned box tests on every side.
	BoxPad = 5.0
	// CirclePad pads the radial test for circles.
	CirclePad = 5.0
	// EllipseForm is the padded threshold of the normalized quadratic form.
	EllipseForm = 1.1
)

// Stroke reports whether p lies within StrokeDist of any stroke segment.
// A single-point stroke degenerates to a distance test against that point.
func Stroke(s *entity.Stroke, p geom.Pt) bool {
	if len(s.Points) == 0 {
		return false
	}
	if len(s.Points) == 1 {
		return geom.DistPointSegment(p, s.Points[0], s.Points[0]) <= StrokeDist
	}
	for i := 0; i < len(s.Points)-1; i++ {
		if geom.DistPointSegment(p, s.Points[i], s.Points[i+1]) <= StrokeDist {
			return true
		}
	}
	return false
}

// Shape transforms p into the shape's unrotated local frame and tests the
// kind-specific containment.
func Shape(s *entity.Shape, p geom.Pt) bool {
	local := toLocal(p, s.Pivot(), s.Rotation())
	switch s.Kind {
	case entity.ShapeCircle:
		r := math.Max(s.W, s.H) / 2
		return math.Hypot(local.X, local.Y) <= r+CirclePad
	case entity.ShapeEllipse:
		rx := s.W / 2
		ry := s.H / 2
		if rx == 0 || ry == 0 {
			return false
		}
		nx := local.X / rx
		ny := local.Y / ry
		return nx*nx+ny*ny <= EllipseForm
	default: // rectangle, triangle, line, arrow share the padded box test
		return math.Abs(local.X) <= s.W/2+BoxPad && math.Abs(local.Y) <= s.H/2+BoxPad
	}
}

// Text tests the padded scaled box in the text's local frame.
func Text(t *entity.Text, p geom.Pt) bool {
	local := toLocal(p, t.Pivot(), t.Rotation())
	return math.Abs(local.X) <= t.Width()/2+BoxPad && math.Abs(local.Y) <= t.Height()/2+BoxPad
}

// Image tests the padded box in the image's local frame.
func Image(m *entity.Image, p geom.Pt) bool {
	local := toLocal(p, m.Pivot(), m.Rotation())
	return math.Abs(local.X) <= m.W/2+BoxPad && math.Abs(local.Y) <= m.H/2+BoxPad
}

// Strokes returns the topmost stroke containing p, searching last-to-first.
func Strokes(list []*entity.Stroke, p geom.Pt) (*entity.Stroke, bool) {
	for i := len(list) - 1; i >= 0; i-- {
		if Stroke(list[i], p) {
			return list[i], true
		}
	}
	return nil, false
}

// Shapes returns the topmost shape containing p, searching last-to-first.
func Shapes(list []*entity.Shape, p geom.Pt) (*entity.Shape, bool) {
	for i := len(list) - 1; i >= 0; i-- {
		if Shape(list[i], p) {
			return list[i], true
		}
	}
	return nil, false
}

// Texts returns the topmost text containing p, searching last-to-first.
func Texts(list []*entity.Text, p geom.Pt) (*entity.Text, bool) {
	for i := len(list) - 1; i >= 0; i-- {
		if Text(list[i], p) {
			return list[i], true
		}
	}
	return nil, false
}

// Images returns the topmost image containing p, searching last-to-first.
func Images(list []*entity.Image, p geom.Pt) (*entity.Image, bool) {
	for i := len(list) - 1; i >= 0; i-- {
		if Image(list[i], p) {
			return list[i], true
		}
	}
	return nil, false
}

// toLocal expresses p as an offset from pivot in the entity's unrotated frame.
func toLocal(p, pivot geom.Pt, rotationDeg float64) geom.Pt {
	if rotationDeg == 0 {
		return geom.Pt{X: p.X - pivot.X, Y: p.Y - pivot.Y}
	}
	return geom.RotatePoint(p.X-pivot.X, p.Y-pivot.Y, -rotationDeg)
}
