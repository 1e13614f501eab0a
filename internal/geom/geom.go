/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package geom holds the shared 2D primitives of the drawing core: points,
// rectangles, rotation about a pivot, point-to-segment distance and angle
// helpers. Logical coordinates use float64 so that viewport round-trips stay
// exact well below the 1e-6 tolerance the manipulation code relies on.
package geom

import "math"

// Pt is a 2D point in logical drawing coordinates.
type Pt struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a width/height pair.
type Size struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Rect is an axis-aligned rectangle defined by min corner and size.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

func R(x, y, w, h float64) Rect { return Rect{X: x, Y: y, W: w, H: h} }

func (r Rect) Min() Pt    { return Pt{r.X, r.Y} }
func (r Rect) Max() Pt    { return Pt{r.X + r.W, r.Y + r.H} }
func (r Rect) Center() Pt { return Pt{r.X + r.W/2, r.Y + r.H/2} }
func (r Rect) Size() Size { return Size{r.W, r.H} }

func (r Rect) Contains(p Pt) bool {
	return p.X >= r.X && p.Y >= r.Y && p.X <= r.X+r.W && p.Y <= r.Y+r.H
}

// Inset returns a rectangle inset by dx,dy on all sides (negative grows).
func (r Rect) Inset(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W - 2*dx, H: r.H - 2*dy}
}

// Translate returns the rectangle shifted by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H}
}

// Union returns the minimal rect containing both.
func (r Rect) Union(o Rect) Rect {
	minX := math.Min(r.X, o.X)
	minY := math.Min(r.Y, o.Y)
	maxX := math.Max(r.X+r.W, o.X+o.W)
	maxY := math.Max(r.Y+r.H, o.Y+o.H)
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// RectFromCorners normalizes two opposite corners into a rectangle with
// non-negative width and height.
func RectFromCorners(a, b Pt) Rect {
	minX := math.Min(a.X, b.X)
	minY := math.Min(a.Y, b.Y)
	return Rect{X: minX, Y: minY, W: math.Abs(b.X - a.X), H: math.Abs(b.Y - a.Y)}
}

// RotatePoint rotates the offset (dx, dy) by angleDeg using the standard
// rotation matrix and returns the rotated offset.
func RotatePoint(dx, dy, angleDeg float64) Pt {
	rad := angleDeg * math.Pi / 180
	c := math.Cos(rad)
	s := math.Sin(rad)
	return Pt{X: dx*c - dy*s, Y: dx*s + dy*c}
}

// RotateAbout rotates p around pivot by angleDeg.
func RotateAbout(p, pivot Pt, angleDeg float64) Pt {
	d := RotatePoint(p.X-pivot.X, p.Y-pivot.Y, angleDeg)
	return Pt{X: pivot.X + d.X, Y: pivot.Y + d.Y}
}

// DistPointSegment returns the distance from p to the segment a-b.
// A degenerate zero-length segment yields the distance to the shared endpoint.
func DistPointSegment(p, a, b Pt) float64 {
	abx := b.X - a.X
	aby := b.Y - a.Y
	lenSq := abx*abx + aby*aby
	if lenSq == 0 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	t := ((p.X-a.X)*abx + (p.Y-a.Y)*aby) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	cx := a.X + t*abx
	cy := a.Y + t*aby
	return math.Hypot(p.X-cx, p.Y-cy)
}

// AngleOf returns the angle of the vector from `from` to `to` in degrees,
// in the half-open interval (-180, 180].
func AngleOf(from, to Pt) float64 {
	deg := math.Atan2(to.Y-from.Y, to.X-from.X) * 180 / math.Pi
	if deg <= -180 {
		deg += 360
	}
	return deg
}

// Wrap360 normalizes an angle in degrees into [0, 360).
func Wrap360(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
