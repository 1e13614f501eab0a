/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package manip

import (
	"math"

	"sketchboard/internal/entity"
	"sketchboard/internal/geom"
)

// Handle identifies a selection-chrome grab point.
type Handle int

const (
	HandleNone Handle = iota
	HandleNW
	HandleN
	HandleNE
	HandleE
	HandleSE
	HandleS
	HandleSW
	HandleW
	HandleRotate
)

func (h Handle) String() string {
	switch h {
	case HandleNW:
		return "nw"
	case HandleN:
		return "n"
	case HandleNE:
		return "ne"
	case HandleE:
		return "e"
	case HandleSE:
		return "se"
	case HandleS:
		return "s"
	case HandleSW:
		return "sw"
	case HandleW:
		return "w"
	case HandleRotate:
		return "rotate"
	}
	return "none"
}

const (
	// HandleHitRadius is how close (logical units) a pointer-down must land
	// to grab a handle.
	HandleHitRadius = 10.0
	// RotateHandleOffset lifts the rotate handle above the top edge.
	RotateHandleOffset = 25.0
)

// HandlePos pairs a handle with its position in logical coordinates.
type HandlePos struct {
	Handle Handle
	Pos    geom.Pt
}

// Handles returns the grab points for the entity: 8 edge/corner handles for
// box-anchored kinds, 4 corners plus the rotate handle otherwise. Positions
// are rotated about the entity's pivot.
func Handles(target entity.Manipulable) []HandlePos {
	b := target.Bounds()
	pivot := target.Pivot()
	rot := target.Rotation()

	var raw []HandlePos
	if target.Anchor() == entity.AnchorBox {
		raw = []HandlePos{
			{Handle: HandleNW, Pos: geom.Pt{X: b.X, Y: b.Y}},
			{Handle: HandleN, Pos: geom.Pt{X: b.X + b.W/2, Y: b.Y}},
			{Handle: HandleNE, Pos: geom.Pt{X: b.X + b.W, Y: b.Y}},
			{Handle: HandleE, Pos: geom.Pt{X: b.X + b.W, Y: b.Y + b.H/2}},
			{Handle: HandleSE, Pos: geom.Pt{X: b.X + b.W, Y: b.Y + b.H}},
			{Handle: HandleS, Pos: geom.Pt{X: b.X + b.W/2, Y: b.Y + b.H}},
			{Handle: HandleSW, Pos: geom.Pt{X: b.X, Y: b.Y + b.H}},
			{Handle: HandleW, Pos: geom.Pt{X: b.X, Y: b.Y + b.H/2}},
		}
	} else {
		raw = []HandlePos{
			{Handle: HandleNW, Pos: geom.Pt{X: b.X, Y: b.Y}},
			{Handle: HandleNE, Pos: geom.Pt{X: b.X + b.W, Y: b.Y}},
			{Handle: HandleSE, Pos: geom.Pt{X: b.X + b.W, Y: b.Y + b.H}},
			{Handle: HandleSW, Pos: geom.Pt{X: b.X, Y: b.Y + b.H}},
			{Handle: HandleRotate, Pos: geom.Pt{X: b.X + b.W/2, Y: b.Y - RotateHandleOffset}},
		}
	}
	if rot != 0 {
		for i := range raw {
			raw[i].Pos = geom.RotateAbout(raw[i].Pos, pivot, rot)
		}
	}
	return raw
}

// HandleAt returns the handle whose grab point contains p, if any.
func HandleAt(target entity.Manipulable, p geom.Pt) (Handle, bool) {
	for _, h := range Handles(target) {
		if math.Hypot(p.X-h.Pos.X, p.Y-h.Pos.Y) <= HandleHitRadius {
			return h.Handle, true
		}
	}
	return HandleNone, false
}

// horizontal/vertical growth sign of a handle: -1 pulls the near (left/top)
// edge, +1 the far (right/bottom) edge, 0 leaves the axis alone.
func signX(h Handle) float64 {
	switch h {
	case HandleNW, HandleW, HandleSW:
		return -1
	case HandleNE, HandleE, HandleSE:
		return 1
	}
	return 0
}

func signY(h Handle) float64 {
	switch h {
	case HandleNW, HandleN, HandleNE:
		return -1
	case HandleSW, HandleS, HandleSE:
		return 1
	}
	return 0
}
