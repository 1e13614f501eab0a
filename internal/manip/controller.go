/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package manip drives drag, resize and rotate gestures for any entity that
// satisfies the Manipulable contract. A single controller instance holds all
// gesture state, which structurally guarantees one active gesture
// system-wide. Releasing the pointer always commits; there is no cancel.
package manip

import (
	"math"

	"sketchboard/internal/entity"
	"sketchboard/internal/geom"
)

// State is the gesture state machine position.
type State int

const (
	StateIdle State = iota
	StateDragging
	StateResizing
	StateRotating
)

func (s State) String() string {
	switch s {
	case StateDragging:
		return "dragging"
	case StateResizing:
		return "resizing"
	case StateRotating:
		return "rotating"
	}
	return "idle"
}

// CommitFunc is invoked once per completed gesture, after the final
// mutation, so the owner can snapshot history and notify the UI.
type CommitFunc func(target entity.Manipulable)

// Controller is the generic gesture state machine. All coordinates passed in
// are logical (already mapped through the viewport).
type Controller struct {
	state  State
	target entity.Manipulable
	handle Handle

	startPointer  geom.Pt
	startBounds   geom.Rect
	startRotation float64
	startScale    float64

	pivot            geom.Pt
	rotateStartAngle float64

	onCommit CommitFunc
}

func NewController(onCommit CommitFunc) *Controller {
	return &Controller{onCommit: onCommit}
}

func (c *Controller) State() State { return c.state }
func (c *Controller) Active() bool { return c.state != StateIdle }

// Target returns the entity of the active gesture, nil when idle.
func (c *Controller) Target() entity.Manipulable {
	if c.state == StateIdle {
		return nil
	}
	return c.target
}

// Begin enters a gesture on pointer-down. HandleNone means the pointer
// landed on the entity body and starts a drag; HandleRotate starts a
// rotation; any other handle starts a resize. A second Begin while active is
// ignored: only a pointer-release leaves a non-idle state.
func (c *Controller) Begin(target entity.Manipulable, handle Handle, p geom.Pt) {
	if c.state != StateIdle || target == nil {
		return
	}
	c.target = target
	c.handle = handle
	c.startPointer = p
	c.startBounds = target.Bounds()
	c.startRotation = target.Rotation()

	switch handle {
	case HandleNone:
		c.state = StateDragging
	case HandleRotate:
		c.state = StateRotating
		c.pivot = target.Pivot()
		c.rotateStartAngle = geom.AngleOf(c.pivot, p)
	default:
		c.state = StateResizing
		if u, ok := target.(entity.UniformScalable); ok {
			c.startScale = u.ScaleFactor()
		}
	}
}

// Move applies the gesture for the current pointer position. All numeric
// results are clamped by the entity, never rejected.
func (c *Controller) Move(p geom.Pt) {
	switch c.state {
	case StateDragging:
		c.drag(p)
	case StateResizing:
		c.resize(p)
	case StateRotating:
		c.rotate(p)
	}
}

// End commits the gesture on pointer-up and returns to idle. The commit
// fires even if the pointer never moved; callers may coalesce no-op commits.
func (c *Controller) End() {
	if c.state == StateIdle {
		return
	}
	target := c.target
	c.state = StateIdle
	c.target = nil
	c.handle = HandleNone
	if c.onCommit != nil {
		c.onCommit(target)
	}
}

// drag moves the entity along screen axes regardless of its own rotation.
func (c *Controller) drag(p geom.Pt) {
	nb := c.startBounds.Translate(p.X-c.startPointer.X, p.Y-c.startPointer.Y)
	c.target.SetBounds(nb)
}

func (c *Controller) resize(p geom.Pt) {
	d := geom.Pt{X: p.X - c.startPointer.X, Y: p.Y - c.startPointer.Y}
	// express the delta in the entity's unrotated local frame so resizing a
	// rotated entity still drags the visually-correct edge
	local := d
	if c.startRotation != 0 {
		local = geom.RotatePoint(d.X, d.Y, -c.startRotation)
	}
	switch c.target.Anchor() {
	case entity.AnchorCenter:
		c.resizeCenter(local)
	case entity.AnchorTopLeft:
		c.resizeUniform(local)
	default:
		c.resizeBox(local)
	}
}

// resizeBox grows or shrinks the dragged edges, holding the opposite edge
// fixed by shifting the entity's position on near-edge handles.
func (c *Controller) resizeBox(local geom.Pt) {
	minSize := minSizeFor(c.target.EntityKind())
	nb := c.startBounds

	switch signX(c.handle) {
	case 1:
		nb.W = math.Max(c.startBounds.W+local.X, minSize)
	case -1:
		nb.W = math.Max(c.startBounds.W-local.X, minSize)
		nb.X = c.startBounds.X + (c.startBounds.W - nb.W)
	}
	switch signY(c.handle) {
	case 1:
		nb.H = math.Max(c.startBounds.H+local.Y, minSize)
	case -1:
		nb.H = math.Max(c.startBounds.H-local.Y, minSize)
		nb.Y = c.startBounds.Y + (c.startBounds.H - nb.H)
	}
	c.target.SetBounds(nb)
}

// resizeCenter resizes symmetrically about the pivot: growth is shared by
// both sides, so each axis changes by twice the signed local delta.
func (c *Controller) resizeCenter(local geom.Pt) {
	w := c.startBounds.W + 2*signX(c.handle)*local.X
	h := c.startBounds.H + 2*signY(c.handle)*local.Y
	center := c.startBounds.Center()
	c.target.SetBounds(geom.Rect{X: center.X - w/2, Y: center.Y - h/2, W: w, H: h})
}

// resizeUniform adjusts the single scale factor of text entities by the
// radial drag distance.
func (c *Controller) resizeUniform(local geom.Pt) {
	u, ok := c.target.(entity.UniformScalable)
	if !ok {
		return
	}
	sign := signX(c.handle)
	if sign == 0 {
		sign = signY(c.handle)
	}
	dist := math.Hypot(local.X, local.Y)
	u.SetScaleFactor(c.startScale + sign*dist/100)
}

func (c *Controller) rotate(p geom.Pt) {
	current := geom.AngleOf(c.pivot, p)
	c.target.SetRotation(c.startRotation + (current - c.rotateStartAngle))
}

func minSizeFor(k entity.Kind) float64 {
	switch k {
	case entity.KindImage:
		return entity.MinImageSize
	case entity.KindShape:
		return entity.MinShapeSize
	default:
		return entity.MinStrokeSize
	}
}
