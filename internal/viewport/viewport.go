/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package viewport converts between pointer/viewport coordinates and the
// surface's logical drawing coordinates. It is the only place where pan
// offset, zoom scale and pixel density are interpreted; hit-testing and
// manipulation consume logical points exclusively.
package viewport

import "sketchboard/internal/geom"

// Params describes the current view transform. The view layer supplies these;
// the conversion itself is a pure function of its inputs.
type Params struct {
	// Pan is the pan offset in buffer pixels.
	Pan geom.Pt
	// Scale is the zoom factor, > 0.
	Scale float64
	// PixelDensity maps element units to buffer pixels when BufferSize is not
	// set explicitly (e.g. HiDPI displays). Zero means 1.
	PixelDensity float64
	// ElementRect is the on-screen bounds of the drawing element.
	ElementRect geom.Rect
	// BufferSize is the pixel size of the backing buffer. When zero it is
	// derived from ElementRect and PixelDensity.
	BufferSize geom.Size
}

func (p Params) bufferSize() geom.Size {
	if p.BufferSize.W > 0 && p.BufferSize.H > 0 {
		return p.BufferSize
	}
	d := p.PixelDensity
	if d <= 0 {
		d = 1
	}
	return geom.Size{W: p.ElementRect.W * d, H: p.ElementRect.H * d}
}

func (p Params) scale() float64 {
	if p.Scale <= 0 {
		return 1
	}
	return p.Scale
}

// ToLogical maps a screen point to logical drawing coordinates:
// local = (screen - elementOrigin) * (buffer/elementSize); logical = (local - pan) / scale.
func ToLogical(screen geom.Pt, p Params) geom.Pt {
	buf := p.bufferSize()
	sx, sy := 1.0, 1.0
	if p.ElementRect.W > 0 {
		sx = buf.W / p.ElementRect.W
	}
	if p.ElementRect.H > 0 {
		sy = buf.H / p.ElementRect.H
	}
	localX := (screen.X - p.ElementRect.X) * sx
	localY := (screen.Y - p.ElementRect.Y) * sy
	s := p.scale()
	return geom.Pt{
		X: (localX - p.Pan.X) / s,
		Y: (localY - p.Pan.Y) / s,
	}
}

// ToScreen is the exact inverse of ToLogical.
func ToScreen(logical geom.Pt, p Params) geom.Pt {
	buf := p.bufferSize()
	sx, sy := 1.0, 1.0
	if p.ElementRect.W > 0 {
		sx = buf.W / p.ElementRect.W
	}
	if p.ElementRect.H > 0 {
		sy = buf.H / p.ElementRect.H
	}
	s := p.scale()
	localX := logical.X*s + p.Pan.X
	localY := logical.Y*s + p.Pan.Y
	return geom.Pt{
		X: localX/sx + p.ElementRect.X,
		Y: localY/sy + p.ElementRect.Y,
	}
}
