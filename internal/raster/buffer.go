/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package raster owns the committed pixel buffer of the board. It supports
// the snapshot read-back/restore cycle the history store depends on, simple
// polyline stamping for committed strokes, and rotated/scaled image blits.
// Anti-aliasing and path-fill rules are deliberately out of scope.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"sketchboard/internal/entity"
	"sketchboard/internal/geom"
)

// Buffer is an RGBA pixel store in logical buffer coordinates.
type Buffer struct {
	img *image.RGBA
}

// New creates a white buffer of the given pixel size.
func New(w, h int) *Buffer {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	b := &Buffer{img: image.NewRGBA(image.Rect(0, 0, w, h))}
	b.Clear(color.White)
	return b
}

// Size returns the pixel dimensions.
func (b *Buffer) Size() (int, int) {
	r := b.img.Bounds()
	return r.Dx(), r.Dy()
}

// Image exposes the backing image for rendering and export.
func (b *Buffer) Image() *image.RGBA { return b.img }

// Clear fills the whole buffer with c.
func (b *Buffer) Clear(c color.Color) {
	draw.Draw(b.img, b.img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
}

// Snapshot returns a copy of the pixel content.
func (b *Buffer) Snapshot() []byte {
	return append([]byte(nil), b.img.Pix...)
}

// Restore overwrites the pixel content from a snapshot taken on a buffer of
// the same size.
func (b *Buffer) Restore(pix []byte) error {
	if len(pix) != len(b.img.Pix) {
		return fmt.Errorf("snapshot size %d does not match buffer %d", len(pix), len(b.img.Pix))
	}
	copy(b.img.Pix, pix)
	return nil
}

// DrawPolyline stamps a stroke polyline into the buffer with round caps.
func (b *Buffer) DrawPolyline(pts []geom.Pt, col entity.Color, width float64) {
	if len(pts) == 0 {
		return
	}
	c := color.RGBA{R: col.R, G: col.G, B: col.B, A: col.A}
	r := math.Max(width/2, 0.5)
	if len(pts) == 1 {
		b.stampDisc(pts[0], r, c)
		return
	}
	for i := 0; i < len(pts)-1; i++ {
		b.stampSegment(pts[i], pts[i+1], r, c)
	}
}

func (b *Buffer) stampSegment(a, z geom.Pt, r float64, c color.RGBA) {
	dist := math.Hypot(z.X-a.X, z.Y-a.Y)
	steps := int(dist/math.Max(r, 1)) + 1
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		b.stampDisc(geom.Pt{X: a.X + t*(z.X-a.X), Y: a.Y + t*(z.Y-a.Y)}, r, c)
	}
}

func (b *Buffer) stampDisc(p geom.Pt, r float64, c color.RGBA) {
	x0 := int(math.Floor(p.X - r))
	x1 := int(math.Ceil(p.X + r))
	y0 := int(math.Floor(p.Y - r))
	y1 := int(math.Ceil(p.Y + r))
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dx := float64(x) + 0.5 - p.X
			dy := float64(y) + 0.5 - p.Y
			if dx*dx+dy*dy <= r*r {
				if image.Pt(x, y).In(b.img.Bounds()) {
					b.img.SetRGBA(x, y, c)
				}
			}
		}
	}
}

// DrawImage blits src into bounds, rotated by rotationDeg about the bounds
// center.
func (b *Buffer) DrawImage(src image.Image, bounds geom.Rect, rotationDeg float64) {
	if src == nil || bounds.W <= 0 || bounds.H <= 0 {
		return
	}
	sb := src.Bounds()
	sw := float64(sb.Dx())
	sh := float64(sb.Dy())
	if sw == 0 || sh == 0 {
		return
	}
	sx := bounds.W / sw
	sy := bounds.H / sh
	rad := rotationDeg * math.Pi / 180
	cos := math.Cos(rad)
	sin := math.Sin(rad)
	cx := bounds.X + bounds.W/2
	cy := bounds.Y + bounds.H/2
	// src (u,v) → scale about origin, center, rotate, translate to center
	m := f64.Aff3{
		sx * cos, -sy * sin, cx - (bounds.W/2)*cos + (bounds.H/2)*sin,
		sx * sin, sy * cos, cy - (bounds.W/2)*sin - (bounds.H/2)*cos,
	}
	xdraw.ApproxBiLinear.Transform(b.img, m, src, sb, xdraw.Over, nil)
}
