/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package render holds shared software-rendering helpers used by the UI
// canvas and the raster exporters: shape border sampling and bitmap text
// stamping. Everything works in whatever coordinate space the caller hands
// in; transforms happen before these helpers run.
package render

import (
	"image"
	"image/color"
	"math"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"sketchboard/internal/entity"
	"sketchboard/internal/geom"
)

// RectOutline returns the closed outline of r rotated about its center.
func RectOutline(r geom.Rect, angle float64) []geom.Pt {
	c := r.Center()
	pts := []geom.Pt{
		r.Min(),
		{X: r.X + r.W, Y: r.Y},
		r.Max(),
		{X: r.X, Y: r.Y + r.H},
		r.Min(),
	}
	if angle == 0 {
		return pts
	}
	for i, p := range pts {
		pts[i] = geom.RotateAbout(p, c, angle)
	}
	return pts
}

// ShapeOutline samples a shape's border as a polyline, rotation applied.
func ShapeOutline(s *entity.Shape) []geom.Pt {
	c := s.Center
	x := c.X - s.W/2
	y := c.Y - s.H/2
	var pts []geom.Pt
	switch s.Kind {
	case entity.ShapeCircle:
		r := math.Min(s.W, s.H) / 2
		pts = sampleEllipse(c, r, r)
	case entity.ShapeEllipse:
		pts = sampleEllipse(c, s.W/2, s.H/2)
	case entity.ShapeTriangle:
		pts = []geom.Pt{
			{X: c.X, Y: y},
			{X: x + s.W, Y: y + s.H},
			{X: x, Y: y + s.H},
			{X: c.X, Y: y},
		}
	case entity.ShapeLine:
		pts = []geom.Pt{{X: x, Y: y}, {X: x + s.W, Y: y + s.H}}
	case entity.ShapeArrow:
		head := math.Min(s.W, s.H) / 4
		pts = []geom.Pt{
			{X: x, Y: c.Y},
			{X: x + s.W, Y: c.Y},
			{X: x + s.W - head, Y: c.Y - head/2},
			{X: x + s.W, Y: c.Y},
			{X: x + s.W - head, Y: c.Y + head/2},
		}
	default: // rectangle
		pts = []geom.Pt{
			{X: x, Y: y},
			{X: x + s.W, Y: y},
			{X: x + s.W, Y: y + s.H},
			{X: x, Y: y + s.H},
			{X: x, Y: y},
		}
	}
	if s.Angle != 0 {
		for i, p := range pts {
			pts[i] = geom.RotateAbout(p, c, s.Angle)
		}
	}
	return pts
}

func sampleEllipse(c geom.Pt, rx, ry float64) []geom.Pt {
	const steps = 48
	pts := make([]geom.Pt, 0, steps+1)
	for i := 0; i <= steps; i++ {
		a := float64(i) / steps * 2 * math.Pi
		pts = append(pts, geom.Pt{X: c.X + rx*math.Cos(a), Y: c.Y + ry*math.Sin(a)})
	}
	return pts
}

// StampText draws the text block with the bitmap UI font at pos*scale.
// Rotation is not applied; vector outputs carry full text fidelity.
func StampText(dst *image.RGBA, t *entity.Text, scale float64) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.RGBA{R: t.Color.R, G: t.Color.G, B: t.Color.B, A: t.Color.A}),
		Face: basicfont.Face7x13,
	}
	lineH := 13.0 * t.ScaleFactor() * scale
	y := t.Pos.Y*scale + lineH
	for _, line := range strings.Split(t.Content, "\n") {
		d.Dot = fixed.P(int(math.Round(t.Pos.X*scale)), int(math.Round(y)))
		d.DrawString(line)
		y += lineH
	}
}

// ScalePts returns a copy of pts with every coordinate multiplied by s.
func ScalePts(pts []geom.Pt, s float64) []geom.Pt {
	out := make([]geom.Pt, len(pts))
	for i, p := range pts {
		out[i] = geom.Pt{X: p.X * s, Y: p.Y * s}
	}
	return out
}
