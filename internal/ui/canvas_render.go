/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	stdimage "image"
	"image/color"
	"image/draw"
	"math"

	"sketchboard/internal/board"
	"sketchboard/internal/entity"
	"sketchboard/internal/geom"
	"sketchboard/internal/manip"
	"sketchboard/internal/raster"
	"sketchboard/internal/render"
	"sketchboard/internal/viewport"
)

// workspaceGray is painted outside the page so the page edge reads as a
// physical boundary under pan and zoom.
var workspaceGray = color.RGBA{R: 46, G: 46, B: 50, A: 255}

var selectionAccent = entity.Color{R: 0, G: 170, B: 255, A: 255}

// handleScreenSize is the edge length of a selection handle square in
// screen pixels.
const handleScreenSize = 8.0

// softRenderer replays a board surface into an offscreen raster buffer with
// the current view transform applied. It carries no Fyne dependency, so the
// redraw pipeline is testable headless; the widget wraps the buffer image in
// a canvas.Image.
type softRenderer struct {
	buf    *raster.Buffer
	params viewport.Params
	pageW  float64
	pageH  float64
}

func newSoftRenderer(w, h int, pageW, pageH float64) *softRenderer {
	return &softRenderer{buf: raster.New(w, h), pageW: pageW, pageH: pageH}
}

// Resize reallocates the backing buffer when the on-screen element changes
// size. No-op when the size is unchanged or degenerate.
func (sr *softRenderer) Resize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	if cw, ch := sr.buf.Size(); cw == w && ch == h {
		return
	}
	sr.buf = raster.New(w, h)
}

func (sr *softRenderer) BufferImage() *stdimage.RGBA { return sr.buf.Image() }

// SetParams installs the view transform for the next redraw.
func (sr *softRenderer) SetParams(p viewport.Params) { sr.params = p }

func (sr *softRenderer) toScreen(p geom.Pt) geom.Pt { return viewport.ToScreen(p, sr.params) }

func (sr *softRenderer) mapPts(pts []geom.Pt) []geom.Pt {
	out := make([]geom.Pt, len(pts))
	for i, p := range pts {
		out[i] = sr.toScreen(p)
	}
	return out
}

func (sr *softRenderer) scale() float64 {
	if sr.params.Scale <= 0 {
		return 1
	}
	return sr.params.Scale
}

// screenRect maps a logical rect to an axis-aligned screen rect. Rotation is
// handled separately by the per-entity draw calls.
func (sr *softRenderer) screenRect(r geom.Rect) geom.Rect {
	min := sr.toScreen(r.Min())
	s := sr.scale()
	return geom.Rect{X: min.X, Y: min.Y, W: r.W * s, H: r.H * s}
}

// Clear paints the workspace backdrop and fills the page area with the page
// background color.
func (sr *softRenderer) Clear(bg entity.Color) {
	sr.buf.Clear(workspaceGray)
	pr := sr.screenRect(geom.Rect{W: sr.pageW, H: sr.pageH})
	dst := sr.buf.Image()
	x0 := int(math.Floor(pr.X))
	y0 := int(math.Floor(pr.Y))
	x1 := int(math.Ceil(pr.X + pr.W))
	y1 := int(math.Ceil(pr.Y + pr.H))
	area := stdimage.Rect(x0, y0, x1, y1).Intersect(dst.Bounds())
	draw.Draw(dst, area, stdimage.NewUniform(color.RGBA{R: bg.R, G: bg.G, B: bg.B, A: bg.A}), stdimage.Point{}, draw.Src)
}

// Raster blits the committed stroke pixels into the page area.
func (sr *softRenderer) Raster(img *stdimage.RGBA) {
	if img == nil {
		return
	}
	b := img.Bounds()
	sr.buf.DrawImage(img, sr.screenRect(geom.Rect{W: float64(b.Dx()), H: float64(b.Dy())}), 0)
}

func (sr *softRenderer) Stroke(s *entity.Stroke) {
	sr.buf.DrawPolyline(sr.mapPts(s.Points), s.Color, s.Width*sr.scale())
}

func (sr *softRenderer) Shape(s *entity.Shape) {
	sr.buf.DrawPolyline(sr.mapPts(render.ShapeOutline(s)), s.StrokeColor, s.StrokeWidth*sr.scale())
}

// Text stamps the content with the bitmap UI font. StampText positions by
// pos*scale, so the pan-adjusted screen position is pre-divided by the scale.
func (sr *softRenderer) Text(t *entity.Text) {
	s := sr.scale()
	tc := *t
	sp := sr.toScreen(t.Pos)
	tc.Pos = geom.Pt{X: sp.X / s, Y: sp.Y / s}
	render.StampText(sr.buf.Image(), &tc, s)
}

func (sr *softRenderer) Image(m *entity.Image) {
	r := sr.screenRect(m.Bounds())
	if m.Pix != nil {
		sr.buf.DrawImage(m.Pix, r, m.Angle)
		return
	}
	sr.buf.DrawPolyline(render.RectOutline(r, m.Angle), entity.Black, 1)
}

// Selection draws the rotated bounding outline plus the handle chrome.
func (sr *softRenderer) Selection(target entity.Manipulable, handles []manip.HandlePos) {
	if target == nil {
		return
	}
	outline := sr.mapPts(render.RectOutline(target.Bounds(), target.Rotation()))
	sr.buf.DrawPolyline(outline, selectionAccent, 1)
	for _, h := range handles {
		sp := sr.toScreen(h.Pos)
		if h.Handle == manip.HandleRotate {
			knob := entity.Shape{Kind: entity.ShapeCircle, Center: sp, W: handleScreenSize, H: handleScreenSize}
			sr.buf.DrawPolyline(render.ShapeOutline(&knob), selectionAccent, 1)
			continue
		}
		hr := geom.Rect{
			X: sp.X - handleScreenSize/2,
			Y: sp.Y - handleScreenSize/2,
			W: handleScreenSize,
			H: handleScreenSize,
		}
		sr.buf.DrawPolyline(render.RectOutline(hr, 0), selectionAccent, 1)
	}
}

var _ board.Renderer = (*softRenderer)(nil)
