/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export renders boards into portable formats: a multi-page PDF,
// per-page PNG rasters and per-page SVG vectors. Exporters read the
// serialized document model, never the live editing surface, so an export is
// always a consistent committed state.
package export

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"sketchboard/internal/entity"
	"sketchboard/internal/storage"
)

// PDFOptions controls PDF export behavior.
// Units are points (pt); the logical page coordinates map 1:1 to pt.
//
// Coordinates:
// - Page origin is top-left, matching the drawing surface.
// - Rotated entities are emitted inside a transform block pivoting on the
//   entity center, so the vector output matches the on-screen rendering.
//
// Text uses built-in Helvetica to stay vector without font embedding.
//
//nolint:revive // keep options grouped and explicit for clarity
type PDFOptions struct {
	Pages []int // zero-based page indices; if empty, export all pages
}

// ExportBoardPDF exports the board to a single multi-page PDF placed at outPath.
func ExportBoardPDF(bh *storage.BoardHandle, outPath string, opt PDFOptions) error {
	if bh == nil || bh.Board == nil {
		return fmt.Errorf("board handle is nil")
	}
	b := bh.Board
	if len(b.Pages) == 0 {
		return fmt.Errorf("board has no pages")
	}

	first := b.Pages[0]
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: first.W, Ht: first.H},
		OrientationStr: "",
	})
	pdf.SetTitle(fmt.Sprintf("%s — Board PDF", b.Name), false)
	pdf.SetAuthor("Sketchboard", false)
	pdf.SetFont("Helvetica", "", 12)

	for _, pidx := range pageIndexes(len(b.Pages), opt.Pages) {
		if pidx < 0 || pidx >= len(b.Pages) {
			continue
		}
		pg := b.Pages[pidx]
		pdf.AddPageFormat("", gofpdf.SizeType{Wd: pg.W, Ht: pg.H})

		// Background
		setFillColor(pdf, pg.Background)
		pdf.Rect(0, 0, pg.W, pg.H, "F")

		// Images first, then texts, then shapes, then strokes on top, the
		// same compositing order the surface uses.
		for i := range pg.Images {
			drawImagePDF(pdf, bh.Root, &pg.Images[i])
		}
		for i := range pg.Texts {
			drawTextPDF(pdf, &pg.Texts[i])
		}
		for i := range pg.Shapes {
			drawShapePDF(pdf, &pg.Shapes[i])
		}
		for i := range pg.Strokes {
			drawStrokePDF(pdf, &pg.Strokes[i])
		}
	}

	// Relative paths land under the board's exports folder
	if !filepath.IsAbs(outPath) {
		outPath = filepath.Join(bh.Root, "exports", outPath)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func drawStrokePDF(pdf *gofpdf.Fpdf, s *entity.Stroke) {
	if len(s.Points) < 2 {
		return
	}
	setDrawColor(pdf, s.Color)
	pdf.SetLineWidth(s.Width)
	pdf.SetLineCapStyle("round")
	for i := 0; i < len(s.Points)-1; i++ {
		a, z := s.Points[i], s.Points[i+1]
		pdf.Line(a.X, a.Y, z.X, z.Y)
	}
}

func drawShapePDF(pdf *gofpdf.Fpdf, s *entity.Shape) {
	setDrawColor(pdf, s.StrokeColor)
	pdf.SetLineWidth(s.StrokeWidth)
	style := "D"
	if s.FillColor.A > 0 {
		setFillColor(pdf, s.FillColor)
		style = "FD"
	}

	cx, cy := s.Center.X, s.Center.Y
	rotated := s.Angle != 0
	if rotated {
		pdf.TransformBegin()
		pdf.TransformRotate(-s.Angle, cx, cy)
	}
	x := cx - s.W/2
	y := cy - s.H/2
	switch s.Kind {
	case entity.ShapeCircle:
		pdf.Circle(cx, cy, math.Min(s.W, s.H)/2, style)
	case entity.ShapeEllipse:
		pdf.Ellipse(cx, cy, s.W/2, s.H/2, 0, style)
	case entity.ShapeTriangle:
		pts := []gofpdf.PointType{
			{X: cx, Y: y},
			{X: x + s.W, Y: y + s.H},
			{X: x, Y: y + s.H},
		}
		pdf.Polygon(pts, style)
	case entity.ShapeLine:
		pdf.Line(x, y, x+s.W, y+s.H)
	case entity.ShapeArrow:
		pdf.Line(x, cy, x+s.W, cy)
		head := math.Min(s.W, s.H) / 4
		pdf.Line(x+s.W, cy, x+s.W-head, cy-head/2)
		pdf.Line(x+s.W, cy, x+s.W-head, cy+head/2)
	default: // rectangle
		pdf.Rect(x, y, s.W, s.H, style)
	}
	if rotated {
		pdf.TransformEnd()
	}
}

func drawTextPDF(pdf *gofpdf.Fpdf, t *entity.Text) {
	fsz := t.FontSize * t.ScaleFactor()
	if fsz <= 0 {
		fsz = 12
	}
	pdf.SetFont("Helvetica", "", fsz)
	pdf.SetTextColor(int(t.Color.R), int(t.Color.G), int(t.Color.B))

	rotated := t.Angle != 0
	if rotated {
		pv := t.Pivot()
		pdf.TransformBegin()
		pdf.TransformRotate(-t.Angle, pv.X, pv.Y)
	}
	y := t.Pos.Y + fsz // approx baseline offset
	for _, line := range strings.Split(t.Content, "\n") {
		pdf.Text(t.Pos.X, y, line)
		y += fsz * 1.2
	}
	if rotated {
		pdf.TransformEnd()
	}
}

func drawImagePDF(pdf *gofpdf.Fpdf, boardRoot string, m *entity.Image) {
	rotated := m.Angle != 0
	if rotated {
		pv := m.Pivot()
		pdf.TransformBegin()
		pdf.TransformRotate(-m.Angle, pv.X, pv.Y)
	}
	if path, ok := resolveImageSource(boardRoot, m.Source); ok {
		pdf.ImageOptions(path, m.Pos.X, m.Pos.Y, m.W, m.H, false, gofpdf.ImageOptions{}, 0, "")
	} else {
		// source missing: emit a placeholder frame so layout stays visible
		setDrawColor(pdf, entity.Black)
		pdf.SetLineWidth(1)
		pdf.Rect(m.Pos.X, m.Pos.Y, m.W, m.H, "D")
		pdf.Line(m.Pos.X, m.Pos.Y, m.Pos.X+m.W, m.Pos.Y+m.H)
		pdf.Line(m.Pos.X+m.W, m.Pos.Y, m.Pos.X, m.Pos.Y+m.H)
	}
	if rotated {
		pdf.TransformEnd()
	}
}

// resolveImageSource maps an entity image source to a readable file, trying
// the path as-is and then relative to the board's assets folder.
func resolveImageSource(boardRoot, source string) (string, bool) {
	if source == "" {
		return "", false
	}
	if _, err := os.Stat(source); err == nil {
		return source, true
	}
	p := filepath.Join(boardRoot, "assets", filepath.Base(source))
	if _, err := os.Stat(p); err == nil {
		return p, true
	}
	return "", false
}

func pageIndexes(total int, specific []int) []int {
	if len(specific) == 0 {
		out := make([]int, total)
		for i := range out {
			out[i] = i
		}
		return out
	}
	return specific
}

func setDrawColor(pdf *gofpdf.Fpdf, c entity.Color) {
	pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
}

func setFillColor(pdf *gofpdf.Fpdf, c entity.Color) {
	pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
}
