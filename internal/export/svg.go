/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"sketchboard/internal/entity"
	"sketchboard/internal/storage"
)

// SVGOptions controls SVG export behavior.
// The coordinate system matches the page (logical units); a viewBox allows
// the consumer to scale freely. Rotation is emitted as a transform attribute
// so entities stay editable vectors.
//
//nolint:revive // clarity is preferred
type SVGOptions struct {
	Pages []int // zero-based page indices; if empty, export all
}

// ExportBoardSVGPages exports each page of the board as a separate SVG file.
// Files are named page-<n>.svg under outDir or the board's exports folder.
func ExportBoardSVGPages(bh *storage.BoardHandle, outDir string, opt SVGOptions) error {
	if bh == nil || bh.Board == nil {
		return fmt.Errorf("board handle is nil")
	}
	b := bh.Board

	if !filepath.IsAbs(outDir) {
		outDir = filepath.Join(bh.Root, "exports", outDir)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}

	for _, pidx := range pageIndexes(len(b.Pages), opt.Pages) {
		if pidx < 0 || pidx >= len(b.Pages) {
			continue
		}
		pg := b.Pages[pidx]

		var buf bytes.Buffer
		var werr error
		wf := func(format string, args ...any) {
			if werr != nil {
				return
			}
			_, werr = fmt.Fprintf(&buf, format, args...)
		}

		wf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
		wf("<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\" width=\"%gpx\" height=\"%gpx\" viewBox=\"0 0 %g %g\">\n", pg.W, pg.H, pg.W, pg.H)
		wf("  <rect x=\"0\" y=\"0\" width=\"%g\" height=\"%g\" fill=\"%s\"/>\n", pg.W, pg.H, svgColor(pg.Background))

		for i := range pg.Images {
			m := &pg.Images[i]
			// Sources are referenced, not embedded; missing files degrade to
			// an empty frame in most viewers.
			wf("  <image x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" href=\"%s\"%s/>\n",
				m.Pos.X, m.Pos.Y, m.W, m.H, escAttr(m.Source), svgRotate(m.Angle, m.Pivot().X, m.Pivot().Y))
		}
		for i := range pg.Texts {
			t := &pg.Texts[i]
			fsz := t.FontSize * t.ScaleFactor()
			y := t.Pos.Y + fsz
			rot := svgRotate(t.Angle, t.Pivot().X, t.Pivot().Y)
			for _, line := range strings.Split(t.Content, "\n") {
				wf("  <text x=\"%g\" y=\"%g\" font-family=\"Helvetica, Arial, sans-serif\" font-size=\"%g\" fill=\"%s\"%s>%s</text>\n",
					t.Pos.X, y, fsz, svgColor(t.Color), rot, escText(line))
				y += fsz * 1.2
			}
		}
		for i := range pg.Shapes {
			writeShapeSVG(wf, &pg.Shapes[i])
		}
		for i := range pg.Strokes {
			s := &pg.Strokes[i]
			if len(s.Points) == 0 {
				continue
			}
			var pts strings.Builder
			for j, p := range s.Points {
				if j > 0 {
					pts.WriteByte(' ')
				}
				fmt.Fprintf(&pts, "%g,%g", p.X, p.Y)
			}
			wf("  <polyline points=\"%s\" fill=\"none\" stroke=\"%s\" stroke-width=\"%g\" stroke-linecap=\"round\" stroke-linejoin=\"round\"/>\n",
				pts.String(), svgColor(s.Color), s.Width)
		}

		wf("</svg>\n")

		if werr != nil {
			return fmt.Errorf("build svg: %w", werr)
		}

		name := filepath.Join(outDir, fmt.Sprintf("page-%d.svg", pg.Number))
		if err := os.WriteFile(name, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write svg: %w", err)
		}
	}
	return nil
}

func writeShapeSVG(wf func(string, ...any), s *entity.Shape) {
	fill := "none"
	if s.FillColor.A > 0 {
		fill = svgColor(s.FillColor)
	}
	stroke := svgColor(s.StrokeColor)
	rot := svgRotate(s.Angle, s.Center.X, s.Center.Y)
	x := s.Center.X - s.W/2
	y := s.Center.Y - s.H/2

	switch s.Kind {
	case entity.ShapeCircle:
		r := math.Min(s.W, s.H) / 2
		wf("  <circle cx=\"%g\" cy=\"%g\" r=\"%g\" fill=\"%s\" stroke=\"%s\" stroke-width=\"%g\"%s/>\n",
			s.Center.X, s.Center.Y, r, fill, stroke, s.StrokeWidth, rot)
	case entity.ShapeEllipse:
		wf("  <ellipse cx=\"%g\" cy=\"%g\" rx=\"%g\" ry=\"%g\" fill=\"%s\" stroke=\"%s\" stroke-width=\"%g\"%s/>\n",
			s.Center.X, s.Center.Y, s.W/2, s.H/2, fill, stroke, s.StrokeWidth, rot)
	case entity.ShapeTriangle:
		wf("  <polygon points=\"%g,%g %g,%g %g,%g\" fill=\"%s\" stroke=\"%s\" stroke-width=\"%g\"%s/>\n",
			s.Center.X, y, x+s.W, y+s.H, x, y+s.H, fill, stroke, s.StrokeWidth, rot)
	case entity.ShapeLine:
		wf("  <line x1=\"%g\" y1=\"%g\" x2=\"%g\" y2=\"%g\" stroke=\"%s\" stroke-width=\"%g\"%s/>\n",
			x, y, x+s.W, y+s.H, stroke, s.StrokeWidth, rot)
	case entity.ShapeArrow:
		head := math.Min(s.W, s.H) / 4
		wf("  <path d=\"M %g %g L %g %g M %g %g L %g %g M %g %g L %g %g\" fill=\"none\" stroke=\"%s\" stroke-width=\"%g\"%s/>\n",
			x, s.Center.Y, x+s.W, s.Center.Y,
			x+s.W, s.Center.Y, x+s.W-head, s.Center.Y-head/2,
			x+s.W, s.Center.Y, x+s.W-head, s.Center.Y+head/2,
			stroke, s.StrokeWidth, rot)
	default: // rectangle
		wf("  <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" fill=\"%s\" stroke=\"%s\" stroke-width=\"%g\"%s/>\n",
			x, y, s.W, s.H, fill, stroke, s.StrokeWidth, rot)
	}
}

func svgRotate(angle, cx, cy float64) string {
	if angle == 0 {
		return ""
	}
	return fmt.Sprintf(" transform=\"rotate(%g %g %g)\"", angle, cx, cy)
}

func svgColor(c entity.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func escAttr(s string) string {
	// naive escaping sufficient for our simple usage
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch ch {
		case '"':
			out = append(out, '&', 'q', 'u', 'o', 't', ';')
		case '&':
			out = append(out, '&', 'a', 'm', 'p', ';')
		case '\n':
			out = append(out, ' ')
		case '\r':
			// skip
		default:
			out = append(out, ch)
		}
	}
	return string(out)
}

func escText(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch ch {
		case '&':
			out = append(out, '&', 'a', 'm', 'p', ';')
		case '<':
			out = append(out, '&', 'l', 't', ';')
		case '>':
			out = append(out, '&', 'g', 't', ';')
		default:
			out = append(out, ch)
		}
	}
	return string(out)
}
