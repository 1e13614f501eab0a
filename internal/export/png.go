/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"sketchboard/internal/entity"
	"sketchboard/internal/geom"
	"sketchboard/internal/raster"
	"sketchboard/internal/render"
	"sketchboard/internal/storage"
)

// PNGOptions controls PNG export behavior.
// - Scale: output pixels per logical unit; <= 0 defaults to 1.
// - Pages: zero-based page indices; if empty, export all.
//
// Text is stamped with the bitmap UI font and does not honor rotation; the
// PDF and SVG exporters carry full text fidelity.
//
//nolint:revive // clarity is preferred
type PNGOptions struct {
	Scale float64
	Pages []int
}

// ExportBoardPNGPages exports each page of the board as a separate PNG file.
// Files are named page-<n>.png under the board's exports folder unless
// outDir is absolute.
func ExportBoardPNGPages(bh *storage.BoardHandle, outDir string, opt PNGOptions) error {
	if bh == nil || bh.Board == nil {
		return fmt.Errorf("board handle is nil")
	}
	b := bh.Board

	scale := opt.Scale
	if scale <= 0 {
		scale = 1
	}

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

		pixW := int(math.Round(pg.W * scale))
		pixH := int(math.Round(pg.H * scale))
		buf := raster.New(pixW, pixH)
		buf.Clear(color.RGBA{R: pg.Background.R, G: pg.Background.G, B: pg.Background.B, A: pg.Background.A})

		for i := range pg.Images {
			m := &pg.Images[i]
			if path, ok := resolveImageSource(bh.Root, m.Source); ok {
				if src := loadImage(path); src != nil {
					buf.DrawImage(src, scaleRect(m.Bounds(), scale), m.Angle)
					continue
				}
			}
			// placeholder frame for unresolvable sources
			r := scaleRect(m.Bounds(), scale)
			buf.DrawPolyline(render.RectOutline(r, m.Angle), entity.Black, scale)
		}
		for i := range pg.Texts {
			render.StampText(buf.Image(), &pg.Texts[i], scale)
		}
		for i := range pg.Shapes {
			s := &pg.Shapes[i]
			buf.DrawPolyline(render.ScalePts(render.ShapeOutline(s), scale), s.StrokeColor, s.StrokeWidth*scale)
		}
		for i := range pg.Strokes {
			s := &pg.Strokes[i]
			buf.DrawPolyline(render.ScalePts(s.Points, scale), s.Color, s.Width*scale)
		}

		name := filepath.Join(outDir, fmt.Sprintf("page-%d.png", pg.Number))
		f, err := os.Create(name)
		if err != nil {
			return fmt.Errorf("create png: %w", err)
		}
		if err := png.Encode(f, buf.Image()); err != nil {
			_ = f.Close()
			return fmt.Errorf("encode png: %w", err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close png: %w", err)
		}
	}
	return nil
}

func loadImage(path string) image.Image {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer func() { _ = f.Close() }()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil
	}
	return img
}

func scaleRect(r geom.Rect, s float64) geom.Rect {
	return geom.Rect{X: r.X * s, Y: r.Y * s, W: r.W * s, H: r.H * s}
}
