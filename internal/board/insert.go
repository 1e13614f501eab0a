/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package board

import (
	"errors"
	stdimage "image"
	"strings"

	"sketchboard/internal/entity"
	"sketchboard/internal/geom"
	"sketchboard/internal/textmetrics"
)

// ErrBelowMinimum is returned when an insertion gesture produces an entity
// below its kind minimum. The entity is discarded; callers surface the
// outcome instead of silently dropping it.
var ErrBelowMinimum = errors.New("board: entity below minimum size")

// copyOffset displaces duplicated entities so the copy is visible.
const copyOffset = 20.0

// previewShape builds the live draw-to-insert preview without going through
// the clamped constructor, so a too-small drag previews at its true size.
func (s *Surface) previewShape(p geom.Pt) *entity.Shape {
	r := geom.RectFromCorners(s.shapeAnchor, p)
	return &entity.Shape{
		Kind:        s.shapeKind,
		Center:      r.Center(),
		W:           r.W,
		H:           r.H,
		StrokeColor: s.shapeStyle.Stroke,
		FillColor:   s.shapeStyle.Fill,
		StrokeWidth: s.shapeStyle.StrokeWidth,
	}
}

// finishShape materializes the drag diagonal into a shape entity.
func (s *Surface) finishShape(p geom.Pt) error {
	r := geom.RectFromCorners(s.shapeAnchor, p)
	if r.W < entity.MinShapeSize || r.H < entity.MinShapeSize {
		return ErrBelowMinimum
	}
	sh := entity.NewShape(s.shapeKind, r.Center(), r.W, r.H)
	sh.StrokeColor = s.shapeStyle.Stroke
	sh.FillColor = s.shapeStyle.Fill
	sh.StrokeWidth = s.shapeStyle.StrokeWidth
	s.shapes = append(s.shapes, sh)
	s.sel.Clear()
	s.commitState()
	return nil
}

// finishStroke commits a freehand stroke into the raster buffer.
func (s *Surface) finishStroke(st *entity.Stroke) {
	s.strokes = append(s.strokes, st)
	s.buf.DrawPolyline(st.Points, st.Color, st.Width)
	s.sel.Clear()
	s.commitState()
}

// InsertText confirms a text dialog into an entity at pos. The base extent
// is measured once and cached; later resizes only touch the scale factor.
func (s *Surface) InsertText(content string, pos geom.Pt, fontSize float64, col entity.Color) (*entity.Text, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrBelowMinimum
	}
	ext := textmetrics.Measure(content, fontSize)
	tx := entity.NewText(content, pos, fontSize, col, ext.W, ext.H)
	s.texts = append(s.texts, tx)
	s.sel.Clear()
	s.commitState()
	return tx, nil
}

// InsertImage places a loaded image at pos with the given logical size.
func (s *Surface) InsertImage(src stdimage.Image, source string, pos geom.Pt, w, h float64) (*entity.Image, error) {
	if w < entity.MinImageSize || h < entity.MinImageSize {
		return nil, ErrBelowMinimum
	}
	im := entity.NewImage(src, source, pos, w, h)
	s.images = append(s.images, im)
	if src != nil {
		s.pixSources[im.ID] = src
	}
	s.sel.Clear()
	s.commitState()
	return im, nil
}

// DeleteSelected removes the selected entity. Returns false with no
// selection (a no-op, not an error).
func (s *Surface) DeleteSelected() bool {
	ref, ok := s.sel.Current()
	if !ok || s.ctrl.Active() {
		return false
	}
	removed := false
	switch ref.Kind {
	case entity.KindStroke:
		for i, e := range s.strokes {
			if e.ID == ref.ID {
				s.strokes = append(s.strokes[:i], s.strokes[i+1:]...)
				removed = true
				break
			}
		}
		if removed {
			s.rebuildRaster()
		}
	case entity.KindShape:
		for i, e := range s.shapes {
			if e.ID == ref.ID {
				s.shapes = append(s.shapes[:i], s.shapes[i+1:]...)
				removed = true
				break
			}
		}
	case entity.KindText:
		for i, e := range s.texts {
			if e.ID == ref.ID {
				s.texts = append(s.texts[:i], s.texts[i+1:]...)
				removed = true
				break
			}
		}
	case entity.KindImage:
		for i, e := range s.images {
			if e.ID == ref.ID {
				s.images = append(s.images[:i], s.images[i+1:]...)
				delete(s.pixSources, ref.ID)
				removed = true
				break
			}
		}
	}
	if !removed {
		return false
	}
	s.sel.Clear()
	s.commitState()
	return true
}

// CopySelected duplicates the selected entity with a small offset. The copy
// becomes an insertion, so the selection is cleared per the usual rule.
func (s *Surface) CopySelected() bool {
	ref, ok := s.sel.Current()
	if !ok || s.ctrl.Active() {
		return false
	}
	target := s.find(ref)
	if target == nil {
		return false
	}
	switch e := target.(type) {
	case *entity.Stroke:
		c := e.Clone()
		c.SetBounds(c.Bounds().Translate(copyOffset, copyOffset))
		s.strokes = append(s.strokes, c)
		s.buf.DrawPolyline(c.Points, c.Color, c.Width)
	case *entity.Shape:
		c := e.Clone()
		c.Center = geom.Pt{X: c.Center.X + copyOffset, Y: c.Center.Y + copyOffset}
		s.shapes = append(s.shapes, c)
	case *entity.Text:
		c := e.Clone()
		c.Pos = geom.Pt{X: c.Pos.X + copyOffset, Y: c.Pos.Y + copyOffset}
		s.texts = append(s.texts, c)
	case *entity.Image:
		c := e.Clone()
		c.Pos = geom.Pt{X: c.Pos.X + copyOffset, Y: c.Pos.Y + copyOffset}
		s.images = append(s.images, c)
		if c.Pix != nil {
			s.pixSources[c.ID] = c.Pix
		}
	default:
		return false
	}
	s.sel.Clear()
	s.commitState()
	return true
}

// Clear removes every entity and wipes the raster, as its own history step.
func (s *Surface) Clear() {
	s.strokes = s.strokes[:0]
	s.shapes = s.shapes[:0]
	s.texts = s.texts[:0]
	s.images = s.images[:0]
	s.pixSources = map[string]stdimage.Image{}
	s.rebuildRaster()
	s.sel.Clear()
	s.commitState()
}
