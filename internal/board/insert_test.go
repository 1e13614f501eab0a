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
	"testing"

	"sketchboard/internal/entity"
	"sketchboard/internal/geom"
)

func TestTooSmallShapeIsReported(t *testing.T) {
	s := newTestSurface()
	err := insertRect(s, geom.Pt{X: 0, Y: 0}, geom.Pt{X: 10, Y: 10})
	if !errors.Is(err, ErrBelowMinimum) {
		t.Fatalf("expected ErrBelowMinimum, got %v", err)
	}
	if len(s.Shapes()) != 0 {
		t.Fatalf("too-small shape must be discarded")
	}
	if s.CanUndo() {
		t.Fatalf("a discarded insertion must not create a history step")
	}
}

func TestInsertTextMeasuresBaseExtent(t *testing.T) {
	s := newTestSurface()
	tx, err := s.InsertText("two\nlines", geom.Pt{X: 10, Y: 10}, 13, entity.Black)
	if err != nil {
		t.Fatalf("insert text: %v", err)
	}
	if tx.BaseW <= 0 || tx.BaseH <= 0 {
		t.Fatalf("base extent not measured: %vx%v", tx.BaseW, tx.BaseH)
	}
	if tx.ScaleFactor() != 1 {
		t.Fatalf("fresh text starts at scale 1, got %v", tx.ScaleFactor())
	}
}

func TestInsertEmptyTextRejected(t *testing.T) {
	s := newTestSurface()
	if _, err := s.InsertText("  \n ", geom.Pt{X: 0, Y: 0}, 13, entity.Black); !errors.Is(err, ErrBelowMinimum) {
		t.Fatalf("expected ErrBelowMinimum for blank text, got %v", err)
	}
}

func TestInsertImageBelowMinimum(t *testing.T) {
	s := newTestSurface()
	src := stdimage.NewRGBA(stdimage.Rect(0, 0, 4, 4))
	if _, err := s.InsertImage(src, "x.png", geom.Pt{X: 0, Y: 0}, 10, 10); !errors.Is(err, ErrBelowMinimum) {
		t.Fatalf("expected ErrBelowMinimum, got %v", err)
	}
	if im, err := s.InsertImage(src, "x.png", geom.Pt{X: 0, Y: 0}, 80, 60); err != nil || im == nil {
		t.Fatalf("valid insert failed: %v", err)
	}
}

func TestDeleteWithoutSelectionIsNoop(t *testing.T) {
	s := newTestSurface()
	if s.DeleteSelected() {
		t.Fatalf("delete with no selection must return false")
	}
	if s.CopySelected() {
		t.Fatalf("copy with no selection must return false")
	}
}

func TestDeleteStrokeRebuildsRaster(t *testing.T) {
	s := newTestSurface()
	drawStroke(s, geom.Pt{X: 10, Y: 20}, geom.Pt{X: 100, Y: 20})
	blank := newTestSurface()
	s.SetTool(ToolSelect)
	s.PointerDown(geom.Pt{X: 50, Y: 20})
	_ = s.PointerUp(geom.Pt{X: 50, Y: 20})
	if !s.DeleteSelected() {
		t.Fatalf("delete failed")
	}
	if len(s.Strokes()) != 0 {
		t.Fatalf("stroke collection not emptied")
	}
	got := s.RasterImage().Pix
	want := blank.RasterImage().Pix
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("raster still contains deleted stroke pixels")
		}
	}
}

func TestCopySelectedShape(t *testing.T) {
	s := newTestSurface()
	_ = insertRect(s, geom.Pt{X: 100, Y: 100}, geom.Pt{X: 200, Y: 180})
	orig := s.Shapes()[0]
	s.SetTool(ToolSelect)
	s.PointerDown(geom.Pt{X: 150, Y: 140})
	_ = s.PointerUp(geom.Pt{X: 150, Y: 140})
	if !s.CopySelected() {
		t.Fatalf("copy failed")
	}
	shapes := s.Shapes()
	if len(shapes) != 2 {
		t.Fatalf("expected 2 shapes after copy, got %d", len(shapes))
	}
	dup := shapes[1]
	if dup.ID == orig.ID {
		t.Fatalf("copy must get a fresh ID")
	}
	if dup.Center.X != orig.Center.X+copyOffset || dup.Center.Y != orig.Center.Y+copyOffset {
		t.Fatalf("copy not offset: %+v vs %+v", dup.Center, orig.Center)
	}
	if s.Selection().HasSelection() {
		t.Fatalf("copy is an insertion and must clear the selection")
	}
}

func TestClearEmptiesEverything(t *testing.T) {
	s := newTestSurface()
	drawStroke(s, geom.Pt{X: 10, Y: 10}, geom.Pt{X: 50, Y: 50})
	_ = insertRect(s, geom.Pt{X: 100, Y: 100}, geom.Pt{X: 200, Y: 180})
	s.Clear()
	if len(s.Strokes()) != 0 || len(s.Shapes()) != 0 {
		t.Fatalf("clear left entities behind")
	}
	if !s.CanUndo() {
		t.Fatalf("clear is a history step; undo should be available")
	}
	if !s.Undo() || len(s.Shapes()) != 1 {
		t.Fatalf("undoing clear should restore the shape")
	}
}
