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
	"os"
	"path/filepath"
	"testing"

	"sketchboard/internal/document"
	"sketchboard/internal/entity"
	"sketchboard/internal/geom"
	"sketchboard/internal/storage"
)

// newTestBoard builds a two-page board with one of each entity kind on the
// first page.
func newTestBoard(t *testing.T) *storage.BoardHandle {
	t.Helper()
	b := document.New("Export Fixture")
	b.AddPage()

	pg := &b.Pages[0]
	sh := entity.NewShape(entity.ShapeRectangle, geom.Pt{X: 300, Y: 200}, 120, 80)
	sh.Angle = 30
	pg.Shapes = append(pg.Shapes, *sh)
	pg.Shapes = append(pg.Shapes, *entity.NewShape(entity.ShapeEllipse, geom.Pt{X: 600, Y: 400}, 200, 100))

	st := entity.NewStroke(geom.Pt{X: 50, Y: 50}, entity.Black, 4, "pen")
	st.Append(geom.Pt{X: 150, Y: 120})
	st.Append(geom.Pt{X: 250, Y: 60})
	pg.Strokes = append(pg.Strokes, *st)

	pg.Texts = append(pg.Texts, *entity.NewText("hello\nboard", geom.Pt{X: 400, Y: 100}, 16, entity.Black, 80, 32))

	img := entity.NewImage(nil, "missing.png", geom.Pt{X: 800, Y: 600}, 100, 100)
	pg.Images = append(pg.Images, *img)

	bh, err := storage.InitBoard(t.TempDir(), b)
	if err != nil {
		t.Fatalf("InitBoard: %v", err)
	}
	return bh
}

func TestExportBoardPDFWritesFile(t *testing.T) {
	bh := newTestBoard(t)
	if err := ExportBoardPDF(bh, "out.pdf", PDFOptions{}); err != nil {
		t.Fatalf("ExportBoardPDF: %v", err)
	}
	path := filepath.Join(bh.Root, "exports", "out.pdf")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read pdf: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("output is not a PDF (starts %q)", data[:8])
	}
	// two pages -> two /Page objects
	if n := bytes.Count(data, []byte("/Type /Page")); n < 2 {
		t.Fatalf("expected at least 2 page objects, found %d", n)
	}
}

func TestExportBoardPDFPageSubset(t *testing.T) {
	bh := newTestBoard(t)
	out := filepath.Join(t.TempDir(), "single.pdf")
	if err := ExportBoardPDF(bh, out, PDFOptions{Pages: []int{1}}); err != nil {
		t.Fatalf("ExportBoardPDF: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("pdf missing at absolute path: %v", err)
	}
}

func TestExportBoardPDFNilHandle(t *testing.T) {
	if err := ExportBoardPDF(nil, "x.pdf", PDFOptions{}); err == nil {
		t.Fatalf("expected error for nil handle")
	}
}
