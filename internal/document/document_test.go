/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package document

import (
	"testing"

	"sketchboard/internal/entity"
	"sketchboard/internal/geom"
)

func TestNewBoardConformsToSchema(t *testing.T) {
	b := New("Schema Test")
	data, err := b.Marshal()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := Validate(data); err != nil {
		t.Fatalf("fresh board should validate: %v", err)
	}
}

func TestRoundTripKeepsEntities(t *testing.T) {
	b := New("Round Trip")
	p := &b.Pages[0]
	s := entity.NewShape(entity.ShapeCircle, geom.Pt{X: 100, Y: 100}, 80, 80)
	s.SetRotation(45)
	p.Shapes = append(p.Shapes, *s)
	st := entity.NewStroke(geom.Pt{X: 1, Y: 1}, entity.Black, 3, "pen")
	st.Append(geom.Pt{X: 50, Y: 50})
	p.Strokes = append(p.Strokes, *st)
	tx := entity.NewText("hello", geom.Pt{X: 10, Y: 20}, 16, entity.Black, 70, 13)
	p.Texts = append(p.Texts, *tx)

	data, err := b.Marshal()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	gp := got.Pages[0]
	if len(gp.Shapes) != 1 || len(gp.Strokes) != 1 || len(gp.Texts) != 1 {
		t.Fatalf("entity counts lost: %d shapes %d strokes %d texts", len(gp.Shapes), len(gp.Strokes), len(gp.Texts))
	}
	if gp.Shapes[0].Rotation() != 45 {
		t.Fatalf("shape rotation lost: %v", gp.Shapes[0].Rotation())
	}
	if len(gp.Strokes[0].Points) != 2 {
		t.Fatalf("stroke points lost")
	}
}

func TestUnmarshalRejectsInvalid(t *testing.T) {
	if _, err := Unmarshal([]byte(`{"pages": "nope"}`)); err == nil {
		t.Fatalf("expected schema violation")
	}
	if _, err := Unmarshal([]byte(`{"name":"x","pages":[{"number":0,"w":10,"h":10}]}`)); err == nil {
		t.Fatalf("page number 0 should be rejected")
	}
}

func TestAddPageNumbersSequentially(t *testing.T) {
	b := New("Pages")
	idx := b.AddPage()
	if idx != 1 || b.Pages[1].Number != 2 {
		t.Fatalf("expected page 2 at index 1, got idx=%d number=%d", idx, b.Pages[idx].Number)
	}
}
