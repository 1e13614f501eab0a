/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package viewport

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"sketchboard/internal/geom"
)

func TestToLogicalPanAndZoom(t *testing.T) {
	p := Params{Pan: geom.Pt{X: 50, Y: 50}, Scale: 2.0, ElementRect: geom.R(0, 0, 800, 600)}
	got := ToLogical(geom.Pt{X: 150, Y: 150}, p)
	want := geom.Pt{X: 50, Y: 50}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Fatalf("unexpected logical point (-want +got):\n%s", diff)
	}
}

func TestRoundTrip(t *testing.T) {
	params := []Params{
		{Pan: geom.Pt{X: 0, Y: 0}, Scale: 1, ElementRect: geom.R(0, 0, 800, 600)},
		{Pan: geom.Pt{X: 50, Y: 50}, Scale: 2, ElementRect: geom.R(0, 0, 800, 600)},
		{Pan: geom.Pt{X: -120, Y: 35.5}, Scale: 0.25, ElementRect: geom.R(10, 20, 640, 480)},
		{Pan: geom.Pt{X: 7, Y: -3}, Scale: 3.7, PixelDensity: 2, ElementRect: geom.R(0, 0, 400, 300)},
		{Pan: geom.Pt{X: 1, Y: 1}, Scale: 1.5, ElementRect: geom.R(5, 5, 300, 200), BufferSize: geom.Size{W: 1200, H: 800}},
	}
	points := []geom.Pt{{X: 0, Y: 0}, {X: 100, Y: 100}, {X: -42.5, Y: 613.25}, {X: 1e4, Y: -1e4}}
	for _, p := range params {
		for _, pt := range points {
			back := ToLogical(ToScreen(pt, p), p)
			if diff := cmp.Diff(pt, back, cmpopts.EquateApprox(0, 1e-6)); diff != "" {
				t.Fatalf("round trip failed for %+v under %+v:\n%s", pt, p, diff)
			}
		}
	}
}

func TestElementOffsetAndDensity(t *testing.T) {
	// element at (100,50), density 2: screen (101,51) is buffer local (2,2)
	p := Params{Scale: 1, PixelDensity: 2, ElementRect: geom.R(100, 50, 400, 300)}
	got := ToLogical(geom.Pt{X: 101, Y: 51}, p)
	want := geom.Pt{X: 2, Y: 2}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Fatalf("unexpected mapping (-want +got):\n%s", diff)
	}
}

func TestDegenerateParamsDoNotPanic(t *testing.T) {
	// zero scale and zero rect fall back to identity-ish mapping, no division by zero
	p := Params{}
	got := ToLogical(geom.Pt{X: 10, Y: 10}, p)
	if got.X != 10 || got.Y != 10 {
		t.Fatalf("expected pass-through for empty params, got %+v", got)
	}
}
