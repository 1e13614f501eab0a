/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package geom

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestRotatePointQuarterTurn(t *testing.T) {
	got := RotatePoint(1, 0, 90)
	want := Pt{0, 1}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Fatalf("unexpected rotation (-want +got):\n%s", diff)
	}
}

func TestRotateAboutRoundTrip(t *testing.T) {
	pivot := Pt{150, 140}
	p := Pt{200, 180}
	back := RotateAbout(RotateAbout(p, pivot, 37), pivot, -37)
	if diff := cmp.Diff(p, back, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Fatalf("rotate round-trip drifted (-want +got):\n%s", diff)
	}
}

func TestDistPointSegment(t *testing.T) {
	cases := []struct {
		name    string
		p, a, b Pt
		want    float64
	}{
		{"perpendicular", Pt{5, 5}, Pt{0, 0}, Pt{10, 0}, 5},
		{"beyond end", Pt{15, 0}, Pt{0, 0}, Pt{10, 0}, 5},
		{"degenerate", Pt{3, 4}, Pt{0, 0}, Pt{0, 0}, 5},
	}
	for _, tc := range cases {
		if got := DistPointSegment(tc.p, tc.a, tc.b); math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("%s: got %v want %v", tc.name, got, tc.want)
		}
	}
}

func TestAngleOfRange(t *testing.T) {
	if a := AngleOf(Pt{0, 0}, Pt{1, 1}); math.Abs(a-45) > 1e-9 {
		t.Fatalf("expected 45, got %v", a)
	}
	// straight left is the boundary case; must land on +180, not -180
	if a := AngleOf(Pt{0, 0}, Pt{-1, 0}); a <= -180 || a > 180 {
		t.Fatalf("angle out of (-180,180]: %v", a)
	}
}

func TestWrap360(t *testing.T) {
	cases := map[float64]float64{-90: 270, 0: 0, 360: 0, 725: 5, -360: 0}
	for in, want := range cases {
		if got := Wrap360(in); math.Abs(got-want) > 1e-9 {
			t.Fatalf("Wrap360(%v) = %v, want %v", in, got, want)
		}
	}
	for _, deg := range []float64{-1000, -0.5, 359.9, 1234.5} {
		if got := Wrap360(deg); got < 0 || got >= 360 {
			t.Fatalf("Wrap360(%v) = %v outside [0,360)", deg, got)
		}
	}
}

func TestRectFromCorners(t *testing.T) {
	r := RectFromCorners(Pt{200, 180}, Pt{100, 100})
	if r.X != 100 || r.Y != 100 || r.W != 100 || r.H != 80 {
		t.Fatalf("unexpected rect: %+v", r)
	}
	if c := r.Center(); c.X != 150 || c.Y != 140 {
		t.Fatalf("unexpected center: %+v", c)
	}
}

func TestRectUnionContains(t *testing.T) {
	u := R(0, 0, 10, 10).Union(R(5, 5, 10, 10))
	if u.X != 0 || u.Y != 0 || u.W != 15 || u.H != 15 {
		t.Fatalf("unexpected union: %+v", u)
	}
	if !u.Contains(Pt{15, 15}) || u.Contains(Pt{16, 0}) {
		t.Fatalf("containment wrong for %+v", u)
	}
}
