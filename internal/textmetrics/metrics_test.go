/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package textmetrics

import "testing"

func TestMeasureSingleLine(t *testing.T) {
	e := Measure("hello", 13)
	if e.Lines != 1 {
		t.Fatalf("expected 1 line, got %d", e.Lines)
	}
	if e.W <= 0 || e.H <= 0 {
		t.Fatalf("expected positive extent, got %+v", e)
	}
	if e.H != e.LineHeight {
		t.Fatalf("single line height must equal line height")
	}
}

func TestMeasureMultiLineUsesWidestLine(t *testing.T) {
	short := Measure("ab", 13)
	multi := Measure("ab\nabcdef", 13)
	if multi.Lines != 2 {
		t.Fatalf("expected 2 lines, got %d", multi.Lines)
	}
	if multi.W <= short.W {
		t.Fatalf("widest line should dominate width: %v vs %v", multi.W, short.W)
	}
	if multi.H != 2*multi.LineHeight {
		t.Fatalf("height should be lines*lineHeight, got %+v", multi)
	}
}

func TestMeasureScalesLinearly(t *testing.T) {
	a := Measure("scale me", 13)
	b := Measure("scale me", 26)
	if b.W != 2*a.W || b.H != 2*a.H {
		t.Fatalf("doubling the size should double the extent: %+v vs %+v", a, b)
	}
}

func TestMeasureEmptyStillOneLine(t *testing.T) {
	e := Measure("", 13)
	if e.Lines != 1 || e.H <= 0 {
		t.Fatalf("empty content should occupy one line, got %+v", e)
	}
	if e.W != 0 {
		t.Fatalf("empty content has zero width, got %v", e.W)
	}
}

func TestMeasureDefaultsSize(t *testing.T) {
	a := Measure("x", 0)
	b := Measure("x", 13)
	if a != b {
		t.Fatalf("non-positive size should fall back to the base size")
	}
}
