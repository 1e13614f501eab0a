/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package textmetrics measures text extents deterministically so that text
// entities get stable base bounds on every platform. Measurement is backed by
// x/image's bitmap face and scaled linearly to the requested point size; it
// does not shape or hyphenate.
package textmetrics

import (
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// baseSizePt is the nominal point size of the bitmap face the measurements
// are derived from.
const baseSizePt = 13.0

// Extent is a measured text box in logical units.
type Extent struct {
	W, H       float64
	LineHeight float64
	Lines      int
}

// Measure returns the extent of content at the given point size. Lines are
// split on '\n'; the widest line wins. Empty content still occupies one line
// so a fresh text entity has a grabbable box.
func Measure(content string, sizePt float64) Extent {
	if sizePt <= 0 {
		sizePt = baseSizePt
	}
	face := basicfont.Face7x13
	d := &font.Drawer{Face: face}
	m := face.Metrics()
	scale := sizePt / baseSizePt

	lines := strings.Split(content, "\n")
	var widest float64
	for _, ln := range lines {
		if w := float64(d.MeasureString(ln) >> 6); w > widest {
			widest = w
		}
	}
	lineH := float64(m.Height.Round()) * scale
	return Extent{
		W:          widest * scale,
		H:          lineH * float64(len(lines)),
		LineHeight: lineH,
		Lines:      len(lines),
	}
}
