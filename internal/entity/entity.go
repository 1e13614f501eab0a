/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package entity defines the addressable drawable objects of the board:
// strokes, shapes, text and images. All kinds expose the Manipulable
// capability so a single gesture controller can drag, resize and rotate any
// of them, branching only on the anchor mode.
package entity

import "sketchboard/internal/geom"

// Kind tags an entity variant.
type Kind int

const (
	KindStroke Kind = iota
	KindShape
	KindText
	KindImage
)

func (k Kind) String() string {
	switch k {
	case KindStroke:
		return "stroke"
	case KindShape:
		return "shape"
	case KindText:
		return "text"
	case KindImage:
		return "image"
	}
	return "unknown"
}

// AnchorMode describes how an entity's position relates to its rotation pivot
// and which resize policy applies.
type AnchorMode int

const (
	// AnchorBox resizes edge-wise with the opposite edge held fixed in world
	// space (strokes, images).
	AnchorBox AnchorMode = iota
	// AnchorCenter resizes symmetrically about the center (shapes).
	AnchorCenter
	// AnchorTopLeft positions by top-left corner and resizes by uniform
	// scale (text).
	AnchorTopLeft
)

// Size constraints per kind. Resize results are clamped, never rejected.
const (
	MinStrokeSize = 10.0
	MinShapeSize  = 20.0
	MaxShapeSize  = 500.0
	MinImageSize  = 50.0
	MinTextScale  = 0.5
	MaxTextScale  = 3.0
)

// Manipulable is the capability contract every entity kind satisfies.
// Bounds are the unrotated axis-aligned box; Rotation is in degrees [0,360).
type Manipulable interface {
	EntityID() string
	EntityKind() Kind
	Anchor() AnchorMode
	Pivot() geom.Pt
	Bounds() geom.Rect
	Rotation() float64
	SetBounds(geom.Rect)
	SetRotation(deg float64)
}

// UniformScalable is the extra capability of entities whose size is a cached
// base extent times a single scale factor.
type UniformScalable interface {
	ScaleFactor() float64
	SetScaleFactor(v float64)
}

// Color is an 8-bit RGBA color, serialized the same way across documents,
// exports and the wire.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

var (
	Black = Color{0, 0, 0, 255}
	White = Color{255, 255, 255, 255}
)
