/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package document defines the serializable board model. A Board is the unit
// of persistence: ordered pages, each page holding the four entity
// collections in their z-order. The JSON form is the on-disk manifest and
// the payload exchanged with the backend.
package document

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	gojsonschema "github.com/xeipuuv/gojsonschema"

	"sketchboard/internal/entity"
)

//go:embed board.schema.json
var schemaBytes []byte

// DefaultPageW and DefaultPageH are the logical drawing-surface size for new
// pages.
const (
	DefaultPageW = 1920.0
	DefaultPageH = 1080.0
)

// Board is the root document.
type Board struct {
	Name     string    `json:"name"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`
	Pages    []Page    `json:"pages"`
}

// Page holds the entities of one drawing surface. Slice order is insertion
// order and doubles as z-order (later entries draw, and hit, first).
type Page struct {
	Number     int             `json:"number"`
	W          float64         `json:"w"`
	H          float64         `json:"h"`
	Background entity.Color    `json:"background"`
	Strokes    []entity.Stroke `json:"strokes"`
	Shapes     []entity.Shape  `json:"shapes"`
	Texts      []entity.Text   `json:"texts"`
	Images     []entity.Image  `json:"images"`
}

// New returns a board with a single empty page.
func New(name string) *Board {
	now := time.Now().UTC()
	return &Board{
		Name:     name,
		Created:  now,
		Modified: now,
		Pages:    []Page{NewPage(1)},
	}
}

// NewPage returns an empty white page with default dimensions.
func NewPage(number int) Page {
	return Page{Number: number, W: DefaultPageW, H: DefaultPageH, Background: entity.White}
}

// AddPage appends a new page and returns its index.
func (b *Board) AddPage() int {
	b.Pages = append(b.Pages, NewPage(len(b.Pages)+1))
	return len(b.Pages) - 1
}

// Marshal encodes the board as indented JSON.
func (b *Board) Marshal() ([]byte, error) {
	b.Modified = time.Now().UTC()
	return json.MarshalIndent(b, "", "  ")
}

// Unmarshal validates data against the board schema and decodes it. Schema
// violations are reported before decoding so corrupt files fail with a
// useful message instead of a half-populated board.
func Unmarshal(data []byte) (*Board, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}
	var b Board
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decode board: %w", err)
	}
	return &b, nil
}

// Validate checks raw JSON against the embedded board schema.
func Validate(data []byte) error {
	res, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schemaBytes), gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("schema validate: %w", err)
	}
	if !res.Valid() {
		errs := res.Errors()
		if len(errs) > 0 {
			return fmt.Errorf("board does not conform to schema: %s", errs[0])
		}
		return fmt.Errorf("board does not conform to schema")
	}
	return nil
}
