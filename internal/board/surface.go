/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package board composes the drawing-surface core: the per-kind entity
// collections, the raster buffer for committed strokes, selection, the
// gesture controller and the history store. All methods run synchronously on
// input callbacks; the surface is not goroutine-safe and does not need to
// be, since a single controller instance holds all gesture state.
package board

import (
	"encoding/json"
	stdimage "image"
	"image/color"

	"sketchboard/internal/entity"
	"sketchboard/internal/geom"
	"sketchboard/internal/history"
	"sketchboard/internal/hittest"
	"sketchboard/internal/manip"
	"sketchboard/internal/raster"
	"sketchboard/internal/selection"
	"sketchboard/internal/viewport"
)

// Tool is the active insertion/manipulation mode, supplied by the toolbar.
type Tool int

const (
	ToolSelect Tool = iota
	ToolPen
	ToolShape
	ToolText
	ToolImage
)

// ParamsFunc supplies the current view transform. The zoom/pan UI owns the
// values; the surface only reads them when mapping pointer events.
type ParamsFunc func() viewport.Params

// Renderer is the drawing backend the surface replays into on every redraw.
// Implementations exist for the UI canvas and the exporters.
type Renderer interface {
	Clear(bg entity.Color)
	Raster(img *stdimage.RGBA)
	Stroke(s *entity.Stroke)
	Shape(s *entity.Shape)
	Text(t *entity.Text)
	Image(m *entity.Image)
	Selection(target entity.Manipulable, handles []manip.HandlePos)
}

// CommitHook is invoked after each completed gesture, insertion and deletion
// so the history UI can refresh undo/redo enablement.
type CommitHook func()

// vectorState is the serialized form of the vector collections stored in
// every history snapshot alongside the raster bytes. Strokes are included so
// the collections stay consistent with the restored pixels.
type vectorState struct {
	Strokes []entity.Stroke `json:"strokes"`
	Shapes  []entity.Shape  `json:"shapes"`
	Texts   []entity.Text   `json:"texts"`
	Images  []entity.Image  `json:"images"`
}

// StrokeStyle is the pen configuration for freehand drawing.
type StrokeStyle struct {
	Color entity.Color
	Width float64
}

// ShapeStyle is the configuration applied to draw-to-insert shapes.
type ShapeStyle struct {
	Stroke      entity.Color
	Fill        entity.Color
	StrokeWidth float64
}

// Surface is the composition root for one page.
type Surface struct {
	w, h       int
	background entity.Color
	params     ParamsFunc

	strokes []*entity.Stroke
	shapes  []*entity.Shape
	texts   []*entity.Text
	images  []*entity.Image

	buf  *raster.Buffer
	sel  *selection.Model
	hist *history.Store
	ctrl *manip.Controller

	tool       Tool
	shapeKind  entity.ShapeKind
	pen        StrokeStyle
	shapeStyle ShapeStyle

	pendingStroke *entity.Stroke
	pendingShape  *entity.Shape
	shapeAnchor   geom.Pt
	shapeActive   bool

	// stroke under an active gesture; lifted out of the raster and drawn
	// in the vector pass so mid-gesture redraws show it moving
	gestureStroke *entity.Stroke

	// pixel sources by image entity ID; kept out of snapshots and
	// reattached after undo/redo restores the vector lists
	pixSources map[string]stdimage.Image

	hooks []CommitHook
}

// NewSurface creates an empty white surface of the given pixel size and
// commits the blank state as the history baseline, so the first undo after a
// gesture restores an empty board and a fresh surface reports CanUndo false.
func NewSurface(w, h int, params ParamsFunc, histCfg history.Config) *Surface {
	if params == nil {
		params = func() viewport.Params { return viewport.Params{} }
	}
	s := &Surface{
		w:          w,
		h:          h,
		background: entity.White,
		params:     params,
		buf:        raster.New(w, h),
		sel:        selection.NewModel(),
		hist:       history.NewStore(histCfg),
		shapeKind:  entity.ShapeRectangle,
		pen:        StrokeStyle{Color: entity.Black, Width: 3},
		shapeStyle: ShapeStyle{Stroke: entity.Black, Fill: entity.White, StrokeWidth: 2},
		pixSources: map[string]stdimage.Image{},
	}
	s.ctrl = manip.NewController(func(target entity.Manipulable) {
		if target != nil && target.EntityKind() == entity.KindStroke {
			s.gestureStroke = nil
			s.rebuildRaster()
		}
		s.commitState()
	})
	s.commitState()
	return s
}

func (s *Surface) Selection() *selection.Model { return s.sel }
func (s *Surface) Tool() Tool                  { return s.tool }

// SetTool switches the active mode. Switching away from the select tool
// clears the selection; pending insertions are abandoned.
func (s *Surface) SetTool(t Tool) {
	if s.ctrl.Active() {
		return
	}
	s.tool = t
	s.pendingStroke = nil
	s.pendingShape = nil
	s.shapeActive = false
	if t != ToolSelect {
		s.sel.Clear()
	}
}

func (s *Surface) SetShapeKind(k entity.ShapeKind) { s.shapeKind = k }
func (s *Surface) SetPen(st StrokeStyle)           { s.pen = st }
func (s *Surface) SetShapeStyle(st ShapeStyle)     { s.shapeStyle = st }

// OnCommit registers a commit hook.
func (s *Surface) OnCommit(h CommitHook) {
	if h != nil {
		s.hooks = append(s.hooks, h)
	}
}

// PointerDown begins a gesture or an insertion at a viewport point.
func (s *Surface) PointerDown(screen geom.Pt) {
	p := viewport.ToLogical(screen, s.params())
	switch s.tool {
	case ToolSelect:
		s.selectDown(p)
	case ToolPen:
		s.pendingStroke = entity.NewStroke(p, s.pen.Color, s.pen.Width, "pen")
	case ToolShape:
		s.shapeAnchor = p
		s.shapeActive = true
		s.pendingShape = nil
	}
}

// PointerMove advances the active gesture or insertion.
func (s *Surface) PointerMove(screen geom.Pt) {
	p := viewport.ToLogical(screen, s.params())
	switch {
	case s.ctrl.Active():
		s.ctrl.Move(p)
	case s.pendingStroke != nil:
		s.pendingStroke.Append(p)
	case s.shapeActive:
		s.pendingShape = s.previewShape(p)
	}
}

// PointerUp ends the interaction. Manipulation gestures always commit; shape
// insertion reports ErrBelowMinimum when the drawn diagonal is too small and
// the shape is discarded.
func (s *Surface) PointerUp(screen geom.Pt) error {
	p := viewport.ToLogical(screen, s.params())
	switch {
	case s.ctrl.Active():
		s.ctrl.End()
	case s.pendingStroke != nil:
		st := s.pendingStroke
		s.pendingStroke = nil
		s.finishStroke(st)
	case s.shapeActive:
		s.shapeActive = false
		s.pendingShape = nil
		return s.finishShape(p)
	}
	return nil
}

// selectDown resolves a pointer-down in select mode: grab a handle of the
// current selection, else hit-test and start a drag, else clear.
func (s *Surface) selectDown(p geom.Pt) {
	if ref, ok := s.sel.Current(); ok {
		if target := s.find(ref); target != nil {
			if h, onHandle := manip.HandleAt(target, p); onHandle {
				s.beginGesture(target, h, p)
				return
			}
		}
	}
	// shapes take precedence over text, images and strokes when several
	// kinds claim the same point
	if sh, ok := hittest.Shapes(s.shapes, p); ok {
		s.sel.Select(entity.KindShape, sh.ID)
		s.beginGesture(sh, manip.HandleNone, p)
		return
	}
	if tx, ok := hittest.Texts(s.texts, p); ok {
		s.sel.Select(entity.KindText, tx.ID)
		s.beginGesture(tx, manip.HandleNone, p)
		return
	}
	if im, ok := hittest.Images(s.images, p); ok {
		s.sel.Select(entity.KindImage, im.ID)
		s.beginGesture(im, manip.HandleNone, p)
		return
	}
	if st, ok := hittest.Strokes(s.strokes, p); ok {
		s.sel.Select(entity.KindStroke, st.ID)
		s.beginGesture(st, manip.HandleNone, p)
		return
	}
	s.sel.Clear()
}

// beginGesture starts the controller on a target. Strokes live in the raster
// once committed, so a stroke target is rebuilt out of the buffer for the
// duration of the gesture and replayed through the vector pass instead.
func (s *Surface) beginGesture(target entity.Manipulable, h manip.Handle, p geom.Pt) {
	s.ctrl.Begin(target, h, p)
	if !s.ctrl.Active() {
		return
	}
	if st, ok := target.(*entity.Stroke); ok {
		s.gestureStroke = st
		s.rebuildRaster()
	}
}

// HitTest returns the topmost entity at a logical point using the same
// cross-kind priority as pointer selection.
func (s *Surface) HitTest(p geom.Pt) (selection.Ref, bool) {
	if sh, ok := hittest.Shapes(s.shapes, p); ok {
		return selection.Ref{Kind: entity.KindShape, ID: sh.ID}, true
	}
	if tx, ok := hittest.Texts(s.texts, p); ok {
		return selection.Ref{Kind: entity.KindText, ID: tx.ID}, true
	}
	if im, ok := hittest.Images(s.images, p); ok {
		return selection.Ref{Kind: entity.KindImage, ID: im.ID}, true
	}
	if st, ok := hittest.Strokes(s.strokes, p); ok {
		return selection.Ref{Kind: entity.KindStroke, ID: st.ID}, true
	}
	return selection.Ref{}, false
}

// Undo restores the previous snapshot. No-op at the beginning of history.
func (s *Surface) Undo() bool {
	snap, ok := s.hist.Undo()
	if !ok {
		return false
	}
	s.restore(snap)
	return true
}

// Redo restores the next snapshot if an undone future exists.
func (s *Surface) Redo() bool {
	snap, ok := s.hist.Redo()
	if !ok {
		return false
	}
	s.restore(snap)
	return true
}

func (s *Surface) CanUndo() bool { return s.hist.CanUndo() }
func (s *Surface) CanRedo() bool { return s.hist.CanRedo() }

// GestureActive reports whether a manipulation gesture is in flight. The view
// layer uses it to tell a background pan from an entity drag.
func (s *Surface) GestureActive() bool { return s.ctrl.Active() }

// Size returns the surface pixel dimensions.
func (s *Surface) Size() (int, int) { return s.w, s.h }

// History exposes the store for diagnostics and durable persistence.
func (s *Surface) History() *history.Store { return s.hist }

// RasterImage exposes the committed pixel buffer for export and previews.
func (s *Surface) RasterImage() *stdimage.RGBA { return s.buf.Image() }

// Strokes returns the stroke collection in insertion order. The slice is a
// copy; the entities are live.
func (s *Surface) Strokes() []*entity.Stroke { return append([]*entity.Stroke(nil), s.strokes...) }
func (s *Surface) Shapes() []*entity.Shape   { return append([]*entity.Shape(nil), s.shapes...) }
func (s *Surface) Texts() []*entity.Text     { return append([]*entity.Text(nil), s.texts...) }
func (s *Surface) Images() []*entity.Image   { return append([]*entity.Image(nil), s.images...) }

// Redraw clears and replays the full pipeline: background, committed raster,
// vector entities bottom-to-top, pending previews, selection chrome.
func (s *Surface) Redraw(r Renderer) {
	r.Clear(s.background)
	r.Raster(s.buf.Image())
	for _, m := range s.images {
		r.Image(m)
	}
	for _, t := range s.texts {
		r.Text(t)
	}
	for _, sh := range s.shapes {
		r.Shape(sh)
	}
	if s.gestureStroke != nil {
		r.Stroke(s.gestureStroke)
	}
	if s.pendingStroke != nil {
		r.Stroke(s.pendingStroke)
	}
	if s.pendingShape != nil {
		r.Shape(s.pendingShape)
	}
	if ref, ok := s.sel.Current(); ok {
		if target := s.find(ref); target != nil {
			r.Selection(target, manip.Handles(target))
		}
	}
}

func (s *Surface) find(ref selection.Ref) entity.Manipulable {
	switch ref.Kind {
	case entity.KindStroke:
		for _, e := range s.strokes {
			if e.ID == ref.ID {
				return e
			}
		}
	case entity.KindShape:
		for _, e := range s.shapes {
			if e.ID == ref.ID {
				return e
			}
		}
	case entity.KindText:
		for _, e := range s.texts {
			if e.ID == ref.ID {
				return e
			}
		}
	case entity.KindImage:
		for _, e := range s.images {
			if e.ID == ref.ID {
				return e
			}
		}
	}
	return nil
}

// rebuildRaster clears the buffer and replays every committed stroke. Needed
// whenever a stroke is mutated or removed, since strokes live in the raster.
// The gesture-target stroke, if any, is skipped; it renders vector-side until
// the gesture commits.
func (s *Surface) rebuildRaster() {
	s.buf.Clear(color.White)
	for _, st := range s.strokes {
		if st == s.gestureStroke {
			continue
		}
		s.buf.DrawPolyline(st.Points, st.Color, st.Width)
	}
}

// commitState snapshots the raster and vector collections into history and
// fires the commit hooks.
func (s *Surface) commitState() {
	vs := vectorState{}
	for _, e := range s.strokes {
		vs.Strokes = append(vs.Strokes, *e)
	}
	for _, e := range s.shapes {
		vs.Shapes = append(vs.Shapes, *e)
	}
	for _, e := range s.texts {
		vs.Texts = append(vs.Texts, *e)
	}
	for _, e := range s.images {
		vs.Images = append(vs.Images, *e)
	}
	vec, err := json.Marshal(vs)
	if err != nil {
		vec = nil
	}
	s.hist.Commit(s.buf.Snapshot(), vec)
	for _, h := range s.hooks {
		h()
	}
}

// restore rebuilds the surface from a snapshot: pixels bit-identical, vector
// collections decoded, image pixel sources reattached by ID.
func (s *Surface) restore(snap history.Snapshot) {
	_ = s.buf.Restore(snap.Raster)
	var vs vectorState
	if len(snap.Vector) > 0 {
		_ = json.Unmarshal(snap.Vector, &vs)
	}
	s.strokes = s.strokes[:0]
	s.shapes = s.shapes[:0]
	s.texts = s.texts[:0]
	s.images = s.images[:0]
	for i := range vs.Strokes {
		s.strokes = append(s.strokes, &vs.Strokes[i])
	}
	for i := range vs.Shapes {
		s.shapes = append(s.shapes, &vs.Shapes[i])
	}
	for i := range vs.Texts {
		s.texts = append(s.texts, &vs.Texts[i])
	}
	for i := range vs.Images {
		im := &vs.Images[i]
		im.Pix = s.pixSources[im.ID]
		s.images = append(s.images, im)
	}
	// the restored state may no longer contain the selected entity
	if ref, ok := s.sel.Current(); ok && s.find(ref) == nil {
		s.sel.Clear()
	}
}
