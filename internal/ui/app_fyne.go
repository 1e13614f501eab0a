//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	stdimage "image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"sketchboard/internal/backend"
	"sketchboard/internal/board"
	"sketchboard/internal/config"
	"sketchboard/internal/crash"
	"sketchboard/internal/document"
	"sketchboard/internal/entity"
	"sketchboard/internal/export"
	"sketchboard/internal/geom"
	"sketchboard/internal/history"
	applog "sketchboard/internal/log"
	"sketchboard/internal/storage"
	"sketchboard/internal/viewport"
)

// canvasDrag tracks what the current drag sequence is doing.
// dragNone: idle; dragPan: background pan; dragGesture: forwarded to the
// surface controller (move/resize/rotate/pen/shape).
type canvasDrag int

const (
	dragNone canvasDrag = iota
	dragPan
	dragGesture
)

// snapshotKeep bounds the per-page autosave snapshots kept in the index.
const snapshotKeep = 20

// BoardCanvas is the drawing widget. It owns the view transform (pan, zoom)
// and forwards pointer events to the surface; all drawing happens in the
// offscreen softRenderer whose image backs a canvas.Image.
type BoardCanvas struct {
	widget.BaseWidget
	surface *board.Surface

	zoom float64
	panX float64
	panY float64

	mode     canvasDrag
	lastDrag geom.Pt

	sr  *softRenderer
	img *canvas.Image

	// OnPlace fires for a tap with the text or image tool active, in
	// logical coordinates. The shell opens the matching dialog.
	OnPlace  func(p geom.Pt)
	OnStatus func(msg string)
}

// NewBoardCanvas wraps an existing surface. The surface's ParamsFunc must
// return this widget's ViewParams for pointer mapping to agree with drawing.
func NewBoardCanvas(s *board.Surface) *BoardCanvas {
	pw, ph := s.Size()
	bc := &BoardCanvas{
		surface: s,
		zoom:    1,
		sr:      newSoftRenderer(pw, ph, float64(pw), float64(ph)),
	}
	bc.img = canvas.NewImageFromImage(bc.sr.BufferImage())
	bc.img.FillMode = canvas.ImageFillStretch
	bc.ExtendBaseWidget(bc)
	return bc
}

func (bc *BoardCanvas) PreferredSize() fyne.Size { return fyne.NewSize(960, 640) }

// ViewParams is the current view transform. Buffer pixels equal element
// units, so event positions map through ToLogical directly.
func (bc *BoardCanvas) ViewParams() viewport.Params {
	size := bc.Size()
	w := float64(size.Width)
	h := float64(size.Height)
	if w <= 0 || h <= 0 {
		w, h = 960, 640
	}
	return viewport.Params{
		Pan:         geom.Pt{X: bc.panX, Y: bc.panY},
		Scale:       bc.zoom,
		ElementRect: geom.Rect{W: w, H: h},
		BufferSize:  geom.Size{W: w, H: h},
	}
}

func (bc *BoardCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &boardCanvasRenderer{bc: bc}
}

func (bc *BoardCanvas) redraw() {
	p := bc.ViewParams()
	bc.sr.Resize(int(p.BufferSize.W), int(p.BufferSize.H))
	bc.sr.SetParams(p)
	bc.surface.Redraw(bc.sr)
	bc.img.Image = bc.sr.BufferImage()
	bc.img.Refresh()
}

func (bc *BoardCanvas) status(msg string) {
	if bc.OnStatus != nil {
		bc.OnStatus(msg)
	}
}

func (bc *BoardCanvas) eventPoint(pos fyne.Position) geom.Pt {
	return geom.Pt{X: float64(pos.X), Y: float64(pos.Y)}
}

// Tapped resolves a click: selection for the select tool, placement dialogs
// for the text and image tools.
func (bc *BoardCanvas) Tapped(e *fyne.PointEvent) {
	logical := viewport.ToLogical(bc.eventPoint(e.Position), bc.ViewParams())
	switch bc.surface.Tool() {
	case board.ToolSelect:
		if ref, ok := bc.surface.HitTest(logical); ok {
			bc.surface.Selection().Select(ref.Kind, ref.ID)
		} else {
			bc.surface.Selection().Clear()
		}
	case board.ToolText, board.ToolImage:
		if bc.OnPlace != nil {
			bc.OnPlace(logical)
		}
	}
	bc.Refresh()
}

// Dragged starts or continues a drag. The first event decides between a
// background pan and a surface gesture by doing the pointer-down at the drag
// origin and checking whether the controller engaged.
func (bc *BoardCanvas) Dragged(e *fyne.DragEvent) {
	pos := bc.eventPoint(e.Position)
	if bc.mode == dragNone {
		start := geom.Pt{X: pos.X - float64(e.Dragged.DX), Y: pos.Y - float64(e.Dragged.DY)}
		switch bc.surface.Tool() {
		case board.ToolSelect:
			bc.surface.PointerDown(start)
			if bc.surface.GestureActive() {
				bc.mode = dragGesture
			} else {
				bc.mode = dragPan
			}
		case board.ToolPen, board.ToolShape:
			bc.surface.PointerDown(start)
			bc.mode = dragGesture
		default:
			bc.mode = dragPan
		}
	}
	switch bc.mode {
	case dragPan:
		bc.panX += float64(e.Dragged.DX)
		bc.panY += float64(e.Dragged.DY)
	case dragGesture:
		bc.surface.PointerMove(pos)
	}
	bc.lastDrag = pos
	bc.Refresh()
}

func (bc *BoardCanvas) DragEnd() {
	if bc.mode == dragGesture {
		if err := bc.surface.PointerUp(bc.lastDrag); err != nil {
			if errors.Is(err, board.ErrBelowMinimum) {
				bc.status("Too small — drag a larger area.")
			} else {
				bc.status(err.Error())
			}
		}
	}
	bc.mode = dragNone
	bc.Refresh()
}

// Scrolled zooms with the wheel. Fyne does not expose modifiers on scroll
// events, so the wheel always zooms and panning stays on drag.
func (bc *BoardCanvas) Scrolled(e *fyne.ScrollEvent) {
	bc.zoom += float64(e.Scrolled.DY) * 0.05
	if bc.zoom < 0.1 {
		bc.zoom = 0.1
	}
	if bc.zoom > 4.0 {
		bc.zoom = 4.0
	}
	bc.Refresh()
}

// boardCanvasRenderer stretches the offscreen image over the widget area and
// triggers a surface redraw on every refresh.
type boardCanvasRenderer struct {
	bc *BoardCanvas
}

func (r *boardCanvasRenderer) Destroy()                     {}
func (r *boardCanvasRenderer) Objects() []fyne.CanvasObject { return []fyne.CanvasObject{r.bc.img} }
func (r *boardCanvasRenderer) MinSize() fyne.Size           { return fyne.NewSize(320, 240) }

func (r *boardCanvasRenderer) Layout(size fyne.Size) {
	r.bc.img.Resize(size)
	r.bc.img.Move(fyne.NewPos(0, 0))
	r.bc.redraw()
}

func (r *boardCanvasRenderer) Refresh() {
	r.bc.redraw()
	canvas.Refresh(r.bc)
}

// Run starts the Fyne desktop shell. boardDir, when non-empty, is opened
// immediately.
func Run(boardDir string) error {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("ui")
	l.Info("starting UI")

	cfg, token, cfgErr := config.Load()
	if cfgErr != nil {
		l.Warn("config load failed, using defaults", slog.Any("err", cfgErr))
		cfg = config.Defaults()
	}

	var bh *storage.BoardHandle
	defer func() { crash.Recover(bh) }()

	fyneApp := app.NewWithID("sketchboard")
	w := fyneApp.NewWindow("Sketchboard")
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", 1280)
	winH := prefs.IntWithFallback("window.height", 840)
	if winW < 800 {
		winW = 800
	}
	if winH < 600 {
		winH = 600
	}
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	pageW := int(cfg.Board.PageW)
	pageH := int(cfg.Board.PageH)
	if pageW <= 0 {
		pageW = int(document.DefaultPageW)
	}
	if pageH <= 0 {
		pageH = int(document.DefaultPageH)
	}
	histCfg := history.Config{
		MaxBytes: cfg.Board.HistoryMaxBytes,
		MaxSteps: cfg.Board.HistoryMaxSteps,
	}

	var bc *BoardCanvas
	surface := board.NewSurface(pageW, pageH, func() viewport.Params {
		if bc == nil {
			return viewport.Params{}
		}
		return bc.ViewParams()
	}, histCfg)
	surface.SetPen(board.StrokeStyle{Color: entity.Black, Width: cfg.Board.PenWidth})
	bc = NewBoardCanvas(surface)

	status := widget.NewLabel("Ready")
	bc.OnStatus = func(msg string) { status.SetText(msg) }

	currentPage := 0

	// commitPage writes the live surface back into the manifest page slot.
	commitPage := func() {
		if bh == nil || bh.Board == nil {
			return
		}
		if currentPage < 0 || currentPage >= len(bh.Board.Pages) {
			return
		}
		bh.Board.Pages[currentPage] = surface.SnapshotPage(currentPage + 1)
	}

	var pageSelect *widget.Select
	refreshPageSelect := func() {
		if bh == nil || bh.Board == nil {
			pageSelect.Options = nil
			pageSelect.Refresh()
			return
		}
		opts := make([]string, 0, len(bh.Board.Pages))
		for _, pg := range bh.Board.Pages {
			opts = append(opts, fmt.Sprintf("Page %d", pg.Number))
		}
		pageSelect.Options = opts
		if currentPage >= 0 && currentPage < len(opts) {
			pageSelect.SetSelectedIndex(currentPage)
		}
		pageSelect.Refresh()
	}
	gotoPage := func(idx int) {
		if bh == nil || bh.Board == nil || idx < 0 || idx >= len(bh.Board.Pages) || idx == currentPage {
			return
		}
		commitPage()
		currentPage = idx
		surface.LoadPage(bh.Board.Pages[idx])
		bc.Refresh()
		status.SetText(fmt.Sprintf("Page %d", bh.Board.Pages[idx].Number))
	}
	pageSelect = widget.NewSelect(nil, func(string) {
		gotoPage(pageSelect.SelectedIndex())
	})
	pageSelect.PlaceHolder = "Pages"
	addPageBtn := widget.NewButton("Add Page", func() {
		if bh == nil || bh.Board == nil {
			status.SetText("Open a board first.")
			return
		}
		commitPage()
		idx := bh.Board.AddPage()
		currentPage = idx
		surface.LoadPage(bh.Board.Pages[idx])
		refreshPageSelect()
		bc.Refresh()
		status.SetText(fmt.Sprintf("Added page %d", idx+1))
	})

	// Undo/redo buttons track history enablement through the commit hook.
	var undoBtn, redoBtn *widget.Button
	syncHistoryButtons := func() {
		if surface.CanUndo() {
			undoBtn.Enable()
		} else {
			undoBtn.Disable()
		}
		if surface.CanRedo() {
			redoBtn.Enable()
		} else {
			redoBtn.Disable()
		}
	}
	undoBtn = widget.NewButton("Undo", func() {
		if surface.Undo() {
			status.SetText("Undone.")
		}
		syncHistoryButtons()
		bc.Refresh()
	})
	redoBtn = widget.NewButton("Redo", func() {
		if surface.Redo() {
			status.SetText("Redone.")
		}
		syncHistoryButtons()
		bc.Refresh()
	})
	surface.OnCommit(syncHistoryButtons)
	syncHistoryButtons()

	// Autosave each committed state into the board index so a crash or
	// forced quit loses at most the in-flight gesture.
	surface.OnCommit(func() {
		if bh == nil {
			return
		}
		blob, err := surface.StateBlob()
		if err != nil {
			return
		}
		h := bh
		page := currentPage + 1
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := storage.SaveSnapshot(ctx, h, page, blob, time.Now()); err != nil {
				l.Warn("snapshot autosave failed", slog.Any("err", err))
				return
			}
			if _, err := storage.PruneOldSnapshots(ctx, h, page, snapshotKeep); err != nil {
				l.Warn("snapshot prune failed", slog.Any("err", err))
			}
		}()
	})

	// Tool buttons
	setTool := func(t board.Tool, name string) {
		surface.SetTool(t)
		bc.Refresh()
		status.SetText(name + " tool")
	}
	selectBtn := widget.NewButton("Select", func() { setTool(board.ToolSelect, "Select") })
	penBtn := widget.NewButton("Pen", func() { setTool(board.ToolPen, "Pen") })
	shapeBtn := widget.NewButton("Shape", func() { setTool(board.ToolShape, "Shape") })
	textBtn := widget.NewButton("Text", func() { setTool(board.ToolText, "Text") })
	imageBtn := widget.NewButton("Image", func() { setTool(board.ToolImage, "Image") })

	shapeKinds := []string{"rectangle", "circle", "ellipse", "triangle", "line", "arrow"}
	shapeKindSel := widget.NewSelect(shapeKinds, func(k string) {
		surface.SetShapeKind(entity.ShapeKind(k))
	})
	shapeKindSel.SetSelected("rectangle")

	deleteBtn := widget.NewButton("Delete", func() {
		if surface.DeleteSelected() {
			status.SetText("Deleted.")
		}
		bc.Refresh()
	})
	copyBtn := widget.NewButton("Duplicate", func() {
		if surface.CopySelected() {
			status.SetText("Duplicated.")
		}
		bc.Refresh()
	})

	toolbar := container.NewHBox(
		selectBtn, penBtn, shapeBtn, shapeKindSel, textBtn, imageBtn,
		widget.NewSeparator(),
		undoBtn, redoBtn, deleteBtn, copyBtn,
		widget.NewSeparator(),
		pageSelect, addPageBtn,
	)

	// Placement dialogs for the text and image tools
	bc.OnPlace = func(p geom.Pt) {
		switch surface.Tool() {
		case board.ToolText:
			entry := widget.NewMultiLineEntry()
			entry.SetPlaceHolder("Text…")
			form := dialog.NewForm("Insert Text", "Insert", "Cancel", []*widget.FormItem{
				widget.NewFormItem("Content", entry),
			}, func(ok bool) {
				if !ok {
					return
				}
				if _, err := surface.InsertText(entry.Text, p, 16, entity.Black); err != nil {
					if errors.Is(err, board.ErrBelowMinimum) {
						status.SetText("Text is empty.")
					} else {
						dialog.ShowError(err, w)
					}
					return
				}
				bc.Refresh()
				status.SetText("Text inserted.")
			}, w)
			form.Resize(fyne.NewSize(420, 240))
			form.Show()
		case board.ToolImage:
			fd := dialog.NewFileOpen(func(rd fyne.URIReadCloser, err error) {
				if err != nil || rd == nil {
					return
				}
				defer func() { _ = rd.Close() }()
				src, _, derr := stdimage.Decode(rd)
				if derr != nil {
					dialog.ShowError(fmt.Errorf("decode image: %w", derr), w)
					return
				}
				b := src.Bounds()
				iw, ih := fitImageSize(float64(b.Dx()), float64(b.Dy()), 400)
				if _, ierr := surface.InsertImage(src, rd.URI().Path(), p, iw, ih); ierr != nil {
					dialog.ShowError(ierr, w)
					return
				}
				bc.Refresh()
				status.SetText("Image inserted.")
			}, w)
			fd.Show()
		}
	}

	loadBoard := func(h *storage.BoardHandle) {
		// look up a recovery snapshot before the load starts autosaving
		sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
		blob, ts, serr := storage.GetLatestSnapshot(sctx, h, 1)
		scancel()
		if serr != nil {
			l.Warn("snapshot lookup failed", slog.Any("err", serr))
		}

		bh = h
		if len(bh.Board.Pages) == 0 {
			bh.Board.AddPage()
		}
		currentPage = 0
		surface.LoadPage(bh.Board.Pages[0])
		if blob != nil && ts.After(bh.Board.Modified) {
			if rerr := surface.RestoreStateBlob(blob); rerr != nil {
				l.Warn("snapshot restore failed", slog.Any("err", rerr))
			} else {
				status.SetText("Recovered unsaved changes.")
			}
		}
		refreshPageSelect()
		bc.Refresh()
		w.SetTitle(fmt.Sprintf("Sketchboard — %s", bh.Board.Name))
		addRecentBoard(prefs, bh.Root)
	}

	saveBoard := func() error {
		if bh == nil {
			return fmt.Errorf("no board open")
		}
		commitPage()
		if err := storage.Save(bh); err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := storage.UpdateIndex(ctx, bh.Root, bh.Board); err != nil {
			l.Warn("index update failed", slog.Any("err", err))
		}
		return nil
	}

	// Menus
	newItem := fyne.NewMenuItem("New…", func() {
		fd := dialog.NewFolderOpen(func(uri fyne.ListableURI, err error) {
			if err != nil || uri == nil {
				return
			}
			root := uri.Path()
			nameEntry := widget.NewEntry()
			nameEntry.SetPlaceHolder("Board Name")
			form := dialog.NewForm("New Board", "Create", "Cancel", []*widget.FormItem{
				widget.NewFormItem("Name", nameEntry),
			}, func(ok bool) {
				if !ok {
					return
				}
				name := strings.TrimSpace(nameEntry.Text)
				if name == "" {
					dialog.ShowInformation("New Board", "Please enter a board name.", w)
					return
				}
				h, ierr := storage.InitBoard(root, document.New(name))
				if ierr != nil {
					l.Error("init board failed", slog.Any("err", ierr))
					dialog.ShowError(ierr, w)
					return
				}
				loadBoard(h)
				status.SetText("Created board: " + root)
			}, w)
			form.Show()
		}, w)
		fd.Show()
	})
	openItem := fyne.NewMenuItem("Open…", func() {
		fd := dialog.NewFolderOpen(func(uri fyne.ListableURI, err error) {
			if err != nil || uri == nil {
				return
			}
			h, oerr := storage.Open(uri.Path())
			if oerr != nil {
				l.Error("open board failed", slog.Any("err", oerr))
				dialog.ShowError(oerr, w)
				return
			}
			loadBoard(h)
			status.SetText("Opened board: " + uri.Path())
		}, w)
		fd.Show()
	})
	saveItem := fyne.NewMenuItem("Save", func() {
		if err := saveBoard(); err != nil {
			l.Error("save failed", slog.Any("err", err))
			dialog.ShowError(err, w)
			return
		}
		status.SetText("Board saved.")
	})
	newItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyN, Modifier: fyne.KeyModifierControl}
	openItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierControl}
	saveItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierControl}

	exportRun := func(format string) {
		if bh == nil {
			dialog.ShowInformation("Export", "No board open.", w)
			return
		}
		commitPage()
		var err error
		var dest string
		switch format {
		case "pdf":
			dest = filepath.Join(bh.Root, "exports", "board.pdf")
			err = export.ExportBoardPDF(bh, dest, export.PDFOptions{})
		case "png":
			dest = filepath.Join(bh.Root, "exports", "png")
			err = export.ExportBoardPNGPages(bh, dest, export.PNGOptions{})
		case "svg":
			dest = filepath.Join(bh.Root, "exports", "svg")
			err = export.ExportBoardSVGPages(bh, dest, export.SVGOptions{})
		}
		if err != nil {
			l.Error("export failed", slog.String("format", format), slog.Any("err", err))
			dialog.ShowError(err, w)
			return
		}
		status.SetText("Exported " + strings.ToUpper(format) + " to " + dest)
	}
	exportMenu := fyne.NewMenu("Export",
		fyne.NewMenuItem("PDF", func() { exportRun("pdf") }),
		fyne.NewMenuItem("PNG Pages", func() { exportRun("png") }),
		fyne.NewMenuItem("SVG Pages", func() { exportRun("svg") }),
	)

	fileItems := []*fyne.MenuItem{newItem, openItem, saveItem}
	if cfg.General.EnableServer {
		pushItem := fyne.NewMenuItem("Push to Library", func() {
			if bh == nil {
				dialog.ShowInformation("Library", "No board open.", w)
				return
			}
			commitPage()
			manifest, merr := bh.Board.Marshal()
			if merr != nil {
				dialog.ShowError(merr, w)
				return
			}
			client := backend.NewClient(cfg.Backend.BaseURL, token)
			go func(stableID string, blob []byte) {
				ctx, cancel := context.WithTimeout(context.Background(), cfg.Backend.EffectiveTimeout())
				defer cancel()
				res, perr := client.PushBoard(ctx, stableID, blob)
				fyne.Do(func() {
					if perr != nil {
						l.Error("push failed", slog.Any("err", perr))
						status.SetText("Push failed: " + perr.Error())
						return
					}
					status.SetText(fmt.Sprintf("Pushed to library (version %d).", res.Version))
				})
			}(filepath.Base(bh.Root), manifest)
		})
		fileItems = append(fileItems, fyne.NewMenuItemSeparator(), pushItem)
	}
	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", func() { undoBtn.OnTapped() }),
		fyne.NewMenuItem("Redo", func() { redoBtn.OnTapped() }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Delete Selected", func() { deleteBtn.OnTapped() }),
		fyne.NewMenuItem("Duplicate Selected", func() { copyBtn.OnTapped() }),
		fyne.NewMenuItem("Clear Page", func() {
			dialog.ShowConfirm("Clear Page", "Remove everything on this page?", func(ok bool) {
				if ok {
					surface.Clear()
					bc.Refresh()
					status.SetText("Page cleared.")
				}
			}, w)
		}),
	)
	w.SetMainMenu(fyne.NewMainMenu(fyne.NewMenu("File", fileItems...), editMenu, exportMenu))

	// Delete key removes the selection outside of text entry focus.
	w.Canvas().SetOnTypedKey(func(k *fyne.KeyEvent) {
		if k.Name == fyne.KeyDelete {
			if surface.DeleteSelected() {
				status.SetText("Deleted.")
				bc.Refresh()
			}
		}
	})

	content := container.NewBorder(toolbar, status, nil, nil, container.NewMax(bc))
	w.SetContent(content)

	w.SetOnClosed(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
	})

	if strings.TrimSpace(boardDir) != "" {
		if h, err := storage.Open(boardDir); err == nil {
			loadBoard(h)
			status.SetText("Opened board: " + boardDir)
		} else {
			l.Error("open board on startup failed", slog.String("dir", boardDir), slog.Any("err", err))
			status.SetText("Could not open board: " + err.Error())
		}
	}

	w.ShowAndRun()
	return nil
}

// fitImageSize shrinks natural dimensions to fit maxEdge while keeping the
// aspect ratio, never going below the image minimum.
func fitImageSize(w, h, maxEdge float64) (float64, float64) {
	if w <= 0 || h <= 0 {
		return entity.MinImageSize, entity.MinImageSize
	}
	if w > maxEdge || h > maxEdge {
		f := maxEdge / w
		if h > w {
			f = maxEdge / h
		}
		w *= f
		h *= f
	}
	if w < entity.MinImageSize {
		w = entity.MinImageSize
	}
	if h < entity.MinImageSize {
		h = entity.MinImageSize
	}
	return w, h
}

// Recent board persistence for quick reopening.
const recentPrefsKey = "recent.boards"
const recentMax = 10

func loadRecentBoards(p fyne.Preferences) []string {
	raw := p.StringWithFallback(recentPrefsKey, "")
	var items []string
	if strings.TrimSpace(raw) != "" {
		var tmp []string
		if err := json.Unmarshal([]byte(raw), &tmp); err == nil {
			items = tmp
		}
	}
	out := make([]string, 0, len(items))
	for _, s := range items {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, err := os.Stat(s); err == nil {
			out = append(out, s)
		}
	}
	return out
}

func saveRecentBoards(p fyne.Preferences, items []string) {
	if len(items) > recentMax {
		items = items[:recentMax]
	}
	b, _ := json.Marshal(items)
	p.SetString(recentPrefsKey, string(b))
}

func addRecentBoard(p fyne.Preferences, path string) {
	if strings.TrimSpace(path) == "" {
		return
	}
	abs, _ := filepath.Abs(path)
	rec := loadRecentBoards(p)
	out := make([]string, 0, 1+len(rec))
	out = append(out, abs)
	for _, s := range rec {
		if strings.EqualFold(s, abs) {
			continue
		}
		out = append(out, s)
	}
	saveRecentBoards(p, out)
}
