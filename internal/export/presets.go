/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0
 */

package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"sketchboard/internal/storage"
)

// PresetName represents a named export preset.
type PresetName string

const (
	PresetWeb   PresetName = "web"
	PresetPrint PresetName = "print"
)

// BatchOptions controls batch export across multiple formats and pages.
//
// Path semantics:
//   - If OutDir is empty or relative, it is created under <board>/exports/<preset>/.
//   - PDF produces a single board.pdf in OutDir.
//   - PNG/SVG per-page outputs land in subfolders png/ or svg/ inside OutDir.
//
//nolint:revive // keep fields explicit for clarity
type BatchOptions struct {
	Preset        PresetName
	Formats       []string // allowed: pdf, png, svg; empty means preset defaults
	Pages         []int    // zero-based indices; empty means all pages
	ScaleOverride float64  // when > 0 overrides the preset's PNG scale
	OutDir        string   // base directory for outputs (created per preset if relative)
}

// BatchExport runs exports according to the given preset.
func BatchExport(bh *storage.BoardHandle, opt BatchOptions) error {
	if bh == nil || bh.Board == nil {
		return fmt.Errorf("board handle is nil")
	}
	if len(bh.Board.Pages) == 0 {
		return fmt.Errorf("board has no pages")
	}

	formats := opt.Formats
	if len(formats) == 0 {
		formats = presetDefaultFormats(opt.Preset)
	}
	for i := range formats {
		formats[i] = strings.ToLower(strings.TrimSpace(formats[i]))
	}

	baseOut := opt.OutDir
	if baseOut == "" {
		baseOut = string(opt.Preset)
	}
	if !filepath.IsAbs(baseOut) {
		baseOut = filepath.Join(bh.Root, "exports", baseOut)
	}

	scale := presetPNGScale(opt.Preset)
	if opt.ScaleOverride > 0 {
		scale = opt.ScaleOverride
	}

	for _, f := range formats {
		switch f {
		case "pdf":
			out := filepath.Join(baseOut, "board.pdf")
			if err := ExportBoardPDF(bh, out, PDFOptions{Pages: opt.Pages}); err != nil {
				return fmt.Errorf("pdf: %w", err)
			}
		case "png":
			outDir := filepath.Join(baseOut, "png")
			if err := ExportBoardPNGPages(bh, outDir, PNGOptions{Scale: scale, Pages: opt.Pages}); err != nil {
				return fmt.Errorf("png: %w", err)
			}
		case "svg":
			outDir := filepath.Join(baseOut, "svg")
			if err := ExportBoardSVGPages(bh, outDir, SVGOptions{Pages: opt.Pages}); err != nil {
				return fmt.Errorf("svg: %w", err)
			}
		default:
			return fmt.Errorf("unknown format: %s", f)
		}
	}
	return nil
}

func presetDefaultFormats(p PresetName) []string {
	switch p {
	case PresetWeb:
		return []string{"png", "svg"}
	case PresetPrint:
		return []string{"pdf", "png"}
	default:
		return []string{"pdf"}
	}
}

// presetPNGScale maps a preset to output pixels per logical unit.
func presetPNGScale(p PresetName) float64 {
	switch p {
	case PresetPrint:
		return 2
	default:
		return 1
	}
}
