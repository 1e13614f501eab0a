/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"sketchboard/internal/backend"
	"sketchboard/internal/crash"
	"sketchboard/internal/document"
	"sketchboard/internal/export"
	applog "sketchboard/internal/log"
	"sketchboard/internal/storage"
	"sketchboard/internal/ui"
	"sketchboard/internal/version"
)

func usage() {
	fmt.Println("Sketchboard — interactive drawing board")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  sketchboard version|-v|--version              Show version")
	fmt.Println("  sketchboard init <dir> <name>                 Create a new board at <dir> with name <name>")
	fmt.Println("  sketchboard open <dir>                        Open board at <dir> and print summary")
	fmt.Println("  sketchboard export <dir> <pdf|png|svg|web|print>  Export the board")
	fmt.Println("  sketchboard serve                             Run the board library HTTP service")
	fmt.Println("  sketchboard ui [<dir>]                        Launch desktop UI (build with -tags fyne for full UI)")
}

func main() {
	// initialize structured logging using environment defaults
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")
	var bh *storage.BoardHandle
	defer func() { crash.Recover(bh) }()

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) > 1 {
		switch args[1] {
		case "version", "--version", "-v":
			fmt.Println("Sketchboard — interactive drawing board")
			fmt.Println(version.String())
			return
		case "init":
			if len(args) < 4 {
				fmt.Println("init requires <dir> and <name>")
				usage()
				os.Exit(2)
			}
			dir := args[2]
			name := args[3]
			abs, _ := filepath.Abs(dir)
			l.Info("init board", slog.String("root", abs), slog.String("name", name))
			h, err := storage.InitBoard(abs, document.New(name))
			if err != nil {
				l.Error("init failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			bh = h
			fmt.Println("Created board at", abs)
			return
		case "open":
			if len(args) < 3 {
				fmt.Println("open requires <dir>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			l.Info("open board", slog.String("root", abs))
			h, err := storage.Open(abs)
			if err != nil {
				l.Error("open failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			bh = h
			fmt.Printf("Opened board: %s\n", h.Board.Name)
			fmt.Printf("Pages: %d\n", len(h.Board.Pages))
			fmt.Println("Root:", h.Root)
			return
		case "export":
			if len(args) < 4 {
				fmt.Println("export requires <dir> and a format (pdf, png, svg, web, print)")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			format := args[3]
			h, err := storage.Open(abs)
			if err != nil {
				l.Error("open failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			bh = h
			l.Info("export board", slog.String("root", abs), slog.String("format", format))
			switch format {
			case "pdf":
				err = export.ExportBoardPDF(h, "board.pdf", export.PDFOptions{})
			case "png":
				err = export.ExportBoardPNGPages(h, "png", export.PNGOptions{})
			case "svg":
				err = export.ExportBoardSVGPages(h, "svg", export.SVGOptions{})
			case "web", "print":
				err = export.BatchExport(h, export.BatchOptions{Preset: export.PresetName(format)})
			default:
				fmt.Println("unknown export format:", format)
				os.Exit(2)
			}
			if err != nil {
				l.Error("export failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Println("Exported", format, "under", filepath.Join(abs, "exports"))
			return
		case "serve":
			if err := backend.Start(); err != nil {
				l.Error("server failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		case "ui":
			var dir string
			if len(args) >= 3 {
				dir = args[2]
			}
			if err := ui.Run(dir); err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		}
	}

	usage()
}
