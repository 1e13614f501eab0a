/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"sketchboard/internal/document"
)

func TestInitBoardScaffoldsAndSaves(t *testing.T) {
	root := t.TempDir()
	bh, err := InitBoard(root, document.New("Test Board"))
	if err != nil {
		t.Fatalf("InitBoard: %v", err)
	}
	for _, d := range standardSubDirs {
		if st, err := os.Stat(filepath.Join(root, d)); err != nil || !st.IsDir() {
			t.Fatalf("missing subdir %s: %v", d, err)
		}
	}
	if _, err := os.Stat(bh.ManifestPath); err != nil {
		t.Fatalf("manifest not written: %v", err)
	}
}

func TestOpenRoundTrip(t *testing.T) {
	root := t.TempDir()
	b := document.New("Round Trip")
	b.AddPage()
	if _, err := InitBoard(root, b); err != nil {
		t.Fatalf("InitBoard: %v", err)
	}
	bh, err := Open(root)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if bh.Board.Name != "Round Trip" || len(bh.Board.Pages) != 2 {
		t.Fatalf("board content lost: %s, %d pages", bh.Board.Name, len(bh.Board.Pages))
	}
}

func TestSaveCreatesBackup(t *testing.T) {
	root := t.TempDir()
	bh, err := InitBoard(root, document.New("Backups"))
	if err != nil {
		t.Fatalf("InitBoard: %v", err)
	}
	// second save must back up the first manifest
	bh.Board.Name = "Backups v2"
	if err := Save(bh); err != nil {
		t.Fatalf("Save: %v", err)
	}
	ents, err := os.ReadDir(filepath.Join(root, BackupsDirName))
	if err != nil {
		t.Fatalf("read backups: %v", err)
	}
	if len(ents) == 0 {
		t.Fatalf("expected at least one backup file")
	}
}

func TestOpenFallsBackToBackup(t *testing.T) {
	root := t.TempDir()
	bh, err := InitBoard(root, document.New("Recover Me"))
	if err != nil {
		t.Fatalf("InitBoard: %v", err)
	}
	bh.Board.Name = "Recover Me v2"
	// backups are stamped per second; force distinct content then corrupt
	time.Sleep(1100 * time.Millisecond)
	if err := Save(bh); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := os.WriteFile(bh.ManifestPath, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("corrupt manifest: %v", err)
	}
	got, err := Open(root)
	if err != nil {
		t.Fatalf("Open should recover from backup: %v", err)
	}
	if got.Board.Name == "" {
		t.Fatalf("recovered board is empty")
	}
}

func TestSaveAsMovesRoot(t *testing.T) {
	root := t.TempDir()
	bh, err := InitBoard(root, document.New("Mover"))
	if err != nil {
		t.Fatalf("InitBoard: %v", err)
	}
	newRoot := filepath.Join(t.TempDir(), "moved")
	if err := SaveAs(bh, newRoot); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	if bh.Root != newRoot {
		t.Fatalf("handle root not updated: %s", bh.Root)
	}
	if _, err := os.Stat(filepath.Join(newRoot, BoardFileName)); err != nil {
		t.Fatalf("manifest missing at new root: %v", err)
	}
}

func TestOpenMissingBoard(t *testing.T) {
	if _, err := Open(t.TempDir()); err == nil {
		t.Fatalf("expected error for missing board")
	}
}
