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
	"context"
	"os"
	"testing"

	"sketchboard/internal/document"
)

func TestInitOrOpenIndexCreatesSchema(t *testing.T) {
	root := t.TempDir()
	db, err := InitOrOpenIndex(root)
	if err != nil {
		t.Fatalf("InitOrOpenIndex: %v", err)
	}
	defer db.Close()

	var schema int
	if err := db.QueryRow(`SELECT schema FROM version WHERE id=1`).Scan(&schema); err != nil {
		t.Fatalf("version row missing: %v", err)
	}
	if schema != schemaVersion {
		t.Fatalf("schema version = %d, want %d", schema, schemaVersion)
	}
	for _, tbl := range []string{"pages", "snapshots", "previews", "meta"} {
		var n int
		if err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, tbl).Scan(&n); err != nil || n != 1 {
			t.Fatalf("table %s missing (n=%d err=%v)", tbl, n, err)
		}
	}
}

func TestUpdateIndexPopulatesPages(t *testing.T) {
	root := t.TempDir()
	b := document.New("Indexed")
	b.AddPage()
	b.AddPage()
	if err := UpdateIndex(context.Background(), root, b); err != nil {
		t.Fatalf("UpdateIndex: %v", err)
	}
	db, err := InitOrOpenIndex(root)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM pages`).Scan(&n); err != nil {
		t.Fatalf("count pages: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 page rows, got %d", n)
	}
}

func TestDetectAndRebuildOnCorruption(t *testing.T) {
	root := t.TempDir()
	b := document.New("Corrupt")
	if err := UpdateIndex(context.Background(), root, b); err != nil {
		t.Fatalf("UpdateIndex: %v", err)
	}
	// Truncate the database file to simulate corruption
	if err := os.WriteFile(IndexPath(root), []byte("garbage"), 0o644); err != nil {
		t.Fatalf("corrupt index: %v", err)
	}
	rebuilt, err := DetectAndRebuildIndex(context.Background(), root, b)
	if err != nil {
		t.Fatalf("DetectAndRebuildIndex: %v", err)
	}
	if !rebuilt {
		t.Fatalf("expected a rebuild on corrupted index")
	}
	db, err := InitOrOpenIndex(root)
	if err != nil {
		t.Fatalf("reopen after rebuild: %v", err)
	}
	defer db.Close()
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM pages`).Scan(&n); err != nil || n != 1 {
		t.Fatalf("rebuilt index lacks pages (n=%d err=%v)", n, err)
	}
}

func TestDetectAndRebuildHealthyIsNoop(t *testing.T) {
	root := t.TempDir()
	b := document.New("Healthy")
	if err := UpdateIndex(context.Background(), root, b); err != nil {
		t.Fatalf("UpdateIndex: %v", err)
	}
	rebuilt, err := DetectAndRebuildIndex(context.Background(), root, b)
	if err != nil {
		t.Fatalf("DetectAndRebuildIndex: %v", err)
	}
	if rebuilt {
		t.Fatalf("healthy index must not be rebuilt")
	}
}
