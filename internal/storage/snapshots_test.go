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
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"sketchboard/internal/document"
)

func newTestHandle(t *testing.T) *BoardHandle {
	t.Helper()
	bh, err := InitBoard(t.TempDir(), document.New("Snapshots"))
	if err != nil {
		t.Fatalf("InitBoard: %v", err)
	}
	return bh
}

func TestSaveAndGetLatestSnapshot(t *testing.T) {
	bh := newTestHandle(t)
	ctx := context.Background()

	if blob, _, err := GetLatestSnapshot(ctx, bh, 1); err != nil || blob != nil {
		t.Fatalf("expected no snapshot yet, got blob=%v err=%v", blob, err)
	}

	t0 := time.Now().Add(-time.Minute)
	if err := SaveSnapshot(ctx, bh, 1, []byte("old"), t0); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	if err := SaveSnapshot(ctx, bh, 1, []byte("new"), t0.Add(30*time.Second)); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	blob, ts, err := GetLatestSnapshot(ctx, bh, 1)
	if err != nil {
		t.Fatalf("GetLatestSnapshot: %v", err)
	}
	if !bytes.Equal(blob, []byte("new")) {
		t.Fatalf("latest blob = %q, want new", blob)
	}
	if ts.IsZero() {
		t.Fatalf("timestamp not parsed")
	}
}

func TestSnapshotsArePerPage(t *testing.T) {
	bh := newTestHandle(t)
	ctx := context.Background()
	if err := SaveSnapshot(ctx, bh, 1, []byte("page1"), time.Now()); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	blob, _, err := GetLatestSnapshot(ctx, bh, 2)
	if err != nil {
		t.Fatalf("GetLatestSnapshot: %v", err)
	}
	if blob != nil {
		t.Fatalf("page 2 must have no snapshot")
	}
}

func TestListAndPruneSnapshots(t *testing.T) {
	bh := newTestHandle(t)
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		if err := SaveSnapshot(ctx, bh, 1, []byte(fmt.Sprintf("s%d", i)), base.Add(time.Duration(i)*time.Minute)); err != nil {
			t.Fatalf("SaveSnapshot %d: %v", i, err)
		}
	}
	list, err := ListSnapshots(ctx, bh, 1, 3)
	if err != nil {
		t.Fatalf("ListSnapshots: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 listed, got %d", len(list))
	}
	if !bytes.Equal(list[0].Blob, []byte("s4")) {
		t.Fatalf("list must be newest-first, got %q", list[0].Blob)
	}

	removed, err := PruneOldSnapshots(ctx, bh, 1, 2)
	if err != nil {
		t.Fatalf("PruneOldSnapshots: %v", err)
	}
	if removed != 3 {
		t.Fatalf("expected 3 pruned, got %d", removed)
	}
	list, err = ListSnapshots(ctx, bh, 1, 10)
	if err != nil || len(list) != 2 {
		t.Fatalf("expected 2 remaining, got %d (err=%v)", len(list), err)
	}
}
