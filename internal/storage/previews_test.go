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
	"testing"
)

func TestPutAndGetPreview(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()
	blob := []byte("png-bytes")
	if err := PutPreview(ctx, root, 1, 128, 96, blob); err != nil {
		t.Fatalf("PutPreview: %v", err)
	}
	got, err := GetPreview(ctx, root, 1, 128, 96)
	if err != nil {
		t.Fatalf("GetPreview: %v", err)
	}
	if !bytes.Equal(got, blob) {
		t.Fatalf("preview round trip mismatch")
	}
	if miss, err := GetPreview(ctx, root, 1, 64, 48); err != nil || miss != nil {
		t.Fatalf("expected miss for other size, got %v err=%v", miss, err)
	}
}

func TestPutPreviewUpserts(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()
	if err := PutPreview(ctx, root, 1, 128, 96, []byte("v1")); err != nil {
		t.Fatalf("PutPreview: %v", err)
	}
	if err := PutPreview(ctx, root, 1, 128, 96, []byte("v2")); err != nil {
		t.Fatalf("PutPreview upsert: %v", err)
	}
	got, err := GetPreview(ctx, root, 1, 128, 96)
	if err != nil || !bytes.Equal(got, []byte("v2")) {
		t.Fatalf("upsert not applied: %q err=%v", got, err)
	}
}

func TestGetOrCreatePreviewGenerates(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()
	calls := 0
	gen := func(context.Context) ([]byte, error) {
		calls++
		return []byte("generated"), nil
	}
	b, err := GetOrCreatePreview(ctx, root, 2, 64, 64, gen)
	if err != nil || !bytes.Equal(b, []byte("generated")) {
		t.Fatalf("generate failed: %q err=%v", b, err)
	}
	// second call is a cache hit
	b, err = GetOrCreatePreview(ctx, root, 2, 64, 64, gen)
	if err != nil || !bytes.Equal(b, []byte("generated")) {
		t.Fatalf("cached fetch failed: %q err=%v", b, err)
	}
	if calls != 1 {
		t.Fatalf("generator should run once, ran %d times", calls)
	}
}

func TestPreviewEvictionRespectsCap(t *testing.T) {
	t.Setenv("SKB_PREVIEWS_MAX_BYTES", "64")
	root := t.TempDir()
	ctx := context.Background()
	big := bytes.Repeat([]byte("x"), 48)
	if err := PutPreview(ctx, root, 1, 10, 10, big); err != nil {
		t.Fatalf("PutPreview 1: %v", err)
	}
	if err := PutPreview(ctx, root, 2, 10, 10, big); err != nil {
		t.Fatalf("PutPreview 2: %v", err)
	}
	total, err := TotalPreviewBytes(ctx, root)
	if err != nil {
		t.Fatalf("TotalPreviewBytes: %v", err)
	}
	if total > 64 {
		t.Fatalf("cache exceeds cap after eviction: %d bytes", total)
	}
}

func TestMaxPreviewsBytesFromEnv(t *testing.T) {
	t.Setenv("SKB_PREVIEWS_MAX_BYTES", "1234")
	if v := MaxPreviewsBytesFromEnv(); v != 1234 {
		t.Fatalf("env cap not honored: %d", v)
	}
	t.Setenv("SKB_PREVIEWS_MAX_BYTES", "garbage")
	if v := MaxPreviewsBytesFromEnv(); v != 256*1024*1024 {
		t.Fatalf("invalid env should fall back to default, got %d", v)
	}
}
