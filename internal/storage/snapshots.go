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
	"database/sql"
	"errors"
	"time"
)

// language=SQL
// dialect=SQLite
const insertSnapshotSQL = `INSERT INTO snapshots(page_number, ts, state_blob) VALUES (?, ?, ?)`

// language=SQL
// dialect=SQLite
const selectLatestSnapshotSQL = `SELECT ts, state_blob FROM snapshots WHERE page_number = ? ORDER BY ts DESC LIMIT 1`

// language=SQL
// dialect=SQLite
const listSnapshotsSQL = `SELECT ts, state_blob FROM snapshots WHERE page_number = ? ORDER BY ts DESC LIMIT ?`

// language=SQL
// dialect=SQLite
const pruneOldSnapshotsSQL = `DELETE FROM snapshots WHERE page_number = ? AND id NOT IN (
	SELECT id FROM snapshots WHERE page_number = ? ORDER BY ts DESC LIMIT ?
)`

// PageSnapshot is a persisted page state blob with its timestamp.
type PageSnapshot struct {
	TS   time.Time
	Blob []byte
}

// SaveSnapshot persists a page state blob with a timestamp. The blob is the
// history store's serialized step (raster plus vector bytes), durable across
// sessions.
func SaveSnapshot(ctx context.Context, bh *BoardHandle, pageNumber int, blob []byte, ts time.Time) error {
	if bh == nil {
		return errors.New("nil BoardHandle")
	}
	db, err := InitOrOpenIndex(bh.Root)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	_, err = db.ExecContext(ctx, insertSnapshotSQL, pageNumber, ts.UTC().Format(time.RFC3339Nano), blob)
	return err
}

// GetLatestSnapshot returns the latest snapshot blob for a page, or nil when
// the page has none.
func GetLatestSnapshot(ctx context.Context, bh *BoardHandle, pageNumber int) ([]byte, time.Time, error) {
	if bh == nil {
		return nil, time.Time{}, errors.New("nil BoardHandle")
	}
	db, err := InitOrOpenIndex(bh.Root)
	if err != nil {
		return nil, time.Time{}, err
	}
	defer func() { _ = db.Close() }()
	var tsStr string
	var blob []byte
	err = db.QueryRowContext(ctx, selectLatestSnapshotSQL, pageNumber).Scan(&tsStr, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, nil
	}
	if err != nil {
		return nil, time.Time{}, err
	}
	ts, err := time.Parse(time.RFC3339Nano, tsStr)
	if err != nil {
		return blob, time.Time{}, nil // return blob even if ts parse fails
	}
	return blob, ts, nil
}

// ListSnapshots returns up to limit most recent snapshots for a page.
func ListSnapshots(ctx context.Context, bh *BoardHandle, pageNumber int, limit int) ([]PageSnapshot, error) {
	if bh == nil {
		return nil, errors.New("nil BoardHandle")
	}
	if limit <= 0 {
		limit = 50
	}
	db, err := InitOrOpenIndex(bh.Root)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()
	rows, err := db.QueryContext(ctx, listSnapshotsSQL, pageNumber, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []PageSnapshot
	for rows.Next() {
		var tsStr string
		var blob []byte
		if err := rows.Scan(&tsStr, &blob); err != nil {
			return nil, err
		}
		ts, _ := time.Parse(time.RFC3339Nano, tsStr)
		out = append(out, PageSnapshot{TS: ts, Blob: blob})
	}
	return out, rows.Err()
}

// PruneOldSnapshots keeps at most keepLast snapshots for the page and
// deletes older ones, returning the number removed.
func PruneOldSnapshots(ctx context.Context, bh *BoardHandle, pageNumber int, keepLast int) (int64, error) {
	if bh == nil {
		return 0, errors.New("nil BoardHandle")
	}
	if keepLast <= 0 {
		return 0, nil
	}
	db, err := InitOrOpenIndex(bh.Root)
	if err != nil {
		return 0, err
	}
	defer func() { _ = db.Close() }()
	res, err := db.ExecContext(ctx, pruneOldSnapshotsSQL, pageNumber, pageNumber, keepLast)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
