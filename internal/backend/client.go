/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a minimal HTTP client for the board library API.
// The desktop app uses it behind a feature flag to list, pull and push boards.
type Client struct {
	BaseURL string
	Token   string // bearer token
	client  *http.Client
}

// NewClient creates a new backend client. baseURL may include a trailing slash; it will be normalized.
func NewClient(baseURL string, token string) *Client {
	b := strings.TrimRight(baseURL, "/")
	return &Client{
		BaseURL: b,
		Token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) doJSON(ctx context.Context, method, path string, body []byte, dest any) error {
	u, err := url.Parse(c.BaseURL + path)
	if err != nil {
		return err
	}
	var rd *bytes.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	} else {
		rd = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("server %s %s: %s", method, u.Path, resp.Status)
	}
	if dest == nil {
		return nil
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	return dec.Decode(dest)
}

// Board is a minimal projection for listing.
type Board struct {
	ID        int64     `json:"id"`
	StableID  string    `json:"stable_id"`
	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int64     `json:"version"`
}

// BoardEnvelope is the server response when pulling a board: the listing
// projection plus the raw manifest JSON.
type BoardEnvelope struct {
	ID        int64           `json:"id"`
	StableID  string          `json:"stable_id"`
	Name      string          `json:"name"`
	UpdatedAt time.Time       `json:"updated_at"`
	Version   int64           `json:"version"`
	Manifest  json.RawMessage `json:"manifest"`
}

// PushRequest is the body for pushing a board manifest into the library.
type PushRequest struct {
	StableID string          `json:"stable_id"`
	Manifest json.RawMessage `json:"manifest"`
}

// PushResult reports the stored identity after a push.
type PushResult struct {
	ID      int64 `json:"id"`
	Version int64 `json:"version"`
}

// ListBoards returns available boards.
func (c *Client) ListBoards(ctx context.Context) ([]Board, error) {
	var list []Board
	if err := c.doJSON(ctx, http.MethodGet, "/api/boards", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// PullBoard fetches the latest manifest for a board.
func (c *Client) PullBoard(ctx context.Context, boardID int64) (*BoardEnvelope, error) {
	var env BoardEnvelope
	path := fmt.Sprintf("/api/boards/%d", boardID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// PushBoard uploads a manifest under the given stable id, creating or
// replacing the library copy.
func (c *Client) PushBoard(ctx context.Context, stableID string, manifest []byte) (*PushResult, error) {
	body, err := json.Marshal(PushRequest{StableID: stableID, Manifest: manifest})
	if err != nil {
		return nil, err
	}
	var res PushResult
	if err := c.doJSON(ctx, http.MethodPost, "/api/boards", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
