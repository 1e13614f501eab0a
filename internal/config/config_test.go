/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"os"
	"testing"
)

// fakeKeyring keeps tokens in memory so tests never touch the OS keychain.
type fakeKeyring struct {
	items map[string]string
}

func (f *fakeKeyring) key(service, key string) string { return service + "/" + key }

func (f *fakeKeyring) Get(service, key string) (string, error) {
	v, ok := f.items[f.key(service, key)]
	if !ok {
		return "", errors.New("not found")
	}
	return v, nil
}

func (f *fakeKeyring) Set(service, key, value string) error {
	if f.items == nil {
		f.items = map[string]string{}
	}
	f.items[f.key(service, key)] = value
	return nil
}

func (f *fakeKeyring) Delete(service, key string) error {
	delete(f.items, f.key(service, key))
	return nil
}

func withFakeKeyring(t *testing.T) *fakeKeyring {
	t.Helper()
	fk := &fakeKeyring{}
	old := tokenStore
	tokenStore = fk
	t.Cleanup(func() { tokenStore = old })
	return fk
}

func TestEnvOverridesBackendURL(t *testing.T) {
	withFakeKeyring(t)
	t.Setenv(EnvBackendURL, "https://example.test:8443")
	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got, want := cfg.Backend.BaseURL, "https://example.test:8443"; got != want {
		t.Fatalf("Backend.BaseURL = %q, want %q", got, want)
	}
}

func TestEnvOverridesTelemetry(t *testing.T) {
	withFakeKeyring(t)
	t.Setenv(EnvTelemetryOptIn, "true")
	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !cfg.General.TelemetryOptIn {
		t.Fatalf("General.TelemetryOptIn expected true from env override")
	}
}

func TestMergeIncludesEnableServer(t *testing.T) {
	// Given a file config that sets enable_server, mergeInto should carry it through
	dst := Defaults()
	src := Defaults()
	src.General.EnableServer = true
	mergeInto(&dst, &src)
	if !dst.General.EnableServer {
		t.Fatalf("EnableServer was not merged from file config")
	}
}

func TestMergeIncludesBoardDefaults(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Board.PageW = 2480
	src.Board.PageH = 3508
	src.Board.PenWidth = 5
	src.Board.HistoryMaxSteps = 50
	mergeInto(&dst, &src)
	if dst.Board.PageW != 2480 || dst.Board.PageH != 3508 || dst.Board.PenWidth != 5 || dst.Board.HistoryMaxSteps != 50 {
		t.Fatalf("board fields not merged correctly: %#v", dst.Board)
	}
	// zero values in the file must not wipe the defaults
	src = AppConfig{}
	dst = Defaults()
	mergeInto(&dst, &src)
	if dst.Board.PageW != Defaults().Board.PageW {
		t.Fatalf("zero board fields clobbered defaults: %#v", dst.Board)
	}
}

func TestMergeIncludesLogging(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Logging.Level = "debug"
	src.Logging.Format = "json"
	src.Logging.Source = true
	src.Logging.File = "/tmp/skb.log"
	mergeInto(&dst, &src)
	if dst.Logging.Level != "debug" || dst.Logging.Format != "json" || !dst.Logging.Source || dst.Logging.File != "/tmp/skb.log" {
		t.Fatalf("logging fields not merged correctly: %#v", dst.Logging)
	}
}

func TestEnvOverridesLogging(t *testing.T) {
	withFakeKeyring(t)
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogFormat, "json")
	t.Setenv(EnvLogSource, "1")
	t.Setenv(EnvLogFile, "/tmp/skb-env.log")
	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Logging.Level != "error" || cfg.Logging.Format != "json" || !cfg.Logging.Source || cfg.Logging.File != "/tmp/skb-env.log" {
		t.Fatalf("env overrides not applied to logging: %#v", cfg.Logging)
	}
}

func TestTokenRoundTripsThroughKeyring(t *testing.T) {
	fk := withFakeKeyring(t)
	t.Setenv("HOME", t.TempDir())
	if err := Save(Defaults(), "secret-token"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if got, err := fk.Get(keyringService, keyringToken); err != nil || got != "secret-token" {
		t.Fatalf("token not in keyring: %q err=%v", got, err)
	}
	_, tok, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tok != "secret-token" {
		t.Fatalf("Load token = %q, want secret-token", tok)
	}
	if err := DeleteToken(); err != nil {
		t.Fatalf("DeleteToken: %v", err)
	}
	if _, tok, _ := Load(); tok != "" {
		t.Fatalf("token survived delete: %q", tok)
	}
}

func TestEnvOverrideForReportsActiveOverrides(t *testing.T) {
	t.Setenv(EnvBackendURL, "https://x")
	if env, ok := EnvOverrideFor("backend.base_url"); !ok || env != EnvBackendURL {
		t.Fatalf("expected override for backend.base_url, got %q ok=%v", env, ok)
	}
	if _, ok := EnvOverrideFor("general.theme"); ok {
		t.Fatalf("unknown key must not report an override")
	}
}

func TestSaveWritesRestrictedFile(t *testing.T) {
	withFakeKeyring(t)
	t.Setenv("HOME", t.TempDir())
	if err := Save(Defaults(), ""); err != nil {
		t.Fatalf("Save: %v", err)
	}
	path, err := ConfigPath()
	if err != nil {
		t.Fatalf("ConfigPath: %v", err)
	}
	st, err := os.Stat(path)
	if err != nil {
		t.Fatalf("config not written: %v", err)
	}
	if st.Mode().Perm() != 0o600 {
		t.Fatalf("config file mode = %v, want 0600", st.Mode().Perm())
	}
}
