package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "validation_config.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestStoreLoadsValidConfig(t *testing.T) {
	path := writeConfig(t, `{
		"phone_validation": {"valid_phones": ["89001112233"]},
		"amount_validation": {"valid_amounts": [250.0]},
		"validation": {"min_confidence": 70}
	}`)

	store := NewStore(path, discardLogger())
	snap, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(snap.Rules) == 0 {
		t.Fatal("loaded config should synthesize rules")
	}
	if got := snap.Document.MinConfidence(); got != 70 {
		t.Errorf("min confidence = %v, want 70", got)
	}
	if snap.Rules[0].ValidPhones[0] != "79001112233" {
		t.Errorf("phone not normalized at load: %v", snap.Rules[0].ValidPhones)
	}
	if store.Current() != snap {
		t.Error("Current should return the freshly installed snapshot")
	}
}

func TestStoreFallsBackOnMissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "nope.json"), discardLogger())
	snap, err := store.Load()
	if err == nil {
		t.Fatal("missing file should surface an error")
	}
	if snap == nil || len(snap.Rules) == 0 {
		t.Fatal("fallback snapshot should carry the default rules")
	}
	def := DefaultDocument()
	if len(snap.Rules) != len(def.EffectiveRules()) {
		t.Errorf("fallback rules = %d, want defaults %d", len(snap.Rules), len(def.EffectiveRules()))
	}
}

func TestStoreFallsBackOnSchemaViolation(t *testing.T) {
	path := writeConfig(t, `{"account_validation": {"valid_accounts": ["123"]}}`)

	store := NewStore(path, discardLogger())
	if _, err := store.Load(); err == nil {
		t.Fatal("schema violation should surface an error")
	}
	def := DefaultDocument()
	if got := store.Current().Document.MinConfidence(); got != def.MinConfidence() {
		t.Errorf("fallback should keep defaults, min confidence = %v", got)
	}
}

func TestStoreReloadSwapsSnapshot(t *testing.T) {
	path := writeConfig(t, `{"validation": {"min_confidence": 60}}`)

	store := NewStore(path, discardLogger())
	first, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if err := os.WriteFile(path, []byte(`{"validation": {"min_confidence": 80}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	second, err := store.Reload()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}

	if got := second.Document.MinConfidence(); got != 80 {
		t.Errorf("reloaded min confidence = %v, want 80", got)
	}
	// The old snapshot is immutable; holders keep seeing its values.
	if got := first.Document.MinConfidence(); got != 60 {
		t.Errorf("old snapshot changed: min confidence = %v, want 60", got)
	}
}
