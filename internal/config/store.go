package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"

	"receiptcheck/internal/common"
	"receiptcheck/internal/entity"
)

// Snapshot is one immutable view of the loaded configuration. A reload
// produces a fresh Snapshot; an in-flight validation pass keeps using the
// one it started with.
type Snapshot struct {
	Document Document
	Rules    []entity.AcceptanceRule
}

// Store loads config documents from disk and hands out snapshots. Reload
// swaps an atomic pointer and never mutates a published snapshot.
type Store struct {
	logger *slog.Logger
	path   string
	snap   atomic.Pointer[Snapshot]
}

func NewStore(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{logger: logger, path: path}
	s.snap.Store(snapshotOf(DefaultDocument()))
	return s
}

// Current returns the active snapshot.
func (s *Store) Current() *Snapshot {
	return s.snap.Load()
}

// Load reads, schema-validates and installs the config document. A load
// failure is fatal to the load step only: the store falls back to the
// built-in defaults and validation keeps running. The returned error
// describes what went wrong for the caller's log.
func (s *Store) Load() (*Snapshot, error) {
	doc, err := s.read()
	if err != nil {
		s.logger.Warn("config.load_failed", "path", s.path, "error", err)
		def := snapshotOf(DefaultDocument())
		s.snap.Store(def)
		return def, common.NewAppError("CONFIG_LOAD", "falling back to default rules", err)
	}

	snap := snapshotOf(doc)
	s.snap.Store(snap)
	s.logger.Info("config.loaded", "path", s.path, "rules", len(snap.Rules))
	return snap, nil
}

// Reload is Load under its hot-reload name: callers holding an older
// snapshot are unaffected.
func (s *Store) Reload() (*Snapshot, error) {
	return s.Load()
}

func (s *Store) read() (Document, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return Document{}, fmt.Errorf("read config: %w", err)
	}
	if err := ValidateJSONAgainstSchema(BuildConfigJSONSchema(), raw); err != nil {
		return Document{}, fmt.Errorf("validate config: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Document{}, fmt.Errorf("decode config: %w", err)
	}
	return doc, nil
}

func snapshotOf(doc Document) *Snapshot {
	return &Snapshot{
		Document: doc,
		Rules:    doc.EffectiveRules(),
	}
}
