/*
store.go - Record store backed by a single persisted blob

PURPOSE:
  Owns the ordered record snapshot for the process. Every successful append
  serializes the full snapshot as a JSON array and overwrites the blob.

APPEND CONTRACT:
  - Append(): validate preconditions, prepend, persist, then publish the new
    snapshot in memory. If the blob write fails nothing changes.
  - AppendAt(): same, but only if the caller's version is still current.
  - NO Update() or Delete() methods exist.

PRECONDITIONS ENFORCED ON APPEND:
  - id present and not already in the snapshot
  - isVerified == true
  - quantity >= 1
  Catalog membership is NOT checked here; IssueForm does that.

LOAD:
  Missing blob -> deterministic two-record demo seed (not written back until
  the first append). Present blob -> decoded verbatim, no migration. A decode
  failure is returned to the caller.

CONCURRENCY:
  sync.RWMutex around read-modify-persist. Snapshot() hands out copies.

SEE ALSO:
  - store/store.go: Blob contract
  - stats.go, search.go: Consumers of snapshots
*/
package ppe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/vesselflow/ppe-engine/store"
)

// DefaultBlobKey is the key the snapshot is persisted under.
const DefaultBlobKey = "vessel_ppe_records"

// Store holds the current record snapshot, most recent first.
type Store struct {
	blob store.Blob
	key  string
	now  func() time.Time

	mu      sync.RWMutex
	records []Record
	ids     map[string]struct{}
	version uint64
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithBlobKey overrides DefaultBlobKey.
func WithBlobKey(key string) StoreOption {
	return func(s *Store) { s.key = key }
}

// WithClock sets the clock used for the demo seed.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// NewStore creates an empty store over blob. Call Load before use.
func NewStore(blob store.Blob, opts ...StoreOption) *Store {
	s := &Store{
		blob: blob,
		key:  DefaultBlobKey,
		now:  time.Now,
		ids:  make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory snapshot with the persisted one, or with the
// demo seed when nothing has been persisted yet.
func (s *Store) Load(ctx context.Context) error {
	data, err := s.blob.Get(ctx, s.key)
	var records []Record
	switch {
	case errors.Is(err, store.ErrNotFound):
		records = SeedRecords(s.now())
	case err != nil:
		return fmt.Errorf("failed to read %s blob: %w", s.key, err)
	default:
		if err := json.Unmarshal(data, &records); err != nil {
			return fmt.Errorf("failed to decode %s blob: %w", s.key, err)
		}
	}

	ids := make(map[string]struct{}, len(records))
	for _, r := range records {
		ids[r.ID] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = records
	s.ids = ids
	s.version++
	return nil
}

// Append prepends r and persists the whole snapshot.
func (s *Store) Append(ctx context.Context, r Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendLocked(ctx, r)
}

// AppendAt is Append guarded by a version check. It fails with
// ErrConcurrentModification when version is stale.
func (s *Store) AppendAt(ctx context.Context, version uint64, r Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if version != s.version {
		return fmt.Errorf("expected version %d, current %d: %w", version, s.version, ErrConcurrentModification)
	}
	return s.appendLocked(ctx, r)
}

func (s *Store) appendLocked(ctx context.Context, r Record) error {
	if err := r.checkAcceptable(); err != nil {
		return err
	}
	if _, exists := s.ids[r.ID]; exists {
		return &DuplicateRecordError{ID: r.ID}
	}

	next := make([]Record, 0, len(s.records)+1)
	next = append(next, r)
	next = append(next, s.records...)

	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := s.blob.Put(ctx, s.key, data); err != nil {
		return fmt.Errorf("failed to persist snapshot: %w", err)
	}

	s.records = next
	s.ids[r.ID] = struct{}{}
	s.version++
	return nil
}

// Snapshot returns a copy of the current records, most recent first.
func (s *Store) Snapshot() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Version increments on every successful Load or Append.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// =============================================================================
// DEMO SEED
// =============================================================================

const day = 24 * time.Hour

// SeedRecords returns the demo snapshot used when no blob exists yet.
// Timestamps are relative to now so the history view looks recent.
func SeedRecords(now time.Time) []Record {
	return []Record{
		{
			ID:            "2",
			VesselName:    "MT SEAFARER",
			RequestorName: "Jane Smith",
			Date:          "2023-11-21",
			Category:      CategoryHead,
			ItemName:      "Hard Hat",
			Size:          "Standard",
			Color:         "White",
			Quantity:      1,
			Verified:      true,
			Timestamp:     now.Add(-day).UnixMilli(),
		},
		{
			ID:            "1",
			VesselName:    "MT SEAFARER",
			RequestorName: "Erik Janssen",
			Date:          "2023-11-20",
			Category:      CategoryHand,
			ItemName:      "Impact Gloves",
			Size:          "L",
			Color:         "High-Viz Orange",
			Quantity:      2,
			Verified:      true,
			Timestamp:     now.Add(-2 * day).UnixMilli(),
		},
	}
}
