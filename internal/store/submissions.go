package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/strokerisk/strokerisk/internal/assessment"
)

// DefaultSlot is the slot name holding the assessment records.
const DefaultSlot = "strokeSubmissions"

// Port is the storage seam used by the submission flow, screens and
// commands. Implementations must persist every mutation before returning.
type Port interface {
	// Load reads the durable record set into memory and returns it
	// newest-first. Missing or corrupt data yields an empty set.
	Load(ctx context.Context) ([]assessment.Record, error)

	// Append inserts r at the head and persists the full sequence.
	Append(ctx context.Context, r assessment.Record) error

	// Clear removes every record and persists the empty state.
	Clear(ctx context.Context) error

	// All returns the current in-memory view, newest-first.
	All() []assessment.Record
}

// CorruptionError reports unreadable durable data. Load recovers from it by
// treating the store as empty.
type CorruptionError struct {
	Slot string
	Err  error
}

func (e *CorruptionError) Error() string {
	return fmt.Sprintf("storage corruption in slot %q: %v", e.Slot, e.Err)
}

func (e *CorruptionError) Unwrap() error { return e.Err }

// SubmissionStore is the Port implementation over a SlotBackend. The whole
// record sequence is serialized as one JSON array and written on every
// mutation.
type SubmissionStore struct {
	mu      sync.Mutex
	backend SlotBackend
	slot    string
	logger  *zap.Logger
	records []assessment.Record
	onSize  func(int)

	// lastCorruption is kept so callers can surface a notice after Load.
	lastCorruption *CorruptionError
}

var _ Port = (*SubmissionStore)(nil)

// Option configures a SubmissionStore.
type Option func(*SubmissionStore)

// WithSlot overrides the slot name.
func WithSlot(name string) Option {
	return func(s *SubmissionStore) {
		if name != "" {
			s.slot = name
		}
	}
}

// WithLogger sets the logger used for corruption warnings.
func WithLogger(l *zap.Logger) Option {
	return func(s *SubmissionStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// OnSizeChange registers fn to receive the record count after every Load
// and mutation. fn runs with the store locked and must not call back into it.
func OnSizeChange(fn func(n int)) Option {
	return func(s *SubmissionStore) { s.onSize = fn }
}

// NewSubmissionStore creates a store over backend. Call Load before use.
func NewSubmissionStore(backend SlotBackend, opts ...Option) *SubmissionStore {
	s := &SubmissionStore{
		backend: backend,
		slot:    DefaultSlot,
		logger:  zap.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *SubmissionStore) Load(ctx context.Context) ([]assessment.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastCorruption = nil
	data, err := s.backend.Read(ctx, s.slot)
	if errors.Is(err, ErrSlotEmpty) {
		s.records = nil
		s.sizeChanged()
		return []assessment.Record{}, nil
	}
	if err != nil {
		return nil, err
	}

	records, err := decodeRecords(data)
	if err != nil {
		cerr := &CorruptionError{Slot: s.slot, Err: err}
		s.lastCorruption = cerr
		s.logger.Warn("durable store unreadable, starting empty",
			zap.String("slot", s.slot),
			zap.Int("bytes", len(data)),
			zap.Error(cerr))
		s.records = nil
		s.sizeChanged()
		return []assessment.Record{}, nil
	}

	s.records = records
	s.sizeChanged()
	return cloneRecords(records), nil
}

func (s *SubmissionStore) Append(ctx context.Context, r assessment.Record) error {
	if err := r.Check(); err != nil {
		return fmt.Errorf("append record %s: %w", r.ID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]assessment.Record, 0, len(s.records)+1)
	next = append(next, r)
	next = append(next, s.records...)

	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.records = next
	s.sizeChanged()
	return nil
}

func (s *SubmissionStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persist(ctx, nil); err != nil {
		return err
	}
	s.records = nil
	s.sizeChanged()
	return nil
}

// Purge removes the slot from the backend entirely instead of writing an
// empty sequence. A later Load sees an empty store.
func (s *SubmissionStore) Purge(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Delete(ctx, s.slot); err != nil {
		return fmt.Errorf("delete slot %s: %w", s.slot, err)
	}
	s.records = nil
	s.lastCorruption = nil
	s.sizeChanged()
	return nil
}

func (s *SubmissionStore) All() []assessment.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneRecords(s.records)
}

// Len returns the number of records in memory.
func (s *SubmissionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Corruption returns the corruption recovered from by the last Load, or nil.
func (s *SubmissionStore) Corruption() *CorruptionError {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastCorruption
}

func (s *SubmissionStore) sizeChanged() {
	if s.onSize != nil {
		s.onSize(len(s.records))
	}
}

func (s *SubmissionStore) persist(ctx context.Context, records []assessment.Record) error {
	if records == nil {
		records = []assessment.Record{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}
	if err := s.backend.Write(ctx, s.slot, data); err != nil {
		return fmt.Errorf("persist records: %w", err)
	}
	return nil
}

// decodeRecords parses the slot and checks every record's invariants.
func decodeRecords(data []byte) ([]assessment.Record, error) {
	var records []assessment.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	for i, r := range records {
		if err := r.Check(); err != nil {
			return nil, fmt.Errorf("record %d (%s): %w", i, r.ID, err)
		}
	}
	return records, nil
}

func cloneRecords(records []assessment.Record) []assessment.Record {
	if len(records) == 0 {
		return []assessment.Record{}
	}
	out := make([]assessment.Record, len(records))
	copy(out, records)
	return out
}
