package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/strokerisk/strokerisk/internal/assessment"
	"github.com/strokerisk/strokerisk/internal/risk"
)

func testRecord(id string, p float64) assessment.Record {
	return assessment.Record{
		ID:          id,
		Profile:     assessment.DefaultProfile(),
		Probability: p,
		Tier:        risk.DefaultThresholds().TierOf(p),
		CreatedAt:   time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

// failingSlots fails writes after the first n successful ones.
type failingSlots struct {
	*MemorySlots
	allowed int
}

func (f *failingSlots) Write(ctx context.Context, slot string, data []byte) error {
	if f.allowed <= 0 {
		return errors.New("disk full")
	}
	f.allowed--
	return f.MemorySlots.Write(ctx, slot, data)
}

func TestLoadEmpty(t *testing.T) {
	s := NewSubmissionStore(NewMemorySlots())
	got, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, s.All())
	assert.Nil(t, s.Corruption())
}

func TestAppendThenLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	backend := NewMemorySlots()

	s := NewSubmissionStore(backend)
	_, err := s.Load(ctx)
	require.NoError(t, err)

	require.NoError(t, s.Append(ctx, testRecord("r1", 0.2)))
	require.NoError(t, s.Append(ctx, testRecord("r2", 0.82)))

	// A fresh store over the same backend sees the persisted sequence.
	reloaded := NewSubmissionStore(backend)
	got, err := reloaded.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "r2", got[0].ID, "newest record first")
	assert.Equal(t, "r1", got[1].ID)
	assert.Equal(t, risk.TierHigh, got[0].Tier)
	assert.True(t, got[0].CreatedAt.Equal(testRecord("", 0).CreatedAt))
}

func TestAppendClearLoad(t *testing.T) {
	ctx := context.Background()
	backend := NewMemorySlots()
	s := NewSubmissionStore(backend)

	require.NoError(t, s.Append(ctx, testRecord("r1", 0.5)))
	require.NoError(t, s.Clear(ctx))
	assert.Empty(t, s.All())

	got, err := NewSubmissionStore(backend).Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	raw, err := backend.Read(ctx, DefaultSlot)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestPurgeDeletesSlot(t *testing.T) {
	ctx := context.Background()
	backend := NewMemorySlots()
	s := NewSubmissionStore(backend)

	require.NoError(t, s.Append(ctx, testRecord("r1", 0.5)))
	require.NoError(t, s.Purge(ctx))
	assert.Empty(t, s.All())

	_, err := backend.Read(ctx, DefaultSlot)
	assert.ErrorIs(t, err, ErrSlotEmpty)

	got, err := NewSubmissionStore(backend).Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	// Purging an already missing slot is fine.
	require.NoError(t, s.Purge(ctx))
}

func TestOnSizeChangeTracksEveryMutation(t *testing.T) {
	ctx := context.Background()
	backend := NewMemorySlots()
	var sizes []int
	s := NewSubmissionStore(backend, OnSizeChange(func(n int) { sizes = append(sizes, n) }))

	_, err := s.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Append(ctx, testRecord("r1", 0.5)))
	require.NoError(t, s.Append(ctx, testRecord("r2", 0.9)))
	require.NoError(t, s.Clear(ctx))
	require.NoError(t, s.Append(ctx, testRecord("r3", 0.1)))
	require.NoError(t, s.Purge(ctx))

	assert.Equal(t, []int{0, 1, 2, 0, 1, 0}, sizes)
}

func TestOnSizeChangeSkipsFailedWrites(t *testing.T) {
	ctx := context.Background()
	var sizes []int
	s := NewSubmissionStore(&failingSlots{MemorySlots: NewMemorySlots(), allowed: 1},
		OnSizeChange(func(n int) { sizes = append(sizes, n) }))

	require.NoError(t, s.Append(ctx, testRecord("r1", 0.5)))
	require.Error(t, s.Append(ctx, testRecord("r2", 0.5)))
	require.Error(t, s.Clear(ctx))

	assert.Equal(t, []int{1}, sizes)
}

func TestLoadCorruptIsEmpty(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zap.WarnLevel)

	for name, payload := range map[string]string{
		"garbage":         `{not json`,
		"wrong shape":     `{"id":"x"}`,
		"bad probability": `[{"id":"x","probability":1.7}]`,
	} {
		t.Run(name, func(t *testing.T) {
			backend := NewMemorySlots()
			require.NoError(t, backend.Write(ctx, DefaultSlot, []byte(payload)))

			s := NewSubmissionStore(backend, WithLogger(zap.New(core)))
			got, err := s.Load(ctx)
			require.NoError(t, err)
			assert.Empty(t, got)

			cerr := s.Corruption()
			require.NotNil(t, cerr)
			assert.Equal(t, DefaultSlot, cerr.Slot)

			// Recovers: appending overwrites the corrupt slot.
			require.NoError(t, s.Append(ctx, testRecord("ok", 0.1)))
			got, err = NewSubmissionStore(backend).Load(ctx)
			require.NoError(t, err)
			require.Len(t, got, 1)
		})
	}

	assert.Equal(t, 3, logs.FilterMessage("durable store unreadable, starting empty").Len())
}

func TestAppendRejectsInvalidProbability(t *testing.T) {
	s := NewSubmissionStore(NewMemorySlots())
	err := s.Append(context.Background(), testRecord("bad", 1.2))
	assert.True(t, errors.Is(err, risk.ErrInvalidProbability))
	assert.Empty(t, s.All())
}

func TestAppendWriteFailureKeepsMemory(t *testing.T) {
	ctx := context.Background()
	backend := &failingSlots{MemorySlots: NewMemorySlots(), allowed: 1}
	s := NewSubmissionStore(backend)

	require.NoError(t, s.Append(ctx, testRecord("r1", 0.3)))
	err := s.Append(ctx, testRecord("r2", 0.3))
	require.Error(t, err)

	all := s.All()
	require.Len(t, all, 1)
	assert.Equal(t, "r1", all[0].ID)

	require.Error(t, s.Clear(ctx))
	assert.Len(t, s.All(), 1, "failed clear must not drop records")
}

func TestLoadBackendError(t *testing.T) {
	s := NewSubmissionStore(errSlots{})
	_, err := s.Load(context.Background())
	assert.Error(t, err)
}

type errSlots struct{}

func (errSlots) Read(context.Context, string) ([]byte, error) { return nil, errors.New("io") }
func (errSlots) Write(context.Context, string, []byte) error  { return errors.New("io") }
func (errSlots) Delete(context.Context, string) error         { return errors.New("io") }

func TestAllReturnsCopy(t *testing.T) {
	s := NewSubmissionStore(NewMemorySlots())
	require.NoError(t, s.Append(context.Background(), testRecord("r1", 0.3)))

	all := s.All()
	all[0].ID = "mutated"
	assert.Equal(t, "r1", s.All()[0].ID)
}

func TestConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	backend := NewMemorySlots()
	s := NewSubmissionStore(backend)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, s.Append(ctx, testRecord(fmt.Sprintf("r%d", i), 0.5)))
		}(i)
	}
	wg.Wait()

	got, err := NewSubmissionStore(backend).Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 20)
	assert.Equal(t, 20, s.Len())
}

func TestCustomSlotWithSQLite(t *testing.T) {
	ctx := context.Background()
	slots := openTestStore(t).Slots()

	a := NewSubmissionStore(slots, WithSlot("alice"))
	b := NewSubmissionStore(slots, WithSlot("bob"))
	require.NoError(t, a.Append(ctx, testRecord("a1", 0.9)))

	got, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = NewSubmissionStore(slots, WithSlot("alice")).Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a1", got[0].ID)
}
