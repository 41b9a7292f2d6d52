package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"studyhub/backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	ctx := context.Background()

	s := &models.TestSession{ID: "abc", UserID: 7, CourseName: "Algebra"}
	require.NoError(t, store.SaveSession(ctx, s))

	got, err := store.GetSession(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "Algebra", got.CourseName)

	got.CourseName = "changed"
	again, err := store.GetSession(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "Algebra", again.CourseName)

	require.NoError(t, store.DeleteSession(ctx, "abc"))
	_, err = store.GetSession(ctx, "abc")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.SaveResult(ctx, &models.TestResult{SessionID: "r1", Score: 80}))
	require.NoError(t, store.SaveSession(ctx, &models.TestSession{ID: "s1"}))

	res, err := store.GetResult(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, 80, res.Score)

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 2, store.Purge())

	_, err = store.GetResult(ctx, "r1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreLockSerialisesUpdates(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	ctx := context.Background()
	require.NoError(t, store.SaveSession(ctx, &models.TestSession{ID: "s1", Answers: []models.TestAnswer{}}))

	var wg sync.WaitGroup
	for i := 1; i <= 20; i++ {
		wg.Add(1)
		go func(id uint) {
			defer wg.Done()
			unlock, err := store.Lock(ctx, "s1")
			if err != nil {
				return
			}
			defer unlock()
			s, err := store.GetSession(ctx, "s1")
			if err != nil {
				return
			}
			s.Answer(id, true)
			_ = store.SaveSession(ctx, s)
		}(uint(i))
	}
	wg.Wait()

	s, err := store.GetSession(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, s.Answers, 20)
}
