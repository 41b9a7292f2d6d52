package services

import (
	"math/rand"
	"testing"
	"time"

	"studyhub/backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func questionPool(n int) []models.QuestionItem {
	pool := make([]models.QuestionItem, n)
	for i := range pool {
		pool[i] = models.QuestionItem{ID: uint(i + 1), Category: "A", Year: 2020 + i%2, Professor: "P"}
	}
	return pool
}

func TestBuildTest(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))

	t.Run("draws at most five distinct questions", func(t *testing.T) {
		picked, err := BuildTest(rnd, questionPool(12), models.TestFilters{})
		require.NoError(t, err)
		require.Len(t, picked, TestSize)

		seen := map[uint]bool{}
		for _, q := range picked {
			assert.False(t, seen[q.ID])
			seen[q.ID] = true
		}
	})

	t.Run("small pool", func(t *testing.T) {
		picked, err := BuildTest(rnd, questionPool(3), models.TestFilters{})
		require.NoError(t, err)
		assert.Len(t, picked, 3)
	})

	t.Run("filters", func(t *testing.T) {
		picked, err := BuildTest(rnd, questionPool(10), models.TestFilters{Year: 2021})
		require.NoError(t, err)
		for _, q := range picked {
			assert.Equal(t, 2021, q.Year)
		}
	})

	t.Run("nothing matches", func(t *testing.T) {
		_, err := BuildTest(rnd, questionPool(10), models.TestFilters{Category: "B"})
		assert.Equal(t, ErrNoMatchingQuestion, err)
	})

	t.Run("pool is not modified", func(t *testing.T) {
		pool := questionPool(8)
		_, err := BuildTest(rnd, pool, models.TestFilters{})
		require.NoError(t, err)
		for i, q := range pool {
			assert.Equal(t, uint(i+1), q.ID)
		}
	})
}

func TestScore(t *testing.T) {
	tests := []struct {
		correct, total, want int
	}{
		{0, 0, 0},
		{0, 5, 0},
		{1, 3, 33},
		{2, 3, 67},
		{4, 5, 80},
		{5, 5, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Score(tt.correct, tt.total), "%d/%d", tt.correct, tt.total)
	}
}

func TestFinishTest(t *testing.T) {
	start := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	s := &models.TestSession{
		ID:         "abc",
		UserID:     7,
		CourseName: "Anatomy",
		Questions:  questionPool(5),
		StartTime:  start,
	}
	s.Answer(1, true)
	s.Answer(2, false)
	s.Answer(2, true)
	s.Answer(3, false)

	r := FinishTest(s, start.Add(3*time.Minute+25*time.Second))
	assert.Equal(t, 2, r.Correct)
	assert.Equal(t, 5, r.Total)
	assert.Equal(t, 40, r.Score)
	assert.Equal(t, 205, r.DurationSeconds)
	assert.Len(t, r.Answers, 3)
	assert.Equal(t, "3m 25s", FormatDuration(r.DurationSeconds))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0m 0s", FormatDuration(0))
	assert.Equal(t, "0m 59s", FormatDuration(59))
	assert.Equal(t, "61m 1s", FormatDuration(3661))
	assert.Equal(t, "0m 0s", FormatDuration(-4))
}
