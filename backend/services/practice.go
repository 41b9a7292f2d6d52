package services

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"studyhub/backend/models"
)

// TestSize is the number of questions drawn for a practice test.
const TestSize = 5

// MatchesTestFilters reports whether q passes the optional exact-match filters.
func MatchesTestFilters(f models.TestFilters, q models.QuestionItem) bool {
	if f.Category != "" && q.Category != f.Category {
		return false
	}
	if f.Year != 0 && q.Year != f.Year {
		return false
	}
	if f.Professor != "" && q.Professor != f.Professor {
		return false
	}
	return true
}

// PickQuestions shuffles a copy of pool (Fisher-Yates) and returns at most n questions.
func PickQuestions(rnd *rand.Rand, pool []models.QuestionItem, n int) []models.QuestionItem {
	shuffled := make([]models.QuestionItem, len(pool))
	copy(shuffled, pool)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := rnd.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	if len(shuffled) > n {
		shuffled = shuffled[:n]
	}
	return shuffled
}

// BuildTest filters the course questions and draws a test from them.
func BuildTest(rnd *rand.Rand, questions []models.QuestionItem, f models.TestFilters) ([]models.QuestionItem, error) {
	pool := make([]models.QuestionItem, 0, len(questions))
	for _, q := range questions {
		if MatchesTestFilters(f, q) {
			pool = append(pool, q)
		}
	}
	if len(pool) == 0 {
		return nil, ErrNoMatchingQuestion
	}
	return PickQuestions(rnd, pool, TestSize), nil
}

// Score is round(correct / total * 100), 0 for an empty test.
func Score(correct, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}

// FinishTest scores a session. Unanswered questions count as not correct.
func FinishTest(s *models.TestSession, end time.Time) models.TestResult {
	correct := 0
	for _, a := range s.Answers {
		if a.IsCorrect {
			correct++
		}
	}
	answers := make([]models.TestAnswer, len(s.Answers))
	copy(answers, s.Answers)

	return models.TestResult{
		SessionID:       s.ID,
		UserID:          s.UserID,
		CourseName:      s.CourseName,
		StartTime:       s.StartTime,
		EndTime:         end,
		Answers:         answers,
		Correct:         correct,
		Total:           len(s.Questions),
		Score:           Score(correct, len(s.Questions)),
		DurationSeconds: int(end.Sub(s.StartTime).Seconds()),
	}
}

// FormatDuration renders seconds as "Xm Ys".
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
}
