package services

import (
	"testing"
	"time"

	"studyhub/backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercent(t *testing.T) {
	assert.Equal(t, 0, Percent(0, 0))
	assert.Equal(t, 33, Percent(1, 3))
	assert.Equal(t, 67, Percent(2, 3))
	assert.Equal(t, 100, Percent(4, 4))
}

func TestBuildCourseProgress(t *testing.T) {
	yes, no := true, false
	questions := []models.QuestionItem{
		{Course: "Anatomy", Category: "Bones", Done: &yes},
		{Course: "Anatomy", Category: "Bones", Done: &no},
		{Course: "Anatomy", Category: "Bones"},
		{Course: "Anatomy", Category: "Muscles", Done: &yes},
		{Course: "Other", Category: "Bones", Done: &yes},
	}

	p := BuildCourseProgress("Anatomy", []string{"Bones", "Muscles", "Nerves"}, questions)
	assert.Equal(t, "Anatomy", p.CourseName)
	assert.Equal(t, 4, p.Total)
	assert.Equal(t, 2, p.Completed)
	assert.Equal(t, 50, p.Progress)
	assert.Equal(t, CourseColor("Anatomy"), p.Color)

	require.Len(t, p.Categories, 3)
	assert.Equal(t, models.CategoryProgress{Name: "Bones", Total: 3, Completed: 1, Progress: 33}, p.Categories[0])
	assert.Equal(t, models.CategoryProgress{Name: "Muscles", Total: 1, Completed: 1, Progress: 100}, p.Categories[1])
	assert.Equal(t, models.CategoryProgress{Name: "Nerves"}, p.Categories[2])
}

func TestCourseColor(t *testing.T) {
	// Reference values from the web client's hash.
	assert.Equal(t, "green", CourseColor("a").Name)
	assert.Equal(t, "purple", CourseColor("b").Name)
	assert.Equal(t, "green", CourseColor("ab").Name)
	assert.Equal(t, CourseColor("Internal Medicine"), CourseColor("Internal Medicine"))
	assert.Equal(t, "blue", CourseColor("").Name)
}

func TestBuildUserStats(t *testing.T) {
	start := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	attempts := []models.TestAttempt{
		{CourseName: "B", StartedAt: start, FinishedAt: start.Add(10 * time.Minute), Total: 5, Correct: 4, Score: 80},
		{CourseName: "A", StartedAt: start.Add(time.Hour), FinishedAt: start.Add(time.Hour + 5*time.Minute), Total: 5, Correct: 3, Score: 60},
		{CourseName: "B", StartedAt: start.Add(2 * time.Hour), FinishedAt: start.Add(2*time.Hour + 30*time.Second), Total: 4, Correct: 1, Score: 25},
	}
	attempts[0].ID, attempts[1].ID, attempts[2].ID = 1, 2, 3

	stats := BuildUserStats(attempts)
	assert.Equal(t, 3, stats.TestsCompleted)
	assert.Equal(t, 14, stats.QuestionsAnswered)
	assert.Equal(t, 8, stats.CorrectAnswers)
	assert.Equal(t, 55, stats.AverageScore)
	assert.Equal(t, 16, stats.StudyMinutes)

	require.Len(t, stats.Courses, 2)
	assert.Equal(t, models.CourseStats{Name: "A", TestsCompleted: 1, AverageScore: 60}, stats.Courses[0])
	assert.Equal(t, models.CourseStats{Name: "B", TestsCompleted: 2, AverageScore: 53}, stats.Courses[1])

	require.Len(t, stats.RecentTests, 3)
	assert.Equal(t, uint(3), stats.RecentTests[0].ID)

	empty := BuildUserStats(nil)
	assert.Zero(t, empty.TestsCompleted)
	assert.NotNil(t, empty.Courses)
	assert.NotNil(t, empty.RecentTests)
}
