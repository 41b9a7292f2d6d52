package controllers_test

import (
	"fmt"
	"testing"
	"time"

	"studyhub/backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockTimeSlot(t *testing.T) {
	_, token := newUser(t, "user")
	date := dayOffset(2).Format("2006-01-02")

	t.Run("validation", func(t *testing.T) {
		resp, env := request(t, "POST", "/api/schedule/blocked", token, map[string]string{
			"date":       date,
			"start_time": "9:00",
			"end_time":   "10:00",
		})
		require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
		var details map[string]string
		decode(t, env.Details, &details)
		assert.Equal(t, "start_time must be a time of day formatted as HH:MM", details["start_time"])

		resp, env = request(t, "POST", "/api/schedule/blocked", token, map[string]string{
			"date":       date,
			"start_time": "11:00",
			"end_time":   "10:00",
		})
		assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
		assert.Equal(t, "Start time must be before end time", env.Message)
	})

	block := func(reason string) models.BlockedSlot {
		resp, env := request(t, "POST", "/api/schedule/blocked", token, map[string]string{
			"date":       date,
			"start_time": "09:00",
			"end_time":   "12:00",
			"reason":     reason,
		})
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
		var slot models.BlockedSlot
		decode(t, env.Data, &slot)
		return slot
	}

	first := block("Lecture")
	second := block("Lab")
	assert.NotEqual(t, first.ID, second.ID)

	var slots []models.BlockedSlot
	require.NoError(t, db.Where("user_id = ?", second.UserID).Find(&slots).Error)
	require.Len(t, slots, 1, "a block with the same bounds replaces the old one")
	assert.Equal(t, "Lab", slots[0].Reason)

	resp, _ := request(t, "DELETE", fmt.Sprintf("/api/schedule/blocked/%d", second.ID), token, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, _ = request(t, "DELETE", fmt.Sprintf("/api/schedule/blocked/%d", second.ID), token, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestStudySessions(t *testing.T) {
	_, token := newUser(t, "user")
	tomorrow := dayOffset(1)

	resp, env := request(t, "POST", "/api/schedule/sessions", token, map[string]interface{}{
		"subject":    "Anatomy",
		"focus_area": "Bones",
		"date":       tomorrow.Add(10 * time.Hour).Format(time.RFC3339),
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var created models.StudySession
	decode(t, env.Data, &created)
	assert.Equal(t, 60, created.Duration)
	assert.False(t, created.Completed)

	resp, _ = request(t, "POST", "/api/schedule/sessions", token, map[string]interface{}{
		"subject":  "Physiology",
		"duration": 90,
		"date":     tomorrow.Format("2006-01-02"),
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, _ = request(t, "POST", "/api/schedule/sessions", token, map[string]interface{}{
		"subject": "Anatomy",
		"date":    "next tuesday",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	t.Run("list by date", func(t *testing.T) {
		resp, env := request(t, "GET", "/api/schedule/sessions?date="+tomorrow.Format("2006-01-02"), token, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		var sessions []models.StudySession
		decode(t, env.Data, &sessions)
		assert.Len(t, sessions, 2)

		resp, env = request(t, "GET", "/api/schedule/sessions?date="+dayOffset(5).Format("2006-01-02"), token, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		decode(t, env.Data, &sessions)
		assert.Empty(t, sessions)
	})

	t.Run("toggle", func(t *testing.T) {
		path := fmt.Sprintf("/api/schedule/sessions/%d/toggle", created.ID)
		resp, env := request(t, "PUT", path, token, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		var toggled models.StudySession
		decode(t, env.Data, &toggled)
		assert.True(t, toggled.Completed)

		resp, env = request(t, "GET", "/api/schedule/sessions/upcoming", token, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		var upcoming []models.StudySession
		decode(t, env.Data, &upcoming)
		require.Len(t, upcoming, 1)
		assert.Equal(t, "Physiology", upcoming[0].Subject)

		_, otherToken := newUser(t, "user")
		resp, _ = request(t, "PUT", path, otherToken, nil)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("delete", func(t *testing.T) {
		path := fmt.Sprintf("/api/schedule/sessions/%d", created.ID)
		resp, _ := request(t, "DELETE", path, token, nil)
		assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
		resp, _ = request(t, "DELETE", path, token, nil)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}

func TestGetSchedule(t *testing.T) {
	course := unique("Surgery")
	ids := seedCourse(t, course,
		seedQuestion{Category: "Trauma", Text: "ATLS?"},
		seedQuestion{Category: "Trauma", Text: "GCS?"},
		seedQuestion{Category: "Hernia", Text: "Inguinal?"},
	)
	user, token := newUser(t, "user")
	selectCourse(t, user.ID, course, dayOffset(3))

	for _, id := range ids[:2] {
		resp, _ := request(t, "PUT", statusPath(id), token, map[string]interface{}{"done": false})
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	resp, env := request(t, "GET", "/api/schedule", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var schedule models.Schedule
	decode(t, env.Data, &schedule)

	require.Len(t, schedule.ExamDates, 1)
	assert.Equal(t, course, schedule.ExamDates[0].CourseName)

	require.Len(t, schedule.CategoryPerformance, 2)
	assert.Equal(t, "Hernia", schedule.CategoryPerformance[0].Category)
	assert.Equal(t, 100.0, schedule.CategoryPerformance[0].Percentage)
	assert.Equal(t, "Trauma", schedule.CategoryPerformance[1].Category)
	assert.Equal(t, 0.0, schedule.CategoryPerformance[1].Percentage)

	require.Len(t, schedule.PracticeRecommendations, 1)
	assert.Equal(t, "Trauma", schedule.PracticeRecommendations[0].Category)

	require.Len(t, schedule.StudyRecommendations, 1)
	assert.Equal(t, 120, schedule.StudyRecommendations[0].Categories[0].RecommendedMinutes)

	require.Len(t, schedule.WeeklySchedule, 7)
	first := schedule.WeeklySchedule[0]
	require.Len(t, first.Slots, 2)
	assert.Equal(t, models.SlotGeneral, first.Slots[0].Type)
	assert.Equal(t, 4, first.Slots[0].QuestionCount)
	assert.Equal(t, "Trauma", first.Slots[1].Category)
}
