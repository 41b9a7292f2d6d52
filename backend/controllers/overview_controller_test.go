package controllers_test

import (
	"testing"

	"studyhub/backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDashboard(t *testing.T) {
	past, soon, later, undated := unique("Past"), unique("Soon"), unique("Later"), unique("Undated")
	ids := seedCourse(t, soon, seedQuestion{Category: "General", Text: "Q1"}, seedQuestion{Category: "General", Text: "Q2"})
	seedCourse(t, past)
	seedCourse(t, later)
	seedCourse(t, undated)

	user, token := newUser(t, "user")
	selectCourse(t, user.ID, past, dayOffset(-2))
	selectCourse(t, user.ID, later, dayOffset(20))
	selectCourse(t, user.ID, soon, dayOffset(1))
	selectCourse(t, user.ID, undated, nil)

	resp, _ := request(t, "PUT", statusPath(ids[0]), token, map[string]interface{}{"done": true})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp, _ = request(t, "PUT", statusPath(ids[1]), token, map[string]interface{}{"done": false})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, env := request(t, "GET", "/api/dashboard", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var dash models.Dashboard
	decode(t, env.Data, &dash)

	// the past exam is flagged during this request, after counting
	assert.EqualValues(t, 0, dash.Stats.TestsCompleted)
	assert.EqualValues(t, 1, dash.Stats.QuestionsAnswered)
	assert.EqualValues(t, 1, dash.Stats.CorrectAnswers)
	assert.Equal(t, 100, dash.Stats.Accuracy)
	assert.Equal(t, 2, dash.Stats.UpcomingTests)

	require.Len(t, dash.ActiveCourses, 3)
	require.Len(t, dash.UpcomingExams, 2)
	assert.Equal(t, soon, dash.UpcomingExams[0].CourseName)
	assert.Equal(t, "1 day", dash.UpcomingExams[0].ExamLabel)
	assert.Equal(t, later, dash.UpcomingExams[1].CourseName)

	var sc models.SelectedCourse
	require.NoError(t, db.Where("user_id = ? AND course_name = ?", user.ID, past).First(&sc).Error)
	assert.True(t, sc.AfterExam)

	resp, env = request(t, "GET", "/api/dashboard", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decode(t, env.Data, &dash)
	assert.EqualValues(t, 1, dash.Stats.TestsCompleted)
}

func TestGetProgress(t *testing.T) {
	course := unique("Neurology")
	ids := seedCourse(t, course,
		seedQuestion{Category: "Stroke", Text: "NIHSS?"},
		seedQuestion{Category: "Stroke", Text: "tPA window?"},
		seedQuestion{Category: "Epilepsy", Text: "First line?"},
	)
	require.NoError(t, db.Create(&models.Category{Name: "Headache", CourseName: course}).Error)
	other := unique("Dermatology")
	seedCourse(t, other, seedQuestion{Category: "Rash", Text: "Eczema?"})

	user, token := newUser(t, "user")
	selectCourse(t, user.ID, course, nil)
	selectCourse(t, user.ID, other, nil)

	resp, _ := request(t, "PUT", statusPath(ids[0]), token, map[string]interface{}{"done": true})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp, _ = request(t, "PUT", statusPath(ids[1]), token, map[string]interface{}{"done": false})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, env := request(t, "GET", "/api/progress?search=neuro", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var progress []models.CourseProgress
	decode(t, env.Data, &progress)
	require.Len(t, progress, 1)

	p := progress[0]
	assert.Equal(t, course, p.CourseName)
	assert.Equal(t, 3, p.Total)
	assert.Equal(t, 1, p.Completed)
	assert.Equal(t, 33, p.Progress)

	byName := map[string]models.CategoryProgress{}
	for _, c := range p.Categories {
		byName[c.Name] = c
	}
	assert.Equal(t, 50, byName["Stroke"].Progress)
	assert.Equal(t, 0, byName["Epilepsy"].Progress)
	assert.Equal(t, 0, byName["Headache"].Total)

	resp, env = request(t, "GET", "/api/progress", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decode(t, env.Data, &progress)
	assert.Len(t, progress, 2)
}
