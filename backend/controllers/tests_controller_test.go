package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"studyhub/backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPracticeTestFlow(t *testing.T) {
	course := unique("Microbiology")
	var seed []seedQuestion
	for i := 0; i < 7; i++ {
		seed = append(seed, seedQuestion{Category: "Bacteria", Text: "Bacteria question " + string(rune('A'+i)), Year: 2022, Professor: "Koch"})
	}
	seed = append(seed, seedQuestion{Category: "Viruses", Text: "Virus question", Year: 2021, Professor: "Pasteur"})
	seedCourse(t, course, seed...)

	user, token := newUser(t, "user")
	base := "/api/courses/" + url.PathEscape(course) + "/tests"

	t.Run("course must be selected", func(t *testing.T) {
		resp, _ := request(t, "POST", base, token, nil)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})

	selectCourse(t, user.ID, course, nil)

	t.Run("filters", func(t *testing.T) {
		resp, env := request(t, "GET", base+"/filters", token, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var opts struct {
			Categories []string `json:"categories"`
			Professors []string `json:"professors"`
			Years      []int    `json:"years"`
		}
		decode(t, env.Data, &opts)
		assert.Equal(t, []string{"Bacteria", "Viruses"}, opts.Categories)
		assert.Equal(t, []string{"Koch", "Pasteur"}, opts.Professors)
		assert.Equal(t, []int{2022, 2021}, opts.Years)
	})

	t.Run("no matching questions", func(t *testing.T) {
		resp, env := request(t, "POST", base, token, map[string]interface{}{"professor": "Nobody"})
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "No questions match your selected criteria", env.Message)
	})

	t.Run("filtered test", func(t *testing.T) {
		resp, env := request(t, "POST", base, token, map[string]interface{}{"category": "Viruses"})
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)

		var s models.TestSession
		decode(t, env.Data, &s)
		require.Len(t, s.Questions, 1)
		assert.Equal(t, "Virus question", s.Questions[0].Question)
	})

	resp, env := request(t, "POST", base, token, nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var s models.TestSession
	decode(t, env.Data, &s)
	require.Len(t, s.Questions, 5)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, course, s.CourseName)

	seen := map[uint]bool{}
	for _, q := range s.Questions {
		assert.False(t, seen[q.ID], "question %d drawn twice", q.ID)
		seen[q.ID] = true
	}

	sessionPath := base + "/" + s.ID

	t.Run("get session", func(t *testing.T) {
		resp, env := request(t, "GET", sessionPath, token, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		var got models.TestSession
		decode(t, env.Data, &got)
		assert.Equal(t, s.ID, got.ID)
	})

	t.Run("other users cannot see it", func(t *testing.T) {
		_, otherToken := newUser(t, "user")
		resp, _ := request(t, "GET", sessionPath, otherToken, nil)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("wrong course", func(t *testing.T) {
		other := unique("Other")
		seedCourse(t, other)
		resp, env := request(t, "GET", "/api/courses/"+url.PathEscape(other)+"/tests/"+s.ID, token, nil)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Test is for a different course", env.Message)
	})

	t.Run("question outside the test", func(t *testing.T) {
		resp, _ := request(t, "POST", sessionPath+"/answers", token, map[string]interface{}{
			"question_id": 999999,
			"correct":     true,
		})
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	answers := []bool{true, true, false, true}
	for i, correct := range answers {
		resp, _ := request(t, "POST", sessionPath+"/answers", token, map[string]interface{}{
			"question_id": s.Questions[i].ID,
			"correct":     correct,
		})
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}
	// answering again overwrites
	resp, env = request(t, "POST", sessionPath+"/answers", token, map[string]interface{}{
		"question_id": s.Questions[2].ID,
		"correct":     true,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var progress struct {
		Answered int `json:"answered"`
		Total    int `json:"total"`
	}
	decode(t, env.Data, &progress)
	assert.Equal(t, 4, progress.Answered)
	assert.Equal(t, 5, progress.Total)

	var stored models.QuestionProgress
	require.NoError(t, db.Where("user_id = ? AND question_id = ?", user.ID, s.Questions[2].ID).First(&stored).Error)
	require.NotNil(t, stored.Done)
	assert.True(t, *stored.Done)

	resp, env = request(t, "POST", sessionPath+"/finish", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result struct {
		SessionID string `json:"session_id"`
		Correct   int    `json:"correct"`
		Total     int    `json:"total"`
		Score     int    `json:"score"`
		Duration  string `json:"duration"`
	}
	decode(t, env.Data, &result)
	assert.Equal(t, s.ID, result.SessionID)
	assert.Equal(t, 4, result.Correct)
	assert.Equal(t, 5, result.Total)
	assert.Equal(t, 80, result.Score)
	assert.Regexp(t, `^\d+m \d+s$`, result.Duration)

	t.Run("session is closed", func(t *testing.T) {
		resp, _ := request(t, "GET", sessionPath, token, nil)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("result", func(t *testing.T) {
		resp, env := request(t, "GET", "/api/tests/results/"+s.ID, token, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		decode(t, env.Data, &result)
		assert.Equal(t, 80, result.Score)

		resp, _ = request(t, "GET", "/api/tests/results/does-not-exist", token, nil)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("attempts and stats", func(t *testing.T) {
		resp, env := request(t, "GET", "/api/tests/attempts?course="+url.QueryEscape(course), token, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		var attempts []models.TestAttempt
		decode(t, env.Data, &attempts)
		require.Len(t, attempts, 1)
		assert.Equal(t, s.ID, attempts[0].SessionID)
		assert.Equal(t, 80, attempts[0].Score)

		resp, env = request(t, "GET", "/api/user/stats", token, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		var stats models.UserStats
		decode(t, env.Data, &stats)
		assert.Equal(t, 1, stats.TestsCompleted)
		assert.Equal(t, 5, stats.QuestionsAnswered)
		assert.Equal(t, 4, stats.CorrectAnswers)
		assert.Equal(t, 80, stats.AverageScore)
		require.Len(t, stats.Courses, 1)
		assert.Equal(t, course, stats.Courses[0].Name)
		require.Len(t, stats.RecentTests, 1)
	})
}

// fire sends every request at once and returns the status codes in order.
func fire(t *testing.T, reqs []*http.Request) []int {
	t.Helper()

	codes := make([]int, len(reqs))
	errs := make([]error, len(reqs))
	var wg sync.WaitGroup
	for i, req := range reqs {
		wg.Add(1)
		go func(i int, req *http.Request) {
			defer wg.Done()
			resp, err := app.Test(req, -1)
			if err != nil {
				errs[i] = err
				return
			}
			codes[i] = resp.StatusCode
		}(i, req)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}
	return codes
}

func jsonRequest(t *testing.T, method, path, token string, body interface{}) *http.Request {
	t.Helper()
	var raw []byte
	if body != nil {
		var err error
		raw, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", token)
	return req
}

func TestConcurrentAnswersAndFinish(t *testing.T) {
	course := unique("Histology")
	var seed []seedQuestion
	for i := 0; i < 5; i++ {
		seed = append(seed, seedQuestion{Category: "Epithelium", Text: "Tissue question " + string(rune('A'+i))})
	}
	seedCourse(t, course, seed...)
	user, token := newUser(t, "user")
	selectCourse(t, user.ID, course, nil)

	base := "/api/courses/" + url.PathEscape(course) + "/tests"
	resp, env := request(t, "POST", base, token, nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var s models.TestSession
	decode(t, env.Data, &s)
	require.Len(t, s.Questions, 5)
	sessionPath := base + "/" + s.ID

	var answers []*http.Request
	for _, q := range s.Questions {
		answers = append(answers, jsonRequest(t, "POST", sessionPath+"/answers", token, map[string]interface{}{
			"question_id": q.ID,
			"correct":     true,
		}))
	}
	for _, code := range fire(t, answers) {
		assert.Equal(t, fiber.StatusOK, code)
	}

	resp, env = request(t, "GET", sessionPath, token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var got models.TestSession
	decode(t, env.Data, &got)
	assert.Len(t, got.Answers, 5)

	finishes := []*http.Request{
		jsonRequest(t, "POST", sessionPath+"/finish", token, nil),
		jsonRequest(t, "POST", sessionPath+"/finish", token, nil),
	}
	codes := fire(t, finishes)
	assert.ElementsMatch(t, []int{fiber.StatusOK, fiber.StatusNotFound}, codes)

	var attempts int64
	require.NoError(t, db.Model(&models.TestAttempt{}).Where("session_id = ?", s.ID).Count(&attempts).Error)
	assert.EqualValues(t, 1, attempts)
}
