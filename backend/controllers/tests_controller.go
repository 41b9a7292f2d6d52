package controllers

import (
	"math/rand"
	"sync"
	"time"

	"studyhub/backend/config"
	"studyhub/backend/models"
	"studyhub/backend/services"
	"studyhub/backend/session"
	"studyhub/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type TestsController struct {
	DB    *gorm.DB
	Cfg   *config.Config
	Store session.Store
	Now   func() time.Time

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewTestsController(db *gorm.DB, cfg *config.Config, store session.Store) *TestsController {
	return &TestsController{
		DB:    db,
		Cfg:   cfg,
		Store: store,
		Now:   time.Now,
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

type CreateTestRequest struct {
	Category  string `json:"category"`
	Year      int    `json:"year" validate:"omitempty,min=1900,max=2100"`
	Professor string `json:"professor"`
}

type AnswerRequest struct {
	QuestionID uint  `json:"question_id" validate:"required"`
	Correct    *bool `json:"correct" validate:"required"`
}

// GetTestFilters godoc
// @Summary Filter values available for a practice test
// @Tags tests
// @Produce json
// @Param name path string true "Course name"
// @Success 200 {object} utils.SuccessResponse
// @Failure 403 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/{name}/tests/filters [get]
func (tc *TestsController) GetTestFilters(c *fiber.Ctx) error {
	userID, course, err := tc.courseRequest(c)
	if err != nil {
		return err
	}

	categories, err := services.LoadCategoryNames(tc.DB, course)
	if err != nil {
		return err
	}
	questions, err := services.LoadQuestions(tc.DB, userID, course)
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, services.Options(categories, questions))
}

// CreateTestSession godoc
// @Summary Start a practice test of up to five random questions
// @Tags tests
// @Accept json
// @Produce json
// @Param name path string true "Course name"
// @Param input body CreateTestRequest false "Optional filters"
// @Success 201 {object} utils.SuccessResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/{name}/tests [post]
func (tc *TestsController) CreateTestSession(c *fiber.Ctx) error {
	userID, course, err := tc.courseRequest(c)
	if err != nil {
		return err
	}

	var input CreateTestRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &input); err != nil {
			return err
		}
	}
	filters := models.TestFilters{Category: input.Category, Year: input.Year, Professor: input.Professor}

	questions, err := services.LoadQuestions(tc.DB, userID, course)
	if err != nil {
		return err
	}

	tc.mu.Lock()
	picked, err := services.BuildTest(tc.rnd, questions, filters)
	tc.mu.Unlock()
	if err != nil {
		return err
	}

	s := &models.TestSession{
		ID:          uuid.NewString(),
		UserID:      userID,
		CourseName:  course,
		Questions:   picked,
		TestFilters: filters,
		StartTime:   tc.Now().UTC(),
		Answers:     []models.TestAnswer{},
	}
	if err := tc.Store.SaveSession(c.UserContext(), s); err != nil {
		return errors.Wrap(err, "saving test session")
	}
	return utils.Created(c, s)
}

// GetTestSession godoc
// @Summary Get an in-progress practice test
// @Tags tests
// @Produce json
// @Param name path string true "Course name"
// @Param session path string true "Session ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/{name}/tests/{session} [get]
func (tc *TestsController) GetTestSession(c *fiber.Ctx) error {
	s, err := tc.loadSession(c)
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, s)
}

// AnswerQuestion godoc
// @Summary Record an answer during a practice test
// @Description The question's status is updated immediately.
// @Tags tests
// @Accept json
// @Produce json
// @Param name path string true "Course name"
// @Param session path string true "Session ID"
// @Param input body AnswerRequest true "Answer"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/{name}/tests/{session}/answers [post]
func (tc *TestsController) AnswerQuestion(c *fiber.Ctx) error {
	var input AnswerRequest
	if err := parseBody(c, &input); err != nil {
		return err
	}

	unlock, err := tc.lockSession(c)
	if err != nil {
		return err
	}
	defer unlock()

	s, err := tc.loadSession(c)
	if err != nil {
		return err
	}
	if !s.HasQuestion(input.QuestionID) {
		return services.ErrNotInSession
	}

	if err := services.SetQuestionStatus(tc.DB, s.UserID, input.QuestionID, input.Correct); err != nil {
		return err
	}
	s.Answer(input.QuestionID, *input.Correct)
	if err := tc.Store.SaveSession(c.UserContext(), s); err != nil {
		return errors.Wrap(err, "saving test session")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"answered": len(s.Answers),
		"total":    len(s.Questions),
		"answers":  s.Answers,
	})
}

// FinishTest godoc
// @Summary Finish a practice test and compute the score
// @Tags tests
// @Produce json
// @Param name path string true "Course name"
// @Param session path string true "Session ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/{name}/tests/{session}/finish [post]
func (tc *TestsController) FinishTest(c *fiber.Ctx) error {
	unlock, err := tc.lockSession(c)
	if err != nil {
		return err
	}
	defer unlock()

	s, err := tc.loadSession(c)
	if err != nil {
		return err
	}

	result := services.FinishTest(s, tc.Now().UTC())
	attempt := models.TestAttempt{
		UserID:     s.UserID,
		SessionID:  s.ID,
		CourseName: s.CourseName,
		Category:   s.Category,
		Year:       s.Year,
		Professor:  s.Professor,
		StartedAt:  result.StartTime,
		FinishedAt: result.EndTime,
		Total:      result.Total,
		Correct:    result.Correct,
		Score:      result.Score,
	}
	if err := tc.DB.Create(&attempt).Error; err != nil {
		return errors.Wrap(err, "saving test attempt")
	}

	if err := tc.Store.SaveResult(c.UserContext(), &result); err != nil {
		return errors.Wrap(err, "saving test result")
	}
	if err := tc.Store.DeleteSession(c.UserContext(), s.ID); err != nil {
		return errors.Wrap(err, "closing test session")
	}

	return utils.Success(c, fiber.StatusOK, resultView(result))
}

// GetTestResult godoc
// @Summary Get the result of a finished practice test
// @Tags tests
// @Produce json
// @Param session path string true "Session ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /tests/results/{session} [get]
func (tc *TestsController) GetTestResult(c *fiber.Ctx) error {
	userID, err := utils.UserID(c)
	if err != nil {
		return err
	}

	result, err := tc.Store.GetResult(c.UserContext(), c.Params("session"))
	if errors.Is(err, session.ErrNotFound) {
		return services.ErrResultNotFound
	}
	if err != nil {
		return errors.Wrap(err, "loading test result")
	}
	if result.UserID != userID {
		return services.ErrResultNotFound
	}
	return utils.Success(c, fiber.StatusOK, resultView(*result))
}

// ListTestAttempts godoc
// @Summary List finished practice tests, newest first
// @Tags tests
// @Produce json
// @Param course query string false "Course name"
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /tests/attempts [get]
func (tc *TestsController) ListTestAttempts(c *fiber.Ctx) error {
	userID, err := utils.UserID(c)
	if err != nil {
		return err
	}

	query := tc.DB.Where("user_id = ?", userID)
	if course := c.Query("course"); course != "" {
		query = query.Where("course_name = ?", course)
	}
	var attempts []models.TestAttempt
	if err := query.Order("finished_at DESC").Find(&attempts).Error; err != nil {
		return errors.Wrap(err, "loading test attempts")
	}
	return utils.Success(c, fiber.StatusOK, attempts)
}

func (tc *TestsController) courseRequest(c *fiber.Ctx) (uint, string, error) {
	userID, err := utils.UserID(c)
	if err != nil {
		return 0, "", err
	}
	course, err := courseParam(c)
	if err != nil {
		return 0, "", err
	}
	if _, err := services.RequireSelectedCourse(tc.DB, userID, course); err != nil {
		return 0, "", err
	}
	return userID, course, nil
}

// lockSession serialises changes to the session named in the route.
func (tc *TestsController) lockSession(c *fiber.Ctx) (func(), error) {
	unlock, err := tc.Store.Lock(c.UserContext(), c.Params("session"))
	if err != nil {
		return nil, errors.Wrap(err, "locking test session")
	}
	return unlock, nil
}

// loadSession fetches the session named in the route and checks it belongs to
// the user and to the course in the path.
func (tc *TestsController) loadSession(c *fiber.Ctx) (*models.TestSession, error) {
	userID, err := utils.UserID(c)
	if err != nil {
		return nil, err
	}
	course, err := courseParam(c)
	if err != nil {
		return nil, err
	}

	s, err := tc.Store.GetSession(c.UserContext(), c.Params("session"))
	if errors.Is(err, session.ErrNotFound) {
		return nil, services.ErrSessionNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "loading test session")
	}
	if s.UserID != userID {
		return nil, services.ErrSessionNotFound
	}
	if s.CourseName != course {
		return nil, services.ErrWrongCourse
	}
	return s, nil
}

func resultView(r models.TestResult) fiber.Map {
	return fiber.Map{
		"session_id":       r.SessionID,
		"course_name":      r.CourseName,
		"start_time":       r.StartTime,
		"end_time":         r.EndTime,
		"answers":          r.Answers,
		"correct":          r.Correct,
		"total":            r.Total,
		"score":            r.Score,
		"accuracy":         r.Score,
		"duration_seconds": r.DurationSeconds,
		"duration":         services.FormatDuration(r.DurationSeconds),
	}
}
