package controllers

import (
	"strconv"
	"strings"

	"studyhub/backend/config"
	"studyhub/backend/models"
	"studyhub/backend/services"
	"studyhub/backend/utils"
	"studyhub/backend/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const defaultDifficulty = 3

type UserTestsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewUserTestsController(db *gorm.DB, cfg *config.Config) *UserTestsController {
	return &UserTestsController{DB: db, Cfg: cfg}
}

type CreateUserTestRequest struct {
	Title         string `json:"title" validate:"required,max=200"`
	Description   string `json:"description" validate:"max=2000"`
	CourseName    string `json:"course_name" validate:"required"`
	Category      string `json:"category"`
	Difficulty    int    `json:"difficulty" validate:"omitempty,min=1,max=5"`
	ScheduledDate string `json:"scheduled_date" validate:"omitempty,date"`
}

// CreateUserTest godoc
// @Summary Plan a personal test
// @Tags tests
// @Accept json
// @Produce json
// @Param input body CreateUserTestRequest true "Test details"
// @Success 201 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /tests/scheduled [post]
func (uc *UserTestsController) CreateUserTest(c *fiber.Ctx) error {
	userID, err := utils.UserID(c)
	if err != nil {
		return err
	}

	var input CreateUserTestRequest
	if err := parseBody(c, &input); err != nil {
		return err
	}

	var courses int64
	if err := uc.DB.Model(&models.Course{}).Where("name = ?", input.CourseName).Count(&courses).Error; err != nil {
		return errors.Wrap(err, "loading course")
	}
	if courses == 0 {
		return services.ErrCourseNotFound
	}

	scheduled, err := validation.ParseDate(input.ScheduledDate)
	if err != nil {
		return err
	}
	if input.Difficulty == 0 {
		input.Difficulty = defaultDifficulty
	}

	test := models.UserTest{
		UserID:        userID,
		Title:         strings.TrimSpace(input.Title),
		Description:   input.Description,
		CourseName:    input.CourseName,
		Category:      input.Category,
		Difficulty:    input.Difficulty,
		ScheduledDate: scheduled,
	}
	if err := uc.DB.Create(&test).Error; err != nil {
		return errors.Wrap(err, "creating test")
	}
	return utils.Created(c, test)
}

// ListUserTests godoc
// @Summary List personal tests, newest first
// @Description Meta carries pending and completed counts for the search.
// @Tags tests
// @Produce json
// @Param q query string false "Search in title, description and course"
// @Param completed query bool false "Only pending (false) or completed (true) tests"
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /tests/scheduled [get]
func (uc *UserTestsController) ListUserTests(c *fiber.Ctx) error {
	userID, err := utils.UserID(c)
	if err != nil {
		return err
	}

	query := uc.DB.Where("user_id = ?", userID)
	if q := strings.ToLower(strings.TrimSpace(c.Query("q"))); q != "" {
		like := "%" + q + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(course_name) LIKE ?", like, like, like)
	}

	var tests []models.UserTest
	if err := query.Order("created_at DESC").Order("id DESC").Find(&tests).Error; err != nil {
		return errors.Wrap(err, "loading tests")
	}

	pending, completed := 0, 0
	for _, t := range tests {
		if t.Completed {
			completed++
		} else {
			pending++
		}
	}

	out := tests
	if raw := c.Query("completed"); raw != "" {
		want, err := strconv.ParseBool(raw)
		if err != nil {
			return utils.NewRequestError(fiber.StatusBadRequest, "completed must be true or false")
		}
		out = make([]models.UserTest, 0, len(tests))
		for _, t := range tests {
			if t.Completed == want {
				out = append(out, t)
			}
		}
	}
	if out == nil {
		out = []models.UserTest{}
	}

	return utils.Success(c, fiber.StatusOK, out, fiber.Map{
		"pending":   pending,
		"completed": completed,
	})
}

// GetUserTest godoc
// @Summary Get a personal test
// @Tags tests
// @Produce json
// @Param id path int true "Test ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /tests/scheduled/{id} [get]
func (uc *UserTestsController) GetUserTest(c *fiber.Ctx) error {
	test, err := uc.find(c)
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, test)
}

// ToggleUserTest godoc
// @Summary Mark a personal test completed or pending again
// @Tags tests
// @Produce json
// @Param id path int true "Test ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /tests/scheduled/{id}/toggle [put]
func (uc *UserTestsController) ToggleUserTest(c *fiber.Ctx) error {
	test, err := uc.find(c)
	if err != nil {
		return err
	}

	test.Completed = !test.Completed
	if err := uc.DB.Model(test).Update("completed", test.Completed).Error; err != nil {
		return errors.Wrap(err, "updating test")
	}
	return utils.Success(c, fiber.StatusOK, test)
}

// find loads the test named in the route; other users' tests are reported missing.
func (uc *UserTestsController) find(c *fiber.Ctx) (*models.UserTest, error) {
	userID, err := utils.UserID(c)
	if err != nil {
		return nil, err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return nil, err
	}

	var test models.UserTest
	err = uc.DB.Where("id = ? AND user_id = ?", id, userID).First(&test).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, services.ErrUserTestNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "loading test")
	}
	return &test, nil
}
