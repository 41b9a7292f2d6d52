package controllers

import (
	"strconv"
	"strings"
	"time"

	"studyhub/backend/config"
	"studyhub/backend/models"
	"studyhub/backend/services"
	"studyhub/backend/utils"
	"studyhub/backend/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type CoursesController struct {
	DB  *gorm.DB
	Cfg *config.Config
	Now func() time.Time
}

func NewCoursesController(db *gorm.DB, cfg *config.Config) *CoursesController {
	return &CoursesController{DB: db, Cfg: cfg, Now: time.Now}
}

type SelectCourseRequest struct {
	CourseName string `json:"course_name"`
	ExamDate   string `json:"exam_date" validate:"omitempty,date"`
}

type ExamDateRequest struct {
	ExamDate string `json:"exam_date" validate:"omitempty,date"`
}

type CreateCourseRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description"`
}

type UpdateCourseRequest struct {
	Description *string `json:"description" validate:"required"`
}

type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

// ListCourses godoc
// @Summary List all courses
// @Tags courses
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /courses [get]
func (cc *CoursesController) ListCourses(c *fiber.Ctx) error {
	var courses []models.Course
	if err := cc.DB.Order("name").Find(&courses).Error; err != nil {
		return errors.Wrap(err, "loading courses")
	}
	return utils.Success(c, fiber.StatusOK, courses)
}

// ListSelectedCourses godoc
// @Summary List the user's selected courses
// @Tags courses
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /courses/selected [get]
func (cc *CoursesController) ListSelectedCourses(c *fiber.Ctx) error {
	userID, err := utils.UserID(c)
	if err != nil {
		return err
	}

	selections, err := services.LoadSelections(cc.DB, userID)
	if err != nil {
		return err
	}

	today := services.Today(cc.Now())
	views := make([]models.SelectedCourseView, 0, len(selections))
	for _, sc := range selections {
		views = append(views, services.ViewSelectedCourse(sc, today))
	}
	return utils.Success(c, fiber.StatusOK, views)
}

// SelectCourse godoc
// @Summary Select a course to study
// @Tags courses
// @Accept json
// @Produce json
// @Param input body SelectCourseRequest true "Course and optional exam date"
// @Success 201 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/selected [post]
func (cc *CoursesController) SelectCourse(c *fiber.Ctx) error {
	userID, err := utils.UserID(c)
	if err != nil {
		return err
	}

	var input SelectCourseRequest
	if err := parseBody(c, &input); err != nil {
		return err
	}
	input.CourseName = strings.TrimSpace(input.CourseName)
	if input.CourseName == "" {
		return utils.NewValidationError("Please select a course",
			utils.FieldError{Field: "course_name", Error: "Please select a course"})
	}

	if err := cc.requireCourse(input.CourseName); err != nil {
		return err
	}

	var existing int64
	if err := cc.DB.Model(&models.SelectedCourse{}).
		Where("user_id = ? AND course_name = ?", userID, input.CourseName).
		Count(&existing).Error; err != nil {
		return errors.Wrap(err, "checking selection")
	}
	if existing > 0 {
		return services.ErrAlreadySelected
	}

	examDate, err := validation.ParseDate(input.ExamDate)
	if err != nil {
		return err
	}
	sc := models.SelectedCourse{UserID: userID, CourseName: input.CourseName, ExamDate: examDate}
	if err := cc.DB.Create(&sc).Error; err != nil {
		return errors.Wrap(err, "selecting course")
	}

	return utils.Created(c, services.ViewSelectedCourse(sc, services.Today(cc.Now())))
}

// UpdateExamDate godoc
// @Summary Set or clear the exam date of a selected course
// @Tags courses
// @Accept json
// @Produce json
// @Param name path string true "Course name"
// @Param input body ExamDateRequest true "Exam date, empty to clear"
// @Success 200 {object} utils.SuccessResponse
// @Failure 403 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/selected/{name} [put]
func (cc *CoursesController) UpdateExamDate(c *fiber.Ctx) error {
	userID, err := utils.UserID(c)
	if err != nil {
		return err
	}
	course, err := courseParam(c)
	if err != nil {
		return err
	}

	var input ExamDateRequest
	if err := parseBody(c, &input); err != nil {
		return err
	}

	sc, err := services.RequireSelectedCourse(cc.DB, userID, course)
	if err != nil {
		return err
	}
	examDate, err := validation.ParseDate(input.ExamDate)
	if err != nil {
		return err
	}

	today := services.Today(cc.Now())
	sc.ExamDate = examDate
	if examDate == nil || !examDate.Before(today) {
		sc.AfterExam = false
	}
	if err := cc.DB.Model(sc).Select("exam_date", "after_exam").Updates(sc).Error; err != nil {
		return errors.Wrap(err, "updating exam date")
	}

	return utils.Success(c, fiber.StatusOK, services.ViewSelectedCourse(*sc, today))
}

// DeselectCourse godoc
// @Summary Remove a course from the user's selection
// @Tags courses
// @Param name path string true "Course name"
// @Success 204
// @Failure 403 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/selected/{name} [delete]
func (cc *CoursesController) DeselectCourse(c *fiber.Ctx) error {
	userID, err := utils.UserID(c)
	if err != nil {
		return err
	}
	course, err := courseParam(c)
	if err != nil {
		return err
	}

	res := cc.DB.Unscoped().Where("user_id = ? AND course_name = ?", userID, course).Delete(&models.SelectedCourse{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "removing course")
	}
	if res.RowsAffected == 0 {
		return services.ErrCourseNotSelected
	}
	return utils.NoContent(c)
}

// GetCourseQuestions godoc
// @Summary Browse the questions of a selected course
// @Tags courses
// @Produce json
// @Param name path string true "Course name"
// @Param search query string false "Case-insensitive search in question and answer"
// @Param category query []string false "Category names, repeat the key for several"
// @Param professor query []string false "Professors, repeat the key for several"
// @Param year query []int false "Years, repeat the key for several"
// @Param status query string false "done, incorrect or unattempted"
// @Param show_answered query bool false "Include questions marked correct"
// @Success 200 {object} utils.SuccessResponse
// @Failure 403 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/{name}/questions [get]
func (cc *CoursesController) GetCourseQuestions(c *fiber.Ctx) error {
	userID, err := utils.UserID(c)
	if err != nil {
		return err
	}
	course, err := courseParam(c)
	if err != nil {
		return err
	}

	sc, err := services.RequireSelectedCourse(cc.DB, userID, course)
	if err != nil {
		return err
	}

	categories, err := services.LoadCategoryNames(cc.DB, course)
	if err != nil {
		return err
	}
	questions, err := services.LoadQuestions(cc.DB, userID, course)
	if err != nil {
		return err
	}

	status, err := statusQuery(c)
	if err != nil {
		return err
	}
	filter := services.QuestionFilter{
		Search:       c.Query("search"),
		Status:       status,
		Categories:   listQuery(c, "category"),
		Professors:   listQuery(c, "professor"),
		ShowAnswered: c.QueryBool("show_answered", false),
	}
	for _, y := range listQuery(c, "year") {
		year, err := strconv.Atoi(y)
		if err != nil {
			return utils.NewRequestError(fiber.StatusBadRequest, "Invalid year "+strconv.Quote(y))
		}
		filter.Years = append(filter.Years, year)
	}

	filtered := filter.Apply(questions)
	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"course":    services.ViewSelectedCourse(*sc, services.Today(cc.Now())),
		"filters":   services.Options(categories, questions),
		"questions": filtered,
	}, fiber.Map{
		"total":    len(questions),
		"filtered": len(filtered),
	})
}

// CreateCourse godoc
// @Summary Create a course
// @Tags admin
// @Accept json
// @Produce json
// @Param input body CreateCourseRequest true "Course"
// @Success 201 {object} utils.SuccessResponse
// @Failure 409 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/courses [post]
func (cc *CoursesController) CreateCourse(c *fiber.Ctx) error {
	var input CreateCourseRequest
	if err := parseBody(c, &input); err != nil {
		return err
	}

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return utils.NewValidationError("Course name is required",
			utils.FieldError{Field: "name", Error: "name is required"})
	}

	var existing int64
	if err := cc.DB.Model(&models.Course{}).Where("name = ?", input.Name).Count(&existing).Error; err != nil {
		return errors.Wrap(err, "checking course")
	}
	if existing > 0 {
		return utils.NewRequestError(fiber.StatusConflict, "Course already exists")
	}

	course := models.Course{Name: input.Name, Description: input.Description}
	if err := cc.DB.Create(&course).Error; err != nil {
		return errors.Wrap(err, "creating course")
	}
	return utils.Created(c, course)
}

// UpdateCourse godoc
// @Summary Update a course description
// @Tags admin
// @Accept json
// @Produce json
// @Param name path string true "Course name"
// @Param input body UpdateCourseRequest true "New description"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/courses/{name} [put]
func (cc *CoursesController) UpdateCourse(c *fiber.Ctx) error {
	name, err := courseParam(c)
	if err != nil {
		return err
	}
	var input UpdateCourseRequest
	if err := parseBody(c, &input); err != nil {
		return err
	}

	var course models.Course
	if err := cc.DB.Where("name = ?", name).First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return services.ErrCourseNotFound
		}
		return errors.Wrap(err, "loading course")
	}

	course.Description = strings.TrimSpace(*input.Description)
	if err := cc.DB.Model(&course).Update("description", course.Description).Error; err != nil {
		return errors.Wrap(err, "updating course")
	}
	return utils.Message(c, "Course updated", course)
}

// GetCourseAnalytics godoc
// @Summary Per-student progress in a course
// @Tags admin
// @Produce json
// @Param name path string true "Course name"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/courses/{name}/analytics [get]
func (cc *CoursesController) GetCourseAnalytics(c *fiber.Ctx) error {
	name, err := courseParam(c)
	if err != nil {
		return err
	}
	if err := cc.requireCourse(name); err != nil {
		return err
	}

	analytics, err := services.LoadCourseAnalytics(cc.DB, name)
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, analytics)
}

// CreateCategory godoc
// @Summary Add a category to a course
// @Tags admin
// @Accept json
// @Produce json
// @Param name path string true "Course name"
// @Param input body CreateCategoryRequest true "Category"
// @Success 201 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/courses/{name}/categories [post]
func (cc *CoursesController) CreateCategory(c *fiber.Ctx) error {
	course, err := courseParam(c)
	if err != nil {
		return err
	}
	var input CreateCategoryRequest
	if err := parseBody(c, &input); err != nil {
		return err
	}
	if err := cc.requireCourse(course); err != nil {
		return err
	}

	category := models.Category{Name: strings.TrimSpace(input.Name), CourseName: course}
	if err := cc.DB.Where(models.Category{Name: category.Name, CourseName: course}).FirstOrCreate(&category).Error; err != nil {
		return errors.Wrap(err, "creating category")
	}
	return utils.Created(c, category)
}

func (cc *CoursesController) requireCourse(name string) error {
	var n int64
	if err := cc.DB.Model(&models.Course{}).Where("name = ?", name).Count(&n).Error; err != nil {
		return errors.Wrap(err, "loading course")
	}
	if n == 0 {
		return services.ErrCourseNotFound
	}
	return nil
}
