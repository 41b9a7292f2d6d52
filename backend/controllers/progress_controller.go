package controllers

import (
	"strings"

	"studyhub/backend/config"
	"studyhub/backend/models"
	"studyhub/backend/services"
	"studyhub/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type ProgressController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewProgressController(db *gorm.DB, cfg *config.Config) *ProgressController {
	return &ProgressController{DB: db, Cfg: cfg}
}

// GetProgress godoc
// @Summary Get per-course and per-category progress
// @Description A question counts as completed once it is marked correct.
// @Tags progress
// @Produce json
// @Param search query string false "Case-insensitive filter on course name"
// @Success 200 {object} utils.SuccessResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /progress [get]
func (pc *ProgressController) GetProgress(c *fiber.Ctx) error {
	userID, err := utils.UserID(c)
	if err != nil {
		return err
	}

	selections, err := services.LoadSelections(pc.DB, userID)
	if err != nil {
		return err
	}

	search := strings.ToLower(strings.TrimSpace(c.Query("search")))
	var courses []string
	for _, sc := range selections {
		if search == "" || strings.Contains(strings.ToLower(sc.CourseName), search) {
			courses = append(courses, sc.CourseName)
		}
	}

	questions, err := services.LoadQuestions(pc.DB, userID, courses...)
	if err != nil {
		return err
	}

	var categories []models.Category
	if len(courses) > 0 {
		if err := pc.DB.Where("course_name IN ?", courses).Order("name").Find(&categories).Error; err != nil {
			return errors.Wrap(err, "loading categories")
		}
	}
	byCourse := make(map[string][]string, len(courses))
	for _, cat := range categories {
		byCourse[cat.CourseName] = append(byCourse[cat.CourseName], cat.Name)
	}

	progress := make([]models.CourseProgress, 0, len(courses))
	for _, course := range courses {
		progress = append(progress, services.BuildCourseProgress(course, byCourse[course], questions))
	}
	return utils.Success(c, fiber.StatusOK, progress)
}
