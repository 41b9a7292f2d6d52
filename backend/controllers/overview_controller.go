package controllers

import (
	"time"

	"studyhub/backend/config"
	"studyhub/backend/models"
	"studyhub/backend/services"
	"studyhub/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type OverviewController struct {
	DB  *gorm.DB
	Cfg *config.Config
	Now func() time.Time
}

func NewOverviewController(db *gorm.DB, cfg *config.Config) *OverviewController {
	return &OverviewController{DB: db, Cfg: cfg, Now: time.Now}
}

// GetDashboard godoc
// @Summary Get the user's dashboard
// @Description Flags selections whose exam has passed, then returns counters, active courses and upcoming exams.
// @Tags dashboard
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /dashboard [get]
func (oc *OverviewController) GetDashboard(c *fiber.Ctx) error {
	userID, err := utils.UserID(c)
	if err != nil {
		return err
	}
	today := services.Today(oc.Now())

	// Completed exams are counted before this request flags new ones.
	var testsCompleted int64
	if err := oc.DB.Model(&models.SelectedCourse{}).
		Where("user_id = ? AND after_exam = ?", userID, true).
		Count(&testsCompleted).Error; err != nil {
		return errors.Wrap(err, "counting completed exams")
	}

	if _, err := services.FlagPastExams(oc.DB, today, userID); err != nil {
		return err
	}

	var questionsAnswered int64
	if err := oc.DB.Model(&models.QuestionProgress{}).
		Where("user_id = ? AND done = ?", userID, true).
		Count(&questionsAnswered).Error; err != nil {
		return errors.Wrap(err, "counting answered questions")
	}

	selections, err := services.LoadSelections(oc.DB, userID)
	if err != nil {
		return err
	}

	return utils.Success(c, fiber.StatusOK, services.BuildDashboard(selections, testsCompleted, questionsAnswered, today))
}
