package controllers

import (
	"studyhub/backend/config"
	"studyhub/backend/models"
	"studyhub/backend/services"
	"studyhub/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type AnalyticsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewAnalyticsController(db *gorm.DB, cfg *config.Config) *AnalyticsController {
	return &AnalyticsController{DB: db, Cfg: cfg}
}

// GetUserStats godoc
// @Summary Get practice test statistics for the profile page
// @Tags user
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /user/stats [get]
func (ac *AnalyticsController) GetUserStats(c *fiber.Ctx) error {
	userID, err := utils.UserID(c)
	if err != nil {
		return err
	}

	var attempts []models.TestAttempt
	if err := ac.DB.Where("user_id = ?", userID).Find(&attempts).Error; err != nil {
		return errors.Wrap(err, "loading test attempts")
	}
	return utils.Success(c, fiber.StatusOK, services.BuildUserStats(attempts))
}
