package controllers

import (
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

const defaultSessionMinutes = 60

type ScheduleController struct {
	DB  *gorm.DB
	Cfg *config.Config
	Now func() time.Time
}

func NewScheduleController(db *gorm.DB, cfg *config.Config) *ScheduleController {
	return &ScheduleController{DB: db, Cfg: cfg, Now: time.Now}
}

type BlockSlotRequest struct {
	Date      string `json:"date" validate:"required,date"`
	StartTime string `json:"start_time" validate:"required,hhmm"`
	EndTime   string `json:"end_time" validate:"required,hhmm"`
	Reason    string `json:"reason" validate:"max=200"`
}

type StudySessionRequest struct {
	Subject   string `json:"subject" validate:"required,max=200"`
	Duration  int    `json:"duration" validate:"omitempty,min=1,max=1440"`
	FocusArea string `json:"focus_area"`
	Date      string `json:"date" validate:"required"`
}

// GetSchedule godoc
// @Summary Get exam dates, category performance, recommendations and the weekly plan
// @Tags schedule
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /schedule [get]
func (sc *ScheduleController) GetSchedule(c *fiber.Ctx) error {
	userID, err := utils.UserID(c)
	if err != nil {
		return err
	}
	now := sc.Now().UTC()

	selections, err := services.LoadSelections(sc.DB, userID)
	if err != nil {
		return err
	}
	courses := make([]string, len(selections))
	for i, s := range selections {
		courses[i] = s.CourseName
	}
	questions, err := services.LoadQuestions(sc.DB, userID, courses...)
	if err != nil {
		return err
	}

	var blocked []models.BlockedSlot
	if err := sc.DB.Where("user_id = ?", userID).Order("date, start_time").Find(&blocked).Error; err != nil {
		return errors.Wrap(err, "loading blocked slots")
	}
	var sessions []models.StudySession
	if err := sc.DB.Where("user_id = ?", userID).Order("date").Find(&sessions).Error; err != nil {
		return errors.Wrap(err, "loading study sessions")
	}

	exams := services.UpcomingExamDates(selections, now)
	perf := services.CategoryPerformances(questions)

	return utils.Success(c, fiber.StatusOK, models.Schedule{
		ExamDates:               exams,
		CategoryPerformance:     perf,
		PracticeRecommendations: services.PracticeRecommendations(perf),
		StudyRecommendations:    services.StudyRecommendations(exams, perf, now),
		WeeklySchedule:          services.WeeklySchedule(exams, perf, blocked, now),
		UpcomingSessions:        services.UpcomingStudySessions(sessions, now),
	})
}

// BlockTimeSlot godoc
// @Summary Mark time as unavailable for studying
// @Description A block with the same day, start and end replaces the existing one.
// @Tags schedule
// @Accept json
// @Produce json
// @Param input body BlockSlotRequest true "Blocked slot"
// @Success 201 {object} utils.SuccessResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /schedule/blocked [post]
func (sc *ScheduleController) BlockTimeSlot(c *fiber.Ctx) error {
	userID, err := utils.UserID(c)
	if err != nil {
		return err
	}

	var input BlockSlotRequest
	if err := parseBody(c, &input); err != nil {
		return err
	}
	if input.StartTime >= input.EndTime {
		return utils.NewValidationError("Start time must be before end time",
			utils.FieldError{Field: "end_time", Error: "end_time must be after start_time"})
	}
	date, err := validation.ParseDate(input.Date)
	if err != nil {
		return err
	}

	slot := models.BlockedSlot{
		UserID:    userID,
		Date:      *date,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
		Reason:    strings.TrimSpace(input.Reason),
	}

	err = sc.DB.Transaction(func(tx *gorm.DB) error {
		var sameDay []models.BlockedSlot
		if err := tx.Where("user_id = ? AND date = ?", userID, slot.Date).Find(&sameDay).Error; err != nil {
			return errors.Wrap(err, "loading blocked slots")
		}
		_, replaced := services.ReplaceBlockedSlot(sameDay, slot)
		for _, old := range replaced {
			if err := tx.Unscoped().Delete(&models.BlockedSlot{}, old.ID).Error; err != nil {
				return errors.Wrap(err, "replacing blocked slot")
			}
		}
		return errors.Wrap(tx.Create(&slot).Error, "saving blocked slot")
	})
	if err != nil {
		return err
	}
	return utils.Created(c, slot)
}

// UnblockTimeSlot godoc
// @Summary Remove a blocked slot
// @Tags schedule
// @Param id path int true "Blocked slot ID"
// @Success 204
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /schedule/blocked/{id} [delete]
func (sc *ScheduleController) UnblockTimeSlot(c *fiber.Ctx) error {
	userID, err := utils.UserID(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	res := sc.DB.Unscoped().Where("id = ? AND user_id = ?", id, userID).Delete(&models.BlockedSlot{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "deleting blocked slot")
	}
	if res.RowsAffected == 0 {
		return utils.NewRequestError(fiber.StatusNotFound, "Blocked slot not found")
	}
	return utils.NoContent(c)
}

// ListStudySessions godoc
// @Summary List study sessions on a day
// @Tags schedule
// @Produce json
// @Param date query string false "YYYY-MM-DD, defaults to today"
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /schedule/sessions [get]
func (sc *ScheduleController) ListStudySessions(c *fiber.Ctx) error {
	userID, err := utils.UserID(c)
	if err != nil {
		return err
	}

	day := services.Today(sc.Now())
	if raw := c.Query("date"); raw != "" {
		d, err := validation.ParseDate(raw)
		if err != nil {
			return utils.NewRequestError(fiber.StatusBadRequest, "Invalid date, use YYYY-MM-DD")
		}
		day = *d
	}

	var sessions []models.StudySession
	if err := sc.DB.Where("user_id = ? AND date >= ? AND date < ?", userID, day, day.AddDate(0, 0, 1)).
		Order("date").Find(&sessions).Error; err != nil {
		return errors.Wrap(err, "loading study sessions")
	}
	return utils.Success(c, fiber.StatusOK, services.SessionsOn(sessions, day))
}

// UpcomingStudySessions godoc
// @Summary List the next open study sessions
// @Tags schedule
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /schedule/sessions/upcoming [get]
func (sc *ScheduleController) UpcomingStudySessions(c *fiber.Ctx) error {
	userID, err := utils.UserID(c)
	if err != nil {
		return err
	}

	now := sc.Now().UTC()
	var sessions []models.StudySession
	if err := sc.DB.Where("user_id = ? AND completed = ? AND date >= ?", userID, false, now).
		Find(&sessions).Error; err != nil {
		return errors.Wrap(err, "loading study sessions")
	}
	return utils.Success(c, fiber.StatusOK, services.UpcomingStudySessions(sessions, now))
}

// AddStudySession godoc
// @Summary Plan a study session
// @Tags schedule
// @Accept json
// @Produce json
// @Param input body StudySessionRequest true "Study session, date as YYYY-MM-DD or RFC 3339"
// @Success 201 {object} utils.SuccessResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /schedule/sessions [post]
func (sc *ScheduleController) AddStudySession(c *fiber.Ctx) error {
	userID, err := utils.UserID(c)
	if err != nil {
		return err
	}

	var input StudySessionRequest
	if err := parseBody(c, &input); err != nil {
		return err
	}
	date, err := parseSessionDate(input.Date)
	if err != nil {
		return utils.NewValidationError("Invalid date",
			utils.FieldError{Field: "date", Error: "date must be YYYY-MM-DD or RFC 3339"})
	}
	if input.Duration == 0 {
		input.Duration = defaultSessionMinutes
	}

	session := models.StudySession{
		UserID:    userID,
		Date:      date,
		Subject:   strings.TrimSpace(input.Subject),
		Duration:  input.Duration,
		FocusArea: input.FocusArea,
	}
	if err := sc.DB.Create(&session).Error; err != nil {
		return errors.Wrap(err, "saving study session")
	}
	return utils.Created(c, session)
}

// ToggleStudySession godoc
// @Summary Flip a study session between open and completed
// @Tags schedule
// @Produce json
// @Param id path int true "Study session ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /schedule/sessions/{id}/toggle [put]
func (sc *ScheduleController) ToggleStudySession(c *fiber.Ctx) error {
	userID, err := utils.UserID(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	var session models.StudySession
	if err := sc.DB.Where("id = ? AND user_id = ?", id, userID).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NewRequestError(fiber.StatusNotFound, "Study session not found")
		}
		return errors.Wrap(err, "loading study session")
	}

	session.Completed = !session.Completed
	if err := sc.DB.Model(&session).Update("completed", session.Completed).Error; err != nil {
		return errors.Wrap(err, "updating study session")
	}
	return utils.Success(c, fiber.StatusOK, session)
}

// DeleteStudySession godoc
// @Summary Delete a study session
// @Tags schedule
// @Param id path int true "Study session ID"
// @Success 204
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /schedule/sessions/{id} [delete]
func (sc *ScheduleController) DeleteStudySession(c *fiber.Ctx) error {
	userID, err := utils.UserID(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	res := sc.DB.Where("id = ? AND user_id = ?", id, userID).Delete(&models.StudySession{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "deleting study session")
	}
	if res.RowsAffected == 0 {
		return utils.NewRequestError(fiber.StatusNotFound, "Study session not found")
	}
	return utils.NoContent(c)
}

func parseSessionDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	d, err := validation.ParseDate(s)
	if err != nil {
		return time.Time{}, err
	}
	if d == nil {
		return time.Time{}, errors.New("empty date")
	}
	return *d, nil
}
