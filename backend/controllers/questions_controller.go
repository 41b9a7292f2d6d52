package controllers

import (
	"encoding/json"

	"studyhub/backend/config"
	"studyhub/backend/importer"
	"studyhub/backend/models"
	"studyhub/backend/services"
	"studyhub/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type QuestionsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewQuestionsController(db *gorm.DB, cfg *config.Config) *QuestionsController {
	return &QuestionsController{DB: db, Cfg: cfg}
}

type CreateQuestionRequest struct {
	CourseName string `json:"course_name" validate:"required"`
	Category   string `json:"category" validate:"required"`
	Question   string `json:"question" validate:"required"`
	Answer     string `json:"answer"`
	Year       int    `json:"year" validate:"omitempty,min=1900,max=2100"`
	Professor  string `json:"professor"`
}

// UpdateQuestionRequest changes only the fields that are present. Category
// moves the question within its course.
type UpdateQuestionRequest struct {
	Category  *string `json:"category" validate:"omitempty,min=1"`
	Question  *string `json:"question" validate:"omitempty,min=1"`
	Answer    *string `json:"answer"`
	Year      *int    `json:"year" validate:"omitempty,min=1900,max=2100"`
	Professor *string `json:"professor"`
}

// statusRequest keeps "done" as raw JSON so that an explicit null can be told
// apart from a missing field.
type statusRequest struct {
	Done json.RawMessage `json:"done"`
}

func (r statusRequest) status() (models.QuestionStatus, error) {
	switch string(r.Done) {
	case "true":
		return models.StatusCorrect, nil
	case "false":
		return models.StatusIncorrect, nil
	case "null":
		return models.StatusUnanswered, nil
	}
	return "", utils.NewValidationError("done must be true, false or null",
		utils.FieldError{Field: "done", Error: "done must be true, false or null"})
}

// MarkQuestionStatus godoc
// @Summary Mark a question correct, incorrect/partial or unanswered
// @Tags questions
// @Accept json
// @Produce json
// @Param id path int true "Question ID"
// @Param input body object true "{\"done\": true|false|null}"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /questions/{id}/status [put]
func (qc *QuestionsController) MarkQuestionStatus(c *fiber.Ctx) error {
	userID, err := utils.UserID(c)
	if err != nil {
		return err
	}
	questionID, err := idParam(c, "id")
	if err != nil {
		return err
	}

	var input statusRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.NewRequestError(fiber.StatusBadRequest, "Cannot parse JSON")
	}
	status, err := input.status()
	if err != nil {
		return err
	}

	if _, err := qc.findQuestion(questionID); err != nil {
		return err
	}

	if err := services.SetQuestionStatus(qc.DB, userID, questionID, status.Done()); err != nil {
		return err
	}

	return utils.Message(c, "Question marked as "+status.Label(), fiber.Map{
		"id":     questionID,
		"done":   status.Done(),
		"status": status,
	})
}

// CreateQuestion godoc
// @Summary Add a question to a course category
// @Tags admin
// @Accept json
// @Produce json
// @Param input body CreateQuestionRequest true "Question"
// @Success 201 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/questions [post]
func (qc *QuestionsController) CreateQuestion(c *fiber.Ctx) error {
	var input CreateQuestionRequest
	if err := parseBody(c, &input); err != nil {
		return err
	}

	var category models.Category
	err := qc.DB.Where("course_name = ? AND name = ?", input.CourseName, input.Category).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.NewRequestError(fiber.StatusNotFound, "Category not found")
	}
	if err != nil {
		return errors.Wrap(err, "loading category")
	}

	question := models.Question{
		Text:       input.Question,
		Answer:     input.Answer,
		CategoryID: category.ID,
		Year:       input.Year,
		Professor:  input.Professor,
	}
	if err := qc.DB.Create(&question).Error; err != nil {
		return errors.Wrap(err, "creating question")
	}
	return utils.Created(c, question)
}

// UpdateQuestion godoc
// @Summary Edit a question
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "Question ID"
// @Param input body UpdateQuestionRequest true "Fields to change"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/questions/{id} [put]
func (qc *QuestionsController) UpdateQuestion(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var input UpdateQuestionRequest
	if err := parseBody(c, &input); err != nil {
		return err
	}

	question, err := qc.findQuestion(id)
	if err != nil {
		return err
	}

	if input.Category != nil {
		var current models.Category
		if err := qc.DB.First(&current, question.CategoryID).Error; err != nil {
			return errors.Wrap(err, "loading category")
		}
		var target models.Category
		err := qc.DB.Where("course_name = ? AND name = ?", current.CourseName, *input.Category).First(&target).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NewRequestError(fiber.StatusNotFound, "Category not found")
		}
		if err != nil {
			return errors.Wrap(err, "loading category")
		}
		question.CategoryID = target.ID
	}
	if input.Question != nil {
		question.Text = *input.Question
	}
	if input.Answer != nil {
		question.Answer = *input.Answer
	}
	if input.Year != nil {
		question.Year = *input.Year
	}
	if input.Professor != nil {
		question.Professor = *input.Professor
	}

	if err := qc.DB.Save(question).Error; err != nil {
		return errors.Wrap(err, "updating question")
	}
	return utils.Message(c, "Question updated", question)
}

// DeleteQuestion godoc
// @Summary Delete a question and every user's status for it
// @Tags admin
// @Param id path int true "Question ID"
// @Success 204
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/questions/{id} [delete]
func (qc *QuestionsController) DeleteQuestion(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if _, err := qc.findQuestion(id); err != nil {
		return err
	}

	err = qc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("question_id = ?", id).Delete(&models.QuestionProgress{}).Error; err != nil {
			return errors.Wrap(err, "deleting question statuses")
		}
		return errors.Wrap(tx.Unscoped().Delete(&models.Question{}, id).Error, "deleting question")
	})
	if err != nil {
		return err
	}
	return utils.NoContent(c)
}

func (qc *QuestionsController) findQuestion(id uint) (*models.Question, error) {
	var question models.Question
	if err := qc.DB.First(&question, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewRequestError(fiber.StatusNotFound, "Question not found")
		}
		return nil, errors.Wrap(err, "loading question")
	}
	return &question, nil
}

// ImportQuestions godoc
// @Summary Import a question bank from an .xlsx or .csv file
// @Description Columns: course, category, question, answer, year, professor. The first row is a header.
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Spreadsheet"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/questions/import [post]
func (qc *QuestionsController) ImportQuestions(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return utils.NewRequestError(fiber.StatusBadRequest, "Missing file")
	}
	file, err := header.Open()
	if err != nil {
		return errors.Wrap(err, "opening upload")
	}
	defer file.Close()

	result, err := importer.New(qc.DB, importer.DefaultConfig()).Import(file, header.Filename)
	if errors.Is(err, importer.ErrInvalidFile) {
		return utils.NewRequestError(fiber.StatusBadRequest, err.Error())
	}
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, result)
}
