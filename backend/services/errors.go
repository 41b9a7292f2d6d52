package services

import (
	"studyhub/backend/utils"

	"github.com/gofiber/fiber/v2"
)

var (
	ErrCourseNotSelected  = utils.NewRequestError(fiber.StatusForbidden, "You have not selected this course")
	ErrNoMatchingQuestion = utils.NewRequestError(fiber.StatusNotFound, "No questions match your selected criteria")
	ErrWrongCourse        = utils.NewRequestError(fiber.StatusBadRequest, "Test is for a different course")
	ErrSessionNotFound    = utils.NewRequestError(fiber.StatusNotFound, "Test session not found or expired")
	ErrResultNotFound     = utils.NewRequestError(fiber.StatusNotFound, "Test results not found or expired")
	ErrNotInSession       = utils.NewRequestError(fiber.StatusBadRequest, "Question is not part of this test")
	ErrCourseNotFound     = utils.NewRequestError(fiber.StatusNotFound, "Course not found")
	ErrAlreadySelected    = utils.NewRequestError(fiber.StatusConflict, "Course already selected")
	ErrInvalidStatus      = utils.NewRequestError(fiber.StatusBadRequest, "status must be done, incorrect or unattempted")
	ErrUserTestNotFound   = utils.NewRequestError(fiber.StatusNotFound, "Test not found")
)
