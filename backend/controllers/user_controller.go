package controllers

import (
	"strings"

	"studyhub/backend/config"
	"studyhub/backend/models"
	"studyhub/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewUserController(db *gorm.DB, cfg *config.Config) *UserController {
	return &UserController{DB: db, Cfg: cfg}
}

type UpdateUserRequest struct {
	Username        string `json:"username" validate:"omitempty,min=3,max=32"`
	Email           string `json:"email" validate:"omitempty,email"`
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password" validate:"omitempty,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required_with=NewPassword"`
}

// GetProfile godoc
// @Summary Get user profile
// @Tags users
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /user/profile [get]
func (uc *UserController) GetProfile(c *fiber.Ctx) error {
	userID, err := utils.UserID(c)
	if err != nil {
		return err
	}

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		return errors.Wrap(err, "loading user")
	}

	var selected int64
	if err := uc.DB.Model(&models.SelectedCourse{}).Where("user_id = ?", userID).Count(&selected).Error; err != nil {
		return errors.Wrap(err, "counting selected courses")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"id":               user.ID,
		"username":         user.Username,
		"email":            user.Email,
		"role":             user.Role,
		"created_at":       user.CreatedAt,
		"selected_courses": selected,
	})
}

// UpdateProfile godoc
// @Summary Update user profile
// @Tags users
// @Accept json
// @Produce json
// @Param input body UpdateUserRequest true "Profile update data"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /user/profile [put]
func (uc *UserController) UpdateProfile(c *fiber.Ctx) error {
	userID, err := utils.UserID(c)
	if err != nil {
		return err
	}

	var input UpdateUserRequest
	if err := parseBody(c, &input); err != nil {
		return err
	}

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		return errors.Wrap(err, "loading user")
	}

	if input.Username != "" && input.Username != user.Username {
		if taken, err := uc.taken("username", input.Username, user.ID); err != nil {
			return err
		} else if taken {
			return utils.NewRequestError(fiber.StatusBadRequest, "Username already taken")
		}
		user.Username = input.Username
	}

	if email := strings.ToLower(input.Email); email != "" && email != user.Email {
		if taken, err := uc.taken("email", email, user.ID); err != nil {
			return err
		} else if taken {
			return utils.NewRequestError(fiber.StatusBadRequest, "Email already taken")
		}
		user.Email = email
	}

	if input.NewPassword != "" {
		if input.NewPassword != input.ConfirmPassword {
			return utils.NewValidationError("Passwords do not match",
				utils.FieldError{Field: "confirm_password", Error: "Passwords do not match"})
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.CurrentPassword)); err != nil {
			return utils.NewRequestError(fiber.StatusUnauthorized, "Invalid current password")
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return errors.Wrap(err, "hashing password")
		}
		user.PasswordHash = string(hashed)
	}

	if err := uc.DB.Save(&user).Error; err != nil {
		return errors.Wrap(err, "updating user")
	}

	return utils.Message(c, "Profile updated successfully", fiber.Map{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
	})
}

func (uc *UserController) taken(column, value string, self uint) (bool, error) {
	var n int64
	err := uc.DB.Model(&models.User{}).Where(column+" = ? AND id <> ?", value, self).Count(&n).Error
	return n > 0, errors.Wrapf(err, "checking %s", column)
}
