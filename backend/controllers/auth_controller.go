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

type AuthController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewAuthController(db *gorm.DB, cfg *config.Config) *AuthController {
	return &AuthController{DB: db, Cfg: cfg}
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param user body RegisterRequest true "User registration data"
// @Success 201 {object} utils.SuccessResponse
// @Failure 409 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Router /auth/register [post]
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var input RegisterRequest
	if err := parseBody(c, &input); err != nil {
		return err
	}

	var taken int64
	if err := ac.DB.Model(&models.User{}).
		Where("username = ? OR email = ?", input.Username, strings.ToLower(input.Email)).
		Count(&taken).Error; err != nil {
		return errors.Wrap(err, "checking user")
	}
	if taken > 0 {
		return utils.NewRequestError(fiber.StatusConflict, "Username or email already taken")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "hashing password")
	}

	user := models.User{
		Username:     input.Username,
		Email:        strings.ToLower(input.Email),
		PasswordHash: string(hashedPassword),
		Role:         models.RoleUser,
	}
	if err := ac.DB.Create(&user).Error; err != nil {
		return errors.Wrap(err, "creating user")
	}

	return ac.tokenResponse(c, fiber.StatusCreated, user)
}

// Login godoc
// @Summary User login
// @Description Authenticate user and return JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} utils.SuccessResponse
// @Failure 401 {object} utils.ErrorResponse
// @Router /auth/login [post]
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var input LoginRequest
	if err := parseBody(c, &input); err != nil {
		return err
	}

	var user models.User
	if err := ac.DB.Where("username = ?", input.Username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NewRequestError(fiber.StatusUnauthorized, "Invalid credentials")
		}
		return errors.Wrap(err, "loading user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return utils.NewRequestError(fiber.StatusUnauthorized, "Invalid credentials")
	}

	return ac.tokenResponse(c, fiber.StatusOK, user)
}

func (ac *AuthController) tokenResponse(c *fiber.Ctx, status int, user models.User) error {
	token, err := utils.GenerateJWTToken(user.ID, user.Role, ac.Cfg)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return utils.Success(c, status, fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"role":     user.Role,
		},
	})
}
