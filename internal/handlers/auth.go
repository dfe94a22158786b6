package handlers

import (
	"tuplepay/internal/services/auth"
	"tuplepay/internal/utils"
	"tuplepay/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService auth.Service
	validator   *validation.Helper
}

func NewAuthHandler(authService auth.Service, validator *validation.Helper) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validator:   validator,
	}
}

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32,username"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required,password"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input registerRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}
	if err := h.validator.ValidateStruct(&input); err != nil {
		return utils.ValidationFailed(c, validation.Details(err))
	}

	account, err := h.authService.Register(c.UserContext(), input.Username, input.Email, input.Password)
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Created(c, fiber.Map{
		"message": "Account created",
		"account": account,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input loginRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}
	if err := h.validator.ValidateStruct(&input); err != nil {
		return utils.ValidationFailed(c, validation.Details(err))
	}

	account, token, err := h.authService.Login(c.UserContext(), input.Username, input.Password)
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Success(c, fiber.Map{
		"access_token": token,
		"token_type":   "Bearer",
		"account":      account,
	})
}
