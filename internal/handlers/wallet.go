package handlers

import (
	"encoding/json"

	"tuplepay/internal/middleware"
	"tuplepay/internal/services/wallet"
	"tuplepay/internal/utils"
	"tuplepay/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type WalletHandler struct {
	walletService wallet.Service
	validator     *validation.Helper
}

func NewWalletHandler(walletService wallet.Service, validator *validation.Helper) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
		validator:     validator,
	}
}

// Amounts may be sent as a JSON number or a numeric string.
type rechargeRequest struct {
	Amount json.Number `json:"amount" validate:"required,amount"`
}

type transferRequest struct {
	ToUsername string      `json:"to_username" validate:"required"`
	Amount     json.Number `json:"amount" validate:"required,amount"`
}

func (h *WalletHandler) Recharge(c *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input rechargeRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}
	if err := h.validator.ValidateStruct(&input); err != nil {
		return utils.ValidationFailed(c, validation.Details(err))
	}
	amount, _ := validation.ParseAmount(input.Amount.String())

	result, err := h.walletService.Recharge(c.UserContext(), claims.AccountID, amount)
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Success(c, fiber.Map{
		"message":  "Recharge successful",
		"balance":  result.Balance,
		"cashback": result.Cashback,
	})
}

func (h *WalletHandler) Transfer(c *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input transferRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}
	if err := h.validator.ValidateStruct(&input); err != nil {
		return utils.ValidationFailed(c, validation.Details(err))
	}
	amount, _ := validation.ParseAmount(input.Amount.String())

	receiver, err := h.walletService.Transfer(c.UserContext(), claims.Username, input.ToUsername, amount)
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Success(c, fiber.Map{
		"message":  "Transfer successful",
		"receiver": receiver.Username,
		"amount":   amount,
	})
}

func (h *WalletHandler) Statement(c *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return utils.Unauthorized(c, "invalid claims")
	}

	account, err := h.walletService.ViewStatement(c.UserContext(), claims.AccountID)
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Success(c, fiber.Map{
		"account": account,
	})
}
