package handlers

import (
	"tuplepay/internal/middleware"
	"tuplepay/internal/services/transaction"
	"tuplepay/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type TransactionHandler struct {
	transactionService transaction.Service
}

func NewTransactionHandler(transactionService transaction.Service) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

// ListTransactions returns the ledger of :username. Only its holder may read it.
func (h *TransactionHandler) ListTransactions(c *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return utils.Unauthorized(c, "invalid claims")
	}
	if !claims.Owns(c.Params("username")) {
		return utils.Forbidden(c, "access denied")
	}

	txs, err := h.transactionService.ListTransactions(c.UserContext(), claims.AccountID)
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Success(c, fiber.Map{
		"transactions": txs,
		"count":        len(txs),
	})
}

func (h *TransactionHandler) ListCashbacks(c *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return utils.Unauthorized(c, "invalid claims")
	}
	if !claims.Owns(c.Params("username")) {
		return utils.Forbidden(c, "access denied")
	}

	txs, err := h.transactionService.ListCashbacks(c.UserContext(), claims.AccountID)
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Success(c, fiber.Map{
		"cashbacks": txs,
		"count":     len(txs),
	})
}

func (h *TransactionHandler) GetTransaction(c *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return utils.Unauthorized(c, "invalid claims")
	}

	tx, err := h.transactionService.GetTransaction(c.UserContext(), claims.AccountID, c.Params("id"))
	if err != nil {
		return utils.Error(c, err)
	}

	return utils.Success(c, fiber.Map{
		"transaction": tx,
	})
}
