package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/agamariel/bankdash/internal/models"
	"github.com/agamariel/bankdash/internal/services"
	"github.com/agamariel/bankdash/internal/storage"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// MoneyHandler обрабатывает списания и пополнения.
type MoneyHandler struct {
	moneyService services.MoneyService
}

// NewMoneyHandler создаёт новый handler.
func NewMoneyHandler(moneyService services.MoneyService) *MoneyHandler {
	return &MoneyHandler{moneyService: moneyService}
}

type moneyOperation func(ctx context.Context, accountID uuid.UUID, req models.MoneyRequest) (*models.Transaction, error)

// Withdraw обрабатывает POST /api/accounts/:id/withdrawals.
func (h *MoneyHandler) Withdraw(c echo.Context) error {
	return h.handle(c, h.moneyService.Withdraw, "Withdrawal processed successfully")
}

// Deposit обрабатывает POST /api/accounts/:id/deposits.
func (h *MoneyHandler) Deposit(c echo.Context) error {
	return h.handle(c, h.moneyService.Deposit, "Deposit processed successfully")
}

func (h *MoneyHandler) handle(c echo.Context, op moneyOperation, message string) error {
	accountID, err := parseAccountID(c)
	if err != nil {
		return err
	}

	var req models.MoneyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	row, err := op(c.Request().Context(), accountID, req)
	if err != nil {
		if he, ok := bankingHTTPError(err); ok {
			return he
		}
		switch {
		case errors.Is(err, storage.ErrAccountNotFound):
			return accountNotFound()
		case errors.Is(err, storage.ErrConcurrentUpdate):
			return echo.NewHTTPError(http.StatusConflict, "account is being modified, retry later")
		case errors.Is(err, storage.ErrNegativeBalance):
			return echo.NewHTTPError(http.StatusConflict, "balance would become negative")
		default:
			c.Logger().Errorf("failed to process operation: %v", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		}
	}

	return c.JSON(http.StatusCreated, &models.MoneyResponse{
		Success:     true,
		Message:     message,
		Transaction: row.ToResponse(),
	})
}
