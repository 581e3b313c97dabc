package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/agamariel/bankdash/internal/models"
	"github.com/agamariel/bankdash/internal/services"
	"github.com/agamariel/bankdash/internal/storage"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// TransactionHandler отдаёт историю операций.
type TransactionHandler struct {
	transactionService services.TransactionService
}

func NewTransactionHandler(transactionService services.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// ListByAccount обрабатывает GET /api/accounts/:id/transactions.
func (h *TransactionHandler) ListByAccount(c echo.Context) error {
	accountID, err := parseAccountID(c)
	if err != nil {
		return err
	}
	return h.list(c, &accountID)
}

// List обрабатывает GET /api/transactions.
func (h *TransactionHandler) List(c echo.Context) error {
	return h.list(c, nil)
}

func (h *TransactionHandler) list(c echo.Context, accountID *uuid.UUID) error {
	limit, err := parseLimit(c)
	if err != nil {
		return err
	}

	list, err := h.transactionService.ListTransactions(c.Request().Context(), accountID, limit)
	if err != nil {
		if errors.Is(err, storage.ErrAccountNotFound) {
			return accountNotFound()
		}
		c.Logger().Errorf("failed to list transactions: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	response := make([]*models.TransactionResponse, 0, len(list))
	for _, t := range list {
		response = append(response, t.ToResponse())
	}
	return c.JSON(http.StatusOK, response)
}

// parseLimit читает ?limit=; отсутствие параметра означает лимит по умолчанию.
func parseLimit(c echo.Context) (int, error) {
	raw := c.QueryParam("limit")
	if raw == "" {
		return storage.DefaultTransactionLimit, nil
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 || limit > storage.MaxTransactionLimit {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "limit must be between 1 and "+strconv.Itoa(storage.MaxTransactionLimit))
	}
	return limit, nil
}
