package handlers

import (
	"errors"
	"net/http"

	"github.com/agamariel/bankdash/internal/models"
	"github.com/agamariel/bankdash/internal/services"
	"github.com/agamariel/bankdash/internal/storage"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// AccountHandler обрабатывает HTTP-запросы для работы со счетами.
type AccountHandler struct {
	accountService services.AccountService
}

// NewAccountHandler создаёт новый handler.
func NewAccountHandler(accountService services.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// Create обрабатывает POST /api/accounts.
func (h *AccountHandler) Create(c echo.Context) error {
	var req models.CreateAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	account, err := h.accountService.CreateAccount(c.Request().Context(), req)
	if err != nil {
		if he, ok := bankingHTTPError(err); ok {
			return he
		}
		switch {
		case errors.Is(err, services.ErrEmptyAccountNumber),
			errors.Is(err, services.ErrEmptyOwner),
			errors.Is(err, services.ErrInvalidCurrency):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, storage.ErrAccountNumberExists):
			return echo.NewHTTPError(http.StatusConflict, "account number already exists")
		default:
			c.Logger().Errorf("failed to create account: %v", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		}
	}

	return c.JSON(http.StatusCreated, account.ToResponse())
}

// List обрабатывает GET /api/accounts.
func (h *AccountHandler) List(c echo.Context) error {
	accounts, err := h.accountService.ListAccounts(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("failed to list accounts: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	response := make([]*models.AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		response = append(response, a.ToResponse())
	}
	return c.JSON(http.StatusOK, response)
}

// Get обрабатывает GET /api/accounts/:id.
func (h *AccountHandler) Get(c echo.Context) error {
	id, err := parseAccountID(c)
	if err != nil {
		return err
	}

	account, err := h.accountService.GetAccount(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrAccountNotFound) {
			return accountNotFound()
		}
		c.Logger().Errorf("failed to get account: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, account.ToResponse())
}

// Delete обрабатывает DELETE /api/accounts/:id.
func (h *AccountHandler) Delete(c echo.Context) error {
	id, err := parseAccountID(c)
	if err != nil {
		return err
	}

	if err := h.accountService.DeleteAccount(c.Request().Context(), id); err != nil {
		if errors.Is(err, storage.ErrAccountNotFound) {
			return accountNotFound()
		}
		c.Logger().Errorf("failed to delete account: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.NoContent(http.StatusNoContent)
}

func parseAccountID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid account id")
	}
	return id, nil
}
