package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/agamariel/bankdash/internal/auth"
	"github.com/agamariel/bankdash/internal/models"
	"github.com/agamariel/bankdash/internal/services"
	"github.com/agamariel/bankdash/internal/storage"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// UserHandler обрабатывает HTTP-запросы для работы с пользователями.
type UserHandler struct {
	userService     services.UserService
	tokenExpiration time.Duration
}

// NewUserHandler создаёт новый экземпляр UserHandler.
func NewUserHandler(userService services.UserService, tokenExpiration time.Duration) *UserHandler {
	return &UserHandler{
		userService:     userService,
		tokenExpiration: tokenExpiration,
	}
}

// Register обрабатывает POST /api/user/register.
func (h *UserHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	user, token, err := h.userService.Register(c.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyCredentials),
			errors.Is(err, services.ErrInvalidEmail),
			errors.Is(err, services.ErrPasswordTooShort),
			errors.Is(err, auth.ErrPasswordTooLong):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, storage.ErrUsernameExists):
			return echo.NewHTTPError(http.StatusConflict, "username already exists")
		default:
			c.Logger().Errorf("failed to register user: %v", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		}
	}

	h.setAuthToken(c, token)

	return c.JSON(http.StatusOK, user.ToResponse())
}

// Login обрабатывает POST /api/user/login.
func (h *UserHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	user, token, err := h.userService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyCredentials):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrInvalidCredentials):
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
		case errors.Is(err, services.ErrUserInactive):
			return echo.NewHTTPError(http.StatusForbidden, "user is deactivated")
		default:
			c.Logger().Errorf("failed to login user: %v", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		}
	}

	h.setAuthToken(c, token)

	return c.JSON(http.StatusOK, user.ToResponse())
}

// List обрабатывает GET /api/users.
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.userService.ListUsers(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("failed to list users: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	response := make([]*models.UserResponse, 0, len(users))
	for _, u := range users {
		response = append(response, u.ToResponse())
	}
	return c.JSON(http.StatusOK, response)
}

// ChangePassword обрабатывает PUT /api/user/password.
func (h *UserHandler) ChangePassword(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req models.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	if err := h.userService.ChangePassword(c.Request().Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, services.ErrPasswordTooShort), errors.Is(err, auth.ErrPasswordTooLong):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrInvalidCredentials):
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid password")
		case errors.Is(err, storage.ErrUserNotFound):
			return echo.NewHTTPError(http.StatusUnauthorized, "user not found")
		default:
			c.Logger().Errorf("failed to change password: %v", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		}
	}

	return c.NoContent(http.StatusNoContent)
}

// Activate обрабатывает POST /api/users/:id/activate.
func (h *UserHandler) Activate(c echo.Context) error {
	return h.setActive(c, true)
}

// Deactivate обрабатывает POST /api/users/:id/deactivate.
func (h *UserHandler) Deactivate(c echo.Context) error {
	return h.setActive(c, false)
}

func (h *UserHandler) setActive(c echo.Context, active bool) error {
	actorID, targetID, err := h.actorAndTarget(c)
	if err != nil {
		return err
	}

	if err := h.userService.SetActive(c.Request().Context(), actorID, targetID, active); err != nil {
		return h.userModificationError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete обрабатывает DELETE /api/users/:id.
func (h *UserHandler) Delete(c echo.Context) error {
	actorID, targetID, err := h.actorAndTarget(c)
	if err != nil {
		return err
	}

	if err := h.userService.DeleteUser(c.Request().Context(), actorID, targetID); err != nil {
		return h.userModificationError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *UserHandler) actorAndTarget(c echo.Context) (uuid.UUID, uuid.UUID, error) {
	actorID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}

	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	return actorID, targetID, nil
}

func (h *UserHandler) userModificationError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, services.ErrSelfModification):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, storage.ErrUserNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	default:
		c.Logger().Errorf("failed to modify user: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}

// setAuthToken устанавливает токен в cookie и заголовок ответа.
func (h *UserHandler) setAuthToken(c echo.Context, token string) {
	maxAge := int(h.tokenExpiration.Seconds())
	if maxAge <= 0 {
		maxAge = 86400
	}

	c.SetCookie(&http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   maxAge,
	})

	// Также устанавливаем в заголовок для удобства
	c.Response().Header().Set("Authorization", "Bearer "+token)
}
