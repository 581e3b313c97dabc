package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/agamariel/bankdash/internal/models"
	"github.com/agamariel/bankdash/internal/storage"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ContextKey - тип для ключей контекста.
type ContextKey string

const (
	// UserIDKey - ID аутентифицированного пользователя.
	UserIDKey ContextKey = "user_id"
	// UsernameKey - его имя на момент запроса.
	UsernameKey ContextKey = "username"
)

// CookieName - cookie, которую выставляют register и login.
const CookieName = "Authorization"

// UserLookup загружает пользователя по ID. Его реализует storage.PostgresUserStorage.
type UserLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// JWTMiddleware пропускает запрос только с действующим токеном.
// Если users не nil, владелец токена перечитывается на каждый запрос:
// удалённый получает 401, деактивированный 403, не дожидаясь истечения токена.
func JWTMiddleware(secret string, users UserLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := requestToken(c)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid token")
			}

			claims, err := ValidateToken(token, secret)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			username := claims.Username
			if users != nil {
				user, err := activeUser(c, users, claims.UserID)
				if err != nil {
					return err
				}
				username = user.Username
			}

			c.Set(string(UserIDKey), claims.UserID)
			c.Set(string(UsernameKey), username)

			return next(c)
		}
	}
}

func activeUser(c echo.Context, users UserLookup, id uuid.UUID) (*models.User, error) {
	user, err := users.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, echo.NewHTTPError(http.StatusUnauthorized, "user no longer exists")
		}
		c.Logger().Errorf("failed to load token owner %s: %v", id, err)
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	if !user.IsActive {
		return nil, echo.NewHTTPError(http.StatusForbidden, "user is deactivated")
	}
	return user, nil
}

// requestToken берёт токен из заголовка, а если его нет, из cookie.
func requestToken(c echo.Context) string {
	if token := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization)); token != "" {
		return token
	}
	if cookie, err := c.Cookie(CookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// bearerToken разбирает "Bearer <token>". Любой другой формат даёт пустую строку.
func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") || token == "" || strings.Contains(token, " ") {
		return ""
	}
	return token
}

// GetUserIDFromContext извлекает ID пользователя из контекста.
func GetUserIDFromContext(c echo.Context) (uuid.UUID, error) {
	userID, ok := c.Get(string(UserIDKey)).(uuid.UUID)
	if !ok {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "user not found in context")
	}
	return userID, nil
}

// GetUsernameFromContext извлекает имя пользователя из контекста.
func GetUsernameFromContext(c echo.Context) (string, error) {
	username, ok := c.Get(string(UsernameKey)).(string)
	if !ok {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "user not found in context")
	}
	return username, nil
}
