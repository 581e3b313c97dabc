package idempotency

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/agamariel/bankdash/internal/auth"
	"github.com/labstack/echo/v4"
)

const (
	// HeaderKey - заголовок запроса с клиентским ключом.
	HeaderKey = "Idempotency-Key"
	// HeaderReplayed выставляется в ответах, взятых из кэша.
	HeaderReplayed = "X-Idempotency-Replayed"

	maxKeyLength = 255
)

// Middleware возвращает сохранённый ответ для повторного Idempotency-Key
// и сохраняет успешные ответы новых запросов. Запросы без ключа проходят как есть.
// Пока запрос с ключом выполняется, его дубликаты получают 409.
func Middleware(store Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			clientKey := c.Request().Header.Get(HeaderKey)
			if clientKey == "" {
				return next(c)
			}
			if len(clientKey) > maxKeyLength {
				return echo.NewHTTPError(http.StatusBadRequest, "idempotency key is too long")
			}

			owner := "anonymous"
			if userID, err := auth.GetUserIDFromContext(c); err == nil {
				owner = userID.String()
			}
			key := Key(owner, clientKey)
			fingerprint := c.Request().Method + " " + c.Request().URL.Path
			ctx := c.Request().Context()

			cached, err := store.Get(ctx, key)
			if err != nil {
				c.Logger().Errorf("idempotency lookup failed: %v", err)
			}
			if cached != nil {
				return replay(c, cached, fingerprint)
			}

			claimed, err := store.Claim(ctx, key, fingerprint)
			switch {
			case err != nil:
				// Без хранилища запрос выполняется без защиты от дублей
				c.Logger().Errorf("idempotency claim failed: %v", err)
			case !claimed:
				// Ключ заняли между Get и Claim
				if cached, err := store.Get(ctx, key); err == nil && cached != nil {
					return replay(c, cached, fingerprint)
				}
				return inProgress()
			}

			return serve(c, next, store, key, fingerprint)
		}
	}
}

func replay(c echo.Context, cached *Response, fingerprint string) error {
	if cached.Fingerprint != fingerprint {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "idempotency key was used for a different request")
	}
	if cached.Pending() {
		return inProgress()
	}
	c.Response().Header().Set(HeaderReplayed, "true")
	return c.Blob(cached.Status, cached.ContentType, cached.Body)
}

func inProgress() error {
	return echo.NewHTTPError(http.StatusConflict, "request with this idempotency key is still in progress")
}

// serve выполняет handler и сохраняет ответ. Неудачный ответ освобождает ключ.
func serve(c echo.Context, next echo.HandlerFunc, store Store, key, fingerprint string) error {
	ctx := c.Request().Context()

	body := new(bytes.Buffer)
	original := c.Response().Writer
	c.Response().Writer = &captureWriter{Writer: io.MultiWriter(original, body), ResponseWriter: original}
	defer func() { c.Response().Writer = original }()

	if err := next(c); err != nil {
		release(c, store, key)
		return err
	}

	status := c.Response().Status
	if status >= http.StatusInternalServerError {
		release(c, store, key)
		return nil
	}

	resp := &Response{
		Fingerprint: fingerprint,
		Status:      status,
		ContentType: c.Response().Header().Get(echo.HeaderContentType),
		Body:        body.Bytes(),
	}
	if err := store.Save(ctx, key, resp); err != nil {
		c.Logger().Errorf("idempotency save failed: %v", err)
	}
	return nil
}

func release(c echo.Context, store Store, key string) {
	// Клиент мог уже отключиться, а ключ всё равно нужно вернуть
	if err := store.Release(context.WithoutCancel(c.Request().Context()), key); err != nil {
		c.Logger().Errorf("idempotency release failed: %v", err)
	}
}

// captureWriter дублирует тело ответа в буфер.
type captureWriter struct {
	io.Writer
	http.ResponseWriter
}

func (w *captureWriter) WriteHeader(code int) {
	w.ResponseWriter.WriteHeader(code)
}

func (w *captureWriter) Write(b []byte) (int, error) {
	return w.Writer.Write(b)
}

func (w *captureWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
