package controllers

import (
	"errors"

	"github.com/labstack/echo/v4"

	"codechat/config"
	"codechat/internal/apperrors"
)

// respondError translates an application error into the JSON error envelope.
// Server-side failures get a generic message; the underlying detail is only
// exposed outside production.
func respondError(c echo.Context, cfg *config.Config, err error) error {
	status := apperrors.HTTPStatus(err)

	body := map[string]interface{}{
		"error": errorMessage(err),
	}
	if status >= 500 && !cfg.IsProduction() {
		body["details"] = err.Error()
	}

	return c.JSON(status, body)
}

// errorMessage returns the typed error's message without its cause chain,
// or a generic message for untyped errors.
func errorMessage(err error) string {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Internal server error"
}
