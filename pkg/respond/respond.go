// Package respond defines the JSON envelopes used by every handler and the
// echo error handler that renders guard and middleware rejections.
package respond

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Success is the envelope for 2xx responses.
type Success struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Error is the envelope for every rejection: malformed request (400),
// authentication failure (401), authorization failure (403), domain
// validation failure (400/404), configuration failure (500).
type Error struct {
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// OK writes a 200 envelope.
func OK(c echo.Context, message string, data interface{}) error {
	return c.JSON(http.StatusOK, Success{Status: "success", Code: http.StatusOK, Message: message, Data: data})
}

// Created writes a 201 envelope.
func Created(c echo.Context, message string, data interface{}) error {
	return c.JSON(http.StatusCreated, Success{Status: "success", Code: http.StatusCreated, Message: message, Data: data})
}

// HTTPErrorHandler converts echo.HTTPError values (and anything else) into
// the fixed error envelope. Unexpected errors become a 500 with a generic
// message so internals never leak to clients.
func HTTPErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := "internal server error"

		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if msg, ok := he.Message.(string); ok {
				message = msg
			} else {
				message = http.StatusText(code)
			}
		} else {
			logger.Error().Err(err).
				Str("path", c.Request().URL.Path).
				Msg("unhandled error")
		}

		writeErr := c.JSON(code, Error{Status: "error", Code: code, Message: message})
		if writeErr != nil {
			logger.Error().Err(writeErr).Msg("failed to write error response")
		}
	}
}
