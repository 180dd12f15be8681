package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const requestIDHeader = "X-Request-Id"

// RequestID tags every request with an id, echoed back in the response
// header, and binds a logger carrying that id into the echo context.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Request().Header.Get(requestIDHeader)
			if requestID == "" {
				requestID = uuid.New().String()
				c.Request().Header.Set(requestIDHeader, requestID)
			}
			c.Response().Header().Set(requestIDHeader, requestID)

			logger := log.With().
				Str("request_id", requestID).
				Logger()
			c.Set("logger", &logger)

			logger.Info().
				Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Str("remote_ip", c.RealIP()).
				Msg("Request received")

			return next(c)
		}
	}
}

// GetLogger returns the request-scoped logger, falling back to the global
// logger outside the RequestID middleware.
func GetLogger(c echo.Context) *zerolog.Logger {
	if logger, ok := c.Get("logger").(*zerolog.Logger); ok {
		return logger
	}
	return &log.Logger
}
