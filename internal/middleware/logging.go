package middleware

import (
	"time"

	"github.com/ashmitsharp/moneylens-api/internal/logger"
	"github.com/ashmitsharp/moneylens-api/internal/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"
)

// RequestLogger logs one line per request and puts a request-scoped logger
// into the user context.
func RequestLogger(log zerolog.Logger) fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		requestID := c.GetRespHeader(fiber.HeaderXRequestID)

		reqLog := log.With().Str("request_id", requestID).Logger()
		c.SetContext(logger.WithContext(c.Context(), reqLog))

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			// The error handler writes the final status after the chain returns
			status = utils.FromError(err).StatusCode
		}

		event := reqLog.Info()
		if status >= fiber.StatusInternalServerError {
			event = reqLog.Error().Err(err)
		} else if status >= fiber.StatusBadRequest {
			event = reqLog.Warn()
		}

		event.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Str("remote_addr", c.IP()).
			Msg("HTTP request")

		return err
	}
}
