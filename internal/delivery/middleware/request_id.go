package middleware

import (
	"log/slog"

	deliverycontext "alerts/internal/delivery/context"

	"github.com/labstack/echo/v4"
)

// RequestIDMiddleware tags every request with an ID and a logger carrying it
type RequestIDMiddleware struct {
	logger *slog.Logger
}

func NewRequestIDMiddleware(logger *slog.Logger) *RequestIDMiddleware {
	return &RequestIDMiddleware{
		logger: logger,
	}
}

// Process keeps a well-formed X-Request-Id from the caller, replaces anything
// else with a UUID, and echoes the result back.
func (m *RequestIDMiddleware) Process(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		requestID := deliverycontext.FirstRequestID(req.Header.Get(deliverycontext.HeaderXRequestID))

		c.Set(string(deliverycontext.KeyRequestID), requestID)
		c.Response().Header().Set(deliverycontext.HeaderXRequestID, requestID)

		ctx, _ := deliverycontext.Attach(req.Context(), m.logger, requestID)
		c.SetRequest(req.WithContext(ctx))

		return next(c)
	}
}
