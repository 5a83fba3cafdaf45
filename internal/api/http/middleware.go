package http

import (
	"context"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/user-service/internal/api/response"
	"github.com/spec-kit/user-service/internal/observability"
	"github.com/spec-kit/user-service/pkg/apperrors"
)

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, responses *response.Formatter, timeout time.Duration) {
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(observability.RequestLogger(logger, metrics))
	app.Use(errorHandlingMiddleware(logger, metrics, responses))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// errorHandlingMiddleware turns panics and returned errors into formatted
// error responses, so every failure leaves with the fixed header set.
func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics, responses *response.Formatter) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					zap.String("request_id", observability.RequestID(c)),
					zap.Any("panic", r),
					zap.ByteString("stack", debug.Stack()))
				err = fiber.NewError(fiber.StatusInternalServerError, "internal server error")
			}
			if err == nil {
				return
			}

			resp := responses.FromError(err)
			metrics.RecordError(c.Route().Path, c.Method(), errorCode(err, resp.StatusCode))
			if resp.StatusCode >= fiber.StatusInternalServerError {
				logger.Error("request failed",
					zap.String("request_id", observability.RequestID(c)),
					zap.Int("status", resp.StatusCode),
					zap.Error(err))
			}
			err = response.Send(c, resp)
		}()
		return c.Next()
	}
}

func errorCode(err error, status int) string {
	if appErr, ok := apperrors.As(err); ok {
		return appErr.Kind.String()
	}
	return strconv.Itoa(status)
}
