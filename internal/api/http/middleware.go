package http

import (
	"context"
	"errors"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/field-insights/internal/observability"
	apperrors "github.com/spec-kit/field-insights/pkg/util/errorutil"
)

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperrors.KindForbidden:
		return http.StatusForbidden
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindInvalidRange, apperrors.KindValidation:
		return http.StatusBadRequest
	case apperrors.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(observability.RequestLogger(logger, metrics))
	app.Use(errorHandlingMiddleware(logger, metrics))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err == nil {
				return
			}

			// routing errors such as an unknown path keep their own status
			var fe *fiber.Error
			if errors.As(err, &fe) {
				metrics.RecordError(c.Path(), c.Method(), http.StatusText(fe.Code))
				err = c.Status(fe.Code).JSON(fiber.Map{"error": fiber.Map{
					"code":    http.StatusText(fe.Code),
					"message": fe.Message,
				}})
				return
			}

			domainErr := apperrors.ToDomainError(err)
			status := StatusFor(domainErr.Kind)
			metrics.RecordError(c.Path(), c.Method(), string(domainErr.Kind))

			body := fiber.Map{
				"code":    string(domainErr.Kind),
				"message": domainErr.Message,
			}
			if len(domainErr.Details) > 0 {
				body["details"] = domainErr.Details
			}
			if status >= http.StatusInternalServerError {
				logger.Error("request failed", zap.String("path", c.Path()), zap.Error(domainErr))
			}
			err = c.Status(status).JSON(fiber.Map{"error": body})
		}()
		return c.Next()
	}
}
