package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/playtube/playtube-api/internal/apperror"
	"github.com/playtube/playtube-api/internal/lib/sl"
	"github.com/playtube/playtube-api/internal/user/dto"
)

// NewErrorHandler translates errors into the uniform JSON envelope. Status
// codes are assigned here and nowhere else.
func NewErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if appErr, ok := apperror.As(err); ok {
			if appErr.Kind == apperror.KindInternal {
				logger.Error("request failed", slog.String("path", c.Path()), sl.Err(err))
			}
			return c.Status(appErr.Status()).JSON(dto.Fail(appErr.Message))
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(dto.Fail(fiberErr.Message))
		}

		logger.Error("unhandled error", slog.String("path", c.Path()), sl.Err(err))

		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("internal server error"))
	}
}
