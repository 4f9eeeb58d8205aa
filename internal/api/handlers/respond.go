package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/chynybekuuludastan/content_mapper/internal/service/analysis"
	"github.com/chynybekuuludastan/content_mapper/internal/service/export"
	"github.com/chynybekuuludastan/content_mapper/internal/service/llm"
	"github.com/chynybekuuludastan/content_mapper/internal/service/llm/prompts"
	"github.com/chynybekuuludastan/content_mapper/internal/service/llm/validation"
	"github.com/chynybekuuludastan/content_mapper/internal/storage"
	"github.com/chynybekuuludastan/content_mapper/internal/storage/images"
)

// statusFor maps a service error to an HTTP status code
func statusFor(err error) int {
	switch {
	case errors.Is(err, analysis.ErrNoImage),
		errors.Is(err, analysis.ErrNoImages),
		errors.Is(err, analysis.ErrUnsupportedImage),
		errors.Is(err, analysis.ErrMissingContent),
		errors.Is(err, analysis.ErrMissingFeedback),
		errors.Is(err, prompts.ErrMissingAudience),
		errors.Is(err, prompts.ErrMissingKeywords),
		errors.Is(err, export.ErrUnsupportedFormat),
		errors.Is(err, storage.ErrInvalidSnapshot),
		errors.Is(err, ErrUploadTooLarge):
		return fiber.StatusBadRequest
	case errors.Is(err, storage.ErrRecordNotFound),
		errors.Is(err, images.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, analysis.ErrSuperseded):
		return fiber.StatusConflict
	case errors.Is(err, llm.ErrBudgetExceeded),
		errors.Is(err, llm.ErrRateLimitExceeded):
		return fiber.StatusTooManyRequests
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusGatewayTimeout
	case errors.Is(err, validation.ErrInvalidModelResponse),
		errors.Is(err, llm.ErrResponseProcessing),
		errors.Is(err, llm.ErrAPIRequestFailed):
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}

// errorResponse writes err with the status statusFor picks. Invalid model
// responses carry their field-level issues.
func errorResponse(c *fiber.Ctx, err error) error {
	body := fiber.Map{
		"success": false,
		"error":   err.Error(),
	}

	var verr *validation.ValidationError
	if errors.As(err, &verr) {
		body["issues"] = verr.Issues
	}

	return c.Status(statusFor(err)).JSON(body)
}

// readResponse writes a storage read. A degraded read still succeeds with the
// fallback value and says so.
func readResponse[T any](c *fiber.Ctx, read storage.Read[T]) error {
	body := fiber.Map{
		"success": true,
		"data":    read.Value,
	}
	if read.Degraded() {
		body["degraded"] = true
		body["warning"] = read.Err.Error()
	}
	return c.JSON(body)
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}
