package handlers

import (
	"errors"
	"fmt"

	"toko-checkout/internal/apperrors"
	"toko-checkout/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// retryAfterSeconds is sent with 503 answers.
const retryAfterSeconds = "1"

// respondError writes err with the status its type maps to.
func respondError(c *fiber.Ctx, log *zap.Logger, message string, err error) error {
	status := apperrors.HTTPStatus(err)
	body := fiber.Map{
		"message": message,
		"error":   err.Error(),
	}

	var ise *apperrors.InsufficientStockError
	if errors.As(err, &ise) {
		body["variant_id"] = ise.VariantID
		body["requested"] = ise.Requested
		body["available"] = ise.Available
	}
	if status == fiber.StatusServiceUnavailable {
		c.Set(fiber.HeaderRetryAfter, retryAfterSeconds)
	}

	fields := []zap.Field{
		zap.String("request_id", logger.RequestID(c)),
		zap.Int("status", status),
		zap.Error(err),
	}
	if status >= fiber.StatusInternalServerError {
		log.Error(message, fields...)
	} else {
		log.Debug(message, fields...)
	}
	return c.Status(status).JSON(body)
}

// badRequest answers a body that could not be parsed.
func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}

// validate checks v against its struct tags and answers 400 with a field map
// when it fails. It returns true when the handler may continue.
func validate(c *fiber.Ctx, v *validator.Validate, req interface{}) (bool, error) {
	err := v.Struct(req)
	if err == nil {
		return true, nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return false, badRequest(c, err)
	}
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}
