package serverutils

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// ValidateRequest checks struct tags and converts failures into a fiber 400
// so the error middleware can render them.
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		messages := make([]string, 0, len(validationErrors))
		for _, fieldErr := range validationErrors {
			messages = append(messages, fmt.Sprintf(
				"field '%s' failed on the '%s' rule", fieldErr.Field(), fieldErr.Tag(),
			))
		}
		return &ValidationError{Messages: messages}
	}
	return nil
}

type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "request validation failed"
}
