package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
)

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse is the body of mutations without payload.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// DataResponse wraps a payload.
type DataResponse struct {
	Data any `json:"data"`
}

// JSONError writes an ErrorResponse with status.
func JSONError(c fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ErrorResponse{Error: msg})
}

// Success writes {"success": true}.
func Success(c fiber.Ctx) error {
	return c.JSON(SuccessResponse{Success: true})
}

// Data writes {"data": v}.
func Data(c fiber.Ctx, v any) error {
	return c.JSON(DataResponse{Data: v})
}

// ErrorHandler renders errors that reach the fiber app as ErrorResponse.
func ErrorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := err.Error()

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	}

	return JSONError(c, code, msg)
}
