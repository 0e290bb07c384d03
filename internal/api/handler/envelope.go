package handler

import (
	"github.com/labstack/echo/v4"
)

// FieldViolation describes one rejected input. Field is empty for
// violations that are not tied to a single field.
type FieldViolation struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Envelope is the JSON body of every API response.
type Envelope struct {
	Success bool             `json:"success"`
	Message string           `json:"message,omitempty"`
	Data    any              `json:"data,omitempty"`
	Errors  []FieldViolation `json:"errors,omitempty"`
}

func respondData(c echo.Context, status int, data any) error {
	return c.JSON(status, Envelope{Success: true, Data: data})
}

func respondMessage(c echo.Context, status int, msg string) error {
	return c.JSON(status, Envelope{Success: true, Message: msg})
}

// Fail writes a failed envelope carrying a single violation with msg.
func Fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, Envelope{Success: false, Errors: []FieldViolation{{Message: msg}}})
}

func failFields(c echo.Context, status int, violations []FieldViolation) error {
	return c.JSON(status, Envelope{Success: false, Errors: violations})
}
