// Package response renders the JSON envelope shared by every endpoint:
// {"status": "success"|"error", "message": "...", "data": {...}}.
package response

import "github.com/labstack/echo/v4"

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope is the body of every API response.
type Envelope struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// Success writes a success envelope with the given HTTP status.
func Success(c echo.Context, code int, message string, data any) error {
	return c.JSON(code, Envelope{Status: StatusSuccess, Message: message, Data: data})
}

// Error writes an error envelope with the given HTTP status.
func Error(c echo.Context, code int, message string) error {
	return c.JSON(code, Envelope{Status: StatusError, Message: message})
}
