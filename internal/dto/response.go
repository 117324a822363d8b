package dto

import (
	"time"

	"github.com/spf13/viper"
)

// Response is the standard envelope every endpoint replies with.
type Response struct {
	Success   bool        `json:"success"`
	Status    int         `json:"status"`
	Data      interface{} `json:"data,omitempty"`
	Message   string      `json:"message,omitempty"`
	Errors    interface{} `json:"errors,omitempty"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
}

func NewOK(status int, data interface{}) Response {
	return Response{
		Success:   true,
		Status:    status,
		Data:      data,
		Version:   viper.GetString("app.version"),
		Timestamp: time.Now(),
	}
}

func NewError(status int, message string) Response {
	return Response{
		Success:   false,
		Status:    status,
		Message:   message,
		Version:   viper.GetString("app.version"),
		Timestamp: time.Now(),
	}
}

func NewValidationError(status int, message string, errors interface{}) Response {
	resp := NewError(status, message)
	resp.Errors = errors
	return resp
}
