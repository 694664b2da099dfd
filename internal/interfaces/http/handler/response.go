package handler

import "github.com/purchase-invoice/backend/internal/interfaces/http/dto"

// APIResponse represents a generic API response for OpenAPI documentation
// @Description Standard API response wrapper with typed data field
type APIResponse[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data,omitempty"`
	Message string         `json:"message,omitempty"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
	Meta    *dto.Meta      `json:"meta,omitempty"`
}

// ErrorResponse represents an error API response for OpenAPI documentation
// @Description Standard error response
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
}

// RejectedResponse is a rejected submission: an error envelope that still
// carries the stored invoice
// @Description Rejected invoice response
type RejectedResponse[T any] struct {
	Success bool           `json:"success" example:"false"`
	Data    T              `json:"data"`
	Message string         `json:"message" example:"Invoice rejected: limit exceeded"`
	Error   *dto.ErrorInfo `json:"error"`
}
