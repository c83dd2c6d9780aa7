package handler

import "github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/interfaces/http/dto"

// APIResponse is the documented shape of every /api response. Handlers write
// it through dto.Response; this type exists so swag can render typed data.
// @Description Envelope with typed data, paging meta on list endpoints
type APIResponse[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data,omitempty"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
	Meta    *dto.Meta      `json:"meta,omitempty"`
}

// ErrorResponse is the documented failure envelope
// @Description Failure envelope; error.code is one of the ERR_* codes
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
}
