package dto

import (
	"errors"
	"net/http"

	"github.com/hugohenrick/pdv-sync/internal/domain/ledger"
	"github.com/hugohenrick/pdv-sync/pkg/apperror"
)

// ErrorResponse representa a estrutura de resposta para erros
type ErrorResponse struct {
	Code       int                `json:"code"`
	Message    string             `json:"message"`
	Details    string             `json:"details,omitempty"`
	Kind       string             `json:"kind,omitempty"`
	Shortfalls []ledger.Shortfall `json:"shortfalls,omitempty"`
}

// SuccessResponse representa a estrutura de resposta para operações bem-sucedidas
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// NewErrorResponse cria uma nova resposta de erro
func NewErrorResponse(code int, message, details string) ErrorResponse {
	return ErrorResponse{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// NewSuccessResponse cria uma nova resposta de sucesso
func NewSuccessResponse(message string, data interface{}) SuccessResponse {
	return SuccessResponse{
		Message: message,
		Data:    data,
	}
}

// StatusFor mapeia a categoria do erro para o status HTTP
func StatusFor(err error) int {
	switch apperror.KindOf(err) {
	case apperror.KindValidation, apperror.KindInsufficientStock:
		return http.StatusBadRequest
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindDuplicate:
		return http.StatusConflict
	case apperror.KindTransientNetwork:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// FromError monta a resposta de erro; erros internos não expõem detalhes
func FromError(message string, err error) (int, ErrorResponse) {
	status := StatusFor(err)
	resp := NewErrorResponse(status, message, err.Error())
	resp.Kind = string(apperror.KindOf(err))

	if status == http.StatusInternalServerError {
		resp.Details = "erro interno"
	}

	var stockErr *ledger.InsufficientStockError
	if errors.As(err, &stockErr) {
		resp.Shortfalls = stockErr.Lines
	}
	return status, resp
}
