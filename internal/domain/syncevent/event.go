// Package syncevent define o envelope trocado entre o PDV e o endpoint de sincronização.
package syncevent

import (
	"encoding/json"
	"time"
)

// Type identifica o tipo de evento de domínio sincronizado
type Type string

const (
	TypeSale            Type = "sale"
	TypePurchase        Type = "purchase"
	TypeStockAdjustment Type = "stock-adjustment"
	TypeExpense         Type = "expense"
	TypeCustomer        Type = "customer"
	TypeUdhaarPayment   Type = "udhaar-payment"
)

// HeaderMaxBatch é o cabeçalho em que o servidor informa o tamanho máximo de lote aceito
const HeaderMaxBatch = "X-Sync-Max-Batch"

// DrainOrder é a ordem em que cada drenagem envia os tipos.
// Tipos que alteram estoque e cadastros vão antes das vendas.
var DrainOrder = []Type{
	TypeCustomer,
	TypeStockAdjustment,
	TypePurchase,
	TypeExpense,
	TypeSale,
	TypeUdhaarPayment,
}

// ParseType valida o nome de tipo recebido na rota
func ParseType(s string) (Type, bool) {
	for _, t := range DrainOrder {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// DomainEvent é um evento enfileirado no dispositivo.
// ID é o localId gerado no PDV e vira a chave de idempotência no servidor.
type DomainEvent struct {
	ID        string          `json:"id"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"createdAt"`
}

// BatchRequest é o corpo de POST /sync/:type
type BatchRequest struct {
	Events []DomainEvent `json:"events"`
}

// ItemError é o veredito de erro de um evento
type ItemError struct {
	ID    string `json:"id"`
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// BatchResult é a resposta de POST /sync/:type
type BatchResult struct {
	Synced  int         `json:"synced"`
	Skipped int         `json:"skipped"`
	Errors  []ItemError `json:"errors"`
}

// NewBatchResult retorna um resultado vazio com a lista de erros inicializada
func NewBatchResult() *BatchResult {
	return &BatchResult{Errors: []ItemError{}}
}

// ErrorByID indexa os erros pelo ID do evento
func (r *BatchResult) ErrorByID() map[string]ItemError {
	out := make(map[string]ItemError, len(r.Errors))
	for _, e := range r.Errors {
		out[e.ID] = e
	}
	return out
}
