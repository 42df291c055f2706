package dto

import (
	"encoding/json"
	"time"
)

// SyncEventRequest é um evento do lote enviado pelo PDV
type SyncEventRequest struct {
	ID        string          `json:"id" example:"lq3k2m9a-1f2e3d4c-9a8b7c6d5e4f"`
	Payload   json.RawMessage `json:"payload" swaggertype:"object"`
	CreatedAt time.Time       `json:"createdAt"`
}

// SyncRequest é o corpo de POST /sync/{type}
type SyncRequest struct {
	Events []SyncEventRequest `json:"events" binding:"required"`
}

// SyncItemError é o veredito de erro de um evento
type SyncItemError struct {
	ID    string `json:"id"`
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// SyncResponse é o resultado do lote
type SyncResponse struct {
	Synced  int             `json:"synced"`
	Skipped int             `json:"skipped"`
	Errors  []SyncItemError `json:"errors"`
}
