// Package client envia lotes de eventos ao servidor de registro.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hugohenrick/pdv-sync/internal/config"
	"github.com/hugohenrick/pdv-sync/internal/domain/syncevent"
	"github.com/hugohenrick/pdv-sync/pkg/apperror"
	"github.com/hugohenrick/pdv-sync/pkg/shopctx"
)

// Client expõe as operações do servidor usadas pelo orquestrador
type Client interface {
	PostBatch(ctx context.Context, shopID string, t syncevent.Type, events []syncevent.DomainEvent) (*syncevent.BatchResult, error)
	Health(ctx context.Context) error
}

// Cabeçalhos trocados com o endpoint de sincronização
const (
	HeaderShopID   = shopctx.HeaderShopID
	HeaderMaxBatch = syncevent.HeaderMaxBatch
)

var (
	// ErrNoShopToken indica que o dispositivo não tem token para a loja; nada é enviado
	ErrNoShopToken = errors.New("nenhum token configurado para a loja")
	// ErrShopForbidden indica que o servidor recusou o token para a loja (403)
	ErrShopForbidden = errors.New("token não autoriza a loja")
)

// BatchTooLargeError é a recusa de um lote maior que o limite do servidor.
// Os eventos não são inválidos; basta reenviá-los em lotes de até Max.
type BatchTooLargeError struct {
	Size int
	Max  int
}

func (e *BatchTooLargeError) Error() string {
	return fmt.Sprintf("lote com %d eventos excede o limite de %d do servidor", e.Size, e.Max)
}

// ErrorKind impede que o lote seja repetido sem ser dividido
func (e *BatchTooLargeError) ErrorKind() apperror.Kind {
	return apperror.KindValidation
}

// RejectedError é a recusa definitiva do lote inteiro (4xx fora 401, 403, 408 e 429).
// Reenviar o mesmo lote produziria a mesma resposta.
type RejectedError struct {
	StatusCode int
	Message    string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("lote recusado pelo servidor (%d): %s", e.StatusCode, e.Message)
}

// ErrorKind classifica a recusa como erro de validação, que não é repetido
func (e *RejectedError) ErrorKind() apperror.Kind {
	return apperror.KindValidation
}

// IsRejected verifica se err é uma recusa definitiva do lote
func IsRejected(err error) (*RejectedError, bool) {
	var rej *RejectedError
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}

// errorBody espelha dto.ErrorResponse
type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
}

// APIClient é a implementação de Client sobre resty
type APIClient struct {
	httpClient *resty.Client

	mu           sync.RWMutex
	defaultToken string
	tokens       map[string]string
}

var _ Client = (*APIClient)(nil)

// NewClient cria o cliente a partir da configuração do dispositivo
func NewClient(cfg config.DeviceConfig) *APIClient {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(cfg.APIURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("X-Device-ID", cfg.DeviceID).
		SetTimeout(timeout)

	c := &APIClient{httpClient: restyClient, defaultToken: cfg.Token, tokens: make(map[string]string)}
	for shopID, token := range cfg.ShopTokens {
		c.tokens[shopID] = token
	}
	return c
}

// SetShopToken registra o token da loja; lojas sem token usam o token padrão
func (c *APIClient) SetShopToken(shopID, token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens[shopID] = token
}

func (c *APIClient) tokenFor(shopID string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if token, ok := c.tokens[shopID]; ok {
		return token
	}
	return c.defaultToken
}

// HasShopToken informa se há token (próprio ou padrão) para enviar lotes da loja
func (c *APIClient) HasShopToken(shopID string) bool {
	return c.tokenFor(shopID) != ""
}

// PostBatch envia POST /sync/:type e devolve os vereditos por evento.
// A loja vai no cabeçalho X-Shop-ID; o servidor recusa com 403 um token de outra loja.
func (c *APIClient) PostBatch(ctx context.Context, shopID string, t syncevent.Type, events []syncevent.DomainEvent) (*syncevent.BatchResult, error) {
	token := c.tokenFor(shopID)
	if token == "" {
		return nil, apperror.Wrap(apperror.KindValidation, "loja "+shopID, ErrNoShopToken)
	}

	result := new(syncevent.BatchResult)
	apiErr := new(errorBody)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetHeader(HeaderShopID, shopID).
		SetBody(syncevent.BatchRequest{Events: events}).
		SetResult(result).
		SetError(apiErr).
		Post("/api/v1/sync/" + string(t))
	if err != nil {
		return nil, apperror.Wrap(apperror.KindTransientNetwork, "falha ao enviar lote", err)
	}

	if resp.StatusCode() == http.StatusBadRequest {
		if limit, _ := strconv.Atoi(resp.Header().Get(HeaderMaxBatch)); limit > 0 && len(events) > limit {
			return nil, &BatchTooLargeError{Size: len(events), Max: limit}
		}
	}

	if err := classify(resp.StatusCode(), apiErr); err != nil {
		return nil, err
	}
	return result, nil
}

// Health consulta GET /health; qualquer falha indica que o servidor está inacessível
func (c *APIClient) Health(ctx context.Context) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		Get("/health")
	if err != nil {
		return apperror.Wrap(apperror.KindTransientNetwork, "servidor inacessível", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return apperror.Newf(apperror.KindTransientNetwork, "health respondeu %d", resp.StatusCode())
	}
	return nil
}

func classify(status int, body *errorBody) error {
	if status < http.StatusBadRequest {
		return nil
	}

	message := http.StatusText(status)
	if body != nil && body.Message != "" {
		message = body.Message
		if body.Details != "" {
			message += ": " + body.Details
		}
	}

	switch {
	case status >= http.StatusInternalServerError,
		status == http.StatusUnauthorized,
		status == http.StatusTooManyRequests,
		status == http.StatusRequestTimeout:
		return apperror.Newf(apperror.KindTransientNetwork, "servidor respondeu %d: %s", status, message)
	case status == http.StatusForbidden:
		return apperror.Wrap(apperror.KindValidation, message, ErrShopForbidden)
	default:
		return &RejectedError{StatusCode: status, Message: message}
	}
}
