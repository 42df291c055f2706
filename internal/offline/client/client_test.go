package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hugohenrick/pdv-sync/internal/config"
	"github.com/hugohenrick/pdv-sync/internal/domain/syncevent"
	"github.com/hugohenrick/pdv-sync/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *APIClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(config.DeviceConfig{APIURL: srv.URL + "/", Token: "device-token", DeviceID: "pos-1", RequestTimeout: 2 * time.Second})
}

func events() []syncevent.DomainEvent {
	return []syncevent.DomainEvent{{ID: "a", Payload: json.RawMessage(`{"x":1}`)}}
}

func TestPostBatch_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/sync/sale", r.URL.Path)
		assert.Equal(t, "Bearer device-token", r.Header.Get("Authorization"))
		assert.Equal(t, "pos-1", r.Header.Get("X-Device-ID"))
		assert.Equal(t, "shop-1", r.Header.Get(HeaderShopID))

		var req syncevent.BatchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Len(t, req.Events, 1)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"synced":1,"skipped":0,"errors":[]}`))
	})

	res, err := c.PostBatch(context.Background(), "shop-1", syncevent.TypeSale, events())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Synced)
	assert.Empty(t, res.Errors)
}

func TestPostBatch_ShopToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer shop-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"synced":1,"skipped":0,"errors":[]}`))
	})
	c.SetShopToken("shop-1", "shop-token")

	_, err := c.PostBatch(context.Background(), "shop-1", syncevent.TypeSale, events())
	require.NoError(t, err)
}

func TestPostBatch_TokensFromConfig(t *testing.T) {
	var auth atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth.Store(r.Header.Get("Authorization") + "|" + r.Header.Get(HeaderShopID))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"synced":1,"skipped":0,"errors":[]}`))
	}))
	defer srv.Close()

	c := NewClient(config.DeviceConfig{APIURL: srv.URL, DeviceID: "pos-1", ShopTokens: map[string]string{"shop-2": "tok-2"}})
	assert.True(t, c.HasShopToken("shop-2"))
	assert.False(t, c.HasShopToken("shop-1"))

	_, err := c.PostBatch(context.Background(), "shop-2", syncevent.TypeSale, events())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-2|shop-2", auth.Load())
}

func TestPostBatch_NoTokenSendsNothing(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	c := NewClient(config.DeviceConfig{APIURL: srv.URL, DeviceID: "pos-1", ShopTokens: map[string]string{"shop-1": "tok-1"}})
	_, err := c.PostBatch(context.Background(), "shop-2", syncevent.TypeSale, events())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoShopToken)
	assert.False(t, apperror.IsRetryable(err))
	_, rejected := IsRejected(err)
	assert.False(t, rejected)
	assert.Zero(t, hits.Load())
}

func TestPostBatch_ForbiddenShop(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"code":403,"message":"loja não autorizada"}`))
	})

	_, err := c.PostBatch(context.Background(), "shop-2", syncevent.TypeSale, events())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrShopForbidden)
	assert.False(t, apperror.IsRetryable(err))
	_, rejected := IsRejected(err)
	assert.False(t, rejected)
}

func TestPostBatch_TooLarge(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set(HeaderMaxBatch, "1")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":400,"message":"lote grande"}`))
	})

	batch := append(events(), syncevent.DomainEvent{ID: "b", Payload: json.RawMessage(`{}`)})
	_, err := c.PostBatch(context.Background(), "shop-1", syncevent.TypeSale, batch)

	var tooLarge *BatchTooLargeError
	require.ErrorAs(t, err, &tooLarge)
	assert.Equal(t, 2, tooLarge.Size)
	assert.Equal(t, 1, tooLarge.Max)
	_, rejected := IsRejected(err)
	assert.False(t, rejected)

	// Dentro do limite, o 400 continua sendo recusa definitiva
	_, err = c.PostBatch(context.Background(), "shop-1", syncevent.TypeSale, events())
	_, rejected = IsRejected(err)
	assert.True(t, rejected)
}

func TestPostBatch_Classification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		rejected bool
	}{
		{"validação", http.StatusBadRequest, true},
		{"tipo desconhecido", http.StatusNotFound, true},
		{"não autenticado", http.StatusUnauthorized, false},
		{"limite de taxa", http.StatusTooManyRequests, false},
		{"erro do servidor", http.StatusInternalServerError, false},
		{"indisponível", http.StatusServiceUnavailable, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"code":0,"message":"falhou","details":"motivo"}`))
			})

			_, err := c.PostBatch(context.Background(), "shop-1", syncevent.TypeSale, events())
			require.Error(t, err)

			rej, ok := IsRejected(err)
			assert.Equal(t, tt.rejected, ok)
			if tt.rejected {
				assert.Equal(t, tt.status, rej.StatusCode)
				assert.Equal(t, "falhou: motivo", rej.Message)
				assert.False(t, apperror.IsRetryable(err))
			} else {
				assert.Equal(t, apperror.KindTransientNetwork, apperror.KindOf(err))
				assert.True(t, apperror.IsRetryable(err))
			}
		})
	}
}

func TestPostBatch_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(config.DeviceConfig{APIURL: url, Token: "device-token", DeviceID: "pos-1"})
	_, err := c.PostBatch(context.Background(), "shop-1", syncevent.TypeSale, events())
	require.Error(t, err)
	assert.Equal(t, apperror.KindTransientNetwork, apperror.KindOf(err))
}

func TestHealth(t *testing.T) {
	var healthy atomic.Bool
	healthy.Store(true)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		if !healthy.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	assert.NoError(t, c.Health(context.Background()))

	healthy.Store(false)
	err := c.Health(context.Background())
	assert.Equal(t, apperror.KindTransientNetwork, apperror.KindOf(err))
}
