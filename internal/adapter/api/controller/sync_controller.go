package controller

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pdv-sync/internal/adapter/api/dto"
	"github.com/hugohenrick/pdv-sync/internal/domain/syncevent"
	"github.com/hugohenrick/pdv-sync/pkg/logger"
	"github.com/hugohenrick/pdv-sync/pkg/shopctx"
)

// Reconciler aplica lotes de eventos do PDV
type Reconciler interface {
	Reconcile(ctx context.Context, p shopctx.Principal, typeName string, req syncevent.BatchRequest) (*syncevent.BatchResult, error)
	MaxBatch() int
}

// SyncController recebe os lotes enviados pelos PDVs
type SyncController struct {
	reconciler Reconciler
	logger     logger.Logger
}

// NewSyncController cria uma nova instância de SyncController
func NewSyncController(r Reconciler, log logger.Logger) *SyncController {
	return &SyncController{
		reconciler: r,
		logger:     log,
	}
}

// Sync aplica um lote de eventos
// @Summary Sincronizar eventos
// @Description Aplica um lote de eventos gerados offline. Cada evento é gravado em sua própria transação; o id do evento é a chave de idempotência.
// @Description Toda resposta traz X-Sync-Max-Batch; um lote maior que esse limite é recusado com 400 e deve ser dividido.
// @Tags sync
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param type path string true "Tipo do evento" Enums(sale, purchase, stock-adjustment, expense, customer, udhaar-payment)
// @Param batch body dto.SyncRequest true "Lote de eventos"
// @Success 200 {object} dto.SyncResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /sync/{type} [post]
func (c *SyncController) Sync(ctx *gin.Context) {
	ctx.Header(syncevent.HeaderMaxBatch, strconv.Itoa(c.reconciler.MaxBatch()))

	p, ok := principal(ctx)
	if !ok {
		return
	}

	var req dto.SyncRequest
	if !bindJSON(ctx, &req, nil) {
		return
	}

	batch := syncevent.BatchRequest{Events: make([]syncevent.DomainEvent, len(req.Events))}
	for i, e := range req.Events {
		batch.Events[i] = syncevent.DomainEvent{ID: e.ID, Payload: e.Payload, CreatedAt: e.CreatedAt}
	}

	result, err := c.reconciler.Reconcile(ctx.Request.Context(), p, ctx.Param("type"), batch)
	if err != nil {
		respondError(ctx, c.logger, "erro ao sincronizar lote", err)
		return
	}

	resp := dto.SyncResponse{
		Synced:  result.Synced,
		Skipped: result.Skipped,
		Errors:  make([]dto.SyncItemError, 0, len(result.Errors)),
	}
	for _, e := range result.Errors {
		resp.Errors = append(resp.Errors, dto.SyncItemError{ID: e.ID, Error: e.Error, Code: e.Code})
	}
	ctx.JSON(http.StatusOK, resp)
}
