package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hugohenrick/pdv-sync/internal/domain/customer"
	"github.com/hugohenrick/pdv-sync/internal/domain/expense"
	"github.com/hugohenrick/pdv-sync/internal/domain/inventory"
	"github.com/hugohenrick/pdv-sync/internal/domain/purchase"
	"github.com/hugohenrick/pdv-sync/internal/domain/sale"
	"github.com/hugohenrick/pdv-sync/internal/domain/syncevent"
	"github.com/hugohenrick/pdv-sync/internal/offline/backoff"
	"github.com/hugohenrick/pdv-sync/internal/offline/queue"
)

// Enqueue grava o evento na fila da loja e, se online, tenta a escrita direta
// imediatamente. O evento está durável antes de qualquer tentativa de envio.
func (o *Orchestrator) Enqueue(ctx context.Context, shopID string, t syncevent.Type, payload json.RawMessage) (string, error) {
	q := o.registry.For(shopID)
	localID, err := q.Enqueue(ctx, t, payload)
	if err != nil {
		return "", err
	}

	if o.Online() {
		o.directWrite(ctx, shopID, t, localID)
	}
	return localID, nil
}

// directWrite envia apenas o evento recém gravado, sem novas tentativas.
// Se a loja estiver drenando, o evento será enviado por essa drenagem ou pela próxima.
func (o *Orchestrator) directWrite(ctx context.Context, shopID string, t syncevent.Type, localID string) {
	if !o.acquire(shopID) {
		return
	}
	defer o.release(shopID)

	if !o.authorized(shopID) {
		o.logger.Debug("escrita direta adiada, loja sem token", "shop_id", shopID, "local_id", localID)
		return
	}

	q := o.registry.For(shopID)
	e, err := q.Get(ctx, localID)
	if err != nil {
		o.logger.Error("evento recém gravado não encontrado", "local_id", localID, "error", err.Error())
		return
	}

	single := o.opts.Backoff
	single.Retries = 0

	report, err := o.sendBatch(ctx, q, t, []queue.Event{*e}, single)
	if err != nil {
		o.logger.Debug("escrita direta adiada", "shop_id", shopID, "local_id", localID, "error", err.Error())
		return
	}
	o.logger.Debug("escrita direta concluída", "shop_id", shopID, "local_id", localID, "retrying", report.Retrying, "failed", report.Failed)
}

func (o *Orchestrator) enqueueTyped(ctx context.Context, shopID string, t syncevent.Type, v interface{}) (string, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("erro ao serializar evento %s: %w", t, err)
	}
	return o.Enqueue(ctx, shopID, t, payload)
}

// EnqueueSale enfileira uma venda
func (o *Orchestrator) EnqueueSale(ctx context.Context, shopID string, in sale.Input) (string, error) {
	return o.enqueueTyped(ctx, shopID, syncevent.TypeSale, in)
}

// EnqueuePurchase enfileira uma compra
func (o *Orchestrator) EnqueuePurchase(ctx context.Context, shopID string, in purchase.Input) (string, error) {
	return o.enqueueTyped(ctx, shopID, syncevent.TypePurchase, in)
}

// EnqueueStockAdjustment enfileira um ajuste de estoque
func (o *Orchestrator) EnqueueStockAdjustment(ctx context.Context, shopID string, in inventory.AdjustmentInput) (string, error) {
	return o.enqueueTyped(ctx, shopID, syncevent.TypeStockAdjustment, in)
}

// EnqueueExpense enfileira uma despesa
func (o *Orchestrator) EnqueueExpense(ctx context.Context, shopID string, in expense.Input) (string, error) {
	return o.enqueueTyped(ctx, shopID, syncevent.TypeExpense, in)
}

// EnqueueCustomer enfileira um cadastro de cliente
func (o *Orchestrator) EnqueueCustomer(ctx context.Context, shopID string, in customer.Input) (string, error) {
	return o.enqueueTyped(ctx, shopID, syncevent.TypeCustomer, in)
}

// EnqueueUdhaarPayment enfileira um recebimento de fiado
func (o *Orchestrator) EnqueueUdhaarPayment(ctx context.Context, shopID string, in customer.PaymentInput) (string, error) {
	return o.enqueueTyped(ctx, shopID, syncevent.TypeUdhaarPayment, in)
}

// Backoff expõe a política em uso
func (o *Orchestrator) Backoff() backoff.Options {
	return o.opts.Backoff
}
