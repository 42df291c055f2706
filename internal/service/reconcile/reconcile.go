// Package reconcile aplica lotes de eventos enfileirados offline, isolando
// cada evento em sua própria transação.
package reconcile

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hugohenrick/pdv-sync/internal/domain/customer"
	"github.com/hugohenrick/pdv-sync/internal/domain/expense"
	"github.com/hugohenrick/pdv-sync/internal/domain/inventory"
	"github.com/hugohenrick/pdv-sync/internal/domain/purchase"
	"github.com/hugohenrick/pdv-sync/internal/domain/sale"
	"github.com/hugohenrick/pdv-sync/internal/domain/syncevent"
	"github.com/hugohenrick/pdv-sync/pkg/apperror"
	"github.com/hugohenrick/pdv-sync/pkg/logger"
	"github.com/hugohenrick/pdv-sync/pkg/shopctx"
	"github.com/hugohenrick/pdv-sync/pkg/validation"
)

// DefaultMaxBatch é o tamanho máximo de lote quando nenhum limite é configurado
const DefaultMaxBatch = 500

// Writer é o caminho de criação de evento único usado por cada item do lote
type Writer interface {
	CreateSale(ctx context.Context, shopID, userID string, in sale.Input) (*sale.Result, error)
	CreatePurchase(ctx context.Context, shopID, userID string, in purchase.Input) (*purchase.Result, error)
	CreateStockAdjustment(ctx context.Context, shopID, userID string, in inventory.AdjustmentInput) (*inventory.AdjustmentResult, error)
	CreateExpense(ctx context.Context, shopID, userID string, in expense.Input) (*expense.Result, error)
	CreateCustomer(ctx context.Context, shopID, userID string, in customer.Input) (*customer.Result, error)
	RecordUdhaarPayment(ctx context.Context, shopID, userID string, in customer.PaymentInput) (*customer.PaymentResult, error)
}

// applyFunc decodifica e aplica um evento; replayed indica que ele já existia
type applyFunc func(ctx context.Context, p shopctx.Principal, ev syncevent.DomainEvent) (replayed bool, err error)

// Service implementa o endpoint de reconciliação em lote
type Service struct {
	writer   Writer
	validate *validator.Validate
	maxBatch int
	logger   logger.Logger
	handlers map[syncevent.Type]applyFunc
}

// NewService cria uma nova instância de Service
func NewService(w Writer, maxBatch int, log logger.Logger) *Service {
	if maxBatch <= 0 {
		maxBatch = DefaultMaxBatch
	}
	if log == nil {
		log = logger.NewNop()
	}

	s := &Service{
		writer:   w,
		validate: validation.New(),
		maxBatch: maxBatch,
		logger:   log.Named("reconcile"),
	}
	s.handlers = map[syncevent.Type]applyFunc{
		syncevent.TypeSale:            s.applySale,
		syncevent.TypePurchase:        s.applyPurchase,
		syncevent.TypeStockAdjustment: s.applyAdjustment,
		syncevent.TypeExpense:         s.applyExpense,
		syncevent.TypeCustomer:        s.applyCustomer,
		syncevent.TypeUdhaarPayment:   s.applyPayment,
	}
	return s
}

// MaxBatch retorna o limite de eventos por lote
func (s *Service) MaxBatch() int {
	return s.maxBatch
}

// Reconcile aplica cada evento do lote de forma independente. A falha de um
// evento nunca desfaz nem impede a gravação dos demais.
func (s *Service) Reconcile(ctx context.Context, p shopctx.Principal, typeName string, req syncevent.BatchRequest) (*syncevent.BatchResult, error) {
	t, ok := syncevent.ParseType(typeName)
	if !ok {
		return nil, apperror.Newf(apperror.KindNotFound, "tipo de evento %q desconhecido", typeName)
	}
	if len(req.Events) > s.maxBatch {
		return nil, apperror.Newf(apperror.KindValidation, "lote com %d eventos excede o limite de %d", len(req.Events), s.maxBatch)
	}

	// O lote segue até o fim mesmo se o PDV desconectar; o reenvio é repetição idempotente
	ctx = context.WithoutCancel(ctx)

	apply := s.handlers[t]
	result := syncevent.NewBatchResult()

	for _, ev := range req.Events {
		replayed, err := s.applyOne(ctx, apply, p, ev)
		switch {
		case err == nil && replayed:
			result.Skipped++
		case err == nil:
			result.Synced++
		case apperror.KindOf(err) == apperror.KindDuplicate:
			result.Skipped++
		default:
			result.Errors = append(result.Errors, itemError(ev.ID, err))
		}
	}

	s.logger.Info("lote reconciliado",
		"shop_id", p.CurrentShopID,
		"type", string(t),
		"received", len(req.Events),
		"synced", result.Synced,
		"skipped", result.Skipped,
		"errors", len(result.Errors),
	)
	return result, nil
}

// applyOne isola um evento: um panic vira erro interno apenas deste item
func (s *Service) applyOne(ctx context.Context, apply applyFunc, p shopctx.Principal, ev syncevent.DomainEvent) (replayed bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic ao aplicar evento", "event_id", ev.ID, "panic", fmt.Sprint(r))
			err = apperror.Newf(apperror.KindInternal, "falha ao aplicar evento %s", ev.ID)
		}
	}()

	if ev.ID == "" {
		return false, apperror.Validation("evento sem id")
	}
	if len(ev.Payload) == 0 || string(ev.Payload) == "null" {
		return false, apperror.Validation("evento sem payload")
	}
	return apply(ctx, p, ev)
}

func itemError(id string, err error) syncevent.ItemError {
	kind := apperror.KindOf(err)
	msg := err.Error()
	if kind == apperror.KindInternal {
		msg = "erro interno ao processar evento"
	}
	return syncevent.ItemError{ID: id, Error: msg, Code: string(kind)}
}

// decode lê o payload e valida as tags da estrutura de entrada
func (s *Service) decode(payload json.RawMessage, dst interface{}) error {
	if err := json.Unmarshal(payload, dst); err != nil {
		return apperror.Wrap(apperror.KindValidation, "payload inválido", err)
	}
	if err := s.validate.Struct(dst); err != nil {
		return apperror.New(apperror.KindValidation, validation.Describe(err))
	}
	return nil
}

// O id do evento gerado no PDV é sempre a chave de idempotência, mesmo que o payload traga outra.
// O created_at do envelope vale como data do documento quando o payload não traz uma.

// occurredAt devolve o momento em que o evento foi criado no PDV, se informado
func occurredAt(ev syncevent.DomainEvent) *time.Time {
	if ev.CreatedAt.IsZero() {
		return nil
	}
	t := ev.CreatedAt.UTC()
	return &t
}

func (s *Service) applySale(ctx context.Context, p shopctx.Principal, ev syncevent.DomainEvent) (bool, error) {
	var in sale.Input
	if err := s.decode(ev.Payload, &in); err != nil {
		return false, err
	}
	in.ClientEventID = ev.ID
	if in.OccurredAt == nil {
		in.OccurredAt = occurredAt(ev)
	}
	res, err := s.writer.CreateSale(ctx, p.CurrentShopID, p.UserID, in)
	if err != nil {
		return false, err
	}
	return res.Replayed, nil
}

func (s *Service) applyPurchase(ctx context.Context, p shopctx.Principal, ev syncevent.DomainEvent) (bool, error) {
	var in purchase.Input
	if err := s.decode(ev.Payload, &in); err != nil {
		return false, err
	}
	in.ClientEventID = ev.ID
	if in.OccurredAt == nil {
		in.OccurredAt = occurredAt(ev)
	}
	res, err := s.writer.CreatePurchase(ctx, p.CurrentShopID, p.UserID, in)
	if err != nil {
		return false, err
	}
	return res.Replayed, nil
}

func (s *Service) applyAdjustment(ctx context.Context, p shopctx.Principal, ev syncevent.DomainEvent) (bool, error) {
	var in inventory.AdjustmentInput
	if err := s.decode(ev.Payload, &in); err != nil {
		return false, err
	}
	in.ClientEventID = ev.ID
	if in.OccurredAt == nil {
		in.OccurredAt = occurredAt(ev)
	}
	res, err := s.writer.CreateStockAdjustment(ctx, p.CurrentShopID, p.UserID, in)
	if err != nil {
		return false, err
	}
	return res.Replayed, nil
}

func (s *Service) applyExpense(ctx context.Context, p shopctx.Principal, ev syncevent.DomainEvent) (bool, error) {
	var in expense.Input
	if err := s.decode(ev.Payload, &in); err != nil {
		return false, err
	}
	in.ClientEventID = ev.ID
	if in.SpentAt == nil {
		in.SpentAt = occurredAt(ev)
	}
	res, err := s.writer.CreateExpense(ctx, p.CurrentShopID, p.UserID, in)
	if err != nil {
		return false, err
	}
	return res.Replayed, nil
}

func (s *Service) applyCustomer(ctx context.Context, p shopctx.Principal, ev syncevent.DomainEvent) (bool, error) {
	var in customer.Input
	if err := s.decode(ev.Payload, &in); err != nil {
		return false, err
	}
	in.ClientEventID = ev.ID
	res, err := s.writer.CreateCustomer(ctx, p.CurrentShopID, p.UserID, in)
	if err != nil {
		return false, err
	}
	return res.Replayed, nil
}

func (s *Service) applyPayment(ctx context.Context, p shopctx.Principal, ev syncevent.DomainEvent) (bool, error) {
	var in customer.PaymentInput
	if err := s.decode(ev.Payload, &in); err != nil {
		return false, err
	}
	in.ClientEventID = ev.ID
	res, err := s.writer.RecordUdhaarPayment(ctx, p.CurrentShopID, p.UserID, in)
	if err != nil {
		return false, err
	}
	return res.Replayed, nil
}
