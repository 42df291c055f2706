package inventory

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hugohenrick/pdv-sync/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyProductID     = errors.New("produto não informado")
	ErrZeroAdjustment     = errors.New("quantidade do ajuste não pode ser zero")
	ErrPositiveDamage     = errors.New("avaria deve reduzir o estoque")
	ErrInvalidAdjustKind  = errors.New("tipo de ajuste inválido")
	ErrEmptyAdjustReason  = errors.New("motivo do ajuste não pode ser vazio")
)

// Product é o cadastro mínimo de produto consultado pelo razão.
// O cadastro completo pertence às telas de CRUD, fora deste serviço.
type Product struct {
	ID         string          `json:"id"`
	ShopID     string          `json:"shop_id"`
	Name       string          `json:"name"`
	SKU        string          `json:"sku"`
	Price      decimal.Decimal `json:"price"`
	TrackStock bool            `json:"track_stock"` // Produtos de serviço não movimentam estoque
	CreatedAt  time.Time       `json:"created_at"`
}

// Adjustment é um ajuste manual de estoque (contagem, avaria)
type Adjustment struct {
	ID            string                `json:"id"`
	ShopID        string                `json:"shop_id"`
	ClientEventID string                `json:"client_event_id,omitempty"`
	ProductID     string                `json:"product_id"`
	Kind          ledger.StockEntryType `json:"kind"` // ADJUSTMENT ou DAMAGE
	ChangeQty     decimal.Decimal       `json:"change_qty"`
	Reason        string                `json:"reason"`
	CreatedBy     string                `json:"created_by"`
	CreatedAt     time.Time             `json:"created_at"`
}

// AdjustmentInput são os dados de entrada de um ajuste
type AdjustmentInput struct {
	ClientEventID string                `json:"client_event_id,omitempty"`
	ProductID     string                `json:"product_id" validate:"required"`
	Kind          ledger.StockEntryType `json:"kind" validate:"required,oneof=ADJUSTMENT DAMAGE"`
	ChangeQty     decimal.Decimal       `json:"change_qty"`
	Reason        string                `json:"reason" validate:"required,max=255"`
	OccurredAt    *time.Time            `json:"occurred_at,omitempty"`
}

// Validate aplica as regras de negócio do ajuste
func (in AdjustmentInput) Validate() error {
	if in.ProductID == "" {
		return ErrEmptyProductID
	}
	if in.Reason == "" {
		return ErrEmptyAdjustReason
	}
	if in.ChangeQty.IsZero() {
		return ErrZeroAdjustment
	}
	switch in.Kind {
	case ledger.StockAdjustment:
	case ledger.StockDamage:
		if in.ChangeQty.IsPositive() {
			return ErrPositiveDamage
		}
	default:
		return ErrInvalidAdjustKind
	}
	return nil
}

// NewAdjustment cria um ajuste a partir da entrada validada
func NewAdjustment(shopID, userID string, in AdjustmentInput) (*Adjustment, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	createdAt := time.Now().UTC()
	if in.OccurredAt != nil && !in.OccurredAt.IsZero() {
		createdAt = in.OccurredAt.UTC()
	}

	return &Adjustment{
		ID:            uuid.New().String(),
		ShopID:        shopID,
		ClientEventID: in.ClientEventID,
		ProductID:     in.ProductID,
		Kind:          in.Kind,
		ChangeQty:     in.ChangeQty,
		Reason:        in.Reason,
		CreatedBy:     userID,
		CreatedAt:     createdAt,
	}, nil
}

// AdjustmentResult é o retorno da gravação de um ajuste
type AdjustmentResult struct {
	Adjustment    *Adjustment           `json:"adjustment"`
	StockWarnings []ledger.StockWarning `json:"stockWarnings,omitempty"`
	Replayed      bool                  `json:"-"`
}
