package sale

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hugohenrick/pdv-sync/internal/domain/inventory"
	"github.com/hugohenrick/pdv-sync/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyLines          = errors.New("a venda deve ter ao menos um item")
	ErrInvalidQuantity     = errors.New("quantidade do item deve ser positiva")
	ErrNegativePrice       = errors.New("preço do item não pode ser negativo")
	ErrInvalidDiscount     = errors.New("desconto inválido")
	ErrCreditNeedsCustomer = errors.New("venda fiado exige cliente")
	ErrNegativePayment     = errors.New("valor pago não pode ser negativo")
	ErrOverpaidCredit      = errors.New("valor pago excede o total da venda fiado")
	ErrInvalidPaymentMode  = errors.New("forma de pagamento inválida")
	ErrAlreadyVoided       = errors.New("venda já cancelada")
	ErrEmptyVoidReason     = errors.New("motivo do cancelamento não pode ser vazio")
)

// PaymentMode define como a venda foi paga
type PaymentMode string

const (
	PaymentCash   PaymentMode = "CASH"
	PaymentCredit PaymentMode = "CREDIT" // Venda fiado (udhaar)
)

// Status representa o estado da nota de venda
type Status string

const (
	StatusCompleted Status = "COMPLETED"
	StatusVoided    Status = "VOIDED"
)

// Line representa um item da nota
type Line struct {
	ID         string          `json:"id"`
	InvoiceID  string          `json:"invoice_id"`
	ProductID  string          `json:"product_id"`
	Qty        decimal.Decimal `json:"qty"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Discount   decimal.Decimal `json:"discount"`
	Total      decimal.Decimal `json:"total"`
	TrackStock bool            `json:"track_stock"`
}

// Invoice representa a nota de venda. Após concluída só admite a transição para VOIDED.
type Invoice struct {
	ID            string          `json:"id"`
	ShopID        string          `json:"shop_id"`
	ClientEventID string          `json:"client_event_id,omitempty"`
	CustomerID    string          `json:"customer_id,omitempty"`
	UserID        string          `json:"user_id"`
	PaymentMode   PaymentMode     `json:"payment_mode"`
	Status        Status          `json:"status"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"`
	Total         decimal.Decimal `json:"total"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	Lines         []Line          `json:"lines"`
	VoidReason    string          `json:"void_reason,omitempty"`
	VoidedAt      *time.Time      `json:"voided_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// LineInput são os dados de entrada de um item
type LineInput struct {
	ProductID string          `json:"product_id" validate:"required"`
	Qty       decimal.Decimal `json:"qty"`
	UnitPrice decimal.Decimal `json:"unit_price"` // Zero usa o preço do cadastro
	Discount  decimal.Decimal `json:"discount"`
}

// Input são os dados de entrada de uma venda
type Input struct {
	ClientEventID string          `json:"client_event_id,omitempty"`
	CustomerID    string          `json:"customer_id,omitempty"`
	PaymentMode   PaymentMode     `json:"payment_mode" validate:"required,oneof=CASH CREDIT"`
	Discount      decimal.Decimal `json:"discount"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	Lines         []LineInput     `json:"lines" validate:"required,min=1,dive"`
	OccurredAt    *time.Time      `json:"occurred_at,omitempty"` // Momento da venda no PDV
}

// Validate aplica as regras que não dependem do banco
func (in Input) Validate() error {
	if len(in.Lines) == 0 {
		return ErrEmptyLines
	}
	for i, l := range in.Lines {
		if l.ProductID == "" {
			return fmt.Errorf("item %d: %w", i+1, inventory.ErrEmptyProductID)
		}
		if !l.Qty.IsPositive() {
			return fmt.Errorf("item %d: %w", i+1, ErrInvalidQuantity)
		}
		if l.UnitPrice.IsNegative() {
			return fmt.Errorf("item %d: %w", i+1, ErrNegativePrice)
		}
		if l.Discount.IsNegative() {
			return fmt.Errorf("item %d: %w", i+1, ErrInvalidDiscount)
		}
	}
	if in.Discount.IsNegative() {
		return ErrInvalidDiscount
	}
	if in.AmountPaid.IsNegative() {
		return ErrNegativePayment
	}
	switch in.PaymentMode {
	case PaymentCash:
	case PaymentCredit:
		if in.CustomerID == "" {
			return ErrCreditNeedsCustomer
		}
	default:
		return ErrInvalidPaymentMode
	}
	return nil
}

// NewInvoice monta a nota calculando os totais a partir do cadastro de produtos.
// products deve conter todos os produtos referenciados pelos itens.
func NewInvoice(shopID, userID string, in Input, products map[string]inventory.Product) (*Invoice, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	inv := &Invoice{
		ID:            uuid.New().String(),
		ShopID:        shopID,
		ClientEventID: in.ClientEventID,
		CustomerID:    in.CustomerID,
		UserID:        userID,
		PaymentMode:   in.PaymentMode,
		Status:        StatusCompleted,
		Discount:      in.Discount,
		CreatedAt:     time.Now().UTC(),
	}
	if in.OccurredAt != nil && !in.OccurredAt.IsZero() {
		inv.CreatedAt = in.OccurredAt.UTC()
	}

	subtotal := decimal.Zero
	for _, l := range in.Lines {
		p, ok := products[l.ProductID]
		if !ok {
			return nil, fmt.Errorf("produto %s não encontrado", l.ProductID)
		}

		price := l.UnitPrice
		if price.IsZero() {
			price = p.Price
		}

		gross := l.Qty.Mul(price)
		if l.Discount.GreaterThan(gross) {
			return nil, fmt.Errorf("produto %s: %w", l.ProductID, ErrInvalidDiscount)
		}

		lineTotal := gross.Sub(l.Discount)
		inv.Lines = append(inv.Lines, Line{
			ID:         uuid.New().String(),
			InvoiceID:  inv.ID,
			ProductID:  l.ProductID,
			Qty:        l.Qty,
			UnitPrice:  price,
			Discount:   l.Discount,
			Total:      lineTotal,
			TrackStock: p.TrackStock,
		})
		subtotal = subtotal.Add(lineTotal)
	}

	if in.Discount.GreaterThan(subtotal) {
		return nil, ErrInvalidDiscount
	}

	inv.Subtotal = subtotal
	inv.Total = subtotal.Sub(in.Discount)

	switch in.PaymentMode {
	case PaymentCash:
		// Venda à vista é quitada no ato
		inv.AmountPaid = inv.Total
	case PaymentCredit:
		if in.AmountPaid.GreaterThan(inv.Total) {
			return nil, ErrOverpaidCredit
		}
		inv.AmountPaid = in.AmountPaid
	}

	return inv, nil
}

// IsVoided verifica se a nota foi cancelada
func (i *Invoice) IsVoided() bool {
	return i.Status == StatusVoided
}

// Void cancela a nota. Os lançamentos compensatórios são responsabilidade do escritor.
func (i *Invoice) Void(reason string) error {
	if i.IsVoided() {
		return ErrAlreadyVoided
	}
	if reason == "" {
		return ErrEmptyVoidReason
	}
	now := time.Now().UTC()
	i.Status = StatusVoided
	i.VoidReason = reason
	i.VoidedAt = &now
	return nil
}

// StockQuantities agrega as quantidades por produto controlado em estoque
func (i *Invoice) StockQuantities() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, l := range i.Lines {
		if !l.TrackStock {
			continue
		}
		out[l.ProductID] = out[l.ProductID].Add(l.Qty)
	}
	return out
}

// Result é o retorno da criação de uma venda
type Result struct {
	Invoice       *Invoice              `json:"invoice"`
	StockWarnings []ledger.StockWarning `json:"stockWarnings,omitempty"`
	Replayed      bool                  `json:"-"` // Evento já aplicado anteriormente
}
