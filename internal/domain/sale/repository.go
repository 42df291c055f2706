package sale

import "context"

// Repository define o acesso a notas de venda
type Repository interface {
	// InsertInvoice grava cabeçalho e itens
	InsertInvoice(ctx context.Context, inv *Invoice) error

	// FindInvoice busca uma nota pelo ID
	FindInvoice(ctx context.Context, shopID, id string) (*Invoice, error)

	// FindInvoiceForUpdate busca e bloqueia a nota até o fim da transação
	FindInvoiceForUpdate(ctx context.Context, shopID, id string) (*Invoice, error)

	// FindInvoiceByClientEvent busca uma nota pela chave de idempotência
	FindInvoiceByClientEvent(ctx context.Context, shopID, clientEventID string) (*Invoice, error)

	// MarkInvoiceVoided grava a transição COMPLETED → VOIDED
	MarkInvoiceVoided(ctx context.Context, inv *Invoice) error
}
