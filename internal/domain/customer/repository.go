package customer

import (
	"context"
)

// Repository define a interface para operações de repositório de clientes
type Repository interface {
	// InsertCustomer cria um novo cliente
	InsertCustomer(ctx context.Context, c *Customer) error

	// FindCustomer busca um cliente pelo ID
	FindCustomer(ctx context.Context, shopID, id string) (*Customer, error)

	// FindCustomerByClientEvent busca um cliente pela chave de idempotência
	FindCustomerByClientEvent(ctx context.Context, shopID, clientEventID string) (*Customer, error)

	// InsertPayment grava um recebimento
	InsertPayment(ctx context.Context, p *Payment) error

	// FindPaymentByClientEvent busca um recebimento pela chave de idempotência
	FindPaymentByClientEvent(ctx context.Context, shopID, clientEventID string) (*Payment, error)
}
