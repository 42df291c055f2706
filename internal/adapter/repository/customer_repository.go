package repository

import (
	"context"

	"github.com/hugohenrick/pdv-sync/internal/domain/customer"
)

const customerSelect = `SELECT id::text, shop_id, COALESCE(client_event_id, ''), name, COALESCE(phone, ''),
	COALESCE(document, ''), credit_limit, opening_balance, status, created_by, created_at, updated_at
	FROM customers`

const paymentSelect = `SELECT id::text, shop_id, COALESCE(client_event_id, ''), customer_id,
	COALESCE(invoice_id::text, ''), amount, method, COALESCE(note, ''), created_by, created_at
	FROM customer_payments`

// InsertCustomer implementa customer.Repository.InsertCustomer
func (t *pgTx) InsertCustomer(ctx context.Context, c *customer.Customer) error {
	_, err := t.tx.Exec(ctx,
		`INSERT INTO customers (id, shop_id, client_event_id, name, phone, document, credit_limit,
			opening_balance, status, created_by, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, NULLIF($5, ''), NULLIF($6, ''), $7, $8, $9, $10, $11, $12)`,
		c.ID, c.ShopID, c.ClientEventID, c.Name, c.Phone, c.Document, c.CreditLimit,
		c.OpeningBalance, c.Status, c.CreatedBy, c.CreatedAt, c.UpdatedAt)
	return mapError(err, "cliente", c.ID)
}

func (t *pgTx) findCustomer(ctx context.Context, where string, args ...interface{}) (*customer.Customer, error) {
	var c customer.Customer
	err := t.tx.QueryRow(ctx, customerSelect+` WHERE `+where, args...).Scan(
		&c.ID, &c.ShopID, &c.ClientEventID, &c.Name, &c.Phone, &c.Document, &c.CreditLimit,
		&c.OpeningBalance, &c.Status, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// FindCustomer implementa customer.Repository.FindCustomer
func (t *pgTx) FindCustomer(ctx context.Context, shopID, id string) (*customer.Customer, error) {
	c, err := t.findCustomer(ctx, `shop_id = $1 AND id::text = $2`, shopID, id)
	if err != nil {
		return nil, mapError(err, "cliente", id)
	}
	return c, nil
}

// FindCustomerByClientEvent implementa customer.Repository.FindCustomerByClientEvent
func (t *pgTx) FindCustomerByClientEvent(ctx context.Context, shopID, clientEventID string) (*customer.Customer, error) {
	c, err := t.findCustomer(ctx, `shop_id = $1 AND client_event_id = $2`, shopID, clientEventID)
	if err != nil {
		return nil, mapError(err, "cliente", clientEventID)
	}
	return c, nil
}

// InsertPayment implementa customer.Repository.InsertPayment
func (t *pgTx) InsertPayment(ctx context.Context, p *customer.Payment) error {
	_, err := t.tx.Exec(ctx,
		`INSERT INTO customer_payments (id, shop_id, client_event_id, customer_id, invoice_id, amount,
			method, note, created_by, created_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, NULLIF($5, '')::uuid, $6, $7, NULLIF($8, ''), $9, $10)`,
		p.ID, p.ShopID, p.ClientEventID, p.CustomerID, p.InvoiceID, p.Amount,
		p.Method, p.Note, p.CreatedBy, p.CreatedAt)
	return mapError(err, "pagamento", p.ID)
}

// FindPaymentByClientEvent implementa customer.Repository.FindPaymentByClientEvent
func (t *pgTx) FindPaymentByClientEvent(ctx context.Context, shopID, clientEventID string) (*customer.Payment, error) {
	var p customer.Payment
	err := t.tx.QueryRow(ctx, paymentSelect+` WHERE shop_id = $1 AND client_event_id = $2`,
		shopID, clientEventID).Scan(
		&p.ID, &p.ShopID, &p.ClientEventID, &p.CustomerID, &p.InvoiceID, &p.Amount,
		&p.Method, &p.Note, &p.CreatedBy, &p.CreatedAt)
	if err != nil {
		return nil, mapError(err, "pagamento", clientEventID)
	}
	return &p, nil
}
