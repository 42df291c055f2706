// Package memory implementa o armazenamento do razão em memória, usado no modo
// de desenvolvimento e nos testes. Uma transação serializa a loja inteira e só
// publica suas gravações no commit.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/hugohenrick/pdv-sync/internal/domain/customer"
	"github.com/hugohenrick/pdv-sync/internal/domain/expense"
	"github.com/hugohenrick/pdv-sync/internal/domain/inventory"
	"github.com/hugohenrick/pdv-sync/internal/domain/ledger"
	"github.com/hugohenrick/pdv-sync/internal/domain/purchase"
	"github.com/hugohenrick/pdv-sync/internal/domain/sale"
	"github.com/hugohenrick/pdv-sync/internal/domain/shop"
	"github.com/hugohenrick/pdv-sync/internal/domain/store"
	"github.com/hugohenrick/pdv-sync/pkg/apperror"
	"github.com/shopspring/decimal"
)

type key struct {
	shopID string
	id     string
}

type state struct {
	products        map[key]inventory.Product
	settings        map[string]shop.Settings
	stock           []ledger.StockLedgerEntry
	customerEntries []ledger.CustomerLedgerEntry
	invoices        map[key]sale.Invoice
	purchases       map[key]purchase.Purchase
	adjustments     map[key]inventory.Adjustment
	customers       map[key]customer.Customer
	payments        map[key]customer.Payment
	expenses        map[key]expense.Expense
	// clientEvents emula UNIQUE (shop_id, client_event_id) por tabela
	clientEvents map[string]map[key]string
}

func newState() *state {
	return &state{
		products:     make(map[key]inventory.Product),
		settings:     make(map[string]shop.Settings),
		invoices:     make(map[key]sale.Invoice),
		purchases:    make(map[key]purchase.Purchase),
		adjustments:  make(map[key]inventory.Adjustment),
		customers:    make(map[key]customer.Customer),
		payments:     make(map[key]customer.Payment),
		expenses:     make(map[key]expense.Expense),
		clientEvents: make(map[string]map[key]string),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.settings {
		c.settings[k] = v
	}
	c.stock = append(c.stock, s.stock...)
	c.customerEntries = append(c.customerEntries, s.customerEntries...)
	for k, v := range s.invoices {
		c.invoices[k] = v
	}
	for k, v := range s.purchases {
		c.purchases[k] = v
	}
	for k, v := range s.adjustments {
		c.adjustments[k] = v
	}
	for k, v := range s.customers {
		c.customers[k] = v
	}
	for k, v := range s.payments {
		c.payments[k] = v
	}
	for k, v := range s.expenses {
		c.expenses[k] = v
	}
	for table, idx := range s.clientEvents {
		m := make(map[key]string, len(idx))
		for k, v := range idx {
			m[k] = v
		}
		c.clientEvents[table] = m
	}
	return c
}

// Store é o armazenamento em memória
type Store struct {
	mu    sync.Mutex
	state *state
}

var _ store.Store = (*Store)(nil)

// NewStore cria um armazenamento vazio
func NewStore() *Store {
	return &Store{state: newState()}
}

// InTx executa fn sobre uma cópia do estado e a publica somente se fn não falhar
func (s *Store) InTx(ctx context.Context, fn func(tx store.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memTx{state: s.state.clone()}
	if err := fn(tx); err != nil {
		return err
	}
	s.state = tx.state
	return nil
}

// Ping sempre responde
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// PutProduct cadastra ou substitui um produto
func (s *Store) PutProduct(p inventory.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.products[key{p.ShopID, p.ID}] = p
}

// PutSettings grava a política da loja
func (s *Store) PutSettings(st shop.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.settings[st.ShopID] = st
}

type memTx struct {
	state *state
}

func notFound(entity, id string) error {
	return apperror.Newf(apperror.KindNotFound, "%s %s não encontrado(a)", entity, id)
}

// claim registra a chave de idempotência da tabela. Chaves vazias não participam.
func (t *memTx) claim(table, shopID, clientEventID, id string) error {
	if clientEventID == "" {
		return nil
	}
	idx, ok := t.state.clientEvents[table]
	if !ok {
		idx = make(map[key]string)
		t.state.clientEvents[table] = idx
	}
	k := key{shopID, clientEventID}
	if _, exists := idx[k]; exists {
		return apperror.Newf(apperror.KindDuplicate, "%s: evento %s já processado", table, clientEventID)
	}
	idx[k] = id
	return nil
}

func (t *memTx) lookup(table, shopID, clientEventID string) (string, bool) {
	id, ok := t.state.clientEvents[table][key{shopID, clientEventID}]
	return id, ok
}

// ledger.Writer

func (t *memTx) StockOf(ctx context.Context, shopID, productID string) (decimal.Decimal, error) {
	entries, err := t.StockEntries(ctx, shopID, productID)
	if err != nil {
		return decimal.Zero, err
	}
	return ledger.SumStock(entries), nil
}

func (t *memTx) StockLevels(ctx context.Context, shopID string) ([]ledger.StockLevel, error) {
	byProduct := make(map[string][]ledger.StockLedgerEntry)
	for _, e := range t.state.stock {
		if e.ShopID == shopID {
			byProduct[e.ProductID] = append(byProduct[e.ProductID], e)
		}
	}

	ids := make([]string, 0, len(byProduct))
	for id := range byProduct {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	levels := make([]ledger.StockLevel, 0, len(ids))
	for _, id := range ids {
		levels = append(levels, ledger.StockLevel{
			ShopID:    shopID,
			ProductID: id,
			Quantity:  ledger.SumStock(byProduct[id]),
		})
	}
	return levels, nil
}

func (t *memTx) StockEntries(_ context.Context, shopID, productID string) ([]ledger.StockLedgerEntry, error) {
	var out []ledger.StockLedgerEntry
	for _, e := range t.state.stock {
		if e.ShopID == shopID && e.ProductID == productID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (t *memTx) CustomerBalance(ctx context.Context, shopID, customerID string) (decimal.Decimal, error) {
	entries, err := t.CustomerEntries(ctx, shopID, customerID)
	if err != nil {
		return decimal.Zero, err
	}
	return ledger.Balance(entries), nil
}

func (t *memTx) CustomerEntries(_ context.Context, shopID, customerID string) ([]ledger.CustomerLedgerEntry, error) {
	var out []ledger.CustomerLedgerEntry
	for _, e := range t.state.customerEntries {
		if e.ShopID == shopID && e.CustomerID == customerID {
			out = append(out, e)
		}
	}
	return out, nil
}

// LockProducts não faz nada: InTx já serializa todas as transações
func (t *memTx) LockProducts(context.Context, string, []string) error {
	return nil
}

func (t *memTx) AppendStock(_ context.Context, entries ...ledger.StockLedgerEntry) error {
	t.state.stock = append(t.state.stock, entries...)
	return nil
}

func (t *memTx) AppendCustomer(_ context.Context, entries ...ledger.CustomerLedgerEntry) error {
	t.state.customerEntries = append(t.state.customerEntries, entries...)
	return nil
}

func (t *memTx) StockEntriesByRef(_ context.Context, shopID string, refType ledger.RefType, refID string) ([]ledger.StockLedgerEntry, error) {
	var out []ledger.StockLedgerEntry
	for _, e := range t.state.stock {
		if e.ShopID == shopID && e.RefType == refType && e.RefID == refID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (t *memTx) CustomerEntriesByRef(_ context.Context, shopID string, refType ledger.RefType, refID string) ([]ledger.CustomerLedgerEntry, error) {
	var out []ledger.CustomerLedgerEntry
	for _, e := range t.state.customerEntries {
		if e.ShopID == shopID && e.RefType == refType && e.RefID == refID {
			out = append(out, e)
		}
	}
	return out, nil
}

// shop.Repository

func (t *memTx) ShopSettings(_ context.Context, shopID string) (shop.Settings, error) {
	if st, ok := t.state.settings[shopID]; ok {
		return st, nil
	}
	return shop.DefaultSettings(shopID), nil
}

// inventory.Repository

func (t *memTx) ProductsByIDs(_ context.Context, shopID string, ids []string) (map[string]inventory.Product, error) {
	out := make(map[string]inventory.Product, len(ids))
	for _, id := range ids {
		if p, ok := t.state.products[key{shopID, id}]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (t *memTx) InsertAdjustment(_ context.Context, a *inventory.Adjustment) error {
	if err := t.claim("stock_adjustments", a.ShopID, a.ClientEventID, a.ID); err != nil {
		return err
	}
	t.state.adjustments[key{a.ShopID, a.ID}] = *a
	return nil
}

func (t *memTx) FindAdjustmentByClientEvent(_ context.Context, shopID, clientEventID string) (*inventory.Adjustment, error) {
	id, ok := t.lookup("stock_adjustments", shopID, clientEventID)
	if !ok {
		return nil, notFound("ajuste", clientEventID)
	}
	a := t.state.adjustments[key{shopID, id}]
	return &a, nil
}

// sale.Repository

func copyInvoice(inv sale.Invoice) *sale.Invoice {
	inv.Lines = append([]sale.Line(nil), inv.Lines...)
	return &inv
}

func (t *memTx) InsertInvoice(_ context.Context, inv *sale.Invoice) error {
	if err := t.claim("invoices", inv.ShopID, inv.ClientEventID, inv.ID); err != nil {
		return err
	}
	t.state.invoices[key{inv.ShopID, inv.ID}] = *copyInvoice(*inv)
	return nil
}

func (t *memTx) FindInvoice(_ context.Context, shopID, id string) (*sale.Invoice, error) {
	inv, ok := t.state.invoices[key{shopID, id}]
	if !ok {
		return nil, notFound("venda", id)
	}
	return copyInvoice(inv), nil
}

func (t *memTx) FindInvoiceForUpdate(ctx context.Context, shopID, id string) (*sale.Invoice, error) {
	return t.FindInvoice(ctx, shopID, id)
}

func (t *memTx) FindInvoiceByClientEvent(ctx context.Context, shopID, clientEventID string) (*sale.Invoice, error) {
	id, ok := t.lookup("invoices", shopID, clientEventID)
	if !ok {
		return nil, notFound("venda", clientEventID)
	}
	return t.FindInvoice(ctx, shopID, id)
}

func (t *memTx) MarkInvoiceVoided(_ context.Context, inv *sale.Invoice) error {
	k := key{inv.ShopID, inv.ID}
	stored, ok := t.state.invoices[k]
	if !ok {
		return notFound("venda", inv.ID)
	}
	stored.Status = inv.Status
	stored.VoidReason = inv.VoidReason
	stored.VoidedAt = inv.VoidedAt
	t.state.invoices[k] = stored
	return nil
}

// purchase.Repository

func copyPurchase(p purchase.Purchase) *purchase.Purchase {
	p.Lines = append([]purchase.Line(nil), p.Lines...)
	return &p
}

func (t *memTx) InsertPurchase(_ context.Context, p *purchase.Purchase) error {
	if err := t.claim("purchases", p.ShopID, p.ClientEventID, p.ID); err != nil {
		return err
	}
	t.state.purchases[key{p.ShopID, p.ID}] = *copyPurchase(*p)
	return nil
}

func (t *memTx) FindPurchase(_ context.Context, shopID, id string) (*purchase.Purchase, error) {
	p, ok := t.state.purchases[key{shopID, id}]
	if !ok {
		return nil, notFound("compra", id)
	}
	return copyPurchase(p), nil
}

func (t *memTx) FindPurchaseForUpdate(ctx context.Context, shopID, id string) (*purchase.Purchase, error) {
	return t.FindPurchase(ctx, shopID, id)
}

func (t *memTx) FindPurchaseByClientEvent(ctx context.Context, shopID, clientEventID string) (*purchase.Purchase, error) {
	id, ok := t.lookup("purchases", shopID, clientEventID)
	if !ok {
		return nil, notFound("compra", clientEventID)
	}
	return t.FindPurchase(ctx, shopID, id)
}

func (t *memTx) MarkPurchaseVoided(_ context.Context, p *purchase.Purchase) error {
	k := key{p.ShopID, p.ID}
	stored, ok := t.state.purchases[k]
	if !ok {
		return notFound("compra", p.ID)
	}
	stored.Status = p.Status
	stored.VoidReason = p.VoidReason
	stored.VoidedAt = p.VoidedAt
	t.state.purchases[k] = stored
	return nil
}

// customer.Repository

func (t *memTx) InsertCustomer(_ context.Context, c *customer.Customer) error {
	if err := t.claim("customers", c.ShopID, c.ClientEventID, c.ID); err != nil {
		return err
	}
	t.state.customers[key{c.ShopID, c.ID}] = *c
	return nil
}

func (t *memTx) FindCustomer(_ context.Context, shopID, id string) (*customer.Customer, error) {
	c, ok := t.state.customers[key{shopID, id}]
	if !ok {
		return nil, notFound("cliente", id)
	}
	return &c, nil
}

func (t *memTx) FindCustomerByClientEvent(ctx context.Context, shopID, clientEventID string) (*customer.Customer, error) {
	id, ok := t.lookup("customers", shopID, clientEventID)
	if !ok {
		return nil, notFound("cliente", clientEventID)
	}
	return t.FindCustomer(ctx, shopID, id)
}

func (t *memTx) InsertPayment(_ context.Context, p *customer.Payment) error {
	if err := t.claim("customer_payments", p.ShopID, p.ClientEventID, p.ID); err != nil {
		return err
	}
	t.state.payments[key{p.ShopID, p.ID}] = *p
	return nil
}

func (t *memTx) FindPaymentByClientEvent(_ context.Context, shopID, clientEventID string) (*customer.Payment, error) {
	id, ok := t.lookup("customer_payments", shopID, clientEventID)
	if !ok {
		return nil, notFound("pagamento", clientEventID)
	}
	p := t.state.payments[key{shopID, id}]
	return &p, nil
}

// expense.Repository

func (t *memTx) InsertExpense(_ context.Context, e *expense.Expense) error {
	if err := t.claim("expenses", e.ShopID, e.ClientEventID, e.ID); err != nil {
		return err
	}
	t.state.expenses[key{e.ShopID, e.ID}] = *e
	return nil
}

func (t *memTx) FindExpenseByClientEvent(_ context.Context, shopID, clientEventID string) (*expense.Expense, error) {
	id, ok := t.lookup("expenses", shopID, clientEventID)
	if !ok {
		return nil, notFound("despesa", clientEventID)
	}
	e := t.state.expenses[key{shopID, id}]
	return &e, nil
}
