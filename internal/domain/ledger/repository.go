package ledger

import (
	"context"

	"github.com/shopspring/decimal"
)

// Reader define as leituras derivadas do razão. Toda leitura de estoque ou saldo,
// seja para checagem na venda ou para relatório, passa por aqui.
type Reader interface {
	// StockOf calcula o estoque corrente de um produto (Σ change_qty)
	StockOf(ctx context.Context, shopID, productID string) (decimal.Decimal, error)

	// StockLevels calcula o estoque de todos os produtos com lançamentos na loja
	StockLevels(ctx context.Context, shopID string) ([]StockLevel, error)

	// StockEntries lista os lançamentos de um produto em ordem cronológica
	StockEntries(ctx context.Context, shopID, productID string) ([]StockLedgerEntry, error)

	// CustomerBalance calcula o saldo devedor de um cliente (Σdébito − Σcrédito)
	CustomerBalance(ctx context.Context, shopID, customerID string) (decimal.Decimal, error)

	// CustomerEntries lista os lançamentos de um cliente em ordem cronológica
	CustomerEntries(ctx context.Context, shopID, customerID string) ([]CustomerLedgerEntry, error)
}

// Writer define as operações de escrita do razão dentro de uma transação.
// Só existem inserções: nenhuma linha histórica é alterada ou removida.
type Writer interface {
	Reader

	// LockProducts serializa leitura-checagem-inserção por (loja, produto) até o fim da transação
	LockProducts(ctx context.Context, shopID string, productIDs []string) error

	// AppendStock insere lançamentos de estoque
	AppendStock(ctx context.Context, entries ...StockLedgerEntry) error

	// AppendCustomer insere lançamentos de clientes
	AppendCustomer(ctx context.Context, entries ...CustomerLedgerEntry) error

	// StockEntriesByRef lista os lançamentos de estoque originados por um documento
	StockEntriesByRef(ctx context.Context, shopID string, refType RefType, refID string) ([]StockLedgerEntry, error)

	// CustomerEntriesByRef lista os lançamentos de clientes originados por um documento
	CustomerEntriesByRef(ctx context.Context, shopID string, refType RefType, refID string) ([]CustomerLedgerEntry, error)
}
