// Package store define a unidade de trabalho usada pelo escritor do razão.
package store

import (
	"context"

	"github.com/hugohenrick/pdv-sync/internal/domain/customer"
	"github.com/hugohenrick/pdv-sync/internal/domain/expense"
	"github.com/hugohenrick/pdv-sync/internal/domain/inventory"
	"github.com/hugohenrick/pdv-sync/internal/domain/ledger"
	"github.com/hugohenrick/pdv-sync/internal/domain/purchase"
	"github.com/hugohenrick/pdv-sync/internal/domain/sale"
	"github.com/hugohenrick/pdv-sync/internal/domain/shop"
)

// Tx reúne todos os repositórios que participam de uma mesma transação
type Tx interface {
	ledger.Writer
	shop.Repository
	inventory.Repository
	sale.Repository
	purchase.Repository
	customer.Repository
	expense.Repository
}

// Store abre transações atômicas. Um erro retornado por fn desfaz tudo o que foi gravado.
type Store interface {
	InTx(ctx context.Context, fn func(tx Tx) error) error
	Ping(ctx context.Context) error
}
