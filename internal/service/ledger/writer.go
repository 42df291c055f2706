// Package ledger implementa o escritor transacional de vendas, compras e
// demais eventos do PDV, junto com as leituras derivadas do razão.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/hugohenrick/pdv-sync/internal/domain/inventory"
	ledgerdomain "github.com/hugohenrick/pdv-sync/internal/domain/ledger"
	"github.com/hugohenrick/pdv-sync/internal/domain/store"
	"github.com/hugohenrick/pdv-sync/pkg/apperror"
	"github.com/hugohenrick/pdv-sync/pkg/logger"
	"github.com/shopspring/decimal"
)

// Writer grava cada documento e seus efeitos no razão em uma única transação
type Writer struct {
	store  store.Store
	logger logger.Logger
}

// NewWriter cria uma nova instância de Writer
func NewWriter(s store.Store, log logger.Logger) *Writer {
	if log == nil {
		log = logger.NewNop()
	}
	return &Writer{
		store:  s,
		logger: log.Named("ledger"),
	}
}

func invalid(err error) error {
	return apperror.WithKind(apperror.KindValidation, err)
}

func isNotFound(err error) bool {
	return errors.Is(err, apperror.ErrNotFound)
}

func isDuplicate(err error) bool {
	return errors.Is(err, apperror.ErrDuplicate)
}

// loadProducts busca os produtos referenciados; qualquer ausência é erro de validação
func loadProducts(ctx context.Context, tx store.Tx, shopID string, ids []string) (map[string]inventory.Product, error) {
	products, err := tx.ProductsByIDs(ctx, shopID, ids)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if _, ok := products[id]; !ok {
			return nil, apperror.Newf(apperror.KindValidation, "produto %s não encontrado", id)
		}
	}
	return products, nil
}

func sortedKeys(m map[string]decimal.Decimal) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// reserveStock bloqueia os produtos e confere se as baixas pedidas respeitam a
// política da loja. Os bloqueios valem até o commit da transação corrente.
func reserveStock(ctx context.Context, tx store.Tx, shopID string, outgoing map[string]decimal.Decimal) ([]ledgerdomain.StockWarning, error) {
	ids := sortedKeys(outgoing)
	if len(ids) == 0 {
		return nil, nil
	}

	if err := tx.LockProducts(ctx, shopID, ids); err != nil {
		return nil, fmt.Errorf("erro ao bloquear produtos: %w", err)
	}

	settings, err := tx.ShopSettings(ctx, shopID)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar configuração da loja: %w", err)
	}

	var (
		shortfalls []ledgerdomain.Shortfall
		warnings   []ledgerdomain.StockWarning
	)
	for _, id := range ids {
		requested := outgoing[id]
		available, err := tx.StockOf(ctx, shopID, id)
		if err != nil {
			return nil, fmt.Errorf("erro ao calcular estoque de %s: %w", id, err)
		}

		resulting := available.Sub(requested)
		if !resulting.IsNegative() {
			continue
		}

		if !settings.AllowNegativeStock {
			shortfalls = append(shortfalls, ledgerdomain.Shortfall{
				ProductID: id,
				Requested: requested,
				Available: available,
			})
			continue
		}

		warnings = append(warnings, ledgerdomain.StockWarning{
			ProductID: id,
			Requested: requested,
			Available: available,
			Resulting: resulting,
		})
	}

	if len(shortfalls) > 0 {
		return nil, &ledgerdomain.InsufficientStockError{Lines: shortfalls}
	}
	return warnings, nil
}

// reverseRef grava os estornos de todos os lançamentos originais de um documento
func reverseRef(ctx context.Context, tx store.Tx, shopID string, refType ledgerdomain.RefType, refID, userID string) error {
	stockEntries, err := tx.StockEntriesByRef(ctx, shopID, refType, refID)
	if err != nil {
		return fmt.Errorf("erro ao buscar lançamentos de estoque: %w", err)
	}

	var stockReversals []ledgerdomain.StockLedgerEntry
	for _, e := range stockEntries {
		if e.Type == ledgerdomain.StockReversal {
			continue
		}
		stockReversals = append(stockReversals, e.Reverse(userID))
	}
	if err := tx.AppendStock(ctx, stockReversals...); err != nil {
		return fmt.Errorf("erro ao gravar estornos de estoque: %w", err)
	}

	customerEntries, err := tx.CustomerEntriesByRef(ctx, shopID, refType, refID)
	if err != nil {
		return fmt.Errorf("erro ao buscar lançamentos de clientes: %w", err)
	}

	var customerReversals []ledgerdomain.CustomerLedgerEntry
	for _, e := range customerEntries {
		if e.Type == ledgerdomain.CustomerReversal {
			continue
		}
		customerReversals = append(customerReversals, e.Reverse(userID))
	}
	if err := tx.AppendCustomer(ctx, customerReversals...); err != nil {
		return fmt.Errorf("erro ao gravar estornos de clientes: %w", err)
	}

	return nil
}
