package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/hugohenrick/pdv-sync/internal/domain/customer"
	ledgerdomain "github.com/hugohenrick/pdv-sync/internal/domain/ledger"
	"github.com/hugohenrick/pdv-sync/internal/domain/sale"
	"github.com/hugohenrick/pdv-sync/internal/domain/store"
	"github.com/hugohenrick/pdv-sync/pkg/apperror"
)

// CreateSale grava a nota, os itens e todos os efeitos no razão de forma atômica.
// Uma venda já aplicada com o mesmo ClientEventID retorna a nota original com Replayed.
func (w *Writer) CreateSale(ctx context.Context, shopID, userID string, in sale.Input) (*sale.Result, error) {
	if err := in.Validate(); err != nil {
		return nil, invalid(err)
	}

	var result *sale.Result
	err := w.store.InTx(ctx, func(tx store.Tx) error {
		if in.ClientEventID != "" {
			existing, err := tx.FindInvoiceByClientEvent(ctx, shopID, in.ClientEventID)
			if err == nil {
				result = &sale.Result{Invoice: existing, Replayed: true}
				return nil
			}
			if !isNotFound(err) {
				return err
			}
		}

		ids := make([]string, 0, len(in.Lines))
		for _, l := range in.Lines {
			ids = append(ids, l.ProductID)
		}
		products, err := loadProducts(ctx, tx, shopID, ids)
		if err != nil {
			return err
		}

		inv, err := sale.NewInvoice(shopID, userID, in, products)
		if err != nil {
			return invalid(err)
		}

		warnings, err := reserveStock(ctx, tx, shopID, inv.StockQuantities())
		if err != nil {
			return err
		}

		if inv.PaymentMode == sale.PaymentCredit {
			if err := checkCredit(ctx, tx, shopID, inv); err != nil {
				return err
			}
		}

		if err := tx.InsertInvoice(ctx, inv); err != nil {
			return err
		}

		var stockEntries []ledgerdomain.StockLedgerEntry
		for _, l := range inv.Lines {
			if !l.TrackStock {
				continue
			}
			e, err := ledgerdomain.NewStockEntry(shopID, l.ProductID, l.Qty.Neg(),
				ledgerdomain.StockSale, ledgerdomain.RefInvoice, inv.ID, userID)
			if err != nil {
				return invalid(err)
			}
			stockEntries = append(stockEntries, e)
		}
		if err := tx.AppendStock(ctx, stockEntries...); err != nil {
			return fmt.Errorf("erro ao gravar baixa de estoque: %w", err)
		}

		if inv.PaymentMode == sale.PaymentCredit {
			if err := w.postCreditSale(ctx, tx, inv, in.PaymentMethod); err != nil {
				return err
			}
		}

		result = &sale.Result{Invoice: inv, StockWarnings: warnings}
		return nil
	})

	if err != nil {
		if isDuplicate(err) && in.ClientEventID != "" {
			return w.replaySale(ctx, shopID, in.ClientEventID)
		}
		return nil, err
	}

	if !result.Replayed {
		w.logger.Info("venda registrada",
			"shop_id", shopID,
			"invoice_id", result.Invoice.ID,
			"total", result.Invoice.Total.String(),
			"warnings", len(result.StockWarnings),
		)
	}
	return result, nil
}

// checkCredit confere cadastro e limite do cliente na venda fiado
func checkCredit(ctx context.Context, tx store.Tx, shopID string, inv *sale.Invoice) error {
	c, err := tx.FindCustomer(ctx, shopID, inv.CustomerID)
	if err != nil {
		if isNotFound(err) {
			return apperror.Newf(apperror.KindValidation, "cliente %s não encontrado", inv.CustomerID)
		}
		return err
	}

	balance, err := tx.CustomerBalance(ctx, shopID, c.ID)
	if err != nil {
		return fmt.Errorf("erro ao calcular saldo do cliente: %w", err)
	}

	if err := c.CanOwe(balance, inv.Total.Sub(inv.AmountPaid)); err != nil {
		return invalid(err)
	}
	return nil
}

// postCreditSale lança o débito da venda fiado e, se houve entrada, o recebimento
func (w *Writer) postCreditSale(ctx context.Context, tx store.Tx, inv *sale.Invoice, method string) error {
	var entries []ledgerdomain.CustomerLedgerEntry

	if inv.Total.IsPositive() {
		debit, err := ledgerdomain.NewCustomerEntry(inv.ShopID, inv.CustomerID,
			ledgerdomain.CustomerSaleUdhaar, ledgerdomain.Debit, inv.Total,
			ledgerdomain.RefInvoice, inv.ID, inv.UserID)
		if err != nil {
			return invalid(err)
		}
		entries = append(entries, debit)
	}

	if inv.AmountPaid.IsPositive() {
		payment, err := customer.NewPayment(inv.ShopID, inv.UserID, customer.PaymentInput{
			CustomerID: inv.CustomerID,
			Amount:     inv.AmountPaid,
			Method:     method,
			Note:       "entrada na venda",
		})
		if err != nil {
			return invalid(err)
		}
		payment.InvoiceID = inv.ID

		if err := tx.InsertPayment(ctx, payment); err != nil {
			return fmt.Errorf("erro ao gravar pagamento: %w", err)
		}

		credit, err := ledgerdomain.NewCustomerEntry(inv.ShopID, inv.CustomerID,
			ledgerdomain.CustomerPaymentReceived, ledgerdomain.Credit, inv.AmountPaid,
			ledgerdomain.RefInvoice, inv.ID, inv.UserID)
		if err != nil {
			return invalid(err)
		}
		entries = append(entries, credit)
	}

	if err := tx.AppendCustomer(ctx, entries...); err != nil {
		return fmt.Errorf("erro ao gravar razão do cliente: %w", err)
	}
	return nil
}

func (w *Writer) replaySale(ctx context.Context, shopID, clientEventID string) (*sale.Result, error) {
	var result *sale.Result
	err := w.store.InTx(ctx, func(tx store.Tx) error {
		inv, err := tx.FindInvoiceByClientEvent(ctx, shopID, clientEventID)
		if err != nil {
			return err
		}
		result = &sale.Result{Invoice: inv, Replayed: true}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// VoidSale cancela a nota e grava estornos de todos os seus lançamentos.
// Os lançamentos originais permanecem intactos.
func (w *Writer) VoidSale(ctx context.Context, shopID, invoiceID, userID, reason string) (*sale.Invoice, error) {
	if reason == "" {
		return nil, invalid(sale.ErrEmptyVoidReason)
	}

	var inv *sale.Invoice
	err := w.store.InTx(ctx, func(tx store.Tx) error {
		var err error
		inv, err = tx.FindInvoiceForUpdate(ctx, shopID, invoiceID)
		if err != nil {
			return err
		}

		if err := inv.Void(reason); err != nil {
			if errors.Is(err, sale.ErrAlreadyVoided) {
				return apperror.Wrap(apperror.KindValidation, "venda "+invoiceID, err)
			}
			return invalid(err)
		}

		if err := reverseRef(ctx, tx, shopID, ledgerdomain.RefInvoice, inv.ID, userID); err != nil {
			return err
		}

		return tx.MarkInvoiceVoided(ctx, inv)
	})
	if err != nil {
		return nil, err
	}

	w.logger.Info("venda cancelada", "shop_id", shopID, "invoice_id", invoiceID, "reason", reason)
	return inv, nil
}

// GetInvoice busca uma nota com seus itens
func (w *Writer) GetInvoice(ctx context.Context, shopID, invoiceID string) (*sale.Invoice, error) {
	var inv *sale.Invoice
	err := w.store.InTx(ctx, func(tx store.Tx) error {
		var err error
		inv, err = tx.FindInvoice(ctx, shopID, invoiceID)
		return err
	})
	return inv, err
}
