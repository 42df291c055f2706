package ledger

import (
	"context"
	"fmt"

	"github.com/hugohenrick/pdv-sync/internal/domain/customer"
	ledgerdomain "github.com/hugohenrick/pdv-sync/internal/domain/ledger"
	"github.com/hugohenrick/pdv-sync/internal/domain/store"
	"github.com/hugohenrick/pdv-sync/pkg/apperror"
)

// CreateCustomer cadastra o cliente e lança o saldo inicial, se houver
func (w *Writer) CreateCustomer(ctx context.Context, shopID, userID string, in customer.Input) (*customer.Result, error) {
	c, err := customer.NewCustomer(shopID, userID, in)
	if err != nil {
		return nil, invalid(err)
	}

	var result *customer.Result
	err = w.store.InTx(ctx, func(tx store.Tx) error {
		if in.ClientEventID != "" {
			existing, err := tx.FindCustomerByClientEvent(ctx, shopID, in.ClientEventID)
			if err == nil {
				result = &customer.Result{Customer: existing, Replayed: true}
				return nil
			}
			if !isNotFound(err) {
				return err
			}
		}

		if err := tx.InsertCustomer(ctx, c); err != nil {
			return err
		}

		if c.OpeningBalance.IsPositive() {
			entry, err := ledgerdomain.NewCustomerEntry(shopID, c.ID,
				ledgerdomain.CustomerOpeningBalance, ledgerdomain.Debit, c.OpeningBalance,
				ledgerdomain.RefCustomer, c.ID, userID)
			if err != nil {
				return invalid(err)
			}
			if err := tx.AppendCustomer(ctx, entry); err != nil {
				return fmt.Errorf("erro ao gravar saldo inicial: %w", err)
			}
		}

		result = &customer.Result{Customer: c}
		return nil
	})

	if err != nil {
		if isDuplicate(err) && in.ClientEventID != "" {
			return w.replayCustomer(ctx, shopID, in.ClientEventID)
		}
		return nil, err
	}
	return result, nil
}

func (w *Writer) replayCustomer(ctx context.Context, shopID, clientEventID string) (*customer.Result, error) {
	var result *customer.Result
	err := w.store.InTx(ctx, func(tx store.Tx) error {
		c, err := tx.FindCustomerByClientEvent(ctx, shopID, clientEventID)
		if err != nil {
			return err
		}
		result = &customer.Result{Customer: c, Replayed: true}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RecordUdhaarPayment grava o recebimento de uma dívida e o crédito correspondente
func (w *Writer) RecordUdhaarPayment(ctx context.Context, shopID, userID string, in customer.PaymentInput) (*customer.PaymentResult, error) {
	p, err := customer.NewPayment(shopID, userID, in)
	if err != nil {
		return nil, invalid(err)
	}

	var result *customer.PaymentResult
	err = w.store.InTx(ctx, func(tx store.Tx) error {
		if in.ClientEventID != "" {
			replayed, err := findPaymentReplay(ctx, tx, shopID, in.ClientEventID)
			if err == nil {
				result = replayed
				return nil
			}
			if !isNotFound(err) {
				return err
			}
		}

		if _, err := tx.FindCustomer(ctx, shopID, p.CustomerID); err != nil {
			if isNotFound(err) {
				return apperror.Newf(apperror.KindValidation, "cliente %s não encontrado", p.CustomerID)
			}
			return err
		}

		if err := tx.InsertPayment(ctx, p); err != nil {
			return err
		}

		entry, err := ledgerdomain.NewCustomerEntry(shopID, p.CustomerID,
			ledgerdomain.CustomerPaymentReceived, ledgerdomain.Credit, p.Amount,
			ledgerdomain.RefPayment, p.ID, userID)
		if err != nil {
			return invalid(err)
		}
		if err := tx.AppendCustomer(ctx, entry); err != nil {
			return fmt.Errorf("erro ao gravar recebimento no razão: %w", err)
		}

		balance, err := tx.CustomerBalance(ctx, shopID, p.CustomerID)
		if err != nil {
			return err
		}

		result = &customer.PaymentResult{Payment: p, Balance: balance}
		return nil
	})

	if err != nil {
		if isDuplicate(err) && in.ClientEventID != "" {
			return w.replayPayment(ctx, shopID, in.ClientEventID)
		}
		return nil, err
	}

	if !result.Replayed {
		w.logger.Info("recebimento registrado",
			"shop_id", shopID,
			"customer_id", p.CustomerID,
			"amount", p.Amount.String(),
			"balance", result.Balance.String(),
		)
	}
	return result, nil
}

// replayPayment devolve o recebimento gravado por outra transação com o mesmo evento
func (w *Writer) replayPayment(ctx context.Context, shopID, clientEventID string) (*customer.PaymentResult, error) {
	var result *customer.PaymentResult
	err := w.store.InTx(ctx, func(tx store.Tx) error {
		var err error
		result, err = findPaymentReplay(ctx, tx, shopID, clientEventID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func findPaymentReplay(ctx context.Context, tx store.Tx, shopID, clientEventID string) (*customer.PaymentResult, error) {
	existing, err := tx.FindPaymentByClientEvent(ctx, shopID, clientEventID)
	if err != nil {
		return nil, err
	}
	balance, err := tx.CustomerBalance(ctx, shopID, existing.CustomerID)
	if err != nil {
		return nil, err
	}
	return &customer.PaymentResult{Payment: existing, Balance: balance, Replayed: true}, nil
}
