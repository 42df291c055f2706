package repository

import (
	"context"

	"github.com/hugohenrick/pdv-sync/internal/domain/expense"
)

// InsertExpense implementa expense.Repository.InsertExpense
func (t *pgTx) InsertExpense(ctx context.Context, e *expense.Expense) error {
	_, err := t.tx.Exec(ctx,
		`INSERT INTO expenses (id, shop_id, client_event_id, category, amount, note, spent_at, created_by, created_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, NULLIF($6, ''), $7, $8, $9)`,
		e.ID, e.ShopID, e.ClientEventID, e.Category, e.Amount, e.Note, e.SpentAt, e.CreatedBy, e.CreatedAt)
	return mapError(err, "despesa", e.ID)
}

// FindExpenseByClientEvent implementa expense.Repository.FindExpenseByClientEvent
func (t *pgTx) FindExpenseByClientEvent(ctx context.Context, shopID, clientEventID string) (*expense.Expense, error) {
	var e expense.Expense
	err := t.tx.QueryRow(ctx,
		`SELECT id::text, shop_id, client_event_id, category, amount, COALESCE(note, ''), spent_at, created_by, created_at
		FROM expenses WHERE shop_id = $1 AND client_event_id = $2`, shopID, clientEventID).Scan(
		&e.ID, &e.ShopID, &e.ClientEventID, &e.Category, &e.Amount, &e.Note, &e.SpentAt, &e.CreatedBy, &e.CreatedAt)
	if err != nil {
		return nil, mapError(err, "despesa", clientEventID)
	}
	return &e, nil
}
