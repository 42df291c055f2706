package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hugohenrick/pdv-sync/internal/domain/store"
	"github.com/hugohenrick/pdv-sync/internal/infrastructure/database"
	"github.com/hugohenrick/pdv-sync/pkg/apperror"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Store implementa store.Store sobre o PostgreSQL
type Store struct {
	db *database.PostgresDB
}

var _ store.Store = (*Store)(nil)

// NewStore cria uma nova instância de Store
func NewStore(db *database.PostgresDB) *Store {
	return &Store{db: db}
}

// InTx executa fn em uma transação do banco
func (s *Store) InTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return s.db.Transaction(ctx, func(tx pgx.Tx) error {
		return fn(&pgTx{tx: tx})
	})
}

// Ping verifica a conexão com o banco
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// pgTx implementa store.Tx; os métodos ficam distribuídos pelos arquivos *_repository.go
type pgTx struct {
	tx pgx.Tx
}

// mapError traduz erros do driver para a taxonomia da aplicação
func mapError(err error, entity, id string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperror.Newf(apperror.KindNotFound, "%s %s não encontrado(a)", entity, id)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == database.CodeUniqueViolation &&
		strings.HasSuffix(pgErr.ConstraintName, "_client_event_uq") {
		return apperror.Wrap(apperror.KindDuplicate, fmt.Sprintf("%s: evento já processado", entity), err)
	}

	return fmt.Errorf("erro de banco de dados (%s): %w", entity, err)
}
