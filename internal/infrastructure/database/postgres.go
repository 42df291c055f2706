package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hugohenrick/pdv-sync/internal/config"
	"github.com/hugohenrick/pdv-sync/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Códigos SQLSTATE tratados pela camada de transação
const (
	CodeUniqueViolation      = "23505"
	CodeSerializationFailure = "40001"
	CodeDeadlockDetected     = "40P01"
)

// maxTxAttempts limita as repetições de uma transação abortada por conflito
const maxTxAttempts = 3

// PostgresDB gerencia a conexão com o PostgreSQL
type PostgresDB struct {
	pool   *pgxpool.Pool
	logger logger.Logger
}

// NewPostgresDB cria o pool de conexões a partir da configuração
func NewPostgresDB(ctx context.Context, cfg config.DatabaseConfig, log logger.Logger) (*PostgresDB, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("erro ao analisar configuração do pool: %w", err)
	}

	// Ajustar configurações do pool
	if cfg.MaxConnections > 0 {
		poolConfig.MaxConns = cfg.MaxConnections
	}
	if cfg.MinConnections > 0 {
		poolConfig.MinConns = cfg.MinConnections
	}
	if cfg.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	}
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("erro ao criar pool de conexões: %w", err)
	}

	// Testar conexão
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("erro ao verificar conexão com o banco de dados: %w", err)
	}

	return &PostgresDB{pool: pool, logger: log}, nil
}

// Pool expõe o pool para consultas fora de transação
func (db *PostgresDB) Pool() *pgxpool.Pool {
	return db.pool
}

// Ping verifica a conexão
func (db *PostgresDB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// Close fecha o pool de conexões
func (db *PostgresDB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// IsRetryableTxError indica falha de serialização ou deadlock
func IsRetryableTxError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == CodeSerializationFailure || pgErr.Code == CodeDeadlockDetected
}

// Transaction executa uma função dentro de uma transação. Conflitos de
// serialização e deadlocks reexecutam a função inteira, até maxTxAttempts vezes.
func (db *PostgresDB) Transaction(ctx context.Context, txFunc func(tx pgx.Tx) error) error {
	return withTxRetry(maxTxAttempts, db.logger, func() error {
		return db.transactionOnce(ctx, txFunc)
	})
}

// withTxRetry chama once até attempts vezes enquanto o erro for de conflito
func withTxRetry(attempts int, log logger.Logger, once func() error) error {
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = once()
		if err == nil || !IsRetryableTxError(err) {
			return err
		}
		if attempt < attempts {
			log.Warn("transação abortada por conflito, repetindo", "attempt", attempt, "error", err.Error())
		}
	}
	return err
}

func (db *PostgresDB) transactionOnce(ctx context.Context, txFunc func(tx pgx.Tx) error) error {
	// Iniciar transação
	tx, err := db.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("erro ao iniciar transação: %w", err)
	}

	// Executar função dentro da transação
	if err := txFunc(tx); err != nil {
		// Rollback em caso de erro
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			db.logger.Error("erro ao fazer rollback", "error", rbErr.Error())
		}
		return err
	}

	// Commit se tudo ocorreu bem
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("erro ao fazer commit: %w", err)
	}

	return nil
}
