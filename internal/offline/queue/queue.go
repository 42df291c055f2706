// Package queue é a fila durável de eventos do PDV, gravada em SQLite.
// Cada loja enxerga apenas os próprios eventos.
package queue

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hugohenrick/pdv-sync/internal/domain/syncevent"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// ErrNotFound indica que o evento não existe na fila da loja
var ErrNotFound = errors.New("evento não encontrado na fila")

// Event é um evento de domínio aguardando envio
type Event struct {
	Seq           int64           `json:"seq"`
	LocalID       string          `json:"local_id"`
	ShopID        string          `json:"shop_id"`
	Type          syncevent.Type  `json:"type"`
	Payload       json.RawMessage `json:"payload"`
	Status        Status          `json:"status"`
	Attempts      int             `json:"attempts"`
	LastError     string          `json:"last_error,omitempty"`
	NextAttemptAt time.Time       `json:"next_attempt_at"`
	CreatedAt     time.Time       `json:"created_at"`
}

// DomainEvent converte para o envelope enviado ao servidor
func (e Event) DomainEvent() syncevent.DomainEvent {
	return syncevent.DomainEvent{ID: e.LocalID, Payload: e.Payload, CreatedAt: e.CreatedAt}
}

// DB é o arquivo SQLite compartilhado por todas as filas do dispositivo
type DB struct {
	db  *sql.DB
	now func() time.Time
}

// Open cria ou abre a fila no caminho informado. Eventos que ficaram em
// SYNCING após uma queda do processo voltam para PENDING.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("erro ao abrir fila: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("erro ao conectar na fila: %w", err)
	}

	// SQLite aceita um único escritor
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = FULL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("erro ao executar %q: %w", p, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("erro ao criar schema da fila: %w", err)
	}

	q := &DB{db: db, now: time.Now}
	if _, err := q.ResetSyncing(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return q, nil
}

// Close fecha o arquivo da fila
func (d *DB) Close() error {
	if d.db == nil {
		return nil
	}
	return d.db.Close()
}

// ResetSyncing devolve para PENDING os eventos interrompidos no meio de um envio
func (d *DB) ResetSyncing(ctx context.Context) (int64, error) {
	res, err := d.db.ExecContext(ctx,
		`UPDATE pending_events SET status = ? WHERE status = ?`, KindPending, KindSyncing)
	if err != nil {
		return 0, fmt.Errorf("erro ao recuperar eventos em envio: %w", err)
	}
	return res.RowsAffected()
}

// Shops lista as lojas com eventos na fila
func (d *DB) Shops(ctx context.Context) ([]string, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT DISTINCT shop_id FROM pending_events ORDER BY shop_id`)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar lojas: %w", err)
	}
	defer rows.Close()

	var shops []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		shops = append(shops, s)
	}
	return shops, rows.Err()
}

// Registry mantém uma fila por loja sobre o mesmo arquivo
type Registry struct {
	db       *DB
	deviceID string

	mu     sync.Mutex
	queues map[string]*Queue
}

// NewRegistry cria o registro de filas. deviceID entra no fingerprint dos ids locais.
func NewRegistry(db *DB, deviceID string) *Registry {
	return &Registry{db: db, deviceID: deviceID, queues: make(map[string]*Queue)}
}

// For retorna a fila da loja, criando-a na primeira chamada
func (r *Registry) For(shopID string) *Queue {
	r.mu.Lock()
	defer r.mu.Unlock()

	q, ok := r.queues[shopID]
	if !ok {
		q = &Queue{db: r.db, shopID: shopID, fingerprint: r.deviceID + "/" + shopID}
		r.queues[shopID] = q
	}
	return q
}

// Shops lista as lojas com eventos gravados
func (r *Registry) Shops(ctx context.Context) ([]string, error) {
	return r.db.Shops(ctx)
}

// DB retorna o arquivo compartilhado
func (r *Registry) DB() *DB {
	return r.db
}

// Queue é a fila de uma loja
type Queue struct {
	db          *DB
	shopID      string
	fingerprint string
}

// ShopID retorna a loja dona da fila
func (q *Queue) ShopID() string {
	return q.shopID
}

const eventColumns = `seq, local_id, shop_id, type, payload, status, attempts, last_error, next_attempt_at, created_at`

func scanEvents(rows *sql.Rows) ([]Event, error) {
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			e                 Event
			status            string
			payload           []byte
			nextAt, createdAt int64
		)
		if err := rows.Scan(&e.Seq, &e.LocalID, &e.ShopID, &e.Type, &payload, &status,
			&e.Attempts, &e.LastError, &nextAt, &createdAt); err != nil {
			return nil, fmt.Errorf("erro ao ler evento da fila: %w", err)
		}
		e.Payload = json.RawMessage(payload)
		e.Status = parseStatus(status, e.LastError)
		e.NextAttemptAt = time.UnixMilli(nextAt).UTC()
		e.CreatedAt = time.UnixMilli(createdAt).UTC()
		events = append(events, e)
	}
	return events, rows.Err()
}

// Enqueue grava o evento de forma síncrona e retorna o id local
func (q *Queue) Enqueue(ctx context.Context, t syncevent.Type, payload json.RawMessage) (string, error) {
	if !json.Valid(payload) {
		return "", fmt.Errorf("payload do evento %s não é JSON válido", t)
	}

	now := q.db.now()
	id := newLocalIDAt(now, q.fingerprint)
	_, err := q.db.db.ExecContext(ctx,
		`INSERT INTO pending_events (local_id, shop_id, type, payload, status, next_attempt_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, q.shopID, t, []byte(payload), KindPending, now.UnixMilli(), now.UnixMilli())
	if err != nil {
		return "", fmt.Errorf("erro ao enfileirar evento: %w", err)
	}
	return id, nil
}

// Get busca um evento pelo id local
func (q *Queue) Get(ctx context.Context, localID string) (*Event, error) {
	rows, err := q.db.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM pending_events WHERE shop_id = ? AND local_id = ?`, q.shopID, localID)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar evento: %w", err)
	}
	events, err := scanEvents(rows)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, ErrNotFound
	}
	return &events[0], nil
}

// ListPending lista os eventos PENDING em ordem de criação; t vazio lista todos os tipos
func (q *Queue) ListPending(ctx context.Context, t syncevent.Type) ([]Event, error) {
	return q.list(ctx, t, KindPending, false)
}

// ListDue lista os eventos PENDING cujo próximo envio já venceu
func (q *Queue) ListDue(ctx context.Context, t syncevent.Type) ([]Event, error) {
	return q.list(ctx, t, KindPending, true)
}

// ListFailed lista os eventos rejeitados em definitivo
func (q *Queue) ListFailed(ctx context.Context, t syncevent.Type) ([]Event, error) {
	return q.list(ctx, t, KindFailed, false)
}

func (q *Queue) list(ctx context.Context, t syncevent.Type, kind StatusKind, dueOnly bool) ([]Event, error) {
	query := `SELECT ` + eventColumns + ` FROM pending_events WHERE shop_id = ? AND status = ?`
	args := []interface{}{q.shopID, kind}
	if t != "" {
		query += ` AND type = ?`
		args = append(args, t)
	}
	if dueOnly {
		query += ` AND next_attempt_at <= ?`
		args = append(args, q.db.now().UnixMilli())
	}
	query += ` ORDER BY seq`

	rows, err := q.db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar fila: %w", err)
	}
	return scanEvents(rows)
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func (q *Queue) exec(ctx context.Context, query string, localIDs []string, leading ...interface{}) error {
	if len(localIDs) == 0 {
		return nil
	}
	args := append([]interface{}{}, leading...)
	args = append(args, q.shopID)
	for _, id := range localIDs {
		args = append(args, id)
	}
	query = fmt.Sprintf(query, placeholders(len(localIDs)))
	if _, err := q.db.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("erro ao atualizar fila: %w", err)
	}
	return nil
}

// MarkSyncing marca os eventos como em envio
func (q *Queue) MarkSyncing(ctx context.Context, localIDs ...string) error {
	return q.exec(ctx,
		`UPDATE pending_events SET status = ? WHERE shop_id = ? AND local_id IN (%s)`,
		localIDs, KindSyncing)
}

// MarkSynced remove os eventos aceitos pelo servidor
func (q *Queue) MarkSynced(ctx context.Context, localIDs ...string) error {
	return q.exec(ctx,
		`DELETE FROM pending_events WHERE shop_id = ? AND local_id IN (%s)`,
		localIDs)
}

// Release devolve eventos para PENDING registrando o erro, sem contar tentativa
func (q *Queue) Release(ctx context.Context, errMsg string, localIDs ...string) error {
	return q.exec(ctx,
		`UPDATE pending_events SET status = ?, last_error = ? WHERE shop_id = ? AND local_id IN (%s)`,
		localIDs, KindPending, errMsg)
}

// MarkFailed marca o evento como rejeitado em definitivo
func (q *Queue) MarkFailed(ctx context.Context, localID, reason string) error {
	return q.exec(ctx,
		`UPDATE pending_events SET status = ?, last_error = ? WHERE shop_id = ? AND local_id IN (%s)`,
		[]string{localID}, KindFailed, reason)
}

// IncrementAttempt registra uma falha do evento e agenda o próximo envio; o evento continua PENDING
func (q *Queue) IncrementAttempt(ctx context.Context, localID, errMsg string, nextAttemptAt time.Time) error {
	return q.exec(ctx,
		`UPDATE pending_events SET status = ?, attempts = attempts + 1, last_error = ?, next_attempt_at = ?
		WHERE shop_id = ? AND local_id IN (%s)`,
		[]string{localID}, KindPending, errMsg, nextAttemptAt.UnixMilli())
}

// Requeue devolve eventos FAILED para PENDING com envio imediato; sem ids, devolve todos
func (q *Queue) Requeue(ctx context.Context, localIDs ...string) (int64, error) {
	now := q.db.now().UnixMilli()
	if len(localIDs) == 0 {
		res, err := q.db.db.ExecContext(ctx,
			`UPDATE pending_events SET status = ?, next_attempt_at = ? WHERE shop_id = ? AND status = ?`,
			KindPending, now, q.shopID, KindFailed)
		if err != nil {
			return 0, fmt.Errorf("erro ao reenfileirar eventos: %w", err)
		}
		return res.RowsAffected()
	}

	args := []interface{}{KindPending, now, q.shopID, KindFailed}
	for _, id := range localIDs {
		args = append(args, id)
	}
	res, err := q.db.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE pending_events SET status = ?, next_attempt_at = ?
		WHERE shop_id = ? AND status = ? AND local_id IN (%s)`, placeholders(len(localIDs))),
		args...)
	if err != nil {
		return 0, fmt.Errorf("erro ao reenfileirar eventos: %w", err)
	}
	return res.RowsAffected()
}

// Purge remove eventos da fila independente do estado
func (q *Queue) Purge(ctx context.Context, localIDs ...string) (int64, error) {
	if len(localIDs) == 0 {
		return 0, nil
	}
	args := []interface{}{q.shopID}
	for _, id := range localIDs {
		args = append(args, id)
	}
	res, err := q.db.db.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM pending_events WHERE shop_id = ? AND local_id IN (%s)`, placeholders(len(localIDs))),
		args...)
	if err != nil {
		return 0, fmt.Errorf("erro ao remover eventos: %w", err)
	}
	return res.RowsAffected()
}

// PurgeFailed remove todos os eventos FAILED da loja
func (q *Queue) PurgeFailed(ctx context.Context) (int64, error) {
	res, err := q.db.db.ExecContext(ctx,
		`DELETE FROM pending_events WHERE shop_id = ? AND status = ?`, q.shopID, KindFailed)
	if err != nil {
		return 0, fmt.Errorf("erro ao remover eventos rejeitados: %w", err)
	}
	return res.RowsAffected()
}

// TypeStats resume a fila de um tipo de evento
type TypeStats struct {
	Type      syncevent.Type `json:"type"`
	Pending   int            `json:"pending"`
	Syncing   int            `json:"syncing"`
	Failed    int            `json:"failed"`
	LastError string         `json:"last_error,omitempty"`
}

// Stats conta os eventos por tipo e estado
func (q *Queue) Stats(ctx context.Context) ([]TypeStats, error) {
	rows, err := q.db.db.QueryContext(ctx,
		`SELECT type,
			SUM(CASE WHEN status = 'PENDING' THEN 1 ELSE 0 END),
			SUM(CASE WHEN status = 'SYNCING' THEN 1 ELSE 0 END),
			SUM(CASE WHEN status = 'FAILED' THEN 1 ELSE 0 END),
			COALESCE((SELECT p2.last_error FROM pending_events p2
				WHERE p2.shop_id = p.shop_id AND p2.type = p.type AND p2.last_error <> ''
				ORDER BY p2.seq DESC LIMIT 1), '')
		FROM pending_events p
		WHERE shop_id = ?
		GROUP BY shop_id, type
		ORDER BY type`, q.shopID)
	if err != nil {
		return nil, fmt.Errorf("erro ao calcular estatísticas da fila: %w", err)
	}
	defer rows.Close()

	var stats []TypeStats
	for rows.Next() {
		var s TypeStats
		if err := rows.Scan(&s.Type, &s.Pending, &s.Syncing, &s.Failed, &s.LastError); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
