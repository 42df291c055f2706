// Package orchestrator drena a fila local de cada loja para o endpoint de
// sincronização, com um único envio em andamento por loja.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hugohenrick/pdv-sync/internal/domain/syncevent"
	"github.com/hugohenrick/pdv-sync/internal/offline/backoff"
	"github.com/hugohenrick/pdv-sync/internal/offline/client"
	"github.com/hugohenrick/pdv-sync/internal/offline/queue"
	"github.com/hugohenrick/pdv-sync/pkg/logger"
	"github.com/robfig/cron/v3"
)

// ErrDrainInFlight indica que a loja já tem uma drenagem em andamento
var ErrDrainInFlight = errors.New("sincronização já em andamento para a loja")

// ErrStopped indica que o orquestrador já foi parado e não pode ser reiniciado
var ErrStopped = errors.New("orquestrador parado")

// shopAuthorizer é implementado por clientes que sabem se têm credencial para a loja
type shopAuthorizer interface {
	HasShopToken(shopID string) bool
}

// Options configura o orquestrador
type Options struct {
	SyncInterval   time.Duration // Drenagem periódica enquanto online
	ProbeInterval  time.Duration // Consulta de conectividade; zero desliga
	RequestTimeout time.Duration // Timeout de cada envio de lote
	DrainTimeout   time.Duration // Timeout de uma drenagem disparada em segundo plano
	MaxBatch       int           // Limite local; o servidor pode impor um menor
	Backoff        backoff.Options
}

func (o Options) normalized() Options {
	if o.SyncInterval <= 0 {
		o.SyncInterval = 45 * time.Second
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = 30 * time.Second
	}
	if o.DrainTimeout <= 0 {
		o.DrainTimeout = 5 * time.Minute
	}
	if o.MaxBatch <= 0 {
		o.MaxBatch = 500
	}
	return o
}

// Report resume uma drenagem
type Report struct {
	ShopID   string `json:"shop_id"`
	Synced   int    `json:"synced"`
	Skipped  int    `json:"skipped"`
	Retrying int    `json:"retrying"` // Erros por evento, continuam PENDING
	Failed   int    `json:"failed"`   // Recusados em definitivo
}

func (r *Report) add(o Report) {
	r.Synced += o.Synced
	r.Skipped += o.Skipped
	r.Retrying += o.Retrying
	r.Failed += o.Failed
}

// Orchestrator agenda e executa as drenagens
type Orchestrator struct {
	registry *queue.Registry
	client   client.Client
	opts     Options
	logger   logger.Logger
	now      func() time.Time

	online    atomic.Bool
	serverMax atomic.Int64 // Limite de lote informado pelo servidor em uma recusa

	mu       sync.Mutex
	inFlight map[string]bool
	stopped  bool

	lifecycle sync.Mutex
	cron      *cron.Cron
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// New cria o orquestrador. Ele começa offline até SetOnline ou a primeira consulta de saúde.
func New(registry *queue.Registry, c client.Client, opts Options, log logger.Logger) *Orchestrator {
	if log == nil {
		log = logger.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Orchestrator{
		registry: registry,
		client:   c,
		opts:     opts.normalized(),
		logger:   log.Named("orchestrator"),
		now:      time.Now,
		inFlight: make(map[string]bool),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Online informa o último estado de conectividade conhecido
func (o *Orchestrator) Online() bool {
	return o.online.Load()
}

// SetOnline atualiza a conectividade; a transição offline→online dispara a drenagem de todas as lojas
func (o *Orchestrator) SetOnline(online bool) {
	prev := o.online.Swap(online)
	if prev == online {
		return
	}

	o.logger.Info("conectividade alterada", "online", online)
	if online {
		o.TriggerAll()
	}
}

// Trigger dispara a drenagem da loja em segundo plano. Se já houver uma em
// andamento, o disparo é descartado.
func (o *Orchestrator) Trigger(shopID string) {
	if !o.begin() {
		return
	}

	go func() {
		defer o.wg.Done()

		ctx, cancel := context.WithTimeout(o.ctx, o.opts.DrainTimeout)
		defer cancel()

		report, err := o.Drain(ctx, shopID)
		switch {
		case errors.Is(err, ErrDrainInFlight):
			o.logger.Debug("drenagem ignorada, já em andamento", "shop_id", shopID)
		case err != nil:
			o.logger.Warn("drenagem interrompida", "shop_id", shopID, "error", err.Error())
		default:
			o.logger.Debug("drenagem concluída",
				"shop_id", shopID,
				"synced", report.Synced,
				"skipped", report.Skipped,
				"retrying", report.Retrying,
				"failed", report.Failed,
			)
		}
	}()
}

// TriggerAll dispara a drenagem de cada loja com eventos na fila
func (o *Orchestrator) TriggerAll() {
	shops, err := o.registry.Shops(o.ctx)
	if err != nil {
		o.logger.Error("erro ao listar lojas da fila", "error", err.Error())
		return
	}
	for _, shopID := range shops {
		o.Trigger(shopID)
	}
}

// begin registra uma goroutine de fundo; depois de Stop nada mais é iniciado
func (o *Orchestrator) begin() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.stopped {
		return false
	}
	o.wg.Add(1)
	return true
}

func (o *Orchestrator) authorized(shopID string) bool {
	a, ok := o.client.(shopAuthorizer)
	return !ok || a.HasShopToken(shopID)
}

// batchSize é o menor entre o limite local e o último informado pelo servidor
func (o *Orchestrator) batchSize() int {
	size := o.opts.MaxBatch
	if learned := int(o.serverMax.Load()); learned > 0 && learned < size {
		size = learned
	}
	return size
}

func (o *Orchestrator) acquire(shopID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.inFlight[shopID] {
		return false
	}
	o.inFlight[shopID] = true
	return true
}

func (o *Orchestrator) release(shopID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.inFlight, shopID)
}

// Drain envia os eventos vencidos da loja, tipo a tipo na ordem de prioridade.
// Uma falha transitória do lote inteiro encerra a drenagem desta loja. Sem
// credencial para a loja nada é enviado e a fila fica intacta.
func (o *Orchestrator) Drain(ctx context.Context, shopID string) (*Report, error) {
	if !o.acquire(shopID) {
		return nil, ErrDrainInFlight
	}
	defer o.release(shopID)

	report := &Report{ShopID: shopID}
	if !o.authorized(shopID) {
		return report, fmt.Errorf("loja %s: %w", shopID, client.ErrNoShopToken)
	}

	q := o.registry.For(shopID)
	for _, t := range syncevent.DrainOrder {
		events, err := q.ListDue(ctx, t)
		if err != nil {
			return report, err
		}

		r, err := o.sendChunks(ctx, q, t, events, o.opts.Backoff)
		report.add(r)
		if err != nil {
			return report, err
		}
	}

	return report, nil
}

// sendChunks divide os eventos em lotes de até batchSize e os envia em ordem
func (o *Orchestrator) sendChunks(ctx context.Context, q *queue.Queue, t syncevent.Type, events []queue.Event, policy backoff.Options) (Report, error) {
	report := Report{ShopID: q.ShopID()}
	for start := 0; start < len(events); {
		end := start + o.batchSize()
		if end > len(events) {
			end = len(events)
		}

		r, err := o.sendBatch(ctx, q, t, events[start:end], policy)
		report.add(r)
		if err != nil {
			return report, err
		}
		start = end
	}
	return report, nil
}

// sendBatch envia um lote e aplica os vereditos. Só retorna erro quando o lote
// inteiro falhou de forma transitória.
func (o *Orchestrator) sendBatch(ctx context.Context, q *queue.Queue, t syncevent.Type, events []queue.Event, policy backoff.Options) (Report, error) {
	report := Report{ShopID: q.ShopID()}
	if len(events) == 0 {
		return report, nil
	}

	ids := make([]string, len(events))
	envelopes := make([]syncevent.DomainEvent, len(events))
	for i, e := range events {
		ids[i] = e.LocalID
		envelopes[i] = e.DomainEvent()
	}

	if err := q.MarkSyncing(ctx, ids...); err != nil {
		return report, err
	}

	var result *syncevent.BatchResult
	err := backoff.WithBackoff(ctx, func(ctx context.Context) error {
		reqCtx, cancel := context.WithTimeout(ctx, o.opts.RequestTimeout)
		defer cancel()

		var err error
		result, err = o.client.PostBatch(reqCtx, q.ShopID(), t, envelopes)
		return err
	}, policy)

	// Os vereditos são gravados mesmo que ctx já tenha expirado
	stateCtx := context.WithoutCancel(ctx)

	if err != nil {
		var tooLarge *client.BatchTooLargeError
		if errors.As(err, &tooLarge) && tooLarge.Max < len(events) {
			// Nenhum evento foi aplicado; reenvia em lotes do tamanho aceito
			if rerr := q.Release(stateCtx, err.Error(), ids...); rerr != nil {
				return report, rerr
			}
			o.serverMax.Store(int64(tooLarge.Max))
			o.logger.Info("lote dividido pelo limite do servidor", "shop_id", q.ShopID(), "type", string(t), "events", len(ids), "max", tooLarge.Max)
			return o.sendChunks(ctx, q, t, events, policy)
		}

		if rej, ok := client.IsRejected(err); ok {
			for _, id := range ids {
				if ferr := q.MarkFailed(stateCtx, id, rej.Error()); ferr != nil {
					return report, ferr
				}
			}
			report.Failed = len(ids)
			o.logger.Warn("lote recusado", "shop_id", q.ShopID(), "type", string(t), "events", len(ids), "status", rej.StatusCode)
			return report, nil
		}

		if rerr := q.Release(stateCtx, err.Error(), ids...); rerr != nil {
			return report, rerr
		}
		return report, fmt.Errorf("envio do lote %s: %w", t, err)
	}

	return o.applyVerdicts(stateCtx, q, events, result)
}

// applyVerdicts remove os eventos aceitos e agenda nova tentativa para os que falharam
func (o *Orchestrator) applyVerdicts(ctx context.Context, q *queue.Queue, events []queue.Event, result *syncevent.BatchResult) (Report, error) {
	report := Report{ShopID: q.ShopID(), Synced: result.Synced, Skipped: result.Skipped}
	errs := result.ErrorByID()

	accepted := make([]string, 0, len(events))
	for _, e := range events {
		itemErr, failed := errs[e.LocalID]
		if !failed {
			accepted = append(accepted, e.LocalID)
			continue
		}

		next := o.now().Add(o.opts.Backoff.Delay(e.Attempts))
		if err := q.IncrementAttempt(ctx, e.LocalID, itemErr.Error, next); err != nil {
			return report, err
		}
		report.Retrying++
	}

	if err := q.MarkSynced(ctx, accepted...); err != nil {
		return report, err
	}
	return report, nil
}

// Start liga o timer de drenagem e a consulta de conectividade
func (o *Orchestrator) Start() error {
	o.lifecycle.Lock()
	defer o.lifecycle.Unlock()

	if o.cron != nil {
		return nil
	}
	o.mu.Lock()
	stopped := o.stopped
	o.mu.Unlock()
	if stopped {
		return ErrStopped
	}

	c := cron.New()
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", o.opts.SyncInterval), func() {
		if o.Online() {
			o.TriggerAll()
		}
	}); err != nil {
		return fmt.Errorf("erro ao agendar drenagem: %w", err)
	}

	if o.opts.ProbeInterval > 0 {
		if _, err := c.AddFunc(fmt.Sprintf("@every %s", o.opts.ProbeInterval), o.probe); err != nil {
			return fmt.Errorf("erro ao agendar consulta de conectividade: %w", err)
		}
		if o.begin() {
			go func() {
				defer o.wg.Done()
				o.probe()
			}()
		}
	}

	c.Start()
	o.cron = c
	o.logger.Info("orquestrador iniciado",
		"sync_interval", o.opts.SyncInterval.String(),
		"probe_interval", o.opts.ProbeInterval.String(),
	)
	return nil
}

func (o *Orchestrator) probe() {
	ctx, cancel := context.WithTimeout(o.ctx, o.opts.RequestTimeout)
	defer cancel()

	err := o.client.Health(ctx)
	if err != nil && o.Online() {
		o.logger.Warn("servidor inacessível", "error", err.Error())
	}
	o.SetOnline(err == nil)
}

// Stop desliga os timers, cancela as drenagens e espera elas terminarem
func (o *Orchestrator) Stop() {
	o.lifecycle.Lock()
	defer o.lifecycle.Unlock()

	o.mu.Lock()
	o.stopped = true
	o.mu.Unlock()

	o.cancel()
	if o.cron != nil {
		<-o.cron.Stop().Done()
		o.cron = nil
	}
	o.wg.Wait()
	o.logger.Info("orquestrador parado")
}
