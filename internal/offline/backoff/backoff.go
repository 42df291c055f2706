// Package backoff repete operações que falharam por motivo transitório,
// com espera exponencial limitada e jitter.
package backoff

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/hugohenrick/pdv-sync/pkg/apperror"
)

// MaxJitter é a maior redução aleatória aplicada a uma espera
const MaxJitter = 0.3

// Options configura a política de novas tentativas
type Options struct {
	Retries int           // Tentativas extras após a primeira
	Base    time.Duration // Espera da primeira repetição
	Max     time.Duration // Teto de qualquer espera
	Jitter  float64       // Fração [0, 0.3] de redução aleatória

	// Sleep substitui a espera real; nil usa um timer que respeita ctx
	Sleep func(ctx context.Context, d time.Duration) error
	// Retryable decide quais erros consomem tentativas; nil usa apperror.IsRetryable
	Retryable func(error) bool
	// Rand fornece valores em [0,1); nil usa math/rand
	Rand func() float64
}

// DefaultOptions retorna a política padrão do PDV
func DefaultOptions() Options {
	return Options{
		Retries: 3,
		Base:    500 * time.Millisecond,
		Max:     5 * time.Second,
		Jitter:  MaxJitter,
	}
}

func (o Options) normalized() Options {
	if o.Retries < 0 {
		o.Retries = 0
	}
	if o.Base <= 0 {
		o.Base = 500 * time.Millisecond
	}
	if o.Max <= 0 || o.Max < o.Base {
		o.Max = o.Base
	}
	if o.Jitter < 0 {
		o.Jitter = 0
	}
	if o.Jitter > MaxJitter {
		o.Jitter = MaxJitter
	}
	if o.Sleep == nil {
		o.Sleep = sleepContext
	}
	if o.Retryable == nil {
		o.Retryable = apperror.IsRetryable
	}
	if o.Rand == nil {
		o.Rand = rand.Float64
	}
	return o
}

// Delay calcula a espera antes da repetição n (n começa em 0):
// min(Max, Base·2ⁿ) reduzido em até Jitter.
func (o Options) Delay(n int) time.Duration {
	o = o.normalized()
	return o.delay(n)
}

func (o Options) delay(n int) time.Duration {
	d := o.Base
	for i := 0; i < n && d < o.Max; i++ {
		d *= 2
	}
	if d > o.Max {
		d = o.Max
	}
	if o.Jitter > 0 {
		reduction := o.Jitter * o.Rand()
		d -= time.Duration(float64(d) * reduction)
	}
	return d
}

// WithBackoff executa op até ela ter sucesso, falhar com erro não repetível ou
// esgotar Retries. Com Retries=3, op é chamada no máximo 4 vezes.
func WithBackoff(ctx context.Context, op func(ctx context.Context) error, opts Options) error {
	o := opts.normalized()

	var err error
	for attempt := 0; ; attempt++ {
		err = op(ctx)
		if err == nil {
			return nil
		}
		if !o.Retryable(err) || attempt >= o.Retries {
			return err
		}

		if sleepErr := o.Sleep(ctx, o.delay(attempt)); sleepErr != nil {
			return fmt.Errorf("%w (última falha: %v)", sleepErr, err)
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
