package backoff

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hugohenrick/pdv-sync/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	delays []time.Duration
}

func (r *recorder) sleep(ctx context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	return ctx.Err()
}

func transient() error {
	return apperror.New(apperror.KindTransientNetwork, "conexão recusada")
}

func TestWithBackoff_ExhaustsRetries(t *testing.T) {
	rec := &recorder{}
	calls := 0

	err := WithBackoff(context.Background(), func(context.Context) error {
		calls++
		return transient()
	}, Options{Retries: 3, Base: 100 * time.Millisecond, Max: time.Second, Sleep: rec.sleep})

	require.Error(t, err)
	assert.Equal(t, 4, calls)
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 400 * time.Millisecond}, rec.delays)
}

func TestWithBackoff_StopsOnSuccess(t *testing.T) {
	rec := &recorder{}
	calls := 0

	err := WithBackoff(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return transient()
		}
		return nil
	}, Options{Retries: 5, Sleep: rec.sleep})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Len(t, rec.delays, 2)
}

func TestWithBackoff_DoesNotRetryPermanentErrors(t *testing.T) {
	calls := 0
	want := apperror.Validation("payload inválido")

	err := WithBackoff(context.Background(), func(context.Context) error {
		calls++
		return want
	}, Options{Retries: 3, Sleep: (&recorder{}).sleep})

	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, want)
}

func TestWithBackoff_CustomRetryable(t *testing.T) {
	calls := 0
	errFlaky := errors.New("flaky")

	_ = WithBackoff(context.Background(), func(context.Context) error {
		calls++
		return errFlaky
	}, Options{
		Retries:   2,
		Sleep:     (&recorder{}).sleep,
		Retryable: func(err error) bool { return !errors.Is(err, errFlaky) },
	})
	assert.Equal(t, 1, calls)
}

func TestWithBackoff_CancelledContextStopsRetries(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	err := WithBackoff(ctx, func(context.Context) error {
		calls++
		cancel()
		return transient()
	}, Options{Retries: 10, Base: time.Hour, Max: time.Hour})

	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDelay_CappedAndJittered(t *testing.T) {
	o := Options{Base: 500 * time.Millisecond, Max: 5 * time.Second}

	assert.Equal(t, 500*time.Millisecond, o.Delay(0))
	assert.Equal(t, time.Second, o.Delay(1))
	assert.Equal(t, 4*time.Second, o.Delay(3))
	assert.Equal(t, 5*time.Second, o.Delay(4))
	assert.Equal(t, 5*time.Second, o.Delay(1000))

	o.Jitter = 0.3
	o.Rand = func() float64 { return 0.999 }
	for n := 0; n < 20; n++ {
		d := o.Delay(n)
		assert.LessOrEqual(t, d, o.Max)
		assert.GreaterOrEqual(t, d, time.Duration(float64(o.Delay(0))*0.5))
	}

	o.Jitter = 0.9
	o.Rand = func() float64 { return 1 }
	assert.InDelta(t, float64(3500*time.Millisecond), float64(o.Delay(4)), float64(time.Microsecond))
}
