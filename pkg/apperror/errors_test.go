package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(nil))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, KindNotFound, KindOf(New(KindNotFound, "x")))

	wrapped := fmt.Errorf("camada: %w", Validation("campo"))
	assert.Equal(t, KindValidation, KindOf(wrapped))
}

func TestIs(t *testing.T) {
	err := Wrap(KindDuplicate, "notas", errors.New("unique violation"))

	assert.ErrorIs(t, err, ErrDuplicate)
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "notas: unique violation", err.Error())
}

func TestWithKind(t *testing.T) {
	base := errors.New("nome não pode ser vazio")
	err := WithKind(KindValidation, base)

	assert.Equal(t, base.Error(), err.Error())
	assert.ErrorIs(t, err, base)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(New(KindTransientNetwork, "timeout")))
	assert.True(t, IsRetryable(errors.New("desconhecido")))
	assert.False(t, IsRetryable(Validation("x")))
	assert.False(t, IsRetryable(New(KindInsufficientStock, "x")))
	assert.False(t, IsRetryable(New(KindNotFound, "x")))
}
