// Package apperror define a taxonomia de erros compartilhada entre o servidor
// de registro e o agente offline do PDV.
package apperror

import (
	"errors"
	"fmt"
)

// Kind classifica um erro pela forma como ele deve ser tratado
type Kind string

const (
	KindValidation        Kind = "VALIDATION"
	KindInsufficientStock Kind = "INSUFFICIENT_STOCK"
	KindTransientNetwork  Kind = "TRANSIENT_NETWORK"
	KindDuplicate         Kind = "DUPLICATE_EVENT"
	KindNotFound          Kind = "NOT_FOUND"
	KindInternal          Kind = "INTERNAL"
)

// Sentinelas usadas com errors.Is para testar a categoria de um erro
var (
	ErrValidation        = &Error{Kind: KindValidation, Message: "dados inválidos"}
	ErrInsufficientStock = &Error{Kind: KindInsufficientStock, Message: "estoque insuficiente"}
	ErrTransientNetwork  = &Error{Kind: KindTransientNetwork, Message: "falha temporária de rede"}
	ErrDuplicate         = &Error{Kind: KindDuplicate, Message: "evento já processado"}
	ErrNotFound          = &Error{Kind: KindNotFound, Message: "registro não encontrado"}
	ErrInternal          = &Error{Kind: KindInternal, Message: "erro interno"}
)

// Error é o erro tipado da aplicação
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implementa a interface error
func (e *Error) Error() string {
	if e.Message == "" && e.Err != nil {
		return e.Err.Error()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap expõe o erro original
func (e *Error) Unwrap() error {
	return e.Err
}

// Is considera dois *Error equivalentes quando têm o mesmo Kind
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New cria um erro de uma categoria com a mensagem informada
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf cria um erro formatado
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap envolve err em uma categoria, preservando a cadeia para errors.Is/As
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// WithKind classifica err sem acrescentar mensagem própria
func WithKind(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// Validation atalho para erros de validação
func Validation(message string) *Error {
	return New(KindValidation, message)
}

// KindOf retorna a categoria de err. Erros desconhecidos são tratados como internos.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}

	var k interface{ ErrorKind() Kind }
	if errors.As(err, &k) {
		return k.ErrorKind()
	}
	return KindInternal
}

// ErrorKind permite que KindOf funcione com *Error e com tipos próprios
func (e *Error) ErrorKind() Kind {
	return e.Kind
}

// IsRetryable indica se o erro pode ser tentado novamente mais tarde.
// Apenas falhas de rede e internas consomem orçamento de novas tentativas.
func IsRetryable(err error) bool {
	switch KindOf(err) {
	case KindTransientNetwork, KindInternal:
		return true
	default:
		return false
	}
}
