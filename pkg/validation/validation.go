// Package validation concentra o validador de structs usado no endpoint de
// sincronização e nos controllers HTTP.
package validation

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/hugohenrick/pdv-sync/pkg/apperror"
)

var (
	once     sync.Once
	instance *validator.Validate
)

// New cria um validador que usa o nome JSON dos campos nas mensagens
func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Default retorna o validador compartilhado
func Default() *validator.Validate {
	once.Do(func() {
		instance = New()
	})
	return instance
}

// Struct valida v e devolve um erro de validação da aplicação
func Struct(v interface{}) error {
	if err := Default().Struct(v); err != nil {
		return apperror.New(apperror.KindValidation, Describe(err))
	}
	return nil
}

// Describe converte os erros do validador em uma mensagem legível
func Describe(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s: %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Namespace(), fe.Tag()))
	}
	return "campos inválidos: " + strings.Join(parts, ", ")
}
