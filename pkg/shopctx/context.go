// Package shopctx carrega o principal autenticado (usuário, loja corrente e papel)
// entre os middlewares do gin e o context.Context das requisições.
package shopctx

import (
	"context"
	"errors"
)

type contextKey string

const (
	// principalKey é a chave usada para armazenar o principal no contexto
	principalKey contextKey = "principal"

	// Chaves usadas no contexto do gin
	GinUserIDKey = "user_id"
	GinShopIDKey = "shop_id"
	GinRoleKey   = "user_role"

	// HeaderShopID é a loja que o cliente declara estar sincronizando
	HeaderShopID = "X-Shop-ID"
)

// ErrNoPrincipal ocorre quando a requisição não passou pela autenticação
var ErrNoPrincipal = errors.New("principal não encontrado no contexto")

// Principal representa o usuário autenticado e a loja em que ele opera
type Principal struct {
	UserID        string `json:"user_id"`
	CurrentShopID string `json:"shop_id"`
	Role          string `json:"role"`
}

// WithPrincipal define o principal no contexto
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// FromContext obtém o principal do contexto
func FromContext(ctx context.Context) (Principal, error) {
	if p, ok := ctx.Value(principalKey).(Principal); ok && p.CurrentShopID != "" {
		return p, nil
	}
	return Principal{}, ErrNoPrincipal
}

// GetShopID obtém o shop ID de um contexto do Gin
func GetShopID(c interface{}) string {
	if gc, ok := c.(interface{ GetString(string) string }); ok {
		return gc.GetString(GinShopIDKey)
	}
	if ctx, ok := c.(context.Context); ok {
		if p, err := FromContext(ctx); err == nil {
			return p.CurrentShopID
		}
	}
	return ""
}
