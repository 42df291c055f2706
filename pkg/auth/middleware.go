package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pdv-sync/internal/adapter/api/dto"
	"github.com/hugohenrick/pdv-sync/pkg/shopctx"
)

// JWTAuthMiddleware cria um middleware para autenticação JWT
func JWTAuthMiddleware(jwtService *JWTService) gin.HandlerFunc {
	if jwtService == nil {
		// Sem serviço JWT nenhuma rota protegida pode ser atendida
		return func(c *gin.Context) {
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(
				http.StatusInternalServerError,
				"Erro ao configurar autenticação",
				"O serviço JWT não foi inicializado corretamente",
			))
		}
	}

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				http.StatusUnauthorized,
				"Autenticação requerida",
				"O cabeçalho Authorization não foi fornecido",
			))
			return
		}

		// Verificar o formato "Bearer <token>"
		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				http.StatusUnauthorized,
				"Formato de token inválido",
				"Use o formato 'Bearer <token>'",
			))
			return
		}

		claims, err := jwtService.ValidateToken(tokenParts[1])
		if err != nil {
			message := "Token inválido"
			if err == ErrExpiredToken {
				message = "Token expirado"
			}

			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				http.StatusUnauthorized,
				message,
				err.Error(),
			))
			return
		}

		principal := shopctx.Principal{
			UserID:        claims.UserID,
			CurrentShopID: claims.ShopID,
			Role:          claims.Role,
		}

		// Um token só grava na própria loja
		if requested := c.GetHeader(shopctx.HeaderShopID); requested != "" && requested != principal.CurrentShopID {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(
				http.StatusForbidden,
				"Loja não autorizada",
				"O token não pertence à loja informada em "+shopctx.HeaderShopID,
			))
			return
		}

		// Armazenar o principal no contexto do gin e no contexto da requisição
		c.Set(shopctx.GinUserIDKey, principal.UserID)
		c.Set(shopctx.GinShopIDKey, principal.CurrentShopID)
		c.Set(shopctx.GinRoleKey, principal.Role)
		c.Request = c.Request.WithContext(shopctx.WithPrincipal(c.Request.Context(), principal))

		c.Next()
	}
}

// RoleAuthMiddleware cria um middleware para verificação de papel/função do usuário
func RoleAuthMiddleware(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := c.GetString(shopctx.GinRoleKey)
		if userRole == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				http.StatusUnauthorized,
				"Autenticação requerida",
				"",
			))
			return
		}

		for _, r := range roles {
			if userRole == r {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(
			http.StatusForbidden,
			"Acesso negado",
			"Você não tem permissão para acessar este recurso",
		))
	}
}

// GetCurrentPrincipal obtém o principal autenticado do contexto do gin
func GetCurrentPrincipal(c *gin.Context) shopctx.Principal {
	return shopctx.Principal{
		UserID:        c.GetString(shopctx.GinUserIDKey),
		CurrentShopID: c.GetString(shopctx.GinShopIDKey),
		Role:          c.GetString(shopctx.GinRoleKey),
	}
}
