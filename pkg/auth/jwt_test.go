package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pdv-sync/pkg/shopctx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cashier = shopctx.Principal{UserID: "u1", CurrentShopID: "shop-1", Role: "cashier"}

func TestNewJWTService_RequiresKey(t *testing.T) {
	_, err := NewJWTService("", time.Hour)
	assert.ErrorIs(t, err, ErrMissingJWTKey)
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc, err := NewJWTService("segredo", time.Hour)
	require.NoError(t, err)

	token, err := svc.GenerateToken(cashier)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "shop-1", claims.ShopID)

	other, _ := NewJWTService("outro", time.Hour)
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_Expired(t *testing.T) {
	svc, err := NewJWTService("segredo", time.Hour)
	require.NoError(t, err)
	svc.expiration = -time.Minute

	token, err := svc.GenerateToken(cashier)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTService_RequiresShop(t *testing.T) {
	svc, _ := NewJWTService("segredo", time.Hour)
	token, err := svc.GenerateToken(shopctx.Principal{UserID: "u1"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidClaims)
}

func TestJWTAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, _ := NewJWTService("segredo", time.Hour)
	token, _ := svc.GenerateToken(cashier)

	router := gin.New()
	router.GET("/me", JWTAuthMiddleware(svc), RoleAuthMiddleware("cashier", "owner"), func(c *gin.Context) {
		p, err := shopctx.FromContext(c.Request.Context())
		require.NoError(t, err)
		c.JSON(http.StatusOK, p)
	})
	router.GET("/owner", JWTAuthMiddleware(svc), RoleAuthMiddleware("owner"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	call := func(path, header string) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, call("/me", "Bearer "+token))
	assert.Equal(t, http.StatusUnauthorized, call("/me", ""))
	assert.Equal(t, http.StatusUnauthorized, call("/me", "Token "+token))
	assert.Equal(t, http.StatusUnauthorized, call("/me", "Bearer lixo"))
	assert.Equal(t, http.StatusForbidden, call("/owner", "Bearer "+token))
}

func TestJWTAuthMiddleware_ShopHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, _ := NewJWTService("segredo", time.Hour)
	token, _ := svc.GenerateToken(cashier)

	router := gin.New()
	router.POST("/sync", JWTAuthMiddleware(svc), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	call := func(shopID string) int {
		req := httptest.NewRequest(http.MethodPost, "/sync", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		if shopID != "" {
			req.Header.Set(shopctx.HeaderShopID, shopID)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, call(""))
	assert.Equal(t, http.StatusOK, call("shop-1"))
	assert.Equal(t, http.StatusForbidden, call("shop-2"))
}
