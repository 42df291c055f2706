package shop

import "context"

// Settings representa a política da loja consultada no momento da venda
type Settings struct {
	ShopID             string `json:"shop_id"`
	AllowNegativeStock bool   `json:"allow_negative_stock"`
}

// DefaultSettings retorna a política aplicada a lojas sem configuração gravada
func DefaultSettings(shopID string) Settings {
	return Settings{ShopID: shopID, AllowNegativeStock: false}
}

// Repository define o acesso às configurações da loja
type Repository interface {
	// ShopSettings busca a política da loja; lojas sem registro recebem DefaultSettings
	ShopSettings(ctx context.Context, shopID string) (Settings, error)
}
