package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/hugohenrick/pdv-sync/internal/adapter/repository/memory"
	"github.com/hugohenrick/pdv-sync/internal/domain/inventory"
	"github.com/hugohenrick/pdv-sync/internal/domain/shop"
)

// seedFile é o formato de MEMORY_SEED_FILE
type seedFile struct {
	Settings []shop.Settings     `json:"settings"`
	Products []inventory.Product `json:"products"`
}

// loadSeed carrega o cadastro mínimo no armazenamento em memória
func loadSeed(store *memory.Store, path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("erro ao ler %s: %w", path, err)
	}

	var seed seedFile
	if err := json.Unmarshal(raw, &seed); err != nil {
		return 0, fmt.Errorf("erro ao decodificar %s: %w", path, err)
	}

	for _, st := range seed.Settings {
		store.PutSettings(st)
	}
	for _, p := range seed.Products {
		store.PutProduct(p)
	}
	return len(seed.Products), nil
}
