package domain

import (
	"time"
)

// Product representa um item do catálogo (a Entidade principal do PDV).
// O estoque é controlado em dois saldos independentes: pacotes fechados
// (PackStock) e unidades de varejo já fracionadas (RetailStock).
// Um pacote nunca vira varejo implicitamente: a "abertura de pacote" é uma
// operação explícita do operador, fora do motor de despacho.
type Product struct {
	ID          string `json:"id"`
	SKU         string `json:"sku"` // Stock Keeping Unit (código único de produto)
	Name        string `json:"name"`
	Description string `json:"description"`
	MassUnit    string `json:"mass_unit"` // Rótulo da unidade de varejo (ex: "kg", "grama", "litro")
	PackSize    int    `json:"pack_size"` // Unidades de varejo por pacote (>= 0)

	// Preços de referência: insumos para a inferência do tipo de venda.
	PackUnitPrice   float64 `json:"pack_unit_price"`   // Preço do pacote fechado (SRP)
	RetailUnitPrice float64 `json:"retail_unit_price"` // Preço da unidade fracionada
	AllowRetailSale bool    `json:"allow_retail_sale"`

	// Saldos de estoque (ambos >= 0, sempre).
	PackStock   int `json:"pack_stock"`
	RetailStock int `json:"retail_stock"`

	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// --- Interfaces de Contrato ---

// ProductService é a interface que a camada de Serviço (Business Logic) DEVE implementar.
// Ela define o que o Handler (Camada API) pode pedir para a camada de Serviço fazer.
type ProductService interface {
	CreateProduct(ctx Context, product Product) (Product, error)
	GetProductByID(ctx Context, id string) (Product, error)
	ListProducts(ctx Context, filter ProductFilter) ([]Product, error)
}

// ProductRepository é a interface que a camada de Repositório (Data Access) DEVE implementar.
type ProductRepository interface {
	Save(ctx Context, product Product) (Product, error)
	FindByID(ctx Context, id string) (Product, error)
	FindAll(ctx Context, filter ProductFilter) ([]Product, error)
}

// --- Estruturas Auxiliares (Filtros e Contexto) ---

// ProductFilter define os parâmetros de busca e paginação do catálogo.
type ProductFilter struct {
	Page       int
	Limit      int
	Name       string
	SKU        string
	ActiveOnly bool
}

// Context é uma interface que encapsula o Go context.Context.
// É usado para propagar o timeout e sinais de cancelamento pelas camadas.
// Isso evita a dependência direta do pacote "context".
type Context interface{}
