package domain

import "time"

// OrderStatus é um tipo string para o status de atendimento de um pedido.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusDispatched OrderStatus = "DISPATCHED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// OrderLine é uma linha de venda de um pedido.
// UnitPriceAtSale é o preço efetivamente cobrado. UnitKind registra,
// quando conhecido no momento da venda, se a linha foi vendida a preço de
// varejo ou de pacote; para registros legados (nil) o motor de despacho
// infere o tipo a partir dos preços de referência atuais do catálogo.
type OrderLine struct {
	ID              string    `json:"id"`
	OrderID         string    `json:"order_id"`
	ProductID       string    `json:"product_id"`
	Quantity        int       `json:"quantity"`
	UnitPriceAtSale float64   `json:"unit_price_at_sale"`
	UnitKind        *UnitKind `json:"unit_kind,omitempty"`
}

// OrderFilter define os parâmetros de busca e paginação de pedidos.
type OrderFilter struct {
	Page   int
	Limit  int
	Status OrderStatus
}

// Order representa um pedido de cliente, possivelmente vinculado a uma rota.
type Order struct {
	ID           string      `json:"id"`
	CustomerName string      `json:"customer_name"`
	Status       OrderStatus `json:"status"`
	Lines        []OrderLine `json:"lines"`
	DispatchedAt *time.Time  `json:"dispatched_at"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}
