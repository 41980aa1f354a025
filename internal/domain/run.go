package domain

import "time"

// RunStatus é um tipo string para o status de uma rota de entrega.
type RunStatus string

// Estados do ciclo de vida de uma rota.
const (
	RunStatusPlanned    RunStatus = "PLANNED"
	RunStatusDispatched RunStatus = "DISPATCHED"
	RunStatusCheckedIn  RunStatus = "CHECKED_IN"
	RunStatusClosed     RunStatus = "CLOSED"
	RunStatusCancelled  RunStatus = "CANCELLED"
)

// runTransitions define as transições legais da máquina de estados.
// A aresta reversa DISPATCHED -> PLANNED é o override administrativo:
// reabre a edição e limpa o dispatchedAt, mas NÃO devolve o estoque já
// decrementado (limitação documentada: o revert serve para corrigir
// entregador/carga antes de um novo despacho, não para desfazer inventário).
var runTransitions = map[RunStatus][]RunStatus{
	RunStatusPlanned:    {RunStatusDispatched, RunStatusCancelled},
	RunStatusDispatched: {RunStatusCheckedIn, RunStatusPlanned},
	RunStatusCheckedIn:  {RunStatusClosed, RunStatusCancelled},
	RunStatusClosed:     {},
	RunStatusCancelled:  {},
}

// IsValid informa se o valor corresponde a um status conhecido.
func (s RunStatus) IsValid() bool {
	_, ok := runTransitions[s]
	return ok
}

// CanTransitionTo informa se a transição s -> target é permitida.
func (s RunStatus) CanTransitionTo(target RunStatus) bool {
	for _, t := range runTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// LoadoutLine é uma linha da carga avulsa (mercadoria de pacote fechado que o
// entregador leva para venda de rua, além dos pedidos já feitos).
// Quantity é sempre em pacotes inteiros.
type LoadoutLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// DeliveryRun representa uma rota de entrega (a unidade de despacho).
// Criada como PLANNED; entregador/veículo/carga só são mutáveis enquanto
// PLANNED; vira DISPATCHED exatamente uma vez, via o committer transacional.
type DeliveryRun struct {
	ID           string        `json:"id"`
	Status       RunStatus     `json:"status"`
	RiderID      *string       `json:"rider_id"`
	VehicleID    *string       `json:"vehicle_id"`
	Loadout      []LoadoutLine `json:"loadout"`
	DispatchedAt *time.Time    `json:"dispatched_at"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// Editable informa se os campos de preparação (entregador, veículo, carga)
// ainda podem ser alterados. Qualquer estado fora de PLANNED é somente leitura.
func (r *DeliveryRun) Editable() bool {
	return r.Status == RunStatusPlanned
}

// RunFilter define os parâmetros de busca e paginação de rotas.
type RunFilter struct {
	Page   int
	Limit  int
	Status RunStatus
}

// RunStagingRequest é o payload de preparação de uma rota (PUT staging).
type RunStagingRequest struct {
	RiderID   *string       `json:"rider_id"`
	VehicleID *string       `json:"vehicle_id"`
	Loadout   []LoadoutLine `json:"loadout"`
}
