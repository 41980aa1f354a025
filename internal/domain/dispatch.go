package domain

import "strings"

// UnitKind classifica uma linha de venda: unidade de varejo fracionada ou
// pacote fechado. É o modo que decide de qual saldo de estoque a linha consome.
type UnitKind string

const (
	UnitKindRetail UnitKind = "retail"
	UnitKindPack   UnitKind = "pack"
)

// IsValid informa se o valor corresponde a um tipo de unidade conhecido.
func (k UnitKind) IsValid() bool {
	return k == UnitKindRetail || k == UnitKindPack
}

// StockDelta acumula, por produto, o consumo agregado de um despacho:
// pacotes fechados e unidades de varejo são contados separadamente, pois
// saem de saldos independentes.
type StockDelta struct {
	PackUnits   int `json:"pack_units"`
	RetailUnits int `json:"retail_units"`
}

// IsZero informa se o delta não consome nada.
func (d StockDelta) IsZero() bool {
	return d.PackUnits == 0 && d.RetailUnits == 0
}

// LineError descreve uma falha de validação por linha (produto inexistente,
// tipo de unidade não inferível, estoque insuficiente). Todas as falhas de
// todas as linhas são coletadas e devolvidas juntas, para que a tela de
// preparação apresente a lista completa de correções em uma única ida.
type LineError struct {
	ProductID string   `json:"product_id"`
	Mode      UnitKind `json:"mode,omitempty"`
	Reason    string   `json:"reason"`
}

// DispatchRequest é o documento de despacho enviado pela tela de preparação.
// A carga informada aqui vira o snapshot final persistido no commit.
type DispatchRequest struct {
	RiderID   string        `json:"rider_id"`
	VehicleID *string       `json:"vehicle_id"`
	Loadout   []LoadoutLine `json:"loadout"`
}

// DispatchResult é a resposta do motor de despacho.
// OK=true com AlreadyDispatched=true indica o no-op idempotente (a rota já
// havia sido despachada). Error carrega falhas de pré-condição; LineErrors,
// as falhas de validação por linha.
type DispatchResult struct {
	OK                bool        `json:"ok"`
	AlreadyDispatched bool        `json:"already_dispatched,omitempty"`
	Error             string      `json:"error,omitempty"`
	LineErrors        []LineError `json:"errors,omitempty"`
	UsedWeightKg      float64     `json:"used_weight_kg,omitempty"`
}

// LoadPreview é o resultado consultivo do cálculo de capacidade, exibido pela
// tela de preparação antes do envio. Nunca substitui a verificação
// autoritativa refeita pelo servidor no despacho.
type LoadPreview struct {
	UsedWeightKg float64  `json:"used_weight_kg"`
	CapacityKg   *float64 `json:"capacity_kg"`
	OverCapacity bool     `json:"over_capacity"`
}

// ValidateLoadout valida o documento de carga na fronteira da aplicação,
// antes que ele chegue à agregação: linhas sem produto ou com quantidade não
// positiva são rejeitadas aqui, em vez de confiarmos na estrutura enviada
// pelo cliente. Retorna uma entrada por linha inválida.
func ValidateLoadout(loadout []LoadoutLine) []LineError {
	var errs []LineError
	for _, line := range loadout {
		if strings.TrimSpace(line.ProductID) == "" {
			errs = append(errs, LineError{ProductID: line.ProductID, Reason: "linha de carga sem produto"})
			continue
		}
		if line.Quantity <= 0 {
			errs = append(errs, LineError{ProductID: line.ProductID, Reason: "quantidade da linha de carga deve ser um inteiro maior que zero"})
		}
	}
	return errs
}

// DispatchCommit é a unidade atômica entregue ao repositório: decrementos de
// estoque validados, snapshot final da rota e pedidos a marcar como
// despachados. Ou tudo é aplicado, ou nada.
type DispatchCommit struct {
	RunID     string
	RiderID   string
	VehicleID *string
	Loadout   []LoadoutLine
	Deltas    map[string]StockDelta
	OrderIDs  []string
}
