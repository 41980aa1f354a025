package dispatchservice

import (
	"goentrega/internal/domain"
)

// LoadWeightKg calcula o peso total da carga avulsa em quilogramas:
// Σ (quantidade × unidades por pacote × fator de massa da unidade).
// Linhas cujo produto não resolve no mapa não contribuem peso; a falta do
// produto é reportada depois, na agregação, como erro por linha.
func LoadWeightKg(loadout []domain.LoadoutLine, products map[string]domain.Product) float64 {
	var total float64
	for _, line := range loadout {
		p, ok := products[line.ProductID]
		if !ok {
			continue
		}
		total += float64(line.Quantity) * float64(p.PackSize) * MassFactorKg(p.MassUnit)
	}
	return total
}

// OverCapacity informa se o peso usado excede a capacidade nominal do
// veículo. Maior estrito: carga igual à capacidade é permitida. Sem veículo,
// ou veículo sem capacidade aferida (nil), nunca há excesso.
//
// Este cálculo é refeito aqui, no servidor, como autoridade final: o mesmo
// cálculo exibido pela tela de preparação é apenas consultivo e nunca é
// confiado para o gate real.
func OverCapacity(usedKg float64, vehicle *domain.Vehicle) bool {
	if vehicle == nil || vehicle.RatedCapacityKg == nil {
		return false
	}
	return usedKg > *vehicle.RatedCapacityKg
}
