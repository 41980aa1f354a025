package dispatchservice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"goentrega/internal/domain"
	"goentrega/internal/service/dispatchservice"
)

func capacityPtr(kg float64) *float64 {
	return &kg
}

// TestLoadWeightKg_SomaPorLinha verifica a soma quantidade × unidades por
// pacote × fator de massa, misturando quilos e gramas.
func TestLoadWeightKg_SomaPorLinha(t *testing.T) {
	products := map[string]domain.Product{
		"arroz":   {ID: "arroz", PackSize: 5, MassUnit: "kg"},    // 5 kg por pacote
		"tempero": {ID: "tempero", PackSize: 500, MassUnit: "g"}, // 500 g por pacote
	}

	loadout := []domain.LoadoutLine{
		{ProductID: "arroz", Quantity: 2},   // 2 × 5 × 1     = 10 kg
		{ProductID: "tempero", Quantity: 4}, // 4 × 500 × 1e-3 = 2 kg
	}

	assert.InDelta(t, 12.0, dispatchservice.LoadWeightKg(loadout, products), 1e-9)
}

// TestLoadWeightKg_UnidadeSemMassaNaoContribui verifica que produtos com
// rótulo fora da tabela de massa pesam zero.
func TestLoadWeightKg_UnidadeSemMassaNaoContribui(t *testing.T) {
	products := map[string]domain.Product{
		"oleo": {ID: "oleo", PackSize: 12, MassUnit: "litro"},
	}
	loadout := []domain.LoadoutLine{{ProductID: "oleo", Quantity: 3}}

	assert.Equal(t, 0.0, dispatchservice.LoadWeightKg(loadout, products))
}

// TestLoadWeightKg_ProdutoNaoResolvidoEhIgnorado verifica que linhas sem
// produto no mapa não contribuem peso (a falta é reportada na agregação).
func TestLoadWeightKg_ProdutoNaoResolvidoEhIgnorado(t *testing.T) {
	products := map[string]domain.Product{
		"arroz": {ID: "arroz", PackSize: 5, MassUnit: "kg"},
	}
	loadout := []domain.LoadoutLine{
		{ProductID: "arroz", Quantity: 1},
		{ProductID: "fantasma", Quantity: 99},
	}

	assert.InDelta(t, 5.0, dispatchservice.LoadWeightKg(loadout, products), 1e-9)
}

// TestOverCapacity_MaiorEstrito verifica a fronteira: carga igual à
// capacidade é permitida; só o excesso estrito bloqueia.
func TestOverCapacity_MaiorEstrito(t *testing.T) {
	vehicle := &domain.Vehicle{RatedCapacityKg: capacityPtr(10)}

	assert.False(t, dispatchservice.OverCapacity(10.0, vehicle))
	assert.False(t, dispatchservice.OverCapacity(9.99, vehicle))
	assert.True(t, dispatchservice.OverCapacity(10.01, vehicle))
}

// TestOverCapacity_SemVeiculoOuSemCapacidade verifica que rota sem veículo,
// ou veículo sem capacidade aferida, nunca excede.
func TestOverCapacity_SemVeiculoOuSemCapacidade(t *testing.T) {
	assert.False(t, dispatchservice.OverCapacity(1000.0, nil))
	assert.False(t, dispatchservice.OverCapacity(1000.0, &domain.Vehicle{RatedCapacityKg: nil}))
}
