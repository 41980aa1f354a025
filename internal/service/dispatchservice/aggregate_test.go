package dispatchservice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"goentrega/internal/domain"
	"goentrega/internal/service/dispatchservice"
)

// TestAggregateDeltas_PedidoMaisCargaSomamNoMesmoPool verifica que linhas de
// pedido classificadas como pacote e linhas da carga avulsa acumulam no mesmo
// delta de pacotes do produto.
func TestAggregateDeltas_PedidoMaisCargaSomamNoMesmoPool(t *testing.T) {
	products := map[string]domain.Product{
		"arroz": {ID: "arroz", PackUnitPrice: 30.00, AllowRetailSale: false, PackStock: 10},
	}

	orders := []domain.Order{
		{
			ID: "pedido-1",
			Lines: []domain.OrderLine{
				{ProductID: "arroz", Quantity: 3, UnitPriceAtSale: 30.00},
			},
		},
	}
	loadout := []domain.LoadoutLine{{ProductID: "arroz", Quantity: 4}}

	deltas, lineErrs := dispatchservice.AggregateDeltas(orders, loadout, products)

	assert.Empty(t, lineErrs)
	assert.Equal(t, domain.StockDelta{PackUnits: 7, RetailUnits: 0}, deltas["arroz"])
}

// TestAggregateDeltas_PoolsIndependentes verifica que linhas varejo e pacote
// do mesmo produto acumulam em saldos separados.
func TestAggregateDeltas_PoolsIndependentes(t *testing.T) {
	products := map[string]domain.Product{
		"cafe": {ID: "cafe", PackUnitPrice: 40.00, RetailUnitPrice: 4.00, AllowRetailSale: true},
	}

	orders := []domain.Order{
		{
			ID: "pedido-1",
			Lines: []domain.OrderLine{
				{ProductID: "cafe", Quantity: 6, UnitPriceAtSale: 4.00},  // varejo
				{ProductID: "cafe", Quantity: 2, UnitPriceAtSale: 40.00}, // pacote
			},
		},
	}

	deltas, lineErrs := dispatchservice.AggregateDeltas(orders, nil, products)

	assert.Empty(t, lineErrs)
	assert.Equal(t, domain.StockDelta{PackUnits: 2, RetailUnits: 6}, deltas["cafe"])
}

// TestAggregateDeltas_ProdutoAusenteAborta verifica que um produto removido
// ou inativo gera erro por linha e anula a agregação inteira.
func TestAggregateDeltas_ProdutoAusenteAborta(t *testing.T) {
	products := map[string]domain.Product{
		"arroz": {ID: "arroz", PackUnitPrice: 30.00},
	}

	orders := []domain.Order{
		{
			ID: "pedido-1",
			Lines: []domain.OrderLine{
				{ProductID: "arroz", Quantity: 1, UnitPriceAtSale: 30.00},
				{ProductID: "descontinuado", Quantity: 2, UnitPriceAtSale: 5.00},
			},
		},
	}

	deltas, lineErrs := dispatchservice.AggregateDeltas(orders, nil, products)

	assert.Nil(t, deltas)
	assert.Len(t, lineErrs, 1)
	assert.Equal(t, "descontinuado", lineErrs[0].ProductID)
	assert.Contains(t, lineErrs[0].Reason, "não encontrado ou inativo")
}

// TestAggregateDeltas_InferenciaImpossivelAborta verifica que uma linha
// legada inclassificável (sem preço de pacote e sem casar varejo) aborta a
// agregação com o erro da linha.
func TestAggregateDeltas_InferenciaImpossivelAborta(t *testing.T) {
	products := map[string]domain.Product{
		"misterio": {ID: "misterio", PackUnitPrice: 0, RetailUnitPrice: 2.00, AllowRetailSale: true},
	}

	orders := []domain.Order{
		{
			ID: "pedido-1",
			Lines: []domain.OrderLine{
				{ProductID: "misterio", Quantity: 1, UnitPriceAtSale: 99.00},
			},
		},
	}

	deltas, lineErrs := dispatchservice.AggregateDeltas(orders, nil, products)

	assert.Nil(t, deltas)
	assert.Len(t, lineErrs, 1)
	assert.Contains(t, lineErrs[0].Reason, "inferir")
}

// TestAggregateDeltas_CargaAvulsaSempreEhPacote verifica que a carga avulsa
// consome pacotes mesmo quando o produto permite venda fracionada.
func TestAggregateDeltas_CargaAvulsaSempreEhPacote(t *testing.T) {
	products := map[string]domain.Product{
		"cafe": {ID: "cafe", PackUnitPrice: 40.00, RetailUnitPrice: 4.00, AllowRetailSale: true},
	}
	loadout := []domain.LoadoutLine{{ProductID: "cafe", Quantity: 5}}

	deltas, lineErrs := dispatchservice.AggregateDeltas(nil, loadout, products)

	assert.Empty(t, lineErrs)
	assert.Equal(t, domain.StockDelta{PackUnits: 5, RetailUnits: 0}, deltas["cafe"])
}

// TestValidateStock_FaltaNaoEhTruncada verifica que a falta reporta o
// necessário integral contra o disponível, sem truncar para o saldo.
func TestValidateStock_FaltaNaoEhTruncada(t *testing.T) {
	products := map[string]domain.Product{
		"cafe": {ID: "cafe", PackStock: 10, RetailStock: 5},
	}
	deltas := map[string]domain.StockDelta{
		"cafe": {RetailUnits: 6},
	}

	errs := dispatchservice.ValidateStock(deltas, products)

	assert.Len(t, errs, 1)
	assert.Equal(t, "cafe", errs[0].ProductID)
	assert.Equal(t, domain.UnitKindRetail, errs[0].Mode)
	assert.Contains(t, errs[0].Reason, "necessário 6, disponível 5")
}

// TestValidateStock_UmaEntradaPorPool verifica que faltas nos dois saldos do
// mesmo produto viram duas entradas, uma por pool.
func TestValidateStock_UmaEntradaPorPool(t *testing.T) {
	products := map[string]domain.Product{
		"cafe": {ID: "cafe", PackStock: 1, RetailStock: 2},
	}
	deltas := map[string]domain.StockDelta{
		"cafe": {PackUnits: 3, RetailUnits: 4},
	}

	errs := dispatchservice.ValidateStock(deltas, products)

	assert.Len(t, errs, 2)
	assert.Equal(t, domain.UnitKindPack, errs[0].Mode)
	assert.Equal(t, domain.UnitKindRetail, errs[1].Mode)
}

// TestValidateStock_ColetaTodasAsFaltas verifica que nenhuma falta é omitida
// e que a ordem do resultado é determinística (por id de produto).
func TestValidateStock_ColetaTodasAsFaltas(t *testing.T) {
	products := map[string]domain.Product{
		"a-arroz": {ID: "a-arroz", PackStock: 0},
		"b-cafe":  {ID: "b-cafe", PackStock: 0},
	}
	deltas := map[string]domain.StockDelta{
		"b-cafe":  {PackUnits: 1},
		"a-arroz": {PackUnits: 1},
	}

	errs := dispatchservice.ValidateStock(deltas, products)

	assert.Len(t, errs, 2)
	assert.Equal(t, "a-arroz", errs[0].ProductID)
	assert.Equal(t, "b-cafe", errs[1].ProductID)
}

// TestValidateStock_SaldoExatoPassa verifica a fronteira: consumir exatamente
// o saldo disponível é válido.
func TestValidateStock_SaldoExatoPassa(t *testing.T) {
	products := map[string]domain.Product{
		"cafe": {ID: "cafe", PackStock: 7, RetailStock: 3},
	}
	deltas := map[string]domain.StockDelta{
		"cafe": {PackUnits: 7, RetailUnits: 3},
	}

	assert.Empty(t, dispatchservice.ValidateStock(deltas, products))
}
