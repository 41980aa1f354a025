package dispatchservice_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"goentrega/internal/domain"
	"goentrega/internal/pkg/logger"
	"goentrega/internal/service/dispatchservice"
)

// MockRunRepository é uma implementação mock da interface RunRepository.
type MockRunRepository struct {
	mock.Mock
}

func (m *MockRunRepository) FindByID(ctx context.Context, id string) (domain.DeliveryRun, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.DeliveryRun), args.Error(1)
}

func (m *MockRunRepository) CommitDispatch(ctx context.Context, commit domain.DispatchCommit) (bool, error) {
	args := m.Called(ctx, commit)
	return args.Bool(0), args.Error(1)
}

// MockOrderRepository é uma implementação mock da interface OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByRunID(ctx context.Context, runID string) ([]domain.Order, error) {
	args := m.Called(ctx, runID)
	return args.Get(0).([]domain.Order), args.Error(1)
}

// MockProductRepository é uma implementação mock da interface ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindActiveByIDs(ctx context.Context, ids []string) (map[string]domain.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(map[string]domain.Product), args.Error(1)
}

// MockVehicleRepository é uma implementação mock da interface VehicleRepository.
type MockVehicleRepository struct {
	mock.Mock
}

func (m *MockVehicleRepository) FindByID(ctx context.Context, id string) (domain.Vehicle, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Vehicle), args.Error(1)
}

func newDispatchService(runs *MockRunRepository, orders *MockOrderRepository, products *MockProductRepository, vehicles *MockVehicleRepository) *dispatchservice.Service {
	return dispatchservice.NewService(runs, orders, products, vehicles, logger.NewLogger("debug"))
}

// TestDispatch_SucessoComPedidoECarga testa o caminho feliz: pedido pacote
// (3) mais carga avulsa (4) consomem 7 pacotes de um saldo de 10, e o commit
// recebe exatamente esse delta.
func TestDispatch_SucessoComPedidoECarga(t *testing.T) {
	mockRuns := new(MockRunRepository)
	mockOrders := new(MockOrderRepository)
	mockProducts := new(MockProductRepository)
	mockVehicles := new(MockVehicleRepository)

	svc := newDispatchService(mockRuns, mockOrders, mockProducts, mockVehicles)

	mockRuns.On("FindByID", mock.Anything, "rota-1").
		Return(domain.DeliveryRun{ID: "rota-1", Status: domain.RunStatusPlanned}, nil)
	mockOrders.On("FindByRunID", mock.Anything, "rota-1").
		Return([]domain.Order{
			{
				ID: "pedido-1",
				Lines: []domain.OrderLine{
					{ProductID: "arroz", Quantity: 3, UnitPriceAtSale: 30.00},
				},
			},
		}, nil)
	mockProducts.On("FindActiveByIDs", mock.Anything, mock.Anything).
		Return(map[string]domain.Product{
			"arroz": {ID: "arroz", PackUnitPrice: 30.00, PackStock: 10},
		}, nil)
	mockRuns.On("CommitDispatch", mock.Anything, mock.MatchedBy(func(c domain.DispatchCommit) bool {
		return c.RunID == "rota-1" &&
			c.RiderID == "entregador-1" &&
			c.Deltas["arroz"] == domain.StockDelta{PackUnits: 7} &&
			len(c.OrderIDs) == 1 && c.OrderIDs[0] == "pedido-1"
	})).Return(false, nil)

	result, err := svc.Dispatch(context.Background(), "rota-1", domain.DispatchRequest{
		RiderID: "entregador-1",
		Loadout: []domain.LoadoutLine{{ProductID: "arroz", Quantity: 4}},
	})

	assert.NoError(t, err)
	assert.True(t, result.OK)
	assert.False(t, result.AlreadyDispatched)
	mockRuns.AssertExpectations(t)
}

// TestDispatch_RotaJaDespachadaEhIdempotente testa que redespachar uma rota
// DISPATCHED retorna sucesso sem tocar no commit.
func TestDispatch_RotaJaDespachadaEhIdempotente(t *testing.T) {
	mockRuns := new(MockRunRepository)
	mockOrders := new(MockOrderRepository)
	mockProducts := new(MockProductRepository)
	mockVehicles := new(MockVehicleRepository)

	svc := newDispatchService(mockRuns, mockOrders, mockProducts, mockVehicles)

	mockRuns.On("FindByID", mock.Anything, "rota-1").
		Return(domain.DeliveryRun{ID: "rota-1", Status: domain.RunStatusDispatched}, nil)

	result, err := svc.Dispatch(context.Background(), "rota-1", domain.DispatchRequest{
		RiderID: "entregador-1",
	})

	assert.NoError(t, err)
	assert.True(t, result.OK)
	assert.True(t, result.AlreadyDispatched)
	mockRuns.AssertNotCalled(t, "CommitDispatch", mock.Anything, mock.Anything)
}

// TestDispatch_SemEntregadorFalha testa a pré-condição de entregador.
func TestDispatch_SemEntregadorFalha(t *testing.T) {
	mockRuns := new(MockRunRepository)
	mockOrders := new(MockOrderRepository)
	mockProducts := new(MockProductRepository)
	mockVehicles := new(MockVehicleRepository)

	svc := newDispatchService(mockRuns, mockOrders, mockProducts, mockVehicles)

	mockRuns.On("FindByID", mock.Anything, "rota-1").
		Return(domain.DeliveryRun{ID: "rota-1", Status: domain.RunStatusPlanned}, nil)

	result, err := svc.Dispatch(context.Background(), "rota-1", domain.DispatchRequest{
		RiderID: "   ",
	})

	assert.NoError(t, err)
	assert.False(t, result.OK)
	assert.Contains(t, result.Error, "entregador")
	mockRuns.AssertNotCalled(t, "CommitDispatch", mock.Anything, mock.Anything)
}

// TestDispatch_StatusInvalidoFalha testa que rotas fora de PLANNED (e que não
// são o caso idempotente DISPATCHED) são rejeitadas.
func TestDispatch_StatusInvalidoFalha(t *testing.T) {
	mockRuns := new(MockRunRepository)
	mockOrders := new(MockOrderRepository)
	mockProducts := new(MockProductRepository)
	mockVehicles := new(MockVehicleRepository)

	svc := newDispatchService(mockRuns, mockOrders, mockProducts, mockVehicles)

	mockRuns.On("FindByID", mock.Anything, "rota-1").
		Return(domain.DeliveryRun{ID: "rota-1", Status: domain.RunStatusCheckedIn}, nil)

	result, err := svc.Dispatch(context.Background(), "rota-1", domain.DispatchRequest{
		RiderID: "entregador-1",
	})

	assert.NoError(t, err)
	assert.False(t, result.OK)
	assert.Contains(t, result.Error, "CHECKED_IN")
}

// TestDispatch_FaltaDeEstoqueNaoComita testa que o despacho com falta (varejo
// necessário 6, disponível 5) devolve a falta completa e não chega ao commit.
func TestDispatch_FaltaDeEstoqueNaoComita(t *testing.T) {
	mockRuns := new(MockRunRepository)
	mockOrders := new(MockOrderRepository)
	mockProducts := new(MockProductRepository)
	mockVehicles := new(MockVehicleRepository)

	svc := newDispatchService(mockRuns, mockOrders, mockProducts, mockVehicles)

	mockRuns.On("FindByID", mock.Anything, "rota-1").
		Return(domain.DeliveryRun{ID: "rota-1", Status: domain.RunStatusPlanned}, nil)
	mockOrders.On("FindByRunID", mock.Anything, "rota-1").
		Return([]domain.Order{
			{
				ID: "pedido-1",
				Lines: []domain.OrderLine{
					{ProductID: "cafe", Quantity: 6, UnitPriceAtSale: 4.00},
				},
			},
		}, nil)
	mockProducts.On("FindActiveByIDs", mock.Anything, mock.Anything).
		Return(map[string]domain.Product{
			"cafe": {ID: "cafe", RetailUnitPrice: 4.00, AllowRetailSale: true, PackUnitPrice: 40.00, RetailStock: 5},
		}, nil)

	result, err := svc.Dispatch(context.Background(), "rota-1", domain.DispatchRequest{
		RiderID: "entregador-1",
	})

	assert.NoError(t, err)
	assert.False(t, result.OK)
	assert.Len(t, result.LineErrors, 1)
	assert.Contains(t, result.LineErrors[0].Reason, "necessário 6, disponível 5")
	mockRuns.AssertNotCalled(t, "CommitDispatch", mock.Anything, mock.Anything)
}

// TestDispatch_LinhaInclassificavelBloqueia testa que uma linha legada sem
// preço de pacote bloqueia o despacho inteiro.
func TestDispatch_LinhaInclassificavelBloqueia(t *testing.T) {
	mockRuns := new(MockRunRepository)
	mockOrders := new(MockOrderRepository)
	mockProducts := new(MockProductRepository)
	mockVehicles := new(MockVehicleRepository)

	svc := newDispatchService(mockRuns, mockOrders, mockProducts, mockVehicles)

	mockRuns.On("FindByID", mock.Anything, "rota-1").
		Return(domain.DeliveryRun{ID: "rota-1", Status: domain.RunStatusPlanned}, nil)
	mockOrders.On("FindByRunID", mock.Anything, "rota-1").
		Return([]domain.Order{
			{
				ID: "pedido-1",
				Lines: []domain.OrderLine{
					{ProductID: "misterio", Quantity: 1, UnitPriceAtSale: 99.00},
				},
			},
		}, nil)
	mockProducts.On("FindActiveByIDs", mock.Anything, mock.Anything).
		Return(map[string]domain.Product{
			"misterio": {ID: "misterio", PackUnitPrice: 0, RetailUnitPrice: 2.00, AllowRetailSale: true},
		}, nil)

	result, err := svc.Dispatch(context.Background(), "rota-1", domain.DispatchRequest{
		RiderID: "entregador-1",
	})

	assert.NoError(t, err)
	assert.False(t, result.OK)
	assert.Len(t, result.LineErrors, 1)
	assert.Contains(t, result.LineErrors[0].Reason, "inferir")
	mockRuns.AssertNotCalled(t, "CommitDispatch", mock.Anything, mock.Anything)
}

// TestDispatch_ExcessoDeCapacidadeBloqueia testa o gate de capacidade: 12 kg
// de carga contra um veículo de 10 kg.
func TestDispatch_ExcessoDeCapacidadeBloqueia(t *testing.T) {
	mockRuns := new(MockRunRepository)
	mockOrders := new(MockOrderRepository)
	mockProducts := new(MockProductRepository)
	mockVehicles := new(MockVehicleRepository)

	svc := newDispatchService(mockRuns, mockOrders, mockProducts, mockVehicles)

	vehicleID := "moto-1"
	mockRuns.On("FindByID", mock.Anything, "rota-1").
		Return(domain.DeliveryRun{ID: "rota-1", Status: domain.RunStatusPlanned}, nil)
	mockOrders.On("FindByRunID", mock.Anything, "rota-1").
		Return([]domain.Order{}, nil)
	mockProducts.On("FindActiveByIDs", mock.Anything, mock.Anything).
		Return(map[string]domain.Product{
			"arroz": {ID: "arroz", PackUnitPrice: 30.00, PackSize: 4, MassUnit: "kg", PackStock: 100},
		}, nil)
	mockVehicles.On("FindByID", mock.Anything, "moto-1").
		Return(domain.Vehicle{ID: "moto-1", RatedCapacityKg: capacityPtr(10)}, nil)

	result, err := svc.Dispatch(context.Background(), "rota-1", domain.DispatchRequest{
		RiderID:   "entregador-1",
		VehicleID: &vehicleID,
		Loadout:   []domain.LoadoutLine{{ProductID: "arroz", Quantity: 3}},
	})

	assert.NoError(t, err)
	assert.False(t, result.OK)
	assert.Contains(t, result.Error, "capacidade")
	assert.InDelta(t, 12.0, result.UsedWeightKg, 1e-9)
	mockRuns.AssertNotCalled(t, "CommitDispatch", mock.Anything, mock.Anything)
}

// TestDispatch_SemVeiculoNaoHaGateDeCapacidade testa que rota sem veículo
// despacha qualquer peso.
func TestDispatch_SemVeiculoNaoHaGateDeCapacidade(t *testing.T) {
	mockRuns := new(MockRunRepository)
	mockOrders := new(MockOrderRepository)
	mockProducts := new(MockProductRepository)
	mockVehicles := new(MockVehicleRepository)

	svc := newDispatchService(mockRuns, mockOrders, mockProducts, mockVehicles)

	mockRuns.On("FindByID", mock.Anything, "rota-1").
		Return(domain.DeliveryRun{ID: "rota-1", Status: domain.RunStatusPlanned}, nil)
	mockOrders.On("FindByRunID", mock.Anything, "rota-1").
		Return([]domain.Order{}, nil)
	mockProducts.On("FindActiveByIDs", mock.Anything, mock.Anything).
		Return(map[string]domain.Product{
			"arroz": {ID: "arroz", PackUnitPrice: 30.00, PackSize: 50, MassUnit: "kg", PackStock: 100},
		}, nil)
	mockRuns.On("CommitDispatch", mock.Anything, mock.Anything).Return(false, nil)

	result, err := svc.Dispatch(context.Background(), "rota-1", domain.DispatchRequest{
		RiderID: "entregador-1",
		Loadout: []domain.LoadoutLine{{ProductID: "arroz", Quantity: 10}},
	})

	assert.NoError(t, err)
	assert.True(t, result.OK)
	mockVehicles.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

// TestDispatch_CorridaDetectadaNoCommit testa a corrida de dois despachos: o
// commit trava a linha, vê DISPATCHED e este chamador recebe o no-op
// idempotente.
func TestDispatch_CorridaDetectadaNoCommit(t *testing.T) {
	mockRuns := new(MockRunRepository)
	mockOrders := new(MockOrderRepository)
	mockProducts := new(MockProductRepository)
	mockVehicles := new(MockVehicleRepository)

	svc := newDispatchService(mockRuns, mockOrders, mockProducts, mockVehicles)

	mockRuns.On("FindByID", mock.Anything, "rota-1").
		Return(domain.DeliveryRun{ID: "rota-1", Status: domain.RunStatusPlanned}, nil)
	mockOrders.On("FindByRunID", mock.Anything, "rota-1").
		Return([]domain.Order{}, nil)
	mockProducts.On("FindActiveByIDs", mock.Anything, mock.Anything).
		Return(map[string]domain.Product{
			"arroz": {ID: "arroz", PackUnitPrice: 30.00, PackStock: 10},
		}, nil)
	mockRuns.On("CommitDispatch", mock.Anything, mock.Anything).Return(true, nil)

	result, err := svc.Dispatch(context.Background(), "rota-1", domain.DispatchRequest{
		RiderID: "entregador-1",
		Loadout: []domain.LoadoutLine{{ProductID: "arroz", Quantity: 1}},
	})

	assert.NoError(t, err)
	assert.True(t, result.OK)
	assert.True(t, result.AlreadyDispatched)
}

// TestDispatch_CargaMalformadaRejeitadaNaFronteira testa a validação de
// fronteira: quantidade não positiva nunca chega à agregação.
func TestDispatch_CargaMalformadaRejeitadaNaFronteira(t *testing.T) {
	mockRuns := new(MockRunRepository)
	mockOrders := new(MockOrderRepository)
	mockProducts := new(MockProductRepository)
	mockVehicles := new(MockVehicleRepository)

	svc := newDispatchService(mockRuns, mockOrders, mockProducts, mockVehicles)

	result, err := svc.Dispatch(context.Background(), "rota-1", domain.DispatchRequest{
		RiderID: "entregador-1",
		Loadout: []domain.LoadoutLine{{ProductID: "arroz", Quantity: 0}},
	})

	assert.NoError(t, err)
	assert.False(t, result.OK)
	assert.Len(t, result.LineErrors, 1)
	mockRuns.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

// TestPreviewLoad_SemVeiculo testa o preview consultivo sem veículo: calcula
// o peso e nunca acusa excesso.
func TestPreviewLoad_SemVeiculo(t *testing.T) {
	mockRuns := new(MockRunRepository)
	mockOrders := new(MockOrderRepository)
	mockProducts := new(MockProductRepository)
	mockVehicles := new(MockVehicleRepository)

	svc := newDispatchService(mockRuns, mockOrders, mockProducts, mockVehicles)

	mockProducts.On("FindActiveByIDs", mock.Anything, mock.Anything).
		Return(map[string]domain.Product{
			"arroz": {ID: "arroz", PackSize: 5, MassUnit: "kg"},
		}, nil)

	preview, err := svc.PreviewLoad(context.Background(), nil, []domain.LoadoutLine{{ProductID: "arroz", Quantity: 2}})

	assert.NoError(t, err)
	assert.InDelta(t, 10.0, preview.UsedWeightKg, 1e-9)
	assert.False(t, preview.OverCapacity)
	assert.Nil(t, preview.CapacityKg)
}

// TestPreviewLoad_ComVeiculoAcusaExcesso testa o preview com veículo aquém da
// carga.
func TestPreviewLoad_ComVeiculoAcusaExcesso(t *testing.T) {
	mockRuns := new(MockRunRepository)
	mockOrders := new(MockOrderRepository)
	mockProducts := new(MockProductRepository)
	mockVehicles := new(MockVehicleRepository)

	svc := newDispatchService(mockRuns, mockOrders, mockProducts, mockVehicles)

	vehicleID := "moto-1"
	mockProducts.On("FindActiveByIDs", mock.Anything, mock.Anything).
		Return(map[string]domain.Product{
			"arroz": {ID: "arroz", PackSize: 5, MassUnit: "kg"},
		}, nil)
	mockVehicles.On("FindByID", mock.Anything, "moto-1").
		Return(domain.Vehicle{ID: "moto-1", RatedCapacityKg: capacityPtr(8)}, nil)

	preview, err := svc.PreviewLoad(context.Background(), &vehicleID, []domain.LoadoutLine{{ProductID: "arroz", Quantity: 2}})

	assert.NoError(t, err)
	assert.InDelta(t, 10.0, preview.UsedWeightKg, 1e-9)
	assert.True(t, preview.OverCapacity)
	assert.Equal(t, 8.0, *preview.CapacityKg)
}
