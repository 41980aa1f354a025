package runservice_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"goentrega/internal/domain"
	apperror "goentrega/internal/errors"
	"goentrega/internal/pkg/logger"
	"goentrega/internal/service/runservice"
)

// MockRunRepository é uma implementação mock da interface RunRepository.
type MockRunRepository struct {
	mock.Mock
}

func (m *MockRunRepository) Save(ctx context.Context, run domain.DeliveryRun) (domain.DeliveryRun, error) {
	args := m.Called(ctx, run)
	return args.Get(0).(domain.DeliveryRun), args.Error(1)
}

func (m *MockRunRepository) FindByID(ctx context.Context, id string) (domain.DeliveryRun, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.DeliveryRun), args.Error(1)
}

func (m *MockRunRepository) FindAll(ctx context.Context, filter domain.RunFilter) ([]domain.DeliveryRun, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.DeliveryRun), args.Error(1)
}

func (m *MockRunRepository) UpdateStaging(ctx context.Context, runID string, staging domain.RunStagingRequest) (domain.DeliveryRun, error) {
	args := m.Called(ctx, runID, staging)
	return args.Get(0).(domain.DeliveryRun), args.Error(1)
}

func (m *MockRunRepository) RevertToPlanned(ctx context.Context, runID string) (domain.DeliveryRun, error) {
	args := m.Called(ctx, runID)
	return args.Get(0).(domain.DeliveryRun), args.Error(1)
}

// MockOrderRepository é uma implementação mock da interface OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id string) (domain.Order, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Order), args.Error(1)
}

func (m *MockOrderRepository) LinkToRun(ctx context.Context, runID, orderID string) error {
	args := m.Called(ctx, runID, orderID)
	return args.Error(0)
}

func (m *MockOrderRepository) UnlinkFromRun(ctx context.Context, runID, orderID string) error {
	args := m.Called(ctx, runID, orderID)
	return args.Error(0)
}

// MockRiderRepository é uma implementação mock da interface RiderRepository.
type MockRiderRepository struct {
	mock.Mock
}

func (m *MockRiderRepository) FindByID(ctx context.Context, id string) (domain.Rider, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Rider), args.Error(1)
}

// MockVehicleRepository é uma implementação mock da interface VehicleRepository.
type MockVehicleRepository struct {
	mock.Mock
}

func (m *MockVehicleRepository) FindByID(ctx context.Context, id string) (domain.Vehicle, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Vehicle), args.Error(1)
}

func strPtr(s string) *string {
	return &s
}

func newRunService(runs *MockRunRepository, orders *MockOrderRepository, riders *MockRiderRepository, vehicles *MockVehicleRepository) *runservice.Service {
	return runservice.NewService(runs, orders, riders, vehicles, logger.NewLogger("debug"))
}

// TestCreateRun_Sucesso testa a criação de uma rota vazia em PLANNED.
func TestCreateRun_Sucesso(t *testing.T) {
	mockRuns := new(MockRunRepository)
	svc := newRunService(mockRuns, new(MockOrderRepository), new(MockRiderRepository), new(MockVehicleRepository))

	mockRuns.On("Save", mock.Anything, mock.MatchedBy(func(r domain.DeliveryRun) bool {
		return r.Status == domain.RunStatusPlanned && len(r.Loadout) == 0
	})).Return(domain.DeliveryRun{ID: "rota-1", Status: domain.RunStatusPlanned}, nil)

	run, err := svc.CreateRun(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, "rota-1", run.ID)
	assert.Equal(t, domain.RunStatusPlanned, run.Status)
	mockRuns.AssertExpectations(t)
}

// TestListRuns_StatusDesconhecidoFalha testa a validação do filtro de status.
func TestListRuns_StatusDesconhecidoFalha(t *testing.T) {
	mockRuns := new(MockRunRepository)
	svc := newRunService(mockRuns, new(MockOrderRepository), new(MockRiderRepository), new(MockVehicleRepository))

	_, err := svc.ListRuns(context.Background(), domain.RunFilter{Status: "EM_ROTA"})

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRuns.AssertNotCalled(t, "FindAll", mock.Anything, mock.Anything)
}

// TestUpdateStaging_RotaDespachadaEhSomenteLeitura testa que rotas fora de
// PLANNED rejeitam edição com conflito.
func TestUpdateStaging_RotaDespachadaEhSomenteLeitura(t *testing.T) {
	mockRuns := new(MockRunRepository)
	svc := newRunService(mockRuns, new(MockOrderRepository), new(MockRiderRepository), new(MockVehicleRepository))

	mockRuns.On("FindByID", mock.Anything, "rota-1").
		Return(domain.DeliveryRun{ID: "rota-1", Status: domain.RunStatusDispatched}, nil)

	_, err := svc.UpdateStaging(context.Background(), "rota-1", domain.RunStagingRequest{})

	assert.Error(t, err)
	assert.IsType(t, &apperror.ConflictError{}, err)
	mockRuns.AssertNotCalled(t, "UpdateStaging", mock.Anything, mock.Anything, mock.Anything)
}

// TestUpdateStaging_CargaInvalidaFalhaAntesDoRepositorio testa a validação de
// fronteira da carga.
func TestUpdateStaging_CargaInvalidaFalhaAntesDoRepositorio(t *testing.T) {
	mockRuns := new(MockRunRepository)
	svc := newRunService(mockRuns, new(MockOrderRepository), new(MockRiderRepository), new(MockVehicleRepository))

	_, err := svc.UpdateStaging(context.Background(), "rota-1", domain.RunStagingRequest{
		Loadout: []domain.LoadoutLine{{ProductID: "arroz", Quantity: -1}},
	})

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRuns.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

// TestUpdateStaging_EntregadorInativoFalha testa que entregador inativo não
// pode ser atribuído.
func TestUpdateStaging_EntregadorInativoFalha(t *testing.T) {
	mockRuns := new(MockRunRepository)
	mockRiders := new(MockRiderRepository)
	svc := newRunService(mockRuns, new(MockOrderRepository), mockRiders, new(MockVehicleRepository))

	mockRuns.On("FindByID", mock.Anything, "rota-1").
		Return(domain.DeliveryRun{ID: "rota-1", Status: domain.RunStatusPlanned}, nil)
	mockRiders.On("FindByID", mock.Anything, "entregador-1").
		Return(domain.Rider{ID: "entregador-1", Name: "João", IsActive: false}, nil)

	_, err := svc.UpdateStaging(context.Background(), "rota-1", domain.RunStagingRequest{
		RiderID: strPtr("entregador-1"),
	})

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	assert.Contains(t, err.Error(), "inativo")
}

// TestUpdateStaging_Sucesso testa o caminho feliz da preparação.
func TestUpdateStaging_Sucesso(t *testing.T) {
	mockRuns := new(MockRunRepository)
	mockRiders := new(MockRiderRepository)
	mockVehicles := new(MockVehicleRepository)
	svc := newRunService(mockRuns, new(MockOrderRepository), mockRiders, mockVehicles)

	staging := domain.RunStagingRequest{
		RiderID:   strPtr("entregador-1"),
		VehicleID: strPtr("moto-1"),
		Loadout:   []domain.LoadoutLine{{ProductID: "arroz", Quantity: 2}},
	}

	mockRuns.On("FindByID", mock.Anything, "rota-1").
		Return(domain.DeliveryRun{ID: "rota-1", Status: domain.RunStatusPlanned}, nil)
	mockRiders.On("FindByID", mock.Anything, "entregador-1").
		Return(domain.Rider{ID: "entregador-1", IsActive: true}, nil)
	mockVehicles.On("FindByID", mock.Anything, "moto-1").
		Return(domain.Vehicle{ID: "moto-1"}, nil)
	mockRuns.On("UpdateStaging", mock.Anything, "rota-1", staging).
		Return(domain.DeliveryRun{ID: "rota-1", Status: domain.RunStatusPlanned, Loadout: staging.Loadout}, nil)

	run, err := svc.UpdateStaging(context.Background(), "rota-1", staging)

	assert.NoError(t, err)
	assert.Len(t, run.Loadout, 1)
	mockRuns.AssertExpectations(t)
}

// TestLinkOrder_PedidoNaoPendenteFalha testa que só pedidos PENDING entram em
// uma rota.
func TestLinkOrder_PedidoNaoPendenteFalha(t *testing.T) {
	mockRuns := new(MockRunRepository)
	mockOrders := new(MockOrderRepository)
	svc := newRunService(mockRuns, mockOrders, new(MockRiderRepository), new(MockVehicleRepository))

	mockRuns.On("FindByID", mock.Anything, "rota-1").
		Return(domain.DeliveryRun{ID: "rota-1", Status: domain.RunStatusPlanned}, nil)
	mockOrders.On("FindByID", mock.Anything, "pedido-1").
		Return(domain.Order{ID: "pedido-1", Status: domain.OrderStatusDispatched}, nil)

	err := svc.LinkOrder(context.Background(), "rota-1", "pedido-1")

	assert.Error(t, err)
	assert.IsType(t, &apperror.ConflictError{}, err)
	mockOrders.AssertNotCalled(t, "LinkToRun", mock.Anything, mock.Anything, mock.Anything)
}

// TestLinkOrder_RotaNaoEditavelFalha testa que rotas fora de PLANNED não
// aceitam novos pedidos.
func TestLinkOrder_RotaNaoEditavelFalha(t *testing.T) {
	mockRuns := new(MockRunRepository)
	mockOrders := new(MockOrderRepository)
	svc := newRunService(mockRuns, mockOrders, new(MockRiderRepository), new(MockVehicleRepository))

	mockRuns.On("FindByID", mock.Anything, "rota-1").
		Return(domain.DeliveryRun{ID: "rota-1", Status: domain.RunStatusDispatched}, nil)

	err := svc.LinkOrder(context.Background(), "rota-1", "pedido-1")

	assert.Error(t, err)
	assert.IsType(t, &apperror.ConflictError{}, err)
	mockOrders.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

// TestRevertToPlanned_SomenteDeDispatched testa que o revert administrativo
// só é permitido a partir de DISPATCHED.
func TestRevertToPlanned_SomenteDeDispatched(t *testing.T) {
	mockRuns := new(MockRunRepository)
	svc := newRunService(mockRuns, new(MockOrderRepository), new(MockRiderRepository), new(MockVehicleRepository))

	mockRuns.On("FindByID", mock.Anything, "rota-1").
		Return(domain.DeliveryRun{ID: "rota-1", Status: domain.RunStatusPlanned}, nil)

	_, err := svc.RevertToPlanned(context.Background(), "rota-1")

	assert.Error(t, err)
	assert.IsType(t, &apperror.ConflictError{}, err)
	mockRuns.AssertNotCalled(t, "RevertToPlanned", mock.Anything, mock.Anything)
}

// TestRevertToPlanned_Sucesso testa o revert a partir de DISPATCHED.
func TestRevertToPlanned_Sucesso(t *testing.T) {
	mockRuns := new(MockRunRepository)
	svc := newRunService(mockRuns, new(MockOrderRepository), new(MockRiderRepository), new(MockVehicleRepository))

	mockRuns.On("FindByID", mock.Anything, "rota-1").
		Return(domain.DeliveryRun{ID: "rota-1", Status: domain.RunStatusDispatched}, nil)
	mockRuns.On("RevertToPlanned", mock.Anything, "rota-1").
		Return(domain.DeliveryRun{ID: "rota-1", Status: domain.RunStatusPlanned, DispatchedAt: nil}, nil)

	run, err := svc.RevertToPlanned(context.Background(), "rota-1")

	assert.NoError(t, err)
	assert.Equal(t, domain.RunStatusPlanned, run.Status)
	assert.Nil(t, run.DispatchedAt)
	mockRuns.AssertExpectations(t)
}
