package productservice_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"goentrega/internal/domain"
	apperror "goentrega/internal/errors"
	"goentrega/internal/service/productservice"
)

// MockProductRepository é uma implementação mock da interface ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Save(ctx domain.Context, product domain.Product) (domain.Product, error) {
	args := m.Called(ctx, product)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockProductRepository) FindByID(ctx domain.Context, id string) (domain.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx domain.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Product), args.Error(1)
}

// TestCreateProduct_Sucesso testa o caminho feliz da criação de produto.
func TestCreateProduct_Sucesso(t *testing.T) {
	mockRepo := new(MockProductRepository)
	svc := productservice.NewService(mockRepo)

	input := domain.Product{
		Name:            "Café Torrado 500g",
		SKU:             "CAFE-500",
		PackUnitPrice:   40.00,
		RetailUnitPrice: 4.00,
		AllowRetailSale: true,
		PackSize:        500,
		MassUnit:        "g",
		PackStock:       10,
		RetailStock:     30,
	}

	mockRepo.On("Save", mock.Anything, mock.MatchedBy(func(p domain.Product) bool {
		return p.ID != "" && p.IsActive && p.SKU == "CAFE-500"
	})).Return(input, nil)

	created, err := svc.CreateProduct(context.Background(), input)

	assert.NoError(t, err)
	assert.Equal(t, "CAFE-500", created.SKU)
	mockRepo.AssertExpectations(t)
}

// TestCreateProduct_NomeESKUObrigatorios testa a validação de campos
// obrigatórios.
func TestCreateProduct_NomeESKUObrigatorios(t *testing.T) {
	mockRepo := new(MockProductRepository)
	svc := productservice.NewService(mockRepo)

	_, err := svc.CreateProduct(context.Background(), domain.Product{Name: "Sem SKU"})

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// TestCreateProduct_VendaFracionadaExigePreco testa que habilitar venda
// fracionada sem preço de varejo é rejeitado.
func TestCreateProduct_VendaFracionadaExigePreco(t *testing.T) {
	mockRepo := new(MockProductRepository)
	svc := productservice.NewService(mockRepo)

	_, err := svc.CreateProduct(context.Background(), domain.Product{
		Name:            "Arroz 5kg",
		SKU:             "ARROZ-5",
		PackUnitPrice:   30.00,
		AllowRetailSale: true,
		RetailUnitPrice: 0,
	})

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
}

// TestCreateProduct_EstoqueNegativoFalha testa que saldos iniciais negativos
// são rejeitados.
func TestCreateProduct_EstoqueNegativoFalha(t *testing.T) {
	mockRepo := new(MockProductRepository)
	svc := productservice.NewService(mockRepo)

	_, err := svc.CreateProduct(context.Background(), domain.Product{
		Name:          "Arroz 5kg",
		SKU:           "ARROZ-5",
		PackUnitPrice: 30.00,
		PackStock:     -1,
	})

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
}

// TestGetProductByID_UUIDInvalido testa a validação de formato do ID.
func TestGetProductByID_UUIDInvalido(t *testing.T) {
	mockRepo := new(MockProductRepository)
	svc := productservice.NewService(mockRepo)

	_, err := svc.GetProductByID(context.Background(), "nao-e-uuid")

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

// TestGetProductByID_NaoEncontrado testa a tradução do erro de não encontrado.
func TestGetProductByID_NaoEncontrado(t *testing.T) {
	mockRepo := new(MockProductRepository)
	svc := productservice.NewService(mockRepo)

	id := uuid.New().String()
	mockRepo.On("FindByID", mock.Anything, id).
		Return(domain.Product{}, apperror.NewNotFoundError("produto não encontrado"))

	_, err := svc.GetProductByID(context.Background(), id)

	assert.Error(t, err)
	assert.IsType(t, &apperror.NotFoundError{}, err)
	assert.Contains(t, err.Error(), id)
}

// TestListProducts_PaginacaoComLimites testa o ajuste dos limites de página.
func TestListProducts_PaginacaoComLimites(t *testing.T) {
	mockRepo := new(MockProductRepository)
	svc := productservice.NewService(mockRepo)

	mockRepo.On("FindAll", mock.Anything, mock.MatchedBy(func(f domain.ProductFilter) bool {
		return f.Page == 1 && f.Limit == 100
	})).Return([]domain.Product{}, nil)

	_, err := svc.ListProducts(context.Background(), domain.ProductFilter{Page: 0, Limit: 5000})

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}
