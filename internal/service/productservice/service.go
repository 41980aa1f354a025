package productservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"goentrega/internal/domain"
	apperror "goentrega/internal/errors"
)

// ProductRepository define o contrato (interface) que este Serviço espera
// da camada de Persistência (DB, Cache).
type ProductRepository interface {
	Save(ctx domain.Context, product domain.Product) (domain.Product, error)
	FindByID(ctx domain.Context, id string) (domain.Product, error)
	FindAll(ctx domain.Context, filter domain.ProductFilter) ([]domain.Product, error)
}

// Service é a estrutura que implementa a interface domain.ProductService.
type Service struct {
	repo ProductRepository
}

// NewService cria e retorna uma nova instância do Serviço de Produto.
func NewService(repo ProductRepository) *Service {
	return &Service{repo: repo}
}

// CreateProduct valida e persiste um novo produto do catálogo.
// Os dois saldos de estoque nascem com o valor informado (carga inicial);
// movimentações posteriores acontecem pelo despacho de rotas.
func (s *Service) CreateProduct(ctx domain.Context, product domain.Product) (domain.Product, error) {

	// 1. Casting e Contexto
	ctxGo, ok := ctx.(context.Context)
	if !ok {
		ctxGo = context.Background()
	}

	// 2. Validação de Regras de Negócio
	if product.Name == "" || product.SKU == "" {
		return domain.Product{}, apperror.NewValidationError("Nome e SKU são obrigatórios para o produto.")
	}
	if product.PackUnitPrice < 0 || product.RetailUnitPrice < 0 {
		return domain.Product{}, apperror.NewValidationError("Preços de referência não podem ser negativos.")
	}
	if product.PackSize < 0 {
		return domain.Product{}, apperror.NewValidationError("O tamanho do pacote não pode ser negativo.")
	}
	if product.PackStock < 0 || product.RetailStock < 0 {
		return domain.Product{}, apperror.NewValidationError("Saldos de estoque não podem ser negativos.")
	}
	if product.AllowRetailSale && product.RetailUnitPrice <= 0 {
		return domain.Product{}, apperror.NewValidationError("Produto com venda fracionada exige preço de varejo positivo.")
	}

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	product.IsActive = true
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now

	// 3. Delegação para a Camada de Persistência (Repository)
	createdProduct, err := s.repo.Save(ctxGo, product)
	if err != nil {
		return domain.Product{}, fmt.Errorf("falha ao salvar produto no repositório: %w", err)
	}

	return createdProduct, nil
}

// GetProductByID busca um produto pelo ID.
func (s *Service) GetProductByID(ctx domain.Context, id string) (domain.Product, error) {

	// 1. Validação de Formato (Business Logic)
	if _, err := uuid.Parse(id); err != nil {
		return domain.Product{}, apperror.NewValidationError("O ID do produto deve ser um UUID válido.")
	}

	// 2. Casting e Configuração do Contexto
	ctxGo, ok := ctx.(context.Context)
	if !ok {
		ctxGo = context.Background()
	}

	// 3. Delegação para o Repositório
	product, err := s.repo.FindByID(ctxGo, id)
	if err != nil {
		var notFound *apperror.NotFoundError
		if errors.As(err, &notFound) {
			return domain.Product{}, apperror.NewNotFoundError(fmt.Sprintf("Produto com ID %s não foi encontrado.", id))
		}
		return domain.Product{}, err
	}

	return product, nil
}

// ListProducts lista o catálogo com paginação e filtros de nome/SKU.
func (s *Service) ListProducts(ctx domain.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	ctxGo, ok := ctx.(context.Context)
	if !ok {
		ctxGo = context.Background()
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 10
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}

	return s.repo.FindAll(ctxGo, filter)
}
