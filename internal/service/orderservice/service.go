package orderservice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"goentrega/internal/domain"
	apperror "goentrega/internal/errors"
	"goentrega/internal/pkg/logger"
)

// OrderRepository define o contrato de persistência de pedidos.
type OrderRepository interface {
	Save(ctx context.Context, order domain.Order) (domain.Order, error)
	FindByID(ctx context.Context, id string) (domain.Order, error)
	FindAll(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
}

// ProductRepository define a leitura em lote usada para validar os produtos
// citados pelas linhas na entrada do pedido.
type ProductRepository interface {
	FindActiveByIDs(ctx context.Context, ids []string) (map[string]domain.Product, error)
}

// Service é a camada de negócio da entrada de pedidos do PDV.
type Service struct {
	orders   OrderRepository
	products ProductRepository
	logger   logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Pedidos.
func NewService(orders OrderRepository, products ProductRepository, log logger.Logger) *Service {
	return &Service{orders: orders, products: products, logger: log}
}

// CreateOrder valida e registra um pedido vindo do PDV.
//
// Vendas novas informam o tipo de unidade (varejo/pacote) por linha; ele é
// persistido como veio e dispensa a inferência por preço no despacho. Linhas
// sem o tipo (integrações antigas) são aceitas com UnitKind nulo.
func (s *Service) CreateOrder(ctx context.Context, order domain.Order) (domain.Order, error) {
	if strings.TrimSpace(order.CustomerName) == "" {
		return domain.Order{}, apperror.NewValidationError("Nome do cliente é obrigatório.")
	}
	if len(order.Lines) == 0 {
		return domain.Order{}, apperror.NewValidationError("Pedido deve ter pelo menos uma linha.")
	}

	ids := make([]string, 0, len(order.Lines))
	for i, line := range order.Lines {
		if strings.TrimSpace(line.ProductID) == "" {
			return domain.Order{}, apperror.NewValidationError(fmt.Sprintf("Linha %d sem produto.", i+1))
		}
		if line.Quantity <= 0 {
			return domain.Order{}, apperror.NewValidationError(fmt.Sprintf("Linha %d com quantidade inválida.", i+1))
		}
		if line.UnitPriceAtSale < 0 {
			return domain.Order{}, apperror.NewValidationError(fmt.Sprintf("Linha %d com preço negativo.", i+1))
		}
		if line.UnitKind != nil && !line.UnitKind.IsValid() {
			return domain.Order{}, apperror.NewValidationError(
				fmt.Sprintf("Linha %d com tipo de unidade desconhecido: %s.", i+1, *line.UnitKind))
		}
		ids = append(ids, line.ProductID)
	}

	products, err := s.products.FindActiveByIDs(ctx, ids)
	if err != nil {
		return domain.Order{}, err
	}
	for i, line := range order.Lines {
		p, ok := products[line.ProductID]
		if !ok {
			return domain.Order{}, apperror.NewValidationError(
				fmt.Sprintf("Linha %d referencia produto inexistente ou inativo: %s.", i+1, line.ProductID))
		}
		if line.UnitKind != nil && *line.UnitKind == domain.UnitKindRetail && !p.AllowRetailSale {
			return domain.Order{}, apperror.NewValidationError(
				fmt.Sprintf("Produto '%s' não permite venda fracionada.", p.Name))
		}
	}

	order.ID = uuid.NewString()
	order.Status = domain.OrderStatusPending
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now
	for i := range order.Lines {
		order.Lines[i].ID = uuid.NewString()
		order.Lines[i].OrderID = order.ID
	}

	created, err := s.orders.Save(ctx, order)
	if err != nil {
		s.logger.Error("Falha ao salvar pedido no repositório.", err)
		return domain.Order{}, err
	}

	s.logger.Info("Pedido registrado.", map[string]interface{}{"order_id": created.ID, "lines": len(created.Lines)})
	return created, nil
}

// GetOrder busca um pedido pelo ID.
func (s *Service) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Order{}, apperror.NewValidationError("ID do pedido é obrigatório.")
	}
	return s.orders.FindByID(ctx, id)
}

// ListOrders lista pedidos com paginação e filtro opcional de status.
func (s *Service) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 10
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	return s.orders.FindAll(ctx, filter)
}
