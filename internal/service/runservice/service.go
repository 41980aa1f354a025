package runservice

import (
	"context"
	"fmt"
	"strings"

	"goentrega/internal/domain"
	apperror "goentrega/internal/errors"
	"goentrega/internal/pkg/logger"
)

// RunRepository define o contrato que o Serviço de Rotas espera da camada de
// Persistência. UpdateStaging e RevertToPlanned reverificam o status dentro
// da própria transação (a checagem aqui no serviço é só para responder cedo).
type RunRepository interface {
	Save(ctx context.Context, run domain.DeliveryRun) (domain.DeliveryRun, error)
	FindByID(ctx context.Context, id string) (domain.DeliveryRun, error)
	FindAll(ctx context.Context, filter domain.RunFilter) ([]domain.DeliveryRun, error)
	UpdateStaging(ctx context.Context, runID string, staging domain.RunStagingRequest) (domain.DeliveryRun, error)
	RevertToPlanned(ctx context.Context, runID string) (domain.DeliveryRun, error)
}

// OrderRepository define o contrato de vínculo pedido <-> rota.
type OrderRepository interface {
	FindByID(ctx context.Context, id string) (domain.Order, error)
	LinkToRun(ctx context.Context, runID, orderID string) error
	UnlinkFromRun(ctx context.Context, runID, orderID string) error
}

// RiderRepository define o contrato de leitura de entregadores.
type RiderRepository interface {
	FindByID(ctx context.Context, id string) (domain.Rider, error)
}

// VehicleRepository define o contrato de leitura de veículos.
type VehicleRepository interface {
	FindByID(ctx context.Context, id string) (domain.Vehicle, error)
}

// Service é a camada de negócio da preparação de rotas: criação, edição dos
// campos de staging (entregador/veículo/carga), vínculo de pedidos e o
// revert administrativo. O despacho em si vive no dispatchservice.
type Service struct {
	runs     RunRepository
	orders   OrderRepository
	riders   RiderRepository
	vehicles VehicleRepository
	logger   logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Rotas.
func NewService(
	runs RunRepository,
	orders OrderRepository,
	riders RiderRepository,
	vehicles VehicleRepository,
	log logger.Logger,
) *Service {
	return &Service{
		runs:     runs,
		orders:   orders,
		riders:   riders,
		vehicles: vehicles,
		logger:   log,
	}
}

// CreateRun cria uma nova rota vazia em PLANNED.
func (s *Service) CreateRun(ctx context.Context) (domain.DeliveryRun, error) {
	run := domain.DeliveryRun{
		Status:  domain.RunStatusPlanned,
		Loadout: []domain.LoadoutLine{},
	}

	created, err := s.runs.Save(ctx, run)
	if err != nil {
		s.logger.Error("Falha ao criar rota no repositório.", err)
		return domain.DeliveryRun{}, apperror.NewInternalError("Falha interna ao criar rota.", err)
	}

	s.logger.Info("Rota criada.", map[string]interface{}{"run_id": created.ID})
	return created, nil
}

// GetRun busca uma rota pelo ID.
func (s *Service) GetRun(ctx context.Context, id string) (domain.DeliveryRun, error) {
	if strings.TrimSpace(id) == "" {
		return domain.DeliveryRun{}, apperror.NewValidationError("ID da rota é obrigatório.")
	}
	return s.runs.FindByID(ctx, id)
}

// ListRuns lista rotas com paginação e filtro opcional de status.
func (s *Service) ListRuns(ctx context.Context, filter domain.RunFilter) ([]domain.DeliveryRun, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 10
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, apperror.NewValidationError(fmt.Sprintf("Status de rota desconhecido: %s", filter.Status))
	}
	return s.runs.FindAll(ctx, filter)
}

// UpdateStaging altera entregador, veículo e carga de uma rota.
// Permitido somente enquanto a rota está em PLANNED; a carga é validada na
// fronteira (quantidades inteiras positivas) e entregador/veículo precisam
// existir no cadastro.
func (s *Service) UpdateStaging(ctx context.Context, runID string, staging domain.RunStagingRequest) (domain.DeliveryRun, error) {
	s.logger.Debug("Iniciando atualização de staging da rota.", map[string]interface{}{"run_id": runID})

	if lineErrs := domain.ValidateLoadout(staging.Loadout); len(lineErrs) > 0 {
		reasons := make([]string, 0, len(lineErrs))
		for _, le := range lineErrs {
			reasons = append(reasons, le.Reason)
		}
		return domain.DeliveryRun{}, apperror.NewValidationError("Carga inválida: " + strings.Join(reasons, "; "))
	}

	run, err := s.runs.FindByID(ctx, runID)
	if err != nil {
		return domain.DeliveryRun{}, err
	}
	if !run.Editable() {
		return domain.DeliveryRun{}, apperror.NewConflictError(
			fmt.Sprintf("Rota em %s é somente leitura; edição exige status %s.", run.Status, domain.RunStatusPlanned))
	}

	if staging.RiderID != nil && *staging.RiderID != "" {
		rider, err := s.riders.FindByID(ctx, *staging.RiderID)
		if err != nil {
			return domain.DeliveryRun{}, err
		}
		if !rider.IsActive {
			return domain.DeliveryRun{}, apperror.NewValidationError(
				fmt.Sprintf("Entregador '%s' está inativo.", rider.Name))
		}
	}

	if staging.VehicleID != nil && *staging.VehicleID != "" {
		if _, err := s.vehicles.FindByID(ctx, *staging.VehicleID); err != nil {
			return domain.DeliveryRun{}, err
		}
	}

	updated, err := s.runs.UpdateStaging(ctx, runID, staging)
	if err != nil {
		return domain.DeliveryRun{}, err
	}

	s.logger.Info("Staging da rota atualizado.", map[string]interface{}{
		"run_id":        runID,
		"loadout_lines": len(staging.Loadout),
	})
	return updated, nil
}

// LinkOrder vincula um pedido pendente a uma rota em PLANNED. A existência do
// vínculo faz os itens do pedido contarem no consumo de estoque do despacho.
func (s *Service) LinkOrder(ctx context.Context, runID, orderID string) error {
	run, err := s.runs.FindByID(ctx, runID)
	if err != nil {
		return err
	}
	if !run.Editable() {
		return apperror.NewConflictError(
			fmt.Sprintf("Rota em %s não aceita novos pedidos.", run.Status))
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order.Status != domain.OrderStatusPending {
		return apperror.NewConflictError(
			fmt.Sprintf("Pedido em %s não pode ser vinculado a uma rota.", order.Status))
	}

	if err := s.orders.LinkToRun(ctx, runID, orderID); err != nil {
		return err
	}

	s.logger.Info("Pedido vinculado à rota.", map[string]interface{}{"run_id": runID, "order_id": orderID})
	return nil
}

// UnlinkOrder remove o vínculo de um pedido com uma rota em PLANNED.
func (s *Service) UnlinkOrder(ctx context.Context, runID, orderID string) error {
	run, err := s.runs.FindByID(ctx, runID)
	if err != nil {
		return err
	}
	if !run.Editable() {
		return apperror.NewConflictError(
			fmt.Sprintf("Rota em %s não permite desvincular pedidos.", run.Status))
	}

	if err := s.orders.UnlinkFromRun(ctx, runID, orderID); err != nil {
		return err
	}

	s.logger.Info("Pedido desvinculado da rota.", map[string]interface{}{"run_id": runID, "order_id": orderID})
	return nil
}

// RevertToPlanned executa o override administrativo DISPATCHED -> PLANNED:
// reabre a edição e limpa o dispatchedAt. O estoque já decrementado NÃO é
// devolvido: o revert corrige entregador/carga antes de um novo despacho,
// não desfaz inventário.
func (s *Service) RevertToPlanned(ctx context.Context, runID string) (domain.DeliveryRun, error) {
	run, err := s.runs.FindByID(ctx, runID)
	if err != nil {
		return domain.DeliveryRun{}, err
	}
	if run.Status != domain.RunStatusDispatched {
		return domain.DeliveryRun{}, apperror.NewConflictError(
			fmt.Sprintf("Revert só é permitido a partir de %s (status atual: %s).", domain.RunStatusDispatched, run.Status))
	}

	reverted, err := s.runs.RevertToPlanned(ctx, runID)
	if err != nil {
		return domain.DeliveryRun{}, err
	}

	s.logger.Warn("Rota revertida para PLANNED; estoque consumido não foi devolvido.", map[string]interface{}{"run_id": runID})
	return reverted, nil
}
