package fleetservice

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"goentrega/internal/domain"
	apperror "goentrega/internal/errors"
)

// RiderRepository define o contrato de persistência de entregadores.
type RiderRepository interface {
	Save(ctx context.Context, rider domain.Rider) (domain.Rider, error)
	FindByID(ctx context.Context, id string) (domain.Rider, error)
	FindAll(ctx context.Context, activeOnly bool) ([]domain.Rider, error)
}

// VehicleRepository define o contrato de persistência de veículos.
type VehicleRepository interface {
	Save(ctx context.Context, vehicle domain.Vehicle) (domain.Vehicle, error)
	FindByID(ctx context.Context, id string) (domain.Vehicle, error)
	FindAll(ctx context.Context) ([]domain.Vehicle, error)
}

// Service é a camada de negócio do cadastro de frota: entregadores e veículos
// que a tela de preparação oferece para atribuição às rotas.
type Service struct {
	riders   RiderRepository
	vehicles VehicleRepository
}

// NewService cria e retorna uma nova instância do Serviço de Frota.
func NewService(riders RiderRepository, vehicles VehicleRepository) *Service {
	return &Service{riders: riders, vehicles: vehicles}
}

// CreateRider cadastra um novo entregador ativo.
func (s *Service) CreateRider(ctx context.Context, rider domain.Rider) (domain.Rider, error) {
	if strings.TrimSpace(rider.Name) == "" {
		return domain.Rider{}, apperror.NewValidationError("Nome do entregador é obrigatório.")
	}

	rider.ID = uuid.NewString()
	rider.IsActive = true
	now := time.Now()
	rider.CreatedAt = now
	rider.UpdatedAt = now

	return s.riders.Save(ctx, rider)
}

// GetRider busca um entregador pelo ID.
func (s *Service) GetRider(ctx context.Context, id string) (domain.Rider, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Rider{}, apperror.NewValidationError("ID do entregador é obrigatório.")
	}
	return s.riders.FindByID(ctx, id)
}

// ListRiders lista o cadastro de entregadores.
func (s *Service) ListRiders(ctx context.Context, activeOnly bool) ([]domain.Rider, error) {
	return s.riders.FindAll(ctx, activeOnly)
}

// CreateVehicle cadastra um novo veículo. Capacidade nula significa veículo
// sem limite declarado: rotas com ele nunca são barradas por capacidade.
func (s *Service) CreateVehicle(ctx context.Context, vehicle domain.Vehicle) (domain.Vehicle, error) {
	if strings.TrimSpace(vehicle.Name) == "" {
		return domain.Vehicle{}, apperror.NewValidationError("Nome do veículo é obrigatório.")
	}
	if vehicle.RatedCapacityKg != nil && *vehicle.RatedCapacityKg <= 0 {
		return domain.Vehicle{}, apperror.NewValidationError("Capacidade declarada deve ser maior que zero.")
	}

	vehicle.ID = uuid.NewString()
	now := time.Now()
	vehicle.CreatedAt = now
	vehicle.UpdatedAt = now

	return s.vehicles.Save(ctx, vehicle)
}

// GetVehicle busca um veículo pelo ID.
func (s *Service) GetVehicle(ctx context.Context, id string) (domain.Vehicle, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Vehicle{}, apperror.NewValidationError("ID do veículo é obrigatório.")
	}
	return s.vehicles.FindByID(ctx, id)
}

// ListVehicles lista a frota.
func (s *Service) ListVehicles(ctx context.Context) ([]domain.Vehicle, error) {
	return s.vehicles.FindAll(ctx)
}
