package dispatchservice

import (
	"context"
	"fmt"
	"strings"

	"goentrega/internal/domain"
	apperror "goentrega/internal/errors"
	"goentrega/internal/pkg/logger"
)

// RunRepository define o contrato que o Serviço de Despacho espera da camada
// de Persistência de rotas. CommitDispatch aplica a unidade atômica e retorna
// true quando a rota já estava despachada (no-op idempotente detectado dentro
// da própria transação).
type RunRepository interface {
	FindByID(ctx context.Context, id string) (domain.DeliveryRun, error)
	CommitDispatch(ctx context.Context, commit domain.DispatchCommit) (bool, error)
}

// OrderRepository define o contrato de leitura dos pedidos vinculados à rota.
type OrderRepository interface {
	FindByRunID(ctx context.Context, runID string) ([]domain.Order, error)
}

// ProductRepository define o contrato de leitura de produtos para o motor.
// FindActiveByIDs retorna apenas produtos ativos: um id ausente no mapa é um
// produto removido/inativo, reportado como erro por linha.
type ProductRepository interface {
	FindActiveByIDs(ctx context.Context, ids []string) (map[string]domain.Product, error)
}

// VehicleRepository define o contrato de leitura de veículos.
type VehicleRepository interface {
	FindByID(ctx context.Context, id string) (domain.Vehicle, error)
}

// Service é o motor de reconciliação de despacho: inferência do tipo de
// venda, agregação de consumo, validação de capacidade e de estoque, e o
// disparo do commit transacional. Nenhuma mutação acontece fora de
// RunRepository.CommitDispatch.
type Service struct {
	runs     RunRepository
	orders   OrderRepository
	products ProductRepository
	vehicles VehicleRepository
	logger   logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Despacho.
func NewService(
	runs RunRepository,
	orders OrderRepository,
	products ProductRepository,
	vehicles VehicleRepository,
	log logger.Logger,
) *Service {
	return &Service{
		runs:     runs,
		orders:   orders,
		products: products,
		vehicles: vehicles,
		logger:   log,
	}
}

// failResult monta a resposta de falha de pré-condição (mensagem única).
func failResult(msg string) domain.DispatchResult {
	return domain.DispatchResult{OK: false, Error: msg}
}

// Dispatch tenta a transição PLANNED -> DISPATCHED de uma rota.
//
// Pré-condições (reportadas individualmente): rota em PLANNED (rota já
// DISPATCHED é sucesso idempotente, não erro), entregador atribuído, carga
// válida na fronteira e capacidade do veículo respeitada. Depois, todas as
// linhas são classificadas e agregadas, o estoque é validado e, só se tudo
// passar, o commit atômico é aplicado. Em qualquer falha a rota permanece
// PLANNED e nenhum estado muda.
//
// Retorna erro apenas para falhas de infraestrutura (rota inexistente, DB);
// falhas de negócio voltam dentro do DispatchResult, no contrato consumido
// pela tela de preparação.
func (s *Service) Dispatch(ctx context.Context, runID string, req domain.DispatchRequest) (domain.DispatchResult, error) {
	s.logger.Debug("Iniciando despacho de rota no serviço.", map[string]interface{}{
		"run_id":        runID,
		"rider_id":      req.RiderID,
		"loadout_lines": len(req.Loadout),
	})

	// 1. Validação de fronteira da carga (estrutura vinda do cliente).
	if lineErrs := domain.ValidateLoadout(req.Loadout); len(lineErrs) > 0 {
		s.logger.Warn("Carga malformada rejeitada na fronteira.", map[string]interface{}{"run_id": runID, "errors": len(lineErrs)})
		return domain.DispatchResult{OK: false, LineErrors: lineErrs}, nil
	}

	// 2. Estado atual da rota.
	run, err := s.runs.FindByID(ctx, runID)
	if err != nil {
		return domain.DispatchResult{}, err
	}

	// Rota já despachada: no-op idempotente contra submissões duplicadas.
	if run.Status == domain.RunStatusDispatched {
		s.logger.Info("Rota já despachada; retornando sucesso idempotente.", map[string]interface{}{"run_id": runID})
		return domain.DispatchResult{OK: true, AlreadyDispatched: true}, nil
	}
	if run.Status != domain.RunStatusPlanned {
		return failResult(fmt.Sprintf("rota não está em preparação (status atual: %s)", run.Status)), nil
	}

	// 3. Entregador atribuído.
	if strings.TrimSpace(req.RiderID) == "" {
		return failResult("nenhum entregador atribuído à rota"), nil
	}

	// 4. Pedidos vinculados e catálogo dos produtos envolvidos.
	orders, err := s.orders.FindByRunID(ctx, runID)
	if err != nil {
		return domain.DispatchResult{}, err
	}

	products, err := s.products.FindActiveByIDs(ctx, collectProductIDs(orders, req.Loadout))
	if err != nil {
		return domain.DispatchResult{}, err
	}

	// 5. Verificação autoritativa de capacidade (o preview do cliente é
	// apenas consultivo).
	var vehicle *domain.Vehicle
	if req.VehicleID != nil {
		v, err := s.vehicles.FindByID(ctx, *req.VehicleID)
		if err != nil {
			return domain.DispatchResult{}, err
		}
		vehicle = &v
	}

	usedKg := LoadWeightKg(req.Loadout, products)
	if OverCapacity(usedKg, vehicle) {
		s.logger.Warn("Despacho rejeitado por excesso de capacidade.", map[string]interface{}{
			"run_id":      runID,
			"used_kg":     usedKg,
			"capacity_kg": *vehicle.RatedCapacityKg,
		})
		return domain.DispatchResult{
			OK:           false,
			Error:        fmt.Sprintf("carga excede a capacidade do veículo: %.2f kg de %.2f kg", usedKg, *vehicle.RatedCapacityKg),
			UsedWeightKg: usedKg,
		}, nil
	}

	// 6. Classificação + agregação de consumo por produto.
	deltas, lineErrs := AggregateDeltas(orders, req.Loadout, products)
	if len(lineErrs) > 0 {
		s.logger.Warn("Despacho rejeitado na agregação.", map[string]interface{}{"run_id": runID, "errors": len(lineErrs)})
		return domain.DispatchResult{OK: false, LineErrors: lineErrs, UsedWeightKg: usedKg}, nil
	}

	// 7. Validação de estoque: todas as faltas, nunca só a primeira.
	if shortfalls := ValidateStock(deltas, products); len(shortfalls) > 0 {
		s.logger.Warn("Despacho rejeitado por falta de estoque.", map[string]interface{}{"run_id": runID, "shortfalls": len(shortfalls)})
		return domain.DispatchResult{OK: false, LineErrors: shortfalls, UsedWeightKg: usedKg}, nil
	}

	// 8. Commit atômico: decrementos + status da rota + status dos pedidos.
	orderIDs := make([]string, 0, len(orders))
	for _, o := range orders {
		orderIDs = append(orderIDs, o.ID)
	}

	already, err := s.runs.CommitDispatch(ctx, domain.DispatchCommit{
		RunID:     runID,
		RiderID:   req.RiderID,
		VehicleID: req.VehicleID,
		Loadout:   req.Loadout,
		Deltas:    deltas,
		OrderIDs:  orderIDs,
	})
	if err != nil {
		s.logger.Error("Falha no commit transacional do despacho.", err)
		return domain.DispatchResult{}, err
	}
	if already {
		// Um despacho concorrente venceu a corrida; para este chamador o
		// resultado é o mesmo sucesso idempotente.
		s.logger.Info("Commit detectou rota já despachada (corrida de despacho).", map[string]interface{}{"run_id": runID})
		return domain.DispatchResult{OK: true, AlreadyDispatched: true}, nil
	}

	s.logger.Info("Rota despachada com sucesso.", map[string]interface{}{
		"run_id":   runID,
		"orders":   len(orderIDs),
		"products": len(deltas),
		"used_kg":  usedKg,
	})
	return domain.DispatchResult{OK: true, UsedWeightKg: usedKg}, nil
}

// PreviewLoad calcula o peso da carga e o eventual excesso de capacidade para
// a tela de preparação. Resultado consultivo: o gate real é refeito em
// Dispatch, dentro da mesma requisição que comita.
func (s *Service) PreviewLoad(ctx context.Context, vehicleID *string, loadout []domain.LoadoutLine) (domain.LoadPreview, error) {
	if lineErrs := domain.ValidateLoadout(loadout); len(lineErrs) > 0 {
		return domain.LoadPreview{}, apperror.NewValidationError(lineErrs[0].Reason)
	}

	products, err := s.products.FindActiveByIDs(ctx, collectProductIDs(nil, loadout))
	if err != nil {
		return domain.LoadPreview{}, err
	}

	var vehicle *domain.Vehicle
	if vehicleID != nil {
		v, err := s.vehicles.FindByID(ctx, *vehicleID)
		if err != nil {
			return domain.LoadPreview{}, err
		}
		vehicle = &v
	}

	usedKg := LoadWeightKg(loadout, products)
	preview := domain.LoadPreview{
		UsedWeightKg: usedKg,
		OverCapacity: OverCapacity(usedKg, vehicle),
	}
	if vehicle != nil {
		preview.CapacityKg = vehicle.RatedCapacityKg
	}
	return preview, nil
}

// collectProductIDs reúne, sem duplicatas, os ids de produto citados pelas
// linhas de pedido e pela carga avulsa.
func collectProductIDs(orders []domain.Order, loadout []domain.LoadoutLine) []string {
	seen := make(map[string]bool)
	var ids []string

	add := func(id string) {
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		ids = append(ids, id)
	}

	for _, order := range orders {
		for _, line := range order.Lines {
			add(line.ProductID)
		}
	}
	for _, line := range loadout {
		add(line.ProductID)
	}
	return ids
}
