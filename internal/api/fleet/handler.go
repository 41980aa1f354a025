package fleet

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"goentrega/internal/domain"
	apperror "goentrega/internal/errors"
	"goentrega/internal/pkg/logger"
)

// FleetService define o contrato do cadastro de frota (entregadores e veículos).
type FleetService interface {
	CreateRider(ctx context.Context, rider domain.Rider) (domain.Rider, error)
	GetRider(ctx context.Context, id string) (domain.Rider, error)
	ListRiders(ctx context.Context, activeOnly bool) ([]domain.Rider, error)
	CreateVehicle(ctx context.Context, vehicle domain.Vehicle) (domain.Vehicle, error)
	GetVehicle(ctx context.Context, id string) (domain.Vehicle, error)
	ListVehicles(ctx context.Context) ([]domain.Vehicle, error)
}

// Handler agrupa os métodos de Handler do cadastro de frota.
type Handler struct {
	Service FleetService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc FleetService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// handleServiceResponse processa erros de serviço e envia respostas padronizadas ao cliente.
func (h *Handler) handleServiceResponse(w http.ResponseWriter, r *http.Request, data interface{}, err error, successStatus int) {
	if err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(successStatus)
		if data != nil {
			if jsonErr := json.NewEncoder(w).Encode(data); jsonErr != nil {
				h.Logger.Error("Falha ao codificar JSON de resposta", jsonErr)
				http.Error(w, "Erro ao codificar resposta", http.StatusInternalServerError)
			}
		}
		return
	}

	status, category, message := apperror.MapToHTTPStatus(err)

	if status >= 500 {
		h.Logger.Error(fmt.Sprintf("Erro de Servidor: %s", category), err)
	} else {
		h.Logger.Debug(fmt.Sprintf("Requisição rejeitada com status %d. Categoria: %s", status, category), map[string]interface{}{"path": r.URL.Path})
	}

	errorResponse := map[string]interface{}{
		"code":     status,
		"category": category,
		"message":  message,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse)
}

// RidersHandler lida com /v1/riders: POST cadastra, GET lista.
// @Summary Cadastro e listagem de entregadores
// @Tags fleet
// @Accept json
// @Produce json
// @Param active query bool false "Somente entregadores ativos (GET)"
// @Success 200 {array} domain.Rider
// @Success 201 {object} domain.Rider
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Security BearerAuth
// @Router /riders [post]
func (h *Handler) RidersHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var rider domain.Rider
		if err := json.NewDecoder(r.Body).Decode(&rider); err != nil {
			h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusOK)
			return
		}
		created, err := h.Service.CreateRider(r.Context(), rider)
		h.handleServiceResponse(w, r, created, err, http.StatusCreated)
	case http.MethodGet:
		activeOnly, _ := strconv.ParseBool(r.URL.Query().Get("active"))
		riders, err := h.Service.ListRiders(r.Context(), activeOnly)
		h.handleServiceResponse(w, r, riders, err, http.StatusOK)
	default:
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
	}
}

// GetRiderByIDHandler lida com a requisição GET /v1/riders/{id}.
// @Summary Busca um entregador pelo ID
// @Tags fleet
// @Produce json
// @Param id path string true "ID do entregador"
// @Success 200 {object} domain.Rider
// @Failure 404 {object} domain.ErrorResponse "Entregador não encontrado"
// @Security BearerAuth
// @Router /riders/{id} [get]
func (h *Handler) GetRiderByIDHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	segments := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(segments) != 3 || segments[2] == "" {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Formato de URL inválido ou ID ausente."), http.StatusOK)
		return
	}

	rider, err := h.Service.GetRider(r.Context(), segments[2])
	h.handleServiceResponse(w, r, rider, err, http.StatusOK)
}

// VehiclesHandler lida com /v1/vehicles: POST cadastra, GET lista.
// @Summary Cadastro e listagem de veículos
// @Tags fleet
// @Accept json
// @Produce json
// @Success 200 {array} domain.Vehicle
// @Success 201 {object} domain.Vehicle
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Security BearerAuth
// @Router /vehicles [post]
func (h *Handler) VehiclesHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var vehicle domain.Vehicle
		if err := json.NewDecoder(r.Body).Decode(&vehicle); err != nil {
			h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusOK)
			return
		}
		created, err := h.Service.CreateVehicle(r.Context(), vehicle)
		h.handleServiceResponse(w, r, created, err, http.StatusCreated)
	case http.MethodGet:
		vehicles, err := h.Service.ListVehicles(r.Context())
		h.handleServiceResponse(w, r, vehicles, err, http.StatusOK)
	default:
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
	}
}

// GetVehicleByIDHandler lida com a requisição GET /v1/vehicles/{id}.
// @Summary Busca um veículo pelo ID
// @Tags fleet
// @Produce json
// @Param id path string true "ID do veículo"
// @Success 200 {object} domain.Vehicle
// @Failure 404 {object} domain.ErrorResponse "Veículo não encontrado"
// @Security BearerAuth
// @Router /vehicles/{id} [get]
func (h *Handler) GetVehicleByIDHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	segments := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(segments) != 3 || segments[2] == "" {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Formato de URL inválido ou ID ausente."), http.StatusOK)
		return
	}

	vehicle, err := h.Service.GetVehicle(r.Context(), segments[2])
	h.handleServiceResponse(w, r, vehicle, err, http.StatusOK)
}
