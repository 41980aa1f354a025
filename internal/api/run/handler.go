package run

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
	"goentrega/internal/pkg/middleware"
)

// RunService define o contrato de preparação de rotas que o Handler espera.
type RunService interface {
	CreateRun(ctx context.Context) (domain.DeliveryRun, error)
	GetRun(ctx context.Context, id string) (domain.DeliveryRun, error)
	ListRuns(ctx context.Context, filter domain.RunFilter) ([]domain.DeliveryRun, error)
	UpdateStaging(ctx context.Context, runID string, staging domain.RunStagingRequest) (domain.DeliveryRun, error)
	LinkOrder(ctx context.Context, runID, orderID string) error
	UnlinkOrder(ctx context.Context, runID, orderID string) error
	RevertToPlanned(ctx context.Context, runID string) (domain.DeliveryRun, error)
}

// DispatchService define o contrato do motor de despacho.
type DispatchService interface {
	Dispatch(ctx context.Context, runID string, req domain.DispatchRequest) (domain.DispatchResult, error)
	PreviewLoad(ctx context.Context, vehicleID *string, loadout []domain.LoadoutLine) (domain.LoadPreview, error)
}

// PreviewRequest é o payload do cálculo consultivo de capacidade.
type PreviewRequest struct {
	VehicleID *string              `json:"vehicle_id"`
	Loadout   []domain.LoadoutLine `json:"loadout"`
}

// Handler agrupa todos os métodos de Handler de rotas de entrega.
type Handler struct {
	Service  RunService
	Dispatch DispatchService
	Logger   logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando os Serviços e o Logger.
func NewHandler(svc RunService, dispatch DispatchService, log logger.Logger) *Handler {
	return &Handler{
		Service:  svc,
		Dispatch: dispatch,
		Logger:   log,
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

// CollectionHandler lida com /v1/runs: POST cria, GET lista.
func (h *Handler) CollectionHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createRun(w, r)
	case http.MethodGet:
		h.listRuns(w, r)
	default:
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
	}
}

// createRun lida com a requisição POST /v1/runs.
// @Summary Cria uma nova rota de entrega
// @Description Cria uma rota vazia em PLANNED, pronta para receber pedidos e carga.
// @Tags runs
// @Produce json
// @Success 201 {object} domain.DeliveryRun "Rota criada"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Security BearerAuth
// @Router /runs [post]
func (h *Handler) createRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.Service.CreateRun(r.Context())
	h.handleServiceResponse(w, r, run, err, http.StatusCreated)
}

// listRuns lida com a requisição GET /v1/runs.
// @Summary Lista rotas de entrega
// @Tags runs
// @Produce json
// @Param status query string false "Filtro de status (PLANNED, DISPATCHED, ...)"
// @Param page query int false "Página (default 1)"
// @Param limit query int false "Itens por página (default 10, máx 100)"
// @Success 200 {array} domain.DeliveryRun
// @Failure 400 {object} domain.ErrorResponse "Status desconhecido"
// @Security BearerAuth
// @Router /runs [get]
func (h *Handler) listRuns(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.RunFilter{
		Status: domain.RunStatus(q.Get("status")),
	}
	filter.Page, _ = strconv.Atoi(q.Get("page"))
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))

	runs, err := h.Service.ListRuns(r.Context(), filter)
	h.handleServiceResponse(w, r, runs, err, http.StatusOK)
}

// ItemHandler lida com as rotas sob /v1/runs/{id}:
//
//	GET    /v1/runs/{id}                  detalhe da rota
//	PUT    /v1/runs/{id}/staging          entregador/veículo/carga
//	POST   /v1/runs/{id}/dispatch         despacho
//	POST   /v1/runs/{id}/revert           override administrativo
//	POST   /v1/runs/{id}/orders/{orderID} vincula pedido
//	DELETE /v1/runs/{id}/orders/{orderID} desvincula pedido
func (h *Handler) ItemHandler(w http.ResponseWriter, r *http.Request) {
	// Segmentos: ["v1", "runs", "{id}", ...]
	segments := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(segments) < 3 || segments[2] == "" {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Formato de URL inválido ou ID ausente."), http.StatusOK)
		return
	}
	runID := segments[2]

	switch {
	case len(segments) == 3 && r.Method == http.MethodGet:
		h.getRun(w, r, runID)
	case len(segments) == 4 && segments[3] == "staging" && r.Method == http.MethodPut:
		h.updateStaging(w, r, runID)
	case len(segments) == 4 && segments[3] == "dispatch" && r.Method == http.MethodPost:
		h.dispatchRun(w, r, runID)
	case len(segments) == 4 && segments[3] == "revert" && r.Method == http.MethodPost:
		// O revert é o único subcaminho com papel restrito.
		middleware.PermissionMiddleware(domain.RoleAdmin)(func(w http.ResponseWriter, r *http.Request) {
			h.revertRun(w, r, runID)
		})(w, r)
	case len(segments) == 5 && segments[3] == "orders" && r.Method == http.MethodPost:
		h.linkOrder(w, r, runID, segments[4])
	case len(segments) == 5 && segments[3] == "orders" && r.Method == http.MethodDelete:
		h.unlinkOrder(w, r, runID, segments[4])
	default:
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
	}
}

// getRun lida com a requisição GET /v1/runs/{id}.
// @Summary Busca uma rota pelo ID
// @Tags runs
// @Produce json
// @Param id path string true "ID da rota"
// @Success 200 {object} domain.DeliveryRun
// @Failure 404 {object} domain.ErrorResponse "Rota não encontrada"
// @Security BearerAuth
// @Router /runs/{id} [get]
func (h *Handler) getRun(w http.ResponseWriter, r *http.Request, runID string) {
	run, err := h.Service.GetRun(r.Context(), runID)
	h.handleServiceResponse(w, r, run, err, http.StatusOK)
}

// updateStaging lida com a requisição PUT /v1/runs/{id}/staging.
// @Summary Atualiza entregador, veículo e carga de uma rota em PLANNED
// @Tags runs
// @Accept json
// @Produce json
// @Param id path string true "ID da rota"
// @Param staging body domain.RunStagingRequest true "Campos de staging"
// @Success 200 {object} domain.DeliveryRun
// @Failure 400 {object} domain.ErrorResponse "Carga inválida ou entregador inativo"
// @Failure 409 {object} domain.ErrorResponse "Rota não está mais em PLANNED"
// @Security BearerAuth
// @Router /runs/{id}/staging [put]
func (h *Handler) updateStaging(w http.ResponseWriter, r *http.Request, runID string) {
	var staging domain.RunStagingRequest
	if err := json.NewDecoder(r.Body).Decode(&staging); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusOK)
		return
	}

	run, err := h.Service.UpdateStaging(r.Context(), runID, staging)
	h.handleServiceResponse(w, r, run, err, http.StatusOK)
}

// dispatchRun lida com a requisição POST /v1/runs/{id}/dispatch.
//
// Sucesso (inclusive o no-op idempotente de rota já despachada) responde 200
// com ok=true. Falhas de negócio (pré-condição, capacidade, classificação,
// estoque) respondem 409 com o MESMO documento DispatchResult, carregando a
// lista completa de erros por linha para a tela de preparação.
// @Summary Despacha uma rota (PLANNED -> DISPATCHED)
// @Tags runs
// @Accept json
// @Produce json
// @Param id path string true "ID da rota"
// @Param dispatch body domain.DispatchRequest true "Documento de despacho"
// @Success 200 {object} domain.DispatchResult "Despacho aplicado (ou já aplicado)"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 404 {object} domain.ErrorResponse "Rota não encontrada"
// @Failure 409 {object} domain.DispatchResult "Despacho rejeitado; nada foi alterado"
// @Security BearerAuth
// @Router /runs/{id}/dispatch [post]
func (h *Handler) dispatchRun(w http.ResponseWriter, r *http.Request, runID string) {
	var req domain.DispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusOK)
		return
	}

	result, err := h.Dispatch.Dispatch(r.Context(), runID, req)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	status := http.StatusOK
	if !result.OK {
		status = http.StatusConflict
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(result)
}

// revertRun lida com a requisição POST /v1/runs/{id}/revert.
// Exige papel admin: o revert reabre uma rota já despachada sem devolver o
// estoque consumido.
// @Summary Reverte uma rota despachada para PLANNED (admin)
// @Tags runs
// @Produce json
// @Param id path string true "ID da rota"
// @Success 200 {object} domain.DeliveryRun
// @Failure 403 {object} domain.ErrorResponse "Papel insuficiente"
// @Failure 409 {object} domain.ErrorResponse "Rota não está em DISPATCHED"
// @Security BearerAuth
// @Router /runs/{id}/revert [post]
func (h *Handler) revertRun(w http.ResponseWriter, r *http.Request, runID string) {
	// O PermissionMiddleware já garantiu papel admin neste ponto.
	claims, _ := middleware.GetUserClaimsFromContext(r.Context())

	h.Logger.Info("Revert administrativo solicitado.", map[string]interface{}{
		"run_id":  runID,
		"user_id": claims.UserID,
	})

	run, err := h.Service.RevertToPlanned(r.Context(), runID)
	h.handleServiceResponse(w, r, run, err, http.StatusOK)
}

// linkOrder lida com a requisição POST /v1/runs/{id}/orders/{orderID}.
// @Summary Vincula um pedido pendente a uma rota em PLANNED
// @Tags runs
// @Param id path string true "ID da rota"
// @Param orderID path string true "ID do pedido"
// @Success 204 "Pedido vinculado"
// @Failure 409 {object} domain.ErrorResponse "Rota ou pedido em estado incompatível"
// @Security BearerAuth
// @Router /runs/{id}/orders/{orderID} [post]
func (h *Handler) linkOrder(w http.ResponseWriter, r *http.Request, runID, orderID string) {
	err := h.Service.LinkOrder(r.Context(), runID, orderID)
	h.handleServiceResponse(w, r, nil, err, http.StatusNoContent)
}

// unlinkOrder lida com a requisição DELETE /v1/runs/{id}/orders/{orderID}.
// @Summary Desvincula um pedido de uma rota em PLANNED
// @Tags runs
// @Param id path string true "ID da rota"
// @Param orderID path string true "ID do pedido"
// @Success 204 "Pedido desvinculado"
// @Failure 404 {object} domain.ErrorResponse "Vínculo inexistente"
// @Security BearerAuth
// @Router /runs/{id}/orders/{orderID} [delete]
func (h *Handler) unlinkOrder(w http.ResponseWriter, r *http.Request, runID, orderID string) {
	err := h.Service.UnlinkOrder(r.Context(), runID, orderID)
	h.handleServiceResponse(w, r, nil, err, http.StatusNoContent)
}

// PreviewHandler lida com a requisição POST /v1/runs/preview.
// @Summary Calcula o peso da carga e o excesso de capacidade (consultivo)
// @Tags runs
// @Accept json
// @Produce json
// @Param preview body PreviewRequest true "Veículo e carga a avaliar"
// @Success 200 {object} domain.LoadPreview
// @Failure 400 {object} domain.ErrorResponse "Carga malformada"
// @Security BearerAuth
// @Router /runs/preview [post]
func (h *Handler) PreviewHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	var req PreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusOK)
		return
	}

	preview, err := h.Dispatch.PreviewLoad(r.Context(), req.VehicleID, req.Loadout)
	h.handleServiceResponse(w, r, preview, err, http.StatusOK)
}
