package router

import (
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "goentrega/docs" // Documentação gerada pelo swag

	"goentrega/internal/api/fleet"
	"goentrega/internal/api/order"
	"goentrega/internal/api/product"
	"goentrega/internal/api/run"
	"goentrega/internal/api/user"
	"goentrega/internal/pkg/cache"
	"goentrega/internal/pkg/middleware"
)

// NewRouter configura e retorna o roteador HTTP principal.
// Recebe os Handlers já inicializados por injeção de dependências.
func NewRouter(
	runHandler *run.Handler,
	productHandler *product.Handler,
	orderHandler *order.Handler,
	fleetHandler *fleet.Handler,
	userHandler *user.Handler,
	tokenSvc middleware.TokenService,
	cacheClient cache.Client,
	rateLimitMax int,
	rateLimitPeriod time.Duration,
) http.Handler {

	// Usamos o ServeMux padrão do net/http para roteamento
	mux := http.NewServeMux()

	auth := middleware.NewAuthMiddleware(tokenSvc)

	// --- 1. Rotas públicas ---
	mux.HandleFunc("/ping", PingHandler)
	mux.Handle("/swagger/", httpSwagger.WrapHandler)
	mux.HandleFunc("/v1/register", userHandler.RegisterUserHandler)
	mux.HandleFunc("/v1/login", userHandler.LoginUserHandler)

	// --- 2. Catálogo de Produtos (v1) ---
	mux.HandleFunc("/v1/products", auth(productHandler.CollectionHandler))
	mux.HandleFunc("/v1/products/", auth(productHandler.GetProductByIDHandler))

	// --- 3. Pedidos (v1) ---
	mux.HandleFunc("/v1/orders", auth(orderHandler.CollectionHandler))
	mux.HandleFunc("/v1/orders/", auth(orderHandler.GetOrderByIDHandler))

	// --- 4. Frota (v1) ---
	mux.HandleFunc("/v1/riders", auth(fleetHandler.RidersHandler))
	mux.HandleFunc("/v1/riders/", auth(fleetHandler.GetRiderByIDHandler))
	mux.HandleFunc("/v1/vehicles", auth(fleetHandler.VehiclesHandler))
	mux.HandleFunc("/v1/vehicles/", auth(fleetHandler.GetVehicleByIDHandler))

	// --- 5. Rotas de Entrega (v1) ---
	// O padrão exato "/v1/runs/preview" tem precedência sobre o prefixo
	// "/v1/runs/" no ServeMux.
	mux.HandleFunc("/v1/runs", auth(runHandler.CollectionHandler))
	mux.HandleFunc("/v1/runs/preview", auth(runHandler.PreviewHandler))
	mux.HandleFunc("/v1/runs/", auth(runHandler.ItemHandler))

	// --- 6. Middlewares globais ---
	return middleware.RateLimiter(cacheClient, rateLimitMax, rateLimitPeriod)(mux)
}

// PingHandler é uma função utilitária para o health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
