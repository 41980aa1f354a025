package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	// Nossos pacotes de infraestrutura e utilitários
	"goentrega/config"
	"goentrega/internal/pkg/cache"
	"goentrega/internal/pkg/database"
	"goentrega/internal/pkg/logger"
	"goentrega/internal/pkg/token"

	// Camadas para Injeção de Dependências
	"goentrega/internal/api/fleet"
	"goentrega/internal/api/order"
	"goentrega/internal/api/product"
	"goentrega/internal/api/router"
	"goentrega/internal/api/run"
	"goentrega/internal/api/user"
	"goentrega/internal/repository/orderrepo"
	"goentrega/internal/repository/productrepo"
	"goentrega/internal/repository/riderrepo"
	"goentrega/internal/repository/runrepo"
	"goentrega/internal/repository/userrepo"
	"goentrega/internal/repository/vehiclerepo"
	"goentrega/internal/service/dispatchservice"
	"goentrega/internal/service/fleetservice"
	"goentrega/internal/service/orderservice"
	"goentrega/internal/service/productservice"
	"goentrega/internal/service/runservice"
	"goentrega/internal/service/userservice"
)

// @title GoEntrega API
// @version 1.0
// @description API de operações de entrega para PDV de varejo: catálogo, pedidos, frota e o motor de despacho de rotas.
// @BasePath /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Configuração e Inicialização
	log.Println("⚡ Inicializando serviço GoEntrega...")
	if err := godotenv.Load(); err != nil {
		// As variáveis essenciais podem estar no ambiente do sistema (ex: Docker).
		log.Println("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema.")
	}

	cfg := config.LoadConfig()
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("Configurações carregadas.", nil)

	// 2. Conexão com Recursos de Infraestrutura

	// A. Banco de Dados (PostgreSQL)
	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	defer db.Close()
	log.Info("Conexão PostgreSQL estabelecida.", nil)

	// B. Cache (Redis)
	cacheClient := cache.NewRedisClient(cfg.RedisAddr)
	log.Info("Conexão Redis estabelecida.", nil)

	// C. Serviço de Tokens (JWT)
	jwtExpiry := time.Hour * time.Duration(cfg.JWTExpiryHours)
	tokenSvc := token.NewService(cfg.JWTSecretKey, jwtExpiry)
	log.Debug("Serviço de Tokens JWT inicializado.", nil)

	// 3. INJEÇÃO DE DEPENDÊNCIAS (Montagem da Clean Architecture)
	// Ordem: Repository -> Service -> Handler

	// A. Repositórios (Camada de Acesso a Dados)
	productRepo := productrepo.NewProductRepository(db, cacheClient, cfg.DBTimeout, cfg.CacheTimeout)
	orderRepo := orderrepo.NewOrderRepository(db, cfg.DBTimeout, log)
	riderRepo := riderrepo.NewRiderRepository(db, cfg.DBTimeout)
	vehicleRepo := vehiclerepo.NewVehicleRepository(db, cfg.DBTimeout)
	runRepo := runrepo.NewRunRepository(db, cacheClient, cfg.DBTimeout, log)
	userRepo := userrepo.NewUserRepository(db, cfg.DBTimeout, log)
	log.Debug("Repositórios inicializados.", nil)

	// B. Serviços (Camada de Lógica de Negócio)
	productSvc := productservice.NewService(productRepo)
	orderSvc := orderservice.NewService(orderRepo, productRepo, log)
	fleetSvc := fleetservice.NewService(riderRepo, vehicleRepo)
	runSvc := runservice.NewService(runRepo, orderRepo, riderRepo, vehicleRepo, log)
	dispatchSvc := dispatchservice.NewService(runRepo, orderRepo, productRepo, vehicleRepo, log)
	userSvc := userservice.NewService(userRepo, tokenSvc)
	log.Debug("Serviços inicializados.", nil)

	// C. Handlers (Camada de Apresentação)
	productHandler := product.NewHandler(productSvc, log)
	orderHandler := order.NewHandler(orderSvc, log)
	fleetHandler := fleet.NewHandler(fleetSvc, log)
	runHandler := run.NewHandler(runSvc, dispatchSvc, log)
	userHandler := user.NewHandler(userSvc, log)
	log.Debug("Handlers inicializados.", nil)

	// 4. Configuração e Início do Roteador/Servidor
	r := router.NewRouter(
		runHandler,
		productHandler,
		orderHandler,
		fleetHandler,
		userHandler,
		tokenSvc,
		cacheClient,
		cfg.RateLimitMaxRequests,
		cfg.RateLimitPeriod,
	)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 5. Execução e Graceful Shutdown
	go func() {
		log.Info("Servidor GoEntrega ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Servidor falhou.", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Desligamento do servidor forçado.", err)
	}

	log.Info("Servidor encerrado com sucesso.", nil)
}
