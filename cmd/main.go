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
	"gooficina/config"
	"gooficina/internal/domain"
	"gooficina/internal/pkg/cache"
	"gooficina/internal/pkg/database"
	"gooficina/internal/pkg/logger"
	"gooficina/internal/pkg/messaging"
	"gooficina/internal/pkg/token"

	// Camadas para Injeção de Dependências
	"gooficina/internal/api/catalog"
	"gooficina/internal/api/customer"
	"gooficina/internal/api/order"
	"gooficina/internal/api/report"
	"gooficina/internal/api/router"
	"gooficina/internal/api/user"
	"gooficina/internal/api/vehicle"
	"gooficina/internal/repository/customerrepo"
	"gooficina/internal/repository/userrepo"
	"gooficina/internal/repository/vehiclerepo"
	"gooficina/internal/service/catalogservice"
	"gooficina/internal/service/customerservice"
	"gooficina/internal/service/orderservice"
	"gooficina/internal/service/userservice"
	"gooficina/internal/service/vehicleservice"
)

// @title GoOficina API
// @version 1.0
// @description API de ordens de serviço, catálogo e cadastros de uma oficina de motos.
// @host localhost:8080
// @BasePath /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Configuração e Inicialização
	log.Println("⚡ Inicializando serviço GoOficina...")
	// O .env é opcional: em Docker as variáveis vêm do ambiente do sistema.
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema.")
	}

	cfg := config.LoadConfig()
	log := logger.NewLogger(cfg.LogLevel)
	if z, ok := log.(*logger.ZapLogger); ok {
		defer z.Sync()
	}
	log.Info("Configurações carregadas.", map[string]interface{}{"env": cfg.Environment})

	// 2. Conexão com Recursos de Infraestrutura

	// A. Banco de Dados (PostgreSQL)
	db, err := database.NewPostgresDB(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	defer db.Close()

	// B. Cache (Redis). Sem Redis a API sobe sem cache e sem rate limiting.
	var cacheClient cache.Client
	redisClient, err := cache.NewRedisClient(cfg.RedisAddr)
	if err != nil {
		log.Warn("Redis indisponível; seguindo sem cache.", map[string]interface{}{"addr": cfg.RedisAddr, "error": err.Error()})
	} else {
		defer redisClient.Close()
		cacheClient = redisClient
		log.Info("Conexão Redis estabelecida.", nil)
	}

	// C. Mensageria (RabbitMQ), opcional.
	var ledgerOpts []orderservice.Option
	if cfg.RabbitMQURL != "" {
		rabbit := messaging.NewRabbitMQClient(messaging.RabbitMQConfig{
			URL:        cfg.RabbitMQURL,
			Exchange:   cfg.RabbitMQExchange,
			RetryCount: 5,
			RetryDelay: 2 * time.Second,
		}, log)
		if err := rabbit.Connect(); err != nil {
			log.Warn("RabbitMQ indisponível; eventos de OS finalizada não serão publicados.", map[string]interface{}{"error": err.Error()})
		} else {
			defer rabbit.Close()
			ledgerOpts = append(ledgerOpts, orderservice.WithPublisher(messaging.NewPublisher(rabbit)))
		}
	}
	if cfg.AllowDirectFinalize {
		ledgerOpts = append(ledgerOpts, orderservice.WithPolicy(domain.TransitionPolicy{AllowDirectFinalize: true}))
	}

	// 3. INJEÇÃO DE DEPENDÊNCIAS
	// Ordem: Repository -> Service -> Handler

	// A. Catálogo e ledger de OS (em memória)
	catalogSvc := catalogservice.NewService(catalogservice.DefaultProducts(), catalogservice.DefaultServiceTypes(), log)
	ledger := orderservice.NewLedger(catalogSvc, log, ledgerOpts...)
	log.Debug("Catálogo e ledger de OS inicializados.", nil)

	// B. Usuários
	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.TokenExpiry)
	userRepo := userrepo.NewUserRepository(db, cfg.DBTimeout, log)
	userSvc := userservice.NewService(userRepo, tokenSvc, log)

	// C. Clientes e veículos
	customerRepo := customerrepo.NewCustomerRepository(db, cacheClient, cfg.DBTimeout, cfg.CustomerCacheTTL, log)
	customerSvc := customerservice.NewService(customerRepo, log)
	vehicleRepo := vehiclerepo.NewVehicleRepository(db, cfg.DBTimeout, log)
	vehicleSvc := vehicleservice.NewService(vehicleRepo, customerRepo, log)
	log.Debug("Repositórios e serviços inicializados.", nil)

	// 4. Configuração e Início do Roteador/Servidor
	handlers := router.Handlers{
		User:     user.NewHandler(userSvc, log),
		Catalog:  catalog.NewHandler(catalogSvc, log),
		Order:    order.NewHandler(ledger, log),
		Report:   report.NewHandler(ledger, log),
		Customer: customer.NewHandler(customerSvc, log),
		Vehicle:  vehicle.NewHandler(vehicleSvc, log),
	}
	limit := router.RateLimit{Limit: cfg.RateLimitMaxRequests, Window: cfg.RateLimitPeriod}
	r := router.NewRouter(handlers, tokenSvc, cacheClient, limit, log)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 5. Execução e Graceful Shutdown
	go func() {
		log.Info("Servidor GoOficina ouvindo na porta", map[string]interface{}{"port": cfg.Port})
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
