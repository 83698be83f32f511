package router

import (
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "gooficina/docs" // registra a especificação gerada pelo swag

	"gooficina/internal/api/catalog"
	"gooficina/internal/api/customer"
	"gooficina/internal/api/order"
	"gooficina/internal/api/report"
	"gooficina/internal/api/user"
	"gooficina/internal/api/vehicle"
	"gooficina/internal/domain"
	"gooficina/internal/pkg/cache"
	"gooficina/internal/pkg/logger"
	"gooficina/internal/pkg/middleware"
)

// Handlers reúne os handlers já inicializados por injeção de dependências.
type Handlers struct {
	User     *user.Handler
	Catalog  *catalog.Handler
	Order    *order.Handler
	Report   *report.Handler
	Customer *customer.Handler
	Vehicle  *vehicle.Handler
}

// RateLimit configura o limitador global. Limit <= 0 desliga o limitador.
type RateLimit struct {
	Limit  int
	Window time.Duration
}

// NewRouter configura e retorna o roteador HTTP principal.
// cacheClient pode ser nil: nesse caso o limitador de requisições fica desligado.
func NewRouter(h Handlers, tokenSvc middleware.TokenService, cacheClient cache.Client, limit RateLimit, log logger.Logger) http.Handler {
	mux := http.NewServeMux()

	auth := middleware.NewAuthMiddleware(tokenSvc)
	admin := func(next http.HandlerFunc) http.HandlerFunc {
		return auth(middleware.PermissionMiddleware(domain.RoleAdmin)(next))
	}

	// --- Health check e documentação ---
	mux.HandleFunc("GET /ping", PingHandler)
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// --- Usuários (públicas) ---
	mux.HandleFunc("POST /v1/register", h.User.RegisterUserHandler)
	mux.HandleFunc("POST /v1/login", h.User.LoginUserHandler)

	// --- Catálogo ---
	mux.HandleFunc("GET /v1/products", auth(h.Catalog.ListProductsHandler))
	mux.HandleFunc("POST /v1/products", admin(h.Catalog.CreateProductHandler))
	mux.HandleFunc("GET /v1/products/low-stock", auth(h.Catalog.LowStockHandler))
	mux.HandleFunc("GET /v1/products/lookup/{code}", auth(h.Catalog.LookupHandler))
	mux.HandleFunc("GET /v1/products/{id}", auth(h.Catalog.GetProductHandler))
	mux.HandleFunc("PATCH /v1/products/{id}", admin(h.Catalog.UpdateProductHandler))
	mux.HandleFunc("DELETE /v1/products/{id}", admin(h.Catalog.DeleteProductHandler))
	mux.HandleFunc("POST /v1/products/{id}/stock", admin(h.Catalog.AdjustStockHandler))
	mux.HandleFunc("GET /v1/services", auth(h.Catalog.ServiceTypesHandler))

	// --- Ordens de serviço ---
	mux.HandleFunc("GET /v1/orders", auth(h.Order.ListOrdersHandler))
	mux.HandleFunc("POST /v1/orders", auth(h.Order.CreateOrderHandler))
	mux.HandleFunc("GET /v1/orders/{id}", auth(h.Order.GetOrderHandler))
	mux.HandleFunc("PATCH /v1/orders/{id}", auth(h.Order.UpdateOrderHandler))
	mux.HandleFunc("POST /v1/orders/{id}/services/{lineId}/toggle", auth(h.Order.ToggleServiceHandler))
	mux.HandleFunc("PUT /v1/orders/{id}/services/{lineId}/price", auth(h.Order.SetServicePriceHandler))
	mux.HandleFunc("POST /v1/orders/{id}/products", auth(h.Order.AddProductHandler))
	mux.HandleFunc("POST /v1/orders/{id}/products/scan", auth(h.Order.ScanProductHandler))
	mux.HandleFunc("DELETE /v1/orders/{id}/products/{productId}", auth(h.Order.RemoveProductHandler))
	mux.HandleFunc("POST /v1/orders/{id}/start", auth(h.Order.StartOrderHandler))
	mux.HandleFunc("POST /v1/orders/{id}/finalize", auth(h.Order.FinalizeOrderHandler))

	// --- Relatórios ---
	mux.HandleFunc("GET /v1/reports/summary", auth(h.Report.SummaryHandler))
	mux.HandleFunc("GET /v1/reports/services", auth(h.Report.ServiceSalesHandler))
	mux.HandleFunc("GET /v1/reports/products", auth(h.Report.ProductSalesHandler))

	// --- Clientes ---
	mux.HandleFunc("GET /v1/customers", auth(h.Customer.ListCustomersHandler))
	mux.HandleFunc("POST /v1/customers", auth(h.Customer.CreateCustomerHandler))
	mux.HandleFunc("GET /v1/customers/{id}", auth(h.Customer.GetCustomerHandler))
	mux.HandleFunc("PUT /v1/customers/{id}", auth(h.Customer.UpdateCustomerHandler))
	mux.HandleFunc("DELETE /v1/customers/{id}", admin(h.Customer.DeleteCustomerHandler))

	// --- Veículos ---
	mux.HandleFunc("GET /v1/vehicles", auth(h.Vehicle.ListVehiclesHandler))
	mux.HandleFunc("POST /v1/vehicles", auth(h.Vehicle.CreateVehicleHandler))
	mux.HandleFunc("GET /v1/vehicles/{id}", auth(h.Vehicle.GetVehicleHandler))
	mux.HandleFunc("PUT /v1/vehicles/{id}", auth(h.Vehicle.UpdateVehicleHandler))
	mux.HandleFunc("DELETE /v1/vehicles/{id}", admin(h.Vehicle.DeleteVehicleHandler))

	if cacheClient == nil || limit.Limit <= 0 {
		log.Warn("Rate limiting desligado.", nil)
		return mux
	}
	return middleware.RateLimiter(cacheClient, limit.Limit, limit.Window, log)(mux)
}

// PingHandler é o health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
