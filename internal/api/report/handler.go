package report

import (
	"net/http"

	"gooficina/internal/api/response"
	"gooficina/internal/domain"
	"gooficina/internal/pkg/logger"
)

// SalesReporter são as consultas do painel.
type SalesReporter interface {
	Summary() domain.SalesSummary
	ServiceSales() []domain.SalesEntry
	ProductSales() []domain.SalesEntry
}

// Handler agrupa os handlers de relatórios.
type Handler struct {
	Reporter SalesReporter
	Logger   logger.Logger
}

// NewHandler cria uma nova instância do Handler.
func NewHandler(reporter SalesReporter, log logger.Logger) *Handler {
	return &Handler{Reporter: reporter, Logger: log}
}

// SummaryHandler lida com GET /v1/reports/summary.
// @Summary Números do painel
// @Description Faturamento considera só OS finalizadas; em aberto conta open e in-progress.
// @Tags reports
// @Produce json
// @Success 200 {object} domain.SalesSummary
// @Security BearerAuth
// @Router /reports/summary [get]
func (h *Handler) SummaryHandler(w http.ResponseWriter, r *http.Request) {
	response.Write(w, r, h.Logger, h.Reporter.Summary(), nil, http.StatusOK)
}

// ServiceSalesHandler lida com GET /v1/reports/services.
// @Summary Vendas acumuladas por serviço
// @Tags reports
// @Produce json
// @Success 200 {array} domain.SalesEntry
// @Security BearerAuth
// @Router /reports/services [get]
func (h *Handler) ServiceSalesHandler(w http.ResponseWriter, r *http.Request) {
	response.Write(w, r, h.Logger, h.Reporter.ServiceSales(), nil, http.StatusOK)
}

// ProductSalesHandler lida com GET /v1/reports/products.
// @Summary Vendas acumuladas por produto
// @Tags reports
// @Produce json
// @Success 200 {array} domain.SalesEntry
// @Security BearerAuth
// @Router /reports/products [get]
func (h *Handler) ProductSalesHandler(w http.ResponseWriter, r *http.Request) {
	response.Write(w, r, h.Logger, h.Reporter.ProductSales(), nil, http.StatusOK)
}
