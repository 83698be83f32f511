package domain

import "github.com/shopspring/decimal"

// SalesEntry acumula quantidade e faturamento por nome de serviço ou produto,
// a partir das ordens finalizadas.
type SalesEntry struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Total    decimal.Decimal `json:"total"`
}

// SalesSummary são os números do painel, calculados sob demanda.
type SalesSummary struct {
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
	ServicesRevenue decimal.Decimal `json:"services_revenue"`
	ProductsRevenue decimal.Decimal `json:"products_revenue"`
	OpenOrders      int             `json:"open_orders"`
	FinalizedOrders int             `json:"finalized_orders"`
}
