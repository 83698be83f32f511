package domain

import (
	"github.com/shopspring/decimal"
)

// Product representa um item vendável do catálogo (peças, óleos, pneus).
// O estoque nunca fica negativo: baixas abaixo de zero são travadas em zero.
type Product struct {
	ID        string          `json:"id"`
	Barcode   string          `json:"barcode,omitempty"` // Código de barras usado pelo leitor do balcão
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Stock     int             `json:"stock"`
	MinStock  int             `json:"min_stock"`
}

// IsLowStock informa se o produto está no limite mínimo ou abaixo dele.
func (p Product) IsLowStock() bool {
	return p.Stock <= p.MinStock
}

// ProductInput é o payload de criação de produto.
type ProductInput struct {
	Barcode   string          `json:"barcode"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Stock     int             `json:"stock"`
	MinStock  int             `json:"min_stock"`
}

// ProductPatch é uma atualização parcial: apenas os campos não-nil são aplicados.
type ProductPatch struct {
	Barcode   *string          `json:"barcode,omitempty"`
	Name      *string          `json:"name,omitempty"`
	Category  *string          `json:"category,omitempty"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
	Stock     *int             `json:"stock,omitempty"`
	MinStock  *int             `json:"min_stock,omitempty"`
}

// Apply devolve uma cópia do produto com o patch aplicado.
func (p ProductPatch) Apply(product Product) Product {
	if p.Barcode != nil {
		product.Barcode = *p.Barcode
	}
	if p.Name != nil {
		product.Name = *p.Name
	}
	if p.Category != nil {
		product.Category = *p.Category
	}
	if p.UnitPrice != nil {
		product.UnitPrice = *p.UnitPrice
	}
	if p.Stock != nil {
		product.Stock = *p.Stock
	}
	if p.MinStock != nil {
		product.MinStock = *p.MinStock
	}
	return product
}

// StockAdjustmentRequest é o payload de entrada/saída manual de estoque.
type StockAdjustmentRequest struct {
	Delta int `json:"delta"` // Quantidade a ser adicionada (positiva) ou removida (negativa)
}

// ServiceType é um serviço oferecido pela oficina, com preço padrão.
type ServiceType struct {
	Name         string          `json:"name"`
	DefaultPrice decimal.Decimal `json:"default_price"`
}

// ProductQuote é o resultado da leitura de um código de barras.
// ProductID fica vazio quando o código não corresponde a um produto do catálogo.
type ProductQuote struct {
	Code      string          `json:"code"`
	ProductID string          `json:"product_id,omitempty"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}
