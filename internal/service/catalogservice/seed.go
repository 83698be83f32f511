package catalogservice

import (
	"github.com/shopspring/decimal"

	"gooficina/internal/domain"
)

// DefaultServiceTypes é a tabela de serviços oferecidos pela oficina com preços padrão.
func DefaultServiceTypes() []domain.ServiceType {
	return []domain.ServiceType{
		{Name: "Troca de óleo", DefaultPrice: decimal.NewFromInt(50)},
		{Name: "Troca de pastilha de freio", DefaultPrice: decimal.NewFromInt(80)},
		{Name: "Esticar relação", DefaultPrice: decimal.NewFromInt(40)},
		{Name: "Troca de relação", DefaultPrice: decimal.NewFromInt(120)},
		{Name: "Troca de pneu", DefaultPrice: decimal.NewFromInt(60)},
		{Name: "Manutenção motoboy", DefaultPrice: decimal.NewFromInt(150)},
	}
}

// DefaultProducts é o estoque inicial carregado na subida do serviço.
func DefaultProducts() []domain.Product {
	return []domain.Product{
		{ID: "1", Barcode: "7891234567890", Name: "Óleo Motor 10W40 1L", Category: "Óleos", UnitPrice: decimal.NewFromInt(45), Stock: 20, MinStock: 5},
		{ID: "2", Barcode: "7891234567891", Name: "Pastilha de Freio Dianteira", Category: "Freios", UnitPrice: decimal.NewFromInt(89), Stock: 15, MinStock: 3},
		{ID: "3", Barcode: "7891234567892", Name: "Corrente de Transmissão", Category: "Transmissão", UnitPrice: decimal.NewFromInt(120), Stock: 8, MinStock: 2},
		{ID: "4", Barcode: "7891234567893", Name: "Kit Relação Completo", Category: "Transmissão", UnitPrice: decimal.NewFromInt(280), Stock: 5, MinStock: 2},
		{ID: "5", Barcode: "7891234567894", Name: "Pneu Traseiro 100/90-18", Category: "Pneus", UnitPrice: decimal.NewFromInt(320), Stock: 6, MinStock: 2},
		{ID: "6", Barcode: "7891234567895", Name: "Pneu Dianteiro 90/90-19", Category: "Pneus", UnitPrice: decimal.NewFromInt(290), Stock: 6, MinStock: 2},
		{ID: "7", Barcode: "7891234567896", Name: "Filtro de Óleo", Category: "Filtros", UnitPrice: decimal.NewFromInt(35), Stock: 25, MinStock: 5},
		{ID: "8", Barcode: "7891234567897", Name: "Vela de Ignição", Category: "Ignição", UnitPrice: decimal.NewFromInt(28), Stock: 30, MinStock: 10},
		{ID: "9", Barcode: "7891234567898", Name: "Cabo de Acelerador", Category: "Cabos", UnitPrice: decimal.NewFromInt(55), Stock: 10, MinStock: 3},
		{ID: "10", Barcode: "7891234567899", Name: "Cabo de Embreagem", Category: "Cabos", UnitPrice: decimal.NewFromInt(48), Stock: 10, MinStock: 3},
	}
}
