package catalogservice

import (
	"fmt"

	"github.com/shopspring/decimal"

	"gooficina/internal/domain"
)

// CodeLookup resolve um código de barras por correspondência exata.
type CodeLookup interface {
	Lookup(code string) (domain.ProductQuote, bool)
}

// FallbackFunc gera um produto avulso para códigos que nenhuma tabela conhece.
type FallbackFunc func(code string) domain.ProductQuote

// TableLookup é uma tabela fixa código -> cotação.
type TableLookup map[string]domain.ProductQuote

// Lookup implementa CodeLookup.
func (t TableLookup) Lookup(code string) (domain.ProductQuote, bool) {
	q, ok := t[code]
	if ok {
		q.Code = code
	}
	return q, ok
}

// GenericFallbackPrice é o preço do produto avulso gerado para códigos desconhecidos.
var GenericFallbackPrice = decimal.NewFromInt(50)

// GenericFallback nomeia o produto pelos 4 últimos dígitos do código, sem vínculo com o catálogo.
func GenericFallback(code string) domain.ProductQuote {
	suffix := code
	if len(suffix) > 4 {
		suffix = suffix[len(suffix)-4:]
	}
	return domain.ProductQuote{
		Code:      code,
		Name:      fmt.Sprintf("Produto %s", suffix),
		UnitPrice: GenericFallbackPrice,
	}
}

// barcodeTable procura o código entre os produtos atuais do catálogo.
type barcodeTable struct {
	svc *Service
}

func (b barcodeTable) Lookup(code string) (domain.ProductQuote, bool) {
	b.svc.mu.RLock()
	defer b.svc.mu.RUnlock()

	for _, p := range b.svc.products {
		if p.Barcode != "" && p.Barcode == code {
			return domain.ProductQuote{Code: code, ProductID: p.ID, Name: p.Name, UnitPrice: p.UnitPrice}, true
		}
	}
	return domain.ProductQuote{}, false
}
