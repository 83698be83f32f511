package catalogservice_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gooficina/internal/domain"
	apperror "gooficina/internal/errors"
	"gooficina/internal/pkg/logger"
	"gooficina/internal/service/catalogservice"
)

func newSeededService() *catalogservice.Service {
	return catalogservice.NewService(catalogservice.DefaultProducts(), catalogservice.DefaultServiceTypes(), logger.NewNopLogger())
}

func TestSeed(t *testing.T) {
	svc := newSeededService()

	assert.Len(t, svc.ListProducts(), 10)
	services := svc.ServiceTypes()
	require.Len(t, services, 6)
	assert.Equal(t, "Troca de óleo", services[0].Name)
	assert.Equal(t, "150", services[5].DefaultPrice.String())
}

func TestAddProduct_Success(t *testing.T) {
	svc := newSeededService()

	p, err := svc.AddProduct(domain.ProductInput{
		Name:      " Retrovisor ",
		Category:  "Acessórios",
		UnitPrice: decimal.NewFromInt(65),
		Stock:     4,
		MinStock:  1,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Retrovisor", p.Name)

	got, err := svc.GetProduct(p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Len(t, svc.ListProducts(), 11)
}

func TestAddProduct_Validation(t *testing.T) {
	svc := newSeededService()

	cases := map[string]domain.ProductInput{
		"nome vazio":       {Name: " ", Category: "X", UnitPrice: decimal.NewFromInt(1)},
		"categoria vazia":  {Name: "X", Category: "", UnitPrice: decimal.NewFromInt(1)},
		"preço zero":       {Name: "X", Category: "X", UnitPrice: decimal.Zero},
		"estoque negativo": {Name: "X", Category: "X", UnitPrice: decimal.NewFromInt(1), Stock: -1},
		"mínimo negativo":  {Name: "X", Category: "X", UnitPrice: decimal.NewFromInt(1), MinStock: -1},
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.AddProduct(input)
			assert.IsType(t, &apperror.ValidationError{}, err)
		})
	}
	assert.Len(t, svc.ListProducts(), 10)
}

func TestUpdateProduct(t *testing.T) {
	svc := newSeededService()
	price := decimal.NewFromInt(50)

	p, err := svc.UpdateProduct("1", domain.ProductPatch{UnitPrice: &price})
	require.NoError(t, err)
	assert.Equal(t, "50", p.UnitPrice.String())
	assert.Equal(t, "Óleo Motor 10W40 1L", p.Name)

	negative := -3
	_, err = svc.UpdateProduct("1", domain.ProductPatch{Stock: &negative})
	assert.IsType(t, &apperror.ValidationError{}, err)

	_, err = svc.UpdateProduct("nao-existe", domain.ProductPatch{UnitPrice: &price})
	assert.IsType(t, &apperror.NotFoundError{}, err)
}

func TestRemoveProduct(t *testing.T) {
	svc := newSeededService()

	require.NoError(t, svc.RemoveProduct("3"))
	_, err := svc.GetProduct("3")
	assert.IsType(t, &apperror.NotFoundError{}, err)

	assert.IsType(t, &apperror.NotFoundError{}, svc.RemoveProduct("3"))
	assert.Len(t, svc.ListProducts(), 9)
}

func TestDecrementStock_ClampsAtZero(t *testing.T) {
	svc := newSeededService()

	svc.DecrementStock("4", 2)
	p, _ := svc.GetProduct("4")
	assert.Equal(t, 3, p.Stock)

	svc.DecrementStock("4", 10)
	p, _ = svc.GetProduct("4")
	assert.Equal(t, 0, p.Stock)

	// ID desconhecido não é erro.
	assert.NotPanics(t, func() { svc.DecrementStock("nao-existe", 1) })
}

func TestAdjustStock(t *testing.T) {
	svc := newSeededService()

	p, err := svc.AdjustStock("3", 5)
	require.NoError(t, err)
	assert.Equal(t, 13, p.Stock)

	_, err = svc.AdjustStock("3", -20)
	assert.IsType(t, &apperror.ValidationError{}, err)

	_, err = svc.AdjustStock("3", 0)
	assert.IsType(t, &apperror.ValidationError{}, err)

	_, err = svc.AdjustStock("nao-existe", 1)
	assert.IsType(t, &apperror.NotFoundError{}, err)
}

func TestListLowStock_InsertionOrder(t *testing.T) {
	svc := newSeededService()
	assert.Empty(t, svc.ListLowStock())

	svc.DecrementStock("9", 7) // 3 == mínimo
	svc.DecrementStock("2", 13)

	low := svc.ListLowStock()
	require.Len(t, low, 2)
	assert.Equal(t, "2", low[0].ID)
	assert.Equal(t, "9", low[1].ID)
}

func TestLookup(t *testing.T) {
	svc := newSeededService()

	q, err := svc.Lookup("7891234567896")
	require.NoError(t, err)
	assert.Equal(t, "7", q.ProductID)
	assert.Equal(t, "Filtro de Óleo", q.Name)

	q, err = svc.Lookup(" 1234567 ")
	require.NoError(t, err)
	assert.Empty(t, q.ProductID)
	assert.Equal(t, "Produto 4567", q.Name)
	assert.Equal(t, "50", q.UnitPrice.String())

	_, err = svc.Lookup("  ")
	assert.IsType(t, &apperror.ValidationError{}, err)
}

func TestLookup_CustomTable(t *testing.T) {
	table := catalogservice.TableLookup{
		"ABC": {ProductID: "1", Name: "Óleo promocional", UnitPrice: decimal.NewFromInt(40)},
	}
	svc := catalogservice.NewService(catalogservice.DefaultProducts(), nil, logger.NewNopLogger(),
		catalogservice.WithCodeTable(table),
		catalogservice.WithFallback(nil),
	)

	q, err := svc.Lookup("ABC")
	require.NoError(t, err)
	assert.Equal(t, "ABC", q.Code)
	assert.Equal(t, "Óleo promocional", q.Name)

	_, err = svc.Lookup("7891234567890")
	assert.IsType(t, &apperror.NotFoundError{}, err)
}
