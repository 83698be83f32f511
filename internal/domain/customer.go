package domain

import (
	"context"
	"time"
)

// PageSize é o tamanho fixo das páginas de clientes e veículos.
const PageSize = 10

// Customer é um cliente da oficina, sempre associado a uma empresa (company).
// A exclusão é lógica (IsDeleted), nunca física.
type Customer struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Document  string    `json:"document,omitempty"` // CPF/CNPJ
	Notes     string    `json:"notes,omitempty"`
	IsDeleted bool      `json:"is_deleted"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CustomerInput é o payload de criação/edição de cliente.
type CustomerInput struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Document string `json:"document"`
	Notes    string `json:"notes"`
}

// ListFilter define busca textual e paginação (página começa em 1).
type ListFilter struct {
	CompanyID  string
	Search     string
	CustomerID string // Só usado na listagem de veículos
	Page       int
}

// Offset devolve o deslocamento da página atual.
func (f ListFilter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * PageSize
}

// Page é uma página de resultados com a contagem total.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// CustomerRepository é o contrato de persistência de clientes.
type CustomerRepository interface {
	Create(ctx context.Context, customer Customer) (Customer, error)
	FindByID(ctx context.Context, companyID, id string) (Customer, error)
	List(ctx context.Context, filter ListFilter) ([]Customer, int, error)
	Update(ctx context.Context, customer Customer) (Customer, error)
	SoftDelete(ctx context.Context, companyID, id string) error
}
