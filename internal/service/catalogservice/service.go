package catalogservice

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"gooficina/internal/domain"
	apperror "gooficina/internal/errors"
	"gooficina/internal/pkg/logger"
)

// Service é o dono do catálogo: produtos vendáveis e tabela de serviços.
// O estado vive em memória e é criado uma única vez na subida da aplicação.
type Service struct {
	mu       sync.RWMutex
	products []domain.Product // ordem de inserção
	services []domain.ServiceType

	table    CodeLookup
	fallback FallbackFunc
	logger   logger.Logger
}

// Option customiza o Service na construção.
type Option func(*Service)

// WithCodeTable troca a tabela de correspondência exata de códigos de barras.
// Por padrão são usados os códigos de barras dos produtos do próprio catálogo.
func WithCodeTable(table CodeLookup) Option {
	return func(s *Service) { s.table = table }
}

// WithFallback troca o gerador de produto avulso para códigos desconhecidos.
func WithFallback(fallback FallbackFunc) Option {
	return func(s *Service) { s.fallback = fallback }
}

// NewService cria o catálogo com os produtos e serviços iniciais.
func NewService(products []domain.Product, services []domain.ServiceType, logger logger.Logger, opts ...Option) *Service {
	s := &Service{
		products: append([]domain.Product{}, products...),
		services: append([]domain.ServiceType{}, services...),
		fallback: GenericFallback,
		logger:   logger,
	}
	s.table = barcodeTable{svc: s}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// validateProduct aplica as regras de negócio de um produto completo.
func validateProduct(p domain.Product) error {
	if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Category) == "" {
		return apperror.NewValidationError("Nome e categoria são obrigatórios para o produto.")
	}
	if !p.UnitPrice.IsPositive() {
		return apperror.NewValidationError("O preço do produto deve ser positivo.")
	}
	if p.Stock < 0 || p.MinStock < 0 {
		return apperror.NewValidationError("Estoque e estoque mínimo não podem ser negativos.")
	}
	return nil
}

func (s *Service) indexOf(id string) int {
	for i := range s.products {
		if s.products[i].ID == id {
			return i
		}
	}
	return -1
}

// AddProduct cadastra um novo produto com ID novo.
func (s *Service) AddProduct(input domain.ProductInput) (domain.Product, error) {
	product := domain.Product{
		Barcode:   strings.TrimSpace(input.Barcode),
		Name:      strings.TrimSpace(input.Name),
		Category:  strings.TrimSpace(input.Category),
		UnitPrice: input.UnitPrice,
		Stock:     input.Stock,
		MinStock:  input.MinStock,
	}
	if err := validateProduct(product); err != nil {
		s.logger.Warn("Falha na validação do produto.", map[string]interface{}{"name": input.Name, "error": err.Error()})
		return domain.Product{}, err
	}
	product.ID = uuid.New().String()

	s.mu.Lock()
	s.products = append(s.products, product)
	s.mu.Unlock()

	s.logger.Info("Produto cadastrado.", map[string]interface{}{"id": product.ID, "name": product.Name})
	return product, nil
}

// GetProduct busca um produto pelo ID.
func (s *Service) GetProduct(id string) (domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.Product{}, apperror.NewNotFoundError(fmt.Sprintf("Produto com ID %s não existe no catálogo.", id))
	}
	return s.products[i], nil
}

// ListProducts devolve uma cópia de todos os produtos na ordem de cadastro.
func (s *Service) ListProducts() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Product{}, s.products...)
}

// UpdateProduct aplica uma atualização parcial. O resultado passa pela mesma validação do cadastro.
func (s *Service) UpdateProduct(id string, patch domain.ProductPatch) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.Product{}, apperror.NewNotFoundError(fmt.Sprintf("Produto com ID %s não existe no catálogo.", id))
	}

	updated := patch.Apply(s.products[i])
	updated.Name = strings.TrimSpace(updated.Name)
	updated.Category = strings.TrimSpace(updated.Category)
	if err := validateProduct(updated); err != nil {
		return domain.Product{}, err
	}
	s.products[i] = updated

	s.logger.Info("Produto atualizado.", map[string]interface{}{"id": id})
	return updated, nil
}

// RemoveProduct apaga o produto do catálogo. As OS que já o contêm guardam
// apenas o retrato (nome, quantidade, preço), então nada mais é afetado.
func (s *Service) RemoveProduct(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Produto com ID %s não existe no catálogo.", id))
	}
	s.products = append(s.products[:i], s.products[i+1:]...)

	s.logger.Info("Produto removido.", map[string]interface{}{"id": id})
	return nil
}

// DecrementStock dá baixa no estoque, travando em zero. Um ID desconhecido é ignorado:
// o produto pode ter sido removido depois que a OS foi aberta.
func (s *Service) DecrementStock(id string, amount int) {
	if amount <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		s.logger.Debug("Baixa de estoque ignorada: produto fora do catálogo.", map[string]interface{}{"id": id, "amount": amount})
		return
	}
	newStock := s.products[i].Stock - amount
	if newStock < 0 {
		newStock = 0
	}
	s.products[i].Stock = newStock
}

// AdjustStock aplica uma entrada (delta positivo) ou saída manual (delta negativo) de estoque.
// Diferente da baixa por OS, um ajuste manual não pode deixar o estoque negativo.
func (s *Service) AdjustStock(id string, delta int) (domain.Product, error) {
	if delta == 0 {
		return domain.Product{}, apperror.NewValidationError("O ajuste de estoque (delta) não pode ser zero.")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.Product{}, apperror.NewNotFoundError(fmt.Sprintf("Produto com ID %s não existe no catálogo.", id))
	}
	newStock := s.products[i].Stock + delta
	if newStock < 0 {
		s.logger.Warn("Tentativa de ajustar estoque para quantidade negativa.", map[string]interface{}{"id": id, "current": s.products[i].Stock, "delta": delta})
		return domain.Product{}, apperror.NewValidationError("Ajuste resultaria em quantidade de estoque negativa.")
	}
	s.products[i].Stock = newStock

	s.logger.Info("Estoque ajustado.", map[string]interface{}{"id": id, "new_stock": newStock})
	return s.products[i], nil
}

// ListLowStock devolve os produtos com estoque no mínimo ou abaixo, na ordem de cadastro.
func (s *Service) ListLowStock() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	low := []domain.Product{}
	for _, p := range s.products {
		if p.IsLowStock() {
			low = append(low, p)
		}
	}
	return low
}

// ServiceTypes devolve uma cópia da tabela de serviços.
func (s *Service) ServiceTypes() []domain.ServiceType {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.ServiceType{}, s.services...)
}

// Lookup resolve um código lido no balcão: primeiro a tabela exata, depois o gerador avulso.
func (s *Service) Lookup(code string) (domain.ProductQuote, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return domain.ProductQuote{}, apperror.NewValidationError("Digite um código.")
	}
	if s.table != nil {
		if q, ok := s.table.Lookup(code); ok {
			return q, nil
		}
	}
	if s.fallback == nil {
		return domain.ProductQuote{}, apperror.NewNotFoundError(fmt.Sprintf("Código %s não cadastrado.", code))
	}
	return s.fallback(code), nil
}
