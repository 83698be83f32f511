package orderservice

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gooficina/internal/domain"
	apperror "gooficina/internal/errors"
	"gooficina/internal/pkg/logger"
)

// Catalog é o que o ledger precisa do catálogo.
// Implementado por catalogservice.Service.
type Catalog interface {
	GetProduct(id string) (domain.Product, error)
	DecrementStock(id string, amount int)
	ServiceTypes() []domain.ServiceType
	Lookup(code string) (domain.ProductQuote, error)
}

// EventPublisher publica o evento de OS finalizada. Implementado por messaging.Publisher.
type EventPublisher interface {
	PublishOrderFinalized(ctx context.Context, order domain.Order) error
}

// Ledger guarda todas as ordens de serviço e os acumulados de vendas.
// Todas as mutações passam pelo mesmo mutex; a finalização é o ponto de serialização.
// Ordem de locks: ledger -> catálogo.
type Ledger struct {
	mu           sync.Mutex
	orders       []*domain.Order // ordem de criação
	serviceSales []domain.SalesEntry
	productSales []domain.SalesEntry

	catalog   Catalog
	policy    domain.TransitionPolicy
	publisher EventPublisher
	logger    logger.Logger
	now       func() time.Time
}

// Option customiza o Ledger na construção.
type Option func(*Ledger)

// WithPolicy troca a política de transição de status.
func WithPolicy(policy domain.TransitionPolicy) Option {
	return func(l *Ledger) { l.policy = policy }
}

// WithPublisher liga a publicação do evento order.finalized.
func WithPublisher(publisher EventPublisher) Option {
	return func(l *Ledger) { l.publisher = publisher }
}

// WithClock troca a fonte de horário (usado nos testes).
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// NewLedger cria um ledger vazio sobre o catálogo informado.
func NewLedger(catalog Catalog, logger logger.Logger, opts ...Option) *Ledger {
	l := &Ledger{
		orders:       []*domain.Order{},
		serviceSales: []domain.SalesEntry{},
		productSales: []domain.SalesEntry{},
		catalog:      catalog,
		policy:       domain.StrictTransitions,
		logger:       logger,
		now:          func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// find deve ser chamado com l.mu travado.
func (l *Ledger) find(id string) (*domain.Order, error) {
	for _, o := range l.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, apperror.NewNotFoundError(fmt.Sprintf("OS com ID %s não encontrada.", id))
}

// mutate aplica fn à OS dentro do lock e devolve uma cópia do resultado.
func (l *Ledger) mutate(id string, fn func(o *domain.Order) error) (domain.Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	o, err := l.find(id)
	if err != nil {
		return domain.Order{}, err
	}
	if err := fn(o); err != nil {
		return domain.Order{}, err
	}
	return o.Clone(), nil
}

// CreateOrder abre uma nova OS com todos os serviços do catálogo desmarcados.
func (l *Ledger) CreateOrder(plate, customerName, phone string) (domain.Order, error) {
	order, err := domain.NewOrder(uuid.New().String(), plate, customerName, phone, l.catalog.ServiceTypes(), l.now())
	if err != nil {
		l.logger.Warn("Falha na validação da nova OS.", map[string]interface{}{"plate": plate, "error": err.Error()})
		return domain.Order{}, err
	}

	l.mu.Lock()
	l.orders = append(l.orders, order)
	created := order.Clone()
	l.mu.Unlock()

	l.logger.Info("OS criada.", map[string]interface{}{"order_id": created.ID, "plate": created.Plate})
	return created, nil
}

// UpdateOrder aplica a edição em lote. Ou tudo é aplicado, ou nada muda.
// Peças novas ou com quantidade maior passam pela mesma checagem de estoque do AddProduct.
func (l *Ledger) UpdateOrder(id string, update domain.OrderUpdate) (domain.Order, error) {
	return l.mutate(id, func(o *domain.Order) error {
		draft := o.Clone()
		if err := draft.UpdateContact(update.Plate, update.CustomerName, update.Phone); err != nil {
			return err
		}
		if update.Services != nil {
			if err := draft.ReplaceServices(*update.Services); err != nil {
				return err
			}
		}
		if update.Products != nil {
			before := make(map[string]int, len(o.Products))
			for _, p := range o.Products {
				before[p.ProductID] = p.Quantity
			}
			if err := draft.ReplaceProducts(*update.Products); err != nil {
				return err
			}
			if err := l.checkAddedStock(draft.Products, before); err != nil {
				return err
			}
		}
		draft.Recalculate()
		*o = draft
		return nil
	})
}

func insufficientStock(product domain.Product, requested int) error {
	return apperror.NewValidationError(fmt.Sprintf("Estoque insuficiente para %s: disponível %d, solicitado %d.", product.Name, product.Stock, requested))
}

// checkAddedStock confere no catálogo só o que a edição em lote acrescenta: linhas novas
// ou com quantidade maior que a atual. Itens avulsos ficam de fora.
func (l *Ledger) checkAddedStock(lines []domain.ProductLine, before map[string]int) error {
	for _, p := range lines {
		added := p.Quantity - before[p.ProductID]
		if p.IsLoose() || added <= 0 {
			continue
		}
		product, err := l.catalog.GetProduct(p.ProductID)
		if err != nil {
			return err
		}
		if added > product.Stock {
			return insufficientStock(product, added)
		}
	}
	return nil
}

// ToggleService marca ou desmarca um serviço da OS.
func (l *Ledger) ToggleService(orderID, lineID string) (domain.Order, error) {
	return l.mutate(orderID, func(o *domain.Order) error {
		return o.ToggleService(lineID)
	})
}

// SetServicePrice altera o preço de um serviço apenas nesta OS.
func (l *Ledger) SetServicePrice(orderID, lineID string, price decimal.Decimal) (domain.Order, error) {
	return l.mutate(orderID, func(o *domain.Order) error {
		return o.SetServicePrice(lineID, price)
	})
}

// AddProduct lança uma peça do catálogo na OS, guardando nome e preço atuais.
// A quantidade pedida não pode passar do estoque no momento do lançamento.
func (l *Ledger) AddProduct(orderID, productID string, quantity int) (domain.Order, error) {
	return l.mutate(orderID, func(o *domain.Order) error {
		if err := o.EnsureEditable(); err != nil {
			return err
		}
		if quantity <= 0 {
			return apperror.NewValidationError("A quantidade deve ser maior que zero.")
		}
		product, err := l.catalog.GetProduct(productID)
		if err != nil {
			return err
		}
		if quantity > product.Stock {
			return insufficientStock(product, quantity)
		}
		return o.AddProductLine(product.ID, product.Name, quantity, product.UnitPrice)
	})
}

// AddProductByCode lança uma peça a partir de um código lido no balcão.
// Itens avulsos (sem produto no catálogo) não passam pela checagem de estoque e
// ganham um ID próprio (avulso-<código>), separado dos IDs do catálogo.
func (l *Ledger) AddProductByCode(orderID, code string, quantity int) (domain.Order, error) {
	return l.mutate(orderID, func(o *domain.Order) error {
		if err := o.EnsureEditable(); err != nil {
			return err
		}
		if quantity <= 0 {
			return apperror.NewValidationError("A quantidade deve ser maior que zero.")
		}
		quote, err := l.catalog.Lookup(code)
		if err != nil {
			return err
		}
		if quote.ProductID == "" {
			l.logger.Debug("Código sem produto no catálogo, lançando item avulso.", map[string]interface{}{"order_id": orderID, "code": quote.Code})
			return o.AddProductLine(domain.LooseProductID(quote.Code), quote.Name, quantity, quote.UnitPrice)
		}

		product, err := l.catalog.GetProduct(quote.ProductID)
		if err != nil {
			return err
		}
		if quantity > product.Stock {
			return insufficientStock(product, quantity)
		}
		return o.AddProductLine(product.ID, quote.Name, quantity, quote.UnitPrice)
	})
}

// RemoveProduct tira a peça da OS. Remover uma peça ausente não é erro.
func (l *Ledger) RemoveProduct(orderID, productID string) (domain.Order, error) {
	return l.mutate(orderID, func(o *domain.Order) error {
		return o.RemoveProductLine(productID)
	})
}

// StartOrder move a OS de open para in-progress.
func (l *Ledger) StartOrder(id string) (domain.Order, error) {
	return l.AdvanceOrder(id, domain.StatusInProgress)
}

// AdvanceOrder move a OS para o status informado. A finalização tem efeitos
// colaterais (estoque, vendas, evento) e por isso sempre passa por FinalizeOrder.
func (l *Ledger) AdvanceOrder(id string, target domain.OrderStatus) (domain.Order, error) {
	if target == domain.StatusFinalized {
		return l.FinalizeOrder(context.Background(), id)
	}
	order, err := l.mutate(id, func(o *domain.Order) error {
		return o.Advance(target, l.policy, l.now())
	})
	if err != nil {
		return domain.Order{}, err
	}
	l.logger.Info("Status da OS alterado.", map[string]interface{}{"order_id": id, "status": string(order.Status)})
	return order, nil
}

// FinalizeOrder fecha a OS: dá baixa no estoque, acumula as vendas e congela a ordem.
// A transição é validada antes de qualquer efeito; uma segunda finalização falha sem alterar nada.
// Falha na publicação do evento é apenas registrada em log.
func (l *Ledger) FinalizeOrder(ctx context.Context, id string) (domain.Order, error) {
	l.mu.Lock()
	o, err := l.find(id)
	if err != nil {
		l.mu.Unlock()
		return domain.Order{}, err
	}
	if err := o.CheckAdvance(domain.StatusFinalized, l.policy); err != nil {
		l.mu.Unlock()
		l.logger.Warn("Finalização recusada.", map[string]interface{}{"order_id": id, "status": string(o.Status)})
		return domain.Order{}, err
	}

	for _, p := range o.Products {
		if p.IsLoose() {
			continue
		}
		l.catalog.DecrementStock(p.ProductID, p.Quantity)
	}
	for _, s := range o.SelectedServices() {
		l.serviceSales = upsertSales(l.serviceSales, s.Name, 1, s.UnitPrice)
	}
	for _, p := range o.Products {
		l.productSales = upsertSales(l.productSales, p.Name, p.Quantity, p.Subtotal())
	}
	if err := o.Advance(domain.StatusFinalized, l.policy, l.now()); err != nil {
		// CheckAdvance acabou de aprovar a mesma transição sob o mesmo lock.
		l.mu.Unlock()
		return domain.Order{}, apperror.NewInternalError("Falha ao finalizar OS.", err)
	}
	finalized := o.Clone()
	l.mu.Unlock()

	l.logger.Info("OS finalizada.", map[string]interface{}{"order_id": id, "grand_total": finalized.GrandTotal.StringFixed(2)})

	if l.publisher != nil {
		if err := l.publisher.PublishOrderFinalized(ctx, finalized); err != nil {
			l.logger.Error(fmt.Sprintf("Falha ao publicar evento da OS %s.", id), err)
		}
	}
	return finalized, nil
}

func upsertSales(entries []domain.SalesEntry, name string, quantity int, total decimal.Decimal) []domain.SalesEntry {
	for i := range entries {
		if entries[i].Name == name {
			entries[i].Quantity += quantity
			entries[i].Total = entries[i].Total.Add(total)
			return entries
		}
	}
	return append(entries, domain.SalesEntry{Name: name, Quantity: quantity, Total: total})
}

// FindByPlate busca por trecho da placa, sem diferenciar maiúsculas. Consulta vazia devolve todas.
func (l *Ledger) FindByPlate(query string) []domain.Order {
	query = domain.NormalizePlate(query)

	l.mu.Lock()
	defer l.mu.Unlock()

	found := []domain.Order{}
	for _, o := range l.orders {
		if query == "" || strings.Contains(o.Plate, query) {
			found = append(found, o.Clone())
		}
	}
	return found
}

// FindByID busca a OS pelo ID.
func (l *Ledger) FindByID(id string) (domain.Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	o, err := l.find(id)
	if err != nil {
		return domain.Order{}, err
	}
	return o.Clone(), nil
}

// ListOrders devolve todas as ordens na ordem de criação.
func (l *Ledger) ListOrders() []domain.Order {
	return l.FindByPlate("")
}

// ServiceSales devolve o acumulado de vendas por serviço.
func (l *Ledger) ServiceSales() []domain.SalesEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.SalesEntry{}, l.serviceSales...)
}

// ProductSales devolve o acumulado de vendas por produto.
func (l *Ledger) ProductSales() []domain.SalesEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.SalesEntry{}, l.productSales...)
}

// Summary calcula os números do painel. Faturamento considera apenas OS finalizadas;
// "em aberto" conta open e in-progress.
func (l *Ledger) Summary() domain.SalesSummary {
	l.mu.Lock()
	defer l.mu.Unlock()

	summary := domain.SalesSummary{
		TotalRevenue:    decimal.Zero,
		ServicesRevenue: decimal.Zero,
		ProductsRevenue: decimal.Zero,
	}
	for _, o := range l.orders {
		if !o.IsFinalized() {
			summary.OpenOrders++
			continue
		}
		summary.FinalizedOrders++
		summary.TotalRevenue = summary.TotalRevenue.Add(o.GrandTotal)
		summary.ServicesRevenue = summary.ServicesRevenue.Add(o.TotalServices)
		summary.ProductsRevenue = summary.ProductsRevenue.Add(o.TotalProducts)
	}
	return summary
}
