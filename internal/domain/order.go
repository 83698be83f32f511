package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperror "gooficina/internal/errors"
)

// ServiceLine é um serviço copiado do catálogo para dentro da OS.
// O preço pertence à OS: editar aqui não altera o catálogo nem outras ordens.
type ServiceLine struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Selected  bool            `json:"selected"`
}

// ProductLine é um retrato (nome, quantidade, preço) de um produto do catálogo.
type ProductLine struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Subtotal é quantidade × preço unitário.
func (l ProductLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// LooseProductPrefix marca as linhas de itens avulsos (código lido sem produto no catálogo).
const LooseProductPrefix = "avulso-"

// LooseProductID é o ID da linha de um item avulso. Nunca coincide com um ID do catálogo.
func LooseProductID(code string) string {
	return LooseProductPrefix + code
}

// IsLoose informa se a linha é de item avulso: não tem estoque para checar nem baixar.
func (l ProductLine) IsLoose() bool {
	return strings.HasPrefix(l.ProductID, LooseProductPrefix)
}

// Order é a ordem de serviço (raiz do agregado).
//
// Invariantes:
//   - TotalServices = soma dos preços das ServiceLines selecionadas
//   - TotalProducts = soma de quantidade × preço das ProductLines
//   - GrandTotal = TotalServices + TotalProducts, recalculado a cada mutação
//   - uma OS finalizada não aceita mais nenhuma alteração
type Order struct {
	ID            string          `json:"id"`
	Plate         string          `json:"plate"`
	CustomerName  string          `json:"customer_name"`
	Phone         string          `json:"phone"`
	Services      []ServiceLine   `json:"services"`
	Products      []ProductLine   `json:"products"`
	TotalServices decimal.Decimal `json:"total_services"`
	TotalProducts decimal.Decimal `json:"total_products"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
	Status        OrderStatus     `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	FinalizedAt   *time.Time      `json:"finalized_at,omitempty"`
}

// OrderUpdate é a edição em lote de uma OS. Campos nil não mudam.
type OrderUpdate struct {
	Plate        *string        `json:"plate,omitempty"`
	CustomerName *string        `json:"customer_name,omitempty"`
	Phone        *string        `json:"phone,omitempty"`
	Services     *[]ServiceLine `json:"services,omitempty"`
	Products     *[]ProductLine `json:"products,omitempty"`
}

// NormalizePlate remove espaços nas pontas e passa a placa para maiúsculas.
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.TrimSpace(plate))
}

// ServiceLineID é o identificador da linha de serviço gerada a partir da posição no catálogo.
func ServiceLineID(index int) string {
	return fmt.Sprintf("servico-%d", index)
}

// NewOrder cria uma OS aberta com todos os serviços do catálogo desmarcados
// e nenhuma peça.
func NewOrder(id, plate, customerName, phone string, services []ServiceType, now time.Time) (*Order, error) {
	plate = NormalizePlate(plate)
	customerName = strings.TrimSpace(customerName)
	if plate == "" {
		return nil, apperror.NewValidationError("A placa do veículo é obrigatória.")
	}
	if customerName == "" {
		return nil, apperror.NewValidationError("O nome do cliente é obrigatório.")
	}

	lines := make([]ServiceLine, len(services))
	for i, s := range services {
		lines[i] = ServiceLine{
			ID:        ServiceLineID(i),
			Name:      s.Name,
			UnitPrice: s.DefaultPrice,
		}
	}

	o := &Order{
		ID:           id,
		Plate:        plate,
		CustomerName: customerName,
		Phone:        strings.TrimSpace(phone),
		Services:     lines,
		Products:     []ProductLine{},
		Status:       StatusOpen,
		CreatedAt:    now,
	}
	o.Recalculate()
	return o, nil
}

// Recalculate deriva os totais das listas atuais. É pura e idempotente.
func (o *Order) Recalculate() {
	services := decimal.Zero
	for _, s := range o.Services {
		if s.Selected {
			services = services.Add(s.UnitPrice)
		}
	}
	products := decimal.Zero
	for _, p := range o.Products {
		products = products.Add(p.Subtotal())
	}
	o.TotalServices = services
	o.TotalProducts = products
	o.GrandTotal = services.Add(products)
}

// IsFinalized informa se a OS já está no estado terminal.
func (o *Order) IsFinalized() bool {
	return o.Status == StatusFinalized
}

// EnsureEditable devolve IllegalStateError se a OS já foi finalizada.
func (o *Order) EnsureEditable() error {
	if o.IsFinalized() {
		return apperror.NewIllegalStateError(fmt.Sprintf("A OS %s já foi finalizada e não pode ser alterada.", o.ID))
	}
	return nil
}

func (o *Order) serviceIndex(lineID string) (int, error) {
	for i := range o.Services {
		if o.Services[i].ID == lineID {
			return i, nil
		}
	}
	return -1, apperror.NewNotFoundError(fmt.Sprintf("Serviço %s não existe na OS %s.", lineID, o.ID))
}

// ToggleService marca ou desmarca um serviço.
func (o *Order) ToggleService(lineID string) error {
	if err := o.EnsureEditable(); err != nil {
		return err
	}
	i, err := o.serviceIndex(lineID)
	if err != nil {
		return err
	}
	o.Services[i].Selected = !o.Services[i].Selected
	o.Recalculate()
	return nil
}

// SetServicePrice sobrescreve o preço de uma linha de serviço desta OS.
func (o *Order) SetServicePrice(lineID string, price decimal.Decimal) error {
	if err := o.EnsureEditable(); err != nil {
		return err
	}
	if price.IsNegative() {
		return apperror.NewValidationError("O preço do serviço não pode ser negativo.")
	}
	i, err := o.serviceIndex(lineID)
	if err != nil {
		return err
	}
	o.Services[i].UnitPrice = price
	o.Recalculate()
	return nil
}

// AddProductLine soma a quantidade à linha existente do mesmo produto ou cria uma nova.
// O preço e o nome da primeira inclusão são mantidos na fusão.
func (o *Order) AddProductLine(productID, name string, quantity int, unitPrice decimal.Decimal) error {
	if err := o.EnsureEditable(); err != nil {
		return err
	}
	if quantity <= 0 {
		return apperror.NewValidationError("A quantidade deve ser maior que zero.")
	}
	if unitPrice.IsNegative() {
		return apperror.NewValidationError("O preço unitário não pode ser negativo.")
	}

	for i := range o.Products {
		if o.Products[i].ProductID == productID {
			o.Products[i].Quantity += quantity
			o.Recalculate()
			return nil
		}
	}
	o.Products = append(o.Products, ProductLine{
		ProductID: productID,
		Name:      name,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	})
	o.Recalculate()
	return nil
}

// ProductQuantity devolve a quantidade já lançada de um produto (0 se ausente).
func (o *Order) ProductQuantity(productID string) int {
	for _, p := range o.Products {
		if p.ProductID == productID {
			return p.Quantity
		}
	}
	return 0
}

// RemoveProductLine apaga a linha do produto, se existir.
func (o *Order) RemoveProductLine(productID string) error {
	if err := o.EnsureEditable(); err != nil {
		return err
	}
	kept := o.Products[:0]
	for _, p := range o.Products {
		if p.ProductID != productID {
			kept = append(kept, p)
		}
	}
	o.Products = kept
	o.Recalculate()
	return nil
}

// UpdateContact altera placa, cliente e telefone. Campos nil não mudam.
func (o *Order) UpdateContact(plate, customerName, phone *string) error {
	if err := o.EnsureEditable(); err != nil {
		return err
	}
	newPlate, newCustomer, newPhone := o.Plate, o.CustomerName, o.Phone
	if plate != nil {
		newPlate = NormalizePlate(*plate)
		if newPlate == "" {
			return apperror.NewValidationError("A placa do veículo é obrigatória.")
		}
	}
	if customerName != nil {
		newCustomer = strings.TrimSpace(*customerName)
		if newCustomer == "" {
			return apperror.NewValidationError("O nome do cliente é obrigatório.")
		}
	}
	if phone != nil {
		newPhone = strings.TrimSpace(*phone)
	}
	o.Plate, o.CustomerName, o.Phone = newPlate, newCustomer, newPhone
	return nil
}

// ReplaceServices troca a lista de serviços inteira (edição em lote pela tela da OS).
func (o *Order) ReplaceServices(services []ServiceLine) error {
	if err := o.EnsureEditable(); err != nil {
		return err
	}
	seen := make(map[string]bool, len(services))
	for _, s := range services {
		if s.ID == "" || strings.TrimSpace(s.Name) == "" {
			return apperror.NewValidationError("Cada serviço requer ID e nome.")
		}
		if seen[s.ID] {
			return apperror.NewValidationError(fmt.Sprintf("Serviço %s repetido.", s.ID))
		}
		seen[s.ID] = true
		if s.UnitPrice.IsNegative() {
			return apperror.NewValidationError("O preço do serviço não pode ser negativo.")
		}
	}
	o.Services = append([]ServiceLine{}, services...)
	o.Recalculate()
	return nil
}

// ReplaceProducts troca a lista de peças inteira. Linhas com o mesmo produto são fundidas.
func (o *Order) ReplaceProducts(products []ProductLine) error {
	if err := o.EnsureEditable(); err != nil {
		return err
	}
	merged := make([]ProductLine, 0, len(products))
	index := make(map[string]int, len(products))
	for _, p := range products {
		if p.ProductID == "" {
			return apperror.NewValidationError("Cada peça requer o ID do produto.")
		}
		if p.Quantity <= 0 {
			return apperror.NewValidationError("A quantidade deve ser maior que zero.")
		}
		if p.UnitPrice.IsNegative() {
			return apperror.NewValidationError("O preço unitário não pode ser negativo.")
		}
		if i, ok := index[p.ProductID]; ok {
			merged[i].Quantity += p.Quantity
			continue
		}
		index[p.ProductID] = len(merged)
		merged = append(merged, p)
	}
	o.Products = merged
	o.Recalculate()
	return nil
}

// CheckAdvance valida a transição sem alterar a OS.
func (o *Order) CheckAdvance(target OrderStatus, policy TransitionPolicy) error {
	if !target.IsValid() {
		return apperror.NewValidationError(fmt.Sprintf("Status desconhecido: %q.", target))
	}
	if !policy.CanTransition(o.Status, target) {
		return apperror.NewIllegalStateError(fmt.Sprintf("Transição de %s para %s não permitida para a OS %s.", o.Status, target, o.ID))
	}
	return nil
}

// Advance move a OS para o status alvo. Ao finalizar, registra a data de finalização.
func (o *Order) Advance(target OrderStatus, policy TransitionPolicy, now time.Time) error {
	if err := o.CheckAdvance(target, policy); err != nil {
		return err
	}
	o.Status = target
	if target == StatusFinalized {
		o.FinalizedAt = &now
	}
	return nil
}

// SelectedServices devolve apenas os serviços marcados.
func (o *Order) SelectedServices() []ServiceLine {
	var selected []ServiceLine
	for _, s := range o.Services {
		if s.Selected {
			selected = append(selected, s)
		}
	}
	return selected
}

// Clone devolve uma cópia profunda, segura para entregar fora do ledger.
func (o *Order) Clone() Order {
	c := *o
	c.Services = append([]ServiceLine{}, o.Services...)
	c.Products = append([]ProductLine{}, o.Products...)
	if o.FinalizedAt != nil {
		t := *o.FinalizedAt
		c.FinalizedAt = &t
	}
	return c
}
