package domain

// OrderStatus é o status de uma ordem de serviço (OS).
type OrderStatus string

const (
	StatusOpen       OrderStatus = "open"
	StatusInProgress OrderStatus = "in-progress"
	StatusFinalized  OrderStatus = "finalized"
)

// IsValid informa se o status é um dos três conhecidos.
func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusFinalized:
		return true
	}
	return false
}

// TransitionPolicy decide quais transições de status são permitidas.
// As transições são sempre para frente; finalized é terminal.
type TransitionPolicy struct {
	// AllowDirectFinalize permite open -> finalized sem passar por in-progress.
	AllowDirectFinalize bool
}

// StrictTransitions é a política padrão: open -> in-progress -> finalized.
var StrictTransitions = TransitionPolicy{}

// CanTransition informa se from -> to é permitido pela política.
func (p TransitionPolicy) CanTransition(from, to OrderStatus) bool {
	switch from {
	case StatusOpen:
		return to == StatusInProgress || (to == StatusFinalized && p.AllowDirectFinalize)
	case StatusInProgress:
		return to == StatusFinalized
	}
	return false
}
