package domain

import (
	"context"
	"time"
)

// VehicleType é o tipo de veículo atendido.
type VehicleType string

const (
	VehicleMoto  VehicleType = "moto"
	VehicleCar   VehicleType = "car"
	VehicleTruck VehicleType = "truck"
	VehicleOther VehicleType = "other"
)

// IsValid informa se o tipo é um dos valores aceitos.
func (t VehicleType) IsValid() bool {
	switch t {
	case VehicleMoto, VehicleCar, VehicleTruck, VehicleOther:
		return true
	}
	return false
}

// Vehicle é um veículo de um cliente. A placa é única por empresa entre os veículos ativos;
// a exclusão é lógica (DeletedAt).
type Vehicle struct {
	ID         string      `json:"id"`
	CompanyID  string      `json:"company_id"`
	CustomerID string      `json:"customer_id"`
	Plate      string      `json:"plate"`
	Brand      string      `json:"brand"`
	Model      string      `json:"model"`
	Year       *int        `json:"year,omitempty"`
	Color      string      `json:"color,omitempty"`
	Type       VehicleType `json:"type"`
	OdometerKm *int        `json:"odometer_km,omitempty"`
	Notes      string      `json:"notes,omitempty"`
	DeletedAt  *time.Time  `json:"deleted_at,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`

	CustomerName string `json:"customer_name,omitempty"` // Preenchido nas consultas com join
}

// VehicleInput é o payload de criação/edição de veículo.
type VehicleInput struct {
	CustomerID string      `json:"customer_id"`
	Plate      string      `json:"plate"`
	Brand      string      `json:"brand"`
	Model      string      `json:"model"`
	Year       *int        `json:"year"`
	Color      string      `json:"color"`
	Type       VehicleType `json:"type"`
	OdometerKm *int        `json:"odometer_km"`
	Notes      string      `json:"notes"`
}

// VehicleRepository é o contrato de persistência de veículos.
type VehicleRepository interface {
	Create(ctx context.Context, vehicle Vehicle) (Vehicle, error)
	FindByID(ctx context.Context, companyID, id string) (Vehicle, error)
	List(ctx context.Context, filter ListFilter) ([]Vehicle, int, error)
	Update(ctx context.Context, vehicle Vehicle) (Vehicle, error)
	SoftDelete(ctx context.Context, companyID, id string) error
}
