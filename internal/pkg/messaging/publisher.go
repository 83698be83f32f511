package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/streadway/amqp"

	"gooficina/internal/domain"
	apperror "gooficina/internal/errors"
)

// OrderFinalizedRoutingKey é a chave de roteamento do evento de OS finalizada.
const OrderFinalizedRoutingKey = "oficina.order.finalized"

// Broker é o que o Publisher precisa do cliente AMQP.
type Broker interface {
	Publish(routingKey string, msg amqp.Publishing) error
}

// OrderFinalizedEvent é o corpo JSON publicado quando uma OS é fechada.
type OrderFinalizedEvent struct {
	EventID       string               `json:"event_id"`
	OrderID       string               `json:"order_id"`
	Plate         string               `json:"plate"`
	CustomerName  string               `json:"customer_name"`
	Phone         string               `json:"phone"`
	Services      []domain.ServiceLine `json:"services"`
	Products      []domain.ProductLine `json:"products"`
	TotalServices decimal.Decimal      `json:"total_services"`
	TotalProducts decimal.Decimal      `json:"total_products"`
	GrandTotal    decimal.Decimal      `json:"grand_total"`
	FinalizedAt   time.Time            `json:"finalized_at"`
}

// Publisher publica eventos de domínio da oficina.
type Publisher struct {
	broker Broker
}

// NewPublisher cria o Publisher sobre um Broker (normalmente *RabbitMQClient).
func NewPublisher(broker Broker) *Publisher {
	return &Publisher{broker: broker}
}

// NewOrderFinalizedEvent monta o evento a partir da OS finalizada. Só os serviços marcados entram.
func NewOrderFinalizedEvent(order domain.Order) OrderFinalizedEvent {
	finalizedAt := time.Now().UTC()
	if order.FinalizedAt != nil {
		finalizedAt = *order.FinalizedAt
	}
	return OrderFinalizedEvent{
		EventID:       uuid.New().String(),
		OrderID:       order.ID,
		Plate:         order.Plate,
		CustomerName:  order.CustomerName,
		Phone:         order.Phone,
		Services:      order.SelectedServices(),
		Products:      order.Products,
		TotalServices: order.TotalServices,
		TotalProducts: order.TotalProducts,
		GrandTotal:    order.GrandTotal,
		FinalizedAt:   finalizedAt,
	}
}

// PublishOrderFinalized serializa e publica o evento. Falhas do broker voltam como ExternalServiceError.
func (p *Publisher) PublishOrderFinalized(ctx context.Context, order domain.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	event := NewOrderFinalizedEvent(order)
	body, err := json.Marshal(event)
	if err != nil {
		return apperror.NewInternalError("Falha ao serializar evento de OS finalizada.", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		MessageId:    event.EventID,
		Timestamp:    event.FinalizedAt,
		Headers: amqp.Table{
			"order_id":   order.ID,
			"event_type": "order.finalized",
		},
	}
	if err := p.broker.Publish(OrderFinalizedRoutingKey, msg); err != nil {
		return apperror.NewExternalServiceError(fmt.Sprintf("Falha ao publicar evento da OS %s", order.ID), err)
	}
	return nil
}
