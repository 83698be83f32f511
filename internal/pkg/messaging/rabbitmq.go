package messaging

import (
	"fmt"
	"sync"
	"time"

	"github.com/streadway/amqp"

	"gooficina/internal/pkg/logger"
)

// RabbitMQConfig reúne os parâmetros de conexão com o broker.
type RabbitMQConfig struct {
	URL        string
	Exchange   string
	RetryCount int
	RetryDelay time.Duration
}

// RabbitMQClient mantém uma conexão e um canal com a exchange topic declarada.
type RabbitMQClient struct {
	config     RabbitMQConfig
	connection *amqp.Connection
	channel    *amqp.Channel
	mu         sync.RWMutex
	isClosing  bool
	logger     logger.Logger
}

// NewRabbitMQClient cria o cliente; a conexão só é aberta em Connect.
func NewRabbitMQClient(config RabbitMQConfig, logger logger.Logger) *RabbitMQClient {
	if config.RetryCount < 1 {
		config.RetryCount = 1
	}
	return &RabbitMQClient{config: config, logger: logger}
}

// Connect abre conexão e canal, com retentativas, e declara a exchange durável do tipo topic.
func (r *RabbitMQClient) Connect() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	for i := 0; i < r.config.RetryCount; i++ {
		r.connection, err = amqp.Dial(r.config.URL)
		if err != nil {
			r.logger.Warn("Falha ao conectar no RabbitMQ.", map[string]interface{}{"attempt": i + 1, "max": r.config.RetryCount, "error": err.Error()})
			if i < r.config.RetryCount-1 {
				time.Sleep(r.config.RetryDelay)
			}
			continue
		}

		r.channel, err = r.connection.Channel()
		if err != nil {
			r.connection.Close()
			return fmt.Errorf("falha ao abrir canal no RabbitMQ: %w", err)
		}

		err = r.channel.ExchangeDeclare(
			r.config.Exchange, // name
			"topic",           // type
			true,              // durable
			false,             // auto-deleted
			false,             // internal
			false,             // no-wait
			nil,               // arguments
		)
		if err != nil {
			r.channel.Close()
			r.connection.Close()
			return fmt.Errorf("falha ao declarar exchange %s: %w", r.config.Exchange, err)
		}

		r.logger.Info("Conexão RabbitMQ estabelecida.", map[string]interface{}{"exchange": r.config.Exchange})
		go r.handleReconnection(r.connection)
		return nil
	}

	return fmt.Errorf("falha ao conectar no RabbitMQ após %d tentativas: %w", r.config.RetryCount, err)
}

func (r *RabbitMQClient) handleReconnection(conn *amqp.Connection) {
	notifyClose := conn.NotifyClose(make(chan *amqp.Error, 1))
	closeErr, ok := <-notifyClose
	if !ok || closeErr == nil {
		return
	}

	r.mu.RLock()
	closing := r.isClosing
	r.mu.RUnlock()
	if closing {
		return
	}

	r.logger.Warn("Conexão RabbitMQ perdida. Reconectando...", map[string]interface{}{"error": closeErr.Error()})
	time.Sleep(r.config.RetryDelay)
	if err := r.Connect(); err != nil {
		r.logger.Error("Falha ao reconectar no RabbitMQ.", err)
	}
}

// Publish envia a mensagem para a exchange configurada.
func (r *RabbitMQClient) Publish(routingKey string, msg amqp.Publishing) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.channel == nil || r.isClosing {
		return fmt.Errorf("sem conexão com o RabbitMQ")
	}
	return r.channel.Publish(r.config.Exchange, routingKey, false, false, msg)
}

// Close encerra canal e conexão. Chamadas repetidas são ignoradas.
func (r *RabbitMQClient) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.isClosing {
		return nil
	}
	r.isClosing = true

	var closeErr error
	if r.channel != nil {
		if err := r.channel.Close(); err != nil {
			closeErr = fmt.Errorf("falha ao fechar canal: %w", err)
		}
	}
	if r.connection != nil {
		if err := r.connection.Close(); err != nil && closeErr == nil {
			closeErr = fmt.Errorf("falha ao fechar conexão: %w", err)
		}
	}
	return closeErr
}
