package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"gooficina/internal/pkg/logger"
)

// uniqueViolation é o SQLSTATE do Postgres para violação de UNIQUE.
const uniqueViolation = "23505"

// NewPostgresDB abre o pool de conexões com o PostgreSQL e confirma com um ping.
func NewPostgresDB(dataSourceName string, log logger.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("falha ao abrir a conexão com o DB: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("falha ao realizar o ping inicial no DB: %w", err)
	}

	// Uma oficina tem poucos usuários simultâneos; o pool é pequeno.
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	log.Info("Pool de conexões PostgreSQL pronto.", map[string]interface{}{"max_open_conns": 10})

	return db, nil
}

// IsUniqueViolation informa se o erro é uma violação de UNIQUE (23505).
// Se constraint não for vazia, a constraint também precisa bater.
func IsUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	if pqErr.Code != uniqueViolation {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}
