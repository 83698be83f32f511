package customerrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gooficina/internal/domain"
	apperror "gooficina/internal/errors"
	"gooficina/internal/pkg/cache"
	"gooficina/internal/pkg/logger"
)

// customerCacheKey é a chave de cache de um cliente: customer:<company>:<id>.
const customerCacheKey = "customer:%s:%s"

const (
	insertCustomerSQL = `INSERT INTO customers (id, company_id, name, phone, email, document, notes, is_deleted, created_at, updated_at)
                         VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, $8, $9)`

	selectCustomerColumns = `SELECT id, company_id, name, phone, email, document, notes, is_deleted, created_at, updated_at
                             FROM customers`

	updateCustomerSQL = `UPDATE customers
                         SET name = $3, phone = $4, email = $5, document = $6, notes = $7, updated_at = $8
                         WHERE company_id = $1 AND id = $2 AND is_deleted = FALSE`

	softDeleteCustomerSQL = `UPDATE customers SET is_deleted = TRUE, updated_at = $3
                             WHERE company_id = $1 AND id = $2 AND is_deleted = FALSE`
)

// CustomerRepository implementa domain.CustomerRepository sobre PostgreSQL,
// com cache-aside no Redis para a busca por ID.
type CustomerRepository struct {
	DB        *sql.DB
	Cache     cache.Client
	DBTimeout time.Duration
	CacheTTL  time.Duration
	logger    logger.Logger
}

// NewCustomerRepository cria o repositório. cacheClient pode ser nil (sem cache).
func NewCustomerRepository(db *sql.DB, cacheClient cache.Client, dbTimeout, cacheTTL time.Duration, logger logger.Logger) *CustomerRepository {
	return &CustomerRepository{
		DB:        db,
		Cache:     cacheClient,
		DBTimeout: dbTimeout,
		CacheTTL:  cacheTTL,
		logger:    logger,
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCustomer(row scanner) (domain.Customer, error) {
	var c domain.Customer
	var phone, email, document, notes sql.NullString
	err := row.Scan(&c.ID, &c.CompanyID, &c.Name, &phone, &email, &document, &notes, &c.IsDeleted, &c.CreatedAt, &c.UpdatedAt)
	c.Phone, c.Email, c.Document, c.Notes = phone.String, email.String, document.String, notes.String
	return c, err
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Create insere um novo cliente.
func (r *CustomerRepository) Create(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	customer.ID = uuid.NewString()
	customer.CreatedAt = time.Now().UTC()
	customer.UpdatedAt = customer.CreatedAt
	customer.IsDeleted = false

	_, err := r.DB.ExecContext(ctxTimeout, insertCustomerSQL,
		customer.ID,
		customer.CompanyID,
		customer.Name,
		nullIfEmpty(customer.Phone),
		nullIfEmpty(customer.Email),
		nullIfEmpty(customer.Document),
		nullIfEmpty(customer.Notes),
		customer.CreatedAt,
		customer.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Falha ao inserir cliente no DB.", err)
		return domain.Customer{}, apperror.NewDBError("Falha ao salvar cliente", err)
	}

	return customer, nil
}

// FindByID busca um cliente ativo da empresa, usando a estratégia cache-aside.
func (r *CustomerRepository) FindByID(ctx context.Context, companyID, id string) (domain.Customer, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	key := fmt.Sprintf(customerCacheKey, companyID, id)

	if r.Cache != nil {
		cached, err := r.Cache.Get(ctxTimeout, key)
		if err == nil {
			var customer domain.Customer
			if json.Unmarshal([]byte(cached), &customer) == nil {
				return customer, nil
			}
			r.logger.Warn("Cliente inválido no cache, buscando no DB.", map[string]interface{}{"key": key})
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			// Cache fora do ar não impede a leitura.
			r.logger.Warn("Falha ao ler cliente do cache.", map[string]interface{}{"key": key, "error": err.Error()})
		}
	}

	query := selectCustomerColumns + ` WHERE company_id = $1 AND id = $2 AND is_deleted = FALSE`
	customer, err := scanCustomer(r.DB.QueryRowContext(ctxTimeout, query, companyID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Customer{}, apperror.NewNotFoundError(fmt.Sprintf("Cliente com ID %s não encontrado.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar cliente no DB.", err)
		return domain.Customer{}, apperror.NewDBError("Falha ao buscar cliente", err)
	}

	if r.Cache != nil {
		if data, marshalErr := json.Marshal(customer); marshalErr == nil {
			if setErr := r.Cache.Set(ctxTimeout, key, data, r.CacheTTL); setErr != nil {
				r.logger.Warn("Falha ao gravar cliente no cache.", map[string]interface{}{"key": key, "error": setErr.Error()})
			}
		}
	}

	return customer, nil
}

// List busca clientes ativos por nome, telefone ou documento (ILIKE), do mais novo
// para o mais antigo, e devolve também o total para a paginação.
func (r *CustomerRepository) List(ctx context.Context, filter domain.ListFilter) ([]domain.Customer, int, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	where := ` WHERE company_id = $1 AND is_deleted = FALSE`
	args := []any{filter.CompanyID}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where += ` AND (name ILIKE $2 OR phone ILIKE $2 OR document ILIKE $2)`
	}

	var total int
	if err := r.DB.QueryRowContext(ctxTimeout, `SELECT COUNT(*) FROM customers`+where, args...).Scan(&total); err != nil {
		r.logger.Error("Falha ao contar clientes no DB.", err)
		return nil, 0, apperror.NewDBError("Falha ao listar clientes", err)
	}

	query := fmt.Sprintf(`%s%s ORDER BY created_at DESC LIMIT %d OFFSET %d`, selectCustomerColumns, where, domain.PageSize, filter.Offset())
	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error("Falha ao listar clientes no DB.", err)
		return nil, 0, apperror.NewDBError("Falha ao listar clientes", err)
	}
	defer rows.Close()

	customers := []domain.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, apperror.NewDBError("Falha ao ler cliente", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperror.NewDBError("Falha ao listar clientes", err)
	}

	return customers, total, nil
}

// Update grava os dados editáveis do cliente e invalida o cache.
func (r *CustomerRepository) Update(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	customer.UpdatedAt = time.Now().UTC()
	res, err := r.DB.ExecContext(ctxTimeout, updateCustomerSQL,
		customer.CompanyID,
		customer.ID,
		customer.Name,
		nullIfEmpty(customer.Phone),
		nullIfEmpty(customer.Email),
		nullIfEmpty(customer.Document),
		nullIfEmpty(customer.Notes),
		customer.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Falha ao atualizar cliente no DB.", err)
		return domain.Customer{}, apperror.NewDBError("Falha ao atualizar cliente", err)
	}
	if err := r.expectOneRow(res, customer.ID); err != nil {
		return domain.Customer{}, err
	}

	r.invalidate(ctxTimeout, customer.CompanyID, customer.ID)
	return customer, nil
}

// SoftDelete marca o cliente como excluído (is_deleted) e invalida o cache.
func (r *CustomerRepository) SoftDelete(ctx context.Context, companyID, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	res, err := r.DB.ExecContext(ctxTimeout, softDeleteCustomerSQL, companyID, id, time.Now().UTC())
	if err != nil {
		r.logger.Error("Falha ao excluir cliente no DB.", err)
		return apperror.NewDBError("Falha ao excluir cliente", err)
	}
	if err := r.expectOneRow(res, id); err != nil {
		return err
	}

	r.invalidate(ctxTimeout, companyID, id)
	return nil
}

func (r *CustomerRepository) expectOneRow(res sql.Result, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return apperror.NewDBError("Falha ao confirmar alteração do cliente", err)
	}
	if affected == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Cliente com ID %s não encontrado.", id))
	}
	return nil
}

func (r *CustomerRepository) invalidate(ctx context.Context, companyID, id string) {
	if r.Cache == nil {
		return
	}
	key := fmt.Sprintf(customerCacheKey, companyID, id)
	if err := r.Cache.Delete(ctx, key); err != nil {
		r.logger.Warn("Falha ao invalidar cliente no cache.", map[string]interface{}{"key": key, "error": err.Error()})
	}
}
