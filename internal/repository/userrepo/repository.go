package userrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"gooficina/internal/domain"
	apperror "gooficina/internal/errors"
	"gooficina/internal/pkg/database"
	"gooficina/internal/pkg/logger"
)

const (
	insertUserSQL = `INSERT INTO users (id, company_id, email, password_hash, role, created_at, updated_at)
                     VALUES ($1, $2, $3, $4, $5, $6, $7)`

	findUserByEmailSQL = `SELECT id, company_id, email, password_hash, role, created_at, updated_at
                          FROM users WHERE email = $1`

	countUsersByCompanySQL = `SELECT COUNT(*) FROM users WHERE company_id = $1`
)

// UserRepository implementa a interface domain.UserRepository sobre o PostgreSQL.
type UserRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewUserRepository cria uma nova instância do UserRepository, injetando o DB.
func NewUserRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *UserRepository {
	return &UserRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// Save insere um novo usuário. E-mail repetido vira ConflictError.
func (r *UserRepository) Save(ctx context.Context, user domain.User) (domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	user.ID = uuid.NewString()
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt

	_, err := r.DB.ExecContext(ctxTimeout, insertUserSQL,
		user.ID,
		user.CompanyID,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err, "") {
			r.logger.Debug("E-mail já cadastrado.", map[string]interface{}{"email": user.Email})
			return domain.User{}, apperror.NewConflictError(fmt.Sprintf("O email '%s' já está em uso.", user.Email))
		}
		r.logger.Error("Falha ao inserir usuário no DB.", err)
		return domain.User{}, apperror.NewDBError("Falha ao salvar usuário", err)
	}

	r.logger.Info("Usuário salvo.", map[string]interface{}{"user_id": user.ID, "company_id": user.CompanyID})
	return user, nil
}

// FindByEmail busca um usuário pelo endereço de e-mail.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	email = strings.ToLower(strings.TrimSpace(email))

	var user domain.User
	err := r.DB.QueryRowContext(ctxTimeout, findUserByEmailSQL, email).Scan(
		&user.ID,
		&user.CompanyID,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, apperror.NewNotFoundError(fmt.Sprintf("Usuário com email '%s' não encontrado", email))
		}
		r.logger.Error("Falha ao buscar usuário por email no DB.", err)
		return domain.User{}, apperror.NewDBError("Falha ao buscar usuário", err)
	}

	return user, nil
}

// CountByCompany conta os usuários já cadastrados na oficina.
func (r *UserRepository) CountByCompany(ctx context.Context, companyID string) (int, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var count int
	if err := r.DB.QueryRowContext(ctxTimeout, countUsersByCompanySQL, companyID).Scan(&count); err != nil {
		r.logger.Error("Falha ao contar usuários da oficina.", err)
		return 0, apperror.NewDBError("Falha ao contar usuários", err)
	}
	return count, nil
}
