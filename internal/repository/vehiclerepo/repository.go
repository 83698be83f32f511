package vehiclerepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gooficina/internal/domain"
	apperror "gooficina/internal/errors"
	"gooficina/internal/pkg/database"
	"gooficina/internal/pkg/logger"
)

// duplicatePlateMsg é a mensagem para placa repetida na mesma empresa.
const duplicatePlateMsg = "Já existe um veículo com esta placa"

const (
	insertVehicleSQL = `INSERT INTO vehicles (id, company_id, customer_id, plate, brand, model, year, color, type, odometer_km, notes, created_at)
                        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	selectVehicleColumns = `SELECT v.id, v.company_id, v.customer_id, v.plate, v.brand, v.model, v.year, v.color,
                                   v.type, v.odometer_km, v.notes, v.deleted_at, v.created_at, COALESCE(c.name, '')
                            FROM vehicles v
                            LEFT JOIN customers c ON c.id = v.customer_id`

	updateVehicleSQL = `UPDATE vehicles
                        SET customer_id = $3, plate = $4, brand = $5, model = $6, year = $7, color = $8,
                            type = $9, odometer_km = $10, notes = $11
                        WHERE company_id = $1 AND id = $2 AND deleted_at IS NULL`

	softDeleteVehicleSQL = `UPDATE vehicles SET deleted_at = $3
                            WHERE company_id = $1 AND id = $2 AND deleted_at IS NULL`
)

// VehicleRepository implementa domain.VehicleRepository sobre PostgreSQL.
type VehicleRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewVehicleRepository cria o repositório de veículos.
func NewVehicleRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *VehicleRepository {
	return &VehicleRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanVehicle(row scanner) (domain.Vehicle, error) {
	var v domain.Vehicle
	var year, odometer sql.NullInt64
	var color, notes sql.NullString
	var deletedAt sql.NullTime

	err := row.Scan(&v.ID, &v.CompanyID, &v.CustomerID, &v.Plate, &v.Brand, &v.Model, &year, &color,
		&v.Type, &odometer, &notes, &deletedAt, &v.CreatedAt, &v.CustomerName)
	if err != nil {
		return domain.Vehicle{}, err
	}

	if year.Valid {
		y := int(year.Int64)
		v.Year = &y
	}
	if odometer.Valid {
		km := int(odometer.Int64)
		v.OdometerKm = &km
	}
	if deletedAt.Valid {
		v.DeletedAt = &deletedAt.Time
	}
	v.Color, v.Notes = color.String, notes.String
	return v, nil
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// translateWriteErr converte a violação da placa única no erro de conflito da oficina.
func (r *VehicleRepository) translateWriteErr(err error, action string) error {
	if database.IsUniqueViolation(err, "") {
		return apperror.NewConflictError(duplicatePlateMsg)
	}
	r.logger.Error(fmt.Sprintf("Falha ao %s veículo no DB.", action), err)
	return apperror.NewDBError(fmt.Sprintf("Falha ao %s veículo", action), err)
}

// Create insere um novo veículo.
func (r *VehicleRepository) Create(ctx context.Context, vehicle domain.Vehicle) (domain.Vehicle, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	vehicle.ID = uuid.NewString()
	vehicle.CreatedAt = time.Now().UTC()
	vehicle.DeletedAt = nil

	_, err := r.DB.ExecContext(ctxTimeout, insertVehicleSQL,
		vehicle.ID,
		vehicle.CompanyID,
		vehicle.CustomerID,
		vehicle.Plate,
		vehicle.Brand,
		vehicle.Model,
		nullInt(vehicle.Year),
		nullIfEmpty(vehicle.Color),
		vehicle.Type,
		nullInt(vehicle.OdometerKm),
		nullIfEmpty(vehicle.Notes),
		vehicle.CreatedAt,
	)
	if err != nil {
		return domain.Vehicle{}, r.translateWriteErr(err, "salvar")
	}

	return vehicle, nil
}

// FindByID busca um veículo ativo da empresa, com o nome do dono.
func (r *VehicleRepository) FindByID(ctx context.Context, companyID, id string) (domain.Vehicle, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := selectVehicleColumns + ` WHERE v.company_id = $1 AND v.id = $2 AND v.deleted_at IS NULL`
	vehicle, err := scanVehicle(r.DB.QueryRowContext(ctxTimeout, query, companyID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Vehicle{}, apperror.NewNotFoundError(fmt.Sprintf("Veículo com ID %s não encontrado.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar veículo no DB.", err)
		return domain.Vehicle{}, apperror.NewDBError("Falha ao buscar veículo", err)
	}
	return vehicle, nil
}

// List busca veículos ativos por placa, marca ou modelo (ILIKE), opcionalmente
// de um único cliente, do mais novo para o mais antigo.
func (r *VehicleRepository) List(ctx context.Context, filter domain.ListFilter) ([]domain.Vehicle, int, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	where := ` WHERE v.company_id = $1 AND v.deleted_at IS NULL`
	args := []any{filter.CompanyID}
	if filter.CustomerID != "" {
		args = append(args, filter.CustomerID)
		where += fmt.Sprintf(` AND v.customer_id = $%d`, len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		where += fmt.Sprintf(` AND (v.plate ILIKE $%d OR v.brand ILIKE $%d OR v.model ILIKE $%d)`, n, n, n)
	}

	var total int
	if err := r.DB.QueryRowContext(ctxTimeout, `SELECT COUNT(*) FROM vehicles v`+where, args...).Scan(&total); err != nil {
		r.logger.Error("Falha ao contar veículos no DB.", err)
		return nil, 0, apperror.NewDBError("Falha ao listar veículos", err)
	}

	query := fmt.Sprintf(`%s%s ORDER BY v.created_at DESC LIMIT %d OFFSET %d`, selectVehicleColumns, where, domain.PageSize, filter.Offset())
	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error("Falha ao listar veículos no DB.", err)
		return nil, 0, apperror.NewDBError("Falha ao listar veículos", err)
	}
	defer rows.Close()

	vehicles := []domain.Vehicle{}
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, 0, apperror.NewDBError("Falha ao ler veículo", err)
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperror.NewDBError("Falha ao listar veículos", err)
	}

	return vehicles, total, nil
}

// Update grava os dados editáveis do veículo.
func (r *VehicleRepository) Update(ctx context.Context, vehicle domain.Vehicle) (domain.Vehicle, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	res, err := r.DB.ExecContext(ctxTimeout, updateVehicleSQL,
		vehicle.CompanyID,
		vehicle.ID,
		vehicle.CustomerID,
		vehicle.Plate,
		vehicle.Brand,
		vehicle.Model,
		nullInt(vehicle.Year),
		nullIfEmpty(vehicle.Color),
		vehicle.Type,
		nullInt(vehicle.OdometerKm),
		nullIfEmpty(vehicle.Notes),
	)
	if err != nil {
		return domain.Vehicle{}, r.translateWriteErr(err, "atualizar")
	}
	if err := expectOneRow(res, vehicle.ID); err != nil {
		return domain.Vehicle{}, err
	}
	return vehicle, nil
}

// SoftDelete preenche deleted_at; o veículo some das buscas e libera a placa.
func (r *VehicleRepository) SoftDelete(ctx context.Context, companyID, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	res, err := r.DB.ExecContext(ctxTimeout, softDeleteVehicleSQL, companyID, id, time.Now().UTC())
	if err != nil {
		r.logger.Error("Falha ao excluir veículo no DB.", err)
		return apperror.NewDBError("Falha ao excluir veículo", err)
	}
	return expectOneRow(res, id)
}

func expectOneRow(res sql.Result, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return apperror.NewDBError("Falha ao confirmar alteração do veículo", err)
	}
	if affected == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Veículo com ID %s não encontrado.", id))
	}
	return nil
}
