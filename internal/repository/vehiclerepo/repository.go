package vehiclerepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"goentrega/internal/domain"
	apperror "goentrega/internal/errors"
)

// VehicleRepository implementa a persistência da frota.
type VehicleRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
}

// NewVehicleRepository cria e retorna uma nova instância do Repositório de Veículos.
func NewVehicleRepository(db *sql.DB, dbTimeout time.Duration) *VehicleRepository {
	return &VehicleRepository{DB: db, DBTimeout: dbTimeout}
}

// Save persiste um novo Veículo.
func (r *VehicleRepository) Save(ctx context.Context, vehicle domain.Vehicle) (domain.Vehicle, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const insertSQL = `
        INSERT INTO vehicles (id, name, plate_number, rated_capacity_kg, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.DB.ExecContext(ctxTimeout, insertSQL,
		vehicle.ID, vehicle.Name, vehicle.PlateNumber, nullFloat(vehicle.RatedCapacityKg),
		vehicle.CreatedAt, vehicle.UpdatedAt)
	if err != nil {
		return domain.Vehicle{}, apperror.NewDBError("Falha ao inserir veículo", err)
	}

	return vehicle, nil
}

// FindByID busca um veículo pelo ID.
func (r *VehicleRepository) FindByID(ctx context.Context, id string) (domain.Vehicle, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `
        SELECT id, name, plate_number, rated_capacity_kg, created_at, updated_at
        FROM vehicles
        WHERE id = $1`

	var (
		vehicle  domain.Vehicle
		capacity sql.NullFloat64
	)
	err := r.DB.QueryRowContext(ctxTimeout, query, id).Scan(
		&vehicle.ID, &vehicle.Name, &vehicle.PlateNumber, &capacity, &vehicle.CreatedAt, &vehicle.UpdatedAt)
	if err == sql.ErrNoRows {
		return domain.Vehicle{}, apperror.NewNotFoundError(fmt.Sprintf("Veículo %s não encontrado.", id))
	}
	if err != nil {
		return domain.Vehicle{}, apperror.NewDBError("Falha ao buscar veículo no DB", err)
	}
	if capacity.Valid {
		c := capacity.Float64
		vehicle.RatedCapacityKg = &c
	}

	return vehicle, nil
}

// FindAll lista toda a frota.
func (r *VehicleRepository) FindAll(ctx context.Context) ([]domain.Vehicle, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `
        SELECT id, name, plate_number, rated_capacity_kg, created_at, updated_at
        FROM vehicles
        ORDER BY name`

	rows, err := r.DB.QueryContext(ctxTimeout, query)
	if err != nil {
		return nil, apperror.NewDBError("Falha ao listar veículos no DB", err)
	}
	defer rows.Close()

	vehicles := []domain.Vehicle{}
	for rows.Next() {
		var (
			vehicle  domain.Vehicle
			capacity sql.NullFloat64
		)
		if err := rows.Scan(&vehicle.ID, &vehicle.Name, &vehicle.PlateNumber, &capacity, &vehicle.CreatedAt, &vehicle.UpdatedAt); err != nil {
			return nil, apperror.NewDBError("Falha ao ler linha de veículo", err)
		}
		if capacity.Valid {
			c := capacity.Float64
			vehicle.RatedCapacityKg = &c
		}
		vehicles = append(vehicles, vehicle)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Falha ao iterar veículos", err)
	}

	return vehicles, nil
}

// nullFloat converte *float64 em sql.NullFloat64.
func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
