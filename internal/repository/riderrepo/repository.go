package riderrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"goentrega/internal/domain"
	apperror "goentrega/internal/errors"
)

// RiderRepository implementa a persistência do cadastro de entregadores.
type RiderRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
}

// NewRiderRepository cria e retorna uma nova instância do Repositório de Entregadores.
func NewRiderRepository(db *sql.DB, dbTimeout time.Duration) *RiderRepository {
	return &RiderRepository{DB: db, DBTimeout: dbTimeout}
}

// Save persiste um novo Entregador.
func (r *RiderRepository) Save(ctx context.Context, rider domain.Rider) (domain.Rider, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const insertSQL = `
        INSERT INTO riders (id, name, phone, is_active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.DB.ExecContext(ctxTimeout, insertSQL,
		rider.ID, rider.Name, rider.Phone, rider.IsActive, rider.CreatedAt, rider.UpdatedAt)
	if err != nil {
		return domain.Rider{}, apperror.NewDBError("Falha ao inserir entregador", err)
	}

	return rider, nil
}

// FindByID busca um entregador pelo ID.
func (r *RiderRepository) FindByID(ctx context.Context, id string) (domain.Rider, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `
        SELECT id, name, phone, is_active, created_at, updated_at
        FROM riders
        WHERE id = $1`

	var rider domain.Rider
	err := r.DB.QueryRowContext(ctxTimeout, query, id).Scan(
		&rider.ID, &rider.Name, &rider.Phone, &rider.IsActive, &rider.CreatedAt, &rider.UpdatedAt)
	if err == sql.ErrNoRows {
		return domain.Rider{}, apperror.NewNotFoundError(fmt.Sprintf("Entregador %s não encontrado.", id))
	}
	if err != nil {
		return domain.Rider{}, apperror.NewDBError("Falha ao buscar entregador no DB", err)
	}

	return rider, nil
}

// FindAll lista o cadastro de entregadores, opcionalmente apenas os ativos.
func (r *RiderRepository) FindAll(ctx context.Context, activeOnly bool) ([]domain.Rider, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT id, name, phone, is_active, created_at, updated_at
        FROM riders`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY name`

	rows, err := r.DB.QueryContext(ctxTimeout, query)
	if err != nil {
		return nil, apperror.NewDBError("Falha ao listar entregadores no DB", err)
	}
	defer rows.Close()

	riders := []domain.Rider{}
	for rows.Next() {
		var rider domain.Rider
		if err := rows.Scan(&rider.ID, &rider.Name, &rider.Phone, &rider.IsActive, &rider.CreatedAt, &rider.UpdatedAt); err != nil {
			return nil, apperror.NewDBError("Falha ao ler linha de entregador", err)
		}
		riders = append(riders, rider)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Falha ao iterar entregadores", err)
	}

	return riders, nil
}
