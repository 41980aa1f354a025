package orderrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"goentrega/internal/domain"
	apperror "goentrega/internal/errors"
	"goentrega/internal/pkg/logger"
)

// OrderRepository implementa a persistência de pedidos e do vínculo
// pedido <-> rota (tabela run_order_links).
type OrderRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewOrderRepository cria e retorna uma nova instância do Repositório de Pedidos.
func NewOrderRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *OrderRepository {
	return &OrderRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// Save persiste um novo Pedido e suas linhas na mesma transação.
func (r *OrderRepository) Save(ctx context.Context, order domain.Order) (domain.Order, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		return domain.Order{}, apperror.NewDBError("Falha ao iniciar transação", err)
	}
	defer tx.Rollback() // Rollback em caso de erro

	const orderSQL = `
        INSERT INTO orders (id, customer_name, status, dispatched_at, created_at, updated_at)
        VALUES ($1, $2, $3, NULL, $4, $5)`

	_, err = tx.ExecContext(ctxTimeout, orderSQL,
		order.ID, order.CustomerName, order.Status, order.CreatedAt, order.UpdatedAt)
	if err != nil {
		return domain.Order{}, apperror.NewDBError("Falha ao inserir pedido", err)
	}

	const lineSQL = `
        INSERT INTO order_lines (id, order_id, product_id, quantity, unit_price_at_sale, unit_kind)
        VALUES ($1, $2, $3, $4, $5, $6)`

	for _, line := range order.Lines {
		_, err = tx.ExecContext(ctxTimeout, lineSQL,
			line.ID, order.ID, line.ProductID, line.Quantity, line.UnitPriceAtSale, nullUnitKind(line.UnitKind))
		if err != nil {
			return domain.Order{}, apperror.NewDBError("Falha ao inserir linha de pedido", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return domain.Order{}, apperror.NewDBError("Falha ao commitar transação", err)
	}

	return order, nil
}

// FindByID busca um pedido pelo ID, com suas linhas.
func (r *OrderRepository) FindByID(ctx context.Context, id string) (domain.Order, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `
        SELECT id, customer_name, status, dispatched_at, created_at, updated_at
        FROM orders
        WHERE id = $1`

	var (
		order        domain.Order
		dispatchedAt sql.NullTime
	)
	err := r.DB.QueryRowContext(ctxTimeout, query, id).Scan(
		&order.ID, &order.CustomerName, &order.Status, &dispatchedAt, &order.CreatedAt, &order.UpdatedAt)
	if err == sql.ErrNoRows {
		return domain.Order{}, apperror.NewNotFoundError(fmt.Sprintf("Pedido %s não encontrado.", id))
	}
	if err != nil {
		return domain.Order{}, apperror.NewDBError("Falha ao buscar pedido no DB", err)
	}
	if dispatchedAt.Valid {
		t := dispatchedAt.Time
		order.DispatchedAt = &t
	}

	lines, err := r.loadLines(ctxTimeout, order.ID)
	if err != nil {
		return domain.Order{}, err
	}
	order.Lines = lines

	return order, nil
}

// FindAll lista pedidos com paginação e filtro opcional de status.
// As linhas não são carregadas na listagem.
func (r *OrderRepository) FindAll(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT id, customer_name, status, dispatched_at, created_at, updated_at
        FROM orders`

	args := []interface{}{}
	if filter.Status != "" {
		query += ` WHERE status = $1`
		args = append(args, filter.Status)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		return nil, apperror.NewDBError("Falha ao listar pedidos no DB", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		var (
			order        domain.Order
			dispatchedAt sql.NullTime
		)
		if err := rows.Scan(&order.ID, &order.CustomerName, &order.Status, &dispatchedAt, &order.CreatedAt, &order.UpdatedAt); err != nil {
			return nil, apperror.NewDBError("Falha ao ler linha de pedido", err)
		}
		if dispatchedAt.Valid {
			t := dispatchedAt.Time
			order.DispatchedAt = &t
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Falha ao iterar pedidos", err)
	}

	return orders, nil
}

// FindByRunID retorna os pedidos vinculados a uma rota, com suas linhas.
// É a leitura que alimenta a agregação de consumo do despacho.
func (r *OrderRepository) FindByRunID(ctx context.Context, runID string) ([]domain.Order, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `
        SELECT o.id, o.customer_name, o.status, o.dispatched_at, o.created_at, o.updated_at
        FROM orders o
        JOIN run_order_links l ON l.order_id = o.id
        WHERE l.run_id = $1
        ORDER BY o.created_at`

	rows, err := r.DB.QueryContext(ctxTimeout, query, runID)
	if err != nil {
		return nil, apperror.NewDBError("Falha ao buscar pedidos da rota", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		var (
			order        domain.Order
			dispatchedAt sql.NullTime
		)
		if err := rows.Scan(&order.ID, &order.CustomerName, &order.Status, &dispatchedAt, &order.CreatedAt, &order.UpdatedAt); err != nil {
			return nil, apperror.NewDBError("Falha ao ler linha de pedido", err)
		}
		if dispatchedAt.Valid {
			t := dispatchedAt.Time
			order.DispatchedAt = &t
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Falha ao iterar pedidos da rota", err)
	}

	for i := range orders {
		lines, err := r.loadLines(ctxTimeout, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Lines = lines
	}

	return orders, nil
}

// LinkToRun cria o vínculo pedido <-> rota. O vínculo é idempotente: repetir
// o mesmo par não duplica a linha.
func (r *OrderRepository) LinkToRun(ctx context.Context, runID, orderID string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const linkSQL = `
        INSERT INTO run_order_links (run_id, order_id, created_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (run_id, order_id) DO NOTHING`

	if _, err := r.DB.ExecContext(ctxTimeout, linkSQL, runID, orderID, time.Now()); err != nil {
		r.logger.Error("Falha ao vincular pedido à rota.", err)
		return apperror.NewDBError("Falha ao vincular pedido", err)
	}
	return nil
}

// UnlinkFromRun remove o vínculo pedido <-> rota, se existir.
func (r *OrderRepository) UnlinkFromRun(ctx context.Context, runID, orderID string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const unlinkSQL = `DELETE FROM run_order_links WHERE run_id = $1 AND order_id = $2`

	result, err := r.DB.ExecContext(ctxTimeout, unlinkSQL, runID, orderID)
	if err != nil {
		r.logger.Error("Falha ao desvincular pedido da rota.", err)
		return apperror.NewDBError("Falha ao desvincular pedido", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Pedido %s não está vinculado à rota %s.", orderID, runID))
	}
	return nil
}

// loadLines lê as linhas de um pedido.
func (r *OrderRepository) loadLines(ctx context.Context, orderID string) ([]domain.OrderLine, error) {
	const query = `
        SELECT id, order_id, product_id, quantity, unit_price_at_sale, unit_kind
        FROM order_lines
        WHERE order_id = $1
        ORDER BY id`

	rows, err := r.DB.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, apperror.NewDBError("Falha ao buscar linhas do pedido", err)
	}
	defer rows.Close()

	lines := []domain.OrderLine{}
	for rows.Next() {
		var (
			line domain.OrderLine
			kind sql.NullString
		)
		if err := rows.Scan(&line.ID, &line.OrderID, &line.ProductID, &line.Quantity, &line.UnitPriceAtSale, &kind); err != nil {
			return nil, apperror.NewDBError("Falha ao ler linha do pedido", err)
		}
		if kind.Valid {
			k := domain.UnitKind(kind.String)
			line.UnitKind = &k
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Falha ao iterar linhas do pedido", err)
	}

	return lines, nil
}

// nullUnitKind converte *UnitKind em sql.NullString (nil vira NULL).
func nullUnitKind(k *domain.UnitKind) sql.NullString {
	if k == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*k), Valid: true}
}
