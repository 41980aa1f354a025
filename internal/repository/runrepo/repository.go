package runrepo

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"goentrega/internal/domain"
	apperror "goentrega/internal/errors"
	"goentrega/internal/pkg/cache"
	"goentrega/internal/pkg/logger"
)

// productCacheKey espelha a chave usada pelo repositório de produtos: o
// commit de despacho precisa invalidar as entradas de cache dos produtos
// cujos saldos decrementou.
const productCacheKey = "product:%s"

// RunRepository implementa a persistência de rotas de entrega, incluindo o
// committer transacional do despacho.
type RunRepository struct {
	DB        *sql.DB
	Cache     cache.Client
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewRunRepository cria e retorna uma nova instância do Repositório de Rotas.
func NewRunRepository(db *sql.DB, cacheClient cache.Client, dbTimeout time.Duration, logger logger.Logger) *RunRepository {
	return &RunRepository{
		DB:        db,
		Cache:     cacheClient,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// Save insere uma nova rota (status PLANNED, sem carga).
func (r *RunRepository) Save(ctx context.Context, run domain.DeliveryRun) (domain.DeliveryRun, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	run.ID = uuid.NewString()
	run.Status = domain.RunStatusPlanned
	run.CreatedAt = time.Now()
	run.UpdatedAt = run.CreatedAt

	const insertSQL = `
        INSERT INTO delivery_runs (id, status, rider_id, vehicle_id, dispatched_at, created_at, updated_at)
        VALUES ($1, $2, $3, $4, NULL, $5, $6)`

	_, err := r.DB.ExecContext(ctxTimeout, insertSQL,
		run.ID, run.Status, nullString(run.RiderID), nullString(run.VehicleID), run.CreatedAt, run.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Falha ao inserir rota no DB.", err)
		return domain.DeliveryRun{}, apperror.NewDBError("Falha ao inserir rota", err)
	}

	return run, nil
}

// FindByID busca uma rota pelo ID, com as linhas da carga avulsa.
func (r *RunRepository) FindByID(ctx context.Context, id string) (domain.DeliveryRun, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `
        SELECT id, status, rider_id, vehicle_id, dispatched_at, created_at, updated_at
        FROM delivery_runs
        WHERE id = $1`

	var (
		run          domain.DeliveryRun
		riderID      sql.NullString
		vehicleID    sql.NullString
		dispatchedAt sql.NullTime
	)

	err := r.DB.QueryRowContext(ctxTimeout, query, id).Scan(
		&run.ID, &run.Status, &riderID, &vehicleID, &dispatchedAt, &run.CreatedAt, &run.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return domain.DeliveryRun{}, apperror.NewNotFoundError(fmt.Sprintf("Rota %s não encontrada.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar rota no DB.", err)
		return domain.DeliveryRun{}, apperror.NewDBError("Falha ao buscar rota", err)
	}

	run.RiderID = stringPtr(riderID)
	run.VehicleID = stringPtr(vehicleID)
	if dispatchedAt.Valid {
		t := dispatchedAt.Time
		run.DispatchedAt = &t
	}

	loadout, err := r.loadLoadout(ctxTimeout, r.DB, run.ID)
	if err != nil {
		return domain.DeliveryRun{}, err
	}
	run.Loadout = loadout

	return run, nil
}

// FindAll lista rotas com paginação e filtro opcional de status.
// A carga avulsa não é carregada na listagem.
func (r *RunRepository) FindAll(ctx context.Context, filter domain.RunFilter) ([]domain.DeliveryRun, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT id, status, rider_id, vehicle_id, dispatched_at, created_at, updated_at
        FROM delivery_runs`

	args := []interface{}{}
	if filter.Status != "" {
		query += ` WHERE status = $1`
		args = append(args, filter.Status)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error("Falha ao listar rotas no DB.", err)
		return nil, apperror.NewDBError("Falha ao listar rotas", err)
	}
	defer rows.Close()

	runs := []domain.DeliveryRun{}
	for rows.Next() {
		var (
			run          domain.DeliveryRun
			riderID      sql.NullString
			vehicleID    sql.NullString
			dispatchedAt sql.NullTime
		)
		if err := rows.Scan(&run.ID, &run.Status, &riderID, &vehicleID, &dispatchedAt, &run.CreatedAt, &run.UpdatedAt); err != nil {
			return nil, apperror.NewDBError("Falha ao ler linha de rota", err)
		}
		run.RiderID = stringPtr(riderID)
		run.VehicleID = stringPtr(vehicleID)
		if dispatchedAt.Valid {
			t := dispatchedAt.Time
			run.DispatchedAt = &t
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Falha ao iterar rotas", err)
	}

	return runs, nil
}

// UpdateStaging grava entregador, veículo e carga de uma rota, reverificando
// dentro da transação que ela ainda está em PLANNED (a rota pode ter sido
// despachada por outra requisição entre a checagem do serviço e esta).
func (r *RunRepository) UpdateStaging(ctx context.Context, runID string, staging domain.RunStagingRequest) (domain.DeliveryRun, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		return domain.DeliveryRun{}, apperror.NewDBError("Falha ao iniciar transação", err)
	}
	defer tx.Rollback() // Rollback em caso de erro

	status, err := r.lockRun(ctxTimeout, tx, runID)
	if err != nil {
		return domain.DeliveryRun{}, err
	}
	if status != domain.RunStatusPlanned {
		return domain.DeliveryRun{}, apperror.NewConflictError(
			fmt.Sprintf("Rota em %s é somente leitura.", status))
	}

	const updateSQL = `
        UPDATE delivery_runs
        SET rider_id = $2, vehicle_id = $3, updated_at = $4
        WHERE id = $1`

	if _, err := tx.ExecContext(ctxTimeout, updateSQL, runID,
		nullString(staging.RiderID), nullString(staging.VehicleID), time.Now()); err != nil {
		r.logger.Error("Falha ao atualizar staging da rota.", err)
		return domain.DeliveryRun{}, apperror.NewDBError("Falha ao atualizar rota", err)
	}

	if err := r.replaceLoadout(ctxTimeout, tx, runID, staging.Loadout); err != nil {
		return domain.DeliveryRun{}, err
	}

	if err := tx.Commit(); err != nil {
		return domain.DeliveryRun{}, apperror.NewDBError("Falha ao commitar transação", err)
	}

	return r.FindByID(ctx, runID)
}

// CommitDispatch aplica o despacho como unidade atômica: decrementos de
// estoque, transição da rota para DISPATCHED com snapshot final e marcação
// dos pedidos vinculados. Ou tudo é aplicado, ou nada.
//
// Retorna (true, nil) quando a linha da rota, já travada, revela status
// DISPATCHED: um despacho concorrente venceu e este chamador recebe o
// sucesso idempotente sem nenhum decremento duplicado.
func (r *RunRepository) CommitDispatch(ctx context.Context, commit domain.DispatchCommit) (bool, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		return false, apperror.NewDBError("Falha ao iniciar transação de despacho", err)
	}
	defer tx.Rollback() // Rollback em caso de erro

	// 1. Trava a linha da rota e reverifica o status dentro da transação.
	status, err := r.lockRun(ctxTimeout, tx, commit.RunID)
	if err != nil {
		return false, err
	}
	if status == domain.RunStatusDispatched {
		return true, nil
	}
	if status != domain.RunStatusPlanned {
		return false, apperror.NewConflictError(
			fmt.Sprintf("Rota não está mais em preparação (status atual: %s).", status))
	}

	// 2. Trava e reverifica o estoque de cada produto tocado.
	// Produtos são travados em ordem de id: dois despachos concorrentes que
	// compartilham produtos adquirem os locks na mesma ordem.
	ids := make([]string, 0, len(commit.Deltas))
	for id := range commit.Deltas {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	const selectProductSQL = `
        SELECT pack_stock, retail_stock
        FROM products
        WHERE id = $1 AND is_active = TRUE
        FOR UPDATE`

	const updateProductSQL = `
        UPDATE products
        SET pack_stock = pack_stock - $2, retail_stock = retail_stock - $3, updated_at = $4
        WHERE id = $1`

	now := time.Now()
	for _, id := range ids {
		delta := commit.Deltas[id]
		if delta.IsZero() {
			continue
		}

		var packStock, retailStock int
		err := tx.QueryRowContext(ctxTimeout, selectProductSQL, id).Scan(&packStock, &retailStock)
		if err == sql.ErrNoRows {
			return false, apperror.NewConflictError(
				fmt.Sprintf("Produto %s ficou indisponível durante o despacho. Tente novamente.", id))
		}
		if err != nil {
			r.logger.Error("Falha ao travar produto para despacho.", err)
			return false, apperror.NewDBError("Falha ao travar produto", err)
		}

		// O saldo pode ter sido consumido por outra rota entre a validação
		// e este lock; a falta aqui aborta a transação inteira.
		if delta.PackUnits > packStock || delta.RetailUnits > retailStock {
			r.logger.Warn("Estoque consumido por operação concorrente; despacho abortado.", map[string]interface{}{
				"run_id":     commit.RunID,
				"product_id": id,
			})
			return false, apperror.NewConflictError(
				"O estoque foi modificado por outra operação. Tente novamente.")
		}

		if _, err := tx.ExecContext(ctxTimeout, updateProductSQL, id, delta.PackUnits, delta.RetailUnits, now); err != nil {
			r.logger.Error("Falha ao decrementar estoque do produto.", err)
			return false, apperror.NewDBError("Falha ao decrementar estoque", err)
		}
	}

	// 3. Transição da rota + snapshot final de entregador/veículo/carga.
	const dispatchRunSQL = `
        UPDATE delivery_runs
        SET status = $2, rider_id = $3, vehicle_id = $4, dispatched_at = $5, updated_at = $5
        WHERE id = $1`

	if _, err := tx.ExecContext(ctxTimeout, dispatchRunSQL, commit.RunID,
		domain.RunStatusDispatched, commit.RiderID, nullString(commit.VehicleID), now); err != nil {
		r.logger.Error("Falha ao atualizar status da rota.", err)
		return false, apperror.NewDBError("Falha ao atualizar rota", err)
	}

	if err := r.replaceLoadout(ctxTimeout, tx, commit.RunID, commit.Loadout); err != nil {
		return false, err
	}

	// 4. Pedidos vinculados viram DISPATCHED.
	const dispatchOrderSQL = `
        UPDATE orders
        SET status = $2, dispatched_at = $3, updated_at = $3
        WHERE id = $1`

	for _, orderID := range commit.OrderIDs {
		if _, err := tx.ExecContext(ctxTimeout, dispatchOrderSQL, orderID, domain.OrderStatusDispatched, now); err != nil {
			r.logger.Error("Falha ao marcar pedido como despachado.", err)
			return false, apperror.NewDBError("Falha ao atualizar pedido", err)
		}
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Falha ao commitar transação de despacho.", err)
		return false, apperror.NewDBError("Falha ao commitar despacho", err)
	}

	// 5. Invalida o cache dos produtos decrementados (best-effort, pós-commit).
	for _, id := range ids {
		if err := r.Cache.Delete(ctx, fmt.Sprintf(productCacheKey, id)); err != nil && err != cache.ErrCacheMiss {
			r.logger.Warn("Falha ao invalidar cache de produto após despacho.", map[string]interface{}{
				"product_id": id,
				"error":      err.Error(),
			})
		}
	}

	r.logger.Info("Despacho commitado.", map[string]interface{}{
		"run_id":   commit.RunID,
		"products": len(ids),
		"orders":   len(commit.OrderIDs),
	})
	return false, nil
}

// RevertToPlanned executa o override administrativo DISPATCHED -> PLANNED
// dentro de uma transação. Limpa o dispatched_at; NÃO devolve estoque.
func (r *RunRepository) RevertToPlanned(ctx context.Context, runID string) (domain.DeliveryRun, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		return domain.DeliveryRun{}, apperror.NewDBError("Falha ao iniciar transação", err)
	}
	defer tx.Rollback() // Rollback em caso de erro

	status, err := r.lockRun(ctxTimeout, tx, runID)
	if err != nil {
		return domain.DeliveryRun{}, err
	}
	if status != domain.RunStatusDispatched {
		return domain.DeliveryRun{}, apperror.NewConflictError(
			fmt.Sprintf("Revert só é permitido a partir de %s (status atual: %s).", domain.RunStatusDispatched, status))
	}

	const revertSQL = `
        UPDATE delivery_runs
        SET status = $2, dispatched_at = NULL, updated_at = $3
        WHERE id = $1`

	if _, err := tx.ExecContext(ctxTimeout, revertSQL, runID, domain.RunStatusPlanned, time.Now()); err != nil {
		r.logger.Error("Falha ao reverter rota.", err)
		return domain.DeliveryRun{}, apperror.NewDBError("Falha ao reverter rota", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.DeliveryRun{}, apperror.NewDBError("Falha ao commitar transação", err)
	}

	return r.FindByID(ctx, runID)
}

// --- Helpers internos ---

// queryRower cobre *sql.DB e *sql.Tx para as leituras de carga.
type queryRower interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

// lockRun trava a linha da rota (FOR UPDATE) e retorna o status atual.
func (r *RunRepository) lockRun(ctx context.Context, tx *sql.Tx, runID string) (domain.RunStatus, error) {
	const lockSQL = `SELECT status FROM delivery_runs WHERE id = $1 FOR UPDATE`

	var status domain.RunStatus
	err := tx.QueryRowContext(ctx, lockSQL, runID).Scan(&status)
	if err == sql.ErrNoRows {
		return "", apperror.NewNotFoundError(fmt.Sprintf("Rota %s não encontrada.", runID))
	}
	if err != nil {
		r.logger.Error("Falha ao travar linha da rota.", err)
		return "", apperror.NewDBError("Falha ao travar rota", err)
	}
	return status, nil
}

// loadLoadout lê as linhas de carga de uma rota, em ordem de posição.
func (r *RunRepository) loadLoadout(ctx context.Context, q queryRower, runID string) ([]domain.LoadoutLine, error) {
	const query = `
        SELECT product_id, quantity
        FROM run_loadout_lines
        WHERE run_id = $1
        ORDER BY position`

	rows, err := q.QueryContext(ctx, query, runID)
	if err != nil {
		r.logger.Error("Falha ao buscar carga da rota.", err)
		return nil, apperror.NewDBError("Falha ao buscar carga da rota", err)
	}
	defer rows.Close()

	loadout := []domain.LoadoutLine{}
	for rows.Next() {
		var line domain.LoadoutLine
		if err := rows.Scan(&line.ProductID, &line.Quantity); err != nil {
			return nil, apperror.NewDBError("Falha ao ler linha de carga", err)
		}
		loadout = append(loadout, line)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Falha ao iterar carga da rota", err)
	}

	return loadout, nil
}

// replaceLoadout substitui a carga persistida de uma rota pela lista dada.
func (r *RunRepository) replaceLoadout(ctx context.Context, tx *sql.Tx, runID string, loadout []domain.LoadoutLine) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM run_loadout_lines WHERE run_id = $1`, runID); err != nil {
		return apperror.NewDBError("Falha ao limpar carga anterior", err)
	}

	const insertSQL = `
        INSERT INTO run_loadout_lines (run_id, position, product_id, quantity)
        VALUES ($1, $2, $3, $4)`

	for i, line := range loadout {
		if _, err := tx.ExecContext(ctx, insertSQL, runID, i, line.ProductID, line.Quantity); err != nil {
			return apperror.NewDBError("Falha ao inserir linha de carga", err)
		}
	}
	return nil
}

// nullString converte *string em sql.NullString ("" também vira NULL).
func nullString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// stringPtr converte sql.NullString em *string.
func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
