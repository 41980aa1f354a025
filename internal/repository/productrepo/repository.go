package productrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"goentrega/internal/domain"
	apperror "goentrega/internal/errors"
	"goentrega/internal/pkg/cache"
)

// Define a chave de cache para produtos.
const productCacheKey = "product:%s"

// productColumns é a lista canônica de colunas usada por todas as leituras.
const productColumns = `id, sku, name, description, mass_unit, pack_size,
        pack_unit_price, retail_unit_price, allow_retail_sale,
        pack_stock, retail_stock, is_active, created_at, updated_at`

// ProductRepository implementa a interface domain.ProductRepository e a
// leitura em lote usada pelo motor de despacho.
type ProductRepository struct {
	DB           *sql.DB      // Conexão principal com o banco de dados (PostgreSQL)
	Cache        cache.Client // Cliente para operações de cache (Redis)
	DBTimeout    time.Duration
	CacheTimeout time.Duration
}

// NewProductRepository cria e retorna uma nova instância do Repositório.
// Aqui injetamos as dependências de Infraestrutura (DB e Cache).
func NewProductRepository(db *sql.DB, cacheClient cache.Client, dbTimeout, cacheTimeout time.Duration) *ProductRepository {
	return &ProductRepository{
		DB:           db,
		Cache:        cacheClient,
		DBTimeout:    dbTimeout,
		CacheTimeout: cacheTimeout,
	}
}

// Save persiste um novo Produto no banco de dados.
func (r *ProductRepository) Save(ctx domain.Context, product domain.Product) (domain.Product, error) {
	ctxGo, cancel := context.WithTimeout(ctx.(context.Context), r.DBTimeout)
	defer cancel()

	const productSQL = `
        INSERT INTO products (` + productColumns + `)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`

	_, err := r.DB.ExecContext(ctxGo, productSQL,
		product.ID,
		product.SKU,
		product.Name,
		product.Description,
		product.MassUnit,
		product.PackSize,
		product.PackUnitPrice,
		product.RetailUnitPrice,
		product.AllowRetailSale,
		product.PackStock,
		product.RetailStock,
		product.IsActive,
		product.CreatedAt,
		product.UpdatedAt,
	)
	if err != nil {
		return domain.Product{}, apperror.NewDBError("Falha ao inserir produto", err)
	}

	return product, nil
}

// FindByID busca um produto pelo ID, utilizando a estratégia Cache-Aside.
func (r *ProductRepository) FindByID(ctx domain.Context, id string) (domain.Product, error) {

	// 1. Casting e Contexto
	ctxGo, cancel := context.WithTimeout(ctx.(context.Context), r.DBTimeout)
	defer cancel()

	key := fmt.Sprintf(productCacheKey, id)
	var product domain.Product

	// --- 2. Estratégia Cache-Aside (READ) ---
	cachedData, err := r.Cache.Get(ctxGo, key)
	if err == nil {
		// Cache HIT
		if json.Unmarshal([]byte(cachedData), &product) == nil {
			return product, nil
		}
		// Se a desserialização falhar, continua para o DB.
	}

	// --- 3. Busca no Banco de Dados (PostgreSQL) ---
	productSQL := `
        SELECT ` + productColumns + `
        FROM products
        WHERE id = $1`

	row := r.DB.QueryRowContext(ctxGo, productSQL, id)

	err = scanProduct(row, &product)
	if err == sql.ErrNoRows {
		return domain.Product{}, apperror.NewNotFoundError(fmt.Sprintf("Produto com ID %s não existe na base de dados.", id))
	}
	if err != nil {
		return domain.Product{}, apperror.NewDBError("Falha ao buscar produto no DB", err)
	}

	// --- 4. Estratégia Cache-Aside (WRITE) ---
	// Se encontrado no DB, populamos o cache para futuras requisições.
	productJSON, marshalErr := json.Marshal(product)
	if marshalErr == nil {
		r.Cache.Set(ctxGo, key, productJSON, r.CacheTimeout)
	}

	return product, nil
}

// FindAll lista produtos com paginação e filtros opcionais de nome/SKU.
func (r *ProductRepository) FindAll(ctx domain.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	ctxGo, cancel := context.WithTimeout(ctx.(context.Context), r.DBTimeout)
	defer cancel()

	query := `
        SELECT ` + productColumns + `
        FROM products`

	conditions := []string{}
	args := []interface{}{}

	if filter.Name != "" {
		args = append(args, "%"+filter.Name+"%")
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if filter.SKU != "" {
		args = append(args, filter.SKU)
		conditions = append(conditions, fmt.Sprintf("sku = $%d", len(args)))
	}
	if filter.ActiveOnly {
		conditions = append(conditions, "is_active = TRUE")
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	query += fmt.Sprintf(" ORDER BY name LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.DB.QueryContext(ctxGo, query, args...)
	if err != nil {
		return nil, apperror.NewDBError("Falha ao listar produtos no DB", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		var p domain.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, apperror.NewDBError("Falha ao ler linha de produto", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Falha ao iterar produtos", err)
	}

	return products, nil
}

// FindActiveByIDs busca em lote os produtos ativos cujo id está na lista e
// retorna um mapa id -> produto. Ids ausentes simplesmente não aparecem no
// mapa; o motor de despacho trata a ausência como produto removido/inativo.
// A leitura é direta no DB: o despacho valida estoque e não pode decidir
// sobre um saldo possivelmente velho do cache.
func (r *ProductRepository) FindActiveByIDs(ctx context.Context, ids []string) (map[string]domain.Product, error) {
	products := make(map[string]domain.Product, len(ids))
	if len(ids) == 0 {
		return products, nil
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := `
        SELECT ` + productColumns + `
        FROM products
        WHERE is_active = TRUE AND id IN (` + strings.Join(placeholders, ",") + `)`

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		return nil, apperror.NewDBError("Falha ao buscar produtos em lote", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, apperror.NewDBError("Falha ao ler linha de produto", err)
		}
		products[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Falha ao iterar produtos", err)
	}

	return products, nil
}

// rowScanner cobre *sql.Row e *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanProduct mapeia as colunas canônicas para a struct domain.Product.
func scanProduct(row rowScanner, p *domain.Product) error {
	return row.Scan(
		&p.ID,
		&p.SKU,
		&p.Name,
		&p.Description,
		&p.MassUnit,
		&p.PackSize,
		&p.PackUnitPrice,
		&p.RetailUnitPrice,
		&p.AllowRetailSale,
		&p.PackStock,
		&p.RetailStock,
		&p.IsActive,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}
