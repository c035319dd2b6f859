package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/theapemachine/shopchat/pkg/chatbot"
	"github.com/theapemachine/shopchat/pkg/errors"
	"github.com/theapemachine/shopchat/pkg/stores"
	"github.com/theapemachine/shopchat/pkg/types"
)

// ProductStore is the sqlite-backed product catalog.
type ProductStore struct {
	db *DB
}

var _ stores.ProductStore = &ProductStore{}

func NewProductStore(db *DB) *ProductStore {
	return &ProductStore{db: db}
}

const productColumns = `id, name, description, price, category, brand, stock_quantity,
	image_url, rating, is_featured, is_on_sale, sale_price, created_at`

func (store *ProductStore) Put(ctx context.Context, product *types.Product) error {
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now().UTC()
	}

	result, err := store.db.conn.ExecContext(ctx, `
		INSERT INTO products (name, description, price, category, brand, stock_quantity,
			image_url, rating, is_featured, is_on_sale, sale_price, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, product.Name, product.Description, product.Price, product.Category, product.Brand,
		product.StockQuantity, product.ImageURL, product.Rating, product.IsFeatured,
		product.IsOnSale, product.SalePrice, product.CreatedAt)
	if err != nil {
		return fmt.Errorf("sqlite: insert product: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: insert product: %w", err)
	}
	product.ID = id

	return nil
}

func (store *ProductStore) Get(ctx context.Context, id int64) (*types.Product, error) {
	row := store.db.conn.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ?`, id)

	product, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, errors.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get product: %w", err)
	}

	return product, nil
}

/*
Search translates extracted chat criteria to SQL: keywords OR-matched over
name and description with LIKE, category and brand substring matches,
inclusive price bounds. LIKE is case-insensitive for ASCII in sqlite,
which covers the lower-cased criteria the extractor produces.
*/
func (store *ProductStore) Search(
	ctx context.Context, criteria chatbot.SearchCriteria, limit int,
) ([]types.Product, error) {
	clauses := []string{}
	args := []any{}

	if len(criteria.Keywords) > 0 {
		keywordClauses := []string{}
		for _, keyword := range criteria.Keywords {
			keywordClauses = append(keywordClauses, "name LIKE ? OR description LIKE ?")
			pattern := "%" + keyword + "%"
			args = append(args, pattern, pattern)
		}
		clauses = append(clauses, "("+strings.Join(keywordClauses, " OR ")+")")
	}
	if criteria.Category != "" {
		clauses = append(clauses, "category LIKE ?")
		args = append(args, "%"+criteria.Category+"%")
	}
	if criteria.Brand != "" {
		clauses = append(clauses, "brand LIKE ?")
		args = append(args, "%"+criteria.Brand+"%")
	}
	if criteria.MinPrice != nil {
		clauses = append(clauses, "price >= ?")
		args = append(args, *criteria.MinPrice)
	}
	if criteria.MaxPrice != nil {
		clauses = append(clauses, "price <= ?")
		args = append(args, *criteria.MaxPrice)
	}

	where := ""
	if len(clauses) > 0 {
		where = "WHERE " + strings.Join(clauses, " AND ")
	}
	if limit <= 0 {
		limit = 10
	}
	args = append(args, limit)

	rows, err := store.db.conn.QueryContext(ctx, fmt.Sprintf(
		`SELECT %s FROM products %s ORDER BY id LIMIT ?`, productColumns, where), args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: search products: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectProducts(rows)
}

func (store *ProductStore) Query(
	ctx context.Context, query string, limit int,
) ([]types.Product, error) {
	if limit <= 0 {
		limit = 20
	}
	pattern := "%" + query + "%"

	rows, err := store.db.conn.QueryContext(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE name LIKE ? OR description LIKE ? OR brand LIKE ? OR category LIKE ?
		ORDER BY id LIMIT ?
	`, pattern, pattern, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query products: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectProducts(rows)
}

func (store *ProductStore) List(
	ctx context.Context, filter stores.ProductFilter,
) ([]types.Product, int, error) {
	clauses := []string{}
	args := []any{}

	if filter.Category != "" {
		clauses = append(clauses, "category LIKE ?")
		args = append(args, "%"+filter.Category+"%")
	}
	if filter.Brand != "" {
		clauses = append(clauses, "brand LIKE ?")
		args = append(args, "%"+filter.Brand+"%")
	}
	if filter.MinPrice != nil {
		clauses = append(clauses, "price >= ?")
		args = append(args, *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		clauses = append(clauses, "price <= ?")
		args = append(args, *filter.MaxPrice)
	}
	if filter.Featured != nil {
		clauses = append(clauses, "is_featured = ?")
		args = append(args, *filter.Featured)
	}
	if filter.OnSale != nil {
		clauses = append(clauses, "is_on_sale = ?")
		args = append(args, *filter.OnSale)
	}

	where := ""
	if len(clauses) > 0 {
		where = "WHERE " + strings.Join(clauses, " AND ")
	}

	var total int
	if err := store.db.conn.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT COUNT(*) FROM products %s`, where), args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("sqlite: count products: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit, filter.Offset)

	rows, err := store.db.conn.QueryContext(ctx, fmt.Sprintf(
		`SELECT %s FROM products %s ORDER BY id LIMIT ? OFFSET ?`, productColumns, where), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: list products: %w", err)
	}
	defer func() { _ = rows.Close() }()

	products, err := collectProducts(rows)
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (store *ProductStore) Categories(ctx context.Context) ([]string, error) {
	return store.distinct(ctx, "category")
}

func (store *ProductStore) Brands(ctx context.Context) ([]string, error) {
	return store.distinct(ctx, "brand")
}

func (store *ProductStore) distinct(ctx context.Context, column string) ([]string, error) {
	// column is one of two compile-time constants, never user input.
	rows, err := store.db.conn.QueryContext(ctx, fmt.Sprintf(
		`SELECT DISTINCT %s FROM products WHERE %s != '' ORDER BY %s`, column, column, column))
	if err != nil {
		return nil, fmt.Errorf("sqlite: distinct %s: %w", column, err)
	}
	defer func() { _ = rows.Close() }()

	values := []string{}
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, err
		}
		values = append(values, value)
	}

	return values, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*types.Product, error) {
	var product types.Product

	if err := row.Scan(
		&product.ID, &product.Name, &product.Description, &product.Price,
		&product.Category, &product.Brand, &product.StockQuantity, &product.ImageURL,
		&product.Rating, &product.IsFeatured, &product.IsOnSale, &product.SalePrice,
		&product.CreatedAt,
	); err != nil {
		return nil, err
	}

	return &product, nil
}

func collectProducts(rows *sql.Rows) ([]types.Product, error) {
	products := []types.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scan product: %w", err)
		}
		products = append(products, *product)
	}
	return products, rows.Err()
}
