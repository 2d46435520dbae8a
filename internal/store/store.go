package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/naturburst/naturburst.com-sub000/internal/models"
)

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// productRow stores the canonical product as a JSONB document; id and slug
// are lifted into columns for lookups.
type productRow struct {
	ID   string `db:"id"`
	Slug string `db:"slug"`
	Data []byte `db:"data"`
}

// ReplaceProducts swaps the whole catalog in one transaction. There is no
// partial patching: a reload replaces the set.
func (s *Store) ReplaceProducts(ctx context.Context, products []models.Product) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM products"); err != nil {
		return fmt.Errorf("failed to clear products: %w", err)
	}

	for _, p := range products {
		data, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("failed to marshal product %s: %w", p.ID, err)
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO products (id, slug, data) VALUES ($1, $2, $3)",
			p.ID, p.Slug, data)
		if err != nil {
			return fmt.Errorf("failed to insert product %s: %w", p.ID, err)
		}
	}

	return tx.Commit()
}

// GetProducts retrieves the full catalog in insertion order.
func (s *Store) GetProducts(ctx context.Context) ([]models.Product, error) {
	var rows []productRow
	err := s.db.SelectContext(ctx, &rows, "SELECT id, slug, data FROM products ORDER BY id")
	if err != nil {
		return nil, err
	}

	products := make([]models.Product, 0, len(rows))
	for _, row := range rows {
		var p models.Product
		if err := json.Unmarshal(row.Data, &p); err != nil {
			return nil, fmt.Errorf("corrupt product row %s: %w", row.ID, err)
		}
		products = append(products, p)
	}
	return products, nil
}

// GetProductBySlug retrieves a single product by slug.
func (s *Store) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var row productRow
	err := s.db.GetContext(ctx, &row, "SELECT id, slug, data FROM products WHERE slug = $1", slug)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("product not found: %s", slug)
	}
	if err != nil {
		return nil, err
	}

	var p models.Product
	if err := json.Unmarshal(row.Data, &p); err != nil {
		return nil, fmt.Errorf("corrupt product row %s: %w", row.ID, err)
	}
	return &p, nil
}

// CountProducts returns the catalog size.
func (s *Store) CountProducts(ctx context.Context) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM products")
	return count, err
}
