package datasource

import (
	"context"
	_ "embed"
	"time"

	"github.com/go-faster/errors"
	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"Storefront/internal/catalog"
)

//go:embed schema.sql
var Schema string

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
)

const (
	listProductsSQL = `SELECT id, title, price, image_url, description, categories
		FROM products ORDER BY id ASC`

	upsertProductSQL = `INSERT INTO products (id, title, price, image_url, description, categories)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			price = EXCLUDED.price,
			image_url = EXCLUDED.image_url,
			description = EXCLUDED.description,
			categories = EXCLUDED.categories`

	countProductsSQL = `SELECT count(*) FROM products`
)

// NewPool opens a pgx pool with NUMERIC mapped to decimal.Decimal.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse database config")
	}

	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "create pool")
	}
	return pool, nil
}

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate applies the embedded schema. It is idempotent.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		if _, err := s.pool.Exec(ctx, Schema); err != nil {
			return errors.Wrap(err, "apply schema")
		}
		return nil
	})
}

// SeedIfEmpty inserts products only when the table has no rows, so a
// restart never overwrites edited data.
func (s *PostgresStore) SeedIfEmpty(ctx context.Context, products []catalog.Product) (bool, error) {
	var n int64
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.pool.QueryRow(ctx, countProductsSQL).Scan(&n)
	})
	if err != nil {
		return false, errors.Wrap(err, "count products")
	}
	if n > 0 {
		return false, nil
	}
	return true, s.Upsert(ctx, products)
}

func (s *PostgresStore) Upsert(ctx context.Context, products []catalog.Product) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		batch := &pgx.Batch{}
		for _, p := range products {
			categories := p.Categories
			if categories == nil {
				categories = []string{}
			}
			batch.Queue(upsertProductSQL, p.ID, p.Title, p.Price, p.ImageURL, p.Description, categories)
		}

		if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
			return errors.Wrap(err, "upsert products")
		}
		return nil
	})
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, s.pool.Ping)
}

func (s *PostgresStore) List(ctx context.Context) ([]catalog.Product, error) {
	var out []catalog.Product

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.pool.Query(ctx, listProductsSQL)
		if err != nil {
			return err
		}
		out, err = pgx.CollectRows(rows, scanProduct)
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	return out, nil
}

func scanProduct(row pgx.CollectableRow) (catalog.Product, error) {
	var p catalog.Product
	err := row.Scan(&p.ID, &p.Title, &p.Price, &p.ImageURL, &p.Description, &p.Categories)
	return p, err
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
