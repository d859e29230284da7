package datasource

import (
	"context"

	"Storefront/internal/catalog"
)

// Store holds the catalog the service publishes.
type Store interface {
	Ping(ctx context.Context) error
	// List returns every product ordered by id.
	List(ctx context.Context) ([]catalog.Product, error)
}
