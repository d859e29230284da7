// Package catalog queries a product catalog that is fetched whole from a
// Source on every call.
package catalog

import (
	"context"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices travel as JSON numbers, the same way the data source writes them.
	decimal.MarshalJSONWithoutQuotes = true
}

type Product struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl"`
	Description string          `json:"description"`
	Categories  []string        `json:"categories"`
}

// HasCategory reports whether c is one of the product's categories.
func (p Product) HasCategory(c string) bool {
	for _, pc := range p.Categories {
		if pc == c {
			return true
		}
	}
	return false
}

// Source delivers the full product list. Implementations must not cache:
// each call is a fresh read of the catalog.
type Source interface {
	Products(ctx context.Context) ([]Product, error)
}

type SourceFunc func(ctx context.Context) ([]Product, error)

func (f SourceFunc) Products(ctx context.Context) ([]Product, error) { return f(ctx) }

// SliceSource serves a fixed list. Callers get a copy of the slice header
// each time, never the backing array for writing.
type SliceSource []Product

func (s SliceSource) Products(ctx context.Context) ([]Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]Product, len(s))
	copy(out, s)
	return out, nil
}
