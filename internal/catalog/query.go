package catalog

import "context"

// Query runs lookups against a Source. It keeps no state between calls;
// every method performs exactly one fetch.
type Query struct {
	src Source
}

func NewQuery(src Source) *Query {
	return &Query{src: src}
}

// All returns the list exactly as the source delivered it.
func (q *Query) All(ctx context.Context) ([]Product, error) {
	return q.src.Products(ctx)
}

// ByID returns the first product with the given id. A missing product is
// reported through the bool, not as an error.
func (q *Query) ByID(ctx context.Context, id int) (Product, bool, error) {
	products, err := q.src.Products(ctx)
	if err != nil {
		return Product{}, false, err
	}

	for _, p := range products {
		if p.ID == id {
			return p, true, nil
		}
	}
	return Product{}, false, nil
}

func (q *Query) ByCategory(ctx context.Context, category string) ([]Product, error) {
	products, err := q.src.Products(ctx)
	if err != nil {
		return nil, err
	}
	return FilterByCategory(products, category), nil
}

func (q *Query) DistinctCategories(ctx context.Context) ([]string, error) {
	products, err := q.src.Products(ctx)
	if err != nil {
		return nil, err
	}
	return DistinctCategories(products), nil
}

func (q *Query) Search(ctx context.Context, sp SearchParams) ([]Product, error) {
	products, err := q.src.Products(ctx)
	if err != nil {
		return nil, err
	}
	return Search(products, sp), nil
}
