package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
)

// SearchParams narrows a product list. A nil field imposes no constraint.
type SearchParams struct {
	Title    *string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

// IsZero reports whether no parameter is set.
func (sp SearchParams) IsZero() bool {
	return sp.Title == nil && sp.MinPrice == nil && sp.MaxPrice == nil
}

// Match reports whether p satisfies every parameter that is set.
func (sp SearchParams) Match(p Product) bool {
	if sp.Title != nil && !titleContains(p.Title, strings.ToLower(*sp.Title)) {
		return false
	}
	if sp.MinPrice != nil && p.Price.LessThan(*sp.MinPrice) {
		return false
	}
	if sp.MaxPrice != nil && p.Price.GreaterThan(*sp.MaxPrice) {
		return false
	}
	return true
}

// Search filters products by title, then min price, then max price.
// Steps whose parameter is absent pass every product through.
func Search(products []Product, sp SearchParams) []Product {
	out := append(make([]Product, 0, len(products)), products...)

	if sp.Title != nil {
		needle := strings.ToLower(*sp.Title)
		out = filter(out, func(p Product) bool { return titleContains(p.Title, needle) })
	}
	if sp.MinPrice != nil {
		lo := *sp.MinPrice
		out = filter(out, func(p Product) bool { return p.Price.GreaterThanOrEqual(lo) })
	}
	if sp.MaxPrice != nil {
		hi := *sp.MaxPrice
		out = filter(out, func(p Product) bool { return p.Price.LessThanOrEqual(hi) })
	}

	return out
}

// FilterByCategory keeps products listing category c, in their original order.
func FilterByCategory(products []Product, c string) []Product {
	return filter(products, func(p Product) bool { return p.HasCategory(c) })
}

// DistinctCategories flattens the categories of all products in order and
// keeps the first occurrence of each label.
func DistinctCategories(products []Product) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, len(products))

	for _, p := range products {
		for _, c := range p.Categories {
			if _, dup := seen[c]; dup {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}

func titleContains(title, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(title), lowerNeedle)
}

// filter always returns a new non-nil slice; the input is never written.
func filter(products []Product, keep func(Product) bool) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
