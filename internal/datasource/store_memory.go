package datasource

import (
	"context"
	_ "embed"
	"encoding/json"
	"os"
	"sort"
	"sync"

	"github.com/go-faster/errors"

	"Storefront/internal/catalog"
)

//go:embed products.json
var defaultProducts []byte

type MemStore struct {
	mu sync.RWMutex
	m  map[int]catalog.Product
}

func NewMemStore(products []catalog.Product) *MemStore {
	s := &MemStore{m: make(map[int]catalog.Product, len(products))}
	s.Replace(products)
	return s
}

// NewDefaultMemStore is seeded with the bundled demo catalog.
func NewDefaultMemStore() *MemStore {
	products, err := DefaultProducts()
	if err != nil {
		panic(err)
	}
	return NewMemStore(products)
}

// NewFileMemStore loads a JSON array of products from path.
func NewFileMemStore(path string) (*MemStore, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read catalog file")
	}
	products, err := decodeProducts(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	return NewMemStore(products), nil
}

func DefaultProducts() ([]catalog.Product, error) {
	products, err := decodeProducts(defaultProducts)
	if err != nil {
		return nil, errors.Wrap(err, "decode bundled catalog")
	}
	return products, nil
}

func decodeProducts(raw []byte) ([]catalog.Product, error) {
	var products []catalog.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Replace swaps the whole catalog. Later duplicates of an id win.
func (s *MemStore) Replace(products []catalog.Product) {
	m := make(map[int]catalog.Product, len(products))
	for _, p := range products {
		m[p.ID] = p
	}

	s.mu.Lock()
	s.m = m
	s.mu.Unlock()
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) List(ctx context.Context) ([]catalog.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]catalog.Product, 0, len(s.m))
	for _, p := range s.m {
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
