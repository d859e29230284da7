package storefront

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"Storefront/internal/catalog"
	"Storefront/pkg/kit"
)

type Server struct {
	Query *catalog.Query
	Log   *zap.Logger
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/products", s.list)
	r.Get("/products/search", s.search)
	r.Get("/products/{id}", s.get)
	r.Get("/categories", s.categories)

	return r
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	var (
		products []catalog.Product
		err      error
	)

	if c := r.URL.Query().Get("category"); c != "" {
		products, err = s.Query.ByCategory(r.Context(), c)
	} else {
		products, err = s.Query.All(r.Context())
	}
	if err != nil {
		s.writeSourceError(w, r, err)
		return
	}
	kit.WriteList(w, http.StatusOK, products)
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad id", map[string]any{"id": raw})
		return
	}

	p, found, err := s.Query.ByID(r.Context(), id)
	if err != nil {
		s.writeSourceError(w, r, err)
		return
	}
	if !found {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	kit.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) categories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.Query.DistinctCategories(r.Context())
	if err != nil {
		s.writeSourceError(w, r, err)
		return
	}
	kit.WriteList(w, http.StatusOK, categories)
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	sp, err := parseSearchParams(r.URL.Query())
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}

	products, err := s.Query.Search(r.Context(), sp)
	if err != nil {
		s.writeSourceError(w, r, err)
		return
	}
	kit.WriteList(w, http.StatusOK, products)
}

// parseSearchParams treats a missing or blank value as an absent parameter.
func parseSearchParams(v url.Values) (catalog.SearchParams, error) {
	var sp catalog.SearchParams

	if t := v.Get("title"); t != "" {
		sp.Title = &t
	}

	var err error
	if sp.MinPrice, err = parsePrice(v, "minPrice"); err != nil {
		return catalog.SearchParams{}, err
	}
	if sp.MaxPrice, err = parsePrice(v, "maxPrice"); err != nil {
		return catalog.SearchParams{}, err
	}
	return sp, nil
}

func parsePrice(v url.Values, key string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(v.Get(key))
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, errors.Errorf("bad %s", key)
	}
	return &d, nil
}

func (s *Server) writeSourceError(w http.ResponseWriter, r *http.Request, err error) {
	if s.Log != nil {
		s.Log.Warn("catalog fetch failed", zap.Error(err))
	}

	switch {
	case errors.Is(err, catalog.ErrBadStatus):
		kit.WriteError(w, r, http.StatusBadGateway, "catalog error", nil)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		kit.WriteError(w, r, http.StatusGatewayTimeout, "timeout", nil)
	default:
		kit.WriteError(w, r, http.StatusServiceUnavailable, "catalog unavailable", nil)
	}
}
