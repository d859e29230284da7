package storefront_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"Storefront/internal/catalog"
	"Storefront/internal/datasource"
	"Storefront/internal/storefront"
)

func mugs() []catalog.Product {
	return []catalog.Product{
		{ID: 1, Title: "Red Mug", Price: decimal.NewFromInt(5), ImageURL: "/img/red.png", Categories: []string{"kitchen"}},
		{ID: 2, Title: "Blue Mug", Price: decimal.NewFromInt(15), ImageURL: "/img/blue.png", Categories: []string{"kitchen", "gift"}},
		{ID: 3, Title: "Gift Card", Price: decimal.NewFromInt(25), Categories: []string{"gift"}},
	}
}

func newCatalogTS(t *testing.T, store datasource.Store) *httptest.Server {
	t.Helper()

	h := datasource.NewHandler(&datasource.Server{Store: store, Log: zap.NewNop()}, datasource.HTTPDeps{
		Log:     zap.NewNop(),
		Service: "catalog",
	})
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts
}

func newStorefrontTS(t *testing.T, catalogURL string, deps storefront.HTTPDeps) *httptest.Server {
	t.Helper()

	s := &storefront.Server{
		Query: catalog.NewQuery(catalog.NewHTTPSource(catalogURL, 0)),
		Log:   zap.NewNop(),
	}

	deps.Log = zap.NewNop()
	deps.Service = "storefront"
	if deps.CatalogURL == "" {
		deps.CatalogURL = catalogURL
	}

	ts := httptest.NewServer(storefront.NewHandler(s, deps))
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, rawURL string, out any) *http.Response {
	t.Helper()

	resp, err := http.Get(rawURL)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	if out != nil {
		require.NoError(t, json.Unmarshal(raw, out), "body=%s", raw)
	}
	return resp
}

func productIDs(products []catalog.Product) []int {
	out := make([]int, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestStorefront_ListAndCategory(t *testing.T) {
	sf := newStorefrontTS(t, newCatalogTS(t, datasource.NewMemStore(mugs())).URL, storefront.HTTPDeps{})

	var all []catalog.Product
	resp := getJSON(t, sf.URL+"/products", &all)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []int{1, 2, 3}, productIDs(all))
	assert.Equal(t, "/img/blue.png", all[1].ImageURL)

	var gift []catalog.Product
	resp = getJSON(t, sf.URL+"/products?category=gift", &gift)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []int{2, 3}, productIDs(gift))

	var raw json.RawMessage
	getJSON(t, sf.URL+"/products?category=garden", &raw)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestStorefront_ByID(t *testing.T) {
	sf := newStorefrontTS(t, newCatalogTS(t, datasource.NewMemStore(mugs())).URL, storefront.HTTPDeps{})

	var p catalog.Product
	resp := getJSON(t, sf.URL+"/products/2", &p)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Blue Mug", p.Title)
	assert.True(t, p.Price.Equal(decimal.NewFromInt(15)))

	var e struct {
		Error     string `json:"error"`
		RequestID string `json:"request_id"`
	}
	resp = getJSON(t, sf.URL+"/products/999", &e)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "not found", e.Error)
	assert.NotEmpty(t, e.RequestID)

	resp = getJSON(t, sf.URL+"/products/abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStorefront_Categories(t *testing.T) {
	sf := newStorefrontTS(t, newCatalogTS(t, datasource.NewMemStore(mugs())).URL, storefront.HTTPDeps{})

	var cats []string
	resp := getJSON(t, sf.URL+"/categories", &cats)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"kitchen", "gift"}, cats)
}

func TestStorefront_Search(t *testing.T) {
	sf := newStorefrontTS(t, newCatalogTS(t, datasource.NewMemStore(mugs())).URL, storefront.HTTPDeps{})

	cases := []struct {
		name  string
		query url.Values
		want  []int
	}{
		{name: "no params", query: url.Values{}, want: []int{1, 2, 3}},
		{name: "blank params are absent", query: url.Values{"title": {""}, "minPrice": {" "}}, want: []int{1, 2, 3}},
		{name: "title and max", query: url.Values{"title": {"mug"}, "maxPrice": {"10"}}, want: []int{1}},
		{name: "min only", query: url.Values{"minPrice": {"15"}}, want: []int{2, 3}},
		{name: "range", query: url.Values{"minPrice": {"10"}, "maxPrice": {"20"}}, want: []int{2}},
		{name: "zero max", query: url.Values{"maxPrice": {"0"}}, want: []int{}},
		{name: "title case", query: url.Values{"title": {"CARD"}}, want: []int{3}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got []catalog.Product
			resp := getJSON(t, sf.URL+"/products/search?"+tc.query.Encode(), &got)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, tc.want, productIDs(got))
		})
	}
}

func TestStorefront_SearchBadPrice(t *testing.T) {
	sf := newStorefrontTS(t, newCatalogTS(t, datasource.NewMemStore(mugs())).URL, storefront.HTTPDeps{})

	var e struct {
		Error string `json:"error"`
	}
	resp := getJSON(t, sf.URL+"/products/search?minPrice=cheap", &e)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "bad minPrice", e.Error)
}

func TestStorefront_CatalogBadStatus(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(broken.Close)

	sf := newStorefrontTS(t, broken.URL, storefront.HTTPDeps{})

	for _, path := range []string{"/products", "/products/1", "/categories", "/products/search?title=x"} {
		resp := getJSON(t, sf.URL+path, nil)
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode, path)
	}

	resp := getJSON(t, sf.URL+"/readyz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestStorefront_CatalogUnreachable(t *testing.T) {
	gone := httptest.NewServer(http.NotFoundHandler())
	goneURL := gone.URL
	gone.Close()

	sf := newStorefrontTS(t, goneURL, storefront.HTTPDeps{})

	resp := getJSON(t, sf.URL+"/products", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	resp = getJSON(t, sf.URL+"/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestStorefront_ReadyWhenCatalogReady(t *testing.T) {
	sf := newStorefrontTS(t, newCatalogTS(t, datasource.NewMemStore(mugs())).URL, storefront.HTTPDeps{})

	resp := getJSON(t, sf.URL+"/readyz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestStorefront_RateLimit(t *testing.T) {
	sf := newStorefrontTS(t, newCatalogTS(t, datasource.NewMemStore(mugs())).URL, storefront.HTTPDeps{
		RateLimit: 0.001,
		RateBurst: 2,
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		codes = append(codes, getJSON(t, sf.URL+"/categories", nil).StatusCode)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	resp := getJSON(t, sf.URL+"/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestStorefront_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	sf := newStorefrontTS(t, newCatalogTS(t, datasource.NewMemStore(mugs())).URL, storefront.HTTPDeps{
		Registry:       reg,
		MetricsEnabled: true,
		MetricsToken:   "tok",
	})

	getJSON(t, sf.URL+"/products/1", nil)

	req, err := http.NewRequest(http.MethodGet, sf.URL+"/metrics", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer tok")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `path="/products/{id}"`)
}
