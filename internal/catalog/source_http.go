package catalog

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

// ProductsPath is the fixed resource the data source publishes the catalog at.
const ProductsPath = "/data/products.json"

const (
	defaultTimeout  = 3 * time.Second
	requestIDHeader = "X-Request-Id"
)

var ErrBadStatus = errors.New("catalog bad status")

// HTTPSource reads the catalog from a data source over HTTP.
type HTTPSource struct {
	BaseURL string
	Client  *http.Client
	Metrics *SourceMetrics
}

// NewHTTPSource builds a source for baseURL. A zero timeout falls back to
// three seconds.
func NewHTTPSource(baseURL string, timeout time.Duration) *HTTPSource {
	if u, err := url.Parse(baseURL); err == nil && u.Scheme != "" && u.Host != "" {
		baseURL = strings.TrimRight(baseURL, "/")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPSource{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: timeout},
	}
}

func (s *HTTPSource) Products(ctx context.Context) ([]Product, error) {
	start := time.Now()
	products, err := s.fetch(ctx)
	s.Metrics.observe(err, time.Since(start))
	return products, err
}

func (s *HTTPSource) fetch(ctx context.Context) ([]Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+ProductsPath, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, requestID(ctx))

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fetch products")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, errors.Wrapf(ErrBadStatus, "status=%d", resp.StatusCode)
	}

	var products []Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, errors.Wrap(err, "decode products")
	}
	return products, nil
}

// requestID forwards the id chi assigned to the inbound request, so one id
// follows a storefront call into the data source logs.
func requestID(ctx context.Context) string {
	if id := chimw.GetReqID(ctx); id != "" {
		return id
	}
	return uuid.NewString()
}

const (
	resultOK    = "ok"
	resultError = "error"
)

type SourceMetrics struct {
	Fetches  *prometheus.CounterVec
	Duration prometheus.Histogram
}

func NewSourceMetrics(reg prometheus.Registerer) *SourceMetrics {
	m := &SourceMetrics{
		Fetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_source_fetch_total",
				Help: "Catalog fetches by result",
			},
			[]string{"result"},
		),
		Duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name: "catalog_source_fetch_duration_seconds",
				Help: "Catalog fetch latency",
			},
		),
	}

	reg.MustRegister(m.Fetches, m.Duration)
	return m
}

func (m *SourceMetrics) observe(err error, took time.Duration) {
	if m == nil {
		return
	}
	result := resultOK
	if err != nil {
		result = resultError
	}
	m.Fetches.WithLabelValues(result).Inc()
	m.Duration.Observe(took.Seconds())
}
