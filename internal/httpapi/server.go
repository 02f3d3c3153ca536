// Package httpapi exposes the calculators and the line-item catalog over HTTP.
package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Simplici0/referral-roi/internal/apperr"
	"github.com/Simplici0/referral-roi/internal/licensing"
	"github.com/Simplici0/referral-roi/internal/roi"
)

const defaultMaxBodyBytes = 1 << 20

// LineItemCatalog is the licensing catalog the server reads and edits.
type LineItemCatalog interface {
	List(ctx context.Context) ([]licensing.LineItem, error)
	Active(ctx context.Context) ([]licensing.LineItem, error)
	Get(ctx context.Context, key string) (licensing.LineItem, error)
	Upsert(ctx context.Context, li licensing.LineItem) (bool, error)
}

// Options configures the router.
type Options struct {
	// Catalog supplies the licensing lines. When nil the built-in default
	// catalog is used and the line-item routes are not mounted.
	Catalog           LineItemCatalog
	Logger            *zap.Logger
	AllowedOrigins    []string
	EditableLineItems bool
	MaxBodyBytes      int64
}

type server struct {
	catalog  LineItemCatalog
	log      *zap.Logger
	editable bool
	maxBody  int64
}

// NewRouter builds the HTTP handler of the service.
func NewRouter(opts Options) http.Handler {
	s := &server{
		catalog:  opts.Catalog,
		log:      opts.Logger,
		editable: opts.EditableLineItems,
		maxBody:  opts.MaxBodyBytes,
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.maxBody <= 0 {
		s.maxBody = defaultMaxBodyBytes
	}

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.accessLog)
	r.Use(s.recoverer)
	r.Use(s.limitBody)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, apperr.NotFound("route "+r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, apperr.MethodNotAllowed(r.Method))
	})

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/calculate", s.handleCalculate(roi.Licensing))
	r.Post("/calculate-referral-efficiency", s.handleCalculate(roi.Efficiency))
	r.Post("/calculate-referral-impact", s.handleCalculate(roi.Revenue))

	if s.catalog != nil {
		r.Route("/line-items", func(r chi.Router) {
			r.Get("/", s.handleLineItemsList)
			r.Get("/{key}", s.handleLineItemGet)
			if s.editable {
				r.Put("/{key}", s.handleLineItemPut)
			}
		})
	}

	return r
}
