package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Simplici0/referral-roi/internal/apperr"
	"github.com/Simplici0/referral-roi/internal/licensing"
	"github.com/Simplici0/referral-roi/internal/metrics"
	"github.com/Simplici0/referral-roi/internal/payload"
	"github.com/Simplici0/referral-roi/internal/render"
	"github.com/Simplici0/referral-roi/internal/roi"
	"github.com/Simplici0/referral-roi/internal/store"
)

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleCalculate(kind roi.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		calc, err := s.calculate(r, kind)
		if err != nil {
			outcome := metrics.OutcomeRejected
			if apperr.From(err).Status >= http.StatusInternalServerError {
				outcome = metrics.OutcomeFailed
			}
			metrics.ObserveCalculation(string(kind), outcome, time.Since(start))
			s.writeError(w, r, err)
			return
		}
		metrics.ObserveCalculation(string(kind), metrics.OutcomeOK, time.Since(start))

		if r.URL.Query().Get("format") == "text" {
			s.writeText(w, r, calc)
			return
		}
		s.writeJSON(w, r, http.StatusOK, calc)
	}
}

func (s *server) calculate(r *http.Request, kind roi.Kind) (roi.Calculation, error) {
	doc, err := payload.DecodeJSON(r.Body)
	if err != nil {
		return nil, apperr.InvalidBody(err)
	}

	var catalog []licensing.LineItem
	if kind == roi.Licensing {
		catalog, err = s.activeCatalog(r)
		if err != nil {
			return nil, apperr.Internal(err)
		}
	}

	calc, err := roi.Run(kind, doc, catalog)
	if err != nil {
		var verr *payload.ValidationError
		if errors.As(err, &verr) {
			return nil, apperr.InvalidInput(verr)
		}
		return nil, apperr.Internal(err)
	}
	return calc, nil
}

func (s *server) activeCatalog(r *http.Request) ([]licensing.LineItem, error) {
	if s.catalog == nil {
		return licensing.DefaultCatalog(), nil
	}
	lines, err := s.catalog.Active(r.Context())
	if err != nil {
		return nil, err
	}
	metrics.CatalogLines.Set(float64(len(lines)))
	return lines, nil
}

func (s *server) writeText(w http.ResponseWriter, r *http.Request, calc roi.Calculation) {
	var buf bytes.Buffer
	if err := render.Write(&buf, calc.Sections()...); err != nil {
		s.writeError(w, r, apperr.Internal(err))
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *server) handleLineItemsList(w http.ResponseWriter, r *http.Request) {
	items, err := s.catalog.List(r.Context())
	if err != nil {
		s.writeError(w, r, apperr.Internal(err))
		return
	}
	s.writeJSON(w, r, http.StatusOK, map[string]any{
		"line_items": items,
		"fields":     licensing.Fields(items),
	})
}

func (s *server) handleLineItemGet(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	li, err := s.catalog.Get(r.Context(), key)
	if err != nil {
		s.writeError(w, r, catalogError(err, key))
		return
	}
	s.writeJSON(w, r, http.StatusOK, li)
}

// lineItemRequest is the body of PUT /line-items/{key}. Active defaults to
// true when omitted.
type lineItemRequest struct {
	Label               string `json:"label"`
	ScaleByCoordinators bool   `json:"scale_by_coordinators"`
	Annualize           bool   `json:"annualize"`
	Position            int    `json:"position"`
	Active              *bool  `json:"active"`
}

func (s *server) handleLineItemPut(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	var req lineItemRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, apperr.InvalidBody(err))
		return
	}

	li := licensing.LineItem{
		Key:                 key,
		Label:               req.Label,
		ScaleByCoordinators: req.ScaleByCoordinators,
		Annualize:           req.Annualize,
		Position:            req.Position,
		Active:              req.Active == nil || *req.Active,
	}
	created, err := s.catalog.Upsert(r.Context(), li)
	if err != nil {
		s.writeError(w, r, catalogError(err, key))
		return
	}

	stored, err := s.catalog.Get(r.Context(), key)
	if err != nil {
		s.writeError(w, r, catalogError(err, key))
		return
	}

	s.log.Info("line item saved", zap.String("key", key), zap.Bool("created", created))
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	s.writeJSON(w, r, status, stored)
}

func catalogError(err error, key string) error {
	var verr *payload.ValidationError
	switch {
	case errors.As(err, &verr):
		return apperr.InvalidInput(verr)
	case errors.Is(err, store.ErrDuplicateLabel):
		return apperr.InvalidInput(err)
	case errors.Is(err, store.ErrNotFound):
		return apperr.NotFound("line item " + key)
	}
	return apperr.Internal(err)
}
