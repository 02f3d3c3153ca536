package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/referral-roi/internal/apperr"
	"github.com/Simplici0/referral-roi/internal/licensing"
	"github.com/Simplici0/referral-roi/internal/store"
)

type fakeCatalog struct {
	items   []licensing.LineItem
	err     error
	explode bool
}

func (f *fakeCatalog) List(context.Context) ([]licensing.LineItem, error) {
	return slices.Clone(f.items), f.err
}

func (f *fakeCatalog) Active(context.Context) ([]licensing.LineItem, error) {
	if f.explode {
		panic("catalog exploded")
	}
	if f.err != nil {
		return nil, f.err
	}
	var active []licensing.LineItem
	for _, li := range f.items {
		if li.Active {
			active = append(active, li)
		}
	}
	return active, nil
}

func (f *fakeCatalog) Get(_ context.Context, key string) (licensing.LineItem, error) {
	for _, li := range f.items {
		if li.Key == key {
			return li, nil
		}
	}
	return licensing.LineItem{}, fmt.Errorf("%w: %s", store.ErrNotFound, key)
}

func (f *fakeCatalog) Upsert(_ context.Context, li licensing.LineItem) (bool, error) {
	if err := li.Validate(); err != nil {
		return false, err
	}
	for i, existing := range f.items {
		if existing.Key != li.Key && existing.Label == li.Label {
			return false, fmt.Errorf("%w: %q", store.ErrDuplicateLabel, li.Label)
		}
		if existing.Key == li.Key {
			f.items[i] = li
			return false, nil
		}
	}
	f.items = append(f.items, li)
	return true, nil
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		blob, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(blob)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func efficiencyBody() map[string]any {
	return map[string]any{
		"num_referral_coordinators":                  "70",
		"avg_annual_referral_volume_per_coordinator": "3,000",
		"distribution_easy_pct":                      60,
		"distribution_moderate_pct":                  25,
		"distribution_complex_pct":                   15,
		"loaded_labor_cost_per_hour":                 "45",
		"easy_efficiency_gain":                       "67",
		"moderate_efficiency_gain":                   "63",
		"complex_efficiency_gain":                    "53",
		"touch_time_easy_pct":                        "60",
		"touch_time_moderate_pct":                    "10",
		"touch_time_complex_pct":                     "6",
		"baseline_time_easy_hrs":                     "0.25",
		"baseline_time_moderate_hrs":                 "8",
		"baseline_time_complex_hrs":                  "40",
		"referral_complexity_touch_time_easy":        "5",
		"referral_complexity_touch_time_moderate":    "5",
		"referral_complexity_touch_time_complex":     "5",
	}
}

func licensingBody() map[string]any {
	return map[string]any{
		"referral_coordinators":    "10",
		"hcls_monthly":             "100",
		"assists_monthly":          "50.50",
		"docintel_monthly":         "2,000",
		"workflow_standard_yearly": "5000",
		"workflow_pro_yearly":      "30,000",
	}
}

func TestCalculateEfficiency(t *testing.T) {
	h := NewRouter(Options{})

	rec := do(t, h, http.MethodPost, "/calculate-referral-efficiency", efficiencyBody())

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.InDelta(t, 210000, body["annual_referral_volume"], 1e-6)
	assert.InDelta(t, 126000, body["total_easy_referrals"], 1e-6)
	assert.InDelta(t, 136500, body["labor_hours_baseline"], 1e-6)
	assert.InDelta(t, 37899.75, body["labor_hours_with_ai"], 1e-6)
	assert.InDelta(t, 4437011.25, body["annual_labor_cost_saved"], 1e-6)

	work, ok := body["baseline_work_hours"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 0.15, work["easy"], 1e-9)
	assert.InDelta(t, 2.4, work["complex"], 1e-9)
}

func TestCalculateRevenue(t *testing.T) {
	h := NewRouter(Options{})

	rec := do(t, h, http.MethodPost, "/calculate-referral-impact", map[string]any{
		"referral_opportunity":              "40",
		"referral_value":                    100,
		"baseline_leakage_rate_pct":         "55",
		"baseline_completed_visit_rate_pct": "40",
		"ai_leakage_rate_pct":               "30",
		"ai_completed_visit_rate_pct":       " 60 ",
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body map[string]float64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.InDelta(t, 4000, body["total_possible_referral_revenue"], 1e-9)
	assert.InDelta(t, 2400, body["ai_revenue"], 1e-9)
	assert.InDelta(t, 800, body["ai_revenue_impact"], 1e-9)
}

func TestCalculateLicensing_DefaultCatalog(t *testing.T) {
	h := NewRouter(Options{})

	rec := do(t, h, http.MethodPost, "/calculate", licensingBody())

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t,
		`{"HCLS-SM Professional v3 - Fulfiller":12000,`+
			`"Assists - Fulfiller":6060,`+
			`"Document Intelligence 100K Pages":24000,`+
			`"Workflow Data Fabric Standard 5K Pages":5000,`+
			`"Workflow Data Fabric Pro V3 100K Pages":30000,`+
			`"Total Licensing Expense":77060}`+"\n",
		rec.Body.String())
}

func TestCalculate_RejectsInvalidInput(t *testing.T) {
	h := NewRouter(Options{})

	body := efficiencyBody()
	body["loaded_labor_cost_per_hour"] = "abc"
	body["touch_time_easy_pct"] = "-5"
	delete(body, "baseline_time_complex_hrs")

	rec := do(t, h, http.MethodPost, "/calculate-referral-efficiency", body)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	got := decodeError(t, rec)
	assert.Equal(t, apperr.CodeInvalidInput, got.Code)
	assert.Equal(t, "invalid input: "+
		"loaded_labor_cost_per_hour must be numeric; "+
		"touch_time_easy_pct must be greater than or equal to 0; "+
		"baseline_time_complex_hrs is required", got.Detail)
}

func TestCalculate_RejectsWrongJSONType(t *testing.T) {
	h := NewRouter(Options{})

	body := licensingBody()
	body["hcls_monthly"] = true

	rec := do(t, h, http.MethodPost, "/calculate", body)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	got := decodeError(t, rec)
	assert.Equal(t, apperr.CodeInvalidInput, got.Code)
	assert.Contains(t, got.Detail, "hcls_monthly must be a number or a numeric string")
}

func TestCalculate_RejectsNonObjectBody(t *testing.T) {
	h := NewRouter(Options{})

	for _, raw := range []string{`[1, 2]`, `{"a":`, `"text"`} {
		rec := do(t, h, http.MethodPost, "/calculate-referral-impact", raw)

		require.Equal(t, http.StatusBadRequest, rec.Code, raw)
		assert.Equal(t, apperr.CodeInvalidBody, decodeError(t, rec).Code, raw)
	}
}

func TestCalculate_RejectsHugeExponents(t *testing.T) {
	h := NewRouter(Options{})

	body := licensingBody()
	body["hcls_monthly"] = "1e-8000000"
	body["docintel_monthly"] = json.Number("1e-8000000")
	body["workflow_pro_yearly"] = json.Number("1e8000000")

	start := time.Now()
	rec := do(t, h, http.MethodPost, "/calculate", body)
	assert.Less(t, time.Since(start), time.Second)

	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	got := decodeError(t, rec)
	assert.Equal(t, apperr.CodeInvalidInput, got.Code)
	assert.Equal(t, "invalid input: "+
		"hcls_monthly must have at most 16 decimal places; "+
		"docintel_monthly must have at most 16 decimal places; "+
		"workflow_pro_yearly must not exceed 1,000,000,000,000", got.Detail)
}

func TestCalculate_RejectsTrailingData(t *testing.T) {
	h := NewRouter(Options{})

	rec := do(t, h, http.MethodPost, "/calculate-referral-impact", `{"referral_opportunity":40} trailing garbage`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apperr.CodeInvalidBody, decodeError(t, rec).Code)
}

func TestCalculate_RejectsOversizedBody(t *testing.T) {
	h := NewRouter(Options{MaxBodyBytes: 32})

	rec := do(t, h, http.MethodPost, "/calculate", licensingBody())

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apperr.CodeInvalidBody, decodeError(t, rec).Code)
}

func TestCalculate_TextFormat(t *testing.T) {
	h := NewRouter(Options{})

	rec := do(t, h, http.MethodPost, "/calculate-referral-efficiency?format=text", efficiencyBody())

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	out := rec.Body.String()
	assert.True(t, strings.HasPrefix(out, "Summary Output\n"))
	assert.Contains(t, out, "Annual Labor Cost Saved ($)")
	assert.Contains(t, out, "$4,437,011.25")
}

func TestCalculateLicensing_CatalogFailureIsInternal(t *testing.T) {
	h := NewRouter(Options{Catalog: &fakeCatalog{err: errors.New("database is locked")}})

	rec := do(t, h, http.MethodPost, "/calculate", licensingBody())

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	got := decodeError(t, rec)
	assert.Equal(t, apperr.CodeInternal, got.Code)
	assert.Equal(t, apperr.GenericMessage, got.Detail)
}

func TestRecoverer_ReturnsGenericError(t *testing.T) {
	h := NewRouter(Options{Catalog: &fakeCatalog{explode: true}})

	rec := do(t, h, http.MethodPost, "/calculate", licensingBody())

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, apperr.GenericMessage, decodeError(t, rec).Detail)
}

func TestLineItems_ReadOnlyByDefault(t *testing.T) {
	catalog := &fakeCatalog{items: licensing.DefaultCatalog()}
	h := NewRouter(Options{Catalog: catalog})

	rec := do(t, h, http.MethodGet, "/line-items", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		LineItems []licensing.LineItem `json:"line_items"`
		Fields    []string             `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list.LineItems, 5)
	assert.Equal(t, licensing.CoordinatorsField, list.Fields[0])

	rec = do(t, h, http.MethodGet, "/line-items/hcls_monthly", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"scale_by_coordinators":true`)

	rec = do(t, h, http.MethodGet, "/line-items/unknown", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "line item unknown not found", decodeError(t, rec).Detail)

	rec = do(t, h, http.MethodPut, "/line-items/hcls_monthly", map[string]any{"label": "x"})
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestLineItems_EditableCatalogDrivesLicensing(t *testing.T) {
	catalog := &fakeCatalog{items: licensing.DefaultCatalog()}
	h := NewRouter(Options{Catalog: catalog, EditableLineItems: true})

	rec := do(t, h, http.MethodPut, "/line-items/support_yearly", map[string]any{
		"label":    "Premium Support",
		"position": 60,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/calculate", licensingBody())
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid input: support_yearly is required", decodeError(t, rec).Detail)

	body := licensingBody()
	body["support_yearly"] = "1,000"
	rec = do(t, h, http.MethodPost, "/calculate", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, strings.HasSuffix(rec.Body.String(), `"Premium Support":1000,"Total Licensing Expense":78060}`+"\n"))

	rec = do(t, h, http.MethodPut, "/line-items/support_yearly", map[string]any{
		"label":  "Premium Support",
		"active": false,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPost, "/calculate", licensingBody())
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestLineItems_PutRejectsBadInput(t *testing.T) {
	catalog := &fakeCatalog{items: licensing.DefaultCatalog()}
	h := NewRouter(Options{Catalog: catalog, EditableLineItems: true})

	rec := do(t, h, http.MethodPut, "/line-items/other", map[string]any{"label": "Assists - Fulfiller"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apperr.CodeInvalidInput, decodeError(t, rec).Code)

	rec = do(t, h, http.MethodPut, "/line-items/other", map[string]any{"label": "Other", "colour": "red"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apperr.CodeInvalidBody, decodeError(t, rec).Code)

	rec = do(t, h, http.MethodPut, "/line-items/Bad-Key", map[string]any{"label": "Other"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec).Detail, "key must contain only lowercase letters")
}

func TestRequestID(t *testing.T) {
	h := NewRouter(Options{})

	rec := do(t, h, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.Len(t, rec.Header().Get(requestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}

func TestUnknownRouteIsJSON(t *testing.T) {
	h := NewRouter(Options{})

	rec := do(t, h, http.MethodGet, "/nope", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, apperr.CodeNotFound, decodeError(t, rec).Code)
}

func TestCORSPreflight(t *testing.T) {
	h := NewRouter(Options{AllowedOrigins: []string{"https://roi.example.com"}})

	req := httptest.NewRequest(http.MethodOptions, "/calculate", nil)
	req.Header.Set("Origin", "https://roi.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "https://roi.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	h := NewRouter(Options{})
	do(t, h, http.MethodPost, "/calculate-referral-impact", `{}`)

	rec := do(t, h, http.MethodGet, "/metrics", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `roi_calculations_total{calculator="revenue",outcome="rejected"}`)
}
