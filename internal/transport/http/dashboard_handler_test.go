package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "salespulse/internal/errors"
	"salespulse/internal/services"
	"salespulse/pkg/contracts/domain"
)

type fakeDashboard struct {
	snap *services.Snapshot
	err  error
}

func (f *fakeDashboard) Snapshot() (*services.Snapshot, error) {
	return f.snap, f.err
}

func testSnapshot() *services.Snapshot {
	return &services.Snapshot{
		Bundle: domain.ResultBundle{
			KPIs: domain.KPIs{
				TotalSales:        decimal.RequireFromString("60"),
				TotalQuantity:     decimal.RequireFromString("6"),
				AverageOrderValue: decimal.NewNullDecimal(decimal.RequireFromString("20")),
				TotalOrders:       3,
				UniqueCustomers:   2,
			},
			CategorySales: []domain.GroupTotal{
				{Key: "Garden", Total: decimal.RequireFromString("5")},
				{Key: "Home", Total: decimal.RequireFromString("40")},
				{Key: "Office", Total: decimal.RequireFromString("15")},
			},
			RegionSales: []domain.GroupTotal{
				{Key: "North", Total: decimal.RequireFromString("30")},
				{Key: "South", Total: decimal.RequireFromString("30")},
			},
			MonthlySales: []domain.MonthTotal{
				{Month: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Label: "2024-01", Total: decimal.RequireFromString("60")},
			},
			TopProducts: []domain.GroupTotal{
				{Key: "Lamp", Total: decimal.RequireFromString("40")},
				{Key: "Desk", Total: decimal.RequireFromString("15")},
				{Key: "Rake", Total: decimal.RequireFromString("5")},
			},
			Feedback: domain.FeedbackDistribution{
				Counts: []domain.ValueCount{
					{Value: "Positive", Count: 2},
					{Value: "Neutral", Count: 0},
					{Value: "Negative", Count: 1},
				},
			},
			Methods: domain.MethodCounts{
				Payment:  []domain.ValueCount{{Value: "Card", Count: 3}},
				Shipping: []domain.ValueCount{{Value: "Air", Count: 3}},
				Combined: []domain.MethodUsage{{Label: "Air", Shipping: 3}, {Label: "Card", Payment: 3}},
			},
		},
		Metadata: services.LoadMetadata{SourcePath: "data/sales.xlsx", Sheet: "Sales Report", Rows: 4, ActiveOrders: 3, Cancelled: 1},
		ETag:     `"00000000deadbeef"`,
	}
}

func newTestRouter(svc DashboardServiceInterface) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewDashboardHandler(svc, logger, apierrors.NewErrorHandler(logger, false)).Routes()
}

func get(t *testing.T, h http.Handler, target string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func groupKeys(t *testing.T, body []byte) []string {
	t.Helper()
	var groups []struct {
		Key   string `json:"key"`
		Total string `json:"total"`
	}
	require.NoError(t, json.Unmarshal(body, &groups))
	keys := make([]string, 0, len(groups))
	for _, g := range groups {
		keys = append(keys, g.Key)
	}
	return keys
}

func TestDashboardHandler_NotReady(t *testing.T) {
	router := newTestRouter(&fakeDashboard{err: services.ErrBundleNotReady})

	for _, path := range []string{"/summary", "/kpis", "/sales/category"} {
		rec := get(t, router, path, nil)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, path)

		var problem map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
		assert.Equal(t, apierrors.TypeDataNotReady, problem["type"])
		assert.Empty(t, rec.Header().Get("ETag"))
	}
}

func TestDashboardHandler_Summary(t *testing.T) {
	router := newTestRouter(&fakeDashboard{snap: testSnapshot()})

	rec := get(t, router, "/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `"00000000deadbeef"`, rec.Header().Get("ETag"))
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	for _, key := range []string{"kpis", "category_sales", "region_sales", "monthly_sales", "top_products", "feedback", "methods", "metadata"} {
		assert.Contains(t, body, key)
	}
	assert.JSONEq(t, `{"total_sales":"60","total_quantity":"6","average_order_value":"20","total_orders":3,"unique_customers":2}`, string(body["kpis"]))
}

func TestDashboardHandler_ConditionalGet(t *testing.T) {
	router := newTestRouter(&fakeDashboard{snap: testSnapshot()})

	rec := get(t, router, "/summary", map[string]string{"If-None-Match": `"00000000deadbeef"`})
	assert.Equal(t, http.StatusNotModified, rec.Code)
	assert.Empty(t, rec.Body.Bytes())

	rec = get(t, router, "/kpis", map[string]string{"If-None-Match": `"stale"`})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDashboardHandler_GroupSorting(t *testing.T) {
	snap := testSnapshot()
	router := newTestRouter(&fakeDashboard{snap: snap})

	tests := []struct {
		target string
		want   []string
	}{
		{"/sales/category", []string{"Garden", "Office", "Home"}},
		{"/sales/category?sort=total_asc", []string{"Garden", "Office", "Home"}},
		{"/sales/category?sort=total_desc", []string{"Home", "Office", "Garden"}},
		{"/sales/category?sort=key", []string{"Garden", "Home", "Office"}},
		{"/sales/region?sort=total_desc", []string{"North", "South"}},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := get(t, router, tt.target, nil)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, groupKeys(t, rec.Body.Bytes()))
		})
	}

	assert.Equal(t, "Garden", snap.Bundle.CategorySales[0].Key)
	assert.Equal(t, "Home", snap.Bundle.CategorySales[1].Key)
}

func TestDashboardHandler_InvalidSort(t *testing.T) {
	router := newTestRouter(&fakeDashboard{snap: testSnapshot()})

	rec := get(t, router, "/sales/category?sort=random", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, apierrors.TypeValidation, problem["type"])
	assert.Equal(t, "VALIDATION_FAILED", problem["error_code"])
}

func TestDashboardHandler_TopProducts(t *testing.T) {
	router := newTestRouter(&fakeDashboard{snap: testSnapshot()})

	rec := get(t, router, "/products/top", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Lamp", "Desk", "Rake"}, groupKeys(t, rec.Body.Bytes()))

	rec = get(t, router, "/products/top?limit=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Lamp", "Desk"}, groupKeys(t, rec.Body.Bytes()))

	rec = get(t, router, "/products/top?limit=50", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, groupKeys(t, rec.Body.Bytes()), 3)

	for _, bad := range []string{"0", "-1", "ten"} {
		rec = get(t, router, "/products/top?limit="+bad, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, bad)
	}
}

func TestDashboardHandler_Tables(t *testing.T) {
	router := newTestRouter(&fakeDashboard{snap: testSnapshot()})

	tests := []struct {
		target string
		want   string
	}{
		{"/sales/monthly", `[{"month":"2024-01-01T00:00:00Z","label":"2024-01","total":"60"}]`},
		{"/feedback", `{"counts":[{"value":"Positive","count":2},{"value":"Neutral","count":0},{"value":"Negative","count":1}],"unclassified":0}`},
		{"/methods", `{"payment":[{"value":"Card","count":3}],"shipping":[{"value":"Air","count":3}],"combined":[{"label":"Air","payment":0,"shipping":3},{"label":"Card","payment":3,"shipping":0}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := get(t, router, tt.target, nil)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, tt.want, rec.Body.String())
		})
	}

	rec := get(t, router, "/metadata", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var meta services.LoadMetadata
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &meta))
	assert.Equal(t, 3, meta.ActiveOrders)
}

func TestSortGroups_DoesNotModifyInput(t *testing.T) {
	in := []domain.GroupTotal{
		{Key: "b", Total: decimal.RequireFromString("1")},
		{Key: "a", Total: decimal.RequireFromString("1")},
		{Key: "c", Total: decimal.RequireFromString("0")},
	}

	out, err := SortGroups(in, SortByTotalDesc)
	require.NoError(t, err)

	assert.Equal(t, "a", out[0].Key)
	assert.Equal(t, "b", out[1].Key)
	assert.Equal(t, "c", out[2].Key)
	assert.Equal(t, "b", in[0].Key)

	empty, err := SortGroups(nil, "")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}
