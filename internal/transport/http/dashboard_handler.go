package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "salespulse/internal/errors"
	"salespulse/internal/services"
	"salespulse/pkg/contracts/domain"
)

type snapshotKey struct{}

// Sort orders accepted by the grouped-sales endpoints.
const (
	SortByKey       = "key"
	SortByTotalAsc  = "total_asc"
	SortByTotalDesc = "total_desc"
)

// DashboardHandler serves the result bundle as JSON.
type DashboardHandler struct {
	service      DashboardServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service DashboardServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the dashboard routes
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Use(h.SnapshotCtx)

	r.Get("/summary", h.GetSummary)
	r.Get("/metadata", h.GetMetadata)
	r.Get("/kpis", h.GetKPIs)
	r.Get("/sales/category", h.GetCategorySales)
	r.Get("/sales/region", h.GetRegionSales)
	r.Get("/sales/monthly", h.GetMonthlySales)
	r.Get("/products/top", h.GetTopProducts)
	r.Get("/feedback", h.GetFeedback)
	r.Get("/methods", h.GetMethods)

	return r
}

// SnapshotCtx loads the current snapshot into the request context and answers
// conditional requests. Every dashboard response carries the snapshot ETag,
// and a matching If-None-Match yields 304 Not Modified.
func (h *DashboardHandler) SnapshotCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		snap, err := h.service.Snapshot()
		if err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}

		w.Header().Set("ETag", snap.ETag)
		w.Header().Set("Cache-Control", "no-cache")
		if match := r.Header.Get("If-None-Match"); match != "" && match == snap.ETag {
			w.WriteHeader(http.StatusNotModified)
			return
		}

		ctx := context.WithValue(r.Context(), snapshotKey{}, snap)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func snapshotFrom(r *http.Request) *services.Snapshot {
	snap, _ := r.Context().Value(snapshotKey{}).(*services.Snapshot)
	return snap
}

// SummaryResponse is the whole bundle plus load metadata.
type SummaryResponse struct {
	domain.ResultBundle
	Metadata services.LoadMetadata `json:"metadata"`
}

// GetSummary handles GET /api/dashboard/summary
func (h *DashboardHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	snap := snapshotFrom(r)
	render.JSON(w, r, SummaryResponse{ResultBundle: snap.Bundle, Metadata: snap.Metadata})
}

// GetMetadata handles GET /api/dashboard/metadata
func (h *DashboardHandler) GetMetadata(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, snapshotFrom(r).Metadata)
}

// GetKPIs handles GET /api/dashboard/kpis
func (h *DashboardHandler) GetKPIs(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, snapshotFrom(r).Bundle.KPIs)
}

// GetCategorySales handles GET /api/dashboard/sales/category?sort=
func (h *DashboardHandler) GetCategorySales(w http.ResponseWriter, r *http.Request) {
	h.renderGroups(w, r, snapshotFrom(r).Bundle.CategorySales)
}

// GetRegionSales handles GET /api/dashboard/sales/region?sort=
func (h *DashboardHandler) GetRegionSales(w http.ResponseWriter, r *http.Request) {
	h.renderGroups(w, r, snapshotFrom(r).Bundle.RegionSales)
}

func (h *DashboardHandler) renderGroups(w http.ResponseWriter, r *http.Request, groups []domain.GroupTotal) {
	order := r.URL.Query().Get("sort")
	sorted, err := SortGroups(groups, order)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, sorted)
}

// SortGroups returns a sorted copy of groups; the input is never reordered.
// An empty order means ascending by total, the order dashboards draw bars in.
func SortGroups(groups []domain.GroupTotal, order string) ([]domain.GroupTotal, error) {
	out := make([]domain.GroupTotal, len(groups))
	copy(out, groups)

	switch order {
	case SortByKey:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	case "", SortByTotalAsc:
		sort.SliceStable(out, func(i, j int) bool {
			if c := out[i].Total.Cmp(out[j].Total); c != 0 {
				return c < 0
			}
			return out[i].Key < out[j].Key
		})
	case SortByTotalDesc:
		sort.SliceStable(out, func(i, j int) bool {
			if c := out[i].Total.Cmp(out[j].Total); c != 0 {
				return c > 0
			}
			return out[i].Key < out[j].Key
		})
	default:
		return nil, apierrors.ErrValidation("sort",
			fmt.Sprintf("unsupported sort %q, expected one of %s, %s, %s", order, SortByKey, SortByTotalAsc, SortByTotalDesc))
	}
	return out, nil
}

// GetMonthlySales handles GET /api/dashboard/sales/monthly
func (h *DashboardHandler) GetMonthlySales(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, snapshotFrom(r).Bundle.MonthlySales)
}

// GetTopProducts handles GET /api/dashboard/products/top?limit=
func (h *DashboardHandler) GetTopProducts(w http.ResponseWriter, r *http.Request) {
	top := snapshotFrom(r).Bundle.TopProducts

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("limit", "limit must be a positive integer"))
			return
		}
		if limit < len(top) {
			top = top[:limit]
		}
	}

	render.JSON(w, r, top)
}

// GetFeedback handles GET /api/dashboard/feedback
func (h *DashboardHandler) GetFeedback(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, snapshotFrom(r).Bundle.Feedback)
}

// GetMethods handles GET /api/dashboard/methods
func (h *DashboardHandler) GetMethods(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, snapshotFrom(r).Bundle.Methods)
}
