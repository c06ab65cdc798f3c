package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/zeebo/xxh3"

	"salespulse/internal/config"
	"salespulse/internal/dataprocessing"
	"salespulse/internal/infrastructure"
	"salespulse/pkg/contracts/domain"
)

// TableLoader reads the raw sales table. *dataprocessing.Loader implements it.
type TableLoader interface {
	LoadWorkbook(ctx context.Context, path, sheet string) (*dataprocessing.RawTable, error)
}

// LoadMetadata describes the load that produced the current bundle.
type LoadMetadata struct {
	SourcePath     string         `json:"source_path"`
	Sheet          string         `json:"sheet"`
	Rows           int            `json:"rows"`
	ActiveOrders   int            `json:"active_orders"`
	Cancelled      int            `json:"cancelled_orders"`
	MissingCells   int            `json:"missing_cells"`
	MissingColumns map[string]int `json:"missing_by_column"`
	LoadedAt       time.Time      `json:"loaded_at"`
	Duration       time.Duration  `json:"duration_ns"`
}

// Snapshot is an immutable view of one successful load.
type Snapshot struct {
	Bundle   domain.ResultBundle
	Metadata LoadMetadata
	// ETag is a strong validator derived from the bundle's JSON encoding.
	ETag string
}

// DashboardService loads the sales export once and serves the resulting bundle.
type DashboardService struct {
	source   config.SourceConfig
	loader   TableLoader
	pipeline *dataprocessing.Pipeline
	logger   *slog.Logger

	mu       sync.RWMutex
	snapshot *Snapshot
}

// NewDashboardService creates a dashboard service reading from source.
func NewDashboardService(source config.SourceConfig, loader TableLoader, pipeline *dataprocessing.Pipeline, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{
		source:   source,
		loader:   loader,
		pipeline: pipeline,
		logger:   logger.With(slog.String("service", "dashboard")),
	}
}

// Load reads the source and builds the bundle. Any error leaves the
// previous snapshot, if there was one, in place.
func (s *DashboardService) Load(ctx context.Context) error {
	start := time.Now()

	table, err := s.loader.LoadWorkbook(ctx, s.source.Path, s.source.Sheet)
	if err != nil {
		infrastructure.WithError(s.logger, err).ErrorContext(ctx, "failed to load sales source",
			slog.String("path", s.source.Path),
			slog.String("sheet", s.source.Sheet))
		return err
	}

	result, err := s.pipeline.Build(ctx, table)
	if err != nil {
		infrastructure.WithError(s.logger, err).ErrorContext(ctx, "failed to build result bundle")
		return err
	}

	etag, err := bundleETag(result.Bundle)
	if err != nil {
		return fmt.Errorf("failed to encode result bundle: %w", err)
	}

	snapshot := &Snapshot{
		Bundle: result.Bundle,
		Metadata: LoadMetadata{
			SourcePath:     s.source.Path,
			Sheet:          s.source.Sheet,
			Rows:           result.Stats.Rows,
			ActiveOrders:   result.Active,
			Cancelled:      result.Cancelled,
			MissingCells:   result.Stats.MissingCells(),
			MissingColumns: result.Stats.Missing,
			LoadedAt:       time.Now().UTC(),
			Duration:       time.Since(start),
		},
		ETag: etag,
	}

	s.mu.Lock()
	s.snapshot = snapshot
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "sales data loaded",
		slog.String("path", s.source.Path),
		slog.Int("rows", snapshot.Metadata.Rows),
		slog.Int("active_orders", snapshot.Metadata.ActiveOrders),
		slog.String("etag", etag),
		slog.Duration("duration", snapshot.Metadata.Duration))
	return nil
}

// Snapshot returns the current snapshot or ErrBundleNotReady.
func (s *DashboardService) Snapshot() (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snapshot == nil {
		return nil, ErrBundleNotReady
	}
	return s.snapshot, nil
}

// Bundle returns the current result bundle or ErrBundleNotReady.
func (s *DashboardService) Bundle() (domain.ResultBundle, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return domain.ResultBundle{}, err
	}
	return snap.Bundle, nil
}

// Ready reports whether a bundle has been loaded.
func (s *DashboardService) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot != nil
}

func bundleETag(bundle domain.ResultBundle) (string, error) {
	body, err := json.Marshal(bundle)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`"%016x"`, xxh3.Hash(body)), nil
}
