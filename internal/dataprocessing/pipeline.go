package dataprocessing

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"salespulse/internal/config"
	"salespulse/internal/infrastructure"
	"salespulse/pkg/contracts/domain"
)

const instrumentationName = "salespulse/dataprocessing"

// PipelineOptions configures a Pipeline.
type PipelineOptions struct {
	TopN            int
	CancelledStatus string
	DateLayout      string
	// Parallel runs the independent aggregations concurrently.
	Parallel bool
}

// OptionsFromConfig maps analytics configuration onto pipeline options.
func OptionsFromConfig(cfg config.AnalyticsConfig) PipelineOptions {
	return PipelineOptions{
		TopN:            cfg.TopN,
		CancelledStatus: cfg.CancelledStatus,
		DateLayout:      cfg.DateLayout,
		Parallel:        cfg.Parallel,
	}
}

// Result is the output of one pipeline run.
type Result struct {
	Bundle    domain.ResultBundle
	Stats     NormalizeStats
	Active    int
	Cancelled int
	Duration  time.Duration
}

// Pipeline runs normalization, filtering and aggregation over a raw table.
type Pipeline struct {
	opts       PipelineOptions
	normalizer *Normalizer
	logger     *slog.Logger
	tracer     trace.Tracer
	metrics    *pipelineMetrics
}

// NewPipeline creates a pipeline. Zero-valued options fall back to the
// configuration defaults.
func NewPipeline(opts PipelineOptions, logger *slog.Logger) *Pipeline {
	if opts.TopN <= 0 {
		opts.TopN = config.DefaultTopN
	}
	if opts.CancelledStatus == "" {
		opts.CancelledStatus = domain.OrderStatusCancelled
	}
	if opts.DateLayout == "" {
		opts.DateLayout = config.DefaultDateLayout
	}

	normalizer := NewNormalizer(opts.DateLayout, logger)
	logger = infrastructure.WithComponent(logger, "pipeline")

	metrics, err := newPipelineMetrics(otel.Meter(instrumentationName))
	if err != nil {
		infrastructure.WithError(logger, err).Warn("pipeline metrics unavailable, using no-op instruments")
		metrics, _ = newPipelineMetrics(noop.NewMeterProvider().Meter(instrumentationName))
	}

	return &Pipeline{
		opts:       opts,
		normalizer: normalizer,
		logger:     logger,
		tracer:     otel.Tracer(instrumentationName),
		metrics:    metrics,
	}
}

// Build turns table into a Result. It fails only when the header lacks a
// required column; cell-level problems surface as missing values.
func (p *Pipeline) Build(ctx context.Context, table *RawTable) (*Result, error) {
	start := time.Now()
	ctx, span := p.tracer.Start(ctx, "pipeline.build",
		trace.WithAttributes(attribute.Int("rows", table.Len())))
	defer span.End()

	records, stats, err := p.normalize(ctx, table)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}

	active := p.filter(ctx, records)

	bundle, err := p.aggregate(ctx, active)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}

	result := &Result{
		Bundle:    bundle,
		Stats:     stats,
		Active:    len(active),
		Cancelled: len(records) - len(active),
		Duration:  time.Since(start),
	}
	p.record(ctx, result)

	p.logger.InfoContext(ctx, "result bundle built",
		slog.Int("rows", stats.Rows),
		slog.Int("active", result.Active),
		slog.Int("cancelled", result.Cancelled),
		slog.Int("missing_cells", stats.MissingCells()),
		slog.String("total_sales", bundle.KPIs.TotalSales.String()),
		slog.Duration("duration", result.Duration))

	return result, nil
}

func (p *Pipeline) normalize(ctx context.Context, table *RawTable) ([]domain.SalesRecord, NormalizeStats, error) {
	ctx, span := p.tracer.Start(ctx, "pipeline.normalize")
	defer span.End()

	records, stats, err := p.normalizer.Normalize(ctx, table)
	if err == nil {
		span.SetAttributes(attribute.Int("missing_cells", stats.MissingCells()))
	}
	return records, stats, err
}

func (p *Pipeline) filter(ctx context.Context, records []domain.SalesRecord) []domain.SalesRecord {
	_, span := p.tracer.Start(ctx, "pipeline.filter")
	defer span.End()

	active := FilterActive(records, p.opts.CancelledStatus)
	span.SetAttributes(
		attribute.Int("active", len(active)),
		attribute.Int("cancelled", len(records)-len(active)),
	)
	return active
}

// aggregate computes every table of the bundle. Each task writes a distinct
// field, so the parallel path needs no locking.
func (p *Pipeline) aggregate(ctx context.Context, active []domain.SalesRecord) (domain.ResultBundle, error) {
	ctx, span := p.tracer.Start(ctx, "pipeline.aggregate",
		trace.WithAttributes(attribute.Bool("parallel", p.opts.Parallel)))
	defer span.End()

	var bundle domain.ResultBundle
	tasks := []func(){
		func() { bundle.KPIs = ComputeKPIs(active) },
		func() { bundle.CategorySales = SalesByCategory(active) },
		func() { bundle.RegionSales = SalesByRegion(active) },
		func() { bundle.MonthlySales = MonthlySales(active) },
		func() { bundle.TopProducts = TopProducts(active, p.opts.TopN) },
		func() { bundle.Feedback = FeedbackCounts(active) },
		func() { bundle.Methods = MethodCounts(active) },
	}

	if !p.opts.Parallel {
		for _, task := range tasks {
			task()
		}
		return bundle, nil
	}

	g, _ := errgroup.WithContext(ctx)
	for _, task := range tasks {
		g.Go(func() error {
			task()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.ResultBundle{}, err
	}
	return bundle, nil
}

func (p *Pipeline) record(ctx context.Context, result *Result) {
	p.metrics.rows.Add(ctx, int64(result.Active), metric.WithAttributes(attribute.String("status", "active")))
	p.metrics.rows.Add(ctx, int64(result.Cancelled), metric.WithAttributes(attribute.String("status", "cancelled")))
	for column, n := range result.Stats.Missing {
		p.metrics.missing.Add(ctx, int64(n), metric.WithAttributes(attribute.String("column", column)))
	}
	p.metrics.duration.Record(ctx, result.Duration.Seconds())
}

type pipelineMetrics struct {
	rows     metric.Int64Counter
	missing  metric.Int64Counter
	duration metric.Float64Histogram
}

func newPipelineMetrics(meter metric.Meter) (*pipelineMetrics, error) {
	rows, err := meter.Int64Counter(
		"pipeline_records_total",
		metric.WithDescription("Normalized records by order status class"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return nil, err
	}

	missing, err := meter.Int64Counter(
		"pipeline_missing_cells_total",
		metric.WithDescription("Cells that could not be parsed, by column"),
		metric.WithUnit("{cell}"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		"pipeline_build_duration_seconds",
		metric.WithDescription("Time to build a result bundle"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &pipelineMetrics{rows: rows, missing: missing, duration: duration}, nil
}
