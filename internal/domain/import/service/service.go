// Package service provides the import orchestration logic: detection,
// dispatch to the institution extractor, and hand-off of the canonical batch
// to a sink.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/statement-ingest/internal/domain/import/model"
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/parser"
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/sniffer"
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/source"
	"github.com/FACorreiaa/statement-ingest/pkg/money"
	"github.com/FACorreiaa/statement-ingest/pkg/storage"
)

const tracerName = "github.com/FACorreiaa/statement-ingest/internal/domain/import/service"

// Sink persists a homogeneous batch. Implementations must upsert by
// (format, id) so that importing a file twice is a no-op.
type Sink interface {
	UpsertCash(ctx context.Context, format model.Format, txs []model.CashTransaction) (model.UpsertStats, error)
	UpsertInvestments(ctx context.Context, format model.Format, txs []model.InvestmentTransaction) (model.UpsertStats, error)
}

// Inbox is a source of pending statement files.
type Inbox interface {
	List(ctx context.Context) ([]storage.FileInfo, error)
	Read(ctx context.Context, name string) ([]byte, error)
	MarkProcessed(ctx context.Context, name string, receipt storage.Receipt) error
}

// ImportResult contains the result of an import operation
type ImportResult struct {
	File        string
	Format      model.Format
	Records     int
	Diagnostics int
	Dropped     int
	Stats       model.UpsertStats
}

// FileFailure is a file the inbox scan could not import. It stays pending.
type FileFailure struct {
	File string
	Err  error
}

// InboxResult summarizes one inbox pass.
type InboxResult struct {
	Imported []ImportResult
	Failed   []FileFailure
}

// ImportService detects and dispatches statement files.
type ImportService struct {
	detector   *sniffer.Detector
	extractors map[model.Format]parser.Extractor
	metrics    *Metrics
	tracer     trace.Tracer
	logger     *slog.Logger
}

// NewImportService registers one extractor per supported format.
func NewImportService(opts parser.Options, logger *slog.Logger) *ImportService {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Logger == nil {
		opts.Logger = logger
	}

	s := &ImportService{
		detector:   sniffer.New(logger),
		extractors: make(map[model.Format]parser.Extractor),
		tracer:     otel.Tracer(tracerName),
		logger:     logger,
	}
	for _, e := range parser.All(opts) {
		s.extractors[e.Format()] = e
	}
	return s
}

// WithMetrics adds Prometheus instrumentation to the import service
func (s *ImportService) WithMetrics(m *Metrics) *ImportService {
	s.metrics = m
	return s
}

// Detect returns the format tag of f.
func (s *ImportService) Detect(f source.File) model.Format {
	return s.detector.Detect(f)
}

// Parse runs the extractor registered for format.
func (s *ImportService) Parse(f source.File, format model.Format) (*model.Result, error) {
	e, ok := s.extractors[format]
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrUnsupportedFormat, format)
	}
	return e.Extract(f)
}

// Import detects the format of f and parses it.
func (s *ImportService) Import(ctx context.Context, f source.File) (*model.Result, error) {
	ctx, span := s.tracer.Start(ctx, "import.Import", trace.WithAttributes(
		attribute.String("file.name", f.Name()),
		attribute.Int("file.size", len(f.Bytes())),
	))
	defer span.End()

	format := s.Detect(f)
	span.SetAttributes(attribute.String("statement.format", string(format)))
	if format == model.FormatUnknown {
		err := fmt.Errorf("%s: %w", f.Name(), model.ErrFormatUnrecognized)
		s.metrics.importDone(format, outcomeUnrecognized)
		recordError(span, err)
		return nil, err
	}

	start := time.Now()
	res, err := s.Parse(f, format)
	s.metrics.parseDuration(format, time.Since(start))
	if err != nil {
		s.metrics.importDone(format, outcomeFor(err))
		recordError(span, err)
		s.logger.ErrorContext(ctx, "failed to parse statement",
			slog.String("file", f.Name()),
			slog.String("format", string(format)),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("failed to parse %s: %w", f.Name(), err)
	}

	s.metrics.importDone(format, outcomeOK)
	s.metrics.result(res)
	span.SetAttributes(
		attribute.Int("statement.records", res.Len()),
		attribute.Int("statement.diagnostics", res.Diagnostics()),
		attribute.Int("statement.dropped", res.Dropped),
	)
	s.logger.InfoContext(ctx, "statement parsed",
		slog.String("file", f.Name()),
		slog.String("format", string(format)),
		slog.Int("records", res.Len()),
		slog.Int("diagnostics", res.Diagnostics()),
		slog.Int("dropped", res.Dropped),
	)
	return res, nil
}

// ImportInto imports f and upserts its records into sink.
func (s *ImportService) ImportInto(ctx context.Context, f source.File, sink Sink) (*ImportResult, error) {
	res, err := s.Import(ctx, f)
	if err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, "import.Upsert", trace.WithAttributes(
		attribute.String("statement.format", string(res.Format)),
		attribute.Int("statement.records", res.Len()),
	))
	defer span.End()

	var stats model.UpsertStats
	if res.Kind == model.KindInvestment {
		stats, err = sink.UpsertInvestments(ctx, res.Format, res.Investments)
	} else {
		stats, err = sink.UpsertCash(ctx, res.Format, res.Cash)
	}
	if err != nil {
		recordError(span, err)
		return nil, fmt.Errorf("failed to store %s: %w", f.Name(), err)
	}
	s.metrics.upserted(res.Format, stats)

	attrs := []any{
		slog.String("file", f.Name()),
		slog.String("format", string(res.Format)),
		slog.Int("inserted", stats.Inserted),
		slog.Int("updated", stats.Updated),
	}
	if res.Kind == model.KindCash {
		attrs = append(attrs, slog.Any("net", NetCash(res.Cash)))
	}
	s.logger.InfoContext(ctx, "statement stored", attrs...)

	return &ImportResult{
		File:        f.Name(),
		Format:      res.Format,
		Records:     res.Len(),
		Diagnostics: res.Diagnostics(),
		Dropped:     res.Dropped,
		Stats:       stats,
	}, nil
}

// ImportInbox imports every pending inbox file into sink. A file that fails is
// reported and left pending; the scan continues with the next file. The
// returned error is non-nil only when the inbox cannot be listed or ctx is
// cancelled between files.
func (s *ImportService) ImportInbox(ctx context.Context, inbox Inbox, sink Sink) (*InboxResult, error) {
	files, err := inbox.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list inbox: %w", err)
	}

	out := &InboxResult{}
	for _, fi := range files {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		res, err := s.importPending(ctx, inbox, fi.Name, sink)
		if err != nil {
			s.logger.WarnContext(ctx, "statement import failed",
				slog.String("file", fi.Name),
				slog.Any("error", err),
			)
			out.Failed = append(out.Failed, FileFailure{File: fi.Name, Err: err})
			continue
		}
		out.Imported = append(out.Imported, *res)
	}

	s.logger.InfoContext(ctx, "inbox import completed",
		slog.Int("files", len(files)),
		slog.Int("imported", len(out.Imported)),
		slog.Int("failed", len(out.Failed)),
	)
	return out, nil
}

func (s *ImportService) importPending(ctx context.Context, inbox Inbox, name string, sink Sink) (*ImportResult, error) {
	data, err := inbox.Read(ctx, name)
	if err != nil {
		return nil, err
	}

	res, err := s.ImportInto(ctx, source.NewFile(name, data), sink)
	if err != nil {
		return nil, err
	}

	receipt := storage.Receipt{
		Format:      string(res.Format),
		Records:     res.Records,
		Diagnostics: res.Diagnostics,
		Dropped:     res.Dropped,
		Inserted:    res.Stats.Inserted,
		Updated:     res.Stats.Updated,
	}
	if err := inbox.MarkProcessed(ctx, name, receipt); err != nil {
		return nil, fmt.Errorf("failed to mark %s processed: %w", name, err)
	}
	return res, nil
}

// NetCash sums signed amounts per currency and renders each total for
// display, ordered by currency code. Rows without a parseable amount are
// skipped.
func NetCash(txs []model.CashTransaction) []string {
	totals := make(map[string]decimal.Decimal)
	for _, tx := range txs {
		d, err := decimal.NewFromString(tx.Amount)
		if err != nil {
			continue
		}
		totals[tx.Currency] = totals[tx.Currency].Add(d)
	}

	currencies := make([]string, 0, len(totals))
	for c := range totals {
		currencies = append(currencies, c)
	}
	sort.Strings(currencies)

	out := make([]string, 0, len(currencies))
	for _, c := range currencies {
		out = append(out, money.Display(totals[c], c))
	}
	return out
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func outcomeFor(err error) string {
	switch {
	case errors.Is(err, model.ErrUnrecognizedValue):
		return outcomeRejected
	case errors.Is(err, model.ErrUnsupportedFormat):
		return outcomeUnsupported
	default:
		return outcomeFailed
	}
}
