package service

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/FACorreiaa/statement-ingest/internal/domain/import/model"
)

const (
	outcomeOK           = "ok"
	outcomeUnrecognized = "unrecognized"
	outcomeUnsupported  = "unsupported"
	outcomeRejected     = "rejected"
	outcomeFailed       = "failed"
)

// Metrics instruments the import service. A nil *Metrics records nothing.
type Metrics struct {
	imports     *prometheus.CounterVec
	records     *prometheus.CounterVec
	diagnostics *prometheus.CounterVec
	dropped     *prometheus.CounterVec
	upserts     *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// NewMetrics registers the import collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		imports: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "statement_import",
			Name:      "files_total",
			Help:      "Statement files processed, by detected format and outcome.",
		}, []string{"format", "outcome"}),
		records: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "statement_import",
			Name:      "records_total",
			Help:      "Canonical records produced, by format.",
		}, []string{"format"}),
		diagnostics: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "statement_import",
			Name:      "row_diagnostics_total",
			Help:      "Records emitted with a row diagnostic, by format.",
		}, []string{"format"}),
		dropped: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "statement_import",
			Name:      "dropped_lines_total",
			Help:      "PDF lines inside a transaction window that could not be segmented.",
		}, []string{"format"}),
		upserts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "statement_import",
			Name:      "upserts_total",
			Help:      "Records written to the sink, by format and result.",
		}, []string{"format", "result"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "statement_import",
			Name:      "parse_duration_seconds",
			Help:      "Time spent extracting one statement file.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"format"}),
	}
}

func (m *Metrics) importDone(format model.Format, outcome string) {
	if m == nil {
		return
	}
	m.imports.WithLabelValues(string(format), outcome).Inc()
}

func (m *Metrics) parseDuration(format model.Format, d time.Duration) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(string(format)).Observe(d.Seconds())
}

func (m *Metrics) result(res *model.Result) {
	if m == nil {
		return
	}
	format := string(res.Format)
	m.records.WithLabelValues(format).Add(float64(res.Len()))
	m.diagnostics.WithLabelValues(format).Add(float64(res.Diagnostics()))
	m.dropped.WithLabelValues(format).Add(float64(res.Dropped))
}

func (m *Metrics) upserted(format model.Format, stats model.UpsertStats) {
	if m == nil {
		return
	}
	m.upserts.WithLabelValues(string(format), "inserted").Add(float64(stats.Inserted))
	m.upserts.WithLabelValues(string(format), "updated").Add(float64(stats.Updated))
}
