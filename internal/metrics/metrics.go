package metrics

import (
	"database/sql"

	"github.com/dlmiddlecote/sqlstats"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github/chapool/lp-custody/internal/config"
)

// Outcome labels for the withdrawals counter.
const (
	OutcomeSuccess    = "success"
	OutcomeValidation = "validation_error"
	OutcomeSlippage   = "slippage_error"
	OutcomeReentrancy = "reentrancy_error"
	OutcomeUpstream   = "upstream_error"
)

// Service owns the prometheus registry and the custody metrics.
type Service struct {
	Registry *prometheus.Registry

	WithdrawalsTotal      *prometheus.CounterVec
	CustodyReturnsTotal   prometheus.Counter
	CustodyRetainedTotal  prometheus.Counter
	ReceiptRejectedTotal  prometheus.Counter
	WithdrawalDurations   prometheus.Histogram
}

// New returns a metrics service with all collectors registered.
func New(_ config.Server) *Service {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	s := &Service{
		Registry: registry,
		WithdrawalsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "custody",
			Name:      "withdrawals_total",
			Help:      "Total withdrawal operations by outcome.",
		}, []string{"outcome"}),
		CustodyReturnsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "custody",
			Name:      "custody_returns_total",
			Help:      "Positions returned to their caller after a partial withdrawal.",
		}),
		CustodyRetainedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "custody",
			Name:      "custody_retained_total",
			Help:      "Fully drained positions retained for administrative recovery.",
		}),
		ReceiptRejectedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "custody",
			Name:      "receipt_rejected_total",
			Help:      "Inbound custody transfers rejected by the receipt handler.",
		}),
		WithdrawalDurations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "custody",
			Name:      "withdrawal_duration_seconds",
			Help:      "Duration of withdrawal operations.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	registry.MustRegister(
		s.WithdrawalsTotal,
		s.CustodyReturnsTotal,
		s.CustodyRetainedTotal,
		s.ReceiptRejectedTotal,
		s.WithdrawalDurations,
	)

	return s
}

// RegisterDB exports connection pool stats for the audit database.
func (s *Service) RegisterDB(db *sql.DB) {
	s.Registry.MustRegister(sqlstats.NewStatsCollector("audit", db))
}
