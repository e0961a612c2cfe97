package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"namehaus/pkg/domain"
)

// Metrics provides observability for the registry module.
type Metrics struct {
	RecordsListed     prometheus.Counter
	RecordsDelisted   prometheus.Counter
	RecordsMinted     prometheus.Counter
	PriceUpdates      prometheus.Counter
	PaymentsForwarded prometheus.Counter
	MintDuration      prometheus.Histogram
}

// New creates a new Metrics instance with all registry metrics registered.
func New() *Metrics {
	return &Metrics{
		RecordsListed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "namehaus_records_listed_total",
			Help: "Total number of records listed",
		}),
		RecordsDelisted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "namehaus_records_delisted_total",
			Help: "Total number of records delisted",
		}),
		RecordsMinted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "namehaus_records_minted_total",
			Help: "Total number of records purchased",
		}),
		PriceUpdates: promauto.NewCounter(prometheus.CounterOpts{
			Name: "namehaus_price_updates_total",
			Help: "Total number of price updates",
		}),
		PaymentsForwarded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "namehaus_payments_forwarded_units_total",
			Help: "Total settlement value forwarded to the treasury, in base units",
		}),
		MintDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "namehaus_mint_duration_seconds",
			Help:    "Duration of mint operations (purchase critical path)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementListed records a successful listing.
func (m *Metrics) IncrementListed() { m.RecordsListed.Inc() }

// IncrementDelisted records a successful delisting.
func (m *Metrics) IncrementDelisted() { m.RecordsDelisted.Inc() }

// IncrementPriceUpdates records a successful reprice.
func (m *Metrics) IncrementPriceUpdates() { m.PriceUpdates.Inc() }

// ObserveMint records a successful purchase and its forwarded value.
// Call with time.Now() captured at the start of the operation.
func (m *Metrics) ObserveMint(start time.Time, amount domain.Amount) {
	m.RecordsMinted.Inc()
	m.PaymentsForwarded.Add(float64(amount))
	m.MintDuration.Observe(time.Since(start).Seconds())
}
