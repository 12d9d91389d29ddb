// Package metrics exposes Prometheus counters for collection activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Shoe creation sources.
const (
	SourceForm    = "form"
	SourceImport  = "import"
	SourceReceipt = "receipt"
	SourceAPI     = "api"
)

// Metrics holds the counters. A nil *Metrics is valid and records nothing.
type Metrics struct {
	shoesCreated   *prometheus.CounterVec
	wears          prometheus.Counter
	cleanings      prometheus.Counter
	rowsRejected   prometheus.Counter
	receiptParses  *prometheus.CounterVec
	loginThrottled prometheus.Counter
}

// New registers the counters on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		shoesCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sneakerbox_shoes_created_total",
			Help: "Shoes added to the collection, by source.",
		}, []string{"source"}),
		wears: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sneakerbox_wears_total",
			Help: "Wear events recorded.",
		}),
		cleanings: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sneakerbox_cleanings_total",
			Help: "Cleaning events recorded.",
		}),
		rowsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sneakerbox_csv_rows_rejected_total",
			Help: "CSV import rows rejected during parsing.",
		}),
		receiptParses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sneakerbox_receipt_parses_total",
			Help: "Receipt parse attempts, by result.",
		}, []string{"result"}),
		loginThrottled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sneakerbox_login_throttled_total",
			Help: "Login attempts rejected by the rate limiter.",
		}),
	}
	reg.MustRegister(m.shoesCreated, m.wears, m.cleanings, m.rowsRejected, m.receiptParses, m.loginThrottled)
	return m
}

// ShoesCreated counts n new shoes from source.
func (m *Metrics) ShoesCreated(source string, n int) {
	if m == nil || n <= 0 {
		return
	}
	if source == "" {
		source = "unknown"
	}
	m.shoesCreated.WithLabelValues(source).Add(float64(n))
}

// Wear counts one recorded wear.
func (m *Metrics) Wear() {
	if m == nil {
		return
	}
	m.wears.Inc()
}

// Cleaning counts one recorded cleaning.
func (m *Metrics) Cleaning() {
	if m == nil {
		return
	}
	m.cleanings.Inc()
}

// RowsRejected counts rejected CSV rows.
func (m *Metrics) RowsRejected(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.rowsRejected.Add(float64(n))
}

// ReceiptParsed counts a receipt parse attempt.
func (m *Metrics) ReceiptParsed(ok bool) {
	if m == nil {
		return
	}
	result := "invalid"
	if ok {
		result = "ok"
	}
	m.receiptParses.WithLabelValues(result).Inc()
}

// LoginThrottled counts a login rejected by the rate limiter.
func (m *Metrics) LoginThrottled() {
	if m == nil {
		return
	}
	m.loginThrottled.Inc()
}
