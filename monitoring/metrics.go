package monitoring

import (
	"log"
	"time"

	"github.com/pocketbase/pocketbase/core"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	inventoryTransactions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_transactions_total",
			Help: "Booking and cancellation transactions by outcome",
		},
		[]string{"operation", "outcome"},
	)

	transactionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "inventory_transaction_duration_seconds",
			Help:    "Duration of inventory transactions",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	availableSeats = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "event_available_seats",
			Help: "Current available seats per event",
		},
		[]string{"event_id"},
	)

	paymentSettlement = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "payment_settlement_duration_seconds",
			Help:    "Duration of simulated payment settlement",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 8),
		},
	)
)

// ObserveTransaction records one completed inventory transaction attempt.
func ObserveTransaction(operation, outcome string, d time.Duration) {
	inventoryTransactions.WithLabelValues(operation, outcome).Inc()
	transactionDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// ObservePaymentSettlement records one simulated payment delay.
func ObservePaymentSettlement(d time.Duration) {
	paymentSettlement.Observe(d.Seconds())
}

// SetAvailableSeats updates the per-event seat gauge.
func SetAvailableSeats(eventID string, seats int) {
	availableSeats.WithLabelValues(eventID).Set(float64(seats))
}

// DropEvent removes the seat gauge of a deleted event.
func DropEvent(eventID string) {
	availableSeats.DeleteLabelValues(eventID)
}

type Monitor struct {
	app core.App
}

func NewMonitor(app core.App) *Monitor {
	monitor := &Monitor{app: app}

	// Start metrics collection
	go monitor.collectMetrics()

	return monitor
}

func (m *Monitor) collectMetrics() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		m.collectSeatMetrics()
	}
}

func (m *Monitor) collectSeatMetrics() {
	events, err := m.app.FindAllRecords("events")
	if err != nil {
		log.Printf("Error collecting seat metrics: %v", err)
		return
	}

	for _, event := range events {
		availableSeats.WithLabelValues(event.Id).Set(float64(event.GetInt("available_seats")))
	}
}
