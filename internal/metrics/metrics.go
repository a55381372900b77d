// Package metrics collects operational counters and exposes them on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector counts the events worth watching in production: notification
// fan-out outcomes, upstream fetch failures, and calendar seeding results.
type Collector struct {
	registry *prometheus.Registry

	notificationsSent   *prometheus.CounterVec
	deliveryFailures    prometheus.Counter
	fetchFailures       prometheus.Counter
	eventsInserted      prometheus.Counter
	eventInsertFailures prometheus.Counter
	unsubscribes        prometheus.Counter
}

// NewCollector builds a Collector with its own registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		notificationsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ramadanbot_notifications_sent_total",
			Help: "Notifications delivered, by firing slot.",
		}, []string{"slot"}),
		deliveryFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ramadanbot_delivery_failures_total",
			Help: "Sends rejected by Telegram; each one unsubscribes the recipient.",
		}),
		fetchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ramadanbot_fetch_failures_total",
			Help: "Failed prayer-times fetches.",
		}),
		eventsInserted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ramadanbot_calendar_events_inserted_total",
			Help: "Calendar events created during seeding.",
		}),
		eventInsertFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ramadanbot_calendar_event_failures_total",
			Help: "Calendar inserts that failed and were skipped.",
		}),
		unsubscribes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ramadanbot_unsubscribes_total",
			Help: "Subscriptions removed, by command or delivery failure.",
		}),
	}
	c.registry.MustRegister(
		c.notificationsSent,
		c.deliveryFailures,
		c.fetchFailures,
		c.eventsInserted,
		c.eventInsertFailures,
		c.unsubscribes,
	)
	return c
}

func (c *Collector) RecordNotificationSent(slot string) {
	c.notificationsSent.WithLabelValues(slot).Inc()
}

func (c *Collector) RecordDeliveryFailure() { c.deliveryFailures.Inc() }

func (c *Collector) RecordFetchFailure() { c.fetchFailures.Inc() }

func (c *Collector) RecordEventInserted() { c.eventsInserted.Inc() }

func (c *Collector) RecordEventInsertFailure() { c.eventInsertFailures.Inc() }

func (c *Collector) RecordUnsubscribe() { c.unsubscribes.Inc() }

// Handler returns the HTTP handler serving this collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
