package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns the service registry and every routing metric.
type Collector struct {
	reg *prometheus.Registry

	Plans         prometheus.Counter
	Paths         *prometheus.CounterVec // strategy label
	PlanDuration  prometheus.Histogram
	Candidates    *prometheus.HistogramVec // kind label: start_station|start_stop|final_station|final_stop
	LookupErrors  *prometheus.CounterVec   // operation label
	CachePurges   prometheus.Counter
	EventsSent    prometheus.Counter
	EventSendErrs prometheus.Counter
	NATSConnected prometheus.Gauge
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		Plans: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "routing_plans_total",
			Help: "Total single-path planning requests served.",
		}),
		Paths: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "routing_paths_total",
			Help: "Paths returned, by the strategy that built them.",
		}, []string{"strategy"}),
		PlanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "routing_plan_duration_seconds",
			Help:    "Duration of candidate assembly plus enumeration.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
		}),
		Candidates: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "routing_candidates",
			Help:    "Candidates per request after filtering.",
			Buckets: []float64{0, 1, 2, 4, 8, 16, 32},
		}, []string{"kind"}),
		LookupErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "routing_lookup_errors_total",
			Help: "Failed network lookups, by operation.",
		}, []string{"operation"}),
		CachePurges: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "routing_cache_purges_total",
			Help: "Lookup cache purges triggered by network updates.",
		}),
		EventsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "routing_events_published_total",
			Help: "Planning events published.",
		}),
		EventSendErrs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "routing_events_publish_errors_total",
			Help: "Planning events that failed to publish.",
		}),
		NATSConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "routing_nats_connected",
			Help: "1 if the NATS connection is established, 0 otherwise.",
		}),
	}

	reg.MustRegister(
		c.Plans, c.Paths, c.PlanDuration, c.Candidates, c.LookupErrors,
		c.CachePurges, c.EventsSent, c.EventSendErrs, c.NATSConnected,
	)
	return c
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}

func (c *Collector) PlanObserve(d time.Duration) { c.PlanDuration.Observe(d.Seconds()) }

func (c *Collector) PlanInc() { c.Plans.Inc() }

func (c *Collector) PathInc(strategy string) { c.Paths.WithLabelValues(strategy).Inc() }

func (c *Collector) CandidatesObserve(kind string, n int) {
	c.Candidates.WithLabelValues(kind).Observe(float64(n))
}

func (c *Collector) LookupErrInc(operation string) { c.LookupErrors.WithLabelValues(operation).Inc() }

func (c *Collector) CachePurgeInc() { c.CachePurges.Inc() }

func (c *Collector) EventPublishedInc() { c.EventsSent.Inc() }

func (c *Collector) EventPublishErrInc() { c.EventSendErrs.Inc() }

func (c *Collector) NATSSetConnected(connected bool) {
	if connected {
		c.NATSConnected.Set(1)
		return
	}
	c.NATSConnected.Set(0)
}
