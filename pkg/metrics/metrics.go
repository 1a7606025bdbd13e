package metrics

import (
	stderrors "errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/viewlets/internal/errors"
)

// Config configures the collectors.
type Config struct {
	// Namespace is the metrics namespace (default: "viewlets").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for render duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the collectors.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "viewlets",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the collectors for view containers and their sessions.
type Metrics struct {
	renders        *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	renderErrors   *prometheus.CounterVec
	slotFills      *prometheus.CounterVec
	evictions      *prometheus.CounterVec
	missingSlots   *prometheus.CounterVec
	updates        *prometheus.CounterVec
	conflicts      *prometheus.CounterVec
	boundViewlets  prometheus.Gauge
	containers     prometheus.Gauge
	sessions       prometheus.Gauge
	wsErrors       *prometheus.CounterVec
}

// New registers the collectors with the configured registry.
// Registering twice with the same registry panics, like promauto.
func New(opts ...Option) *Metrics {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	counter := func(name, help string, labels ...string) *prometheus.CounterVec {
		return factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		}, labels)
	}
	gauge := func(name, help string) prometheus.Gauge {
		return factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		})
	}

	return &Metrics{
		renders:      counter("viewlet_renders_total", "Total number of viewlet renders", "viewlet"),
		renderErrors: counter("viewlet_render_errors_total", "Total number of failed viewlet renders", "viewlet", "code"),
		renderDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "container_render_duration_seconds",
			Help:        "View container render duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"container"}),
		slotFills:     counter("slot_fills_total", "Total number of slot fills", "slot"),
		evictions:     counter("slot_evictions_total", "Total number of slot occupants evicted", "slot"),
		missingSlots:  counter("slot_missing_total", "Total number of fills into unregistered slots", "slot"),
		updates:       counter("viewlet_updates_total", "Total number of bound viewlet updates", "viewlet"),
		conflicts:     counter("viewlet_conflicts_total", "Total number of local edit conflicts", "viewlet"),
		boundViewlets: gauge("bound_viewlets", "Number of viewlets currently bound to a model"),
		containers:    gauge("active_containers", "Number of rendered, not yet destroyed view containers"),
		sessions:      gauge("active_sessions", "Number of active WebSocket sessions"),
		wsErrors:      counter("websocket_errors_total", "Total WebSocket errors by type", "type"),
	}
}

// RecordRender records a viewlet render and its outcome.
func (m *Metrics) RecordRender(viewlet string, err error) {
	if m == nil {
		return
	}
	m.renders.WithLabelValues(viewlet).Inc()
	if err != nil {
		m.renderErrors.WithLabelValues(viewlet, Code(err)).Inc()
	}
}

// ObserveRender records how long a container render took.
func (m *Metrics) ObserveRender(container string, seconds float64) {
	if m == nil {
		return
	}
	m.renderDuration.WithLabelValues(container).Observe(seconds)
}

// RecordSlotFill records a viewlet being placed into slot.
func (m *Metrics) RecordSlotFill(slot string) {
	if m == nil {
		return
	}
	m.slotFills.WithLabelValues(slot).Inc()
}

// RecordEviction records a slot occupant being removed.
func (m *Metrics) RecordEviction(slot string) {
	if m == nil {
		return
	}
	m.evictions.WithLabelValues(slot).Inc()
}

// RecordMissingSlot records a fill into a slot with no registered target.
func (m *Metrics) RecordMissingSlot(slot string) {
	if m == nil {
		return
	}
	m.missingSlots.WithLabelValues(slot).Inc()
}

// RecordUpdate records a change delivered to a bound viewlet.
func (m *Metrics) RecordUpdate(viewlet string) {
	if m == nil {
		return
	}
	m.updates.WithLabelValues(viewlet).Inc()
}

// RecordConflict records a conflict signaled to a viewlet.
func (m *Metrics) RecordConflict(viewlet string) {
	if m == nil {
		return
	}
	m.conflicts.WithLabelValues(viewlet).Inc()
}

// RecordBind records a viewlet binding.
func (m *Metrics) RecordBind() {
	if m == nil {
		return
	}
	m.boundViewlets.Inc()
}

// RecordUnbind records a viewlet binding being released.
func (m *Metrics) RecordUnbind() {
	if m == nil {
		return
	}
	m.boundViewlets.Dec()
}

// RecordContainerRender records a container becoming live.
func (m *Metrics) RecordContainerRender() {
	if m == nil {
		return
	}
	m.containers.Inc()
}

// RecordContainerDestroy records a live container being destroyed.
func (m *Metrics) RecordContainerDestroy() {
	if m == nil {
		return
	}
	m.containers.Dec()
}

// RecordSessionCreate records a new session.
func (m *Metrics) RecordSessionCreate() {
	if m == nil {
		return
	}
	m.sessions.Inc()
}

// RecordSessionDestroy records a session ending.
func (m *Metrics) RecordSessionDestroy() {
	if m == nil {
		return
	}
	m.sessions.Dec()
}

// RecordWebSocketError records a WebSocket error.
func (m *Metrics) RecordWebSocketError(errorType string) {
	if m == nil {
		return
	}
	m.wsErrors.WithLabelValues(errorType).Inc()
}

// Code returns the error code used as a label for err.
// Structured errors use their code; anything else is "internal", which
// keeps label cardinality bounded.
func Code(err error) string {
	var e *errors.Error
	if stderrors.As(err, &e) && e.Code != "" {
		return e.Code
	}
	return "internal"
}
