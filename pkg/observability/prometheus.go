package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus implements every hook interface with Prometheus collectors.
type Prometheus struct {
	nodesAssembled   *prometheus.CounterVec
	assembleDuration *prometheus.HistogramVec
	reports          *prometheus.CounterVec
	maxDeviation     *prometheus.HistogramVec
	findings         *prometheus.CounterVec
	flows            *prometheus.CounterVec
	flowDuration     prometheus.Histogram
	measurements     *prometheus.CounterVec
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
}

var (
	_ AssemblyHooks = (*Prometheus)(nil)
	_ PipelineHooks = (*Prometheus)(nil)
	_ HTTPHooks     = (*Prometheus)(nil)
)

// NewPrometheus creates the collectors and registers them with reg.
// It panics if a collector is already registered, like prometheus.MustRegister.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	p := &Prometheus{
		nodesAssembled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "flowcanvas_nodes_assembled_total",
			Help: "Node render specs assembled, by node type and outcome.",
		}, []string{"node_type", "outcome"}),
		assembleDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "flowcanvas_assemble_duration_seconds",
			Help:    "Time to assemble one node render spec.",
			Buckets: []float64{.00001, .00005, .0001, .0005, .001, .005, .01},
		}, []string{"node_type"}),
		reports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "flowcanvas_validation_reports_total",
			Help: "Port alignment reports, by node type and validity.",
		}, []string{"node_type", "valid"}),
		maxDeviation: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "flowcanvas_port_max_deviation_pixels",
			Help:    "Largest output port deviation per report.",
			Buckets: []float64{0, 0.5, 1, 2, 4, 8, 16},
		}, []string{"node_type"}),
		findings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "flowcanvas_validation_findings_total",
			Help: "Validation findings, by kind and severity.",
		}, []string{"kind", "severity"}),
		flows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "flowcanvas_flows_total",
			Help: "Flow documents processed, by outcome.",
		}, []string{"outcome"}),
		flowDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "flowcanvas_flow_duration_seconds",
			Help: "Time to process one flow document.",
		}),
		measurements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "flowcanvas_measurements_total",
			Help: "Rendered-geometry measurements, by backend and outcome.",
		}, []string{"backend", "outcome"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "flowcanvas_http_requests_total",
			Help: "HTTP requests served, by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "flowcanvas_http_request_duration_seconds",
			Help: "HTTP request latency, by route.",
		}, []string{"route"}),
	}
	reg.MustRegister(
		p.nodesAssembled, p.assembleDuration, p.reports, p.maxDeviation, p.findings,
		p.flows, p.flowDuration, p.measurements, p.httpRequests, p.httpDuration,
	)
	return p
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (p *Prometheus) OnAssemble(_ context.Context, nodeType string, _ int, d time.Duration, err error) {
	p.nodesAssembled.WithLabelValues(nodeType, outcome(err)).Inc()
	p.assembleDuration.WithLabelValues(nodeType).Observe(d.Seconds())
}

func (p *Prometheus) OnValidate(_ context.Context, nodeType string, valid bool, maxDeviation float64) {
	p.reports.WithLabelValues(nodeType, strconv.FormatBool(valid)).Inc()
	p.maxDeviation.WithLabelValues(nodeType).Observe(maxDeviation)
}

func (p *Prometheus) OnFinding(_ context.Context, kind, severity string) {
	p.findings.WithLabelValues(kind, severity).Inc()
}

func (p *Prometheus) OnFlowStart(context.Context, string, int) {}

func (p *Prometheus) OnFlowComplete(_ context.Context, _ string, invalid int, d time.Duration, err error) {
	o := outcome(err)
	if err == nil && invalid > 0 {
		o = "invalid"
	}
	p.flows.WithLabelValues(o).Inc()
	p.flowDuration.Observe(d.Seconds())
}

func (p *Prometheus) OnMeasure(_ context.Context, backend string, _ time.Duration, err error) {
	p.measurements.WithLabelValues(backend, outcome(err)).Inc()
}

func (p *Prometheus) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	p.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	p.httpDuration.WithLabelValues(route).Observe(d.Seconds())
}
