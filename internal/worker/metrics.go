package worker

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type metrics struct {
	registry            *prometheus.Registry
	jobsTotal           *prometheus.CounterVec
	jobDuration         *prometheus.HistogramVec
	activeJobs          prometheus.Gauge
	renderOutputsTotal  prometheus.Counter
	pixelsComposedTotal prometheus.Counter
	bytesWrittenTotal   prometheus.Counter
	computeTimeMSTotal  prometheus.Counter
}

func newMetrics() *metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &metrics{
		registry: registry,
		jobsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "snapstage_worker_jobs_total",
			Help: "Total worker jobs by source type and final status.",
		}, []string{"source_type", "status"}),
		jobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "snapstage_worker_job_duration_seconds",
			Help:    "Total processing duration for each worker job.",
			Buckets: prometheus.DefBuckets,
		}, []string{"source_type", "status"}),
		activeJobs: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "snapstage_worker_active_jobs",
			Help: "Current number of active render jobs in the worker.",
		}),
		renderOutputsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "snapstage_worker_render_outputs_total",
			Help: "Total composed outputs emitted by the worker.",
		}),
		pixelsComposedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "snapstage_usage_pixels_composed_total",
			Help: "Total output pixels composed across all successful jobs.",
		}),
		bytesWrittenTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "snapstage_usage_bytes_written_total",
			Help: "Total encoded bytes written across all successful jobs.",
		}),
		computeTimeMSTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "snapstage_usage_compute_time_ms_total",
			Help: "Total compute time in milliseconds across successful jobs.",
		}),
	}

	registry.MustRegister(
		m.jobsTotal,
		m.jobDuration,
		m.activeJobs,
		m.renderOutputsTotal,
		m.pixelsComposedTotal,
		m.bytesWrittenTotal,
		m.computeTimeMSTotal,
	)
	return m
}

func (m *metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
