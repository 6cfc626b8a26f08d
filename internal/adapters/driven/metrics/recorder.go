// Package metrics records request and model outcomes as Prometheus metrics.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/workspace-agent/internal/core/domain"
	"github.com/custodia-labs/workspace-agent/internal/core/ports/driven"
)

// Ensure Recorder implements the interface.
var _ driven.MetricsRecorder = (*Recorder)(nil)

// Recorder owns a registry so tests and embedders do not share global state.
type Recorder struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	llmCalls        *prometheus.CounterVec
	llmDuration     *prometheus.HistogramVec
}

// NewRecorder creates a recorder with its own registry, including the Go
// runtime and process collectors.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wsagent_requests_total",
			Help: "Handled requests by service and result status",
		}, []string{"service", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wsagent_request_duration_seconds",
			Help:    "End-to-end request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"service"}),
		llmCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wsagent_llm_calls_total",
			Help: "Language model calls by model and result",
		}, []string{"model", "result"}),
		llmDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wsagent_llm_call_duration_seconds",
			Help:    "Language model call latency in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 9),
		}, []string{"model"}),
	}
}

// ObserveRequest records one handled request.
func (r *Recorder) ObserveRequest(service domain.Service, status domain.Status, elapsed time.Duration) {
	label := string(service)
	if label == "" {
		label = "unknown"
	}
	r.requests.WithLabelValues(label, string(status)).Inc()
	r.requestDuration.WithLabelValues(label).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// InstrumentLLM wraps an LLM service so every Chat call is counted and timed.
func (r *Recorder) InstrumentLLM(inner driven.LLMService) driven.LLMService {
	return &instrumentedLLM{inner: inner, recorder: r}
}

// instrumentedLLM wraps any LLMService to capture metrics.
type instrumentedLLM struct {
	inner    driven.LLMService
	recorder *Recorder
}

func (i *instrumentedLLM) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (reply string, err error) {
	start := time.Now()
	defer func() {
		result := "success"
		if err != nil {
			result = "error"
		}
		model := i.inner.ModelName()
		i.recorder.llmCalls.WithLabelValues(model, result).Inc()
		i.recorder.llmDuration.WithLabelValues(model).Observe(time.Since(start).Seconds())
	}()
	return i.inner.Chat(ctx, messages, opts)
}

func (i *instrumentedLLM) ModelName() string {
	return i.inner.ModelName()
}

func (i *instrumentedLLM) Ping(ctx context.Context) error {
	return i.inner.Ping(ctx)
}

func (i *instrumentedLLM) Close() error {
	return i.inner.Close()
}
