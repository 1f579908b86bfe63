package monitoring

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rushairer/bulkbench"
)

// PrometheusMetrics Prometheus 指标收集器，实现 bulkbench.MetricsReporter 接口
type PrometheusMetrics struct {
	// 基准测试指标
	benchmarkDuration *prometheus.HistogramVec
	benchmarkTotal    *prometheus.CounterVec
	recordsInserted   *prometheus.CounterVec

	registry *prometheus.Registry
}

var _ bulkbench.MetricsReporter = (*PrometheusMetrics)(nil)

// NewPrometheusMetrics 创建 Prometheus 指标收集器
func NewPrometheusMetrics() *PrometheusMetrics {
	registry := prometheus.NewRegistry()

	pm := &PrometheusMetrics{
		benchmarkDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bulkbench_benchmark_duration_seconds",
				Help:    "Duration of benchmark invocations in seconds",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 18), // 1ms 到约 2 分钟
			},
			[]string{"strategy", "status"},
		),

		benchmarkTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bulkbench_benchmark_total",
				Help: "Total number of benchmark invocations",
			},
			[]string{"strategy", "status"},
		),

		recordsInserted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bulkbench_records_inserted_total",
				Help: "Total number of records inserted by benchmarks",
			},
			[]string{"strategy"},
		),

		registry: registry,
	}

	registry.MustRegister(
		pm.benchmarkDuration,
		pm.benchmarkTotal,
		pm.recordsInserted,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return pm
}

// ReportBenchmark 上报一次基准测试结果
func (pm *PrometheusMetrics) ReportBenchmark(_ context.Context, result bulkbench.BenchmarkResult, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	pm.benchmarkDuration.WithLabelValues(result.Strategy, status).
		Observe(float64(result.ExecutionTimeMs) / 1000)
	pm.benchmarkTotal.WithLabelValues(result.Strategy, status).Inc()
	if err == nil {
		pm.recordsInserted.WithLabelValues(result.Strategy).Add(float64(result.TotalRecords))
	}
}

// Handler 暴露 /metrics 的 HTTP 处理器
func (pm *PrometheusMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(pm.registry, promhttp.HandlerOpts{})
}

// Registry 底层注册表（测试用）
func (pm *PrometheusMetrics) Registry() *prometheus.Registry {
	return pm.registry
}
