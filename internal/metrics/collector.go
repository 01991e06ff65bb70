// Package metrics records per-run batching counters and writes them in
// Prometheus text exposition format, suitable for a node-exporter textfile
// collector. There is no HTTP listener: runbatch is a one-shot process.
package metrics

import (
	"bytes"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Collector owns the Prometheus metrics of a single run. Each run builds
// its own collector on a private registry so repeated runs in tests never
// collide on registration.
type Collector struct {
	registry *prometheus.Registry

	chunksTotal *prometheus.CounterVec
	itemsTotal  prometheus.Counter
	bytesTotal  prometheus.Counter
	argLimit    prometheus.Gauge
}

// NewCollector creates a collector with all metrics registered.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		chunksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "runbatch_chunks_total",
				Help: "Subprocess invocations by outcome",
			},
			[]string{"status"},
		),
		itemsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "runbatch_items_total",
				Help: "Items passed to batched subprocesses",
			},
		),
		bytesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "runbatch_command_bytes_total",
				Help: "Total argv bytes across all invocations",
			},
		),
		argLimit: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "runbatch_arg_limit_bytes",
				Help: "Byte budget used for one invocation in this run",
			},
		),
	}

	c.registry.MustRegister(c.chunksTotal)
	c.registry.MustRegister(c.itemsTotal)
	c.registry.MustRegister(c.bytesTotal)
	c.registry.MustRegister(c.argLimit)

	return c
}

// SetArgLimit records the byte budget the run ended up using.
func (c *Collector) SetArgLimit(limit int) {
	c.argLimit.Set(float64(limit))
}

// ObserveChunk records one finished subprocess invocation.
func (c *Collector) ObserveChunk(items, bytes int, failed bool) {
	status := "ok"
	if failed {
		status = "failed"
	}
	c.chunksTotal.WithLabelValues(status).Inc()
	c.itemsTotal.Add(float64(items))
	c.bytesTotal.Add(float64(bytes))
}

// WriteFile writes all metrics to path in text exposition format. The file
// is written to a temporary sibling first and renamed, so a scraping
// textfile collector never sees a partial write.
func (c *Collector) WriteFile(path string) error {
	families, err := c.registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	var buf bytes.Buffer
	encoder := expfmt.NewEncoder(&buf, expfmt.FmtText)
	for _, mf := range families {
		if err := encoder.Encode(mf); err != nil {
			return fmt.Errorf("failed to encode metric %s: %w", mf.GetName(), err)
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return os.Rename(tmp, path)
}
