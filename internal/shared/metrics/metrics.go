package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	generationStartedTotal   atomic.Uint64
	generationSucceededTotal atomic.Uint64
	generationFailedTotal    atomic.Uint64
	variantFailedTotal       atomic.Uint64
	revisionSucceededTotal   atomic.Uint64
	revisionFailedTotal      atomic.Uint64

	generationDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

// IncGenerationStarted increments the started counter.
func IncGenerationStarted() {
	generationStartedTotal.Add(1)
}

// IncGenerationSucceeded increments the succeeded counter.
func IncGenerationSucceeded() {
	generationSucceededTotal.Add(1)
}

// IncGenerationFailed increments the counter of cycles where every variant failed.
func IncGenerationFailed() {
	generationFailedTotal.Add(1)
}

// IncVariantFailed increments the counter of dropped variants.
func IncVariantFailed() {
	variantFailedTotal.Add(1)
}

// IncRevision records the outcome of a revision call.
func IncRevision(ok bool) {
	if ok {
		revisionSucceededTotal.Add(1)
		return
	}
	revisionFailedTotal.Add(1)
}

// ObserveGenerationDurationMs records a generation cycle duration in milliseconds.
func ObserveGenerationDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	generationDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "coverletter_generation_started_total", "Total generation cycles started", generationStartedTotal.Load())
	writeCounter(&buf, "coverletter_generation_succeeded_total", "Total generation cycles that produced a document", generationSucceededTotal.Load())
	writeCounter(&buf, "coverletter_generation_failed_total", "Total generation cycles where every variant failed", generationFailedTotal.Load())
	writeCounter(&buf, "coverletter_variant_failed_total", "Total variants dropped during generation", variantFailedTotal.Load())
	writeCounter(&buf, "coverletter_revision_succeeded_total", "Total successful revision calls", revisionSucceededTotal.Load())
	writeCounter(&buf, "coverletter_revision_failed_total", "Total failed revision calls", revisionFailedTotal.Load())
	writeHistogram(&buf, "coverletter_generation_duration_ms", "Generation cycle duration in milliseconds", generationDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			break
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
