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
	submissionAcceptedTotal  atomic.Uint64
	submissionRejectedTotal  atomic.Uint64
	documentProcessedTotal   atomic.Uint64
	documentSkippedTotal     atomic.Uint64
	extractionDegradedTotal  atomic.Uint64
	notificationFailedTotal  atomic.Uint64

	submissionDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

// IncSubmissionAccepted increments the accepted-submission counter.
func IncSubmissionAccepted() {
	submissionAcceptedTotal.Add(1)
}

// IncSubmissionRejected increments the rejected-submission counter.
func IncSubmissionRejected() {
	submissionRejectedTotal.Add(1)
}

// IncDocumentProcessed increments the processed-document counter.
func IncDocumentProcessed() {
	documentProcessedTotal.Add(1)
}

// IncDocumentSkipped increments the skipped-document counter.
func IncDocumentSkipped() {
	documentSkippedTotal.Add(1)
}

// IncExtractionDegraded increments the degraded-extraction counter.
func IncExtractionDegraded() {
	extractionDegradedTotal.Add(1)
}

// IncNotificationFailed increments the failed-notification counter.
func IncNotificationFailed() {
	notificationFailedTotal.Add(1)
}

// ObserveSubmissionDurationMs records a full pipeline duration in milliseconds.
func ObserveSubmissionDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	submissionDuration.Observe(value)
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
	writeCounter(&buf, "submission_accepted_total", "Total submissions accepted by the gateway", submissionAcceptedTotal.Load())
	writeCounter(&buf, "submission_rejected_total", "Total submissions rejected by the gateway", submissionRejectedTotal.Load())
	writeCounter(&buf, "document_processed_total", "Total documents processed", documentProcessedTotal.Load())
	writeCounter(&buf, "document_skipped_total", "Total documents skipped at upload", documentSkippedTotal.Load())
	writeCounter(&buf, "extraction_degraded_total", "Total extractions that degraded to a low-confidence result", extractionDegradedTotal.Load())
	writeCounter(&buf, "notification_failed_total", "Total post-submission notifications that failed", notificationFailedTotal.Load())
	writeHistogram(&buf, "submission_duration_ms", "Submission pipeline duration in milliseconds", submissionDuration.Snapshot())
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
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
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
