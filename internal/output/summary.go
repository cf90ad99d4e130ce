// Package output renders workload results for the terminal.
package output

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/wesleyorama2/tlstats/internal/workload"
)

// Formatter renders run summaries in text format
type Formatter struct {
	NoColor bool
}

// NewFormatter creates a new formatter with the given options
func NewFormatter(noColor bool) *Formatter {
	return &Formatter{NoColor: noColor}
}

// FormatSummary formats a workload result for display
func (f *Formatter) FormatSummary(res *workload.Result) string {
	scheme := DefaultColorScheme()
	if f.NoColor {
		scheme = NoColorScheme()
	}

	var buf strings.Builder

	buf.WriteString(fmt.Sprintf("▶ WORKLOAD: %s\n", scheme.Title.Sprint(res.Name)))
	buf.WriteString(fmt.Sprintf("  %s %d\n", scheme.Label.Sprint("Workers: "), res.Workers))
	buf.WriteString(fmt.Sprintf("  %s %v\n", scheme.Label.Sprint("Elapsed: "), res.Elapsed.Round(time.Millisecond)))
	buf.WriteString(fmt.Sprintf("  %s %d (%.1f req/s)\n",
		scheme.Label.Sprint("Requests:"), res.Requests, res.RPS))

	failures := scheme.Success
	if res.Failures > 0 {
		failures = scheme.Error
	}
	buf.WriteString(fmt.Sprintf("  %s %s (%.2f%%)\n",
		scheme.Label.Sprint("Failures:"),
		failures.Sprintf("%d", res.Failures),
		res.ErrorRate*100))

	lat := res.Latency
	buf.WriteString(fmt.Sprintf("  %s p50=%v p90=%v p95=%v p99=%v max=%v\n",
		scheme.Label.Sprint("Latency: "),
		lat.P50, lat.P90, lat.P95, lat.P99, lat.Max))

	if res.Inflight != 0 {
		buf.WriteString(scheme.Warn.Sprintf("  %d requests still in flight at shutdown\n", res.Inflight))
	}

	return buf.String()
}

// FormatJSON formats a workload result as indented JSON
func FormatJSON(res *workload.Result) (string, error) {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
