package workload

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/tlstats/internal/config"
)

func TestRunner_Run(t *testing.T) {
	cfg := &config.Workload{
		Name:        "runner test",
		Workers:     4,
		Duration:    config.Duration(300 * time.Millisecond),
		Interval:    config.Duration(50 * time.Millisecond),
		FailureRate: 1.0, // every simulated request fails
	}

	result, err := NewRunner(cfg).Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, "runner test", result.Name)
	assert.Equal(t, 4, result.Workers)
	assert.Greater(t, result.Requests, int64(0), "workers should have recorded requests")
	assert.Equal(t, result.Requests, result.Failures, "failure rate 1.0 means every request fails")
	assert.Equal(t, 1.0, result.ErrorRate)
	assert.Equal(t, int64(0), result.Inflight, "all requests should have completed")
	assert.Equal(t, result.Requests, result.Latency.Count, "one latency recording per request")
	assert.Greater(t, result.RPS, 0.0)
	assert.GreaterOrEqual(t, result.Elapsed, 300*time.Millisecond)
}

func TestRunner_Run_NoFailures(t *testing.T) {
	cfg := &config.Workload{
		Name:        "clean run",
		Workers:     2,
		Duration:    config.Duration(150 * time.Millisecond),
		Interval:    config.Duration(25 * time.Millisecond),
		FailureRate: 0,
	}

	result, err := NewRunner(cfg).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(0), result.Failures)
	assert.Equal(t, 0.0, result.ErrorRate)
}
