package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	m.FileWritten(100, time.Millisecond)
	m.FileWritten(50, time.Millisecond)
	m.WriteFailed()
	m.FileSkipped()
	m.FileSkipped()
	m.SetWorkerBudget(4096)
	m.WorkerStarted()
	m.WorkerStarted()
	m.WorkerDone()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.filesWritten))
	assert.Equal(t, 150.0, testutil.ToFloat64(m.bytesWritten))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.writeErrors))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.filesSkipped))
	assert.Equal(t, 4096.0, testutil.ToFloat64(m.workerBudget))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.workersActive))

	count, err := testutil.GatherAndCount(registry, "tilefill_file_write_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNewWithoutRegistry(t *testing.T) {
	m := New(nil)
	m.FileWritten(1, time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.filesWritten))
}

func TestServeStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, "127.0.0.1:0", prometheus.NewRegistry())
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
