package engine

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/feedsieve/internal/config"
)

// stubProcessor drives the scheduler in tests.
type stubProcessor struct {
	calls     atomic.Int64
	err       error
	panicking bool
}

func (p *stubProcessor) ProcessOne(_ context.Context) (bool, error) {
	p.calls.Add(1)
	if p.panicking {
		panic("boom")
	}
	if p.err != nil {
		return false, p.err
	}
	return false, nil
}

func queueConfig(intervalSeconds int) config.QueueConfig {
	return config.QueueConfig{
		MaxRetries:             3,
		ProcessIntervalSeconds: intervalSeconds,
		PurgeAfterDays:         7,
	}
}

func TestNewSchedulerErrorBackoff(t *testing.T) {
	tests := []struct {
		name            string
		intervalSeconds int
		wantBackoff     time.Duration
	}{
		{name: "fifth of the interval", intervalSeconds: 60, wantBackoff: 12 * time.Second},
		{name: "capped at one minute", intervalSeconds: 600, wantBackoff: time.Minute},
		{name: "default interval", intervalSeconds: 300, wantBackoff: time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScheduler(&stubProcessor{}, &fakeQueue{}, queueConfig(tt.intervalSeconds), testLogger())
			assert.Equal(t, tt.wantBackoff, s.errorBackoff)
			assert.Equal(t, time.Duration(tt.intervalSeconds)*time.Second, s.interval)
		})
	}
}

func TestSchedulerRunStopsOnCancel(t *testing.T) {
	processor := &stubProcessor{}
	s := NewScheduler(processor, &fakeQueue{}, queueConfig(60), testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Run(ctx)
	}()

	// Let the first cycle run, then cancel while the scheduler waits.
	require.Eventually(t, func() bool {
		return processor.calls.Load() >= 1
	}, time.Second, 10*time.Millisecond)

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after cancellation")
	}
}

// blockingProcessor holds its single cycle open until released and
// records whether that cycle's context was cancelled.
type blockingProcessor struct {
	started   chan struct{}
	release   chan struct{}
	sawCancel atomic.Bool
}

func (p *blockingProcessor) ProcessOne(ctx context.Context) (bool, error) {
	close(p.started)
	<-p.release
	if ctx.Err() != nil {
		p.sawCancel.Store(true)
	}
	return false, nil
}

func TestSchedulerDoesNotInterruptInFlightCycle(t *testing.T) {
	processor := &blockingProcessor{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	s := NewScheduler(processor, &fakeQueue{}, queueConfig(60), testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Run(ctx)
	}()

	<-processor.started

	// Shut down while the cycle is still running, then let it finish.
	cancel()
	close(processor.release)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after cancellation")
	}

	assert.False(t, processor.sawCancel.Load(),
		"an in-flight cycle must not see the shutdown cancellation")
}

func TestCycleReturnsProcessorError(t *testing.T) {
	processor := &stubProcessor{err: errors.New("database gone")}
	s := NewScheduler(processor, &fakeQueue{}, queueConfig(60), testLogger())

	err := s.cycle(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "database gone")
}

func TestCycleRecoversPanic(t *testing.T) {
	processor := &stubProcessor{panicking: true}
	s := NewScheduler(processor, &fakeQueue{}, queueConfig(60), testLogger())

	err := s.cycle(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "panicked")
}
