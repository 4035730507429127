package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_RunsImmediatelyAndStops(t *testing.T) {
	s := NewScheduler()

	var runs atomic.Int32
	s.AddJob("counter", time.Hour, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})

	s.Start(context.Background())
	require.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 5*time.Millisecond)
	s.Stop()

	assert.Equal(t, int32(1), runs.Load())
}

func TestScheduler_RunOnceReportsFirstError(t *testing.T) {
	s := NewScheduler()
	boom := errors.New("boom")

	var second bool
	s.AddJob("failing", time.Hour, func(ctx context.Context) error { return boom })
	s.AddJob("second", time.Hour, func(ctx context.Context) error {
		second = true
		return nil
	})

	err := s.RunOnce(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.True(t, second)
}

func TestScheduler_PanickingJobIsContained(t *testing.T) {
	s := NewScheduler()
	s.AddJob("panics", time.Hour, func(ctx context.Context) error { panic("bad job") })

	err := s.RunOnce(context.Background())
	assert.ErrorContains(t, err, "panic: bad job")
}

func TestScheduler_IgnoresJobsAfterStart(t *testing.T) {
	s := NewScheduler()
	s.Start(context.Background())
	defer s.Stop()

	s.AddJob("late", time.Hour, func(ctx context.Context) error { return nil })
	assert.Empty(t, s.Jobs())
}

type fakePruner struct{ calls int }

func (f *fakePruner) PruneRevoked(now time.Time) int {
	f.calls++
	return 2
}

func TestAuthJobs_PruneRevokedTokens(t *testing.T) {
	p := &fakePruner{}
	jobs := NewAuthJobs(p)

	s := NewScheduler()
	jobs.RegisterJobs(s)
	require.Len(t, s.Jobs(), 1)

	require.NoError(t, s.RunOnce(context.Background()))
	assert.Equal(t, 1, p.calls)
}
