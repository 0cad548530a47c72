package monitoring

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isdelr/pokermaster-be/internal/models"
)

func TestStatSampler_UpdatesLatest(t *testing.T) {
	var calls atomic.Int32
	s := newStatSampler(func() (models.HostStats, error) {
		n := calls.Add(1)
		return models.HostStats{CPUPercent: float64(n), MemPercent: 50, SampledAt: time.Now()}, nil
	}, 10*time.Millisecond)

	assert.True(t, s.Latest().SampledAt.IsZero())

	go s.Run()
	t.Cleanup(s.Stop)

	assert.Eventually(t, func() bool { return s.Latest().CPUPercent >= 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 50.0, s.Latest().MemPercent)
}

func TestStatSampler_KeepsLastGoodSample(t *testing.T) {
	fail := false
	s := newStatSampler(func() (models.HostStats, error) {
		if fail {
			return models.HostStats{}, errors.New("unavailable")
		}
		return models.HostStats{CPUPercent: 12, SampledAt: time.Now()}, nil
	}, time.Hour)

	s.update()
	fail = true
	s.update()

	assert.Equal(t, 12.0, s.Latest().CPUPercent)
	s.Stop()
	s.Stop()
}

type fakeRooms struct {
	swept   atomic.Int32
	olderTh time.Duration
}

func (f *fakeRooms) SweepIdleRooms(olderThan time.Duration) int {
	f.olderTh = olderThan
	f.swept.Add(1)
	return 3
}
func (f *fakeRooms) ClientCount() int { return 1 }
func (f *fakeRooms) RoomCount() int   { return 2 }

type fakeUsers struct{ err error }

func (f fakeUsers) Count(context.Context) (int, error) { return 7, f.err }

func TestScheduler_Jobs(t *testing.T) {
	rooms := &fakeRooms{}
	s := NewScheduler(rooms, fakeUsers{}, 30*time.Minute)

	s.sweepRooms()
	assert.EqualValues(t, 1, rooms.swept.Load())
	assert.Equal(t, 30*time.Minute, rooms.olderTh)

	s.logStats()
	NewScheduler(rooms, fakeUsers{err: errors.New("down")}, 0).logStats()

	disabled := NewScheduler(rooms, fakeUsers{}, 0)
	disabled.sweepRooms()
	assert.EqualValues(t, 1, rooms.swept.Load())
}

func TestScheduler_RunAndStop(t *testing.T) {
	s := NewScheduler(&fakeRooms{}, fakeUsers{}, time.Minute)
	require.NoError(t, s.Run())
	assert.Len(t, s.cron.Entries(), 2)
	s.Stop()
}
