package monitoring

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// RoomSweeper removes idle game rooms.
type RoomSweeper interface {
	SweepIdleRooms(olderThan time.Duration) int
	ClientCount() int
	RoomCount() int
}

// UserCounter reports the number of registered identities.
type UserCounter interface {
	Count(ctx context.Context) (int, error)
}

// Default housekeeping schedules.
const (
	SweepSpec = "@every 1m"
	StatsSpec = "@every 5m"
)

// Scheduler runs periodic housekeeping jobs.
type Scheduler struct {
	cron        *cron.Cron
	rooms       RoomSweeper
	users       UserCounter
	idleTimeout time.Duration
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(rooms RoomSweeper, users UserCounter, idleTimeout time.Duration) *Scheduler {
	return &Scheduler{
		cron:        cron.New(),
		rooms:       rooms,
		users:       users,
		idleTimeout: idleTimeout,
	}
}

// Run registers the jobs and starts the cron runner in its own goroutine.
func (s *Scheduler) Run() error {
	if _, err := s.cron.AddFunc(SweepSpec, s.sweepRooms); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(StatsSpec, s.logStats); err != nil {
		return err
	}
	log.Info().Str("sweep", SweepSpec).Str("stats", StatsSpec).Msg("Starting background scheduler")
	s.cron.Start()
	return nil
}

// Stop halts the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Info().Msg("Stopped background scheduler")
}

func (s *Scheduler) sweepRooms() {
	if s.idleTimeout <= 0 {
		return
	}
	if n := s.rooms.SweepIdleRooms(s.idleTimeout); n > 0 {
		log.Info().Int("removed", n).Dur("idle_timeout", s.idleTimeout).Msg("Scheduler: Swept idle game rooms")
	}
}

func (s *Scheduler) logStats() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	users, err := s.users.Count(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Scheduler: Failed to count users")
		return
	}
	log.Info().
		Int("users", users).
		Int("clients", s.rooms.ClientCount()).
		Int("rooms", s.rooms.RoomCount()).
		Msg("Scheduler: Activity snapshot")
}
