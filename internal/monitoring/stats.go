// Path: pokermaster-be/internal/monitoring/stats.go
package monitoring

import (
	"sync"
	"time"

	"github.com/isdelr/pokermaster-be/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// SampleFunc reads current host usage.
type SampleFunc func() (models.HostStats, error)

// StatSampler periodically samples host CPU and memory usage for the
// health endpoint.
type StatSampler struct {
	sample   SampleFunc
	interval time.Duration
	mu       sync.RWMutex
	latest   models.HostStats
	done     chan struct{}
	stopOnce sync.Once
}

// NewStatSampler creates a sampler backed by gopsutil.
func NewStatSampler(interval time.Duration) *StatSampler {
	return newStatSampler(sampleHost, interval)
}

func newStatSampler(sample SampleFunc, interval time.Duration) *StatSampler {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &StatSampler{sample: sample, interval: interval, done: make(chan struct{})}
}

// Run starts the periodic sampling. It returns after Stop.
func (s *StatSampler) Run() {
	log.Info().Dur("interval", s.interval).Msg("Starting host stat sampler")
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Run once immediately on start
	s.update()

	for {
		select {
		case <-s.done:
			log.Info().Msg("Stopping host stat sampler")
			return
		case <-ticker.C:
			s.update()
		}
	}
}

// Stop halts the periodic sampling.
func (s *StatSampler) Stop() {
	s.stopOnce.Do(func() { close(s.done) })
}

// Latest returns the most recent sample; SampledAt is zero before the first one.
func (s *StatSampler) Latest() models.HostStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

func (s *StatSampler) update() {
	stats, err := s.sample()
	if err != nil {
		log.Warn().Err(err).Msg("StatSampler: Could not sample host usage")
		return
	}
	s.mu.Lock()
	s.latest = stats
	s.mu.Unlock()
}

func sampleHost() (models.HostStats, error) {
	percents, err := cpu.Percent(0, false)
	if err != nil {
		return models.HostStats{}, err
	}
	vm, err := mem.VirtualMemory()
	if err != nil {
		return models.HostStats{}, err
	}

	stats := models.HostStats{MemPercent: vm.UsedPercent, SampledAt: time.Now().UTC()}
	if len(percents) > 0 {
		stats.CPUPercent = percents[0]
	}
	return stats, nil
}
