package resources

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/Aman-CERP/seqmatch/pkg/matcher"
)

// Sample is one resource measurement taken while an algorithm runs.
type Sample struct {
	Timestamp  time.Time         `json:"timestamp"`
	MemoryMB   float64           `json:"memory_mb"`
	CPUPercent float64           `json:"cpu_percent"`
	Algorithm  matcher.Algorithm `json:"algorithm"`
}

// SamplerConfig controls sampling frequency and retention.
type SamplerConfig struct {
	Interval time.Duration // time between samples (default: 50ms)
	Capacity int           // samples retained, oldest evicted first (default: 100)
}

// DefaultSamplerConfig returns a 50ms interval and 100-sample retention.
func DefaultSamplerConfig() SamplerConfig {
	return SamplerConfig{
		Interval: 50 * time.Millisecond,
		Capacity: 100,
	}
}

// Sampler periodically records memory and CPU usage.
// Safe for concurrent use; Reading never blocks on the sampling loop.
type Sampler struct {
	cfg     SamplerConfig
	samples *Ring[Sample]

	mu        sync.Mutex
	algorithm matcher.Algorithm
	cancel    context.CancelFunc
	done      chan struct{}
	lastCPU   time.Duration
	lastWall  time.Time

	// Replaced in tests
	cpuTime  func() (time.Duration, bool)
	memoryMB func() float64
	now      func() time.Time
}

// Verify interface implementation at compile time
var _ matcher.Probe = (*Sampler)(nil)

// NewSampler creates a stopped sampler. Zero config fields take defaults.
func NewSampler(cfg SamplerConfig) *Sampler {
	def := DefaultSamplerConfig()
	if cfg.Interval <= 0 {
		cfg.Interval = def.Interval
	}
	if cfg.Capacity <= 0 {
		cfg.Capacity = def.Capacity
	}
	return &Sampler{
		cfg:      cfg,
		samples:  NewRing[Sample](cfg.Capacity),
		cpuTime:  processCPUTime,
		memoryMB: HeapMB,
		now:      time.Now,
	}
}

// Config returns the effective configuration.
func (s *Sampler) Config() SamplerConfig {
	return s.cfg
}

// Start clears previous samples and begins sampling for algorithm.
// A first sample is taken immediately. Calling Start while running is a no-op.
func (s *Sampler) Start(ctx context.Context, algorithm matcher.Algorithm) {
	s.mu.Lock()
	if s.cancel != nil {
		s.mu.Unlock()
		return
	}
	s.samples.Clear()
	s.algorithm = algorithm
	s.lastCPU, s.lastWall = 0, time.Time{}

	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done
	s.mu.Unlock()

	s.SampleNow()
	go s.loop(loopCtx, done)
}

func (s *Sampler) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SampleNow()
		}
	}
}

// Stop halts sampling and returns the retained samples, oldest first.
// Stop on a stopped sampler just returns the samples.
func (s *Sampler) Stop() []Sample {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
	return s.samples.Items()
}

// Running reports whether the sampling loop is active.
func (s *Sampler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// SampleNow takes one measurement synchronously and records it.
func (s *Sampler) SampleNow() Sample {
	s.mu.Lock()
	sample := s.measure(s.now())
	s.mu.Unlock()

	s.samples.Add(sample)
	return sample
}

// measure must be called with s.mu held.
func (s *Sampler) measure(now time.Time) Sample {
	sample := Sample{
		Timestamp: now,
		MemoryMB:  s.memoryMB(),
		Algorithm: s.algorithm,
	}

	cpu, ok := s.cpuTime()
	if !ok {
		return sample
	}
	if !s.lastWall.IsZero() {
		if wall := now.Sub(s.lastWall); wall > 0 {
			pct := float64(cpu-s.lastCPU) / float64(wall) * 100 / float64(runtime.GOMAXPROCS(0))
			sample.CPUPercent = min(max(pct, 0), 100)
		}
	}
	s.lastCPU, s.lastWall = cpu, now
	return sample
}

// Latest returns the newest sample.
func (s *Sampler) Latest() (Sample, bool) {
	return s.samples.Last()
}

// Samples returns the retained samples, oldest first.
func (s *Sampler) Samples() []Sample {
	return s.samples.Items()
}

// Reading returns the newest sample as a matcher.Reading.
func (s *Sampler) Reading() (matcher.Reading, bool) {
	latest, ok := s.samples.Last()
	if !ok {
		return matcher.Reading{}, false
	}
	return matcher.Reading{MemoryMB: latest.MemoryMB, CPUPercent: latest.CPUPercent}, true
}

// MemorySeries returns the memory readings of the retained samples.
func (s *Sampler) MemorySeries() []float64 {
	items := s.samples.Items()
	out := make([]float64, len(items))
	for i, it := range items {
		out[i] = it.MemoryMB
	}
	return out
}
