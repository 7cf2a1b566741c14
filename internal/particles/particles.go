// Package particles drives the decorative background of the dark theme: a
// spawner that keeps a handful of short-lived particles drifting across the
// page.
package particles

import (
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	liveParticles = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "particles_live",
		Help: "Decorative particles currently on screen.",
	})

	batchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "particle_batches_total",
		Help: "Total number of particle batches spawned.",
	})
)

// Kind is the visual kind of a particle.
type Kind int

const (
	Cube Kind = iota
	Spike
	Orb
)

func (k Kind) String() string {
	switch k {
	case Cube:
		return "cube"
	case Spike:
		return "spike"
	case Orb:
		return "orb"
	}
	return "unknown"
}

// pick draws a kind: cubes 60%, spikes 30%, orbs 10%.
func pick(r *rand.Rand) Kind {
	switch n := r.Intn(100); {
	case n < 60:
		return Cube
	case n < 90:
		return Spike
	default:
		return Orb
	}
}

// Particle is one spawned element.
type Particle struct {
	ID       int
	Kind     Kind
	StartX   float64 // percent of page width
	DriftX   float64 // horizontal travel in percent, either direction
	Duration time.Duration
	Delay    time.Duration
}

// Config tunes a Spawner. Zero fields take the defaults.
type Config struct {
	Interval    time.Duration
	LowWater    int
	MinBatch    int
	MaxBatch    int
	MinDuration time.Duration
	MaxDuration time.Duration
	MaxDelay    time.Duration

	// Active reports whether spawning should still happen, typically whether
	// the dark theme is on. Nil means always.
	Active func() bool
	Rand   *rand.Rand
	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.Interval <= 0 {
		c.Interval = 3 * time.Second
	}
	if c.LowWater <= 0 {
		c.LowWater = 4
	}
	if c.MinBatch <= 0 {
		c.MinBatch = 4
	}
	if c.MaxBatch < c.MinBatch {
		c.MaxBatch = 10
	}
	if c.MinDuration <= 0 {
		c.MinDuration = 8 * time.Second
	}
	if c.MaxDuration < c.MinDuration {
		c.MaxDuration = 15 * time.Second
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = 2 * time.Second
	}
	if c.Active == nil {
		c.Active = func() bool { return true }
	}
	if c.Rand == nil {
		c.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Spawner owns the live particles and every timer that creates or removes
// them.
type Spawner struct {
	cfg Config

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	live    map[int]Particle
	timers  map[int]*time.Timer
	nextID  int
	wg      sync.WaitGroup
}

func NewSpawner(cfg Config) *Spawner {
	cfg.defaults()
	return &Spawner{
		cfg:    cfg,
		live:   make(map[int]Particle),
		timers: make(map[int]*time.Timer),
	}
}

// Start spawns a first batch and then checks every interval whether another
// is due. Starting a running spawner does nothing.
func (s *Spawner) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	stop := make(chan struct{})
	s.stop = stop
	s.wg.Add(1)
	s.mu.Unlock()

	go s.loop(stop)
}

func (s *Spawner) loop(stop <-chan struct{}) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	s.Tick()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.Tick()
		}
	}
}

// Tick spawns a batch if the spawner is running and active and no more than
// the low-water mark of particles is live. It returns the batch size.
func (s *Spawner) Tick() int {
	if !s.cfg.Active() {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running || len(s.live) > s.cfg.LowWater {
		return 0
	}

	r := s.cfg.Rand
	n := s.cfg.MinBatch + r.Intn(s.cfg.MaxBatch-s.cfg.MinBatch+1)
	for range n {
		s.nextID++
		p := Particle{
			ID:       s.nextID,
			Kind:     pick(r),
			StartX:   r.Float64() * 100,
			DriftX:   (r.Float64()*2 - 1) * 30,
			Duration: s.cfg.MinDuration + time.Duration(r.Int63n(int64(s.cfg.MaxDuration-s.cfg.MinDuration)+1)),
			Delay:    time.Duration(r.Int63n(int64(s.cfg.MaxDelay) + 1)),
		}
		id := p.ID
		s.live[id] = p
		s.timers[id] = time.AfterFunc(p.Delay+p.Duration, func() { s.remove(id) })
	}
	liveParticles.Add(float64(n))
	batchesTotal.Inc()
	s.cfg.Logger.Debug("particle batch spawned", "count", n, "live", len(s.live))
	return n
}

func (s *Spawner) remove(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.live[id]; !ok {
		return false
	}
	delete(s.live, id)
	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}
	liveParticles.Dec()
	return true
}

// Dismiss removes a particle before its animation ends, as when it is
// clicked. It reports whether the particle was still live.
func (s *Spawner) Dismiss(id int) bool {
	return s.remove(id)
}

// Stop cancels the interval and every pending removal and clears the live
// particles. It returns once the interval goroutine has exited.
func (s *Spawner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stop)
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
	liveParticles.Sub(float64(len(s.live)))
	clear(s.live)
	s.mu.Unlock()

	s.wg.Wait()
}

// Live is the number of particles on screen.
func (s *Spawner) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.live)
}

// Pending is the number of removal timers not yet fired.
func (s *Spawner) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Running reports whether the interval is active.
func (s *Spawner) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Particles returns a snapshot of the live particles.
func (s *Spawner) Particles() []Particle {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Particle, 0, len(s.live))
	for _, p := range s.live {
		out = append(out, p)
	}
	return out
}
