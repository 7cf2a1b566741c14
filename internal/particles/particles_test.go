package particles

import (
	"math/rand"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func quiet(batch int) Config {
	return Config{
		Interval:    time.Hour,
		MinBatch:    batch,
		MaxBatch:    batch,
		MinDuration: time.Hour,
		MaxDuration: time.Hour,
		MaxDelay:    time.Millisecond,
		Rand:        rand.New(rand.NewSource(1)),
	}
}

func TestStartSpawnsFirstBatch(t *testing.T) {
	s := NewSpawner(quiet(6))
	defer s.Stop()

	s.Start()
	waitFor(t, func() bool { return s.Live() == 6 })
	if s.Pending() != 6 {
		t.Errorf("pending = %d, want 6", s.Pending())
	}
	if !s.Running() {
		t.Error("spawner not running")
	}
}

func TestLowWaterMark(t *testing.T) {
	s := NewSpawner(quiet(6))
	defer s.Stop()
	s.Start()
	waitFor(t, func() bool { return s.Live() == 6 })

	if n := s.Tick(); n != 0 {
		t.Fatalf("spawned %d above the low-water mark", n)
	}

	ps := s.Particles()
	s.Dismiss(ps[0].ID)
	s.Dismiss(ps[1].ID)
	if s.Live() != 4 {
		t.Fatalf("live = %d after two dismissals", s.Live())
	}
	if n := s.Tick(); n != 6 {
		t.Errorf("spawned %d at the low-water mark, want 6", n)
	}
	if s.Dismiss(ps[0].ID) {
		t.Error("dismissing twice reported success")
	}
}

func TestBatchSizeRange(t *testing.T) {
	cfg := quiet(0)
	cfg.MinBatch, cfg.MaxBatch = 4, 10
	s := NewSpawner(cfg)
	defer s.Stop()
	s.Start()
	waitFor(t, func() bool { return s.Live() > 0 })

	for i := 0; i < 50; i++ {
		for _, p := range s.Particles() {
			s.Dismiss(p.ID)
		}
		n := s.Tick()
		if n < 4 || n > 10 {
			t.Fatalf("batch of %d outside 4..10", n)
		}
	}
}

func TestInactiveDoesNotSpawn(t *testing.T) {
	var active atomic.Bool
	cfg := quiet(5)
	cfg.Active = active.Load
	s := NewSpawner(cfg)
	defer s.Stop()

	s.Start()
	if n := s.Tick(); n != 0 {
		t.Errorf("spawned %d while inactive", n)
	}
	active.Store(true)
	if n := s.Tick(); n != 5 {
		t.Errorf("spawned %d once active, want 5", n)
	}
}

func TestParticlesRemoveThemselves(t *testing.T) {
	cfg := quiet(5)
	cfg.MinDuration, cfg.MaxDuration = 100*time.Millisecond, 150*time.Millisecond
	s := NewSpawner(cfg)
	defer s.Stop()

	s.Start()
	waitFor(t, func() bool { return s.Live() == 5 })
	waitFor(t, func() bool { return s.Live() == 0 && s.Pending() == 0 })
}

func TestStopTearsDown(t *testing.T) {
	before := testutil.ToFloat64(liveParticles)

	s := NewSpawner(quiet(8))
	s.Start()
	waitFor(t, func() bool { return s.Live() == 8 })
	s.Stop()

	if s.Live() != 0 || s.Pending() != 0 || s.Running() {
		t.Errorf("after stop: live %d, pending %d, running %v", s.Live(), s.Pending(), s.Running())
	}
	if n := s.Tick(); n != 0 {
		t.Errorf("stopped spawner spawned %d", n)
	}
	if got := testutil.ToFloat64(liveParticles); got != before {
		t.Errorf("live gauge = %v, want %v", got, before)
	}

	// Stop is idempotent and the spawner can be restarted.
	s.Stop()
	s.Start()
	waitFor(t, func() bool { return s.Live() == 8 })
	s.Stop()
}

func TestKindWeights(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	counts := map[Kind]int{}
	const draws = 20000
	for range draws {
		counts[pick(r)]++
	}
	want := map[Kind]float64{Cube: 0.6, Spike: 0.3, Orb: 0.1}
	for k, share := range want {
		got := float64(counts[k]) / draws
		if got < share-0.02 || got > share+0.02 {
			t.Errorf("%s share = %.3f, want about %.1f", k, got, share)
		}
	}
}
