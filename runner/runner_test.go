package runner

import (
	"sync"
	"testing"

	"github.com/xor-shift/tangosat/common"
	"github.com/xor-shift/tangosat/config"
)

type collector struct {
	mu      sync.Mutex
	records []common.RunRecord
}

func (c *collector) Publish(r common.RunRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, r)
	return nil
}

func TestRunTiny(t *testing.T) {
	sim, _ := config.Preset("tiny")

	rec := Run(sim)
	if rec.Error != "" {
		t.Fatal(rec.Error)
	}
	if rec.Status != "sat" || !rec.Exact || !rec.Consistent {
		t.Errorf("status=%s exact=%v consistent=%v", rec.Status, rec.Exact, rec.Consistent)
	}
	if rec.Solver != "gini" {
		t.Errorf("solver %q", rec.Solver)
	}
}

func TestRunnerPublishesEveryJob(t *testing.T) {
	pub := &collector{}
	r := New(pub)
	r.Start(2)

	sim, _ := config.Preset("tiny")
	for _, solver := range []string{"gini", "gophersat", "gini"} {
		s := sim
		s.Solver = solver
		if _, err := r.Submit(s); err != nil {
			t.Fatal(err)
		}
	}

	r.Stop()

	if len(pub.records) != 3 {
		t.Fatalf("published %d records, want 3", len(pub.records))
	}
	for _, rec := range pub.records {
		if !rec.Exact {
			t.Errorf("%s run not exact: %+v", rec.Solver, rec)
		}
	}

	if _, err := r.Submit(sim); err != ErrStopped {
		t.Errorf("submit after stop: %v", err)
	}
}

func TestSubmitValidates(t *testing.T) {
	r := New(&collector{})
	defer r.Stop()

	sim, _ := config.Preset("reference")
	sim.Bits = 7

	if _, err := r.Submit(sim); err == nil {
		t.Error("invalid simulation queued")
	}
}

func TestSubmitDoesNotBlockWhenFull(t *testing.T) {
	r := New(&collector{})

	sim, _ := config.Preset("tiny")
	for i := 0; i < queueSize; i++ {
		if _, err := r.Submit(sim); err != nil {
			t.Fatalf("job %d: %v", i, err)
		}
	}

	if _, err := r.Submit(sim); err != ErrQueueFull {
		t.Errorf("submit to a full queue: %v", err)
	}

	r.Stop()
}
