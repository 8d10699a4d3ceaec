// Package runner executes queued recovery jobs on a pool of workers and
// publishes a record for each. Every job is a self-contained sequential
// pipeline; workers share nothing but the publisher.
package runner

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/xor-shift/tangosat/common"
	"github.com/xor-shift/tangosat/config"
	"github.com/xor-shift/tangosat/keyrec"
)

const queueSize = 128

var (
	ErrStopped   = errors.New("runner is stopped")
	ErrQueueFull = errors.New("job queue is full")
)

// Publisher receives finished run records.
type Publisher interface {
	Publish(record common.RunRecord) error
}

type Runner struct {
	publisher Publisher

	mu      sync.Mutex
	stopped bool
	nextID  uint

	workerWG *sync.WaitGroup
	jobs     chan job
}

type job struct {
	id  uint
	sim config.Simulation
}

func New(publisher Publisher) *Runner {
	return &Runner{
		publisher: publisher,
		workerWG:  &sync.WaitGroup{},
		jobs:      make(chan job, queueSize),
	}
}

// Submit validates a simulation and queues it without blocking. The returned
// id is local to this runner and only used in log lines.
func (r *Runner) Submit(sim config.Simulation) (uint, error) {
	if err := sim.Validate(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		return 0, ErrStopped
	}

	select {
	case r.jobs <- job{id: r.nextID + 1, sim: sim}:
		r.nextID++
		return r.nextID, nil
	default:
		return 0, ErrQueueFull
	}
}

// Start starts numThreads workers.
func (r *Runner) Start(numThreads uint) {
	r.workerWG.Add(int(numThreads))

	for i := uint(0); i < numThreads; i++ {
		go r.task()
	}
}

// Stop drains the queue and waits for the workers.
func (r *Runner) Stop() {
	r.mu.Lock()
	if !r.stopped {
		r.stopped = true
		close(r.jobs)
	}
	r.mu.Unlock()

	r.workerWG.Wait()
}

// Run executes one simulation synchronously.
func Run(sim config.Simulation) common.RunRecord {
	started := time.Now()
	p := sim.Params()
	key := sim.Key()

	backend, err := sim.Backend()
	if err != nil {
		rec := common.NewRunRecord(sim.Solver, p, key, keyrec.Result{}, started)
		rec.Error = err.Error()
		return rec
	}

	res, err := keyrec.Attack(p, key, backend)
	rec := common.NewRunRecord(backend.Name(), p, key, res, started)
	if err != nil {
		rec.Error = err.Error()
	}

	return rec
}

func (r *Runner) task() {
	defer r.workerWG.Done()

	for j := range r.jobs {
		rec := Run(j.sim)

		log.Printf("job %d: bits=%d hci=%d num_obs=%d %s exact=%v in %s",
			j.id, rec.Bits, rec.HCI, rec.NumObs, rec.Status, rec.Exact, rec.SolveTime)

		if err := r.publisher.Publish(rec); err != nil {
			log.Printf("job %d: publishing failed: %s", j.id, err)
		}
	}
}
