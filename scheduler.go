package coro

import (
	"math/rand/v2"
	"sync"

	"github.com/unnamed2/libcoro/metrics"
)

// scheduler owns the ready queue and the pool of worker goroutines that
// dispatch tasks from it. Selection from the ready queue is uniform random
// with swap-with-last-and-pop removal: O(1), no ordering guarantee, and
// deliberately indifferent to burstiness at any one call site.
type scheduler struct {
	rt *Runtime

	mu      sync.Mutex
	cv      *sync.Cond
	ready   []*Task
	idle    uint
	spawned uint
	max     uint
	stopped bool

	workersWG sync.WaitGroup

	mainMu   sync.Mutex
	mainTask *Task
	mainDone chan struct{}

	readyDepth metrics.UpDownCounter
	workers    metrics.UpDownCounter
	dispatched metrics.Counter
}

func newScheduler(rt *Runtime, maxWorkers uint) *scheduler {
	s := &scheduler{
		rt:       rt,
		max:      maxWorkers,
		mainDone: make(chan struct{}),

		readyDepth: rt.cfg.Metrics.UpDownCounter("coro_ready_queue_depth", metrics.WithDescription("tasks currently in the scheduler ready queue")),
		workers:    rt.cfg.Metrics.UpDownCounter("coro_workers", metrics.WithDescription("live scheduler worker goroutines")),
		dispatched: rt.cfg.Metrics.Counter("coro_tasks_dispatched_total", metrics.WithDescription("task resume() calls made by workers")),
	}
	s.cv = sync.NewCond(&s.mu)
	return s
}

// enqueueLocked appends t to the ready queue. Caller must hold s.mu.
func (s *scheduler) enqueueLocked(t *Task) {
	s.ready = append(s.ready, t)
	s.readyDepth.Add(1)
}

// enqueue adds t to the ready queue, growing the worker pool if the new
// backlog exceeds currently idle capacity, then wakes a waiting worker.
func (s *scheduler) enqueue(t *Task) {
	s.mu.Lock()
	s.enqueueLocked(t)
	s.growLocked()
	s.mu.Unlock()
	s.cv.Signal()
}

// growLocked spawns additional workers, capped at s.max, so that idle
// capacity covers the current backlog. Caller must hold s.mu. Workers, once
// spawned, are never retired until stop() — only their goroutine exits, not
// any pre-warmed resource, so there is nothing to reclaim early.
func (s *scheduler) growLocked() {
	var deficit uint
	if uint(len(s.ready)) > s.idle {
		deficit = uint(len(s.ready)) - s.idle
	}
	for deficit > 0 && s.spawned < s.max {
		s.spawned++
		s.workers.Add(1)
		s.workersWG.Add(1)
		go s.workerLoop()
		deficit--
	}
}

// setMain designates t as the task start_main waits on.
func (s *scheduler) setMain(t *Task) {
	s.mainMu.Lock()
	s.mainTask = t
	s.mainMu.Unlock()
	t.main = true
}

// waitForMain blocks until the main task set by setMain has completed.
func (s *scheduler) waitForMain() {
	<-s.mainDone
}

func (s *scheduler) signalMainDone() {
	close(s.mainDone)
}

// stop requests every worker to exit at its next idle check and blocks until
// all have joined. It must be called exactly once, after the main task has
// completed; any tasks still in the ready queue at that point are abandoned
// without being resumed, matching the semantics of a runtime shutdown rather
// than a graceful drain.
func (s *scheduler) stop() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
	s.cv.Broadcast()
	s.workersWG.Wait()
}

func (s *scheduler) workerLoop() {
	defer s.workersWG.Done()
	for {
		s.mu.Lock()
		s.idle++
		for len(s.ready) == 0 && !s.stopped {
			s.cv.Wait()
		}
		s.idle--
		if s.stopped {
			s.mu.Unlock()
			s.workers.Add(-1)
			return
		}

		idx := rand.IntN(len(s.ready))
		task := s.ready[idx]
		last := len(s.ready) - 1
		s.ready[idx] = s.ready[last]
		s.ready[last] = nil
		s.ready = s.ready[:last]
		s.readyDepth.Add(-1)
		s.mu.Unlock()

		if task.IsDone() {
			_ = task.destroy()
			continue
		}

		s.dispatched.Add(1)
		if err := task.resume(); err != nil {
			log := s.rt.withTask(task)
			log.Error().Err(err).Msg("scheduler picked a task that was not idle; dropping it")
			continue
		}

		switch task.loadStatus() {
		case Done:
			if task.main {
				s.signalMainDone()
			}
			_ = task.destroy()
		case Ready:
			s.mu.Lock()
			s.enqueueLocked(task)
			s.mu.Unlock()
			s.cv.Signal()
		case Suspended:
			// Ownership already transferred to whatever waiter queue or
			// reactor registration is responsible for waking it.
		}
	}
}
