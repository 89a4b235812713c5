package cronjob

import (
	"log"
	"sync"

	"github.com/robfig/cron/v3"
)

// Scheduler owns the process-wide recurring jobs. Jobs are keyed by a
// stable name: registering the same name again replaces the schedule
// instead of adding a duplicate, and each job is single-flight: a tick
// that is still running makes the next one skip, not queue.
type Scheduler struct {
	c *cron.Cron

	mu      sync.Mutex
	entries map[string]cron.EntryID
	running map[string]*sync.Mutex
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		c:       cron.New(cron.WithSeconds()),
		entries: make(map[string]cron.EntryID),
		running: make(map[string]*sync.Mutex),
	}
}

// Register schedules job under name with the given cron spec (with a
// seconds field). Safe to call repeatedly with the same name.
func (s *Scheduler) Register(name, spec string, job func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.entries[name]; ok {
		s.c.Remove(id)
	}
	if _, ok := s.running[name]; !ok {
		s.running[name] = &sync.Mutex{}
	}
	flight := s.running[name]

	id, err := s.c.AddFunc(spec, func() {
		if !flight.TryLock() {
			log.Printf("cron %s: previous run still in flight, skipping tick", name)
			return
		}
		defer flight.Unlock()
		job()
	})
	if err != nil {
		return err
	}

	s.entries[name] = id
	log.Printf("cron %s: registered with schedule %q", name, spec)
	return nil
}

// Start begins running registered jobs on their schedules.
func (s *Scheduler) Start() {
	s.c.Start()
}

// Stop stops scheduling new ticks and blocks until running jobs finish.
func (s *Scheduler) Stop() {
	<-s.c.Stop().Done()
}
