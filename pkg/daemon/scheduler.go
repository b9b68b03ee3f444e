package daemon

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const (
	defaultLead          = time.Minute // how long before a run OnUpcoming fires
	defaultRetryInterval = time.Second * 10
	defaultMaxRetries    = 30
	idleWait             = time.Hour * 10000
)

// Scheduler runs Task on a cron schedule. Before each run it announces the
// upcoming run through OnUpcoming. If Ready fails the run is retried every
// RetryInterval, up to MaxRetries times, before it is given up.
type Scheduler struct {
	Task       func() error
	Ready      func() error
	OnUpcoming func(at time.Time)
	OnError    func(err error)

	Lead          time.Duration
	RetryInterval time.Duration
	MaxRetries    int

	parser cron.Parser

	mu       sync.Mutex
	expr     string
	schedule cron.Schedule
	nextRun  time.Time
	running  bool

	wakeCh chan struct{}
	stopCh chan struct{}
}

// ScheduleStatus is a snapshot of the scheduler.
type ScheduleStatus struct {
	Cron    string
	NextRun time.Time
	Running bool
}

func NewScheduler(task func() error) *Scheduler {
	if task == nil {
		panic("task function cannot be nil")
	}

	return &Scheduler{
		Task:          task,
		Lead:          defaultLead,
		RetryInterval: defaultRetryInterval,
		MaxRetries:    defaultMaxRetries,
		parser:        cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
		wakeCh:        make(chan struct{}, 1),
		stopCh:        make(chan struct{}),
	}
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	go s.loop()
}

func (s *Scheduler) Stop() {
	select {
	case <-s.stopCh: // already closed
	default:
		close(s.stopCh)
	}
}

// Schedule replaces the cron expression. An empty expression disables the
// scheduler without stopping it.
func (s *Scheduler) Schedule(expr string) error {
	var sh cron.Schedule
	if expr != "" {
		var err error
		sh, err = s.parser.Parse(expr)
		if err != nil {
			return fmt.Errorf("invalid cron expression %q: %w", expr, err)
		}
	}

	s.mu.Lock()
	s.expr = expr
	s.schedule = sh
	s.nextRun = time.Time{}
	if sh != nil {
		s.nextRun = sh.Next(time.Now())
	}
	s.mu.Unlock()

	s.wake()
	return nil
}

// Skip moves the next run to the one after it.
func (s *Scheduler) Skip() error {
	s.mu.Lock()
	if s.schedule == nil || s.nextRun.IsZero() {
		s.mu.Unlock()
		return fmt.Errorf("no active schedule to skip")
	}
	s.nextRun = s.schedule.Next(s.nextRun)
	s.mu.Unlock()

	s.wake()
	return nil
}

// Postpone delays the next run by d. The postponed run must still come
// before the one after it.
func (s *Scheduler) Postpone(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("postpone duration must be positive")
	}

	s.mu.Lock()
	if s.schedule == nil || s.nextRun.IsZero() {
		s.mu.Unlock()
		return fmt.Errorf("no active schedule to postpone")
	}
	pp := s.nextRun.Add(d).Truncate(time.Second)
	if !pp.Before(s.schedule.Next(s.nextRun)) {
		s.mu.Unlock()
		return fmt.Errorf("postpone duration too long")
	}
	s.nextRun = pp
	s.mu.Unlock()

	s.wake()
	return nil
}

func (s *Scheduler) Status() ScheduleStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ScheduleStatus{
		Cron:    s.expr,
		NextRun: s.nextRun,
		Running: s.running,
	}
}

func (s *Scheduler) wake() {
	select {
	case s.wakeCh <- struct{}{}:
	default:
	}
}

func (s *Scheduler) loop() {
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		logrus.Debug("scheduler stopped")
	}()

	logrus.Debug("scheduler started")

	var (
		announced bool
		retries   int
		retryAt   time.Time
	)
	for {
		next := s.Status().NextRun

		upcoming := false
		wait := idleWait
		switch {
		case next.IsZero():
		case !retryAt.IsZero():
			wait = time.Until(retryAt)
		case !announced && s.Lead > 0:
			upcoming = true
			wait = time.Until(next) - s.Lead
		default:
			wait = time.Until(next)
		}
		if wait < 0 {
			wait = 0
		}

		timer := time.NewTimer(wait)
		select {
		case <-s.stopCh:
			timer.Stop()
			return
		case <-s.wakeCh:
			timer.Stop()
			announced, retries, retryAt = false, 0, time.Time{}
			continue
		case <-timer.C:
		}

		if next.IsZero() {
			continue
		}

		if upcoming {
			logrus.Debugf("upcoming scheduled task at %s", next.Format(time.DateTime))
			announced = true
			if s.OnUpcoming != nil {
				go s.OnUpcoming(next)
			}
			continue
		}

		if s.Ready != nil {
			if err := s.Ready(); err != nil {
				retries++
				if retries <= s.MaxRetries {
					logrus.Debugf("not ready (%d/%d): %v; retrying in %s", retries, s.MaxRetries, err, s.RetryInterval)
					if retries == 1 {
						s.fail(fmt.Errorf("not ready: %w", err))
					}
					retryAt = time.Now().Add(s.RetryInterval)
					continue
				}
				s.fail(fmt.Errorf("giving up scheduled run at %s: %w", next.Format(time.DateTime), err))
				s.advance(next)
				announced, retries, retryAt = false, 0, time.Time{}
				continue
			}
		}

		logrus.Debugf("running scheduled task at %s", next.Format(time.DateTime))
		go func() {
			if err := s.Task(); err != nil {
				s.fail(fmt.Errorf("task failed: %w", err))
			}
		}()
		s.advance(next)
		announced, retries, retryAt = false, 0, time.Time{}
	}
}

// advance moves past ran unless Skip or Postpone already moved the schedule.
func (s *Scheduler) advance(ran time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.schedule == nil || !s.nextRun.Equal(ran) {
		return
	}
	s.nextRun = s.schedule.Next(ran)
}

func (s *Scheduler) fail(err error) {
	if s.OnError == nil {
		return
	}
	go s.OnError(err)
}
