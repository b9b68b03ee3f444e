package daemon

import (
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/numwiz/numwiz/pkg/badges"
	"github.com/numwiz/numwiz/pkg/calculator"
	"github.com/numwiz/numwiz/pkg/config"
	"github.com/numwiz/numwiz/pkg/events"
	"github.com/numwiz/numwiz/pkg/facts"
)

// idleAfter is how long a half-finished calculation blocks scheduled resets.
const idleAfter = time.Minute

var errSessionBusy = errors.New("a calculation is in progress")

// session is the single calculator hosted by the daemon. The engine is not
// safe for concurrent use, so every access goes through mu.
type session struct {
	mu sync.Mutex

	conf config.Config
	hub  *events.Hub

	engine     *calculator.Engine
	tracker    *badges.Tracker
	fact       string
	factAt     time.Time
	lastActive time.Time
}

func newSession(c config.Config, hub *events.Hub) *session {
	s := &session{
		conf: c,
		hub:  hub,
	}
	s.tracker = badges.NewTracker(s.conf.ScientificUnlockBadges(), s.highlightFor())
	s.tracker.OnUnlock = func(b badges.Badge, st badges.Status) {
		s.hub.Publish(events.BadgeUnlocked, events.BadgeUnlockedEvent{
			ID:                 b.ID,
			Name:               b.Name,
			Unlocked:           st.Unlocked,
			Required:           st.Required,
			ScientificUnlocked: st.ScientificUnlocked,
			Ts:                 time.Now().Unix(),
		})
	}
	s.resetLocked()
	return s
}

func (s *session) highlightFor() time.Duration {
	return time.Duration(s.conf.HighlightMillis()) * time.Millisecond
}

// resetLocked starts a fresh engine and locks every badge again.
func (s *session) resetLocked() {
	s.tracker.Reset()
	s.engine = calculator.New(calculator.WithObserver(calculator.ObserverFunc(s.onCalculationComplete)))
	s.fact = ""
	s.factAt = time.Time{}
}

// configure applies the badge settings of the current config without
// touching progress.
func (s *session) configure() {
	s.tracker.Configure(s.conf.ScientificUnlockBadges(), s.highlightFor())
	logrus.WithFields(logrus.Fields{
		"required":     s.conf.ScientificUnlockBadges(),
		"highlightFor": s.highlightFor(),
	}).Debug("badge settings applied")
}

// onCalculationComplete runs synchronously inside an engine action, so the
// session lock is already held.
func (s *session) onCalculationComplete(e calculator.Event) {
	logrus.WithFields(logrus.Fields{
		"kind":     e.Kind,
		"operator": e.Operator,
		"result":   e.Result,
		"error":    e.Err,
	}).Debug("calculation complete")

	now := time.Now()
	s.hub.Publish(events.CalculationComplete, events.NewCalculationEvent(e, now.Unix()))
	s.tracker.OnCalculationComplete(e)

	if !s.conf.ShowFacts() {
		return
	}
	if fact, ok := facts.For(e); ok && fact != s.fact {
		s.fact = fact
		s.factAt = now
		s.hub.Publish(events.FactShown, events.FactShownEvent{Fact: fact, Ts: now.Unix()})
	}
}

// do runs action against the engine and returns the resulting display.
func (s *session) do(action func(e *calculator.Engine)) displayResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	action(s.engine)
	s.lastActive = time.Now()
	return newDisplayResponse(s.engine)
}

// doErr is like do for actions that can fail before touching the engine.
func (s *session) doErr(action func(e *calculator.Engine) error) (displayResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := action(s.engine)
	s.lastActive = time.Now()
	return newDisplayResponse(s.engine), err
}

func (s *session) display() displayResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return newDisplayResponse(s.engine)
}

func (s *session) state() stateResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return newStateResponse(s.engine)
}

func (s *session) badges() badges.Status {
	s.mu.Lock()
	t := s.tracker
	s.mu.Unlock()
	return t.Status()
}

func (s *session) currentFact() factResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := factResponse{Fact: s.fact}
	if !s.factAt.IsZero() {
		r.Ts = s.factAt.Unix()
	}
	return r
}

func (s *session) dismissFact() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fact = ""
	s.factAt = time.Time{}
}

// reset starts a fresh session and announces it with reason.
func (s *session) reset(reason string) {
	s.mu.Lock()
	s.resetLocked()
	s.mu.Unlock()

	logrus.WithField("reason", reason).Info("session reset")
	s.hub.Publish(events.SessionReset, events.SessionResetEvent{Reason: reason, Ts: time.Now().Unix()})
}

// busy fails while a binary operation is half entered and the user touched
// the calculator recently.
func (s *session) busy() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.engine.Phase() {
	case calculator.PhaseOperatorSelected, calculator.PhaseAccumulatingSecond:
		if time.Since(s.lastActive) < idleAfter {
			return errSessionBusy
		}
	}
	return nil
}

func (s *session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracker.Stop()
}
