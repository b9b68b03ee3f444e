// Package badges tracks the power-up badges a user earns while calculating.
//
// A Tracker observes calculator events. When an event satisfies a badge
// trigger the badge is unlocked and stays highlighted for a short while; a
// cancellable timer clears the highlight. Collecting enough badges unlocks
// scientific mode.
package badges

import (
	"math"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/numwiz/numwiz/pkg/calculator"
)

// Badge describes one collectible.
type Badge struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
	Hint string `json:"hint"`

	trigger func(calculator.Event) bool
}

// Basic are the badges that count toward scientific mode.
var Basic = []Badge{
	{
		ID: "pi", Name: "Pi Pioneer", Icon: "π",
		Hint:    "Bring π onto the display.",
		trigger: func(e calculator.Event) bool { return near(e.Result, math.Pi) },
	},
	{
		ID: "seven", Name: "Lucky Seven", Icon: "7✨",
		Hint:    "Make a calculation come out as 7.",
		trigger: func(e calculator.Event) bool { return computed(e) && e.Result == 7 },
	},
	{
		ID: "zero", Name: "Zero Hero", Icon: "0♾️",
		Hint:    "Try the one thing you were told never to do.",
		trigger: func(e calculator.Event) bool { return e.Err == calculator.ErrDivideByZero },
	},
	{
		ID: "angle", Name: "Egyptian Angle", Icon: "📐",
		Hint:    "Find the corner of a 3-4-5 triangle.",
		trigger: func(e calculator.Event) bool { return computed(e) && e.Result == 90 },
	},
	{
		ID: "dozen", Name: "Double Dozen", Icon: "⑫",
		Hint:    "Two dozen, please.",
		trigger: func(e calculator.Event) bool { return computed(e) && e.Result == 24 },
	},
}

// computed reports whether e came out of arithmetic rather than a number put
// on the display directly.
func computed(e calculator.Event) bool {
	return e.Kind != calculator.KindConstant
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// Status is a view of the tracker suitable for the dashboard.
type Status struct {
	Badges             []BadgeStatus `json:"badges"`
	Unlocked           int           `json:"unlocked"`
	Required           int           `json:"required"`
	ProgressPercent    float64       `json:"progressPercent"`
	ScientificUnlocked bool          `json:"scientificUnlocked"`
	Highlight          string        `json:"highlight,omitempty"`
}

type BadgeStatus struct {
	Badge
	Unlocked   bool      `json:"unlocked"`
	UnlockedAt time.Time `json:"unlockedAt"`
}

// Tracker evaluates badge triggers against calculation events. It is safe
// for concurrent use.
type Tracker struct {
	mu sync.Mutex

	badges       []Badge
	unlockedAt   map[string]time.Time
	required     int
	highlightFor time.Duration

	highlight      string
	highlightTimer *time.Timer

	// OnUnlock, if set, is called outside the lock for every new badge.
	OnUnlock func(b Badge, st Status)
}

var _ calculator.Observer = &Tracker{}

// NewTracker creates a tracker for the Basic badges. required is the number
// of badges needed for scientific mode; highlightFor is how long a new badge
// stays highlighted.
func NewTracker(required int, highlightFor time.Duration) *Tracker {
	if required <= 0 {
		required = len(Basic)
	}
	return &Tracker{
		badges:       Basic,
		unlockedAt:   make(map[string]time.Time),
		required:     required,
		highlightFor: highlightFor,
	}
}

// Configure changes the scientific-mode threshold and the highlight
// duration. Unlocked badges are kept.
func (t *Tracker) Configure(required int, highlightFor time.Duration) {
	if required <= 0 {
		required = len(t.badges)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.required = required
	t.highlightFor = highlightFor
}

// OnCalculationComplete unlocks every badge whose trigger matches e. Clear
// events never unlock anything.
func (t *Tracker) OnCalculationComplete(e calculator.Event) {
	if e.Kind == calculator.KindClear {
		return
	}

	var unlocked []Badge
	t.mu.Lock()
	for _, b := range t.badges {
		if _, ok := t.unlockedAt[b.ID]; ok {
			continue
		}
		if e.Failed() && b.ID != "zero" {
			continue
		}
		if b.trigger(e) {
			t.unlockedAt[b.ID] = time.Now()
			t.setHighlightLocked(b.ID)
			unlocked = append(unlocked, b)
		}
	}
	st := t.statusLocked()
	t.mu.Unlock()

	for _, b := range unlocked {
		logrus.WithFields(logrus.Fields{
			"badge":    b.ID,
			"unlocked": st.Unlocked,
			"required": st.Required,
		}).Info("badge unlocked")
		if t.OnUnlock != nil {
			t.OnUnlock(b, st)
		}
	}
}

// setHighlightLocked marks id as just unlocked and restarts the timer that
// clears the mark.
func (t *Tracker) setHighlightLocked(id string) {
	if t.highlightTimer != nil {
		t.highlightTimer.Stop()
	}
	t.highlight = id
	if t.highlightFor <= 0 {
		return
	}
	t.highlightTimer = time.AfterFunc(t.highlightFor, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if t.highlight == id {
			t.highlight = ""
		}
	})
}

// Status returns a snapshot of all badges.
func (t *Tracker) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.statusLocked()
}

func (t *Tracker) statusLocked() Status {
	st := Status{
		Required:  t.required,
		Highlight: t.highlight,
	}
	for _, b := range t.badges {
		bs := BadgeStatus{Badge: b}
		if at, ok := t.unlockedAt[b.ID]; ok {
			bs.Unlocked = true
			bs.UnlockedAt = at
			st.Unlocked++
		}
		st.Badges = append(st.Badges, bs)
	}
	st.ProgressPercent = math.Min(100, float64(st.Unlocked)/float64(t.required)*100)
	st.ScientificUnlocked = st.Unlocked >= t.required
	return st
}

// Reset locks every badge again and cancels a pending highlight.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
	t.unlockedAt = make(map[string]time.Time)
}

// Stop cancels the highlight timer.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

func (t *Tracker) stopLocked() {
	if t.highlightTimer != nil {
		t.highlightTimer.Stop()
		t.highlightTimer = nil
	}
	t.highlight = ""
}
