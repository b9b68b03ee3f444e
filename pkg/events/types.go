package events

import (
	"encoding/json"
	"math"

	"github.com/numwiz/numwiz/pkg/calculator"
)

// Event name constants
const (
	CalculationComplete = "calculation.complete"
	BadgeUnlocked       = "badge.unlocked"
	FactShown           = "fact.shown"
	SessionReset        = "session.reset"
	SessionResetSoon    = "session.reset.upcoming"
)

// Event is a generic SSE event from daemon.
type Event struct {
	Name string          // SSE event name
	Data json.RawMessage // Raw JSON payload
}

// CalculationEvent is the wire form of calculator.Event. JSON has no
// infinities, so Result is omitted for failed or non-finite results and
// Display always carries the literal shown to the user.
type CalculationEvent struct {
	Result   *float64 `json:"result,omitempty"`
	Display  string   `json:"display"`
	Error    string   `json:"error,omitempty"`
	First    *float64 `json:"firstOperand,omitempty"`
	Operator string   `json:"operator,omitempty"`
	Second   *float64 `json:"secondOperand,omitempty"`
	Kind     string   `json:"kind"`
	Ts       int64    `json:"ts"`
}

// NewCalculationEvent converts e, stamped with ts (unix seconds).
func NewCalculationEvent(e calculator.Event, ts int64) CalculationEvent {
	ce := CalculationEvent{
		Error:    string(e.Err),
		First:    finite(e.First),
		Operator: string(e.Operator),
		Second:   finite(e.Second),
		Kind:     string(e.Kind),
		Ts:       ts,
	}
	if e.Failed() {
		ce.Display = string(e.Err)
		return ce
	}
	ce.Display = calculator.FormatNumber(e.Result)
	if !math.IsInf(e.Result, 0) {
		r := e.Result
		ce.Result = &r
	}
	return ce
}

func finite(p *float64) *float64 {
	if p == nil || math.IsInf(*p, 0) || math.IsNaN(*p) {
		return nil
	}
	v := *p
	return &v
}

// BadgeUnlockedEvent is the typed payload for badge.unlocked.
type BadgeUnlockedEvent struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Unlocked           int    `json:"unlocked"`
	Required           int    `json:"required"`
	ScientificUnlocked bool   `json:"scientificUnlocked"`
	Ts                 int64  `json:"ts"`
}

// FactShownEvent is the typed payload for fact.shown.
type FactShownEvent struct {
	Fact string `json:"fact"`
	Ts   int64  `json:"ts"`
}

// SessionResetEvent is the typed payload for session.reset and
// session.reset.upcoming. For the latter Ts is the time of the reset.
type SessionResetEvent struct {
	Reason string `json:"reason"`
	Ts     int64  `json:"ts"`
}

// DecodeAs decodes the event payload into the caller-specified generic type T.
// It ignores the event name and simply unmarshals Data into T. If Data is empty,
// it returns the zero value of T with a nil error.
//
// Example:
//
//	payload, err := events.DecodeAs[events.CalculationEvent](ev)
//	if err != nil { /* handle */ }
//	fmt.Println(payload.Display, payload.Kind)
func DecodeAs[T any](e Event) (T, error) {
	var zero T
	if len(e.Data) == 0 {
		return zero, nil
	}
	var v T
	if err := json.Unmarshal(e.Data, &v); err != nil {
		return zero, err
	}
	return v, nil
}
