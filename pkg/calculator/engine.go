package calculator

import (
	"math"
	"math/rand"
	"regexp"
	"strings"

	"github.com/numwiz/numwiz/pkg/utils/ptr"
)

var literalRe = regexp.MustCompile(`^-?[0-9]+(\.[0-9]*)?(e[+-]?[0-9]+)?$`)

// Option configures an Engine.
type Option func(*Engine)

// WithObserver registers the receiver of calculation events.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		e.observer = o
	}
}

// WithRandom replaces the source used by the Random function. f must return
// values in [0, 1).
func WithRandom(f func() float64) Option {
	return func(e *Engine) {
		e.random = f
	}
}

// Engine is the calculator state machine. The zero value is not usable;
// create engines with New.
type Engine struct {
	display  string
	first    float64
	hasFirst bool
	pending  BinaryOperator
	awaiting bool
	last     *BinaryOp

	observer Observer
	random   func() float64
}

// New returns an engine showing "0".
func New(opts ...Option) *Engine {
	e := &Engine{
		display: "0",
		random:  rand.Float64,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Display returns the raw display literal.
func (e *Engine) Display() string {
	return e.display
}

// Screen returns the display as it should be rendered.
func (e *Engine) Screen() string {
	return Screen(e.display)
}

// State returns a snapshot of the engine fields.
func (e *Engine) State() State {
	s := State{
		Display:               e.display,
		PendingOperator:       e.pending,
		AwaitingSecondOperand: e.awaiting,
	}
	if e.hasFirst {
		s.FirstOperand = ptr.To(e.first)
	}
	if e.last != nil {
		l := *e.last
		s.LastBinaryOp = &l
	}
	return s
}

// Phase derives the state-machine phase from the engine fields.
func (e *Engine) Phase() Phase {
	switch {
	case IsErrorTag(e.display):
		return PhaseErred
	case e.pending != "" && e.awaiting:
		return PhaseOperatorSelected
	case e.pending != "":
		return PhaseAccumulatingSecond
	case e.display == "0" && e.last == nil && !e.hasFirst:
		return PhaseIdle
	default:
		return PhaseAccumulatingFirst
	}
}

// InputDigit appends d to the display, or starts a new number when an
// operator was just selected. Non-digit runes are ignored.
func (e *Engine) InputDigit(d rune) {
	if d < '0' || d > '9' {
		return
	}
	e.resetIfNotEditable()
	e.last = nil

	if e.awaiting {
		e.display = string(d)
		e.awaiting = false
		return
	}
	if CountDigits(e.display) >= MaxDigits {
		return
	}

	switch e.display {
	case "", "0":
		e.display = string(d)
	case "-0":
		e.display = "-" + string(d)
	default:
		e.display += string(d)
	}
}

// InputDecimal adds a decimal point, or starts "0." when an operator was
// just selected.
func (e *Engine) InputDecimal() {
	e.resetIfNotEditable()
	e.last = nil

	if e.awaiting {
		e.display = "0."
		e.awaiting = false
		return
	}
	if strings.ContainsAny(e.display, ".e") || CountDigits(e.display) >= MaxDigits {
		return
	}

	if e.display == "" {
		e.display = "0."
		return
	}
	e.display += "."
}

// Clear resets the engine and reports a clear event.
func (e *Engine) Clear() {
	e.display = "0"
	e.first, e.hasFirst = 0, false
	e.pending = ""
	e.awaiting = false
	e.last = nil

	e.emit(Event{Kind: KindClear})
}

// ToggleSign negates the display value. The exponent of an exponential
// literal keeps its sign.
func (e *Engine) ToggleSign() {
	if IsErrorTag(e.display) || e.display == "0" || e.display == "" {
		return
	}

	if strings.HasPrefix(e.display, "-") {
		e.display = e.display[1:]
	} else {
		e.display = "-" + e.display
	}
	e.last = nil
}

// SelectOperator records op as the pending operator. If another operator
// is pending and a second operand has been typed, the pending operation is
// evaluated first.
func (e *Engine) SelectOperator(op BinaryOperator) {
	if !op.Valid() || IsErrorTag(e.display) {
		return
	}
	v, ok := ParseDisplay(e.display)
	if !ok {
		e.display = string(ErrParse)
		return
	}
	e.last = nil

	switch {
	case e.pending != "" && !e.awaiting && e.hasFirst:
		a, prev := e.first, e.pending
		r, tag := settle(binary(a, v, prev))
		e.show(r, tag)
		// Only a failed chain is reported; the running result is not a
		// completed calculation.
		if tag != "" {
			e.first, e.hasFirst = 0, false
			e.pending = ""
			e.awaiting = false
			e.emit(Event{
				Err:      tag,
				First:    ptr.To(a),
				Operator: OperatorID(prev),
				Second:   ptr.To(v),
				Kind:     KindBinary,
			})
			return
		}
		e.first = r
	case !e.hasFirst:
		e.first, e.hasFirst = v, true
	}

	e.pending = op
	e.awaiting = true
}

// Equals completes the pending operation, or repeats the last one when
// nothing is pending. It does nothing when neither applies.
func (e *Engine) Equals() {
	if IsErrorTag(e.display) {
		return
	}

	var (
		a, b float64
		op   BinaryOperator
	)
	switch {
	case e.hasFirst && e.pending != "" && !e.awaiting:
		v, ok := ParseDisplay(e.display)
		if !ok {
			e.failParse(KindBinary, "")
			return
		}
		a, b, op = e.first, v, e.pending
		e.last = &BinaryOp{Operand: b, Operator: op}
		e.first, e.hasFirst = 0, false
		e.pending = ""
	case e.last != nil && !e.hasFirst:
		v, ok := ParseDisplay(e.display)
		if !ok {
			e.failParse(KindBinary, "")
			return
		}
		a, b, op = v, e.last.Operand, e.last.Operator
	default:
		return
	}

	r, tag := settle(binary(a, b, op))
	e.show(r, tag)
	e.emit(Event{
		Result:   r,
		Err:      tag,
		First:    ptr.To(a),
		Operator: OperatorID(op),
		Second:   ptr.To(b),
		Kind:     KindBinary,
	})
}

// ApplyUnary evaluates fn on the display value. Percent applied while a
// second operand is being typed scales it by the first operand instead and
// keeps the pending operation alive.
func (e *Engine) ApplyUnary(fn UnaryFunc) {
	if !fn.Valid() || IsErrorTag(e.display) {
		return
	}

	var x float64
	if !fn.Niladic() {
		v, ok := ParseDisplay(e.display)
		if !ok {
			e.failParse(KindUnary, OperatorID(fn))
			return
		}
		x = v
	}

	if fn == Percent && e.hasFirst && e.pending != "" && !e.awaiting {
		r, tag := settle(e.first*(x/100), "")
		e.show(r, tag)
		e.awaiting = false
		e.emit(Event{
			Result:   r,
			Err:      tag,
			First:    ptr.To(e.first),
			Operator: percentOf(e.pending),
			Second:   ptr.To(x),
			Kind:     KindBinary,
		})
		return
	}

	r, tag := settle(unary(x, fn, e.random))
	e.show(r, tag)
	e.first, e.hasFirst = 0, false
	e.pending = ""
	e.awaiting = false
	e.last = nil

	ev := Event{
		Result:   r,
		Err:      tag,
		Operator: OperatorID(fn),
		Kind:     KindUnary,
	}
	if fn.Niladic() {
		ev.Kind = KindConstant
	} else {
		ev.First = ptr.To(x)
	}
	e.emit(ev)
}

// SetDisplay injects a literal such as π and drops any pending operation.
// Like every other action it is ignored while an error is shown.
func (e *Engine) SetDisplay(literal string) {
	if IsErrorTag(e.display) {
		return
	}
	e.first, e.hasFirst = 0, false
	e.pending = ""
	e.awaiting = false
	e.last = nil

	v, ok := ParseDisplay(literal)
	if !ok {
		e.failParse(KindConstant, ConstantInput)
		return
	}
	if literalRe.MatchString(literal) {
		e.display = literal
	} else {
		e.display = FormatNumber(v)
	}

	e.emit(Event{
		Result:   v,
		Operator: ConstantInput,
		Kind:     KindConstant,
	})
}

func (e *Engine) resetIfNotEditable() {
	if IsErrorTag(e.display) || strings.Contains(e.display, InfinityMarker) {
		e.display = ""
	}
}

func (e *Engine) show(r float64, tag ErrorTag) {
	if tag != "" {
		e.display = string(tag)
		return
	}
	e.display = FormatNumber(r)
}

func (e *Engine) failParse(kind Kind, op OperatorID) {
	e.display = string(ErrParse)
	e.emit(Event{Err: ErrParse, Operator: op, Kind: kind})
}

func (e *Engine) emit(ev Event) {
	if e.observer != nil {
		e.observer.OnCalculationComplete(ev)
	}
}

// settle turns NaN results into a domain error.
func settle(r float64, tag ErrorTag) (float64, ErrorTag) {
	if tag == "" && math.IsNaN(r) {
		return 0, ErrDomain
	}
	return r, tag
}
