package calculator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	events []Event
}

func (r *recorder) OnCalculationComplete(e Event) {
	r.events = append(r.events, e)
}

func (r *recorder) last(t *testing.T) Event {
	t.Helper()
	require.NotEmpty(t, r.events, "expected at least one event")
	return r.events[len(r.events)-1]
}

func newTestEngine(opts ...Option) (*Engine, *recorder) {
	rec := &recorder{}
	return New(append([]Option{WithObserver(rec)}, opts...)...), rec
}

// typeNumber enters s key by key; '-' toggles the sign at the end.
func typeNumber(e *Engine, s string) {
	neg := false
	for _, r := range s {
		switch r {
		case '.':
			e.InputDecimal()
		case '-':
			neg = true
		default:
			e.InputDigit(r)
		}
	}
	if neg {
		e.ToggleSign()
	}
}

func TestDigitEntry(t *testing.T) {
	tests := []struct {
		name string
		keys string
		want string
	}{
		{name: "single digit", keys: "7", want: "7"},
		{name: "several digits", keys: "123", want: "123"},
		{name: "leading zeros collapse", keys: "005", want: "5"},
		{name: "decimal", keys: "1.5", want: "1.5"},
		{name: "decimal from zero", keys: ".5", want: "0.5"},
		{name: "second decimal point ignored", keys: "1..2.3", want: "1.23"},
		{name: "trailing decimal point", keys: "42.", want: "42."},
		{name: "digit cap", keys: "1234567890123456789", want: "123456789012345"},
		{name: "digit cap with fraction", keys: "12345678901234.56", want: "12345678901234.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, rec := newTestEngine()
			typeNumber(e, tt.keys)
			assert.Equal(t, tt.want, e.Display())
			assert.Empty(t, rec.events, "digit entry must not emit events")
		})
	}
}

func TestAddition(t *testing.T) {
	e, rec := newTestEngine()
	e.InputDigit('5')
	e.SelectOperator(Add)
	e.InputDigit('3')
	e.Equals()

	assert.Equal(t, "8", e.Display())
	require.Len(t, rec.events, 1)
	ev := rec.events[0]
	assert.Equal(t, 8.0, ev.Result)
	assert.False(t, ev.Failed())
	require.NotNil(t, ev.First)
	require.NotNil(t, ev.Second)
	assert.Equal(t, 5.0, *ev.First)
	assert.Equal(t, 3.0, *ev.Second)
	assert.Equal(t, OperatorID(Add), ev.Operator)
	assert.Equal(t, KindBinary, ev.Kind)
}

func TestDivideByZero(t *testing.T) {
	e, rec := newTestEngine()
	typeNumber(e, "10")
	e.SelectOperator(Divide)
	e.InputDigit('0')
	e.Equals()

	assert.Equal(t, string(ErrDivideByZero), e.Display())
	assert.Equal(t, PhaseErred, e.Phase())
	ev := rec.last(t)
	assert.Equal(t, ErrDivideByZero, ev.Err)
	assert.Equal(t, KindBinary, ev.Kind)
	assert.Equal(t, OperatorID(Divide), ev.Operator)
	assert.Equal(t, 10.0, *ev.First)
	assert.Equal(t, 0.0, *ev.Second)
}

func TestRepeatedEquals(t *testing.T) {
	e, rec := newTestEngine()
	e.InputDigit('6')
	e.SelectOperator(Add)
	e.InputDigit('2')
	e.Equals()
	assert.Equal(t, "8", e.Display())
	e.Equals()
	assert.Equal(t, "10", e.Display())
	e.Equals()
	assert.Equal(t, "12", e.Display())

	require.Len(t, rec.events, 3)
	second := rec.events[1]
	assert.Equal(t, 8.0, *second.First)
	assert.Equal(t, 2.0, *second.Second)
	assert.Equal(t, OperatorID(Add), second.Operator)

	st := e.State()
	require.NotNil(t, st.LastBinaryOp)
	assert.Equal(t, BinaryOp{Operand: 2, Operator: Add}, *st.LastBinaryOp)
}

func TestRepeatedEqualsBrokenByInput(t *testing.T) {
	e, rec := newTestEngine()
	e.InputDigit('6')
	e.SelectOperator(Add)
	e.InputDigit('2')
	e.Equals()

	e.InputDigit('4')
	e.Equals()
	assert.Equal(t, "84", e.Display(), "typing after equals appends and breaks the chain")
	assert.Len(t, rec.events, 1)

	e.ToggleSign()
	e.Equals()
	assert.Equal(t, "-84", e.Display())
	assert.Len(t, rec.events, 1)
}

func TestChainedOperators(t *testing.T) {
	e, rec := newTestEngine()
	e.InputDigit('5')
	e.SelectOperator(Add)
	e.InputDigit('3')
	e.SelectOperator(Multiply)

	assert.Equal(t, "8", e.Display())
	assert.Equal(t, PhaseOperatorSelected, e.Phase())
	st := e.State()
	require.NotNil(t, st.FirstOperand)
	assert.Equal(t, 8.0, *st.FirstOperand)
	assert.Equal(t, Multiply, st.PendingOperator)
	assert.True(t, st.AwaitingSecondOperand)

	assert.Empty(t, rec.events, "a running result is not a completed calculation")

	// Equals with no new operand does nothing.
	e.Equals()
	assert.Equal(t, "8", e.Display())
	assert.Empty(t, rec.events)

	e.InputDigit('2')
	e.Equals()
	assert.Equal(t, "16", e.Display())
	require.Len(t, rec.events, 1)
	assert.Equal(t, 8.0, *rec.events[0].First)
	assert.Equal(t, 16.0, rec.events[0].Result)
}

func TestChainedDivideByZero(t *testing.T) {
	e, rec := newTestEngine()
	e.InputDigit('9')
	e.SelectOperator(Divide)
	e.InputDigit('0')
	e.SelectOperator(Add)

	assert.Equal(t, string(ErrDivideByZero), e.Display())
	st := e.State()
	assert.Nil(t, st.FirstOperand)
	assert.Empty(t, st.PendingOperator)
	assert.False(t, st.AwaitingSecondOperand)

	ev := rec.last(t)
	assert.Equal(t, ErrDivideByZero, ev.Err)
	assert.Equal(t, OperatorID(Divide), ev.Operator)
	assert.Equal(t, KindBinary, ev.Kind)
}

func TestChangeOperator(t *testing.T) {
	e, rec := newTestEngine()
	e.InputDigit('5')
	e.SelectOperator(Add)
	e.SelectOperator(Subtract)
	e.InputDigit('2')
	e.Equals()

	assert.Equal(t, "3", e.Display())
	require.Len(t, rec.events, 1)
	assert.Equal(t, OperatorID(Subtract), rec.events[0].Operator)
}

func TestEqualsWithoutOperation(t *testing.T) {
	e, rec := newTestEngine()
	e.Equals()
	typeNumber(e, "12")
	e.Equals()

	assert.Equal(t, "12", e.Display())
	assert.Empty(t, rec.events)
}

func TestToggleSign(t *testing.T) {
	tests := []struct {
		name    string
		display string
		want    string
	}{
		{name: "zero", display: "0", want: "0"},
		{name: "positive", display: "5", want: "-5"},
		{name: "negative", display: "-5", want: "5"},
		{name: "in progress decimal", display: "0.50", want: "-0.50"},
		{name: "exponential keeps exponent sign", display: "1.5e-7", want: "-1.5e-7"},
		{name: "infinity", display: "Infinity", want: "-Infinity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New()
			e.SetDisplay(tt.display)
			e.ToggleSign()
			assert.Equal(t, tt.want, e.Display())
		})
	}
}

func TestUnaryFunctions(t *testing.T) {
	tests := []struct {
		name    string
		operand string
		fn      UnaryFunc
		want    string
	}{
		{name: "square root", operand: "16", fn: Sqrt, want: "4"},
		{name: "square root of negative", operand: "-4", fn: Sqrt, want: string(ErrDomain)},
		{name: "square", operand: "12", fn: Pow, want: "144"},
		{name: "log10", operand: "100", fn: Log, want: "2"},
		{name: "log2", operand: "8", fn: Log2, want: "3"},
		{name: "ln of zero", operand: "0", fn: Ln, want: string(ErrDomain)},
		{name: "log of negative", operand: "-1", fn: Log, want: string(ErrDomain)},
		{name: "sin zero", operand: "0", fn: Sin, want: "0"},
		{name: "cos zero", operand: "0", fn: Cos, want: "1"},
		{name: "tan pole", operand: FormatNumber(math.Pi / 2), fn: Tan, want: string(ErrUndefined)},
		{name: "reciprocal", operand: "4", fn: Reciprocal, want: "0.25"},
		{name: "reciprocal of zero", operand: "0", fn: Reciprocal, want: string(ErrDivideByZero)},
		{name: "factorial", operand: "5", fn: Factorial, want: "120"},
		{name: "factorial of zero", operand: "0", fn: Factorial, want: "1"},
		{name: "factorial of fraction", operand: "3.5", fn: Factorial, want: string(ErrFactorial)},
		{name: "factorial of negative", operand: "-3", fn: Factorial, want: string(ErrFactorial)},
		{name: "factorial saturates", operand: "171", fn: Factorial, want: InfinityMarker},
		{name: "standalone percent", operand: "50", fn: Percent, want: "0.5"},
		{name: "acosh outside domain", operand: "0.5", fn: Acosh, want: string(ErrDomain)},
		{name: "tanh zero", operand: "0", fn: Tanh, want: "0"},
		{name: "exp zero", operand: "0", fn: Exp, want: "1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, rec := newTestEngine()
			e.SetDisplay(tt.operand)
			e.ApplyUnary(tt.fn)

			assert.Equal(t, tt.want, e.Display())
			ev := rec.last(t)
			assert.Equal(t, KindUnary, ev.Kind)
			assert.Equal(t, OperatorID(tt.fn), ev.Operator)
			require.NotNil(t, ev.First)
			assert.Nil(t, ev.Second)
			assert.Equal(t, IsErrorTag(tt.want), ev.Failed())
		})
	}
}

func TestUnaryResetsPendingOperation(t *testing.T) {
	e, _ := newTestEngine()
	e.InputDigit('2')
	e.SelectOperator(Multiply)
	typeNumber(e, "9")
	e.ApplyUnary(Sqrt)

	assert.Equal(t, "3", e.Display())
	st := e.State()
	assert.Nil(t, st.FirstOperand)
	assert.Empty(t, st.PendingOperator)
	assert.Nil(t, st.LastBinaryOp)
	assert.Equal(t, PhaseAccumulatingFirst, e.Phase())
}

func TestPercentModifier(t *testing.T) {
	e, rec := newTestEngine()
	typeNumber(e, "100")
	e.SelectOperator(Add)
	typeNumber(e, "10")
	e.ApplyUnary(Percent)

	assert.Equal(t, "10", e.Display())
	st := e.State()
	require.NotNil(t, st.FirstOperand)
	assert.Equal(t, 100.0, *st.FirstOperand)
	assert.Equal(t, Add, st.PendingOperator)
	assert.False(t, st.AwaitingSecondOperand)

	ev := rec.last(t)
	assert.Equal(t, KindBinary, ev.Kind)
	assert.Equal(t, OperatorID("add_percent"), ev.Operator)
	assert.Equal(t, 10.0, ev.Result)

	e.Equals()
	assert.Equal(t, "110", e.Display())
}

func TestNiladicFunctions(t *testing.T) {
	e, rec := newTestEngine(WithRandom(func() float64 { return 0.25 }))
	typeNumber(e, "99")

	e.ApplyUnary(Random)
	assert.Equal(t, "0.25", e.Display())
	ev := rec.last(t)
	assert.Equal(t, KindConstant, ev.Kind)
	assert.Nil(t, ev.First)

	e.ApplyUnary(Euler)
	assert.Equal(t, "2.718281828459045", e.Display())
	assert.Equal(t, KindConstant, rec.last(t).Kind)
}

func TestSetDisplay(t *testing.T) {
	e, rec := newTestEngine()
	e.InputDigit('4')
	e.SelectOperator(Add)
	e.SetDisplay(FormatNumber(math.Pi))

	assert.Equal(t, "3.141592653589793", e.Display())
	assert.Equal(t, PhaseAccumulatingFirst, e.Phase())
	ev := rec.last(t)
	assert.Equal(t, KindConstant, ev.Kind)
	assert.Equal(t, ConstantInput, ev.Operator)
	assert.Equal(t, math.Pi, ev.Result)

	e.SetDisplay("not a number")
	assert.Equal(t, string(ErrParse), e.Display())
	assert.True(t, rec.last(t).Failed())
}

func TestClear(t *testing.T) {
	e, rec := newTestEngine()
	e.InputDigit('5')
	e.SelectOperator(Add)
	e.InputDigit('3')

	e.Clear()
	once := e.State()
	e.Clear()
	twice := e.State()

	assert.Equal(t, once, twice)
	assert.Equal(t, State{Display: "0"}, twice)
	assert.Equal(t, PhaseIdle, e.Phase())
	require.Len(t, rec.events, 2)
	for _, ev := range rec.events {
		assert.Equal(t, KindClear, ev.Kind)
		assert.Equal(t, 0.0, ev.Result)
		assert.Nil(t, ev.First)
		assert.Nil(t, ev.Second)
		assert.Empty(t, ev.Operator)
	}
}

func TestErrorRecovery(t *testing.T) {
	enterError := func() (*Engine, *recorder) {
		e, rec := newTestEngine()
		e.InputDigit('1')
		e.SelectOperator(Divide)
		e.InputDigit('0')
		e.Equals()
		require.True(t, IsErrorTag(e.Display()))
		return e, rec
	}

	t.Run("digit replaces the error", func(t *testing.T) {
		e, _ := enterError()
		e.InputDigit('7')
		assert.Equal(t, "7", e.Display())
	})

	t.Run("decimal replaces the error", func(t *testing.T) {
		e, _ := enterError()
		e.InputDecimal()
		assert.Equal(t, "0.", e.Display())
	})

	t.Run("other actions are ignored", func(t *testing.T) {
		e, rec := enterError()
		n := len(rec.events)
		e.SelectOperator(Add)
		e.Equals()
		e.ToggleSign()
		e.ApplyUnary(Sqrt)
		e.ApplyUnary(Random)
		e.SetDisplay("42")
		assert.Equal(t, string(ErrDivideByZero), e.Display())
		assert.Len(t, rec.events, n)
	})

	t.Run("infinity is replaced by new input", func(t *testing.T) {
		e, _ := newTestEngine()
		e.SetDisplay("171")
		e.ApplyUnary(Factorial)
		require.Equal(t, InfinityMarker, e.Display())
		e.InputDigit('7')
		assert.Equal(t, "7", e.Display())
	})
}

func TestDivisionRounding(t *testing.T) {
	tests := []struct {
		a, b string
		want string
	}{
		{a: "1", b: "3", want: "0.33333333"},
		{a: "2", b: "3", want: "0.66666667"},
		{a: "10", b: "4", want: "2.5"},
		{a: "1", b: "8", want: "0.125"},
	}
	for _, tt := range tests {
		e := New()
		typeNumber(e, tt.a)
		e.SelectOperator(Divide)
		typeNumber(e, tt.b)
		e.Equals()
		assert.Equal(t, tt.want, e.Display(), "%s / %s", tt.a, tt.b)
	}
}

func TestFloatingPointNoiseOnScreen(t *testing.T) {
	e := New()
	typeNumber(e, "0.1")
	e.SelectOperator(Add)
	typeNumber(e, "0.2")
	e.Equals()

	assert.Equal(t, "0.30000000000000004", e.Display())
	assert.Equal(t, "3.00000000e-1", e.Screen())
}

func TestPhases(t *testing.T) {
	e := New()
	assert.Equal(t, PhaseIdle, e.Phase())
	e.InputDigit('4')
	assert.Equal(t, PhaseAccumulatingFirst, e.Phase())
	e.SelectOperator(Subtract)
	assert.Equal(t, PhaseOperatorSelected, e.Phase())
	e.InputDigit('1')
	assert.Equal(t, PhaseAccumulatingSecond, e.Phase())
	e.Equals()
	assert.Equal(t, PhaseAccumulatingFirst, e.Phase())
	assert.Equal(t, "3", e.Display())
}

func TestInvalidInputIgnored(t *testing.T) {
	e, rec := newTestEngine()
	e.InputDigit('x')
	e.SelectOperator(BinaryOperator("modulo"))
	e.ApplyUnary(UnaryFunc("cbrt"))

	assert.Equal(t, State{Display: "0"}, e.State())
	assert.Empty(t, rec.events)
}
