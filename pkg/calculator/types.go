package calculator

import "strings"

// BinaryOperator is one of the four keypad operators.
type BinaryOperator string

const (
	Add      BinaryOperator = "add"
	Subtract BinaryOperator = "subtract"
	Multiply BinaryOperator = "multiply"
	Divide   BinaryOperator = "divide"
)

// BinaryOperators lists all binary operators in keypad order.
var BinaryOperators = []BinaryOperator{Add, Subtract, Multiply, Divide}

// Valid reports whether op is a known binary operator.
func (op BinaryOperator) Valid() bool {
	switch op {
	case Add, Subtract, Multiply, Divide:
		return true
	}
	return false
}

// Symbol returns the keypad label of op.
func (op BinaryOperator) Symbol() string {
	switch op {
	case Add:
		return "+"
	case Subtract:
		return "−"
	case Multiply:
		return "×"
	case Divide:
		return "÷"
	}
	return "?"
}

// UnaryFunc is a scientific function applied to the display value.
type UnaryFunc string

const (
	Sin        UnaryFunc = "sin"
	Cos        UnaryFunc = "cos"
	Tan        UnaryFunc = "tan"
	Ln         UnaryFunc = "ln"
	Log        UnaryFunc = "log"
	Log2       UnaryFunc = "log2"
	Sqrt       UnaryFunc = "sqrt"
	Exp        UnaryFunc = "exp"
	Pow        UnaryFunc = "pow"
	Sinh       UnaryFunc = "sinh"
	Cosh       UnaryFunc = "cosh"
	Tanh       UnaryFunc = "tanh"
	Asinh      UnaryFunc = "asinh"
	Acosh      UnaryFunc = "acosh"
	Atanh      UnaryFunc = "atanh"
	Reciprocal UnaryFunc = "reciprocal"
	Factorial  UnaryFunc = "fact"
	Percent    UnaryFunc = "percent"
	Random     UnaryFunc = "random"
	Euler      UnaryFunc = "e"
)

// UnaryFuncs lists every supported unary function.
var UnaryFuncs = []UnaryFunc{
	Sin, Cos, Tan, Ln, Log, Log2, Sqrt, Exp, Pow,
	Sinh, Cosh, Tanh, Asinh, Acosh, Atanh,
	Reciprocal, Factorial, Percent, Random, Euler,
}

// Valid reports whether fn is a known unary function.
func (fn UnaryFunc) Valid() bool {
	for _, f := range UnaryFuncs {
		if f == fn {
			return true
		}
	}
	return false
}

// Niladic reports whether fn ignores the current display value.
func (fn UnaryFunc) Niladic() bool {
	return fn == Random || fn == Euler
}

// OperatorID identifies the operation carried by an Event. It is the string
// form of a BinaryOperator or UnaryFunc, a percent-of composite such as
// "add_percent", or ConstantInput.
type OperatorID string

// ConstantInput is the operator of events emitted by Engine.SetDisplay.
const ConstantInput OperatorID = "constant_input"

func percentOf(op BinaryOperator) OperatorID {
	return OperatorID(string(op) + "_percent")
}

// Kind classifies a completed calculation.
type Kind string

const (
	KindBinary   Kind = "binary"
	KindUnary    Kind = "unary"
	KindConstant Kind = "constant"
	KindClear    Kind = "clear"
)

// ErrorTag is a display value that denotes a failed calculation. Every tag
// starts with "Error" and can never be parsed as a number.
type ErrorTag string

const (
	ErrDivideByZero ErrorTag = "Error: Divide by zero"
	ErrDomain       ErrorTag = "Error: Invalid input"
	ErrUndefined    ErrorTag = "Error: Undefined"
	ErrFactorial    ErrorTag = "Error: Invalid factorial"
	ErrParse        ErrorTag = "Error"
)

// InfinityMarker is shown for results that saturate, such as 171!.
const InfinityMarker = "Infinity"

// IsErrorTag reports whether s is an error display value.
func IsErrorTag(s string) bool {
	return strings.HasPrefix(s, string(ErrParse))
}

// Event describes one completed calculation.
type Event struct {
	// Result is meaningful only when Err is empty. It may be ±Inf.
	Result   float64
	Err      ErrorTag
	First    *float64
	Operator OperatorID
	Second   *float64
	Kind     Kind
}

// Failed reports whether the calculation produced an error tag.
func (e Event) Failed() bool {
	return e.Err != ""
}

// Observer receives calculation events synchronously.
type Observer interface {
	OnCalculationComplete(Event)
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(Event)

func (f ObserverFunc) OnCalculationComplete(e Event) {
	f(e)
}

// Phase is the state-machine view derived from the engine fields.
type Phase string

const (
	PhaseIdle               Phase = "Idle"
	PhaseAccumulatingFirst  Phase = "AccumulatingFirst"
	PhaseOperatorSelected   Phase = "OperatorSelected"
	PhaseAccumulatingSecond Phase = "AccumulatingSecond"
	PhaseErred              Phase = "Erred"
)

// BinaryOp is a remembered right operand and operator.
type BinaryOp struct {
	Operand  float64        `json:"operand"`
	Operator BinaryOperator `json:"operator"`
}

// State is a snapshot of the engine fields.
type State struct {
	Display               string         `json:"display"`
	FirstOperand          *float64       `json:"firstOperand,omitempty"`
	PendingOperator       BinaryOperator `json:"pendingOperator,omitempty"`
	AwaitingSecondOperand bool           `json:"awaitingSecondOperand"`
	LastBinaryOp          *BinaryOp      `json:"lastBinaryOp,omitempty"`
}
