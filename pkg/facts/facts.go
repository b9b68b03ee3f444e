// Package facts picks a "did you know" fact for a calculation.
package facts

import (
	"math"

	"github.com/numwiz/numwiz/pkg/calculator"
)

type rule struct {
	match func(calculator.Event) bool
	text  string
}

func errIs(tag calculator.ErrorTag, ops ...calculator.OperatorID) func(calculator.Event) bool {
	return func(e calculator.Event) bool {
		if e.Err != tag {
			return false
		}
		if len(ops) == 0 {
			return true
		}
		for _, op := range ops {
			if e.Operator == op {
				return true
			}
		}
		return false
	}
}

func resultIs(v float64) func(calculator.Event) bool {
	return func(e calculator.Event) bool {
		return !e.Failed() && math.Abs(e.Result-v) < 1e-9
	}
}

// rules are checked in order; the first match wins.
var rules = []rule{
	{
		match: errIs(calculator.ErrDivideByZero, calculator.OperatorID(calculator.Divide)),
		text:  "Dividing by zero has no answer: no number multiplied by 0 gives back the number you started with.",
	},
	{
		match: errIs(calculator.ErrDivideByZero, calculator.OperatorID(calculator.Reciprocal)),
		text:  "1/x grows without bound as x approaches 0, so 1/0 is left undefined.",
	},
	{
		match: errIs(calculator.ErrDomain, calculator.OperatorID(calculator.Sqrt)),
		text:  "Negative numbers have no real square root. Mathematicians invented i, with i² = -1, to fill the gap.",
	},
	{
		match: errIs(calculator.ErrDomain, calculator.OperatorID(calculator.Ln), calculator.OperatorID(calculator.Log), calculator.OperatorID(calculator.Log2)),
		text:  "Logarithms only accept positive numbers: no power of a positive base is ever zero or negative.",
	},
	{
		match: errIs(calculator.ErrUndefined),
		text:  "The tangent of 90° (π/2 radians) is undefined because the cosine there is exactly zero.",
	},
	{
		match: errIs(calculator.ErrFactorial),
		text:  "Factorials are defined for whole numbers. The gamma function extends them to fractions: Γ(4.5) = 3.5!.",
	},
	{
		match: func(e calculator.Event) bool {
			return e.Operator == calculator.OperatorID(calculator.Factorial) && math.IsInf(e.Result, 1)
		},
		text: "170! is the largest factorial a 64-bit float can hold. 171! has 310 digits.",
	},
	{
		match: resultIs(math.Pi),
		text:  "π has been computed to more than 100 trillion digits, yet 39 of them are enough to measure the observable universe to the width of an atom.",
	},
	{
		match: resultIs(math.E),
		text:  "e was discovered by Jacob Bernoulli while studying compound interest.",
	},
	{
		match: resultIs(7),
		text:  "Asked to pick a random number between 1 and 10, people choose 7 more than any other.",
	},
	{
		match: resultIs(42),
		text:  "42 is the Answer to the Ultimate Question of Life, the Universe, and Everything.",
	},
	{
		match: resultIs(1729),
		text:  "1729 is the smallest number expressible as the sum of two cubes in two different ways.",
	},
	{
		match: func(e calculator.Event) bool {
			return e.Kind == calculator.KindBinary && resultIs(0)(e)
		},
		text: "Brahmagupta wrote down rules for calculating with zero as a number in 628 AD.",
	},
	{
		match: func(e calculator.Event) bool {
			return e.Kind == calculator.KindBinary && !e.Failed() && e.Result < 0
		},
		text: "Chinese mathematicians used red and black rods for positive and negative numbers over 2000 years ago.",
	},
}

// For returns the fact matching e, if any. Clear events have none.
func For(e calculator.Event) (string, bool) {
	if e.Kind == calculator.KindClear {
		return "", false
	}
	for _, r := range rules {
		if r.match(e) {
			return r.text, true
		}
	}
	return "", false
}
