package calculator

import "math"

const (
	// poleEpsilon is how close cos(x) may get to zero before tan(x) is
	// reported as undefined.
	poleEpsilon = 1e-10

	// maxFactorial is the largest n whose factorial fits a float64.
	maxFactorial = 170
)

// binary applies op to a and b. A non-empty tag means the calculation
// failed.
func binary(a, b float64, op BinaryOperator) (float64, ErrorTag) {
	switch op {
	case Add:
		return a + b, ""
	case Subtract:
		return a - b, ""
	case Multiply:
		return a * b, ""
	case Divide:
		if b == 0 {
			return 0, ErrDivideByZero
		}
		return roundFraction(a/b, fractionDigits), ""
	}
	return 0, ErrParse
}

// unary evaluates fn at x. Angles are in radians. rnd backs Random.
func unary(x float64, fn UnaryFunc, rnd func() float64) (float64, ErrorTag) {
	switch fn {
	case Sin:
		return math.Sin(x), ""
	case Cos:
		return math.Cos(x), ""
	case Tan:
		if math.Abs(math.Cos(x)) < poleEpsilon {
			return 0, ErrUndefined
		}
		return math.Tan(x), ""
	case Ln:
		if x <= 0 {
			return 0, ErrDomain
		}
		return math.Log(x), ""
	case Log:
		if x <= 0 {
			return 0, ErrDomain
		}
		return math.Log10(x), ""
	case Log2:
		if x <= 0 {
			return 0, ErrDomain
		}
		return math.Log2(x), ""
	case Sqrt:
		if x < 0 {
			return 0, ErrDomain
		}
		return math.Sqrt(x), ""
	case Exp:
		return math.Exp(x), ""
	case Pow:
		return math.Pow(x, 2), ""
	case Sinh:
		return math.Sinh(x), ""
	case Cosh:
		return math.Cosh(x), ""
	case Tanh:
		return math.Tanh(x), ""
	case Asinh:
		return math.Asinh(x), ""
	case Acosh:
		return math.Acosh(x), ""
	case Atanh:
		return math.Atanh(x), ""
	case Reciprocal:
		if x == 0 {
			return 0, ErrDivideByZero
		}
		return 1 / x, ""
	case Factorial:
		return factorial(x)
	case Percent:
		return x / 100, ""
	case Random:
		return rnd(), ""
	case Euler:
		return math.E, ""
	}
	return 0, ErrParse
}

func factorial(x float64) (float64, ErrorTag) {
	if x < 0 || x != math.Trunc(x) {
		return 0, ErrFactorial
	}
	if x > maxFactorial {
		return math.Inf(1), ""
	}
	r := 1.0
	for i := 2; i <= int(x); i++ {
		r *= float64(i)
	}
	return r, ""
}
