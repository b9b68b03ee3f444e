// Package keypad maps button labels onto calculator engine actions, the way
// a physical or on-screen keypad would.
package keypad

import (
	"errors"
	"math"
	"strings"
	"unicode"

	pkgerrors "github.com/pkg/errors"

	"github.com/numwiz/numwiz/pkg/calculator"
)

// ErrUnknownKey is returned for labels that no button carries.
var ErrUnknownKey = errors.New("unknown key")

var operators = map[string]calculator.BinaryOperator{
	"+": calculator.Add,
	"-": calculator.Subtract,
	"−": calculator.Subtract,
	"*": calculator.Multiply,
	"x": calculator.Multiply,
	"×": calculator.Multiply,
	"/": calculator.Divide,
	"÷": calculator.Divide,
}

var functions = map[string]calculator.UnaryFunc{
	"%":    calculator.Percent,
	"√":    calculator.Sqrt,
	"x²":   calculator.Pow,
	"sq":   calculator.Pow,
	"1/x":  calculator.Reciprocal,
	"inv":  calculator.Reciprocal,
	"!":    calculator.Factorial,
	"rand": calculator.Random,
	"ℯ":    calculator.Euler,
}

// Press applies the button labelled key to e. Numeric labels such as "12.5"
// are typed digit by digit; a leading '-' toggles the sign afterwards.
func Press(e *calculator.Engine, key string) error {
	act, err := lookup(key)
	if err != nil {
		return err
	}
	act(e)
	return nil
}

// lookup resolves a label to the engine action it triggers.
func lookup(key string) (func(*calculator.Engine), error) {
	k := strings.ToLower(strings.TrimSpace(key))

	switch k {
	case "":
		return func(*calculator.Engine) {}, nil
	case "=", "enter":
		return (*calculator.Engine).Equals, nil
	case ".", ",":
		return (*calculator.Engine).InputDecimal, nil
	case "c", "ac", "clear":
		return (*calculator.Engine).Clear, nil
	case "±", "+/-", "neg":
		return (*calculator.Engine).ToggleSign, nil
	case "pi", "π":
		return func(e *calculator.Engine) { e.SetDisplay(calculator.FormatNumber(math.Pi)) }, nil
	}

	if op, ok := operators[k]; ok {
		return func(e *calculator.Engine) { e.SelectOperator(op) }, nil
	}
	if fn, ok := functions[k]; ok {
		return func(e *calculator.Engine) { e.ApplyUnary(fn) }, nil
	}
	if fn := calculator.UnaryFunc(k); fn.Valid() {
		return func(e *calculator.Engine) { e.ApplyUnary(fn) }, nil
	}
	if isNumber(k) {
		return func(e *calculator.Engine) { typeNumber(e, k) }, nil
	}

	return nil, pkgerrors.Wrapf(ErrUnknownKey, "%q", key)
}

// Run presses every key in order. Nothing is pressed when any key is
// unknown.
func Run(e *calculator.Engine, keys []string) error {
	acts := make([]func(*calculator.Engine), 0, len(keys))
	for _, k := range keys {
		act, err := lookup(k)
		if err != nil {
			return err
		}
		acts = append(acts, act)
	}
	for _, act := range acts {
		act(e)
	}
	return nil
}

// Split breaks a compact key sequence such as "12.5+3=" or "2 sqrt" into
// labels understood by Press. Letters group into words, so "x" is the
// multiply key only when it stands alone, as in "3x4" or "3 x 4".
func Split(s string) []string {
	var (
		keys []string
		cur  strings.Builder
		kind int // 0 none, 1 number, 2 word
	)
	flush := func() {
		if cur.Len() > 0 {
			keys = append(keys, cur.String())
			cur.Reset()
		}
		kind = 0
	}

	rs := []rune(s)
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		switch {
		case unicode.IsSpace(r):
			flush()
		case unicode.IsDigit(r) && kind == 2 && !strings.EqualFold(cur.String(), "x"):
			// function names such as log2
			cur.WriteRune(r)
		case r == '/' && kind == 1 && cur.String() == "1" && isReciprocal(rs[i+1:]):
			cur.Reset()
			kind = 0
			keys = append(keys, "1/x")
			i++
		case unicode.IsDigit(r) || r == '.':
			if kind != 1 {
				flush()
				kind = 1
			}
			cur.WriteRune(r)
		case unicode.IsLetter(r):
			if kind != 2 {
				flush()
				kind = 2
			}
			cur.WriteRune(r)
		case r == '²' && kind == 2 && strings.EqualFold(cur.String(), "x"):
			cur.WriteRune(r)
			flush()
		default:
			flush()
			keys = append(keys, string(r))
		}
	}
	flush()
	return keys
}

// isReciprocal reports whether rest, the input following "1/", starts with a
// lone x.
func isReciprocal(rest []rune) bool {
	if len(rest) == 0 || (rest[0] != 'x' && rest[0] != 'X') {
		return false
	}
	return len(rest) == 1 || !unicode.IsLetter(rest[1])
}

func isNumber(k string) bool {
	k = strings.TrimPrefix(k, "-")
	if k == "" {
		return false
	}
	for _, r := range k {
		if (r < '0' || r > '9') && r != '.' {
			return false
		}
	}
	return true
}

func typeNumber(e *calculator.Engine, k string) {
	neg := strings.HasPrefix(k, "-")
	for _, r := range strings.TrimPrefix(k, "-") {
		if r == '.' {
			e.InputDecimal()
			continue
		}
		e.InputDigit(r)
	}
	if neg {
		e.ToggleSign()
	}
}
