// Package calculator implements the numwiz calculator input state machine.
//
// An Engine interprets discrete keypad actions (digits, decimal point,
// binary operators, unary functions, equals, clear, sign toggle and direct
// value injection) against a small piece of state:
//
//   - the display literal
//   - the pending first operand and operator
//   - whether the next digit starts a new number
//   - the last completed binary operation, used by repeated equals
//
// Every completed calculation is reported exactly once to an Observer as an
// Event. Arithmetic failures never escape as Go errors or panics; they are
// turned into one of the ErrorTag display values, after which only digit
// entry, decimal entry and Clear are accepted.
//
// An Engine is owned by a single caller and is not safe for concurrent use.
package calculator
