package daemon

import "github.com/numwiz/numwiz/pkg/calculator"

type displayResponse struct {
	Display string           `json:"display"`
	Screen  string           `json:"screen"`
	Phase   calculator.Phase `json:"phase"`
}

func newDisplayResponse(e *calculator.Engine) displayResponse {
	return displayResponse{
		Display: e.Display(),
		Screen:  e.Screen(),
		Phase:   e.Phase(),
	}
}

type lastBinaryOp struct {
	Operand  string                    `json:"operand"`
	Operator calculator.BinaryOperator `json:"operator"`
}

// stateResponse carries operands as display literals because JSON cannot
// encode an infinite first operand.
type stateResponse struct {
	displayResponse
	FirstOperand          string                    `json:"firstOperand,omitempty"`
	PendingOperator       calculator.BinaryOperator `json:"pendingOperator,omitempty"`
	AwaitingSecondOperand bool                      `json:"awaitingSecondOperand"`
	LastBinaryOp          *lastBinaryOp             `json:"lastBinaryOp,omitempty"`
}

func newStateResponse(e *calculator.Engine) stateResponse {
	st := e.State()
	r := stateResponse{
		displayResponse:       newDisplayResponse(e),
		PendingOperator:       st.PendingOperator,
		AwaitingSecondOperand: st.AwaitingSecondOperand,
	}
	if st.FirstOperand != nil {
		r.FirstOperand = calculator.FormatNumber(*st.FirstOperand)
	}
	if st.LastBinaryOp != nil {
		r.LastBinaryOp = &lastBinaryOp{
			Operand:  calculator.FormatNumber(st.LastBinaryOp.Operand),
			Operator: st.LastBinaryOp.Operator,
		}
	}
	return r
}

type factResponse struct {
	Fact string `json:"fact"`
	Ts   int64  `json:"ts,omitempty"`
}

type scheduleResponse struct {
	Cron    string `json:"cron"`
	NextRun string `json:"nextRun,omitempty"`
	Running bool   `json:"running"`
}

type postponeRequest struct {
	Minutes int `json:"minutes"`
}

