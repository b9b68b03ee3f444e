package client

import (
	"encoding/json"
	"strconv"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/numwiz/numwiz/pkg/badges"
	"github.com/numwiz/numwiz/pkg/calculator"
	"github.com/numwiz/numwiz/pkg/config"
)

// Display is the daemon's answer to every calculator action.
type Display struct {
	Display string           `json:"display"`
	Screen  string           `json:"screen"`
	Phase   calculator.Phase `json:"phase"`
}

// LastBinaryOp is the remembered operation used by repeated equals.
type LastBinaryOp struct {
	Operand  string                    `json:"operand"`
	Operator calculator.BinaryOperator `json:"operator"`
}

// State is the full engine state. Operands are display literals.
type State struct {
	Display
	FirstOperand          string                    `json:"firstOperand,omitempty"`
	PendingOperator       calculator.BinaryOperator `json:"pendingOperator,omitempty"`
	AwaitingSecondOperand bool                      `json:"awaitingSecondOperand"`
	LastBinaryOp          *LastBinaryOp             `json:"lastBinaryOp,omitempty"`
}

type Fact struct {
	Fact string `json:"fact"`
	Ts   int64  `json:"ts,omitempty"`
}

type Schedule struct {
	Cron    string `json:"cron"`
	NextRun string `json:"nextRun,omitempty"`
	Running bool   `json:"running"`
}

func quote(s string) string {
	return strconv.Quote(s)
}

func (c *Client) action(path string, data string) (*Display, error) {
	ret, err := c.Post(path, data)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to call %s", path)
	}
	return decode[Display](ret)
}

func (c *Client) Digit(d rune) (*Display, error) {
	return c.action("/digit", quote(string(d)))
}

func (c *Client) Decimal() (*Display, error) {
	return c.action("/decimal", "")
}

func (c *Client) Clear() (*Display, error) {
	return c.action("/clear", "")
}

func (c *Client) ToggleSign() (*Display, error) {
	return c.action("/toggle-sign", "")
}

func (c *Client) Operator(op calculator.BinaryOperator) (*Display, error) {
	return c.action("/operator", quote(string(op)))
}

func (c *Client) Equals() (*Display, error) {
	return c.action("/equals", "")
}

func (c *Client) Unary(fn calculator.UnaryFunc) (*Display, error) {
	return c.action("/unary", quote(string(fn)))
}

func (c *Client) Constant(literal string) (*Display, error) {
	return c.action("/constant", quote(literal))
}

// Keys presses a whole key sequence such as "12+3=".
func (c *Client) Keys(keys string) (*Display, error) {
	return c.action("/keys", quote(keys))
}

func (c *Client) Reset() (*Display, error) {
	return c.action("/reset", "")
}

func (c *Client) GetDisplay() (*Display, error) {
	ret, err := c.Get("/display")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get display")
	}
	return decode[Display](ret)
}

func (c *Client) GetState() (*State, error) {
	ret, err := c.Get("/state")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get state")
	}
	return decode[State](ret)
}

func (c *Client) GetBadges() (*badges.Status, error) {
	ret, err := c.Get("/badges")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get badges")
	}
	return decode[badges.Status](ret)
}

func (c *Client) GetFact() (*Fact, error) {
	ret, err := c.Get("/fact")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get fact")
	}
	return decode[Fact](ret)
}

func (c *Client) DismissFact() error {
	_, err := c.Delete("/fact")
	return pkgerrors.Wrapf(err, "failed to dismiss fact")
}

func (c *Client) GetSchedule() (*Schedule, error) {
	ret, err := c.Get("/schedule")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get reset schedule")
	}
	return decode[Schedule](ret)
}

func (c *Client) SkipReset() (string, error) {
	return c.Post("/schedule/skip", "")
}

func (c *Client) PostponeReset(d time.Duration) (string, error) {
	return c.Post("/schedule/postpone", `{"minutes":`+strconv.Itoa(int(d.Minutes()))+`}`)
}

func (c *Client) GetConfig() (*config.RawFileConfig, error) {
	ret, err := c.Get("/config")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get config")
	}
	return decode[config.RawFileConfig](ret)
}

func (c *Client) SetHighlightMillis(ms int) (string, error) {
	return c.Put("/highlight-millis", strconv.Itoa(ms))
}

func (c *Client) SetShowFacts(show bool) (string, error) {
	return c.Put("/show-facts", strconv.FormatBool(show))
}

func (c *Client) SetScientificUnlockBadges(n int) (string, error) {
	return c.Put("/scientific-unlock-badges", strconv.Itoa(n))
}

// SetResetCron changes the session reset schedule. An empty expression
// disables it.
func (c *Client) SetResetCron(expr string) (string, error) {
	return c.Put("/reset-cron", quote(expr))
}

func (c *Client) GetVersion() (string, error) {
	ret, err := c.Get("/version")
	if err != nil {
		return "", pkgerrors.Wrapf(err, "failed to get version")
	}
	v, err := decode[string](ret)
	if err != nil {
		return "", err
	}
	return *v, nil
}

func decode[T any](ret string) (*T, error) {
	var v T
	if err := json.Unmarshal([]byte(ret), &v); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal %T", v)
	}
	return &v, nil
}
