package daemon

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/numwiz/numwiz/pkg/badges"
	"github.com/numwiz/numwiz/pkg/calculator"
	"github.com/numwiz/numwiz/pkg/config"
	"github.com/numwiz/numwiz/pkg/keypad"
	"github.com/numwiz/numwiz/pkg/version"
)

func badRequest(c *gin.Context, err error) {
	c.IndentedJSON(http.StatusBadRequest, err.Error())
	_ = c.AbortWithError(http.StatusBadRequest, err)
}

func getDisplay(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, sess.display())
}

func getState(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, sess.state())
}

func postDigit(c *gin.Context) {
	var d string
	if err := c.BindJSON(&d); err != nil {
		badRequest(c, err)
		return
	}

	r, size := utf8.DecodeRuneInString(d)
	if size != len(d) || r < '0' || r > '9' {
		badRequest(c, fmt.Errorf("digit must be a single character 0-9, got %q", d))
		return
	}

	c.IndentedJSON(http.StatusCreated, sess.do(func(e *calculator.Engine) { e.InputDigit(r) }))
}

func postDecimal(c *gin.Context) {
	c.IndentedJSON(http.StatusCreated, sess.do((*calculator.Engine).InputDecimal))
}

func postClear(c *gin.Context) {
	c.IndentedJSON(http.StatusCreated, sess.do((*calculator.Engine).Clear))
}

func postToggleSign(c *gin.Context) {
	c.IndentedJSON(http.StatusCreated, sess.do((*calculator.Engine).ToggleSign))
}

func postEquals(c *gin.Context) {
	c.IndentedJSON(http.StatusCreated, sess.do((*calculator.Engine).Equals))
}

func postOperator(c *gin.Context) {
	var op calculator.BinaryOperator
	if err := c.BindJSON(&op); err != nil {
		badRequest(c, err)
		return
	}

	if !op.Valid() {
		badRequest(c, fmt.Errorf("unknown operator %q", op))
		return
	}

	c.IndentedJSON(http.StatusCreated, sess.do(func(e *calculator.Engine) { e.SelectOperator(op) }))
}

func postUnary(c *gin.Context) {
	var fn calculator.UnaryFunc
	if err := c.BindJSON(&fn); err != nil {
		badRequest(c, err)
		return
	}

	if !fn.Valid() {
		badRequest(c, fmt.Errorf("unknown function %q", fn))
		return
	}

	c.IndentedJSON(http.StatusCreated, sess.do(func(e *calculator.Engine) { e.ApplyUnary(fn) }))
}

func postConstant(c *gin.Context) {
	var literal string
	if err := c.BindJSON(&literal); err != nil {
		badRequest(c, err)
		return
	}

	c.IndentedJSON(http.StatusCreated, sess.do(func(e *calculator.Engine) { e.SetDisplay(literal) }))
}

func postKeys(c *gin.Context) {
	var keys string
	if err := c.BindJSON(&keys); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := sess.doErr(func(e *calculator.Engine) error {
		return keypad.Run(e, keypad.Split(keys))
	})
	if err != nil {
		badRequest(c, err)
		return
	}

	c.IndentedJSON(http.StatusCreated, resp)
}

func postReset(c *gin.Context) {
	sess.reset("manual")
	c.IndentedJSON(http.StatusCreated, sess.display())
}

func getBadges(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, sess.badges())
}

func getFact(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, sess.currentFact())
}

func deleteFact(c *gin.Context) {
	sess.dismissFact()
	c.IndentedJSON(http.StatusOK, "ok")
}

// getEvents streams hub events as server-sent events until the client goes
// away or the hub is closed.
func getEvents(c *gin.Context) {
	ch := sseHub.Subscribe()
	defer sseHub.Unsubscribe(ch)

	logrus.WithField("subscribers", sseHub.Subscribers()).Debug("event stream opened")

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case ev, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent(ev.Name, string(ev.Data))
			return true
		}
	})
}

func getSchedule(c *gin.Context) {
	st := scheduler.Status()
	resp := scheduleResponse{
		Cron:    st.Cron,
		Running: st.Running,
	}
	if !st.NextRun.IsZero() {
		resp.NextRun = st.NextRun.Format(time.RFC3339)
	}
	c.IndentedJSON(http.StatusOK, resp)
}

func postScheduleSkip(c *gin.Context) {
	if err := scheduler.Skip(); err != nil {
		badRequest(c, err)
		return
	}

	logrus.Infof("skipped next session reset, next one at %s", scheduler.Status().NextRun.Format(time.DateTime))
	c.IndentedJSON(http.StatusCreated, "ok")
}

func postSchedulePostpone(c *gin.Context) {
	var req postponeRequest
	if err := c.BindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if req.Minutes <= 0 {
		badRequest(c, errors.New("minutes must be positive"))
		return
	}

	if err := scheduler.Postpone(time.Duration(req.Minutes) * time.Minute); err != nil {
		badRequest(c, err)
		return
	}

	logrus.Infof("postponed session reset to %s", scheduler.Status().NextRun.Format(time.DateTime))
	c.IndentedJSON(http.StatusCreated, "ok")
}

func getConfig(c *gin.Context) {
	fc, err := config.NewRawFileConfigFromConfig(conf)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	c.IndentedJSON(http.StatusOK, fc)
}

// saveConfig persists conf and answers 500 when that fails.
func saveConfig(c *gin.Context) bool {
	if err := conf.Save(); err != nil {
		logrus.Errorf("saveConfig failed: %v", err)
		c.IndentedJSON(http.StatusInternalServerError, err.Error())
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return false
	}
	return true
}

func setHighlightMillis(c *gin.Context) {
	var ms int
	if err := c.BindJSON(&ms); err != nil {
		badRequest(c, err)
		return
	}

	if ms < 0 {
		badRequest(c, fmt.Errorf("highlight duration must not be negative, got %d", ms))
		return
	}

	conf.SetHighlightMillis(ms)
	if !saveConfig(c) {
		return
	}
	sess.configure()

	logrus.Infof("set badge highlight to %dms", ms)

	c.IndentedJSON(http.StatusCreated, "ok")
}

func setShowFacts(c *gin.Context) {
	var show bool
	if err := c.BindJSON(&show); err != nil {
		badRequest(c, err)
		return
	}

	conf.SetShowFacts(show)
	if !saveConfig(c) {
		return
	}
	if !show {
		sess.dismissFact()
	}

	logrus.Infof("set show facts to %t", show)

	c.IndentedJSON(http.StatusCreated, "ok")
}

func setScientificUnlockBadges(c *gin.Context) {
	var n int
	if err := c.BindJSON(&n); err != nil {
		badRequest(c, err)
		return
	}

	if n < 1 || n > len(badges.Basic) {
		badRequest(c, fmt.Errorf("badges required for scientific mode must be between 1 and %d, got %d", len(badges.Basic), n))
		return
	}

	conf.SetScientificUnlockBadges(n)
	if !saveConfig(c) {
		return
	}
	sess.configure()

	logrus.Infof("set badges required for scientific mode to %d", n)

	c.IndentedJSON(http.StatusCreated, "ok")
}

func setResetCron(c *gin.Context) {
	var expr string
	if err := c.BindJSON(&expr); err != nil {
		badRequest(c, err)
		return
	}

	// Schedule rejects a bad expression without touching the current one.
	if err := scheduler.Schedule(expr); err != nil {
		badRequest(c, err)
		return
	}

	conf.SetResetCron(expr)
	if !saveConfig(c) {
		return
	}

	if expr == "" {
		logrus.Info("disabled automatic session reset")
	} else {
		logrus.Infof("set session reset schedule to %q", expr)
	}

	c.IndentedJSON(http.StatusCreated, "ok")
}

func getVersion(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, version.Version)
}
