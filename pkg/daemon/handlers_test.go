package daemon

import (
	"bufio"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/numwiz/numwiz/pkg/badges"
	"github.com/numwiz/numwiz/pkg/calculator"
	"github.com/numwiz/numwiz/pkg/config"
	"github.com/numwiz/numwiz/pkg/events"
	"github.com/numwiz/numwiz/pkg/utils/ptr"
)

func newTestRouter(t *testing.T, raw *config.RawFileConfig) http.Handler {
	t.Helper()
	setup(config.NewFileFromConfig(raw, filepath.Join(t.TempDir(), "numwiz.json")))
	t.Cleanup(func() {
		scheduler.Stop()
		sess.close()
	})
	return setupRoutes()
}

func request(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestKeysAndDisplay(t *testing.T) {
	h := newTestRouter(t, nil)

	w := request(t, h, http.MethodPost, "/keys", `"5+3="`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "8", decode[displayResponse](t, w).Display)

	w = request(t, h, http.MethodGet, "/display", "")
	require.Equal(t, http.StatusOK, w.Code)
	d := decode[displayResponse](t, w)
	assert.Equal(t, "8", d.Display)
	assert.Equal(t, "8", d.Screen)
	assert.Equal(t, calculator.PhaseAccumulatingFirst, d.Phase)
}

func TestSingleActions(t *testing.T) {
	h := newTestRouter(t, nil)

	steps := []struct {
		path string
		body string
		want string
	}{
		{"/digit", `"1"`, "1"},
		{"/decimal", "", "1."},
		{"/digit", `"5"`, "1.5"},
		{"/operator", `"multiply"`, "1.5"},
		{"/digit", `"4"`, "4"},
		{"/equals", "", "6"},
		{"/toggle-sign", "", "-6"},
		{"/unary", `"reciprocal"`, "-0.16666666666666666"},
		{"/constant", `"42"`, "42"},
		{"/clear", "", "0"},
	}
	for _, s := range steps {
		w := request(t, h, http.MethodPost, s.path, s.body)
		require.Equal(t, http.StatusCreated, w.Code, "%s %s: %s", s.path, s.body, w.Body.String())
		assert.Equal(t, s.want, decode[displayResponse](t, w).Display, "%s %s", s.path, s.body)
	}
}

func TestBadRequests(t *testing.T) {
	h := newTestRouter(t, nil)

	tests := []struct {
		path string
		body string
	}{
		{"/digit", `"12"`},
		{"/digit", `"a"`},
		{"/digit", `7`},
		{"/operator", `"modulo"`},
		{"/unary", `"cbrt"`},
		{"/keys", `"1 frobnicate"`},
		{"/constant", `{`},
		{"/schedule/skip", ""},
		{"/schedule/postpone", `{"minutes": 0}`},
	}
	for _, tt := range tests {
		w := request(t, h, http.MethodPost, tt.path, tt.body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "%s %s", tt.path, tt.body)
	}
}

func TestRejectedKeysLeaveSessionUntouched(t *testing.T) {
	h := newTestRouter(t, nil)

	require.Equal(t, http.StatusCreated, request(t, h, http.MethodPost, "/keys", `"12"`).Code)

	w := request(t, h, http.MethodPost, "/keys", `"0 exq"`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = request(t, h, http.MethodGet, "/state", "")
	require.Equal(t, http.StatusOK, w.Code)
	st := decode[stateResponse](t, w)
	assert.Equal(t, "12", st.Display)
	assert.Empty(t, st.PendingOperator)

	w = request(t, h, http.MethodPost, "/keys", `"c 0 exp"`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "1", decode[displayResponse](t, w).Display)
}

func TestStateWithInfiniteOperand(t *testing.T) {
	h := newTestRouter(t, nil)

	require.Equal(t, http.StatusCreated, request(t, h, http.MethodPost, "/keys", `"171 fact +"`).Code)

	w := request(t, h, http.MethodGet, "/state", "")
	require.Equal(t, http.StatusOK, w.Code)
	st := decode[stateResponse](t, w)
	assert.Equal(t, calculator.InfinityMarker, st.FirstOperand)
	assert.Equal(t, calculator.Add, st.PendingOperator)
	assert.True(t, st.AwaitingSecondOperand)
	assert.Equal(t, calculator.PhaseOperatorSelected, st.Phase)
}

func TestBadgesAndFacts(t *testing.T) {
	h := newTestRouter(t, &config.RawFileConfig{
		ScientificUnlockBadges: ptr.To(2),
	})

	require.Equal(t, http.StatusCreated, request(t, h, http.MethodPost, "/keys", `"1÷0="`).Code)

	w := request(t, h, http.MethodGet, "/badges", "")
	require.Equal(t, http.StatusOK, w.Code)
	st := decode[badges.Status](t, w)
	assert.Equal(t, 1, st.Unlocked)
	assert.Equal(t, 2, st.Required)
	assert.Equal(t, "zero", st.Highlight)
	assert.False(t, st.ScientificUnlocked)

	w = request(t, h, http.MethodGet, "/fact", "")
	f := decode[factResponse](t, w)
	assert.NotEmpty(t, f.Fact)

	require.Equal(t, http.StatusOK, request(t, h, http.MethodDelete, "/fact", "").Code)
	assert.Empty(t, decode[factResponse](t, request(t, h, http.MethodGet, "/fact", "")).Fact)

	require.Equal(t, http.StatusCreated, request(t, h, http.MethodPost, "/keys", `"c 3+4="`).Code)
	st = decode[badges.Status](t, request(t, h, http.MethodGet, "/badges", ""))
	assert.True(t, st.ScientificUnlocked)
	assert.Equal(t, float64(100), st.ProgressPercent)
}

func TestFactsDisabled(t *testing.T) {
	h := newTestRouter(t, &config.RawFileConfig{ShowFacts: ptr.To(false)})

	require.Equal(t, http.StatusCreated, request(t, h, http.MethodPost, "/keys", `"1÷0="`).Code)
	assert.Empty(t, decode[factResponse](t, request(t, h, http.MethodGet, "/fact", "")).Fact)
}

func TestReset(t *testing.T) {
	h := newTestRouter(t, nil)

	require.Equal(t, http.StatusCreated, request(t, h, http.MethodPost, "/keys", `"3+4="`).Code)
	w := request(t, h, http.MethodPost, "/reset", "")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "0", decode[displayResponse](t, w).Display)

	st := decode[badges.Status](t, request(t, h, http.MethodGet, "/badges", ""))
	assert.Zero(t, st.Unlocked)
}

func TestSessionBusy(t *testing.T) {
	h := newTestRouter(t, nil)

	assert.NoError(t, sess.busy())
	require.Equal(t, http.StatusCreated, request(t, h, http.MethodPost, "/keys", `"3+"`).Code)
	assert.ErrorIs(t, sess.busy(), errSessionBusy)
	require.Equal(t, http.StatusCreated, request(t, h, http.MethodPost, "/keys", `"4="`).Code)
	assert.NoError(t, sess.busy())
}

func TestScheduleEndpoints(t *testing.T) {
	h := newTestRouter(t, &config.RawFileConfig{ResetCron: ptr.To("@every 1h")})

	st := decode[scheduleResponse](t, request(t, h, http.MethodGet, "/schedule", ""))
	assert.Equal(t, "@every 1h", st.Cron)
	require.NotEmpty(t, st.NextRun)

	require.Equal(t, http.StatusCreated, request(t, h, http.MethodPost, "/schedule/postpone", `{"minutes": 10}`).Code)
	postponed := decode[scheduleResponse](t, request(t, h, http.MethodGet, "/schedule", ""))
	assert.NotEqual(t, st.NextRun, postponed.NextRun)

	require.Equal(t, http.StatusCreated, request(t, h, http.MethodPost, "/schedule/skip", "").Code)
}

func TestInvalidResetCronDisablesSchedule(t *testing.T) {
	h := newTestRouter(t, &config.RawFileConfig{ResetCron: ptr.To("every tuesday")})

	st := decode[scheduleResponse](t, request(t, h, http.MethodGet, "/schedule", ""))
	assert.Empty(t, st.Cron)
	assert.Empty(t, st.NextRun)
}

func TestConfigAndVersion(t *testing.T) {
	h := newTestRouter(t, &config.RawFileConfig{HighlightMillis: ptr.To(10)})

	raw := decode[config.RawFileConfig](t, request(t, h, http.MethodGet, "/config", ""))
	require.NotNil(t, raw.HighlightMillis)
	assert.Equal(t, 10, *raw.HighlightMillis)
	assert.Equal(t, 5, *raw.ScientificUnlockBadges)

	w := request(t, h, http.MethodGet, "/version", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode[string](t, w))
}

func TestConfigSetters(t *testing.T) {
	h := newTestRouter(t, nil)

	bad := []struct {
		path string
		body string
	}{
		{"/highlight-millis", `-1`},
		{"/highlight-millis", `"fast"`},
		{"/show-facts", `"yes"`},
		{"/scientific-unlock-badges", `0`},
		{"/scientific-unlock-badges", `99`},
		{"/reset-cron", `"every tuesday"`},
	}
	for _, tt := range bad {
		w := request(t, h, http.MethodPut, tt.path, tt.body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "%s %s", tt.path, tt.body)
	}

	for _, tt := range []struct {
		path string
		body string
	}{
		{"/highlight-millis", `0`},
		{"/show-facts", `false`},
		{"/scientific-unlock-badges", `1`},
		{"/reset-cron", `"0 4 * * *"`},
	} {
		w := request(t, h, http.MethodPut, tt.path, tt.body)
		require.Equal(t, http.StatusCreated, w.Code, "%s %s: %s", tt.path, tt.body, w.Body.String())
	}

	// Saved to disk.
	require.NoError(t, conf.Load())
	assert.Equal(t, 0, conf.HighlightMillis())
	assert.False(t, conf.ShowFacts())
	assert.Equal(t, 1, conf.ScientificUnlockBadges())
	assert.Equal(t, "0 4 * * *", conf.ResetCron())

	sch := decode[scheduleResponse](t, request(t, h, http.MethodGet, "/schedule", ""))
	assert.Equal(t, "0 4 * * *", sch.Cron)
	assert.NotEmpty(t, sch.NextRun)

	// Applied to the running session without a reset.
	require.Equal(t, http.StatusCreated, request(t, h, http.MethodPost, "/keys", `"1÷0="`).Code)
	st := decode[badges.Status](t, request(t, h, http.MethodGet, "/badges", ""))
	assert.Equal(t, 1, st.Required)
	assert.True(t, st.ScientificUnlocked)
	assert.Empty(t, decode[factResponse](t, request(t, h, http.MethodGet, "/fact", "")).Fact)

	require.Equal(t, http.StatusCreated, request(t, h, http.MethodPut, "/reset-cron", `""`).Code)
	sch = decode[scheduleResponse](t, request(t, h, http.MethodGet, "/schedule", ""))
	assert.Empty(t, sch.Cron)
}

func TestEventStream(t *testing.T) {
	srv := httptest.NewServer(newTestRouter(t, nil))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/events")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	post, err := http.Post(srv.URL+"/keys", "application/json", strings.NewReader(`"3+4="`))
	require.NoError(t, err)
	post.Body.Close()

	got := make(chan events.CalculationEvent, 1)
	go func() {
		sc := bufio.NewScanner(resp.Body)
		name := ""
		for sc.Scan() {
			line := sc.Text()
			switch {
			case strings.HasPrefix(line, "event:"):
				name = strings.TrimPrefix(line, "event:")
			case strings.HasPrefix(line, "data:") && name == events.CalculationComplete:
				var ce events.CalculationEvent
				if json.Unmarshal([]byte(strings.TrimPrefix(line, "data:")), &ce) == nil {
					got <- ce
					return
				}
			}
		}
	}()

	select {
	case ce := <-got:
		assert.Equal(t, "7", ce.Display)
		assert.Equal(t, "add", ce.Operator)
		assert.Equal(t, "binary", ce.Kind)
	case <-time.After(2 * time.Second):
		t.Fatal("no calculation event received")
	}
}
