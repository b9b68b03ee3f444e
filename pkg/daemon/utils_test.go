package daemon

import (
	"net/http"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGinLogger(t *testing.T) {
	newTestRouter(t, nil)

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	router := setupRoutes()
	router.Use(ginLogger(logger))
	// Middleware only applies to routes registered after it.
	router.POST("/logged/keys", postKeys)

	w := request(t, router, http.MethodPost, "/logged/keys", `"6*7="`)
	require.Equal(t, http.StatusCreated, w.Code)
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.DebugLevel, entry.Level)
	assert.Equal(t, "42", entry.Data["display"])
	assert.Equal(t, http.StatusCreated, entry.Data["status"])

	w = request(t, router, http.MethodPost, "/logged/keys", `"6 frobnicate"`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	entry = hook.LastEntry()
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Contains(t, entry.Data["error"], "unknown key")
	assert.NotContains(t, entry.Data, "display")
}
