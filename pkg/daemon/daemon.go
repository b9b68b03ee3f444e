package daemon

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/numwiz/numwiz/pkg/config"
	"github.com/numwiz/numwiz/pkg/events"
)

var (
	conf      config.Config
	sess      *session
	sseHub    *events.Hub
	scheduler *Scheduler
)

func setupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(ginLogger(logrus.StandardLogger()))

	router.GET("/display", getDisplay)
	router.GET("/state", getState)
	router.POST("/digit", postDigit)
	router.POST("/decimal", postDecimal)
	router.POST("/clear", postClear)
	router.POST("/toggle-sign", postToggleSign)
	router.POST("/operator", postOperator)
	router.POST("/equals", postEquals)
	router.POST("/unary", postUnary)
	router.POST("/constant", postConstant)
	router.POST("/keys", postKeys)
	router.POST("/reset", postReset)

	router.GET("/badges", getBadges)
	router.GET("/fact", getFact)
	router.DELETE("/fact", deleteFact)
	router.GET("/events", getEvents)

	router.GET("/schedule", getSchedule)
	router.POST("/schedule/skip", postScheduleSkip)
	router.POST("/schedule/postpone", postSchedulePostpone)

	router.GET("/config", getConfig)
	router.PUT("/highlight-millis", setHighlightMillis)
	router.PUT("/show-facts", setShowFacts)
	router.PUT("/scientific-unlock-badges", setScientificUnlockBadges)
	router.PUT("/reset-cron", setResetCron)
	router.GET("/version", getVersion)

	return router
}

// setup initializes the daemon state shared by all handlers.
func setup(c config.Config) {
	conf = c
	sseHub = events.NewHub()
	sess = newSession(conf, sseHub)

	scheduler = NewScheduler(func() error {
		sess.reset("scheduled")
		return nil
	})
	scheduler.Ready = sess.busy
	scheduler.OnUpcoming = func(at time.Time) {
		logrus.WithField("at", at.Format(time.DateTime)).Info("session reset is coming up")
		sseHub.Publish(events.SessionResetSoon, events.SessionResetEvent{Reason: "scheduled", Ts: at.Unix()})
	}
	scheduler.OnError = func(err error) {
		logrus.WithError(err).Warn("scheduled session reset")
	}
	applySchedule()
}

func applySchedule() {
	if err := scheduler.Schedule(conf.ResetCron()); err != nil {
		logrus.WithError(err).Error("failed to schedule session reset, automatic reset disabled")
		_ = scheduler.Schedule("")
	}
}

func Run(configPath string, unixSocketPath string, allowNonRoot bool) error {
	router := setupRoutes()

	c, err := config.NewFile(configPath)
	if err != nil {
		logrus.Fatalf("failed to parse config during startup: %v", err)
	}
	logrus.WithFields(c.LogrusFields()).Infof("config loaded")

	setup(c)
	scheduler.Start()

	// Receive SIGHUP to reload config
	go func() {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGHUP)
		for range sigc {
			err := conf.Load()
			if err != nil {
				logrus.Errorf("failed to reload config: %v", err)
				continue
			}
			applySchedule()
			sess.configure()
			logrus.WithFields(conf.LogrusFields()).Infof("config reloaded")
		}
	}()

	srv := &http.Server{
		Handler: router,
	}

	// A stale socket from a crashed daemon would make Listen fail.
	if err := os.Remove(unixSocketPath); err != nil && !os.IsNotExist(err) {
		logrus.Fatal(err)
	}

	l, err := net.Listen("unix", unixSocketPath)
	if err != nil {
		logrus.Fatal(err)
	}

	if conf.AllowNonRootAccess() || allowNonRoot {
		logrus.Infof("non-root access is allowed, changing permissions of %s to 0777", unixSocketPath)
		err = os.Chmod(unixSocketPath, 0777)
		if err != nil {
			logrus.Fatal(err)
		}
	}

	go func() {
		logrus.Infof("http server listening on %s", l.Addr().String())
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatal(err)
		}
	}()

	// Handle common process-killing signals, so we can gracefully shut down:
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigc
	logrus.Infof("caught signal \"%s\": shutting down.", sig)

	logrus.Info("shutting down http server")
	// Open event streams never finish on their own.
	srv.RegisterOnShutdown(sseHub.Close)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = srv.Shutdown(ctx)
	if err != nil {
		logrus.Errorf("failed to shutdown http server: %v", err)
	}
	cancel()

	logrus.Info("stopping scheduler")
	scheduler.Stop()
	sess.close()

	logrus.Info("exiting")
	return nil
}
