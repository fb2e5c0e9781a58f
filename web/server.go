package web

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/curtisnewbie/misotime/timing"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ServerConf struct {
	Addr             string        // e.g., '127.0.0.1:8080'
	PerfEnabled      bool          // register PerfMiddleware
	PerfSink         timing.Sink   // sink used by PerfMiddleware
	GracefulShutdown time.Duration // time wait before the server is forced to shutdown
}

// Create gin engine with recovery (and optionally perf) middleware, the declared routes are registered.
func NewEngine(conf ServerConf) *gin.Engine {
	engine := gin.New()
	if conf.PerfEnabled { // outside recovery, so the recovered status is logged
		engine.Use(PerfMiddleware(conf.PerfSink))
	}
	engine.Use(gin.CustomRecovery(DefaultRecovery))
	engine.NoRoute(func(c *gin.Context) {
		logrus.Warnf("NoRoute for %s '%s'", c.Request.Method, c.Request.RequestURI)
		c.Abort()
		DispatchJsonCode(c, http.StatusNotFound, ErrorRespWCode(ErrCodeNotFound, "Not found"))
	})
	RegisterRoutes(engine)
	return engine
}

// Serve http requests until ctx is cancelled, the server is then gracefully shutdown.
func Serve(ctx context.Context, conf ServerConf) error {
	ln, err := net.Listen("tcp", conf.Addr)
	if err != nil {
		return err
	}
	logrus.Infof("Serving HTTP on %s", ln.Addr())

	server := &http.Server{Handler: NewEngine(conf)}
	served := make(chan error, 1)
	go func() {
		served <- server.Serve(ln)
	}()

	select {
	case err := <-served:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logrus.Info("Shutting down http server")
	timeout := conf.GracefulShutdown
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	c, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := server.Shutdown(c); err != nil {
		return err
	}
	logrus.Info("Http server exited")
	return nil
}
