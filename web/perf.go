package web

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/curtisnewbie/misotime/timing"
	"github.com/gin-gonic/gin"
)

const (
	perfCategory = "PerfMiddleware"
)

var (
	perfLogExcluded sync.Map
)

// Perf Middleware that logs how much time each request takes, using the same line format as timing, e.g.,
//
//	GET    /user took 3ms
//	POST   /user (error) took 5ms
//
// Requests that end up with 5xx status or panic are marked with '(error)'. If sink is nil, timing.LogrusSink is used.
func PerfMiddleware(sink timing.Sink) gin.HandlerFunc {
	if sink == nil {
		sink = timing.LogrusSink{}
	}
	return func(c *gin.Context) {
		uri := c.Request.URL.Path
		if _, ok := perfLogExcluded.Load(uri); ok {
			c.Next()
			return
		}

		start := time.Now()
		settled := false
		defer func() {
			failed := !settled || c.Writer.Status() >= http.StatusInternalServerError
			name := fmt.Sprintf("%-6v %v", c.Request.Method, c.Request.RequestURI)
			sink.Log(timing.FormatLine("", name, failed, time.Since(start)), perfCategory)
		}()

		c.Next() // continue the handler chain
		settled = true
	}
}

// Ask PerfMiddleware to stop measuring perf of provided path
func PerfLogExclPath(path string) {
	perfLogExcluded.Store(path, struct{}{})
}
