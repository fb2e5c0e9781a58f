package web

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/curtisnewbie/misotime/async"
	"github.com/curtisnewbie/misotime/encoding/json"
	"github.com/curtisnewbie/misotime/errs"
	"github.com/curtisnewbie/misotime/timing"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	applicationJson = "application/json"
)

var (
	lazyRouteRegistars []*LazyRouteDecl
)

// Typed route handler.
//
// Req type should be a struct, where all fields are automatically mapped from the request
// using 'json' tag or 'form' tag (for form-data, query param).
//
// Res value and error (if not nil) are wrapped inside Resp and serialized to json.
type MappedHandler[Req any, Res any] func(inb *Inbound, req Req) (Res, error)

// Typed route handler that completes asynchronously.
type AsyncMappedHandler[Req any, Res any] func(inb *Inbound, req Req) async.Future[Res]

// Wrap handler with timing log, the label rules read from Req and Res.
//
// Name and category are derived from the handler, e.g., 'GetUser' and 'UserHandler' for method value userHandler.GetUser.
func Timed[Req any, Res any](handler MappedHandler[Req, Res], conf ...timing.Config) MappedHandler[Req, Res] {
	t := timing.NewTimer(handler, conf...)
	return func(inb *Inbound, req Req) (Res, error) {
		return timing.Invoke(t, req, func() (Res, error) { return handler(inb, req) })
	}
}

// Wrap async handler with timing log, see Timed.
func TimedAsync[Req any, Res any](handler AsyncMappedHandler[Req, Res], conf ...timing.Config) AsyncMappedHandler[Req, Res] {
	t := timing.NewTimer(handler, conf...)
	return func(inb *Inbound, req Req) async.Future[Res] {
		return timing.InvokeAsync(t, req, func() async.Future[Res] { return handler(inb, req) })
	}
}

// Register GET request.
//
// Req fields are mapped from query params.
func IGet[Req any, Res any](url string, handler MappedHandler[Req, Res]) *LazyRouteDecl {
	return newLazyRouteDecl(url, http.MethodGet, handler, mappedHandlerBuilder(handler))
}

// Register POST request.
func IPost[Req any, Res any](url string, handler MappedHandler[Req, Res]) *LazyRouteDecl {
	return newLazyRouteDecl(url, http.MethodPost, handler, mappedHandlerBuilder(handler))
}

// Register PUT request.
func IPut[Req any, Res any](url string, handler MappedHandler[Req, Res]) *LazyRouteDecl {
	return newLazyRouteDecl(url, http.MethodPut, handler, mappedHandlerBuilder(handler))
}

// Register DELETE request.
func IDelete[Req any, Res any](url string, handler MappedHandler[Req, Res]) *LazyRouteDecl {
	return newLazyRouteDecl(url, http.MethodDelete, handler, mappedHandlerBuilder(handler))
}

// Register GET request handled asynchronously, the response is written once the Future completes.
func IGetAsync[Req any, Res any](url string, handler AsyncMappedHandler[Req, Res]) *LazyRouteDecl {
	return newLazyRouteDecl(url, http.MethodGet, handler, asyncMappedHandlerBuilder(handler))
}

// Register POST request handled asynchronously, the response is written once the Future completes.
func IPostAsync[Req any, Res any](url string, handler AsyncMappedHandler[Req, Res]) *LazyRouteDecl {
	return newLazyRouteDecl(url, http.MethodPost, handler, asyncMappedHandlerBuilder(handler))
}

func mappedHandlerBuilder[Req any, Res any](handler MappedHandler[Req, Res]) func(d *LazyRouteDecl) gin.HandlerFunc {
	return func(d *LazyRouteDecl) gin.HandlerFunc {
		h := handler
		if d.timed {
			h = Timed(handler, d.timingConf...)
		}
		return newMappedHandler(h)
	}
}

func asyncMappedHandlerBuilder[Req any, Res any](handler AsyncMappedHandler[Req, Res]) func(d *LazyRouteDecl) gin.HandlerFunc {
	return func(d *LazyRouteDecl) gin.HandlerFunc {
		h := handler
		if d.timed {
			h = TimedAsync(handler, d.timingConf...)
		}
		return newAsyncMappedHandler(h)
	}
}

func newMappedHandler[Req any, Res any](handler MappedHandler[Req, Res]) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req Req
		if err := Bind(c, &req); err != nil {
			endpointResultHandler(c, nil, err)
			return
		}
		res, err := handler(newInbound(c), req)
		endpointResultHandler(c, res, err)
	}
}

func newAsyncMappedHandler[Req any, Res any](handler AsyncMappedHandler[Req, Res]) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req Req
		if err := Bind(c, &req); err != nil {
			endpointResultHandler(c, nil, err)
			return
		}
		fut := handler(newInbound(c), req)
		if fut == nil {
			endpointResultHandler(c, nil, nil)
			return
		}
		res, err := fut.GetCtx(c.Request.Context())
		endpointResultHandler(c, res, err)
	}
}

// Lazy route declaration, the gin handler is built when RegisterRoutes is called.
type LazyRouteDecl struct {
	Url    string
	Method string

	name       string
	category   string
	timed      bool
	timingConf []timing.Config
	build      func(d *LazyRouteDecl) gin.HandlerFunc
}

// Name of the handler func, e.g., 'GetUser'.
func (g *LazyRouteDecl) Name() string {
	return g.name
}

// Category of the handler func, e.g., 'UserHandler'.
func (g *LazyRouteDecl) Category() string {
	return g.category
}

// Wrap the handler with timing log, see Timed.
func (g *LazyRouteDecl) Measure(conf ...timing.Config) *LazyRouteDecl {
	g.timed = true
	g.timingConf = conf
	return g
}

func (g *LazyRouteDecl) Prepend(baseUrl string) {
	g.Url = baseUrl + g.Url
}

func newLazyRouteDecl(url string, method string, handler any, build func(d *LazyRouteDecl) gin.HandlerFunc) *LazyRouteDecl {
	category, name := timing.FuncNames(handler)
	d := &LazyRouteDecl{
		Url:      url,
		Method:   method,
		name:     name,
		category: category,
		build:    build,
	}
	lazyRouteRegistars = append(lazyRouteRegistars, d)
	return d
}

// Group routes together to share the same base url.
func GroupRoute(baseUrl string, grouped ...*LazyRouteDecl) {
	for _, g := range grouped {
		g.Prepend(baseUrl)
	}
}

// Get the declared routes that are not registered yet.
func PendingRoutes() []*LazyRouteDecl {
	return append([]*LazyRouteDecl(nil), lazyRouteRegistars...)
}

// Register declared routes on engine.
func RegisterRoutes(engine *gin.Engine) {
	for _, d := range lazyRouteRegistars {
		engine.Handle(d.Method, d.Url, d.build(d))
		logrus.Debugf("%-6s %s", d.Method, d.Url)
	}
	lazyRouteRegistars = nil
}

// Bind request to ptr.
//
// json body is decoded using jsoniter, query params and forms are bound using gin.
func Bind(c *gin.Context, ptr any) error {
	if c.Request.Method != http.MethodGet && c.ContentType() == gin.MIMEJSON {
		if err := json.DecodeJson(c.Request.Body, ptr); err != nil {
			return errs.ErrIllegalArgument.Wrap(err)
		}
		return nil
	}
	if err := c.ShouldBind(ptr); err != nil {
		return errs.ErrIllegalArgument.Wrap(err)
	}
	return nil
}

// Write result as Resp.
//
// The status set by the handler (e.g., via Inbound.Status) is kept. Errors without code are written with 500,
// coded errors are written with 200 unless the handler has set an error status.
func endpointResultHandler(c *gin.Context, payload any, err error) {
	status := c.Writer.Status()
	if err != nil {
		var me *errs.Err
		if !errors.As(err, &me) || !me.HasCode() {
			status = http.StatusInternalServerError
		} else if status < http.StatusBadRequest {
			status = http.StatusOK
		}
		DispatchJsonCode(c, status, WrapResp(nil, err))
		return
	}
	DispatchJsonCode(c, status, OkRespWData(payload))
}

// Dispatch a json response
func DispatchJsonCode(c *gin.Context, code int, body any) {
	c.Status(code)
	c.Header("Content-Type", applicationJson)
	if err := json.EncodeJson(c.Writer, body); err != nil {
		logrus.Errorf("Failed to write json response, %v", err)
	}
}

// Recover from panic and respond with error Resp.
func DefaultRecovery(c *gin.Context, e any) {
	logrus.Errorf("%v '%v' Recovered from panic, %v", c.Request.Method, c.Request.RequestURI, e)
	if c.Writer.Written() {
		return
	}
	c.Status(http.StatusInternalServerError)
	if err, ok := e.(error); ok {
		endpointResultHandler(c, nil, err)
		return
	}
	endpointResultHandler(c, nil, errs.ErrUnknownError.WithInternalMsg("%v", e))
}

// Inbound request of a typed handler.
type Inbound struct {
	c       *gin.Context
	queries url.Values
}

func newInbound(c *gin.Context) *Inbound {
	return &Inbound{c: c}
}

// Get the underlying *gin.Context.
func (i *Inbound) Engine() any {
	return i.c
}

func (i *Inbound) Unwrap() (http.ResponseWriter, *http.Request) {
	return i.c.Writer, i.c.Request
}

func (i *Inbound) Context() context.Context {
	return i.c.Request.Context()
}

func (i *Inbound) Status(status int) {
	i.c.Status(status)
}

func (i *Inbound) Query(k string) string {
	if i.queries == nil {
		i.queries = i.c.Request.URL.Query()
	}
	return i.queries.Get(k)
}

func (i *Inbound) Header(k string) string {
	return strings.TrimSpace(i.c.GetHeader(k))
}

func (i *Inbound) SetHeader(k string, v string) {
	i.c.Header(k, v)
}
