// Package web is a thin layer over gin where handlers return errors and
// middleware decides how those errors reach the client.
package web

import (
	"html/template"
	"log"
	"net/http"
	"os"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// A Handler handles a request and returns an error for middleware to render.
type Handler func(ctx *gin.Context) error

// Middleware wraps a Handler with extra behaviour.
type Middleware func(Handler) Handler

// wrapMiddleware applies mw so that the first entry runs first.
func wrapMiddleware(mw []Middleware, handler Handler) Handler {
	for i := len(mw) - 1; i >= 0; i-- {
		if h := mw[i]; h != nil {
			handler = h(handler)
		}
	}
	return handler
}

// App routes requests to Handlers and gives every request its own Data.
type App struct {
	engine      *gin.Engine
	shutdown    chan os.Signal
	middlewares []Middleware
}

// NewApp creates an App. Errors that escape every middleware are sent on
// shutdown. When sentryDSN is set, panics and server errors are reported
// to Sentry.
func NewApp(shutdown chan os.Signal, sentryDSN string, mw ...Middleware) *App {
	engine := gin.New()

	if sentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              sentryDSN,
			AttachStacktrace: true,
		}); err != nil {
			log.Printf("sentry initialization failed: %v", err)
		} else {
			engine.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
		}
	}

	return &App{
		engine:      engine,
		shutdown:    shutdown,
		middlewares: mw,
	}
}

// SignalShutdown asks the server to stop. It never blocks; a request
// already pending is enough.
func (a *App) SignalShutdown() {
	if a.shutdown == nil {
		return
	}
	select {
	case a.shutdown <- syscall.SIGTERM:
	default:
	}
}

func (a *App) wrap(handler Handler, mw []Middleware) gin.HandlerFunc {
	wrapped := wrapMiddleware(mw, handler)
	wrapped = wrapMiddleware(a.middlewares, wrapped)

	return func(ctx *gin.Context) {
		v := Data{
			RequestID: uuid.NewString(),
			Now:       time.Now(),
		}
		ContextWithData(ctx, &v)
		ctx.Header("X-Request-ID", v.RequestID)

		if err := wrapped(ctx); err != nil {
			log.Printf("%s: *****> critical shutdown error: %s", v.RequestID, err)
			a.SignalShutdown()
		}
	}
}

// Handle mounts handler for verb and path.
func (a *App) Handle(verb, path string, handler Handler, mw ...Middleware) {
	a.engine.Handle(verb, path, a.wrap(handler, mw))
}

// Get executes Handle with http method GET.
func (a *App) Get(path string, handler Handler, mw ...Middleware) {
	a.Handle(http.MethodGet, path, handler, mw...)
}

// NoRoute serves requests that match no route.
func (a *App) NoRoute(handler Handler, mw ...Middleware) {
	a.engine.NoRoute(a.wrap(handler, mw))
}

func (a *App) SetHTMLTemplate(t *template.Template) {
	a.engine.SetHTMLTemplate(t)
}

// ServeHTTP implements the http.Handler interface.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.engine.ServeHTTP(w, r)
}
