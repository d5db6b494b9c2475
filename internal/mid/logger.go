package mid

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/poweringforward/poweringforward/internal/web"
)

const healthCheckExcludePath = "/healthz"

// Logger writes one line when a request starts and one when it completes:
// RequestID : completed : GET /foo -> IP ADDR (200) (latency)
func Logger() web.Middleware {
	f := func(before web.Handler) web.Handler {
		h := func(ctx *gin.Context) error {
			if ctx.Request.URL.Path == healthCheckExcludePath {
				return before(ctx)
			}

			v, ok := web.DataFromContext(ctx)
			if !ok {
				return web.NewShutdownError("web value missing from context")
			}

			log.Printf("%s: started : %s %s -> %s",
				v.RequestID,
				ctx.Request.Method, ctx.Request.URL.Path, ctx.Request.RemoteAddr,
			)

			err := before(ctx)

			log.Printf("%s: completed : %s %s -> %s (%d) (%s)",
				v.RequestID,
				ctx.Request.Method, ctx.Request.URL.Path, ctx.Request.RemoteAddr,
				v.StatusCode, time.Since(v.Now),
			)

			return err
		}

		return h
	}

	return f
}
