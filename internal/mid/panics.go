package mid

import (
	"fmt"
	"log"
	"runtime/debug"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"

	"github.com/poweringforward/poweringforward/internal/web"
)

// Panics recovers from panics and converts the panic to an error.
func Panics() web.Middleware {
	f := func(after web.Handler) web.Handler {
		h := func(ctx *gin.Context) (err error) {
			v, ok := web.DataFromContext(ctx)
			if !ok {
				return web.NewShutdownError("web value missing from context")
			}

			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("panic: %v", r)
					log.Printf("%s: %s\n%s", v.RequestID, err, debug.Stack())

					if hub := sentrygin.GetHubFromContext(ctx); hub != nil {
						hub.Recover(r)
						hub.Flush(5 * time.Second)
					}
				}
			}()

			return after(ctx)
		}

		return h
	}

	return f
}
