// Package mid holds the middleware shared by every route.
package mid

import (
	"log"
	"net/http"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"

	"github.com/poweringforward/poweringforward/internal/web"
)

// Errors handles errors coming out of the call chain. With an empty page
// every error is answered as JSON; otherwise clients that accept HTML get
// the named error template.
func Errors(page string) web.Middleware {
	f := func(before web.Handler) web.Handler {
		h := func(ctx *gin.Context) error {
			v, ok := web.DataFromContext(ctx)
			if !ok {
				return web.NewShutdownError("web value missing from context")
			}

			err := before(ctx)
			if err == nil {
				return nil
			}

			log.Printf("%s: ERROR: %v", v.RequestID, err)
			if web.StatusOf(err) >= http.StatusInternalServerError {
				captureError(ctx, err)
			}

			if page != "" && ctx.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEHTML {
				if err := web.RespondErrorPage(ctx, page, err); err != nil {
					return err
				}
			} else if err := web.RespondError(ctx, err); err != nil {
				return err
			}

			if web.IsShutdown(err) {
				return err
			}
			return nil
		}

		return h
	}

	return f
}

func captureError(ctx *gin.Context, err error) {
	if hub := sentrygin.GetHubFromContext(ctx); hub != nil {
		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetLevel(sentry.LevelError)
			hub.CaptureException(err)
		})
	}
}
