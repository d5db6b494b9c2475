package web

import (
	"time"

	"github.com/gin-gonic/gin"
)

const ctxDataKey = "app-context"

// Data is the per-request state set up by App.
type Data struct {
	RequestID  string
	StatusCode int
	Now        time.Time
}

func ContextWithData(ctx *gin.Context, data *Data) {
	ctx.Set(ctxDataKey, data)
}

func DataFromContext(ctx *gin.Context) (*Data, bool) {
	v, ok := ctx.Value(ctxDataKey).(*Data)
	return v, ok
}
