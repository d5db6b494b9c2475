package mid

import (
	"errors"
	"html/template"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poweringforward/poweringforward/internal/web"
)

func newTestApp() *web.App {
	gin.SetMode(gin.TestMode)

	app := web.NewApp(nil, "", Logger(), Errors(""), Panics())
	app.SetHTMLTemplate(template.Must(template.New("error.html").Parse(`<h1>{{.Status}} {{.Title}}</h1><p>{{.Message}}</p>`)))

	app.Get("/ok", func(ctx *gin.Context) error {
		return web.Respond(ctx, gin.H{"status": "ok"}, http.StatusOK)
	})
	app.Get("/missing", func(ctx *gin.Context) error {
		return web.NewRequestError(errors.New("no such chart"), http.StatusNotFound)
	})
	app.Get("/internal", func(ctx *gin.Context) error {
		return errors.New("secret detail")
	})
	app.Get("/panic", func(ctx *gin.Context) error {
		panic("boom")
	})
	app.Get("/page", func(ctx *gin.Context) error {
		return web.NewRequestError(errors.New("dataset file not found"), http.StatusInternalServerError)
	}, Errors("error.html"))
	app.Get("/page-panic", func(ctx *gin.Context) error {
		panic("boom")
	}, Errors("error.html"), Panics())
	return app
}

func do(t *testing.T, app http.Handler, path, accept string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) web.ErrorResponse {
	t.Helper()
	var resp web.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestErrors(t *testing.T) {
	app := newTestApp()

	tests := []struct {
		path    string
		status  int
		message string
	}{
		{path: "/missing", status: http.StatusNotFound, message: "no such chart"},
		{path: "/internal", status: http.StatusInternalServerError, message: "Internal Server Error"},
		{path: "/panic", status: http.StatusInternalServerError, message: "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := do(t, app, tt.path, "application/json")
			assert.Equal(t, tt.status, rec.Code)

			resp := decodeError(t, rec)
			assert.Equal(t, tt.message, resp.Error)
			assert.Equal(t, rec.Header().Get("X-Request-ID"), resp.RequestID)
		})
	}
}

func TestOK(t *testing.T) {
	rec := do(t, newTestApp(), "/ok", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestErrorPage(t *testing.T) {
	app := newTestApp()

	rec := do(t, app, "/page", "text/html")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>500 Internal Server Error</h1>")
	assert.Contains(t, rec.Body.String(), "dataset file not found")

	rec = do(t, app, "/page", "application/json")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "dataset file not found", decodeError(t, rec).Error)
}

func TestErrorPageAfterPanic(t *testing.T) {
	rec := do(t, newTestApp(), "/page-panic", "text/html")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>500 Internal Server Error</h1>")
	assert.NotContains(t, rec.Body.String(), "boom")
}
