package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

func setStatus(ctx *gin.Context, statusCode int) {
	if v, ok := DataFromContext(ctx); ok {
		v.StatusCode = statusCode
	}
}

// Respond sends data as JSON with statusCode.
func Respond(ctx *gin.Context, data interface{}, statusCode int) error {
	setStatus(ctx, statusCode)

	if data == nil || statusCode == http.StatusNoContent {
		ctx.Status(statusCode)
		return nil
	}

	ctx.JSON(statusCode, data)
	return nil
}

// RespondHTML renders the named template.
func RespondHTML(ctx *gin.Context, name string, data interface{}, statusCode int) error {
	setStatus(ctx, statusCode)
	ctx.HTML(statusCode, name, data)
	return nil
}

// RespondData sends raw bytes, such as a rendered chart.
func RespondData(ctx *gin.Context, contentType string, body []byte, statusCode int) error {
	setStatus(ctx, statusCode)
	ctx.Data(statusCode, contentType, body)
	return nil
}

// ErrorMessage is what the client is told about err.
func ErrorMessage(err error) string {
	var webErr *Error
	if errors.As(err, &webErr) {
		return webErr.Err.Error()
	}
	return http.StatusText(http.StatusInternalServerError)
}

// RespondError sends err as a JSON ErrorResponse.
func RespondError(ctx *gin.Context, err error) error {
	resp := ErrorResponse{Error: ErrorMessage(err)}
	if v, ok := DataFromContext(ctx); ok {
		resp.RequestID = v.RequestID
	}
	return Respond(ctx, resp, StatusOf(err))
}

// ErrorPage is the data handed to an HTML error template.
type ErrorPage struct {
	Status    int
	Title     string
	Message   string
	RequestID string
}

// RespondErrorPage renders err with the named HTML template.
func RespondErrorPage(ctx *gin.Context, name string, err error) error {
	status := StatusOf(err)
	page := ErrorPage{
		Status:  status,
		Title:   http.StatusText(status),
		Message: ErrorMessage(err),
	}
	if v, ok := DataFromContext(ctx); ok {
		page.RequestID = v.RequestID
	}
	return RespondHTML(ctx, name, page, status)
}
