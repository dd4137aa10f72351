package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"
)

func TestCORS_Preflight(t *testing.T) {
	t.Parallel()

	called := false
	h := CORS("https://front.example.com")(func(ctx *fasthttp.RequestCtx) { called = true })

	ctx := serve(t, h, fasthttp.MethodOptions, "/employees", "")

	assert.Equal(t, fasthttp.StatusNoContent, ctx.Response.StatusCode())
	assert.Equal(t, "https://front.example.com", string(ctx.Response.Header.Peek("Access-Control-Allow-Origin")))
	assert.Contains(t, string(ctx.Response.Header.Peek("Access-Control-Expose-Headers")), "X-Total-Count")
	assert.False(t, called)
}

func TestCORS_PassesThrough(t *testing.T) {
	t.Parallel()

	h := CORS("http://localhost:4200")(func(ctx *fasthttp.RequestCtx) { ctx.SetStatusCode(fasthttp.StatusOK) })

	ctx := serve(t, h, fasthttp.MethodGet, "/employees", "")

	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Equal(t, "http://localhost:4200", string(ctx.Response.Header.Peek("Access-Control-Allow-Origin")))
}

func TestRecoveryMiddleware(t *testing.T) {
	t.Parallel()

	h := RecoveryMiddleware(func(ctx *fasthttp.RequestCtx) { panic("boom") })

	ctx := serve(t, h, fasthttp.MethodGet, "/employees", "")

	assert.Equal(t, fasthttp.StatusInternalServerError, ctx.Response.StatusCode())
	assert.Equal(t, msgUnknownError, decodeMessage(t, ctx))
}

func TestLoggingMiddleware_RequestID(t *testing.T) {
	t.Parallel()

	var seen string
	h := LoggingMiddleware(func(ctx *fasthttp.RequestCtx) {
		seen, _ = ctx.UserValue(requestIDKey).(string)
	})

	ctx := serve(t, h, fasthttp.MethodGet, "/employees", "")

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, string(ctx.Response.Header.Peek(requestIDHeader)))
}

func TestWrap_ServesRouter(t *testing.T) {
	t.Parallel()

	h := Wrap(routerFor(&stubUseCase{}), "http://localhost:4200")

	ctx := serve(t, h, fasthttp.MethodDelete, "/employees", "")

	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
	assert.NotEmpty(t, ctx.Response.Header.Peek(requestIDHeader))
}
