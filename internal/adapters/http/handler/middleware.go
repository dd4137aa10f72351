package handler

import (
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/valyala/fasthttp"
)

const (
	requestIDKey    = "request-id"
	requestIDHeader = "X-Request-ID"
)

// Wrap はリカバリー・リクエストログ・CORS の順にミドルウェアを適用します。
func Wrap(next fasthttp.RequestHandler, allowedOrigin string) fasthttp.RequestHandler {
	return RecoveryMiddleware(LoggingMiddleware(CORS(allowedOrigin)(next)))
}

// RecoveryMiddleware はハンドラー内の panic を 500 に変換します。
func RecoveryMiddleware(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		defer func() {
			if rvr := recover(); rvr != nil {
				log.Error().
					Interface("panic", rvr).
					Bytes("method", ctx.Method()).
					Str("url", ctx.URI().String()).
					Str("remote_addr", ctx.RemoteAddr().String()).
					Str("stack_trace", string(debug.Stack())).
					Msg("recovered from panic")

				ctx.ResetBody()
				writeError(ctx, fasthttp.StatusInternalServerError, msgUnknownError)
			}
		}()

		next(ctx)
	}
}

// LoggingMiddleware はリクエストごとに request id を払い出し、完了時にログを出力します。
func LoggingMiddleware(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		requestID := string(ctx.Request.Header.Peek(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx.SetUserValue(requestIDKey, requestID)
		ctx.Response.Header.Set(requestIDHeader, requestID)

		begin := time.Now()
		next(ctx)

		log.Info().
			Str("request_id", requestID).
			Bytes("method", ctx.Method()).
			Str("url", ctx.URI().String()).
			Int("status", ctx.Response.StatusCode()).
			Dur("latency", time.Since(begin)).
			Msg("completed request")
	}
}

// CORS は許可オリジンのヘッダーを付与し、プリフライトには 204 を返します。
func CORS(allowedOrigin string) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			ctx.Response.Header.Set("Access-Control-Allow-Origin", allowedOrigin)
			ctx.Response.Header.Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
			ctx.Response.Header.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			ctx.Response.Header.Set("Access-Control-Expose-Headers", totalCountHeader)

			if ctx.IsOptions() {
				ctx.SetStatusCode(fasthttp.StatusNoContent)
				return
			}

			next(ctx)
		}
	}
}
