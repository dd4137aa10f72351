package handler

import (
	"encoding/json"
	"strconv"

	"github.com/valyala/fasthttp"
)

const totalCountHeader = "X-Total-Count"

func writeJSON(ctx *fasthttp.RequestCtx, statusCode int, body any) {
	ctx.Response.Header.Set("Content-Type", "application/json; charset=utf-8")
	ctx.SetStatusCode(statusCode)

	_ = json.NewEncoder(ctx).Encode(body)
}

// writeList は件数を X-Total-Count ヘッダーに載せて一覧を返します。
func writeList(ctx *fasthttp.RequestCtx, count int, body any) {
	ctx.Response.Header.Set(totalCountHeader, strconv.Itoa(count))
	writeJSON(ctx, fasthttp.StatusOK, body)
}

// writeError はエラーメッセージを JSON 文字列としてそのまま返します。
func writeError(ctx *fasthttp.RequestCtx, httpStatus int, msg string) {
	writeJSON(ctx, httpStatus, msg)
}

func writeNoContent(ctx *fasthttp.RequestCtx) {
	ctx.SetStatusCode(fasthttp.StatusNoContent)
}

func decodeJSON(ctx *fasthttp.RequestCtx, dst any) error {
	return json.Unmarshal(ctx.PostBody(), dst)
}
