package handler

import (
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/valyala/fasthttp"

	"github.com/ogurasousui/codex-skill-tracker/internal/core/employee"
)

const (
	msgInvalidID               = "Invalid ID format"
	msgInvalidEmployee         = "Invalid Perficient employee data sent to server"
	msgInvalidSkill            = "Invalid technical skill data sent to server"
	msgEmployeeNotFound        = "Perficient employee not found"
	msgDeleteEmployeeNotFound  = "Employee ID to delete not found"
	msgSkillOrEmployeeNotFound = "Technical skill or Perficient employee not found"
	msgBadlyFormattedDelete    = "Badly formatted delete request"
	msgMalformedBody           = "Malformed request body"
	msgUnknownError            = "Unknown error"
	msgNotFound                = "Not found"
)

// toHTTPError はドメインエラーをステータスコードとメッセージに変換します。
// notFound は ErrEmployeeNotFound に対するエンドポイントごとの文言です。
func toHTTPError(err error, notFound string) (int, string) {
	switch {
	case errors.Is(err, employee.ErrInvalidID):
		return fasthttp.StatusBadRequest, msgInvalidID
	case errors.Is(err, employee.ErrSkillNotFound):
		return fasthttp.StatusNotFound, msgSkillOrEmployeeNotFound
	case errors.Is(err, employee.ErrEmployeeNotFound):
		return fasthttp.StatusNotFound, notFound
	case errors.Is(err, employee.ErrInvalidSkill):
		return fasthttp.StatusUnprocessableEntity, msgInvalidSkill
	case errors.Is(err, employee.ErrInvalidEmployee),
		errors.Is(err, employee.ErrEmployeeAlreadyExists),
		errors.Is(err, employee.ErrAssignedEmployeeNotFound):
		return fasthttp.StatusUnprocessableEntity, msgInvalidEmployee
	default:
		return fasthttp.StatusInternalServerError, msgUnknownError
	}
}

func (h *Handler) fail(ctx *fasthttp.RequestCtx, err error, notFound string) {
	status, msg := toHTTPError(err, notFound)
	if status == fasthttp.StatusInternalServerError {
		log.Error().
			Err(err).
			Bytes("method", ctx.Method()).
			Bytes("path", ctx.Path()).
			Msg("request failed")
	} else {
		log.Debug().
			Err(err).
			Int("status", status).
			Bytes("path", ctx.Path()).
			Msg("request rejected")
	}
	writeError(ctx, status, msg)
}
