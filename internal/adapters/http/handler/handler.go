package handler

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/fasthttp/router"
	"github.com/rs/zerolog/log"
	"github.com/valyala/fasthttp"

	"github.com/ogurasousui/codex-skill-tracker/internal/core/employee"
	"github.com/ogurasousui/codex-skill-tracker/internal/core/identifier"
)

const employeesPath = "/employees"

// HealthChecker は依存先の疎通確認を行います。*pgxpool.Pool が満たします。
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Handler は社員 API の HTTP ハンドラーです。
type Handler struct {
	svc    employee.UseCase
	health HealthChecker
}

// NewHandler は Handler を生成します。health が nil の場合 /health は常に成功します。
func NewHandler(svc employee.UseCase, health HealthChecker) *Handler {
	return &Handler{svc: svc, health: health}
}

// NewRouter はルーティングを設定した router.Router を返します。
func NewRouter(h *Handler) *router.Router {
	r := router.New()
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	h.Register(r)
	return r
}

// Register は社員 API のルートを登録します。
func (h *Handler) Register(r *router.Router) {
	r.GET(employeesPath, h.listEmployees)
	r.POST(employeesPath, h.createEmployee)
	r.DELETE(employeesPath, h.deleteEmployees)
	r.GET(employeesPath+"/{id}", h.getEmployee)
	r.PUT(employeesPath+"/{id}", h.updateEmployee)
	r.DELETE(employeesPath+"/{id}", h.deleteEmployee)

	r.GET(employeesPath+"/{id}/skills", h.listSkills)
	r.POST(employeesPath+"/{id}/skills", h.addSkill)
	r.GET(employeesPath+"/{id}/skills/{skillId}", h.getSkill)
	r.PUT(employeesPath+"/{id}/skills/{skillId}", h.updateSkill)
	r.DELETE(employeesPath+"/{id}/skills/{skillId}", h.deleteSkill)

	r.GET("/health", h.healthHandler)

	r.NotFound = h.unmatched
	r.MethodNotAllowed = h.unmatched
}

// unmatched は /employees 配下の不正な URL を 400 として扱います。
func (h *Handler) unmatched(ctx *fasthttp.RequestCtx) {
	path := string(ctx.Path())
	if path != employeesPath && !strings.HasPrefix(path, employeesPath+"/") {
		writeError(ctx, fasthttp.StatusNotFound, msgNotFound)
		return
	}

	log.Debug().
		Bytes("method", ctx.Method()).
		Str("path", path).
		Msg("badly formatted url")
	writeError(ctx, fasthttp.StatusBadRequest, fmt.Sprintf("Badly formatted %s URL", ctx.Method()))
}

func (h *Handler) healthHandler(ctx *fasthttp.RequestCtx) {
	if h.health != nil {
		if err := h.health.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("health check failed")
			writeJSON(ctx, fasthttp.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "ok"})
}

// pathID は URL パラメータをデコードして取り出し、GUID/UUID 形式であるかを返します。
// router はエンコードされたままのパスで照合するため、%7B...%7D 形式の GUID もここで戻します。
func pathID(ctx *fasthttp.RequestCtx, name string) (string, bool) {
	raw, _ := ctx.UserValue(name).(string)
	id, err := url.PathUnescape(raw)
	if err != nil {
		return raw, false
	}
	return id, identifier.IsValid(id)
}
