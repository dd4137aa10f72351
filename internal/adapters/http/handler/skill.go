package handler

import (
	"github.com/valyala/fasthttp"

	"github.com/ogurasousui/codex-skill-tracker/internal/core/employee"
)

func (h *Handler) listSkills(ctx *fasthttp.RequestCtx) {
	employeeID, ok := pathID(ctx, "id")
	if !ok {
		writeError(ctx, fasthttp.StatusBadRequest, msgInvalidID)
		return
	}

	skills, err := h.svc.ListSkills(ctx, employee.ListSkillsInput{EmployeeID: employeeID})
	if err != nil {
		h.fail(ctx, err, msgEmployeeNotFound)
		return
	}

	writeList(ctx, len(skills), toSkillsJSON(skills))
}

func (h *Handler) addSkill(ctx *fasthttp.RequestCtx) {
	employeeID, ok := pathID(ctx, "id")
	if !ok {
		writeError(ctx, fasthttp.StatusBadRequest, msgInvalidID)
		return
	}

	var req skillJSON
	if err := decodeJSON(ctx, &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, msgMalformedBody)
		return
	}

	skill := req.toDomain()
	added, err := h.svc.AddSkill(ctx, employee.AddSkillInput{EmployeeID: employeeID, Skill: &skill})
	if err != nil {
		h.fail(ctx, err, msgEmployeeNotFound)
		return
	}

	writeJSON(ctx, fasthttp.StatusCreated, toSkillJSON(*added))
}

func (h *Handler) getSkill(ctx *fasthttp.RequestCtx) {
	employeeID, skillID, ok := skillPathIDs(ctx)
	if !ok {
		writeError(ctx, fasthttp.StatusBadRequest, msgInvalidID)
		return
	}

	found, err := h.svc.GetSkill(ctx, employee.GetSkillInput{EmployeeID: employeeID, SkillID: skillID})
	if err != nil {
		h.fail(ctx, err, msgSkillOrEmployeeNotFound)
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, toSkillJSON(*found))
}

func (h *Handler) updateSkill(ctx *fasthttp.RequestCtx) {
	employeeID, skillID, ok := skillPathIDs(ctx)
	if !ok {
		writeError(ctx, fasthttp.StatusBadRequest, msgInvalidID)
		return
	}

	var req skillJSON
	if err := decodeJSON(ctx, &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, msgMalformedBody)
		return
	}

	skill := req.toDomain()
	updated, err := h.svc.UpdateSkill(ctx, employee.UpdateSkillInput{EmployeeID: employeeID, SkillID: skillID, Skill: &skill})
	if err != nil {
		h.fail(ctx, err, msgSkillOrEmployeeNotFound)
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, toSkillJSON(*updated))
}

func (h *Handler) deleteSkill(ctx *fasthttp.RequestCtx) {
	employeeID, skillID, ok := skillPathIDs(ctx)
	if !ok {
		writeError(ctx, fasthttp.StatusBadRequest, msgInvalidID)
		return
	}

	if err := h.svc.DeleteSkill(ctx, employee.DeleteSkillInput{EmployeeID: employeeID, SkillID: skillID}); err != nil {
		h.fail(ctx, err, msgSkillOrEmployeeNotFound)
		return
	}

	writeNoContent(ctx)
}

func skillPathIDs(ctx *fasthttp.RequestCtx) (string, string, bool) {
	employeeID, okEmployee := pathID(ctx, "id")
	skillID, okSkill := pathID(ctx, "skillId")
	return employeeID, skillID, okEmployee && okSkill
}
