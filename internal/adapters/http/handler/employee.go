package handler

import (
	"github.com/valyala/fasthttp"

	"github.com/ogurasousui/codex-skill-tracker/internal/core/employee"
)

func (h *Handler) listEmployees(ctx *fasthttp.RequestCtx) {
	employees, err := h.svc.ListEmployees(ctx)
	if err != nil {
		h.fail(ctx, err, msgEmployeeNotFound)
		return
	}

	writeList(ctx, len(employees), toEmployeesJSON(employees))
}

func (h *Handler) createEmployee(ctx *fasthttp.RequestCtx) {
	var req employeeJSON
	if err := decodeJSON(ctx, &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, msgMalformedBody)
		return
	}

	created, err := h.svc.CreateEmployee(ctx, employee.CreateEmployeeInput{Employee: req.toDomain()})
	if err != nil {
		h.fail(ctx, err, msgEmployeeNotFound)
		return
	}

	writeJSON(ctx, fasthttp.StatusCreated, toEmployeeJSON(created))
}

func (h *Handler) getEmployee(ctx *fasthttp.RequestCtx) {
	id, ok := pathID(ctx, "id")
	if !ok {
		writeError(ctx, fasthttp.StatusBadRequest, msgInvalidID)
		return
	}

	found, err := h.svc.GetEmployee(ctx, employee.GetEmployeeInput{ID: id})
	if err != nil {
		h.fail(ctx, err, msgEmployeeNotFound)
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, toEmployeeJSON(found))
}

func (h *Handler) updateEmployee(ctx *fasthttp.RequestCtx) {
	id, ok := pathID(ctx, "id")
	if !ok {
		writeError(ctx, fasthttp.StatusBadRequest, msgInvalidID)
		return
	}

	var req employeeJSON
	if err := decodeJSON(ctx, &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, msgMalformedBody)
		return
	}

	updated, err := h.svc.UpdateEmployee(ctx, employee.UpdateEmployeeInput{ID: id, Employee: req.toDomain()})
	if err != nil {
		h.fail(ctx, err, msgEmployeeNotFound)
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, toEmployeeJSON(updated))
}

func (h *Handler) deleteEmployee(ctx *fasthttp.RequestCtx) {
	id, ok := pathID(ctx, "id")
	if !ok {
		writeError(ctx, fasthttp.StatusBadRequest, msgInvalidID)
		return
	}

	if err := h.svc.DeleteEmployee(ctx, employee.DeleteEmployeeInput{ID: id}); err != nil {
		h.fail(ctx, err, msgDeleteEmployeeNotFound)
		return
	}

	writeNoContent(ctx)
}

// deleteEmployees は一括削除を受け付けず、常に 400 を返します。
func (h *Handler) deleteEmployees(ctx *fasthttp.RequestCtx) {
	writeError(ctx, fasthttp.StatusBadRequest, msgBadlyFormattedDelete)
}
