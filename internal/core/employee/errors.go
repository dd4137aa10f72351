package employee

import "errors"

var (
	ErrInvalidID                = errors.New("employee: invalid id")
	ErrInvalidEmployee          = errors.New("employee: invalid employee")
	ErrInvalidSkill             = errors.New("employee: invalid skill")
	ErrEmployeeNotFound         = errors.New("employee: not found")
	ErrSkillNotFound            = errors.New("employee: skill not found")
	ErrEmployeeAlreadyExists    = errors.New("employee: already exists")
	ErrAssignedEmployeeNotFound = errors.New("employee: assigned employee not found")
)
