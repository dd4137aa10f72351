package employee

import (
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Validate は社員の必須項目と列挙値を検査します。
func (e Employee) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.ID, validation.Required),
		validation.Field(&e.FirstName, validation.Required),
		validation.Field(&e.LastName, validation.Required),
		validation.Field(&e.CompanyEmail, validation.Required, is.EmailFormat),
		validation.Field(&e.BirthDate, validation.Required),
		validation.Field(&e.HiredDate, validation.Required),
		validation.Field(&e.Role, validation.In(
			RoleTechnicalConsultant, RoleProjectManager, RoleDirector, RoleChief,
		)),
		validation.Field(&e.BusinessUnit, validation.In(
			BusinessUnitDigitalExperienceGroup, BusinessUnitAdobe, BusinessUnitIBMNBU, BusinessUnitAPIManagement,
		)),
		validation.Field(&e.ContactEmail, validation.NilOrNotEmpty, is.EmailFormat),
		validation.Field(&e.AssignedTo, validation.NilOrNotEmpty, validation.By(notSelf(e.ID))),
		validation.Field(&e.Address),
		validation.Field(&e.Skills, validation.By(uniqueSkillIDs)),
	)
}

// Validate は住所の必須項目を検査します。
func (a Address) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Street, validation.Required),
		validation.Field(&a.Suite, validation.Required),
		validation.Field(&a.City, validation.Required),
		validation.Field(&a.Region, validation.Required),
		validation.Field(&a.Postal, validation.Required),
		validation.Field(&a.Country, validation.Required),
	)
}

// Validate はスキルの必須項目を検査します。
func (s Skill) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.ID, validation.Required),
		validation.Field(&s.Field),
		validation.Field(&s.Experience, validation.Min(0)),
	)
}

// Validate は分野の必須項目を検査します。
func (f Field) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.ID, validation.Required),
		validation.Field(&f.Name, validation.Required),
		validation.Field(&f.Type, validation.Required),
	)
}

func notSelf(id string) validation.RuleFunc {
	return func(value interface{}) error {
		assigned, _ := value.(*string)
		if assigned != nil && *assigned == id {
			return errors.New("must not reference the employee itself")
		}
		return nil
	}
}

func uniqueSkillIDs(value interface{}) error {
	skills, _ := value.([]Skill)
	seen := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		if _, ok := seen[s.ID]; ok {
			return fmt.Errorf("duplicate skill id %q", s.ID)
		}
		seen[s.ID] = struct{}{}
	}
	return nil
}

func validateEmployee(e *Employee) error {
	if e == nil {
		return ErrInvalidEmployee
	}
	if err := e.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEmployee, err)
	}
	return nil
}

func validateSkill(s *Skill) error {
	if s == nil {
		return ErrInvalidSkill
	}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSkill, err)
	}
	return nil
}

func normalizeEmployee(in *Employee) *Employee {
	e := in.Clone()
	e.ID = strings.TrimSpace(e.ID)
	e.FirstName = strings.TrimSpace(e.FirstName)
	e.LastName = strings.TrimSpace(e.LastName)
	e.CompanyEmail = strings.TrimSpace(e.CompanyEmail)
	e.BirthDate = strings.TrimSpace(e.BirthDate)
	e.HiredDate = strings.TrimSpace(e.HiredDate)
	e.ContactEmail = trimOptional(e.ContactEmail)
	e.AssignedTo = trimOptional(e.AssignedTo)
	if e.Address != nil {
		e.Address.Street = strings.TrimSpace(e.Address.Street)
		e.Address.Suite = strings.TrimSpace(e.Address.Suite)
		e.Address.City = strings.TrimSpace(e.Address.City)
		e.Address.Region = strings.TrimSpace(e.Address.Region)
		e.Address.Postal = strings.TrimSpace(e.Address.Postal)
		e.Address.Country = strings.TrimSpace(e.Address.Country)
	}
	for i := range e.Skills {
		e.Skills[i] = normalizeSkill(e.Skills[i])
	}
	return e
}

func normalizeSkill(s Skill) Skill {
	s.ID = strings.TrimSpace(s.ID)
	s.Summary = strings.TrimSpace(s.Summary)
	s.Field.ID = strings.TrimSpace(s.Field.ID)
	s.Field.Name = strings.TrimSpace(s.Field.Name)
	s.Field.Type = strings.TrimSpace(s.Field.Type)
	return s
}

// trimOptional は空白のみの任意項目を未設定として扱います。
func trimOptional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
