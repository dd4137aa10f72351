package producer

import (
	"time"

	"github.com/ogurasousui/codex-skill-tracker/internal/core/employee"
)

// eventPayload は Kafka に送信する変更イベントの本文です。
type eventPayload struct {
	EventID    string           `json:"eventId"`
	Type       string           `json:"type"`
	EmployeeID string           `json:"employeeId"`
	SkillID    string           `json:"skillId,omitempty"`
	OccurredAt time.Time        `json:"occurredAt"`
	Employee   *employeePayload `json:"employee,omitempty"`
	Skill      *skillPayload    `json:"skill,omitempty"`
}

type employeePayload struct {
	ID           string          `json:"id"`
	FirstName    string          `json:"firstName"`
	LastName     string          `json:"lastName"`
	CompanyEmail string          `json:"companyEmail"`
	ContactEmail *string         `json:"contactEmail,omitempty"`
	BirthDate    string          `json:"birthDate"`
	HiredDate    string          `json:"hiredDate"`
	Role         string          `json:"role,omitempty"`
	BusinessUnit string          `json:"businessUnit,omitempty"`
	AssignedTo   *string         `json:"assignedTo,omitempty"`
	Address      *addressPayload `json:"address,omitempty"`
	SkillIDs     []string        `json:"skillIds"`
}

type addressPayload struct {
	Street  string `json:"street"`
	Suite   string `json:"suite"`
	City    string `json:"city"`
	Region  string `json:"region"`
	Postal  string `json:"postal"`
	Country string `json:"country"`
}

type skillPayload struct {
	ID         string `json:"id"`
	FieldID    string `json:"fieldId"`
	FieldName  string `json:"fieldName"`
	FieldType  string `json:"fieldType"`
	Experience int    `json:"experience"`
	Summary    string `json:"summary"`
}

func newEventPayload(ev employee.Event) eventPayload {
	p := eventPayload{
		EventID:    ev.ID,
		Type:       string(ev.Type),
		EmployeeID: ev.EmployeeID,
		SkillID:    ev.SkillID,
		OccurredAt: ev.OccurredAt.UTC(),
	}

	if e := ev.Employee; e != nil {
		emp := &employeePayload{
			ID:           e.ID,
			FirstName:    e.FirstName,
			LastName:     e.LastName,
			CompanyEmail: e.CompanyEmail,
			ContactEmail: e.ContactEmail,
			BirthDate:    e.BirthDate,
			HiredDate:    e.HiredDate,
			Role:         string(e.Role),
			BusinessUnit: string(e.BusinessUnit),
			AssignedTo:   e.AssignedTo,
			SkillIDs:     make([]string, 0, len(e.Skills)),
		}
		if a := e.Address; a != nil {
			emp.Address = &addressPayload{
				Street:  a.Street,
				Suite:   a.Suite,
				City:    a.City,
				Region:  a.Region,
				Postal:  a.Postal,
				Country: a.Country,
			}
		}
		for _, s := range e.Skills {
			emp.SkillIDs = append(emp.SkillIDs, s.ID)
		}
		p.Employee = emp
	}

	if s := ev.Skill; s != nil {
		p.Skill = &skillPayload{
			ID:         s.ID,
			FieldID:    s.Field.ID,
			FieldName:  s.Field.Name,
			FieldType:  s.Field.Type,
			Experience: s.Experience,
			Summary:    s.Summary,
		}
	}

	return p
}
