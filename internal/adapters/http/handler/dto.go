package handler

import "github.com/ogurasousui/codex-skill-tracker/internal/core/employee"

// employeeJSON は社員の JSON 表現です。リクエストとレスポンスで共通に使います。
type employeeJSON struct {
	ID           string       `json:"id"`
	FirstName    string       `json:"firstName"`
	LastName     string       `json:"lastName"`
	Address      *addressJSON `json:"address"`
	BirthDate    string       `json:"birthDate"`
	HiredDate    string       `json:"hiredDate"`
	BusinessUnit *string      `json:"businessUnit"`
	Role         *string      `json:"role"`
	AssignedTo   *string      `json:"assignedTo"`
	Skills       []skillJSON  `json:"skills"`
	ContactEmail *string      `json:"contactEmail"`
	CompanyEmail string       `json:"companyEmail"`
}

type addressJSON struct {
	ID      string `json:"id"`
	Street  string `json:"street"`
	Suite   string `json:"suite"`
	City    string `json:"city"`
	Region  string `json:"region"`
	Postal  string `json:"postal"`
	Country string `json:"country"`
}

type skillJSON struct {
	ID         string     `json:"id"`
	Field      *fieldJSON `json:"field"`
	Experience int        `json:"experience"`
	Summary    string     `json:"summary"`
}

type fieldJSON struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

func (j employeeJSON) toDomain() *employee.Employee {
	e := &employee.Employee{
		ID:           j.ID,
		FirstName:    j.FirstName,
		LastName:     j.LastName,
		CompanyEmail: j.CompanyEmail,
		BirthDate:    j.BirthDate,
		HiredDate:    j.HiredDate,
		Role:         employee.Role(deref(j.Role)),
		BusinessUnit: employee.BusinessUnit(deref(j.BusinessUnit)),
		ContactEmail: j.ContactEmail,
		AssignedTo:   j.AssignedTo,
	}
	if j.Address != nil {
		e.Address = &employee.Address{
			ID:      j.Address.ID,
			Street:  j.Address.Street,
			Suite:   j.Address.Suite,
			City:    j.Address.City,
			Region:  j.Address.Region,
			Postal:  j.Address.Postal,
			Country: j.Address.Country,
		}
	}
	if len(j.Skills) > 0 {
		e.Skills = make([]employee.Skill, 0, len(j.Skills))
		for _, s := range j.Skills {
			e.Skills = append(e.Skills, s.toDomain())
		}
	}
	return e
}

// toDomain は field が欠けている場合に空の分野を設定し、検証で弾かせます。
func (j skillJSON) toDomain() employee.Skill {
	s := employee.Skill{
		ID:         j.ID,
		Experience: j.Experience,
		Summary:    j.Summary,
	}
	if j.Field != nil {
		s.Field = employee.Field{ID: j.Field.ID, Name: j.Field.Name, Type: j.Field.Type}
	}
	return s
}

func toEmployeeJSON(e *employee.Employee) employeeJSON {
	out := employeeJSON{
		ID:           e.ID,
		FirstName:    e.FirstName,
		LastName:     e.LastName,
		BirthDate:    e.BirthDate,
		HiredDate:    e.HiredDate,
		BusinessUnit: optional(string(e.BusinessUnit)),
		Role:         optional(string(e.Role)),
		AssignedTo:   e.AssignedTo,
		Skills:       toSkillsJSON(e.Skills),
		ContactEmail: e.ContactEmail,
		CompanyEmail: e.CompanyEmail,
	}
	if e.Address != nil {
		out.Address = &addressJSON{
			ID:      e.Address.ID,
			Street:  e.Address.Street,
			Suite:   e.Address.Suite,
			City:    e.Address.City,
			Region:  e.Address.Region,
			Postal:  e.Address.Postal,
			Country: e.Address.Country,
		}
	}
	return out
}

func toEmployeesJSON(employees []*employee.Employee) []employeeJSON {
	out := make([]employeeJSON, 0, len(employees))
	for _, e := range employees {
		out = append(out, toEmployeeJSON(e))
	}
	return out
}

func toSkillJSON(s employee.Skill) skillJSON {
	return skillJSON{
		ID:         s.ID,
		Field:      &fieldJSON{ID: s.Field.ID, Name: s.Field.Name, Type: s.Field.Type},
		Experience: s.Experience,
		Summary:    s.Summary,
	}
}

func toSkillsJSON(skills []employee.Skill) []skillJSON {
	out := make([]skillJSON, 0, len(skills))
	for _, s := range skills {
		out = append(out, toSkillJSON(s))
	}
	return out
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
