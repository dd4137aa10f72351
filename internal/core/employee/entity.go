package employee

// Role は社員の職務区分です。
type Role string

const (
	RoleTechnicalConsultant Role = "TECHNICAL_CONSULTANT"
	RoleProjectManager      Role = "PROJECT_MANAGER"
	RoleDirector            Role = "DIRECTOR"
	RoleChief               Role = "CHIEF"
)

// BusinessUnit は社員の所属事業部です。
type BusinessUnit string

const (
	BusinessUnitDigitalExperienceGroup BusinessUnit = "DIGITAL_EXPERIENCE_GROUP"
	BusinessUnitAdobe                  BusinessUnit = "ADOBE"
	BusinessUnitIBMNBU                 BusinessUnit = "IBM_NBU"
	BusinessUnitAPIManagement          BusinessUnit = "API_MANAGEMENT"
)

// Employee は社員エンティティです。
// Address は社員が所有し、Skills は他の社員と共有されます。
type Employee struct {
	ID           string
	FirstName    string
	LastName     string
	CompanyEmail string
	BirthDate    string
	HiredDate    string
	Role         Role
	ContactEmail *string
	BusinessUnit BusinessUnit
	Address      *Address
	// AssignedTo は上長となる社員の ID です。埋め込みではなく参照として保持します。
	AssignedTo *string
	Skills     []Skill
}

// Address は社員の住所です。ID は所有する社員の ID と常に一致します。
type Address struct {
	ID      string
	Street  string
	Suite   string
	City    string
	Region  string
	Postal  string
	Country string
}

// Skill は技術スキルです。
type Skill struct {
	ID         string
	Field      Field
	Experience int
	Summary    string
}

// Field はスキルの分野です。
type Field struct {
	ID   string
	Name string
	Type string
}

// FindSkill は社員のスキル集合から skillID を線形探索し、見つからなければ -1 を返します。
func (e *Employee) FindSkill(skillID string) int {
	for i := range e.Skills {
		if e.Skills[i].ID == skillID {
			return i
		}
	}
	return -1
}

// Clone は社員のディープコピーを返します。
func (e *Employee) Clone() *Employee {
	if e == nil {
		return nil
	}
	clone := *e
	if e.ContactEmail != nil {
		v := *e.ContactEmail
		clone.ContactEmail = &v
	}
	if e.AssignedTo != nil {
		v := *e.AssignedTo
		clone.AssignedTo = &v
	}
	if e.Address != nil {
		addr := *e.Address
		clone.Address = &addr
	}
	if e.Skills != nil {
		clone.Skills = make([]Skill, len(e.Skills))
		copy(clone.Skills, e.Skills)
	}
	return &clone
}
