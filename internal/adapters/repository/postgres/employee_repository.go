package postgres

import (
	"context"
	"database/sql"
	"errors"
	"slices"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ogurasousui/codex-skill-tracker/internal/core/employee"
	pgdb "github.com/ogurasousui/codex-skill-tracker/internal/platform/db/postgres"
)

const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	checkViolationCode      = "23514"
	notNullViolationCode    = "23502"

	assignedToForeignKey = "employees_assigned_to_id_fkey"
)

const selectEmployeeSQL = `
        SELECT e.id,
               e.first_name,
               e.last_name,
               e.company_email,
               e.birth_date,
               e.hired_date,
               e.role,
               e.contact_email,
               e.business_unit,
               e.assigned_to_id,
               a.id,
               a.street,
               a.suite,
               a.city,
               a.region,
               a.postal,
               a.country
          FROM employees e
          LEFT JOIN addresses a ON a.employee_id = e.id`

const selectSkillsSQL = `
        SELECT es.employee_id,
               s.id,
               s.experience,
               s.summary,
               f.id,
               f.name,
               f.type
          FROM employee_skills es
          JOIN skills s ON s.id = es.skill_id
          JOIN fields f ON f.id = s.field_id`

// EmployeeRepository は PostgreSQL を利用した社員永続化の実装です。
type EmployeeRepository struct {
	pool pgdb.Queryer
}

var _ employee.Repository = (*EmployeeRepository)(nil)

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(pool pgdb.Queryer) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

// List は全社員をスキル付きで取得します。
func (r *EmployeeRepository) List(ctx context.Context) ([]*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)

	rows, err := exec.Query(ctx, selectEmployeeSQL+`
         ORDER BY e.id`)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	defer rows.Close()

	employees := make([]*employee.Employee, 0)
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, translateEmployeePgError(err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, translateEmployeePgError(err)
	}
	rows.Close()

	skills, err := r.querySkills(ctx, exec, selectSkillsSQL+`
         ORDER BY es.employee_id, s.id COLLATE "C"`)
	if err != nil {
		return nil, err
	}
	for _, emp := range employees {
		emp.Skills = skills[emp.ID]
	}

	return employees, nil
}

// FindByID は ID で社員を取得します。
func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	return r.findOne(ctx, selectEmployeeSQL+`
         WHERE e.id = $1`, id)
}

// FindByIDForUpdate は社員行をロックしてから取得します。トランザクション内で呼び出してください。
func (r *EmployeeRepository) FindByIDForUpdate(ctx context.Context, id string) (*employee.Employee, error) {
	return r.findOne(ctx, selectEmployeeSQL+`
         WHERE e.id = $1
           FOR UPDATE OF e`, id)
}

func (r *EmployeeRepository) findOne(ctx context.Context, query, id string) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)

	found, err := scanEmployee(exec.QueryRow(ctx, query, id))
	if err != nil {
		return nil, translateEmployeePgError(err)
	}

	skills, err := r.querySkills(ctx, exec, selectSkillsSQL+`
         WHERE es.employee_id = $1
         ORDER BY s.id COLLATE "C"`, id)
	if err != nil {
		return nil, err
	}
	found.Skills = skills[id]

	return found, nil
}

// Create は社員と住所・スキルの関連を新規作成します。
func (r *EmployeeRepository) Create(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)

	if _, err := exec.Exec(ctx, `
        INSERT INTO employees (id, first_name, last_name, company_email, birth_date, hired_date, role, contact_email, business_unit, assigned_to_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
    `,
		e.ID,
		e.FirstName,
		e.LastName,
		e.CompanyEmail,
		e.BirthDate,
		e.HiredDate,
		nullableString(string(e.Role)),
		optionalString(e.ContactEmail),
		nullableString(string(e.BusinessUnit)),
		optionalString(e.AssignedTo),
	); err != nil {
		return nil, translateEmployeePgError(err)
	}

	if e.Address != nil {
		if err := upsertAddress(ctx, exec, e.ID, e.Address); err != nil {
			return nil, err
		}
	}

	if err := linkSkills(ctx, exec, e.ID, e.Skills); err != nil {
		return nil, err
	}

	return stored(e), nil
}

// Save は既存社員の全項目と関連を書き換えます。
func (r *EmployeeRepository) Save(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)

	tag, err := exec.Exec(ctx, `
        UPDATE employees
           SET first_name = $1,
               last_name = $2,
               company_email = $3,
               birth_date = $4,
               hired_date = $5,
               role = $6,
               contact_email = $7,
               business_unit = $8,
               assigned_to_id = $9
         WHERE id = $10
    `,
		e.FirstName,
		e.LastName,
		e.CompanyEmail,
		e.BirthDate,
		e.HiredDate,
		nullableString(string(e.Role)),
		optionalString(e.ContactEmail),
		nullableString(string(e.BusinessUnit)),
		optionalString(e.AssignedTo),
		e.ID,
	)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, employee.ErrEmployeeNotFound
	}

	if e.Address == nil {
		if _, err := exec.Exec(ctx, `DELETE FROM addresses WHERE employee_id = $1`, e.ID); err != nil {
			return nil, translateEmployeePgError(err)
		}
	} else if err := upsertAddress(ctx, exec, e.ID, e.Address); err != nil {
		return nil, err
	}

	if _, err := exec.Exec(ctx, `DELETE FROM employee_skills WHERE employee_id = $1`, e.ID); err != nil {
		return nil, translateEmployeePgError(err)
	}
	if err := linkSkills(ctx, exec, e.ID, e.Skills); err != nil {
		return nil, err
	}

	return stored(e), nil
}

// Delete は社員を削除します。住所とスキルの関連は連鎖削除され、上長参照は NULL になります。
func (r *EmployeeRepository) Delete(ctx context.Context, id string) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return translateEmployeePgError(err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

func (r *EmployeeRepository) querySkills(ctx context.Context, exec pgdb.Queryer, query string, args ...any) (map[string][]employee.Skill, error) {
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	defer rows.Close()

	skills := make(map[string][]employee.Skill)
	for rows.Next() {
		var (
			employeeID string
			s          employee.Skill
		)
		if err := rows.Scan(
			&employeeID,
			&s.ID,
			&s.Experience,
			&s.Summary,
			&s.Field.ID,
			&s.Field.Name,
			&s.Field.Type,
		); err != nil {
			return nil, translateEmployeePgError(err)
		}
		skills[employeeID] = append(skills[employeeID], s)
	}
	if err := rows.Err(); err != nil {
		return nil, translateEmployeePgError(err)
	}

	return skills, nil
}

func upsertAddress(ctx context.Context, exec pgdb.Queryer, employeeID string, a *employee.Address) error {
	_, err := exec.Exec(ctx, `
        INSERT INTO addresses (id, employee_id, street, suite, city, region, postal, country)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        ON CONFLICT (employee_id) DO UPDATE
           SET street = EXCLUDED.street,
               suite = EXCLUDED.suite,
               city = EXCLUDED.city,
               region = EXCLUDED.region,
               postal = EXCLUDED.postal,
               country = EXCLUDED.country
    `,
		a.ID,
		employeeID,
		a.Street,
		a.Suite,
		a.City,
		a.Region,
		a.Postal,
		a.Country,
	)
	return translateEmployeePgError(err)
}

// linkSkills は共有スキルと分野を最新の内容で登録し、社員との関連を作成します。
func linkSkills(ctx context.Context, exec pgdb.Queryer, employeeID string, skills []employee.Skill) error {
	for _, s := range skills {
		if _, err := exec.Exec(ctx, `
        INSERT INTO fields (id, name, type)
        VALUES ($1, $2, $3)
        ON CONFLICT (id) DO UPDATE
           SET name = EXCLUDED.name,
               type = EXCLUDED.type
    `, s.Field.ID, s.Field.Name, s.Field.Type); err != nil {
			return translateSkillPgError(err)
		}

		if _, err := exec.Exec(ctx, `
        INSERT INTO skills (id, field_id, experience, summary)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (id) DO UPDATE
           SET field_id = EXCLUDED.field_id,
               experience = EXCLUDED.experience,
               summary = EXCLUDED.summary
    `, s.ID, s.Field.ID, s.Experience, s.Summary); err != nil {
			return translateSkillPgError(err)
		}

		if _, err := exec.Exec(ctx, `
        INSERT INTO employee_skills (employee_id, skill_id)
        VALUES ($1, $2)
        ON CONFLICT DO NOTHING
    `, employeeID, s.ID); err != nil {
			return translateSkillPgError(err)
		}
	}
	return nil
}

// stored は書き込んだ社員のコピーを読み出し時と同じスキル順で返します。
func stored(e *employee.Employee) *employee.Employee {
	out := e.Clone()
	slices.SortFunc(out.Skills, func(a, b employee.Skill) int {
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

func scanEmployee(row pgx.Row) (*employee.Employee, error) {
	var (
		e            employee.Employee
		role         sql.NullString
		contactEmail sql.NullString
		businessUnit sql.NullString
		assignedTo   sql.NullString
		addressID    sql.NullString
		street       sql.NullString
		suite        sql.NullString
		city         sql.NullString
		region       sql.NullString
		postal       sql.NullString
		country      sql.NullString
	)

	if err := row.Scan(
		&e.ID,
		&e.FirstName,
		&e.LastName,
		&e.CompanyEmail,
		&e.BirthDate,
		&e.HiredDate,
		&role,
		&contactEmail,
		&businessUnit,
		&assignedTo,
		&addressID,
		&street,
		&suite,
		&city,
		&region,
		&postal,
		&country,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, err
	}

	e.Role = employee.Role(role.String)
	e.BusinessUnit = employee.BusinessUnit(businessUnit.String)
	e.ContactEmail = stringPtr(contactEmail)
	e.AssignedTo = stringPtr(assignedTo)

	if addressID.Valid {
		e.Address = &employee.Address{
			ID:      addressID.String,
			Street:  street.String,
			Suite:   suite.String,
			City:    city.String,
			Region:  region.String,
			Postal:  postal.String,
			Country: country.String,
		}
	}

	return &e, nil
}

func translateEmployeePgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return employee.ErrEmployeeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return employee.ErrEmployeeAlreadyExists
		case foreignKeyViolationCode:
			if pgErr.ConstraintName == assignedToForeignKey {
				return employee.ErrAssignedEmployeeNotFound
			}
			return employee.ErrInvalidEmployee
		case checkViolationCode, notNullViolationCode:
			return employee.ErrInvalidEmployee
		}
	}

	return err
}

func translateSkillPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case checkViolationCode, notNullViolationCode, foreignKeyViolationCode:
			return employee.ErrInvalidSkill
		}
	}
	return translateEmployeePgError(err)
}

func nullableString(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func optionalString(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
