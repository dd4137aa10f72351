package employee

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// Service は社員とスキルに関するユースケースをまとめます。
type Service struct {
	repo   Repository
	clock  Clock
	tx     TransactionManager
	events EventPublisher
	newID  func() string
}

// UseCase は社員ユースケースの公開インターフェースです。
type UseCase interface {
	ListEmployees(ctx context.Context) ([]*Employee, error)
	CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*Employee, error)
	GetEmployee(ctx context.Context, in GetEmployeeInput) (*Employee, error)
	UpdateEmployee(ctx context.Context, in UpdateEmployeeInput) (*Employee, error)
	DeleteEmployee(ctx context.Context, in DeleteEmployeeInput) error

	ListSkills(ctx context.Context, in ListSkillsInput) ([]Skill, error)
	AddSkill(ctx context.Context, in AddSkillInput) (*Skill, error)
	GetSkill(ctx context.Context, in GetSkillInput) (*Skill, error)
	UpdateSkill(ctx context.Context, in UpdateSkillInput) (*Skill, error)
	DeleteSkill(ctx context.Context, in DeleteSkillInput) error
}

// NewService は Service を生成します。clock・tx・events が nil の場合は既定実装を使います。
func NewService(repo Repository, clock Clock, tx TransactionManager, events EventPublisher) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	if events == nil {
		events = noopEventPublisher{}
	}
	return &Service{repo: repo, clock: clock, tx: tx, events: events, newID: uuid.NewString}
}

// CreateEmployeeInput は社員作成時の入力です。
type CreateEmployeeInput struct {
	Employee *Employee
}

// GetEmployeeInput は社員取得時の入力です。
type GetEmployeeInput struct {
	ID string
}

// UpdateEmployeeInput は社員更新時の入力です。Employee の全項目で既存データを置き換えます。
type UpdateEmployeeInput struct {
	ID       string
	Employee *Employee
}

// DeleteEmployeeInput は社員削除時の入力です。
type DeleteEmployeeInput struct {
	ID string
}

// ListSkillsInput は社員のスキル一覧取得時の入力です。
type ListSkillsInput struct {
	EmployeeID string
}

// AddSkillInput はスキル追加時の入力です。
type AddSkillInput struct {
	EmployeeID string
	Skill      *Skill
}

// GetSkillInput はスキル取得時の入力です。
type GetSkillInput struct {
	EmployeeID string
	SkillID    string
}

// UpdateSkillInput はスキル更新時の入力です。ID 以外の項目を上書きします。
type UpdateSkillInput struct {
	EmployeeID string
	SkillID    string
	Skill      *Skill
}

// DeleteSkillInput はスキル削除時の入力です。
type DeleteSkillInput struct {
	EmployeeID string
	SkillID    string
}

// ListEmployees は全社員を取得します。
func (s *Service) ListEmployees(ctx context.Context) ([]*Employee, error) {
	var employees []*Employee
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.List(txCtx)
		if err != nil {
			return err
		}
		employees = found
		return nil
	}); err != nil {
		return nil, err
	}

	if employees == nil {
		employees = []*Employee{}
	}
	return employees, nil
}

// CreateEmployee は新しい社員を作成します。
func (s *Service) CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*Employee, error) {
	if in.Employee == nil {
		return nil, fmt.Errorf("employee: %w", ErrInvalidEmployee)
	}

	emp := normalizeEmployee(in.Employee)
	if emp.Address != nil {
		emp.Address.ID = emp.ID
	}
	if err := validateEmployee(emp); err != nil {
		return nil, err
	}

	var created *Employee
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		result, err := s.repo.Create(txCtx, emp)
		if err != nil {
			return err
		}
		created = result
		return nil
	}); err != nil {
		return nil, err
	}

	s.publish(ctx, Event{Type: EventEmployeeCreated, EmployeeID: created.ID, Employee: created})
	return created, nil
}

// GetEmployee は社員を取得します。
func (s *Service) GetEmployee(ctx context.Context, in GetEmployeeInput) (*Employee, error) {
	if strings.TrimSpace(in.ID) == "" {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}

	var result *Employee
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.FindByID(txCtx, in.ID)
		if err != nil {
			return err
		}
		result = found
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// UpdateEmployee は社員の全項目を置き換えます。部分更新は行いません。
func (s *Service) UpdateEmployee(ctx context.Context, in UpdateEmployeeInput) (*Employee, error) {
	if strings.TrimSpace(in.ID) == "" {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}
	if in.Employee == nil {
		return nil, fmt.Errorf("employee: %w", ErrInvalidEmployee)
	}

	data := normalizeEmployee(in.Employee)

	var updated *Employee
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByIDForUpdate(txCtx, in.ID)
		if err != nil {
			return err
		}

		existing.FirstName = data.FirstName
		existing.LastName = data.LastName
		existing.Address = data.Address
		existing.BirthDate = data.BirthDate
		existing.HiredDate = data.HiredDate
		existing.BusinessUnit = data.BusinessUnit
		existing.Role = data.Role
		existing.AssignedTo = data.AssignedTo
		existing.Skills = data.Skills
		existing.ContactEmail = data.ContactEmail
		existing.CompanyEmail = data.CompanyEmail
		if existing.Address != nil {
			existing.Address.ID = existing.ID
		}

		if err := validateEmployee(existing); err != nil {
			return err
		}

		result, err := s.repo.Save(txCtx, existing)
		if err != nil {
			return err
		}
		updated = result
		return nil
	}); err != nil {
		return nil, err
	}

	s.publish(ctx, Event{Type: EventEmployeeUpdated, EmployeeID: updated.ID, Employee: updated})
	return updated, nil
}

// DeleteEmployee は社員と所有する住所を削除します。スキルは削除しません。
func (s *Service) DeleteEmployee(ctx context.Context, in DeleteEmployeeInput) error {
	if strings.TrimSpace(in.ID) == "" {
		return fmt.Errorf("id: %w", ErrInvalidID)
	}

	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, in.ID)
	}); err != nil {
		return err
	}

	s.publish(ctx, Event{Type: EventEmployeeDeleted, EmployeeID: in.ID})
	return nil
}

// ListSkills は社員のスキル集合を取得します。
func (s *Service) ListSkills(ctx context.Context, in ListSkillsInput) ([]Skill, error) {
	emp, err := s.GetEmployee(ctx, GetEmployeeInput{ID: in.EmployeeID})
	if err != nil {
		return nil, err
	}
	if emp.Skills == nil {
		return []Skill{}, nil
	}
	return emp.Skills, nil
}

// AddSkill は社員のスキル集合にスキルを加えます。
// 同じ ID のスキルが既にあれば集合は変わらず、スキルの内容だけが更新されます。
func (s *Service) AddSkill(ctx context.Context, in AddSkillInput) (*Skill, error) {
	if strings.TrimSpace(in.EmployeeID) == "" {
		return nil, fmt.Errorf("employee id: %w", ErrInvalidID)
	}
	if in.Skill == nil {
		return nil, fmt.Errorf("skill: %w", ErrInvalidSkill)
	}

	skill := normalizeSkill(*in.Skill)

	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		emp, err := s.repo.FindByIDForUpdate(txCtx, in.EmployeeID)
		if err != nil {
			return err
		}

		if err := validateSkill(&skill); err != nil {
			return err
		}

		if idx := emp.FindSkill(skill.ID); idx >= 0 {
			emp.Skills[idx] = skill
		} else {
			emp.Skills = append(emp.Skills, skill)
		}

		_, err = s.repo.Save(txCtx, emp)
		return err
	}); err != nil {
		return nil, err
	}

	s.publish(ctx, Event{Type: EventSkillAdded, EmployeeID: in.EmployeeID, SkillID: skill.ID, Skill: &skill})
	return &skill, nil
}

// GetSkill は社員のスキル集合から 1 件取得します。
func (s *Service) GetSkill(ctx context.Context, in GetSkillInput) (*Skill, error) {
	if strings.TrimSpace(in.SkillID) == "" {
		return nil, fmt.Errorf("skill id: %w", ErrInvalidID)
	}

	emp, err := s.GetEmployee(ctx, GetEmployeeInput{ID: in.EmployeeID})
	if err != nil {
		return nil, err
	}

	idx := emp.FindSkill(in.SkillID)
	if idx < 0 {
		return nil, ErrSkillNotFound
	}
	skill := emp.Skills[idx]
	return &skill, nil
}

// UpdateSkill はスキルの経験年数・概要・分野を上書きします。ID は変更しません。
func (s *Service) UpdateSkill(ctx context.Context, in UpdateSkillInput) (*Skill, error) {
	if strings.TrimSpace(in.EmployeeID) == "" || strings.TrimSpace(in.SkillID) == "" {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}
	if in.Skill == nil {
		return nil, fmt.Errorf("skill: %w", ErrInvalidSkill)
	}

	data := normalizeSkill(*in.Skill)

	var updated Skill
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		emp, err := s.repo.FindByIDForUpdate(txCtx, in.EmployeeID)
		if err != nil {
			return err
		}

		idx := emp.FindSkill(in.SkillID)
		if idx < 0 {
			return ErrSkillNotFound
		}

		target := emp.Skills[idx]
		target.Experience = data.Experience
		target.Summary = data.Summary
		target.Field = data.Field
		if err := validateSkill(&target); err != nil {
			return err
		}
		emp.Skills[idx] = target

		if _, err := s.repo.Save(txCtx, emp); err != nil {
			return err
		}
		updated = target
		return nil
	}); err != nil {
		return nil, err
	}

	s.publish(ctx, Event{Type: EventSkillUpdated, EmployeeID: in.EmployeeID, SkillID: updated.ID, Skill: &updated})
	return &updated, nil
}

// DeleteSkill は社員のスキル集合からスキルを外します。スキル自体は他の社員のために残ります。
func (s *Service) DeleteSkill(ctx context.Context, in DeleteSkillInput) error {
	if strings.TrimSpace(in.EmployeeID) == "" || strings.TrimSpace(in.SkillID) == "" {
		return fmt.Errorf("id: %w", ErrInvalidID)
	}

	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		emp, err := s.repo.FindByIDForUpdate(txCtx, in.EmployeeID)
		if err != nil {
			return err
		}

		idx := emp.FindSkill(in.SkillID)
		if idx < 0 {
			return ErrSkillNotFound
		}
		emp.Skills = append(emp.Skills[:idx], emp.Skills[idx+1:]...)

		_, err = s.repo.Save(txCtx, emp)
		return err
	}); err != nil {
		return err
	}

	s.publish(ctx, Event{Type: EventSkillRemoved, EmployeeID: in.EmployeeID, SkillID: in.SkillID})
	return nil
}

// publish はコミット後に呼び出します。送信失敗はリクエストの結果に影響させません。
func (s *Service) publish(ctx context.Context, ev Event) {
	ev.ID = s.newID()
	ev.OccurredAt = s.clock.Now()
	if err := s.events.Publish(ctx, ev); err != nil {
		log.Warn().
			Err(err).
			Str("event_type", string(ev.Type)).
			Str("employee_id", ev.EmployeeID).
			Msg("failed to publish employee event")
	}
}
