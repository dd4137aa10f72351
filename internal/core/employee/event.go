package employee

import (
	"context"
	"time"
)

// EventType は社員データの変更種別です。
type EventType string

const (
	EventEmployeeCreated EventType = "employee.created"
	EventEmployeeUpdated EventType = "employee.updated"
	EventEmployeeDeleted EventType = "employee.deleted"
	EventSkillAdded      EventType = "skill.added"
	EventSkillUpdated    EventType = "skill.updated"
	EventSkillRemoved    EventType = "skill.removed"
)

// Event はコミット済みの変更を外部へ通知するためのメッセージです。
type Event struct {
	ID         string
	Type       EventType
	EmployeeID string
	SkillID    string
	OccurredAt time.Time
	Employee   *Employee
	Skill      *Skill
}

// EventPublisher は変更イベントの送信先の抽象です。
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

type noopEventPublisher struct{}

func (noopEventPublisher) Publish(context.Context, Event) error {
	return nil
}
