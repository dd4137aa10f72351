package producer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ogurasousui/codex-skill-tracker/internal/core/employee"
)

const (
	testEmployeeID = "1b4e28ba-2fa1-11d2-883f-0016d3cca427"
	testSkillID    = "9c5b94b1-35ad-49bb-b118-8e8fc24abf80"
)

func headerMap(msg *sarama.ProducerMessage) map[string]string {
	out := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		out[string(h.Key)] = string(h.Value)
	}
	return out
}

func TestEventProducer_PublishEmployeeCreated(t *testing.T) {
	t.Parallel()

	sp := mocks.NewSyncProducer(t, nil)
	p := NewEventProducer(sp, "employee-events", "", zerolog.Nop())

	occurred := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	ev := employee.Event{
		ID:         "evt-1",
		Type:       employee.EventEmployeeCreated,
		EmployeeID: testEmployeeID,
		OccurredAt: occurred,
		Employee: &employee.Employee{
			ID:        testEmployeeID,
			FirstName: "Taro",
			Skills:    []employee.Skill{{ID: testSkillID}},
		},
	}

	sp.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != "employee-events" {
			return errors.New("unexpected topic " + msg.Topic)
		}

		key, err := msg.Key.Encode()
		if err != nil {
			return err
		}
		if string(key) != testEmployeeID {
			return errors.New("unexpected key " + string(key))
		}

		headers := headerMap(msg)
		if headers["event-type"] != "employee.created" || headers["source"] != defaultSource || headers["event-id"] != "evt-1" {
			return errors.New("unexpected headers")
		}

		value, err := msg.Value.Encode()
		if err != nil {
			return err
		}
		var payload eventPayload
		if err := json.Unmarshal(value, &payload); err != nil {
			return err
		}
		if payload.Employee == nil || len(payload.Employee.SkillIDs) != 1 || !payload.OccurredAt.Equal(occurred) {
			return errors.New("unexpected payload " + string(value))
		}
		return nil
	})

	require.NoError(t, p.Publish(context.Background(), ev))
	require.NoError(t, p.Close())
}

func TestEventProducer_PublishSkillRemovedOmitsEntities(t *testing.T) {
	t.Parallel()

	sp := mocks.NewSyncProducer(t, nil)
	p := NewEventProducer(sp, "employee-events", "tracker", zerolog.Nop())

	sp.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		value, err := msg.Value.Encode()
		if err != nil {
			return err
		}
		var raw map[string]any
		if err := json.Unmarshal(value, &raw); err != nil {
			return err
		}
		if _, ok := raw["employee"]; ok {
			return errors.New("employee must be omitted")
		}
		if raw["skillId"] != testSkillID {
			return errors.New("unexpected skill id")
		}
		if headerMap(msg)["source"] != "tracker" {
			return errors.New("unexpected source")
		}
		return nil
	})

	err := p.Publish(context.Background(), employee.Event{
		ID:         "evt-2",
		Type:       employee.EventSkillRemoved,
		EmployeeID: testEmployeeID,
		SkillID:    testSkillID,
	})
	require.NoError(t, err)
	require.NoError(t, p.Close())
}

func TestEventProducer_SendFailure(t *testing.T) {
	t.Parallel()

	sp := mocks.NewSyncProducer(t, nil)
	p := NewEventProducer(sp, "employee-events", "", zerolog.Nop())

	sp.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	err := p.Publish(context.Background(), employee.Event{Type: employee.EventEmployeeDeleted, EmployeeID: testEmployeeID})
	require.Error(t, err)
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, p.Close())
}

func TestEventProducer_CancelledContext(t *testing.T) {
	t.Parallel()

	sp := mocks.NewSyncProducer(t, nil)
	p := NewEventProducer(sp, "employee-events", "", zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Publish(ctx, employee.Event{Type: employee.EventEmployeeDeleted, EmployeeID: testEmployeeID})
	assert.ErrorIs(t, err, context.Canceled)
	require.NoError(t, p.Close())
}

type stalledSyncProducer struct {
	sarama.SyncProducer
	release chan struct{}
}

func (s *stalledSyncProducer) SendMessage(*sarama.ProducerMessage) (int32, int64, error) {
	<-s.release
	return 0, 0, sarama.ErrOutOfBrokers
}

func TestEventProducer_SendIsBoundedByTimeout(t *testing.T) {
	t.Parallel()

	sp := &stalledSyncProducer{release: make(chan struct{})}
	t.Cleanup(func() { close(sp.release) })
	p := NewEventProducer(sp, "employee-events", "", zerolog.Nop(), WithSendTimeout(20*time.Millisecond))

	start := time.Now()
	err := p.Publish(context.Background(), employee.Event{Type: employee.EventEmployeeDeleted, EmployeeID: testEmployeeID})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestWithSendTimeout_IgnoresNonPositive(t *testing.T) {
	t.Parallel()

	p := NewEventProducer(mocks.NewSyncProducer(t, nil), "employee-events", "", zerolog.Nop(), WithSendTimeout(0))
	assert.Equal(t, defaultSendTimeout, p.sendTimeout)
	require.NoError(t, p.Close())
}

func TestNewSaramaConfig(t *testing.T) {
	t.Parallel()

	cfg := NewSaramaConfig("skill-tracker")

	assert.Equal(t, "skill-tracker", cfg.ClientID)
	assert.True(t, cfg.Producer.Return.Successes)
	assert.True(t, cfg.Producer.Idempotent)
	assert.Equal(t, sarama.WaitForAll, cfg.Producer.RequiredAcks)
	assert.NoError(t, cfg.Validate())
}

func TestEventProducer_NilIsSafe(t *testing.T) {
	t.Parallel()

	var p *EventProducer
	assert.NoError(t, p.Close())
	assert.Error(t, p.send(context.Background(), "k", nil, nil))
}
