package producer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"

	"github.com/ogurasousui/codex-skill-tracker/internal/core/employee"
	"github.com/ogurasousui/codex-skill-tracker/internal/platform/config"
)

const (
	defaultSource      = "skill-tracker"
	defaultSendTimeout = 500 * time.Millisecond
)

// EventProducer は社員の変更イベントを Kafka へ同期送信します。
type EventProducer struct {
	sp          sarama.SyncProducer
	topic       string
	source      string
	sendTimeout time.Duration
	log         zerolog.Logger
}

// Option は EventProducer の挙動を変更します。
type Option func(*EventProducer)

// WithSendTimeout は 1 件の送信を待つ上限を設定します。0 以下の場合は既定値を使います。
func WithSendTimeout(d time.Duration) Option {
	return func(p *EventProducer) {
		if d > 0 {
			p.sendTimeout = d
		}
	}
}

var _ employee.EventPublisher = (*EventProducer)(nil)

// NewSaramaConfig は冪等な同期送信用の sarama 設定を返します。
func NewSaramaConfig(clientID string) *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.ClientID = clientID
	cfg.Version = sarama.V3_3_2_0
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Idempotent = true
	cfg.Net.MaxOpenRequests = 1
	cfg.Producer.Retry.Max = 3
	cfg.Producer.Retry.Backoff = 100 * time.Millisecond
	return cfg
}

// New は設定に従ってブローカーへ接続し EventProducer を生成します。
func New(cfg config.KafkaConfig, log zerolog.Logger) (*EventProducer, error) {
	sp, err := sarama.NewSyncProducer(cfg.Brokers, NewSaramaConfig(cfg.ClientID))
	if err != nil {
		return nil, fmt.Errorf("kafka: create sync producer: %w", err)
	}
	return NewEventProducer(sp, cfg.Topic, cfg.ClientID, log, WithSendTimeout(cfg.SendTimeout)), nil
}

// NewEventProducer は既存の SyncProducer から EventProducer を生成します。
func NewEventProducer(sp sarama.SyncProducer, topic, source string, log zerolog.Logger, opts ...Option) *EventProducer {
	if source == "" {
		source = defaultSource
	}
	p := &EventProducer{
		sp:          sp,
		topic:       topic,
		source:      source,
		sendTimeout: defaultSendTimeout,
		log:         log.With().Str("component", "EventProducer").Logger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish はイベントを社員 ID をキーとして送信します。同じ社員のイベントは同じパーティションに並びます。
func (p *EventProducer) Publish(ctx context.Context, ev employee.Event) error {
	body, err := json.Marshal(newEventPayload(ev))
	if err != nil {
		return fmt.Errorf("kafka: marshal event: %w", err)
	}

	return p.send(ctx, ev.EmployeeID, body, map[string]string{
		"event-id":     ev.ID,
		"event-type":   string(ev.Type),
		"source":       p.source,
		"content-type": "application/json",
	})
}

// Close は SyncProducer を閉じます。
func (p *EventProducer) Close() error {
	if p == nil || p.sp == nil {
		return nil
	}
	return p.sp.Close()
}

func (p *EventProducer) send(ctx context.Context, key string, value []byte, headers map[string]string) error {
	if p == nil || p.sp == nil {
		return errors.New("kafka: sync producer is not initialized")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	hs := make([]sarama.RecordHeader, 0, len(headers))
	for k, v := range headers {
		hs = append(hs, sarama.RecordHeader{Key: []byte(k), Value: []byte(v)})
	}

	msg := &sarama.ProducerMessage{
		Topic:   p.topic,
		Key:     sarama.StringEncoder(key),
		Value:   sarama.ByteEncoder(value),
		Headers: hs,
	}

	ctx, cancel := context.WithTimeout(ctx, p.sendTimeout)
	defer cancel()

	type sendResult struct {
		part int32
		off  int64
		err  error
	}
	done := make(chan sendResult, 1)
	go func() {
		part, off, err := p.sp.SendMessage(msg)
		done <- sendResult{part: part, off: off, err: err}
	}()

	var res sendResult
	select {
	case <-ctx.Done():
		p.log.Warn().
			Err(ctx.Err()).
			Str("topic", p.topic).
			Str("key", key).
			Dur("timeout", p.sendTimeout).
			Msg("kafka send did not complete in time")
		return fmt.Errorf("kafka: send message: %w", ctx.Err())
	case res = <-done:
	}

	if res.err != nil {
		p.log.Error().
			Err(res.err).
			Str("topic", p.topic).
			Str("key", key).
			Int("bytes", len(value)).
			Msg("failed to send kafka message")
		return fmt.Errorf("kafka: send message: %w", res.err)
	}

	p.log.Debug().
		Str("topic", p.topic).
		Str("key", key).
		Int32("partition", res.part).
		Int64("offset", res.off).
		Msg("kafka message sent")
	return nil
}
