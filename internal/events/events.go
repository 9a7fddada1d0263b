// events — публикация событий жизненного цикла комментариев в Kafka.
//
// Событие уходит после успешной записи в хранилище; ошибка публикации
// не откатывает операцию и только логируется вызывающим.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// Type — тип события.
type Type string

const (
	CommentCreated Type = "comment.created"
	CommentUpdated Type = "comment.updated"
	CommentDeleted Type = "comment.deleted"
)

// Event — полезная нагрузка сообщения (JSON).
type Event struct {
	Type      Type      `json:"type"`
	CommentID string    `json:"comment_id"`
	NewsID    uuid.UUID `json:"news_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	At        time.Time `json:"at"`
}

// Publisher — контракт отправки событий.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// messageWriter — часть *kafka.Writer, которой пользуется KafkaPublisher.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher пишет события в один топик; ключ сообщения — news_id,
// чтобы события одной новости попадали в одну партицию и сохраняли порядок.
type KafkaPublisher struct {
	w messageWriter
}

// NewKafkaPublisher создаёт writer для брокеров и топика.
func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("events: no kafka brokers")
	}

	if topic == "" {
		return nil, fmt.Errorf("events: empty kafka topic")
	}

	return &KafkaPublisher{w: &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
	}}, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, e Event) error {
	const op = "events.kafka.Publish"

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("%s: marshal: %w", op, err)
	}

	err = p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.NewsID.String()),
		Value: data,
		Time:  e.At,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (p *KafkaPublisher) Close() error { return p.w.Close() }

// Noop — публикатор при kafka.enabled=false.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Close() error                         { return nil }
