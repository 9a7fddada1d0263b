package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error { f.closed = true; return nil }

func TestKafkaPublisher_Publish(t *testing.T) {
	t.Parallel()

	fw := &fakeWriter{}
	p := &KafkaPublisher{w: fw}

	e := Event{
		Type:      CommentCreated,
		CommentID: "c-1",
		NewsID:    uuid.New(),
		AuthorID:  uuid.New(),
		At:        time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, p.Publish(context.Background(), e))
	require.Len(t, fw.msgs, 1)

	msg := fw.msgs[0]
	require.Equal(t, e.NewsID.String(), string(msg.Key))
	require.Equal(t, e.At, msg.Time)

	var got map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	require.Equal(t, "comment.created", got["type"])
	require.Equal(t, "c-1", got["comment_id"])
	require.Equal(t, e.NewsID.String(), got["news_id"])
	require.Equal(t, e.AuthorID.String(), got["author_id"])

	require.NoError(t, p.Close())
	require.True(t, fw.closed)
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	t.Parallel()

	boom := errors.New("broker down")
	p := &KafkaPublisher{w: &fakeWriter{err: boom}}

	err := p.Publish(context.Background(), Event{Type: CommentDeleted})
	require.ErrorIs(t, err, boom)
}

func TestNewKafkaPublisher_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewKafkaPublisher(nil, "topic")
	require.Error(t, err)

	_, err = NewKafkaPublisher([]string{"localhost:9092"}, "")
	require.Error(t, err)

	p, err := NewKafkaPublisher([]string{"localhost:9092"}, "yanews.comments")
	require.NoError(t, err)
	require.NoError(t, p.Close())
}

func TestNoop(t *testing.T) {
	t.Parallel()

	var p Publisher = Noop{}
	require.NoError(t, p.Publish(context.Background(), Event{}))
	require.NoError(t, p.Close())
}
