package mq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/books-api/pkg/metrics"
)

// fakeChannel 记录发布的消息，不连接真实的RabbitMQ
type fakeChannel struct {
	err       error
	exchange  string
	key       string
	published []amqp.Publishing
	closed    bool
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.exchange = exchange
	f.key = key
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

type testEvent struct {
	Type string `json:"type"`
	ISBN string `json:"isbn"`
}

func newTestPublisher(ch *fakeChannel) *Publisher {
	metrics.InitMetrics()
	return &Publisher{channel: ch, exchange: "books.test.events", logger: zap.NewNop()}
}

func TestPublisher_Publish(t *testing.T) {
	ch := &fakeChannel{}
	p := newTestPublisher(ch)
	counter := metrics.MessagesPublishedTotal.WithLabelValues("books.test.events", "book.created", "success")
	before := testutil.ToFloat64(counter)

	err := p.Publish(context.Background(), "book.created", testEvent{Type: "book.created", ISBN: "0691161518"})
	require.NoError(t, err)

	require.Len(t, ch.published, 1)
	assert.Equal(t, "books.test.events", ch.exchange)
	assert.Equal(t, "book.created", ch.key)

	var got testEvent
	require.NoError(t, json.Unmarshal(ch.published[0].Body, &got))
	assert.Equal(t, "0691161518", got.ISBN)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestPublisher_PublishFailure(t *testing.T) {
	ch := &fakeChannel{err: amqp.ErrClosed}
	p := newTestPublisher(ch)
	counter := metrics.MessagesPublishedTotal.WithLabelValues("books.test.events", "book.deleted", "failure")
	before := testutil.ToFloat64(counter)

	err := p.Publish(context.Background(), "book.deleted", testEvent{Type: "book.deleted"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, amqp.ErrClosed))
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestPublisher_PublishUnencodable(t *testing.T) {
	ch := &fakeChannel{}
	p := newTestPublisher(ch)

	err := p.Publish(context.Background(), "book.created", make(chan int))
	require.Error(t, err)
	assert.Empty(t, ch.published)
}

func TestPublisher_Close(t *testing.T) {
	ch := &fakeChannel{}
	p := newTestPublisher(ch)

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestNewPublishing(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	msg, err := NewPublishing(map[string]string{"isbn": "0691161518"}, now)
	require.NoError(t, err)

	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, now, msg.Timestamp)
	assert.JSONEq(t, `{"isbn":"0691161518"}`, string(msg.Body))
}
