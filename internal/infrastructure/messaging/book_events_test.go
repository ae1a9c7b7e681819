package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/books-api/internal/domain/book"
)

type fakePublisher struct {
	routingKey string
	message    interface{}
	err        error
}

func (f *fakePublisher) Publish(ctx context.Context, routingKey string, message interface{}) error {
	f.routingKey = routingKey
	f.message = message
	return f.err
}

func TestBookEventPublisher_Created(t *testing.T) {
	fake := &fakePublisher{}
	p := NewBookEventPublisher(fake)

	event := book.Event{
		Type: book.EventCreated,
		ISBN: "0691161518",
		Book: &book.Book{
			ISBN: "0691161518", AmazonURL: "http://a.co/eobPtX2", Author: "Matthew Lane",
			Language: "english", Pages: 264, Publisher: "Princeton University Press",
			Title: "Power-Up", Year: 2017,
		},
		OccurredAt: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC),
	}
	require.NoError(t, p.Publish(context.Background(), event))

	assert.Equal(t, "book.created", fake.routingKey)

	body, err := json.Marshal(fake.message)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "book.created",
		"isbn": "0691161518",
		"book": {
			"isbn": "0691161518",
			"amazon_url": "http://a.co/eobPtX2",
			"author": "Matthew Lane",
			"language": "english",
			"pages": 264,
			"publisher": "Princeton University Press",
			"title": "Power-Up",
			"year": 2017
		},
		"occurred_at": "2024-05-01T08:00:00Z"
	}`, string(body))
}

func TestBookEventPublisher_DeletedOmitsBook(t *testing.T) {
	fake := &fakePublisher{}
	p := NewBookEventPublisher(fake)

	require.NoError(t, p.Publish(context.Background(), book.NewEvent(book.EventDeleted, "9", nil)))

	assert.Equal(t, "book.deleted", fake.routingKey)
	body, err := json.Marshal(fake.message)
	require.NoError(t, err)
	assert.NotContains(t, string(body), `"book"`)
}

func TestBookEventPublisher_Error(t *testing.T) {
	failure := errors.New("channel closed")
	p := NewBookEventPublisher(&fakePublisher{err: failure})

	err := p.Publish(context.Background(), book.NewEvent(book.EventUpdated, "1", nil))
	assert.ErrorIs(t, err, failure)
}
