package book

import (
	"context"
	"time"
)

// EventType 图书变更事件类型(同时作为消息的routing key)
type EventType string

const (
	EventCreated EventType = "book.created"
	EventUpdated EventType = "book.updated"
	EventDeleted EventType = "book.deleted"
)

// Event 图书变更事件
// 删除事件不携带Book
type Event struct {
	Type       EventType
	ISBN       string
	Book       *Book
	OccurredAt time.Time
}

// NewEvent 创建事件
func NewEvent(eventType EventType, isbn string, book *Book) Event {
	return Event{
		Type:       eventType,
		ISBN:       isbn,
		Book:       book,
		OccurredAt: time.Now().UTC(),
	}
}

// EventPublisher 事件发布接口(由messaging层实现)
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher 不发布任何事件(未启用消息队列时使用)
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
