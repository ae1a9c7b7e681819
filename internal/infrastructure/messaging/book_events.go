// Package messaging 将图书领域事件发布到RabbitMQ
package messaging

import (
	"context"
	"time"

	"github.com/xiebiao/books-api/internal/domain/book"
	"github.com/xiebiao/books-api/pkg/tracing"
)

// Publisher 消息发布能力（由pkg/mq.Publisher实现）
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// BookEventPublisher 实现book.EventPublisher
// routing key即事件类型（book.created / book.updated / book.deleted）
type BookEventPublisher struct {
	publisher Publisher
}

// NewBookEventPublisher 创建图书事件发布器
func NewBookEventPublisher(publisher Publisher) *BookEventPublisher {
	return &BookEventPublisher{publisher: publisher}
}

// BookEventMessage 消息体
type BookEventMessage struct {
	Type       string       `json:"type"`
	ISBN       string       `json:"isbn"`
	Book       *BookPayload `json:"book,omitempty"`
	OccurredAt time.Time    `json:"occurred_at"`
}

// BookPayload 事件中的图书数据
type BookPayload struct {
	ISBN      string `json:"isbn"`
	AmazonURL string `json:"amazon_url"`
	Author    string `json:"author"`
	Language  string `json:"language"`
	Pages     int    `json:"pages"`
	Publisher string `json:"publisher"`
	Title     string `json:"title"`
	Year      int    `json:"year"`
}

// Publish 发布图书事件
func (p *BookEventPublisher) Publish(ctx context.Context, event book.Event) error {
	ctx, span := tracing.StartSpan(ctx, "BookEventPublisher.Publish")
	defer span.End()

	err := p.publisher.Publish(ctx, string(event.Type), NewBookEventMessage(event))
	tracing.RecordError(span, err)
	return err
}

// NewBookEventMessage 领域事件 → 消息体
func NewBookEventMessage(event book.Event) BookEventMessage {
	msg := BookEventMessage{
		Type:       string(event.Type),
		ISBN:       event.ISBN,
		OccurredAt: event.OccurredAt,
	}
	if b := event.Book; b != nil {
		msg.Book = &BookPayload{
			ISBN:      b.ISBN,
			AmazonURL: b.AmazonURL,
			Author:    b.Author,
			Language:  b.Language,
			Pages:     b.Pages,
			Publisher: b.Publisher,
			Title:     b.Title,
			Year:      b.Year,
		}
	}
	return msg
}
