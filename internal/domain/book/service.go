package book

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/books-api/pkg/metrics"
	"github.com/xiebiao/books-api/pkg/tracing"
)

// Service 图书领域服务接口
// 设计说明:
// 1. 领域服务编排仓储调用,并负责指标、追踪和变更事件
// 2. Schema校验在接口层完成,进入服务的Book已经是合法数据
type Service interface {
	// ListBooks 查询全部图书
	ListBooks(ctx context.Context) ([]*Book, error)

	// GetBook 根据ISBN获取图书
	GetBook(ctx context.Context, isbn string) (*Book, error)

	// CreateBook 创建图书
	// 业务规则:ISBN不能重复
	CreateBook(ctx context.Context, book *Book) (*Book, error)

	// UpdateBook 整体替换图书信息
	// 业务规则:路径中的ISBN为准,记录必须已存在(不做upsert)
	UpdateBook(ctx context.Context, isbn string, book *Book) (*Book, error)

	// DeleteBook 删除图书
	DeleteBook(ctx context.Context, isbn string) error
}

// service 领域服务实现
type service struct {
	repo      Repository
	publisher EventPublisher
	logger    *zap.Logger
}

// NewService 创建图书领域服务
// publisher为nil时不发布事件
func NewService(repo Repository, publisher EventPublisher, logger *zap.Logger) Service {
	metrics.InitMetrics()
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &service{repo: repo, publisher: publisher, logger: logger}
}

// ListBooks 查询全部图书
func (s *service) ListBooks(ctx context.Context) ([]*Book, error) {
	var books []*Book
	err := s.observe(ctx, "list", func(ctx context.Context) error {
		var err error
		books, err = s.repo.List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	if books == nil {
		books = []*Book{}
	}
	return books, nil
}

// GetBook 根据ISBN获取图书
func (s *service) GetBook(ctx context.Context, isbn string) (*Book, error) {
	var book *Book
	err := s.observe(ctx, "get", func(ctx context.Context) error {
		var err error
		book, err = s.repo.FindByISBN(ctx, isbn)
		return err
	})
	if err != nil {
		return nil, err
	}
	return book, nil
}

// CreateBook 创建图书
func (s *service) CreateBook(ctx context.Context, book *Book) (*Book, error) {
	err := s.observe(ctx, "create", func(ctx context.Context) error {
		return s.repo.Create(ctx, book)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, NewEvent(EventCreated, book.ISBN, book))
	return book, nil
}

// UpdateBook 更新图书
func (s *service) UpdateBook(ctx context.Context, isbn string, book *Book) (*Book, error) {
	updated := book.WithISBN(isbn)
	err := s.observe(ctx, "update", func(ctx context.Context) error {
		return s.repo.Update(ctx, isbn, updated)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, NewEvent(EventUpdated, isbn, updated))
	return updated, nil
}

// DeleteBook 删除图书
func (s *service) DeleteBook(ctx context.Context, isbn string) error {
	err := s.observe(ctx, "delete", func(ctx context.Context) error {
		return s.repo.Delete(ctx, isbn)
	})
	if err != nil {
		return err
	}

	s.publish(ctx, NewEvent(EventDeleted, isbn, nil))
	return nil
}

// observe 为一次仓储调用记录Span、耗时和结果
func (s *service) observe(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	ctx, span := tracing.StartSpan(ctx, "BookService."+operation)
	defer span.End()

	start := time.Now()
	err := fn(ctx)

	metrics.ObserveHistogramVec(metrics.BookOperationDuration,
		map[string]string{"operation": operation}, time.Since(start).Seconds())
	metrics.IncCounterVec(metrics.BookOperationsTotal,
		map[string]string{"operation": operation, "result": resultOf(err)})

	// 404/409属于正常业务结果,不标记Span失败
	if resultOf(err) == "error" {
		tracing.RecordError(span, err)
	}
	return err
}

// publish 发布变更事件
// 发布失败只记录日志,不影响HTTP请求的结果
func (s *service) publish(ctx context.Context, event Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("图书事件发布失败",
			zap.String("type", string(event.Type)),
			zap.String("isbn", event.ISBN),
			zap.Error(err),
		)
	}
}

// resultOf 指标中的result标签
func resultOf(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrBookNotFound):
		return "not_found"
	case errors.Is(err, ErrISBNDuplicate):
		return "conflict"
	default:
		return "error"
	}
}
