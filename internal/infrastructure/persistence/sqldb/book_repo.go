package sqldb

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/xiebiao/books-api/internal/domain/book"
	apperrors "github.com/xiebiao/books-api/pkg/errors"
	"github.com/xiebiao/books-api/pkg/tracing"
)

// bookRepository 图书仓储实现(GORM)
// 设计说明:
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 处理数据库特定的错误(记录不存在、ISBN重复),转换为业务错误
// 4. 每个方法只执行一条SQL语句
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

// List 查询全部图书
func (r *bookRepository) List(ctx context.Context) ([]*book.Book, error) {
	ctx, span := startSpan(ctx, "List")
	defer span.End()

	var models []BookModel
	err := r.db.WithContext(ctx).Order("title").Order("isbn").Find(&models).Error
	if err != nil {
		tracing.RecordError(span, err)
		return nil, apperrors.ErrDatabaseError.WithCause(err)
	}

	books := make([]*book.Book, 0, len(models))
	for i := range models {
		books = append(books, toBookEntity(&models[i]))
	}
	return books, nil
}

// FindByISBN 根据ISBN查找图书
func (r *bookRepository) FindByISBN(ctx context.Context, isbn string) (*book.Book, error) {
	ctx, span := startSpan(ctx, "FindByISBN", attribute.String("book.isbn", isbn))
	defer span.End()

	var model BookModel
	err := r.db.WithContext(ctx).Where("isbn = ?", isbn).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.NewNotFoundError(isbn)
		}
		tracing.RecordError(span, err)
		return nil, apperrors.ErrDatabaseError.WithCause(err)
	}

	return toBookEntity(&model), nil
}

// Create 创建图书
func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	ctx, span := startSpan(ctx, "Create", attribute.String("book.isbn", b.ISBN))
	defer span.End()

	// 领域实体 → GORM模型
	model := toBookModel(b)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		// 检查是否为ISBN重复错误
		if isDuplicateError(err) {
			return book.NewDuplicateError(b.ISBN)
		}
		tracing.RecordError(span, err)
		return apperrors.ErrDatabaseError.WithCause(err)
	}
	return nil
}

// Update 整体替换图书信息
// 使用map更新,确保零值字段(如year=0)也会被写入
// RowsAffected为0说明记录不存在(mysql需要clientFoundRows=true)
func (r *bookRepository) Update(ctx context.Context, isbn string, b *book.Book) error {
	ctx, span := startSpan(ctx, "Update", attribute.String("book.isbn", isbn))
	defer span.End()

	result := r.db.WithContext(ctx).
		Model(&BookModel{}).
		Where("isbn = ?", isbn).
		Updates(map[string]interface{}{
			"amazon_url": b.AmazonURL,
			"author":     b.Author,
			"language":   b.Language,
			"pages":      b.Pages,
			"publisher":  b.Publisher,
			"title":      b.Title,
			"year":       b.Year,
		})
	if result.Error != nil {
		tracing.RecordError(span, result.Error)
		return apperrors.ErrDatabaseError.WithCause(result.Error)
	}
	if result.RowsAffected == 0 {
		return book.NewNotFoundError(isbn)
	}
	return nil
}

// Delete 删除图书(物理删除)
func (r *bookRepository) Delete(ctx context.Context, isbn string) error {
	ctx, span := startSpan(ctx, "Delete", attribute.String("book.isbn", isbn))
	defer span.End()

	result := r.db.WithContext(ctx).Where("isbn = ?", isbn).Delete(&BookModel{})
	if result.Error != nil {
		tracing.RecordError(span, result.Error)
		return apperrors.ErrDatabaseError.WithCause(result.Error)
	}
	if result.RowsAffected == 0 {
		return book.NewNotFoundError(isbn)
	}
	return nil
}

// startSpan 仓储层Span
func startSpan(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("db.sql.table", "books"))
	return tracing.StartSpan(ctx, "BookRepository."+op, trace.WithAttributes(attrs...))
}

// toBookModel 领域实体 → GORM模型
func toBookModel(b *book.Book) *BookModel {
	return &BookModel{
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

// toBookEntity GORM模型 → 领域实体
func toBookEntity(m *BookModel) *book.Book {
	return &book.Book{
		ISBN:      m.ISBN,
		AmazonURL: m.AmazonURL,
		Author:    m.Author,
		Language:  m.Language,
		Pages:     m.Pages,
		Publisher: m.Publisher,
		Title:     m.Title,
		Year:      m.Year,
	}
}
