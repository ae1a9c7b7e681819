package dto

import "github.com/xiebiao/books-api/internal/domain/book"

// BookRequest HTTP创建/更新图书请求
// 结构校验(必填、类型)已由book.ValidateSchema完成,这里只声明取值约束
// validator tag说明:
// - min=1: 页数必须为正整数
type BookRequest struct {
	ISBN      string `json:"isbn" example:"0691161518"`
	AmazonURL string `json:"amazon_url" example:"http://a.co/eobPtX2"`
	Author    string `json:"author" example:"Matthew Lane"`
	Language  string `json:"language" example:"english"`
	Pages     int    `json:"pages" binding:"min=1" example:"264"`
	Publisher string `json:"publisher" example:"Princeton University Press"`
	Title     string `json:"title" example:"Power-Up: Unlocking the Hidden Mathematics in Video Games"`
	Year      int    `json:"year" example:"2017"`
}

// NewBookRequest 从已通过book.ValidateSchema的JSON对象构建请求
// 只读取与Schema字段名完全一致的键，大小写不同的键视为未知字段忽略
func NewBookRequest(obj map[string]interface{}) BookRequest {
	str := func(name string) string {
		s, _ := obj[name].(string)
		return s
	}
	num := func(name string) int {
		n, _ := book.IntegerValue(obj[name])
		return n
	}

	return BookRequest{
		ISBN:      str("isbn"),
		AmazonURL: str("amazon_url"),
		Author:    str("author"),
		Language:  str("language"),
		Pages:     num("pages"),
		Publisher: str("publisher"),
		Title:     str("title"),
		Year:      num("year"),
	}
}

// ToEntity 请求 → 领域实体
func (r *BookRequest) ToEntity() *book.Book {
	return &book.Book{
		ISBN:      r.ISBN,
		AmazonURL: r.AmazonURL,
		Author:    r.Author,
		Language:  r.Language,
		Pages:     r.Pages,
		Publisher: r.Publisher,
		Title:     r.Title,
		Year:      r.Year,
	}
}

// BookResponse HTTP图书响应
// 字段顺序即JSON输出顺序
type BookResponse struct {
	ISBN      string `json:"isbn" example:"0691161518"`
	AmazonURL string `json:"amazon_url" example:"http://a.co/eobPtX2"`
	Author    string `json:"author" example:"Matthew Lane"`
	Language  string `json:"language" example:"english"`
	Pages     int    `json:"pages" example:"264"`
	Publisher string `json:"publisher" example:"Princeton University Press"`
	Title     string `json:"title" example:"Power-Up: Unlocking the Hidden Mathematics in Video Games"`
	Year      int    `json:"year" example:"2017"`
}

// NewBookResponse 领域实体 → 响应
func NewBookResponse(b *book.Book) BookResponse {
	return BookResponse{
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

// BookEnvelope 单本图书响应：{"book": {...}}
type BookEnvelope struct {
	Book BookResponse `json:"book"`
}

// BooksEnvelope 图书列表响应：{"books": [...]}
type BooksEnvelope struct {
	Books []BookResponse `json:"books"`
}

// NewBooksEnvelope 列表为空时输出[]而不是null
func NewBooksEnvelope(books []*book.Book) BooksEnvelope {
	items := make([]BookResponse, 0, len(books))
	for _, b := range books {
		items = append(items, NewBookResponse(b))
	}
	return BooksEnvelope{Books: items}
}

// MessageResponse 只包含提示信息的响应
type MessageResponse struct {
	Message string `json:"message" example:"Book deleted"`
}

// ErrorBody 错误详情（仅用于API文档）
// message为字符串,Schema校验失败时为字符串列表
type ErrorBody struct {
	Message interface{} `json:"message" swaggertype:"string" example:"There is no book with an isbn '0'"`
	Status  int         `json:"status" example:"404"`
}

// ErrorResponse 错误响应（仅用于API文档）
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}
