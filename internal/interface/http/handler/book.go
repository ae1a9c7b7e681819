package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/xiebiao/books-api/internal/domain/book"
	"github.com/xiebiao/books-api/internal/interface/http/dto"
	apperrors "github.com/xiebiao/books-api/pkg/errors"
	"github.com/xiebiao/books-api/pkg/response"
)

// BookHandler 图书HTTP处理器
// 每个方法返回Result或error,由response.Dispatcher统一渲染
type BookHandler struct {
	bookService book.Service
}

// NewBookHandler 创建图书处理器
func NewBookHandler(bookService book.Service) *BookHandler {
	return &BookHandler{
		bookService: bookService,
	}
}

// ListBooks 查询全部图书
// @Summary      图书列表
// @Description  返回全部图书,按书名排序
// @Tags         图书
// @Produce      json
// @Success      200 {object} dto.BooksEnvelope
// @Failure      500 {object} dto.ErrorResponse
// @Router       /books [get]
func (h *BookHandler) ListBooks(c *gin.Context) (*response.Result, error) {
	books, err := h.bookService.ListBooks(c.Request.Context())
	if err != nil {
		return nil, err
	}
	return response.OK(dto.NewBooksEnvelope(books)), nil
}

// GetBook 根据ISBN查询图书
// @Summary      图书详情
// @Tags         图书
// @Produce      json
// @Param        isbn path string true "ISBN"
// @Success      200 {object} dto.BookEnvelope
// @Failure      404 {object} dto.ErrorResponse "图书不存在"
// @Router       /books/{isbn} [get]
func (h *BookHandler) GetBook(c *gin.Context) (*response.Result, error) {
	b, err := h.bookService.GetBook(c.Request.Context(), c.Param("isbn"))
	if err != nil {
		return nil, err
	}
	return response.OK(dto.BookEnvelope{Book: dto.NewBookResponse(b)}), nil
}

// CreateBook 创建图书
// @Summary      创建图书
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        request body dto.BookRequest true "图书信息"
// @Success      201 {object} dto.BookEnvelope
// @Failure      400 {object} dto.ErrorResponse "Schema校验失败"
// @Failure      409 {object} dto.ErrorResponse "ISBN已存在"
// @Failure      413 {object} dto.ErrorResponse "请求体过大"
// @Router       /books [post]
func (h *BookHandler) CreateBook(c *gin.Context) (*response.Result, error) {
	// 1. Schema校验
	b, err := bindBook(c)
	if err != nil {
		return nil, err
	}

	// 2. 调用领域服务
	created, err := h.bookService.CreateBook(c.Request.Context(), b)
	if err != nil {
		return nil, err
	}

	return response.Created(dto.BookEnvelope{Book: dto.NewBookResponse(created)}), nil
}

// UpdateBook 整体替换图书信息
// 校验先于存在性检查:请求体不合法时即使ISBN不存在也返回400
// @Summary      更新图书
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        isbn    path string          true "ISBN"
// @Param        request body dto.BookRequest true "图书信息"
// @Success      200 {object} dto.BookEnvelope
// @Failure      400 {object} dto.ErrorResponse "Schema校验失败"
// @Failure      404 {object} dto.ErrorResponse "图书不存在"
// @Failure      413 {object} dto.ErrorResponse "请求体过大"
// @Router       /books/{isbn} [put]
func (h *BookHandler) UpdateBook(c *gin.Context) (*response.Result, error) {
	b, err := bindBook(c)
	if err != nil {
		return nil, err
	}

	updated, err := h.bookService.UpdateBook(c.Request.Context(), c.Param("isbn"), b)
	if err != nil {
		return nil, err
	}

	return response.OK(dto.BookEnvelope{Book: dto.NewBookResponse(updated)}), nil
}

// DeleteBook 删除图书
// @Summary      删除图书
// @Tags         图书
// @Produce      json
// @Param        isbn path string true "ISBN"
// @Success      200 {object} dto.MessageResponse
// @Failure      404 {object} dto.ErrorResponse "图书不存在"
// @Router       /books/{isbn} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) (*response.Result, error) {
	if err := h.bookService.DeleteBook(c.Request.Context(), c.Param("isbn")); err != nil {
		return nil, err
	}
	return response.OK(dto.MessageResponse{Message: "Book deleted"}), nil
}

// maxBodyBytes 请求体上限（100KB）
const maxBodyBytes = 100 << 10

// bindBook 解析并校验请求体
// 1. 请求体超过maxBodyBytes返回413；空请求体按{}处理；非法JSON返回400
// 2. book.ValidateSchema检查结构、类型和长度，返回完整的错误列表
// 3. 从校验过的对象构建dto.BookRequest，由binding校验器检查取值约束
func bindBook(c *gin.Context) (*book.Book, error) {
	raw, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, apperrors.ErrBodyTooLarge.WithCause(err)
		}
		return nil, apperrors.ErrBindError.WithCause(err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		raw = []byte("{}")
	}

	candidate, err := decodeJSON(raw)
	if err != nil {
		return nil, apperrors.ErrBindError.WithCause(err)
	}

	if violations := book.ValidateSchema(candidate); len(violations) > 0 {
		return nil, apperrors.NewWithDetails(apperrors.ErrCodeInvalidParams, violations)
	}

	req := dto.NewBookRequest(candidate.(map[string]interface{}))
	if err := binding.Validator.ValidateStruct(&req); err != nil {
		return nil, apperrors.NewWithDetails(apperrors.ErrCodeInvalidParams, dto.ValidationMessages(err))
	}

	return req.ToEntity(), nil
}

// decodeJSON 解码单个JSON值,数字保留为json.Number
func decodeJSON(raw []byte) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after JSON value")
	}
	return v, nil
}
