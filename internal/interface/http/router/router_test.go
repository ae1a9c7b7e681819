package router_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/xiebiao/books-api/internal/domain/book"
	"github.com/xiebiao/books-api/internal/infrastructure/config"
	"github.com/xiebiao/books-api/internal/infrastructure/persistence/sqldb"
	"github.com/xiebiao/books-api/internal/interface/http/handler"
	"github.com/xiebiao/books-api/internal/interface/http/router"
)

const exampleBook = `{
	"isbn": "0691161518",
	"amazon_url": "http://a.co/eobPtX2",
	"author": "Matthew Lane",
	"language": "english",
	"pages": 264,
	"publisher": "Princeton University Press",
	"title": "Power-Up: Unlocking the Hidden Mathematics in Video Games",
	"year": 2017
}`

const invalidBook = `{
	"author": "John Doe",
	"language": "english",
	"pages": 1100,
	"title": "Different Dummy Data",
	"year": 2023
}`

const invalidBookErrors = `{
	"error": {
		"message": [
			"instance requires property \"isbn\"",
			"instance requires property \"amazon_url\"",
			"instance requires property \"publisher\""
		],
		"status": 400
	}
}`

const updatedBook = `{
	"isbn": "0691161518",
	"amazon_url": "http://a.co/eobPtX2",
	"author": "Matthew Lane",
	"language": "english",
	"pages": 300,
	"publisher": "Princeton University Press",
	"title": "Power-Up: Unlocking the Hidden Mathematics in Video Games, 2ND EDITION",
	"year": 2023
}`

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Mode: gin.TestMode},
		Database: config.DatabaseConfig{
			Driver:      "sqlite",
			DBName:      ":memory:",
			AutoMigrate: true,
		},
		Metrics: config.MetricsConfig{Enabled: true},
	}
}

// newServer 使用内存SQLite组装完整的HTTP服务，并预置一本图书
func newServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	cfg := testConfig()
	logger := zap.NewNop()

	db, err := sqldb.NewDB(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqldb.Close(db) })

	svc := book.NewService(sqldb.NewBookRepository(db), nil, logger)
	health := handler.NewHealthHandler(map[string]handler.Pinger{
		"database": func(ctx context.Context) error { return sqldb.Ping(ctx, db) },
	})
	r := router.NewEngine(cfg, logger, handler.NewBookHandler(svc), health)

	w := do(r, http.MethodPost, "/books", exampleBook)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	return r, db
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListBooks(t *testing.T) {
	r, _ := newServer(t)

	w := do(r, http.MethodGet, "/books", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"books": [`+exampleBook+`]}`, w.Body.String())
}

func TestListBooks_Empty(t *testing.T) {
	r, _ := newServer(t)
	require.Equal(t, http.StatusOK, do(r, http.MethodDelete, "/books/0691161518", "").Code)

	w := do(r, http.MethodGet, "/books", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"books": []}`, w.Body.String())
}

func TestGetBook(t *testing.T) {
	r, _ := newServer(t)

	t.Run("存在", func(t *testing.T) {
		w := do(r, http.MethodGet, "/books/0691161518", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"book": `+exampleBook+`}`, w.Body.String())
	})

	t.Run("不存在", func(t *testing.T) {
		w := do(r, http.MethodGet, "/books/0", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error": {"message": "There is no book with an isbn '0'", "status": 404}}`, w.Body.String())
	})
}

func TestCreateBook(t *testing.T) {
	r, _ := newServer(t)

	t.Run("创建成功", func(t *testing.T) {
		body := `{
			"isbn": "1593279507",
			"amazon_url": "https://a.co/d/a2Ye3nz",
			"author": "Marijn Haverbeke",
			"language": "english",
			"pages": 472,
			"publisher": "No Starch Press",
			"title": "Eloquent JavaScript, A Modern Introduction to Programming",
			"year": 2018
		}`
		w := do(r, http.MethodPost, "/books", body)
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.JSONEq(t, `{"book": `+body+`}`, w.Body.String())

		w = do(r, http.MethodGet, "/books/1593279507", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"book": `+body+`}`, w.Body.String())
	})

	t.Run("Schema不合法返回错误列表", func(t *testing.T) {
		w := do(r, http.MethodPost, "/books", invalidBook)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, invalidBookErrors, w.Body.String())
	})

	t.Run("ISBN重复返回409", func(t *testing.T) {
		changed := strings.Replace(exampleBook, `"pages": 264`, `"pages": 999`, 1)
		w := do(r, http.MethodPost, "/books", changed)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.JSONEq(t, `{"error": {"message": "There is already a book with an isbn '0691161518'", "status": 409}}`, w.Body.String())

		w = do(r, http.MethodGet, "/books/0691161518", "")
		assert.JSONEq(t, `{"book": `+exampleBook+`}`, w.Body.String(), "原记录不变")
	})
}

func TestCreateBook_BodyErrors(t *testing.T) {
	r, _ := newServer(t)

	tests := []struct {
		name   string
		body   string
		status int
		want   string
	}{
		{
			name:   "非法JSON",
			body:   `{"isbn": `,
			status: http.StatusBadRequest,
			want:   `{"error": {"message": "Request body is not valid JSON", "status": 400}}`,
		},
		{
			name:   "数组",
			body:   `[]`,
			status: http.StatusBadRequest,
			want:   `{"error": {"message": ["instance is not of a type(s) object"], "status": 400}}`,
		},
		{
			name:   "类型错误",
			body:   strings.Replace(exampleBook, `"pages": 264`, `"pages": "264"`, 1),
			status: http.StatusBadRequest,
			want:   `{"error": {"message": ["instance.pages is not of a type(s) integer"], "status": 400}}`,
		},
		{
			name:   "页数必须为正数",
			body:   strings.Replace(exampleBook, `"pages": 264`, `"pages": 0`, 1),
			status: http.StatusBadRequest,
			want:   `{"error": {"message": ["instance.pages must be greater than or equal to 1"], "status": 400}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodPost, "/books", tt.body)
			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, tt.want, w.Body.String())
		})
	}

	t.Run("空请求体", func(t *testing.T) {
		w := do(r, http.MethodPost, "/books", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `instance requires property \"year\"`)
	})
}

func TestCreateBook_CaseVariantKeysIgnored(t *testing.T) {
	r, _ := newServer(t)

	body := strings.Replace(exampleBook, `"isbn": "0691161518"`, `"isbn": "1111111111", "ISBN": "2222222222", "Pages": 1`, 1)
	w := do(r, http.MethodPost, "/books", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"isbn":"1111111111"`)
	assert.Contains(t, w.Body.String(), `"pages":264`)

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/books/1111111111", "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/books/2222222222", "").Code)

	t.Run("类型不同的大小写变体不影响校验", func(t *testing.T) {
		body := strings.Replace(exampleBook, `"isbn": "0691161518"`, `"isbn": "3333333333", "ISBN": 5`, 1)
		w := do(r, http.MethodPost, "/books", body)
		assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	})
}

func TestCreateBook_Limits(t *testing.T) {
	r, _ := newServer(t)

	t.Run("ISBN超长", func(t *testing.T) {
		long := strings.Repeat("9", 33)
		body := strings.Replace(exampleBook, `"isbn": "0691161518"`, `"isbn": "`+long+`"`, 1)
		w := do(r, http.MethodPost, "/books", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error": {"message": ["instance.isbn does not meet maximum length of 32"], "status": 400}}`, w.Body.String())
	})

	t.Run("小数部分为0的页数", func(t *testing.T) {
		body := strings.Replace(exampleBook, `"isbn": "0691161518"`, `"isbn": "4444444444"`, 1)
		body = strings.Replace(body, `"pages": 264`, `"pages": 264.0`, 1)
		w := do(r, http.MethodPost, "/books", body)
		assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), `"pages":264`)
	})

	t.Run("请求体过大返回413", func(t *testing.T) {
		padding := strings.Repeat("x", 101<<10)
		body := strings.Replace(exampleBook, `"isbn": "0691161518"`, `"isbn": "5555555555", "notes": "`+padding+`"`, 1)
		w := do(r, http.MethodPost, "/books", body)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.JSONEq(t, `{"error": {"message": "request entity too large", "status": 413}}`, w.Body.String())

		w = do(r, http.MethodPut, "/books/0691161518", body)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}

func TestUpdateBook(t *testing.T) {
	r, _ := newServer(t)

	t.Run("更新成功", func(t *testing.T) {
		w := do(r, http.MethodPut, "/books/0691161518", updatedBook)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"book": `+updatedBook+`}`, w.Body.String())

		w = do(r, http.MethodGet, "/books/0691161518", "")
		assert.JSONEq(t, `{"book": `+updatedBook+`}`, w.Body.String())
	})

	t.Run("Schema不合法返回错误列表", func(t *testing.T) {
		w := do(r, http.MethodPut, "/books/0691161518", invalidBook)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, invalidBookErrors, w.Body.String())
	})

	t.Run("Schema合法但ISBN不存在返回404", func(t *testing.T) {
		w := do(r, http.MethodPut, "/books/1", updatedBook)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error": {"message": "There is no book with an isbn '1'", "status": 404}}`, w.Body.String())

		w = do(r, http.MethodGet, "/books/1", "")
		assert.Equal(t, http.StatusNotFound, w.Code, "更新不会创建新记录")
	})

	t.Run("校验先于存在性检查", func(t *testing.T) {
		w := do(r, http.MethodPut, "/books/1", invalidBook)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("以路径中的ISBN为准", func(t *testing.T) {
		body := strings.Replace(updatedBook, `"isbn": "0691161518"`, `"isbn": "elsewhere"`, 1)
		w := do(r, http.MethodPut, "/books/0691161518", body)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"isbn":"0691161518"`)

		assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/books/elsewhere", "").Code)
	})
}

func TestDeleteBook(t *testing.T) {
	r, _ := newServer(t)

	w := do(r, http.MethodDelete, "/books/0691161518", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message": "Book deleted"}`, w.Body.String())

	w = do(r, http.MethodGet, "/books/0691161518", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodDelete, "/books/9", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error": {"message": "There is no book with an isbn '9'", "status": 404}}`, w.Body.String())
}

func TestNotFound(t *testing.T) {
	r, _ := newServer(t)
	notFound := `{"error": {"message": "Not Found", "status": 404}}`

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/nope"},
		{http.MethodPatch, "/books"},
		{http.MethodPost, "/books/0691161518"},
	} {
		w := do(r, tc.method, tc.path, "")
		assert.Equal(t, http.StatusNotFound, w.Code, tc.method+" "+tc.path)
		assert.JSONEq(t, notFound, w.Body.String())
	}
}

func TestOperationalRoutes(t *testing.T) {
	r, db := newServer(t)

	w := do(r, http.MethodGet, "/ping", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message": "pong"}`, w.Body.String())

	w = do(r, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")

	w = do(r, http.MethodGet, "/swagger/doc.json", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/books/{isbn}")

	require.NoError(t, sqldb.Close(db))
	w = do(r, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"error": {"message": "Service Unavailable", "status": 503}}`, w.Body.String())
}

func TestRequestID(t *testing.T) {
	r, _ := newServer(t)

	w := do(r, http.MethodGet, "/ping", "")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestHealthHandler_FailingDependency(t *testing.T) {
	cfg := testConfig()
	health := handler.NewHealthHandler(map[string]handler.Pinger{
		"redis": func(ctx context.Context) error { return errors.New("connection refused") },
	})
	r := router.NewEngine(cfg, zap.NewNop(), handler.NewBookHandler(nil), health)

	w := do(r, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
