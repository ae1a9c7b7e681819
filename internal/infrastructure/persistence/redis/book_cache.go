package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xiebiao/books-api/internal/domain/book"
	"github.com/xiebiao/books-api/pkg/circuitbreaker"
	"github.com/xiebiao/books-api/pkg/metrics"
)

// 失效相关参数
const (
	// invalidateTimeout 写库成功后删除缓存的超时，不受请求ctx取消影响
	invalidateTimeout = 2 * time.Second

	// versionTTL 版本号key的过期时间，远大于一次回源读取的耗时
	versionTTL = 24 * time.Hour
)

// setIfVersion 仅当版本号与回源前读到的一致时才回填缓存
// KEYS[1]=book:{isbn} KEYS[2]=book:{isbn}:ver ARGV[1]=版本号 ARGV[2]=值 ARGV[3]=TTL(毫秒)
var setIfVersion = redis.NewScript(`
local current = redis.call("GET", KEYS[2]) or "0"
if current ~= ARGV[1] then
	return 0
end
redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
return 1
`)

// cachedBookRepository 带Redis缓存的图书仓储（装饰器）
//
// 缓存策略：Cache-Aside（旁路缓存）
//   - 读：MGET同时取缓存值和版本号，未命中再查数据库，版本号未变才回填
//   - 写：先更新数据库，再在一个事务里递增版本号并删除缓存
//   - 列表不缓存，只缓存单本图书
//
// 版本号保证"慢读取"不会在失效之后把旧数据写回缓存。
// 删除缓存失败的ISBN记在pending中，在本进程内绕过缓存直到删除成功或旧数据过期。
// 读取经过熔断器，Redis故障时直接回源数据库。
type cachedBookRepository struct {
	next    book.Repository
	client  *redis.Client
	ttl     time.Duration
	breaker *circuitbreaker.CircuitBreaker
	logger  *zap.Logger

	pending sync.Map // isbn → time.Time（旧缓存最晚的过期时间）
}

// NewCachedBookRepository 创建带缓存的图书仓储
func NewCachedBookRepository(next book.Repository, client *redis.Client, ttl time.Duration, breaker *circuitbreaker.CircuitBreaker, logger *zap.Logger) book.Repository {
	metrics.InitMetrics()
	return &cachedBookRepository{
		next:    next,
		client:  client,
		ttl:     ttl,
		breaker: breaker,
		logger:  logger,
	}
}

// cachedBook 缓存中的图书结构（JSON）
type cachedBook struct {
	ISBN      string `json:"isbn"`
	AmazonURL string `json:"amazon_url"`
	Author    string `json:"author"`
	Language  string `json:"language"`
	Pages     int    `json:"pages"`
	Publisher string `json:"publisher"`
	Title     string `json:"title"`
	Year      int    `json:"year"`
}

// List 列表直接查询数据库
func (r *cachedBookRepository) List(ctx context.Context) ([]*book.Book, error) {
	return r.next.List(ctx)
}

// FindByISBN 先查缓存，未命中再查数据库
func (r *cachedBookRepository) FindByISBN(ctx context.Context, isbn string) (*book.Book, error) {
	if r.stale(ctx, isbn) {
		r.record("skipped")
		return r.next.FindByISBN(ctx, isbn)
	}

	b, version, ok := r.get(ctx, isbn)
	if b != nil {
		return b, nil
	}

	b, err := r.next.FindByISBN(ctx, isbn)
	if err != nil {
		return nil, err
	}

	// 读取缓存失败时拿不到版本号，不回填
	if ok {
		r.set(ctx, b, version)
	}
	return b, nil
}

// Create 创建图书（新记录没有缓存，无需处理）
func (r *cachedBookRepository) Create(ctx context.Context, b *book.Book) error {
	return r.next.Create(ctx, b)
}

// Update 更新数据库后删除缓存
func (r *cachedBookRepository) Update(ctx context.Context, isbn string, b *book.Book) error {
	if err := r.next.Update(ctx, isbn, b); err != nil {
		return err
	}
	r.invalidate(ctx, isbn)
	return nil
}

// Delete 删除数据库记录后删除缓存
func (r *cachedBookRepository) Delete(ctx context.Context, isbn string) error {
	if err := r.next.Delete(ctx, isbn); err != nil {
		return err
	}
	r.invalidate(ctx, isbn)
	return nil
}

// get 读取缓存值和版本号
// 返回值：命中的图书（未命中为nil）、版本号、Redis是否可用
func (r *cachedBookRepository) get(ctx context.Context, isbn string) (*book.Book, string, bool) {
	var vals []interface{}
	err := r.breaker.Execute(func() error {
		var err error
		vals, err = r.client.MGet(ctx, bookKey(isbn), versionKey(isbn)).Result()
		return err
	})

	switch {
	case errors.Is(err, circuitbreaker.ErrOpenState):
		r.record("skipped")
		return nil, "", false
	case err != nil:
		r.record("error")
		r.logger.Warn("读取图书缓存失败", zap.String("isbn", isbn), zap.Error(err))
		return nil, "", false
	}

	version := "0"
	if v, ok := vals[1].(string); ok {
		version = v
	}

	val, ok := vals[0].(string)
	if !ok {
		r.record("miss")
		return nil, version, true
	}

	var cb cachedBook
	if err := json.Unmarshal([]byte(val), &cb); err != nil {
		r.record("error")
		r.logger.Warn("图书缓存反序列化失败", zap.String("isbn", isbn), zap.Error(err))
		return nil, version, true
	}

	r.record("hit")
	return fromCached(&cb), version, true
}

// set 版本号未变化时回填缓存，失败只记录日志
func (r *cachedBookRepository) set(ctx context.Context, b *book.Book, version string) {
	val, err := json.Marshal(toCached(b))
	if err != nil {
		return
	}

	err = r.breaker.Execute(func() error {
		keys := []string{bookKey(b.ISBN), versionKey(b.ISBN)}
		return setIfVersion.Run(ctx, r.client, keys, version, val, r.ttl.Milliseconds()).Err()
	})
	if err != nil && !errors.Is(err, circuitbreaker.ErrOpenState) {
		r.logger.Warn("写入图书缓存失败", zap.String("isbn", b.ISBN), zap.Error(err))
	}
}

// invalidate 递增版本号并删除缓存
// 数据库已经写入成功，请求ctx被取消也要完成删除；熔断器打开时同样直接尝试
func (r *cachedBookRepository) invalidate(ctx context.Context, isbn string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), invalidateTimeout)
	defer cancel()

	if err := r.evict(ctx, isbn); err != nil {
		r.pending.Store(isbn, time.Now().Add(r.ttl))
		r.logger.Error("删除图书缓存失败，本进程内绕过缓存", zap.String("isbn", isbn), zap.Error(err))
		return
	}
	r.pending.Delete(isbn)
}

// stale 该ISBN是否有尚未成功删除的旧缓存
// 每次读取都经熔断器重试删除，成功后恢复正常读写
func (r *cachedBookRepository) stale(ctx context.Context, isbn string) bool {
	v, ok := r.pending.Load(isbn)
	if !ok {
		return false
	}
	if time.Now().After(v.(time.Time)) {
		// 旧缓存已经过期
		r.pending.CompareAndDelete(isbn, v)
		return false
	}

	err := r.breaker.Execute(func() error {
		return r.evict(ctx, isbn)
	})
	if err != nil {
		return true
	}
	r.pending.CompareAndDelete(isbn, v)
	return false
}

func (r *cachedBookRepository) evict(ctx context.Context, isbn string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, versionKey(isbn))
		pipe.Expire(ctx, versionKey(isbn), versionTTL)
		pipe.Del(ctx, bookKey(isbn))
		return nil
	})
	return err
}

func (r *cachedBookRepository) record(result string) {
	metrics.IncCounterVec(metrics.CacheRequestsTotal, map[string]string{"result": result})
}

// versionKey 版本号key：book:{isbn}:ver
func versionKey(isbn string) string {
	return fmt.Sprintf("book:%s:ver", isbn)
}

// bookKey 缓存key：book:{isbn}
func bookKey(isbn string) string {
	return fmt.Sprintf("book:%s", isbn)
}

func toCached(b *book.Book) *cachedBook {
	return &cachedBook{
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

func fromCached(cb *cachedBook) *book.Book {
	return &book.Book{
		ISBN:      cb.ISBN,
		AmazonURL: cb.AmazonURL,
		Author:    cb.Author,
		Language:  cb.Language,
		Pages:     cb.Pages,
		Publisher: cb.Publisher,
		Title:     cb.Title,
		Year:      cb.Year,
	}
}
