package book

import (
	"context"
)

// Repository 图书仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现(sqldb、redis缓存装饰器)
// 2. 每个方法对应一条SQL语句,原子性由数据库保证
// 3. 记录不存在时返回ErrBookNotFound(可用errors.Is判断),不要返回nil, nil
type Repository interface {
	// List 查询全部图书(按书名、ISBN排序,结果稳定)
	List(ctx context.Context) ([]*Book, error)

	// FindByISBN 根据ISBN查找图书
	FindByISBN(ctx context.Context, isbn string) (*Book, error)

	// Create 创建图书,ISBN已存在时返回ErrISBNDuplicate(不会覆盖)
	Create(ctx context.Context, book *Book) error

	// Update 整体替换isbn对应记录的非主键字段
	// 记录不存在时返回ErrBookNotFound(不会插入新记录)
	Update(ctx context.Context, isbn string, book *Book) error

	// Delete 删除图书(物理删除)
	Delete(ctx context.Context, isbn string) error
}
