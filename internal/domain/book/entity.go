package book

// Book 图书实体(聚合根)
// 设计说明:
// 1. ISBN是主键,记录创建后不可修改(更新时以路径参数中的ISBN定位记录)
// 2. 其余七个字段在创建和更新时都必须提供(整体替换,不支持部分更新)
// 3. Pages必须为正整数,Year为整数
type Book struct {
	ISBN      string // ISBN号(国际标准书号)
	AmazonURL string // 亚马逊链接
	Author    string // 作者
	Language  string // 语言
	Pages     int    // 页数
	Publisher string // 出版社
	Title     string // 书名
	Year      int    // 出版年份
}

// WithISBN 返回以指定ISBN为主键的副本
// 更新时路径参数是权威值,请求体中的isbn不用于定位记录
func (b *Book) WithISBN(isbn string) *Book {
	cp := *b
	cp.ISBN = isbn
	return &cp
}
