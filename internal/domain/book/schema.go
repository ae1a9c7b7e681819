package book

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"unicode/utf8"
)

// 图书Schema校验
//
// 输入是请求体解码后的任意JSON值(使用json.Decoder.UseNumber解码,数字为json.Number)。
// 校验顺序固定,保证同一输入总是得到相同的错误列表:
//  1. 请求体必须是对象
//  2. 已提供字段的类型和长度(按字段声明顺序)
//  3. 必填字段(按字段声明顺序)
//
// 取值约束(如pages>=1)在类型正确后由接口层的binding校验器检查。

// FieldType Schema中的字段类型
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeInteger FieldType = "integer"
)

// Field Schema字段定义
type Field struct {
	Name      string
	Type      FieldType
	MaxLength int // 字符串最大字符数，0表示不限制
}

// MaxISBNLength ISBN最大长度，与books.isbn列宽一致
const MaxISBNLength = 32

// Schema 图书字段表(声明顺序即错误输出顺序)
var Schema = []Field{
	{Name: "isbn", Type: TypeString, MaxLength: MaxISBNLength},
	{Name: "amazon_url", Type: TypeString},
	{Name: "author", Type: TypeString},
	{Name: "language", Type: TypeString},
	{Name: "pages", Type: TypeInteger},
	{Name: "publisher", Type: TypeString},
	{Name: "title", Type: TypeString},
	{Name: "year", Type: TypeInteger},
}

// ValidateSchema 校验候选图书数据,返回按顺序排列的错误信息(合法时返回nil)
// 未知字段忽略;null视为已提供但类型错误
func ValidateSchema(candidate interface{}) []string {
	obj, ok := candidate.(map[string]interface{})
	if !ok {
		return []string{"instance is not of a type(s) object"}
	}

	var violations []string

	for _, f := range Schema {
		v, present := obj[f.Name]
		if !present {
			continue
		}
		if !hasType(v, f.Type) {
			violations = append(violations, fmt.Sprintf("instance.%s is not of a type(s) %s", f.Name, f.Type))
			continue
		}
		if str, ok := v.(string); ok && f.MaxLength > 0 && utf8.RuneCountInString(str) > f.MaxLength {
			violations = append(violations, fmt.Sprintf("instance.%s does not meet maximum length of %d", f.Name, f.MaxLength))
		}
	}

	for _, f := range Schema {
		if _, present := obj[f.Name]; !present {
			violations = append(violations, fmt.Sprintf("instance requires property %q", f.Name))
		}
	}

	return violations
}

// hasType 判断JSON值是否为指定类型
func hasType(v interface{}, t FieldType) bool {
	switch t {
	case TypeString:
		_, ok := v.(string)
		return ok
	case TypeInteger:
		return isInteger(v)
	default:
		return false
	}
}

// isInteger 整数判断
func isInteger(v interface{}) bool {
	_, ok := IntegerValue(v)
	return ok
}

// IntegerValue 将JSON数值转换为int
// 小数部分为0的数值(264.0、1e2)视为整数；超出INTEGER(32位)范围视为类型错误
func IntegerValue(v interface{}) (int, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return fromInt64(i)
		}
		f, err := strconv.ParseFloat(n.String(), 64)
		if err != nil {
			return 0, false
		}
		return fromFloat(f)
	case float64:
		return fromFloat(n)
	case int:
		return fromInt64(int64(n))
	case int64:
		return fromInt64(n)
	default:
		return 0, false
	}
}

func fromInt64(i int64) (int, bool) {
	if i < math.MinInt32 || i > math.MaxInt32 {
		return 0, false
	}
	return int(i), true
}

func fromFloat(f float64) (int, bool) {
	if f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}
