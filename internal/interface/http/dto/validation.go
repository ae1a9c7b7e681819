package dto

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ValidationMessages 将validator的字段错误转换为与Schema校验一致的提示
// 例如：instance.pages must be greater than or equal to 1
func ValidationMessages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		messages = append(messages, fieldMessage(fe))
	}
	return messages
}

func fieldMessage(fe validator.FieldError) string {
	field := jsonName(fe)
	switch fe.Tag() {
	case "min":
		return fmt.Sprintf("instance.%s must be greater than or equal to %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("instance.%s must be less than or equal to %s", field, fe.Param())
	case "required":
		return fmt.Sprintf("instance requires property %q", field)
	default:
		return fmt.Sprintf("instance.%s does not satisfy %s", field, fe.Tag())
	}
}

// jsonNames 结构体字段名 → JSON名称
var jsonNames = map[string]string{
	"ISBN":      "isbn",
	"AmazonURL": "amazon_url",
	"Author":    "author",
	"Language":  "language",
	"Pages":     "pages",
	"Publisher": "publisher",
	"Title":     "title",
	"Year":      "year",
}

// jsonName 字段的JSON名称，未登记的字段使用结构体字段名
func jsonName(fe validator.FieldError) string {
	if name, ok := jsonNames[fe.StructField()]; ok {
		return name
	}
	return fe.Field()
}
