package book

import (
	"fmt"

	apperrors "github.com/xiebiao/books-api/pkg/errors"
)

// 图书领域错误定义
// 使用errors.Is按错误码判断,具体的提示信息由NewNotFoundError等函数带上ISBN
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "There is no book with that isbn")

	// ErrISBNDuplicate ISBN已存在
	ErrISBNDuplicate = apperrors.New(apperrors.ErrCodeISBNDuplicate, "There is already a book with that isbn")
)

// NewNotFoundError 指定ISBN的图书不存在
func NewNotFoundError(isbn string) error {
	return ErrBookNotFound.WithMessage(fmt.Sprintf("There is no book with an isbn '%s'", isbn))
}

// NewDuplicateError 指定ISBN的图书已存在
func NewDuplicateError(isbn string) error {
	return ErrISBNDuplicate.WithMessage(fmt.Sprintf("There is already a book with an isbn '%s'", isbn))
}
