package domain

import (
	"errors"
	"fmt"
)

// 错误分类：校验失败在任何写入之前抛出；AlreadyExecuted 是批量执行里的
// 软性条件；存储层错误原样向上包装
var (
	ErrNotFound        = errors.New("record not found")
	ErrAlreadyExecuted = errors.New("rule already executed on this date")
)

// ValidationError 业务校验错误，发生在任何变更之前
type ValidationError struct {
	Reason string
}

func NewValidationError(reason string) *ValidationError {
	return &ValidationError{Reason: reason}
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

// IsValidation 判断是否为校验类错误
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// NotFoundf 带上下文的未找到错误
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}
