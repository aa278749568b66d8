package rdb

import (
	"fmt"

	"github.com/pkg/errors"
)

// 错误类型，使用 errors.Is 判断
var (
	// ErrSchema 表不在允许列表中、表不存在或列名不在当前表结构中
	ErrSchema = errors.New("schema error")
	// ErrValidation 调用方输入不合法，如值的个数与列数不一致、搜索条件为空
	ErrValidation = errors.New("validation error")
	// ErrUnauthorizedQuery 透传查询不是 SELECT
	ErrUnauthorizedQuery = errors.New("unauthorized query")
	// ErrQueryExecution 数据库驱动返回的错误，包括连接失败
	ErrQueryExecution = errors.New("query execution error")
	// ErrExport 导出文件失败
	ErrExport = errors.New("export error")
)

// Error 带类型的错误，Error() 保留数据库原始错误信息
type Error struct {
	kind  error
	msg   string
	cause error
}

func (e *Error) Error() string {
	msg := e.msg
	if e.cause != nil {
		if msg == "" {
			msg = e.cause.Error()
		} else {
			msg = msg + ": " + e.cause.Error()
		}
	}
	if msg == "" {
		return e.kind.Error()
	}
	return e.kind.Error() + ": " + msg
}

// Kind 返回错误类型哨兵
func (e *Error) Kind() error {
	return e.kind
}

// Message 返回不带类型前缀的错误信息
func (e *Error) Message() string {
	if e.cause == nil {
		return e.msg
	}
	if e.msg == "" {
		return e.cause.Error()
	}
	return e.msg + ": " + e.cause.Error()
}

func (e *Error) Is(target error) bool {
	return target == e.kind
}

func (e *Error) Unwrap() error {
	return e.cause
}

func newError(kind error, cause error, format string, args ...any) *Error {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &Error{kind: kind, msg: msg, cause: cause}
}

func SchemaError(format string, args ...any) error {
	return newError(ErrSchema, nil, format, args...)
}

func ValidationError(format string, args ...any) error {
	return newError(ErrValidation, nil, format, args...)
}

func UnauthorizedQueryError(format string, args ...any) error {
	return newError(ErrUnauthorizedQuery, nil, format, args...)
}

// WrapSchema 包装驱动错误为 ErrSchema，cause 为 nil 时返回 nil
func WrapSchema(cause error, format string, args ...any) error {
	if cause == nil {
		return nil
	}
	return newError(ErrSchema, cause, format, args...)
}

// WrapQueryExecution 包装驱动错误为 ErrQueryExecution，已经是 *Error 的直接返回
func WrapQueryExecution(cause error, format string, args ...any) error {
	if cause == nil {
		return nil
	}
	var e *Error
	if errors.As(cause, &e) {
		return e
	}
	return newError(ErrQueryExecution, cause, format, args...)
}

func WrapExport(cause error, format string, args ...any) error {
	if cause == nil {
		return nil
	}
	return newError(ErrExport, cause, format, args...)
}

func ExportError(format string, args ...any) error {
	return newError(ErrExport, nil, format, args...)
}
