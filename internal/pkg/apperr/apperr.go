package apperr

import (
	"errors"
	"fmt"
)

// Kind 错误类别，machine-readable
type Kind string

const (
	// KindNotFound 引用的会话或 model 配置不存在（从未创建或已过期）
	KindNotFound Kind = "not_found"
	// KindStoreUnavailable 外部存储不可达或健康检查失败
	KindStoreUnavailable Kind = "store_unavailable"
	// KindUpstream 推理服务调用失败或返回非法结果
	KindUpstream Kind = "upstream"
	// KindInvalidArgument 请求参数在解析边界被拒绝
	KindInvalidArgument Kind = "invalid_argument"
)

// AppError 携带类别和人类可读消息的错误
// 错误不做本地恢复：一路向上传递到 handler 统一映射为 HTTP 响应
type AppError struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// New 创建指定类别的错误
func New(kind Kind, message string, cause error) error {
	return &AppError{
		Kind:    kind,
		Message: message,
		Cause:   cause,
	}
}

// NotFound 创建 not_found 错误
func NotFound(message string) error {
	return New(KindNotFound, message, nil)
}

// StoreUnavailable 创建 store_unavailable 错误
func StoreUnavailable(message string, cause error) error {
	return New(KindStoreUnavailable, message, cause)
}

// Upstream 创建 upstream 错误
func Upstream(message string, cause error) error {
	return New(KindUpstream, message, cause)
}

// KindOf 提取错误类别；非 AppError 返回空串
func KindOf(err error) Kind {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ""
}

// IsKind 判断错误是否属于指定类别
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
