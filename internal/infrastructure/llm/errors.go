package llm

import (
	"errors"
	"fmt"
)

// ErrorKind 补全调用失败分类
type ErrorKind string

const (
	KindConfiguration     ErrorKind = "configuration"
	KindTransportTimeout  ErrorKind = "transport_timeout"
	KindUpstream          ErrorKind = "upstream"
	KindMalformedResponse ErrorKind = "malformed_response"
)

// maxRawBody 错误中保留的上游响应体长度上限
const maxRawBody = 2048

// Error 补全调用错误
// StatusCode 为 0 表示未拿到上游响应（连接失败、上游不可达等）
type Error struct {
	Kind       ErrorKind
	StatusCode int
	RawBody    string
	Message    string
	Err        error
}

// Error 实现 error 接口
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("llm %s (status %d): %s", e.Kind, e.StatusCode, msg)
	}
	return fmt.Sprintf("llm %s: %s", e.Kind, msg)
}

// Unwrap 返回底层错误
func (e *Error) Unwrap() error {
	return e.Err
}

// Is 按分类比较，errors.Is(err, ErrUpstream) 对任意状态码成立
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// 分类哨兵
var (
	ErrConfiguration     = &Error{Kind: KindConfiguration, Message: "completion service is not configured"}
	ErrTransportTimeout  = &Error{Kind: KindTransportTimeout, Message: "completion request timed out"}
	ErrUpstream          = &Error{Kind: KindUpstream, Message: "completion service returned an error"}
	ErrMalformedResponse = &Error{Kind: KindMalformedResponse, Message: "completion response has no content"}
)

// KindOf 返回错误分类，非补全错误返回空串
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsConfiguration 是否为配置错误（不可用兜底内容掩盖）
func IsConfiguration(err error) bool {
	return KindOf(err) == KindConfiguration
}

func configurationError(msg string) *Error {
	return &Error{Kind: KindConfiguration, Message: msg}
}

func truncateBody(s string) string {
	if len(s) <= maxRawBody {
		return s
	}
	return s[:maxRawBody]
}
