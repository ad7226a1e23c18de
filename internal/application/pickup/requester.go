package pickup

import (
	"context"
	"fmt"

	"tagalog-rizz-api/internal/infrastructure/llm"
)

// Completer 补全服务端口，由 llm.Client 实现
type Completer interface {
	Complete(ctx context.Context, prompt string) (*llm.Completion, error)
}

// Requester 把请求渲染成指令并发起一次补全调用
// 不重试：失败由调用方换成兜底内容
type Requester struct {
	completer Completer
	composer  *Composer
}

// NewRequester 创建请求器
func NewRequester(completer Completer, composer *Composer) *Requester {
	return &Requester{completer: completer, composer: composer}
}

// Request 批量生成
func (r *Requester) Request(ctx context.Context, req GenerationRequest) (*llm.Completion, error) {
	prompt, err := r.composer.Generate(req)
	if err != nil {
		return nil, fmt.Errorf("failed to compose prompt: %w", err)
	}
	return r.completer.Complete(ctx, prompt)
}

// RequestChat 单句生成
func (r *Requester) RequestChat(ctx context.Context, topic string) (*llm.Completion, error) {
	prompt, err := r.composer.Chat(topic)
	if err != nil {
		return nil, fmt.Errorf("failed to compose prompt: %w", err)
	}
	return r.completer.Complete(ctx, prompt)
}
