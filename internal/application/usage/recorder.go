// Package usage 记录每次补全调用的用量与结果
package usage

import (
	"context"
	"strings"

	"tagalog-rizz-api/internal/application/pickup"
	"tagalog-rizz-api/internal/domain/entity"
	"tagalog-rizz-api/internal/domain/repository"
	"tagalog-rizz-api/pkg/logger"
)

type Recorder struct {
	usageRepo repository.LLMUsageEventRepository
	provider  string
	model     string
}

func NewRecorder(usageRepo repository.LLMUsageEventRepository, provider, model string) *Recorder {
	return &Recorder{
		usageRepo: usageRepo,
		provider:  strings.TrimSpace(provider),
		model:     strings.TrimSpace(model),
	}
}

// Record 写入一条调用记录；失败只记日志，不影响请求
func (r *Recorder) Record(ctx context.Context, rec pickup.UsageRecord) {
	if r == nil || r.usageRepo == nil {
		return
	}

	evt := &entity.LLMUsageEvent{
		Endpoint:       rec.Endpoint,
		Provider:       r.provider,
		Model:          r.model,
		Outcome:        rec.Outcome,
		ErrorKind:      rec.ErrorKind,
		Strategy:       string(rec.Strategy),
		RequestedCount: rec.RequestedCount,
		ItemCount:      rec.ItemCount,
		DurationMs:     int(rec.Duration.Milliseconds()),
	}
	if userID := strings.TrimSpace(rec.UserID); userID != "" {
		evt.UserID = &userID
	}
	if c := rec.Completion; c != nil {
		evt.TokensPrompt = c.PromptTokens
		evt.TokensCompletion = c.CompletionTokens
		if m := strings.TrimSpace(c.Model); m != "" {
			evt.Model = m
		}
	}

	if err := r.usageRepo.Create(ctx, evt); err != nil {
		logger.Warn(ctx, "failed to record llm usage event", "error", err.Error(), "endpoint", rec.Endpoint)
	}
}
