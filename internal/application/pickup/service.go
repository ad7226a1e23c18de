package pickup

import (
	"context"
	"errors"
	"time"

	"tagalog-rizz-api/internal/domain/entity"
	"tagalog-rizz-api/internal/infrastructure/llm"
	apperrors "tagalog-rizz-api/pkg/errors"
	"tagalog-rizz-api/pkg/logger"
	"tagalog-rizz-api/pkg/metrics"
)

const (
	EndpointGenerate = "generate"
	EndpointChat     = "chat"
)

// Result 一次生成的最终输出
type Result struct {
	Items    []Item
	Note     string
	Outcome  entity.GenerationOutcome
	Strategy Strategy
}

// ChatResult 单句生成输出
type ChatResult struct {
	Text    string
	Note    string
	Outcome entity.GenerationOutcome
}

// UsageRecord 一次生成的调用记录
type UsageRecord struct {
	UserID         string
	Endpoint       string
	Outcome        entity.GenerationOutcome
	ErrorKind      string
	Strategy       Strategy
	RequestedCount int
	ItemCount      int
	Completion     *llm.Completion
	Duration       time.Duration
}

// UsageRecorder 调用记录端口；实现方自行吞掉并记录错误
type UsageRecorder interface {
	Record(ctx context.Context, rec UsageRecord)
}

// Service 生成用例：补全 -> 归一化 -> 兜底
type Service struct {
	requester *Requester
	usage     UsageRecorder
}

// NewService 创建生成服务，usage 可为 nil
func NewService(requester *Requester, usage UsageRecorder) *Service {
	return &Service{requester: requester, usage: usage}
}

// Generate 生成撩妹语
// 只有配置错误与意外错误会返回 error；上游失败一律换成兜底内容并附带 Note
func (s *Service) Generate(ctx context.Context, req GenerationRequest, userID string) (*Result, error) {
	start := time.Now()
	rec := UsageRecord{UserID: userID, Endpoint: EndpointGenerate, RequestedCount: req.Count()}

	completion, err := s.requester.Request(ctx, req)
	if err != nil {
		rec.Duration = time.Since(start)
		if appErr := s.fatal(ctx, err, &rec); appErr != nil {
			return nil, appErr
		}
		res := fallbackResult(req.Count(), FallbackNote)
		s.finish(ctx, res.Outcome, len(res.Items), rec)
		return res, nil
	}

	rec.Completion = completion
	rec.Duration = time.Since(start)

	norm := Normalize(completion.Text, req.Count(), req.IncludeTranslations())
	rec.Strategy = norm.Strategy
	if len(norm.Items) == 0 {
		logger.Warn(ctx, "completion produced no usable lines, serving fallback lines",
			"completion_chars", len(completion.Text),
		)
		res := fallbackResult(req.Count(), UnreadableNote)
		res.Strategy = norm.Strategy
		s.finish(ctx, res.Outcome, len(res.Items), rec)
		return res, nil
	}

	logger.Debug(ctx, "pickup lines normalized",
		"strategy", string(norm.Strategy),
		"requested", req.Count(),
		"returned", len(norm.Items),
	)
	metrics.PickupNormalizerStrategyTotal.WithLabelValues(string(norm.Strategy)).Inc()

	res := &Result{
		Items:    norm.Items,
		Outcome:  entity.GenerationOutcomeLive,
		Strategy: norm.Strategy,
	}
	s.finish(ctx, res.Outcome, len(res.Items), rec)
	return res, nil
}

// Chat 根据一个话题生成一句撩妹语
func (s *Service) Chat(ctx context.Context, topic, userID string) (*ChatResult, error) {
	start := time.Now()
	rec := UsageRecord{UserID: userID, Endpoint: EndpointChat, RequestedCount: 1}

	completion, err := s.requester.RequestChat(ctx, topic)
	if err != nil {
		rec.Duration = time.Since(start)
		if appErr := s.fatal(ctx, err, &rec); appErr != nil {
			return nil, appErr
		}
		s.finish(ctx, entity.GenerationOutcomeFallback, 1, rec)
		return &ChatResult{Text: Fallback(1)[0].Text, Note: FallbackNote, Outcome: entity.GenerationOutcomeFallback}, nil
	}

	rec.Completion = completion
	rec.Duration = time.Since(start)

	norm := Normalize(completion.Text, 1, false)
	rec.Strategy = norm.Strategy
	if len(norm.Items) == 0 {
		s.finish(ctx, entity.GenerationOutcomeFallback, 1, rec)
		return &ChatResult{Text: Fallback(1)[0].Text, Note: UnreadableNote, Outcome: entity.GenerationOutcomeFallback}, nil
	}

	s.finish(ctx, entity.GenerationOutcomeLive, 1, rec)
	return &ChatResult{Text: norm.Items[0].Text, Outcome: entity.GenerationOutcomeLive}, nil
}

// fatal 判断错误是否需要透出给调用方；可用兜底掩盖的上游错误返回 nil
func (s *Service) fatal(ctx context.Context, err error, rec *UsageRecord) *apperrors.AppError {
	kind := llm.KindOf(err)
	rec.ErrorKind = string(kind)

	switch kind {
	case llm.KindConfiguration:
		logger.Error(ctx, "completion service is misconfigured", err)
		s.finish(ctx, entity.GenerationOutcomeError, 0, *rec)
		return apperrors.ErrLLMConfig.WithError(err)
	case "":
		logger.Error(ctx, "pickup line generation failed", err)
		s.finish(ctx, entity.GenerationOutcomeError, 0, *rec)
		return apperrors.ErrGenerationFailed.WithError(err)
	}

	args := []any{"error_kind", string(kind), "error", err.Error()}
	var llmErr *llm.Error
	if errors.As(err, &llmErr) && llmErr.StatusCode != 0 {
		args = append(args, "status_code", llmErr.StatusCode)
	}
	logger.Warn(ctx, "completion failed, serving fallback lines", args...)
	return nil
}

func (s *Service) finish(ctx context.Context, outcome entity.GenerationOutcome, itemCount int, rec UsageRecord) {
	metrics.PickupGenerationTotal.WithLabelValues(string(outcome)).Inc()
	if itemCount > 0 {
		metrics.PickupLinesReturned.Observe(float64(itemCount))
	}

	if s.usage == nil {
		return
	}
	rec.Outcome = outcome
	rec.ItemCount = itemCount
	s.usage.Record(ctx, rec)
}

func fallbackResult(count int, note string) *Result {
	return &Result{
		Items:   Fallback(count),
		Note:    note,
		Outcome: entity.GenerationOutcomeFallback,
	}
}
