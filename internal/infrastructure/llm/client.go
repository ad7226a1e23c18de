// Package llm 提供 OpenAI 兼容的补全服务客户端（默认 OpenRouter）
package llm

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"tagalog-rizz-api/internal/config"
	"tagalog-rizz-api/pkg/metrics"
)

var tracer = otel.Tracer("llm")

const defaultTimeout = 8 * time.Second

// Completion 一次成功补全的结果
type Completion struct {
	Text             string
	Model            string
	PromptTokens     int
	CompletionTokens int
	Duration         time.Duration
}

// Client 单次调用、不重试的补全客户端
// 配置在构造时校验一次，之后只读，可被并发请求共享
type Client struct {
	provider    string
	model       string
	maxTokens   int
	temperature float64
	timeout     time.Duration

	sdk       openai.Client
	configErr *Error
}

// NewClient 根据配置创建客户端
// 凭证缺失或格式不对时仍返回客户端，后续每次调用都返回同一个配置错误
func NewClient(cfg *config.LLMConfig) *Client {
	c := &Client{
		provider:    cfg.Provider,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
	}
	if c.provider == "" {
		c.provider = "openrouter"
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}

	apiKey, err := NormalizeAPIKey(cfg.APIKey, cfg.KeyPrefix)
	if err != nil {
		c.configErr = err
		return c
	}
	if strings.TrimSpace(cfg.BaseURL) == "" || c.model == "" {
		c.configErr = configurationError("base url and model are required")
		return c
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(withTrailingSlash(cfg.BaseURL)),
		option.WithMaxRetries(0),
	}
	if cfg.Referer != "" {
		opts = append(opts, option.WithHeader("HTTP-Referer", cfg.Referer))
	}
	if cfg.Title != "" {
		opts = append(opts, option.WithHeader("X-Title", cfg.Title))
	}
	c.sdk = openai.NewClient(opts...)

	return c
}

// NormalizeAPIKey 去掉空白与成对引号，并校验前缀
func NormalizeAPIKey(raw, prefix string) (string, *Error) {
	key := strings.TrimSpace(raw)
	if len(key) >= 2 {
		first, last := key[0], key[len(key)-1]
		if (first == '"' || first == '\'') && first == last {
			key = strings.TrimSpace(key[1 : len(key)-1])
		}
	}
	if key == "" {
		return "", configurationError("API key is missing")
	}
	if prefix != "" && !strings.HasPrefix(key, prefix) {
		return "", configurationError("API key format is invalid, expected prefix " + prefix)
	}
	return key, nil
}

// ConfigErr 返回构造时发现的配置错误
func (c *Client) ConfigErr() error {
	if c.configErr == nil {
		return nil
	}
	return c.configErr
}

// Provider 提供方名称
func (c *Client) Provider() string { return c.provider }

// Model 模型标识
func (c *Client) Model() string { return c.model }

// Complete 发送单条 user 消息并返回补全文本
func (c *Client) Complete(ctx context.Context, prompt string) (*Completion, error) {
	if c.configErr != nil {
		metrics.LLMCallTotal.WithLabelValues(c.provider, c.model, string(KindConfiguration)).Inc()
		return nil, c.configErr
	}

	ctx, span := tracer.Start(ctx, "llm.Complete", trace.WithAttributes(
		attribute.String("llm.provider", c.provider),
		attribute.String("llm.model", c.model),
		attribute.Int("llm.prompt_chars", len(prompt)),
	))
	defer span.End()

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	}
	if c.maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(c.maxTokens))
	}
	if c.temperature > 0 {
		params.Temperature = openai.Float(c.temperature)
	}

	var httpResp *http.Response
	start := time.Now()
	resp, err := c.sdk.Chat.Completions.New(callCtx, params, option.WithResponseInto(&httpResp))
	elapsed := time.Since(start)
	metrics.LLMCallDuration.WithLabelValues(c.provider, c.model).Observe(elapsed.Seconds())

	if err != nil {
		llmErr := classify(callCtx, err, httpResp)
		return nil, c.fail(span, llmErr)
	}

	text := ""
	if len(resp.Choices) > 0 {
		text = resp.Choices[0].Message.Content
	}
	if strings.TrimSpace(text) == "" {
		return nil, c.fail(span, &Error{
			Kind:       KindMalformedResponse,
			StatusCode: statusOf(httpResp),
			Message:    "completion response has no content",
		})
	}

	out := &Completion{
		Text:             text,
		Model:            resp.Model,
		PromptTokens:     int(resp.Usage.PromptTokens),
		CompletionTokens: int(resp.Usage.CompletionTokens),
		Duration:         elapsed,
	}
	if out.Model == "" {
		out.Model = c.model
	}

	metrics.LLMCallTotal.WithLabelValues(c.provider, c.model, "success").Inc()
	metrics.LLMTokensUsed.WithLabelValues(c.provider, c.model, "prompt").Add(float64(out.PromptTokens))
	metrics.LLMTokensUsed.WithLabelValues(c.provider, c.model, "completion").Add(float64(out.CompletionTokens))
	span.SetAttributes(
		attribute.Int("llm.tokens_prompt", out.PromptTokens),
		attribute.Int("llm.tokens_completion", out.CompletionTokens),
	)

	return out, nil
}

func (c *Client) fail(span trace.Span, err *Error) *Error {
	metrics.LLMCallTotal.WithLabelValues(c.provider, c.model, string(err.Kind)).Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, string(err.Kind))
	if err.StatusCode != 0 {
		span.SetAttributes(attribute.Int("llm.status_code", err.StatusCode))
	}
	return err
}

// classify 将 SDK 错误归入四类之一
func classify(ctx context.Context, err error, resp *http.Response) *Error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &Error{
			Kind:       KindUpstream,
			StatusCode: apiErr.StatusCode,
			RawBody:    truncateBody(apiErr.RawJSON()),
			Message:    apiErr.Message,
			Err:        err,
		}
	}

	if isTimeout(ctx, err) {
		return &Error{Kind: KindTransportTimeout, Message: "completion request timed out", Err: err}
	}

	// 2xx 但响应体无法解析
	if status := statusOf(resp); status >= 200 && status < 300 {
		return &Error{Kind: KindMalformedResponse, StatusCode: status, Err: err}
	}

	return &Error{Kind: KindUpstream, Message: "completion service unreachable", Err: err}
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func statusOf(resp *http.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}

func withTrailingSlash(u string) string {
	u = strings.TrimSpace(u)
	if strings.HasSuffix(u, "/") {
		return u
	}
	return u + "/"
}
