// Package identity 对接 OAuth2 身份提供方：授权码 + PKCE 换取用户信息
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"golang.org/x/oauth2"

	"tagalog-rizz-api/internal/config"
	"tagalog-rizz-api/internal/domain/entity"
)

var tracer = otel.Tracer("identity")

// ErrNotConfigured 未配置身份提供方
var ErrNotConfigured = errors.New("identity provider is not configured")

// maxUserInfoBytes userinfo 响应体读取上限
const maxUserInfoBytes = 1 << 20

// Provider OAuth2 身份提供方
type Provider struct {
	oauth       *oauth2.Config
	userInfoURL string
	timeout     time.Duration
}

// NewProvider 创建身份提供方
func NewProvider(cfg *config.IdentityConfig) *Provider {
	return &Provider{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.AuthURL,
				TokenURL: cfg.TokenURL,
			},
			RedirectURL: cfg.RedirectURL,
			Scopes:      cfg.Scopes,
		},
		userInfoURL: cfg.UserInfoURL,
		timeout:     cfg.ExchangeTimeout,
	}
}

// Configured 必填项是否齐全
func (p *Provider) Configured() bool {
	return p.oauth.ClientID != "" &&
		p.oauth.Endpoint.AuthURL != "" &&
		p.oauth.Endpoint.TokenURL != "" &&
		p.userInfoURL != ""
}

// NewVerifier 生成 PKCE verifier
func NewVerifier() string {
	return oauth2.GenerateVerifier()
}

// AuthCodeURL 构造跳转到身份提供方的授权地址（S256 challenge）
func (p *Provider) AuthCodeURL(state, verifier string) string {
	return p.oauth.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
}

// Exchange 用授权码换取令牌，并读取 userinfo 得到用户
func (p *Provider) Exchange(ctx context.Context, code, verifier string) (*entity.User, error) {
	if !p.Configured() {
		return nil, ErrNotConfigured
	}

	ctx, span := tracer.Start(ctx, "identity.Exchange")
	defer span.End()

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	token, err := p.oauth.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	user, err := p.fetchUser(ctx, p.oauth.Client(ctx, token))
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return user, nil
}

func (p *Provider) fetchUser(ctx context.Context, client *http.Client) (*entity.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build userinfo request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("userinfo request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxUserInfoBytes))
	if err != nil {
		return nil, fmt.Errorf("unable to read userinfo response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo request returned status %d", resp.StatusCode)
	}

	var info map[string]any
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("unable to parse userinfo response: %w", err)
	}

	id := claimString(info, "id")
	if id == "" {
		id = claimString(info, "sub")
	}
	if id == "" {
		return nil, errors.New("userinfo response has no user id")
	}

	return &entity.User{ID: id, Email: claimString(info, "email")}, nil
}

// claimString 读取字符串或数字形式的声明
func claimString(info map[string]any, key string) string {
	switch v := info[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}
