// Package entity 定义领域实体
package entity

import "time"

// GenerationOutcome 一次生成的结果类型
type GenerationOutcome string

const (
	GenerationOutcomeLive     GenerationOutcome = "live"
	GenerationOutcomeFallback GenerationOutcome = "fallback"
	GenerationOutcomeError    GenerationOutcome = "error"
)

type LLMUsageEvent struct {
	ID               string            `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID           *string           `json:"user_id,omitempty" gorm:"type:varchar(128);index"`
	Endpoint         string            `json:"endpoint" gorm:"type:varchar(32);not null"`
	Provider         string            `json:"provider" gorm:"type:varchar(32);not null"`
	Model            string            `json:"model" gorm:"type:varchar(128);not null"`
	Outcome          GenerationOutcome `json:"outcome" gorm:"type:varchar(16);not null"`
	ErrorKind        string            `json:"error_kind,omitempty" gorm:"type:varchar(32)"`
	Strategy         string            `json:"strategy,omitempty" gorm:"type:varchar(32)"`
	RequestedCount   int               `json:"requested_count" gorm:"not null;default:0"`
	ItemCount        int               `json:"item_count" gorm:"not null;default:0"`
	TokensPrompt     int               `json:"tokens_prompt" gorm:"not null;default:0"`
	TokensCompletion int               `json:"tokens_completion" gorm:"not null;default:0"`
	DurationMs       int               `json:"duration_ms" gorm:"not null;default:0"`
	CreatedAt        time.Time         `json:"created_at" gorm:"autoCreateTime"`
}

func (LLMUsageEvent) TableName() string {
	return "llm_usage_events"
}
