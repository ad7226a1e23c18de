// Package pickup 实现撩妹语生成：请求构造、补全调用、结果归一化与兜底内容
package pickup

import (
	"fmt"
	"strings"
)

const (
	MinCount = 1
	MaxCount = 20

	// DefaultScenario 未提供场景时使用
	DefaultScenario = "You as a guy wanting to say a good pick up line on a girl you are talking for the first time to get her number or social info"
)

// Category 语气分类
type Category string

const (
	CategoryNone     Category = "none"
	CategoryRomantic Category = "romantic"
	CategoryFunny    Category = "funny"
	CategoryNaughty  Category = "naughty"
)

// ErrInvalidCategory 未知分类
type ErrInvalidCategory struct {
	Value string
}

func (e *ErrInvalidCategory) Error() string {
	return fmt.Sprintf("invalid category %q, expected romantic, funny or naughty", e.Value)
}

// ParseCategory 解析分类，大小写不敏感；空串、none、any 视为无分类
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "any", "null":
		return CategoryNone, nil
	case "romantic":
		return CategoryRomantic, nil
	case "funny":
		return CategoryFunny, nil
	case "naughty":
		return CategoryNaughty, nil
	default:
		return CategoryNone, &ErrInvalidCategory{Value: s}
	}
}

// Tone 分类对应的语气指令
func (c Category) Tone() string {
	switch c {
	case CategoryRomantic:
		return "sweet and heartfelt"
	case CategoryFunny:
		return "humorous and witty"
	case CategoryNaughty:
		return "playful, suggestive, not explicit"
	default:
		return ""
	}
}

// ClampCount 将数量限制在 [MinCount, MaxCount]
func ClampCount(n int) int {
	if n < MinCount {
		return MinCount
	}
	if n > MaxCount {
		return MaxCount
	}
	return n
}

// GenerationRequest 一次生成请求，构造后不可变
type GenerationRequest struct {
	scenario            string
	count               int
	category            Category
	includeTranslations bool
}

// NewGenerationRequest 构造请求：场景为空时取默认值，数量被钳制
func NewGenerationRequest(scenario string, count int, category Category, includeTranslations bool) GenerationRequest {
	scenario = strings.TrimSpace(scenario)
	if scenario == "" {
		scenario = DefaultScenario
	}
	if category == "" {
		category = CategoryNone
	}
	return GenerationRequest{
		scenario:            scenario,
		count:               ClampCount(count),
		category:            category,
		includeTranslations: includeTranslations,
	}
}

func (r GenerationRequest) Scenario() string          { return r.scenario }
func (r GenerationRequest) Count() int                { return r.count }
func (r GenerationRequest) Category() Category        { return r.category }
func (r GenerationRequest) IncludeTranslations() bool { return r.includeTranslations }

// Item 归一化后的单条撩妹语
type Item struct {
	Text        string
	Translation string
}
