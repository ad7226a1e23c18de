// Package entity 定义领域实体
package entity

import (
	"strings"
	"time"
)

// Favorite 用户收藏的撩妹语
// Content/Translation 与生成结果中的 tagalog/translation 一一对应，不做转换
type Favorite struct {
	ID          string    `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID      string    `json:"user_id" gorm:"type:varchar(128);index;not null"`
	Content     string    `json:"content" gorm:"type:text;not null"`
	Translation *string   `json:"translation" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime;index"`
}

// TableName 表名
func (Favorite) TableName() string {
	return "favorites"
}

// NewFavorite 创建收藏，空翻译存为 NULL
func NewFavorite(userID, content, translation string) *Favorite {
	f := &Favorite{
		UserID:  userID,
		Content: strings.TrimSpace(content),
	}
	if t := strings.TrimSpace(translation); t != "" {
		f.Translation = &t
	}
	return f
}

// TranslationText 返回翻译文本（可能为空）
func (f *Favorite) TranslationText() string {
	if f == nil || f.Translation == nil {
		return ""
	}
	return *f.Translation
}
