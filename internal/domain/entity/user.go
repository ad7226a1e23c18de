// Package entity 定义领域实体
package entity

import "time"

// User 身份提供方返回的用户
// ID 对本服务是不透明字符串，不解析其内部结构
type User struct {
	ID          string     `json:"id" gorm:"type:varchar(128);primaryKey"`
	Email       string     `json:"email" gorm:"type:varchar(255)"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 表名
func (User) TableName() string {
	return "users"
}

// MarkLogin 记录登录时间
func (u *User) MarkLogin(at time.Time) {
	u.LastLoginAt = &at
}
