package dto

// SessionUser 会话中的用户
type SessionUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// SessionResponse 会话查询响应，未登录时 user 为 null
type SessionResponse struct {
	User *SessionUser `json:"user"`
}
