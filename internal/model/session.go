package model

import (
	"time"
)

type SessionStatus string

const (
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
	SessionAbandoned  SessionStatus = "abandoned"
)

// Session 一次练习会话，终态由完成/放弃接口写入
// swagger:model Session
type Session struct {
	ID      string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID  string `gorm:"type:varchar(8);not null;index" json:"userId"`
	TopicID string `gorm:"type:varchar(64);not null;index" json:"topicId"`

	Status      SessionStatus `gorm:"type:varchar(20);not null;default:'in_progress'" json:"status"`
	StartedAt   time.Time     `gorm:"not null;index" json:"startedAt"`
	CompletedAt *time.Time    `json:"completedAt,omitempty"`
}

func (Session) TableName() string {
	return "sessions"
}

// SessionItem 会话内的一道题，sequence 从 1 开始、会话内连续且唯一；
// 作答字段只写入一次，重复提交按幂等处理
// swagger:model SessionItem
type SessionItem struct {
	ID         string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	SessionID  string `gorm:"type:varchar(36);not null;index:idx_item_session_question,priority:1" json:"sessionId"`
	QuestionID string `gorm:"type:varchar(64);not null;index:idx_item_session_question,priority:2" json:"questionId"`

	Sequence   int        `gorm:"not null" json:"sequence"`
	UserAnswer *string    `gorm:"size:255" json:"userAnswer,omitempty"`
	IsCorrect  *bool      `json:"isCorrect,omitempty"`
	AnsweredAt *time.Time `json:"answeredAt,omitempty"`
}

func (SessionItem) TableName() string {
	return "session_items"
}

// Answered 该题是否已作答
func (i *SessionItem) Answered() bool {
	return i.AnsweredAt != nil
}
