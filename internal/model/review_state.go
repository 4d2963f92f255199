package model

import (
	"time"
)

type ReviewLifecycle string

const (
	ReviewStateNew        ReviewLifecycle = "new"
	ReviewStateLearning   ReviewLifecycle = "learning"
	ReviewStateReview     ReviewLifecycle = "review"
	ReviewStateRelearning ReviewLifecycle = "relearning"
)

// ReviewState 每个 (用户, 题目) 的间隔复习进度，首次复习时惰性创建；
// 不存在记录即隐含 "new" 状态且永远不会到期
// swagger:model ReviewState
type ReviewState struct {
	UserID     string `gorm:"primaryKey;type:varchar(8);index:idx_state_user_due,priority:1" json:"userId"`
	QuestionID string `gorm:"primaryKey;type:varchar(64)" json:"questionId"`

	State      ReviewLifecycle `gorm:"type:varchar(20);not null;default:'new'" json:"state"`
	Stability  float64         `gorm:"not null;default:0" json:"stability"`
	Difficulty float64         `gorm:"not null;default:0" json:"difficulty"`
	Reps       int             `gorm:"not null;default:0" json:"reps"`
	Lapses     int             `gorm:"not null;default:0" json:"lapses"`

	LastResultCorrect *bool      `json:"lastResultCorrect,omitempty"`
	LastReviewedAt    *time.Time `json:"lastReviewedAt,omitempty"`
	NextDueAt         time.Time  `gorm:"not null;index:idx_state_user_due,priority:2" json:"nextDueAt"`

	UpdatedAt time.Time `json:"updatedAt"`
}

func (ReviewState) TableName() string {
	return "user_question_state"
}
