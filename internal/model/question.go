package model

import (
	"time"
)

const QuestionTypeMCQ = "mcq"

// Question 题目，目前仅支持单选题（mcq）
// swagger:model Question
type Question struct {
	ID         string     `gorm:"primaryKey;type:varchar(64)" json:"id"`
	TopicID    string     `gorm:"type:varchar(64);not null;index:idx_question_topic_class" json:"topicId"`
	GradeLevel GradeLevel `gorm:"type:varchar(3);not null" json:"gradeLevel"`
	ClassLevel int        `gorm:"not null;index:idx_question_topic_class" json:"classLevel"`

	PromptText     string `gorm:"type:text;not null" json:"promptText"`
	PromptImageURL string `gorm:"size:512" json:"promptImageUrl,omitempty"`

	Type    string   `gorm:"type:varchar(10);not null;default:'mcq'" json:"type"`
	Options []string `gorm:"type:json;serializer:json;not null" json:"options"`
	// 正确选项键不随题目下发
	CorrectOption string `gorm:"size:255;not null" json:"-"`

	ExplanationText string `gorm:"type:text" json:"explanationText,omitempty"`

	SourceYear    int    `json:"sourceYear,omitempty"`
	SourcePackage string `gorm:"size:64" json:"sourcePackage,omitempty"`
	SourceNumber  int    `json:"sourceNumber,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

func (Question) TableName() string {
	return "questions"
}
