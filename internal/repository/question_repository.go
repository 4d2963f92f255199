package repository

import (
	"math_practice_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) Create(question *model.Question) error {
	return r.DB.Create(question).Error
}

func (r *QuestionRepository) FindByID(id string) (*model.Question, error) {
	var question model.Question
	err := r.DB.Where("id = ?", id).First(&question).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}

// ListByTopicClass 列出专题在指定班级年级下的全部题目
func (r *QuestionRepository) ListByTopicClass(topicID string, classLevel int) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Where("topic_id = ? AND class_level = ?", topicID, classLevel).Find(&questions).Error
	return questions, err
}

// SavePromptImage 更新题目配图地址
func (r *QuestionRepository) SavePromptImage(questionID, url string) error {
	res := r.DB.Model(&model.Question{}).Where("id = ?", questionID).Update("prompt_image_url", url)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// TopicAggregates 按专题聚合题目总数、已作答数和到期数。
// 题目左联复习状态，保证从未作答的专题也有总数行
func (r *QuestionRepository) TopicAggregates(userID string, topicIDs []string, classLevel int, now time.Time) ([]model.TopicAggregate, error) {
	if len(topicIDs) == 0 {
		return nil, nil
	}

	var rows []model.TopicAggregate
	err := r.DB.Model(&model.Question{}).
		Select(`questions.topic_id AS topic_id,
			COUNT(questions.id) AS total_questions,
			COUNT(uqs.question_id) AS answered_count,
			SUM(CASE WHEN uqs.next_due_at <= ? THEN 1 ELSE 0 END) AS due_count`, now).
		Joins(`LEFT JOIN user_question_state uqs
			ON uqs.question_id = questions.id AND uqs.user_id = ?`, userID).
		Where("questions.topic_id IN ? AND questions.class_level = ?", topicIDs, classLevel).
		Group("questions.topic_id").
		Scan(&rows).Error
	return rows, err
}
