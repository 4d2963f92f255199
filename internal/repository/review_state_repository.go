package repository

import (
	"math_practice_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

// ReviewStateRepository 复习状态台账。没有记录的 (用户, 题目) 隐含 new，
// 永远不会出现在到期集合里
type ReviewStateRepository struct {
	DB *gorm.DB
}

func NewReviewStateRepository(db *gorm.DB) *ReviewStateRepository {
	return &ReviewStateRepository{DB: db}
}

func (r *ReviewStateRepository) Get(userID, questionID string) (*model.ReviewState, error) {
	var state model.ReviewState
	err := r.DB.Where("user_id = ? AND question_id = ?", userID, questionID).First(&state).Error
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// ListDueQuestions 到期题目，按到期时间升序（最逾期的在前）
func (r *ReviewStateRepository) ListDueQuestions(userID, topicID string, classLevel int, now time.Time, limit int) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Model(&model.Question{}).
		Joins(`JOIN user_question_state uqs ON uqs.question_id = questions.id`).
		Where("uqs.user_id = ? AND questions.topic_id = ? AND questions.class_level = ? AND uqs.next_due_at <= ?",
			userID, topicID, classLevel, now).
		Order("uqs.next_due_at ASC").
		Limit(limit).
		Find(&questions).Error
	return questions, err
}

// ListUnseenQuestions 用户从未作答过的题目（无复习状态行）
func (r *ReviewStateRepository) ListUnseenQuestions(userID, topicID string, classLevel int) ([]model.Question, error) {
	var questions []model.Question
	sub := r.DB.Model(&model.ReviewState{}).Select("question_id").Where("user_id = ?", userID)
	err := r.DB.Model(&model.Question{}).
		Where("topic_id = ? AND class_level = ? AND id NOT IN (?)", topicID, classLevel, sub).
		Find(&questions).Error
	return questions, err
}

// CountDue 到期题数，不含从未进入复习周期的 new 状态
func (r *ReviewStateRepository) CountDue(userID string, now time.Time) (int64, error) {
	var count int64
	err := r.DB.Model(&model.ReviewState{}).
		Where("user_id = ? AND next_due_at <= ? AND state <> ?", userID, now, model.ReviewStateNew).
		Count(&count).Error
	return count, err
}

// CountActiveTopics 用户至少作答过一题的专题数
func (r *ReviewStateRepository) CountActiveTopics(userID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.ReviewState{}).
		Joins("JOIN questions ON questions.id = user_question_state.question_id").
		Where("user_question_state.user_id = ?", userID).
		Distinct("questions.topic_id").
		Count(&count).Error
	return count, err
}
