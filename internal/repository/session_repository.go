package repository

import (
	"math_practice_backend/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SessionRepository struct {
	DB *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

// CreateWithItems 会话行和全部题目行在同一事务里落库，
// 读取方不会观察到只有部分条目的会话
func (r *SessionRepository) CreateWithItems(session *model.Session, items []model.SessionItem) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(session).Error; err != nil {
			return err
		}
		for i := range items {
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *SessionRepository) FindByID(id string) (*model.Session, error) {
	var session model.Session
	err := r.DB.Where("id = ?", id).First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// FindOpenItem 查找进行中会话里属于该用户的指定题目条目
func (r *SessionRepository) FindOpenItem(sessionID, userID, questionID string) (*model.SessionItem, error) {
	var item model.SessionItem
	err := r.DB.Model(&model.SessionItem{}).
		Joins("JOIN sessions ON sessions.id = session_items.session_id").
		Where(`session_items.session_id = ? AND session_items.question_id = ?
			AND sessions.user_id = ? AND sessions.status = ?`,
			sessionID, questionID, userID, model.SessionInProgress).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// RecordAnswer 行锁内条件写入作答结果，先写者胜；
// 条目已有答案时原样返回既有结果，重复提交因此天然幂等
func (r *SessionRepository) RecordAnswer(itemID, answer string, correct bool, at time.Time) (*model.SessionItem, error) {
	var item model.SessionItem
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", itemID).First(&item).Error; err != nil {
			return err
		}
		if item.AnsweredAt != nil {
			return nil
		}
		item.UserAnswer = &answer
		item.IsCorrect = &correct
		item.AnsweredAt = &at
		return tx.Model(&model.SessionItem{}).Where("id = ?", itemID).Updates(map[string]interface{}{
			"user_answer": answer,
			"is_correct":  correct,
			"answered_at": at,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ListItems 按 sequence 升序返回会话条目
func (r *SessionRepository) ListItems(sessionID string) ([]model.SessionItem, error) {
	var items []model.SessionItem
	err := r.DB.Where("session_id = ?", sessionID).Order("sequence ASC").Find(&items).Error
	return items, err
}

// Finish 终结会话并原子地落库本次复习状态更新
func (r *SessionRepository) Finish(session *model.Session, states []model.ReviewState) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(session).Error; err != nil {
			return err
		}
		for i := range states {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "question_id"}},
				UpdateAll: true,
			}).Create(&states[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// RecentStartTimes 最近 limit 次会话的开始时间，倒序
func (r *SessionRepository) RecentStartTimes(userID string, limit int) ([]time.Time, error) {
	var times []time.Time
	err := r.DB.Model(&model.Session{}).
		Where("user_id = ?", userID).
		Order("started_at DESC").
		Limit(limit).
		Pluck("started_at", &times).Error
	return times, err
}
