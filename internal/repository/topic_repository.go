package repository

import (
	"math_practice_backend/internal/model"

	"gorm.io/gorm"
)

type TopicRepository struct {
	DB *gorm.DB
}

func NewTopicRepository(db *gorm.DB) *TopicRepository {
	return &TopicRepository{DB: db}
}

func (r *TopicRepository) Create(topic *model.Topic) error {
	return r.DB.Create(topic).Error
}

func (r *TopicRepository) FindByID(id string) (*model.Topic, error) {
	var topic model.Topic
	err := r.DB.Where("id = ?", id).First(&topic).Error
	if err != nil {
		return nil, err
	}
	return &topic, nil
}

// ListByGrade 列出某年级段下的全部专题，班级年级过滤在服务层完成
// （class_levels 为 JSON 数组，跨库兼容的包含判断放在内存里做）
func (r *TopicRepository) ListByGrade(grade model.GradeLevel) ([]model.Topic, error) {
	var topics []model.Topic
	err := r.DB.Where("grade_level = ?", grade).Order("short_code ASC").Find(&topics).Error
	return topics, err
}
