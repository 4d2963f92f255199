package service

import (
	"errors"
	"math_practice_backend/internal/model"
	"math_practice_backend/internal/util"

	"gorm.io/gorm"
)

type TopicService struct {
	TopicRepo TopicStore
	UserRepo  UserStore
}

func NewTopicService(topicRepo TopicStore, userRepo UserStore) *TopicService {
	return &TopicService{TopicRepo: topicRepo, UserRepo: userRepo}
}

// ListForUser 返回用户年级段下覆盖其班级年级的专题
func (s *TopicService) ListForUser(userID string) ([]model.Topic, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	topics, err := s.TopicRepo.ListByGrade(user.GradeLevel)
	if err != nil {
		return nil, err
	}

	eligible := make([]model.Topic, 0, len(topics))
	for _, t := range topics {
		if t.HasClassLevel(user.ClassLevel) {
			eligible = append(eligible, t)
		}
	}
	return eligible, nil
}
