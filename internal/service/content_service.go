package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math_practice_backend/internal/model"
	"math_practice_backend/internal/util"
	"path/filepath"
	"strings"

	"gorm.io/gorm"
)

// ContentService 题库内容维护：专题、题目录入和题目配图上传
type ContentService struct {
	TopicRepo    TopicStore
	QuestionRepo QuestionStore
	Storage      StorageProvider
}

func NewContentService(topicRepo TopicStore, questionRepo QuestionStore, storage StorageProvider) *ContentService {
	return &ContentService{TopicRepo: topicRepo, QuestionRepo: questionRepo, Storage: storage}
}

type CreateTopicRequest struct {
	ID          string `json:"id" binding:"required"`
	Name        string `json:"name" binding:"required"`
	ShortCode   string `json:"shortCode" binding:"required"`
	GradeLevel  string `json:"gradeLevel" binding:"required"`
	ClassLevels []int  `json:"classLevels" binding:"required,min=1"`
}

func (s *ContentService) CreateTopic(req CreateTopicRequest) (*model.Topic, error) {
	grade := model.GradeLevel(req.GradeLevel)
	if !model.ValidGradeLevel(grade) {
		return nil, util.ErrInvalidGradeLevel
	}
	for _, c := range req.ClassLevels {
		if !model.ValidClassLevel(c) {
			return nil, util.ErrInvalidClassLevel
		}
	}

	topic := &model.Topic{
		ID:          req.ID,
		Name:        req.Name,
		ShortCode:   req.ShortCode,
		GradeLevel:  grade,
		ClassLevels: req.ClassLevels,
	}
	if err := s.TopicRepo.Create(topic); err != nil {
		return nil, err
	}
	return topic, nil
}

type CreateQuestionRequest struct {
	ID              string   `json:"id"`
	TopicID         string   `json:"topicId" binding:"required"`
	ClassLevel      int      `json:"classLevel" binding:"required"`
	PromptText      string   `json:"promptText" binding:"required"`
	Options         []string `json:"options" binding:"required,min=2"`
	CorrectOption   string   `json:"correctOption" binding:"required"`
	ExplanationText string   `json:"explanationText"`
	SourceYear      int      `json:"sourceYear"`
	SourcePackage   string   `json:"sourcePackage"`
	SourceNumber    int      `json:"sourceNumber"`
}

// CreateQuestion 在专题下新建单选题，年级段继承专题
func (s *ContentService) CreateQuestion(req CreateQuestionRequest) (*model.Question, error) {
	topic, err := s.TopicRepo.FindByID(req.TopicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTopicNotFound
		}
		return nil, err
	}
	if !model.ValidClassLevel(req.ClassLevel) {
		return nil, util.ErrInvalidClassLevel
	}

	id := req.ID
	if id == "" {
		id = model.GenerateUUID()
	}

	question := &model.Question{
		ID:              id,
		TopicID:         topic.ID,
		GradeLevel:      topic.GradeLevel,
		ClassLevel:      req.ClassLevel,
		PromptText:      req.PromptText,
		Type:            model.QuestionTypeMCQ,
		Options:         req.Options,
		CorrectOption:   req.CorrectOption,
		ExplanationText: req.ExplanationText,
		SourceYear:      req.SourceYear,
		SourcePackage:   req.SourcePackage,
		SourceNumber:    req.SourceNumber,
	}
	if err := s.QuestionRepo.Create(question); err != nil {
		return nil, err
	}
	return question, nil
}

// UploadQuestionImage 上传题目配图并回写地址
func (s *ContentService) UploadQuestionImage(ctx context.Context, questionID, originalName string, reader io.Reader, size int64, contentType string) (string, error) {
	if _, err := s.QuestionRepo.FindByID(questionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", util.ErrQuestionNotFound
		}
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	allowed := false
	for _, e := range util.AllowedImageExtensions {
		if ext == e {
			allowed = true
			break
		}
	}
	if !allowed {
		return "", fmt.Errorf("unsupported image extension: %s", ext)
	}

	filename := fmt.Sprintf("questions/%s%s", questionID, ext)
	url, err := s.Storage.Upload(ctx, filename, reader, size, contentType)
	if err != nil {
		return "", err
	}

	if err := s.QuestionRepo.SavePromptImage(questionID, url); err != nil {
		return "", err
	}
	return url, nil
}
