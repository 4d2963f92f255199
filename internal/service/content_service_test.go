package service

import (
	"context"
	"io"
	"math_practice_backend/internal/model"
	"math_practice_backend/internal/util"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStorage struct {
	uploaded map[string][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{uploaded: make(map[string][]byte)}
}

func (s *fakeStorage) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	s.uploaded[filename] = data
	return "/uploads/" + filename, nil
}

func (s *fakeStorage) Delete(ctx context.Context, filename string) error {
	delete(s.uploaded, filename)
	return nil
}

func (s *fakeStorage) GetURL(filename string) string {
	return "/uploads/" + filename
}

func newContentFixture() (*ContentService, *fakeTopicStore, *fakeQuestionStore, *fakeStorage) {
	topics := newFakeTopicStore(model.Topic{
		ID: "t1", Name: "Aljabar", ShortCode: "ALJ",
		GradeLevel: model.GradeSMP, ClassLevels: []int{7, 8, 9},
	})
	questions := newFakeQuestionStore()
	storage := newFakeStorage()
	return NewContentService(topics, questions, storage), topics, questions, storage
}

func TestCreateTopicValidation(t *testing.T) {
	svc, _, _, _ := newContentFixture()

	_, err := svc.CreateTopic(CreateTopicRequest{
		ID: "t2", Name: "Statistika", ShortCode: "STA",
		GradeLevel: "SD", ClassLevels: []int{7},
	})
	assert.ErrorIs(t, err, util.ErrInvalidGradeLevel)

	_, err = svc.CreateTopic(CreateTopicRequest{
		ID: "t2", Name: "Statistika", ShortCode: "STA",
		GradeLevel: "SMP", ClassLevels: []int{7, 13},
	})
	assert.ErrorIs(t, err, util.ErrInvalidClassLevel)

	topic, err := svc.CreateTopic(CreateTopicRequest{
		ID: "t2", Name: "Statistika", ShortCode: "STA",
		GradeLevel: "SMP", ClassLevels: []int{8, 9},
	})
	require.NoError(t, err)
	assert.Equal(t, model.GradeSMP, topic.GradeLevel)
}

func TestCreateQuestionInheritsTopicGrade(t *testing.T) {
	svc, _, questions, _ := newContentFixture()

	q, err := svc.CreateQuestion(CreateQuestionRequest{
		TopicID: "t1", ClassLevel: 8,
		PromptText:    "2 + 2 = ...",
		Options:       []string{"A. 3", "B. 4"},
		CorrectOption: "B",
	})
	require.NoError(t, err)

	assert.Equal(t, model.GradeSMP, q.GradeLevel)
	assert.Equal(t, model.QuestionTypeMCQ, q.Type)
	assert.NotEmpty(t, q.ID)

	stored, err := questions.FindByID(q.ID)
	require.NoError(t, err)
	assert.Equal(t, "B", stored.CorrectOption)
}

func TestCreateQuestionUnknownTopic(t *testing.T) {
	svc, _, _, _ := newContentFixture()

	_, err := svc.CreateQuestion(CreateQuestionRequest{
		TopicID: "missing", ClassLevel: 8,
		PromptText:    "2 + 2 = ...",
		Options:       []string{"A. 3", "B. 4"},
		CorrectOption: "B",
	})
	assert.ErrorIs(t, err, util.ErrTopicNotFound)
}

func TestUploadQuestionImage(t *testing.T) {
	svc, _, questions, storage := newContentFixture()
	questions.Create(&mcqImage)

	url, err := svc.UploadQuestionImage(context.Background(), "q1", "diagram.PNG", strings.NewReader("img"), 3, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/questions/q1.png", url)
	assert.Contains(t, storage.uploaded, "questions/q1.png")
	assert.Equal(t, url, questions.savedImage["q1"])
}

func TestUploadQuestionImageRejectsExtension(t *testing.T) {
	svc, _, questions, _ := newContentFixture()
	questions.Create(&mcqImage)

	_, err := svc.UploadQuestionImage(context.Background(), "q1", "payload.exe", strings.NewReader("x"), 1, "application/octet-stream")
	assert.Error(t, err)

	_, err = svc.UploadQuestionImage(context.Background(), "missing", "diagram.png", strings.NewReader("x"), 1, "image/png")
	assert.ErrorIs(t, err, util.ErrQuestionNotFound)
}

var mcqImage = model.Question{
	ID: "q1", TopicID: "t1", GradeLevel: model.GradeSMP, ClassLevel: 7,
	PromptText: "soal q1", Type: model.QuestionTypeMCQ,
	Options: []string{"A. 1", "B. 2"}, CorrectOption: "A",
}
