package service

import (
	"math_practice_backend/internal/model"
	"time"
)

// 服务层只依赖这些窄接口，gorm 仓库是生产实现，测试用内存假实现。
// 查不到记录时返回 gorm.ErrRecordNotFound，由服务层翻译成业务错误。

type UserStore interface {
	Create(user *model.User) error
	FindByID(id string) (*model.User, error)
	Save(user *model.User) error
	Exists(id string) (bool, error)
}

type TopicStore interface {
	Create(topic *model.Topic) error
	FindByID(id string) (*model.Topic, error)
	ListByGrade(grade model.GradeLevel) ([]model.Topic, error)
}

type QuestionStore interface {
	Create(question *model.Question) error
	FindByID(id string) (*model.Question, error)
	ListByTopicClass(topicID string, classLevel int) ([]model.Question, error)
	SavePromptImage(questionID, url string) error
	TopicAggregates(userID string, topicIDs []string, classLevel int, now time.Time) ([]model.TopicAggregate, error)
}

// ReviewStateLedger 复习状态台账的只读视图；写入只发生在会话完成时，
// 走 SessionStore.Finish 的事务
type ReviewStateLedger interface {
	Get(userID, questionID string) (*model.ReviewState, error)
	ListDueQuestions(userID, topicID string, classLevel int, now time.Time, limit int) ([]model.Question, error)
	ListUnseenQuestions(userID, topicID string, classLevel int) ([]model.Question, error)
	CountDue(userID string, now time.Time) (int64, error)
	CountActiveTopics(userID string) (int64, error)
}

type SessionStore interface {
	CreateWithItems(session *model.Session, items []model.SessionItem) error
	FindByID(id string) (*model.Session, error)
	FindOpenItem(sessionID, userID, questionID string) (*model.SessionItem, error)
	RecordAnswer(itemID, answer string, correct bool, at time.Time) (*model.SessionItem, error)
	ListItems(sessionID string) ([]model.SessionItem, error)
	Finish(session *model.Session, states []model.ReviewState) error
	RecentStartTimes(userID string, limit int) ([]time.Time, error)
}
