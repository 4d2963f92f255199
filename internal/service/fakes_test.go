package service

import (
	"math_practice_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

// 内存假仓库，与 gorm 实现一样用 gorm.ErrRecordNotFound 表示查不到

type fakeUserStore struct {
	users map[string]model.User
}

func newFakeUserStore(users ...model.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[string]model.User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) Create(user *model.User) error {
	s.users[user.ID] = *user
	return nil
}

func (s *fakeUserStore) FindByID(id string) (*model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (s *fakeUserStore) Save(user *model.User) error {
	s.users[user.ID] = *user
	return nil
}

func (s *fakeUserStore) Exists(id string) (bool, error) {
	_, ok := s.users[id]
	return ok, nil
}

type fakeTopicStore struct {
	topics map[string]model.Topic
	order  []string
}

func newFakeTopicStore(topics ...model.Topic) *fakeTopicStore {
	s := &fakeTopicStore{topics: make(map[string]model.Topic)}
	for _, t := range topics {
		s.topics[t.ID] = t
		s.order = append(s.order, t.ID)
	}
	return s
}

func (s *fakeTopicStore) Create(topic *model.Topic) error {
	s.topics[topic.ID] = *topic
	s.order = append(s.order, topic.ID)
	return nil
}

func (s *fakeTopicStore) FindByID(id string) (*model.Topic, error) {
	t, ok := s.topics[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &t, nil
}

func (s *fakeTopicStore) ListByGrade(grade model.GradeLevel) ([]model.Topic, error) {
	var out []model.Topic
	for _, id := range s.order {
		if t := s.topics[id]; t.GradeLevel == grade {
			out = append(out, t)
		}
	}
	return out, nil
}

type fakeQuestionStore struct {
	questions  map[string]model.Question
	pool       []model.Question
	aggregates []model.TopicAggregate
	savedImage map[string]string
}

func newFakeQuestionStore(pool ...model.Question) *fakeQuestionStore {
	s := &fakeQuestionStore{
		questions:  make(map[string]model.Question),
		pool:       pool,
		savedImage: make(map[string]string),
	}
	for _, q := range pool {
		s.questions[q.ID] = q
	}
	return s
}

func (s *fakeQuestionStore) Create(question *model.Question) error {
	s.questions[question.ID] = *question
	s.pool = append(s.pool, *question)
	return nil
}

func (s *fakeQuestionStore) FindByID(id string) (*model.Question, error) {
	q, ok := s.questions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &q, nil
}

func (s *fakeQuestionStore) ListByTopicClass(topicID string, classLevel int) ([]model.Question, error) {
	var out []model.Question
	for _, q := range s.pool {
		if q.TopicID == topicID && q.ClassLevel == classLevel {
			out = append(out, q)
		}
	}
	return out, nil
}

func (s *fakeQuestionStore) SavePromptImage(questionID, url string) error {
	q, ok := s.questions[questionID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	q.PromptImageURL = url
	s.questions[questionID] = q
	s.savedImage[questionID] = url
	return nil
}

func (s *fakeQuestionStore) TopicAggregates(userID string, topicIDs []string, classLevel int, now time.Time) ([]model.TopicAggregate, error) {
	return s.aggregates, nil
}

type fakeLedger struct {
	states       map[string]model.ReviewState
	due          []model.Question
	unseen       []model.Question
	dueCount     int64
	activeTopics int64
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{states: make(map[string]model.ReviewState)}
}

func stateKey(userID, questionID string) string {
	return userID + "|" + questionID
}

func (s *fakeLedger) Get(userID, questionID string) (*model.ReviewState, error) {
	st, ok := s.states[stateKey(userID, questionID)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &st, nil
}

func (s *fakeLedger) ListDueQuestions(userID, topicID string, classLevel int, now time.Time, limit int) ([]model.Question, error) {
	out := s.due
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *fakeLedger) ListUnseenQuestions(userID, topicID string, classLevel int) ([]model.Question, error) {
	return s.unseen, nil
}

func (s *fakeLedger) CountDue(userID string, now time.Time) (int64, error) {
	return s.dueCount, nil
}

func (s *fakeLedger) CountActiveTopics(userID string) (int64, error) {
	return s.activeTopics, nil
}

type fakeSessionStore struct {
	sessions    map[string]model.Session
	items       map[string][]model.SessionItem
	finished    []model.ReviewState
	recordCalls int
	startTimes  []time.Time
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{
		sessions: make(map[string]model.Session),
		items:    make(map[string][]model.SessionItem),
	}
}

func (s *fakeSessionStore) CreateWithItems(session *model.Session, items []model.SessionItem) error {
	s.sessions[session.ID] = *session
	s.items[session.ID] = append([]model.SessionItem(nil), items...)
	s.startTimes = append(s.startTimes, session.StartedAt)
	return nil
}

func (s *fakeSessionStore) FindByID(id string) (*model.Session, error) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &sess, nil
}

func (s *fakeSessionStore) FindOpenItem(sessionID, userID, questionID string) (*model.SessionItem, error) {
	sess, ok := s.sessions[sessionID]
	if !ok || sess.UserID != userID || sess.Status != model.SessionInProgress {
		return nil, gorm.ErrRecordNotFound
	}
	for _, item := range s.items[sessionID] {
		if item.QuestionID == questionID {
			return &item, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeSessionStore) RecordAnswer(itemID, answer string, correct bool, at time.Time) (*model.SessionItem, error) {
	for sessionID, items := range s.items {
		for i, item := range items {
			if item.ID != itemID {
				continue
			}
			if item.AnsweredAt == nil {
				item.UserAnswer = &answer
				item.IsCorrect = &correct
				item.AnsweredAt = &at
				s.items[sessionID][i] = item
				s.recordCalls++
			}
			return &item, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeSessionStore) ListItems(sessionID string) ([]model.SessionItem, error) {
	return append([]model.SessionItem(nil), s.items[sessionID]...), nil
}

func (s *fakeSessionStore) Finish(session *model.Session, states []model.ReviewState) error {
	s.sessions[session.ID] = *session
	s.finished = append(s.finished, states...)
	return nil
}

func (s *fakeSessionStore) RecentStartTimes(userID string, limit int) ([]time.Time, error) {
	out := s.startTimes
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
