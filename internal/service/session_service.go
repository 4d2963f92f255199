package service

import (
	"errors"
	"math/rand"
	"math_practice_backend/internal/model"
	"math_practice_backend/internal/util"
	"math_practice_backend/pkg/monitoring"
	"math_practice_backend/pkg/srs"
	"strings"
	"time"

	"gorm.io/gorm"
)

// SessionService 组卷、记录作答并在会话完成时推进复习状态
type SessionService struct {
	SessionRepo  SessionStore
	UserRepo     UserStore
	TopicRepo    TopicStore
	QuestionRepo QuestionStore
	Ledger       ReviewStateLedger
	Scheduler    srs.Scheduler

	Dashboard *DashboardService

	defaultSize int
	rng         *rand.Rand
	now         func() time.Time
}

func NewSessionService(
	sessionRepo SessionStore,
	userRepo UserStore,
	topicRepo TopicStore,
	questionRepo QuestionStore,
	ledger ReviewStateLedger,
	scheduler srs.Scheduler,
	dashboard *DashboardService,
	defaultSize int,
	rng *rand.Rand,
) *SessionService {
	if defaultSize <= 0 {
		defaultSize = util.DefaultSessionSize
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &SessionService{
		SessionRepo:  sessionRepo,
		UserRepo:     userRepo,
		TopicRepo:    topicRepo,
		QuestionRepo: questionRepo,
		Ledger:       ledger,
		Scheduler:    scheduler,
		Dashboard:    dashboard,
		defaultSize:  defaultSize,
		rng:          rng,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

type TopicSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type SessionQuestion struct {
	ID             string   `json:"id"`
	Sequence       int      `json:"sequence"`
	Type           string   `json:"type"`
	PromptText     string   `json:"promptText"`
	PromptImageURL string   `json:"promptImageUrl,omitempty"`
	Options        []string `json:"options"`
}

type CreateSessionResult struct {
	SessionID string            `json:"sessionId"`
	Topic     TopicSummary      `json:"topic"`
	Questions []SessionQuestion `json:"questions"`
}

// BuildSession 三级优先组卷：到期复习题（最逾期在前）、未见过的新题（随机）、
// 兜底随机旧题，整体截断到 sessionSize。三级依次耗尽，题目不重复，
// sequence 按拼接顺序 1..N 编号。
// sessionSize 为 nil 时取默认题量；显式传入 0 或负数时仍创建会话但不选题。
func (s *SessionService) BuildSession(userID, topicID string, sessionSize *int) (*CreateSessionResult, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	topic, err := s.TopicRepo.FindByID(topicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTopicNotFound
		}
		return nil, err
	}

	pool, err := s.QuestionRepo.ListByTopicClass(topicID, user.ClassLevel)
	if err != nil {
		return nil, err
	}
	pool = usable(pool)
	if len(pool) == 0 {
		return nil, util.ErrNoQuestions
	}

	size := s.defaultSize
	if sessionSize != nil {
		size = *sessionSize
	}

	now := s.now()
	var selected []model.Question

	if size > 0 {
		selected, err = s.selectQuestions(userID, topicID, user.ClassLevel, size, now, pool)
		if err != nil {
			return nil, err
		}
		if len(selected) == 0 {
			return nil, util.ErrNoQuestions
		}
	}

	session := &model.Session{
		ID:        model.GenerateUUID(),
		UserID:    userID,
		TopicID:   topicID,
		Status:    model.SessionInProgress,
		StartedAt: now,
	}

	items := make([]model.SessionItem, len(selected))
	questions := make([]SessionQuestion, len(selected))
	for i, q := range selected {
		sequence := i + 1
		items[i] = model.SessionItem{
			ID:         model.GenerateUUID(),
			SessionID:  session.ID,
			QuestionID: q.ID,
			Sequence:   sequence,
		}
		questions[i] = SessionQuestion{
			ID:             q.ID,
			Sequence:       sequence,
			Type:           q.Type,
			PromptText:     q.PromptText,
			PromptImageURL: q.PromptImageURL,
			Options:        q.Options,
		}
	}

	if err := s.SessionRepo.CreateWithItems(session, items); err != nil {
		return nil, err
	}

	monitoring.SessionsBuilt.WithLabelValues(topicID).Inc()
	s.invalidateDashboard(userID)

	return &CreateSessionResult{
		SessionID: session.ID,
		Topic:     TopicSummary{ID: topic.ID, Name: topic.Name},
		Questions: questions,
	}, nil
}

func (s *SessionService) selectQuestions(userID, topicID string, classLevel, size int, now time.Time, pool []model.Question) ([]model.Question, error) {
	// 第一级：到期复习题
	due, err := s.Ledger.ListDueQuestions(userID, topicID, classLevel, now, size)
	if err != nil {
		return nil, err
	}
	selected := usable(due)
	if len(selected) > size {
		selected = selected[:size]
	}

	picked := make(map[string]bool, size)
	for _, q := range selected {
		picked[q.ID] = true
	}

	// 第二级：新题，随机顺序
	if remaining := size - len(selected); remaining > 0 {
		unseen, err := s.Ledger.ListUnseenQuestions(userID, topicID, classLevel)
		if err != nil {
			return nil, err
		}
		unseen = usable(unseen)
		s.shuffle(unseen)
		for _, q := range unseen {
			if remaining == 0 {
				break
			}
			if picked[q.ID] {
				continue
			}
			selected = append(selected, q)
			picked[q.ID] = true
			remaining--
		}
	}

	// 第三级：兜底，随机补齐已做过的旧题，保证题库允许时凑满一整卷
	if remaining := size - len(selected); remaining > 0 {
		extra := make([]model.Question, 0, len(pool))
		for _, q := range pool {
			if !picked[q.ID] {
				extra = append(extra, q)
			}
		}
		s.shuffle(extra)
		if len(extra) > remaining {
			extra = extra[:remaining]
		}
		for _, q := range extra {
			selected = append(selected, q)
			picked[q.ID] = true
		}
	}

	return selected, nil
}

func (s *SessionService) shuffle(questions []model.Question) {
	s.rng.Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})
}

// usable 过滤掉选项为空、无法作答的题目
func usable(questions []model.Question) []model.Question {
	out := questions[:0]
	for _, q := range questions {
		if len(q.Options) > 0 {
			out = append(out, q)
		}
	}
	return out
}

type SubmitAnswerResult struct {
	Success   bool `json:"success"`
	IsCorrect bool `json:"isCorrect"`
}

// SubmitAnswer 去除首尾空白后与正确选项键做大小写不敏感比较。
// 条目已有答案时直接返回既有结果，不产生第二次写入；
// 正确选项内容从不随响应下发。
func (s *SessionService) SubmitAnswer(sessionID, userID, questionID, rawAnswer string) (*SubmitAnswerResult, error) {
	item, err := s.SessionRepo.FindOpenItem(sessionID, userID, questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSessionItemNotFound
		}
		return nil, err
	}

	question, err := s.QuestionRepo.FindByID(questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}

	if item.Answered() {
		return &SubmitAnswerResult{Success: true, IsCorrect: item.IsCorrect != nil && *item.IsCorrect}, nil
	}

	answer := strings.TrimSpace(rawAnswer)
	correct := strings.EqualFold(answer, question.CorrectOption)

	final, err := s.SessionRepo.RecordAnswer(item.ID, answer, correct, s.now())
	if err != nil {
		return nil, err
	}

	// 并发提交时以持久化结果为准
	isCorrect := final.IsCorrect != nil && *final.IsCorrect

	monitoring.AnswersRecorded.WithLabelValues(boolLabel(isCorrect)).Inc()
	s.invalidateDashboard(userID)

	return &SubmitAnswerResult{Success: true, IsCorrect: isCorrect}, nil
}

// CompleteSession 对每道已作答的题应用一次间隔复习更新并终结会话。
// 复习状态行在这里惰性创建，会话状态和全部状态更新在同一事务提交。
func (s *SessionService) CompleteSession(sessionID, userID string) error {
	session, err := s.findOwnedSession(sessionID, userID)
	if err != nil {
		return err
	}
	if session.Status != model.SessionInProgress {
		return util.ErrSessionNotActive
	}

	items, err := s.SessionRepo.ListItems(sessionID)
	if err != nil {
		return err
	}

	now := s.now()
	var states []model.ReviewState
	for _, item := range items {
		if !item.Answered() || item.IsCorrect == nil {
			continue
		}
		state, err := s.Ledger.Get(userID, item.QuestionID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			state = &model.ReviewState{
				UserID:     userID,
				QuestionID: item.QuestionID,
				State:      model.ReviewStateNew,
				NextDueAt:  now,
			}
		}
		states = append(states, s.Scheduler.Review(*state, *item.IsCorrect, now))
	}

	session.Status = model.SessionCompleted
	session.CompletedAt = &now
	if err := s.SessionRepo.Finish(session, states); err != nil {
		return err
	}

	s.invalidateDashboard(userID)
	return nil
}

// AbandonSession 放弃会话，不推进任何复习状态
func (s *SessionService) AbandonSession(sessionID, userID string) error {
	session, err := s.findOwnedSession(sessionID, userID)
	if err != nil {
		return err
	}
	if session.Status != model.SessionInProgress {
		return util.ErrSessionNotActive
	}

	now := s.now()
	session.Status = model.SessionAbandoned
	session.CompletedAt = &now
	return s.SessionRepo.Finish(session, nil)
}

func (s *SessionService) findOwnedSession(sessionID, userID string) (*model.Session, error) {
	session, err := s.SessionRepo.FindByID(sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSessionNotFound
		}
		return nil, err
	}
	if session.UserID != userID {
		return nil, util.ErrSessionNotFound
	}
	return session, nil
}

func (s *SessionService) invalidateDashboard(userID string) {
	if s.Dashboard != nil {
		s.Dashboard.InvalidateUser(userID)
	}
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
