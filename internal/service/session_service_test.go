package service

import (
	"math/rand"
	"math_practice_backend/internal/model"
	"math_practice_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

type fakeScheduler struct {
	inputs []model.ReviewState
}

func (f *fakeScheduler) Review(st model.ReviewState, correct bool, now time.Time) model.ReviewState {
	f.inputs = append(f.inputs, st)
	st.Reps++
	st.LastResultCorrect = &correct
	st.LastReviewedAt = &now
	if correct {
		st.NextDueAt = now.AddDate(0, 0, 3)
	} else {
		st.NextDueAt = now.AddDate(0, 0, 1)
	}
	return st
}

type sessionFixture struct {
	svc       *SessionService
	users     *fakeUserStore
	topics    *fakeTopicStore
	questions *fakeQuestionStore
	ledger    *fakeLedger
	sessions  *fakeSessionStore
	scheduler *fakeScheduler
}

func newSessionFixture(pool ...model.Question) *sessionFixture {
	f := &sessionFixture{
		users: newFakeUserStore(model.User{
			ID: "12345678", GradeLevel: model.GradeSMP, ClassLevel: 7,
		}),
		topics: newFakeTopicStore(model.Topic{
			ID: "t1", Name: "Aljabar", ShortCode: "ALJ",
			GradeLevel: model.GradeSMP, ClassLevels: []int{7, 8, 9},
		}),
		questions: newFakeQuestionStore(pool...),
		ledger:    newFakeLedger(),
		sessions:  newFakeSessionStore(),
		scheduler: &fakeScheduler{},
	}
	f.svc = NewSessionService(
		f.sessions, f.users, f.topics, f.questions, f.ledger,
		f.scheduler, nil, util.DefaultSessionSize,
		rand.New(rand.NewSource(1)),
	)
	f.svc.now = func() time.Time { return testNow }
	return f
}

func mcq(id string) model.Question {
	return model.Question{
		ID: id, TopicID: "t1", GradeLevel: model.GradeSMP, ClassLevel: 7,
		PromptText: "soal " + id, Type: model.QuestionTypeMCQ,
		Options:       []string{"A. 1", "B. 2", "C. 3", "D. 4"},
		CorrectOption: "A",
	}
}

func mcqPool(n int) []model.Question {
	out := make([]model.Question, n)
	for i := range out {
		out[i] = mcq("q" + string(rune('a'+i)))
	}
	return out
}

func intPtr(v int) *int { return &v }

func TestBuildSessionTierOrdering(t *testing.T) {
	pool := mcqPool(8)
	f := newSessionFixture(pool...)
	// 两道到期题（最逾期在前），三道新题
	f.ledger.due = pool[:2]
	f.ledger.unseen = pool[2:5]

	result, err := f.svc.BuildSession("12345678", "t1", intPtr(4))
	require.NoError(t, err)
	require.Len(t, result.Questions, 4)

	// 到期题保持台账顺序排在前面
	assert.Equal(t, pool[0].ID, result.Questions[0].ID)
	assert.Equal(t, pool[1].ID, result.Questions[1].ID)

	unseenIDs := map[string]bool{pool[2].ID: true, pool[3].ID: true, pool[4].ID: true}
	seen := map[string]bool{}
	for i, q := range result.Questions {
		assert.Equal(t, i+1, q.Sequence)
		assert.False(t, seen[q.ID], "question %s selected twice", q.ID)
		seen[q.ID] = true
		if i >= 2 {
			assert.True(t, unseenIDs[q.ID], "tail slots should come from unseen tier")
		}
	}
}

func TestBuildSessionFallbackFillsFromPool(t *testing.T) {
	pool := mcqPool(5)
	f := newSessionFixture(pool...)
	// 没有到期题也没有新题，只能从旧题兜底

	result, err := f.svc.BuildSession("12345678", "t1", intPtr(3))
	require.NoError(t, err)
	require.Len(t, result.Questions, 3)

	seen := map[string]bool{}
	for _, q := range result.Questions {
		assert.False(t, seen[q.ID])
		seen[q.ID] = true
	}
}

func TestBuildSessionDefaultSize(t *testing.T) {
	pool := mcqPool(20)
	f := newSessionFixture(pool...)
	f.ledger.unseen = pool

	result, err := f.svc.BuildSession("12345678", "t1", nil)
	require.NoError(t, err)
	assert.Len(t, result.Questions, util.DefaultSessionSize)
}

func TestBuildSessionSmallPool(t *testing.T) {
	pool := mcqPool(3)
	f := newSessionFixture(pool...)
	f.ledger.unseen = pool

	result, err := f.svc.BuildSession("12345678", "t1", intPtr(10))
	require.NoError(t, err)
	assert.Len(t, result.Questions, 3)
}

func TestBuildSessionExplicitZeroSize(t *testing.T) {
	f := newSessionFixture(mcqPool(5)...)

	result, err := f.svc.BuildSession("12345678", "t1", intPtr(0))
	require.NoError(t, err)
	assert.Empty(t, result.Questions)
	assert.NotEmpty(t, result.SessionID)

	items, _ := f.sessions.ListItems(result.SessionID)
	assert.Empty(t, items)
}

func TestBuildSessionNoQuestions(t *testing.T) {
	f := newSessionFixture()

	_, err := f.svc.BuildSession("12345678", "t1", nil)
	assert.ErrorIs(t, err, util.ErrNoQuestions)
}

func TestBuildSessionSkipsUnanswerableQuestions(t *testing.T) {
	broken := mcq("qx")
	broken.Options = nil
	f := newSessionFixture(broken)

	_, err := f.svc.BuildSession("12345678", "t1", nil)
	assert.ErrorIs(t, err, util.ErrNoQuestions)
}

func TestBuildSessionUnknownUserAndTopic(t *testing.T) {
	f := newSessionFixture(mcqPool(3)...)

	_, err := f.svc.BuildSession("00000000", "t1", nil)
	assert.ErrorIs(t, err, util.ErrUserNotFound)

	_, err = f.svc.BuildSession("12345678", "missing", nil)
	assert.ErrorIs(t, err, util.ErrTopicNotFound)
}

func openSession(f *sessionFixture, questionIDs ...string) string {
	items := make([]model.SessionItem, len(questionIDs))
	for i, qid := range questionIDs {
		items[i] = model.SessionItem{
			ID: "item-" + qid, SessionID: "sess1", QuestionID: qid, Sequence: i + 1,
		}
	}
	session := &model.Session{
		ID: "sess1", UserID: "12345678", TopicID: "t1",
		Status: model.SessionInProgress, StartedAt: testNow,
	}
	f.sessions.CreateWithItems(session, items)
	return session.ID
}

func TestSubmitAnswerNormalization(t *testing.T) {
	f := newSessionFixture(mcq("q1"))
	sid := openSession(f, "q1")

	// 首尾空白和大小写不影响判定
	result, err := f.svc.SubmitAnswer(sid, "12345678", "q1", "  a ")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.True(t, result.IsCorrect)
}

func TestSubmitAnswerIncorrect(t *testing.T) {
	f := newSessionFixture(mcq("q1"))
	sid := openSession(f, "q1")

	result, err := f.svc.SubmitAnswer(sid, "12345678", "q1", "B")
	require.NoError(t, err)
	assert.False(t, result.IsCorrect)
}

func TestSubmitAnswerIdempotent(t *testing.T) {
	f := newSessionFixture(mcq("q1"))
	sid := openSession(f, "q1")

	first, err := f.svc.SubmitAnswer(sid, "12345678", "q1", "A")
	require.NoError(t, err)
	require.True(t, first.IsCorrect)

	// 重复提交不覆盖首次结果，也不产生第二次写入
	second, err := f.svc.SubmitAnswer(sid, "12345678", "q1", "B")
	require.NoError(t, err)
	assert.True(t, second.IsCorrect)
	assert.Equal(t, 1, f.sessions.recordCalls)
}

func TestSubmitAnswerUnknownItem(t *testing.T) {
	f := newSessionFixture(mcq("q1"))
	sid := openSession(f, "q1")

	_, err := f.svc.SubmitAnswer("missing", "12345678", "q1", "A")
	assert.ErrorIs(t, err, util.ErrSessionItemNotFound)

	_, err = f.svc.SubmitAnswer(sid, "12345678", "other", "A")
	assert.ErrorIs(t, err, util.ErrSessionItemNotFound)

	// 会话属于别人时同样不可见
	_, err = f.svc.SubmitAnswer(sid, "87654321", "q1", "A")
	assert.ErrorIs(t, err, util.ErrSessionItemNotFound)
}

func TestCompleteSessionAdvancesAnsweredItems(t *testing.T) {
	f := newSessionFixture(mcq("q1"), mcq("q2"), mcq("q3"))
	sid := openSession(f, "q1", "q2", "q3")

	_, err := f.svc.SubmitAnswer(sid, "12345678", "q1", "A")
	require.NoError(t, err)
	_, err = f.svc.SubmitAnswer(sid, "12345678", "q2", "C")
	require.NoError(t, err)
	// q3 不作答

	require.NoError(t, f.svc.CompleteSession(sid, "12345678"))

	session, err := f.sessions.FindByID(sid)
	require.NoError(t, err)
	assert.Equal(t, model.SessionCompleted, session.Status)
	require.NotNil(t, session.CompletedAt)

	// 只有已作答的两道题推进复习状态
	require.Len(t, f.sessions.finished, 2)
	byQuestion := map[string]model.ReviewState{}
	for _, st := range f.sessions.finished {
		byQuestion[st.QuestionID] = st
	}
	require.NotNil(t, byQuestion["q1"].LastResultCorrect)
	assert.True(t, *byQuestion["q1"].LastResultCorrect)
	require.NotNil(t, byQuestion["q2"].LastResultCorrect)
	assert.False(t, *byQuestion["q2"].LastResultCorrect)
}

func TestCompleteSessionUsesExistingState(t *testing.T) {
	f := newSessionFixture(mcq("q1"))
	sid := openSession(f, "q1")
	f.ledger.states[stateKey("12345678", "q1")] = model.ReviewState{
		UserID: "12345678", QuestionID: "q1",
		State: model.ReviewStateReview, Reps: 4, Stability: 12.5,
	}

	_, err := f.svc.SubmitAnswer(sid, "12345678", "q1", "A")
	require.NoError(t, err)
	require.NoError(t, f.svc.CompleteSession(sid, "12345678"))

	require.Len(t, f.scheduler.inputs, 1)
	assert.Equal(t, 4, f.scheduler.inputs[0].Reps)
	assert.Equal(t, model.ReviewStateReview, f.scheduler.inputs[0].State)
}

func TestCompleteSessionTwice(t *testing.T) {
	f := newSessionFixture(mcq("q1"))
	sid := openSession(f, "q1")

	require.NoError(t, f.svc.CompleteSession(sid, "12345678"))
	assert.ErrorIs(t, f.svc.CompleteSession(sid, "12345678"), util.ErrSessionNotActive)
}

func TestCompleteSessionOwnership(t *testing.T) {
	f := newSessionFixture(mcq("q1"))
	sid := openSession(f, "q1")

	assert.ErrorIs(t, f.svc.CompleteSession(sid, "87654321"), util.ErrSessionNotFound)
	assert.ErrorIs(t, f.svc.CompleteSession("missing", "12345678"), util.ErrSessionNotFound)
}

func TestAbandonSession(t *testing.T) {
	f := newSessionFixture(mcq("q1"))
	sid := openSession(f, "q1")

	_, err := f.svc.SubmitAnswer(sid, "12345678", "q1", "A")
	require.NoError(t, err)

	require.NoError(t, f.svc.AbandonSession(sid, "12345678"))

	session, err := f.sessions.FindByID(sid)
	require.NoError(t, err)
	assert.Equal(t, model.SessionAbandoned, session.Status)
	// 放弃不推进任何复习状态
	assert.Empty(t, f.sessions.finished)

	assert.ErrorIs(t, f.svc.AbandonSession(sid, "12345678"), util.ErrSessionNotActive)
}
