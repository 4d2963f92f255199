package srs

import (
	"math_practice_backend/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

func newState() model.ReviewState {
	return model.ReviewState{
		UserID: "12345678", QuestionID: "q1",
		State: model.ReviewStateNew, NextDueAt: now,
	}
}

func TestReviewFirstCorrect(t *testing.T) {
	s := NewFSRSScheduler(0.9)

	st := s.Review(newState(), true, now)

	assert.Equal(t, model.ReviewStateLearning, st.State)
	assert.Equal(t, 1, st.Reps)
	assert.Equal(t, 0, st.Lapses)
	assert.Greater(t, st.Stability, 0.0)
	assert.GreaterOrEqual(t, st.Difficulty, 1.0)
	assert.LessOrEqual(t, st.Difficulty, 10.0)
	assert.True(t, st.NextDueAt.After(now))
	require.NotNil(t, st.LastResultCorrect)
	assert.True(t, *st.LastResultCorrect)
	require.NotNil(t, st.LastReviewedAt)
	assert.Equal(t, now, *st.LastReviewedAt)
}

func TestReviewFirstIncorrect(t *testing.T) {
	s := NewFSRSScheduler(0.9)

	st := s.Review(newState(), false, now)

	assert.Equal(t, model.ReviewStateRelearning, st.State)
	assert.Equal(t, 1, st.Reps)
	// 首次作答即错不算遗忘
	assert.Equal(t, 0, st.Lapses)
	// 答错隔天重练
	assert.Equal(t, now.AddDate(0, 0, 1), st.NextDueAt)
}

func TestReviewDoesNotMutateInput(t *testing.T) {
	s := NewFSRSScheduler(0.9)
	in := newState()

	_ = s.Review(in, true, now)

	assert.Equal(t, newState(), in)
}

func TestReviewStabilityGrowsOnRecall(t *testing.T) {
	s := NewFSRSScheduler(0.9)

	st := s.Review(newState(), true, now)
	first := st.Stability

	// 到期当天再次答对，稳定度应增长，间隔拉长
	later := st.NextDueAt
	st = s.Review(st, true, later)

	assert.Equal(t, model.ReviewStateReview, st.State)
	assert.Equal(t, 2, st.Reps)
	assert.Greater(t, st.Stability, first)
	assert.True(t, st.NextDueAt.Sub(later) >= later.Sub(now))
}

func TestReviewLapseShrinksStability(t *testing.T) {
	s := NewFSRSScheduler(0.9)

	st := s.Review(newState(), true, now)
	before := st.Stability

	st = s.Review(st, false, st.NextDueAt)

	assert.Equal(t, model.ReviewStateRelearning, st.State)
	assert.Equal(t, 1, st.Lapses)
	assert.Less(t, st.Stability, before)

	// 遗忘后再次答对回到 review
	st = s.Review(st, true, st.NextDueAt)
	assert.Equal(t, model.ReviewStateReview, st.State)
	assert.Equal(t, 1, st.Lapses)
}

func TestReviewHigherRetentionShortensInterval(t *testing.T) {
	strict := NewFSRSScheduler(0.95)
	lax := NewFSRSScheduler(0.8)

	strictState := strict.Review(newState(), true, now)
	laxState := lax.Review(newState(), true, now)

	assert.True(t, strictState.NextDueAt.Before(laxState.NextDueAt) ||
		strictState.NextDueAt.Equal(laxState.NextDueAt))
}

func TestReviewIntervalAtLeastOneDay(t *testing.T) {
	s := NewFSRSScheduler(0.9)

	st := s.Review(newState(), false, now)
	st = s.Review(st, true, st.NextDueAt)

	assert.True(t, st.NextDueAt.Sub(*st.LastReviewedAt) >= 24*time.Hour)
}

func TestNewFSRSSchedulerDefaultsRetention(t *testing.T) {
	assert.InDelta(t, 0.9, NewFSRSScheduler(0).desiredRetention, 1e-9)
	assert.InDelta(t, 0.9, NewFSRSScheduler(1.5).desiredRetention, 1e-9)
	assert.InDelta(t, 0.85, NewFSRSScheduler(0.85).desiredRetention, 1e-9)
}
