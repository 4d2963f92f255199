// Package srs 实现间隔复习调度。组卷与分析逻辑只依赖 Scheduler 接口，
// 遗忘曲线公式可整体替换。当前实现基于 FSRS 的稳定度/难度模型，
// 练习只有对错两档，对应 FSRS 的 Good / Again。
package srs

import (
	"math"
	"math_practice_backend/internal/model"
	"time"
)

// Scheduler 根据一次作答结果推进复习状态
type Scheduler interface {
	Review(st model.ReviewState, correct bool, now time.Time) model.ReviewState
}

// FSRS v6 默认参数
var defaultWeights = [21]float64{
	0.212, 1.2931, 2.3065, 8.2956,
	6.4133, 0.8334, 3.0194, 0.001,
	1.8722, 0.1666, 0.796, 1.4835,
	0.0614, 0.2629, 1.6483, 0.6014,
	1.8729, 0.5425, 0.0912, 0.0658,
	0.1542,
}

const (
	ratingAgain = 1
	ratingGood  = 3
	ratingEasy  = 4

	maxIntervalDays = 36500
)

type FSRSScheduler struct {
	w                [21]float64
	decay            float64
	factor           float64
	desiredRetention float64
}

func NewFSRSScheduler(desiredRetention float64) *FSRSScheduler {
	if desiredRetention <= 0 || desiredRetention >= 1 {
		desiredRetention = 0.9
	}
	decay := -defaultWeights[20]
	return &FSRSScheduler{
		w:                defaultWeights,
		decay:            decay,
		factor:           math.Pow(0.9, 1.0/decay) - 1.0,
		desiredRetention: desiredRetention,
	}
}

// Review 不修改入参，返回推进后的状态。
// 首次复习（隐含 new）按初始公式建立稳定度和难度，之后按
// 回忆成功/失败两条路径更新，间隔向目标保持率求解。
func (s *FSRSScheduler) Review(st model.ReviewState, correct bool, now time.Time) model.ReviewState {
	rating := ratingAgain
	if correct {
		rating = ratingGood
	}

	seen := st.Reps > 0 || st.State == model.ReviewStateLearning ||
		st.State == model.ReviewStateReview || st.State == model.ReviewStateRelearning

	if !seen {
		st.Stability = s.initStability(rating)
		st.Difficulty = s.initDifficulty(rating, true)
	} else {
		var elapsedDays float64
		if st.LastReviewedAt != nil {
			elapsedDays = now.Sub(*st.LastReviewedAt).Hours() / 24.0
		}
		retr := s.retrievability(elapsedDays, st.Stability)
		st.Difficulty = s.nextDifficulty(st.Difficulty, rating)
		if correct {
			st.Stability = s.nextRecallStability(st.Difficulty, st.Stability, retr)
		} else {
			st.Stability = s.nextForgetStability(st.Difficulty, st.Stability, retr)
		}
	}

	if correct {
		switch st.State {
		case model.ReviewStateLearning, model.ReviewStateReview, model.ReviewStateRelearning:
			st.State = model.ReviewStateReview
		default:
			st.State = model.ReviewStateLearning
		}
		days := s.nextInterval(st.Stability)
		st.NextDueAt = now.AddDate(0, 0, days)
	} else {
		if seen {
			st.Lapses++
		}
		st.State = model.ReviewStateRelearning
		// 答错隔天重练
		st.NextDueAt = now.AddDate(0, 0, 1)
	}

	st.Reps++
	st.LastResultCorrect = &correct
	st.LastReviewedAt = &now

	return st
}

// retrievability R(t, S) = (1 + FACTOR * t / S) ^ DECAY
func (s *FSRSScheduler) retrievability(elapsedDays, stability float64) float64 {
	if stability <= 0 {
		return 0
	}
	if elapsedDays < 0 {
		elapsedDays = 0
	}
	return math.Pow(1+s.factor*elapsedDays/stability, s.decay)
}

func (s *FSRSScheduler) initStability(rating int) float64 {
	return clampStability(s.w[rating-1])
}

// initDifficulty D₀(G) = w[4] - e^(w[5] * (G - 1)) + 1
func (s *FSRSScheduler) initDifficulty(rating int, clamp bool) float64 {
	d := s.w[4] - math.Exp(s.w[5]*float64(rating-1)) + 1
	if clamp {
		return clampDifficulty(d)
	}
	return d
}

// nextInterval I(r, S) = round((S / FACTOR) * (r^(1/DECAY) - 1))
func (s *FSRSScheduler) nextInterval(stability float64) int {
	ivl := stability / s.factor * (math.Pow(s.desiredRetention, 1.0/s.decay) - 1)
	days := int(math.Round(ivl))
	if days < 1 {
		days = 1
	}
	if days > maxIntervalDays {
		days = maxIntervalDays
	}
	return days
}

// nextDifficulty 线性阻尼 + 向 D₀(Easy) 均值回归
func (s *FSRSScheduler) nextDifficulty(difficulty float64, rating int) float64 {
	deltaD := -s.w[6] * (float64(rating) - 3)
	dPrime := difficulty + (10-difficulty)*deltaD/9
	d0Easy := s.initDifficulty(ratingEasy, false)
	return clampDifficulty(s.w[7]*d0Easy + (1-s.w[7])*dPrime)
}

// nextRecallStability S'_r，回忆成功后的稳定度增长
func (s *FSRSScheduler) nextRecallStability(d, stability, retr float64) float64 {
	return clampStability(stability * (1 + math.Exp(s.w[8])*
		(11-d)*
		math.Pow(stability, -s.w[9])*
		(math.Exp((1-retr)*s.w[10])-1)))
}

// nextForgetStability S'_f = min(long, short)
func (s *FSRSScheduler) nextForgetStability(d, stability, retr float64) float64 {
	long := s.w[11] *
		math.Pow(d, -s.w[12]) *
		(math.Pow(stability+1, s.w[13]) - 1) *
		math.Exp((1-retr)*s.w[14])
	short := stability / math.Exp(s.w[17]*s.w[18])
	return clampStability(math.Min(long, short))
}

func clampStability(v float64) float64 {
	return math.Max(v, 0.001)
}

func clampDifficulty(v float64) float64 {
	return math.Min(math.Max(v, 1), 10)
}
