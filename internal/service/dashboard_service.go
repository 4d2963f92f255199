package service

import (
	"context"
	"encoding/json"
	"errors"
	"math_practice_backend/internal/model"
	"math_practice_backend/internal/util"
	"math_practice_backend/pkg/logger"
	"sort"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DashboardService 用户进度的只读聚合：到期题数、活跃专题数、
// 连续打卡天数和分专题掌握度。全部以 UTC 为基准日历
type DashboardService struct {
	UserRepo     UserStore
	TopicRepo    TopicStore
	QuestionRepo QuestionStore
	Ledger       ReviewStateLedger
	SessionRepo  SessionStore

	rdb      *redis.Client
	cacheTTL time.Duration
	now      func() time.Time
}

func NewDashboardService(
	userRepo UserStore,
	topicRepo TopicStore,
	questionRepo QuestionStore,
	ledger ReviewStateLedger,
	sessionRepo SessionStore,
	rdb *redis.Client,
	cacheTTLSeconds int,
) *DashboardService {
	return &DashboardService{
		UserRepo:     userRepo,
		TopicRepo:    topicRepo,
		QuestionRepo: questionRepo,
		Ledger:       ledger,
		SessionRepo:  sessionRepo,
		rdb:          rdb,
		cacheTTL:     time.Duration(cacheTTLSeconds) * time.Second,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

type DashboardStats struct {
	QuestionsDue   int64 `json:"questionsDue"`
	TopicsMastered int64 `json:"topicsMastered"`
	CurrentStreak  int   `json:"currentStreak"`
}

type TopicStat struct {
	TopicID        string            `json:"topicId"`
	Name           string            `json:"name"`
	QuestionsDue   int               `json:"questionsDue"`
	TotalQuestions int               `json:"totalQuestions"`
	MasteryLevel   int               `json:"masteryLevel"`
	Status         model.TopicStatus `json:"status"`
}

// GetStats 仪表盘三项统计。无中间写入时重复调用结果一致，
// 短 TTL 缓存命中时直接返回
func (s *DashboardService) GetStats(userID string) (*DashboardStats, error) {
	if cached := s.loadCachedStats(userID); cached != nil {
		return cached, nil
	}

	if _, err := s.UserRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	now := s.now()

	questionsDue, err := s.Ledger.CountDue(userID, now)
	if err != nil {
		return nil, err
	}

	activeTopics, err := s.Ledger.CountActiveTopics(userID)
	if err != nil {
		return nil, err
	}

	startTimes, err := s.SessionRepo.RecentStartTimes(userID, util.StreakWindow)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		QuestionsDue:   questionsDue,
		TopicsMastered: activeTopics,
		CurrentStreak:  ComputeStreak(startTimes, now),
	}

	s.storeCachedStats(userID, stats)
	return stats, nil
}

// ComputeStreak 连续打卡天数。输入为最近会话的开始时间，按 UTC 日历日
// 去重后倒序遍历：
//   - 最近一次在今天：从 1 起算，游标移到昨天
//   - 最近一次在昨天：从 0 起算，游标设在昨天（今天尚未练习不计入）
//   - 更早：直接为 0
//
// 游标逐日回退，遇到第一个不连续的日期即停止
func ComputeStreak(startTimes []time.Time, now time.Time) int {
	if len(startTimes) == 0 {
		return 0
	}

	seen := make(map[time.Time]bool, len(startTimes))
	var dates []time.Time
	for _, t := range startTimes {
		d := dateOf(t.UTC())
		if !seen[d] {
			seen[d] = true
			dates = append(dates, d)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].After(dates[j]) })

	today := dateOf(now.UTC())
	yesterday := today.AddDate(0, 0, -1)

	streak := 0
	var cursor time.Time

	switch {
	case dates[0].Equal(today):
		streak = 1
		cursor = today
		dates = dates[1:]
	case dates[0].Equal(yesterday):
		// 昨天练过但今天还没练：从昨天开始累计，不为今天记 1
		cursor = yesterday
	default:
		return 0
	}

	check := cursor.AddDate(0, 0, -1)
	for _, d := range dates {
		if !d.Equal(check) {
			break
		}
		streak++
		check = check.AddDate(0, 0, -1)
	}

	return streak
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// GetTopicStats 用户年级段和班级年级下各专题的掌握度。
// 掌握度为已答题占比向下取整的百分数，大于 90 记为 mastered；
// 没有题目的专题不返回
func (s *DashboardService) GetTopicStats(userID string) ([]TopicStat, error) {
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

	topicMap := make(map[string]model.Topic)
	var topicIDs []string
	for _, t := range topics {
		if t.HasClassLevel(user.ClassLevel) {
			topicMap[t.ID] = t
			topicIDs = append(topicIDs, t.ID)
		}
	}
	if len(topicIDs) == 0 {
		return []TopicStat{}, nil
	}

	rows, err := s.QuestionRepo.TopicAggregates(userID, topicIDs, user.ClassLevel, s.now())
	if err != nil {
		return nil, err
	}

	stats := make([]TopicStat, 0, len(rows))
	for _, row := range rows {
		topic, ok := topicMap[row.TopicID]
		if !ok || row.TotalQuestions == 0 {
			continue
		}

		var mastery int
		var status model.TopicStatus
		if row.AnsweredCount == 0 {
			mastery = 0
			status = model.TopicStatusNew
		} else {
			mastery = row.AnsweredCount * 100 / row.TotalQuestions
			if mastery > 90 {
				status = model.TopicStatusMastered
			} else {
				status = model.TopicStatusInProgress
			}
		}

		stats = append(stats, TopicStat{
			TopicID:        topic.ID,
			Name:           topic.Name,
			QuestionsDue:   row.DueCount,
			TotalQuestions: row.TotalQuestions,
			MasteryLevel:   mastery,
			Status:         status,
		})
	}

	return stats, nil
}

// InvalidateUser 会话或作答写入后清掉统计缓存
func (s *DashboardService) InvalidateUser(userID string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(context.Background(), statsCacheKey(userID)).Err(); err != nil {
		logger.Log.Warn("failed to invalidate dashboard cache", zap.String("userID", userID), zap.Error(err))
	}
}

func (s *DashboardService) loadCachedStats(userID string) *DashboardStats {
	if s.rdb == nil || s.cacheTTL <= 0 {
		return nil
	}
	data, err := s.rdb.Get(context.Background(), statsCacheKey(userID)).Bytes()
	if err != nil {
		return nil
	}
	var stats DashboardStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil
	}
	return &stats
}

func (s *DashboardService) storeCachedStats(userID string, stats *DashboardStats) {
	if s.rdb == nil || s.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := s.rdb.Set(context.Background(), statsCacheKey(userID), data, s.cacheTTL).Err(); err != nil {
		logger.Log.Warn("failed to cache dashboard stats", zap.String("userID", userID), zap.Error(err))
	}
}

func statsCacheKey(userID string) string {
	return "dashboard:stats:" + userID
}
