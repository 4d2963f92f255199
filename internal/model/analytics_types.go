package model

// TopicAggregate 仪表盘专题聚合查询的投影结果
type TopicAggregate struct {
	TopicID        string `json:"topicId"`
	TotalQuestions int    `json:"totalQuestions"`
	AnsweredCount  int    `json:"answeredCount"`
	DueCount       int    `json:"dueCount"`
}

// TopicStatus 专题掌握状态；locked 为预留值，当前算法不会产出
type TopicStatus string

const (
	TopicStatusLocked     TopicStatus = "locked"
	TopicStatusNew        TopicStatus = "new"
	TopicStatusInProgress TopicStatus = "in_progress"
	TopicStatusMastered   TopicStatus = "mastered"
)
