package util

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrTopicNotFound       = errors.New("topic not found")
	ErrQuestionNotFound    = errors.New("question not found")
	ErrSessionNotFound     = errors.New("session not found")
	ErrSessionItemNotFound = errors.New("session item not found or session not active")
	// ErrNoQuestions 专题在该班级年级下没有可用题目，与 not found 区分
	ErrNoQuestions        = errors.New("no questions available for this topic/level")
	ErrSessionNotActive   = errors.New("session is not in progress")
	ErrInvalidGradeLevel  = errors.New("grade_level must be 'SMP' or 'SMA'")
	ErrInvalidClassLevel  = errors.New("class_level must be between 7 and 12")
	ErrUserIDExhausted    = errors.New("failed to generate unique user ID after multiple attempts")
)
