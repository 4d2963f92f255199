package model

import (
	"time"
)

type GradeLevel string

const (
	GradeSMP GradeLevel = "SMP"
	GradeSMA GradeLevel = "SMA"
)

const (
	MinClassLevel = 7
	MaxClassLevel = 12
)

// User 学生账号，主键为 8 位数字字符串
// swagger:model User
type User struct {
	ID         string     `gorm:"primaryKey;type:varchar(8)" json:"id"`
	GradeLevel GradeLevel `gorm:"type:varchar(3);not null" json:"gradeLevel"`
	ClassLevel int        `gorm:"not null" json:"classLevel"`
	CreatedAt  time.Time  `json:"createdAt"`
}

func (User) TableName() string {
	return "users"
}

// ValidGradeLevel 校验年级段取值
func ValidGradeLevel(g GradeLevel) bool {
	return g == GradeSMP || g == GradeSMA
}

// ValidClassLevel 校验班级年级范围 7-12
func ValidClassLevel(c int) bool {
	return c >= MinClassLevel && c <= MaxClassLevel
}
