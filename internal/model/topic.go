package model

// Topic 数学专题，按年级段和班级年级划分题库
// swagger:model Topic
type Topic struct {
	ID          string     `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Name        string     `gorm:"size:255;not null" json:"name"`
	ShortCode   string     `gorm:"size:32;not null" json:"shortCode"`
	GradeLevel  GradeLevel `gorm:"type:varchar(3);not null;index" json:"gradeLevel"`
	ClassLevels []int      `gorm:"type:json;serializer:json;not null" json:"classLevels"`
}

func (Topic) TableName() string {
	return "topics"
}

// HasClassLevel 判断专题是否覆盖指定班级年级
func (t *Topic) HasClassLevel(classLevel int) bool {
	for _, c := range t.ClassLevels {
		if c == classLevel {
			return true
		}
	}
	return false
}
