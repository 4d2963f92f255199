// 题库种子脚本
//
// 从 scripts/seed_data.yaml 读取专题和题目并写入数据库，
// 已存在的记录（按专题短码 / 题目 ID）会被跳过，可重复执行。
//
// 用法: go run scripts/seed.go

package main

import (
	"errors"
	"log"
	"math_practice_backend/internal/config"
	"math_practice_backend/internal/model"
	"math_practice_backend/pkg/database"
	"math_practice_backend/pkg/logger"
	"os"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

type seedFile struct {
	Topics []seedTopic `yaml:"topics"`
}

type seedTopic struct {
	ID          string         `yaml:"id"`
	Name        string         `yaml:"name"`
	ShortCode   string         `yaml:"short_code"`
	GradeLevel  string         `yaml:"grade_level"`
	ClassLevels []int          `yaml:"class_levels"`
	Questions   []seedQuestion `yaml:"questions"`
}

type seedQuestion struct {
	ID            string   `yaml:"id"`
	ClassLevel    int      `yaml:"class_level"`
	Prompt        string   `yaml:"prompt"`
	Options       []string `yaml:"options"`
	Correct       string   `yaml:"correct"`
	Explanation   string   `yaml:"explanation"`
	SourceYear    int      `yaml:"source_year"`
	SourcePackage string   `yaml:"source_package"`
	SourceNumber  int      `yaml:"source_number"`
}

func main() {
	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}

	logger.InitLogger(&cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	raw, err := os.ReadFile("scripts/seed_data.yaml")
	if err != nil {
		log.Fatalf("无法读取种子数据: %v", err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		log.Fatalf("解析种子数据失败: %v", err)
	}

	topics, questions := 0, 0
	for _, st := range seed.Topics {
		topic := model.Topic{
			ID:          st.ID,
			Name:        st.Name,
			ShortCode:   st.ShortCode,
			GradeLevel:  model.GradeLevel(st.GradeLevel),
			ClassLevels: st.ClassLevels,
		}
		if !model.ValidGradeLevel(topic.GradeLevel) {
			log.Fatalf("专题 %s 年级段无效: %s", st.ShortCode, st.GradeLevel)
		}
		if topic.ID == "" {
			topic.ID = model.GenerateUUID()
		}

		var existing model.Topic
		err := db.Where("short_code = ? AND grade_level = ?", topic.ShortCode, topic.GradeLevel).First(&existing).Error
		switch {
		case err == nil:
			topic = existing
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := db.Create(&topic).Error; err != nil {
				log.Fatalf("创建专题 %s 失败: %v", topic.ShortCode, err)
			}
			topics++
		default:
			log.Fatalf("查询专题 %s 失败: %v", topic.ShortCode, err)
		}

		for _, sq := range st.Questions {
			q := model.Question{
				ID:              sq.ID,
				TopicID:         topic.ID,
				GradeLevel:      topic.GradeLevel,
				ClassLevel:      sq.ClassLevel,
				PromptText:      sq.Prompt,
				Type:            model.QuestionTypeMCQ,
				Options:         sq.Options,
				CorrectOption:   sq.Correct,
				ExplanationText: sq.Explanation,
				SourceYear:      sq.SourceYear,
				SourcePackage:   sq.SourcePackage,
				SourceNumber:    sq.SourceNumber,
			}
			if q.ID == "" {
				q.ID = model.GenerateUUID()
			}

			var count int64
			if err := db.Model(&model.Question{}).Where("id = ?", q.ID).Count(&count).Error; err != nil {
				log.Fatalf("查询题目 %s 失败: %v", q.ID, err)
			}
			if count > 0 {
				continue
			}
			if err := db.Create(&q).Error; err != nil {
				log.Fatalf("创建题目 %s 失败: %v", q.ID, err)
			}
			questions++
		}
	}

	log.Printf("完成！新增专题 %d 个，题目 %d 道", topics, questions)
}
