package service

import (
	"errors"
	"fmt"
	"math/rand"
	"math_practice_backend/internal/model"
	"math_practice_backend/internal/util"
	"time"

	"gorm.io/gorm"
)

const userIDAttempts = 100

// UserService 用户档案管理，ID 为随机生成的 8 位数字字符串
type UserService struct {
	UserRepo UserStore

	rng *rand.Rand
}

func NewUserService(userRepo UserStore, rng *rand.Rand) *UserService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &UserService{UserRepo: userRepo, rng: rng}
}

type CreateUserRequest struct {
	GradeLevel string `json:"gradeLevel"`
	ClassLevel int    `json:"classLevel"`
}

// CreateUser 生成唯一 ID 并创建用户。年级信息可以先不填，
// 此时写入默认值，后续通过 PATCH 更新
func (s *UserService) CreateUser(req CreateUserRequest) (*model.User, error) {
	userID, err := s.generateUserID()
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:         userID,
		GradeLevel: model.GradeSMP,
		ClassLevel: model.MinClassLevel,
	}

	if req.GradeLevel != "" || req.ClassLevel != 0 {
		grade := model.GradeLevel(req.GradeLevel)
		if !model.ValidGradeLevel(grade) {
			return nil, util.ErrInvalidGradeLevel
		}
		if !model.ValidClassLevel(req.ClassLevel) {
			return nil, util.ErrInvalidClassLevel
		}
		user.GradeLevel = grade
		user.ClassLevel = req.ClassLevel
	}

	if err := s.UserRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetUser(id string) (*model.User, error) {
	user, err := s.UserRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

type UpdateUserRequest struct {
	GradeLevel string `json:"gradeLevel"`
	ClassLevel int    `json:"classLevel"`
}

// UpdateUser 局部更新年级段和班级年级
func (s *UserService) UpdateUser(id string, req UpdateUserRequest) (*model.User, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}

	if req.GradeLevel != "" {
		grade := model.GradeLevel(req.GradeLevel)
		if !model.ValidGradeLevel(grade) {
			return nil, util.ErrInvalidGradeLevel
		}
		user.GradeLevel = grade
	}
	if req.ClassLevel != 0 {
		if !model.ValidClassLevel(req.ClassLevel) {
			return nil, util.ErrInvalidClassLevel
		}
		user.ClassLevel = req.ClassLevel
	}

	if err := s.UserRepo.Save(user); err != nil {
		return nil, err
	}
	return user, nil
}

// ValidateUser 仅校验 ID 是否存在
func (s *UserService) ValidateUser(id string) error {
	_, err := s.GetUser(id)
	return err
}

// generateUserID 随机生成 8 位数字 ID，冲突时重试
func (s *UserService) generateUserID() (string, error) {
	for i := 0; i < userIDAttempts; i++ {
		id := fmt.Sprintf("%08d", 10000000+s.rng.Intn(90000000))
		exists, err := s.UserRepo.Exists(id)
		if err != nil {
			return "", err
		}
		if !exists {
			return id, nil
		}
	}
	return "", util.ErrUserIDExhausted
}
