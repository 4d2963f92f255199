package service

import (
	"math/rand"
	"math_practice_backend/internal/model"
	"math_practice_backend/internal/util"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserFixture() (*UserService, *fakeUserStore) {
	users := newFakeUserStore()
	return NewUserService(users, rand.New(rand.NewSource(1))), users
}

func TestCreateUserGeneratesNumericID(t *testing.T) {
	svc, _ := newUserFixture()

	user, err := svc.CreateUser(CreateUserRequest{GradeLevel: "SMA", ClassLevel: 11})
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^\d{8}$`), user.ID)
	assert.Equal(t, model.GradeSMA, user.GradeLevel)
	assert.Equal(t, 11, user.ClassLevel)
}

func TestCreateUserDefaults(t *testing.T) {
	svc, _ := newUserFixture()

	// 年级信息可以先不填
	user, err := svc.CreateUser(CreateUserRequest{})
	require.NoError(t, err)
	assert.Equal(t, model.GradeSMP, user.GradeLevel)
	assert.Equal(t, model.MinClassLevel, user.ClassLevel)
}

func TestCreateUserValidation(t *testing.T) {
	svc, _ := newUserFixture()

	_, err := svc.CreateUser(CreateUserRequest{GradeLevel: "SD", ClassLevel: 7})
	assert.ErrorIs(t, err, util.ErrInvalidGradeLevel)

	_, err = svc.CreateUser(CreateUserRequest{GradeLevel: "SMP", ClassLevel: 13})
	assert.ErrorIs(t, err, util.ErrInvalidClassLevel)
}

func TestCreateUserRetriesOnCollision(t *testing.T) {
	svc, users := newUserFixture()

	first, err := svc.CreateUser(CreateUserRequest{})
	require.NoError(t, err)

	// 相同种子会先撞到已有 ID，应重试出新 ID
	svc2 := NewUserService(users, rand.New(rand.NewSource(1)))
	second, err := svc2.CreateUser(CreateUserRequest{})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestUpdateUserPartial(t *testing.T) {
	svc, users := newUserFixture()
	users.Create(&model.User{ID: "12345678", GradeLevel: model.GradeSMP, ClassLevel: 7})

	// 只改班级年级，年级段不动
	user, err := svc.UpdateUser("12345678", UpdateUserRequest{ClassLevel: 9})
	require.NoError(t, err)
	assert.Equal(t, model.GradeSMP, user.GradeLevel)
	assert.Equal(t, 9, user.ClassLevel)

	user, err = svc.UpdateUser("12345678", UpdateUserRequest{GradeLevel: "SMA"})
	require.NoError(t, err)
	assert.Equal(t, model.GradeSMA, user.GradeLevel)
	assert.Equal(t, 9, user.ClassLevel)
}

func TestUpdateUserValidation(t *testing.T) {
	svc, users := newUserFixture()
	users.Create(&model.User{ID: "12345678", GradeLevel: model.GradeSMP, ClassLevel: 7})

	_, err := svc.UpdateUser("12345678", UpdateUserRequest{GradeLevel: "SD"})
	assert.ErrorIs(t, err, util.ErrInvalidGradeLevel)

	_, err = svc.UpdateUser("12345678", UpdateUserRequest{ClassLevel: 6})
	assert.ErrorIs(t, err, util.ErrInvalidClassLevel)
}

func TestValidateUser(t *testing.T) {
	svc, users := newUserFixture()
	users.Create(&model.User{ID: "12345678", GradeLevel: model.GradeSMP, ClassLevel: 7})

	assert.NoError(t, svc.ValidateUser("12345678"))
	assert.ErrorIs(t, svc.ValidateUser("00000000"), util.ErrUserNotFound)
}
