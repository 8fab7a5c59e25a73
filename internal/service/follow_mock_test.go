package service

import (
	"context"
	"testing"

	"yatube/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockFollowRepository struct {
	mock.Mock
}

func (m *MockFollowRepository) Create(ctx context.Context, userID, authorID uint) error {
	return m.Called(ctx, userID, authorID).Error(0)
}

func (m *MockFollowRepository) Delete(ctx context.Context, userID, authorID uint) error {
	return m.Called(ctx, userID, authorID).Error(0)
}

func (m *MockFollowRepository) Exists(ctx context.Context, userID, authorID uint) (bool, error) {
	args := m.Called(ctx, userID, authorID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFollowRepository) AuthorIDs(ctx context.Context, userID uint) ([]uint, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]uint), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]models.User), args.Error(1)
}

func TestFollow_SelfFollowTouchesNothing(t *testing.T) {
	follows := new(MockFollowRepository)
	users := new(MockUserRepository)
	svc := NewFollowService(follows, users)

	assert.NoError(t, svc.Follow(context.Background(), 4, 4))
	ok, err := svc.IsFollowing(context.Background(), 4, 4)
	assert.NoError(t, err)
	assert.False(t, ok)

	follows.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	follows.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything, mock.Anything)
	users.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestFollow_MissingAuthorSkipsInsert(t *testing.T) {
	follows := new(MockFollowRepository)
	users := new(MockUserRepository)
	users.On("GetByID", mock.Anything, uint(9)).Return(nil, models.NewNotFoundError("User", 9))
	svc := NewFollowService(follows, users)

	assertCode(t, models.CodeNotFound, svc.Follow(context.Background(), 1, 9))
	follows.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	users.AssertExpectations(t)
}

func TestUnfollow_PassesNotFoundThrough(t *testing.T) {
	follows := new(MockFollowRepository)
	follows.On("Delete", mock.Anything, uint(1), uint(2)).Return(models.NewNotFoundError("Follow", "1->2"))
	svc := NewFollowService(follows, new(MockUserRepository))

	assertCode(t, models.CodeNotFound, svc.Unfollow(context.Background(), 1, 2))
	follows.AssertExpectations(t)
}
