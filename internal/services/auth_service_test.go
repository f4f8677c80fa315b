package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"katalog/internal/models"
	"katalog/internal/repositories"
	"katalog/internal/services"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func TestAuthService_RegisterUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewAuthService(mockRepo, "test_secret")

	user := &models.User{Username: "alice", Email: "alice@example.com", Password: "password123"}

	mockRepo.On("GetByUsername", mock.Anything, "alice").Return(nil, repositories.ErrNotFound).Once()
	mockRepo.On("GetByEmail", mock.Anything, "alice@example.com").Return(nil, repositories.ErrNotFound).Once()
	mockRepo.On("Create", mock.Anything, user).Return(nil).Once()

	err := service.RegisterUser(context.Background(), user)

	assert.NoError(t, err)
	// The stored password must be a bcrypt hash of the original.
	assert.NotEqual(t, "password123", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")))
	mockRepo.AssertExpectations(t)
}

func TestAuthService_RegisterUser_UsernameTaken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewAuthService(mockRepo, "test_secret")

	existing := &models.User{ID: "abc", Username: "alice"}
	mockRepo.On("GetByUsername", mock.Anything, "alice").Return(existing, nil).Once()

	err := service.RegisterUser(context.Background(), &models.User{Username: "alice", Email: "other@example.com", Password: "password123"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already taken")
	mockRepo.AssertExpectations(t)
}

func TestAuthService_LoginUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewAuthService(mockRepo, "test_secret")

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	assert.NoError(t, err)
	user := &models.User{ID: "user-1", Username: "alice", Password: string(hash)}

	mockRepo.On("GetByUsername", mock.Anything, "alice").Return(user, nil).Once()

	token, err := service.LoginUser(context.Background(), "alice", "password123")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "alice", claims["username"])
	assert.Equal(t, "user-1", claims["user_id"])
	mockRepo.AssertExpectations(t)
}

func TestAuthService_LoginUser_WrongPassword(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewAuthService(mockRepo, "test_secret")

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	assert.NoError(t, err)
	user := &models.User{ID: "user-1", Username: "alice", Password: string(hash)}

	mockRepo.On("GetByUsername", mock.Anything, "alice").Return(user, nil).Once()

	token, err := service.LoginUser(context.Background(), "alice", "wrong")
	assert.Error(t, err)
	assert.Empty(t, token)
	assert.Contains(t, err.Error(), "invalid credentials")
	mockRepo.AssertExpectations(t)
}

func TestAuthService_LoginUser_UnknownUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewAuthService(mockRepo, "test_secret")

	mockRepo.On("GetByUsername", mock.Anything, "ghost").Return(nil, repositories.ErrNotFound).Once()

	token, err := service.LoginUser(context.Background(), "ghost", "whatever")
	assert.Error(t, err)
	assert.Empty(t, token)
	// The error must not reveal whether the username exists.
	assert.Contains(t, err.Error(), "invalid credentials")
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ValidateToken_Invalid(t *testing.T) {
	service := services.NewAuthService(new(MockUserRepository), "test_secret")

	claims, err := service.ValidateToken("not-a-token")
	assert.Error(t, err)
	assert.Nil(t, claims)

	other := services.NewAuthService(new(MockUserRepository), "different_secret")
	hash, _ := bcrypt.GenerateFromPassword([]byte("pw123456"), bcrypt.DefaultCost)
	repo := new(MockUserRepository)
	repo.On("GetByUsername", mock.Anything, "bob").Return(&models.User{ID: "u2", Username: "bob", Password: string(hash)}, nil).Once()
	signedElsewhere := services.NewAuthService(repo, "another_secret")
	token, err := signedElsewhere.LoginUser(context.Background(), "bob", "pw123456")
	assert.NoError(t, err)

	claims, err = other.ValidateToken(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
}
