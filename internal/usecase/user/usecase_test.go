package user

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "mongo-user-service/internal/domain/user"
	apperrors "mongo-user-service/pkg/errors"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// Test helper to create a usecase with a mock repo
func setupTestUsecase(t *testing.T) (*Usecase, *MockRepository) {
	mockRepo := new(MockRepository)
	logger := zaptest.NewLogger(t)
	uc := New(mockRepo, logger)
	return uc, mockRepo
}

func storedUser() *domain.User {
	return &domain.User{
		ID:        "a1b2c3d4e5f60718",
		UserIndex: 1,
		Name:      "John Doe",
		Email:     "john@example.com",
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

// ==================== CREATE USER TESTS ====================

func TestCreateUser_Success(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	req := CreateUserRequest{
		Name:  "John Doe",
		Email: "john@example.com",
	}

	stored := storedUser()
	mockRepo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.Name == req.Name && u.Email == req.Email
	})).Return(stored, nil)

	resp, err := uc.CreateUser(ctx, req)

	assert.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, stored.ID, resp.ID)
	assert.Equal(t, stored.UserIndex, resp.UserIndex)
	assert.Equal(t, stored.Name, resp.Name)
	assert.Equal(t, stored.Email, resp.Email)
	assert.True(t, stored.CreatedAt.Equal(resp.CreatedAt))

	mockRepo.AssertExpectations(t)
}

func TestCreateUser_NameOnly(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	req := CreateUserRequest{Name: "Bo"}

	stored := &domain.User{
		ID:        "00ff00ff00ff00ff",
		UserIndex: 2,
		Name:      "Bo",
		CreatedAt: time.Now().UTC(),
	}
	mockRepo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.Name == "Bo" && u.Email == ""
	})).Return(stored, nil)

	resp, err := uc.CreateUser(ctx, req)

	// Email is optional; a short name is fine
	assert.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, "Bo", resp.Name)
	assert.Empty(t, resp.Email)

	mockRepo.AssertExpectations(t)
}

func TestCreateUser_ValidationError_NameRequired(t *testing.T) {
	uc, _ := setupTestUsecase(t)
	ctx := context.Background()

	req := CreateUserRequest{
		Name:  "", // Empty name
		Email: "john@example.com",
	}

	resp, err := uc.CreateUser(ctx, req)

	assert.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "Name is required")

	var validationErr *apperrors.ValidationError
	assert.True(t, errors.As(err, &validationErr))
}

func TestCreateUser_ValidationError_NameTooLong(t *testing.T) {
	uc, _ := setupTestUsecase(t)
	ctx := context.Background()

	req := CreateUserRequest{
		Name: strings.Repeat("a", 101), // Max is 100
	}

	resp, err := uc.CreateUser(ctx, req)

	assert.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "Name must be at most 100 characters")
}

func TestCreateUser_ValidationError_EmailInvalid(t *testing.T) {
	uc, _ := setupTestUsecase(t)
	ctx := context.Background()

	req := CreateUserRequest{
		Name:  "John Doe",
		Email: "invalid-email", // Invalid email format
	}

	resp, err := uc.CreateUser(ctx, req)

	assert.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "Email must be a valid email")
}

func TestCreateUser_ValidationError_MultipleErrors(t *testing.T) {
	uc, _ := setupTestUsecase(t)
	ctx := context.Background()

	req := CreateUserRequest{
		Name:  "",        // Missing
		Email: "invalid", // Invalid email
	}

	resp, err := uc.CreateUser(ctx, req)

	assert.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "Name is required")
	assert.Contains(t, err.Error(), "Email must be a valid email")
}

func TestCreateUser_RepositoryError(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	req := CreateUserRequest{Name: "John Doe"}

	mockRepo.On("Create", ctx, mock.AnythingOfType("*user.User")).
		Return(nil, errors.New("connection reset"))

	resp, err := uc.CreateUser(ctx, req)

	assert.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "failed to create user")

	var internalErr *apperrors.InternalError
	assert.True(t, errors.As(err, &internalErr))
	assert.Equal(t, http.StatusInternalServerError, internalErr.HTTPStatus())
}

// ==================== GET USER TESTS ====================

func TestGetUser_Success(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	stored := storedUser()
	req := GetUserRequest{ID: stored.ID}

	mockRepo.On("GetByID", ctx, stored.ID).Return(stored, nil)

	resp, err := uc.GetUser(ctx, req)

	assert.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, stored.ID, resp.ID)
	assert.Equal(t, stored.UserIndex, resp.UserIndex)
	assert.Equal(t, stored.Name, resp.Name)
	assert.Equal(t, stored.Email, resp.Email)

	mockRepo.AssertExpectations(t)
}

func TestGetUser_NotFound(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	req := GetUserRequest{ID: "does-not-exist"}

	// Repository reports absence as (nil, nil)
	mockRepo.On("GetByID", ctx, req.ID).Return(nil, nil)

	resp, err := uc.GetUser(ctx, req)

	assert.Error(t, err)
	assert.Nil(t, resp)

	var notFoundErr *apperrors.NotFoundError
	require.True(t, errors.As(err, &notFoundErr))
	assert.Equal(t, http.StatusNotFound, notFoundErr.HTTPStatus())

	mockRepo.AssertExpectations(t)
}

func TestGetUser_RepositoryError(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	req := GetUserRequest{ID: "a1b2c3d4e5f60718"}

	mockRepo.On("GetByID", ctx, req.ID).Return(nil, errors.New("connection reset"))

	resp, err := uc.GetUser(ctx, req)

	assert.Error(t, err)
	assert.Nil(t, resp)

	var internalErr *apperrors.InternalError
	assert.True(t, errors.As(err, &internalErr))
}

func TestGetUser_EmptyID(t *testing.T) {
	uc, _ := setupTestUsecase(t)
	ctx := context.Background()

	resp, err := uc.GetUser(ctx, GetUserRequest{ID: ""})

	assert.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "ID is required")
}

// ==================== VALIDATION HELPER TESTS ====================

func TestFormatValidationError(t *testing.T) {
	validate := validator.New()

	type TestStruct struct {
		Name  string `validate:"required,max=100"`
		Email string `validate:"required,email"`
	}

	// Test multiple validation errors
	err := validate.Struct(&TestStruct{})
	formatted := formatValidationError(err)

	assert.Error(t, formatted)
	assert.Contains(t, formatted.Error(), "validation failed")
	assert.Contains(t, formatted.Error(), "Name is required")
	assert.Contains(t, formatted.Error(), "Email is required")
}

func TestFormatValidationError_SingleError(t *testing.T) {
	validate := validator.New()

	type TestStruct struct {
		Name  string `validate:"required"`
		Email string
	}

	// Test single validation error
	err := validate.Struct(&TestStruct{Email: "test@example.com"})
	formatted := formatValidationError(err)

	assert.Error(t, formatted)
	assert.Contains(t, formatted.Error(), "Name is required")
	assert.NotContains(t, formatted.Error(), "Email")
}

func TestFormatValidationError_NonValidationError(t *testing.T) {
	originalErr := errors.New("some other error")
	formatted := formatValidationError(originalErr)

	assert.Equal(t, originalErr, formatted)
}
