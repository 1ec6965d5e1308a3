package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domain "mongo-user-service/internal/domain/user"
	apperrors "mongo-user-service/pkg/errors"
)

// Repository defines the interface for user data access operations.
// It abstracts the data layer, allowing different implementations
// (plain MongoDB, cached, ...) to be used interchangeably.
type Repository interface {
	Create(ctx context.Context, u *domain.User) (*domain.User, error) // Insert a new user, assigning id, user_index and created_at
	GetByID(ctx context.Context, id string) (*domain.User, error)    // Retrieve user by id; (nil, nil) when absent
}

// Usecase implements the business logic for user management operations.
// It provides a clean separation between the transport layer and data layer.
type Usecase struct {
	repo     Repository          // Repository for data access
	log      *zap.Logger         // Logger for structured logging
	validate *validator.Validate // Validator for request validation
}

// New creates a new instance of Usecase with the provided repository and logger.
func New(r Repository, log *zap.Logger) *Usecase {
	return &Usecase{repo: r, log: log, validate: validator.New()}
}

// formatValidationError converts validator.ValidationErrors into a human-readable error message.
func formatValidationError(err error) error {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		var messages []string
		for _, e := range validationErrors {
			switch e.Tag() {
			case "required":
				messages = append(messages, fmt.Sprintf("%s is required", e.Field()))
			case "email":
				messages = append(messages, fmt.Sprintf("%s must be a valid email", e.Field()))
			case "max":
				messages = append(messages, fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param()))
			default:
				messages = append(messages, fmt.Sprintf("%s is invalid", e.Field()))
			}
		}
		return apperrors.NewValidationError("", strings.Join(messages, ", "))
	}
	return err
}

func toResponse(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		UserIndex: u.UserIndex,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

// CreateUser creates a new user after validating the request. The response
// carries the server-assigned id, user_index and creation time.
func (uc *Usecase) CreateUser(ctx context.Context, in CreateUserRequest) (*UserResponse, error) {
	uc.log.Info("creating user", zap.String("name", in.Name), zap.String("email", in.Email))

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	created, err := uc.repo.Create(ctx, &domain.User{
		Name:  in.Name,
		Email: in.Email,
	})
	if err != nil {
		uc.log.Error("failed to create user", zap.Error(err))
		return nil, apperrors.NewInternalError("failed to create user", err)
	}

	return toResponse(created), nil
}

// GetUser retrieves a user by its id. A missing user becomes a typed
// not-found error for the transport layer to map.
func (uc *Usecase) GetUser(ctx context.Context, in GetUserRequest) (*UserResponse, error) {
	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	u, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil {
		uc.log.Error("failed to get user", zap.String("id", in.ID), zap.Error(err))
		return nil, apperrors.NewInternalError("failed to get user", err)
	}
	if u == nil {
		uc.log.Debug("user not found", zap.String("id", in.ID))
		return nil, apperrors.NewNotFoundError("user", "User not found")
	}

	return toResponse(u), nil
}
