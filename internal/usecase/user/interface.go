package user

import "context"

// UserUsecase defines the interface for user business logic operations.
type UserUsecase interface {
	CreateUser(ctx context.Context, in CreateUserRequest) (*UserResponse, error)
	GetUser(ctx context.Context, in GetUserRequest) (*UserResponse, error)
}
