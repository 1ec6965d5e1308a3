package user

import "time"

// CreateUserRequest represents the request payload for creating a new user.
type CreateUserRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Email string `json:"email" validate:"omitempty,email"`
}

// GetUserRequest represents the request payload for retrieving a user.
type GetUserRequest struct {
	ID string `validate:"required"`
}

// UserResponse represents a user as returned by the API. Create and Get
// share this shape.
type UserResponse struct {
	ID        string    `json:"id"`
	UserIndex int64     `json:"user_index"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
