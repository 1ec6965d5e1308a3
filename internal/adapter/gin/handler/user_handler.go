package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mongo-user-service/internal/usecase/user"
	apperrors "mongo-user-service/pkg/errors"
)

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	uc  user.UserUsecase
	log *zap.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(uc user.UserUsecase, log *zap.Logger) *UserHandler {
	return &UserHandler{
		uc:  uc,
		log: log,
	}
}

// CreateUserRequest represents the HTTP request body for creating a user
type CreateUserRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Email string `json:"email" binding:"omitempty,email"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// CreateUser handles POST /users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid create user request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	h.log.Info("CreateUser request", zap.String("name", req.Name), zap.String("email", req.Email))

	resp, err := h.uc.CreateUser(c.Request.Context(), user.CreateUserRequest{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		h.log.Error("CreateUser failed", zap.Error(err))
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetUser handles GET /users/:user_id
func (h *UserHandler) GetUser(c *gin.Context) {
	id := c.Param("user_id")

	h.log.Info("GetUser request", zap.String("user_id", id))

	resp, err := h.uc.GetUser(c.Request.Context(), user.GetUserRequest{ID: id})
	if err != nil {
		h.log.Warn("GetUser failed", zap.String("user_id", id), zap.Error(err))
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// handleError converts usecase errors to appropriate HTTP responses
func (h *UserHandler) handleError(c *gin.Context, err error) {
	var httpErr apperrors.HTTPStatuser
	if errors.As(err, &httpErr) {
		status := httpErr.HTTPStatus()
		resp := ErrorResponse{Message: err.Error()}

		switch status {
		case http.StatusNotFound:
			resp.Error = "not_found"
		case http.StatusBadRequest:
			resp.Error = "invalid_input"
		case http.StatusConflict:
			resp.Error = "already_exists"
		default:
			// Never leak internal error details to clients
			resp.Error = "internal_error"
			resp.Message = "An internal error occurred"
		}

		c.JSON(status, resp)
		return
	}

	// Default error response
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}
