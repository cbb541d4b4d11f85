package handler

import (
	"errors"
	"net/http"
	"strconv"

	"user_api/internal/middleware"
	"user_api/internal/model"
	"user_api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// UserHandler handles registration, login and user management requests
type UserHandler struct {
	service service.UserService
	log     zerolog.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(s service.UserService, log zerolog.Logger) *UserHandler {
	return &UserHandler{service: s, log: log}
}

// internalError logs the full error and answers with a generic message
func (h *UserHandler) internalError(c *gin.Context, err error, message string) {
	h.log.Error().
		Err(err).
		Str("request_id", middleware.RequestIDFromContext(c)).
		Str("route", c.FullPath()).
		Msg(message)
	c.JSON(http.StatusInternalServerError, gin.H{"error": message})
}

func parseUserID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return 0, false
	}
	return id, true
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var req model.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	_, token, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		if rejectField(c, err) {
			return
		}
		h.internalError(c, err, "Operation failed")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"token":   token,
	})
}

func (h *UserHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	_, token, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		h.internalError(c, err, "Failed to login")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
	})
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		h.internalError(c, err, "Failed to retrieve users")
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.internalError(c, err, "Failed to retrieve the user")
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}

	var req model.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	err := h.service.UpdateUser(c.Request.Context(), id, req)
	if err != nil {
		if rejectField(c, err) {
			return
		}
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case errors.Is(err, service.ErrNoFieldsToUpdate):
			c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		default:
			h.internalError(c, err, "Failed to update the user")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User updated successfully"})
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}

	user, err := h.service.DeleteUser(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.internalError(c, err, "Failed to delete the user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// Me echoes the claims of the presented token
func (h *UserHandler) Me(c *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token."})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":    claims.UserID,
		"email": claims.Email,
		"role":  claims.Role,
	})
}

// RegisterUserRoutes registers user routes. authMW guards /me only;
// the CRUD routes stay public.
func (h *UserHandler) RegisterUserRoutes(r gin.IRouter, authMW gin.HandlerFunc) {
	r.POST("/user", h.CreateUser)
	r.POST("/login", h.Login)

	users := r.Group("/users")
	{
		users.GET("", h.ListUsers)
		users.GET("/:id", h.GetUser)
		users.PUT("/:id", h.UpdateUser)
		users.DELETE("/:id", h.DeleteUser)
	}

	r.GET("/me", authMW, h.Me)
}
