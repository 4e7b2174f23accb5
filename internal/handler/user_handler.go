package handler

import (
	"fmt"
	"net/http"

	"leaveflow/internal/middleware"
	"leaveflow/internal/model"
	"leaveflow/internal/service"
	"leaveflow/pkg/apperr"
	"leaveflow/pkg/pagination"
	"leaveflow/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UserHandler struct {
	userService service.UserService
	authmw      *middleware.AuthMiddleware
}

// NewUserHandler sets up the routing dependencies for user endpoints
func NewUserHandler(userService service.UserService, authmw *middleware.AuthMiddleware) *UserHandler {
	return &UserHandler{userService: userService, authmw: authmw}
}

// RegisterRoutes binds the endpoints to the gin RouterGroup. The whole group
// is admin-only.
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	users.Use(h.authmw.Authenticate(), h.authmw.RequireRole(model.RoleAdmin))
	{
		users.GET("", h.ListUsers)
		users.GET("/:id", h.GetUserByID)
		users.PUT("/:id", h.UpdateUser)
		users.DELETE("/:id", h.DeleteUser)
	}
}

// parseIDParam reads the :id path segment as a UUID; a malformed id can never
// name a resource, so it maps to not-found.
func parseIDParam(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid id: %w", apperr.ErrNotFound)
	}
	return id, nil
}

// ListUsers handles GET /users
// @Summary      List users
// @Description  Retrieves a paginated list of users (admin only)
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Items per page (default 20)"
// @Success      200    {object}  object
// @Failure      401    {object}  response.ErrorBody
// @Failure      403    {object}  response.ErrorBody
// @Router       /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	params := pagination.Parse(c)

	users, total, err := h.userService.ListUsers(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"total": total,
		"page":  params.Page,
		"limit": params.Limit,
	})
}

// GetUserByID handles GET /users/:id
// @Summary      Get user by ID
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  service.UserResponse
// @Failure      404  {object}  response.ErrorBody
// @Router       /users/{id} [get]
func (h *UserHandler) GetUserByID(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), id)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateUser handles PUT /users/:id
// @Summary      Update user
// @Description  Updates a user's name, email or role (admin only)
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                     true  "User ID"
// @Param        payload  body      service.UpdateUserRequest  true  "Update payload"
// @Success      200      {object}  service.UserResponse
// @Failure      400      {object}  response.ErrorBody
// @Failure      404      {object}  response.ErrorBody
// @Router       /users/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}

	var req service.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid request payload"))
		return
	}

	identity, _ := middleware.GetIdentity(c)
	user, err := h.userService.UpdateUser(c.Request.Context(), identity, id, req)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// DeleteUser handles DELETE /users/:id
// @Summary      Delete user
// @Description  Hard deletes a user and cascades to their leave requests
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  object
// @Failure      404  {object}  response.ErrorBody
// @Router       /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}

	identity, _ := middleware.GetIdentity(c)
	if err := h.userService.DeleteUser(c.Request.Context(), identity, id); err != nil {
		response.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}
