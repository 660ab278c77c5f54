package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/shopfront-api/internal/services"
	"github.com/princeprakhar/shopfront-api/internal/utils"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers()
	if err != nil {
		respondError(c, "Failed to fetch users", err)
		return
	}
	utils.SendList(c, "Users retrieved successfully", users, len(users))
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseID(c, "id", "user ID")
	if !ok {
		return
	}

	user, err := h.userService.GetUser(currentActor(c), id)
	if err != nil {
		respondError(c, "Failed to fetch user", err)
		return
	}
	utils.SendSuccess(c, "User retrieved successfully", user)
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := parseID(c, "id", "user ID")
	if !ok {
		return
	}

	var req services.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateUser(currentActor(c), id, req)
	if err != nil {
		respondError(c, "Failed to update user", err)
		return
	}
	utils.SendSuccess(c, "User updated successfully", user)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := parseID(c, "id", "user ID")
	if !ok {
		return
	}
	if id == currentActor(c).UserID {
		utils.SendValidationError(c, "You cannot delete your own account")
		return
	}

	result, err := h.userService.DeleteUser(id)
	if err != nil {
		respondError(c, "Failed to delete user", err)
		return
	}
	utils.SendSuccess(c, "User and related data deleted successfully", result)
}

func (h *UserHandler) GetUserActivity(c *gin.Context) {
	id, ok := parseID(c, "id", "user ID")
	if !ok {
		return
	}

	activity, err := h.userService.Activity(id)
	if err != nil {
		respondError(c, "Failed to fetch user activity", err)
		return
	}
	utils.SendSuccess(c, "User activity retrieved successfully", activity)
}
