package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fintrack/internal/services"
)

// UserHandler handles user profile requests.
type UserHandler struct {
	authService services.AuthServicer
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(authService services.AuthServicer) *UserHandler {
	return &UserHandler{authService: authService}
}

// GetProfile returns the authenticated user's public fields
// @Summary     Get user profile
// @Description Get the authenticated user's id, username, and email
// @Tags        user
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} UserResponse "User profile"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /user/profile [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.authService.GetUserByID(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
	})
}
