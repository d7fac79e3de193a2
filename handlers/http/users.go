package httpHandler

import (
	"io"
	"log"
	"net/http"

	"vitals-server/usecases"
	"vitals-server/validation"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

type registerRequest struct {
	ClerkID string `json:"clerkId"`
	Email   string `json:"email"`
	Name    string `json:"name"`
}

type UserHandler struct {
	useCase *usecases.UserUseCase
}

func NewUserHandler(useCase *usecases.UserUseCase) *UserHandler {
	return &UserHandler{
		useCase: useCase,
	}
}

// RegisterUser handles POST /api/users/register
func (h *UserHandler) RegisterUser(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		malformedBody(c, err)
		return
	}

	user, err := h.useCase.RegisterOrGetUser(c.Request.Context(), req.ClerkID, req.Email, req.Name)
	if errors.Is(err, usecases.ErrClerkIDAndEmailRequired) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		log.Printf("register user %s: %v", req.ClerkID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateUser handles PUT /api/users/:clerkId
// Answers null when no user has that clerkId.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	updates, errs, err := validation.DecodeUserPatch(c.Request.Body)
	if err != nil {
		malformedBody(c, err)
		return
	}
	if len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}

	user, err := h.useCase.UpdateUser(c.Request.Context(), c.Param("clerkId"), updates)
	if err != nil {
		log.Printf("update user %s: %v", c.Param("clerkId"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	c.JSON(http.StatusOK, user)
}
