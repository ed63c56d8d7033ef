package handlers

import (
	"net/http"

	"blackmarket-backend/middleware"
	"blackmarket-backend/models"
	"blackmarket-backend/services"

	"github.com/gin-gonic/gin"
)

const errUserNotFound = "User not found"

type UserHandler struct {
	Users *services.UserService
}

func (h *UserHandler) GetUsers(c *gin.Context) {
	skip, limit, ok := parsePage(c, 100, 500)
	if !ok {
		return
	}

	users, _, err := h.Users.List(c.Request.Context(), skip, limit)
	if err != nil {
		respondError(c, err, "fetch users")
		return
	}

	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var input models.UserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.Users.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err, "create user")
		return
	}

	c.JSON(http.StatusCreated, user)
}

// SyncUser creates or refreshes the caller's own user record. The email is
// taken from the identity token so callers can only sync themselves.
func (h *UserHandler) SyncUser(c *gin.Context) {
	email := c.GetString(middleware.UserEmailKey)
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email not found in token"})
		return
	}

	var profile models.UserProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		respondBindError(c, err)
		return
	}

	user, _, err := h.Users.Sync(c.Request.Context(), email, profile)
	if err != nil {
		respondError(c, err, "sync user")
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	email := c.GetString(middleware.UserEmailKey)
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Could not identify user from token"})
		return
	}

	user, err := h.Users.GetByEmail(c.Request.Context(), email)
	if err != nil {
		respondError(c, err, "fetch user")
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": errUserNotFound})
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	user, err := h.Users.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "fetch user")
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": errUserNotFound})
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var patch models.UserPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBindError(c, err)
		return
	}
	if err := patch.Validate(); err != nil {
		respondInvalid(c, err.Error())
		return
	}

	user, err := h.Users.Update(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err, "update user")
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": errUserNotFound})
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	deleted, err := h.Users.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "delete user")
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": errUserNotFound})
		return
	}

	c.Status(http.StatusNoContent)
}
