package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"activities-backend/internal/auth"
	"activities-backend/internal/models"
	"activities-backend/internal/store"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// ========================
// LOGIN HANDLER
// ========================

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		jsonError(c, http.StatusBadRequest, "Please provide username and password")
		return
	}

	user, err := h.Users.FindByUsername(c.Request.Context(), req.Username)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		h.serverError(c, "find user", err)
		return
	}
	if !auth.CheckPassword(user.Password, req.Password) {
		jsonError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := h.Tokens.Generate(user.ID)
	if err != nil {
		h.serverError(c, "generate token", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"_id":      user.ID,
		"username": user.Username,
		"role":     user.Role,
		"token":    token,
	})
}

// ========================
// CURRENT USER
// ========================

func (h *Handler) Me(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		jsonError(c, http.StatusNotFound, "User not found")
		return
	}
	c.JSON(http.StatusOK, user)
}

// ========================
// REGISTER HANDLER (admin)
// ========================

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		jsonError(c, http.StatusBadRequest, "Please provide username and password")
		return
	}
	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role == "" {
		role = models.RoleEditor
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.serverError(c, "hash password", err)
		return
	}

	user := models.User{Username: req.Username, Password: hash, Role: role}
	err = h.Users.Create(c.Request.Context(), &user)
	if errors.Is(err, store.ErrDuplicate) {
		jsonError(c, http.StatusBadRequest, "User already exists")
		return
	}
	if err != nil {
		h.serverError(c, "create user", err)
		return
	}

	h.log(c).Info(c.Request.Context(), "user registered", "username", user.Username, "role", user.Role)
	c.JSON(http.StatusCreated, gin.H{
		"_id":      user.ID,
		"username": user.Username,
		"role":     user.Role,
	})
}
