package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"contacts_api/internal/service"
)

type signUpRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// loginRequest is bound from form fields, OAuth2 password-flow style:
// the username field carries the email.
type loginRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

func (h *Handler) signUp(c *gin.Context) {
	var input signUpRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := h.services.SignUp(c.Request.Context(), input.Username, input.Email, input.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "user with this email already exists"})
			return
		}
		if h.log != nil {
			h.log.Errorw("auth_sign_up_failed", "email", input.Email, "err", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to sign up"})
		return
	}

	c.JSON(http.StatusCreated, u)
}

func (h *Handler) login(c *gin.Context) {
	var input loginRequest
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.services.GenerateToken(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) || errors.Is(err, service.ErrInvalidPassword) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}
		if h.log != nil {
			h.log.Errorw("auth_login_failed", "email", input.Username, "err", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to log in"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
	})
}
