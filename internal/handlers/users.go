package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary      Current user
// @Tags         users
// @Produce      json
// @Success      200  {object}  models.User
// @Failure      401  {object}  map[string]string
// @Router       /users/me [get]
// @Security     BearerAuth
func (h *Handler) me(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	u, err := h.services.CurrentUser(c.Request.Context(), id)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("users_me_failed", "user_id", id, "err", err)
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return
	}

	c.JSON(http.StatusOK, u)
}
