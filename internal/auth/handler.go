package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	tokens *TokenManager
}

func NewHandler(tokens *TokenManager) *Handler {
	return &Handler{tokens: tokens}
}

// Ping endpoint
func (h *Handler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "auth service alive!"})
}

// Me returns the identity attached to the request.
func (h *Handler) Me(c *gin.Context) {
	userID := UserID(c)
	c.JSON(http.StatusOK, gin.H{
		"user_id":  userID,
		"email":    c.GetString(contextEmail),
		"guest":    userID == GuestUserID,
		"verified": Verified(c),
	})
}

// Refresh re-issues a token for an identity that presented a valid bearer
// token. Header and guest identities are never signed.
func (h *Handler) Refresh(c *gin.Context) {
	if !Verified(c) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "a valid bearer token is required to refresh"})
		return
	}
	token, err := h.tokens.Issue(UserID(c), c.GetString(contextEmail), time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}
