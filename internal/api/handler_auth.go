package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"consult-booking-backend/internal/apperr"
	"consult-booking-backend/internal/mw"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,max=72"`
}

// Login handles POST /api/admin/login.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if !h.bindJSON(c, &req, nil) {
		return
	}

	if !h.checkCredentials(req.Email, req.Password) {
		h.log.Warn("admin login rejected", "email", req.Email, "ip", c.ClientIP())
		h.respondError(c, apperr.New(apperr.KindUnauthorized, "invalid email or password"))
		return
	}

	token, expires, err := mw.IssueAdminToken([]byte(h.admin.JWTSecret), h.admin.Email, h.admin.TokenTTL, h.now())
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.log.Info("admin logged in", "ip", c.ClientIP())
	c.JSON(http.StatusOK, gin.H{"token": token, "expiresAt": expires})
}

func (h *Handler) checkCredentials(email, password string) bool {
	if h.admin.Email == "" || h.admin.PasswordHash == "" {
		return false
	}
	if !strings.EqualFold(strings.TrimSpace(email), h.admin.Email) {
		// Same bcrypt cost on both failure paths.
		_ = bcrypt.CompareHashAndPassword([]byte(h.admin.PasswordHash), []byte(password))
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(h.admin.PasswordHash), []byte(password)) == nil
}
