package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"wallet_dashboard_back/pkg/service"
)

type loginInput struct {
	Address   string `json:"address" binding:"required,evmaddr"`
	Signature string `json:"signature" binding:"required"`
	Timestamp int64  `json:"timestamp" binding:"required"`
}

// Login exchanges a signed "<prefix>:<timestamp>" message for a bearer token.
func (h *Handler) Login(c *gin.Context) {
	var input loginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.service.Auth.Login(c.Request.Context(), service.LoginInput{
		Address:   input.Address,
		Signature: input.Signature,
		Timestamp: input.Timestamp,
	})
	if err != nil {
		errorResponse(c, err)
		return
	}

	wrapOkJSON(c, map[string]interface{}{
		"token":      res.Token,
		"expires_at": res.ExpiresAt,
		"user":       res.User,
		"is_admin":   res.IsAdmin,
	})
}

func (h *Handler) GetMe(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	isAdmin, err := h.service.Identity.IsAdmin(c.Request.Context(), user.WalletAddress)
	if err != nil {
		errorResponse(c, err)
		return
	}
	wrapOkJSON(c, map[string]interface{}{
		"user":     user,
		"is_admin": isAdmin,
	})
}
