package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"wallet_dashboard_back/internal/wallet"
	"wallet_dashboard_back/models"
)

type authorizeInput struct {
	AdminAddress   string     `json:"admin_address" binding:"required,evmaddr"`
	ExpirationDate *time.Time `json:"expiration_date"`
	AmountLimit    string     `json:"amount_limit" binding:"omitempty,decimalamt"`
	Notes          *string    `json:"notes" binding:"omitempty,max=500"`
}

// ListAuthorizations returns the admins the caller currently authorizes.
func (h *Handler) ListAuthorizations(c *gin.Context) {
	admins, err := h.service.Authorization.ListAuthorizedAdmins(c.Request.Context(), callerAddress(c))
	if err != nil {
		errorResponse(c, err)
		return
	}
	wrapOkJSON(c, map[string]interface{}{
		"authorizations": admins,
	})
}

func (h *Handler) Authorize(c *gin.Context) {
	var input authorizeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		newErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	opts := models.AuthorizeOptions{ExpirationDate: input.ExpirationDate, Notes: input.Notes}
	if input.AmountLimit != "" {
		limit, err := wallet.ParseAmount(input.AmountLimit)
		if err != nil {
			newErrorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		opts.AmountLimit = decimal.NewNullDecimal(limit)
	}

	auth, err := h.service.Authorization.Authorize(c.Request.Context(), callerAddress(c), input.AdminAddress, opts)
	if err != nil {
		errorResponse(c, err)
		return
	}
	wrapOkJSON(c, map[string]interface{}{
		"authorization": auth,
	})
}

func (h *Handler) Revoke(c *gin.Context) {
	auth, err := h.service.Authorization.Revoke(c.Request.Context(), callerAddress(c), c.Param("admin"))
	if err != nil {
		errorResponse(c, err)
		return
	}
	wrapOkJSON(c, map[string]interface{}{
		"authorization": auth,
	})
}

func (h *Handler) CheckAuthorization(c *gin.Context) {
	ok, err := h.service.Authorization.IsAuthorized(c.Request.Context(), callerAddress(c), c.Param("admin"))
	if err != nil {
		errorResponse(c, err)
		return
	}
	wrapOkJSON(c, map[string]interface{}{
		"authorized": ok,
	})
}
