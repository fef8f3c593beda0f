package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type transferRequestInput struct {
	UserAddress string `json:"user_address" binding:"required,evmaddr"`
	Amount      string `json:"amount" binding:"required,decimalamt"`
}

func (h *Handler) ListAuthorizedUsers(c *gin.Context) {
	users, err := h.service.Authorization.ListAuthorizedUsers(c.Request.Context(), callerAddress(c))
	if err != nil {
		errorResponse(c, err)
		return
	}
	wrapOkJSON(c, map[string]interface{}{
		"users": users,
	})
}

// CreateTransferRequest asks an authorizing user to send amount to the caller.
func (h *Handler) CreateTransferRequest(c *gin.Context) {
	var input transferRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		newErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	req, err := h.service.Transfer.RequestTransfer(c.Request.Context(), callerAddress(c), input.UserAddress, input.Amount)
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusCreated, map[string]interface{}{
		"request": req,
	})
}

func (h *Handler) ListAdminRequests(c *gin.Context) {
	admin, ok := h.currentAdmin(c)
	if !ok {
		return
	}
	requests, err := h.service.Transfer.ListForAdmin(c.Request.Context(), admin.ID, c.Query("status"))
	if err != nil {
		errorResponse(c, err)
		return
	}
	wrapOkJSON(c, map[string]interface{}{
		"requests": requests,
	})
}

func (h *Handler) GetReceived(c *gin.Context) {
	admin, ok := h.currentAdmin(c)
	if !ok {
		return
	}
	summary, err := h.service.Transfer.ReceivedSummary(c.Request.Context(), admin.ID)
	if err != nil {
		errorResponse(c, err)
		return
	}
	wrapOkJSON(c, map[string]interface{}{
		"received": summary,
	})
}
