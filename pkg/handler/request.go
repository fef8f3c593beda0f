package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"wallet_dashboard_back/models"
)

type reasonInput struct {
	Reason string `json:"reason" binding:"max=500"`
}

type completeInput struct {
	TxHash string `json:"tx_hash" binding:"required"`
}

type failInput struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

func (h *Handler) ListPendingRequests(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	requests, err := h.service.Transfer.ListPending(c.Request.Context(), user.ID)
	if err != nil {
		errorResponse(c, err)
		return
	}
	wrapOkJSON(c, map[string]interface{}{
		"requests": requests,
	})
}

// ListRequests returns the caller's requests, optionally filtered by status.
func (h *Handler) ListRequests(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	requests, err := h.service.Transfer.ListForUser(c.Request.Context(), user.ID, c.Query("status"))
	if err != nil {
		errorResponse(c, err)
		return
	}
	wrapOkJSON(c, map[string]interface{}{
		"requests": requests,
	})
}

func (h *Handler) ApproveRequest(c *gin.Context) {
	h.transition(c, func(user models.User, id int64) (models.TransferRequest, error) {
		return h.service.Transfer.Approve(c.Request.Context(), id, user.ID)
	})
}

func (h *Handler) RejectRequest(c *gin.Context) {
	var input reasonInput
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			newErrorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
	}
	h.transition(c, func(user models.User, id int64) (models.TransferRequest, error) {
		return h.service.Transfer.Reject(c.Request.Context(), id, user.ID, input.Reason)
	})
}

// CompleteRequest reports the hash the wallet returned for an approved request.
func (h *Handler) CompleteRequest(c *gin.Context) {
	var input completeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		newErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	h.transition(c, func(user models.User, id int64) (models.TransferRequest, error) {
		return h.service.Transfer.Complete(c.Request.Context(), id, input.TxHash, user.ID)
	})
}

func (h *Handler) FailRequest(c *gin.Context) {
	var input failInput
	if err := c.ShouldBindJSON(&input); err != nil {
		newErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	h.transition(c, func(user models.User, id int64) (models.TransferRequest, error) {
		return h.service.Transfer.Fail(c.Request.Context(), id, user.ID, input.Reason)
	})
}

func (h *Handler) transition(c *gin.Context, apply func(models.User, int64) (models.TransferRequest, error)) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	req, err := apply(user, id)
	if err != nil {
		errorResponse(c, err)
		return
	}
	wrapOkJSON(c, map[string]interface{}{
		"request": req,
	})
}
