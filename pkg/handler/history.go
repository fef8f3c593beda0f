package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"wallet_dashboard_back/models"
)

// admin_request rows are only written by completing a transfer request.
type recordInput struct {
	TxHash       string `json:"tx_hash" binding:"required"`
	Amount       string `json:"amount" binding:"required,decimalamt"`
	TransferType string `json:"transfer_type" binding:"omitempty,oneof=owner regular"`
	ChainID      int64  `json:"chain_id" binding:"omitempty,gt=0"`
}

func (h *Handler) GetHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	entries, err := h.service.History.ListByAddress(c.Request.Context(), callerAddress(c), limit)
	if err != nil {
		errorResponse(c, err)
		return
	}
	wrapOkJSON(c, map[string]interface{}{
		"history": entries,
	})
}

// RecordTransfer stores a transfer the caller sent from their own wallet.
func (h *Handler) RecordTransfer(c *gin.Context) {
	var input recordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		newErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	var chainID *int64
	switch {
	case input.ChainID != 0:
		if !h.knownNetwork(input.ChainID) {
			newErrorResponse(c, http.StatusBadRequest, "unknown chain_id")
			return
		}
		chainID = &input.ChainID
	case h.opts.DefaultChainID > 0:
		def := h.opts.DefaultChainID
		chainID = &def
	}
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	entry, err := h.service.History.Record(c.Request.Context(), models.RecordInput{
		UserID:       user.ID,
		Address:      user.WalletAddress,
		TxHash:       input.TxHash,
		ChainID:      chainID,
		Amount:       input.Amount,
		TransferType: input.TransferType,
	})
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusCreated, map[string]interface{}{
		"transfer": entry,
	})
}

func (h *Handler) knownNetwork(chainID int64) bool {
	for _, n := range h.service.Balance.ListNetworks() {
		if n.ChainID == chainID {
			return true
		}
	}
	return false
}
