package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetNetworks(c *gin.Context) {
	wrapOkJSON(c, map[string]interface{}{
		"networks":         h.service.Balance.ListNetworks(),
		"default_chain_id": h.opts.DefaultChainID,
	})
}

// GetBalance returns the caller's native balance on chain_id, or on the
// default network when the parameter is absent.
func (h *Handler) GetBalance(c *gin.Context) {
	chainID := h.opts.DefaultChainID
	if raw := c.Query("chain_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			newErrorResponse(c, http.StatusBadRequest, "invalid chain_id")
			return
		}
		chainID = id
	}

	balance, err := h.service.Balance.NativeBalance(c.Request.Context(), chainID, callerAddress(c))
	if err != nil {
		errorResponse(c, err)
		return
	}
	wrapOkJSON(c, map[string]interface{}{
		"balance": balance,
	})
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.service.Identity.Stats(c.Request.Context(), callerAddress(c))
	if err != nil {
		errorResponse(c, err)
		return
	}
	wrapOkJSON(c, map[string]interface{}{
		"stats": stats,
	})
}
