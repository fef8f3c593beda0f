package handler

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"wallet_dashboard_back/pkg/realtime"
)

// Stream pushes "change" events for the requested tables over SSE. Clients
// re-fetch on every event; a RESYNC op means notifications may have been lost.
func (h *Handler) Stream(c *gin.Context) {
	if h.hub == nil {
		newErrorResponse(c, http.StatusServiceUnavailable, "realtime is disabled")
		return
	}
	tables, ok := parseTables(c.Query("tables"))
	if !ok {
		newErrorResponse(c, http.StatusBadRequest, "unknown table")
		return
	}

	events, unsubscribe := h.hub.Subscribe(tables)
	defer unsubscribe()

	heartbeat := time.NewTicker(h.opts.Heartbeat)
	defer heartbeat.Stop()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent("ready", gin.H{"tables": tables})
	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case ev, open := <-events:
			if !open {
				return false
			}
			c.SSEvent("change", ev)
			return true
		case <-heartbeat.C:
			c.SSEvent("ping", time.Now().Unix())
			return true
		}
	})
}

func parseTables(raw string) ([]string, bool) {
	if strings.TrimSpace(raw) == "" {
		return []string{}, true
	}
	known := make(map[string]bool, len(realtime.Tables))
	for _, t := range realtime.Tables {
		known[t] = true
	}
	var tables []string
	for _, t := range strings.Split(raw, ",") {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if !known[t] {
			return nil, false
		}
		tables = append(tables, t)
	}
	return tables, true
}
