package api

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"vendora/internal/domain/user"
	"vendora/internal/handler/middleware"
	"vendora/internal/infra/feed"
	"vendora/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const streamHeartbeat = 30 * time.Second

type StreamHandler struct {
	manager *realtime.Manager
}

func NewStreamHandler(manager *realtime.Manager) *StreamHandler {
	return &StreamHandler{
		manager: manager,
	}
}

// @Summary Stream order changes
// @Description Server-sent events stream of order row changes for the current user
// @Tags stream
// @Produce text/event-stream
// @Security BearerAuth
// @Success 200 {string} string "SSE stream"
// @Failure 401 {object} map[string]string
// @Router /stream/orders [get]
func (h *StreamHandler) StreamOrders(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	role, _ := middleware.GetUserRole(c)

	// The channel handle is shared: a second stream for the same channel rides
	// the same physical subscription.
	channel := h.manager.Get(feed.OrdersChannel, realtime.ChannelConfig{})
	events, cancel := channel.Listen(16)
	defer cancel()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	heartbeat := time.NewTicker(streamHeartbeat)
	defer heartbeat.Stop()

	c.Stream(func(_ io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case <-heartbeat.C:
			c.SSEvent("ping", time.Now().UTC().Format(time.RFC3339))
			return true
		case ev, open := <-events:
			if !open {
				return false
			}
			if !eventVisibleTo(role, userID, ev) {
				return true
			}
			c.SSEvent("change", ev)
			return true
		}
	})
}

// eventVisibleTo scopes the stream: buyers only see their own order changes,
// admins see everything.
func eventVisibleTo(role user.Role, userID uuid.UUID, ev realtime.ChangeEvent) bool {
	if role == user.RoleAdmin {
		return true
	}

	var owner struct {
		BuyerID uuid.UUID `json:"buyer_id"`
	}
	if err := json.Unmarshal(ev.Payload, &owner); err != nil {
		return false
	}
	return owner.BuyerID == userID
}
