package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sightlinehq/sightline-go/internal/infrastructure/caching/manager"
	"github.com/sightlinehq/sightline-go/internal/infrastructure/messaging"
	"github.com/sightlinehq/sightline-go/internal/infrastructure/observability/logging"
	"github.com/sightlinehq/sightline-go/internal/infrastructure/observability/performance"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Cross-origin policy is enforced by the CORS middleware; the live feed
	// is read-only so the upgrade itself accepts any origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// LiveHandlers contains the websocket live feed and health endpoints.
type LiveHandlers struct {
	broadcaster *messaging.LiveBroadcaster
	cache       *manager.Manager
	perfTracker *performance.Tracker
	logger      *logging.ChanneledLogger
	startedAt   time.Time
}

// NewLiveHandlers creates live feed handlers with injected dependencies.
func NewLiveHandlers(broadcaster *messaging.LiveBroadcaster, cache *manager.Manager, perfTracker *performance.Tracker, logger *logging.ChanneledLogger) *LiveHandlers {
	return &LiveHandlers{
		broadcaster: broadcaster,
		cache:       cache,
		perfTracker: perfTracker,
		logger:      logger,
		startedAt:   time.Now().UTC(),
	}
}

// GetLive handles GET /api/v1/live - upgrades to a websocket and streams
// engagement updates until the client disconnects.
func (h *LiveHandlers) GetLive(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Live().Error("Websocket upgrade failed", "error", err.Error())
		return
	}

	client := messaging.NewClient(h.broadcaster, conn)
	h.broadcaster.Register(client)
	client.Start()
}

// GetHealth handles GET /api/v1/health
func (h *LiveHandlers) GetHealth(c *gin.Context) {
	snapshot := h.perfTracker.TakeSnapshot()

	c.JSON(http.StatusOK, gin.H{
		"status":      snapshot.OverallHealth,
		"uptime":      time.Since(h.startedAt).String(),
		"visitors":    h.cache.VisitorCount(),
		"content":     h.cache.ContentCount(),
		"liveClients": h.broadcaster.ClientCount(),
		"cache":       h.cache.Health(),
	})
}
