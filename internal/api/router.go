package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/agoraforum/agora/internal/action"
	"github.com/agoraforum/agora/internal/api/forum"
	"github.com/agoraforum/agora/internal/cache"
	"github.com/agoraforum/agora/internal/db"
	"github.com/agoraforum/agora/internal/notify"
	"github.com/agoraforum/agora/pkg/logging"
)

// Router sets up API routes
type Router struct {
	handler     *JSONRPCHandler
	db          *db.DB
	cache       *cache.Cache
	coordinator *action.Coordinator
	logger      *zap.Logger
}

// NewRouter creates a new API router
func NewRouter(database *db.DB, redisCache *cache.Cache, coordinator *action.Coordinator) *Router {
	handler := NewJSONRPCHandler()
	router := &Router{
		handler:     handler,
		db:          database,
		cache:       redisCache,
		coordinator: coordinator,
		logger:      logging.GetLogger().With(zap.String("component", "api-router")),
	}

	// Register all API methods
	router.registerMethods()

	return router
}

// SetupRoutes sets up all API routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check endpoints
	engine.GET("/health", r.healthHandler)
	engine.GET("/.well-known/healthcheck.json", r.healthHandler)

	// JSON-RPC endpoint
	engine.POST("/", r.handler.Handle)
}

// registerMethods registers all API methods
func (r *Router) registerMethods() {
	repo := db.NewRepository(r.db.DB)

	// Action endpoint
	actions := forum.NewActionAPI(r.coordinator)
	r.handler.RegisterMethod("agora.perform_action", actions.PerformAction)

	// Read-side queries
	watchers := notify.NewWatchers(r.db.DB)
	queries := forum.NewQueryAPI(repo, notify.NewInbox(r.db.DB, watchers), r.cache)
	r.handler.RegisterMethod("agora.get_post", queries.GetPost)
	r.handler.RegisterMethod("agora.get_comments", queries.GetComments)
	r.handler.RegisterMethod("agora.get_user", queries.GetUser)
	r.handler.RegisterMethod("agora.get_reputation_history", queries.GetReputationHistory)
	r.handler.RegisterMethod("agora.get_badges", queries.GetBadges)
	r.handler.RegisterMethod("agora.get_badge", queries.GetBadge)
	r.handler.RegisterMethod("agora.get_user_awards", queries.GetUserAwards)
	r.handler.RegisterMethod("agora.get_user_votes", queries.GetUserVotes)
	r.handler.RegisterMethod("agora.get_notifications", queries.GetNotifications)
	r.handler.RegisterMethod("agora.mark_notifications_read", queries.MarkNotificationsRead)
}

// healthHandler handles health check requests
func (r *Router) healthHandler(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":  "OK",
		"service": "agora-api",
	})
}
