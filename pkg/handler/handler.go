package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"wallet_dashboard_back/models"
	"wallet_dashboard_back/pkg/middleware"
	"wallet_dashboard_back/pkg/realtime"
	"wallet_dashboard_back/pkg/service"
)

// Subscriber is the realtime hub as seen by the SSE endpoint.
type Subscriber interface {
	Subscribe(tables []string) (<-chan realtime.Event, func())
}

type Options struct {
	AllowedOrigins []string
	DefaultChainID int64
	Heartbeat      time.Duration
}

type Handler struct {
	service *service.Service
	tokens  middleware.TokenParser
	hub     Subscriber
	opts    Options
}

func NewHandler(service *service.Service, tokens middleware.TokenParser, hub Subscriber, opts Options) *Handler {
	registerValidators()
	if opts.Heartbeat <= 0 {
		opts.Heartbeat = 25 * time.Second
	}
	return &Handler{
		service: service,
		tokens:  tokens,
		hub:     hub,
		opts:    opts,
	}
}

func (h *Handler) InitRoute() *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestMeta(), middleware.Logger(), gin.Recovery())

	origins := h.opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	authenticated := middleware.AuthMiddleware(h.tokens)

	auth := router.Group("/auth")
	{
		auth.POST("/login", h.Login)
		auth.GET("/me", authenticated, h.GetMe)
	}

	api := router.Group("/api", authenticated)
	{
		api.GET("/networks", h.GetNetworks)
		api.GET("/balance", h.GetBalance)
		api.GET("/me/stats", h.GetStats)

		authorizations := api.Group("/authorizations")
		{
			authorizations.GET("", h.ListAuthorizations)
			authorizations.POST("", h.Authorize)
			authorizations.GET("/:admin", h.CheckAuthorization)
			authorizations.DELETE("/:admin", h.Revoke)
		}

		requests := api.Group("/requests")
		{
			requests.GET("", h.ListRequests)
			requests.GET("/pending", h.ListPendingRequests)
			requests.POST("/:id/approve", h.ApproveRequest)
			requests.POST("/:id/reject", h.RejectRequest)
			requests.POST("/:id/complete", h.CompleteRequest)
			requests.POST("/:id/fail", h.FailRequest)
		}

		api.GET("/history", h.GetHistory)
		api.POST("/history", h.RecordTransfer)

		api.GET("/contacts", h.ListContacts)
		api.POST("/contacts", h.AddContact)
		api.DELETE("/contacts/:id", h.DeleteContact)

		api.GET("/realtime", h.Stream)

		admin := api.Group("/admin", middleware.AdminOnly(h.service.Identity))
		{
			admin.GET("/users", h.ListAuthorizedUsers)
			admin.GET("/requests", h.ListAdminRequests)
			admin.POST("/requests", h.CreateTransferRequest)
			admin.GET("/received", h.GetReceived)
		}
	}
	return router
}

func callerAddress(c *gin.Context) string {
	return c.GetString(middleware.WalletAddressKey)
}

// currentUser resolves the caller's users row. It writes the error response
// itself and reports false when the handler must stop.
func (h *Handler) currentUser(c *gin.Context) (models.User, bool) {
	user, err := h.service.Identity.GetByWallet(c.Request.Context(), callerAddress(c))
	if err != nil {
		errorResponse(c, err)
		return models.User{}, false
	}
	return user, true
}

func (h *Handler) currentAdmin(c *gin.Context) (models.Admin, bool) {
	admin, err := h.service.Identity.GetAdmin(c.Request.Context(), callerAddress(c))
	if err != nil {
		errorResponse(c, err)
		return models.Admin{}, false
	}
	return admin, true
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		newErrorResponse(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}
