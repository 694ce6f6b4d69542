package handlers

import (
	"contacts_api/internal/logger"
	"contacts_api/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestIDMiddleware, h.accessLogMiddleware)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Auth endpoints (public)
	h.registerAuthRoutes(router)

	// Current-user endpoint (protected)
	users := router.Group("/users", h.userIdentityMiddleware)
	{
		users.GET("/me", h.me)
	}

	// Versioned API endpoints (protected)
	h.registerAPIRoutes(router)

	// WebSocket birthday stream (HTTP upgrade), same port
	router.GET("/ws/birthdays", h.userIdentityMiddleware, h.wsBirthdays)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/signup", h.signUp)
		auth.POST("/login", h.login)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.userIdentityMiddleware)
	{
		contacts := api.Group("/contacts")
		{
			contacts.GET("", h.listContacts)
			contacts.POST("", h.createContact)
			contacts.GET("/birthdays", h.upcomingBirthdays)
			contacts.GET("/:id", h.getContact)
			contacts.PUT("/:id", h.updateContact)
			contacts.DELETE("/:id", h.deleteContact)
		}
	}
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok"})
}
