package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"mongo-user-service/internal/adapter/gin/handler"
	"mongo-user-service/internal/adapter/gin/middleware"
	"mongo-user-service/internal/config"
)

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(
	cfg *config.Config,
	userHandler *handler.UserHandler,
	rateLimiter *middleware.RateLimiter,
	log *zap.Logger,
) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.App.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	router.Use(middleware.Metrics())
	if rateLimiter != nil {
		router.Use(rateLimiter.Handler())
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": cfg.App.Name,
		})
	})

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger UI and the swagger document it renders
	swaggerUI := httpSwagger.Handler(
		httpSwagger.URL("/swagger/user.swagger.json"),
	)
	router.GET("/swagger/*any", func(c *gin.Context) {
		if c.Param("any") == "/user.swagger.json" {
			c.File("./api/swagger/user.swagger.json")
			return
		}
		swaggerUI.ServeHTTP(c.Writer, c.Request)
	})

	// User routes
	users := router.Group("/users")
	{
		users.POST("", userHandler.CreateUser)
		users.GET("/:user_id", userHandler.GetUser)
	}

	return router
}
