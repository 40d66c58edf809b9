package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/roboticsleb/storefront/internal/api/handlers"
	"github.com/roboticsleb/storefront/internal/api/middleware"
	"github.com/roboticsleb/storefront/internal/config"
	"github.com/roboticsleb/storefront/internal/repository"
	"github.com/roboticsleb/storefront/internal/service"
)

// Services bundles the service layer for the router
type Services struct {
	Auth    *service.AuthService
	Orders  *service.OrderService
	Reviews *service.ReviewService
	Coupons *service.CouponService
	Notify  *service.NotificationService
}

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, repos *repository.Repositories, svcs *Services, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(customRecovery(logger))
	router.Use(loggingMiddleware(logger))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Proof images are served as static files; the API only ever stores refs
	router.Static(cfg.Uploads.BaseURL, cfg.Uploads.Dir)

	api := router.Group("/api")
	{
		// Auth
		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.HandleRegister(svcs.Auth, logger))
			auth.POST("/login", handlers.HandleLogin(svcs.Auth, logger))
			auth.GET("/me", middleware.RequireAuth(svcs.Auth, logger), handlers.HandleMe())
		}

		// Public storefront routes; optional auth so a logged-in customer's
		// checkout and tracking attach to the account
		public := api.Group("")
		public.Use(middleware.OptionalAuth(svcs.Auth, logger))
		{
			public.POST("/orders", handlers.HandleCreateOrder(svcs.Orders, logger))
			public.POST("/orders/checkout-manual", handlers.HandleCheckoutManual(svcs.Orders, logger))
			public.GET("/orders/:id/track", handlers.HandleTrackOrder(svcs.Orders, logger))
			public.POST("/coupons/validate", handlers.HandleValidateCoupon(svcs.Coupons, logger))
			public.POST("/messages", handlers.HandleCreateMessage(repos, svcs.Notify, logger))
			public.GET("/products/:productId/reviews", handlers.HandleListProductReviews(svcs.Reviews, logger))
			public.GET("/products/:productId/can-review", handlers.HandleCanReview(svcs.Reviews, logger))
		}

		// Customer account routes
		my := api.Group("/my")
		my.Use(middleware.RequireAuth(svcs.Auth, logger))
		{
			my.GET("/orders", handlers.HandleMyOrders(svcs.Orders, logger))
			my.POST("/orders/:id/cancel", handlers.HandleCancelOrder(svcs.Orders, logger))
			my.POST("/orders/:id/payment", handlers.HandleSubmitPayment(svcs.Orders, logger))
			my.GET("/reviews", handlers.HandleMyReviews(svcs.Reviews, logger))
			my.GET("/notifications", handlers.HandleMyNotifications(repos, logger))
			my.POST("/notifications/read", handlers.HandleMarkNotificationsRead(repos, logger))
		}
		api.POST("/reviews", middleware.RequireAuth(svcs.Auth, logger), handlers.HandleSubmitReview(svcs.Reviews, logger))

		// Admin routes
		admin := api.Group("/admin")
		admin.Use(middleware.RequireAdmin(svcs.Auth, logger))
		{
			admin.GET("/orders", handlers.HandleAdminListOrders(svcs.Orders, logger))
			admin.GET("/orders/:id", handlers.HandleAdminGetOrder(svcs.Orders, logger))
			admin.PATCH("/orders/:id/status", handlers.HandleAdminUpdateStatus(svcs.Orders, logger))
			admin.POST("/orders/:id/payment-review", handlers.HandleAdminReviewPayment(svcs.Orders, logger))
			admin.PATCH("/orders/:id/note", handlers.HandleAdminUpdateNote(svcs.Orders, logger))

			admin.GET("/reviews", handlers.HandleAdminListReviews(svcs.Reviews, logger))
			admin.PATCH("/reviews/:id", handlers.HandleAdminModerateReview(svcs.Reviews, logger))
			admin.DELETE("/reviews/:id", handlers.HandleAdminDeleteReview(svcs.Reviews, logger))

			admin.GET("/coupons", handlers.HandleAdminListCoupons(svcs.Coupons, logger))
			admin.POST("/coupons", handlers.HandleAdminCreateCoupon(svcs.Coupons, logger))
			admin.DELETE("/coupons/:id", handlers.HandleAdminDeleteCoupon(svcs.Coupons, logger))

			admin.GET("/settings", handlers.HandleAdminGetSettings(repos, logger))
			admin.PUT("/settings", handlers.HandleAdminUpdateSettings(repos, logger))

			admin.GET("/notifications", handlers.HandleAdminNotifications(repos, logger))
			admin.POST("/notifications/read", handlers.HandleAdminMarkNotificationsRead(repos, logger))
			admin.GET("/messages", handlers.HandleAdminListMessages(repos, logger))
		}
	}

	return router
}

// customRecovery is a custom recovery middleware that logs panics
func customRecovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("Panic recovered",
			zap.Any("error", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal server error",
			"details": fmt.Sprintf("%v", recovered),
		})
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
		)
	}
}
