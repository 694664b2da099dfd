package router

import (
	"github.com/gin-gonic/gin"
	"github.com/purchase-invoice/backend/internal/domain/identity"
	"github.com/purchase-invoice/backend/internal/infrastructure/config"
	"github.com/purchase-invoice/backend/internal/interfaces/http/handler"
	"github.com/purchase-invoice/backend/internal/interfaces/http/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handlers bundles the HTTP handlers served by the API
type Handlers struct {
	Auth         *handler.AuthHandler
	Invoice      *handler.InvoiceHandler
	Product      *handler.ProductHandler
	Notification *handler.NotificationHandler
	Health       *handler.HealthHandler
}

// Options controls how routes are mounted
type Options struct {
	// APIMiddleware runs on every /api route (authentication, span enrichment)
	APIMiddleware []gin.HandlerFunc
	// AuthRateLimiter throttles register/login per client IP; nil disables it
	AuthRateLimiter *middleware.RateLimiter
	Swagger         config.SwaggerConfig
}

// Mount registers every endpoint on engine and returns the configured Router
func Mount(engine *gin.Engine, h Handlers, opts Options) *Router {
	engine.GET("/health", h.Health.Check)
	engine.POST("/mock-webhook", h.Notification.ReceiveWebhook)
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(opts.Swagger),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	purchasing := middleware.RequireRole(identity.RolePurchasingSpecialist)
	anyRole := middleware.RequireRole(identity.RolePurchasingSpecialist, identity.RoleFinanceSpecialist)
	finance := middleware.RequireRole(identity.RoleFinanceSpecialist)

	authRoutes := NewDomainGroup("auth", "/auth")
	if opts.AuthRateLimiter != nil {
		authRoutes.Use(middleware.RateLimit(opts.AuthRateLimiter))
	}
	authRoutes.
		POST("/register", h.Auth.Register).
		POST("/login", h.Auth.Login)

	invoiceRoutes := NewDomainGroup("invoice", "/invoices").
		POST("", purchasing, h.Invoice.Create).
		GET("", anyRole, h.Invoice.List).
		GET("/approved", anyRole, h.Invoice.ListApproved).
		GET("/rejected", anyRole, h.Invoice.ListRejected).
		GET("/mine", purchasing, h.Invoice.ListMine).
		GET("/:id", anyRole, h.Invoice.GetByID).
		PATCH("/:id/cancel", purchasing, h.Invoice.Cancel)

	productRoutes := NewDomainGroup("catalog", "/products").
		Use(purchasing).
		POST("", h.Product.Create).
		GET("", h.Product.List).
		GET("/:id", h.Product.GetByID).
		PUT("/:id", h.Product.Update).
		DELETE("/:id", h.Product.Delete)

	notificationRoutes := NewDomainGroup("notification", "/notifications").
		Use(finance).
		GET("/all", h.Notification.ListAll)

	r := NewRouter(engine).
		Use(opts.APIMiddleware...).
		Register(authRoutes).
		Register(invoiceRoutes).
		Register(productRoutes).
		Register(notificationRoutes)
	r.Setup()
	return r
}
