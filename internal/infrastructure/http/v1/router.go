// Package v1 provides the HTTP API.
package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"

	"bizerp/internal/app"
	"bizerp/internal/config"
	appctx "bizerp/internal/core/context"
	"bizerp/internal/infrastructure/http/v1/handlers"
	"bizerp/internal/infrastructure/http/v1/middleware"
	"bizerp/internal/infrastructure/upload"
	"bizerp/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	Logger *logger.Logger
	Config *config.Config
	App    *app.App

	// DB backs the health check. May be nil.
	DB handlers.Pinger

	// Receipts stores expense receipt images. Receipt upload answers 500
	// when nil.
	Receipts handlers.ReceiptStore

	// LoginLimiter throttles /api/auth. Nil disables throttling.
	LoginLimiter *limiter.Limiter
}

// NewRouter creates and configures the gin engine.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := RegisterValidators(); err != nil {
		cfg.Logger.Warnw("failed to register validators", "error", err)
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.SecureHeaders(cfg.Config.IsProduction()))
	router.Use(middleware.CORS(cfg.Config.CORSOrigins))
	router.Use(middleware.ReadOnly(cfg.Config.ReadOnlyMode, "/api/auth/login", "/api/auth/verify"))

	if cfg.Config.UploadDir != "" {
		router.Static(upload.URLPrefix, cfg.Config.UploadDir)
	}

	base := handlers.NewBaseHandler()
	api := router.Group("/api")

	health := handlers.NewHealthHandler(cfg.Config.ServiceName, cfg.DB)
	api.GET("/health", health.Health)

	authGroup := api.Group("/auth")
	if cfg.LoginLimiter != nil {
		authGroup.Use(middleware.RateLimit(cfg.LoginLimiter))
	}
	authHandler := handlers.NewAuthHandler(base, cfg.App.Auth)
	authHandler.RegisterRoutes(authGroup)

	protected := api.Group("")
	protected.Use(middleware.Auth(cfg.App.Auth))

	protected.POST("/users", middleware.RequireRole(appctx.RoleAdmin), authHandler.CreateUser)

	approver := middleware.RequireRole(appctx.RoleAdmin, appctx.RoleManager)
	registerDocumentRoutes(protected, base, cfg.App, approver)
	registerCatalogRoutes(protected, base, cfg, approver)
	registerOperationRoutes(protected, base, cfg.App)

	return router
}

// registerDocumentRoutes mounts every document type. Status changes pass
// through approver.
func registerDocumentRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, a *app.App, approver gin.HandlerFunc) {
	handlers.NewDocumentHandler(base, a.PurchaseOrders).RegisterRoutes(rg.Group("/purchase-orders"), approver)

	bills := rg.Group("/bills")
	billHandler := handlers.NewDocumentHandler(base, a.Bills)
	bills.GET("/generate-bill-number", billHandler.GenerateNumber)
	billHandler.RegisterRoutes(bills, approver)

	handlers.NewDocumentHandler(base, a.VendorCredits).RegisterRoutes(rg.Group("/vendor-credits"), approver)
	handlers.NewDocumentHandler(base, a.PaymentsMade).RegisterRoutes(rg.Group("/payments-made"), approver)
	handlers.NewDocumentHandler(base, a.SalesOrders).RegisterRoutes(rg.Group("/sales-orders"), approver)
	handlers.NewDocumentHandler(base, a.Invoices).RegisterRoutes(rg.Group("/invoices"), approver)
	handlers.NewDocumentHandler(base, a.DeliveryChallans).RegisterRoutes(rg.Group("/delivery-challans"), approver)
	handlers.NewDocumentHandler(base, a.PaymentsReceived).RegisterRoutes(rg.Group("/payments-received"), approver)
	handlers.NewDocumentHandler(base, a.TransferOrders).RegisterRoutes(rg.Group("/transfer-orders"), approver)
}

// registerCatalogRoutes mounts flat entities. Expense decisions pass
// through approver.
func registerCatalogRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig, approver gin.HandlerFunc) {
	a := cfg.App

	handlers.NewItemHandler(base, a.Items).RegisterRoutes(rg.Group("/items"))

	handlers.NewCatalogHandler(base, a.Vendors, handlers.CatalogConfig{
		Filters: map[string]string{"is_active": "is_active"},
	}).RegisterRoutes(rg.Group("/vendors"))
	handlers.NewCatalogHandler(base, a.Customers, handlers.CatalogConfig{
		Filters: map[string]string{"is_active": "is_active"},
	}).RegisterRoutes(rg.Group("/customers"))
	handlers.NewCatalogHandler(base, a.Manufacturers, handlers.CatalogConfig{}).RegisterRoutes(rg.Group("/manufacturers"))
	handlers.NewCatalogHandler(base, a.Brands, handlers.CatalogConfig{}).RegisterRoutes(rg.Group("/brands"))

	handlers.NewBinHandler(base, a.BinLocations, a.Bins).RegisterRoutes(rg.Group("/bin-locations"))

	handlers.NewExpenseHandler(base, a.Expenses, cfg.Receipts).RegisterRoutes(rg.Group("/expenses"), approver)
	handlers.NewTaskHandler(base, a.Tasks).RegisterRoutes(rg.Group("/tasks"))
	handlers.NewInsightHandler(base, a.Insights).RegisterRoutes(rg.Group("/insights"))
}

// registerOperationRoutes mounts POS sessions and reports.
func registerOperationRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, a *app.App) {
	handlers.NewPOSHandler(base, a.POS).RegisterRoutes(rg.Group("/pos"))
	handlers.NewReportsHandler(base, a.Reports).RegisterRoutes(rg.Group("/reports"))
}
