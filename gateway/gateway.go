package gateway

import (
	"fmt"
	"net/http"
	"time"

	"github.com/alaaMelook/Nature-Hug-sub001/pkg/analytics"
	"github.com/alaaMelook/Nature-Hug-sub001/pkg/config"
	"github.com/alaaMelook/Nature-Hug-sub001/pkg/lifecycle"
	"github.com/alaaMelook/Nature-Hug-sub001/pkg/packing"
	"github.com/alaaMelook/Nature-Hug-sub001/pkg/repository"
	"github.com/alaaMelook/Nature-Hug-sub001/pkg/shipping"
	"github.com/alaaMelook/Nature-Hug-sub001/pkg/storage"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Gateway is the HTTP surface: storefront routes for customers and
// guests, admin routes for the back office.
type Gateway struct {
	config    *config.Config
	logger    *zap.Logger
	router    *gin.Engine
	store     *repository.Store
	cache     *repository.RedisRepository
	audit     *repository.MongoRepository
	lifecycle *lifecycle.Service
	packer    *packing.Dispatcher
	shipping  *shipping.Client
	analytics *analytics.Client
	uploader  *storage.Uploader
}

type Deps struct {
	Store     *repository.Store
	Cache     *repository.RedisRepository
	Audit     *repository.MongoRepository
	Lifecycle *lifecycle.Service
	Packer    *packing.Dispatcher
	Shipping  *shipping.Client
	Analytics *analytics.Client
	Uploader  *storage.Uploader
}

func NewGateway(cfg *config.Config, logger *zap.Logger, deps Deps) *Gateway {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggerMiddleware(logger))

	return &Gateway{
		config:    cfg,
		logger:    logger,
		router:    router,
		store:     deps.Store,
		cache:     deps.Cache,
		audit:     deps.Audit,
		lifecycle: deps.Lifecycle,
		packer:    deps.Packer,
		shipping:  deps.Shipping,
		analytics: deps.Analytics,
		uploader:  deps.Uploader,
	}
}

func (g *Gateway) SetupRoutes() {
	// Health check
	g.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Storefront
	v1 := g.router.Group("/api/v1")
	{
		products := v1.Group("/products")
		{
			products.GET("", g.listProducts)
			products.GET("/:slug", g.getProduct)
		}

		cart := v1.Group("/cart")
		{
			cart.GET("", g.getCart)
			cart.POST("", g.saveCart)
			cart.DELETE("", g.clearCart)
		}

		v1.POST("/checkout", g.checkout)
		v1.POST("/promo/validate", g.validatePromo)

		orders := v1.Group("/orders")
		{
			orders.GET("/:id/track", g.trackOrder)
			orders.POST("/:id/cancel", g.cancelOrder)
		}
		v1.POST("/guest/orders/:id/cancel", g.cancelGuestOrder)
	}

	// Distributor bulk order intake
	g.router.POST("/api/distributor/orders", g.createDistributorOrder)

	// Upload pass-through
	g.router.POST("/api/upload", g.upload)

	// Admin back office
	admin := g.router.Group("/api/admin")
	{
		orders := admin.Group("/orders", g.requirePermission("orders", "view"))
		{
			orders.GET("", g.adminListOrders)
			orders.GET("/:id", g.adminGetOrder)
			orders.GET("/:id/history", g.adminOrderHistory)
			orders.PUT("/:id/status", g.requirePermission("orders", "edit"), g.adminSetStatus)
			orders.POST("/:id/cancel", g.requirePermission("orders", "edit"), g.adminCancelOrder)
		}
		admin.POST("/orders/pack", g.requirePermission("orders", "edit"), g.packOrders)

		promos := admin.Group("/promo-codes", g.requirePermission("promo_codes", "view"))
		{
			promos.GET("", g.listPromoCodes)
			promos.POST("", g.requirePermission("promo_codes", "create"), g.createPromoCode)
			promos.DELETE("/:id", g.requirePermission("promo_codes", "delete"), g.deletePromoCode)
		}

		materials := admin.Group("/materials", g.requirePermission("materials", "view"))
		{
			materials.GET("", g.listMaterials)
			materials.POST("", g.requirePermission("materials", "create"), g.createMaterial)
			materials.PUT("/:id", g.requirePermission("materials", "edit"), g.updateMaterial)
			materials.DELETE("/:id", g.requirePermission("materials", "delete"), g.deleteMaterial)
		}

		suppliers := admin.Group("/suppliers", g.requirePermission("suppliers", "view"))
		{
			suppliers.GET("", g.listSuppliers)
			suppliers.POST("", g.requirePermission("suppliers", "create"), g.createSupplier)
			suppliers.DELETE("/:id", g.requirePermission("suppliers", "delete"), g.deleteSupplier)
		}

		shippingGroup := admin.Group("/shipping", g.requirePermission("shipping", "view"))
		{
			shippingGroup.GET("/governorates", g.listGovernorates)
			shippingGroup.PUT("/governorates", g.requirePermission("shipping", "edit"), g.upsertGovernorate)
		}
		admin.GET("/shipments/:awb", g.requirePermission("shipping", "view"), g.trackShipment)

		members := admin.Group("/members", g.requirePermission("members", "view"))
		{
			members.GET("", g.listMembers)
			members.PUT("/:id/permissions", g.requirePermission("members", "edit"), g.setMemberPermissions)
		}

		admin.GET("/finance/business-analysis", g.requirePermission("reports", "view"), g.businessAnalysis)
		admin.GET("/analytics/full", g.requirePermission("reports", "view"), g.fullAnalytics)
	}

	// Swagger
	g.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

func (g *Gateway) Start() error {
	addr := fmt.Sprintf("%s:%d", g.config.Server.Host, g.config.Server.Port)
	g.logger.Info("Gateway starting", zap.String("address", addr))
	return g.router.Run(addr)
}

// Router exposes the engine for tests.
func (g *Gateway) Router() http.Handler {
	return g.router
}

// requirePermission gates admin routes on the member's permission map.
// Authentication itself happens upstream; the auth proxy injects the
// member ID after verifying the session.
func (g *Gateway) requirePermission(module, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		memberID := c.GetHeader("X-Member-ID")
		if memberID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing member identity"})
			return
		}
		member, err := g.store.GetMember(c.Request.Context(), memberID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown member"})
			return
		}
		if !member.Permissions.Can(module, action) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "permission denied"})
			return
		}
		c.Next()
	}
}

func loggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
