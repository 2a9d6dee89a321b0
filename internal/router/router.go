package router

import (
	"time"

	"stockroom/internal/config"
	"stockroom/internal/handler"
	"stockroom/internal/middleware"
	"stockroom/internal/model"
	"stockroom/internal/repository"
	"stockroom/internal/service"
	"stockroom/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	itemRepo := repository.NewItemRepository(db)
	productRepo := repository.NewProductRepository(db)
	operationRepo := repository.NewOperationRepository(db)
	stockReqRepo := repository.NewStockRequestRepository(db)
	shipmentRepo := repository.NewShipmentRequestRepository(db)
	deliveryRepo := repository.NewDeliveryRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	shopRepo := repository.NewShopRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb, cfg.AlertEmail)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	ledgerSvc := service.NewLedgerService(itemRepo, operationRepo)
	catalogSvc := service.NewCatalogService(itemRepo, productRepo, operationRepo, stockReqRepo, shipmentRepo)
	stockReqSvc := service.NewStockRequestService(stockReqRepo, itemRepo, shopRepo, ledgerSvc, dispatcher)
	shipmentSvc := service.NewShipmentRequestService(shipmentRepo, itemRepo, ledgerSvc, dispatcher)
	deliverySvc := service.NewDeliveryService(deliveryRepo, itemRepo, productRepo, supplierRepo, ledgerSvc, rdb)
	reportSvc := service.NewReportService(operationRepo, itemRepo, stockReqRepo, shipmentRepo, deliveryRepo)
	supplierSvc := service.NewSupplierService(supplierRepo)
	shopSvc := service.NewShopService(shopRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc)
	itemsH := handler.NewItemsHandler(catalogSvc, ledgerSvc)
	productsH := handler.NewProductsHandler(catalogSvc)
	stockReqH := handler.NewStockRequestsHandler(stockReqSvc)
	shipmentsH := handler.NewShipmentRequestsHandler(shipmentSvc)
	deliveriesH := handler.NewDeliveriesHandler(deliverySvc)
	reportsH := handler.NewReportsHandler(reportSvc)
	suppliersH := handler.NewSuppliersHandler(supplierSvc)
	shopsH := handler.NewShopsHandler(shopSvc)

	// Role shorthands
	staff := middleware.RequireRole(model.RoleWarehouse, model.RoleAdmin)
	anyRole := middleware.RequireRole(model.RoleShop, model.RoleWarehouse, model.RoleAdmin)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Catalog — all roles read, warehouse/admin write.
		// Code-addressed endpoints live under /item-codes: Gin's tree cannot
		// mix a static "code" segment with the :id wildcard under /items.
		v1.GET("/items", anyRole, itemsH.List)
		v1.GET("/items/:id", anyRole, itemsH.GetByID)
		v1.GET("/item-codes/:code", anyRole, itemsH.GetByCode)
		v1.PATCH("/item-codes/:code/adjust", staff, itemsH.AdjustQuantity)
		v1.GET("/alerts", staff, itemsH.Alerts)
		items := v1.Group("/items", staff)
		{
			items.POST("", itemsH.Create)
			items.PUT("/:id", itemsH.Update)
			items.PATCH("/:id/quantity", adminOnly, itemsH.SetQuantity)
			items.DELETE("/:id", itemsH.Deactivate)
			items.PATCH("/:id/reactivate", itemsH.Reactivate)
		}

		// Ledger — staff only
		v1.GET("/operations", staff, itemsH.Operations)

		// Product definitions — staff
		v1.GET("/products", staff, productsH.List)
		v1.POST("/products", staff, productsH.Create)

		// Stock requests — shops submit, staff process
		sr := v1.Group("/stock-requests")
		{
			sr.POST("", anyRole, stockReqH.Submit)
			sr.GET("", anyRole, stockReqH.List)
			sr.GET("/:id", anyRole, stockReqH.GetByID)
			sr.PATCH("/:id/process", staff, stockReqH.StartProcessing)
			sr.PATCH("/:id/return", staff, stockReqH.ReturnForRevision)
			sr.PATCH("/:id/approve", adminOnly, stockReqH.Approve)
			sr.PATCH("/:id/cancel", anyRole, stockReqH.Cancel)
		}

		// Shipment requests — staff only
		ship := v1.Group("/shipment-requests", staff)
		{
			ship.POST("", shipmentsH.Submit)
			ship.GET("", shipmentsH.List)
			ship.GET("/:id", shipmentsH.GetByID)
			ship.PATCH("/:id/approve", adminOnly, shipmentsH.Approve)
			ship.PATCH("/:id/cancel", shipmentsH.Cancel)
		}

		// Supplier deliveries — staff only. The advisory code check sits under
		// /delivery-codes for the same wildcard reason as /item-codes.
		v1.GET("/delivery-codes/:code", staff, deliveriesH.CheckCode)
		del := v1.Group("/deliveries", staff)
		{
			del.POST("", deliveriesH.Submit)
			del.GET("", deliveriesH.List)
			del.GET("/:id", deliveriesH.GetByID)
		}

		// Reports — staff only
		reports := v1.Group("/reports", staff)
		{
			reports.GET("/summary", reportsH.Summary)
			reports.GET("/export/csv", reportsH.ExportCSV)
			reports.GET("/export/xlsx", reportsH.ExportXLSX)
			reports.GET("/export/pdf", reportsH.ExportPDF)
		}

		// Suppliers — staff read, admin write
		v1.GET("/suppliers", staff, suppliersH.List)
		v1.GET("/suppliers/:id", staff, suppliersH.GetByID)
		suppliers := v1.Group("/suppliers", adminOnly)
		{
			suppliers.POST("", suppliersH.Create)
			suppliers.PUT("/:id", suppliersH.Update)
			suppliers.DELETE("/:id", suppliersH.Deactivate)
		}

		// Shops — all read, admin write
		v1.GET("/shops", anyRole, shopsH.List)
		v1.GET("/shops/:id", anyRole, shopsH.GetByID)
		shops := v1.Group("/shops", adminOnly)
		{
			shops.POST("", shopsH.Create)
			shops.PUT("/:id", shopsH.Update)
			shops.DELETE("/:id", shopsH.Deactivate)
		}

		// Users — admin only
		users := v1.Group("/users", adminOnly)
		{
			users.POST("", usersH.Create)
			users.GET("", usersH.List)
			users.PUT("/:id", usersH.Update)
			users.DELETE("/:id", usersH.Deactivate)
			users.PATCH("/:id/reactivate", usersH.Reactivate)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
