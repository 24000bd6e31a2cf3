package router

import (
	"time"

	"minakistock/internal/config"
	"minakistock/internal/handler"
	"minakistock/internal/infra"
	"minakistock/internal/middleware"
	"minakistock/internal/repository"
	"minakistock/internal/service"
	"minakistock/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher, mailCB *infra.CircuitBreaker) *gin.Engine {
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
	locationRepo := repository.NewLocationRepository(db)
	typeRepo := repository.NewStorageTypeRepository(db)
	objectRepo := repository.NewStorageObjectRepository(db)
	entryRepo := repository.NewEntryRepository(db)
	movementRepo := repository.NewMovementRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	locationSvc := service.NewLocationService(locationRepo, rdb)
	storageSvc := service.NewStorageService(typeRepo, objectRepo, locationRepo, entryRepo, rdb)
	ledgerSvc := service.NewLedgerService(entryRepo, movementRepo, objectRepo)
	summarySvc := service.NewSummaryService(entryRepo, locationRepo)
	reportSvc := service.NewReportService(dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUserHandler(authSvc)
	registryH := handler.NewRegistryHandler(locationSvc, storageSvc)
	inventoryH := handler.NewInventoryHandler(ledgerSvc, summarySvc)
	reportH := handler.NewReportHandler(reportSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, mailCB))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)

	// Roles: clerk, supervisor, admin — declared per-group
	anyStaff := middleware.RequireRole("clerk", "supervisor", "admin")
	managers := middleware.RequireRole("supervisor", "admin")
	adminOnly := middleware.RequireRole("admin")

	inv := r.Group("/inventory", jwtMW)
	{
		products := inv.Group("/products", anyStaff)
		{
			products.GET("/search", inventoryH.Search)
			products.GET("/find/:product_type/:product_id", inventoryH.Find)
			products.POST("", inventoryH.AddToBox)
			products.POST("/transfer", inventoryH.Transfer)
			products.POST("/bulk-transfer", inventoryH.BulkTransfer)
			products.PATCH("/:location_id/quantity", inventoryH.UpdateQuantity)
			products.DELETE("/:location_id", inventoryH.Remove)
			products.GET("/movements/:product_type/:product_id", inventoryH.GetMovements)
			products.GET("/inventory/summary", inventoryH.GetInventorySummary)
		}

		inv.GET("/movements", anyStaff, inventoryH.ListMovements)

		// Registry reads are open to all staff; writes need supervisor or admin.
		inv.GET("/locations", anyStaff, registryH.ListLocations)
		inv.GET("/storage-types/location/:id", anyStaff, registryH.ListStorageTypes)
		inv.GET("/storage-objects/storage-type/:id", anyStaff, registryH.ListStorageObjects)

		locations := inv.Group("/locations", managers)
		{
			locations.POST("", registryH.CreateLocation)
			locations.PUT("/:id", registryH.UpdateLocation)
			locations.DELETE("/:id", registryH.DeactivateLocation)
		}

		types := inv.Group("/storage-types", managers)
		{
			types.POST("", registryH.CreateStorageType)
			types.PUT("/:id", registryH.UpdateStorageType)
			types.DELETE("/:id", registryH.DeactivateStorageType)
		}

		objects := inv.Group("/storage-objects", managers)
		{
			objects.POST("", registryH.CreateStorageObject)
			objects.PUT("/:id", registryH.UpdateStorageObject)
			objects.DELETE("/:id", registryH.DeleteStorageObject)
		}

		inv.POST("/reports/summary", managers, reportH.DispatchSummary)
	}

	users := r.Group("/v1/users", jwtMW, adminOnly)
	{
		users.POST("", usersH.Create)
		users.GET("", usersH.List)
		users.PUT("/:id", usersH.Update)
		users.DELETE("/:id", usersH.Deactivate)
		users.PATCH("/:id/reactivate", usersH.Reactivate)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
