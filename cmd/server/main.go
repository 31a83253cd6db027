package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/vikalp/backend/docs"
	invoicingapp "github.com/vikalp/backend/internal/application/invoicing"
	printingapp "github.com/vikalp/backend/internal/application/printing"
	"github.com/vikalp/backend/internal/domain/printing"
	"github.com/vikalp/backend/internal/infrastructure/auth"
	"github.com/vikalp/backend/internal/infrastructure/cache"
	"github.com/vikalp/backend/internal/infrastructure/collaborator"
	"github.com/vikalp/backend/internal/infrastructure/config"
	"github.com/vikalp/backend/internal/infrastructure/logger"
	"github.com/vikalp/backend/internal/infrastructure/persistence"
	infra "github.com/vikalp/backend/internal/infrastructure/printing"
	"github.com/vikalp/backend/internal/infrastructure/storage"
	"github.com/vikalp/backend/internal/infrastructure/telemetry"
	"github.com/vikalp/backend/internal/interfaces/http/handler"
	"github.com/vikalp/backend/internal/interfaces/http/middleware"
	"github.com/vikalp/backend/internal/interfaces/http/router"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Vikalp Electricals Invoice API
//	@version		1.0
//	@description	GST invoices, printable documents, and PDF export for the repair shop

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token issued by the record store. Format: "Bearer {token}"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := logger.FromAppConfig(cfg.App, cfg.Log)
	bootLog, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	// Telemetry comes first so the final logger can tee into the OTel log bridge
	ctx := context.Background()
	tel, err := telemetry.Setup(ctx, cfg.Telemetry, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize telemetry", zap.Error(err))
	}

	log, err := logger.New(logCfg,
		logger.WithCore(tel.ZapCore(logger.ParseLevel(cfg.Log.Level))),
		logger.WithFields(zap.String("service", cfg.App.Name), zap.String("version", version)),
	)
	if err != nil {
		bootLog.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting invoice backend",
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("collaborator", cfg.Collaborator.BaseURL),
		zap.Bool("server_export", cfg.Export.ServerEnabled),
	)

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfigFrom(cfg.Telemetry), log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() {
		tel.EnableSpanProfiles()
	}

	// Export audit database
	db, err := persistence.NewDatabase(&cfg.Database,
		persistence.WithZapLogger(log, logger.MapGormLogLevel(cfg.Log.Level)),
		persistence.WithFullSQL(cfg.Telemetry.DBLogFullSQL),
		persistence.WithPlugin(telemetry.NewDBTracingPlugin(telemetry.DBTracingConfigFrom(cfg.Telemetry, cfg.Database), log)),
	)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := db.AutoMigrate(); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}
	log.Info("Database connected", zap.String("driver", db.Driver()))

	idem, err := cache.NewIdempotencyStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.App.IsProduction()),
	).CreateStore(ctx)
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() {
		_ = idem.Close()
	}()

	revocations := newRevocationList(ctx, cfg, log)

	archive, err := newArchive(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize PDF archive", zap.Error(err))
	}

	// Record store and document service
	records, err := collaborator.NewClient(cfg.Collaborator,
		collaborator.WithLogger(log),
		collaborator.WithDocumentBaseURL(cfg.Export.DocumentURL),
	)
	if err != nil {
		log.Fatal("Failed to create collaborator client", zap.Error(err))
	}
	log.Info("Record store client ready",
		zap.String("base_url", records.BaseURL()),
		zap.String("document_url", records.DocumentURL()))

	// Rendering
	templates, err := infra.NewTemplateEngine(infra.WithExternalDir(cfg.Export.TemplateDir))
	if err != nil {
		log.Fatal("Failed to load invoice templates", zap.Error(err))
	}
	chrome, err := infra.NewChromedpRenderer(&infra.ChromedpConfig{
		DefaultTimeout: cfg.Export.Timeout,
		SettleTimeout:  cfg.Export.SettleTimeout,
		RemoteURL:      cfg.Chrome.RemoteURL,
		NoSandbox:      cfg.Chrome.NoSandbox,
		Logger:         log,
	})
	if err != nil {
		log.Fatal("Failed to create Chrome renderer", zap.Error(err))
	}
	defer func() {
		_ = chrome.Close()
	}()

	// Application services
	invoices := invoicingapp.NewInvoiceService(records, sellerProfile(cfg.Seller), log)
	documents := printingapp.NewDocumentService(invoices, templates, chrome, cfg.Export.Timeout, log)

	exportOpts := []printingapp.ExportOption{
		printingapp.WithServerSource(records),
		printingapp.WithIdempotencyStore(idem),
	}
	if archive != nil {
		exportOpts = append(exportOpts, printingapp.WithArchive(archive))
	}
	if exportMetrics, err := telemetry.NewExportMetrics(tel.Meter("invoice-export")); err != nil {
		log.Warn("Export metrics disabled", zap.Error(err))
	} else {
		exportOpts = append(exportOpts, printingapp.WithMetrics(exportMetrics))
	}
	exports := printingapp.NewExportPipeline(
		invoices,
		documents,
		chrome.Rasterizer(),
		infra.NewGofpdfAssembler(log),
		persistence.NewGormExportJobRepository(db.DB),
		printingapp.ExportConfig{
			ServerEnabled:  cfg.Export.ServerEnabled,
			Timeout:        cfg.Export.Timeout,
			Scale:          cfg.Export.Scale,
			IdempotencyTTL: cfg.Export.IdempotencyTTL,
			Paper:          printing.PaperSizeA4,
		},
		log,
		exportOpts...,
	)

	// Handlers
	jwtService := auth.NewJWTService(cfg.JWT)
	invoiceHandler := handler.NewInvoiceHandler(invoices)
	documentHandler := handler.NewDocumentHandler(documents, exports)
	deskHandler := handler.NewServiceDeskHandler(invoices)
	lookupHandler := handler.NewLookupHandler(invoices, exports, func(mobile string) printingapp.DocumentResolver {
		return invoices.LookupDocuments(mobile)
	})
	authHandler := handler.NewAuthHandler(revocations, jwtService.Expiration())
	systemHandler := handler.NewSystemHandler(cfg.App.Name, version).
		AddCheck("database", func(context.Context) error { return db.Ping() })

	// Setup Gin
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Warn("Invalid trusted proxies", zap.Error(err))
	}

	// Request ID first so every later middleware can log and tag it
	engine.Use(middleware.RequestID())
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     tel.Enabled(),
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(corsConfig(cfg.HTTP)))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.HTTPMetrics(tel.Meter("invoice-http")))
	engine.Use(middleware.ProfilingWithConfig(middleware.ProfilingConfig{
		Enabled:   profiler.IsEnabled(),
		SkipPaths: middleware.DefaultProfilingConfig().SkipPaths,
	}))

	// Auth runs per group; the attribute injector then tags spans with the user
	jwtAuth := middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:  jwtService,
		Revocations: revocations,
		Logger:      log,
	})
	authenticated := func(c *gin.Context) {
		jwtAuth(c)
		if c.IsAborted() {
			return
		}
		middleware.TracingAttributeInjector()(c)
	}

	var exportLimit gin.HandlerFunc
	var limiter *middleware.RateLimiter
	if cfg.HTTP.ExportRateLimit > 0 {
		limiter = middleware.NewRateLimiter(cfg.HTTP.ExportRateLimit, cfg.HTTP.ExportRateWindow)
		exportLimit = middleware.RateLimit(limiter)
	}
	// The public lookup has its own budget so it cannot starve signed-in exports
	var lookupLimit gin.HandlerFunc
	var lookupLimiter *middleware.RateLimiter
	if cfg.HTTP.LookupRateLimit > 0 {
		lookupLimiter = middleware.NewRateLimiter(cfg.HTTP.LookupRateLimit, cfg.HTTP.LookupRateWindow)
		lookupLimit = middleware.RateLimit(lookupLimiter)
	} else {
		log.Warn("Public customer lookup is not rate limited")
	}

	// Swagger documentation endpoint
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:     cfg.Swagger.Enabled,
			RequireAuth: cfg.Swagger.RequireAuth,
			AllowedIPs:  cfg.Swagger.AllowedIPs,
		}, jwtAuth),
		ginSwagger.WrapHandler(swaggerFiles.Handler))

	r := router.NewRouter(engine)
	r.Register(handler.InvoiceRoutes(invoiceHandler, documentHandler, authenticated, exportLimit)).
		Register(handler.ExportRoutes(documentHandler, authenticated)).
		Register(handler.CustomerRoutes(deskHandler, authenticated)).
		Register(handler.LookupRoutes(lookupHandler, lookupLimit)).
		Register(handler.ComplaintRoutes(deskHandler, authenticated)).
		Register(handler.DashboardRoutes(deskHandler, authenticated)).
		Register(handler.AuthRoutes(authHandler, authenticated)).
		RegisterRoot(handler.SystemRoutes(systemHandler))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr), zap.String("api", r.BasePath()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if limiter != nil {
		limiter.Stop()
	}
	if lookupLimiter != nil {
		lookupLimiter.Stop()
	}
	if err := profiler.Stop(); err != nil {
		log.Warn("Failed to stop profiler", zap.Error(err))
	}
	if err := tel.Shutdown(shutdownCtx); err != nil {
		log.Warn("Failed to flush telemetry", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// sellerProfile converts the configured shop identity
func sellerProfile(s config.SellerConfig) printing.SellerProfile {
	return printing.SellerProfile{
		Name:         s.Name,
		AddressLines: s.AddressLines,
		Phone:        s.Phone,
		GSTIN:        s.GSTIN,
		StateName:    s.StateName,
		StateCode:    s.StateCode,
		Email:        s.Email,
		City:         s.City,
		Jurisdiction: s.Jurisdiction,
	}
}

func corsConfig(h config.HTTPConfig) middleware.CORSConfig {
	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = h.CORSAllowOrigins
	if len(h.CORSAllowMethods) > 0 {
		cors.AllowMethods = h.CORSAllowMethods
	}
	if len(h.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = h.CORSAllowHeaders
	}
	return cors
}

// newRevocationList uses Redis when enabled and keeps revocations in memory otherwise
func newRevocationList(ctx context.Context, cfg *config.Config, log *zap.Logger) auth.RevocationList {
	if !cfg.Redis.Enabled {
		return auth.NewInMemoryRevocationList()
	}
	list, err := auth.NewRedisRevocationList(ctx, cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable, keeping token revocations in memory", zap.Error(err))
		return auth.NewInMemoryRevocationList()
	}
	return list
}

// newArchive returns the configured PDF archive, or nil when archiving is off
func newArchive(ctx context.Context, cfg *config.Config, log *zap.Logger) (infra.PDFArchive, error) {
	switch cfg.Storage.Driver {
	case "local":
		return infra.NewFileSystemArchive(&infra.FileSystemArchiveConfig{
			BasePath: cfg.Storage.LocalPath,
			BaseURL:  cfg.Storage.BaseURL,
			Logger:   log,
		})
	case "s3":
		archive, err := storage.NewS3Archive(&cfg.Storage,
			storage.WithLogger(log),
			storage.WithPresignExpiration(cfg.Storage.PresignExpiration),
		)
		if err != nil {
			return nil, err
		}
		if err := archive.EnsureBucket(ctx); err != nil {
			log.Warn("Archive bucket check failed", zap.String("bucket", archive.Bucket()), zap.Error(err))
		}
		return archive, nil
	default:
		log.Info("PDF archiving disabled")
		return nil, nil
	}
}
