package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/atelierline/studio/internal/config"
	"github.com/atelierline/studio/internal/design/entity"
	"github.com/atelierline/studio/internal/design/handler"
	"github.com/atelierline/studio/internal/design/repository"
	"github.com/atelierline/studio/internal/design/service"
	"github.com/atelierline/studio/internal/middleware"
	procentity "github.com/atelierline/studio/internal/procurement/entity"
	prochandler "github.com/atelierline/studio/internal/procurement/handler"
	procrepo "github.com/atelierline/studio/internal/procurement/repository"
	procsvc "github.com/atelierline/studio/internal/procurement/service"
	"github.com/atelierline/studio/internal/shared/notify"
	"github.com/atelierline/studio/internal/shared/storage"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// 加载 .env 文件
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化日志
	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting studio service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	// 初始化数据库
	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// 设计模块表
	if err := db.AutoMigrate(
		&entity.User{},
		&entity.Client{},
		&entity.Contractor{},
		&entity.ProjectContractor{},
		&entity.Project{},
		&entity.Room{},
		&entity.DesignStage{},
		&entity.Drawing{},
		&entity.DrawingRevision{},
		&entity.Transmittal{},
		&entity.TransmittalItem{},
	); err != nil {
		zapLogger.Warn("AutoMigrate design tables warning", zap.Error(err))
	}

	// 采购模块表
	if err := db.AutoMigrate(
		&procentity.Supplier{},
		&procentity.SupplierContact{},
		&procentity.RFQ{},
		&procentity.RFQItem{},
		&procentity.RFQQuote{},
		&procentity.Invoice{},
	); err != nil {
		zapLogger.Warn("AutoMigrate procurement tables warning", zap.Error(err))
	}
	zapLogger.Info("Database migration completed")

	// 初始化Redis
	rdb := initRedis(cfg.Redis)

	// 初始化对象存储（可选，图纸文件上传用）
	var store *storage.Store
	if cfg.MinIO.Endpoint != "" {
		store, err = storage.New(cfg.MinIO.Endpoint, cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, cfg.MinIO.Bucket, cfg.MinIO.UseSSL)
		if err != nil {
			zapLogger.Warn("Failed to init object storage, uploads disabled", zap.Error(err))
			store = nil
		}
	}

	// 初始化依赖
	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, db, rdb, zapLogger)

	// 投递通知客户端（可选）
	if cfg.Notify.WebhookURL != "" {
		services.Transmittal.SetNotifier(notify.NewClient(cfg.Notify.WebhookURL))
		zapLogger.Info("Transmittal notify client initialized")
	}

	handlers := handler.NewHandlers(services, store)

	// 采购模块
	procRepos := procrepo.NewRepositories(db)
	procSupplierSvc := procsvc.NewSupplierService(procRepos.Supplier)
	procProcurementSvc := procsvc.NewProcurementService(procRepos.RFQ, procRepos.Invoice, procRepos.Supplier)
	procHandlers := prochandler.NewHandlers(procSupplierSvc, procProcurementSvc)

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 创建路由
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// 注册路由
	registerRoutes(router, handlers, procHandlers, cfg)

	// 创建HTTP服务器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: 0, // Disable for SSE long-lived connections
	}

	// 启动服务器
	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zapCfg.Build()
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return db, nil
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func registerRoutes(r *gin.Engine, h *handler.Handlers, procH *prochandler.Handlers, cfg *config.Config) {
	// 健康检查
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 版本信息
	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	// API v1
	v1 := r.Group("/api/v1")
	{
		// SSE 实时推送（需要认证，支持 query param token）
		sseGroup := v1.Group("/sse")
		sseGroup.Use(middleware.JWTAuth(cfg.JWT.Secret))
		{
			sseGroup.GET("/events", h.SSE.Stream)
		}

		// 需要认证的接口
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(cfg.JWT.Secret))
		{
			// 文件上传
			authorized.POST("/upload", h.Upload.Upload)
			authorized.GET("/files/download", h.Upload.Download)

			// 客户
			clients := authorized.Group("/clients")
			{
				clients.GET("", h.Directory.ListClients)
				clients.POST("", h.Directory.CreateClient)
				clients.GET("/:id", h.Directory.GetClient)
				clients.PUT("/:id", h.Directory.UpdateClient)
			}

			// 承包商
			contractors := authorized.Group("/contractors")
			{
				contractors.GET("", h.Directory.ListContractors)
				contractors.POST("", h.Directory.CreateContractor)
				contractors.PUT("/:id", h.Directory.UpdateContractor)
			}

			// 项目
			projects := authorized.Group("/projects")
			{
				projects.GET("", h.Project.List)
				projects.POST("", h.Project.Create)
				projects.GET("/:id", h.Project.Get)
				projects.PUT("/:id", h.Project.Update)

				projects.POST("/:id/rooms", h.Project.CreateRoom)
				projects.DELETE("/:id/rooms/:roomId", h.Project.DeleteRoom)
				projects.POST("/:id/stages", h.Project.CreateStage)
				projects.PUT("/:id/stages/:stageId", h.Project.UpdateStage)

				projects.GET("/:id/contractors", h.Directory.ListProjectContractors)
				projects.POST("/:id/contractors/:contractorId", h.Directory.LinkContractor)
				projects.DELETE("/:id/contractors/:contractorId", h.Directory.UnlinkContractor)

				// 图纸登记
				projects.GET("/:id/drawings", h.Drawing.List)
				projects.POST("/:id/drawings", h.Drawing.Create)

				// 发放单
				projects.GET("/:id/transmittals", h.Transmittal.List)
				projects.POST("/:id/transmittals", h.Transmittal.Create)

				// 发放矩阵与收件人目录
				projects.GET("/:id/distribution", h.Distribution.Matrix)
				projects.GET("/:id/distribution/export", h.Distribution.Export)
				projects.GET("/:id/recipients", h.Distribution.Recipients)
			}

			// 图纸
			drawings := authorized.Group("/drawings")
			{
				drawings.GET("/:drawingId", h.Drawing.Get)
				drawings.POST("/:drawingId/revisions", h.Drawing.AddRevision)
				drawings.POST("/:drawingId/archive", h.Drawing.Archive)
			}

			// 发放单
			transmittals := authorized.Group("/transmittals")
			{
				transmittals.GET("/:transmittalId", h.Transmittal.Get)
				transmittals.POST("/:transmittalId/send", h.Transmittal.MarkSent)
			}

			// 采购
			procurement := authorized.Group("/procurement")
			{
				suppliers := procurement.Group("/suppliers")
				{
					suppliers.GET("", procH.Supplier.ListSuppliers)
					suppliers.POST("", procH.Supplier.CreateSupplier)
					suppliers.GET("/:id", procH.Supplier.GetSupplier)
					suppliers.PUT("/:id", procH.Supplier.UpdateSupplier)
					suppliers.POST("/:id/contacts", procH.Supplier.CreateContact)
					suppliers.DELETE("/:id/contacts/:contactId", procH.Supplier.DeleteContact)
				}

				rfqs := procurement.Group("/rfqs")
				{
					rfqs.GET("", procH.RFQ.ListRFQs)
					rfqs.POST("", procH.RFQ.CreateRFQ)
					rfqs.GET("/:id", procH.RFQ.GetRFQ)
					rfqs.POST("/:id/quotes", procH.RFQ.AddQuote)
					rfqs.POST("/:id/quotes/:quoteId/select", procH.RFQ.SelectQuote)
				}

				invoices := procurement.Group("/invoices")
				{
					invoices.GET("", procH.Invoice.ListInvoices)
					invoices.POST("", procH.Invoice.CreateInvoice)
					invoices.GET("/:id", procH.Invoice.GetInvoice)
					invoices.POST("/:id/pay", procH.Invoice.PayInvoice)
				}
			}
		}
	}
}
