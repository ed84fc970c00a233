package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/vasthra/saree-works/internal/api"
	"github.com/vasthra/saree-works/internal/config"
	"github.com/vasthra/saree-works/internal/database"
	"github.com/vasthra/saree-works/internal/logger"
	mw "github.com/vasthra/saree-works/internal/middleware"
	"github.com/vasthra/saree-works/internal/mq"
	"github.com/vasthra/saree-works/internal/repo"
	"github.com/vasthra/saree-works/internal/resp"
	"github.com/vasthra/saree-works/internal/service"
	"github.com/vasthra/saree-works/internal/storage"
)

// AppDependencies 包含应用的所有依赖
type AppDependencies struct {
	ClientHandler   *api.ClientHandler
	MaterialHandler *api.MaterialHandler
	PurchaseHandler *api.PurchaseHandler
	OrderHandler    *api.OrderHandler
	AuthHandler     *api.AuthHandler
	JWTService      service.JWTService
	Publisher       mq.Publisher
}

// initConfigAndLogger 初始化配置和日志器
func initConfigAndLogger() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %v", err)
	}

	lg, err := logger.New(cfg.App.Env, cfg.Log.Level, cfg.Log.Encoding, cfg.App.Name, cfg.App.Version)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %v", err)
	}

	return cfg, lg, nil
}

// initDatabase 初始化数据库连接并执行迁移
// 迁移在 HTTP 服务器启动前完成，处理请求时表结构已就绪
func initDatabase(cfg *config.Config, lg *zap.Logger) (*database.DB, error) {
	db, err := database.New(cfg, lg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	migrationsDir := cfg.Migrations.Dir
	lg.Sugar().Infow("using migrations directory", "path", migrationsDir)

	if err := db.RunMigrations(migrationsDir); err != nil {
		return nil, fmt.Errorf("failed to run database migrations: %v", err)
	}

	return db, nil
}

// initPublisher 初始化事件发布器，MQ 未启用或连接失败时退化为空实现
func initPublisher(cfg *config.Config, lg *zap.Logger) mq.Publisher {
	if !cfg.MQ.Enabled {
		lg.Sugar().Infow("mq disabled, order events will not be published")
		return mq.NoopPublisher{}
	}

	publisher, err := mq.NewRabbitPublisher(cfg.MQ.URL, cfg.MQ.Exchange, lg)
	if err != nil {
		lg.Sugar().Warnw("failed to connect to rabbitmq, falling back to noop publisher", "error", err)
		return mq.NoopPublisher{}
	}
	return publisher
}

// initDependencies 初始化应用依赖（仓储 -> 服务 -> API处理器）
func initDependencies(cfg *config.Config, db *database.DB, lg *zap.Logger) (*AppDependencies, error) {
	store, err := storage.NewMinioStore(cfg.Storage, lg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize object storage: %v", err)
	}
	publisher := initPublisher(cfg, lg)

	clientRepo := repo.NewClientRepository(db.DB)
	materialRepo := repo.NewMaterialRepository(db.DB)
	purchaseRepo := repo.NewPurchaseRepository(db.DB)
	orderRepo := repo.NewOrderRepository(db.DB)

	clientService := service.NewClientService(clientRepo)
	materialService := service.NewMaterialService(materialRepo)
	purchaseService := service.NewPurchaseService(purchaseRepo)
	orderService := service.NewOrderService(orderRepo, store, publisher, lg)
	jwtService := service.NewJWTService(cfg, lg)
	authService := service.NewAuthService(cfg, jwtService, lg)

	return &AppDependencies{
		ClientHandler:   api.NewClientHandler(clientService, lg),
		MaterialHandler: api.NewMaterialHandler(materialService, lg),
		PurchaseHandler: api.NewPurchaseHandler(purchaseService, lg),
		OrderHandler:    api.NewOrderHandler(orderService, lg),
		AuthHandler:     api.NewAuthHandler(authService, lg),
		JWTService:      jwtService,
		Publisher:       publisher,
	}, nil
}

// setupRoutes 设置路由和中间件
func setupRoutes(cfg *config.Config, deps *AppDependencies, lg *zap.Logger) http.Handler {
	mux := http.NewServeMux()

	// 健康检查端点
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		reqID := mw.RequestIDFromContext(r.Context())
		data := map[string]any{
			"status":  "ok",
			"version": cfg.App.Version,
		}
		resp.OK(w, &data, reqID, "")
	})

	// 登录端点（永不鉴权）
	mux.HandleFunc("/api/auth/login", deps.AuthHandler.Login)

	// 鉴权开关：未启用时直接透传，便于内网单机部署
	protect := func(h http.Handler) http.Handler {
		if !cfg.Auth.Enabled {
			return h
		}
		return api.Auth(deps.JWTService, lg)(h)
	}

	// 客户档案。精确路由先于前缀路由注册
	mux.Handle("/clients", protect(http.HandlerFunc(deps.ClientHandler.HandleCollection)))
	mux.Handle("/clients/export", protect(http.HandlerFunc(deps.ClientHandler.ExportClients)))
	mux.Handle("/clients/", protect(http.HandlerFunc(deps.ClientHandler.HandleItem)))

	// 原料档案，含历史别名 /materials/get-material
	mux.Handle("/materials", protect(http.HandlerFunc(deps.MaterialHandler.HandleCollection)))
	mux.Handle("/materials/get-material", protect(http.HandlerFunc(deps.MaterialHandler.ListMaterials)))
	mux.Handle("/materials/export", protect(http.HandlerFunc(deps.MaterialHandler.ExportMaterials)))
	mux.Handle("/materials/", protect(http.HandlerFunc(deps.MaterialHandler.HandleItem)))

	// 采购记录
	mux.Handle("/api/purchases", protect(http.HandlerFunc(deps.PurchaseHandler.HandleCollection)))
	mux.Handle("/api/purchases/export", protect(http.HandlerFunc(deps.PurchaseHandler.ExportPurchases)))
	mux.Handle("/api/purchases/", protect(http.HandlerFunc(deps.PurchaseHandler.HandleItem)))

	// 订单
	mux.Handle("/orders", protect(http.HandlerFunc(deps.OrderHandler.HandleCollection)))
	mux.Handle("/orders/completed", protect(http.HandlerFunc(deps.OrderHandler.ListCompleted)))
	mux.Handle("/orders/completed/export", protect(http.HandlerFunc(deps.OrderHandler.ExportCompleted)))
	mux.Handle("/orders/mark-delivered", protect(http.HandlerFunc(deps.OrderHandler.MarkDelivered)))
	mux.Handle("/orders/", protect(http.HandlerFunc(deps.OrderHandler.HandleItem)))

	// 构建中间件链：请求进入时执行顺序为 access log → CORS → timeout → recovery → request ID
	handler := mw.RequestID(mux)
	handler = mw.Recovery(lg)(handler)
	handler = mw.Timeout(cfg.App.RequestTimeout)(handler)
	handler = mw.CORS(mw.CORSConfig{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: cfg.CORS.AllowedMethods,
		AllowedHeaders: cfg.CORS.AllowedHeaders,
	})(handler)
	handler = mw.AccessLog(lg)(handler)

	return handler
}

// startServer 启动服务器并处理优雅关闭
func startServer(cfg *config.Config, handler http.Handler, lg *zap.Logger) {
	addr := fmt.Sprintf(":%d", cfg.App.Port)
	lg.Sugar().Infow("server starting", "addr", addr)
	srv := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 5 * time.Second}

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- srv.ListenAndServe()
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	select {
	case err := <-serverErrCh:
		if err != nil && err != http.ErrServerClosed {
			lg.Sugar().Fatalw("server error", "err", err)
		}
	case <-quit:
		lg.Sugar().Infow("shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		lg.Sugar().Errorw("server shutdown error", "err", err)
	}
	lg.Sugar().Infow("server exited")
}

// main 为应用入口，协调各个组件的初始化和启动
func main() {
	cfg, lg, err := initConfigAndLogger()
	if err != nil {
		log.Fatalf("failed to initialize config and logger: %v", err)
	}

	db, err := initDatabase(cfg, lg)
	if err != nil {
		lg.Sugar().Fatalw("failed to initialize database", "err", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			lg.Sugar().Errorw("failed to close database connection", "err", err)
		}
	}()

	deps, err := initDependencies(cfg, db, lg)
	if err != nil {
		lg.Sugar().Fatalw("failed to initialize dependencies", "err", err)
	}
	defer func() {
		if err := deps.Publisher.Close(); err != nil {
			lg.Sugar().Errorw("failed to close event publisher", "err", err)
		}
	}()

	handler := setupRoutes(cfg, deps, lg)
	startServer(cfg, handler, lg)
}
