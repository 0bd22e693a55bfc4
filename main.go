package main

import (
	"context"
	"fmt"
	"gin-itemtracker/controllers"
	"gin-itemtracker/infra"
	"gin-itemtracker/middlewares"
	"gin-itemtracker/repositories"
	"gin-itemtracker/services"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type app struct {
	router      *gin.Engine
	authService services.IAuthService
}

func newApp(db *gorm.DB, cfg *infra.Config, logger *zap.SugaredLogger) *app {
	hasher := services.NewBcryptHasher(cfg.BcryptCost)
	tokenService := services.NewTokenService(cfg.SecretKey, cfg.AccessTokenTTL)

	authRepository := repositories.NewAuthRepository(db)
	authService := services.NewAuthService(authRepository, hasher, tokenService, logger)
	authController := controllers.NewAuthController(authService, logger)

	itemRepository := repositories.NewItemRepository(db)
	itemService := services.NewItemService(itemRepository)
	itemController := controllers.NewItemController(itemService, logger)

	r := gin.New()
	r.Use(middlewares.RequestID())
	r.Use(middlewares.Logging(logger))
	r.Use(gin.Recovery())
	r.Use(cors.New(corsConfig(cfg)))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authRouter := r.Group("/auth")
	authRouter.POST("/register", authController.Register)
	authRouter.POST("/login", authController.Login)
	authRouter.GET("/me", middlewares.AuthMiddleware(authService), authController.Me)

	itemRouterWithAuth := r.Group("/items", middlewares.AuthMiddleware(authService))
	itemRouterWithAdminAuth := r.Group("/items", middlewares.AuthMiddleware(authService), middlewares.RequireAdmin(logger))

	itemRouterWithAuth.GET("", itemController.FindMine)
	itemRouterWithAdminAuth.GET("/all", itemController.FindAll)
	itemRouterWithAuth.GET("/:id", itemController.FindById)
	itemRouterWithAuth.POST("", itemController.Create)
	itemRouterWithAuth.PUT("/:id", itemController.Update)
	itemRouterWithAuth.DELETE("/:id", itemController.Delete)

	return &app{router: r, authService: authService}
}

func corsConfig(cfg *infra.Config) cors.Config {
	config := cors.DefaultConfig()
	config.AllowHeaders = append(config.AllowHeaders, "Authorization", middlewares.RequestIDHeader)
	config.ExposeHeaders = []string{middlewares.RequestIDHeader}
	if len(cfg.CORSAllowOrigins) == 0 {
		config.AllowAllOrigins = true
		return config
	}
	config.AllowOrigins = cfg.CORSAllowOrigins
	config.AllowCredentials = true
	return config
}

// bootstrap はDB接続・マイグレーション・初期管理者作成を行う
func bootstrap(ctx context.Context, cfg *infra.Config, logger *zap.SugaredLogger) (*app, error) {
	db, err := infra.SetupDB(cfg, logger)
	if err != nil {
		return nil, err
	}

	if cfg.AutoMigrate {
		if err := infra.Migrate(db); err != nil {
			return nil, err
		}
	}

	a := newApp(db, cfg, logger)

	if cfg.SeedAdmin {
		if _, err := a.authService.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			return nil, fmt.Errorf("seed admin: %w", err)
		}
	}
	return a, nil
}

func newServer(port string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func main() {
	logger, err := infra.NewLogger(os.Getenv("ENV"))
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	infra.Initialize(logger)

	cfg, err := infra.NewConfig()
	if err != nil {
		logger.Fatalw("invalid configuration", "error", err)
	}
	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}

	if os.Getenv("AWS_LAMBDA_RUNTIME_API") != "" {
		runLambda(cfg, logger)
		return
	}

	a, err := bootstrap(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatalw("failed to initialize application", "error", err)
	}

	srv := newServer(cfg.Port, a.router)

	go func() {
		logger.Infow("Starting server", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalw("Failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Infow("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatalw("Server forced to shutdown", "error", err)
	}
	logger.Infow("Server exited")
}

// runLambda はポートを先に開き、DB初期化をバックグラウンドで行う。
// 初期化が終わるまでのリクエストは最大10秒待たせる
func runLambda(cfg *infra.Config, logger *zap.SugaredLogger) {
	logger.Infow("Lambda environment detected, initializing database asynchronously...")

	var (
		ready     = make(chan struct{})
		initOnce  sync.Once
		actualApp *app
	)

	r := newLambdaRouter(ready, func() *app { return actualApp }, logger)

	srv := newServer(cfg.Port, r)
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		logger.Fatalw("Failed to listen", "port", cfg.Port, "error", err)
	}

	go func() {
		initOnce.Do(func() {
			defer close(ready)
			a, err := bootstrap(context.Background(), cfg, logger)
			if err != nil {
				logger.Errorw("failed to initialize application", "error", err)
				return
			}
			actualApp = a
			logger.Infow("Database connection established")
		})
	}()

	logger.Infow("Starting server (Lambda environment)", "port", cfg.Port)
	if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
		logger.Fatalw("Failed to start server", "error", err)
	}
}

// newLambdaRouter は初期化待ちの前段ルーター。
// リクエストIDとアクセスログは転送先のルーターに任せる
func newLambdaRouter(ready <-chan struct{}, current func() *app, logger *zap.SugaredLogger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.NoRoute(func(c *gin.Context) {
		select {
		case <-ready:
			a := current()
			if a == nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service unavailable"})
				return
			}
			a.router.ServeHTTP(c.Writer, c.Request)
		case <-time.After(10 * time.Second):
			logger.Warnw("Database connection timeout")
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Database connection timeout"})
		}
	})
	return r
}
