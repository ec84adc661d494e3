package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"secaware_backend/internal/config"
	"secaware_backend/internal/controller"
	"secaware_backend/internal/repository"
	"secaware_backend/internal/service"
	"secaware_backend/pkg/configwatcher"
	"secaware_backend/pkg/database"
	"secaware_backend/pkg/logger"
	"secaware_backend/pkg/monitoring"
	"secaware_backend/pkg/security"
	"secaware_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user     *repository.UserRepository
	jobRole  *repository.JobRoleRepository
	quiz     *repository.QuizRepository
	attempt  *repository.AttemptRepository
	learning *repository.LearningRepository
	contact  *repository.ContactRepository
}

type services struct {
	auth      *service.AuthService
	user      *service.UserService
	jobRole   *service.JobRoleService
	quiz      *service.QuizService
	attempt   *service.AttemptService
	dashboard *service.DashboardService
	learning  *service.LearningService
	contact   *service.ContactService
}

type controllers struct {
	auth      *controller.AuthController
	user      *controller.UserController
	jobRole   *controller.JobRoleController
	quiz      *controller.QuizController
	attempt   *controller.AttemptController
	dashboard *controller.DashboardController
	learning  *controller.LearningController
	contact   *controller.ContactController
	health    *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:     repository.NewUserRepository(db),
		jobRole:  repository.NewJobRoleRepository(db),
		quiz:     repository.NewQuizRepository(db),
		attempt:  repository.NewAttemptRepository(db),
		learning: repository.NewLearningRepository(db),
		contact:  repository.NewContactRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user)
	s.jobRole = service.NewJobRoleService(repos.jobRole)
	s.quiz = service.NewQuizService(repos.quiz, db, rdb)
	s.attempt = service.NewAttemptService(repos.attempt, repos.quiz, repos.user, db)
	s.dashboard = service.NewDashboardService(repos.user, repos.quiz, repos.attempt, repos.learning, repos.jobRole)
	s.learning = service.NewLearningService(repos.learning, db)
	s.contact = service.NewContactService(repos.contact)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:      controller.NewAuthController(s.auth, s.user),
		user:      controller.NewUserController(s.user),
		jobRole:   controller.NewJobRoleController(s.jobRole),
		quiz:      controller.NewQuizController(s.quiz),
		attempt:   controller.NewAttemptController(s.attempt),
		dashboard: controller.NewDashboardController(s.dashboard),
		learning:  controller.NewLearningController(s.learning),
		contact:   controller.NewContactController(s.contact),
		health:    controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, rdb)
	controllers := app.initControllers(services, db)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("secaware-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	// 配置热加载，变更时回放注册的回调
	go configwatcher.WatchConfig("configs/config.yaml", func(newCfg *config.Config) {
		app.Config = newCfg
		for _, cb := range app.configCallbacks {
			cb(newCfg)
		}
	})

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
