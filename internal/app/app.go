package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smart_classroom_backend/internal/config"
	"smart_classroom_backend/internal/controller"
	"smart_classroom_backend/internal/repository"
	"smart_classroom_backend/internal/service"
	"smart_classroom_backend/pkg/database"
	"smart_classroom_backend/pkg/logger"
	"smart_classroom_backend/pkg/monitoring"
	"smart_classroom_backend/pkg/security"
	"smart_classroom_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	services *services
}

type repositories struct {
	user       *repository.UserRepository
	class      *repository.ClassRepository
	enrollment *repository.EnrollmentRepository
	quiz       *repository.QuizRepository
	chat       *repository.ChatRepository
	note       *repository.NoteRepository
	material   *repository.MaterialRepository
}

type services struct {
	auth       *service.AuthService
	class      *service.ClassService
	enrollment *service.EnrollmentService
	quiz       *service.QuizService
	group      *service.GroupService
	chat       *service.ChatService
	note       *service.NoteService
	ai         *service.AIService
	analytics  *service.AnalyticsService
	storage    *service.StorageService
	material   *service.MaterialService
	hub        *service.ClassroomHub
	gateway    *service.ClassroomGateway
}

type controllers struct {
	auth       *controller.AuthController
	class      *controller.ClassController
	enrollment *controller.EnrollmentController
	quiz       *controller.QuizController
	group      *controller.GroupController
	chat       *controller.ChatController
	ai         *controller.AIController
	analytics  *controller.AnalyticsController
	material   *controller.MaterialController
	note       *controller.NoteController
	health     *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		class:      repository.NewClassRepository(db),
		enrollment: repository.NewEnrollmentRepository(db),
		quiz:       repository.NewQuizRepository(db),
		chat:       repository.NewChatRepository(db),
		note:       repository.NewNoteRepository(db),
		material:   repository.NewMaterialRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.class = service.NewClassService(repos.class, repos.enrollment, repos.quiz, repos.material)
	s.enrollment = service.NewEnrollmentService(repos.class, repos.enrollment)
	s.quiz = service.NewQuizService(db, repos.quiz, repos.class, repos.enrollment)
	s.group = service.NewGroupService(repos.class, repos.enrollment)
	s.chat = service.NewChatService(repos.chat, repos.class, repos.enrollment, repos.user)
	s.note = service.NewNoteService(repos.note)
	s.ai = service.NewAIService(cfg.AI)
	s.analytics = service.NewAnalyticsService(repos.class, repos.enrollment)
	s.material = service.NewMaterialService(repos.material, repos.class, s.storage)

	s.hub = service.NewClassroomHub(rdb)
	go s.hub.Run()

	s.gateway = service.NewClassroomGateway(s.hub, repos.class, s.class, s.enrollment, s.group, s.chat, s.note)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth),
		class:      controller.NewClassController(s.class),
		enrollment: controller.NewEnrollmentController(s.enrollment),
		quiz:       controller.NewQuizController(s.quiz),
		group:      controller.NewGroupController(s.group),
		chat:       controller.NewChatController(s.chat, s.hub, s.gateway),
		ai:         controller.NewAIController(s.ai, s.chat),
		analytics:  controller.NewAnalyticsController(s.analytics),
		material:   controller.NewMaterialController(s.material),
		note:       controller.NewNoteController(s.note),
		health:     controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 10000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(cfg)
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
	app.services = services
	controllers := app.initControllers(services, db)

	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("live-classroom", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// 先断开所有课堂连接再关 HTTP
	if a.services != nil && a.services.hub != nil {
		a.services.hub.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
