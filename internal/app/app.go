package app

import (
	"bench_survey_backend/internal/config"
	"bench_survey_backend/internal/controller"
	"bench_survey_backend/internal/repository"
	"bench_survey_backend/internal/service"
	"bench_survey_backend/pkg/database"
	"bench_survey_backend/pkg/logger"
	"bench_survey_backend/pkg/monitoring"
	"bench_survey_backend/pkg/security"
	"bench_survey_backend/pkg/tracing"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client

	stopArchiver  context.CancelFunc
	archiverDone  sync.WaitGroup
	tracerShutter *sdktrace.TracerProvider
}

type repositories struct {
	admin      *repository.AdminRepository
	campaign   *repository.CampaignRepository
	surveyUser *repository.SurveyUserRepository
	response   *repository.ResponseRepository
}

type services struct {
	auth     *service.AuthService
	campaign *service.CampaignService
	bench    *service.BenchService
	archive  *service.ArchiveService
}

type controllers struct {
	auth     *controller.AuthController
	account  *controller.AccountController
	campaign *controller.CampaignController
	bench    *controller.BenchController
	health   *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		admin:      repository.NewAdminRepository(db),
		campaign:   repository.NewCampaignRepository(db),
		surveyUser: repository.NewSurveyUserRepository(db),
		response:   repository.NewResponseRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	var cache service.ConfigCache
	if rdb != nil {
		cache = service.NewRedisConfigCache(rdb)
	}

	s.auth = service.NewAuthService(repos.admin, cfg)
	s.campaign = service.NewCampaignService(repos.campaign, repos.response, cache)
	s.bench = service.NewBenchService(repos.surveyUser, repos.campaign, repos.response, cache, cfg)

	var store service.ObjectStore
	if cfg.Storage.Type == "minio" {
		minioStore, err := service.NewMinioStore(&cfg.Storage)
		if err != nil {
			logger.Log.Fatal("Failed to initialize minio store", zap.Error(err))
		}
		store = minioStore
	}
	s.archive = service.NewArchiveService(repos.campaign, repos.response, &cfg.Publish, store)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:     controller.NewAuthController(s.auth),
		account:  controller.NewAccountController(s.auth),
		campaign: controller.NewCampaignController(s.campaign),
		bench:    controller.NewBenchController(s.bench),
		health:   controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 100000
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

// startArchiver runs the periodic campaign publisher until Run tears the
// app down. The in-flight pass always completes before the goroutine exits.
func (a *App) startArchiver(s *services) {
	ctx, cancel := context.WithCancel(context.Background())
	a.stopArchiver = cancel

	a.archiverDone.Add(1)
	go func() {
		defer a.archiverDone.Done()
		s.archive.Run(ctx)
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	var rdb *redis.Client
	if cfg.Redis.Host != "" {
		rdb, err = database.InitRedis(&cfg.Redis)
		if err != nil {
			logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
			log.Fatalf("Failed to initialize redis: %v", err)
		}
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	controllers := app.initControllers(services, db)

	monitoring.Init()

	gin.SetMode(ginMode(cfg.Server.Mode))
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("bench-survey", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracerShutter = tp
	}

	app.registerRoutes(router, controllers, cfg)

	app.startArchiver(services)

	return app
}

func ginMode(mode string) string {
	switch mode {
	case "release":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Stop the archiver first and wait for any in-flight pass to finish.
	if a.stopArchiver != nil {
		a.stopArchiver()
		a.archiverDone.Wait()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	if a.tracerShutter != nil {
		if err := a.tracerShutter.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}

	logger.Log.Sync()
	log.Println("Server exiting")
}
