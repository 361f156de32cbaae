package app

import (
	"bench_survey_backend/internal/config"
	"bench_survey_backend/internal/middleware"
	"bench_survey_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c)
	a.registerAdminRoutes(router, c, cfg)
	a.registerBenchRoutes(router, c, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api/v1")
	{
		public.GET("/health", c.health.Check)
		public.POST("/admin/signup", c.auth.Register)
		public.POST("/admin/signin", c.auth.Login)
	}
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	admin := router.Group("/api/v1/admin")
	admin.Use(middleware.AdminAuthMiddleware(cfg))
	{
		admin.GET("/account/secret", c.account.GetSecret)
		admin.POST("/account/secret", c.account.RotateSecret)

		admin.POST("/campaigns", c.campaign.Create)
		admin.GET("/campaigns", c.campaign.List)
		admin.DELETE("/campaigns/:id", c.campaign.Delete)
		admin.GET("/campaigns/:id/results", c.campaign.Results)
		admin.GET("/campaigns/:id/results/export", c.campaign.Export)
	}
}

func (a *App) registerBenchRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	bench := router.Group("/api/v1/bench")
	{
		bench.POST("/register", c.bench.Register)

		authorized := bench.Group("/")
		authorized.Use(middleware.SurveyAuthMiddleware(cfg))
		{
			authorized.GET("/:campaign_id/config", c.bench.Config)
			authorized.POST("/:campaign_id/submit", c.bench.Submit)
		}
	}
}
