package app

import (
	"secaware_backend/docs"
	"secaware_backend/internal/config"
	"secaware_backend/internal/middleware"
	"secaware_backend/internal/model"
	"secaware_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerUserRoutes(authGroup, c)
	}

	// 3. 管理员相关接口
	a.registerAdminRoutes(router, c, repos, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
		public.POST("/contact", c.contact.Submit)
	}
}

func (a *App) registerUserRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)
	rg.GET("/dashboard", c.dashboard.GetUserDashboard)
	rg.GET("/leaderboard", c.dashboard.GetLeaderboard)
	rg.GET("/job-roles", c.jobRole.List)

	// 测验
	rg.GET("/quizzes", c.quiz.ListPublic)
	rg.GET("/quizzes/:id", c.quiz.GetForTaking)
	rg.GET("/quizzes/:id/attempt", c.attempt.GetEligibility)
	rg.POST("/quizzes/:id/attempt", c.attempt.Submit)
	rg.POST("/quizzes/:id/mark-as-done", c.attempt.MarkAsDone)

	// 学习资料
	rg.GET("/learnings", c.learning.ListPublic)
	rg.GET("/learnings/:id", c.learning.Get)
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user), middleware.RoleMiddleware(model.RoleAdmin))
	{
		admin.GET("/dashboard", c.dashboard.GetAdminDashboard)

		// 测验管理
		admin.GET("/quizzes", c.quiz.ListAll)
		admin.POST("/quizzes", c.quiz.Create)
		admin.GET("/quizzes/:id", c.quiz.GetFull)
		admin.PUT("/quizzes/:id", c.quiz.Update)
		admin.PATCH("/quizzes/:id/visibility", c.quiz.UpdateVisibility)
		admin.DELETE("/quizzes/:id", c.quiz.Delete)

		// 学习资料管理
		admin.GET("/learnings", c.learning.ListAll)
		admin.POST("/learnings", c.learning.Create)
		admin.PUT("/learnings/:id", c.learning.Update)
		admin.PATCH("/learnings/:id/visibility", c.learning.UpdateVisibility)
		admin.DELETE("/learnings/:id", c.learning.Delete)

		// 岗位标签管理
		admin.POST("/job-roles", c.jobRole.Create)
		admin.PUT("/job-roles/:id", c.jobRole.Update)
		admin.DELETE("/job-roles/:id", c.jobRole.Delete)

		// 用户管理
		admin.GET("/users", c.user.ListUsers)
		admin.PATCH("/users/:id/role", c.user.UpdateRole)
		admin.DELETE("/users/:id", c.user.DeleteUser)

		// 联系表单
		admin.GET("/contact-submissions", c.contact.List)
	}
}
