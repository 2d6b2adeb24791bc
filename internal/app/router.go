package app

import (
	"smart_classroom_backend/docs"
	"smart_classroom_backend/internal/config"
	"smart_classroom_backend/internal/middleware"
	"smart_classroom_backend/internal/model"
	"smart_classroom_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由
	public := router.Group("/api")
	{
		public.GET("/health", c.health.Check)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// 需要登录的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/profile", c.auth.Profile)

		// 实时通道，令牌走 ?token=
		authGroup.GET("/classroom/ws", c.chat.HandleWS)

		// 选课
		authGroup.POST("/enrollments", middleware.RoleMiddleware(model.Student), c.enrollment.Enroll)
		authGroup.GET("/enrollments", c.enrollment.MyClasses)
		authGroup.GET("/enrollments/:classId", middleware.RoleMiddleware(model.Teacher), c.enrollment.Roster)

		// 测验
		authGroup.GET("/classes/:classId/quiz", c.quiz.Get)
		authGroup.POST("/quizzes/submit", middleware.RoleMiddleware(model.Student), c.quiz.Submit)

		// 分组、课件与小组笔记（查看对全体成员开放）
		authGroup.GET("/classes/:classId/groups", c.group.Overview)
		authGroup.GET("/classes/:classId/materials", c.material.List)
		authGroup.GET("/classes/:classId/notes/:groupNumber", c.note.Get)

		// 课堂详情
		authGroup.GET("/classes/:classId", c.class.Detail)

		// 聊天 REST 备用通道
		authGroup.GET("/chat/history", c.chat.History)
		authGroup.POST("/chat/messages", c.chat.Send)
		authGroup.DELETE("/chat/messages/:messageId", c.chat.Delete)

		// AI 助教
		authGroup.POST("/ai/query", c.ai.Query)

		// 教师专属
		teacher := authGroup.Group("/")
		teacher.Use(middleware.RoleMiddleware(model.Teacher))
		{
			teacher.POST("/classes", c.class.Create)
			teacher.GET("/classes", c.class.List)
			teacher.PUT("/classes/:classId", c.class.Update)
			teacher.DELETE("/classes/:classId", c.class.Delete)

			teacher.PUT("/classes/:classId/quiz", c.quiz.Set)
			teacher.GET("/classes/:classId/quiz/answers", c.quiz.GetWithAnswers)
			teacher.DELETE("/classes/:classId/quiz", c.quiz.Delete)

			teacher.PUT("/classes/:classId/groups", c.group.Assign)
			teacher.POST("/classes/:classId/groups/auto", c.group.AutoAssign)

			teacher.POST("/classes/:classId/materials", c.material.Upload)
			teacher.DELETE("/materials/:id", c.material.Delete)

			teacher.GET("/classes/:classId/analytics", c.analytics.Report)
		}
	}
}
