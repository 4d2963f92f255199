package app

import (
	"math_practice_backend/docs"
	"math_practice_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")
	{
		api.GET("/health", c.health.HealthCheck)

		// 用户
		api.POST("/users", c.user.CreateUser)
		api.GET("/users/:id", c.user.GetUser)
		api.PATCH("/users/:id", c.user.UpdateUser)
		api.GET("/users/:id/validate", c.user.ValidateUser)

		// 专题
		api.GET("/topics", c.topic.ListTopics)

		// 练习会话
		api.POST("/sessions", c.session.CreateSession)
		api.POST("/sessions/:id/answer", c.session.SubmitAnswer)
		api.POST("/sessions/:id/complete", c.session.CompleteSession)
		api.POST("/sessions/:id/abandon", c.session.AbandonSession)

		// 仪表盘
		api.GET("/dashboard/:userId/stats", c.dashboard.GetStats)
		api.GET("/dashboard/:userId/topics", c.dashboard.GetTopics)

		// 题库维护
		admin := api.Group("/admin")
		{
			admin.POST("/topics", c.content.CreateTopic)
			admin.POST("/questions", c.content.CreateQuestion)
			admin.POST("/questions/:id/image", c.content.UploadQuestionImage)
		}
	}
}
