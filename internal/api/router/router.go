package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"task-tracker/internal/api/handler"
	"task-tracker/internal/api/middleware"
	"task-tracker/internal/pkg/config"
	"task-tracker/internal/pkg/jwt"
	"task-tracker/internal/repository"
	"task-tracker/internal/service"
)

// Setup 设置路由
func Setup(cfg *config.Config, db *gorm.DB) *gin.Engine {
	// 设置Gin模式
	switch cfg.Server.Mode {
	case gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.Server.Mode)
	}

	r := gin.New()

	// 全局中间件
	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.CORSMiddleware(cfg.Server.CORSOrigins))

	// Swagger API 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	store := repository.NewStore(db)
	issuer := jwt.NewIssuer(&cfg.Auth.JWT)
	authz := service.NewAuthorizationService()

	// 初始化Service
	ldapService := service.NewLDAPService(&cfg.Auth.LDAP)
	authService := service.NewAuthService(&cfg.Auth, store, issuer, ldapService)
	userService := service.NewUserService(store)
	projectService := service.NewProjectService(store, authz)
	memberService := service.NewProjectMemberService(store, authz)
	taskService := service.NewTaskService(store, authz)
	commentService := service.NewCommentService(store, authz)
	systemService := service.NewSystemService(&cfg.Server, store)

	// 初始化Handler
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	projectHandler := handler.NewProjectHandler(projectService)
	memberHandler := handler.NewProjectMemberHandler(memberService)
	taskHandler := handler.NewTaskHandler(taskService)
	commentHandler := handler.NewCommentHandler(commentService)
	systemHandler := handler.NewSystemHandler(systemService)

	api := r.Group("/api")
	{
		// 无需token
		api.GET("/health", systemHandler.Health)
		api.GET("/enums", systemHandler.Enums)
		api.POST("/init-db", systemHandler.InitDB)

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
		}

		api.GET("/users", userHandler.List)
		api.GET("/users/:id", userHandler.GetByID)

		// 需要认证的路由
		authed := api.Group("")
		authed.Use(middleware.AuthMiddleware(issuer))
		{
			authed.GET("/auth/me", authHandler.GetMe)

			// 项目管理
			projects := authed.Group("/projects")
			{
				projects.GET("", projectHandler.List)
				projects.POST("", projectHandler.Create)
				projects.GET("/:id", projectHandler.GetByID)
				projects.PUT("/:id", projectHandler.Update)
				projects.DELETE("/:id", projectHandler.Delete)
				projects.POST("/:id/transfer", projectHandler.Transfer)

				// 项目成员
				projects.GET("/:id/members", memberHandler.List)
				projects.POST("/:id/members", memberHandler.Add)
				projects.DELETE("/:id/members/:uid", memberHandler.Remove)
			}

			// 任务管理
			tasks := authed.Group("/tasks")
			{
				tasks.GET("", taskHandler.List)
				tasks.POST("", taskHandler.Create)
				tasks.GET("/:id", taskHandler.GetByID)
				tasks.PUT("/:id", taskHandler.Update)
				tasks.DELETE("/:id", taskHandler.Delete)
				tasks.POST("/:id/assignees", taskHandler.Assign)

				// 任务评论
				tasks.GET("/:id/comments", commentHandler.List)
				tasks.POST("/:id/comments", commentHandler.Create)
			}

			comments := authed.Group("/comments")
			{
				comments.PUT("/:id", commentHandler.Update)
				comments.DELETE("/:id", commentHandler.Delete)
			}
		}
	}

	return r
}
