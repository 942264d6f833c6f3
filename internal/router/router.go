package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	commonmw "github.com/OrangesCloud/wealist-advanced-go-pkg/middleware"

	"contract-workflow-api/internal/client"
	"contract-workflow-api/internal/domain"
	"contract-workflow-api/internal/handler"
	"contract-workflow-api/internal/metrics"
	"contract-workflow-api/internal/middleware"
	"contract-workflow-api/internal/repository"
	"contract-workflow-api/internal/service"
)

// Config holds router configuration
type Config struct {
	DB              *gorm.DB
	Redis           *redis.Client
	Logger          *zap.Logger
	JWTSecret       string
	TokenTTL        time.Duration
	BasePath        string
	CORSOrigins     []string
	Metrics         *metrics.Metrics
	Relay           client.NotificationClient
	ManagementEmail string
	DashboardTTL    time.Duration
}

// Setup wires repositories, services and handlers and registers every route
func Setup(cfg Config) *gin.Engine {
	r := gin.New()

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(commonmw.Logger(cfg.Logger))
	r.Use(middleware.CORS(origins))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	metricsHandler := gin.WrapH(promhttp.Handler())
	r.GET("/metrics", metricsHandler)

	// Repositories
	contractRepo := repository.NewContractRepository(cfg.DB)
	projectRepo := repository.NewProjectRepository(cfg.DB)
	taskRepo := repository.NewTaskRepository(cfg.DB)
	userRepo := repository.NewUserRepository(cfg.DB)
	notificationRepo := repository.NewNotificationRepository(cfg.DB)

	// Services
	engine := service.NewWorkflowEngine(projectRepo, taskRepo, time.Now, cfg.Logger)
	generator := service.NewTaskGenerator(taskRepo, cfg.Metrics, cfg.Logger)
	dispatcher := service.NewNotificationDispatcher(notificationRepo, userRepo, cfg.Relay, cfg.ManagementEmail, cfg.Metrics, cfg.Logger)

	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL, cfg.Logger)
	userService := service.NewUserService(userRepo, cfg.Logger)
	contractService := service.NewContractService(contractRepo, projectRepo, taskRepo, engine, generator, dispatcher, cfg.Metrics, cfg.Logger)
	projectService := service.NewProjectService(projectRepo, contractRepo, taskRepo, engine, generator, dispatcher, cfg.Metrics, cfg.Logger)
	taskService := service.NewTaskService(taskRepo, projectRepo, engine, dispatcher, cfg.Metrics, cfg.Logger)
	dashboardService := service.NewDashboardService(contractRepo, projectRepo, taskRepo, cfg.Redis, cfg.DashboardTTL, cfg.Logger)
	notificationService := service.NewNotificationService(notificationRepo, cfg.Logger)

	// Handlers
	healthHandler := handler.NewHealthHandler(cfg.DB, cfg.Redis)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	contractHandler := handler.NewContractHandler(contractService)
	projectHandler := handler.NewProjectHandler(projectService)
	taskHandler := handler.NewTaskHandler(taskService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	notificationHandler := handler.NewNotificationHandler(notificationService)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/health", healthHandler.Health)
	r.GET("/ready", healthHandler.Ready)

	api := r.Group(cfg.BasePath)
	if cfg.BasePath != "" && cfg.BasePath != "/" {
		api.GET("/metrics", metricsHandler)
		api.GET("/health", healthHandler.Health)
		api.GET("/ready", healthHandler.Ready)
	}
	api.GET("/catalog", dashboardHandler.GetCatalog)

	auth := middleware.Auth(authService)
	can := func(keys ...string) gin.HandlerFunc {
		return middleware.RequirePermission(userService, keys...)
	}

	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.GET("/me", auth, authHandler.Me)
	}

	protected := api.Group("")
	protected.Use(auth)

	admin := protected.Group("/admin/users", can(domain.PermAdmin))
	{
		admin.GET("", userHandler.ListUsers)
		admin.POST("", userHandler.CreateUser)
		admin.PUT("/:userId", userHandler.UpdateUser)
		admin.DELETE("/:userId", userHandler.DeleteUser)
	}

	contracts := protected.Group("/contracts")
	{
		contracts.POST("", can(domain.PermContractsCreate), contractHandler.CreateContract)
		contracts.GET("", can(domain.PermContractsView), contractHandler.ListContracts)
		contracts.GET("/:contractId", can(domain.PermContractsView), contractHandler.GetContract)
		contracts.PUT("/:contractId", can(domain.PermContractsEdit), contractHandler.UpdateContract)
		contracts.PUT("/:contractId/approve", can(domain.PermContractsApprove), contractHandler.ApproveContract)
		contracts.PUT("/:contractId/finalize", can(domain.PermContractsFinalize), contractHandler.FinalizeContract)
		contracts.DELETE("/:contractId", can(domain.PermContractsDelete), contractHandler.DeleteContract)
	}

	projects := protected.Group("/projects")
	{
		projects.GET("", can(domain.PermProjectsView), projectHandler.ListProjects)
		projects.GET("/pipeline", can(domain.PermProjectsView), projectHandler.GetPipeline)
		projects.GET("/:projectId", can(domain.PermProjectsView), projectHandler.GetProject)
		projects.PUT("/:projectId", can(domain.PermProjectsAdvance), projectHandler.UpdateProject)
		projects.POST("/:projectId/advance", can(domain.PermProjectsAdvance), projectHandler.AdvanceStage)
		projects.POST("/:projectId/finalize", can(domain.PermContractsFinalize), projectHandler.FinalizeProject)
	}

	tasks := protected.Group("/tasks")
	{
		tasks.POST("", can(domain.PermTasksCreate), taskHandler.CreateTask)
		tasks.GET("", can(domain.PermTasksView), taskHandler.ListTasks)
		tasks.GET("/kanban/:projectId", can(domain.PermTasksView), taskHandler.GetKanban)
		tasks.GET("/:taskId", can(domain.PermTasksView), taskHandler.GetTask)
		tasks.PUT("/:taskId", can(domain.PermTasksEdit, domain.PermTasksComplete), taskHandler.UpdateTask)
		tasks.PUT("/:taskId/move", can(domain.PermTasksMove), taskHandler.MoveTask)
		tasks.DELETE("/:taskId", can(domain.PermTasksEdit), taskHandler.DeleteTask)
	}

	protected.GET("/alerts/:projectId", can(domain.PermProjectsView), projectHandler.GetAlerts)

	dashboard := protected.Group("/dashboard", can(domain.PermDashboard))
	{
		dashboard.GET("", dashboardHandler.GetDashboard)
		dashboard.GET("/overdue-tasks", dashboardHandler.GetOverdueTasks)
		dashboard.GET("/due-soon", dashboardHandler.GetDueSoon)
	}

	notifications := protected.Group("/notifications")
	{
		notifications.GET("", notificationHandler.ListNotifications)
		notifications.GET("/unread-count", notificationHandler.UnreadCount)
		notifications.PUT("/read-all", notificationHandler.MarkAllRead)
		notifications.PUT("/:notificationId/read", notificationHandler.MarkRead)
	}

	return r
}
