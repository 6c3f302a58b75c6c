package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CMP-2025/course-activity-service/internal/models"
	"github.com/CMP-2025/course-activity-service/internal/services"
)

type HandlerManager struct {
	authHandler         *AuthHandler
	userHandler         *UserHandler
	catalogHandler      *CatalogHandler
	offeringHandler     *OfferingHandler
	activityHandler     *ActivityHandler
	notificationHandler *NotificationHandler
	fullRecordHandler   *FullRecordHandler
	authMiddleware      *AuthMiddleware
	serviceManager      services.ServiceManager
	logger              *slog.Logger
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger *slog.Logger,
	bootstrapToken string,
) *HandlerManager {
	authMiddleware := NewAuthMiddleware(serviceManager.Auth(), logger, bootstrapToken)

	return &HandlerManager{
		authHandler:         NewAuthHandler(serviceManager.Auth(), serviceManager.User(), logger),
		userHandler:         NewUserHandler(serviceManager.User(), logger),
		catalogHandler:      NewCatalogHandler(serviceManager.Catalog(), logger),
		offeringHandler:     NewOfferingHandler(serviceManager.Offering(), serviceManager.Export(), logger),
		activityHandler:     NewActivityHandler(serviceManager.Activity(), logger),
		notificationHandler: NewNotificationHandler(serviceManager.Notification(), logger),
		fullRecordHandler:   NewFullRecordHandler(serviceManager.FullRecord(), logger),
		authMiddleware:      authMiddleware,
		serviceManager:      serviceManager,
		logger:              logger,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.healthCheck)

	// Public authentication routes
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/register", hm.authHandler.Register)
		auth.POST("/login", hm.authHandler.Login)
		auth.GET("/me", hm.authMiddleware.RequireAuth(), hm.authHandler.Me)
	}

	// Composite creation accepts the bootstrap token or a manager token.
	router.POST("/api/v1/full-records",
		hm.authMiddleware.AllowBootstrap(),
		hm.fullRecordHandler.CreateFullRecord)

	managerOnly := hm.authMiddleware.RequireRole(models.RoleManager)

	v1 := router.Group("/api/v1")
	v1.Use(hm.authMiddleware.RequireAuth())
	{
		// User routes
		users := v1.Group("/users")
		{
			users.GET("", managerOnly, hm.userHandler.ListUsers)
			users.GET("/facilitators", managerOnly, hm.userHandler.ListFacilitators)
			users.GET("/:id", hm.userHandler.GetUser)
			users.PUT("/:id", hm.userHandler.UpdateUser)
			users.DELETE("/:id", managerOnly, hm.userHandler.DeleteUser)
		}

		// Catalog routes - writes are manager-only, reads open to all roles
		cohorts := v1.Group("/cohorts")
		{
			cohorts.POST("", managerOnly, hm.catalogHandler.CreateCohort)
			cohorts.GET("", hm.catalogHandler.ListCohorts)
			cohorts.GET("/:id", hm.catalogHandler.GetCohort)
			cohorts.PUT("/:id", managerOnly, hm.catalogHandler.UpdateCohort)
			cohorts.DELETE("/:id", managerOnly, hm.catalogHandler.DeleteCohort)
		}

		classes := v1.Group("/classes")
		{
			classes.POST("", managerOnly, hm.catalogHandler.CreateClass)
			classes.GET("", hm.catalogHandler.ListClasses)
			classes.GET("/:id", hm.catalogHandler.GetClass)
			classes.PUT("/:id", managerOnly, hm.catalogHandler.UpdateClass)
			classes.DELETE("/:id", managerOnly, hm.catalogHandler.DeleteClass)
		}

		modules := v1.Group("/modules")
		{
			modules.POST("", managerOnly, hm.catalogHandler.CreateModule)
			modules.GET("", hm.catalogHandler.ListModules)
			modules.GET("/:id", hm.catalogHandler.GetModule)
			modules.PUT("/:id", managerOnly, hm.catalogHandler.UpdateModule)
			modules.DELETE("/:id", managerOnly, hm.catalogHandler.DeleteModule)
		}

		modes := v1.Group("/modes")
		{
			modes.POST("", managerOnly, hm.catalogHandler.CreateMode)
			modes.GET("", hm.catalogHandler.ListModes)
			modes.DELETE("/:id", managerOnly, hm.catalogHandler.DeleteMode)
		}

		// Course offering routes - the service layer narrows visibility
		// per role, so reads stay open here
		offerings := v1.Group("/offerings")
		{
			offerings.POST("", hm.authMiddleware.RequireRole(models.RoleManager, models.RoleFacilitator), hm.offeringHandler.CreateOffering)
			offerings.GET("", hm.offeringHandler.ListOfferings)
			offerings.GET("/:id", hm.offeringHandler.GetOffering)
			offerings.GET("/:id/export", hm.authMiddleware.RequireRole(models.RoleManager, models.RoleFacilitator), hm.offeringHandler.ExportActivities)
			offerings.PUT("/:id", hm.authMiddleware.RequireRole(models.RoleManager, models.RoleFacilitator), hm.offeringHandler.UpdateOffering)
			offerings.DELETE("/:id", managerOnly, hm.offeringHandler.DeleteOffering)
		}

		// Activity tracker routes - POST and PUT share the upsert path
		activities := v1.Group("/activities")
		{
			activities.POST("", hm.authMiddleware.RequireRole(models.RoleManager, models.RoleFacilitator), hm.activityHandler.UpsertActivity)
			activities.PUT("", hm.authMiddleware.RequireRole(models.RoleManager, models.RoleFacilitator), hm.activityHandler.UpsertActivity)
			activities.GET("", hm.activityHandler.ListActivities)
			activities.GET("/:id", hm.activityHandler.GetActivity)
			activities.PUT("/:id", hm.authMiddleware.RequireRole(models.RoleManager, models.RoleFacilitator), hm.activityHandler.UpdateActivity)
			activities.DELETE("/:id", managerOnly, hm.activityHandler.DeleteActivity)
		}

		// Notification routes
		notifications := v1.Group("/notifications")
		{
			notifications.POST("", managerOnly, hm.notificationHandler.CreateNotification)
			notifications.GET("", hm.notificationHandler.ListMyNotifications)
			notifications.PUT("/:id/read", hm.notificationHandler.MarkNotificationRead)
		}
	}
}

func (hm *HandlerManager) healthCheck(c *gin.Context) {
	if err := hm.serviceManager.HealthCheck(c.Request.Context()); err != nil {
		hm.logger.Error("Health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
