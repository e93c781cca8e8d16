package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pettrack-backend-go/internal/core"
)

// SetupRoutes registers all application routes on the given engine.
func SetupRoutes(
	router *gin.Engine,
	logger *zap.Logger,
	userService core.UserService,
	petService core.PetService,
	lifecycleService core.LifecycleService,
) {
	userHandler := NewUserHandler(userService, logger)
	petHandler := NewPetHandler(petService, logger)
	triggerHandler := NewTriggerHandler(lifecycleService, logger)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "OK",
			"message":   "PetTrack backend is running",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	apiGroup := router.Group("/api")
	{
		users := apiGroup.Group("/users")
		{
			users.POST("/register", userHandler.Register)
			users.POST("/login", userHandler.Login)
			users.POST("/login-phone", userHandler.LoginWithPhone)
			users.POST("/google-auth", userHandler.GoogleAuth)
			users.GET("", userHandler.List)
			users.GET("/:id", userHandler.GetByID)
			users.PUT("/:id", userHandler.Update)
			users.DELETE("/:id", userHandler.Delete)
			users.POST("/:id/verify", userHandler.Verify)
			users.POST("/:id/update-notifications", userHandler.UpdateNotifications)
		}

		pets := apiGroup.Group("/pets")
		{
			pets.POST("", petHandler.Create)
			pets.GET("", petHandler.List)
			pets.GET("/:id", petHandler.GetByID)
			pets.PUT("/:id", petHandler.Update)
			pets.DELETE("/:id", petHandler.Delete)
			pets.GET("/owner/:ownerId", petHandler.ListByOwner)
			pets.POST("/:id/upload-photos", petHandler.UploadPhotos)
			pets.POST("/:id/mark-lost", petHandler.MarkLost)
			pets.POST("/:id/mark-found", petHandler.MarkFound)
		}
	}

	triggers := router.Group("/triggers")
	{
		triggers.POST("/auth/user-created", triggerHandler.AuthUserCreated)
		triggers.POST("/auth/delete-account", triggerHandler.DeleteAccount)
		triggers.POST("/storage/object-finalized", triggerHandler.StorageObjectFinalized)
	}
}
