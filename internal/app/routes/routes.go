package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/pblab/pblab/internal/app/controllers"
	"github.com/pblab/pblab/internal/app/models"
	"github.com/pblab/pblab/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	objectiveController *controllers.ObjectiveController,
	artifactController *controllers.ArtifactController,
	assessmentController *controllers.AssessmentController,
	authMiddleware *middleware.AuthMiddleware,
) {
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
		auth.POST("/logout", authController.Logout)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/auth/profile", authController.GetProfile)

		objectives := authenticated.Group("/objectives")
		{
			objectives.POST("", objectiveController.Create)
			objectives.GET("", objectiveController.List)
			objectives.GET("/minimum-check", objectiveController.CheckMinimum)
			objectives.PATCH("/:id", objectiveController.Update)
			objectives.PATCH("/:id/status", objectiveController.UpdateStatus)
			objectives.DELETE("/:id", objectiveController.Delete)

			// Evidence artifacts nest under their objective
			objectives.POST("/:id/artifacts", artifactController.Create)
			objectives.GET("/:id/artifacts", artifactController.ListByObjective)
		}

		artifacts := authenticated.Group("/artifacts")
		{
			artifacts.GET("/portfolio-count", artifactController.PortfolioCount)
			artifacts.DELETE("/:id", artifactController.Delete)
		}

		assessments := authenticated.Group("/assessments")
		{
			assessments.POST("", assessmentController.Create)
			assessments.GET("", assessmentController.List)
			assessments.GET("/:id", assessmentController.Get)
			assessments.DELETE("/:id", assessmentController.Delete)

			// Review is an educator grant; admins pass the same guard
			review := assessments.Group("")
			review.Use(authMiddleware.RoleRequired(string(models.RoleEducator), string(models.RoleAdmin)))
			{
				review.POST("/:id/feedback", assessmentController.AttachFeedback)
			}
		}
	}
}
