package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unionhq/union/internal/app/controllers"
	"github.com/unionhq/union/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	admissionController *controllers.AdmissionController,
	sessionMiddleware *middleware.SessionMiddleware,
) {
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/home")
	})

	// --- Public routes ---
	router.GET("/home", authController.Home)
	router.GET("/signup", authController.ShowSignUp)
	router.POST("/signup", authController.SignUp)
	router.GET("/signin", authController.ShowSignIn)
	router.POST("/signin", authController.SignIn)
	router.GET("/forgot-password", authController.ShowForgotPassword)
	router.POST("/forgot-password", authController.ForgotPassword)
	router.GET("/reset-password/:token", authController.ShowResetPassword)
	router.POST("/reset-password/:token", authController.ResetPassword)
	router.GET("/signout", authController.SignOut)

	// --- Session-guarded admission workflow ---
	admission := router.Group("")
	admission.Use(sessionMiddleware.RequireSession())
	{
		admission.GET("/admission-form", admissionController.ShowForm)
		admission.POST("/admission-form", admissionController.Submit)
		admission.GET("/submission-data", admissionController.ViewSubmission)
	}
}
