package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/registrar/internal/app/controllers"
	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/middleware"
	"github.com/yigit/registrar/internal/pkg/websocket"
)

// Controllers groups the HTTP handlers mounted by SetupRouter
type Controllers struct {
	Auth    *controllers.AuthController
	Subject *controllers.SubjectController
	Student *controllers.StudentController
	Admin   *controllers.AdminController
	Events  *websocket.Handler
	AuthMW  *middleware.AuthMiddleware
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers) {
	middleware.RegisterBindingRules()

	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/ping", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", c.Auth.Login)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(c.AuthMW.JWTAuth())
	{
		authenticated.POST("/auth/logout", c.Auth.Logout)
		authenticated.GET("/auth/session", c.Auth.Session)

		subjects := authenticated.Group("/subjects")
		{
			subjects.GET("", c.Subject.GetAllSubjects)
			subjects.GET("/:id", c.Subject.GetSubjectDetails)
		}

		// Student-scoped routes resolve the student from the session
		me := authenticated.Group("/students/me")
		me.Use(c.AuthMW.StudentRequired())
		{
			me.GET("/available-subjects", c.Student.GetAvailableSubjects)
			me.GET("/profile", c.Student.GetProfile)
			me.GET("/eligibility/:subjectId", c.Student.CheckEligibility)
			me.POST("/registrations", c.Student.RegisterSubject)
		}

		admin := authenticated.Group("/admin")
		admin.Use(c.AuthMW.RoleRequired(models.RoleAdmin))
		{
			admin.POST("/grades", c.Admin.AddGrade)
			admin.POST("/students", c.Admin.CreateStudent)
			admin.POST("/subjects", c.Admin.CreateSubject)
		}

		if c.Events != nil {
			authenticated.GET("/events/ws", c.Events.HandleConnection)
		}
	}
}
