package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/placement-cell/placement-api/internal/handler"
	"github.com/placement-cell/placement-api/internal/middleware"
	"github.com/placement-cell/placement-api/internal/models"
	"github.com/placement-cell/placement-api/internal/service"
	"github.com/placement-cell/placement-api/pkg/config"
	"github.com/placement-cell/placement-api/pkg/logger"
	corsmiddleware "github.com/placement-cell/placement-api/pkg/middleware/cors"
	reqidmiddleware "github.com/placement-cell/placement-api/pkg/middleware/requestid"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth      *handler.AuthHandler
	Students  *handler.StudentHandler
	Staff     *handler.StaffHandler
	Companies *handler.CompanyHandler
	Feedbacks *handler.FeedbackHandler
	Admin     *handler.AdminHandler
	Exports   *handler.ExportHandler
	Metrics   *handler.MetricsHandler
}

// New assembles the gin engine with the full route table.
func New(cfg *config.Config, logr *zap.Logger, auth *service.AuthService, metrics *service.MetricsService, h Handlers) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", h.Metrics.Health)
	r.GET("/metrics", h.Metrics.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/student/login", h.Auth.StudentLogin)
		authGroup.POST("/staff/login", h.Auth.StaffLogin)
		authGroup.POST("/admin/login", h.Auth.AdminLogin)
		authGroup.PUT("/password", middleware.JWT(auth), middleware.RequireRoles(models.RoleAdmin), h.Auth.ChangePassword)
	}

	me := api.Group("/students/me", middleware.JWT(auth), middleware.RequireRoles(models.RoleStudent))
	{
		me.GET("", h.Students.GetProfile)
		me.PUT("", h.Students.UpdateProfile)
		me.PUT("/gpa", h.Students.UpdateGPA)
		me.POST("/resume", h.Students.UploadResume)
		me.POST("/photo", h.Students.UploadPhoto)
		me.GET("/drives", h.Students.ListDrives)
		me.GET("/feedback", h.Students.GetFeedback)
	}

	roster := api.Group("/students", middleware.JWT(auth), middleware.RequireRoles(models.RoleStaff, models.RoleAdmin))
	{
		roster.GET("", h.Staff.ListStudents)
		roster.GET("/:id", h.Staff.GetStudent)
	}

	staffGroup := api.Group("/staff/me", middleware.JWT(auth), middleware.RequireRoles(models.RoleStaff))
	{
		staffGroup.GET("", h.Staff.GetProfile)
		staffGroup.PUT("", h.Staff.UpdateProfile)
	}

	drives := api.Group("/drives", middleware.JWT(auth), middleware.RequireRoles(models.RoleStaff, models.RoleAdmin))
	{
		drives.POST("", middleware.RequireRoles(models.RoleStaff), h.Companies.Create)
		drives.POST("/preview", h.Companies.Preview)
		drives.GET("", h.Companies.List)
		drives.GET("/:id", h.Companies.Get)
		drives.PATCH("/:id/status", h.Companies.UpdateStatus)
		drives.POST("/:id/shortlist/refresh", h.Companies.RefreshShortlist)
		drives.GET("/:id/shortlist/export", h.Companies.ExportShortlist)
		drives.DELETE("/:id", h.Companies.Delete)
	}

	feedbacks := api.Group("/feedbacks", middleware.JWT(auth))
	{
		feedbacks.POST("", middleware.RequireRoles(models.RoleStudent), h.Feedbacks.Submit)
		feedbacks.PUT("/:id", middleware.RequireRoles(models.RoleStudent), h.Feedbacks.Update)
		feedbacks.GET("", middleware.RequireRoles(models.RoleStaff, models.RoleAdmin), h.Feedbacks.List)
		feedbacks.GET("/pending", middleware.RequireRoles(models.RoleStaff, models.RoleAdmin), h.Feedbacks.ListPending)
		feedbacks.POST("/:id/verify", middleware.RequireRoles(models.RoleStaff, models.RoleAdmin), h.Feedbacks.Verify)
		feedbacks.DELETE("/:id", middleware.RequireRoles(models.RoleStudent, models.RoleAdmin), h.Feedbacks.Delete)
		feedbacks.GET("/:id/document", h.Feedbacks.Document)
	}

	exports := api.Group("/exports", middleware.JWT(auth), middleware.RequireRoles(models.RoleStaff, models.RoleAdmin))
	{
		exports.GET("/resumes", h.Exports.ResumeArchive)
		exports.GET("/students", h.Exports.StudentList)
	}

	admin := api.Group("/admin", middleware.JWT(auth), middleware.RequireRoles(models.RoleAdmin))
	{
		admin.POST("/students", h.Admin.RegisterStudent)
		admin.POST("/students/bulk", h.Admin.BulkImport)
		admin.PUT("/students/:id/placement", h.Admin.SetPlacement)
		admin.POST("/staff", h.Admin.RegisterStaff)
		admin.POST("/staff/bulk", h.Admin.BulkImportStaff)
		admin.GET("/staff", h.Admin.ListStaff)
		admin.DELETE("/accounts/:id", h.Admin.DeleteAccount)
		admin.GET("/dashboard", h.Admin.Dashboard)
	}

	return r
}
