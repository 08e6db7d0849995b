package v1

import (
	"net/http"

	"go-cvnetwork-backend/config"
	"go-cvnetwork-backend/internal/delivery/http/middleware"
	"go-cvnetwork-backend/internal/delivery/http/response"
	"go-cvnetwork-backend/internal/domain"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	AuthUC       domain.AuthUsecase
	UserUC       domain.UserUsecase
	ProfileUC    domain.ProfileUsecase
	CompetenceUC domain.CompetenceUsecase
	ProjectUC    domain.ProjectUsecase
	MessageUC    domain.MessageUsecase
	AccountUC    domain.AccountUsecase
	AdminUC      domain.AdminUsecase
	Config       *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.Config)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.GlobalRateLimitMiddleware())
	r.Use(middleware.ErrorHandler())

	// Uploaded files are served straight from disk under their logical prefix
	r.Static("/uploads", deps.Config.UploadsDir)

	v1 := r.Group("/v1")

	// Health Check
	v1.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "System operational", nil)
	})

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Public routes, no identity resolution
	public := v1.Group("")

	// Credential endpoints get the strict per-IP limiter
	authPublic := v1.Group("")
	authPublic.Use(middleware.RateLimitMiddleware(middleware.LoginRateLimitConfig()))

	// Optional auth: anonymous allowed, logged-in callers identified
	optional := v1.Group("")
	optional.Use(middleware.OptionalAuthMiddleware(deps.Config, deps.AuthUC))

	// Message sending shares the optional-auth behavior but is throttled
	messages := v1.Group("")
	messages.Use(middleware.RateLimitMiddleware(middleware.MessageRateLimitConfig()))
	messages.Use(middleware.OptionalAuthMiddleware(deps.Config, deps.AuthUC))

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Config, deps.AuthUC))
	{
		NewAuthHandler(authPublic, protected, deps.AuthUC, deps.Config)
		NewUserHandler(optional, protected, deps.UserUC, deps.Config)
		NewProfileHandler(protected, deps.ProfileUC)
		NewCompetenceHandler(public, protected, deps.CompetenceUC)
		NewProjectHandler(public, protected, deps.ProjectUC, deps.Config)
		NewMessageHandler(messages, protected, deps.MessageUC)
		NewAccountHandler(protected, deps.AccountUC)
		NewAdminHandler(protected, deps.AdminUC, deps.AccountUC)
	}

	return r
}
