package router

import (
	"time"

	"auditex/internal/config"
	"auditex/internal/handler"
	"auditex/internal/middleware"
	"auditex/internal/model"
	"auditex/internal/repository"
	"auditex/internal/service"
	"auditex/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.Domain))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	collaborateurRepo := repository.NewCollaborateurRepository(db)
	clientRepo := repository.NewClientRepository(db)
	declarationRepo := repository.NewDeclarationRepository(db)
	factureRepo := repository.NewFactureRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	tauxParDefaut, err := decimal.NewFromString(cfg.TauxDirecteurDefaut)
	if err != nil {
		tauxParDefaut = decimal.NewFromFloat(3.0)
	}

	authSvc := service.NewAuthService(collaborateurRepo, cfg)
	clientSvc := service.NewClientService(clientRepo, collaborateurRepo)
	declarationSvc := service.NewDeclarationService(
		declarationRepo, factureRepo, clientRepo,
		service.PolitiqueAmendeLegale, tauxParDefaut,
	)
	inscriptionSvc := service.NewInscriptionService(collaborateurRepo, clientRepo, dispatcher)
	dashboardSvc := service.NewDashboardService(clientRepo, collaborateurRepo, declarationRepo, rdb)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	clientsH := handler.NewClientsHandler(clientSvc)
	declarationsH := handler.NewDeclarationsHandler(declarationSvc, dashboardSvc)
	exportsH := handler.NewExportsHandler(declarationSvc)
	collaborateursH := handler.NewCollaborateursHandler(authSvc)
	inscriptionsH := handler.NewInscriptionsHandler(inscriptionSvc)
	dashboardH := handler.NewDashboardHandler(dashboardSvc)
	notificationsH := handler.NewNotificationsHandler(rdb)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Self-registration — public, admin validates later
	r.POST("/v1/inscriptions", middleware.LoginRateLimiter(), inscriptionsH.SInscrire)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		tous := middleware.RequireRole(model.RoleAdmin, model.RoleCollaborateur)
		admin := middleware.RequireRole(model.RoleAdmin)

		v1.GET("/dashboard", admin, dashboardH.Obtenir)
		v1.POST("/notifications/rejouer", admin, notificationsH.Rejouer)

		clients := v1.Group("/clients")
		{
			clients.GET("", tous, clientsH.Lister)
			clients.GET("/:id", tous, clientsH.Obtenir)
			clients.POST("", admin, clientsH.Creer)
			clients.PUT("/:id", tous, clientsH.Modifier)
			clients.PUT("/:id/collaborateurs", admin, clientsH.AssignerCollaborateurs)
		}

		declarations := v1.Group("/declarations", tous)
		{
			declarations.POST("", declarationsH.Creer)
			declarations.GET("", declarationsH.Lister)
			declarations.GET("/:id", declarationsH.Obtenir)
			declarations.PUT("/:id", declarationsH.Modifier)
			declarations.POST("/:id/factures", declarationsH.EnregistrerFactures)
			declarations.POST("/:id/facture", declarationsH.AttacherFacture)
			declarations.POST("/:id/soumettre", declarationsH.Soumettre)

			declarations.GET("/:id/export/xml", exportsH.XML)
			declarations.GET("/:id/export/tableur", exportsH.Tableur)
			declarations.GET("/:id/export/rapport", exportsH.Rapport)
		}

		collaborateurs := v1.Group("/collaborateurs", admin)
		{
			collaborateurs.POST("", collaborateursH.Creer)
			collaborateurs.GET("", collaborateursH.Lister)
			collaborateurs.PUT("/:id", collaborateursH.Modifier)
			collaborateurs.DELETE("/:id", collaborateursH.Desactiver)
		}

		inscriptions := v1.Group("/inscriptions", admin)
		{
			inscriptions.GET("", inscriptionsH.ListerEnAttente)
			inscriptions.POST("/:id/decision", inscriptionsH.Decider)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
