package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/comsanjuan/recibos-admin-api/internal/application/analytics"
	"github.com/comsanjuan/recibos-admin-api/internal/application/auth"
	"github.com/comsanjuan/recibos-admin-api/internal/application/recibos"
	"github.com/comsanjuan/recibos-admin-api/internal/application/setup"
	"github.com/comsanjuan/recibos-admin-api/internal/application/usecase"
	"github.com/comsanjuan/recibos-admin-api/internal/domain/authz"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Gate        *setup.Gate
	AuthUC      *auth.UseCase
	UserUC      *usecase.UserUseCase
	AuditUC     *usecase.AuditUseCase
	RecibosUC   *recibos.UseCase
	DashboardUC *analytics.DashboardUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Setup (público: el bootstrap ocurre antes de que exista sesión alguna)
	setupGroup := api.Group("/setup")
	setupHandler := NewSetupHandler(deps.Gate)
	setupGroup.Get("/status", setupHandler.Status)
	setupGroup.Post("/primer-admin", setupHandler.CreateFirstAdmin)

	// Guardia de navegación (público; el Bearer es opcional)
	navHandler := NewNavigationHandler(deps.Gate, deps.AuthUC, deps.JWTSecret)
	api.Get("/navigation/check", navHandler.Check)

	// Auth
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/logout", AuthMiddleware(deps.JWTSecret, deps.AuthUC), authHandler.Logout)
	authGroup.Get("/perfil", AuthMiddleware(deps.JWTSecret, deps.AuthUC), authHandler.Profile)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret, deps.AuthUC))

	// Usuarios (capacidad gestion_usuarios)
	users := protected.Group("/usuarios", RequireCapability(authz.CapGestionUsuarios, deps.AuthUC))
	userHandler := NewUserHandler(deps.UserUC)
	users.Post("/", userHandler.Create)
	users.Get("/", userHandler.List)
	users.Get("/stats", userHandler.Stats)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
	users.Patch("/:id/estado", userHandler.ChangeStatus)
	users.Delete("/:id", userHandler.Delete)

	// Recibos (capacidad gestion_recibos)
	recibosGroup := protected.Group("/recibos", RequireCapability(authz.CapGestionRecibos, deps.AuthUC))
	reciboHandler := NewReciboHandler(deps.RecibosUC)
	recibosGroup.Get("/", reciboHandler.List)
	recibosGroup.Get("/estadisticas", reciboHandler.Statistics)
	recibosGroup.Get("/buscar", reciboHandler.Search)
	recibosGroup.Post("/buscar", reciboHandler.AdvancedSearch)
	recibosGroup.Get("/:numero", reciboHandler.GetByNumber)
	recibosGroup.Get("/:numero/pdf", reciboHandler.ExportPDF)

	// Dashboard (capacidad gestion_recibos: combina usuarios y recibos)
	dashboard := protected.Group("/dashboard", RequireCapability(authz.CapGestionRecibos, deps.AuthUC))
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	dashboard.Get("/metricas", dashboardHandler.Metrics)

	// Auditoría (capacidad auditoria)
	auditGroup := protected.Group("/auditoria", RequireCapability(authz.CapAuditoria, deps.AuthUC))
	auditHandler := NewAuditHandler(deps.AuditUC)
	auditGroup.Get("/", auditHandler.List)
}
