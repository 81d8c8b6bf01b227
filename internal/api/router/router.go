package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/philippe-delaval/Lesot-bon/config"
	"github.com/philippe-delaval/Lesot-bon/internal/api/handler"
	"github.com/philippe-delaval/Lesot-bon/internal/api/middleware"
	"github.com/philippe-delaval/Lesot-bon/internal/model"
	"github.com/philippe-delaval/Lesot-bon/internal/service"
	"github.com/philippe-delaval/Lesot-bon/pkg/jwt"
	"github.com/philippe-delaval/Lesot-bon/pkg/response"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// NewRouter assembles the gin engine: middleware chain, public auth routes,
// then the authenticated /api/v1 surface.
func NewRouter(h *handler.Handler, jwtManager *jwt.Manager, authSvc *service.AuthService, cfg *config.Config, logger *zap.Logger) *gin.Engine {
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(&cfg.Server.CORS))
	r.Use(middleware.BodyLimit(maxBodyBytes))

	r.GET("/health", func(c *gin.Context) {
		response.OK(c, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")

	// public
	auth := v1.Group("/auth")
	auth.Use(middleware.RateLimit(10, time.Minute))
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)

	// authenticated
	authed := v1.Group("")
	authed.Use(middleware.RequireAuth(jwtManager, authSvc))

	authed.POST("/auth/logout", h.Auth.Logout)
	authed.GET("/auth/me", h.Auth.Me)
	authed.POST("/auth/register", middleware.RequireRole(model.UserRoleAdmin), h.Auth.Register)

	clients := authed.Group("/clients")
	clients.GET("", h.Client.List)
	clients.POST("", h.Client.Create)
	clients.GET("/:id", h.Client.Get)
	clients.PUT("/:id", h.Client.Update)
	clients.DELETE("/:id", h.Client.Delete)

	employes := authed.Group("/employes")
	employes.GET("", h.Employe.List)
	employes.POST("", h.Employe.Create)
	employes.GET("/disponibles", h.Employe.Disponibles)
	employes.GET("/matricule/:matricule", h.Employe.GetByMatricule)
	employes.GET("/:id", h.Employe.Get)
	employes.GET("/:id/equipe", h.Equipe.AffectationEmploye)
	employes.PUT("/:id", h.Employe.Update)
	employes.DELETE("/:id", h.Employe.Delete)
	employes.POST("/:id/disponibilite", h.Employe.Disponibilite)

	equipes := authed.Group("/equipes")
	equipes.GET("", h.Equipe.List)
	equipes.POST("", h.Equipe.Create)
	equipes.GET("/code/:code", h.Equipe.GetByCode)
	equipes.GET("/:id", h.Equipe.Get)
	equipes.PUT("/:id", h.Equipe.Update)
	equipes.DELETE("/:id", h.Equipe.Delete)
	equipes.GET("/:id/membres", h.Equipe.Membres)
	equipes.POST("/:id/membres", h.Equipe.AddMembre)
	equipes.DELETE("/:id/membres/:employe_id", h.Equipe.RemoveMembre)
	equipes.GET("/:id/effectif", h.Equipe.Effectif)

	plannings := authed.Group("/plannings")
	plannings.GET("", h.Planning.List)
	plannings.POST("", h.Planning.Create)
	plannings.GET("/calendrier", h.Planning.Calendrier)
	plannings.GET("/disponibilite", h.Planning.Disponibilite)
	plannings.GET("/export/excel", h.Planning.ExportExcel)
	plannings.GET("/export/ics", h.Planning.ExportICS)
	plannings.GET("/:id", h.Planning.Get)
	plannings.PUT("/:id", h.Planning.Update)
	plannings.DELETE("/:id", h.Planning.Delete)
	plannings.POST("/:id/demarrer", h.Planning.Demarrer)
	plannings.POST("/:id/terminer", h.Planning.Terminer)
	plannings.POST("/:id/valider", middleware.RequireRole(model.UserRoleAdmin, model.UserRoleManager), h.Planning.Valider)
	plannings.POST("/:id/annuler", h.Planning.Annuler)

	equipements := authed.Group("/equipements")
	equipements.GET("", h.Equipement.List)
	equipements.POST("", h.Equipement.Create)
	equipements.GET("/ruptures", h.Equipement.Ruptures)
	equipements.GET("/maintenance-due", h.Equipement.MaintenanceDue)
	equipements.GET("/reference/:reference", h.Equipement.GetByReference)
	equipements.GET("/:id", h.Equipement.Get)
	equipements.PUT("/:id", h.Equipement.Update)
	equipements.DELETE("/:id", h.Equipement.Delete)
	equipements.POST("/:id/reserver", h.Equipement.Reserver)
	equipements.POST("/:id/liberer", h.Equipement.Liberer)
	equipements.POST("/:id/utiliser", h.Equipement.Utiliser)
	equipements.POST("/:id/retourner", h.Equipement.Retourner)
	equipements.POST("/:id/maintenance/planifier", h.Equipement.PlanifierMaintenance)
	equipements.POST("/:id/maintenance/terminer", h.Equipement.TerminerMaintenance)

	demandes := authed.Group("/demandes")
	demandes.GET("", h.Demande.List)
	demandes.POST("", h.Demande.Create)
	demandes.GET("/:id", h.Demande.Get)
	demandes.PUT("/:id", h.Demande.Update)
	demandes.DELETE("/:id", h.Demande.Delete)
	demandes.POST("/:id/assigner", h.Demande.Assigner)
	demandes.POST("/:id/demarrer", h.Demande.Demarrer)
	demandes.POST("/:id/terminer", h.Demande.Terminer)
	demandes.POST("/:id/annuler", h.Demande.Annuler)
	demandes.POST("/:id/convertir", h.Demande.Convertir)

	attachements := authed.Group("/attachements")
	attachements.GET("", h.Attachement.List)
	attachements.POST("", h.Attachement.Create)
	attachements.GET("/numero/:numero", h.Attachement.GetByNumero)
	attachements.GET("/:id", h.Attachement.Get)
	attachements.PUT("/:id", h.Attachement.Update)
	attachements.DELETE("/:id", h.Attachement.Delete)
	attachements.POST("/:id/signer", h.Attachement.Signer)

	interventions := authed.Group("/interventions")
	interventions.GET("", h.Intervention.List)
	interventions.POST("", h.Intervention.Create)
	interventions.GET("/en-retard", h.Intervention.EnRetard)
	interventions.GET("/:id", h.Intervention.Get)
	interventions.PUT("/:id", h.Intervention.Update)
	interventions.DELETE("/:id", h.Intervention.Delete)
	interventions.POST("/:id/depart", h.Intervention.Depart)
	interventions.POST("/:id/arrivee", h.Intervention.Arrivee)
	interventions.POST("/:id/demarrer", h.Intervention.Demarrer)
	interventions.POST("/:id/terminer", h.Intervention.Terminer)
	interventions.POST("/:id/annuler", h.Intervention.Annuler)
	interventions.GET("/:id/logs", h.Intervention.Logs)

	authed.GET("/dashboard/stats", h.Dashboard.Stats)

	return r
}
