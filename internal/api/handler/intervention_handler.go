package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/philippe-delaval/Lesot-bon/internal/dto"
	"github.com/philippe-delaval/Lesot-bon/internal/repository"
	"github.com/philippe-delaval/Lesot-bon/internal/service"
	"github.com/philippe-delaval/Lesot-bon/pkg/response"
)

// InterventionHandler exposes the field jobs and their lifecycle.
type InterventionHandler struct {
	svc    *service.InterventionService
	logger *zap.Logger
}

// List GET /api/v1/interventions
func (h *InterventionHandler) List(c *gin.Context) {
	page, pageSize := pagination(c)
	filter := repository.InterventionFilter{
		Statut:       c.Query("statut"),
		Priorite:     c.Query("priorite"),
		TechnicienID: c.Query("technicien_id"),
		ClientID:     c.Query("client_id"),
		DemandeID:    c.Query("demande_id"),
	}
	if t, ok := parseTimeQuery(c, "depuis"); ok {
		filter.Depuis = &t
	}
	if t, ok := parseTimeQuery(c, "jusqua"); ok {
		filter.Jusqua = &t
	}
	interventions, total, err := h.svc.List(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OKPage(c, interventions, total, page, pageSize)
}

// EnRetard GET /api/v1/interventions/en-retard
func (h *InterventionHandler) EnRetard(c *gin.Context) {
	interventions, err := h.svc.ListEnRetard(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, interventions)
}

// Get GET /api/v1/interventions/:id
func (h *InterventionHandler) Get(c *gin.Context) {
	intervention, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, intervention)
}

// Create POST /api/v1/interventions
func (h *InterventionHandler) Create(c *gin.Context) {
	var req dto.CreateInterventionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	intervention, err := h.svc.Create(c.Request.Context(), &req, currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.Created(c, intervention)
}

// Update PUT /api/v1/interventions/:id
func (h *InterventionHandler) Update(c *gin.Context) {
	var req dto.UpdateInterventionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	intervention, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req, currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, intervention)
}

// Delete DELETE /api/v1/interventions/:id
func (h *InterventionHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), currentUserID(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, nil)
}

// Depart POST /api/v1/interventions/:id/depart
func (h *InterventionHandler) Depart(c *gin.Context) {
	intervention, err := h.svc.PartirEnRoute(c.Request.Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, intervention)
}

// Arrivee POST /api/v1/interventions/:id/arrivee
func (h *InterventionHandler) Arrivee(c *gin.Context) {
	intervention, err := h.svc.ArriverSurSite(c.Request.Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, intervention)
}

// Demarrer POST /api/v1/interventions/:id/demarrer
func (h *InterventionHandler) Demarrer(c *gin.Context) {
	intervention, err := h.svc.Demarrer(c.Request.Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, intervention)
}

// Terminer POST /api/v1/interventions/:id/terminer
func (h *InterventionHandler) Terminer(c *gin.Context) {
	var req dto.TerminerInterventionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	intervention, err := h.svc.Terminer(c.Request.Context(), c.Param("id"), &req, currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, intervention)
}

// Annuler POST /api/v1/interventions/:id/annuler
func (h *InterventionHandler) Annuler(c *gin.Context) {
	intervention, err := h.svc.Annuler(c.Request.Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, intervention)
}

// Logs GET /api/v1/interventions/:id/logs
func (h *InterventionHandler) Logs(c *gin.Context) {
	logs, err := h.svc.Logs(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, logs)
}
