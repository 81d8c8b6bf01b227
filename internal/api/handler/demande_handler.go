package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/philippe-delaval/Lesot-bon/internal/dto"
	"github.com/philippe-delaval/Lesot-bon/internal/repository"
	"github.com/philippe-delaval/Lesot-bon/internal/service"
	"github.com/philippe-delaval/Lesot-bon/pkg/response"
)

// DemandeHandler exposes the staffing-request workflow. The acting user is
// forwarded to the service layer, which applies the access rules.
type DemandeHandler struct {
	svc    *service.DemandeService
	logger *zap.Logger
}

// List GET /api/v1/demandes
func (h *DemandeHandler) List(c *gin.Context) {
	page, pageSize := pagination(c)
	filter := repository.DemandeFilter{
		Statut:     c.Query("statut"),
		Priorite:   c.Query("priorite"),
		CreateurID: c.Query("createur_id"),
		ReceveurID: c.Query("receveur_id"),
		ClientID:   c.Query("client_id"),
		Recherche:  c.Query("recherche"),
	}
	demandes, total, err := h.svc.List(c.Request.Context(), filter, actorFrom(c), page, pageSize)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OKPage(c, demandes, total, page, pageSize)
}

// Get GET /api/v1/demandes/:id
func (h *DemandeHandler) Get(c *gin.Context) {
	demande, err := h.svc.Get(c.Request.Context(), c.Param("id"), actorFrom(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, demande)
}

// Create POST /api/v1/demandes
func (h *DemandeHandler) Create(c *gin.Context) {
	var req dto.CreateDemandeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	demande, err := h.svc.Create(c.Request.Context(), &req, actorFrom(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.Created(c, demande)
}

// Update PUT /api/v1/demandes/:id
func (h *DemandeHandler) Update(c *gin.Context) {
	var req dto.UpdateDemandeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	demande, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req, actorFrom(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, demande)
}

// Delete DELETE /api/v1/demandes/:id
func (h *DemandeHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), actorFrom(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, nil)
}

// Assigner POST /api/v1/demandes/:id/assigner
func (h *DemandeHandler) Assigner(c *gin.Context) {
	var req dto.AssignDemandeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	demande, err := h.svc.Assigner(c.Request.Context(), c.Param("id"), &req, actorFrom(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, demande)
}

// Demarrer POST /api/v1/demandes/:id/demarrer
func (h *DemandeHandler) Demarrer(c *gin.Context) {
	demande, err := h.svc.Demarrer(c.Request.Context(), c.Param("id"), actorFrom(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, demande)
}

// Terminer POST /api/v1/demandes/:id/terminer
func (h *DemandeHandler) Terminer(c *gin.Context) {
	var req dto.CompleteDemandeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	demande, err := h.svc.Terminer(c.Request.Context(), c.Param("id"), &req, actorFrom(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, demande)
}

// Annuler POST /api/v1/demandes/:id/annuler
func (h *DemandeHandler) Annuler(c *gin.Context) {
	demande, err := h.svc.Annuler(c.Request.Context(), c.Param("id"), actorFrom(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, demande)
}

// Convertir POST /api/v1/demandes/:id/convertir
func (h *DemandeHandler) Convertir(c *gin.Context) {
	attachement, err := h.svc.ConvertirEnAttachement(c.Request.Context(), c.Param("id"), actorFrom(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.Created(c, attachement)
}
