package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/philippe-delaval/Lesot-bon/internal/dto"
	"github.com/philippe-delaval/Lesot-bon/internal/repository"
	"github.com/philippe-delaval/Lesot-bon/internal/service"
	"github.com/philippe-delaval/Lesot-bon/pkg/response"
)

// EquipeHandler exposes teams and their memberships.
type EquipeHandler struct {
	svc    *service.EquipeService
	logger *zap.Logger
}

// List GET /api/v1/equipes
func (h *EquipeHandler) List(c *gin.Context) {
	page, pageSize := pagination(c)
	filter := repository.EquipeFilter{
		Recherche:      c.Query("recherche"),
		Specialisation: c.Query("specialisation"),
		ActivesOnly:    c.Query("actives") == "true",
	}
	equipes, total, err := h.svc.List(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OKPage(c, equipes, total, page, pageSize)
}

// GetByCode GET /api/v1/equipes/code/:code
func (h *EquipeHandler) GetByCode(c *gin.Context) {
	equipe, err := h.svc.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, equipe)
}

// Get GET /api/v1/equipes/:id
func (h *EquipeHandler) Get(c *gin.Context) {
	equipe, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, equipe)
}

// Create POST /api/v1/equipes
func (h *EquipeHandler) Create(c *gin.Context) {
	var req dto.CreateEquipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	equipe, err := h.svc.Create(c.Request.Context(), &req, currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.Created(c, equipe)
}

// Update PUT /api/v1/equipes/:id
func (h *EquipeHandler) Update(c *gin.Context) {
	var req dto.UpdateEquipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	equipe, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req, currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, equipe)
}

// Delete DELETE /api/v1/equipes/:id
func (h *EquipeHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), currentUserID(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, nil)
}

// AddMembre POST /api/v1/equipes/:id/membres
func (h *EquipeHandler) AddMembre(c *gin.Context) {
	var req dto.AddMembreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	membre, err := h.svc.AjouterEmploye(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.Created(c, membre)
}

// RemoveMembre DELETE /api/v1/equipes/:id/membres/:employe_id
func (h *EquipeHandler) RemoveMembre(c *gin.Context) {
	if err := h.svc.RetirerEmploye(c.Request.Context(), c.Param("id"), c.Param("employe_id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, nil)
}

// Membres GET /api/v1/equipes/:id/membres
func (h *EquipeHandler) Membres(c *gin.Context) {
	membres, err := h.svc.Membres(c.Request.Context(), c.Param("id"), c.Query("actifs") != "false")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, membres)
}

// AffectationEmploye GET /api/v1/employes/:id/equipe
func (h *EquipeHandler) AffectationEmploye(c *gin.Context) {
	membre, err := h.svc.AffectationActive(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, membre)
}

// Effectif GET /api/v1/equipes/:id/effectif
func (h *EquipeHandler) Effectif(c *gin.Context) {
	n, statut, err := h.svc.Effectif(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, gin.H{"effectif": n, "statut": statut})
}
