package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/philippe-delaval/Lesot-bon/internal/dto"
	"github.com/philippe-delaval/Lesot-bon/internal/repository"
	"github.com/philippe-delaval/Lesot-bon/internal/service"
	"github.com/philippe-delaval/Lesot-bon/pkg/response"
)

// EmployeHandler exposes the roster.
type EmployeHandler struct {
	svc    *service.EmployeService
	logger *zap.Logger
}

// List GET /api/v1/employes
func (h *EmployeHandler) List(c *gin.Context) {
	page, pageSize := pagination(c)
	filter := repository.EmployeFilter{
		Recherche:        c.Query("recherche"),
		RoleHierarchique: c.Query("role_hierarchique"),
		Disponibilite:    c.Query("disponibilite"),
		StatutContrat:    c.Query("statut_contrat"),
		Habilitation:     c.Query("habilitation"),
		AstreinteOnly:    c.Query("astreinte") == "true",
	}
	employes, total, err := h.svc.List(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OKPage(c, employes, total, page, pageSize)
}

// Disponibles GET /api/v1/employes/disponibles
func (h *EmployeHandler) Disponibles(c *gin.Context) {
	employes, err := h.svc.ListDisponibles(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, employes)
}

// GetByMatricule GET /api/v1/employes/matricule/:matricule
func (h *EmployeHandler) GetByMatricule(c *gin.Context) {
	employe, err := h.svc.GetByMatricule(c.Request.Context(), c.Param("matricule"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, employe)
}

// Get GET /api/v1/employes/:id
func (h *EmployeHandler) Get(c *gin.Context) {
	employe, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, employe)
}

// Create POST /api/v1/employes
func (h *EmployeHandler) Create(c *gin.Context) {
	var req dto.CreateEmployeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	employe, err := h.svc.Create(c.Request.Context(), &req, currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.Created(c, employe)
}

// Update PUT /api/v1/employes/:id
func (h *EmployeHandler) Update(c *gin.Context) {
	var req dto.UpdateEmployeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	employe, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req, currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, employe)
}

// Disponibilite POST /api/v1/employes/:id/disponibilite
func (h *EmployeHandler) Disponibilite(c *gin.Context) {
	var req dto.ChangerDisponibiliteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.svc.ChangerDisponibilite(c.Request.Context(), c.Param("id"), req.Disponibilite); err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, nil)
}

// Delete DELETE /api/v1/employes/:id
func (h *EmployeHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), currentUserID(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, nil)
}
