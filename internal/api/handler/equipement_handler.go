package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/philippe-delaval/Lesot-bon/internal/dto"
	"github.com/philippe-delaval/Lesot-bon/internal/repository"
	"github.com/philippe-delaval/Lesot-bon/internal/service"
	"github.com/philippe-delaval/Lesot-bon/pkg/response"
)

// EquipementHandler exposes the inventory and its stock operations.
type EquipementHandler struct {
	svc    *service.EquipementService
	logger *zap.Logger
}

// List GET /api/v1/equipements
func (h *EquipementHandler) List(c *gin.Context) {
	page, pageSize := pagination(c)
	filter := repository.EquipementFilter{
		Recherche: c.Query("recherche"),
		Type:      c.Query("type"),
		Categorie: c.Query("categorie"),
		Statut:    c.Query("statut"),
		Etat:      c.Query("etat"),
		ActifOnly: c.Query("actifs") == "true",
	}
	equipements, total, err := h.svc.List(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OKPage(c, equipements, total, page, pageSize)
}

// Ruptures GET /api/v1/equipements/ruptures
func (h *EquipementHandler) Ruptures(c *gin.Context) {
	equipements, err := h.svc.ListEnRupture(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, equipements)
}

// MaintenanceDue GET /api/v1/equipements/maintenance-due
func (h *EquipementHandler) MaintenanceDue(c *gin.Context) {
	equipements, err := h.svc.ListMaintenanceDue(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, equipements)
}

// GetByReference GET /api/v1/equipements/reference/:reference
func (h *EquipementHandler) GetByReference(c *gin.Context) {
	equipement, err := h.svc.GetByReference(c.Request.Context(), c.Param("reference"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, equipement)
}

// Get GET /api/v1/equipements/:id
func (h *EquipementHandler) Get(c *gin.Context) {
	equipement, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, equipement)
}

// Create POST /api/v1/equipements
func (h *EquipementHandler) Create(c *gin.Context) {
	var req dto.CreateEquipementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	equipement, err := h.svc.Create(c.Request.Context(), &req, currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.Created(c, equipement)
}

// Update PUT /api/v1/equipements/:id
func (h *EquipementHandler) Update(c *gin.Context) {
	var req dto.UpdateEquipementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	equipement, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req, currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, equipement)
}

// Delete DELETE /api/v1/equipements/:id
func (h *EquipementHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), currentUserID(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, nil)
}

// Reserver POST /api/v1/equipements/:id/reserver
func (h *EquipementHandler) Reserver(c *gin.Context) {
	var req dto.StockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	equipement, err := h.svc.Reserver(c.Request.Context(), c.Param("id"), req.Quantite)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, equipement)
}

// Liberer POST /api/v1/equipements/:id/liberer
func (h *EquipementHandler) Liberer(c *gin.Context) {
	var req dto.StockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	equipement, err := h.svc.Liberer(c.Request.Context(), c.Param("id"), req.Quantite)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, equipement)
}

// Utiliser POST /api/v1/equipements/:id/utiliser
func (h *EquipementHandler) Utiliser(c *gin.Context) {
	var req dto.UtiliserEquipementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	equipement, err := h.svc.Utiliser(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, equipement)
}

// Retourner POST /api/v1/equipements/:id/retourner
func (h *EquipementHandler) Retourner(c *gin.Context) {
	equipement, err := h.svc.Retourner(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, equipement)
}

// PlanifierMaintenance POST /api/v1/equipements/:id/maintenance/planifier
func (h *EquipementHandler) PlanifierMaintenance(c *gin.Context) {
	var req dto.PlanifierMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	equipement, err := h.svc.PlanifierMaintenance(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, equipement)
}

// TerminerMaintenance POST /api/v1/equipements/:id/maintenance/terminer
func (h *EquipementHandler) TerminerMaintenance(c *gin.Context) {
	var req dto.TerminerMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	equipement, err := h.svc.TerminerMaintenance(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, equipement)
}
