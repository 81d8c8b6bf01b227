package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/philippe-delaval/Lesot-bon/internal/dto"
	"github.com/philippe-delaval/Lesot-bon/internal/repository"
	"github.com/philippe-delaval/Lesot-bon/internal/service"
	"github.com/philippe-delaval/Lesot-bon/pkg/response"
)

// AttachementHandler exposes the work-order records.
type AttachementHandler struct {
	svc    *service.AttachementService
	logger *zap.Logger
}

// List GET /api/v1/attachements
func (h *AttachementHandler) List(c *gin.Context) {
	page, pageSize := pagination(c)
	filter := repository.AttachementFilter{
		ClientID:   c.Query("client_id"),
		Recherche:  c.Query("recherche"),
		SignesOnly: c.Query("signes") == "true",
	}
	attachements, total, err := h.svc.List(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OKPage(c, attachements, total, page, pageSize)
}

// GetByNumero GET /api/v1/attachements/numero/:numero
func (h *AttachementHandler) GetByNumero(c *gin.Context) {
	attachement, err := h.svc.GetByNumero(c.Request.Context(), c.Param("numero"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, attachement)
}

// Get GET /api/v1/attachements/:id
func (h *AttachementHandler) Get(c *gin.Context) {
	attachement, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, attachement)
}

// Create POST /api/v1/attachements
func (h *AttachementHandler) Create(c *gin.Context) {
	var req dto.CreateAttachementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	attachement, err := h.svc.Create(c.Request.Context(), &req, currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.Created(c, attachement)
}

// Update PUT /api/v1/attachements/:id
func (h *AttachementHandler) Update(c *gin.Context) {
	var req dto.UpdateAttachementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	attachement, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req, actorFrom(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, attachement)
}

// Signer POST /api/v1/attachements/:id/signer
func (h *AttachementHandler) Signer(c *gin.Context) {
	var req dto.SignerAttachementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	attachement, err := h.svc.Signer(c.Request.Context(), c.Param("id"), &req, actorFrom(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, attachement)
}

// Delete DELETE /api/v1/attachements/:id
func (h *AttachementHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), actorFrom(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, nil)
}
