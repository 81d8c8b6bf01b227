package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/philippe-delaval/Lesot-bon/internal/dto"
	"github.com/philippe-delaval/Lesot-bon/internal/repository"
	"github.com/philippe-delaval/Lesot-bon/internal/service"
	"github.com/philippe-delaval/Lesot-bon/pkg/response"
)

// ClientHandler exposes the customer directory.
type ClientHandler struct {
	svc    *service.ClientService
	logger *zap.Logger
}

// List GET /api/v1/clients
func (h *ClientHandler) List(c *gin.Context) {
	page, pageSize := pagination(c)
	filter := repository.ClientFilter{
		Recherche:  c.Query("recherche"),
		ActifsOnly: c.Query("actifs") == "true",
	}
	clients, total, err := h.svc.List(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OKPage(c, clients, total, page, pageSize)
}

// Get GET /api/v1/clients/:id
func (h *ClientHandler) Get(c *gin.Context) {
	client, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, client)
}

// Create POST /api/v1/clients
func (h *ClientHandler) Create(c *gin.Context) {
	var req dto.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	client, err := h.svc.Create(c.Request.Context(), &req, currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.Created(c, client)
}

// Update PUT /api/v1/clients/:id
func (h *ClientHandler) Update(c *gin.Context) {
	var req dto.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	client, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req, currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, client)
}

// Delete DELETE /api/v1/clients/:id
func (h *ClientHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), currentUserID(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, nil)
}
