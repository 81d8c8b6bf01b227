package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/philippe-delaval/Lesot-bon/internal/dto"
	"github.com/philippe-delaval/Lesot-bon/internal/repository"
	"github.com/philippe-delaval/Lesot-bon/internal/service"
	"github.com/philippe-delaval/Lesot-bon/pkg/response"
)

const contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// PlanningHandler exposes schedule entries, the calendar feed and the exports.
type PlanningHandler struct {
	svc    *service.PlanningService
	export *service.ExportService
	logger *zap.Logger
}

// List GET /api/v1/plannings
func (h *PlanningHandler) List(c *gin.Context) {
	page, pageSize := pagination(c)
	filter := repository.PlanningFilter{
		EmployeID:       c.Query("employe_id"),
		EquipeID:        c.Query("equipe_id"),
		Statut:          c.Query("statut"),
		TypeAffectation: c.Query("type_affectation"),
	}
	if t, ok := parseTimeQuery(c, "depuis"); ok {
		filter.Depuis = &t
	}
	if t, ok := parseTimeQuery(c, "jusqua"); ok {
		filter.Jusqua = &t
	}
	plannings, total, err := h.svc.List(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OKPage(c, plannings, total, page, pageSize)
}

// Get GET /api/v1/plannings/:id
func (h *PlanningHandler) Get(c *gin.Context) {
	planning, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, planning)
}

// Create POST /api/v1/plannings
func (h *PlanningHandler) Create(c *gin.Context) {
	var req dto.CreatePlanningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	planning, err := h.svc.Create(c.Request.Context(), &req, currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.Created(c, planning)
}

// Update PUT /api/v1/plannings/:id
func (h *PlanningHandler) Update(c *gin.Context) {
	var req dto.UpdatePlanningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	planning, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req, currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, planning)
}

// Delete DELETE /api/v1/plannings/:id
func (h *PlanningHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), currentUserID(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, nil)
}

// Demarrer POST /api/v1/plannings/:id/demarrer
func (h *PlanningHandler) Demarrer(c *gin.Context) {
	planning, err := h.svc.Demarrer(c.Request.Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, planning)
}

// Terminer POST /api/v1/plannings/:id/terminer
func (h *PlanningHandler) Terminer(c *gin.Context) {
	var req dto.TerminerPlanningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	planning, err := h.svc.Terminer(c.Request.Context(), c.Param("id"), &req, currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, planning)
}

// Valider POST /api/v1/plannings/:id/valider (admin/manager, enforced by the router)
func (h *PlanningHandler) Valider(c *gin.Context) {
	var req dto.ValiderPlanningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	planning, err := h.svc.Valider(c.Request.Context(), c.Param("id"), &req, currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, planning)
}

// Annuler POST /api/v1/plannings/:id/annuler
func (h *PlanningHandler) Annuler(c *gin.Context) {
	planning, err := h.svc.Annuler(c.Request.Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, planning)
}

// Calendrier GET /api/v1/plannings/calendrier?debut=...&fin=...
func (h *PlanningHandler) Calendrier(c *gin.Context) {
	debut, fin, ok := parseWindow(c)
	if !ok {
		return
	}
	events, err := h.svc.Calendrier(c.Request.Context(), debut, fin, c.Query("employe_id"), c.Query("equipe_id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, events)
}

// Disponibilite GET /api/v1/plannings/disponibilite?employe_id=...&debut=...&fin=...
func (h *PlanningHandler) Disponibilite(c *gin.Context) {
	debut, fin, ok := parseWindow(c)
	if !ok {
		return
	}
	disponible, err := h.svc.VerifierDisponibilite(c.Request.Context(), c.Query("employe_id"), debut, fin, c.Query("exclude_id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, gin.H{"disponible": disponible})
}

// ExportExcel GET /api/v1/plannings/export/excel?semaine=...
func (h *PlanningHandler) ExportExcel(c *gin.Context) {
	semaine, ok := parseTimeQuery(c, "semaine")
	if !ok {
		semaine = time.Now()
	}
	buf, filename, err := h.export.ExcelSemaine(c.Request.Context(), semaine)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentTypeXLSX, buf.Bytes())
}

// ExportICS GET /api/v1/plannings/export/ics?employe_id=...&debut=...&fin=...
func (h *PlanningHandler) ExportICS(c *gin.Context) {
	debut, fin, ok := parseWindow(c)
	if !ok {
		return
	}
	content, filename, err := h.export.ICSEmploye(c.Request.Context(), c.Query("employe_id"), debut, fin)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(content))
}

// parseTimeQuery reads an RFC 3339 (or date-only) query parameter.
func parseTimeQuery(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// parseWindow reads the mandatory ?debut and ?fin parameters. On failure it
// writes the error response and returns ok=false.
func parseWindow(c *gin.Context) (debut, fin time.Time, ok bool) {
	debut, okDebut := parseTimeQuery(c, "debut")
	fin, okFin := parseTimeQuery(c, "fin")
	if !okDebut || !okFin {
		response.BadRequest(c, 40000, "debut and fin must be RFC 3339 timestamps or YYYY-MM-DD dates")
		return time.Time{}, time.Time{}, false
	}
	return debut, fin, true
}
