package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/philippe-delaval/Lesot-bon/internal/service"
	pkgerrors "github.com/philippe-delaval/Lesot-bon/pkg/errors"
	"github.com/philippe-delaval/Lesot-bon/pkg/jwt"
	"github.com/philippe-delaval/Lesot-bon/pkg/response"
)

// sentinelMapping binds each service sentinel to its HTTP status and
// module-scoped error code.
type sentinelMapping struct {
	err    error
	status int
	code   int
}

var sentinelMappings = []sentinelMapping{
	// auth (101xx)
	{service.ErrInvalidCredentials, http.StatusUnauthorized, 10101},
	{service.ErrUserInactive, http.StatusForbidden, 10102},
	{service.ErrEmailTaken, http.StatusConflict, 10103},
	{service.ErrUserNotFound, http.StatusNotFound, 10104},
	{service.ErrNotRefreshToken, http.StatusUnauthorized, 10105},
	{service.ErrTokenRevoked, http.StatusUnauthorized, 10106},
	{jwt.ErrTokenExpired, http.StatusUnauthorized, 10003},
	{jwt.ErrTokenInvalid, http.StatusUnauthorized, 10004},

	// clients (20xxx)
	{service.ErrClientNotFound, http.StatusNotFound, 20001},
	{service.ErrClientCodeTaken, http.StatusConflict, 20002},

	// employes (21xxx)
	{service.ErrEmployeNotFound, http.StatusNotFound, 21001},
	{service.ErrMatriculeTaken, http.StatusConflict, 21002},
	{service.ErrInvalidDisponibilite, http.StatusBadRequest, 21003},

	// equipes (22xxx)
	{service.ErrEquipeNotFound, http.StatusNotFound, 22001},
	{service.ErrEquipeCodeTaken, http.StatusConflict, 22002},
	{service.ErrEquipeComplete, http.StatusConflict, 22003},
	{service.ErrEquipeInactive, http.StatusBadRequest, 22004},
	{service.ErrMembreNotFound, http.StatusNotFound, 22005},

	// plannings (23xxx)
	{service.ErrPlanningNotFound, http.StatusNotFound, 23001},
	{service.ErrPlanningConflict, http.StatusConflict, 23002},
	{service.ErrPlanningNotEditable, http.StatusConflict, 23003},
	{service.ErrPlanningNotCancelable, http.StatusConflict, 23004},
	{service.ErrInvalidWindow, http.StatusBadRequest, 23005},

	// equipements (24xxx)
	{service.ErrEquipementNotFound, http.StatusNotFound, 24001},
	{service.ErrStockInsuffisant, http.StatusConflict, 24002},
	{service.ErrEquipementInactif, http.StatusBadRequest, 24003},

	// demandes (25xxx)
	{service.ErrDemandeNotFound, http.StatusNotFound, 25001},
	{service.ErrDemandeNotConvertible, http.StatusConflict, 25002},

	// attachements (26xxx)
	{service.ErrAttachementNotFound, http.StatusNotFound, 26001},
	{service.ErrAttachementSigne, http.StatusConflict, 26002},

	// interventions (27xxx)
	{service.ErrInterventionNotFound, http.StatusNotFound, 27001},

	// cross-module
	{service.ErrNotAuthorized, http.StatusForbidden, 40300},
	{service.ErrInvalidTransition, http.StatusConflict, 40901},
	{pkgerrors.ErrOptimisticLock, http.StatusConflict, 40900},
}

// respondError maps a service error onto the response envelope. Unmapped
// errors become an opaque 500; the detail goes to the log only.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	for _, m := range sentinelMappings {
		if errors.Is(err, m.err) {
			response.Error(c, m.status, m.code, m.err.Error())
			return
		}
	}
	logger.Error("unhandled service error",
		zap.String("path", c.Request.URL.Path),
		zap.Error(err))
	response.InternalError(c)
}

// badRequest reports a binding/validation failure.
func badRequest(c *gin.Context, err error) {
	response.ErrorWithDetails(c, http.StatusBadRequest, 40000, "invalid request payload", err.Error())
}
