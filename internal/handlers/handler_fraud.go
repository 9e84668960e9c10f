package handlers

import (
	"net/http"

	"github.com/NovaBankHQ/nova_banking_app/internal/core/domain"
	portssvc "github.com/NovaBankHQ/nova_banking_app/internal/core/ports/services"
	"github.com/NovaBankHQ/nova_banking_app/internal/dto"
	"github.com/gin-gonic/gin"
)

// fraudHandler exposes the fraud sentinel's alert surface.
type fraudHandler struct {
	fraudService portssvc.FraudSvcFacade
}

// newFraudHandler creates a new fraudHandler.
func newFraudHandler(fs portssvc.FraudSvcFacade) *fraudHandler {
	return &fraudHandler{fraudService: fs}
}

// registerFraudRoutes registers the caller-facing alert routes.
func registerFraudRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newFraudHandler(services.Fraud)

	rg.GET("/fraud/alerts", h.listOwnAlerts)
}

// registerAdminFraudRoutes registers the admin review surface.
func registerAdminFraudRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newFraudHandler(services.Fraud)

	alerts := rg.Group("/fraud/alerts")
	{
		alerts.GET("", h.listAlerts)
		alerts.POST("/:id/resolve", h.resolveAlert)
	}
}

// listOwnAlerts godoc
// @Summary List the caller's fraud alerts
// @Tags fraud
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} dto.ListFraudAlertsResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /fraud/alerts [get]
func (h *fraudHandler) listOwnAlerts(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	alerts, err := h.fraudService.ListAlertsForUser(c.Request.Context(), userID, params.Limit, params.Offset)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListFraudAlertsResponse(alerts))
}

// listAlerts godoc
// @Summary List fraud alerts (admin)
// @Tags admin
// @Produce json
// @Param status query string false "Filter by status" Enums(FLAGGED, PENDING, RESOLVED)
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} dto.ListFraudAlertsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/fraud/alerts [get]
func (h *fraudHandler) listAlerts(c *gin.Context) {
	var params dto.ListFraudAlertsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	alerts, err := h.fraudService.ListAlerts(c.Request.Context(), domain.FraudAlertStatus(params.Status), params.Limit, params.Offset)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListFraudAlertsResponse(alerts))
}

// resolveAlert godoc
// @Summary Resolve a fraud alert (admin)
// @Tags admin
// @Produce json
// @Param id path string true "Alert ID"
// @Success 204 "Resolved"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Already resolved"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/fraud/alerts/{id}/resolve [post]
func (h *fraudHandler) resolveAlert(c *gin.Context) {
	adminID, ok := callerID(c)
	if !ok {
		return
	}

	if err := h.fraudService.ResolveAlert(c.Request.Context(), c.Param("id"), adminID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
