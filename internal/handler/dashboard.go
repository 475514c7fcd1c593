package handler

import (
	"net/http"

	"auditex/internal/apierror"
	"auditex/internal/service"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct{ svc service.DashboardService }

func NewDashboardHandler(svc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

func (h *DashboardHandler) Obtenir(c *gin.Context) {
	resp, err := h.svc.Obtenir(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erreur lors du chargement du tableau de bord"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
