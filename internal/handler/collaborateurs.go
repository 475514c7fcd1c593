package handler

import (
	"net/http"

	"auditex/internal/apierror"
	"auditex/internal/dto"
	"auditex/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CollaborateursHandler struct{ svc service.AuthService }

func NewCollaborateursHandler(svc service.AuthService) *CollaborateursHandler {
	return &CollaborateursHandler{svc: svc}
}

func (h *CollaborateursHandler) Creer(c *gin.Context) {
	var req dto.CreerCollaborateurRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreerCollaborateur(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CollaborateursHandler) Lister(c *gin.Context) {
	inclureInactifs := c.Query("inclure_inactifs") == "true"
	resp, err := h.svc.ListerCollaborateurs(c.Request.Context(), inclureInactifs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erreur lors de la liste des collaborateurs"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CollaborateursHandler) Modifier(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	var req dto.ModifierCollaborateurRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ModifierCollaborateur(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CollaborateursHandler) Desactiver(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	if err := h.svc.DesactiverCollaborateur(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
