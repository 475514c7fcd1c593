package handler

import (
	"net/http"
	"strconv"

	"auditex/internal/apierror"
	"auditex/internal/dto"
	"auditex/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ClientsHandler struct{ svc service.ClientService }

func NewClientsHandler(svc service.ClientService) *ClientsHandler {
	return &ClientsHandler{svc: svc}
}

func (h *ClientsHandler) Creer(c *gin.Context) {
	var req dto.CreerClientRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Creer(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ClientsHandler) Lister(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	resp, err := h.svc.Lister(c.Request.Context(), identite(c), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erreur lors de la liste des clients"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ClientsHandler) Obtenir(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	resp, err := h.svc.Obtenir(c.Request.Context(), identite(c), id)
	if err != nil {
		if !repondreErreurEtat(c, err) {
			c.JSON(http.StatusNotFound, apierror.New("Client introuvable"))
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ClientsHandler) Modifier(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	var req dto.ModifierClientRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Modifier(c.Request.Context(), identite(c), id, req)
	if err != nil {
		if !repondreErreurEtat(c, err) {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AssignerCollaborateurs replaces the set of collaborateurs assigned to a
// client. Admin only — assignment is what drives record visibility.
func (h *ClientsHandler) AssignerCollaborateurs(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	var req dto.AssignerCollaborateursRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AssignerCollaborateurs(c.Request.Context(), id, req)
	if err != nil {
		if !repondreErreurEtat(c, err) {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}
