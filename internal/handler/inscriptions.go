package handler

import (
	"net/http"

	"auditex/internal/apierror"
	"auditex/internal/dto"
	"auditex/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type InscriptionsHandler struct{ svc service.InscriptionService }

func NewInscriptionsHandler(svc service.InscriptionService) *InscriptionsHandler {
	return &InscriptionsHandler{svc: svc}
}

// SInscrire godoc
// @Summary Demande d'inscription d'un nouveau collaborateur
// @Tags inscriptions
// @Accept json
// @Produce json
// @Param body body dto.SInscrireRequest true "Demande"
// @Success 201 {object} dto.CollaborateurResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/inscriptions [post]
func (h *InscriptionsHandler) SInscrire(c *gin.Context) {
	var req dto.SInscrireRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.SInscrire(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *InscriptionsHandler) ListerEnAttente(c *gin.Context) {
	resp, err := h.svc.ListerEnAttente(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erreur lors de la liste des inscriptions"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Decider validates or rejects a pending registration, optionally assigning
// clients on validation, and notifies the candidate by email.
func (h *InscriptionsHandler) Decider(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	var req dto.ValiderInscriptionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Decider(c.Request.Context(), id, req)
	if err != nil {
		if !repondreErreurEtat(c, err) {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}
