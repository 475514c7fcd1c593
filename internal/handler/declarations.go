package handler

import (
	"errors"
	"net/http"

	"auditex/internal/apierror"
	"auditex/internal/dto"
	"auditex/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DeclarationsHandler struct {
	svc       service.DeclarationService
	dashboard service.DashboardService
}

func NewDeclarationsHandler(svc service.DeclarationService, dashboard service.DashboardService) *DeclarationsHandler {
	return &DeclarationsHandler{svc: svc, dashboard: dashboard}
}

// Creer godoc
// @Summary Créer une déclaration (ou retourner l'existante)
// @Tags declarations
// @Accept json
// @Produce json
// @Param body body dto.CreerDeclarationRequest true "Déclaration"
// @Success 200 {object} dto.CreerDeclarationResponse "Une déclaration identique existe déjà"
// @Success 201 {object} dto.CreerDeclarationResponse
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/declarations [post]
func (h *DeclarationsHandler) Creer(c *gin.Context) {
	var req dto.CreerDeclarationRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, created, err := h.svc.CreerOuObtenir(c.Request.Context(), identite(c), req)
	if err != nil {
		if !repondreErreurEtat(c, err) {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		}
		return
	}

	status := http.StatusOK // existing declaration — caller should redirect
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, dto.CreerDeclarationResponse{Declaration: *resp, Created: created})
}

func (h *DeclarationsHandler) Lister(c *gin.Context) {
	var filter dto.DeclarationFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Lister(c.Request.Context(), identite(c), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erreur lors de la liste des déclarations"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DeclarationsHandler) Obtenir(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	resp, err := h.svc.Obtenir(c.Request.Context(), identite(c), id)
	if err != nil {
		if !repondreErreurEtat(c, err) {
			c.JSON(http.StatusNotFound, apierror.New("Déclaration introuvable"))
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DeclarationsHandler) Modifier(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	var req dto.ModifierDeclarationRequest
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

// EnregistrerFactures godoc
// @Summary Enregistrer un lot de factures (tout ou rien)
// @Tags declarations
// @Accept json
// @Produce json
// @Param id path string true "ID de la déclaration"
// @Param body body dto.EnregistrerFacturesRequest true "Lot de factures"
// @Success 200 {object} dto.DeclarationResponse
// @Failure 409 {object} apierror.APIError "Déclaration verrouillée"
// @Failure 422 {object} map[string]interface{} "Erreurs par ligne"
// @Router /v1/declarations/{id}/factures [post]
func (h *DeclarationsHandler) EnregistrerFactures(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	var req dto.EnregistrerFacturesRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.EnregistrerFactures(c.Request.Context(), identite(c), id, req)
	if err != nil {
		var lignes *service.ErreursLignes
		if errors.As(err, &lignes) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"detail": lignes.Error(),
				"lignes": lignes.Lignes,
			})
			return
		}
		if !repondreErreurEtat(c, err) {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		}
		return
	}
	h.dashboard.Invalider(c.Request.Context())
	c.JSON(http.StatusOK, resp)
}

// AttacherFacture saves a single invoice line through the batch path.
func (h *DeclarationsHandler) AttacherFacture(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	var input dto.FactureInput
	if !bindAndValidate(c, &input) {
		return
	}
	resp, err := h.svc.AttacherFacture(c.Request.Context(), identite(c), id, input)
	if err != nil {
		var lignes *service.ErreursLignes
		if errors.As(err, &lignes) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"detail": lignes.Error(),
				"lignes": lignes.Lignes,
			})
			return
		}
		if !repondreErreurEtat(c, err) {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		}
		return
	}
	h.dashboard.Invalider(c.Request.Context())
	c.JSON(http.StatusOK, resp)
}

// Soumettre transitions DRAFT → SUBMITTED. Irreversible.
func (h *DeclarationsHandler) Soumettre(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	if err := h.svc.Soumettre(c.Request.Context(), identite(c), id); err != nil {
		if !repondreErreurEtat(c, err) {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		}
		return
	}
	h.dashboard.Invalider(c.Request.Context())
	c.Status(http.StatusNoContent)
}
