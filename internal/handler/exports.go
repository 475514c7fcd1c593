package handler

import (
	"fmt"
	"net/http"

	"auditex/internal/apierror"
	"auditex/internal/export"
	"auditex/internal/model"
	"auditex/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ExportsHandler serves the three download formats of a declaration:
// the XML document for the tax portal, the CSV worksheet, and the PDF report.
type ExportsHandler struct{ svc service.DeclarationService }

func NewExportsHandler(svc service.DeclarationService) *ExportsHandler {
	return &ExportsHandler{svc: svc}
}

func (h *ExportsHandler) charger(c *gin.Context) (*model.Declaration, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return nil, false
	}
	d, err := h.svc.ChargerPourExport(c.Request.Context(), identite(c), id)
	if err != nil {
		if !repondreErreurEtat(c, err) {
			c.JSON(http.StatusNotFound, apierror.New("Déclaration introuvable"))
		}
		return nil, false
	}
	return d, true
}

func nomFichier(d *model.Declaration, ext string) string {
	nom := "declaration"
	if d.Client != nil && d.Client.NumeroIF != "" {
		nom += "_" + d.Client.NumeroIF
	}
	if d.Periode != nil {
		return fmt.Sprintf("%s_%d_T%d.%s", nom, d.Annee, *d.Periode, ext)
	}
	return fmt.Sprintf("%s_%d.%s", nom, d.Annee, ext)
}

// XML godoc
// @Summary Export XML de la déclaration (format portail Simpl)
// @Tags exports
// @Produce xml
// @Param id path string true "ID de la déclaration"
// @Param filtre query string false "hors_delai pour ne garder que les factures hors délai"
// @Success 200 {string} string "Document XML"
// @Router /v1/declarations/{id}/export/xml [get]
func (h *ExportsHandler) XML(c *gin.Context) {
	d, ok := h.charger(c)
	if !ok {
		return
	}

	factures := d.Factures
	// The portal only accepts hors-délai lines; the full dump stays
	// available for reviewing work in progress.
	if c.DefaultQuery("filtre", "hors_delai") == "hors_delai" {
		factures = export.FiltrerHorsDelai(factures)
	}

	data, err := export.EncoderXML(d, d.Client, factures)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erreur lors de la génération du XML"))
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+nomFichier(d, "xml")+`"`)
	c.Data(http.StatusOK, "application/xml; charset=utf-8", data)
}

func (h *ExportsHandler) Tableur(c *gin.Context) {
	d, ok := h.charger(c)
	if !ok {
		return
	}
	data, err := export.EncoderTableur(d.Factures)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erreur lors de la génération du tableur"))
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+nomFichier(d, "csv")+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

func (h *ExportsHandler) Rapport(c *gin.Context) {
	d, ok := h.charger(c)
	if !ok {
		return
	}
	data, err := export.EncoderRapport(d, d.Client, d.Factures)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erreur lors de la génération du rapport"))
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+nomFichier(d, "pdf")+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}
