package export

import (
	"bytes"
	"fmt"
	"strings"

	"auditex/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// EncoderRapport renders the declaration and all its invoice lines as a
// printable A4-landscape report. Purely presentational: same field family as
// the structured document, no filtering, in-memory output.
func EncoderRapport(d *model.Declaration, c *model.Client, factures []model.Facture) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 12)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 20 // total margins = 20mm

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, "Déclaration des délais de paiement", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	titre := fmt.Sprintf("Déclaration annuelle — %d", d.Annee)
	if d.TypeDeclaration == model.TypeTrimestriel && d.Periode != nil {
		titre = fmt.Sprintf("Déclaration trimestrielle — T%d %d", *d.Periode, d.Annee)
	}
	pdf.CellFormat(contentW, 6, titre, "", 1, "C", false, 0, "")
	pdf.Ln(3)

	// ── Declaration block ────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW, 5, c.RaisonSociale, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, "Identifiant fiscal : "+c.NumeroIF, "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, "Chiffre d'affaires N-1 : "+d.ChiffreAffairesN1.StringFixed(2)+" MAD", "", 1, "L", false, 0, "")
	if d.TauxDirecteur != nil {
		pdf.CellFormat(contentW, 5, "Taux directeur : "+d.TauxDirecteur.StringFixed(2)+" %", "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(contentW, 5, "Statut : "+d.Statut, "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.Line(10, pdf.GetY(), pageW-10, pdf.GetY())
	pdf.Ln(2)

	// ── Facture table header ─────────────────────────────────────────────────
	type colonne struct {
		label string
		width float64
	}
	colonnes := []colonne{
		{"IF", 0.07},
		{"Raison Sociale", 0.15},
		{"N° Facture", 0.08},
		{"Émission", 0.08},
		{"TTC", 0.08},
		{"Échéance", 0.08},
		{"Paiement", 0.08},
		{"Non Payé", 0.08},
		{"Hors Délai", 0.08},
		{"Mode", 0.05},
		{"Mois", 0.05},
		{"Amende", 0.12},
	}

	enTete := func() {
		pdf.SetFont("Helvetica", "B", 7)
		for _, col := range colonnes {
			pdf.CellFormat(contentW*col.width, 6, col.label, "B", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	enTete()

	// ── Facture rows ─────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 7)
	for i := range factures {
		f := &factures[i]

		// Échéance is whichever due-date option was filled
		echeance := deref(dateStr(f.DatePaiementPrevue))
		if echeance == "" {
			echeance = deref(dateStr(f.DatePaiementConvenue))
		}
		if echeance == "" {
			echeance = deref(dateStr(f.DatePaiementPrevueSecteur))
		}

		mode := ""
		if f.ModePaiement != nil {
			mode = model.ModesPaiement[*f.ModePaiement]
		}

		cellules := []string{
			deref(f.FournisseurIF),
			tronquer(deref(f.FournisseurRaisonSociale), 28),
			tronquer(deref(f.NumeroFacture), 14),
			deref(dateStr(f.DateEmissionFacture)),
			f.MontantTTC.StringFixed(2),
			echeance,
			deref(dateStr(f.DatePaiementHorsDelai)),
			deref(montantStr(f.MontantNonPaye)),
			deref(montantStr(f.MontantPayeHorsDelai)),
			mode,
			moisRetardStr(f.NombreMoisRetard),
			deref(montantStr(f.Amende)),
		}
		for j, col := range colonnes {
			pdf.CellFormat(contentW*col.width, 5, cellules[j], "", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)

		// Second line per facture: the fields the table columns cannot
		// carry, so the report covers the same field family as the
		// structured document.
		if details := detailsFacture(f); details != "" {
			pdf.SetFont("Helvetica", "I", 6)
			pdf.CellFormat(4, 3.2, "", "", 0, "L", false, 0, "")
			pdf.MultiCell(contentW-4, 3.2, details, "", "L", false)
			pdf.SetFont("Helvetica", "", 7)
		}

		if pdf.GetY() > 180 {
			pdf.AddPage()
			enTete()
			pdf.SetFont("Helvetica", "", 7)
		}
	}

	if len(factures) == 0 {
		pdf.CellFormat(contentW, 6, "Aucune facture.", "", 1, "L", false, 0, "")
	}

	// ── Totals ───────────────────────────────────────────────────────────────
	pdf.Ln(2)
	pdf.Line(10, pdf.GetY(), pageW-10, pdf.GetY())
	pdf.Ln(2)

	totalAmendes := totalAmende(factures)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW, 6, fmt.Sprintf("Total des amendes : %s MAD — %d facture(s)", totalAmendes, len(factures)), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// detailsFacture renders the supplier, delivery, sector-delay, litige and
// payment-reference fields absent from the table columns as one compact
// "label : valeur" line. Absent fields are skipped entirely.
func detailsFacture(f *model.Facture) string {
	var parts []string
	ajouter := func(label, val string) {
		if val != "" {
			parts = append(parts, label+" : "+val)
		}
	}

	ajouter("ICE", deref(f.FournisseurICE))
	rc := deref(f.FournisseurRC)
	if ville := deref(f.FournisseurVilleRC); ville != "" {
		if rc != "" {
			rc += " (" + ville + ")"
		} else {
			rc = ville
		}
	}
	ajouter("RC", rc)
	ajouter("Adresse", deref(f.FournisseurAdresse))
	ajouter("Nature", deref(f.NaturePrestation))
	ajouter("Livraison", deref(dateStr(f.DateLivraison)))
	if f.MoisTransaction != nil && f.AnneeTransaction != nil {
		parts = append(parts, fmt.Sprintf("Transaction : %02d/%d", *f.MoisTransaction, *f.AnneeTransaction))
	}
	ajouter("Constatation", deref(dateStr(f.DateConstatationService)))
	ajouter("Délai secteur", deref(f.DelaiPaiementSecteur))
	ajouter("Échéance secteur", deref(dateStr(f.DatePaiementPrevueSecteur)))
	ajouter("Litige", deref(montantStr(f.MontantObjetLitige)))
	ajouter("Recours judiciaire", deref(dateStr(f.DateRecoursJudiciaire)))
	ajouter("Dû après jugement", deref(montantStr(f.MontantDuApresJugement)))
	ajouter("Jugement définitif", deref(dateStr(f.DateJugementDefinitif)))
	if f.MoisSuspensionAmende != nil {
		parts = append(parts, fmt.Sprintf("Suspension : %d mois", *f.MoisSuspensionAmende))
	}
	ajouter("Réf. paiement", deref(f.ReferencePaiement))

	return strings.Join(parts, " | ")
}

// tronquer shortens s to max runes. Rune-based: raisons sociales routinely
// carry accented characters and a byte slice could cut one in half.
func tronquer(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

func totalAmende(factures []model.Facture) string {
	total := decimal.Zero
	for i := range factures {
		if factures[i].Amende != nil {
			total = total.Add(*factures[i].Amende)
		}
	}
	return total.StringFixed(2)
}
