// Package export transforms a fully-loaded declaration aggregate into the
// external document formats. Every encoder is a pure, stateless
// transformation producing an in-memory buffer; the caller persists or
// streams it.
package export

import (
	"encoding/xml"
	"strconv"
	"time"

	"auditex/internal/model"

	"github.com/shopspring/decimal"
)

const dateFormat = "2006-01-02"

// activiteNormale is the fixed <activite> value the teleservice expects for
// a standard-activity declarant.
const activiteNormale = 1

// documentDeclaration is the root of the regulator XML. The tag vocabulary
// and ordering are dictated by the downstream system and must match exactly.
type documentDeclaration struct {
	XMLName           xml.Name       `xml:"DeclarationDelaiPaiement"`
	IdentifiantFiscal string         `xml:"identifiantFiscal"`
	Annee             int            `xml:"annee"`
	Periode           int            `xml:"periode"`
	Activite          int            `xml:"activite"`
	ChiffreAffaire    int64          `xml:"chiffreAffaire"`
	ListeFactures     listeFactures  `xml:"listeFacturesHorsDelai"`
}

type listeFactures struct {
	Factures []factureHorsDelai `xml:"FactureHorsDelai"`
}

// factureHorsDelai is one invoice node. Absent values omit the leaf
// entirely — the teleservice rejects empty tags.
type factureHorsDelai struct {
	IdentifiantFiscal         *string `xml:"identifiantFiscal,omitempty"`
	NumRC                     *string `xml:"numRC,omitempty"`
	AdresseSiegeSocial        *string `xml:"adresseSiegeSocial,omitempty"`
	NumFacture                *string `xml:"numFacture,omitempty"`
	DateEmission              *string `xml:"dateEmission,omitempty"`
	NatureMarchandise         *string `xml:"natureMarchandise,omitempty"`
	DateLivraisonMarchandise  *string `xml:"dateLivraisonMarchandise,omitempty"`
	MoisTransaction           *string `xml:"moisTransaction,omitempty"`
	AnneeTransaction          *string `xml:"anneeTransaction,omitempty"`
	DateConstatation          *string `xml:"dateConstatation,omitempty"`
	DatePrevuePaiement        *string `xml:"datePrevuePaiement,omitempty"`
	DateConvenuePaiement      *string `xml:"dateConvenuePaiementFacture,omitempty"`
	DelaiPaiementSecteur      *string `xml:"delaiPaiementSecteurActivite,omitempty"`
	DatePrevueSelonSecteur    *string `xml:"DatePrevueSelonDelaiFixeSecteur,omitempty"`
	MontantFactureTTC         *string `xml:"montantFactureTtc,omitempty"`
	MontantNonEncorePaye      *string `xml:"montantNonEncorePaye,omitempty"`
	MontantPayeHorsDelai      *string `xml:"montantPayeHorsDelai,omitempty"`
	DatePaiementHorsDelai     *string `xml:"datePaiementHorsDelai,omitempty"`
	MontantObjetDeLitige      *string `xml:"montantObjetDeLitige,omitempty"`
	DateRecoursJudiciaire     *string `xml:"dateRecoursJudiciaire,omitempty"`
	MontantApresJugement      *string `xml:"montantApresJugement,omitempty"`
	DateJugementDefinitif     *string `xml:"dateJugementDefinitif,omitempty"`
	ModePaiement              *string `xml:"modePaiement,omitempty"`
	ReferencePaiement         *string `xml:"referencePaiement,omitempty"`
}

// FiltrerHorsDelai keeps only the lines eligible for the regulator export:
// those with a positive months-late count. The spreadsheet and report
// encoders never apply this pre-filter.
func FiltrerHorsDelai(factures []model.Facture) []model.Facture {
	eligibles := make([]model.Facture, 0, len(factures))
	for _, f := range factures {
		if f.EstHorsDelai() {
			eligibles = append(eligibles, f)
		}
	}
	return eligibles
}

// EncoderXML renders the declaration aggregate as the structured regulator
// document, pretty-printed with a deterministic 2-space indent.
func EncoderXML(d *model.Declaration, c *model.Client, factures []model.Facture) ([]byte, error) {
	doc := documentDeclaration{
		IdentifiantFiscal: c.NumeroIF,
		Annee:             d.Annee,
		Periode:           d.PeriodeExport(),
		Activite:          activiteNormale,
		ChiffreAffaire:    d.ChiffreAffairesN1.IntPart(),
		ListeFactures:     listeFactures{Factures: make([]factureHorsDelai, 0, len(factures))},
	}

	for i := range factures {
		doc.ListeFactures.Factures = append(doc.ListeFactures.Factures, encoderFacture(&factures[i]))
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(xml.Header)+len(body)+1)
	out = append(out, xml.Header...)
	out = append(out, body...)
	out = append(out, '\n')
	return out, nil
}

func encoderFacture(f *model.Facture) factureHorsDelai {
	ttc := montantStr(&f.MontantTTC)
	return factureHorsDelai{
		IdentifiantFiscal:        f.FournisseurIF,
		NumRC:                    f.FournisseurRC,
		AdresseSiegeSocial:       f.FournisseurAdresse,
		NumFacture:               f.NumeroFacture,
		DateEmission:             dateStr(f.DateEmissionFacture),
		NatureMarchandise:        f.NaturePrestation,
		DateLivraisonMarchandise: dateStr(f.DateLivraison),
		MoisTransaction:          intStr(f.MoisTransaction),
		AnneeTransaction:         intStr(f.AnneeTransaction),
		DateConstatation:         dateStr(f.DateConstatationService),
		DatePrevuePaiement:       dateStr(f.DatePaiementPrevue),
		DateConvenuePaiement:     dateStr(f.DatePaiementConvenue),
		DelaiPaiementSecteur:     f.DelaiPaiementSecteur,
		DatePrevueSelonSecteur:   dateStr(f.DatePaiementPrevueSecteur),
		MontantFactureTTC:        ttc,
		MontantNonEncorePaye:     montantStr(f.MontantNonPaye),
		MontantPayeHorsDelai:     montantStr(f.MontantPayeHorsDelai),
		DatePaiementHorsDelai:    dateStr(f.DatePaiementHorsDelai),
		MontantObjetDeLitige:     montantStr(f.MontantObjetLitige),
		DateRecoursJudiciaire:    dateStr(f.DateRecoursJudiciaire),
		MontantApresJugement:     montantStr(f.MontantDuApresJugement),
		DateJugementDefinitif:    dateStr(f.DateJugementDefinitif),
		ModePaiement:             f.ModePaiement,
		ReferencePaiement:        f.ReferencePaiement,
	}
}

// ── leaf formatting ──────────────────────────────────────────────────────────

func dateStr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateFormat)
	return &s
}

func intStr(i *int) *string {
	if i == nil {
		return nil
	}
	s := strconv.Itoa(*i)
	return &s
}

func montantStr(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.StringFixed(2)
	return &s
}
