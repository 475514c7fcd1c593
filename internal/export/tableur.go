package export

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"auditex/internal/model"
)

// EnTetesTableur are the 12 fixed column labels, in the fixed order the
// downstream spreadsheet contract requires.
var EnTetesTableur = []string{
	"IF Fournisseur",
	"Raison Sociale",
	"N° Facture",
	"Date Émission",
	"Montant TTC",
	"Date Paiement Prévue",
	"Date Paiement Convenue",
	"Date Paiement Hors Délai",
	"Montant Non Payé",
	"Montant Payé Hors Délai",
	"Nombre Mois Retard",
	"Amende",
}

// EncoderTableur renders the invoice lines as CSV: the fixed header row plus
// one row per facture, in natural stored order, no filtering, no re-sort.
func EncoderTableur(factures []model.Facture) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(EnTetesTableur); err != nil {
		return nil, err
	}

	for i := range factures {
		f := &factures[i]
		row := []string{
			deref(f.FournisseurIF),
			deref(f.FournisseurRaisonSociale),
			deref(f.NumeroFacture),
			deref(dateStr(f.DateEmissionFacture)),
			f.MontantTTC.StringFixed(2),
			deref(dateStr(f.DatePaiementPrevue)),
			deref(dateStr(f.DatePaiementConvenue)),
			deref(dateStr(f.DatePaiementHorsDelai)),
			deref(montantStr(f.MontantNonPaye)),
			deref(montantStr(f.MontantPayeHorsDelai)),
			moisRetardStr(f.NombreMoisRetard),
			deref(montantStr(f.Amende)),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func moisRetardStr(i *int) string {
	if i == nil {
		return ""
	}
	return strconv.Itoa(*i)
}
