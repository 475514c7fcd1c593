package service

import (
	"time"

	"auditex/internal/model"

	"github.com/shopspring/decimal"
)

// PolitiqueAmende computes the fine for one invoice line. The schedule is a
// jurisdiction-specific financial rule, so it is injected as a policy; the
// default below follows the Moroccan law 69-21 practice.
type PolitiqueAmende func(moisRetard int, base decimal.Decimal, tauxDirecteur decimal.Decimal, moisSuspendus int) decimal.Decimal

// tauxMensuelSupplementaire is the 0.85 % applied per month of delay beyond
// the first (law 69-21).
var tauxMensuelSupplementaire = decimal.RequireFromString("0.85")

var cent = decimal.NewFromInt(100)

// PolitiqueAmendeLegale is the default schedule: the taux directeur for the
// first effective month of delay, plus 0.85 % of the base per further month.
// Suspended months reduce the effective delay; a fully suspended or
// non-positive delay yields a zero fine.
func PolitiqueAmendeLegale(moisRetard int, base decimal.Decimal, tauxDirecteur decimal.Decimal, moisSuspendus int) decimal.Decimal {
	effectifs := moisRetard - moisSuspendus
	if moisRetard <= 0 || effectifs <= 0 {
		return decimal.Zero
	}
	amende := base.Mul(tauxDirecteur).Div(cent)
	if effectifs > 1 {
		supplement := base.Mul(tauxMensuelSupplementaire).Div(cent).
			Mul(decimal.NewFromInt(int64(effectifs - 1)))
		amende = amende.Add(supplement)
	}
	return amende.Round(2)
}

// DateEcheance resolves the payment due date from whichever payment-due
// group option is filled. ok=false when no option is filled (the validator
// prevents this for accepted records).
func DateEcheance(f *model.Facture) (time.Time, bool) {
	switch {
	case f.DatePaiementPrevue != nil:
		return *f.DatePaiementPrevue, true
	case f.DatePaiementConvenue != nil:
		return *f.DatePaiementConvenue, true
	case f.DatePaiementPrevueSecteur != nil:
		return *f.DatePaiementPrevueSecteur, true
	}
	return time.Time{}, false
}

// MoisRetard counts whole months elapsed between the due date and the
// payment (or reference) event, floored, never negative.
func MoisRetard(echeance, evenement time.Time) int {
	if !evenement.After(echeance) {
		return 0
	}
	mois := (evenement.Year()-echeance.Year())*12 + int(evenement.Month()-echeance.Month())
	if evenement.Day() < echeance.Day() {
		mois--
	}
	if mois < 0 {
		return 0
	}
	return mois
}

// CalculerPenalite derives the two computed fields of a facture: the
// months-late count and the fine. The event date is the late-payment date
// when one exists; for still-unpaid amounts the delay is measured against
// asOf (the save timestamp), so the stored value never depends on when an
// export is generated.
func CalculerPenalite(f *model.Facture, tauxDirecteur decimal.Decimal, asOf time.Time, politique PolitiqueAmende) (int, decimal.Decimal) {
	if politique == nil {
		politique = PolitiqueAmendeLegale
	}

	echeance, ok := DateEcheance(f)
	if !ok {
		return 0, decimal.Zero
	}

	evenement := asOf
	if f.DatePaiementHorsDelai != nil {
		evenement = *f.DatePaiementHorsDelai
	}

	moisRetard := MoisRetard(echeance, evenement)

	suspendus := 0
	if f.MoisSuspensionAmende != nil {
		suspendus = *f.MoisSuspensionAmende
	}

	amende := politique(moisRetard, f.MontantDeBase(), tauxDirecteur, suspendus)
	return moisRetard, amende
}
