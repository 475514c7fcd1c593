package service

import (
	"testing"
	"time"

	"auditex/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func TestDateEcheancePriorite(t *testing.T) {
	prevue := datePtr(2025, time.March, 20)
	convenue := datePtr(2025, time.April, 1)
	secteur := datePtr(2025, time.May, 10)

	f := &model.Facture{
		DatePaiementPrevue:        prevue,
		DatePaiementConvenue:      convenue,
		DatePaiementPrevueSecteur: secteur,
	}
	got, ok := DateEcheance(f)
	require.True(t, ok)
	assert.Equal(t, *prevue, got)

	f.DatePaiementPrevue = nil
	got, ok = DateEcheance(f)
	require.True(t, ok)
	assert.Equal(t, *convenue, got)

	f.DatePaiementConvenue = nil
	got, ok = DateEcheance(f)
	require.True(t, ok)
	assert.Equal(t, *secteur, got)

	f.DatePaiementPrevueSecteur = nil
	_, ok = DateEcheance(f)
	assert.False(t, ok)
}

func TestMoisRetard(t *testing.T) {
	tests := []struct {
		nom       string
		echeance  time.Time
		evenement time.Time
		attendu   int
	}{
		{"meme jour", date(2025, time.March, 20), date(2025, time.March, 20), 0},
		{"evenement anterieur", date(2025, time.March, 20), date(2025, time.February, 1), 0},
		{"moins d'un mois", date(2025, time.March, 20), date(2025, time.April, 15), 0},
		{"un mois exact", date(2025, time.March, 20), date(2025, time.April, 20), 1},
		{"presque deux mois", date(2025, time.March, 20), date(2025, time.May, 19), 1},
		{"trois mois", date(2025, time.March, 20), date(2025, time.June, 25), 3},
		{"a cheval sur l'annee", date(2024, time.November, 10), date(2025, time.February, 10), 3},
	}
	for _, tt := range tests {
		t.Run(tt.nom, func(t *testing.T) {
			assert.Equal(t, tt.attendu, MoisRetard(tt.echeance, tt.evenement))
		})
	}
}

func TestPolitiqueAmendeLegale(t *testing.T) {
	base := decimal.RequireFromString("10000.00")
	taux := decimal.RequireFromString("3.00")

	t.Run("aucun retard", func(t *testing.T) {
		assert.True(t, PolitiqueAmendeLegale(0, base, taux, 0).IsZero())
	})

	t.Run("premier mois au taux directeur", func(t *testing.T) {
		// 10000 × 3% = 300.00
		got := PolitiqueAmendeLegale(1, base, taux, 0)
		assert.Equal(t, "300.00", got.StringFixed(2))
	})

	t.Run("mois supplementaires a 0.85%", func(t *testing.T) {
		// 300 + 2 × (10000 × 0.85%) = 300 + 170 = 470.00
		got := PolitiqueAmendeLegale(3, base, taux, 0)
		assert.Equal(t, "470.00", got.StringFixed(2))
	})

	t.Run("suspension reduit le retard effectif", func(t *testing.T) {
		// 3 - 2 = 1 effective month → 300.00
		got := PolitiqueAmendeLegale(3, base, taux, 2)
		assert.Equal(t, "300.00", got.StringFixed(2))
	})

	t.Run("suspension totale annule l'amende", func(t *testing.T) {
		assert.True(t, PolitiqueAmendeLegale(3, base, taux, 3).IsZero())
		assert.True(t, PolitiqueAmendeLegale(2, base, taux, 5).IsZero())
	})
}

func TestCalculerPenalitePayeHorsDelai(t *testing.T) {
	montant := decimal.RequireFromString("10000.00")
	f := &model.Facture{
		MontantTTC:            montant,
		DatePaiementPrevue:    datePtr(2025, time.January, 10),
		MontantPayeHorsDelai:  &montant,
		DatePaiementHorsDelai: datePtr(2025, time.April, 10),
	}
	// asOf in the far future must be ignored: the payment date is the event.
	mois, amende := CalculerPenalite(f, decimal.RequireFromString("3.00"), date(2030, time.January, 1), nil)
	assert.Equal(t, 3, mois)
	assert.Equal(t, "470.00", amende.StringFixed(2))
}

func TestCalculerPenaliteNonPaye(t *testing.T) {
	montant := decimal.RequireFromString("5000.00")
	f := &model.Facture{
		MontantTTC:         montant,
		DatePaiementPrevue: datePtr(2025, time.January, 10),
		MontantNonPaye:     &montant,
	}
	// Unpaid: the delay runs against the save timestamp.
	mois, amende := CalculerPenalite(f, decimal.RequireFromString("3.00"), date(2025, time.March, 10), nil)
	assert.Equal(t, 2, mois)
	// 5000 × 3% + 1 × (5000 × 0.85%) = 150 + 42.50
	assert.Equal(t, "192.50", amende.StringFixed(2))
}

func TestCalculerPenaliteSansEcheance(t *testing.T) {
	montant := decimal.RequireFromString("5000.00")
	f := &model.Facture{MontantTTC: montant, MontantNonPaye: &montant}
	mois, amende := CalculerPenalite(f, decimal.RequireFromString("3.00"), date(2025, time.March, 10), nil)
	assert.Zero(t, mois)
	assert.True(t, amende.IsZero())
}
