package service

import (
	"testing"

	"auditex/internal/dto"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// ligneComplete returns a row satisfying every rule: base fields present,
// one delivery option, one payment-due option, one amount option.
func ligneComplete() dto.FactureInput {
	return dto.FactureInput{
		FournisseurIF:            strPtr("12345678"),
		FournisseurICE:           strPtr("001234567000089"),
		FournisseurRaisonSociale: strPtr("Fournisseur SARL"),
		FournisseurRC:            strPtr("98765"),
		FournisseurAdresse:       strPtr("12 rue Exemple, Casablanca"),
		FournisseurVilleRC:       strPtr("Casablanca"),
		NumeroFacture:            strPtr("FA-2025-001"),
		DateEmissionFacture:      strPtr("2025-01-15"),
		NaturePrestation:         strPtr("Prestation de services"),
		MontantTTC:               decPtr("12000.00"),
		DateLivraison:            strPtr("2025-01-20"),
		DatePaiementPrevue:       strPtr("2025-03-20"),
		MontantNonPaye:           decPtr("12000.00"),
	}
}

func TestValiderFactureLigneComplete(t *testing.T) {
	f := ligneComplete()
	assert.Nil(t, ValiderFacture(&f, true))
}

func TestValiderFactureLigneNonModifiee(t *testing.T) {
	// An untouched row is accepted vacuously, even though empty.
	f := dto.FactureInput{}
	assert.Nil(t, ValiderFacture(&f, false))
}

func TestValiderFactureChampsDeBaseRequis(t *testing.T) {
	f := ligneComplete()
	f.FournisseurIF = nil
	f.MontantTTC = nil

	ve := ValiderFacture(&f, true)
	require.NotNil(t, ve)
	assert.Equal(t, "Le champ 'N° d'IF' est obligatoire.", ve.Fields["fournisseur_if"])
	assert.Equal(t, "Le champ 'Montant TTC' est obligatoire.", ve.Fields["montant_ttc"])
}

func TestValiderFactureBlancsTraitesCommeVides(t *testing.T) {
	f := ligneComplete()
	f.FournisseurIF = strPtr("   ")

	ve := ValiderFacture(&f, true)
	require.NotNil(t, ve)
	assert.Contains(t, ve.Fields, "fournisseur_if")
}

func TestValiderFactureGroupeLivraison(t *testing.T) {
	t.Run("aucune option", func(t *testing.T) {
		f := ligneComplete()
		f.DateLivraison = nil
		ve := ValiderFacture(&f, true)
		require.NotNil(t, ve)
		assert.Contains(t, ve.NonField,
			"Info Livraison : Veuillez remplir soit la 'Date Livraison', soit 'Mois/Année', soit la 'Date Constatation Service'.")
	})

	t.Run("deux options", func(t *testing.T) {
		f := ligneComplete()
		f.DateConstatationService = strPtr("2025-01-25")
		ve := ValiderFacture(&f, true)
		require.NotNil(t, ve)
		assert.Contains(t, ve.NonField,
			"Info Livraison : Veuillez ne remplir qu'une seule des options suivantes : 'Date Livraison', 'Mois/Année', ou 'Date Constatation Service'.")
	})

	t.Run("mois sans annee ne compte pas", func(t *testing.T) {
		f := ligneComplete()
		f.DateLivraison = nil
		f.MoisTransaction = intPtr(3)
		// annee_transaction missing: the pair is incomplete, so no option filled
		ve := ValiderFacture(&f, true)
		require.NotNil(t, ve)
		assert.NotEmpty(t, ve.NonField)
	})

	t.Run("paire mois annee complete", func(t *testing.T) {
		f := ligneComplete()
		f.DateLivraison = nil
		f.MoisTransaction = intPtr(3)
		f.AnneeTransaction = intPtr(2025)
		assert.Nil(t, ValiderFacture(&f, true))
	})
}

func TestValiderFactureGroupePaiement(t *testing.T) {
	t.Run("aucune option", func(t *testing.T) {
		f := ligneComplete()
		f.DatePaiementPrevue = nil
		ve := ValiderFacture(&f, true)
		require.NotNil(t, ve)
		assert.NotEmpty(t, ve.NonField)
	})

	t.Run("prevue et convenue en conflit", func(t *testing.T) {
		f := ligneComplete()
		f.DatePaiementConvenue = strPtr("2025-04-01")
		ve := ValiderFacture(&f, true)
		require.NotNil(t, ve)
		assert.Contains(t, ve.NonField,
			"Info Paiement : Veuillez ne remplir qu'une seule des options suivantes : 'Date Paiement Prévue', 'Date Paiement Convenue', ou 'Délai/Date Secteur'.")
	})

	t.Run("paire secteur complete", func(t *testing.T) {
		f := ligneComplete()
		f.DatePaiementPrevue = nil
		f.DelaiPaiementSecteur = strPtr("60 jours")
		f.DatePaiementPrevueSecteur = strPtr("2025-03-15")
		assert.Nil(t, ValiderFacture(&f, true))
	})
}

func TestValiderFactureGroupeMontant(t *testing.T) {
	t.Run("les deux montants en conflit", func(t *testing.T) {
		f := ligneComplete()
		f.MontantPayeHorsDelai = decPtr("5000.00")
		f.DatePaiementHorsDelai = strPtr("2025-06-01")
		f.ModePaiement = strPtr("4")
		f.ReferencePaiement = strPtr("VIR-123")
		ve := ValiderFacture(&f, true)
		require.NotNil(t, ve)
		assert.Contains(t, ve.NonField,
			"Info Montant : Veuillez ne remplir qu'un seul des deux champs : 'Montant Non Payé' ou 'Montant Payé Hors Délai'.")
	})

	t.Run("montant zero est fourni", func(t *testing.T) {
		// Presence, not positivity, is what counts: an explicit zero fills the group.
		f := ligneComplete()
		f.MontantNonPaye = decPtr("0.00")
		assert.Nil(t, ValiderFacture(&f, true))
	})

	t.Run("date hors delai requise avec le montant", func(t *testing.T) {
		f := ligneComplete()
		f.MontantNonPaye = nil
		f.MontantPayeHorsDelai = decPtr("5000.00")
		f.ModePaiement = strPtr("4")
		f.ReferencePaiement = strPtr("VIR-123")
		ve := ValiderFacture(&f, true)
		require.NotNil(t, ve)
		assert.Equal(t, "Ce champ est requis avec le 'Montant Payé Hors Délai'.",
			ve.Fields["date_paiement_hors_delai"])
	})

	t.Run("date hors delai interdite sans le montant", func(t *testing.T) {
		f := ligneComplete()
		f.DatePaiementHorsDelai = strPtr("2025-06-01")
		ve := ValiderFacture(&f, true)
		require.NotNil(t, ve)
		assert.Equal(t, "Ce champ doit être vide si le 'Montant Payé Hors Délai' est vide.",
			ve.Fields["date_paiement_hors_delai"])
	})
}

func TestValiderFactureLitige(t *testing.T) {
	t.Run("montant positif exige la section complete", func(t *testing.T) {
		f := ligneComplete()
		f.MontantObjetLitige = decPtr("3000.00")
		ve := ValiderFacture(&f, true)
		require.NotNil(t, ve)
		assert.Contains(t, ve.Fields, "date_recours_judiciaire")
		assert.Contains(t, ve.Fields, "montant_du_apres_jugement")
		assert.Contains(t, ve.Fields, "date_jugement_definitif")
	})

	t.Run("montant zero n'active pas la section", func(t *testing.T) {
		f := ligneComplete()
		f.MontantObjetLitige = decPtr("0.00")
		assert.Nil(t, ValiderFacture(&f, true))
	})
}

func TestValiderFactureModePaiement(t *testing.T) {
	f := ligneComplete()
	f.MontantNonPaye = nil
	f.MontantPayeHorsDelai = decPtr("5000.00")
	f.DatePaiementHorsDelai = strPtr("2025-06-01")

	ve := ValiderFacture(&f, true)
	require.NotNil(t, ve)
	assert.Contains(t, ve.Fields, "mode_paiement")
	assert.Contains(t, ve.Fields, "reference_paiement")
}

func TestValiderFactureDateInvalide(t *testing.T) {
	f := ligneComplete()
	f.DateEmissionFacture = strPtr("15/01/2025")

	ve := ValiderFacture(&f, true)
	require.NotNil(t, ve)
	assert.Equal(t, "Format de date invalide (AAAA-MM-JJ attendu).",
		ve.Fields["date_emission_facture"])
}

func TestValiderFactureCollecteToutesLesErreurs(t *testing.T) {
	// A fully empty but "changed" row reports every violated rule at once.
	f := dto.FactureInput{FournisseurIF: strPtr("X")}
	f.FournisseurIF = nil
	f.NumeroFacture = strPtr("FA-1")

	ve := ValiderFacture(&f, true)
	require.NotNil(t, ve)
	assert.GreaterOrEqual(t, len(ve.Fields), 9)
	assert.GreaterOrEqual(t, len(ve.NonField), 3)
}
