package export

import (
	"bytes"
	"testing"
	"time"
	"unicode/utf8"

	"auditex/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncoderRapportPDF(t *testing.T) {
	periode := 2
	d := &model.Declaration{
		TypeDeclaration:   model.TypeTrimestriel,
		Periode:           &periode,
		Annee:             2025,
		ChiffreAffairesN1: decimal.RequireFromString("1500000.00"),
	}

	out, err := EncoderRapport(d, clientTest(), []model.Facture{factureTest()})
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "output must be a PDF document")
}

func TestEncoderRapportSansFactures(t *testing.T) {
	d := &model.Declaration{
		TypeDeclaration:   model.TypeAnnuel,
		Annee:             2025,
		ChiffreAffairesN1: decimal.Zero,
	}
	out, err := EncoderRapport(d, clientTest(), nil)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestEncoderRapportPagination(t *testing.T) {
	// Enough lines to force a page break; the encoder must not error.
	factures := make([]model.Facture, 60)
	for i := range factures {
		factures[i] = factureTest()
	}
	periode := 4
	d := &model.Declaration{
		TypeDeclaration:   model.TypeTrimestriel,
		Periode:           &periode,
		Annee:             2025,
		ChiffreAffairesN1: decimal.RequireFromString("99.99"),
	}
	out, err := EncoderRapport(d, clientTest(), factures)
	require.NoError(t, err)
	assert.Greater(t, len(out), 1000)
}

func TestDetailsFactureCouvreLesChampsAnnexes(t *testing.T) {
	f := factureTest()
	f.FournisseurICE = strPtr("001234567000089")
	f.FournisseurVilleRC = strPtr("Rabat")
	f.MoisTransaction = intPtr(3)
	f.AnneeTransaction = intPtr(2025)
	f.DelaiPaiementSecteur = strPtr("60 jours")
	f.MontantObjetLitige = decPtr("500.00")
	f.DateRecoursJudiciaire = datePtr(2025, time.July, 1)
	f.MontantDuApresJugement = decPtr("300.00")
	f.DateJugementDefinitif = datePtr(2025, time.August, 15)
	f.MoisSuspensionAmende = intPtr(2)

	details := detailsFacture(&f)
	assert.Contains(t, details, "ICE : 001234567000089")
	assert.Contains(t, details, "RC : RC-1234 (Rabat)")
	assert.Contains(t, details, "Adresse : 5 avenue Hassan II, Rabat")
	assert.Contains(t, details, "Nature : Fournitures")
	assert.Contains(t, details, "Livraison : 2025-01-20")
	assert.Contains(t, details, "Transaction : 03/2025")
	assert.Contains(t, details, "Délai secteur : 60 jours")
	assert.Contains(t, details, "Litige : 500.00")
	assert.Contains(t, details, "Recours judiciaire : 2025-07-01")
	assert.Contains(t, details, "Dû après jugement : 300.00")
	assert.Contains(t, details, "Jugement définitif : 2025-08-15")
	assert.Contains(t, details, "Suspension : 2 mois")
	assert.Contains(t, details, "Réf. paiement : VIR-001")
}

func TestDetailsFactureOmetLesChampsAbsents(t *testing.T) {
	f := model.Facture{MontantTTC: decimal.RequireFromString("100.00")}
	assert.Empty(t, detailsFacture(&f))
}

func TestTronquerNeCoupePasLesRunes(t *testing.T) {
	s := "Société Générale Équipements"
	out := tronquer(s, 10)
	assert.True(t, utf8.ValidString(out))
	assert.Equal(t, 10, len([]rune(out)))
	assert.Equal(t, s, tronquer(s, 100), "strings within the limit pass through untouched")
}
