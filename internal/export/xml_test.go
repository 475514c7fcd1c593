package export

import (
	"strings"
	"testing"
	"time"

	"auditex/internal/model"

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
func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func clientTest() *model.Client {
	return &model.Client{RaisonSociale: "Client SARL", NumeroIF: "11223344"}
}

func factureTest() model.Facture {
	return model.Facture{
		FournisseurIF:         strPtr("55667788"),
		FournisseurRC:         strPtr("RC-1234"),
		FournisseurAdresse:    strPtr("5 avenue Hassan II, Rabat"),
		NumeroFacture:         strPtr("FA-2025-042"),
		DateEmissionFacture:   datePtr(2025, time.January, 15),
		NaturePrestation:      strPtr("Fournitures"),
		MontantTTC:            decimal.RequireFromString("12345.678"),
		DateLivraison:         datePtr(2025, time.January, 20),
		DatePaiementPrevue:    datePtr(2025, time.March, 20),
		MontantPayeHorsDelai:  decPtr("12345.678"),
		DatePaiementHorsDelai: datePtr(2025, time.June, 25),
		ModePaiement:          strPtr("4"),
		ReferencePaiement:     strPtr("VIR-001"),
		NombreMoisRetard:      intPtr(3),
		Amende:                decPtr("580.25"),
	}
}

func TestEncoderXMLStructure(t *testing.T) {
	periode := 2
	d := &model.Declaration{
		TypeDeclaration:   model.TypeTrimestriel,
		Periode:           &periode,
		Annee:             2025,
		ChiffreAffairesN1: decimal.RequireFromString("1500000.99"),
	}

	out, err := EncoderXML(d, clientTest(), []model.Facture{factureTest()})
	require.NoError(t, err)
	s := string(out)

	assert.True(t, strings.HasPrefix(s, "<?xml"))
	assert.Contains(t, s, "<DeclarationDelaiPaiement>")
	assert.Contains(t, s, "<identifiantFiscal>11223344</identifiantFiscal>")
	assert.Contains(t, s, "<annee>2025</annee>")
	assert.Contains(t, s, "<periode>2</periode>")
	assert.Contains(t, s, "<activite>1</activite>")
	// The revenue is truncated, never rounded.
	assert.Contains(t, s, "<chiffreAffaire>1500000</chiffreAffaire>")

	assert.Contains(t, s, "<listeFacturesHorsDelai>")
	assert.Contains(t, s, "<FactureHorsDelai>")
	assert.Contains(t, s, "<numFacture>FA-2025-042</numFacture>")
	assert.Contains(t, s, "<dateEmission>2025-01-15</dateEmission>")
	assert.Contains(t, s, "<montantFactureTtc>12345.68</montantFactureTtc>")
	assert.Contains(t, s, "<montantPayeHorsDelai>12345.68</montantPayeHorsDelai>")
	assert.Contains(t, s, "<datePaiementHorsDelai>2025-06-25</datePaiementHorsDelai>")
	assert.Contains(t, s, "<modePaiement>4</modePaiement>")
}

func TestEncoderXMLPeriodeAnnuelle(t *testing.T) {
	d := &model.Declaration{
		TypeDeclaration:   model.TypeAnnuel,
		Annee:             2025,
		ChiffreAffairesN1: decimal.RequireFromString("1000.00"),
	}
	out, err := EncoderXML(d, clientTest(), nil)
	require.NoError(t, err)
	assert.Contains(t, string(out), "<periode>5</periode>")
}

func TestEncoderXMLOmetLesChampsAbsents(t *testing.T) {
	periode := 1
	d := &model.Declaration{
		TypeDeclaration:   model.TypeTrimestriel,
		Periode:           &periode,
		Annee:             2025,
		ChiffreAffairesN1: decimal.Zero,
	}
	f := factureTest()
	f.MontantNonPaye = nil
	f.DatePaiementConvenue = nil

	out, err := EncoderXML(d, clientTest(), []model.Facture{f})
	require.NoError(t, err)
	s := string(out)
	// Absent optional values omit the leaf entirely — no empty tags.
	assert.NotContains(t, s, "<montantNonEncorePaye>")
	assert.NotContains(t, s, "<dateConvenuePaiementFacture>")
	assert.NotContains(t, s, "></") // no self-adjacent empty leaves anywhere
}

func TestFiltrerHorsDelai(t *testing.T) {
	horsDelai := factureTest()
	dansLesDelais := factureTest()
	dansLesDelais.NombreMoisRetard = intPtr(0)
	sansCalcul := factureTest()
	sansCalcul.NombreMoisRetard = nil

	eligibles := FiltrerHorsDelai([]model.Facture{horsDelai, dansLesDelais, sansCalcul})
	require.Len(t, eligibles, 1)
	assert.Equal(t, 3, *eligibles[0].NombreMoisRetard)
}
