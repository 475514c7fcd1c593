package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"auditex/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncoderTableurEnTetes(t *testing.T) {
	out, err := EncoderTableur(nil)
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, EnTetesTableur, rows[0])
	assert.Len(t, rows[0], 12)
}

func TestEncoderTableurLignes(t *testing.T) {
	paye := factureTest()
	nonPaye := factureTest()
	nonPaye.MontantPayeHorsDelai = nil
	nonPaye.DatePaiementHorsDelai = nil
	nonPaye.MontantNonPaye = decPtr("4000.00")
	nonPaye.NombreMoisRetard = nil
	nonPaye.Amende = nil

	out, err := EncoderTableur([]model.Facture{paye, nonPaye})
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// Stored order is preserved: no filtering, no re-sort.
	assert.Equal(t, []string{
		"55667788", "", "FA-2025-042", "2025-01-15", "12345.68",
		"2025-03-20", "", "2025-06-25", "", "12345.68", "3", "580.25",
	}, rows[1])
	assert.Equal(t, []string{
		"55667788", "", "FA-2025-042", "2025-01-15", "12345.68",
		"2025-03-20", "", "", "4000.00", "", "", "",
	}, rows[2])
}
