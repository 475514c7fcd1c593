package worker

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntreeDLQPorteLeContexteDeTriage(t *testing.T) {
	payload := json.RawMessage(`{"to_email":"candidat@exemple.ma","subject":"Inscription validée"}`)

	e := nouvelleEntreeDLQ(QueueNotification, "notification", "candidat@exemple.ma", payload, "smtp down", 3)
	assert.Equal(t, QueueNotification, e.FileOrigine)
	assert.Equal(t, "notification", e.TypeJob)
	assert.Equal(t, "candidat@exemple.ma", e.Destinataire)
	assert.Equal(t, "smtp down", e.Raison)
	assert.Equal(t, 3, e.Tentatives)
	assert.WithinDuration(t, time.Now().UTC(), e.EchoueeLe, time.Minute)

	// The entry survives the redis list round-trip intact.
	data, err := json.Marshal(e)
	require.NoError(t, err)
	var relue DLQEntry
	require.NoError(t, json.Unmarshal(data, &relue))
	assert.Equal(t, e.Destinataire, relue.Destinataire)
	assert.JSONEq(t, string(payload), string(relue.Payload))
}
