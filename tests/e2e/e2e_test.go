//go:build integration

package e2e

// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v
//
// Covered cycles:
//   - create client → create declaration → save facture batch → exports →
//     submit → mutation lock
//   - taux directeur change re-prices the stored amendes
//   - self-registration → admin validation → login

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"auditex/internal/config"
	"auditex/internal/infra"
	"auditex/internal/model"
	"auditex/internal/router"
	"auditex/internal/worker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Suite setup ──────────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string // admin JWT
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("auditex_test"),
		tcPostgres.WithUsername("auditex"),
		tcPostgres.WithPassword("auditex"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx, testcontainers.WithImage("redis:7-alpine"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:                8000,
		Env:                 "test",
		JWTSecret:           "test-secret-key",
		JWTExpirationHours:  8,
		JWTRefreshHours:     24,
		DatabaseURL:         pgURL,
		RedisURL:            rdURL,
		TauxDirecteurDefaut: "3.00",
		WorkerPoolSize:      1,
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	// Seed the admin account directly: the registration workflow is itself
	// under test and must not be a setup dependency.
	hash, err := bcrypt.GenerateFromPassword([]byte("auditex-e2e"), bcrypt.DefaultCost)
	require.NoError(t, err)
	require.NoError(t, db.Create(&model.Collaborateur{
		Username:          "admin.e2e",
		Email:             "admin@e2e.test",
		Nom:               "Admin E2E",
		PasswordHash:      string(hash),
		Role:              model.RoleAdmin,
		StatutInscription: model.InscriptionValidee,
		Actif:             true,
	}).Error)

	r := router.New(cfg, db, rdb, worker.NewDispatcher(rdb))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "admin.e2e", "password": "auditex-e2e"}), "")
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.AccessToken)

	return &testEnv{server: srv, token: loginBody.AccessToken}
}

func (env *testEnv) creerClient(t *testing.T, numeroIF string) string {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/clients",
		jsonBody(t, map[string]any{
			"raison_sociale": "Société " + numeroIF,
			"numero_if":      numeroIF,
		}), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var client struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &client)
	return client.ID
}

func (env *testEnv) creerDeclaration(t *testing.T, clientID string) string {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/declarations",
		jsonBody(t, map[string]any{
			"client_id":           clientID,
			"type_declaration":    "TRIMESTRIEL",
			"periode":             1,
			"annee":               2025,
			"chiffre_affaires_n1": "1500000.00",
		}), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		Declaration struct {
			ID string `json:"id"`
		} `json:"declaration"`
		Created bool `json:"created"`
	}
	decodeJSON(t, resp, &created)
	require.True(t, created.Created)
	return created.Declaration.ID
}

// ligneHorsDelai is a complete facture paid 3 months late: due 2025-03-20,
// paid 2025-06-20, base 12000.00 at taux 3.00 → amende 564.00.
func ligneHorsDelai() map[string]any {
	return map[string]any{
		"fournisseur_if":             "55667788",
		"fournisseur_raison_sociale": "Fournisseur SARL",
		"numero_facture":             "FA-2025-042",
		"date_emission_facture":      "2025-01-15",
		"montant_ttc":                "12000.00",
		"date_livraison":             "2025-01-20",
		"date_paiement_prevue":       "2025-03-20",
		"montant_paye_hors_delai":    "12000.00",
		"date_paiement_hors_delai":   "2025-06-20",
		"mode_paiement":              "4",
		"reference_paiement":         "VIR-001",
	}
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_CycleDeclaration(t *testing.T) {
	env := setupTestEnv(t)
	clientID := env.creerClient(t, "11223344")
	declID := env.creerDeclaration(t, clientID)

	// Re-posting the same tuple returns the existing declaration.
	resp := do(t, env.server, "POST", "/v1/declarations",
		jsonBody(t, map[string]any{
			"client_id":           clientID,
			"type_declaration":    "TRIMESTRIEL",
			"periode":             1,
			"annee":               2025,
			"chiffre_affaires_n1": "999.00",
		}), env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var existante struct {
		Declaration struct {
			ID string `json:"id"`
		} `json:"declaration"`
		Created bool `json:"created"`
	}
	decodeJSON(t, resp, &existante)
	assert.False(t, existante.Created)
	assert.Equal(t, declID, existante.Declaration.ID)

	// Save one late-paid facture: derived fields computed server-side.
	resp = do(t, env.server, "POST", "/v1/declarations/"+declID+"/factures",
		jsonBody(t, map[string]any{"factures": []map[string]any{ligneHorsDelai()}}), env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var decl struct {
		Factures []struct {
			NombreMoisRetard int    `json:"nombre_mois_retard"`
			Amende           string `json:"amende"`
		} `json:"factures"`
	}
	decodeJSON(t, resp, &decl)
	require.Len(t, decl.Factures, 1)
	assert.Equal(t, 3, decl.Factures[0].NombreMoisRetard)
	assert.Equal(t, "564", strings.TrimRight(strings.TrimRight(decl.Factures[0].Amende, "0"), "."))

	// Regulator XML carries the declaration header and the hors-délai line.
	resp = do(t, env.server, "GET", "/v1/declarations/"+declID+"/export/xml", nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	xmlOut, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(xmlOut), "<DeclarationDelaiPaiement>")
	assert.Contains(t, string(xmlOut), "<identifiantFiscal>11223344</identifiantFiscal>")
	assert.Contains(t, string(xmlOut), "<montantPayeHorsDelai>12000.00</montantPayeHorsDelai>")

	// Spreadsheet holds the header row plus one data row.
	resp = do(t, env.server, "GET", "/v1/declarations/"+declID+"/export/tableur", nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	csvOut, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(csvOut), "IF Fournisseur")
	assert.Contains(t, string(csvOut), "FA-2025-042")

	// Submit, then verify the lock end to end.
	resp = do(t, env.server, "POST", "/v1/declarations/"+declID+"/soumettre", nil, env.token)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, env.server, "PUT", "/v1/declarations/"+declID,
		jsonBody(t, map[string]any{"chiffre_affaires_n1": "1.00"}), env.token)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestE2E_ModifierTauxRecalculeAmendes(t *testing.T) {
	env := setupTestEnv(t)
	clientID := env.creerClient(t, "22334455")
	declID := env.creerDeclaration(t, clientID)

	resp := do(t, env.server, "POST", "/v1/declarations/"+declID+"/factures",
		jsonBody(t, map[string]any{"factures": []map[string]any{ligneHorsDelai()}}), env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Raising the taux directeur re-prices the stored fine:
	// 12000 × 10% + 2 × (12000 × 0.85%) = 1404.00.
	resp = do(t, env.server, "PUT", "/v1/declarations/"+declID,
		jsonBody(t, map[string]any{"taux_directeur": "10.00"}), env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, env.server, "GET", "/v1/declarations/"+declID, nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var decl struct {
		Factures []struct {
			Amende string `json:"amende"`
		} `json:"factures"`
	}
	decodeJSON(t, resp, &decl)
	require.Len(t, decl.Factures, 1)
	assert.Equal(t, "1404", strings.TrimRight(strings.TrimRight(decl.Factures[0].Amende, "0"), "."))
}

func TestE2E_InscriptionPuisValidation(t *testing.T) {
	env := setupTestEnv(t)

	resp := do(t, env.server, "POST", "/v1/inscriptions",
		jsonBody(t, map[string]any{
			"username": "nouveau.collab",
			"email":    "nouveau@e2e.test",
			"nom":      "Nouveau Collaborateur",
			"password": "motdepasse1",
		}), "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var inscription struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &inscription)

	// Pending accounts cannot log in.
	resp = do(t, env.server, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "nouveau.collab", "password": "motdepasse1"}), "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, env.server, "POST", "/v1/inscriptions/"+inscription.ID+"/decision",
		jsonBody(t, map[string]any{"action": "validate"}), env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var validee struct {
		StatutInscription string `json:"statut_inscription"`
		Actif             bool   `json:"actif"`
	}
	decodeJSON(t, resp, &validee)
	assert.Equal(t, model.InscriptionValidee, validee.StatutInscription)
	assert.True(t, validee.Actif)

	resp = do(t, env.server, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "nouveau.collab", "password": "motdepasse1"}), "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}
