package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoicer/internal/domain"
)

// setupEnv apunta la configuración a un Toggl falso y a directorios temporales.
func setupEnv(t *testing.T) (outDir string) {
	t.Helper()
	toggl := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "secret" || pass != "api_token" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{
				"client_name": "Acme", "project_name": "Dev", "description": "API work",
				"duration": 3600, "start": "2025-01-10T09:00:00Z", "stop": "2025-01-10T10:00:00Z",
			},
			{
				"client_name": "Acme", "project_name": "Dev", "description": "Review",
				"duration": 1800, "start": "2025-01-11T09:00:00Z", "stop": "2025-01-11T09:30:00Z",
			},
			{
				"client_name": "Acme", "project_name": "Dev", "description": "running",
				"duration": -1736500000, "start": "2025-01-12T09:00:00Z", "stop": nil,
			},
		})
	}))
	t.Cleanup(toggl.Close)

	dir := t.TempDir()
	outDir = filepath.Join(dir, "invoices")
	t.Setenv("APP_ENV", "production")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(dir, "db.sqlite"))
	t.Setenv("TOGGL_API_TOKEN", "secret")
	t.Setenv("TOGGL_BASE_URL", toggl.URL)
	t.Setenv("INVOICE_TIMEZONE", "UTC")
	t.Setenv("CONTRACTS_PATH", filepath.Join("..", "..", "internal", "infrastructure", "contracts", "testdata", "contracts.yaml"))
	t.Setenv("OUTPUT_DIR", outDir)
	return outDir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	svc := &services{}
	cmd := newRootCmd(svc)
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.ExecuteContext(context.Background())
	svc.close()
	return out.String(), err
}

func TestCLI_FlujoCompleto(t *testing.T) {
	outDir := setupEnv(t)

	out, err := run(t, "generate", "-m", "2025-01")
	require.NoError(t, err)
	assert.Contains(t, out, "for Acme")
	assert.Contains(t, out, "for Globex")
	assert.FileExists(t, filepath.Join(outDir, "invoice_Acme_2025-01.pdf"))
	assert.FileExists(t, filepath.Join(outDir, "invoice_Globex_2025-01.pdf"))

	out, err = run(t, "custom", "-c", "Globex",
		"-i", `[{"description":"Workshop","qty":2,"unitPrice":50}]`,
		"--issue-date", "2025-02-01", "--due-date", "2025-03-03")
	require.NoError(t, err)
	assert.Contains(t, out, "Invoice ID:     3")
	assert.Contains(t, out, "Invoice number: JD3")
	assert.FileExists(t, filepath.Join(outDir, "custom_invoice_Globex_2025-02-01.pdf"))

	out, err = run(t, "list", "-l", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "NUMBER")
	assert.Contains(t, out, "JD3")
	assert.NotContains(t, out, "Acme")

	out, err = run(t, "list", "-c", "Acme")
	require.NoError(t, err)
	assert.Contains(t, out, "generated")

	out, err = run(t, "view", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Invoice JD3")
	assert.Contains(t, out, "Workshop")
	assert.Contains(t, out, "2025-02-01")
}

func TestCLI_Errores(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "generate", "-m", "2025-01", "-c", "Initech")
	assert.ErrorIs(t, err, domain.ErrContractNotFound)

	_, err = run(t, "generate", "-m", "enero")
	assert.ErrorIs(t, err, domain.ErrInvalidMonth)

	_, err = run(t, "custom")
	assert.Error(t, err)

	_, err = run(t, "custom", "-c", "Acme", "-i", `[{"description":"x","qty":0,"unitPrice":1}]`)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = run(t, "view", "42")
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 1, strings.Count(err.Error(), "invoice 42"))

	_, err = run(t, "view", "abc")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCLI_ContratosInexistentes(t *testing.T) {
	setupEnv(t)
	t.Setenv("CONTRACTS_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := run(t, "generate")
	assert.ErrorIs(t, err, domain.ErrConfigRead)

	_, statErr := os.Stat(os.Getenv("OUTPUT_DIR"))
	assert.True(t, os.IsNotExist(statErr))
}

// Acme solo tiene Retainer: las horas de Dev no se pueden facturar, Globex sí sale.
const partialContracts = `
owner:
  name: Jane Doe
  address: Gedimino pr. 1
  city: Vilnius
  country: Lithuania
  iban: LT121000011101001000
  invoice:
    prefix: JD
contracts:
  - name: Acme
    address: 1 Loop Road
    city: Springfield
    country: USA
    notice: 15
    services:
      - name: Retainer
        price: 500
        type: fixed
  - name: Globex
    address: 5 Cypress Creek
    city: Cypress Creek
    country: USA
    notice: 30
    services:
      - name: Consulting
        price: 95.5
        type: hourly
`

func TestCLI_GenerateFalloParcial(t *testing.T) {
	outDir := setupEnv(t)
	path := filepath.Join(t.TempDir(), "contracts.yaml")
	require.NoError(t, os.WriteFile(path, []byte(partialContracts), 0o600))
	t.Setenv("CONTRACTS_PATH", path)

	out, err := run(t, "generate", "-m", "2025-01")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrServiceNotAvailable)
	assert.Contains(t, out, "for Globex")
	assert.NotContains(t, out, "for Acme")
	assert.Contains(t, out, "1 invoice(s) generated, 1 failed")
	assert.FileExists(t, filepath.Join(outDir, "invoice_Globex_2025-01.pdf"))
	assert.NoFileExists(t, filepath.Join(outDir, "invoice_Acme_2025-01.pdf"))
}
