package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoicer/internal/application/billing"
	"github.com/jhoicas/invoicer/internal/application/dto"
	"github.com/jhoicas/invoicer/internal/infrastructure/pdf"
	"github.com/jhoicas/invoicer/internal/infrastructure/sqlite"
	apphttp "github.com/jhoicas/invoicer/internal/interfaces/http"
	"github.com/jhoicas/invoicer/pkg/money"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var testNow = time.Date(2025, time.July, 12, 15, 4, 5, 0, time.UTC)

// buildTestApp aplicación completa sobre un SQLite temporal y el renderer real.
func buildTestApp(t *testing.T) *fiber.App {
	t.Helper()
	repo, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "test.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	f := money.MustNew("EUR", "en")
	clock := func() time.Time { return testNow }
	return apphttp.NewApp(apphttp.AppConfig{Name: "invoicer-test"}, apphttp.RouterDeps{
		WebUC:   billing.NewWebUseCase(repo, pdf.NewRenderer(f), "", time.UTC, clock, nil),
		QueryUC: billing.NewQueryUseCase(repo, f),
		Now:     clock,
	})
}

func validBody() dto.GenerateInvoiceRequest {
	return dto.GenerateInvoiceRequest{
		IssueDate: "2025-07-12",
		DueDate:   "2025-08-11",
		Sender: dto.SenderRequest{
			Name: "Jane Doe", EntityNumber: "123", EntityType: "company",
			Address: "1 Main St", City: "Springfield", Country: "USA",
		},
		BillTo: dto.BillToRequest{
			Name: "Acme", Address: "2 Elm St", City: "Shelbyville", State: "IL", Zip: "62565", Country: "USA",
		},
		Items:   []dto.ItemRequest{{Description: "Workshop", Qty: 2, UnitPrice: 50}, {Description: "Travel", Qty: 1, UnitPrice: 75}},
		TaxRate: 21,
	}
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			r = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			r = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestHealth(t *testing.T) {
	app := buildTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[dto.HealthResponse](t, resp)
	assert.Equal(t, "OK", body.Status)
	assert.Equal(t, "2025-07-12T15:04:05Z", body.Timestamp)
}

func TestGenerateInvoice_DevuelvePDF(t *testing.T) {
	app := buildTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/generate-invoice", validBody())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename="invoice_INV-2025-07-12-001.pdf"`, resp.Header.Get("Content-Disposition"))
	assert.Equal(t, "INV-2025-07-12-001", resp.Header.Get("X-Invoice-Number"))

	pdfBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdfBytes, []byte("%PDF")))

	// el contador diario avanza
	resp = doJSON(t, app, http.MethodPost, "/api/generate-invoice", validBody())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "INV-2025-07-12-002", resp.Header.Get("X-Invoice-Number"))
}

func TestGenerateInvoice_NumeroIndicado(t *testing.T) {
	app := buildTestApp(t)
	body := validBody()
	body.InvoiceNumber = "PROJ-77"

	resp := doJSON(t, app, http.MethodPost, "/api/generate-invoice", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `attachment; filename="invoice_PROJ-77.pdf"`, resp.Header.Get("Content-Disposition"))
}

func TestGenerateInvoice_EntradaInvalida(t *testing.T) {
	app := buildTestApp(t)

	t.Run("json mal formado", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/generate-invoice", "{not json")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decode[dto.ErrorResponse](t, resp)
		assert.NotEmpty(t, body.Error)
	})

	t.Run("validación", func(t *testing.T) {
		b := validBody()
		b.Sender.Name = ""
		b.Items[0].Qty = 0
		b.DueDate = "12/08/2025"

		resp := doJSON(t, app, http.MethodPost, "/api/generate-invoice", b)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")

		body := decode[dto.ErrorResponse](t, resp)
		assert.Equal(t, "VALIDATION", body.Code)
		assert.Contains(t, body.Details, "sender.name is required")
		assert.Contains(t, body.Details, "items[0].qty must be greater than 0")
		assert.Contains(t, body.Details, "dueDate must be in YYYY-MM-DD format")
	})
}

func TestInvoices_ListYDetalle(t *testing.T) {
	app := buildTestApp(t)
	for i := 0; i < 3; i++ {
		resp := doJSON(t, app, http.MethodPost, "/api/generate-invoice", validBody())
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp := doJSON(t, app, http.MethodGet, "/api/invoices?limit=2", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[[]dto.InvoiceSummaryResponse](t, resp)
	require.Len(t, list, 2)
	assert.Equal(t, int64(3), list[0].ID)
	assert.Equal(t, "INV-2025-07-12-003", list[0].Number)
	assert.Equal(t, "web", list[0].Kind)
	assert.InDelta(t, 211.75, list[0].Total, 1e-9)

	resp = doJSON(t, app, http.MethodGet, "/api/invoices?client=Nobody", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[[]dto.InvoiceSummaryResponse](t, resp))

	resp = doJSON(t, app, http.MethodGet, "/api/invoices/1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	detail := decode[dto.InvoiceResponse](t, resp)
	assert.Equal(t, "INV-2025-07-12-001", detail.Number)
	assert.InDelta(t, 175, detail.Subtotal, 1e-9)
	assert.InDelta(t, 36.75, detail.Tax, 1e-9)
	assert.InDelta(t, 211.75, detail.AmountDue, 1e-9)
	assert.Equal(t, "company", string(detail.Sender.EntityType))
}

func TestInvoices_Errores(t *testing.T) {
	app := buildTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/invoices/999", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decode[dto.ErrorResponse](t, resp).Code)

	resp = doJSON(t, app, http.MethodGet, "/api/invoices/abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPreviewNumber(t *testing.T) {
	app := buildTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/invoice-number/preview", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "INV-2025-07-12-001", decode[dto.NumberPreviewResponse](t, resp).Number)

	resp = doJSON(t, app, http.MethodGet, "/api/invoice-number/preview?template=PROJ-%7B%7B%20inc%20%7D%7D", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "PROJ-001", decode[dto.NumberPreviewResponse](t, resp).Number)
}

func TestRutaAPIInexistente(t *testing.T) {
	app := buildTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "route not found", decode[dto.ErrorResponse](t, resp).Error)
}
