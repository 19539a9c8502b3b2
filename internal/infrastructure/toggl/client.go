// Package toggl adaptador de lectura de entradas de tiempo desde Toggl Track (API v9).
package toggl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/jhoicas/invoicer/internal/domain"
	"github.com/jhoicas/invoicer/internal/domain/entity"
	"github.com/jhoicas/invoicer/pkg/logger"
)

const timeEntriesPath = "/api/v9/me/time_entries"

// Client lee entradas de tiempo del usuario autenticado por token.
type Client struct {
	baseURL    string
	apiToken   string
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient construye el adaptador con timeout de red explícito.
// Si apiToken está vacío las llamadas devuelven error descriptivo.
func NewClient(baseURL, apiToken string, timeout time.Duration, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		baseURL:    baseURL,
		apiToken:   apiToken,
		httpClient: &http.Client{Timeout: timeout},
		log:        log.WithStr("component", "toggl"),
	}
}

// ── Protocolo ─────────────────────────────────────────────────────────────────

type timeEntryPayload struct {
	ClientName  *string    `json:"client_name"`
	ProjectName *string    `json:"project_name"`
	Description string     `json:"description"`
	Duration    int64      `json:"duration"`
	Start       time.Time  `json:"start"`
	Stop        *time.Time `json:"stop"`
}

// ── Implementación del puerto ─────────────────────────────────────────────────

// FetchEntries devuelve las entradas entre startDate y endDate (YYYY-MM-DD).
// Las entradas en curso (duración negativa, sin stop) se descartan.
func (c *Client) FetchEntries(ctx context.Context, startDate, endDate string) ([]entity.TimeEntry, error) {
	if c.apiToken == "" {
		return nil, fmt.Errorf("%w: TOGGL_API_TOKEN no configurado", domain.ErrFetchEntries)
	}

	q := url.Values{}
	q.Set("meta", "true")
	q.Set("start_date", startDate)
	q.Set("end_date", endDate)
	endpoint := c.baseURL + timeEntriesPath + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: crear HTTP request: %v", domain.ErrFetchEntries, err)
	}
	req.SetBasicAuth(c.apiToken, "api_token")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: timeout o cancelación: %w", domain.ErrFetchEntries, ctx.Err())
		}
		return nil, fmt.Errorf("%w: llamada HTTP fallida: %v", domain.ErrFetchEntries, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
		return nil, fmt.Errorf("%w: Toggl HTTP %d: %s", domain.ErrFetchEntries, resp.StatusCode, string(raw))
	}

	var payload []timeEntryPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: deserializar respuesta: %v", domain.ErrFetchEntries, err)
	}

	entries := make([]entity.TimeEntry, 0, len(payload))
	running := 0
	for _, p := range payload {
		if p.Duration < 0 || p.Stop == nil {
			running++
			continue
		}
		entries = append(entries, entity.TimeEntry{
			ClientName:  deref(p.ClientName),
			ProjectName: deref(p.ProjectName),
			Description: p.Description,
			Duration:    p.Duration,
			Start:       p.Start,
			Stop:        *p.Stop,
		})
	}
	if running > 0 {
		c.log.Warn().Int("running", running).Msg("entradas en curso descartadas")
	}
	c.log.Debug().
		Str("start", startDate).
		Str("end", endDate).
		Int("entries", len(entries)).
		Msg("entradas obtenidas")
	return entries, nil
}

func deref(p *string) string {
	if p != nil {
		return *p
	}
	return ""
}
