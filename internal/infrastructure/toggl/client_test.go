package toggl_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoicer/internal/domain"
	"github.com/jhoicas/invoicer/internal/infrastructure/toggl"
)

const sampleEntries = `[
  {"client_name":"Acme","project_name":"Dev","description":"API","duration":3600,
   "start":"2025-01-02T09:00:00Z","stop":"2025-01-02T10:00:00Z"},
  {"client_name":null,"project_name":null,"description":"sin cliente","duration":60,
   "start":"2025-01-03T09:00:00Z","stop":"2025-01-03T09:01:00Z"},
  {"client_name":"Acme","project_name":"Dev","description":"en curso","duration":-1736000000,
   "start":"2025-01-04T09:00:00Z","stop":null}
]`

func TestFetchEntries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v9/me/time_entries", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("meta"))
		assert.Equal(t, "2025-01-01", r.URL.Query().Get("start_date"))
		assert.Equal(t, "2025-01-31", r.URL.Query().Get("end_date"))
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "secret", user)
		assert.Equal(t, "api_token", pass)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleEntries))
	}))
	defer srv.Close()

	c := toggl.NewClient(srv.URL, "secret", 5*time.Second, nil)
	entries, err := c.FetchEntries(context.Background(), "2025-01-01", "2025-01-31")
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, "Acme", entries[0].ClientName)
	assert.Equal(t, "Dev", entries[0].ProjectName)
	assert.Equal(t, int64(3600), entries[0].Duration)
	assert.Equal(t, time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC), entries[0].Stop.UTC())
	assert.Equal(t, "", entries[1].ClientName)
	assert.Equal(t, "", entries[1].ProjectName)
}

func TestFetchEntries_ErrorHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	c := toggl.NewClient(srv.URL, "bad", time.Second, nil)
	_, err := c.FetchEntries(context.Background(), "2025-01-01", "2025-01-31")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrFetchEntries)
	assert.Contains(t, err.Error(), "403")
}

func TestFetchEntries_RespuestaInvalida(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"not":"a list"}`))
	}))
	defer srv.Close()

	c := toggl.NewClient(srv.URL, "secret", time.Second, nil)
	_, err := c.FetchEntries(context.Background(), "2025-01-01", "2025-01-31")
	assert.ErrorIs(t, err, domain.ErrFetchEntries)
}

func TestFetchEntries_SinToken(t *testing.T) {
	c := toggl.NewClient("http://127.0.0.1:1", "", time.Second, nil)
	_, err := c.FetchEntries(context.Background(), "2025-01-01", "2025-01-31")
	assert.ErrorIs(t, err, domain.ErrFetchEntries)
}

func TestFetchEntries_Cancelado(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := toggl.NewClient(srv.URL, "secret", 5*time.Second, nil)
	_, err := c.FetchEntries(ctx, "2025-01-01", "2025-01-31")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrFetchEntries)
	assert.ErrorIs(t, err, context.Canceled)
}
