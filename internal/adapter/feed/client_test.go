package feed

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestClient_Fetch_Success(t *testing.T) {
	const payload = "time,station_id,Hm0\n2024-06-01T12:00:00Z,EXT,1.2\n"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/export/waves_ext.csv", r.URL.Path)
		assert.Equal(t, "text/csv", r.Header.Get("Accept"))
		_, _ = io.WriteString(w, payload)
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/export/%s.csv", 5*time.Second, discardLogger())
	got, err := c.Fetch(context.Background(), "waves_ext")
	require.NoError(t, err)
	assert.Equal(t, []byte(payload), got)
}

func TestClient_Fetch_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "dataset not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/%s.csv", 5*time.Second, discardLogger())
	_, err := c.Fetch(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "dataset not found")
}

func TestClient_Fetch_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/%s.csv", time.Minute, discardLogger())
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Fetch(ctx, "waves_ext")
	require.Error(t, err)
}
