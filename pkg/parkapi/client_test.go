package parkapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	client := NewClient(Config{})

	assert.Equal(t, DefaultBaseURL, client.baseURL)
	assert.Equal(t, 30*time.Second, client.client.Timeout)

	client = NewClient(Config{BaseURL: "http://localhost:9999", Timeout: 5 * time.Second})
	assert.Equal(t, "http://localhost:9999", client.baseURL)
	assert.Equal(t, 5*time.Second, client.client.Timeout)
}

func TestGetCity(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/Dresden", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"last_updated": "2024-05-01T10:00:00",
				"lots": [
					{"id": "dresdenaltmarkt", "name": "Altmarkt", "address": "Wilsdruffer Str.", "free": 120, "total": 400, "state": "open", "coords": {"lat": 51.05, "lng": 13.73}},
					{"id": "dresdenpirnaischer", "name": "Pirnaischer Platz", "free": 0, "total": 0, "state": "nodata"}
				]
			}`))
		}))
		defer server.Close()

		client := NewClient(Config{BaseURL: server.URL})
		resp, err := client.GetCity(context.Background(), "Dresden")
		require.NoError(t, err)
		require.Len(t, resp.Lots, 2)

		assert.Equal(t, "Altmarkt", resp.Lots[0].Name)
		assert.Equal(t, 120, resp.Lots[0].Free)
		assert.Equal(t, 400, resp.Lots[0].Total)
		require.NotNil(t, resp.Lots[0].Coords)
		assert.Equal(t, 51.05, resp.Lots[0].Coords.Lat)
		assert.Nil(t, resp.Lots[1].Coords)
		assert.Empty(t, resp.Lots[1].Address)
	})

	t.Run("Non-200 status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client := NewClient(Config{BaseURL: server.URL})
		resp, err := client.GetCity(context.Background(), "Atlantis")
		assert.Error(t, err)
		assert.Nil(t, resp)
		assert.Contains(t, err.Error(), "status 404")
	})

	t.Run("Malformed payload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>not json</html>`))
		}))
		defer server.Close()

		client := NewClient(Config{BaseURL: server.URL})
		_, err := client.GetCity(context.Background(), "Ulm")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse response")
	})

	t.Run("Empty city id", func(t *testing.T) {
		client := NewClient(Config{})
		_, err := client.GetCity(context.Background(), "")
		assert.Error(t, err)
	})
}
