package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientLogin(t *testing.T) {
	t.Run("accepted credentials", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/auth/login", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var payload map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, "ana@beneficios.example", payload["correo"])
			assert.Equal(t, "secreta", payload["password"])

			json.NewEncoder(w).Encode(map[string]any{
				"token":     "header.payload.sig",
				"user":      map[string]string{"id": "u-1", "correo": "ana@beneficios.example", "nombre": "Ana"},
				"expiresIn": 900,
			})
		}))
		defer server.Close()

		client := NewClient(Config{BaseURL: server.URL})
		result, err := client.Login(context.Background(), "ana@beneficios.example", "secreta")
		require.NoError(t, err)
		assert.True(t, result.OK)
		assert.Equal(t, "header.payload.sig", result.Token)
		assert.Equal(t, "u-1", result.Identity.ID)
		assert.Equal(t, "Ana", result.Identity.Name)
		assert.Equal(t, int64(900), result.ExpiresIn)
	})

	t.Run("rejected credentials are an answer", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "usuario o password incorrectos"})
		}))
		defer server.Close()

		client := NewClient(Config{BaseURL: server.URL})
		result, err := client.Login(context.Background(), "ana@beneficios.example", "mala")
		require.NoError(t, err)
		assert.False(t, result.OK)
		assert.Equal(t, "usuario o password incorrectos", result.Message)
	})

	t.Run("rejection without message gets a default", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte("{}"))
		}))
		defer server.Close()

		client := NewClient(Config{BaseURL: server.URL})
		result, err := client.Login(context.Background(), "ana@beneficios.example", "mala")
		require.NoError(t, err)
		assert.False(t, result.OK)
		assert.Equal(t, "credenciales inválidas", result.Message)
	})

	t.Run("server failure is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("{}"))
		}))
		defer server.Close()

		client := NewClient(Config{BaseURL: server.URL})
		_, err := client.Login(context.Background(), "ana@beneficios.example", "secreta")
		assert.ErrorContains(t, err, "status 500")
	})

	t.Run("success without token is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("{}"))
		}))
		defer server.Close()

		client := NewClient(Config{BaseURL: server.URL})
		_, err := client.Login(context.Background(), "ana@beneficios.example", "secreta")
		assert.ErrorContains(t, err, "missing token")
	})

	t.Run("unreachable service is an error", func(t *testing.T) {
		client := NewClient(Config{BaseURL: "http://127.0.0.1:1", Timeout: 200 * time.Millisecond})
		_, err := client.Login(context.Background(), "ana@beneficios.example", "secreta")
		assert.Error(t, err)
	})
}

func TestConfigWithDefaults(t *testing.T) {
	cfg := Config{BaseURL: "https://auth.example/"}.withDefaults()
	assert.Equal(t, "https://auth.example", cfg.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Timeout)
}
