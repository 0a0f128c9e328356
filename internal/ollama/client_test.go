package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codechat/internal/apperrors"
)

func TestGenerateSendsFixedSamplingOptions(t *testing.T) {
	var captured GenerateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		json.NewEncoder(w).Encode(GenerateResponse{
			Model:    captured.Model,
			Response: "hello back",
			Done:     true,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "phi3:mini", 5*time.Second)
	result, err := client.Generate(context.Background(), "", "hello")
	require.NoError(t, err)

	assert.Equal(t, "phi3:mini", captured.Model)
	assert.Equal(t, "hello", captured.Prompt)
	assert.False(t, captured.Stream)
	assert.Equal(t, 0.7, captured.Options.Temperature)
	assert.Equal(t, 0.9, captured.Options.TopP)

	assert.Equal(t, "hello back", result.Response)
	assert.True(t, result.Done)
}

func TestGenerateExplicitModelOverridesDefault(t *testing.T) {
	var captured GenerateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(GenerateResponse{Model: captured.Model, Response: "ok", Done: true})
	}))
	defer server.Close()

	client := NewClient(server.URL, "phi3:mini", 5*time.Second)
	_, err := client.Generate(context.Background(), "llama3:8b", "hi")
	require.NoError(t, err)

	assert.Equal(t, "llama3:8b", captured.Model)
}

func TestGenerateUpstreamErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "model 'missing' not found"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "phi3:mini", 5*time.Second)
	_, err := client.Generate(context.Background(), "missing", "hi")

	require.Error(t, err)
	assert.Equal(t, apperrors.KindUpstream, apperrors.KindOf(err))
	assert.Contains(t, err.Error(), "model 'missing' not found")
}

func TestGenerateUnreachableEndpoint(t *testing.T) {
	// Point at a server that has already been shut down.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(server.URL, "phi3:mini", time.Second)
	_, err := client.Generate(context.Background(), "", "hi")

	require.Error(t, err)
	assert.Equal(t, apperrors.KindUpstream, apperrors.KindOf(err))
}

func TestListModels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/tags", r.URL.Path)
		json.NewEncoder(w).Encode(tagsResponse{Models: []ModelInfo{
			{Name: "phi3:mini", Size: 2300000000},
			{Name: "llama3:8b", Size: 4700000000},
		}})
	}))
	defer server.Close()

	client := NewClient(server.URL, "phi3:mini", 5*time.Second)
	models, err := client.ListModels(context.Background())
	require.NoError(t, err)

	require.Len(t, models, 2)
	assert.Equal(t, "phi3:mini", models[0].Name)
	assert.Equal(t, "llama3:8b", models[1].Name)
}

func TestListModelsUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, "phi3:mini", 5*time.Second)
	_, err := client.ListModels(context.Background())

	require.Error(t, err)
	assert.Equal(t, apperrors.KindUpstream, apperrors.KindOf(err))
}

func TestZeroTimeoutFallsBackToDefault(t *testing.T) {
	client := NewClient("http://127.0.0.1:11434", "phi3:mini", 0)
	assert.Equal(t, DefaultTimeout, client.httpClient.Timeout)
}
