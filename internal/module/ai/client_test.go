package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agrimart/server/internal/shared/config"
	apperrors "github.com/agrimart/server/internal/shared/errors"
	"github.com/agrimart/server/internal/shared/metrics"
)

func newTestClient(t *testing.T, recommendationURL, diseaseURL string) *Client {
	t.Helper()
	cfg := &config.AIConfig{
		RecommendationURL: recommendationURL,
		DiseaseURL:        diseaseURL,
		FailureThreshold:  3,
		CircuitTimeout:    time.Minute,
	}
	return NewClient(cfg, http.DefaultClient, metrics.New("test", prometheus.NewRegistry()), zap.NewNop())
}

func TestClient_RecommendCrops(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"location":"Kathmandu","crops":[{"name":"rice","confidence":0.92}]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "")

	result, err := client.RecommendCrops(context.Background(), &CropRecommendationRequest{Location: "Kathmandu"})
	require.NoError(t, err)
	require.Len(t, result.Crops, 1)
	assert.Equal(t, "rice", result.Crops[0].Name)
}

func TestClient_AnalyzeDisease(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, header, err := r.FormFile("image")
		require.NoError(t, err)
		assert.Equal(t, "leaf.jpg", header.Filename)
		assert.Equal(t, "spotted leaves", r.FormValue("description"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"disease":"early blight","confidence":0.87,"treatments":["remove affected leaves"]}`))
	}))
	defer server.Close()

	client := newTestClient(t, "", server.URL)

	result, err := client.AnalyzeDisease(context.Background(),
		strings.NewReader("fake-image-bytes"), "leaf.jpg", "image/jpeg", "spotted leaves")
	require.NoError(t, err)
	assert.Equal(t, "early blight", result.Disease)
	assert.NotEmpty(t, result.Treatments)
}

func TestClient_RemoteFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "")

	_, err := client.RecommendCrops(context.Background(), &CropRecommendationRequest{Location: "Pokhara"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrRemote)
}

func TestClient_CircuitOpensAfterConsecutiveFailures(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "")
	req := &CropRecommendationRequest{Location: "Pokhara"}

	for i := 0; i < 3; i++ {
		_, err := client.RecommendCrops(context.Background(), req)
		require.Error(t, err)
	}

	// Breaker is now open: the request fails fast without reaching the server.
	_, err := client.RecommendCrops(context.Background(), req)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrRemote)
	assert.Equal(t, 3, calls)
}
