package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/agrimart/server/internal/shared/config"
	apperrors "github.com/agrimart/server/internal/shared/errors"
	"github.com/agrimart/server/internal/shared/metrics"
)

const (
	serviceRecommendation = "recommendation"
	serviceDisease        = "disease"
)

// Client calls the external crop inference services. Each service sits
// behind its own circuit breaker so a failing model endpoint sheds load
// quickly instead of tying up request handlers.
type Client struct {
	http    *http.Client
	cfg     *config.AIConfig
	metrics *metrics.Metrics
	logger  *zap.Logger

	recommendBreaker *gobreaker.CircuitBreaker[*CropRecommendation]
	diseaseBreaker   *gobreaker.CircuitBreaker[*DiseaseAnalysis]
}

// NewClient creates an AI client from configuration.
func NewClient(cfg *config.AIConfig, httpClient *http.Client, m *metrics.Metrics, logger *zap.Logger) *Client {
	c := &Client{
		http:    httpClient,
		cfg:     cfg,
		metrics: m,
		logger:  logger.Named("ai"),
	}

	c.recommendBreaker = gobreaker.NewCircuitBreaker[*CropRecommendation](c.breakerSettings(serviceRecommendation))
	c.diseaseBreaker = gobreaker.NewCircuitBreaker[*DiseaseAnalysis](c.breakerSettings(serviceDisease))
	return c
}

func (c *Client) breakerSettings(name string) gobreaker.Settings {
	threshold := c.cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	timeout := c.cfg.CircuitTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return gobreaker.Settings{
		Name:    name,
		Timeout: timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn("circuit breaker state changed",
				zap.String("service", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}
}

// RecommendCrops asks the recommendation service for crops suited to a
// location.
func (c *Client) RecommendCrops(ctx context.Context, req *CropRecommendationRequest) (*CropRecommendation, error) {
	start := time.Now()
	result, err := c.recommendBreaker.Execute(func() (*CropRecommendation, error) {
		return c.recommend(ctx, req)
	})
	c.record(serviceRecommendation, err, start)
	if err != nil {
		return nil, apperrors.RemoteFailure("crop recommendation service", err)
	}
	return result, nil
}

func (c *Client) recommend(ctx context.Context, req *CropRecommendationRequest) (*CropRecommendation, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.RecommendationURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	var result CropRecommendation
	if err := c.do(httpReq, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AnalyzeDisease sends a crop image with an optional description to the
// disease analysis service.
func (c *Client) AnalyzeDisease(ctx context.Context, image io.Reader, filename, contentType, description string) (*DiseaseAnalysis, error) {
	start := time.Now()
	result, err := c.diseaseBreaker.Execute(func() (*DiseaseAnalysis, error) {
		return c.analyze(ctx, image, filename, contentType, description)
	})
	c.record(serviceDisease, err, start)
	if err != nil {
		return nil, apperrors.RemoteFailure("disease analysis service", err)
	}
	return result, nil
}

func (c *Client) analyze(ctx context.Context, image io.Reader, filename, contentType, description string) (*DiseaseAnalysis, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, image); err != nil {
		return nil, err
	}
	if description != "" {
		if err := writer.WriteField("description", description); err != nil {
			return nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.DiseaseURL, &body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	var result DiseaseAnalysis
	if err := c.do(httpReq, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		limited, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, limited)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) record(service string, err error, start time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	c.metrics.RecordAIRequest(service, status, time.Since(start))
}
