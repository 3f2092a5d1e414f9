// Package openai implements the risk classifier against the OpenAI
// chat completions API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/asset-sentinel/internal/domain"
)

// systemPrompt fixes the model's role and output contract. The model is
// forced into JSON mode, so the contract names every expected field.
const systemPrompt = `You are a Security Operations Center (SOC) analyst specializing in supply chain risk.
Analyze the provided threat intelligence and respond with a JSON object containing exactly these fields:
"risk_score" (integer 0-100), "severity" (one of LOW, MEDIUM, HIGH, CRITICAL),
"reasoning" (one sentence), "recommended_action" (short imperative),
"estimated_impact_radius_km" (number).`

// Client implements domain.Classifier using OpenAI chat completions.
type Client struct {
	apiKey     string
	model      string
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates an OpenAI classifier client.
func NewClient(apiKey, model string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		apiKey: apiKey,
		model:  model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "https://api.openai.com/v1/chat/completions",
		logger:  logger,
	}
}

// Classify sends the prompt and parses the structured assessment out of
// the completion.
func (c *Client) Classify(ctx context.Context, prompt string) (domain.Classification, error) {
	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		ResponseFormat: &responseFormat{Type: "json_object"},
		Temperature:    0.2,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return domain.Classification{}, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return domain.Classification{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Classification{}, fmt.Errorf("completion request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return domain.Classification{}, fmt.Errorf("openai API error: status %d: %s", resp.StatusCode, respBody)
	}

	var completion chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return domain.Classification{}, fmt.Errorf("decode response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return domain.Classification{}, fmt.Errorf("openai response has no choices")
	}

	var assessment assessmentJSON
	content := completion.Choices[0].Message.Content
	if err := json.Unmarshal([]byte(content), &assessment); err != nil {
		return domain.Classification{}, fmt.Errorf("parse assessment %q: %w", content, err)
	}

	return domain.Classification{
		RiskScore:               assessment.RiskScore,
		Severity:                assessment.Severity,
		Reasoning:               assessment.Reasoning,
		Action:                  assessment.RecommendedAction,
		EstimatedImpactRadiusKm: assessment.EstimatedImpactRadiusKm,
	}, nil
}

// OpenAI API request/response types.

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
	Temperature    float64         `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type assessmentJSON struct {
	RiskScore               int     `json:"risk_score"`
	Severity                string  `json:"severity"`
	Reasoning               string  `json:"reasoning"`
	RecommendedAction       string  `json:"recommended_action"`
	EstimatedImpactRadiusKm float64 `json:"estimated_impact_radius_km"`
}
