package analyst

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sentra-project/sentra/internal/core"
	"github.com/sentra-project/sentra/internal/feed"
)

// LLMClient talks to an OpenAI-compatible chat completions endpoint.
type LLMClient struct {
	httpClient *http.Client
	logger     zerolog.Logger
	endpoint   string
	apiKey     string
	model      string
}

// NewLLMClient creates a client from config. Returns nil when no endpoint is
// configured, so callers can pass the result straight to WithLLM.
func NewLLMClient(logger zerolog.Logger, cfg core.AnalystConfig) *LLMClient {
	if cfg.LLMEndpoint == "" {
		return nil
	}
	timeout := cfg.LLMTimeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &LLMClient{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With().Str("component", "llm_client").Logger(),
		endpoint:   strings.TrimRight(cfg.LLMEndpoint, "/"),
		apiKey:     cfg.LLMAPIKey,
		model:      cfg.LLMModel,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// llmVerdict is the JSON shape the model is asked to return.
type llmVerdict struct {
	Summary          string   `json:"summary"`
	RootCause        string   `json:"root_cause"`
	RemediationSteps []string `json:"remediation_steps"`
	Confidence       float64  `json:"confidence"`
}

const analysisSystemPrompt = `You are a SOC Tier 2 analyst. Given a SIEM log entry as JSON, ` +
	`respond with ONLY a JSON object with fields: summary, root_cause, ` +
	`remediation_steps (array of strings), confidence (0.0-1.0).`

// Analyze asks the model to triage entry.
func (c *LLMClient) Analyze(ctx context.Context, entry *feed.LogEntry) (*AnalysisResult, error) {
	logJSON, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("marshaling log entry: %w", err)
	}

	content, err := c.chat(ctx, []chatMessage{
		{Role: "system", Content: analysisSystemPrompt},
		{Role: "user", Content: string(logJSON)},
	})
	if err != nil {
		return nil, err
	}

	var verdict llmVerdict
	if err := json.Unmarshal([]byte(extractJSON(content)), &verdict); err != nil {
		return nil, fmt.Errorf("parsing model verdict: %w", err)
	}
	if verdict.Summary == "" {
		return nil, fmt.Errorf("model verdict missing summary")
	}

	return &AnalysisResult{
		ID:               uuid.New().String(),
		RelatedLogID:     entry.ID,
		Summary:          verdict.Summary,
		RootCause:        verdict.RootCause,
		RemediationSteps: verdict.RemediationSteps,
		Confidence:       verdict.Confidence,
		Timestamp:        time.Now().UTC(),
	}, nil
}

func (c *LLMClient) chat(ctx context.Context, messages []chatMessage) (string, error) {
	body, err := json.Marshal(chatRequest{Model: c.model, Messages: messages})
	if err != nil {
		return "", fmt.Errorf("marshaling chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.endpoint+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling LLM endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("LLM endpoint returned %s", resp.Status)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decoding chat response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("chat response has no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

// extractJSON strips markdown fences and prose around the first JSON object.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}
