package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/keaype/bodega-backend/internal/domain/entities"
	"github.com/keaype/bodega-backend/pkg/config"
	apperrors "github.com/keaype/bodega-backend/pkg/errors"
	"github.com/keaype/bodega-backend/pkg/retry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// errQuota marks a quota-exhaustion response from the API. Only these
// failures trigger model rotation; everything else propagates immediately.
var errQuota = errors.New("model quota exhausted")

var (
	geminiMetricsOnce sync.Once
	rotationCounter   metric.Int64Counter
)

func initGeminiMetrics() {
	meter := otel.Meter("github.com/keaype/bodega-backend/gemini")
	if counter, err := meter.Int64Counter(
		"gemini.rotation.count",
		metric.WithDescription("Model rotations triggered by quota exhaustion"),
	); err == nil {
		rotationCounter = counter
	}
}

// Client talks to the Gemini generateContent API and implements both oracle
// ports (intent interpretation and reply composition). It holds its own
// model-rotation cursor so tests can construct isolated instances.
type Client struct {
	apiKey        string
	models        []string
	rotationDelay time.Duration
	baseURL       string
	httpClient    *http.Client

	mu     sync.Mutex
	cursor int
}

// NewClient creates a new Gemini client.
func NewClient(cfg *config.GeminiConfig) (*Client, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	if len(cfg.Models) == 0 {
		return nil, errors.New("gemini model rotation list is empty")
	}

	delay := time.Duration(cfg.RotationDelayMs) * time.Millisecond
	if delay <= 0 {
		delay = 500 * time.Millisecond
	}

	return &Client{
		apiKey:        cfg.APIKey,
		models:        cfg.Models,
		rotationDelay: delay,
		baseURL:       defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
	}, nil
}

// InterpretIntent extracts the new structured shopping list from an
// utterance and the prior list.
func (c *Client) InterpretIntent(ctx context.Context, utterance string, prior []entities.ShoppingIntentItem, history []entities.ChatMessage) ([]entities.ShoppingIntentItem, error) {
	prompt, err := buildIntentPrompt(utterance, prior, history)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build intent prompt", err)
	}

	raw, err := c.generate(ctx, prompt, true)
	if err != nil {
		return nil, err
	}

	var items []entities.ShoppingIntentItem
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &items); err != nil {
		// Malformed structured output is terminal for this call, never
		// retried.
		return nil, apperrors.NewExternalError("intent oracle returned unparseable output", err)
	}
	return items, nil
}

// ComposeReply renders the search outcome as a short shopkeeper-style
// message.
func (c *Client) ComposeReply(ctx context.Context, utterance, outcomeSummary string) (string, error) {
	raw, err := c.generate(ctx, buildReplyPrompt(utterance, outcomeSummary), false)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(raw), nil
}

// generate runs one oracle call, rotating through the model list on quota
// exhaustion with a fixed delay between attempts. Every model is tried at
// most once per call.
func (c *Client) generate(ctx context.Context, prompt string, jsonOutput bool) (string, error) {
	var output string

	err := retry.Do(ctx, retry.FixedDelay(len(c.models), c.rotationDelay), func(int) error {
		model := c.currentModel()
		text, err := c.generateOnce(ctx, model, prompt, jsonOutput)
		if err == nil {
			output = text
			return nil
		}
		if errors.Is(err, errQuota) {
			c.advance(ctx, model)
			return err
		}
		return retry.Permanent(err)
	})

	if err != nil {
		if errors.Is(err, errQuota) {
			return "", apperrors.NewUnavailableError("every model in the rotation is exhausted", err)
		}
		return "", apperrors.NewExternalError("gemini call failed", err)
	}
	return output, nil
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMIMEType string `json:"responseMimeType,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) generateOnce(ctx context.Context, model, prompt string, jsonOutput bool) (string, error) {
	payload := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	}
	if jsonOutput {
		payload.GenerationConfig = &generationConfig{ResponseMIMEType: "application/json"}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}

	var parsed generateResponse
	_ = json.Unmarshal(data, &parsed)

	if resp.StatusCode == http.StatusTooManyRequests ||
		(parsed.Error != nil && parsed.Error.Status == "RESOURCE_EXHAUSTED") {
		return "", fmt.Errorf("%w: model %s", errQuota, model)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := ""
		if parsed.Error != nil {
			message = parsed.Error.Message
		}
		return "", fmt.Errorf("gemini status %d: %s", resp.StatusCode, message)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("gemini returned no candidates")
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

func (c *Client) currentModel() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.models[c.cursor%len(c.models)]
}

// advance moves the rotation cursor off an exhausted model. The cursor is
// sticky: the next call starts on the model that still had quota.
func (c *Client) advance(ctx context.Context, exhaustedModel string) {
	c.mu.Lock()
	c.cursor = (c.cursor + 1) % len(c.models)
	c.mu.Unlock()

	geminiMetricsOnce.Do(initGeminiMetrics)
	if rotationCounter != nil {
		rotationCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("gemini.model", exhaustedModel)))
	}
}

func (c *Client) modelIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursor
}

// stripCodeFences removes a ```json ... ``` wrapper some models insist on
// emitting around structured output.
func stripCodeFences(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
