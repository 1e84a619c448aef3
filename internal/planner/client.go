package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/steplab/ocrprep/internal/plan"
)

const defaultTimeout = 60 * time.Second

// planInstruction pins the exact JSON shape the planning model must emit
// for enhancement plans.
const planInstruction = `You design image enhancement plans for OCR preprocessing.
Reply with a single JSON object, no prose: {"variants":[{"name":"<short-name>","steps":[{"op":"<operation>","params":{...}}]}]}.
Allowed operations: rotate {angle}, zoom {width,height|scale}, autocontrast {cutoff}, clahe {clipLimit,tileGridSize}, denoise {strength: light|medium|strong}, binarize {method: otsu|adaptive, threshold, blockSize, c}, brightness {delta}, gamma {value}, sharpen {amount,sigma}, deskew {}.
Produce one to three variants ordered from least to most aggressive.`

// optionsInstruction pins the options JSON shape and its defaults.
const optionsInstruction = `You translate a user instruction about an OCR run into options.
Reply with a single JSON object, no prose: {"runEnhancement":bool,"includeOriginal":bool,"saveTxt":bool,"saveJson":bool,"language":"<tesseract code>"}.
Defaults when the instruction is silent: runEnhancement=true, includeOriginal=true, saveTxt=true, saveJson=true, language="eng".`

// Config holds the remote planning endpoint settings.
type Config struct {
	Endpoint string
	Model    string
	APIKey   string
	Timeout  time.Duration
}

// DefaultConfig returns client defaults; the endpoint must be supplied by
// configuration.
func DefaultConfig() Config {
	return Config{Timeout: defaultTimeout}
}

// Client is the HTTP implementation of Planner against a chat-completion
// style endpoint.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient creates a planning client for the configured endpoint.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{cfg: cfg, http: &http.Client{Timeout: cfg.Timeout}}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// GeneratePlan asks the backend for an enhancement plan.
func (c *Client) GeneratePlan(ctx context.Context, prompt string) (plan.EnhancementPlan, error) {
	raw, err := c.complete(ctx, planInstruction, prompt)
	if err != nil {
		return plan.EnhancementPlan{}, err
	}
	return DecodePlanDocument([]byte(raw))
}

// ResolveOptions asks the backend for run options.
func (c *Client) ResolveOptions(ctx context.Context, prompt string) (plan.RunOptions, error) {
	raw, err := c.complete(ctx, optionsInstruction, prompt)
	if err != nil {
		return plan.RunOptions{}, err
	}
	return DecodeOptionsDocument([]byte(raw))
}

// complete posts one instruction+prompt pair and returns the extracted
// JSON payload of the reply.
func (c *Client) complete(ctx context.Context, instruction, prompt string) (string, error) {
	if c.cfg.Endpoint == "" {
		return "", fmt.Errorf("planner endpoint not configured")
	}

	body, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: instruction},
			{Role: "user", Content: prompt},
		},
		Temperature: 0,
	})
	if err != nil {
		return "", fmt.Errorf("marshal planner request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build planner request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("planner call: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("planner call failed with status %d: %s", resp.StatusCode, snippet)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode planner response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("planner returned no choices")
	}
	return extractJSON(parsed.Choices[0].Message.Content)
}
