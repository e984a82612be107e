/*
PURPOSE:
  Transport client for the generative AI text service.
  Single prompt-in / text-out exchange against a Gemini-style
  generateContent endpoint.

REQUIREMENTS:
  User-specified:
  - One POST per exchange. No retries, no streaming, no partial output.
  - Credential passed as a query parameter; its absence is a precondition
    failure reported before any network I/O.

  Implementation-discovered:
  - Needs http.Client with a timeout (config-driven, default 60s).
  - A 2xx response without the expected text path is NOT a hard failure;
    the service occasionally returns empty candidates. Callers get the
    placeholder string instead.

ARCHITECTURE INTEGRATION:
  - Called by: internal/scenario, internal/analyze
  - Uses: internal/config, internal/faults

ERROR HANDLING:
  - Missing key -> faults.Precondition.
  - Network failure / non-2xx -> faults.Transport.
  - Unparseable response body -> faults.Transport (the service broke its
    own contract; this is not the caller's format problem).

IMPLEMENTATION RULES:
  - Use net/http. Build the URL with net/url so the key is escaped.
  - Do not log the credential.

USAGE:
  c := ai.NewClient(cfg.AI)
  text, err := c.Exchange(ctx, "describe a blinking LED")

RELATED FILES:
  - internal/config/config.go
  - internal/faults/faults.go

MAINTENANCE:
  - Update the endpoint path if the service moves off v1beta.
*/

package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/sidereal-labs/powertrace/internal/config"
	"github.com/sidereal-labs/powertrace/internal/faults"
)

// Placeholder is returned when a successful response carries no
// generated text.
const Placeholder = "No response generated."

// Exchanger is the single-exchange contract the pipeline components
// depend on. Satisfied by *Client; tests substitute stubs.
type Exchanger interface {
	Exchange(ctx context.Context, prompt string) (string, error)
}

// Client talks to the generative AI service.
type Client struct {
	cfg    config.AIConfig
	client *http.Client
}

// NewClient creates a new Client from AI configuration.
func NewClient(cfg config.AIConfig) *Client {
	return &Client{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// generateRequest mirrors the service's generateContent request body.
type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

// generateResponse mirrors the subset of the response we consume.
type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Exchange sends one prompt and returns the generated text. A response
// that completes without generated text yields Placeholder, not an error.
func (c *Client) Exchange(ctx context.Context, prompt string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", faults.Precondition("AI API key is not configured (set GEMINI_API_KEY)")
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", faults.Internal("failed to encode request", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		c.cfg.BaseURL, url.PathEscape(c.cfg.Model), url.QueryEscape(c.cfg.APIKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", faults.Internal("failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", faults.Transport("AI request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Keep a little of the body for the log line; never the key.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", faults.Transport(
			fmt.Sprintf("AI service returned %s: %s", resp.Status, bytes.TrimSpace(snippet)), nil)
	}

	var data generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", faults.Transport("AI service returned invalid JSON", err)
	}

	if len(data.Candidates) == 0 || len(data.Candidates[0].Content.Parts) == 0 {
		return Placeholder, nil
	}
	text := data.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return Placeholder, nil
	}
	return text, nil
}
