// Package textgen produces editorial review text through an external
// chat-completions endpoint. Callers fall back to a placeholder string
// when generation fails; no failure here blocks review creation.
package textgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Generator writes a multi-paragraph review for a game title.
type Generator interface {
	Generate(ctx context.Context, title string) (string, error)
}

// Client calls an OpenAI-style chat completions API.
type Client struct {
	Endpoint   string
	Model      string
	Token      string
	HTTPClient *http.Client
}

func NewClient(endpoint, model, token string) *Client {
	return &Client{
		Endpoint:   endpoint,
		Model:      model,
		Token:      token,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	TopP        float64       `json:"top_p"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Generate asks the model for a 5-7 paragraph HTML review of title.
func (c *Client) Generate(ctx context.Context, title string) (string, error) {
	if c.Token == "" {
		return "", fmt.Errorf("textgen: no API token configured")
	}

	reqBody := chatRequest{
		Model: c.Model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are a game reviewer and need to create professional gaming reviews"},
			{Role: "user", Content: fmt.Sprintf(
				"write 5-7 paragraphs including a conclusion on %s. Do not include a heading, "+
					"break each paragraph with a <p> tag, Please ensure the review has appropriate "+
					"spacing for the paragraphs to display as HTML.", title)},
		},
		Temperature: 1,
		TopP:        1,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("textgen: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("textgen: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("textgen: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("textgen: endpoint returned status %d", resp.StatusCode)
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", fmt.Errorf("textgen: decode response: %w", err)
	}
	if len(cr.Choices) == 0 || cr.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("textgen: empty completion")
	}
	return cr.Choices[0].Message.Content, nil
}

// PlaceholderReview is the deterministic fallback used when generation
// fails.
func PlaceholderReview(title string) string {
	return fmt.Sprintf("Auto-generated review for %s.", title)
}
