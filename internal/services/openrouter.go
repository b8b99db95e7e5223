package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"tubelens-backend/internal/models"
)

// OpenRouterProvider is the secondary generative backend, speaking the
// OpenAI-compatible chat completions protocol.
type OpenRouterProvider struct {
	client  *resty.Client
	apiKey  string
	model   string
	referer string
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

func NewOpenRouterProvider(baseURL, apiKey, model, referer string) *OpenRouterProvider {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(45 * time.Second).
		SetHeader("Content-Type", "application/json")

	return &OpenRouterProvider{
		client:  client,
		apiKey:  apiKey,
		model:   model,
		referer: referer,
	}
}

func (o *OpenRouterProvider) Tag() models.Provider {
	return models.ProviderOpenRouter
}

func (o *OpenRouterProvider) Complete(ctx context.Context, system, user string) (string, error) {
	if o.apiKey == "" {
		return "", fmt.Errorf("openrouter api key is not configured")
	}

	req := chatRequest{
		Model: o.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens:   1024,
		Temperature: 0.7,
	}

	var result chatResponse
	resp, err := o.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+o.apiKey).
		SetHeader("HTTP-Referer", o.referer).
		SetHeader("X-Title", "TubeLens").
		SetBody(req).
		SetResult(&result).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("openrouter request failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("openrouter returned status %d: %s", resp.StatusCode(), truncateBody(resp.Body()))
	}
	if result.Error != nil {
		return "", fmt.Errorf("openrouter error %d: %s", result.Error.Code, result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("openrouter returned no choices")
	}

	return result.Choices[0].Message.Content, nil
}
