package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"ArticleComposer/internal/config"
	"ArticleComposer/internal/domain"
	"ArticleComposer/internal/ports"
)

// ChatGPTClient implements ports.ContentGenerator backed by OpenAI-compatible APIs.
type ChatGPTClient struct {
	endpoint     string
	model        string
	apiKey       string
	systemPrompt string
	httpClient   *http.Client
	limiter      *rate.Limiter
}

var _ ports.ContentGenerator = (*ChatGPTClient)(nil)

// NewChatGPTClient builds a client from configuration.
func NewChatGPTClient(cfg config.GeneratorConfig) *ChatGPTClient {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	limit := rate.Inf
	if cfg.RequestsPerMinute > 0 {
		limit = rate.Limit(cfg.RequestsPerMinute / 60)
	}

	return &ChatGPTClient{
		endpoint:     cfg.Endpoint,
		model:        cfg.Model,
		apiKey:       cfg.APIKey,
		systemPrompt: cfg.SystemPrompt,
		httpClient:   &http.Client{Timeout: timeout},
		limiter:      rate.NewLimiter(limit, 1),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Generate asks the model for one stage of the article.
func (c *ChatGPTClient) Generate(ctx context.Context, title string, stage domain.StageKey) (domain.GeneratedText, error) {
	if c == nil {
		return domain.GeneratedText{}, fmt.Errorf("chatgpt client is nil")
	}
	if c.apiKey == "" || c.endpoint == "" || c.model == "" {
		return domain.GeneratedText{}, fmt.Errorf("chatgpt client misconfigured")
	}

	prompt, err := stagePrompt(title, stage)
	if err != nil {
		return domain.GeneratedText{}, err
	}

	req := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: safePrompt(c.systemPrompt)},
			{Role: "user", Content: prompt},
		},
	}
	if stage == domain.StageTitleAndSummary {
		req.ResponseFormat = map[string]string{"type": "json_object"}
	}

	content, err := c.complete(ctx, req)
	if err != nil {
		return domain.GeneratedText{}, err
	}

	return parseStageOutput(stage, content), nil
}

func (c *ChatGPTClient) complete(ctx context.Context, payload chatRequest) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal chatgpt payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: send completion: %v", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("%w: chatgpt error %s: %s", domain.ErrProvider, resp.Status, strings.TrimSpace(string(raw)))
	}

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("%w: decode completion: %v", domain.ErrProvider, err)
	}
	if len(decoded.Choices) == 0 {
		return "", fmt.Errorf("%w: completion has no choices", domain.ErrProvider)
	}

	return strings.TrimSpace(decoded.Choices[0].Message.Content), nil
}

func stagePrompt(title string, stage domain.StageKey) (string, error) {
	switch stage {
	case domain.StageTitleAndSummary:
		return fmt.Sprintf("Improve the title %q and write a two sentence summary. "+
			`Answer as JSON: {"title": "...", "summary": "..."}`, title), nil
	case domain.StageContent:
		return fmt.Sprintf("Write a complete article in Markdown titled %q.", title), nil
	case domain.StageTLDR:
		return fmt.Sprintf("Write a TL;DR of at most three bullet points for an article titled %q.", title), nil
	case domain.StageImage:
		return fmt.Sprintf("Suggest a short stock photo search query (max 5 words) for an article titled %q. "+
			"Answer with the query only.", title), nil
	default:
		return "", fmt.Errorf("stage %s has no prompt", stage)
	}
}

func parseStageOutput(stage domain.StageKey, content string) domain.GeneratedText {
	switch stage {
	case domain.StageTitleAndSummary:
		var structured struct {
			Title   string `json:"title"`
			Summary string `json:"summary"`
		}
		if err := json.Unmarshal([]byte(stripFence(content)), &structured); err == nil && structured.Summary != "" {
			return domain.GeneratedText{Title: structured.Title, Summary: structured.Summary}
		}
		return domain.GeneratedText{Text: content}
	case domain.StageImage:
		return domain.GeneratedText{ImageQuery: strings.Trim(content, "\"' \n")}
	default:
		return domain.GeneratedText{Text: content}
	}
}

// stripFence removes a Markdown code fence some models wrap JSON in.
func stripFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}

func safePrompt(prompt string) string {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "You are a helpful assistant that writes articles."
	}
	return prompt
}
