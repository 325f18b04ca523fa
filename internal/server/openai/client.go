// Package openai calls the OpenAI Responses API to recognize food in photos
// and estimate nutrition from text. Answers are constrained by a JSON schema.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/dmitrijs2005/fooddiary/internal/common"
	"github.com/dmitrijs2005/fooddiary/internal/server/config"
	"github.com/dmitrijs2005/fooddiary/internal/server/models"
)

const maxResponseBytes = 4 << 20

const systemPrompt = `You are a nutritionist. Identify every food or drink and estimate its weight in grams ` +
	`and its nutrition for that weight: calories in kcal, proteins, fats, carbs and fiber in grams. ` +
	`Use typical values for the described preparation. Answer with an empty item list when there is no food.`

// Client is safe for concurrent use.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		apiKey:  cfg.OpenAIAPIKey,
		model:   cfg.OpenAIModel,
		baseURL: strings.TrimRight(cfg.OpenAIBaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.OpenAITimeout,
		},
	}
}

// RecognizeImage analyses the photo at imageURL. note is optional user text
// such as "half of the plate was eaten".
func (c *Client) RecognizeImage(ctx context.Context, imageURL, note string) (*models.FoodAnalysis, error) {
	text := "What food is in this photo?"
	if note = strings.TrimSpace(note); note != "" {
		text += " Note from the user: " + note
	}
	return c.analyse(ctx, []map[string]any{
		{"type": "input_text", "text": text},
		{"type": "input_image", "image_url": imageURL, "detail": "auto"},
	})
}

// EstimateText estimates nutrition of a free-text meal description.
func (c *Client) EstimateText(ctx context.Context, description string) (*models.FoodAnalysis, error) {
	return c.analyse(ctx, []map[string]any{
		{"type": "input_text", "text": "Estimate the nutrition of: " + description},
	})
}

func (c *Client) analyse(ctx context.Context, content []map[string]any) (*models.FoodAnalysis, error) {
	if c.apiKey == "" {
		return nil, common.ErrAIKeyNotConfigured
	}

	reqBody := map[string]any{
		"model": c.model,
		"input": []map[string]any{
			{"role": "system", "content": []map[string]any{{"type": "input_text", "text": systemPrompt}}},
			{"role": "user", "content": content},
		},
		"text": map[string]any{
			"format": map[string]any{
				"type":   "json_schema",
				"name":   "food_analysis",
				"strict": true,
				"schema": analysisSchema,
			},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/responses", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: openai request: %v", common.ErrExternalService, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read openai response: %v", common.ErrExternalService, err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := gjson.GetBytes(body, "error.message").String()
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: openai status=%d: %s", common.ErrExternalService, resp.StatusCode, msg)
	}

	analysis, err := parseResponse(body)
	if err != nil {
		return nil, err
	}
	if analysis.Model == "" {
		analysis.Model = c.model
	}
	return analysis, nil
}

// parseResponse extracts the structured answer and the token usage from a
// Responses API payload.
func parseResponse(body []byte) (*models.FoodAnalysis, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: openai returned invalid json", common.ErrExternalService)
	}
	root := gjson.ParseBytes(body)

	if status := root.Get("status").String(); status != "" && status != "completed" {
		reason := root.Get("incomplete_details.reason").String()
		return nil, fmt.Errorf("%w: openai response %s %s", common.ErrExternalService, status, reason)
	}

	message := root.Get(`output.#(type=="message")`)
	if refusal := message.Get(`content.#(type=="refusal").refusal`); refusal.Exists() {
		return nil, fmt.Errorf("%w: openai refused: %s", common.ErrExternalService, refusal.String())
	}
	text := message.Get(`content.#(type=="output_text").text`)
	if !text.Exists() {
		return nil, fmt.Errorf("%w: openai response has no output text", common.ErrExternalService)
	}

	var answer struct {
		Items []models.RecognizedFood `json:"items"`
	}
	if err := json.Unmarshal([]byte(text.String()), &answer); err != nil {
		return nil, fmt.Errorf("%w: decode openai answer: %v", common.ErrExternalService, err)
	}

	a := &models.FoodAnalysis{
		Items: make([]models.RecognizedFood, 0, len(answer.Items)),
		Model: root.Get("model").String(),
		Usage: models.TokenUsage{
			InputTokens:  int(root.Get("usage.input_tokens").Int()),
			OutputTokens: int(root.Get("usage.output_tokens").Int()),
			TotalTokens:  int(root.Get("usage.total_tokens").Int()),
		},
	}
	for _, it := range answer.Items {
		if strings.TrimSpace(it.Name) == "" || it.Nutrition.Validate() != nil || it.AmountGrams < 0 {
			continue
		}
		it.Nutrition = it.Nutrition.Rounded()
		a.Items = append(a.Items, it)
	}
	if a.Usage.TotalTokens == 0 {
		a.Usage.TotalTokens = a.Usage.InputTokens + a.Usage.OutputTokens
	}
	a.Sum()
	return a, nil
}

var analysisSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"required":             []string{"items"},
	"properties": map[string]any{
		"items": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"required":             []string{"name", "amount_grams", "calories", "proteins", "fats", "carbs", "fiber"},
				"properties": map[string]any{
					"name":         map[string]any{"type": "string"},
					"amount_grams": map[string]any{"type": "number"},
					"calories":     map[string]any{"type": "number"},
					"proteins":     map[string]any{"type": "number"},
					"fats":         map[string]any{"type": "number"},
					"carbs":        map[string]any{"type": "number"},
					"fiber":        map[string]any{"type": "number"},
				},
			},
		},
	},
}
