package models

import "time"

type AiOperation string

const (
	AiFoodRecognition     AiOperation = "food_recognition"
	AiNutritionEstimation AiOperation = "nutrition_estimation"
)

// AiUsage is one logged call to the AI provider.
type AiUsage struct {
	ID           string      `json:"id"`
	UserID       string      `json:"user_id"`
	Operation    AiOperation `json:"operation"`
	Model        string      `json:"model"`
	InputTokens  int         `json:"input_tokens"`
	OutputTokens int         `json:"output_tokens"`
	TotalTokens  int         `json:"total_tokens"`
	CreatedAt    time.Time   `json:"created_at"`
}

// AiQuota overrides the default monthly token limit for a user.
type AiQuota struct {
	UserID            string    `json:"user_id"`
	MonthlyTokenLimit int       `json:"monthly_token_limit"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// AiQuotaStatus is the effective quota of a user for the current month.
type AiQuotaStatus struct {
	UserID            string `json:"user_id"`
	MonthlyTokenLimit int    `json:"monthly_token_limit"`
	UsedTokens        int    `json:"used_tokens"`
	Custom            bool   `json:"custom"`
}

func (q AiQuotaStatus) Remaining() int {
	if r := q.MonthlyTokenLimit - q.UsedTokens; r > 0 {
		return r
	}
	return 0
}

// AiUsageSummary aggregates usage per user over a period.
type AiUsageSummary struct {
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
	Requests     int    `json:"requests"`
	InputTokens  int    `json:"input_tokens"`
	OutputTokens int    `json:"output_tokens"`
	TotalTokens  int    `json:"total_tokens"`
}

// TokenUsage is the token accounting reported by the provider.
type TokenUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// RecognizedFood is one food item found in a photo or description.
type RecognizedFood struct {
	Name        string  `json:"name"`
	AmountGrams float64 `json:"amount_grams"`
	Nutrition
}

// FoodAnalysis is the parsed answer of the AI provider.
type FoodAnalysis struct {
	Items []RecognizedFood `json:"items"`
	Total Nutrition        `json:"total"`
	Model string           `json:"model"`
	Usage TokenUsage       `json:"usage"`
}

// Sum fills Total from Items.
func (a *FoodAnalysis) Sum() {
	var t Nutrition
	for _, it := range a.Items {
		t = t.Add(it.Nutrition)
	}
	a.Total = t
}
