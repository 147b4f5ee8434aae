package ai

import (
	"context"

	"github.com/nocodeci/yatou-sub002/internal/modules/tariff"
)

// LLMProvider defines the contract for interacting with AI models.
// This interface allows for swapping different AI providers (Gemini, OpenAI, etc.) in the future.
type LLMProvider interface {
	// ExplainQuote turns a priced quote into a short customer-facing
	// explanation in French, line by line.
	ExplainQuote(ctx context.Context, result *tariff.PricingResult) (*Explanation, error)

	// SuggestPlan recommends a subscription plan from the catalogue given a
	// free-form description of the client's shipping habits.
	SuggestPlan(ctx context.Context, usageDescription string, plans []tariff.SubscriptionPlan) (*PlanSuggestion, error)
}
