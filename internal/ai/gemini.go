package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/nocodeci/yatou-sub002/internal/modules/tariff"
)

// GeminiProvider implements LLMProvider using Google's Gemini models.
type GeminiProvider struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiProvider initializes a new Gemini client.
// apiKey should be provided from environment variables.
func NewGeminiProvider(ctx context.Context, apiKey string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	// Use Gemini 2.0 Flash for low latency and cost efficiency.
	model := client.GenerativeModel("gemini-2.0-flash")

	// Force JSON response for structured parsing.
	model.ResponseMIMEType = "application/json"

	// Low temperature: explanations must restate the numbers, not invent them.
	model.SetTemperature(0.2)

	return &GeminiProvider{
		client: client,
		model:  model,
	}, nil
}

// Close cleans up the Gemini client resources.
func (p *GeminiProvider) Close() {
	p.client.Close()
}

// ExplainQuote asks the model for a French, line-by-line fare explanation.
func (p *GeminiProvider) ExplainQuote(ctx context.Context, result *tariff.PricingResult) (*Explanation, error) {
	prompt := buildExplainPrompt(result)

	out, err := p.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var explanation Explanation
	if err := json.Unmarshal([]byte(out), &explanation); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w. Raw: %s", err, out)
	}
	return &explanation, nil
}

// SuggestPlan asks the model to pick a plan from the catalogue.
func (p *GeminiProvider) SuggestPlan(ctx context.Context, usageDescription string, plans []tariff.SubscriptionPlan) (*PlanSuggestion, error) {
	prompt := buildSuggestPrompt(usageDescription, plans)

	out, err := p.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var suggestion PlanSuggestion
	if err := json.Unmarshal([]byte(out), &suggestion); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w. Raw: %s", err, out)
	}
	return &suggestion, nil
}

func (p *GeminiProvider) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := p.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generation error: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response candidates from Gemini")
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseText.WriteString(string(txt))
		}
	}

	// Clean up potential markdown formatting (though json mode should handle this, safety first).
	return cleanJSONString(responseText.String()), nil
}

// buildExplainPrompt serializes the quote into the instructions for the AI.
func buildExplainPrompt(result *tariff.PricingResult) string {
	var lines strings.Builder
	for _, l := range result.Lines() {
		fmt.Fprintf(&lines, "- %s: %d %s\n", l.Label, l.Amount, result.Currency)
	}

	return fmt.Sprintf(`Role: You are the customer-service voice of "Yatou", a delivery and moving app in Côte d'Ivoire.

A client received this quote (vehicle: %s, service: %s, total: %d %s, estimated duration: %d minutes):
%s
TASK:
Explain the quote in simple French. Rules:
1. NEVER change or invent an amount. Restate exactly the numbers above.
2. "summary": one or two sentences with the total and the main reason it is what it is.
3. "line_notes": for EVERY line above, one short French sentence explaining what it covers. Use the label text as the key, unchanged.
4. "savings_tip": if a surcharge could be avoided (rush hour, urgency, waiting) or a subscription would help, say how in one sentence. Otherwise return "".
5. Plain conversational French. No markdown, no ALL-CAPS tokens.

Output JSON Schema:
{
  "summary": "string",
  "line_notes": {"label": "string"},
  "savings_tip": "string"
}
`, result.Vehicle, result.Service, result.Total, result.Currency, result.EstimatedMinutes, lines.String())
}

// buildSuggestPrompt serializes the plan catalogue for a recommendation.
func buildSuggestPrompt(usageDescription string, plans []tariff.SubscriptionPlan) string {
	var catalogue strings.Builder
	for _, p := range plans {
		deliveries := fmt.Sprintf("%d livraisons/mois", p.DeliveriesPerPeriod)
		if p.DeliveriesPerPeriod < 0 {
			deliveries = "livraisons illimitées"
		}
		fmt.Fprintf(&catalogue, "- %s/%s: %d XOF/mois, remise %.0f%%, %s\n",
			p.Tier, p.Level, p.Price, p.Discount*100, deliveries)
	}

	return fmt.Sprintf(`Role: You are the customer-service voice of "Yatou", a delivery and moving app in Côte d'Ivoire.

Plan catalogue:
%s
The client describes their habits as: %q

TASK:
Pick the single best plan from the catalogue. Rules:
1. "tier" and "level" MUST be copied verbatim from a catalogue line. Never invent a plan.
2. "reasoning": two sentences in French, comparing the plan price to what the client would save.
3. If no plan is worth it for this client, return tier "" and level "" and say why in "reasoning".

Output JSON Schema:
{
  "tier": "string",
  "level": "string",
  "reasoning": "string"
}
`, catalogue.String(), usageDescription)
}

// cleanJSONString removes markdown code blocks if present (e.g. ```json ... ```)
func cleanJSONString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "```json")
	input = strings.TrimPrefix(input, "```")
	input = strings.TrimSuffix(input, "```")
	return strings.TrimSpace(input)
}
