package ai

// Explanation is the structured output for a fare explanation.
type Explanation struct {
	// Summary is one or two sentences in French giving the total and why.
	Summary string `json:"summary"`
	// LineNotes maps each breakdown label to a one-line French explanation.
	LineNotes map[string]string `json:"line_notes"`
	// SavingsTip optionally suggests how the client could pay less
	// (off-peak timing, a subscription, a smaller vehicle). Empty when
	// nothing applies.
	SavingsTip string `json:"savings_tip"`
}

// PlanSuggestion is the structured output for a subscription recommendation.
type PlanSuggestion struct {
	Tier      string `json:"tier"`
	Level     string `json:"level"`
	Reasoning string `json:"reasoning"`
}
