package models

import "time"

// SuggestionStatus classifies the outcome of a price suggestion.
type SuggestionStatus string

const (
	StatusAlreadySet SuggestionStatus = "already_set"
	StatusReady      SuggestionStatus = "ready"
	StatusMissing    SuggestionStatus = "missing"
)

// NoBracketLabel is shown when no weight bracket applies.
const NoBracketLabel = "-"

// Suggestion is the computed price outcome for one calf.
type Suggestion struct {
	Status         SuggestionStatus `json:"status"`
	SuggestedPrice Num              `json:"suggestedPrice"`
	Reason         string           `json:"reason"`
	LayoutMode     LayoutMode       `json:"layoutMode,omitempty"`
	BracketLabel   string           `json:"bracketLabel"`
	BracketKey     string           `json:"bracketKey,omitempty"`
	MatchedBreed   string           `json:"matchedBreed,omitempty"`
}

// CalfSuggestion pairs a calf with its suggestion.
type CalfSuggestion struct {
	Calf       Calf       `json:"calf"`
	Suggestion Suggestion `json:"suggestion"`
}

// SuggestionReport is one ranch-wide suggestion pass.
type SuggestionReport struct {
	RunID        string           `bson:"run_id" json:"runId"`
	RanchID      string           `bson:"ranch_id" json:"ranchId"`
	RanchName    string           `bson:"ranch_name" json:"ranchName"`
	PeriodKey    string           `bson:"period_key" json:"periodKey,omitempty"`
	PeriodLabel  string           `bson:"period_label" json:"periodLabel,omitempty"`
	ReferenceDay string           `bson:"reference_day" json:"referenceDay"`
	Items        []CalfSuggestion `bson:"items" json:"items"`
	Ready        int              `bson:"ready" json:"ready"`
	AlreadySet   int              `bson:"already_set" json:"alreadySet"`
	Missing      int              `bson:"missing" json:"missing"`
	GeneratedAt  time.Time        `bson:"generated_at" json:"generatedAt"`
}

// ApplyFailure records one calf whose price could not be written.
type ApplyFailure struct {
	CalfID string `bson:"calf_id" json:"calfId"`
	Error  string `bson:"error" json:"error"`
}

// ApplyResult summarizes a bulk apply batch.
type ApplyResult struct {
	BatchID    string         `bson:"batch_id" json:"batchId"`
	RanchID    string         `bson:"ranch_id" json:"ranchId"`
	Attempted  int            `bson:"attempted" json:"attempted"`
	Applied    int            `bson:"applied" json:"applied"`
	Failed     int            `bson:"failed" json:"failed"`
	Failures   []ApplyFailure `bson:"failures" json:"failures,omitempty"`
	StartedAt  time.Time      `bson:"started_at" json:"startedAt"`
	FinishedAt time.Time      `bson:"finished_at" json:"finishedAt"`
}
