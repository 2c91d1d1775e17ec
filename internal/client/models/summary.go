package models

// SummaryResult is returned by POST /summarize/summarize.
type SummaryResult struct {
	Filename    string  `json:"filename"`
	Summary     Summary `json:"summary"`
	WorkspaceID string  `json:"workspace_id,omitempty"`
}

type Summary struct {
	ShortSummary        string              `json:"short_summary"`
	DetailedSummary     string              `json:"detailed_summary"`
	KeyPoints           []string            `json:"key_points"`
	ActionItems         []ActionItem        `json:"action_items"`
	ImportantNumbers    map[string][]string `json:"important_numbers"`
	RisksWarnings       []string            `json:"risks_warnings"`
	TechnicalHighlights []string            `json:"technical_highlights"`
	EmailIntelligence   *EmailIntelligence  `json:"email_intelligence"`
	Metadata            SummaryMetadata     `json:"metadata"`
}

type ActionItem struct {
	Action   string  `json:"action"`
	Deadline *string `json:"deadline"`
	Priority string  `json:"priority"`
}

type EmailIntelligence struct {
	Sender           string  `json:"sender"`
	Subject          string  `json:"subject"`
	Intent           string  `json:"intent"`
	Urgency          string  `json:"urgency"`
	ResponseRequired bool    `json:"response_required"`
	SuggestedReply   *string `json:"suggested_reply"`
}

type SummaryMetadata struct {
	ContentType string  `json:"content_type"`
	WordCount   int     `json:"word_count"`
	Confidence  float64 `json:"confidence"`
	ExtractedAt string  `json:"extracted_at"`
}
