package dto

import "time"

type InsightResponse struct {
	Category string `json:"category"`
	Message  string `json:"message"`
	Polarity string `json:"polarity"`
}

type MatchResponse struct {
	OverallScore   int                `json:"overall_score"`
	CategoryScores map[string]float64 `json:"category_scores"`
	Confidence     string             `json:"confidence"`
	AlgorithmUsed  string             `json:"algorithm_used"`
	Insights       []InsightResponse  `json:"insights"`
	ComputedAt     time.Time          `json:"computed_at"`
}

type BatchMatchEntryResponse struct {
	JobID string        `json:"job_id"`
	Match MatchResponse `json:"match"`
}

type BatchMatchResponse struct {
	Results  []BatchMatchEntryResponse `json:"results"`
	Filtered int                       `json:"filtered_below_min_score"`
}

type BackendStatusResponse struct {
	Name         string   `json:"name"`
	Priority     int      `json:"priority"`
	Capabilities []string `json:"capabilities"`
	Health       string   `json:"health"`
}

type HealthResponse struct {
	Status   string                  `json:"status"`
	Backends []BackendStatusResponse `json:"backends"`
}
