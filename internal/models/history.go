package models

import (
	"time"

	"github.com/google/uuid"
)

// VIPSection groups predictions by implied-odds bucket
type VIPSection string

const (
	VIPSectionGeneral  VIPSection = "general"
	VIPSectionTwoPlus  VIPSection = "2+"
	VIPSectionFivePlus VIPSection = "5+"
)

// PredictionRecord is an append-only log entry comparing a prediction with the final result
type PredictionRecord struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	PredictionID     string     `db:"prediction_id" json:"prediction_id" validate:"required"`
	MatchID          string     `db:"match_id" json:"match_id"`
	Match            string     `db:"match" json:"match" validate:"required"`
	PredictedOutcome string     `db:"predicted_outcome" json:"predicted_outcome" validate:"required"`
	ActualOutcome    string     `db:"actual_outcome" json:"actual_outcome" validate:"required"`
	ActualScore      string     `db:"actual_score" json:"actual_score"`
	Confidence       float64    `db:"confidence" json:"confidence" validate:"gte=0,lte=100"`
	VIPSection       VIPSection `db:"vip_section" json:"vip_section" validate:"required,oneof=general 2+ 5+"`
	PredictedAt      time.Time  `db:"predicted_at" json:"predicted_at"`
	RecordedAt       time.Time  `db:"recorded_at" json:"recorded_at"`
	WasCorrect       bool       `db:"was_correct" json:"was_correct"`
}

// AccuracySummary aggregates a set of prediction records
type AccuracySummary struct {
	Total    int     `json:"total"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
}
