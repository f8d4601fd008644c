package models

import (
	"time"
)

// Transcript is a meeting transcript with up to two summary variants.
// Collection: transcripts
//
// The two summary fields are intentionally independent: generated_summary
// holds the latest AI output, edited_summary holds what the user saved.
// Neither is ever derived from the other.
type Transcript struct {
	ID               string     `bson:"id" json:"id"`
	Title            string     `bson:"title" json:"title"`
	OriginalText     string     `bson:"original_text" json:"original_text"`
	CustomPrompt     string     `bson:"custom_prompt" json:"custom_prompt"`
	GeneratedSummary *string    `bson:"generated_summary" json:"generated_summary"`
	EditedSummary    *string    `bson:"edited_summary" json:"edited_summary"`
	CreatedAt        time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt        *time.Time `bson:"updated_at" json:"updated_at"`
}
