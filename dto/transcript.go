package dto

import (
	"time"

	"meetnotes/models"
)

// CreateTranscriptRequest is the body of POST /api/transcripts.
type CreateTranscriptRequest struct {
	Title        string `json:"title"`
	OriginalText string `json:"original_text"`
	CustomPrompt string `json:"custom_prompt"`
}

// UpdateSummaryRequest is the body of PUT /api/transcripts/{id}/summary.
type UpdateSummaryRequest struct {
	EditedSummary string `json:"edited_summary"`
}

// EmailRequest is the body of POST /api/transcripts/{id}/email.
type EmailRequest struct {
	Recipients []string `json:"recipients"`
	Subject    string   `json:"subject"`
}

// TranscriptDTO is the public representation of a transcript.
type TranscriptDTO struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	OriginalText     string     `json:"original_text"`
	CustomPrompt     string     `json:"custom_prompt"`
	GeneratedSummary *string    `json:"generated_summary"`
	EditedSummary    *string    `json:"edited_summary"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at"`
}

func NewTranscriptDTO(t models.Transcript) TranscriptDTO {
	return TranscriptDTO{
		ID:               t.ID,
		Title:            t.Title,
		OriginalText:     t.OriginalText,
		CustomPrompt:     t.CustomPrompt,
		GeneratedSummary: t.GeneratedSummary,
		EditedSummary:    t.EditedSummary,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}

// TranscriptListResponse wraps the transcript listing.
type TranscriptListResponse struct {
	Transcripts []TranscriptDTO `json:"transcripts"`
}

// GenerateSummaryResponse carries the freshly generated summary text.
type GenerateSummaryResponse struct {
	Summary string `json:"summary"`
}

// EmailResponse reports the outcome of a send-summary request.
type EmailResponse struct {
	Message      string                `json:"message"`
	Recipients   []string              `json:"recipients"`
	Subject      string                `json:"subject"`
	SentEmails   []string              `json:"sent_emails"`
	FailedEmails []models.EmailFailure `json:"failed_emails,omitempty"`
}
