package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Email delivery statuses recorded in email_logs.
const (
	EmailStatusSent    = "sent"
	EmailStatusPartial = "partial"
	EmailStatusFailed  = "failed"
)

// EmailFailure records one recipient that could not be delivered to.
type EmailFailure struct {
	Email string `bson:"email" json:"email"`
	Error string `bson:"error" json:"error"`
}

// EmailLog stores the outcome of one send-summary request.
// Collection: email_logs
type EmailLog struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TranscriptID string             `bson:"transcript_id" json:"transcript_id"`
	Recipients   []string           `bson:"recipients" json:"recipients"`
	Subject      string             `bson:"subject" json:"subject"`
	SentAt       time.Time          `bson:"sent_at" json:"sent_at"`
	Status       string             `bson:"status" json:"status"`
	SentCount    int                `bson:"sent_count" json:"sent_count"`
	FailedCount  int                `bson:"failed_count" json:"failed_count"`
	Failures     []EmailFailure     `bson:"failures,omitempty" json:"failures,omitempty"`

	// Error summarizes the cause when no recipient could be delivered to.
	Error *string `bson:"error,omitempty" json:"error,omitempty"`
}
