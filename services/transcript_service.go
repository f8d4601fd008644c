package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	"meetnotes/logger"
	"meetnotes/models"
)

// TranscriptStore is the persistence surface for transcripts. Lookups and
// field updates report an unknown id as mongo.ErrNoDocuments; the service
// maps that to ErrNotFound.
type TranscriptStore interface {
	Insert(ctx context.Context, t *models.Transcript) error
	FindByID(ctx context.Context, id string) (*models.Transcript, error)
	List(ctx context.Context) ([]models.Transcript, error)
	SetGeneratedSummary(ctx context.Context, id, summary string, at time.Time) error
	SetEditedSummary(ctx context.Context, id, summary string, at time.Time) error
	DeleteByID(ctx context.Context, id string) (int64, error)
}

// EmailLogStore records send-summary outcomes. Failures are logged, never
// surfaced to the caller.
type EmailLogStore interface {
	Insert(ctx context.Context, log models.EmailLog) error
}

// AILogStore records summarization calls. Failures are logged, never
// surfaced to the caller.
type AILogStore interface {
	Insert(ctx context.Context, log models.AILog) error
}

// Summarizer is the external text-generation collaborator.
type Summarizer interface {
	Summarize(ctx context.Context, text, instruction string) (string, error)
}

// Mailer is the external delivery collaborator.
type Mailer interface {
	Send(ctx context.Context, recipients []string, subject, body string) error
}

// MetricsObserver receives collaborator call outcomes. A nil observer is
// valid and disables metrics.
type MetricsObserver interface {
	ObserveSummarize(success bool, duration time.Duration)
	ObserveDelivery(status string)
}

// Dependencies bundles the collaborators of TranscriptService.
type Dependencies struct {
	Transcripts TranscriptStore
	EmailLogs   EmailLogStore
	AILogs      AILogStore
	Summarizer  Summarizer
	Mailer      Mailer
	Metrics     MetricsObserver
}

// Options carries tunables resolved from config.
type Options struct {
	ModelName        string
	DefaultSubject   string
	SummarizeTimeout time.Duration
	SendTimeout      time.Duration
}

// TranscriptService owns the transcript lifecycle: create, list, get,
// generate summary, save edited summary, email a summary, delete.
//
// Concurrency model: one interactive user per transcript is assumed.
// Concurrent summary writes to the same id race with last-write-wins;
// there is no version field.
type TranscriptService struct {
	transcripts TranscriptStore
	emailLogs   EmailLogStore
	aiLogs      AILogStore
	summarizer  Summarizer
	mailer      Mailer
	metrics     MetricsObserver

	modelName        string
	defaultSubject   string
	summarizeTimeout time.Duration
	sendTimeout      time.Duration
}

func NewTranscriptService(deps Dependencies, opts Options) *TranscriptService {
	if opts.DefaultSubject == "" {
		opts.DefaultSubject = "Meeting Summary"
	}
	if opts.SummarizeTimeout <= 0 {
		opts.SummarizeTimeout = 60 * time.Second
	}
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = 30 * time.Second
	}
	return &TranscriptService{
		transcripts:      deps.Transcripts,
		emailLogs:        deps.EmailLogs,
		aiLogs:           deps.AILogs,
		summarizer:       deps.Summarizer,
		mailer:           deps.Mailer,
		metrics:          deps.Metrics,
		modelName:        opts.ModelName,
		defaultSubject:   opts.DefaultSubject,
		summarizeTimeout: opts.SummarizeTimeout,
		sendTimeout:      opts.SendTimeout,
	}
}

// CreateTranscriptInput is the caller-supplied payload for Create.
type CreateTranscriptInput struct {
	Title        string
	OriginalText string
	CustomPrompt string
}

// Create validates and persists a new transcript. Title and original text
// must be non-empty after trimming; the custom prompt is stored as given,
// including empty.
func (s *TranscriptService) Create(ctx context.Context, in CreateTranscriptInput) (*models.Transcript, error) {
	title := strings.TrimSpace(in.Title)
	text := strings.TrimSpace(in.OriginalText)
	if title == "" {
		return nil, newValidationError("title must not be empty")
	}
	if text == "" {
		return nil, newValidationError("original_text must not be empty")
	}

	t := &models.Transcript{
		ID:           uuid.NewString(),
		Title:        title,
		OriginalText: text,
		CustomPrompt: in.CustomPrompt,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.transcripts.Insert(ctx, t); err != nil {
		return nil, fmt.Errorf("insert transcript: %w", err)
	}
	return t, nil
}

// List returns all transcripts, newest first.
func (s *TranscriptService) List(ctx context.Context) ([]models.Transcript, error) {
	return s.transcripts.List(ctx)
}

// Get returns the transcript for id or ErrNotFound.
func (s *TranscriptService) Get(ctx context.Context, id string) (*models.Transcript, error) {
	t, err := s.transcripts.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return t, nil
}

// GenerateSummary re-reads the transcript, calls the summarizer under the
// configured timeout and overwrites generated_summary with the result.
// The prior generated summary is left untouched on failure. The edited
// summary is never touched.
func (s *TranscriptService) GenerateSummary(ctx context.Context, id string) (*models.Transcript, error) {
	t, err := s.transcripts.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}

	sctx, cancel := context.WithTimeout(ctx, s.summarizeTimeout)
	defer cancel()

	requestedAt := time.Now().UTC()
	summary, sumErr := s.summarizer.Summarize(sctx, t.OriginalText, t.CustomPrompt)
	duration := time.Since(requestedAt)

	s.recordAILog(ctx, id, summary, sumErr, requestedAt, duration)
	if s.metrics != nil {
		s.metrics.ObserveSummarize(sumErr == nil, duration)
	}
	if sumErr != nil {
		return nil, &SummarizationError{Err: sumErr}
	}

	now := time.Now().UTC()
	if err := s.transcripts.SetGeneratedSummary(ctx, id, summary, now); err != nil {
		return nil, mapNotFound(err)
	}
	t.GeneratedSummary = &summary
	t.UpdatedAt = &now
	return t, nil
}

// SaveSummary stores the user-edited summary verbatim after trimming.
// The generated summary is never touched.
func (s *TranscriptService) SaveSummary(ctx context.Context, id, editedSummary string) (*models.Transcript, error) {
	edited := strings.TrimSpace(editedSummary)
	if edited == "" {
		return nil, newValidationError("edited_summary must not be empty")
	}

	t, err := s.transcripts.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}

	now := time.Now().UTC()
	if err := s.transcripts.SetEditedSummary(ctx, id, edited, now); err != nil {
		return nil, mapNotFound(err)
	}
	t.EditedSummary = &edited
	t.UpdatedAt = &now
	return t, nil
}

// SendSummaryInput is the caller-supplied payload for SendSummary.
type SendSummaryInput struct {
	Recipients []string
	Subject    string
}

// SendResult reports the outcome of one send-summary request.
type SendResult struct {
	Message    string
	Recipients []string
	Subject    string
	Sent       []string
	Failures   []models.EmailFailure
}

// SendSummary emails the edited summary when present, otherwise the
// generated one. Delivery is per recipient; partial failures are reported
// in the result, and DeliveryError is returned only when every recipient
// failed. The transcript itself is never mutated.
func (s *TranscriptService) SendSummary(ctx context.Context, id string, in SendSummaryInput) (*SendResult, error) {
	t, err := s.transcripts.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}

	recipients := cleanRecipients(in.Recipients)
	if len(recipients) == 0 {
		return nil, newValidationError("recipients must not be empty")
	}

	text := summaryToSend(t)
	if text == "" {
		return nil, newValidationError("no summary available to send")
	}

	subject := strings.TrimSpace(in.Subject)
	if subject == "" {
		subject = s.defaultSubject
	}
	body := buildEmailBody(t.Title, text)

	var (
		sent     []string
		failures []models.EmailFailure
		sendErrs []error
	)
	for _, rcpt := range recipients {
		mctx, cancel := context.WithTimeout(ctx, s.sendTimeout)
		err := s.mailer.Send(mctx, []string{rcpt}, subject, body)
		cancel()
		if err != nil {
			failures = append(failures, models.EmailFailure{Email: rcpt, Error: err.Error()})
			sendErrs = append(sendErrs, err)
			continue
		}
		sent = append(sent, rcpt)
	}

	status := models.EmailStatusSent
	switch {
	case len(sent) == 0:
		status = models.EmailStatusFailed
	case len(failures) > 0:
		status = models.EmailStatusPartial
	}
	if s.metrics != nil {
		s.metrics.ObserveDelivery(status)
	}
	log := models.EmailLog{
		TranscriptID: id,
		Recipients:   recipients,
		Subject:      subject,
		SentAt:       time.Now().UTC(),
		Status:       status,
		SentCount:    len(sent),
		FailedCount:  len(failures),
		Failures:     failures,
	}
	joinedErr := errors.Join(sendErrs...)
	if len(sent) == 0 {
		msg := joinedErr.Error()
		log.Error = &msg
	}
	s.recordEmailLog(ctx, log)

	if len(sent) == 0 {
		return nil, &DeliveryError{Err: joinedErr}
	}

	message := fmt.Sprintf("Email sent successfully to %d recipients", len(sent))
	if len(failures) > 0 {
		message = fmt.Sprintf("Email sent to %d recipients, failed for %d", len(sent), len(failures))
	}
	return &SendResult{
		Message:    message,
		Recipients: recipients,
		Subject:    subject,
		Sent:       sent,
		Failures:   failures,
	}, nil
}

// Delete removes the transcript permanently. A second delete of the same id
// returns ErrNotFound rather than succeeding silently.
func (s *TranscriptService) Delete(ctx context.Context, id string) error {
	count, err := s.transcripts.DeleteByID(ctx, id)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *TranscriptService) recordAILog(ctx context.Context, id, summary string, sumErr error, requestedAt time.Time, duration time.Duration) {
	if s.aiLogs == nil {
		return
	}
	log := models.AILog{
		TranscriptID:    id,
		ModelName:       s.modelName,
		DurationMs:      duration.Milliseconds(),
		Success:         sumErr == nil,
		ResponseExcerpt: truncate(summary, 200),
		RequestedAt:     requestedAt,
		CompletedAt:     time.Now().UTC(),
	}
	if sumErr != nil {
		msg := sumErr.Error()
		log.ErrorMessage = &msg
	}
	if err := s.aiLogs.Insert(ctx, log); err != nil {
		logger.Log.Warnf("failed to insert ai_log for transcript %s: %v", id, err)
	}
}

func (s *TranscriptService) recordEmailLog(ctx context.Context, log models.EmailLog) {
	if s.emailLogs == nil {
		return
	}
	if err := s.emailLogs.Insert(ctx, log); err != nil {
		logger.Log.Warnf("failed to insert email_log for transcript %s: %v", log.TranscriptID, err)
	}
}

// summaryToSend picks the edited summary when present, otherwise the
// generated one. Blank values count as absent.
func summaryToSend(t *models.Transcript) string {
	if t.EditedSummary != nil && strings.TrimSpace(*t.EditedSummary) != "" {
		return *t.EditedSummary
	}
	if t.GeneratedSummary != nil && strings.TrimSpace(*t.GeneratedSummary) != "" {
		return *t.GeneratedSummary
	}
	return ""
}

// cleanRecipients trims entries and drops blanks.
func cleanRecipients(recipients []string) []string {
	out := make([]string, 0, len(recipients))
	for _, r := range recipients {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		out = append(out, r)
	}
	return out
}

func buildEmailBody(title, summary string) string {
	return fmt.Sprintf("Meeting Summary: %s\n\n%s\n\n---\nThis summary was generated by AI Meeting Notes Summarizer", title, summary)
}

func mapNotFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

// truncate returns s truncated to max runes.
func truncate(s string, max int) string {
	rs := []rune(s)
	if len(rs) <= max {
		return s
	}
	return string(rs[:max])
}
