package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"meetnotes/models"
)

type fakeTranscriptStore struct {
	items map[string]models.Transcript
	order []string
}

func newFakeTranscriptStore() *fakeTranscriptStore {
	return &fakeTranscriptStore{items: map[string]models.Transcript{}}
}

func (f *fakeTranscriptStore) Insert(_ context.Context, t *models.Transcript) error {
	f.items[t.ID] = *t
	f.order = append(f.order, t.ID)
	return nil
}

func (f *fakeTranscriptStore) FindByID(_ context.Context, id string) (*models.Transcript, error) {
	t, ok := f.items[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	out := t
	return &out, nil
}

func (f *fakeTranscriptStore) List(_ context.Context) ([]models.Transcript, error) {
	out := make([]models.Transcript, 0, len(f.order))
	for i := len(f.order) - 1; i >= 0; i-- {
		if t, ok := f.items[f.order[i]]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTranscriptStore) SetGeneratedSummary(_ context.Context, id, summary string, at time.Time) error {
	t, ok := f.items[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	t.GeneratedSummary = &summary
	t.UpdatedAt = &at
	f.items[id] = t
	return nil
}

func (f *fakeTranscriptStore) SetEditedSummary(_ context.Context, id, summary string, at time.Time) error {
	t, ok := f.items[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	t.EditedSummary = &summary
	t.UpdatedAt = &at
	f.items[id] = t
	return nil
}

func (f *fakeTranscriptStore) DeleteByID(_ context.Context, id string) (int64, error) {
	if _, ok := f.items[id]; !ok {
		return 0, nil
	}
	delete(f.items, id)
	return 1, nil
}

type fakeSummarizer struct {
	result          string
	err             error
	waitForDeadline bool
	calls           int
	lastText        string
	lastInstruction string
	deadline        time.Time
	sawDeadline     bool
}

func (f *fakeSummarizer) Summarize(ctx context.Context, text, instruction string) (string, error) {
	f.calls++
	f.lastText = text
	f.lastInstruction = instruction
	f.deadline, f.sawDeadline = ctx.Deadline()
	if f.waitForDeadline {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if f.err != nil {
		return "", f.err
	}
	return f.result, nil
}

type sentMail struct {
	recipients []string
	subject    string
	body       string
}

type fakeMailer struct {
	failFor         map[string]error
	waitForDeadline bool
	sent            []sentMail
	deadline        time.Time
	sawDeadline     bool
}

func (f *fakeMailer) Send(ctx context.Context, recipients []string, subject, body string) error {
	f.deadline, f.sawDeadline = ctx.Deadline()
	if f.waitForDeadline {
		<-ctx.Done()
		return ctx.Err()
	}
	for _, r := range recipients {
		if err, ok := f.failFor[r]; ok {
			return err
		}
	}
	f.sent = append(f.sent, sentMail{recipients: recipients, subject: subject, body: body})
	return nil
}

type fakeEmailLogStore struct {
	logs []models.EmailLog
}

func (f *fakeEmailLogStore) Insert(_ context.Context, log models.EmailLog) error {
	f.logs = append(f.logs, log)
	return nil
}

type fakeAILogStore struct {
	logs []models.AILog
}

func (f *fakeAILogStore) Insert(_ context.Context, log models.AILog) error {
	f.logs = append(f.logs, log)
	return nil
}

type fixture struct {
	svc        *TranscriptService
	store      *fakeTranscriptStore
	summarizer *fakeSummarizer
	mailer     *fakeMailer
	emailLogs  *fakeEmailLogStore
	aiLogs     *fakeAILogStore
}

func newFixture() *fixture {
	return newFixtureWithOptions(Options{ModelName: "gemini-1.5-flash"})
}

func newFixtureWithOptions(opts Options) *fixture {
	f := &fixture{
		store:      newFakeTranscriptStore(),
		summarizer: &fakeSummarizer{result: "generated summary"},
		mailer:     &fakeMailer{},
		emailLogs:  &fakeEmailLogStore{},
		aiLogs:     &fakeAILogStore{},
	}
	f.svc = NewTranscriptService(Dependencies{
		Transcripts: f.store,
		EmailLogs:   f.emailLogs,
		AILogs:      f.aiLogs,
		Summarizer:  f.summarizer,
		Mailer:      f.mailer,
	}, opts)
	return f
}

func (f *fixture) mustCreate(t *testing.T, title, text, prompt string) *models.Transcript {
	t.Helper()
	created, err := f.svc.Create(context.Background(), CreateTranscriptInput{
		Title:        title,
		OriginalText: text,
		CustomPrompt: prompt,
	})
	require.NoError(t, err)
	return created
}

func TestCreateValidation(t *testing.T) {
	testCases := []struct {
		name  string
		title string
		text  string
	}{
		{name: "empty title", title: "", text: "some text"},
		{name: "whitespace title", title: "   ", text: "some text"},
		{name: "empty text", title: "Standup", text: ""},
		{name: "whitespace text", title: "Standup", text: "\n\t "},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			f := newFixture()
			_, err := f.svc.Create(context.Background(), CreateTranscriptInput{
				Title:        testCase.title,
				OriginalText: testCase.text,
			})
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
		})
	}
}

func TestCreateAcceptsEmptyPrompt(t *testing.T) {
	f := newFixture()
	created := f.mustCreate(t, "  Standup  ", "  Alice: shipped X.  ", "")

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Standup", created.Title)
	assert.Equal(t, "Alice: shipped X.", created.OriginalText)
	assert.Equal(t, "", created.CustomPrompt)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Nil(t, created.GeneratedSummary)
	assert.Nil(t, created.EditedSummary)
}

func TestCreateThenGetRoundtrip(t *testing.T) {
	f := newFixture()
	created := f.mustCreate(t, "Standup", "Alice: shipped X.", "bullet points")

	got, err := f.svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.Title, got.Title)
	assert.Equal(t, created.OriginalText, got.OriginalText)
	assert.Equal(t, created.CustomPrompt, got.CustomPrompt)
	assert.Equal(t, created.CreatedAt, got.CreatedAt)
}

func TestGetUnknownID(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Get(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGenerateSummaryOverwritesOnlyGenerated(t *testing.T) {
	f := newFixture()
	created := f.mustCreate(t, "Standup", "Alice: shipped X.", "focus on blockers")

	_, err := f.svc.SaveSummary(context.Background(), created.ID, "user edit")
	require.NoError(t, err)

	f.summarizer.result = "first summary"
	_, err = f.svc.GenerateSummary(context.Background(), created.ID)
	require.NoError(t, err)

	f.summarizer.result = "second summary"
	updated, err := f.svc.GenerateSummary(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.GeneratedSummary)
	assert.Equal(t, "second summary", *updated.GeneratedSummary)

	got, err := f.svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.GeneratedSummary)
	assert.Equal(t, "second summary", *got.GeneratedSummary)
	require.NotNil(t, got.EditedSummary)
	assert.Equal(t, "user edit", *got.EditedSummary)

	// The stored custom prompt is forwarded as the instruction.
	assert.Equal(t, "focus on blockers", f.summarizer.lastInstruction)
	assert.Equal(t, "Alice: shipped X.", f.summarizer.lastText)
	assert.Len(t, f.aiLogs.logs, 2)
	assert.True(t, f.aiLogs.logs[0].Success)
}

func TestGenerateSummaryFailureKeepsPrior(t *testing.T) {
	f := newFixture()
	created := f.mustCreate(t, "Standup", "Alice: shipped X.", "")

	f.summarizer.result = "first summary"
	_, err := f.svc.GenerateSummary(context.Background(), created.ID)
	require.NoError(t, err)

	f.summarizer.err = errors.New("model overloaded")
	_, err = f.svc.GenerateSummary(context.Background(), created.ID)
	var summaryErr *SummarizationError
	require.ErrorAs(t, err, &summaryErr)

	got, err := f.svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.GeneratedSummary)
	assert.Equal(t, "first summary", *got.GeneratedSummary)

	require.Len(t, f.aiLogs.logs, 2)
	assert.False(t, f.aiLogs.logs[1].Success)
	require.NotNil(t, f.aiLogs.logs[1].ErrorMessage)
}

func TestGenerateSummaryAppliesTimeout(t *testing.T) {
	const timeout = 20 * time.Millisecond
	f := newFixtureWithOptions(Options{ModelName: "gemini-1.5-flash", SummarizeTimeout: timeout})
	created := f.mustCreate(t, "Standup", "Alice: shipped X.", "")

	f.summarizer.waitForDeadline = true
	_, err := f.svc.GenerateSummary(context.Background(), created.ID)
	var summaryErr *SummarizationError
	require.ErrorAs(t, err, &summaryErr)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// The summarizer call carried the configured deadline.
	require.True(t, f.summarizer.sawDeadline)
	assert.LessOrEqual(t, time.Until(f.summarizer.deadline), timeout)

	// The timed-out attempt did not persist anything.
	got, err := f.svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Nil(t, got.GeneratedSummary)
}

func TestGenerateSummaryUnknownID(t *testing.T) {
	f := newFixture()
	_, err := f.svc.GenerateSummary(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, f.summarizer.calls)
}

func TestSaveSummary(t *testing.T) {
	f := newFixture()
	created := f.mustCreate(t, "Standup", "Alice: shipped X.", "")

	f.summarizer.result = "generated"
	_, err := f.svc.GenerateSummary(context.Background(), created.ID)
	require.NoError(t, err)

	updated, err := f.svc.SaveSummary(context.Background(), created.ID, "  - Shipped X  ")
	require.NoError(t, err)
	require.NotNil(t, updated.EditedSummary)
	assert.Equal(t, "- Shipped X", *updated.EditedSummary)

	got, err := f.svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.GeneratedSummary)
	assert.Equal(t, "generated", *got.GeneratedSummary)

	_, err = f.svc.SaveSummary(context.Background(), created.ID, "   ")
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)

	_, err = f.svc.SaveSummary(context.Background(), "no-such-id", "text")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSendSummaryValidation(t *testing.T) {
	f := newFixture()
	created := f.mustCreate(t, "Standup", "Alice: shipped X.", "")

	// No summary of either kind present.
	_, err := f.svc.SendSummary(context.Background(), created.ID, SendSummaryInput{
		Recipients: []string{"a@x.com"},
	})
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)

	// Recipients reduce to nothing after blank removal.
	_, err = f.svc.SaveSummary(context.Background(), created.ID, "notes")
	require.NoError(t, err)
	_, err = f.svc.SendSummary(context.Background(), created.ID, SendSummaryInput{
		Recipients: []string{"", "   "},
	})
	require.ErrorAs(t, err, &validationErr)

	_, err = f.svc.SendSummary(context.Background(), "no-such-id", SendSummaryInput{
		Recipients: []string{"a@x.com"},
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSendSummaryPrefersEditedOverGenerated(t *testing.T) {
	f := newFixture()
	created := f.mustCreate(t, "Standup", "Alice: shipped X.", "")

	f.summarizer.result = "generated text"
	_, err := f.svc.GenerateSummary(context.Background(), created.ID)
	require.NoError(t, err)

	// Only the generated summary exists: that is what goes out.
	res, err := f.svc.SendSummary(context.Background(), created.ID, SendSummaryInput{
		Recipients: []string{"a@x.com"},
	})
	require.NoError(t, err)
	require.Len(t, f.mailer.sent, 1)
	assert.Contains(t, f.mailer.sent[0].body, "generated text")
	assert.Equal(t, "Meeting Summary", res.Subject)

	// After an edit, the edited text wins even though both exist.
	_, err = f.svc.SaveSummary(context.Background(), created.ID, "edited text")
	require.NoError(t, err)
	_, err = f.svc.SendSummary(context.Background(), created.ID, SendSummaryInput{
		Recipients: []string{"a@x.com"},
		Subject:    "Notes",
	})
	require.NoError(t, err)
	require.Len(t, f.mailer.sent, 2)
	assert.Contains(t, f.mailer.sent[1].body, "edited text")
	assert.NotContains(t, f.mailer.sent[1].body, "generated text")
	assert.Equal(t, "Notes", f.mailer.sent[1].subject)
}

func TestSendSummaryBodyTemplate(t *testing.T) {
	f := newFixture()
	created := f.mustCreate(t, "Standup", "Alice: shipped X.", "")
	_, err := f.svc.SaveSummary(context.Background(), created.ID, "- Shipped X")
	require.NoError(t, err)

	_, err = f.svc.SendSummary(context.Background(), created.ID, SendSummaryInput{
		Recipients: []string{"a@x.com"},
	})
	require.NoError(t, err)
	require.Len(t, f.mailer.sent, 1)
	want := "Meeting Summary: Standup\n\n- Shipped X\n\n---\nThis summary was generated by AI Meeting Notes Summarizer"
	assert.Equal(t, want, f.mailer.sent[0].body)
}

func TestSendSummaryPartialFailure(t *testing.T) {
	f := newFixture()
	created := f.mustCreate(t, "Standup", "Alice: shipped X.", "")
	_, err := f.svc.SaveSummary(context.Background(), created.ID, "notes")
	require.NoError(t, err)

	f.mailer.failFor = map[string]error{"bad@x.com": errors.New("mailbox unavailable")}
	res, err := f.svc.SendSummary(context.Background(), created.ID, SendSummaryInput{
		Recipients: []string{"a@x.com", "bad@x.com", "  ", "b@x.com"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, res.Sent)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, "bad@x.com", res.Failures[0].Email)
	assert.Equal(t, "Email sent to 2 recipients, failed for 1", res.Message)

	require.Len(t, f.emailLogs.logs, 1)
	assert.Equal(t, models.EmailStatusPartial, f.emailLogs.logs[0].Status)
	assert.Equal(t, 2, f.emailLogs.logs[0].SentCount)
	assert.Equal(t, 1, f.emailLogs.logs[0].FailedCount)
}

func TestSendSummaryTotalFailure(t *testing.T) {
	f := newFixture()
	created := f.mustCreate(t, "Standup", "Alice: shipped X.", "")
	_, err := f.svc.SaveSummary(context.Background(), created.ID, "notes")
	require.NoError(t, err)

	f.mailer.failFor = map[string]error{"a@x.com": errors.New("auth failed")}
	_, err = f.svc.SendSummary(context.Background(), created.ID, SendSummaryInput{
		Recipients: []string{"a@x.com"},
	})
	var deliveryErr *DeliveryError
	require.ErrorAs(t, err, &deliveryErr)

	require.Len(t, f.emailLogs.logs, 1)
	assert.Equal(t, models.EmailStatusFailed, f.emailLogs.logs[0].Status)
	require.NotNil(t, f.emailLogs.logs[0].Error)
	assert.Contains(t, *f.emailLogs.logs[0].Error, "auth failed")
}

func TestSendSummaryAppliesTimeout(t *testing.T) {
	const timeout = 20 * time.Millisecond
	f := newFixtureWithOptions(Options{ModelName: "gemini-1.5-flash", SendTimeout: timeout})
	created := f.mustCreate(t, "Standup", "Alice: shipped X.", "")
	_, err := f.svc.SaveSummary(context.Background(), created.ID, "notes")
	require.NoError(t, err)

	f.mailer.waitForDeadline = true
	_, err = f.svc.SendSummary(context.Background(), created.ID, SendSummaryInput{
		Recipients: []string{"a@x.com"},
	})
	var deliveryErr *DeliveryError
	require.ErrorAs(t, err, &deliveryErr)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// The mailer call carried the configured deadline.
	require.True(t, f.mailer.sawDeadline)
	assert.LessOrEqual(t, time.Until(f.mailer.deadline), timeout)
}

func TestSendSummaryDoesNotMutateTranscript(t *testing.T) {
	f := newFixture()
	created := f.mustCreate(t, "Standup", "Alice: shipped X.", "")
	_, err := f.svc.SaveSummary(context.Background(), created.ID, "notes")
	require.NoError(t, err)

	before, err := f.svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	_, err = f.svc.SendSummary(context.Background(), created.ID, SendSummaryInput{
		Recipients: []string{"a@x.com"},
	})
	require.NoError(t, err)
	after, err := f.svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestDeleteThenGet(t *testing.T) {
	f := newFixture()
	created := f.mustCreate(t, "Standup", "Alice: shipped X.", "")

	require.NoError(t, f.svc.Delete(context.Background(), created.ID))

	_, err := f.svc.Get(context.Background(), created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// A second delete surfaces the absence instead of succeeding silently.
	assert.ErrorIs(t, f.svc.Delete(context.Background(), created.ID), ErrNotFound)
}

func TestListAfterDelete(t *testing.T) {
	f := newFixture()
	ids := make([]string, 0, 5)
	for i := 0; i < 5; i++ {
		created := f.mustCreate(t, fmt.Sprintf("Meeting %d", i), "text", "")
		ids = append(ids, created.ID)
	}

	require.NoError(t, f.svc.Delete(context.Background(), ids[2]))

	items, err := f.svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 4)
	for _, item := range items {
		assert.NotEqual(t, ids[2], item.ID)
	}
}

func TestEndToEndScenario(t *testing.T) {
	f := newFixture()
	created := f.mustCreate(t, "Standup", "Alice: shipped X. Bob: blocked on Y.", "")

	f.summarizer.result = "Alice shipped X; Bob is blocked on Y."
	generated, err := f.svc.GenerateSummary(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, generated.GeneratedSummary)
	assert.Equal(t, "Alice shipped X; Bob is blocked on Y.", *generated.GeneratedSummary)

	_, err = f.svc.SaveSummary(context.Background(), created.ID, "- Shipped X\n- Bob blocked on Y")
	require.NoError(t, err)

	res, err := f.svc.SendSummary(context.Background(), created.ID, SendSummaryInput{
		Recipients: []string{"a@x.com"},
		Subject:    "Notes",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a@x.com"}, res.Sent)

	require.Len(t, f.mailer.sent, 1)
	assert.Contains(t, f.mailer.sent[0].body, "- Shipped X\n- Bob blocked on Y")
	assert.NotContains(t, f.mailer.sent[0].body, "Alice shipped X; Bob is blocked on Y.")
}
