package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"meetnotes/models"
)

type TranscriptRepository struct {
	col *mongo.Collection
}

func NewTranscriptRepository(db *mongo.Database) *TranscriptRepository {
	return &TranscriptRepository{col: db.Collection("transcripts")}
}

// Insert stores a new transcript document.
func (r *TranscriptRepository) Insert(ctx context.Context, t *models.Transcript) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, t)
	return err
}

// FindByID returns the transcript for the given id.
// Returns mongo.ErrNoDocuments when the id is unknown.
func (r *TranscriptRepository) FindByID(ctx context.Context, id string) (*models.Transcript, error) {
	var t models.Transcript
	if err := r.col.FindOne(ctx, bson.M{"id": id}).Decode(&t); err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns all transcripts, newest first.
func (r *TranscriptRepository) List(ctx context.Context) ([]models.Transcript, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]models.Transcript, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetGeneratedSummary overwrites generated_summary and stamps updated_at.
// Returns mongo.ErrNoDocuments when the id is unknown.
func (r *TranscriptRepository) SetGeneratedSummary(ctx context.Context, id, summary string, at time.Time) error {
	return r.setField(ctx, id, "generated_summary", summary, at)
}

// SetEditedSummary overwrites edited_summary and stamps updated_at.
// Returns mongo.ErrNoDocuments when the id is unknown.
func (r *TranscriptRepository) SetEditedSummary(ctx context.Context, id, summary string, at time.Time) error {
	return r.setField(ctx, id, "edited_summary", summary, at)
}

func (r *TranscriptRepository) setField(ctx context.Context, id, field, value string, at time.Time) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"id": id}, bson.M{
		"$set": bson.M{field: value, "updated_at": at},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// DeleteByID removes the transcript and reports how many documents matched.
func (r *TranscriptRepository) DeleteByID(ctx context.Context, id string) (int64, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
