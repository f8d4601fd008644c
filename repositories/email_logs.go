package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"meetnotes/models"
)

type EmailLogRepository struct {
	col *mongo.Collection
}

func NewEmailLogRepository(db *mongo.Database) *EmailLogRepository {
	return &EmailLogRepository{col: db.Collection("email_logs")}
}

func (r *EmailLogRepository) Insert(ctx context.Context, log models.EmailLog) error {
	if log.SentAt.IsZero() {
		log.SentAt = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, log)
	return err
}
