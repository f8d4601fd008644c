package db

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"meetnotes/config"
	"meetnotes/logger"
)

var (
	clientOnce sync.Once
	client     *mongo.Client
	db         *mongo.Database
)

// Init initializes the global Mongo client and database using config values.
func Init(ctx context.Context) error {
	var initErr error
	clientOnce.Do(func() {
		cfg := config.GetConfig()
		uri := cfg.MongoURI
		if uri == "" {
			// Fallback for local docker-compose default
			uri = "mongodb://localhost:27017"
		}
		dbName := cfg.MongoDBName
		if dbName == "" {
			dbName = "meeting_notes"
		}

		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		cl, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
		if err != nil {
			initErr = err
			return
		}
		// Ping to verify connection
		if err := cl.Ping(ctx, readpref.Primary()); err != nil {
			initErr = err
			return
		}
		client = cl
		db = client.Database(dbName)

		// Ensure indexes for all collections
		if err := ensureIndexes(ctx, db); err != nil {
			initErr = err
			return
		}
		logger.Log.Info("MongoDB connected and indexes ensured")
	})
	return initErr
}

func Client() *mongo.Client     { return client }
func Database() *mongo.Database { return db }

func ensureIndexes(ctx context.Context, d *mongo.Database) error {
	// transcripts: unique index on id, secondary on created_at (desc)
	{
		if _, err := d.Collection("transcripts").Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetName("uniq_id").SetUnique(true),
		}); err != nil {
			return err
		}
		if _, err := d.Collection("transcripts").Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_created_at_desc"),
		}); err != nil {
			return err
		}
	}

	// email_logs: index on transcript_id
	{
		if _, err := d.Collection("email_logs").Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "transcript_id", Value: 1}},
			Options: options.Index().SetName("idx_transcript_id_email"),
		}); err != nil {
			return err
		}
	}

	// ai_logs: index on transcript_id
	{
		if _, err := d.Collection("ai_logs").Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "transcript_id", Value: 1}},
			Options: options.Index().SetName("idx_transcript_id_ai"),
		}); err != nil {
			return err
		}
	}
	return nil
}
