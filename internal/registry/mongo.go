package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"studyhub/internal/model"
)

// CollectionJobs is the MongoDB collection holding job records
const CollectionJobs = "jobs"

// Mongo is a MongoDB-backed Registry for deployments that opt into durable
// job records. The in-memory registry remains the default; this backend is
// selected only when a Mongo URI is configured.
type Mongo struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// ConnectMongo establishes a MongoDB connection and prepares the jobs collection
func ConnectMongo(ctx context.Context, uri, database string, timeout time.Duration) (*Mongo, error) {
	slog.Info("Connecting to MongoDB", "database", database)

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(100).
		SetMinPoolSize(10).
		SetMaxConnIdleTime(30 * time.Second).
		SetConnectTimeout(10 * time.Second).
		SetSocketTimeout(30 * time.Second).
		SetServerSelectionTimeout(10 * time.Second).
		SetRetryWrites(true).
		SetRetryReads(true).
		SetCompressors([]string{"snappy"})

	client, err := mongo.Connect(connectCtx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	m := &Mongo{
		client:     client,
		collection: client.Database(database).Collection(CollectionJobs),
	}

	if err := m.ensureIndexes(connectCtx); err != nil {
		return nil, err
	}

	slog.Info("Successfully connected to MongoDB")
	return m, nil
}

// ensureIndexes creates the indexes the monitor sweep and status filters rely on
func (m *Mongo) ensureIndexes(ctx context.Context) error {
	_, err := m.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create job indexes: %w", err)
	}
	return nil
}

// Create allocates a fresh job id and inserts a queued record
func (m *Mongo) Create(ctx context.Context, correlationID string) (string, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	job := &model.Job{
		ID:            uuid.New().String(),
		Status:        model.StatusQueued,
		CorrelationID: correlationID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := m.collection.InsertOne(ctxTimeout, job); err != nil {
		return "", fmt.Errorf("failed to create job: %w", err)
	}

	return job.ID, nil
}

// Get retrieves a job by id
func (m *Mongo) Get(ctx context.Context, id string) (model.Job, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var job model.Job
	err := m.collection.FindOne(ctxTimeout, bson.M{"_id": id}).Decode(&job)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.Job{}, ErrNotFound
		}
		return model.Job{}, fmt.Errorf("failed to get job: %w", err)
	}

	return job, nil
}

// SetStatus moves a job forward to a non-terminal status. The filter excludes
// terminal records so the transition stays forward-only.
func (m *Mongo) SetStatus(ctx context.Context, id string, status model.Status) error {
	if !status.Valid() {
		return fmt.Errorf("invalid status: %s", status)
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := m.collection.UpdateOne(ctxTimeout,
		bson.M{
			"_id":    id,
			"status": bson.M{"$nin": bson.A{model.StatusDone, model.StatusError}},
		},
		bson.M{"$set": bson.M{
			"status":     status,
			"updated_at": time.Now().UTC(),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	if result.MatchedCount == 0 {
		return m.missReason(ctx, id)
	}
	return nil
}

// SetResult commits a terminal status together with its result. A single
// document update keeps the pair atomic for concurrent readers.
func (m *Mongo) SetResult(ctx context.Context, id string, status model.Status, result *model.Result) error {
	if !status.Terminal() {
		return fmt.Errorf("status %s is not terminal", status)
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := m.collection.UpdateOne(ctxTimeout,
		bson.M{
			"_id":    id,
			"status": bson.M{"$nin": bson.A{model.StatusDone, model.StatusError}},
		},
		bson.M{"$set": bson.M{
			"status":     status,
			"result":     result,
			"updated_at": time.Now().UTC(),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to commit result: %w", err)
	}

	if res.MatchedCount == 0 {
		return m.missReason(ctx, id)
	}
	return nil
}

// missReason distinguishes a missing record from a terminal one after a
// zero-match guarded update
func (m *Mongo) missReason(ctx context.Context, id string) error {
	if _, err := m.Get(ctx, id); err != nil {
		return err
	}
	return ErrTerminal
}

// Counts returns the number of jobs per lifecycle status
func (m *Mongo) Counts(ctx context.Context) (map[model.Status]int, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	statuses := []model.Status{
		model.StatusQueued,
		model.StatusProcessing,
		model.StatusDone,
		model.StatusError,
	}

	counts := make(map[model.Status]int, len(statuses))
	for _, status := range statuses {
		n, err := m.collection.CountDocuments(ctxTimeout, bson.M{"status": status})
		if err != nil {
			return nil, fmt.Errorf("failed to count jobs: %w", err)
		}
		counts[status] = int(n)
	}

	return counts, nil
}

// Ping reports whether MongoDB is reachable
func (m *Mongo) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

// Name identifies the backend
func (m *Mongo) Name() string {
	return "mongodb"
}

// Disconnect closes the MongoDB connection
func (m *Mongo) Disconnect(ctx context.Context) error {
	slog.Info("Disconnecting from MongoDB")

	disconnectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := m.client.Disconnect(disconnectCtx); err != nil {
		return fmt.Errorf("failed to disconnect from MongoDB: %w", err)
	}

	return nil
}
