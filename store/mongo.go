package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"civicsync/models"
)

const (
	issueCollectionName   = "issues"
	counterCollectionName = "counters"
	issueCounterKey       = "issues"
)

// MongoIssueStore persists issues in MongoDB. Integer ids come from a
// counter document incremented atomically by the server.
type MongoIssueStore struct {
	issues   *mongo.Collection
	counters *mongo.Collection
	now      Clock
	timeout  time.Duration
}

func NewMongoIssueStore(db *mongo.Database, now Clock) *MongoIssueStore {
	if now == nil {
		now = time.Now
	}
	return &MongoIssueStore{
		issues:   db.Collection(issueCollectionName),
		counters: db.Collection(counterCollectionName),
		now:      now,
		timeout:  10 * time.Second,
	}
}

type counterDoc struct {
	ID  string `bson:"_id"`
	Seq int64  `bson:"seq"`
}

func (s *MongoIssueStore) ListIssues(ctx context.Context) ([]models.Issue, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cursor, err := s.issues.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, unavailable("list issues", err)
	}
	defer cursor.Close(ctx)

	issues := make([]models.Issue, 0)
	if err := cursor.All(ctx, &issues); err != nil {
		return nil, unavailable("decode issues", err)
	}
	return issues, nil
}

func (s *MongoIssueStore) GetIssue(ctx context.Context, id int64) (models.Issue, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var issue models.Issue
	err := s.issues.FindOne(ctx, bson.M{"_id": id}).Decode(&issue)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Issue{}, fmt.Errorf("issue %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return models.Issue{}, unavailable("find issue", err)
	}
	return issue, nil
}

func (s *MongoIssueStore) CreateIssue(ctx context.Context, reporterID int64, draft models.IssueDraft) (models.Issue, error) {
	d, err := prepareDraft(draft)
	if err != nil {
		return models.Issue{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	id, err := s.nextID(ctx)
	if err != nil {
		return models.Issue{}, err
	}

	// mongo stores millisecond precision
	issue := models.NewIssue(id, reporterID, d, s.now().UTC().Truncate(time.Millisecond))
	if _, err := s.issues.InsertOne(ctx, issue); err != nil {
		return models.Issue{}, unavailable("insert issue", err)
	}
	return issue, nil
}

func (s *MongoIssueStore) UpdateIssueStatus(ctx context.Context, id int64, status models.IssueStatus) (models.Issue, error) {
	if !status.Valid() {
		return models.Issue{}, fmt.Errorf("%w: %q", models.ErrInvalidStatus, status)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var issue models.Issue
	err := s.issues.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&issue)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Issue{}, fmt.Errorf("issue %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return models.Issue{}, unavailable("update issue status", err)
	}
	return issue, nil
}

// Seed inserts issues into an empty collection. The id counter is moved past
// the seeded ids on every call, so a counter update lost on an earlier start
// is repaired even when the collection is already populated.
func (s *MongoIssueStore) Seed(ctx context.Context, issues []models.Issue) error {
	if len(issues) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	count, err := s.issues.CountDocuments(ctx, bson.D{})
	if err != nil {
		return unavailable("count issues", err)
	}

	var maxID int64
	docs := make([]interface{}, 0, len(issues))
	for _, issue := range issues {
		docs = append(docs, issue)
		if issue.ID > maxID {
			maxID = issue.ID
		}
	}

	if count == 0 {
		if _, err := s.issues.InsertMany(ctx, docs); err != nil {
			return unavailable("seed issues", err)
		}
	}

	_, err = s.counters.UpdateOne(ctx,
		bson.M{"_id": issueCounterKey},
		bson.M{"$max": bson.M{"seq": maxID}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return unavailable("seed issue counter", err)
	}
	return nil
}

func (s *MongoIssueStore) nextID(ctx context.Context) (int64, error) {
	var counter counterDoc
	err := s.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": issueCounterKey},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, unavailable("allocate issue id", err)
	}
	return counter.Seq, nil
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, models.ErrSourceUnavailable, err)
}
