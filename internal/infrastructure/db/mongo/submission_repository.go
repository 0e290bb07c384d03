package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/creativehub/services-hub/internal/core/domain"
)

const submissionsCollection = "submissions"

// SubmissionArchive stores every accepted form submission as a document.
// It is a ports.SubmissionSink.
type SubmissionArchive struct {
	coll *mongo.Collection
}

func NewSubmissionArchive(db *mongo.Database) *SubmissionArchive {
	return &SubmissionArchive{coll: db.Collection(submissionsCollection)}
}

type submissionDoc struct {
	ID         string    `bson:"_id"`
	Kind       string    `bson:"kind"`
	Name       string    `bson:"name"`
	Email      string    `bson:"email"`
	Service    string    `bson:"service,omitempty"`
	Body       string    `bson:"body"`
	ReceivedAt time.Time `bson:"received_at"`
}

func toDocument(s domain.Submission) submissionDoc {
	return submissionDoc{
		ID:         s.ID,
		Kind:       string(s.Kind),
		Name:       s.Name,
		Email:      s.Email,
		Service:    s.Service,
		Body:       s.Body,
		ReceivedAt: s.ReceivedAt.UTC(),
	}
}

func (a *SubmissionArchive) Name() string { return "mongo" }

// EnsureIndexes creates the lookup indexes used by the back office.
func (a *SubmissionArchive) EnsureIndexes(ctx context.Context) error {
	_, err := a.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "kind", Value: 1}, {Key: "received_at", Value: -1}}},
		{Keys: bson.D{{Key: "email", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create submission indexes: %w", err)
	}
	return nil
}

// Deliver inserts the submission. A redelivered submission with the same ID
// is a no-op.
func (a *SubmissionArchive) Deliver(ctx context.Context, s domain.Submission) error {
	_, err := a.coll.InsertOne(ctx, toDocument(s))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("archive submission: %w", err)
	}
	return nil
}

// Recent returns the latest archived submissions of a kind, newest first.
func (a *SubmissionArchive) Recent(ctx context.Context, kind domain.SubmissionKind, limit int64) ([]domain.Submission, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "received_at", Value: -1}}).
		SetLimit(limit)

	cur, err := a.coll.Find(ctx, bson.M{"kind": string(kind)}, opts)
	if err != nil {
		return nil, fmt.Errorf("find submissions: %w", err)
	}
	defer cur.Close(ctx)

	var docs []submissionDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode submissions: %w", err)
	}

	out := make([]domain.Submission, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.Submission{
			ID:         d.ID,
			Kind:       domain.SubmissionKind(d.Kind),
			Name:       d.Name,
			Email:      d.Email,
			Service:    d.Service,
			Body:       d.Body,
			ReceivedAt: d.ReceivedAt,
		})
	}
	return out, nil
}
