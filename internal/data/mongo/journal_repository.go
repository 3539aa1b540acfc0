// Package mongo provides the MongoDB implementation of the posting journal.
// The journal is the immutable read side: postings land here once the outbox
// poller publishes them and are never updated afterwards.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aivl-fintrxn-generator/internal/domain/posting"
)

const (
	// JournalCollectionName is the name of the posting journal collection in MongoDB
	JournalCollectionName = "postings"
)

// JournalRepository implements the posting.Repository interface for MongoDB
type JournalRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewJournalRepository creates a new MongoDB posting journal repository
func NewJournalRepository(logger *slog.Logger, db *mongo.Database) posting.Repository {
	return &JournalRepository{
		db:     db,
		logger: logger,
	}
}

// Create stores a new posting after checking for duplicates.
// Returns ErrDuplicatePosting if a posting with the same ID exists.
func (r *JournalRepository) Create(ctx context.Context, p *posting.Posting) error {
	collection := r.db.Collection(JournalCollectionName)

	existing, err := r.GetByID(ctx, p.ID)
	if err != nil && !errors.Is(err, posting.ErrPostingNotFound{}) {
		r.logger.Error("Failed to check for existing posting",
			"posting_id", p.ID.String(),
			"error", err)
		return fmt.Errorf("failed to check for existing posting: %w", err)
	}

	if existing != nil {
		return posting.ErrDuplicatePosting{ID: p.ID}
	}

	_, err = collection.InsertOne(ctx, p)
	if err != nil {
		r.logger.Error("Failed to create posting",
			"posting_id", p.ID.String(),
			"error", err)
		return fmt.Errorf("failed to create posting: %w", err)
	}

	return nil
}

// GetByID retrieves a posting by its ID.
// Returns ErrPostingNotFound if no posting exists with the given ID.
func (r *JournalRepository) GetByID(ctx context.Context, id uuid.UUID) (*posting.Posting, error) {
	collection := r.db.Collection(JournalCollectionName)

	filter := bson.M{"id": id}
	var p posting.Posting
	err := collection.FindOne(ctx, filter).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, posting.ErrPostingNotFound{ID: id}
		}
		r.logger.Error("Failed to get posting",
			"posting_id", id.String(),
			"error", err)
		return nil, fmt.Errorf("failed to get posting: %w", err)
	}

	return &p, nil
}

// GetBySubjectID retrieves paginated postings derived from one contribution.
// Results are sorted by creation time in descending order (newest first).
func (r *JournalRepository) GetBySubjectID(ctx context.Context, subjectID int64, limit, offset int) ([]*posting.Posting, error) {
	collection := r.db.Collection(JournalCollectionName)

	filter := bson.M{"subject_id": subjectID}
	opts := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to get postings",
			"subject_id", subjectID,
			"error", err)
		return nil, fmt.Errorf("failed to get postings: %w", err)
	}
	defer cursor.Close(ctx)

	var postings []*posting.Posting
	if err := cursor.All(ctx, &postings); err != nil {
		r.logger.Error("Failed to decode postings",
			"subject_id", subjectID,
			"error", err)
		return nil, fmt.Errorf("failed to decode postings: %w", err)
	}

	return postings, nil
}

// CountBySubjectID counts the postings derived from one contribution.
// The classifier uses the count to tell whether a receive-date change
// rewrites history that has already been booked.
func (r *JournalRepository) CountBySubjectID(ctx context.Context, subjectID int64) (int64, error) {
	collection := r.db.Collection(JournalCollectionName)

	filter := bson.M{"subject_id": subjectID}
	count, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		r.logger.Error("Failed to count postings",
			"subject_id", subjectID,
			"error", err)
		return 0, fmt.Errorf("failed to count postings: %w", err)
	}

	return count, nil
}
